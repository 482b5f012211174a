package handler

import (
	"net/http"

	"github.com/Dan9191/task-service/internal/middleware"
	"github.com/Dan9191/task-service/internal/models"
	"github.com/Dan9191/task-service/internal/xmlreport"
)

type taskRequest struct {
	Title       string `json:"title" validate:"omitempty,max=50"`
	Description string `json:"description" validate:"required,max=500"`
	Status      string `json:"status" validate:"omitempty,oneof='in process' finished"`
}

// ListTasks retrieves all tasks of the authenticated user
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.writeErrorMessage(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	tasks, err := h.svc.Tasks(user.ID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, tasks)
}

// GetTask retrieves a single task owned by the authenticated user
func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.writeErrorMessage(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	taskID, err := pathID(r)
	if err != nil {
		h.writeErrorMessage(w, http.StatusUnprocessableEntity, "invalid task id")
		return
	}

	task, err := h.svc.GetTask(user.ID, taskID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, task)
}

// CreateTask creates a new task bound to the authenticated user
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.writeErrorMessage(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req taskRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	status := models.StatusInProcess
	if req.Status != "" {
		status, _ = models.ParseTaskStatus(req.Status)
	}

	task, err := h.svc.CreateTask(user.ID, req.Title, req.Description, status)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"task": task})
}

// UpdateTask updates a task owned by the authenticated user
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.writeErrorMessage(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	taskID, err := pathID(r)
	if err != nil {
		h.writeErrorMessage(w, http.StatusUnprocessableEntity, "invalid task id")
		return
	}

	var req taskRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	status := models.StatusInProcess
	if req.Status != "" {
		status, _ = models.ParseTaskStatus(req.Status)
	}

	task, err := h.svc.UpdateTask(user.ID, taskID, req.Title, req.Description, status)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"task": task})
}

// DeleteTask deletes a task owned by the authenticated user
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.writeErrorMessage(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	taskID, err := pathID(r)
	if err != nil {
		h.writeErrorMessage(w, http.StatusUnprocessableEntity, "invalid task id")
		return
	}

	if err := h.svc.DeleteTask(user.ID, taskID); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully"})
}

// ExportTasks returns the authenticated user's tasks as an XML document
func (h *Handler) ExportTasks(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.writeErrorMessage(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	tasks, err := h.svc.Tasks(user.ID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	body, err := xmlreport.Render(user, tasks)
	if err != nil {
		h.log.Errorf("Failed to render task export: %v", err)
		h.writeErrorMessage(w, http.StatusInternalServerError, "failed to render export")
		return
	}

	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
