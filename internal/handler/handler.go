package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Dan9191/task-service/internal/repository"
	"github.com/Dan9191/task-service/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	svc      *service.Service
	validate *validator.Validate
	log      *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
	}
}

// decodeAndValidate decodes a JSON body into dst and runs struct validation.
// It writes the error response itself and reports whether the caller should
// continue.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeErrorMessage(w, http.StatusUnprocessableEntity, "malformed request body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		h.writeErrorMessage(w, http.StatusUnprocessableEntity, err.Error())
		return false
	}
	return true
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Errorf("Failed to encode response: %v", err)
	}
}

func (h *Handler) writeErrorMessage(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

// writeError maps service and store errors onto the HTTP taxonomy:
// conflict 400, authentication 401, not found 404, anything else 500.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		h.writeErrorMessage(w, http.StatusUnauthorized, service.ErrInvalidCredentials.Error())
	case errors.Is(err, repository.ErrConflict):
		h.writeErrorMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		h.writeErrorMessage(w, http.StatusNotFound, err.Error())
	default:
		h.log.Errorf("Storage error: %v", err)
		h.writeErrorMessage(w, http.StatusInternalServerError, "storage error")
	}
}

func setTokenCookie(w http.ResponseWriter, tokenString string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    tokenString,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
