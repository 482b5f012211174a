package handler

import (
	"net/http"

	"github.com/Dan9191/task-service/internal/models"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,max=30"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateUserRequest struct {
	Username string `json:"username" validate:"required,max=30"`
	Email    string `json:"email" validate:"required,email,max=254"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func toUserResponse(user *models.User) userResponse {
	return userResponse{ID: user.ID, Username: user.Username, Email: user.Email}
}

// Register handles user registration. The fresh token is set as a cookie so
// the client is logged in right away.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	user, tokenString, err := h.svc.Register(req.Username, req.Email, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}

	setTokenCookie(w, tokenString)
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "User created successfully",
		"user_data": toUserResponse(user),
	})
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	user, tokenString, err := h.svc.Login(req.Username, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}

	setTokenCookie(w, tokenString)
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Login successful",
		"token":     tokenString,
		"user_data": toUserResponse(user),
	})
}

// Token implements the OAuth2 password flow: form-encoded credentials in,
// bearer token out.
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.writeErrorMessage(w, http.StatusUnprocessableEntity, "malformed form body")
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		h.writeErrorMessage(w, http.StatusUnprocessableEntity, "username and password are required")
		return
	}

	_, tokenString, err := h.svc.Login(username, password)
	if err != nil {
		h.writeError(w, err)
		return
	}

	setTokenCookie(w, tokenString)
	h.writeJSON(w, http.StatusOK, map[string]string{
		"access_token": tokenString,
		"token_type":   "bearer",
	})
}

// ListUsers retrieves all users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers()
	if err != nil {
		h.writeError(w, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	h.writeJSON(w, http.StatusOK, out)
}

// GetUser retrieves a single user by id
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeErrorMessage(w, http.StatusUnprocessableEntity, "invalid user id")
		return
	}

	user, err := h.svc.GetUser(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toUserResponse(user))
}

// UpdateUser updates username and email of an existing user
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeErrorMessage(w, http.StatusUnprocessableEntity, "invalid user id")
		return
	}

	var req updateUserRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.svc.UpdateUser(id, req.Username, req.Email)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{
		"username": user.Username,
		"email":    user.Email,
	})
}

// DeleteUser deletes a user together with the user's tasks
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeErrorMessage(w, http.StatusUnprocessableEntity, "invalid user id")
		return
	}

	if err := h.svc.DeleteUser(id); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}
