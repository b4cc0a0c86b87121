package handlers

import (
	"log/slog"
	"net/http"

	"Reelgo/models"
	"Reelgo/services"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := services.RegisterUser(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		slog.Error("Registration failed", "username", req.Username, "error", err)
		writeServiceError(w, err)
		return
	}

	if err := setupUserSession(w, r, user); err != nil {
		slog.Error("Failed to create session", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "failed to create session")
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := services.AuthenticateUser(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := setupUserSession(w, r, user); err != nil {
		slog.Error("Failed to create session", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "failed to create session")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	session, err := services.GetSession(r)
	if err == nil {
		session.Options.MaxAge = -1
		if err := services.SaveSession(w, r, session); err != nil {
			slog.Error("Failed to clear session", "error", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func setupUserSession(w http.ResponseWriter, r *http.Request, user *models.User) error {
	session, err := services.GetSession(r)
	if err != nil {
		return err
	}

	session.Values["user_id"] = user.ID
	session.Values["username"] = user.Username

	return services.SaveSession(w, r, session)
}
