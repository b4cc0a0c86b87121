package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"Reelgo/models"
	"Reelgo/services"
)

type contextKey string

const userContextKey contextKey = "user"

func writeUnauthorized(w http.ResponseWriter, reason string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":{"kind":"unauthorized","message":"authentication required"}}`))
	slog.Debug("Rejected unauthenticated request", "reason", reason)
}

// parseUserID converts the session value to int64 regardless of how the
// session codec round-tripped it.
func parseUserID(userID interface{}) (int64, error) {
	switch v := userID.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, strconv.ErrSyntax
	}
}

// RequireAuth resolves the session to a user and stores it on the request
// context. Requests without a valid principal never reach the handler.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := services.GetSession(r)
		if err != nil {
			writeUnauthorized(w, "no session found")
			return
		}

		userID, ok := session.Values["user_id"]
		if !ok {
			writeUnauthorized(w, "user not authenticated")
			return
		}

		userIDInt, err := parseUserID(userID)
		if err != nil {
			writeUnauthorized(w, "invalid user_id in session")
			return
		}

		user, err := services.GetUserByID(r.Context(), userIDInt)
		if err != nil {
			writeUnauthorized(w, "user not found in database")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CurrentUser returns the authenticated user placed on the context by
// RequireAuth, or nil outside an authenticated route.
func CurrentUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(userContextKey).(*models.User)
	return user
}
