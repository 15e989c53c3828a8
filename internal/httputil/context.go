package httputil

import (
	"context"
	"net/http"

	"imagestudio/internal/domain/models"
)

// Context key type to avoid collisions
type contextKey string

const authUserKey contextKey = "authUser"

// WithAuthUser adds the authenticated caller to the request context
func WithAuthUser(r *http.Request, user *models.AuthUser) *http.Request {
	ctx := context.WithValue(r.Context(), authUserKey, user)
	return r.WithContext(ctx)
}

// GetAuthUser retrieves the authenticated caller, or nil if not set
func GetAuthUser(r *http.Request) *models.AuthUser {
	user, _ := r.Context().Value(authUserKey).(*models.AuthUser)
	return user
}

// GetUserID retrieves the caller's user ID, or empty string if not set
func GetUserID(r *http.Request) string {
	if user := GetAuthUser(r); user != nil {
		return user.ID
	}
	return ""
}
