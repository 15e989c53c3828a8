package handler

import (
	"errors"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"imagestudio/internal/domain"
	"imagestudio/internal/httputil"
)

// handleError maps domain errors to problem responses. Validation
// failures from ozzo carry per-field details, surfaced under "errors".
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		var fieldErrs validation.Errors
		if errors.As(err, &fieldErrs) {
			httputil.RespondErrorWithExtras(w, http.StatusBadRequest, err.Error(), map[string]interface{}{
				"errors": fieldErrs,
			})
			return
		}
		httputil.RespondError(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())

	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, "unauthorized")

	default:
		logger.Error("request failed", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// requireUser returns the authenticated caller or writes a 401.
// The auth middleware normally guarantees presence; this guards
// misregistered routes.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := httputil.GetUserID(r)
	if userID == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
		return "", false
	}
	return userID, true
}
