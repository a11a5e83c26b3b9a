package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"idive/internal/domain"
	"idive/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var (
		versionErr  *domain.ScriptConflictError
		conflictErr *domain.ConflictError
		tooShortErr *domain.ContentTooShortError
		genErr      *domain.GenerationFailedError
	)

	switch {
	case errors.As(err, &versionErr):
		httputil.RespondErrorWithExtras(w, http.StatusConflict, versionErr.Error(), map[string]interface{}{
			"script_id":        versionErr.ScriptID,
			"expected_version": versionErr.ExpectedVersion,
			"server_version":   versionErr.ServerVersion,
			"server_content":   versionErr.ServerContent,
		})
	case errors.As(err, &tooShortErr):
		httputil.RespondErrorWithExtras(w, http.StatusUnprocessableEntity, tooShortErr.Error(), map[string]interface{}{
			"length":  tooShortErr.Length,
			"minimum": tooShortErr.Minimum,
		})
	case errors.As(err, &genErr):
		// The provider error can carry request details; keep it in the logs
		slog.Error("generation failed", "error", err)
		httputil.RespondError(w, http.StatusBadGateway, "generation failed: "+genErr.Reason)
	case errors.Is(err, domain.ErrStorage):
		slog.Error("storage error", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, "forbidden")
	case errors.As(err, &conflictErr):
		httputil.RespondError(w, http.StatusConflict, conflictErr.Error())
	default:
		slog.Error("unexpected error", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// getUserID returns the authenticated user, writing a 401 when there is none
func getUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := httputil.GetUserID(r)
	if userID == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return "", false
	}
	return userID, true
}

// parseBody decodes the JSON body, writing a 400 on failure
func parseBody(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	if err := httputil.ParseJSON(w, r, dest); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// parseLimit reads the optional ?limit= query parameter (0 when absent)
func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, errors.New("limit must be a non-negative integer")
	}
	return limit, nil
}
