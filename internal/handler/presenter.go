package handler

import (
	"log/slog"
	"net/http"

	scriptSvc "idive/internal/domain/services/script"
	"idive/internal/httputil"
)

// PresenterHandler handles presenter HTTP requests
type PresenterHandler struct {
	presenterService scriptSvc.PresenterService
	scriptService    scriptSvc.ScriptService
	logger           *slog.Logger
}

// NewPresenterHandler creates a new presenter handler
func NewPresenterHandler(presenterService scriptSvc.PresenterService, scriptService scriptSvc.ScriptService, logger *slog.Logger) *PresenterHandler {
	return &PresenterHandler{
		presenterService: presenterService,
		scriptService:    scriptService,
		logger:           logger,
	}
}

// CreatePresenter creates a new presenter
// POST /api/presenters
func (h *PresenterHandler) CreatePresenter(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(w, r)
	if !ok {
		return
	}

	var req scriptSvc.CreatePresenterRequest
	if !parseBody(w, r, &req) {
		return
	}
	req.UserID = userID

	presenter, err := h.presenterService.CreatePresenter(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, presenter)
}

// ListPresenters lists the caller's presenters
// GET /api/presenters
func (h *PresenterHandler) ListPresenters(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(w, r)
	if !ok {
		return
	}

	presenters, err := h.presenterService.ListPresenters(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, presenters)
}

// GetPresenter retrieves a presenter by ID
// GET /api/presenters/{id}
func (h *PresenterHandler) GetPresenter(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(w, r)
	if !ok {
		return
	}

	presenter, err := h.presenterService.GetPresenter(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, presenter)
}

// GetPresenterScript returns the presenter's script, creating it on first access
// GET /api/presenters/{id}/script
func (h *PresenterHandler) GetPresenterScript(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(w, r)
	if !ok {
		return
	}

	script, err := h.scriptService.EnsureScript(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, script)
}
