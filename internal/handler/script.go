package handler

import (
	"log/slog"
	"net/http"

	scriptSvc "idive/internal/domain/services/script"
	"idive/internal/httputil"
	"idive/internal/presets"
)

// ScriptHandler handles script and history HTTP requests
type ScriptHandler struct {
	scriptService scriptSvc.ScriptService
	presets       *presets.Registry
	logger        *slog.Logger
}

// NewScriptHandler creates a new script handler
func NewScriptHandler(scriptService scriptSvc.ScriptService, presetRegistry *presets.Registry, logger *slog.Logger) *ScriptHandler {
	return &ScriptHandler{
		scriptService: scriptService,
		presets:       presetRegistry,
		logger:        logger,
	}
}

// GetScript retrieves the current script
// GET /api/scripts/{id}
func (h *ScriptHandler) GetScript(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(w, r)
	if !ok {
		return
	}

	script, err := h.scriptService.GetScript(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, script)
}

// SaveScript writes new content as the next version
// PUT /api/scripts/{id}
// Returns 409 with server_version and server_content when expected_version is stale
func (h *ScriptHandler) SaveScript(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(w, r)
	if !ok {
		return
	}

	var req scriptSvc.SaveScriptRequest
	if !parseBody(w, r, &req) {
		return
	}
	req.ScriptID = r.PathValue("id")
	req.UserID = userID

	script, err := h.scriptService.SaveScript(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, script)
}

// CreateSnapshot records the current version as a manual checkpoint
// POST /api/scripts/{id}/snapshots
func (h *ScriptHandler) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(w, r)
	if !ok {
		return
	}

	var req scriptSvc.SnapshotRequest
	if err := httputil.ParseOptionalJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.ScriptID = r.PathValue("id")
	req.UserID = userID

	entry, err := h.scriptService.Snapshot(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, entry)
}

// ListHistory lists history entries newest first
// GET /api/scripts/{id}/history?limit=N
func (h *ScriptHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(w, r)
	if !ok {
		return
	}

	limit, err := parseLimit(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.scriptService.ListHistory(r.Context(), userID, r.PathValue("id"), limit)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
	})
}

// GetHistoryEntry returns one entry with full content
// GET /api/scripts/{id}/history/{entryId}
func (h *ScriptHandler) GetHistoryEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(w, r)
	if !ok {
		return
	}

	entry, err := h.scriptService.GetHistoryEntry(r.Context(), userID, r.PathValue("id"), r.PathValue("entryId"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, entry)
}

// RestoreEntry writes a history entry's content as the next version
// POST /api/scripts/{id}/history/{entryId}/restore
func (h *ScriptHandler) RestoreEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(w, r)
	if !ok {
		return
	}

	script, err := h.scriptService.Restore(r.Context(), userID, r.PathValue("id"), r.PathValue("entryId"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, script)
}

// TransformScript rewrites the script with the text generator
// POST /api/scripts/{id}/transform
// Returns 502 when generation fails and 422 when the output is too short
func (h *ScriptHandler) TransformScript(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(w, r)
	if !ok {
		return
	}

	var req scriptSvc.TransformRequest
	if !parseBody(w, r, &req) {
		return
	}
	req.ScriptID = r.PathValue("id")
	req.UserID = userID

	script, err := h.scriptService.Transform(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, script)
}

// GenerateScript writes a new script from a brief
// POST /api/scripts/{id}/generate
func (h *ScriptHandler) GenerateScript(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(w, r)
	if !ok {
		return
	}

	var req scriptSvc.GenerateRequest
	if !parseBody(w, r, &req) {
		return
	}
	req.ScriptID = r.PathValue("id")
	req.UserID = userID

	script, err := h.scriptService.Generate(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, script)
}

// ListPresets lists the transform presets
// GET /api/transform-presets
func (h *ScriptHandler) ListPresets(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"presets": h.presets.List(),
	})
}
