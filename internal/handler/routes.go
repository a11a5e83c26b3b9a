package handler

import "net/http"

// NewRouter registers every API route (Go 1.22+ method and wildcard patterns)
func NewRouter(presenters *PresenterHandler, scripts *ScriptHandler, health *HealthHandler) *http.ServeMux {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", health.HealthCheck)

	// Presenter routes
	mux.HandleFunc("POST /api/presenters", presenters.CreatePresenter)
	mux.HandleFunc("GET /api/presenters", presenters.ListPresenters)
	mux.HandleFunc("GET /api/presenters/{id}", presenters.GetPresenter)
	mux.HandleFunc("GET /api/presenters/{id}/script", presenters.GetPresenterScript)

	// Script routes
	mux.HandleFunc("GET /api/scripts/{id}", scripts.GetScript)
	mux.HandleFunc("PUT /api/scripts/{id}", scripts.SaveScript)
	mux.HandleFunc("POST /api/scripts/{id}/snapshots", scripts.CreateSnapshot)
	mux.HandleFunc("POST /api/scripts/{id}/transform", scripts.TransformScript)
	mux.HandleFunc("POST /api/scripts/{id}/generate", scripts.GenerateScript)

	// History routes
	mux.HandleFunc("GET /api/scripts/{id}/history", scripts.ListHistory)
	mux.HandleFunc("GET /api/scripts/{id}/history/{entryId}", scripts.GetHistoryEntry)
	mux.HandleFunc("POST /api/scripts/{id}/history/{entryId}/restore", scripts.RestoreEntry)

	mux.HandleFunc("GET /api/transform-presets", scripts.ListPresets)

	return mux
}
