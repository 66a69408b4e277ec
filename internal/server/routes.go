package server

import (
	"log/slog"
	"net/http"
)

// NewRouter builds the method-routed mux (Go 1.22+ patterns) wrapped in the
// recovery and logging middleware chain.
func NewRouter(h *Handlers, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.Health)

	mux.HandleFunc("GET /api/analyses", h.ListAnalyses)
	mux.HandleFunc("POST /api/analyses", h.CreateAnalysis)
	mux.HandleFunc("GET /api/analyses/{id}", h.GetAnalysis)
	mux.HandleFunc("DELETE /api/analyses/{id}", h.DeleteAnalysis)
	mux.HandleFunc("POST /api/analyses/{id}/archive", h.ArchiveAnalysis)
	mux.HandleFunc("GET /api/analyses/{id}/clips", h.ListClips)
	mux.HandleFunc("POST /api/analyses/{id}/clips", h.ExtractClip)
	mux.HandleFunc("GET /api/analyses/{id}/video", h.StreamSource)
	mux.HandleFunc("GET /api/analyses/{id}/probe", h.ProbeSource)
	mux.HandleFunc("POST /api/analyses/{id}/relink", h.Relink)

	mux.HandleFunc("GET /api/clips", h.ListAllClips)
	mux.HandleFunc("GET /api/clips/{id}", h.GetClip)
	mux.HandleFunc("DELETE /api/clips/{id}", h.DeleteClip)
	mux.HandleFunc("GET /api/clips/{id}/video", h.StreamClip)

	mux.HandleFunc("POST /api/verify", h.Verify)
	mux.HandleFunc("GET /api/search", h.Search)

	chain := ChainMiddleware(
		RecoveryMiddleware(logger),
		LoggingMiddleware(logger),
	)
	return chain(mux)
}
