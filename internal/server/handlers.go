package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"clipshelf/internal/catalog"
	"clipshelf/internal/clip"
	"clipshelf/internal/config"
	"clipshelf/internal/logging"
	"clipshelf/internal/media/ffprobe"
	"clipshelf/internal/relink"
)

// Handlers holds the HTTP handlers and the components they delegate to.
type Handlers struct {
	cfg      *config.Config
	store    *catalog.Store
	pipeline *clip.Pipeline
	matcher  *relink.Matcher
	logger   *slog.Logger
}

// NewHandlers wires the API surface over the given components.
func NewHandlers(cfg *config.Config, store *catalog.Store, pipeline *clip.Pipeline, matcher *relink.Matcher, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handlers{cfg: cfg, store: store, pipeline: pipeline, matcher: matcher, logger: logger}
}

// Health handles GET /healthz.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// ListAnalyses handles GET /api/analyses. Archived records are included
// only with ?archived=true.
func (h *Handlers) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	includeArchived := r.URL.Query().Get("archived") == "true"
	analyses := h.store.ListAnalyses(includeArchived)
	if analyses == nil {
		analyses = []catalog.Analysis{}
	}
	writeJSON(w, http.StatusOK, analyses)
}

// CreateAnalysis handles POST /api/analyses.
func (h *Handlers) CreateAnalysis(w http.ResponseWriter, r *http.Request) {
	var req CreateAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_JSON")
		return
	}

	analysis, err := h.store.CreateAnalysis(req.Title, req.VideoPath, req.Files, req.Metadata)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, analysis)
}

// GetAnalysis handles GET /api/analyses/{id}.
func (h *Handlers) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	analysis, err := h.store.GetAnalysis(r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

// DeleteAnalysis handles DELETE /api/analyses/{id}. The analysis's clips
// go with it.
func (h *Handlers) DeleteAnalysis(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteAnalysis(r.PathValue("id")); err != nil {
		h.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ArchiveAnalysis handles POST /api/analyses/{id}/archive.
func (h *Handlers) ArchiveAnalysis(w http.ResponseWriter, r *http.Request) {
	analysis, err := h.store.ArchiveAnalysis(r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

// ListClips handles GET /api/analyses/{id}/clips.
func (h *Handlers) ListClips(w http.ResponseWriter, r *http.Request) {
	clips, err := h.store.ClipsForAnalysis(r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if clips == nil {
		clips = []catalog.Clip{}
	}
	writeJSON(w, http.StatusOK, clips)
}

// ExtractClip handles POST /api/analyses/{id}/clips: runs the ffmpeg
// pipeline synchronously and records the clip on success. Pipeline
// failures come back with status 200 and success=false.
func (h *Handlers) ExtractClip(w http.ResponseWriter, r *http.Request) {
	analysis, err := h.store.GetAnalysis(r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	var req ExtractClipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_JSON")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "clip name is required", "VALIDATION_ERROR")
		return
	}
	if !analysis.Video.IsLinked {
		writeError(w, http.StatusConflict, "source video is not linked", "SOURCE_UNLINKED")
		return
	}

	folder := analysis.ClipsFolder
	if folder == "" {
		folder = relink.DateFolder(analysis.CreatedTime())
	}
	stem := clip.OutputName(analysis.Video.CurrentPath, req.StartSeconds, req.EndSeconds, req.Category, req.Name, folder)
	outputPath := filepath.Join(h.cfg.ClipsDir(), folder, stem+outputExtension(analysis.Video.CurrentPath, req))

	result := h.pipeline.Extract(r.Context(), clip.Request{
		Source:       analysis.Video.CurrentPath,
		StartSeconds: req.StartSeconds,
		EndSeconds:   req.EndSeconds,
		OutputPath:   outputPath,
		ReEncode:     req.ReEncode,
		Scale:        req.Scale,
	})

	resp := ExtractClipResponse{
		Success:    result.Success,
		OutputPath: result.OutputPath,
		Duration:   result.Duration,
		FileSize:   result.FileSize,
		Error:      result.Error,
	}
	if !result.Success {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	start := 0.0
	if req.StartSeconds != nil {
		start = *req.StartSeconds
	}
	created, err := h.store.CreateClip(catalog.NewClipRequest{
		AnalysisID:   analysis.ID,
		Name:         req.Name,
		StartSeconds: start,
		EndSeconds:   start + result.Duration,
		OutputPath:   result.OutputPath,
		Notes:        req.Notes,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	resp.Clip = &created
	writeJSON(w, http.StatusCreated, resp)
}

// outputExtension keeps the source container for lossless copies and
// standardizes on mp4 for re-encodes.
func outputExtension(source string, req ExtractClipRequest) string {
	if !req.ReEncode && (req.Scale == 0 || req.Scale == 1) {
		if ext := filepath.Ext(source); ext != "" {
			return ext
		}
	}
	return ".mp4"
}

// ListAllClips handles GET /api/clips.
func (h *Handlers) ListAllClips(w http.ResponseWriter, r *http.Request) {
	clips := h.store.ListClips()
	if clips == nil {
		clips = []catalog.Clip{}
	}
	writeJSON(w, http.StatusOK, clips)
}

// GetClip handles GET /api/clips/{id}.
func (h *Handlers) GetClip(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.GetClip(r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeleteClip handles DELETE /api/clips/{id}. The catalog record goes; the
// output file stays on disk for the owner to prune.
func (h *Handlers) DeleteClip(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteClip(r.PathValue("id")); err != nil {
		h.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StreamClip handles GET /api/clips/{id}/video with byte-range support.
func (h *Handlers) StreamClip(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.GetClip(r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.serveFile(w, r, c.OutputPath)
}

// StreamSource handles GET /api/analyses/{id}/video with byte-range support.
func (h *Handlers) StreamSource(w http.ResponseWriter, r *http.Request) {
	analysis, err := h.store.GetAnalysis(r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.serveFile(w, r, analysis.Video.CurrentPath)
}

func (h *Handlers) serveFile(w http.ResponseWriter, r *http.Request, path string) {
	f, err := os.Open(path)
	if err != nil {
		writeError(w, http.StatusNotFound, "media file not found on disk", "FILE_NOT_FOUND")
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		writeError(w, http.StatusNotFound, "media file not found on disk", "FILE_NOT_FOUND")
		return
	}
	http.ServeContent(w, r, filepath.Base(path), info.ModTime(), f)
}

// ProbeSource handles GET /api/analyses/{id}/probe.
func (h *Handlers) ProbeSource(w http.ResponseWriter, r *http.Request) {
	analysis, err := h.store.GetAnalysis(r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	ffprobeBin := h.cfg.Tools.FFprobeBinary
	if ffprobeBin == "" {
		ffprobeBin = "ffprobe"
	}
	probe, err := ffprobe.Inspect(r.Context(), ffprobeBin, analysis.Video.CurrentPath)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error(), "PROBE_FAILED")
		return
	}
	writeJSON(w, http.StatusOK, MediaInfoResponse{
		DurationSeconds: probe.DurationSeconds(),
		SizeBytes:       probe.SizeBytes(),
		BitRate:         probe.BitRate(),
		VideoStreams:    probe.VideoStreamCount(),
		AudioStreams:    probe.AudioStreamCount(),
	})
}

// Relink handles POST /api/analyses/{id}/relink. An empty body or empty
// path runs the automatic matcher; a path applies a manual relink.
func (h *Handlers) Relink(w http.ResponseWriter, r *http.Request) {
	var req RelinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_JSON")
		return
	}

	var result relink.Result
	var err error
	if strings.TrimSpace(req.Path) == "" {
		result, err = h.matcher.AutoRelink(r.PathValue("id"))
	} else {
		result, err = h.matcher.ManualRelink(r.PathValue("id"), req.Path)
	}
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Verify handles POST /api/verify: a full link-health sweep.
func (h *Handlers) Verify(w http.ResponseWriter, r *http.Request) {
	summary, err := h.matcher.VerifyAll()
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Search handles GET /api/search?q=.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if strings.TrimSpace(query) == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required", "MISSING_QUERY")
		return
	}
	matches, err := h.matcher.SearchCollection(query)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if matches == nil {
		matches = []string{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Matches: matches})
}

// writeDomainError maps catalog sentinel errors onto HTTP statuses.
func (h *Handlers) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error(), "NOT_FOUND")
	case errors.Is(err, catalog.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	default:
		h.logger.Error("request failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encode response", slog.String("error", err.Error()))
	}
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}
