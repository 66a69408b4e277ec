package server

import "clipshelf/internal/catalog"

// CreateAnalysisRequest is the body for registering an ingested video.
type CreateAnalysisRequest struct {
	Title     string             `json:"title"`
	VideoPath string             `json:"videoPath"`
	Files     catalog.FileBundle `json:"files"`
	Metadata  catalog.Metadata   `json:"metadata"`
}

// ExtractClipRequest is the body for cutting a clip from an analysis's
// source video. Nil startSeconds means 0; nil endSeconds means the end of
// the source.
type ExtractClipRequest struct {
	Name         string   `json:"name"`
	Category     string   `json:"category,omitempty"`
	StartSeconds *float64 `json:"startSeconds,omitempty"`
	EndSeconds   *float64 `json:"endSeconds,omitempty"`
	ReEncode     bool     `json:"reEncode,omitempty"`
	Scale        float64  `json:"scale,omitempty"`
	Notes        string   `json:"notes,omitempty"`
}

// ExtractClipResponse pairs the pipeline outcome with the catalog record
// created on success.
type ExtractClipResponse struct {
	Success    bool          `json:"success"`
	OutputPath string        `json:"outputPath,omitempty"`
	Duration   float64       `json:"duration,omitempty"`
	FileSize   int64         `json:"fileSize,omitempty"`
	Error      string        `json:"error,omitempty"`
	Clip       *catalog.Clip `json:"clip,omitempty"`
}

// RelinkRequest selects manual relinking when Path is set; otherwise the
// matcher scores the expected date folder automatically.
type RelinkRequest struct {
	Path string `json:"path,omitempty"`
}

// MediaInfoResponse is the probed shape of a source video.
type MediaInfoResponse struct {
	DurationSeconds float64 `json:"durationSeconds"`
	SizeBytes       int64   `json:"sizeBytes"`
	BitRate         int64   `json:"bitRate,omitempty"`
	VideoStreams    int     `json:"videoStreams"`
	AudioStreams    int     `json:"audioStreams"`
}

// SearchResponse lists full paths matching a collection search.
type SearchResponse struct {
	Matches []string `json:"matches"`
}

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HealthResponse is the healthz body.
type HealthResponse struct {
	Status string `json:"status"`
}
