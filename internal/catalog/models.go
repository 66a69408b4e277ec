package catalog

import (
	"slices"
	"time"
)

// SchemaVersion identifies the catalog document layout.
const SchemaVersion = "1.0"

// Catalog is the root persisted document describing all analyses and clips.
type Catalog struct {
	SchemaVersion string          `json:"schemaVersion"`
	LastUpdated   string          `json:"lastUpdated"`
	Analyses      []Analysis      `json:"analyses"`
	Clips         map[string]Clip `json:"clips"`
}

// VideoReference points from an analysis to its source file's current
// location, plus a link-health cache. IsLinked reflects path existence as of
// LastVerified only; the cache may go stale between verification sweeps.
type VideoReference struct {
	OriginalPath string `json:"originalPath"`
	CurrentPath  string `json:"currentPath"`
	IsLinked     bool   `json:"isLinked"`
	LastVerified string `json:"lastVerified"`
}

// FileBundle holds the per-analysis derived file paths owned by the analysis
// tooling.
type FileBundle struct {
	AnalysisTxt   string `json:"analysisTxt,omitempty"`
	AnalysisJSON  string `json:"analysisJson,omitempty"`
	TranscriptSRT string `json:"transcriptSrt,omitempty"`
	TranscriptTxt string `json:"transcriptTxt,omitempty"`
}

// Metadata records which models produced the analysis artifacts and the
// categories they derived.
type Metadata struct {
	AnalysisModel      string   `json:"analysisModel,omitempty"`
	TranscriptionModel string   `json:"transcriptionModel,omitempty"`
	Categories         []string `json:"categories,omitempty"`
}

// Analysis tracks one ingested video: its metadata, file bundle, source
// reference, and the set of clips derived from it.
type Analysis struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	CreatedAt   string         `json:"createdAt"`
	Archived    bool           `json:"archived"`
	Video       VideoReference `json:"video"`
	Files       FileBundle     `json:"files"`
	Metadata    Metadata       `json:"metadata"`
	ClipIDs     []string       `json:"clips"`
	ClipsFolder string         `json:"clipsFolder,omitempty"`
}

// Clip is one trimmed output derived from an analysis's source video.
// Immutable after creation except through delete.
type Clip struct {
	ID           string  `json:"id"`
	AnalysisID   string  `json:"analysisId"`
	Name         string  `json:"name"`
	StartSeconds float64 `json:"startSeconds"`
	EndSeconds   float64 `json:"endSeconds"`
	OutputPath   string  `json:"outputPath"`
	CreatedAt    string  `json:"createdAt"`
	Notes        string  `json:"notes,omitempty"`
}

// CreatedTime parses the analysis creation timestamp. Returns the zero time
// when the field is unset or malformed.
func (a *Analysis) CreatedTime() time.Time {
	t, err := time.Parse(time.RFC3339, a.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// FindAnalysis returns a pointer into the catalog's analysis slice, or nil.
func (c *Catalog) FindAnalysis(id string) *Analysis {
	for i := range c.Analyses {
		if c.Analyses[i].ID == id {
			return &c.Analyses[i]
		}
	}
	return nil
}

// RemoveClipID drops id from the analysis's clip-id list if present.
func (a *Analysis) RemoveClipID(id string) {
	a.ClipIDs = slices.DeleteFunc(a.ClipIDs, func(existing string) bool {
		return existing == id
	})
}

func newCatalog() *Catalog {
	return &Catalog{
		SchemaVersion: SchemaVersion,
		Analyses:      []Analysis{},
		Clips:         map[string]Clip{},
	}
}
