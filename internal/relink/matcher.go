package relink

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"clipshelf/internal/catalog"
	"clipshelf/internal/config"
	"clipshelf/internal/logging"
	"clipshelf/internal/textutil"
)

// highConfidenceThreshold separates a single actionable suggestion from a
// disambiguation list.
const highConfidenceThreshold = 0.7

// maxCandidates caps the ranked list returned to callers.
const maxCandidates = 5

// videoExtensions are the recognized source media extensions.
var videoExtensions = map[string]struct{}{
	".mp4":  {},
	".mkv":  {},
	".avi":  {},
	".mov":  {},
	".webm": {},
	".m4v":  {},
}

// Candidate is one ranked relink option.
type Candidate struct {
	Filename string  `json:"filename"`
	FullPath string  `json:"fullPath"`
	Score    float64 `json:"score"`
}

// Result reports a relink attempt. Domain failures set Success=false with a
// human-readable Reason instead of an error.
type Result struct {
	Success       bool        `json:"success"`
	SuggestedPath string      `json:"suggestedPath,omitempty"`
	Confidence    string      `json:"confidence,omitempty"`
	Candidates    []Candidate `json:"candidates,omitempty"`
	Reason        string      `json:"reason,omitempty"`
}

// Matcher ranks candidate files against broken video references and applies
// relinks through the catalog store.
type Matcher struct {
	store     *catalog.Store
	clipsRoot string
	logger    *slog.Logger
}

// NewMatcher constructs a matcher over the configured clips root.
func NewMatcher(cfg *config.Config, store *catalog.Store, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Matcher{store: store, clipsRoot: cfg.ClipsDir(), logger: logger}
}

func failure(reason string) Result {
	return Result{Reason: reason}
}

// AutoRelink scores the analysis's expected date folder against its title
// and suggests a replacement path. Every failure path returns a reason
// string; only store I/O problems surface as errors.
func (m *Matcher) AutoRelink(analysisID string) (Result, error) {
	analysis, err := m.store.GetAnalysis(analysisID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return failure(fmt.Sprintf("analysis %s not found", analysisID)), nil
		}
		return Result{}, err
	}

	created := analysis.CreatedTime()
	if created.IsZero() {
		return failure("analysis has no usable creation date"), nil
	}

	folder := filepath.Join(m.clipsRoot, DateFolder(created))
	entries, err := os.ReadDir(folder)
	if err != nil {
		return failure(fmt.Sprintf("expected folder %s does not exist", folder)), nil
	}

	candidates := m.scoreCandidates(folder, entries, analysis.Title)
	if len(candidates) == 0 {
		return failure(fmt.Sprintf("no video files in %s", folder)), nil
	}

	top := candidates
	if len(top) > maxCandidates {
		top = top[:maxCandidates]
	}

	if candidates[0].Score > highConfidenceThreshold {
		m.logger.Info("auto-relink found high-confidence match",
			slog.String("analysis", analysisID),
			slog.String("path", candidates[0].FullPath),
			slog.Float64("score", candidates[0].Score))
		return Result{
			Success:       true,
			SuggestedPath: candidates[0].FullPath,
			Confidence:    "high",
			Candidates:    top,
		}, nil
	}
	return Result{
		Success:    true,
		Confidence: "low",
		Candidates: top,
	}, nil
}

// scoreCandidates ranks recognized video files by title similarity, sorted
// descending with ties kept in directory order.
func (m *Matcher) scoreCandidates(folder string, entries []os.DirEntry, title string) []Candidate {
	var candidates []Candidate
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !recognizedExtension(name) {
			continue
		}
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		candidates = append(candidates, Candidate{
			Filename: name,
			FullPath: filepath.Join(folder, name),
			Score:    textutil.Similarity(title, stem),
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}

// ManualRelink points the analysis at an explicit path after verifying it
// exists and carries a recognized extension. Paths under the clips root
// also persist their re-derived date-folder segment.
func (m *Matcher) ManualRelink(analysisID, path string) (Result, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return failure(fmt.Sprintf("path %s does not exist", path)), nil
	}
	if !recognizedExtension(path) {
		return failure(fmt.Sprintf("unrecognized video extension %s", filepath.Ext(path))), nil
	}

	folderSegment := ""
	if rel, err := filepath.Rel(m.clipsRoot, path); err == nil && !strings.HasPrefix(rel, "..") {
		segments := strings.Split(filepath.ToSlash(rel), "/")
		if len(segments) > 1 && isDateFolder(segments[0]) {
			folderSegment = segments[0]
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = m.store.UpdateAnalysis(analysisID, func(a *catalog.Analysis) {
		a.Video.CurrentPath = path
		a.Video.IsLinked = true
		a.Video.LastVerified = now
		if folderSegment != "" {
			a.ClipsFolder = folderSegment
		}
	})
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return failure(fmt.Sprintf("analysis %s not found", analysisID)), nil
		}
		return Result{}, err
	}

	m.logger.Info("manual relink applied",
		slog.String("analysis", analysisID),
		slog.String("path", path))
	return Result{Success: true, SuggestedPath: path}, nil
}

func recognizedExtension(name string) bool {
	_, ok := videoExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}
