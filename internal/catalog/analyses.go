package catalog

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CreateAnalysis records a newly ingested video. IsLinked captures whether
// the source path existed on disk at creation time.
func (s *Store) CreateAnalysis(title, videoPath string, files FileBundle, meta Metadata) (Analysis, error) {
	title = strings.TrimSpace(title)
	videoPath = strings.TrimSpace(videoPath)
	if title == "" {
		return Analysis{}, wrap(ErrValidation, "analysis title is required", nil)
	}
	if videoPath == "" {
		return Analysis{}, wrap(ErrValidation, "analysis video path is required", nil)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	linked := false
	if _, err := os.Stat(videoPath); err == nil {
		linked = true
	}

	analysis := Analysis{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: now,
		Video: VideoReference{
			OriginalPath: videoPath,
			CurrentPath:  videoPath,
			IsLinked:     linked,
			LastVerified: now,
		},
		Files:    files,
		Metadata: meta,
		ClipIDs:  []string{},
	}

	err := s.Transaction(func(cat *Catalog) error {
		cat.Analyses = append(cat.Analyses, analysis)
		return nil
	})
	if err != nil {
		return Analysis{}, err
	}
	return analysis, nil
}

// GetAnalysis returns the analysis from the cached snapshot.
func (s *Store) GetAnalysis(id string) (Analysis, error) {
	var found *Analysis
	s.view(func(cat *Catalog) {
		if a := cat.FindAnalysis(id); a != nil {
			clone := *a
			found = &clone
		}
	})
	if found == nil {
		return Analysis{}, wrap(ErrNotFound, fmt.Sprintf("analysis %s", id), nil)
	}
	return *found, nil
}

// ListAnalyses returns all analyses from the cached snapshot. Archived
// records are included only when requested.
func (s *Store) ListAnalyses(includeArchived bool) []Analysis {
	var out []Analysis
	s.view(func(cat *Catalog) {
		for _, a := range cat.Analyses {
			if a.Archived && !includeArchived {
				continue
			}
			out = append(out, a)
		}
	})
	return out
}

// UpdateAnalysis applies mutate to the stored analysis inside a transaction.
func (s *Store) UpdateAnalysis(id string, mutate func(*Analysis)) (Analysis, error) {
	var updated Analysis
	err := s.Transaction(func(cat *Catalog) error {
		a := cat.FindAnalysis(id)
		if a == nil {
			return wrap(ErrNotFound, fmt.Sprintf("analysis %s", id), nil)
		}
		mutate(a)
		updated = *a
		return nil
	})
	if err != nil {
		return Analysis{}, err
	}
	return updated, nil
}

// ArchiveAnalysis flags the analysis as archived. Archival is the normal
// end-of-life path; records are deleted only on explicit request.
func (s *Store) ArchiveAnalysis(id string) (Analysis, error) {
	return s.UpdateAnalysis(id, func(a *Analysis) {
		a.Archived = true
	})
}

// UpdateVideoReference replaces the analysis's video reference.
func (s *Store) UpdateVideoReference(id string, video VideoReference) (Analysis, error) {
	return s.UpdateAnalysis(id, func(a *Analysis) {
		a.Video = video
	})
}

// DeleteAnalysis removes the analysis and every clip it owns in the same
// transaction, so no orphaned clips can persist.
func (s *Store) DeleteAnalysis(id string) error {
	return s.Transaction(func(cat *Catalog) error {
		a := cat.FindAnalysis(id)
		if a == nil {
			return wrap(ErrNotFound, fmt.Sprintf("analysis %s", id), nil)
		}
		for _, clipID := range a.ClipIDs {
			delete(cat.Clips, clipID)
		}
		kept := cat.Analyses[:0]
		for _, existing := range cat.Analyses {
			if existing.ID != id {
				kept = append(kept, existing)
			}
		}
		cat.Analyses = kept
		return nil
	})
}
