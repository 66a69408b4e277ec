package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewClipRequest carries the fields for CreateClip.
type NewClipRequest struct {
	AnalysisID   string
	Name         string
	StartSeconds float64
	EndSeconds   float64
	OutputPath   string
	Notes        string
}

func (r NewClipRequest) validate() error {
	if strings.TrimSpace(r.AnalysisID) == "" {
		return wrap(ErrValidation, "clip analysis id is required", nil)
	}
	if strings.TrimSpace(r.Name) == "" {
		return wrap(ErrValidation, "clip name is required", nil)
	}
	if r.StartSeconds < 0 {
		return wrap(ErrValidation, fmt.Sprintf("clip start %.3f must not be negative", r.StartSeconds), nil)
	}
	if r.EndSeconds <= r.StartSeconds {
		return wrap(ErrValidation, fmt.Sprintf("clip end %.3f must be after start %.3f", r.EndSeconds, r.StartSeconds), nil)
	}
	return nil
}

// CreateClip records a trimmed output under its parent analysis, keeping the
// two-way clip/analysis references consistent in one transaction.
func (s *Store) CreateClip(req NewClipRequest) (Clip, error) {
	if err := req.validate(); err != nil {
		return Clip{}, err
	}

	clip := Clip{
		ID:           uuid.NewString(),
		AnalysisID:   req.AnalysisID,
		Name:         strings.TrimSpace(req.Name),
		StartSeconds: req.StartSeconds,
		EndSeconds:   req.EndSeconds,
		OutputPath:   req.OutputPath,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
		Notes:        req.Notes,
	}

	err := s.Transaction(func(cat *Catalog) error {
		parent := cat.FindAnalysis(req.AnalysisID)
		if parent == nil {
			return wrap(ErrNotFound, fmt.Sprintf("analysis %s", req.AnalysisID), nil)
		}
		cat.Clips[clip.ID] = clip
		parent.ClipIDs = append(parent.ClipIDs, clip.ID)
		return nil
	})
	if err != nil {
		return Clip{}, err
	}
	return clip, nil
}

// GetClip returns the clip from the cached snapshot.
func (s *Store) GetClip(id string) (Clip, error) {
	var found *Clip
	s.view(func(cat *Catalog) {
		if clip, ok := cat.Clips[id]; ok {
			found = &clip
		}
	})
	if found == nil {
		return Clip{}, wrap(ErrNotFound, fmt.Sprintf("clip %s", id), nil)
	}
	return *found, nil
}

// ClipsForAnalysis returns the analysis's clips in creation order.
func (s *Store) ClipsForAnalysis(analysisID string) ([]Clip, error) {
	var clips []Clip
	var missing bool
	s.view(func(cat *Catalog) {
		a := cat.FindAnalysis(analysisID)
		if a == nil {
			missing = true
			return
		}
		for _, clipID := range a.ClipIDs {
			if clip, ok := cat.Clips[clipID]; ok {
				clips = append(clips, clip)
			}
		}
	})
	if missing {
		return nil, wrap(ErrNotFound, fmt.Sprintf("analysis %s", analysisID), nil)
	}
	return clips, nil
}

// ListClips returns every clip in the catalog, unordered.
func (s *Store) ListClips() []Clip {
	var clips []Clip
	s.view(func(cat *Catalog) {
		for _, clip := range cat.Clips {
			clips = append(clips, clip)
		}
	})
	return clips
}

// DeleteClip removes the clip and its back-reference from the parent.
func (s *Store) DeleteClip(id string) error {
	return s.Transaction(func(cat *Catalog) error {
		clip, ok := cat.Clips[id]
		if !ok {
			return wrap(ErrNotFound, fmt.Sprintf("clip %s", id), nil)
		}
		delete(cat.Clips, id)
		if parent := cat.FindAnalysis(clip.AnalysisID); parent != nil {
			parent.RemoveClipID(id)
		}
		return nil
	})
}
