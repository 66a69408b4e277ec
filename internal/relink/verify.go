package relink

import (
	"log/slog"
	"os"
	"time"

	"clipshelf/internal/catalog"
)

// VerificationSummary reports a bulk sweep's transitions.
type VerificationSummary struct {
	Total  int `json:"total"`
	Linked int `json:"linked"`
	Broken int `json:"broken"`
	Fixed  int `json:"fixed"`
}

// VerifyAll checks current-path existence for every analysis and reconciles
// the isLinked cache, persisting only records whose state changed — one
// transaction per changed record. The sweep is sequential: a mid-sweep
// failure leaves earlier updates persisted and the rest untouched, so a
// rerun resumes idempotently.
func (m *Matcher) VerifyAll() (VerificationSummary, error) {
	if err := m.store.Reload(); err != nil {
		return VerificationSummary{}, err
	}

	var summary VerificationSummary
	for _, analysis := range m.store.ListAnalyses(true) {
		summary.Total++

		_, statErr := os.Stat(analysis.Video.CurrentPath)
		exists := statErr == nil

		switch {
		case analysis.Video.IsLinked && exists:
			summary.Linked++
		case !analysis.Video.IsLinked && !exists:
			summary.Broken++
		case !analysis.Video.IsLinked && exists:
			if err := m.persistLinkState(analysis.ID, true); err != nil {
				return summary, err
			}
			summary.Fixed++
			summary.Linked++
		default: // linked but gone
			if err := m.persistLinkState(analysis.ID, false); err != nil {
				return summary, err
			}
			summary.Broken++
		}
	}

	m.logger.Info("verification sweep complete",
		slog.Int("total", summary.Total),
		slog.Int("linked", summary.Linked),
		slog.Int("broken", summary.Broken),
		slog.Int("fixed", summary.Fixed))
	return summary, nil
}

func (m *Matcher) persistLinkState(analysisID string, linked bool) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := m.store.UpdateAnalysis(analysisID, func(a *catalog.Analysis) {
		a.Video.IsLinked = linked
		a.Video.LastVerified = now
	})
	return err
}
