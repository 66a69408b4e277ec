package relink_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"clipshelf/internal/catalog"
	"clipshelf/internal/config"
	"clipshelf/internal/logging"
	"clipshelf/internal/relink"
	"clipshelf/internal/testsupport"
)

type fixture struct {
	cfg     *config.Config
	store   *catalog.Store
	matcher *relink.Matcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store, err := catalog.Open(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return &fixture{
		cfg:     cfg,
		store:   store,
		matcher: relink.NewMatcher(cfg, store, logging.NewNop()),
	}
}

// currentDateFolder returns the date folder a just-created analysis lands in.
func currentDateFolder() string {
	return relink.DateFolder(time.Now().UTC())
}

func TestDateFolder(t *testing.T) {
	cases := []struct {
		day  string
		want string
	}{
		{"2024-06-02", "2024-06-02"}, // Sunday maps to itself
		{"2024-06-03", "2024-06-02"}, // Monday
		{"2024-06-05", "2024-06-02"}, // Wednesday
		{"2024-06-08", "2024-06-02"}, // Saturday
		{"2024-06-09", "2024-06-09"}, // next Sunday
	}
	for _, tc := range cases {
		day, err := time.Parse("2006-01-02", tc.day)
		if err != nil {
			t.Fatal(err)
		}
		if got := relink.DateFolder(day); got != tc.want {
			t.Errorf("DateFolder(%s) = %s, want %s", tc.day, got, tc.want)
		}
	}
}

func TestAutoRelinkHighConfidence(t *testing.T) {
	f := newFixture(t)
	analysis, err := f.store.CreateAnalysis("Garden Timelapse", "/gone/garden.mp4", catalog.FileBundle{}, catalog.Metadata{})
	if err != nil {
		t.Fatal(err)
	}

	folder := filepath.Join(f.cfg.ClipsDir(), currentDateFolder())
	testsupport.WriteFile(t, filepath.Join(folder, "Garden Timelapse.mp4"), 32)
	testsupport.WriteFile(t, filepath.Join(folder, "unrelated footage.mp4"), 32)

	result, err := f.matcher.AutoRelink(analysis.ID)
	if err != nil {
		t.Fatalf("AutoRelink: %v", err)
	}
	if !result.Success || result.Confidence != "high" {
		t.Fatalf("expected high-confidence result, got %+v", result)
	}
	if result.SuggestedPath != filepath.Join(folder, "Garden Timelapse.mp4") {
		t.Fatalf("wrong suggestion: %s", result.SuggestedPath)
	}
	if len(result.Candidates) == 0 || result.Candidates[0].Score != 1.0 {
		t.Fatalf("top candidate should score 1.0: %+v", result.Candidates)
	}
}

func TestAutoRelinkLowConfidence(t *testing.T) {
	f := newFixture(t)
	analysis, err := f.store.CreateAnalysis("quarterly finance review", "/gone/review.mp4", catalog.FileBundle{}, catalog.Metadata{})
	if err != nil {
		t.Fatal(err)
	}

	folder := filepath.Join(f.cfg.ClipsDir(), currentDateFolder())
	for _, name := range []string{"birds.mp4", "clouds.mkv", "ocean.mov"} {
		testsupport.WriteFile(t, filepath.Join(folder, name), 16)
	}

	result, err := f.matcher.AutoRelink(analysis.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success || result.Confidence != "low" {
		t.Fatalf("expected low-confidence result, got %+v", result)
	}
	if result.SuggestedPath != "" {
		t.Fatalf("low confidence must not pick a single path: %+v", result)
	}
	if len(result.Candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(result.Candidates))
	}
	for i := 1; i < len(result.Candidates); i++ {
		if result.Candidates[i].Score > result.Candidates[i-1].Score {
			t.Fatalf("candidates not sorted descending: %+v", result.Candidates)
		}
	}
}

func TestAutoRelinkMissingFolder(t *testing.T) {
	f := newFixture(t)
	analysis, err := f.store.CreateAnalysis("Orphan", "/gone/orphan.mp4", catalog.FileBundle{}, catalog.Metadata{})
	if err != nil {
		t.Fatal(err)
	}

	result, err := f.matcher.AutoRelink(analysis.ID)
	if err != nil {
		t.Fatal(err)
	}
	if result.Success || result.Reason == "" {
		t.Fatalf("expected reason for missing folder, got %+v", result)
	}
}

func TestAutoRelinkNoVideoFiles(t *testing.T) {
	f := newFixture(t)
	analysis, err := f.store.CreateAnalysis("Nothing Here", "/gone/nothing.mp4", catalog.FileBundle{}, catalog.Metadata{})
	if err != nil {
		t.Fatal(err)
	}

	folder := filepath.Join(f.cfg.ClipsDir(), currentDateFolder())
	testsupport.WriteFile(t, filepath.Join(folder, "notes.txt"), 8)

	result, err := f.matcher.AutoRelink(analysis.ID)
	if err != nil {
		t.Fatal(err)
	}
	if result.Success || result.Reason == "" {
		t.Fatalf("expected reason for folder without videos, got %+v", result)
	}
}

func TestAutoRelinkUnknownAnalysis(t *testing.T) {
	f := newFixture(t)
	result, err := f.matcher.AutoRelink("nope")
	if err != nil {
		t.Fatalf("unknown analysis must not error: %v", err)
	}
	if result.Success || result.Reason == "" {
		t.Fatalf("expected reason result, got %+v", result)
	}
}

func TestManualRelinkUpdatesReference(t *testing.T) {
	f := newFixture(t)
	analysis, err := f.store.CreateAnalysis("Workshop", "/gone/workshop.mp4", catalog.FileBundle{}, catalog.Metadata{})
	if err != nil {
		t.Fatal(err)
	}

	target := filepath.Join(f.cfg.ClipsDir(), "2024-06-02", "workshop recording.mp4")
	testsupport.WriteFile(t, target, 64)

	result, err := f.matcher.ManualRelink(analysis.ID, target)
	if err != nil {
		t.Fatalf("ManualRelink: %v", err)
	}
	if !result.Success {
		t.Fatalf("manual relink failed: %+v", result)
	}

	updated, err := f.store.GetAnalysis(analysis.ID)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Video.CurrentPath != target || !updated.Video.IsLinked {
		t.Fatalf("reference not updated: %+v", updated.Video)
	}
	if updated.Video.OriginalPath != "/gone/workshop.mp4" {
		t.Fatalf("original path must stay immutable: %s", updated.Video.OriginalPath)
	}
	if updated.ClipsFolder != "2024-06-02" {
		t.Fatalf("date-folder segment not persisted: %q", updated.ClipsFolder)
	}
	if updated.Video.LastVerified == "" {
		t.Fatal("lastVerified not refreshed")
	}
}

func TestManualRelinkOutsideClipsRoot(t *testing.T) {
	f := newFixture(t)
	analysis, err := f.store.CreateAnalysis("Elsewhere", "/gone/elsewhere.mp4", catalog.FileBundle{}, catalog.Metadata{})
	if err != nil {
		t.Fatal(err)
	}

	target := filepath.Join(t.TempDir(), "elsewhere.mkv")
	testsupport.WriteFile(t, target, 64)

	result, err := f.matcher.ManualRelink(analysis.ID, target)
	if err != nil || !result.Success {
		t.Fatalf("relink outside clips root should succeed: %v %+v", err, result)
	}
	updated, err := f.store.GetAnalysis(analysis.ID)
	if err != nil {
		t.Fatal(err)
	}
	if updated.ClipsFolder != "" {
		t.Fatalf("no date-folder segment expected: %q", updated.ClipsFolder)
	}
}

func TestManualRelinkRejections(t *testing.T) {
	f := newFixture(t)
	analysis, err := f.store.CreateAnalysis("Picky", "/gone/picky.mp4", catalog.FileBundle{}, catalog.Metadata{})
	if err != nil {
		t.Fatal(err)
	}

	result, err := f.matcher.ManualRelink(analysis.ID, "/does/not/exist.mp4")
	if err != nil {
		t.Fatal(err)
	}
	if result.Success || result.Reason == "" {
		t.Fatalf("expected missing-path reason, got %+v", result)
	}

	text := filepath.Join(t.TempDir(), "notes.txt")
	testsupport.WriteFile(t, text, 8)
	result, err = f.matcher.ManualRelink(analysis.ID, text)
	if err != nil {
		t.Fatal(err)
	}
	if result.Success || result.Reason == "" {
		t.Fatalf("expected extension reason, got %+v", result)
	}
}

func TestVerifyAllTransitions(t *testing.T) {
	f := newFixture(t)
	media := t.TempDir()

	// still-linked: created against an existing file that stays put.
	stable := filepath.Join(media, "stable.mp4")
	testsupport.WriteFile(t, stable, 16)
	if _, err := f.store.CreateAnalysis("Stable", stable, catalog.FileBundle{}, catalog.Metadata{}); err != nil {
		t.Fatal(err)
	}

	// still-broken: never existed.
	if _, err := f.store.CreateAnalysis("Gone", filepath.Join(media, "never.mp4"), catalog.FileBundle{}, catalog.Metadata{}); err != nil {
		t.Fatal(err)
	}

	// newly-fixed: missing at creation, appears before the sweep.
	lateFile := filepath.Join(media, "late.mp4")
	late, err := f.store.CreateAnalysis("Late", lateFile, catalog.FileBundle{}, catalog.Metadata{})
	if err != nil {
		t.Fatal(err)
	}
	if late.Video.IsLinked {
		t.Fatal("fixture error: late file should start broken")
	}
	testsupport.WriteFile(t, lateFile, 16)

	// newly-broken: existed at creation, removed before the sweep.
	vanishing := filepath.Join(media, "vanishing.mp4")
	testsupport.WriteFile(t, vanishing, 16)
	if _, err := f.store.CreateAnalysis("Vanishing", vanishing, catalog.FileBundle{}, catalog.Metadata{}); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(vanishing); err != nil {
		t.Fatal(err)
	}

	summary, err := f.matcher.VerifyAll()
	if err != nil {
		t.Fatalf("VerifyAll: %v", err)
	}
	want := relink.VerificationSummary{Total: 4, Linked: 2, Broken: 2, Fixed: 1}
	if summary != want {
		t.Fatalf("summary = %+v, want %+v", summary, want)
	}

	// A second sweep with no filesystem changes is a no-op.
	again, err := f.matcher.VerifyAll()
	if err != nil {
		t.Fatal(err)
	}
	want.Fixed = 0
	if again != want {
		t.Fatalf("second sweep = %+v, want %+v", again, want)
	}

	updated, err := f.store.GetAnalysis(late.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !updated.Video.IsLinked {
		t.Fatal("newly-fixed record not persisted")
	}
}

func TestSearchCollection(t *testing.T) {
	f := newFixture(t)

	testsupport.WriteFile(t, filepath.Join(f.cfg.ClipsDir(), "2024-05-26", "Board Meeting.mp4"), 16)
	testsupport.WriteFile(t, filepath.Join(f.cfg.ClipsDir(), "2024-06-02", "meeting notes.mkv"), 16)
	testsupport.WriteFile(t, filepath.Join(f.cfg.ClipsDir(), "2024-06-02", "picnic.mp4"), 16)
	// Non-date folders are skipped.
	testsupport.WriteFile(t, filepath.Join(f.cfg.ClipsDir(), "archive", "old meeting.mp4"), 16)

	matches, err := f.matcher.SearchCollection("MEETING")
	if err != nil {
		t.Fatalf("SearchCollection: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %v", matches)
	}

	none, err := f.matcher.SearchCollection("zebra")
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no matches, got %v", none)
	}
}
