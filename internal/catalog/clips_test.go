package catalog_test

import (
	"errors"
	"testing"

	"clipshelf/internal/catalog"
)

func TestCreateClipValidation(t *testing.T) {
	store := openStore(t)
	analysis, err := store.CreateAnalysis("Source", "/video.mp4", catalog.FileBundle{}, catalog.Metadata{})
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name string
		req  catalog.NewClipRequest
	}{
		{"negative start", catalog.NewClipRequest{AnalysisID: analysis.ID, Name: "c", StartSeconds: -1, EndSeconds: 5}},
		{"end before start", catalog.NewClipRequest{AnalysisID: analysis.ID, Name: "c", StartSeconds: 10, EndSeconds: 5}},
		{"end equals start", catalog.NewClipRequest{AnalysisID: analysis.ID, Name: "c", StartSeconds: 5, EndSeconds: 5}},
		{"missing name", catalog.NewClipRequest{AnalysisID: analysis.ID, StartSeconds: 0, EndSeconds: 5}},
	}
	for _, tc := range cases {
		if _, err := store.CreateClip(tc.req); !errors.Is(err, catalog.ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", tc.name, err)
		}
	}

	if _, err := store.CreateClip(catalog.NewClipRequest{
		AnalysisID: "missing", Name: "c", StartSeconds: 0, EndSeconds: 5,
	}); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing parent, got %v", err)
	}
}

func TestClipReferentialIntegrity(t *testing.T) {
	store := openStore(t)
	analysis, err := store.CreateAnalysis("Source", "/video.mp4", catalog.FileBundle{}, catalog.Metadata{})
	if err != nil {
		t.Fatal(err)
	}

	clip, err := store.CreateClip(catalog.NewClipRequest{
		AnalysisID:   analysis.ID,
		Name:         "Intro",
		StartSeconds: 2,
		EndSeconds:   12.5,
		OutputPath:   "/clips/2024-06-02/intro.mp4",
	})
	if err != nil {
		t.Fatal(err)
	}

	parent, err := store.GetAnalysis(analysis.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(parent.ClipIDs) != 1 || parent.ClipIDs[0] != clip.ID {
		t.Fatalf("parent clip list not updated: %v", parent.ClipIDs)
	}

	clips, err := store.ClipsForAnalysis(analysis.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(clips) != 1 || clips[0].ID != clip.ID {
		t.Fatalf("ClipsForAnalysis mismatch: %+v", clips)
	}

	if err := store.DeleteClip(clip.ID); err != nil {
		t.Fatal(err)
	}
	parent, err = store.GetAnalysis(analysis.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(parent.ClipIDs) != 0 {
		t.Fatalf("clip id not removed from parent: %v", parent.ClipIDs)
	}
	if _, err := store.GetClip(clip.ID); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDeleteAnalysisCascades(t *testing.T) {
	store := openStore(t)
	doomed, err := store.CreateAnalysis("Doomed", "/doomed.mp4", catalog.FileBundle{}, catalog.Metadata{})
	if err != nil {
		t.Fatal(err)
	}
	survivor, err := store.CreateAnalysis("Survivor", "/survivor.mp4", catalog.FileBundle{}, catalog.Metadata{})
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if _, err := store.CreateClip(catalog.NewClipRequest{
			AnalysisID: doomed.ID, Name: "doomed clip", StartSeconds: float64(i), EndSeconds: float64(i) + 1,
		}); err != nil {
			t.Fatal(err)
		}
	}
	kept, err := store.CreateClip(catalog.NewClipRequest{
		AnalysisID: survivor.ID, Name: "kept clip", StartSeconds: 0, EndSeconds: 1,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := store.DeleteAnalysis(doomed.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := store.GetAnalysis(doomed.ID); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("analysis survived delete: %v", err)
	}

	// No surviving clip anywhere references the deleted analysis.
	if err := store.Reload(); err != nil {
		t.Fatal(err)
	}
	for _, a := range store.ListAnalyses(true) {
		clips, err := store.ClipsForAnalysis(a.ID)
		if err != nil {
			t.Fatal(err)
		}
		for _, c := range clips {
			if c.AnalysisID == doomed.ID {
				t.Fatalf("orphaned clip %s references deleted analysis", c.ID)
			}
		}
	}
	if _, err := store.GetClip(kept.ID); err != nil {
		t.Fatalf("survivor's clip was removed: %v", err)
	}
}

func TestArchiveAnalysisHidesFromDefaultList(t *testing.T) {
	store := openStore(t)
	analysis, err := store.CreateAnalysis("Old Recording", "/old.mp4", catalog.FileBundle{}, catalog.Metadata{})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := store.ArchiveAnalysis(analysis.ID); err != nil {
		t.Fatal(err)
	}

	if got := len(store.ListAnalyses(false)); got != 0 {
		t.Fatalf("archived analysis still listed: %d", got)
	}
	if got := len(store.ListAnalyses(true)); got != 1 {
		t.Fatalf("archived analysis missing from full list: %d", got)
	}
}
