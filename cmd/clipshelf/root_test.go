package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clipshelf/internal/catalog"
	"clipshelf/internal/relink"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	configPath := filepath.Join(dir, "clipshelf.toml")
	content := fmt.Sprintf(`[paths]
library_dir = %q
log_dir = %q

[store]
lock_backoff_ms = 5
lock_backoff_max_ms = 20
`, filepath.Join(dir, "library"), filepath.Join(dir, "logs"))
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return configPath
}

func runCommand(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("command %v failed: %v\noutput: %s", args, err, buf.String())
	}
	return buf.String()
}

func TestInitWritesSampleConfig(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	output := runCommand(t, "init", "--path", target)
	if !strings.Contains(output, target) {
		t.Fatalf("init output missing path: %s", output)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "library_dir") {
		t.Fatalf("sample config incomplete: %s", data)
	}

	// A second init without --overwrite refuses to clobber.
	cmd := newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"init", "--path", target})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error on existing config")
	}
}

func TestAddListShow(t *testing.T) {
	configPath := writeTestConfig(t)
	source := filepath.Join(t.TempDir(), "recital night.mp4")
	if err := os.WriteFile(source, []byte("media"), 0o644); err != nil {
		t.Fatal(err)
	}

	output := runCommand(t, "--config", configPath, "add", source, "--json")
	var added catalog.Analysis
	if err := json.Unmarshal([]byte(output), &added); err != nil {
		t.Fatalf("decode add output: %v\n%s", err, output)
	}
	if added.Title != "recital night" || !added.Video.IsLinked {
		t.Fatalf("unexpected analysis: %+v", added)
	}

	listing := runCommand(t, "--config", configPath, "list")
	if !strings.Contains(listing, "recital night") || !strings.Contains(listing, "linked") {
		t.Fatalf("listing missing analysis: %s", listing)
	}

	shown := runCommand(t, "--config", configPath, "show", shortID(added.ID))
	if !strings.Contains(shown, added.ID) || !strings.Contains(shown, source) {
		t.Fatalf("show output incomplete: %s", shown)
	}
	if !strings.Contains(shown, "No clips.") {
		t.Fatalf("expected empty clip list: %s", shown)
	}
}

func TestVerifyCommand(t *testing.T) {
	configPath := writeTestConfig(t)
	source := filepath.Join(t.TempDir(), "keep.mp4")
	if err := os.WriteFile(source, []byte("media"), 0o644); err != nil {
		t.Fatal(err)
	}
	runCommand(t, "--config", configPath, "add", source)
	runCommand(t, "--config", configPath, "add", "/gone/missing.mp4", "--title", "Missing")

	output := runCommand(t, "--config", configPath, "verify", "--json")
	var summary relink.VerificationSummary
	if err := json.Unmarshal([]byte(output), &summary); err != nil {
		t.Fatalf("decode verify output: %v\n%s", err, output)
	}
	want := relink.VerificationSummary{Total: 2, Linked: 1, Broken: 1}
	if summary != want {
		t.Fatalf("summary = %+v, want %+v", summary, want)
	}
}

func TestSearchCommandNoMatches(t *testing.T) {
	configPath := writeTestConfig(t)
	output := runCommand(t, "--config", configPath, "search", "nothing")
	if !strings.Contains(output, "No files match") {
		t.Fatalf("unexpected search output: %s", output)
	}
}

func TestListEmptyCatalog(t *testing.T) {
	configPath := writeTestConfig(t)
	output := runCommand(t, "--config", configPath, "list")
	if !strings.Contains(output, "No analyses") {
		t.Fatalf("unexpected list output: %s", output)
	}
}

func TestRenderTableAlignsColumns(t *testing.T) {
	out := renderTable(
		[]string{"Name", "Count"},
		[][]string{{"alpha", "1"}, {"beta", "22"}},
		[]columnAlignment{alignLeft, alignRight})
	if !strings.Contains(out, "alpha") || !strings.Contains(out, "22") {
		t.Fatalf("table missing rows: %s", out)
	}
	if len(strings.Split(out, "\n")) < 4 {
		t.Fatalf("table too short: %s", out)
	}
}
