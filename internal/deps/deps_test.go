package deps

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Path != present {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary to be unavailable with detail, got %#v", results[1])
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for blank command: %q", results[2].Detail)
	}
}

func TestCaptureRequirementsOptionalForFileSource(t *testing.T) {
	camera := CaptureRequirements("clearly-not-present-ffmpeg", true)
	if missing := MissingRequired(CheckBinaries(camera)); len(missing) != 1 {
		t.Fatalf("expected ffmpeg to be required for camera capture, got %#v", missing)
	}
	file := CaptureRequirements("clearly-not-present-ffmpeg", false)
	if missing := MissingRequired(CheckBinaries(file)); len(missing) != 0 {
		t.Fatalf("expected ffmpeg to be optional for file capture, got %#v", missing)
	}
}
