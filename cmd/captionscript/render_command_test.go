package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"captionscript/internal/services"
)

func TestRenderRequiresVideoInputs(t *testing.T) {
	srtPath := filepath.Join(t.TempDir(), "input.srt")
	if err := os.WriteFile(srtPath, []byte("1\n00:00:01,000 --> 00:00:02,000\nhello\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(t.TempDir(), "nope.toml")

	_, err := runCommand(t, "render", srtPath, "--config", missing, "--mode", "video")
	if !errors.Is(err, services.ErrInput) {
		t.Fatalf("video mode without --video/--output must be an input error, got %v", err)
	}
}

func TestRenderRequiresOutputDir(t *testing.T) {
	srtPath := filepath.Join(t.TempDir(), "input.srt")
	if err := os.WriteFile(srtPath, []byte("1\n00:00:01,000 --> 00:00:02,000\nhello\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(t.TempDir(), "nope.toml")

	_, err := runCommand(t, "render", srtPath, "--config", missing)
	if !errors.Is(err, services.ErrInput) {
		t.Fatalf("images-xml mode without --output-dir must be an input error, got %v", err)
	}
}

func TestRenderRejectsUnknownArgsCount(t *testing.T) {
	if _, err := runCommand(t, "render"); err == nil {
		t.Fatal("render requires exactly one subtitle argument")
	}
}

func TestExitCodes(t *testing.T) {
	if got := services.ExitCode(nil); got != 0 {
		t.Fatalf("nil error should exit 0, got %d", got)
	}
	if got := services.ExitCode(services.ErrInput); got != 2 {
		t.Fatalf("input errors should exit 2, got %d", got)
	}
	if got := services.ExitCode(services.ErrResource); got != 3 {
		t.Fatalf("resource errors should exit 3, got %d", got)
	}
	if got := services.ExitCode(errors.New("other")); got != 1 {
		t.Fatalf("unclassified errors should exit 1, got %d", got)
	}
}
