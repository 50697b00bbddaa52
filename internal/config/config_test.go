package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, path, exists, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("missing file must report exists=false")
	}
	if path == "" {
		t.Fatal("resolved path must be reported")
	}
	if cfg.Render.Mode != ModeImagesXML {
		t.Fatalf("unexpected default mode %q", cfg.Render.Mode)
	}
	if cfg.Render.Workers < 1 {
		t.Fatalf("workers must be normalized, got %d", cfg.Render.Workers)
	}
}

func TestLoadAppliesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[text]
capitalization = "Title"

[render]
mode = "VIDEO"
fps_num = 24000
fps_den = 1001
seed = 99
staging_dir = "~/staging"

[output]
timeline_format = "xmeml"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if cfg.Render.Mode != ModeVideo {
		t.Fatalf("mode not normalized: %q", cfg.Render.Mode)
	}
	if cfg.Text.Capitalization != "title" {
		t.Fatalf("capitalization not normalized: %q", cfg.Text.Capitalization)
	}
	if cfg.Render.FPSNum != 24000 || cfg.Render.FPSDen != 1001 {
		t.Fatalf("rate override lost: %d/%d", cfg.Render.FPSNum, cfg.Render.FPSDen)
	}
	if cfg.Render.Seed != 99 {
		t.Fatalf("seed override lost: %d", cfg.Render.Seed)
	}
	if strings.HasPrefix(cfg.Render.StagingDir, "~") {
		t.Fatalf("staging dir not expanded: %q", cfg.Render.StagingDir)
	}
	// Unset sections keep their defaults.
	if cfg.Stroke.Width != 4 {
		t.Fatalf("stroke default lost: %d", cfg.Stroke.Width)
	}
}

func TestValidateCollectsProblems(t *testing.T) {
	cfg := Default()
	cfg.Text.Size = -1
	cfg.Colors.Accents = []string{"#FFFFFF"}
	cfg.Render.Mode = "both"
	cfg.Shadow.Opacity = 150
	cfg.Output.TimelineFormat = "edl"
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(verr.Problems) < 5 {
		t.Fatalf("expected all problems collected, got %v", verr.Problems)
	}
}

func TestValidateRejectsBadColors(t *testing.T) {
	cfg := Default()
	cfg.Colors.Base = "white"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-hex base color")
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[render\nmode="), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("sample config must load cleanly: %v", err)
	}
	if !exists {
		t.Fatal("sample file should exist")
	}
	if len(cfg.Colors.Accents) != 4 {
		t.Fatalf("sample must carry four accents, got %d", len(cfg.Colors.Accents))
	}
}

func TestExpandPathTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := expandPath("~/fonts/caption.ttf")
	if err != nil {
		t.Fatalf("expandPath: %v", err)
	}
	if got != filepath.Join(home, "fonts", "caption.ttf") {
		t.Fatalf("unexpected expansion: %q", got)
	}
}
