package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	out, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Fatalf("output should name the target: %s", out)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("sample not written: %v", err)
	}
	if !strings.Contains(string(data), "[render]") {
		t.Fatal("sample is missing the render section")
	}
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	if _, err := runCommand(t, "config", "init", "--path", target); err != nil {
		t.Fatalf("first init: %v", err)
	}
	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("second init without --overwrite must fail")
	}
	if _, err := runCommand(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("init with --overwrite: %v", err)
	}
}

func TestConfigValidateDefaults(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")
	out, err := runCommand(t, "config", "validate", "--config", missing)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	if !strings.Contains(out, "defaults were used") {
		t.Fatalf("missing defaults notice: %s", out)
	}
	if !strings.Contains(out, "Configuration valid") {
		t.Fatalf("missing valid notice: %s", out)
	}
}

func TestConfigValidateRejectsBadFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	content := "[render]\nmode = \"nonsense\"\n"
	if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := runCommand(t, "config", "validate", "--config", target); err == nil {
		t.Fatal("invalid mode must fail validation")
	}
}

func TestConfigShowPrintsResolvedValues(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	content := "[render]\nfps_num = 24\n"
	if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := runCommand(t, "config", "show", "--config", target)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "fps_num = 24") {
		t.Fatalf("override missing from output: %s", out)
	}
	if !strings.Contains(out, "mode = 'images-xml'") && !strings.Contains(out, `mode = "images-xml"`) {
		t.Fatalf("defaults missing from output: %s", out)
	}
}
