package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"avlint/internal/analysis"
	"avlint/internal/diag"
	"avlint/internal/rules"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func builtinRegistry(t *testing.T) *analysis.Registry {
	t.Helper()
	reg := analysis.NewRegistry()
	if err := rules.RegisterBuiltin(reg); err != nil {
		t.Fatalf("register builtin: %v", err)
	}
	return reg
}

func TestLoadAndApply(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[rules]
AV1530 = "error"
AV1708 = "none"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	opts, err := Apply(cfg, builtinRegistry(t))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if opts.Severity["AV1530"] != diag.SevError {
		t.Fatalf("expected AV1530 override to error, got %v", opts.Severity["AV1530"])
	}
	if !opts.Disabled["AV1708"] {
		t.Fatalf("expected AV1708 disabled")
	}
}

func TestApplyRejectsUnknownRuleAndSeverity(t *testing.T) {
	cfg := Config{Rules: map[string]string{
		"AV9999": "warning",
		"AV1530": "loud",
	}}
	_, err := Apply(cfg, builtinRegistry(t))
	if err == nil {
		t.Fatalf("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "AV9999") || !strings.Contains(msg, "loud") {
		t.Fatalf("error should list all offenders, got %q", msg)
	}
}

func TestDiscoverWalksParents(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[rules]\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	path, ok, err := Discover(nested)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if !ok {
		t.Fatalf("expected manifest to be found")
	}
	if filepath.Dir(path) != root {
		t.Fatalf("expected manifest in %q, got %q", root, path)
	}
}

func TestDiscoverMissingIsNotAnError(t *testing.T) {
	_, ok, err := Discover(t.TempDir())
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if ok {
		t.Fatalf("expected no manifest")
	}
}
