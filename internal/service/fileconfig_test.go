package service

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "turbols.toml")
	content := `
keywords = ["Given", "When", "Dado"]
metatags = ["wip"]
syntax-message = "No such step"
steps-file = "steps.json"
nocheck = ["feature", "examples"]

[keypairs]
given = ["once", "twice"]

[sections]
feature = '(?i)^\s*(?:feature|funcionalidad)\s*:'
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig: %v", err)
	}
	if len(cfg.Keywords) != 3 || cfg.Keywords[2] != "Dado" {
		t.Fatalf("keywords = %v", cfg.Keywords)
	}
	if cfg.SyntaxMessage != "No such step" || cfg.StepsFile != "steps.json" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if len(cfg.Keypairs["given"]) != 2 {
		t.Fatalf("keypairs = %v", cfg.Keypairs)
	}

	s := New()
	if err := s.ApplyFileConfig(cfg); err != nil {
		t.Fatalf("ApplyFileConfig: %v", err)
	}
}

func TestLoadFileConfigMissing(t *testing.T) {
	if _, err := LoadFileConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatalf("missing file must error")
	}
}

func TestApplyFileConfigRejectsBadSectionPattern(t *testing.T) {
	err := New().ApplyFileConfig(FileConfig{Sections: map[string]string{"feature": "(["}})
	if err == nil {
		t.Fatalf("invalid section pattern must be rejected")
	}
}
