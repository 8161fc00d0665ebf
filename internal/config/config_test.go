package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestMergePrecedence(t *testing.T) {
	base := Defaults()
	override := Config{Port: 9999, RateLimit: 5}
	merged := Merge(base, override)

	if merged.Port != 9999 {
		t.Errorf("Port = %d, want 9999", merged.Port)
	}
	if merged.RateLimit != 5 {
		t.Errorf("RateLimit = %v, want 5", merged.RateLimit)
	}
	if merged.RegistryCap != base.RegistryCap {
		t.Errorf("RegistryCap = %d, want unchanged default %d", merged.RegistryCap, base.RegistryCap)
	}
}

func TestLoadFileMissingIsNotError(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Port != Defaults().Port {
		t.Errorf("expected defaults when file missing, got %+v", cfg)
	}
}

func TestLoadFileParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mazewar.yaml")
	body := "port: 4242\npurgatory: 5s\nregistry_capacity: 64\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Port != 4242 {
		t.Errorf("Port = %d, want 4242", cfg.Port)
	}
	if cfg.Purgatory != 5*time.Second {
		t.Errorf("Purgatory = %v, want 5s", cfg.Purgatory)
	}
	if cfg.RegistryCap != 64 {
		t.Errorf("RegistryCap = %d, want 64", cfg.RegistryCap)
	}
}

func TestValidateRequiresPositivePort(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero port")
	}
	cfg.Port = 5000
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() with positive port: %v", err)
	}
}
