package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "habitat-pricer/internal/errors"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.Model.Timeout() != 5*time.Second {
		t.Errorf("Timeout = %v", cfg.Model.Timeout())
	}
	if cfg.Server.SessionTTL() != 30*time.Minute {
		t.Errorf("SessionTTL = %v", cfg.Server.SessionTTL())
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cfg.json")

	cfg := Default()
	cfg.Model.Path = "models/custom.hcl"
	cfg.Display.NATSURL = "nats://localhost:4222"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Model.Path != "models/custom.hcl" {
		t.Errorf("Model.Path = %q", loaded.Model.Path)
	}
	if loaded.Display.NATSSubject != "habitat.price" {
		t.Errorf("NATSSubject = %q", loaded.Display.NATSSubject)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"model": `},
		{"zero timeout", `{"model": {"timeout_seconds": 0}}`},
		{"zero ttl", `{"server": {"session_ttl_minutes": 0}}`},
		{"nats without subject", `{"display": {"nats_url": "nats://x", "nats_subject": ""}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cfg.json")
			if err := os.WriteFile(path, []byte(tt.body), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if !apperrors.IsType(err, apperrors.TypeConfig) {
				t.Errorf("expected CONFIG_ERROR, got %v", err)
			}
		})
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvModelURL, "http://model:9000/predict")
	t.Setenv(EnvAddr, ":9090")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Model.RemoteURL != "http://model:9000/predict" {
		t.Errorf("RemoteURL = %q", cfg.Model.RemoteURL)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
}
