package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"negative height", func(c *Config) { c.Height = -10 }},
		{"restitution above one", func(c *Config) { c.Restitution = 1.2 }},
		{"negative restitution", func(c *Config) { c.Restitution = -0.1 }},
		{"spawn restitution above one", func(c *Config) { c.BodyRestitution = 2 }},
		{"negative rest threshold", func(c *Config) { c.RestThreshold = -1 }},
		{"unknown correction", func(c *Config) { c.Correction = "impulse" }},
		{"unknown broad phase", func(c *Config) { c.BroadPhase = "bvh" }},
		{"zero min mass", func(c *Config) { c.MinMass = 0 }},
		{"reversed mass range", func(c *Config) { c.MinMass, c.MaxMass = 10, 5 }},
		{"no radius source", func(c *Config) { c.MassRatio = 0 }},
		{"negative fixed radius", func(c *Config) { c.FixedRadius = -2 }},
		{"radius larger than arena", func(c *Config) { c.MaxMass = 200 }},
		{"fixed radius larger than arena", func(c *Config) { c.FixedRadius = 400 }},
		{"arena smaller than margins", func(c *Config) { c.Width, c.Height = 90, 90; c.MaxMass = 10 }},
		{"negative spawn speed", func(c *Config) { c.MaxSpawnSpeed = -1 }},
		{"negative max bodies", func(c *Config) { c.MaxBodies = -1 }},
		{"zero zoom step", func(c *Config) { c.ZoomStep = 0 }},
		{"zero pan step", func(c *Config) { c.PanStep = 0 }},
		{"zero noise scale", func(c *Config) { c.NoiseScale = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestMaxRadius(t *testing.T) {
	cfg := Default()
	if r := cfg.MaxRadius(); r != 40 {
		t.Errorf("derived max radius = %v, want 40", r)
	}
	cfg.FixedRadius = 12
	if r := cfg.MaxRadius(); r != 12 {
		t.Errorf("fixed max radius = %v, want 12", r)
	}
}

func TestUnmarshalOverlaysDefaults(t *testing.T) {
	cfg := Default()
	data := []byte("width: 900\nrestitution: 0.8\ncorrection: mass-weighted\n")

	if err := cfg.Unmarshal(data); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if cfg.Width != 900 || cfg.Restitution != 0.8 || cfg.Correction != CorrectionMassWeighted {
		t.Errorf("overlay not applied: %+v", cfg)
	}
	if cfg.Height != 700 || cfg.MaxMass != 20 {
		t.Errorf("unset keys lost their defaults: height=%v maxMass=%v", cfg.Height, cfg.MaxMass)
	}
}

func TestUnmarshalEmptyAndUnknown(t *testing.T) {
	cfg := Default()
	if err := cfg.Unmarshal(nil); err != nil {
		t.Errorf("empty document: %v", err)
	}
	if err := cfg.Unmarshal([]byte("gravity: 9.8\n")); err == nil {
		t.Errorf("expected an error for an unknown key")
	}
}

func TestUseBodyRestitutionFromFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ballpit.yaml")
	if err := os.WriteFile(path, []byte("spawn_restitution: 0.5\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfigPath, path)
	t.Setenv(EnvUseBodyRestitution, "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.UseBodyRestitution {
		t.Errorf("UseBodyRestitution not set from %s", EnvUseBodyRestitution)
	}
	if cfg.BodyRestitution != 0.5 {
		t.Errorf("spawn restitution = %v, want 0.5 from file", cfg.BodyRestitution)
	}

	fromFile := Default()
	if err := fromFile.Unmarshal([]byte("use_body_restitution: true\n")); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !fromFile.UseBodyRestitution {
		t.Errorf("use_body_restitution key not applied")
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ballpit.yaml")
	if err := os.WriteFile(path, []byte("width: 800\nheight: 600\nmax_bodies: 30\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(EnvConfigPath, path)
	t.Setenv(EnvHeight, "500")
	t.Setenv(EnvBroadPhase, BroadPhaseGrid)
	t.Setenv(EnvSeed, "42")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Width != 800 {
		t.Errorf("width = %v, want 800 from file", cfg.Width)
	}
	if cfg.Height != 500 {
		t.Errorf("height = %v, want 500 from env", cfg.Height)
	}
	if cfg.MaxBodies != 30 {
		t.Errorf("max bodies = %v, want 30", cfg.MaxBodies)
	}
	if cfg.BroadPhase != BroadPhaseGrid || cfg.Seed != 42 {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		t.Setenv(EnvConfigPath, filepath.Join(t.TempDir(), "nope.yaml"))
		if _, err := Load(); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected a not-exist error, got %v", err)
		}
	})

	t.Run("bad number", func(t *testing.T) {
		t.Setenv(EnvWidth, "wide")
		_, err := Load()
		var envErr *EnvError
		if !errors.As(err, &envErr) || envErr.Key != EnvWidth {
			t.Errorf("expected EnvError for %s, got %v", EnvWidth, err)
		}
	})

	t.Run("out of range", func(t *testing.T) {
		t.Setenv(EnvRestitution, "3")
		if _, err := Load(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestGetEnv(t *testing.T) {
	t.Setenv("BALLPIT_TEST_VALUE", "x")
	if got := GetEnv("BALLPIT_TEST_VALUE", "y"); got != "x" {
		t.Errorf("GetEnv = %q, want x", got)
	}
	if got := GetEnv("BALLPIT_TEST_UNSET", "y"); got != "y" {
		t.Errorf("GetEnv fallback = %q, want y", got)
	}
}
