package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned (wrapped) by Validate and Load when a
// parameter is out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

// Overlap correction policies accepted by Config.Correction.
const (
	CorrectionEqual        = "equal"
	CorrectionMassWeighted = "mass-weighted"
)

// Broad phases accepted by Config.BroadPhase.
const (
	BroadPhaseAllPairs = "all-pairs"
	BroadPhaseGrid     = "grid"
)

// Config holds every tunable parameter of a simulation.
type Config struct {
	// Arena
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`

	// Collisions
	Restitution        float64 `yaml:"restitution"`
	UseBodyRestitution bool    `yaml:"use_body_restitution"`
	BodyRestitution    float64 `yaml:"spawn_restitution"` // Restitution given to spawned bodies
	Correction         string  `yaml:"correction"`
	BroadPhase         string  `yaml:"broad_phase"`
	RestThreshold      float64 `yaml:"rest_threshold"` // 0 disables rest damping

	// Spawning
	MinMass       int     `yaml:"min_mass"`
	MaxMass       int     `yaml:"max_mass"`
	MassRatio     float64 `yaml:"mass_ratio"`
	FixedRadius   float64 `yaml:"fixed_radius"` // 0 derives the radius from the mass
	MaxSpawnSpeed int     `yaml:"max_spawn_speed"`
	MaxBodies     int     `yaml:"max_bodies"` // 0 means unlimited
	Seed          int64   `yaml:"seed"`       // 0 seeds from the clock

	// Color field
	NoiseAlpha float64 `yaml:"noise_alpha"`
	NoiseBeta  float64 `yaml:"noise_beta"`
	NoiseOct   int32   `yaml:"noise_octaves"`
	NoiseScale float64 `yaml:"noise_scale"`

	// Interaction
	DragVelocityScale float64 `yaml:"drag_velocity_scale"`
	ZoomStep          float64 `yaml:"zoom_step"`
	PanStep           float64 `yaml:"pan_step"`

	// Front ends
	Sound bool `yaml:"sound"`
}

// Default returns the stock parameters: a 700x700 fully elastic arena.
func Default() Config {
	return Config{
		Width:             700,
		Height:            700,
		Restitution:       1,
		BodyRestitution:   1,
		Correction:        CorrectionEqual,
		BroadPhase:        BroadPhaseAllPairs,
		MinMass:           3,
		MaxMass:           20,
		MassRatio:         2,
		MaxSpawnSpeed:     5,
		NoiseAlpha:        2,
		NoiseBeta:         2,
		NoiseOct:          3,
		NoiseScale:        0.004,
		DragVelocityScale: 0.5,
		ZoomStep:          0.1,
		PanStep:           20,
		Sound:             true,
	}
}

// Load builds a Config from the defaults, the YAML file named by
// BALLPIT_CONFIG (if set) and then individual environment overrides.
// The result is validated.
func Load() (Config, error) {
	cfg := Default()

	if path := GetEnv(EnvConfigPath, ""); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return cfg, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadFile overlays the YAML file at path onto c. Keys absent from the file
// keep their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return c.Unmarshal(data)
}

// Unmarshal overlays YAML data onto c.
func (c *Config) Unmarshal(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		// An empty document is not an error.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	var err error
	if c.Width, err = GetEnvFloat(EnvWidth, c.Width); err != nil {
		return err
	}
	if c.Height, err = GetEnvFloat(EnvHeight, c.Height); err != nil {
		return err
	}
	if c.Restitution, err = GetEnvFloat(EnvRestitution, c.Restitution); err != nil {
		return err
	}
	if c.UseBodyRestitution, err = GetEnvBool(EnvUseBodyRestitution, c.UseBodyRestitution); err != nil {
		return err
	}
	if c.RestThreshold, err = GetEnvFloat(EnvRestThreshold, c.RestThreshold); err != nil {
		return err
	}
	if c.MaxBodies, err = GetEnvInt(EnvMaxBodies, c.MaxBodies); err != nil {
		return err
	}
	if c.Sound, err = GetEnvBool(EnvSound, c.Sound); err != nil {
		return err
	}
	seed, err := GetEnvInt(EnvSeed, int(c.Seed))
	if err != nil {
		return err
	}
	c.Seed = int64(seed)

	c.Correction = GetEnv(EnvCorrection, c.Correction)
	c.BroadPhase = GetEnv(EnvBroadPhase, c.BroadPhase)
	return nil
}

// Validate checks every parameter and returns an error wrapping
// ErrInvalidConfig describing the first problem found.
func (c Config) Validate() error {
	if !(c.Width > 0) || !(c.Height > 0) {
		return invalid("arena must have a positive size, got %vx%v", c.Width, c.Height)
	}
	if !(c.Restitution >= 0 && c.Restitution <= 1) {
		return invalid("restitution must be in [0, 1], got %v", c.Restitution)
	}
	if !(c.BodyRestitution >= 0 && c.BodyRestitution <= 1) {
		return invalid("spawn restitution must be in [0, 1], got %v", c.BodyRestitution)
	}
	if !(c.RestThreshold >= 0) {
		return invalid("rest threshold must not be negative, got %v", c.RestThreshold)
	}
	if c.Correction != CorrectionEqual && c.Correction != CorrectionMassWeighted {
		return invalid("unknown correction policy %q", c.Correction)
	}
	if c.BroadPhase != BroadPhaseAllPairs && c.BroadPhase != BroadPhaseGrid {
		return invalid("unknown broad phase %q", c.BroadPhase)
	}

	if c.MinMass <= 0 || c.MaxMass < c.MinMass {
		return invalid("mass range [%d, %d] must be positive and ordered", c.MinMass, c.MaxMass)
	}
	if c.FixedRadius < 0 || (c.FixedRadius == 0 && !(c.MassRatio > 0)) {
		return invalid("radius needs a positive fixed radius or mass ratio")
	}
	if c.MaxSpawnSpeed < 0 {
		return invalid("max spawn speed must not be negative, got %d", c.MaxSpawnSpeed)
	}
	if c.MaxBodies < 0 {
		return invalid("max bodies must not be negative, got %d", c.MaxBodies)
	}

	// Every spawned body must fit between the walls.
	limit := math.Min(c.Width, c.Height) / 2
	if r := c.MaxRadius(); r > limit {
		return invalid("largest body radius %v exceeds half the arena (%v)", r, limit)
	}
	if c.Width < 2*SpawnMargin || c.Height/2 < SpawnMargin {
		return invalid("arena %vx%v is too small for the spawn margins", c.Width, c.Height)
	}

	if !(c.DragVelocityScale >= 0) {
		return invalid("drag velocity scale must not be negative, got %v", c.DragVelocityScale)
	}
	if !(c.ZoomStep > 0) {
		return invalid("zoom step must be positive, got %v", c.ZoomStep)
	}
	if !(c.PanStep > 0) {
		return invalid("pan step must be positive, got %v", c.PanStep)
	}
	if !(c.NoiseScale > 0) || c.NoiseOct <= 0 {
		return invalid("color field needs a positive scale and octave count")
	}
	return nil
}

// MaxRadius returns the radius of the heaviest body the spawner can produce.
func (c Config) MaxRadius() float64 {
	if c.FixedRadius > 0 {
		return c.FixedRadius
	}
	return float64(c.MaxMass) * c.MassRatio
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
