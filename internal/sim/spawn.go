package sim

import (
	"math/rand"

	"github.com/aquilax/go-perlin"

	"github.com/tomz197/ballpit/internal/config"
	"github.com/tomz197/ballpit/internal/physics"
)

// Color channel range for spawned bodies. Dark colors are avoided so bodies
// stay visible on a black background.
const (
	minChannel = 100
	maxChannel = 255
)

// Channel offsets into the noise field, far enough apart that R, G and B
// are uncorrelated.
var channelOffsets = [3]float64{0, 71.3, 143.9}

// Spawner produces randomized spawn requests: position in the upper half of
// the arena, integer velocity and mass, and a color sampled from a Perlin
// field at the spawn position.
type Spawner struct {
	cfg   config.Config
	rng   *rand.Rand
	noise *perlin.Perlin
	count int
}

// NewSpawner creates a spawner. The same seed yields the same sequence.
func NewSpawner(cfg config.Config, seed int64) *Spawner {
	return &Spawner{
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(seed)),
		noise: perlin.NewPerlin(cfg.NoiseAlpha, cfg.NoiseBeta, cfg.NoiseOct, seed),
	}
}

// Params draws the parameters of the next body.
func (s *Spawner) Params() physics.BodyParams {
	margin := float64(config.SpawnMargin)

	x := margin + s.rng.Float64()*(s.cfg.Width-2*margin)
	y := margin + s.rng.Float64()*(s.cfg.Height/2-margin)
	mass := s.randInt(s.cfg.MinMass, s.cfg.MaxMass)
	speed := s.cfg.MaxSpawnSpeed

	p := physics.BodyParams{
		X:           x,
		Y:           y,
		VX:          float64(s.randInt(-speed, speed)),
		VY:          float64(s.randInt(-speed, speed)),
		Mass:        float64(mass),
		Radius:      s.cfg.FixedRadius,
		MassRatio:   s.cfg.MassRatio,
		Restitution: s.cfg.BodyRestitution,
		Color:       s.ColorAt(x, y),
	}
	s.count++
	return p
}

// ColorAt samples the color field at a world position. The third noise axis
// advances with every spawn so bodies spawned at the same spot differ.
func (s *Spawner) ColorAt(x, y float64) physics.Color {
	z := float64(s.count) * 0.61
	var ch [3]uint8
	for i, off := range channelOffsets {
		n := s.noise.Noise3D(x*s.cfg.NoiseScale+off, y*s.cfg.NoiseScale+off, z)
		// Perlin output sits roughly in [-1, 1].
		v := physics.Clamp((n+1)/2, 0, 1)
		ch[i] = uint8(minChannel + v*(maxChannel-minChannel))
	}
	return physics.Color{R: ch[0], G: ch[1], B: ch[2]}
}

// randInt returns an integer in [lo, hi].
func (s *Spawner) randInt(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.Intn(hi-lo+1)
}
