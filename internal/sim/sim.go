// Package sim owns one sandbox: its bodies, camera, collision resolver and
// the per-frame step that ties interaction, integration and collisions
// together.
//
// A Simulation is not safe for concurrent use. Each front end (terminal
// session, SSH session, desktop window) owns its own instance and drives it
// from a single goroutine.
package sim

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/ballpit/internal/camera"
	"github.com/tomz197/ballpit/internal/config"
	"github.com/tomz197/ballpit/internal/input"
	"github.com/tomz197/ballpit/internal/physics"
)

// FrameInput is everything a front end reports for one frame.
type FrameInput struct {
	// Pointer position in screen space (before the camera transform).
	PointerX    float64
	PointerY    float64
	PointerDown bool
	Intents     input.Intent
}

// FrameStats summarizes what one Step did.
type FrameStats struct {
	Frame      uint64
	Collisions int // Colliding pairs resolved
	Bodies     int // Bodies alive after the step
	Spawned    int
	Deleted    int
	Paused     bool
}

// Simulation is the explicit context for one sandbox.
type Simulation struct {
	cfg      config.Config
	arena    physics.Arena
	bodies   []*physics.Body
	toSpawn  []*physics.Body // Bodies to add after the current step
	toDelete *physics.Body   // Selected body to remove after the current step

	camera   camera.Camera
	resolver *physics.Resolver
	control  Controller
	spawner  *Spawner
	logger   *log.Logger

	frame     uint64
	paused    bool
	showStats bool
	quit      bool
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithLogger sets the logger used for spawn, delete and pause events.
func WithLogger(l *log.Logger) Option {
	return func(s *Simulation) {
		s.logger = l
	}
}

// New validates cfg and creates an empty simulation.
func New(cfg config.Config, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	arena := physics.Arena{Width: cfg.Width, Height: cfg.Height}

	resolver := physics.NewResolver(arena)
	resolver.Restitution = cfg.Restitution
	resolver.UseBodyRestitution = cfg.UseBodyRestitution
	if cfg.Correction == config.CorrectionMassWeighted {
		resolver.Correction = physics.CorrectMassWeighted
	}
	if cfg.BroadPhase == config.BroadPhaseGrid {
		resolver.BroadPhase = physics.BroadPhaseGrid
	}

	s := &Simulation{
		cfg:      cfg,
		arena:    arena,
		bodies:   []*physics.Body{},
		camera:   camera.New(cfg.ZoomStep, cfg.PanStep),
		resolver: resolver,
		control:  Controller{VelocityScale: cfg.DragVelocityScale},
		spawner:  NewSpawner(cfg, seed),
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.logger.Debug("simulation created", "width", cfg.Width, "height", cfg.Height, "seed", seed)
	return s, nil
}

// AddBody validates p and adds the body immediately. Use it to seed a
// simulation before the first step; during a step use Spawn.
func (s *Simulation) AddBody(p physics.BodyParams) (*physics.Body, error) {
	b, err := s.newBody(p)
	if err != nil {
		return nil, err
	}
	s.bodies = append(s.bodies, b)
	return b, nil
}

// Spawn validates p and queues the body to be added after the current step.
func (s *Simulation) Spawn(p physics.BodyParams) (*physics.Body, error) {
	b, err := s.newBody(p)
	if err != nil {
		return nil, err
	}
	s.toSpawn = append(s.toSpawn, b)
	return b, nil
}

func (s *Simulation) newBody(p physics.BodyParams) (*physics.Body, error) {
	if p.MassRatio == 0 {
		p.MassRatio = s.cfg.MassRatio
	}
	b, err := physics.NewBody(p)
	if err != nil {
		return nil, fmt.Errorf("spawn body: %w", err)
	}
	return b, nil
}

// Step advances the simulation by one frame.
func (s *Simulation) Step(in FrameInput) FrameStats {
	s.frame++
	s.applyIntents(in.Intents)

	stats := FrameStats{Frame: s.frame, Paused: s.paused}
	if s.paused {
		stats.Bodies = len(s.bodies)
		return stats
	}

	// Interaction, then integration. Dragged bodies are moved by the
	// controller and skipped by Integrate.
	s.control.Update(s.bodies, s.camera, in.PointerX, in.PointerY, in.PointerDown)

	if in.Intents.Has(input.IntentDelete) {
		if held := s.control.Held(); held != nil {
			s.toDelete = held
		}
	}

	for _, b := range s.bodies {
		b.Integrate(s.arena, s.cfg.RestThreshold)
	}

	stats.Collisions = s.resolver.ResolveAll(s.bodies)
	stats.Deleted = s.flushDeleted()
	stats.Spawned = s.flushSpawned()
	stats.Bodies = len(s.bodies)
	return stats
}

// applyIntents handles the intents that do not touch physics state. They
// apply even while paused so the view and the pause toggle stay responsive.
func (s *Simulation) applyIntents(intents input.Intent) {
	if intents.Has(input.IntentQuit) {
		s.quit = true
	}
	if intents.Has(input.IntentPause) {
		s.paused = !s.paused
		s.logger.Debug("pause toggled", "paused", s.paused, "frame", s.frame)
	}
	if intents.Has(input.IntentToggleStats) {
		s.showStats = !s.showStats
	}

	if intents.Has(input.IntentResetView) {
		s.camera.Reset()
	}
	if intents.Has(input.IntentZoomIn) {
		s.camera.ZoomIn()
	}
	if intents.Has(input.IntentZoomOut) {
		s.camera.ZoomOut()
	}

	var dx, dy float64
	if intents.Has(input.IntentPanLeft) {
		dx--
	}
	if intents.Has(input.IntentPanRight) {
		dx++
	}
	if intents.Has(input.IntentPanUp) {
		dy--
	}
	if intents.Has(input.IntentPanDown) {
		dy++
	}
	if dx != 0 || dy != 0 {
		s.camera.Pan(dx, dy)
	}

	if intents.Has(input.IntentSpawn) {
		s.requestSpawn()
	}
}

// requestSpawn queues one randomized body. Spawns requested while paused
// appear on the first step after resuming.
func (s *Simulation) requestSpawn() {
	if s.cfg.MaxBodies > 0 && len(s.bodies)+len(s.toSpawn) >= s.cfg.MaxBodies {
		s.logger.Debug("spawn ignored: body limit reached", "limit", s.cfg.MaxBodies)
		return
	}

	b, err := s.Spawn(s.spawner.Params())
	if err != nil {
		// Config is validated, so this only happens on a broken spawner.
		s.logger.Error("spawn failed", "err", err)
		return
	}
	s.arena.Clamp(b)
}

// flushDeleted removes the body marked for deletion, keeping the order of
// the rest.
func (s *Simulation) flushDeleted() int {
	if s.toDelete == nil {
		return 0
	}
	target := s.toDelete
	s.toDelete = nil

	for i, b := range s.bodies {
		if b != target {
			continue
		}
		copy(s.bodies[i:], s.bodies[i+1:])
		s.bodies[len(s.bodies)-1] = nil
		s.bodies = s.bodies[:len(s.bodies)-1]

		s.control.Forget(target)
		s.logger.Debug("body deleted", "x", target.X, "y", target.Y, "mass", target.Mass, "frame", s.frame)
		return 1
	}
	return 0
}

// flushSpawned adds all queued bodies and clears the queue.
func (s *Simulation) flushSpawned() int {
	n := len(s.toSpawn)
	for _, b := range s.toSpawn {
		s.logger.Debug("body spawned", "x", b.X, "y", b.Y, "mass", b.Mass, "radius", b.Radius)
	}
	s.bodies = append(s.bodies, s.toSpawn...)
	s.toSpawn = s.toSpawn[:0]
	return n
}

// Bodies returns the live bodies in index order. The slice is owned by the
// simulation and is only valid until the next Step.
func (s *Simulation) Bodies() []*physics.Body { return s.bodies }

// Camera returns the current view transform.
func (s *Simulation) Camera() camera.Camera { return s.camera }

// Arena returns the world rectangle.
func (s *Simulation) Arena() physics.Arena { return s.arena }

// Config returns the parameters the simulation was created with.
func (s *Simulation) Config() config.Config { return s.cfg }

// Selected returns the body currently being dragged, or nil.
func (s *Simulation) Selected() *physics.Body { return s.control.Held() }

// Paused reports whether updates are suspended.
func (s *Simulation) Paused() bool { return s.paused }

// ShowStats reports whether the stats overlay is enabled.
func (s *Simulation) ShowStats() bool { return s.showStats }

// Quit reports whether a quit intent has been received.
func (s *Simulation) Quit() bool { return s.quit }

// Frame returns the number of steps taken.
func (s *Simulation) Frame() uint64 { return s.frame }
