package sim

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/tomz197/ballpit/internal/camera"
	"github.com/tomz197/ballpit/internal/config"
	"github.com/tomz197/ballpit/internal/input"
	"github.com/tomz197/ballpit/internal/physics"
)

func newTestSim(t *testing.T, modify ...func(c *config.Config)) *Simulation {
	t.Helper()
	cfg := config.Default()
	cfg.Seed = 1
	for _, m := range modify {
		m(&cfg)
	}
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func addBody(t *testing.T, s *Simulation, x, y, vx, vy, mass, radius float64) *physics.Body {
	t.Helper()
	b, err := s.AddBody(physics.BodyParams{X: x, Y: y, VX: vx, VY: vy, Mass: mass, Radius: radius, Restitution: 1})
	if err != nil {
		t.Fatalf("AddBody: %v", err)
	}
	return b
}

func TestHeadOnScenario(t *testing.T) {
	s := newTestSim(t)
	a := addBody(t, s, 90, 300, 5, 0, 10, 20)
	b := addBody(t, s, 110, 300, -5, 0, 10, 20)

	stats := s.Step(FrameInput{})

	if stats.Collisions != 1 {
		t.Errorf("collisions = %d, want 1", stats.Collisions)
	}
	if d := physics.Distance(a.X, a.Y, b.X, b.Y); d < 40-1e-9 {
		t.Errorf("bodies still overlap: distance %v", d)
	}
	if a.VX != -5 || a.VY != 0 || b.VX != 5 || b.VY != 0 {
		t.Errorf("velocities = (%v,%v) (%v,%v), want (-5,0) (5,0)", a.VX, a.VY, b.VX, b.VY)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Restitution = 2
	if _, err := New(cfg); !errors.Is(err, config.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestAddBodyRejectsInvalid(t *testing.T) {
	s := newTestSim(t)
	_, err := s.AddBody(physics.BodyParams{X: 10, Y: 10, Mass: -1, Radius: 5, Restitution: 1})
	if !errors.Is(err, physics.ErrInvalidBody) {
		t.Fatalf("expected ErrInvalidBody, got %v", err)
	}
	if len(s.Bodies()) != 0 {
		t.Errorf("invalid body was added")
	}
}

func TestDragThroughStep(t *testing.T) {
	s := newTestSim(t)
	b := addBody(t, s, 100, 100, 3, 3, 10, 20)

	s.Step(FrameInput{PointerX: 100, PointerY: 100, PointerDown: true})
	if s.Selected() != b || !b.Dragging {
		t.Fatalf("body not grabbed")
	}
	if b.VX != 0 || b.VY != 0 || b.X != 100 {
		t.Fatalf("grab should zero velocity in place: pos %v vel (%v,%v)", b.X, b.VX, b.VY)
	}

	s.Step(FrameInput{PointerX: 110, PointerY: 100, PointerDown: true})
	if b.X != 110 || b.VX != 5 {
		t.Errorf("drag: x = %v vx = %v, want 110 and 5", b.X, b.VX)
	}

	s.Step(FrameInput{PointerX: 110, PointerY: 100})
	if s.Selected() != nil || b.Dragging || b.Selected {
		t.Fatalf("body not released")
	}
	// Released before integration, so it moves on the release frame.
	if b.X != 115 || b.VX != 5 {
		t.Errorf("after release: x = %v vx = %v, want 115 and 5", b.X, b.VX)
	}
}

func TestDragIgnoresOtherBodiesWhileHeld(t *testing.T) {
	s := newTestSim(t)
	first := addBody(t, s, 100, 100, 0, 0, 10, 20)
	second := addBody(t, s, 300, 100, 0, 0, 10, 20)

	s.Step(FrameInput{PointerX: 100, PointerY: 100, PointerDown: true})
	s.Step(FrameInput{PointerX: 300, PointerY: 100, PointerDown: true})

	if s.Selected() != first {
		t.Fatalf("held body changed while the pointer stayed down")
	}
	if second.Selected {
		t.Errorf("second body selected while another is held")
	}
}

func TestCollisionWithHeldBody(t *testing.T) {
	s := newTestSim(t)
	held := addBody(t, s, 300, 300, 0, 0, 10, 20)
	free := addBody(t, s, 262, 300, 6, 0, 10, 20)

	grab := FrameInput{PointerX: 300, PointerY: 300, PointerDown: true}
	if stats := s.Step(grab); stats.Collisions != 1 {
		t.Fatalf("collisions = %d, want 1", stats.Collisions)
	}
	if s.Selected() != held {
		t.Fatalf("held body not grabbed")
	}
	if held.X != 300 || held.Y != 300 || held.VX != 0 || held.VY != 0 {
		t.Errorf("held body pushed: pos (%v,%v) vel (%v,%v)", held.X, held.Y, held.VX, held.VY)
	}
	if free.VX != -6 || free.X != 260 {
		t.Errorf("free body: x = %v vx = %v, want 260 and -6", free.X, free.VX)
	}

	s.Step(grab)
	s.Step(FrameInput{PointerX: 300, PointerY: 300})

	if held.Dragging {
		t.Fatalf("body not released")
	}
	if held.VX != 0 || held.VY != 0 || held.X != 300 {
		t.Errorf("released without pointer motion: x = %v vel (%v,%v), want 300 and (0,0)", held.X, held.VX, held.VY)
	}
}

func TestDeleteSelectedIsDeferred(t *testing.T) {
	s := newTestSim(t)
	a := addBody(t, s, 100, 100, 0, 0, 10, 20)
	b := addBody(t, s, 300, 300, 0, 0, 10, 20)
	c := addBody(t, s, 500, 500, 0, 0, 10, 20)

	stats := s.Step(FrameInput{PointerX: 300, PointerY: 300, PointerDown: true, Intents: input.IntentDelete})

	if stats.Deleted != 1 {
		t.Fatalf("deleted = %d, want 1", stats.Deleted)
	}
	bodies := s.Bodies()
	if len(bodies) != 2 || bodies[0] != a || bodies[1] != c {
		t.Fatalf("remaining bodies wrong or reordered")
	}
	if s.Selected() != nil {
		t.Errorf("deleted body is still selected")
	}
	for _, rest := range bodies {
		if rest == b {
			t.Errorf("deleted body still present")
		}
	}
}

func TestDeleteWithoutSelectionIsNoop(t *testing.T) {
	s := newTestSim(t)
	addBody(t, s, 100, 100, 0, 0, 10, 20)

	stats := s.Step(FrameInput{Intents: input.IntentDelete})

	if stats.Deleted != 0 || len(s.Bodies()) != 1 {
		t.Errorf("delete without a selection removed a body")
	}
}

func TestPauseGatesUpdate(t *testing.T) {
	s := newTestSim(t)
	b := addBody(t, s, 100, 100, 4, 0, 10, 20)

	stats := s.Step(FrameInput{Intents: input.IntentPause | input.IntentZoomIn | input.IntentSpawn})
	if !stats.Paused || !s.Paused() {
		t.Fatalf("not paused")
	}
	if b.X != 100 {
		t.Errorf("body moved while paused: x = %v", b.X)
	}
	if math.Abs(s.Camera().Zoom-1.1) > 1e-9 {
		t.Errorf("zoom intent ignored while paused: %v", s.Camera().Zoom)
	}
	if len(s.Bodies()) != 1 {
		t.Errorf("spawn applied while paused")
	}

	stats = s.Step(FrameInput{Intents: input.IntentPause})
	if stats.Paused {
		t.Fatalf("still paused after second toggle")
	}
	if b.X != 104 {
		t.Errorf("x = %v after resume, want 104", b.X)
	}
	if stats.Spawned != 1 || len(s.Bodies()) != 2 {
		t.Errorf("queued spawn not applied on resume: spawned %d bodies %d", stats.Spawned, len(s.Bodies()))
	}
}

func TestSpawnIntent(t *testing.T) {
	s := newTestSim(t)
	cfg := s.Config()

	for i := 0; i < 50; i++ {
		stats := s.Step(FrameInput{Intents: input.IntentSpawn})
		if stats.Spawned != 1 {
			t.Fatalf("frame %d: spawned = %d, want 1", i, stats.Spawned)
		}
	}

	if len(s.Bodies()) != 50 {
		t.Fatalf("bodies = %d, want 50", len(s.Bodies()))
	}
	for i, b := range s.Bodies() {
		if !s.Arena().Contains(b) {
			t.Errorf("body %d outside the arena", i)
		}
		if b.Mass < float64(cfg.MinMass) || b.Mass > float64(cfg.MaxMass) || b.Mass != math.Trunc(b.Mass) {
			t.Errorf("body %d mass %v outside [%d, %d]", i, b.Mass, cfg.MinMass, cfg.MaxMass)
		}
		if b.Radius != b.Mass*cfg.MassRatio {
			t.Errorf("body %d radius %v, want mass*ratio", i, b.Radius)
		}
		if b.Color.R < minChannel || b.Color.G < minChannel || b.Color.B < minChannel {
			t.Errorf("body %d color too dark: %+v", i, b.Color)
		}
	}
}

func TestSpawnRespectsMaxBodies(t *testing.T) {
	s := newTestSim(t, func(c *config.Config) { c.MaxBodies = 3 })

	for i := 0; i < 10; i++ {
		s.Step(FrameInput{Intents: input.IntentSpawn})
	}

	if n := len(s.Bodies()); n != 3 {
		t.Errorf("bodies = %d, want limit 3", n)
	}
}

func TestCameraIntents(t *testing.T) {
	s := newTestSim(t)

	s.Step(FrameInput{Intents: input.IntentPanRight | input.IntentPanDown})
	cam := s.Camera()
	if cam.OffsetX != cam.PanStep || cam.OffsetY != cam.PanStep {
		t.Errorf("offset = (%v, %v), want (%v, %v)", cam.OffsetX, cam.OffsetY, cam.PanStep, cam.PanStep)
	}

	s.Step(FrameInput{Intents: input.IntentPanLeft | input.IntentPanRight})
	if s.Camera().OffsetX != cam.OffsetX {
		t.Errorf("opposite pans did not cancel")
	}

	s.Step(FrameInput{Intents: input.IntentResetView})
	cam = s.Camera()
	if cam.Zoom != 1 || cam.OffsetX != 0 || cam.OffsetY != 0 {
		t.Errorf("view not reset: %+v", cam)
	}
}

func TestToggleStatsAndQuit(t *testing.T) {
	s := newTestSim(t)

	s.Step(FrameInput{Intents: input.IntentToggleStats})
	if !s.ShowStats() {
		t.Errorf("stats not enabled")
	}
	if s.Quit() {
		t.Errorf("quit set without a quit intent")
	}

	s.Step(FrameInput{Intents: input.IntentQuit})
	if !s.Quit() {
		t.Errorf("quit intent ignored")
	}
}

func TestHitTestUsesZoomedCircle(t *testing.T) {
	bodies := []*physics.Body{{X: 100, Y: 100, Mass: 1, Radius: 20}}
	cam := camera.New(1, 10)
	cam.ZoomIn() // zoom 2

	// Screen center is (200, 200) with a rendered radius of 40.
	if HitTest(bodies, cam, 235, 200) == nil {
		t.Errorf("point inside the rendered circle missed")
	}
	if HitTest(bodies, cam, 100, 100) != nil {
		t.Errorf("unscaled world position must not hit at zoom 2")
	}
	if HitTest(bodies, cam, 245, 200) != nil {
		t.Errorf("point outside the rendered circle hit")
	}
}

func TestHitTestPrefersTopmost(t *testing.T) {
	bottom := &physics.Body{X: 100, Y: 100, Mass: 1, Radius: 20}
	top := &physics.Body{X: 110, Y: 100, Mass: 1, Radius: 20}

	if got := HitTest([]*physics.Body{bottom, top}, camera.New(0.1, 10), 105, 100); got != top {
		t.Errorf("HitTest returned the lower body")
	}
}

func TestEnergyConservedWhenElastic(t *testing.T) {
	s := newTestSim(t)
	for i := 0; i < 30; i++ {
		s.Step(FrameInput{Intents: input.IntentSpawn})
	}
	start := s.Totals().KineticEnergy
	if start == 0 {
		t.Skip("all spawned bodies at rest")
	}

	for i := 0; i < 300; i++ {
		s.Step(FrameInput{})
	}

	end := s.Totals().KineticEnergy
	if math.Abs(end-start)/start > 1e-6 {
		t.Errorf("kinetic energy drifted: %v -> %v", start, end)
	}
}

func TestStatusLineAndLabel(t *testing.T) {
	s := newTestSim(t)
	b := addBody(t, s, 100, 100, 2, -1, 10, 20)

	if !strings.Contains(s.StatusLine(), "running") {
		t.Errorf("status line %q does not show running", s.StatusLine())
	}
	s.Step(FrameInput{Intents: input.IntentPause})
	if !strings.Contains(s.StatusLine(), "paused") {
		t.Errorf("status line %q does not show paused", s.StatusLine())
	}

	want := "m=10 v=(2.0,-1.0) p=(20.0,-10.0)"
	if got := BodyLabel(b); got != want {
		t.Errorf("BodyLabel = %q, want %q", got, want)
	}
}

func TestSpawnerDeterministic(t *testing.T) {
	cfg := config.Default()
	a := NewSpawner(cfg, 99)
	b := NewSpawner(cfg, 99)

	for i := 0; i < 20; i++ {
		pa, pb := a.Params(), b.Params()
		if pa != pb {
			t.Fatalf("spawn %d differs: %+v vs %+v", i, pa, pb)
		}
		if pa.X < config.SpawnMargin || pa.X > cfg.Width-config.SpawnMargin {
			t.Errorf("x = %v outside spawn band", pa.X)
		}
		if pa.Y < config.SpawnMargin || pa.Y > cfg.Height/2 {
			t.Errorf("y = %v outside spawn band", pa.Y)
		}
		if math.Abs(pa.VX) > float64(cfg.MaxSpawnSpeed) || pa.VX != math.Trunc(pa.VX) {
			t.Errorf("vx = %v not an integer in range", pa.VX)
		}
	}
}
