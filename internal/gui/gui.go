// Package gui runs a sandbox in a desktop window with ebiten.
package gui

import (
	"image/color"
	"io"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/tomz197/ballpit/internal/camera"
	"github.com/tomz197/ballpit/internal/config"
	"github.com/tomz197/ballpit/internal/draw"
	"github.com/tomz197/ballpit/internal/input"
	"github.com/tomz197/ballpit/internal/physics"
	"github.com/tomz197/ballpit/internal/sim"
)

var (
	background    = color.RGBA{0, 0, 0, 255}
	wallColor     = color.RGBA{255, 255, 255, 255}
	selectedColor = color.RGBA{255, 255, 255, 255}
	arrowColor    = color.RGBA{230, 230, 230, 255}
)

// CollisionSound is notified of the collisions resolved each frame.
type CollisionSound interface {
	Collision(count int)
}

// Game implements ebiten.Game for one simulation.
type Game struct {
	sim    *sim.Simulation
	sound  CollisionSound
	logger *log.Logger
}

// Options configures a Game.
type Options struct {
	Sound  CollisionSound // Optional
	Logger *log.Logger
}

// New wraps s in an ebiten game.
func New(s *sim.Simulation, opts Options) *Game {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Game{
		sim:    s,
		sound:  opts.Sound,
		logger: logger,
	}
}

// Update advances the simulation by one step. Returning ebiten.Termination
// closes the window.
func (g *Game) Update() error {
	mx, my := ebiten.CursorPosition()
	_, wheelY := ebiten.Wheel()

	frame := sim.FrameInput{
		PointerX:    float64(mx),
		PointerY:    float64(my),
		PointerDown: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		Intents:     keyIntents(inpututil.IsKeyJustPressed, ebiten.IsKeyPressed, wheelY),
	}

	stats := g.sim.Step(frame)
	if stats.Collisions > 0 && g.sound != nil {
		g.sound.Collision(stats.Collisions)
	}

	if g.sim.Quit() {
		g.logger.Info("window closed", "frames", g.sim.Frame())
		return ebiten.Termination
	}
	return nil
}

// keyIntents maps keys and the wheel to intents. Discrete actions fire on
// the press edge; pan keys fire every frame they are held.
func keyIntents(justPressed, pressed func(ebiten.Key) bool, wheelY float64) input.Intent {
	var in input.Intent

	edges := []struct {
		keys   []ebiten.Key
		intent input.Intent
	}{
		{[]ebiten.Key{ebiten.KeySpace}, input.IntentSpawn},
		{[]ebiten.Key{ebiten.KeyBackspace, ebiten.KeyDelete}, input.IntentDelete},
		{[]ebiten.Key{ebiten.KeyP}, input.IntentPause},
		{[]ebiten.Key{ebiten.KeyEqual, ebiten.KeyNumpadAdd}, input.IntentZoomIn},
		{[]ebiten.Key{ebiten.KeyMinus, ebiten.KeyNumpadSubtract}, input.IntentZoomOut},
		{[]ebiten.Key{ebiten.KeyI}, input.IntentToggleStats},
		{[]ebiten.Key{ebiten.Key0, ebiten.KeyNumpad0}, input.IntentResetView},
		{[]ebiten.Key{ebiten.KeyQ, ebiten.KeyEscape}, input.IntentQuit},
	}
	for _, e := range edges {
		for _, k := range e.keys {
			if justPressed(k) {
				in |= e.intent
			}
		}
	}

	held := []struct {
		keys   []ebiten.Key
		intent input.Intent
	}{
		{[]ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyW}, input.IntentPanUp},
		{[]ebiten.Key{ebiten.KeyArrowDown, ebiten.KeyS}, input.IntentPanDown},
		{[]ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyA}, input.IntentPanLeft},
		{[]ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyD}, input.IntentPanRight},
	}
	for _, h := range held {
		for _, k := range h.keys {
			if pressed(k) {
				in |= h.intent
			}
		}
	}

	switch {
	case wheelY > 0:
		in |= input.IntentZoomIn
	case wheelY < 0:
		in |= input.IntentZoomOut
	}
	return in
}

// Draw renders walls, bodies and the optional stats overlay.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)

	cam := g.sim.Camera()
	arena := g.sim.Arena()

	x0, y0 := cam.WorldToScreen(0, 0)
	x1, y1 := cam.WorldToScreen(arena.Width, arena.Height)
	vector.StrokeRect(screen, float32(x0), float32(y0), float32(x1-x0), float32(y1-y0),
		float32(cam.ScaleLength(config.WallThickness)), wallColor, true)

	for _, b := range g.sim.Bodies() {
		cx, cy := cam.WorldToScreen(b.X, b.Y)
		r := float32(cam.ScaleLength(b.Radius))
		vector.DrawFilledCircle(screen, float32(cx), float32(cy), r, bodyColor(b), true)
		if b.Selected {
			vector.StrokeCircle(screen, float32(cx), float32(cy), r, 2, selectedColor, true)
		}
	}

	if g.sim.ShowStats() {
		for _, b := range g.sim.Bodies() {
			drawVelocityArrow(screen, cam, b)
			lx, ly := cam.WorldToScreen(b.X-b.Radius, b.Y+b.Radius)
			ebitenutil.DebugPrintAt(screen, sim.BodyLabel(b), int(lx), int(ly))
		}
	}

	ebitenutil.DebugPrint(screen, g.sim.StatusLine())
}

// drawVelocityArrow draws an arrow from the body's center along its velocity.
func drawVelocityArrow(screen *ebiten.Image, cam camera.Camera, b *physics.Body) {
	fx, fy := cam.WorldToScreen(b.X, b.Y)
	tx, ty := cam.WorldToScreen(b.X+b.VX*config.ArrowScale, b.Y+b.VY*config.ArrowScale)

	from := draw.Point{X: fx, Y: fy}
	tip := draw.Point{X: tx, Y: ty}
	left, right, ok := draw.ArrowHead(from, tip, cam.ScaleLength(config.ArrowHeadLength))
	if !ok {
		return
	}

	for _, seg := range [][2]draw.Point{{from, tip}, {tip, left}, {tip, right}} {
		vector.StrokeLine(screen,
			float32(seg[0].X), float32(seg[0].Y), float32(seg[1].X), float32(seg[1].Y),
			2, arrowColor, true)
	}
}

// Layout uses the window size as the screen, so the camera maps world
// units straight to window pixels.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

func bodyColor(b *physics.Body) color.RGBA {
	return color.RGBA{b.Color.R, b.Color.G, b.Color.B, 255}
}
