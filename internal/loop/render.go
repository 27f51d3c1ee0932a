package loop

import (
	"github.com/tomz197/ballpit/internal/camera"
	"github.com/tomz197/ballpit/internal/config"
	"github.com/tomz197/ballpit/internal/draw"
	"github.com/tomz197/ballpit/internal/physics"
	"github.com/tomz197/ballpit/internal/sim"
)

var (
	wallColor     = draw.Color{R: 255, G: 255, B: 255}
	selectedColor = draw.Color{R: 255, G: 255, B: 255}
	arrowColor    = draw.Color{R: 230, G: 230, B: 230}
)

// drawFrame draws the current frame.
func (t *Terminal) drawFrame() error {
	t.canvas.Clear()

	drawScene(t.canvas, t.sim)
	if err := t.canvas.Render(t.chunkWriter); err != nil {
		return err
	}

	if t.sim.ShowStats() {
		t.drawLabels()
	}
	t.drawHUD()

	return t.chunkWriter.Flush()
}

// drawScene rasterizes the arena walls and every body through the camera.
func drawScene(canvas *draw.Canvas, s *sim.Simulation) {
	cam := s.Camera()
	arena := s.Arena()

	// The far walls sit on the last pixel inside the arena, not the first
	// one outside it.
	inset := 0.5 / canvas.Scale()
	topLeft := toScreen(cam, 0, 0)
	bottomRight := toScreen(cam, arena.Width, arena.Height)
	bottomRight.X -= inset
	bottomRight.Y -= inset
	canvas.StrokeRect(topLeft, bottomRight, wallColor)

	for _, b := range s.Bodies() {
		center := toScreen(cam, b.X, b.Y)
		radius := cam.ScaleLength(b.Radius)

		canvas.FillCircle(center, radius, bodyColor(b))
		if b.Selected {
			canvas.StrokeCircle(center, radius, selectedColor)
		}
	}

	if s.ShowStats() {
		for _, b := range s.Bodies() {
			drawVelocityArrow(canvas, cam, b)
		}
	}
}

// drawVelocityArrow draws an arrow from the body's center along its
// velocity. Bodies at rest get no arrow.
func drawVelocityArrow(canvas *draw.Canvas, cam camera.Camera, b *physics.Body) {
	if b.VX == 0 && b.VY == 0 {
		return
	}
	from := toScreen(cam, b.X, b.Y)
	tip := toScreen(cam, b.X+b.VX*config.ArrowScale, b.Y+b.VY*config.ArrowScale)
	canvas.DrawArrow(from, tip, cam.ScaleLength(config.ArrowHeadLength), arrowColor)
}

// drawLabels writes each body's stats next to it.
func (t *Terminal) drawLabels() {
	cam := t.sim.Camera()
	for _, b := range t.sim.Bodies() {
		p := toScreen(cam, b.X, b.Y+b.Radius)
		col, row := t.canvas.LogicalToTerminal(p.X, p.Y)
		if row < 1 || row > t.canvas.TerminalHeight() || col < 1 || col > t.canvas.TerminalWidth() {
			continue
		}
		t.chunkWriter.WriteAt(col, row, sim.BodyLabel(b))
	}
}

// drawHUD writes the status line below the canvas.
func (t *Terminal) drawHUD() {
	row := t.canvas.TerminalHeight() + 1
	t.chunkWriter.WriteAt(1, row, "\033[2K")
	t.chunkWriter.WriteString(t.hud.render(t.sim, t.termWidth))
}

func toScreen(cam camera.Camera, x, y float64) draw.Point {
	sx, sy := cam.WorldToScreen(x, y)
	return draw.Point{X: sx, Y: sy}
}

func bodyColor(b *physics.Body) draw.Color {
	return draw.Color{R: b.Color.R, G: b.Color.G, B: b.Color.B}
}
