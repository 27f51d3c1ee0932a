package sim

import (
	"github.com/tomz197/ballpit/internal/camera"
	"github.com/tomz197/ballpit/internal/physics"
)

// Controller turns the pointer into select and drag state. At most one body
// is held at a time.
type Controller struct {
	VelocityScale float64 // Throw velocity per unit of pointer movement

	held *physics.Body
}

// Held returns the body being dragged, or nil.
func (c *Controller) Held() *physics.Body {
	return c.held
}

// Update applies one frame of pointer state. The pointer (sx, sy) is in
// screen space: hit-testing uses the rendered circles, the drag itself runs
// in world space.
func (c *Controller) Update(bodies []*physics.Body, cam camera.Camera, sx, sy float64, down bool) {
	wx, wy := cam.ScreenToWorld(sx, sy)

	if c.held != nil {
		if down {
			c.held.DragTo(wx, wy, c.VelocityScale)
			return
		}
		c.held.EndDrag()
		c.held = nil
		return
	}

	if !down {
		return
	}

	if b := HitTest(bodies, cam, sx, sy); b != nil {
		b.BeginDrag(wx, wy)
		c.held = b
	}
}

// Forget drops the held body if it is b.
func (c *Controller) Forget(b *physics.Body) {
	if c.held == b {
		c.held = nil
	}
}

// HitTest returns the topmost body whose rendered circle contains the screen
// point (sx, sy), or nil. Later bodies are drawn on top, so the search runs
// backwards.
func HitTest(bodies []*physics.Body, cam camera.Camera, sx, sy float64) *physics.Body {
	for i := len(bodies) - 1; i >= 0; i-- {
		b := bodies[i]
		cx, cy := cam.WorldToScreen(b.X, b.Y)
		if physics.PointInCircle(sx, sy, cx, cy, cam.ScaleLength(b.Radius)) {
			return b
		}
	}
	return nil
}
