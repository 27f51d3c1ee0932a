// Package camera maps between world space and screen space.
package camera

// Camera is a zoom factor plus a pan offset in world units.
//
// Screen = (World - Offset) * Zoom. Physics never reads screen coordinates;
// the camera is only used for rendering and for hit-testing the pointer.
type Camera struct {
	Zoom     float64
	OffsetX  float64
	OffsetY  float64
	ZoomStep float64 // Added or removed per zoom event
	PanStep  float64 // Screen units moved per pan event
}

// zoomEpsilon absorbs float error when the zoom sits exactly one step above the floor.
const zoomEpsilon = 1e-9

// New returns an identity camera with the given step sizes.
func New(zoomStep, panStep float64) Camera {
	return Camera{
		Zoom:     1,
		ZoomStep: zoomStep,
		PanStep:  panStep,
	}
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c Camera) WorldToScreen(wx, wy float64) (float64, float64) {
	return (wx - c.OffsetX) * c.Zoom, (wy - c.OffsetY) * c.Zoom
}

// ScreenToWorld converts screen (pointer) coordinates to world coordinates.
func (c Camera) ScreenToWorld(sx, sy float64) (float64, float64) {
	return sx/c.Zoom + c.OffsetX, sy/c.Zoom + c.OffsetY
}

// ScaleLength converts a world length (radius, stroke width) to screen units.
func (c Camera) ScaleLength(l float64) float64 {
	return l * c.Zoom
}

// ZoomIn increases the zoom by one step.
func (c *Camera) ZoomIn() {
	c.Zoom += c.ZoomStep
}

// ZoomOut decreases the zoom by one step. The zoom never drops below one
// step, so a zoom-out that would cross that floor is ignored.
func (c *Camera) ZoomOut() {
	next := c.Zoom - c.ZoomStep
	if next < c.ZoomStep-zoomEpsilon {
		return
	}
	c.Zoom = next
}

// Pan moves the view by (dx, dy) pan steps. The world distance is divided by
// the zoom so the on-screen speed does not depend on the zoom level.
func (c *Camera) Pan(dx, dy float64) {
	c.OffsetX += dx * c.PanStep / c.Zoom
	c.OffsetY += dy * c.PanStep / c.Zoom
}

// Reset restores zoom 1 and a zero offset.
func (c *Camera) Reset() {
	c.Zoom = 1
	c.OffsetX = 0
	c.OffsetY = 0
}
