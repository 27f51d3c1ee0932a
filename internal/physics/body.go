package physics

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidBody is returned when a body would be built with a non-positive
// mass or radius, or a restitution outside [0, 1].
var ErrInvalidBody = errors.New("invalid body parameters")

// Color is an RGB display attribute. It has no physical meaning.
type Color struct {
	R, G, B uint8
}

// Body is a single circular particle. Position and velocity are in world
// units; velocity is applied once per simulation step.
type Body struct {
	X, Y        float64 // Center position
	VX, VY      float64 // Velocity per step
	Mass        float64
	Radius      float64
	Restitution float64 // 1 = perfectly elastic, 0 = perfectly inelastic
	Color       Color

	Selected bool
	Dragging bool

	dragOffsetX, dragOffsetY float64 // Body center minus grab point
	anchorX, anchorY         float64 // Pointer position on the previous drag frame
}

// BodyParams describes a spawn request.
// Radius is derived as Mass*MassRatio when left at zero.
type BodyParams struct {
	X, Y        float64
	VX, VY      float64
	Mass        float64
	Radius      float64
	MassRatio   float64
	Restitution float64
	Color       Color
}

// NewBody validates p and builds a free body from it.
func NewBody(p BodyParams) (*Body, error) {
	radius := p.Radius
	if radius == 0 {
		radius = p.Mass * p.MassRatio
	}

	// Negated comparisons also reject NaN.
	if !(p.Mass > 0) {
		return nil, fmt.Errorf("%w: mass %v must be positive", ErrInvalidBody, p.Mass)
	}
	if !(radius > 0) {
		return nil, fmt.Errorf("%w: radius %v must be positive", ErrInvalidBody, radius)
	}
	if !(p.Restitution >= 0 && p.Restitution <= 1) {
		return nil, fmt.Errorf("%w: restitution %v outside [0, 1]", ErrInvalidBody, p.Restitution)
	}

	return &Body{
		X:           p.X,
		Y:           p.Y,
		VX:          p.VX,
		VY:          p.VY,
		Mass:        p.Mass,
		Radius:      radius,
		Restitution: p.Restitution,
		Color:       p.Color,
	}, nil
}

// Integrate advances a free body by one step and reflects it off the arena
// walls. The body is moved first and clamped afterwards, so it never rests
// outside the arena even after a large single-step displacement.
//
// A positive restThreshold zeroes velocity components smaller than it before
// moving, letting slow bodies settle. This drains kinetic energy over time and
// is off (0) by default.
//
// Bodies being dragged are left untouched.
func (b *Body) Integrate(arena Arena, restThreshold float64) {
	if b.Dragging {
		return
	}

	if restThreshold > 0 {
		if math.Abs(b.VX) < restThreshold {
			b.VX = 0
		}
		if math.Abs(b.VY) < restThreshold {
			b.VY = 0
		}
	}

	b.X += b.VX
	b.Y += b.VY

	arena.Reflect(b)
}

// BeginDrag grabs the body at pointer position (px, py) in world space.
// The grab offset is kept so the body does not snap its center to the pointer.
func (b *Body) BeginDrag(px, py float64) {
	b.Selected = true
	b.Dragging = true
	b.dragOffsetX = b.X - px
	b.dragOffsetY = b.Y - py
	b.VX = 0
	b.VY = 0
	b.anchorX = px
	b.anchorY = py
}

// DragTo moves a grabbed body with the pointer. Velocity is the pointer
// displacement since the previous frame scaled by velocityScale, which is what
// the body keeps as a throw velocity once released.
func (b *Body) DragTo(px, py, velocityScale float64) {
	if !b.Dragging {
		return
	}
	b.X = px + b.dragOffsetX
	b.Y = py + b.dragOffsetY
	b.VX = (px - b.anchorX) * velocityScale
	b.VY = (py - b.anchorY) * velocityScale
	b.anchorX = px
	b.anchorY = py
}

// EndDrag releases the body. Velocity from the last drag frame is retained.
func (b *Body) EndDrag() {
	b.Selected = false
	b.Dragging = false
	b.dragOffsetX, b.dragOffsetY = 0, 0
	b.anchorX, b.anchorY = 0, 0
}

// Momentum returns the momentum vector m*v.
func (b *Body) Momentum() (float64, float64) {
	return b.Mass * b.VX, b.Mass * b.VY
}

// KineticEnergy returns 1/2 m |v|^2.
func (b *Body) KineticEnergy() float64 {
	return 0.5 * b.Mass * (b.VX*b.VX + b.VY*b.VY)
}
