package physics

// Arena is the bounded world rectangle [0, Width] x [0, Height].
type Arena struct {
	Width  float64
	Height float64
}

// Contains reports whether the body's bounding circle lies inside the arena.
func (a Arena) Contains(b *Body) bool {
	return b.X >= b.Radius && b.X <= a.Width-b.Radius &&
		b.Y >= b.Radius && b.Y <= a.Height-b.Radius
}

// Reflect clamps b into the arena and negates the velocity component of every
// axis it had to clamp. Returns true if any wall was hit.
func (a Arena) Reflect(b *Body) bool {
	hit := false

	if b.X-b.Radius < 0 {
		b.X = b.Radius
		b.VX = -b.VX
		hit = true
	} else if b.X+b.Radius > a.Width {
		b.X = a.Width - b.Radius
		b.VX = -b.VX
		hit = true
	}

	if b.Y-b.Radius < 0 {
		b.Y = b.Radius
		b.VY = -b.VY
		hit = true
	} else if b.Y+b.Radius > a.Height {
		b.Y = a.Height - b.Radius
		b.VY = -b.VY
		hit = true
	}

	return hit
}

// Clamp moves b back inside the arena without touching its velocity.
// Returns true if the position changed.
func (a Arena) Clamp(b *Body) bool {
	x := Clamp(b.X, b.Radius, a.Width-b.Radius)
	y := Clamp(b.Y, b.Radius, a.Height-b.Radius)
	moved := x != b.X || y != b.Y
	b.X, b.Y = x, y
	return moved
}
