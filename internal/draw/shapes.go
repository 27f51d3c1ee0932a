package draw

import "math"

// DrawLine draws a line on the canvas using Bresenham's algorithm.
// Coordinates are in logical space and get scaled to pixels.
func (c *Canvas) DrawLine(p1, p2 Point, col Color) {
	x1, y1 := c.toPixel(p1.X), c.toPixel(p1.Y)
	x2, y2 := c.toPixel(p2.X), c.toPixel(p2.Y)

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		c.setPixel(x1, y1, col)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// FillCircle draws a filled circle. Pixels whose centers lie inside the
// circle are set; a circle smaller than one pixel still sets its center.
func (c *Canvas) FillCircle(center Point, radius float64, col Color) {
	cx := center.X * c.scale
	cy := center.Y * c.scale
	r := radius * c.scale

	// Clip in float space first: a deep zoom can push the bounds past int range.
	yStart := int(math.Max(math.Floor(cy-r), 0))
	yEnd := int(math.Min(math.Ceil(cy+r), float64(c.subPixelHeight-1)))
	r2 := r * r

	for y := yStart; y <= yEnd; y++ {
		dy := float64(y) + 0.5 - cy
		if dy*dy > r2 {
			continue
		}
		half := math.Sqrt(r2 - dy*dy)
		xStart := int(math.Max(math.Ceil(cx-half-0.5), 0))
		xEnd := int(math.Min(math.Floor(cx+half-0.5), float64(c.termWidth-1)))
		for x := xStart; x <= xEnd; x++ {
			c.setPixel(x, y, col)
		}
	}

	c.setPixel(int(math.Floor(cx)), int(math.Floor(cy)), col)
}

// StrokeCircle draws the outline of a circle.
func (c *Canvas) StrokeCircle(center Point, radius float64, col Color) {
	r := radius * c.scale
	// Enough segments that neighbouring points are about a pixel apart.
	segments := int(math.Ceil(2 * math.Pi * r))
	if segments < 8 {
		segments = 8
	}

	prev := Point{X: center.X + radius, Y: center.Y}
	for i := 1; i <= segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		p := Point{X: center.X + radius*math.Cos(a), Y: center.Y + radius*math.Sin(a)}
		c.DrawLine(prev, p, col)
		prev = p
	}
}

// StrokeRect draws the outline of an axis-aligned rectangle.
func (c *Canvas) StrokeRect(topLeft, bottomRight Point, col Color) {
	topRight := Point{X: bottomRight.X, Y: topLeft.Y}
	bottomLeft := Point{X: topLeft.X, Y: bottomRight.Y}
	c.DrawLine(topLeft, topRight, col)
	c.DrawLine(topRight, bottomRight, col)
	c.DrawLine(bottomRight, bottomLeft, col)
	c.DrawLine(bottomLeft, topLeft, col)
}

// ArrowHead returns the two barb points of an arrow pointing from "from" to
// "tip", each headLength long and 30 degrees off the shaft. ok is false for a
// zero-length arrow.
func ArrowHead(from, tip Point, headLength float64) (left, right Point, ok bool) {
	dx, dy := tip.X-from.X, tip.Y-from.Y
	if dx == 0 && dy == 0 {
		return Point{}, Point{}, false
	}
	angle := math.Atan2(dy, dx)
	left = Point{
		X: tip.X - headLength*math.Cos(angle-math.Pi/6),
		Y: tip.Y - headLength*math.Sin(angle-math.Pi/6),
	}
	right = Point{
		X: tip.X - headLength*math.Cos(angle+math.Pi/6),
		Y: tip.Y - headLength*math.Sin(angle+math.Pi/6),
	}
	return left, right, true
}

// DrawArrow draws a shaft from "from" to "tip" with a head at the tip.
// Nothing is drawn for a zero-length arrow.
func (c *Canvas) DrawArrow(from, tip Point, headLength float64, col Color) {
	left, right, ok := ArrowHead(from, tip, headLength)
	if !ok {
		return
	}
	c.DrawLine(from, tip, col)
	c.DrawLine(tip, left, col)
	c.DrawLine(tip, right, col)
}
