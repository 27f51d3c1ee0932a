package sim

import (
	"fmt"

	"github.com/tomz197/ballpit/internal/physics"
)

// Totals are system-wide quantities, useful for watching conservation.
type Totals struct {
	Bodies        int
	MomentumX     float64
	MomentumY     float64
	KineticEnergy float64
}

// Totals sums momentum and kinetic energy over all bodies.
func (s *Simulation) Totals() Totals {
	t := Totals{Bodies: len(s.bodies)}
	for _, b := range s.bodies {
		px, py := b.Momentum()
		t.MomentumX += px
		t.MomentumY += py
		t.KineticEnergy += b.KineticEnergy()
	}
	return t
}

// BodyLabel is the stats overlay text for one body.
func BodyLabel(b *physics.Body) string {
	px, py := b.Momentum()
	return fmt.Sprintf("m=%.0f v=(%.1f,%.1f) p=(%.1f,%.1f)", b.Mass, b.VX, b.VY, px, py)
}

// StatusLine is the one-line summary shown by the front ends.
func (s *Simulation) StatusLine() string {
	t := s.Totals()
	state := "running"
	if s.paused {
		state = "paused"
	}
	return fmt.Sprintf("%s | bodies %d | zoom %.1f | p=(%.1f,%.1f) E=%.1f",
		state, t.Bodies, s.camera.Zoom, t.MomentumX, t.MomentumY, t.KineticEnergy)
}
