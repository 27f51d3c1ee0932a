package physics

import (
	"math"
	"sort"
)

// CorrectionPolicy selects how overlap is split between two colliding bodies.
type CorrectionPolicy int

const (
	// CorrectEqualSplit pushes each body back by half the overlap, whatever
	// the masses. This is the default.
	CorrectEqualSplit CorrectionPolicy = iota
	// CorrectMassWeighted moves the lighter body further, in inverse
	// proportion to its share of the total mass.
	CorrectMassWeighted
)

// BroadPhase selects how candidate pairs are found.
type BroadPhase int

const (
	// BroadPhaseAllPairs tests every unordered pair (i < j).
	BroadPhaseAllPairs BroadPhase = iota
	// BroadPhaseGrid only tests pairs sharing a grid neighborhood. Candidate
	// pairs are collected before resolution, so a contact created by another
	// pair's overlap correction in the same step waits for the next step.
	BroadPhaseGrid
)

// Resolver resolves overlaps between bodies with a normal/tangent
// decomposition: positions are separated along the contact normal and the
// normal velocity components are exchanged with the given restitution while
// tangential components are left alone.
//
// Detection is discrete. Two bodies that cross each other completely within a
// single step are never seen as colliding.
type Resolver struct {
	Arena              Arena
	Restitution        float64 // Used unless UseBodyRestitution is set
	UseBodyRestitution bool    // Use min(a.Restitution, b.Restitution)
	Correction         CorrectionPolicy
	BroadPhase         BroadPhase

	grid  *SpatialGrid
	pairs []pair
}

type pair struct {
	i, j int
}

// NewResolver creates a fully elastic, equal-split, all-pairs resolver.
func NewResolver(arena Arena) *Resolver {
	return &Resolver{
		Arena:       arena,
		Restitution: 1,
	}
}

// Resolve separates a and b if they overlap and updates their velocities.
// Returns true if the pair was colliding.
//
// A body being dragged is kinematic: it follows the pointer, so the free body
// takes the whole correction and bounces off it. Two dragged bodies are left
// alone.
func (r *Resolver) Resolve(a, b *Body) bool {
	if !CirclesOverlap(a.X, a.Y, a.Radius, b.X, b.Y, b.Radius) {
		return false
	}

	dist := Distance(a.X, a.Y, b.X, b.Y)
	overlap := a.Radius + b.Radius - dist

	// Coincident centers have no direction; push apart along +x.
	nx, ny := 1.0, 0.0
	if dist > 0 {
		nx = (b.X - a.X) / dist
		ny = (b.Y - a.Y) / dist
	}

	switch {
	case a.Dragging && b.Dragging:
		return true
	case a.Dragging:
		r.bounceOff(b, a, nx, ny, overlap)
	case b.Dragging:
		r.bounceOff(a, b, -nx, -ny, overlap)
	default:
		r.separate(a, b, nx, ny, overlap)
		r.exchange(a, b, nx, ny)
		// Overlap correction can push a body through a wall.
		r.Arena.Clamp(a)
		r.Arena.Clamp(b)
	}
	return true
}

// bounceOff resolves a free body against a held one. (nx, ny) points from
// held towards free. The held body's position and velocity are not touched.
func (r *Resolver) bounceOff(free, held *Body, nx, ny, overlap float64) {
	free.X += nx * overlap
	free.Y += ny * overlap

	// Normal velocity relative to the held body; negative while approaching.
	rel := (free.VX-held.VX)*nx + (free.VY-held.VY)*ny
	if rel < 0 {
		k := (1 + r.restitution(free, held)) * rel
		free.VX -= k * nx
		free.VY -= k * ny
	}

	r.Arena.Clamp(free)
}

// separate moves a and b apart along the normal so they just touch.
func (r *Resolver) separate(a, b *Body, nx, ny, overlap float64) {
	shareA, shareB := overlap/2, overlap/2
	if r.Correction == CorrectMassWeighted {
		total := a.Mass + b.Mass
		shareA = overlap * b.Mass / total
		shareB = overlap * a.Mass / total
	}

	a.X -= nx * shareA
	a.Y -= ny * shareA
	b.X += nx * shareB
	b.Y += ny * shareB
}

// exchange applies the 1-D collision formula to the normal velocity components.
func (r *Resolver) exchange(a, b *Body, nx, ny float64) {
	tx, ty := -ny, nx

	v1n := a.VX*nx + a.VY*ny
	v1t := a.VX*tx + a.VY*ty
	v2n := b.VX*nx + b.VY*ny
	v2t := b.VX*tx + b.VY*ty

	e := r.restitution(a, b)
	m1, m2 := a.Mass, b.Mass
	total := m1 + m2

	// With e = 1 this is (v1n(m1-m2) + 2 m2 v2n) / (m1+m2).
	v1nAfter := (m1*v1n + m2*v2n + m2*e*(v2n-v1n)) / total
	v2nAfter := (m1*v1n + m2*v2n + m1*e*(v1n-v2n)) / total

	a.VX = v1nAfter*nx + v1t*tx
	a.VY = v1nAfter*ny + v1t*ty
	b.VX = v2nAfter*nx + v2t*tx
	b.VY = v2nAfter*ny + v2t*ty
}

func (r *Resolver) restitution(a, b *Body) float64 {
	if r.UseBodyRestitution {
		return math.Min(a.Restitution, b.Restitution)
	}
	return r.Restitution
}

// ResolveAll resolves every colliding pair once, in index order (i < j).
// Returns the number of pairs that were colliding.
func (r *Resolver) ResolveAll(bodies []*Body) int {
	if r.BroadPhase == BroadPhaseGrid {
		return r.resolveGrid(bodies)
	}

	collisions := 0
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			if r.Resolve(bodies[i], bodies[j]) {
				collisions++
			}
		}
	}
	return collisions
}

// resolveGrid collects candidate pairs from the spatial grid, sorts them into
// the same (i, j) order the exhaustive scan uses and resolves them.
func (r *Resolver) resolveGrid(bodies []*Body) int {
	if len(bodies) < 2 {
		return 0
	}

	// Cell size must cover the largest possible contact distance.
	maxRadius := 0.0
	for _, b := range bodies {
		maxRadius = math.Max(maxRadius, b.Radius)
	}
	cellSize := 2 * maxRadius
	if r.grid == nil || r.grid.CellSize() != cellSize {
		r.grid = NewSpatialGrid(r.Arena.Width, r.Arena.Height, cellSize)
	}

	r.grid.Clear()
	for i, b := range bodies {
		r.grid.Insert(b.X, b.Y, i)
	}

	r.pairs = r.pairs[:0]
	for i, b := range bodies {
		r.grid.QueryAround(b.X, b.Y, func(j int) bool {
			if j > i {
				r.pairs = append(r.pairs, pair{i: i, j: j})
			}
			return false
		})
	}

	sort.Slice(r.pairs, func(x, y int) bool {
		if r.pairs[x].i != r.pairs[y].i {
			return r.pairs[x].i < r.pairs[y].i
		}
		return r.pairs[x].j < r.pairs[y].j
	})

	collisions := 0
	for _, p := range r.pairs {
		if r.Resolve(bodies[p.i], bodies[p.j]) {
			collisions++
		}
	}
	return collisions
}
