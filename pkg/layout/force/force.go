// Package force implements a force-directed layout.
//
// Every item is a mass at its box center. All pairs repel with a force
// proportional to the inverse squared distance. The distance is floored at a
// tenth of the pair's combined half-width plus a margin, so large boxes never
// see the near-singular force of two points. Every link is a spring toward
// the ideal edge length. The spring carries a constant offset equal to the
// pair's repulsion at the ideal length, so an isolated edge is in equilibrium
// at exactly IdealEdgeLength.
//
// Positions start on a circle (radius sqrt(n)*100) in item order, with a
// small jitter drawn from a PCG generator seeded by Config.Seed, so the
// result is reproducible. Each iteration integrates damped velocities,
// clamps every step to the current temperature and cools the temperature
// geometrically. The temperature starts at the larger of the ideal length
// and the start radius. The simulation stops early once the total
// displacement stays below a threshold for a few consecutive iterations.
// A final pass pushes overlapping boxes apart along the axis of least
// overlap, so no two boxes share area.
//
// Non-finite positions are detected after every iteration and rolled back to
// the last finite state with the temperature halved. If the final iteration
// still had to roll back, or more than a quarter of the budget did, Place
// fails with NUMERIC_INSTABILITY.
package force

import (
	"context"
	"math"
	"math/rand/v2"

	"github.com/matzehuels/drawlayout/pkg/errors"
	"github.com/matzehuels/drawlayout/pkg/igr"
	"github.com/matzehuels/drawlayout/pkg/layout"
)

// Default simulation constants.
const (
	DefaultRepulsion  = 5000.0
	DefaultAttraction = 0.05
	DefaultDamping    = 0.85
	DefaultCooling    = 0.95
	DefaultThreshold  = 0.01

	minDistance     = 1.0
	minTemperature  = 1e-3
	settleIters     = 3
	jitter          = 1.0
	initialRadiusPx = 100.0

	// The repulsion floor is floorScale * ((w_i+w_j)/2 + floorMargin).
	floorMargin = 50.0
	floorScale  = 0.1

	separationGap    = 1.0
	separationPasses = 200
	spreadAfter      = 50
	spreadFactor     = 1.5
	overlapEpsilon   = 1e-9
)

// Engine is the force-directed layout engine. Zero fields take the
// defaults above.
type Engine struct {
	Repulsion  float64 // Pairwise repulsion constant
	Attraction float64 // Spring stiffness
	Damping    float64 // Velocity retained per iteration
	Cooling    float64 // Temperature factor per iteration
	Threshold  float64 // Total displacement that counts as settled

	// afterStep, when set, sees the positions after every integration step.
	afterStep func(iter int, pos []vec)
}

// New returns a force engine with default constants.
func New() *Engine { return &Engine{} }

// Name implements layout.Engine.
func (*Engine) Name() string { return layout.NameForce }

type vec struct{ x, y float64 }

func (v vec) finite() bool {
	return !math.IsNaN(v.x) && !math.IsInf(v.x, 0) && !math.IsNaN(v.y) && !math.IsInf(v.y, 0)
}

// Place implements layout.Engine.
func (e *Engine) Place(_ context.Context, g *layout.Graph, cfg igr.Config) error {
	n := len(g.Items)
	if n == 0 {
		return nil
	}
	cfg = cfg.WithDefaults()
	p := e.params(cfg)

	pos := initialPositions(n, cfg.Seed)
	vel := make([]vec, n)
	last := append([]vec(nil), pos...)
	force := make([]vec, n)

	temp := math.Max(cfg.IdealEdgeLength, initialRadius(n))
	resets, settled := 0, 0
	lastReset := false
	for iter := 0; iter < cfg.Iterations; iter++ {
		p.forces(g, pos, force)

		total := 0.0
		for i := range pos {
			v := vec{(vel[i].x + force[i].x) * p.damping, (vel[i].y + force[i].y) * p.damping}
			if mag := math.Hypot(v.x, v.y); mag > temp {
				v.x, v.y = v.x*temp/mag, v.y*temp/mag
			}
			vel[i] = v
			pos[i].x += v.x
			pos[i].y += v.y
			total += math.Hypot(v.x, v.y)
		}
		if e.afterStep != nil {
			e.afterStep(iter, pos)
		}

		lastReset = !allFinite(pos) || math.IsNaN(total)
		if lastReset {
			resets++
			copy(pos, last)
			clear(vel)
			temp = math.Max(temp/2, minTemperature)
			settled = 0
			continue
		}
		copy(last, pos)
		temp = math.Max(temp*p.cooling, minTemperature)

		if total < p.threshold {
			if settled++; settled >= settleIters {
				break
			}
		} else {
			settled = 0
		}
	}

	if lastReset || resets > cfg.Iterations/4 {
		return errors.New(errors.ErrCodeNumericInstability,
			"force simulation diverged: %d of %d iterations produced non-finite positions", resets, cfg.Iterations)
	}

	if !separate(g.Items, pos, separationGap) {
		return errors.New(errors.ErrCodeNumericInstability, "force layout could not separate %d overlapping boxes", n)
	}

	for i := range g.Items {
		it := &g.Items[i]
		it.X = pos[i].x - it.Width/2
		it.Y = pos[i].y - it.Height/2
	}
	g.Normalize()
	return nil
}

type params struct {
	repulsion, attraction, damping, cooling, threshold float64
	ideal                                              float64
}

func (e *Engine) params(cfg igr.Config) params {
	p := params{
		repulsion:  orDefault(e.Repulsion, DefaultRepulsion),
		attraction: orDefault(e.Attraction, DefaultAttraction),
		damping:    orDefault(e.Damping, DefaultDamping),
		cooling:    orDefault(e.Cooling, DefaultCooling),
		threshold:  orDefault(e.Threshold, DefaultThreshold),
		ideal:      cfg.IdealEdgeLength,
	}
	return p
}

// floor is the smallest distance at which a and b repel each other.
func floor(a, b layout.Item) float64 {
	return math.Max(((a.Width+b.Width)/2+floorMargin)*floorScale, minDistance)
}

// springOffset cancels a linked pair's repulsion at the ideal length.
func (p params) springOffset(a, b layout.Item) float64 {
	l := math.Max(p.ideal, floor(a, b))
	return p.repulsion / (l * l)
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

// forces writes the net force on every item into out.
func (p params) forces(g *layout.Graph, pos, out []vec) {
	clear(out)
	for i := range pos {
		for j := i + 1; j < len(pos); j++ {
			dx, dy := pos[i].x-pos[j].x, pos[i].y-pos[j].y
			d := math.Hypot(dx, dy)
			if d == 0 {
				// Split coincident points along a direction fixed by the pair.
				angle := float64(i+j) * 2.399963229728653
				dx, dy = math.Cos(angle), math.Sin(angle)
				d = 1
			}
			r := math.Max(d, floor(g.Items[i], g.Items[j]))
			f := p.repulsion / (r * r)
			fx, fy := f*dx/d, f*dy/d
			out[i].x += fx
			out[i].y += fy
			out[j].x -= fx
			out[j].y -= fy
		}
	}
	for _, l := range g.Links {
		if l.From == l.To {
			continue
		}
		a, b := pos[l.From], pos[l.To]
		dx, dy := b.x-a.x, b.y-a.y
		d := math.Hypot(dx, dy)
		if d == 0 {
			continue
		}
		f := p.attraction*(d-p.ideal) + p.springOffset(g.Items[l.From], g.Items[l.To])
		fx, fy := f*dx/d, f*dy/d
		out[l.From].x += fx
		out[l.From].y += fy
		out[l.To].x -= fx
		out[l.To].y -= fy
	}
}

// initialPositions places n points on a circle in index order with a small
// seeded jitter.
func initialPositions(n int, seed uint64) []vec {
	pos := make([]vec, n)
	if n == 1 {
		return pos
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	radius := initialRadius(n)
	for i := range pos {
		angle := 2 * math.Pi * float64(i) / float64(n)
		pos[i] = vec{
			x: radius*math.Cos(angle) + (rng.Float64()*2-1)*jitter,
			y: radius*math.Sin(angle) + (rng.Float64()*2-1)*jitter,
		}
	}
	return pos
}

func initialRadius(n int) float64 {
	return math.Sqrt(float64(n)) * initialRadiusPx
}

// separate moves box centers until every pair of boxes is at least gap apart
// on one axis. Dense clusters where pairwise pushes keep colliding are spread
// about their centroid. It reports false if overlaps remain after the pass
// budget.
func separate(items []layout.Item, pos []vec, gap float64) bool {
	for pass := 0; pushApart(items, pos, gap); pass++ {
		if pass >= separationPasses {
			return false
		}
		if pass >= spreadAfter {
			spread(pos, spreadFactor)
		}
	}
	return true
}

// pushApart splits every overlapping pair along the axis that needs the
// smaller move and reports whether any pair overlapped.
func pushApart(items []layout.Item, pos []vec, gap float64) bool {
	found := false
	for i := range pos {
		for j := i + 1; j < len(pos); j++ {
			dx, dy := pos[j].x-pos[i].x, pos[j].y-pos[i].y
			ox := (items[i].Width+items[j].Width)/2 + gap - math.Abs(dx)
			oy := (items[i].Height+items[j].Height)/2 + gap - math.Abs(dy)
			if ox <= overlapEpsilon || oy <= overlapEpsilon {
				continue
			}
			found = true
			if ox <= oy {
				s := sign(dx) * ox / 2
				pos[i].x -= s
				pos[j].x += s
			} else {
				s := sign(dy) * oy / 2
				pos[i].y -= s
				pos[j].y += s
			}
		}
	}
	return found
}

// spread scales every position away from the centroid by factor.
func spread(pos []vec, factor float64) {
	var c vec
	for _, p := range pos {
		c.x += p.x
		c.y += p.y
	}
	c.x /= float64(len(pos))
	c.y /= float64(len(pos))
	for i := range pos {
		pos[i].x = c.x + (pos[i].x-c.x)*factor
		pos[i].y = c.y + (pos[i].y-c.y)*factor
	}
}

// sign returns -1 for negative v and 1 otherwise, so coincident centers
// split in a fixed direction.
func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

func allFinite(pos []vec) bool {
	for _, v := range pos {
		if !v.finite() {
			return false
		}
	}
	return true
}
