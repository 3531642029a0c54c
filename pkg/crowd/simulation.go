package crowd

import (
	"fmt"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/steering"
)

const (
	DefaultNeighborRadius    = 10.0
	DefaultBoundaryMargin    = 5.0
	DefaultBoundaryStrength  = 20.0
	DefaultBoundarySubstep   = 0.016
	defaultBoundaryHalfWidth = 50.0
)

// Simulation owns a flock and advances it in two phases per tick: every
// boid's neighbor set is gathered from a snapshot of the previous state,
// then every boid integrates against that same snapshot. No boid observes
// another boid's post-integration state within a tick.
//
// A Simulation is not safe for concurrent use.
type Simulation struct {
	boids []*Boid

	neighborRadius float64
	boundaryMin    geometry.Vector3D
	boundaryMax    geometry.Vector3D

	boundaryMargin   float64
	boundaryStrength float64
	boundarySubstep  float64

	gatherWorkers int
	exhaustive    bool

	grid     *spatialGrid
	snapshot []steering.State
	scratch  []steering.State
	ticks    uint64

	logger *zap.Logger
}

// Option customizes a Simulation.
type Option func(*Simulation) error

// WithNeighborRadius sets the distance within which boids see each other.
func WithNeighborRadius(r float64) Option {
	return func(s *Simulation) error { return s.SetNeighborRadius(r) }
}

// WithBoundary sets the containment box.
func WithBoundary(min, max geometry.Vector3D) Option {
	return func(s *Simulation) error { return s.SetBoundary(min, max) }
}

// WithBoundaryResponse tunes containment: boids closer than margin to a
// face get strength pushed into their velocity, scaled by substep seconds
// regardless of the tick's dt.
func WithBoundaryResponse(margin, strength, substep float64) Option {
	return func(s *Simulation) error { return s.SetBoundaryResponse(margin, strength, substep) }
}

// WithGatherWorkers spreads the neighbor gathering phase over n goroutines.
// Values below 2 keep it on the calling goroutine.
func WithGatherWorkers(n int) Option {
	return func(s *Simulation) error {
		if n < 0 {
			return fmt.Errorf("%w: gather workers must be >= 0, got %d", ErrInvalidConfig, n)
		}
		s.gatherWorkers = n
		return nil
	}
}

// WithExhaustiveScan replaces the spatial grid by a pairwise scan.
func WithExhaustiveScan() Option {
	return func(s *Simulation) error {
		s.exhaustive = true
		return nil
	}
}

// WithLogger sets the logger used for configuration changes.
func WithLogger(l *zap.Logger) Option {
	return func(s *Simulation) error {
		if l != nil {
			s.logger = l
		}
		return nil
	}
}

// NewSimulation creates an empty simulation with a neighbor radius of 10
// inside the [-50,50] cube.
func NewSimulation(opts ...Option) (*Simulation, error) {
	s := &Simulation{
		neighborRadius:   DefaultNeighborRadius,
		boundaryMin:      geometry.NewVector3(-defaultBoundaryHalfWidth, -defaultBoundaryHalfWidth, -defaultBoundaryHalfWidth),
		boundaryMax:      geometry.NewVector3(defaultBoundaryHalfWidth, defaultBoundaryHalfWidth, defaultBoundaryHalfWidth),
		boundaryMargin:   DefaultBoundaryMargin,
		boundaryStrength: DefaultBoundaryStrength,
		boundarySubstep:  DefaultBoundarySubstep,
		grid:             newSpatialGrid(),
		logger:           zap.NewNop(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// AddBoid appends b to the flock. The simulation takes ownership of it.
func (s *Simulation) AddBoid(b *Boid) error {
	if b == nil {
		return fmt.Errorf("%w: nil boid", ErrInvalidConfig)
	}
	if slices.Contains(s.boids, b) {
		return fmt.Errorf("%w: boid %q already added", ErrInvalidConfig, b.ID)
	}
	s.boids = append(s.boids, b)
	return nil
}

// RemoveBoid drops the first boid with the given id, keeping the order of
// the others, and reports whether one was found.
func (s *Simulation) RemoveBoid(id string) bool {
	i := slices.IndexFunc(s.boids, func(b *Boid) bool { return b.ID == id })
	if i < 0 {
		return false
	}
	s.boids[i].neighbors = nil
	s.boids = slices.Delete(s.boids, i, i+1)
	return true
}

// SetNeighborRadius changes the neighbor radius from the next tick on.
func (s *Simulation) SetNeighborRadius(r float64) error {
	if r < 0 {
		return fmt.Errorf("%w: neighbor radius must be >= 0, got %g", ErrInvalidConfig, r)
	}
	s.neighborRadius = r
	s.debug("neighbor radius set", zap.Float64("radius", r))
	return nil
}

// SetBoundary changes the containment box; min must be componentwise <= max.
func (s *Simulation) SetBoundary(min, max geometry.Vector3D) error {
	if !min.LessOrEqual(max) {
		return fmt.Errorf("%w: boundary min %s is not <= max %s", ErrInvalidConfig, min, max)
	}
	s.boundaryMin, s.boundaryMax = min, max
	s.debug("boundary set", zap.Stringer("min", min), zap.Stringer("max", max))
	return nil
}

// SetBoundaryResponse changes the containment margin, strength and substep.
func (s *Simulation) SetBoundaryResponse(margin, strength, substep float64) error {
	if margin < 0 || strength < 0 || substep < 0 {
		return fmt.Errorf("%w: boundary response must be >= 0, got margin=%g strength=%g substep=%g",
			ErrInvalidConfig, margin, strength, substep)
	}
	s.boundaryMargin, s.boundaryStrength, s.boundarySubstep = margin, strength, substep
	s.debug("boundary response set",
		zap.Float64("margin", margin), zap.Float64("strength", strength), zap.Float64("substep", substep))
	return nil
}

// BoundaryResponse returns the containment margin, strength and substep.
func (s *Simulation) BoundaryResponse() (margin, strength, substep float64) {
	return s.boundaryMargin, s.boundaryStrength, s.boundarySubstep
}

func (s *Simulation) NeighborRadius() float64 { return s.neighborRadius }
func (s *Simulation) Len() int                { return len(s.boids) }

// Ticks returns the number of completed updates.
func (s *Simulation) Ticks() uint64 { return s.ticks }

// Boundary returns the containment box.
func (s *Simulation) Boundary() (min, max geometry.Vector3D) {
	return s.boundaryMin, s.boundaryMax
}

// Boids returns the flock in insertion order. The slice is a copy; the
// boids are not.
func (s *Simulation) Boids() []*Boid { return slices.Clone(s.boids) }

// Snapshot returns the current state of every boid in insertion order.
func (s *Simulation) Snapshot() []steering.State {
	out := make([]steering.State, len(s.boids))
	for i, b := range s.boids {
		out[i] = b.State()
	}
	return out
}

// Update advances the flock by dt seconds. dt is expected to be >= 0.
func (s *Simulation) Update(dt float64) {
	s.snapshot = s.snapshot[:0]
	for _, b := range s.boids {
		s.snapshot = append(s.snapshot, b.State())
	}

	s.gather()

	for _, b := range s.boids {
		s.scratch = b.updateFromSnapshot(dt, s.snapshot, s.scratch)
		s.contain(b)
	}
	s.ticks++
}

// gather recomputes every boid's neighbor indices against the snapshot.
func (s *Simulation) gather() {
	if !s.exhaustive {
		s.grid.rebuild(s.snapshot, s.neighborRadius)
	}

	if s.gatherWorkers < 2 || len(s.boids) < s.gatherWorkers {
		s.gatherRange(0, len(s.boids))
		return
	}

	var g errgroup.Group
	g.SetLimit(s.gatherWorkers)
	chunk := (len(s.boids) + s.gatherWorkers - 1) / s.gatherWorkers
	for lo := 0; lo < len(s.boids); lo += chunk {
		hi := min(lo+chunk, len(s.boids))
		g.Go(func() error {
			s.gatherRange(lo, hi)
			return nil
		})
	}
	// every boid writes only its own neighbor slice, so there is nothing to fail
	_ = g.Wait()
}

func (s *Simulation) gatherRange(lo, hi int) {
	for i := lo; i < hi; i++ {
		b := s.boids[i]
		if s.exhaustive {
			b.neighbors = scanNeighbors(b.neighbors[:0], s.snapshot, i, s.neighborRadius)
		} else {
			b.neighbors = s.grid.neighbors(b.neighbors[:0], s.snapshot, i, s.neighborRadius)
		}
	}
}

// boundaryForce returns the containment push for a position: +strength on
// every axis closer than margin to the lower face, -strength near the upper one.
func (s *Simulation) boundaryForce(p geometry.Vector3D) geometry.Vector3D {
	axis := func(v, lo, hi float64) float64 {
		f := 0.0
		if v < lo+s.boundaryMargin {
			f += s.boundaryStrength
		}
		if v > hi-s.boundaryMargin {
			f -= s.boundaryStrength
		}
		return f
	}
	return geometry.Vector3D{
		X: axis(p.X, s.boundaryMin.X, s.boundaryMax.X),
		Y: axis(p.Y, s.boundaryMin.Y, s.boundaryMax.Y),
		Z: axis(p.Z, s.boundaryMin.Z, s.boundaryMax.Z),
	}
}

// contain nudges b back toward the interior. The push bypasses dt and is
// followed by a speed clamp so the max speed bound still holds.
func (s *Simulation) contain(b *Boid) {
	f := s.boundaryForce(b.pos)
	if f.IsZero() {
		return
	}
	b.vel = b.vel.Add(f.Mul(s.boundarySubstep)).Truncate(b.maxSpeed)
}

func (s *Simulation) debug(msg string, fields ...zap.Field) {
	s.logger.Debug(msg, fields...)
}
