// Package crowd simulates a flock of boids inside a bounded volume and
// measures what the flock is doing: density statistics over a grid and a
// heuristic label for the emergent motion pattern.
package crowd

import (
	"errors"
	"fmt"

	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/steering"
)

// ErrInvalidConfig is returned for negative radii, weights or speeds, an
// inverted boundary box, or a non-positive analysis cell size.
var ErrInvalidConfig = errors.New("invalid crowd configuration")

const (
	DefaultSeparationWeight = 1.5
	DefaultAlignmentWeight  = 1.0
	DefaultCohesionWeight   = 1.0

	DefaultSeparationRadius = 2.0
	DefaultAlignmentRadius  = 4.0
	DefaultCohesionRadius   = 6.0

	DefaultBoidMaxSpeed = 8.0
	// boidSteerSpeed is the desired speed the three rules steer toward. It
	// is larger than the max speed, so a lone rule always saturates.
	boidSteerSpeed = 10.0
)

// Boid represents a single entity in the flock.
// Boids is an artificial life program, developed by Craig Reynolds in 1986,
// which simulates the flocking behaviour of birds, and related group motion.
// https://en.wikipedia.org/wiki/Boids
type Boid struct {
	ID string

	pos geometry.Vector3D
	vel geometry.Vector3D

	separationWeight float64
	alignmentWeight  float64
	cohesionWeight   float64

	separationRadius float64
	alignmentRadius  float64
	cohesionRadius   float64

	maxSpeed float64

	// indices into the snapshot of the tick being computed
	neighbors []int
}

var _ steering.Agent = (*Boid)(nil)

// BoidOption customizes a Boid.
type BoidOption func(*Boid) error

// WithWeights sets the separation, alignment and cohesion weights.
func WithWeights(separation, alignment, cohesion float64) BoidOption {
	return func(b *Boid) error { return b.SetWeights(separation, alignment, cohesion) }
}

// WithRadii sets the separation, alignment and cohesion radii.
func WithRadii(separation, alignment, cohesion float64) BoidOption {
	return func(b *Boid) error {
		if separation < 0 || alignment < 0 || cohesion < 0 {
			return fmt.Errorf("%w: radii must be >= 0, got %g/%g/%g",
				ErrInvalidConfig, separation, alignment, cohesion)
		}
		b.separationRadius, b.alignmentRadius, b.cohesionRadius = separation, alignment, cohesion
		return nil
	}
}

// WithMaxSpeed sets the velocity cap.
func WithMaxSpeed(v float64) BoidOption {
	return func(b *Boid) error {
		if v < 0 {
			return fmt.Errorf("%w: max speed must be >= 0, got %g", ErrInvalidConfig, v)
		}
		b.maxSpeed = v
		return nil
	}
}

// WithVelocity sets the initial velocity. It is clamped to the max speed
// once all options are applied.
func WithVelocity(v geometry.Vector3D) BoidOption {
	return func(b *Boid) error {
		b.vel = v
		return nil
	}
}

// NewBoid creates a boid at position with the default rule weights and radii.
func NewBoid(id string, position geometry.Vector3D, opts ...BoidOption) (*Boid, error) {
	b := &Boid{
		ID:               id,
		pos:              position,
		separationWeight: DefaultSeparationWeight,
		alignmentWeight:  DefaultAlignmentWeight,
		cohesionWeight:   DefaultCohesionWeight,
		separationRadius: DefaultSeparationRadius,
		alignmentRadius:  DefaultAlignmentRadius,
		cohesionRadius:   DefaultCohesionRadius,
		maxSpeed:         DefaultBoidMaxSpeed,
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	b.vel = b.vel.Truncate(b.maxSpeed)
	return b, nil
}

func (b *Boid) Position() geometry.Vector3D     { return b.pos }
func (b *Boid) SetPosition(p geometry.Vector3D) { b.pos = p }
func (b *Boid) Velocity() geometry.Vector3D     { return b.vel }
func (b *Boid) SetVelocity(v geometry.Vector3D) { b.vel = v }
func (b *Boid) MaxSpeed() float64               { return b.maxSpeed }

// Weights returns the separation, alignment and cohesion weights.
func (b *Boid) Weights() (separation, alignment, cohesion float64) {
	return b.separationWeight, b.alignmentWeight, b.cohesionWeight
}

// SetWeights changes the rule weights from the next update on.
func (b *Boid) SetWeights(separation, alignment, cohesion float64) error {
	if separation < 0 || alignment < 0 || cohesion < 0 {
		return fmt.Errorf("%w: weights must be >= 0, got %g/%g/%g",
			ErrInvalidConfig, separation, alignment, cohesion)
	}
	b.separationWeight, b.alignmentWeight, b.cohesionWeight = separation, alignment, cohesion
	return nil
}

// Radii returns the separation, alignment and cohesion radii.
func (b *Boid) Radii() (separation, alignment, cohesion float64) {
	return b.separationRadius, b.alignmentRadius, b.cohesionRadius
}

// Neighbors returns the snapshot indices gathered for the current tick.
func (b *Boid) Neighbors() []int { return b.neighbors }

// State returns the read-only view of the boid used in snapshots.
func (b *Boid) State() steering.State {
	return steering.State{Position: b.pos, Velocity: b.vel, MaxSpeed: b.maxSpeed}
}

// Acceleration computes the weighted sum of the three Reynolds rules
// against the given neighbors. Separation is the raw repulsion direction
// at steering speed; alignment and cohesion are velocity-relative. There is
// no force cap.
func (b *Boid) Acceleration(neighbors []steering.State) geometry.Vector3D {
	var acc geometry.Vector3D

	if sep, ok := steering.SeparationSteer(b.pos, neighbors, b.separationRadius, boidSteerSpeed); ok {
		acc = acc.Add(sep.Mul(b.separationWeight))
	}

	if avg, n := steering.AverageVelocity(b.pos, neighbors, b.alignmentRadius); n > 0 {
		align := avg.Normalize().Mul(boidSteerSpeed).Sub(b.vel)
		acc = acc.Add(align.Mul(b.alignmentWeight))
	}

	if center, n := steering.CenterOfMass(b.pos, neighbors, b.cohesionRadius); n > 0 {
		coh := center.Sub(b.pos).Normalize().Mul(boidSteerSpeed).Sub(b.vel)
		acc = acc.Add(coh.Mul(b.cohesionWeight))
	}

	return acc
}

// Update integrates one step of dt seconds against neighbors.
func (b *Boid) Update(dt float64, neighbors []steering.State) {
	acc := b.Acceleration(neighbors)
	b.vel = b.vel.Add(acc.Mul(dt)).Truncate(b.maxSpeed)
	b.pos = b.pos.Add(b.vel.Mul(dt))
}

// updateFromSnapshot integrates against the gathered neighbor indices of a
// tick snapshot, reusing scratch for the neighbor states.
func (b *Boid) updateFromSnapshot(dt float64, snapshot []steering.State, scratch []steering.State) []steering.State {
	scratch = scratch[:0]
	for _, i := range b.neighbors {
		scratch = append(scratch, snapshot[i])
	}
	b.Update(dt, scratch)
	return scratch
}
