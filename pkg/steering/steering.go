// Package steering implements composable local force rules for point-mass
// agents: each Behavior turns an agent's kinematic state plus its neighbors
// into a steering force, and a Controller blends the forces of the enabled
// behaviors, clamps them and integrates the agent forward in time.
//
// Every behavior is a pure function of its inputs except Wander (persistent
// jitter target) and PathFollow (current waypoint). Nothing in this package
// logs, blocks or allocates shared global state.
package steering

import (
	"errors"
	"fmt"

	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/geometry"
)

const (
	// DefaultMaxSpeed is the desired speed behaviors steer toward.
	DefaultMaxSpeed = 10.0
	// DefaultMaxForce caps the blended steering force of a Controller.
	DefaultMaxForce = 5.0
	// DefaultAgentRadius is the body radius used by Avoidance clearance.
	DefaultAgentRadius = 1.0
	// WanderSpeed is the moderate speed Wander seeks its target with.
	WanderSpeed = 5.0
)

// ErrInvalidParameter is returned when a behavior or controller is
// configured with a negative radius, weight, speed or similar.
var ErrInvalidParameter = errors.New("invalid steering parameter")

// ErrNilAgent is returned when a controller is created without an agent.
var ErrNilAgent = errors.New("steering controller needs an agent")

// State is the read-only view of an agent handed to behaviors.
type State struct {
	Position geometry.Vector3D
	Velocity geometry.Vector3D
	// MaxSpeed scales desired velocities.
	MaxSpeed float64
	// Radius is the agent body radius.
	Radius float64
}

// Agent is the only capability this package needs from an external agent type.
type Agent interface {
	Position() geometry.Vector3D
	SetPosition(p geometry.Vector3D)
	Velocity() geometry.Vector3D
	SetVelocity(v geometry.Vector3D)
}

// Body is a minimal Agent: a position and a velocity.
type Body struct {
	Pos geometry.Vector3D
	Vel geometry.Vector3D
}

var _ Agent = (*Body)(nil)

func (b *Body) Position() geometry.Vector3D     { return b.Pos }
func (b *Body) SetPosition(p geometry.Vector3D) { b.Pos = p }
func (b *Body) Velocity() geometry.Vector3D     { return b.Vel }
func (b *Body) SetVelocity(v geometry.Vector3D) { b.Vel = v }

// Behavior computes a steering force for one agent.
// Implementations must treat self and neighbors as read-only.
type Behavior interface {
	Calculate(self State, neighbors []State) geometry.Vector3D
	Weight() float64
	Enabled() bool
}

// Base carries the weight and enabled flag shared by every behavior.
// Embed it to satisfy the Weight and Enabled half of Behavior.
type Base struct {
	weight   float64
	disabled bool
}

func newBase() Base { return Base{weight: 1.0} }

// Weight returns the multiplier applied to the behavior's force.
func (b *Base) Weight() float64 { return b.weight }

// SetWeight changes the multiplier; negative weights are rejected.
func (b *Base) SetWeight(w float64) error {
	if err := nonNegative("weight", w); err != nil {
		return err
	}
	b.weight = w
	return nil
}

// Enabled reports whether the behavior contributes force.
func (b *Base) Enabled() bool { return !b.disabled }

// SetEnabled toggles the behavior.
func (b *Base) SetEnabled(enabled bool) { b.disabled = !enabled }

func nonNegative(name string, v float64) error {
	if v < 0 {
		return fmt.Errorf("%w: %s must be >= 0, got %g", ErrInvalidParameter, name, v)
	}
	return nil
}

// seekForce is the desired-minus-current velocity rule shared by Seek,
// Flee, Wander, PathFollow and the flocking rules.
func seekForce(direction geometry.Vector3D, speed float64, velocity geometry.Vector3D) geometry.Vector3D {
	return direction.Normalize().Mul(speed).Sub(velocity)
}
