package steering

import (
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/geometry"
)

// minForwardSpeed is the speed below which Wander projects its circle along
// the default forward axis instead of the (unreliable) velocity heading.
const minForwardSpeed = 0.1

var forwardAxis = geometry.Vector3D{Z: 1}

// Wander produces smoothly varying random motion by seeking a point that
// drifts around a circle projected ahead of the agent.
// The circle lies in the X/Z ground plane.
type Wander struct {
	Base
	radius   float64
	distance float64
	jitter   float64
	target   geometry.Vector3D
	rng      *rand.Rand
}

// NewWander creates a Wander behavior. rng must not be shared with another
// goroutine; a nil rng gets a fixed-seed source so runs stay reproducible.
func NewWander(radius, distance, jitter float64, rng *rand.Rand) (*Wander, error) {
	if err := nonNegative("wander radius", radius); err != nil {
		return nil, err
	}
	if err := nonNegative("wander distance", distance); err != nil {
		return nil, err
	}
	if err := nonNegative("wander jitter", jitter); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(1, 2))
	}
	return &Wander{
		Base:     newBase(),
		radius:   radius,
		distance: distance,
		jitter:   jitter,
		target:   forwardAxis,
		rng:      rng,
	}, nil
}

// NewDefaultWander uses radius 2, distance 5 and jitter 1.
func NewDefaultWander(rng *rand.Rand) *Wander {
	w, _ := NewWander(2.0, 5.0, 1.0, rng)
	return w
}

// JitterTarget returns the current point on the wander circle, relative to
// its center. It persists across calls.
func (w *Wander) JitterTarget() geometry.Vector3D { return w.target }

func (w *Wander) uniform() float64 {
	return (w.rng.Float64()*2 - 1) * w.jitter
}

// Calculate perturbs the jitter target, then seeks the displaced point at
// WanderSpeed.
func (w *Wander) Calculate(self State, _ []State) geometry.Vector3D {
	w.target = w.target.Add(geometry.Vector3D{X: w.uniform(), Z: w.uniform()})
	w.target = w.target.Normalize().Mul(w.radius)

	forward := forwardAxis
	if self.Velocity.Len() > minForwardSpeed {
		forward = self.Velocity.Normalize()
	}

	center := self.Position.Add(forward.Mul(w.distance))
	goal := center.Add(w.target)

	return seekForce(goal.Sub(self.Position), WanderSpeed, self.Velocity)
}
