package steering

import (
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/geometry"
)

// FlockingAgent is a ready-made agent that flocks through the generic
// controller: separation (1.5), alignment (1.0), cohesion (1.0) and a
// light wander (0.1).
type FlockingAgent struct {
	Body
	ID         string
	Controller *Controller
	Animator   Animator

	Separation *Separation
	Alignment  *Alignment
	Cohesion   *Cohesion
	Wander     *Wander
}

var _ Agent = (*FlockingAgent)(nil)

// NewFlockingAgent creates an agent at position with the default flocking
// behavior set. rng feeds the wander jitter.
func NewFlockingAgent(id string, position geometry.Vector3D, rng *rand.Rand, opts ...ControllerOption) (*FlockingAgent, error) {
	fa := &FlockingAgent{ID: id, Body: Body{Pos: position}}

	ctrl, err := NewController(fa, opts...)
	if err != nil {
		return nil, err
	}
	fa.Controller = ctrl

	fa.Separation, _ = NewSeparation(3.0)
	fa.Alignment, _ = NewAlignment(5.0)
	fa.Cohesion, _ = NewCohesion(8.0)
	fa.Wander = NewDefaultWander(rng)

	// constant weights, always valid
	_ = fa.Separation.SetWeight(1.5)
	_ = fa.Alignment.SetWeight(1.0)
	_ = fa.Cohesion.SetWeight(1.0)
	_ = fa.Wander.SetWeight(0.1)

	ctrl.AddBehavior(fa.Separation)
	ctrl.AddBehavior(fa.Alignment)
	ctrl.AddBehavior(fa.Cohesion)
	ctrl.AddBehavior(fa.Wander)
	return fa, nil
}

// Update steers against neighbors, integrates, and refreshes the animator.
func (fa *FlockingAgent) Update(dt float64, neighbors []Agent) {
	fa.Controller.Update(dt, neighbors)
	fa.Animator.Update(fa, dt)
}
