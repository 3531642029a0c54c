package steering

import (
	"slices"

	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/geometry"
)

// Controller blends an ordered set of behaviors for one agent and
// integrates it. The caller supplies neighbors on every Update; the
// controller never tracks membership itself.
type Controller struct {
	agent       Agent
	maxSpeed    float64
	maxForce    float64
	agentRadius float64
	behaviors   []Behavior
	lastForce   geometry.Vector3D
	scratch     []State
}

// ControllerOption customizes a Controller.
type ControllerOption func(*Controller) error

// WithMaxSpeed sets the velocity cap and the desired speed handed to
// behaviors.
func WithMaxSpeed(v float64) ControllerOption {
	return func(c *Controller) error {
		if err := nonNegative("max speed", v); err != nil {
			return err
		}
		c.maxSpeed = v
		return nil
	}
}

// WithMaxForce sets the cap applied to the blended force.
func WithMaxForce(v float64) ControllerOption {
	return func(c *Controller) error {
		if err := nonNegative("max force", v); err != nil {
			return err
		}
		c.maxForce = v
		return nil
	}
}

// WithAgentRadius sets the body radius used for obstacle clearance.
func WithAgentRadius(v float64) ControllerOption {
	return func(c *Controller) error {
		if err := nonNegative("agent radius", v); err != nil {
			return err
		}
		c.agentRadius = v
		return nil
	}
}

// NewController creates a controller driving agent.
func NewController(agent Agent, opts ...ControllerOption) (*Controller, error) {
	if agent == nil {
		return nil, ErrNilAgent
	}
	c := &Controller{
		agent:       agent,
		maxSpeed:    DefaultMaxSpeed,
		maxForce:    DefaultMaxForce,
		agentRadius: DefaultAgentRadius,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Controller) Agent() Agent         { return c.agent }
func (c *Controller) MaxSpeed() float64    { return c.maxSpeed }
func (c *Controller) MaxForce() float64    { return c.maxForce }
func (c *Controller) AgentRadius() float64 { return c.agentRadius }

// SetMaxSpeed changes the velocity cap.
func (c *Controller) SetMaxSpeed(v float64) error { return WithMaxSpeed(v)(c) }

// SetMaxForce changes the force cap.
func (c *Controller) SetMaxForce(v float64) error { return WithMaxForce(v)(c) }

// AddBehavior appends b; it is evaluated after every behavior added before it.
func (c *Controller) AddBehavior(b Behavior) {
	if b == nil {
		return
	}
	c.behaviors = append(c.behaviors, b)
}

// RemoveBehavior drops b and reports whether it was registered.
func (c *Controller) RemoveBehavior(b Behavior) bool {
	i := slices.Index(c.behaviors, b)
	if i < 0 {
		return false
	}
	c.behaviors = slices.Delete(c.behaviors, i, i+1)
	return true
}

// ClearBehaviors drops every behavior.
func (c *Controller) ClearBehaviors() { c.behaviors = nil }

// Behaviors returns the registered behaviors in evaluation order.
func (c *Controller) Behaviors() []Behavior { return slices.Clone(c.behaviors) }

// LastForce returns the clamped force applied by the last Update.
func (c *Controller) LastForce() geometry.Vector3D { return c.lastForce }

// State returns the view of the driven agent handed to behaviors.
func (c *Controller) State() State {
	return State{
		Position: c.agent.Position(),
		Velocity: c.agent.Velocity(),
		MaxSpeed: c.maxSpeed,
		Radius:   c.agentRadius,
	}
}

// Steer sums the weighted forces of the enabled behaviors and clamps the
// total to the max force. Disabled behaviors are never evaluated.
func (c *Controller) Steer(neighbors []Agent) geometry.Vector3D {
	self := c.State()
	c.scratch = c.scratch[:0]
	for _, n := range neighbors {
		if n == nil {
			continue
		}
		c.scratch = append(c.scratch, State{Position: n.Position(), Velocity: n.Velocity()})
	}

	var total geometry.Vector3D
	for _, b := range c.behaviors {
		if !b.Enabled() {
			continue
		}
		total = total.Add(b.Calculate(self, c.scratch).Mul(b.Weight()))
	}
	return total.Truncate(c.maxForce)
}

// Update runs one fixed step of dt seconds: steer, integrate velocity,
// clamp it to max speed, integrate position.
func (c *Controller) Update(dt float64, neighbors []Agent) {
	force := c.Steer(neighbors)
	c.lastForce = force

	vel := c.agent.Velocity().Add(force.Mul(dt)).Truncate(c.maxSpeed)
	c.agent.SetVelocity(vel)
	c.agent.SetPosition(c.agent.Position().Add(vel.Mul(dt)))
}
