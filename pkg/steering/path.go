package steering

import "github.com/lao-tseu-is-alive/go-swarm-steering/pkg/geometry"

// DefaultArrivalRadius is how close an agent must get to a waypoint before
// PathFollow moves on to the next one.
const DefaultArrivalRadius = 1.0

// PathFollow seeks a sequence of waypoints in order, optionally looping.
type PathFollow struct {
	Base
	waypoints     []geometry.Vector3D
	current       int
	loop          bool
	arrivalRadius float64
}

// NewPathFollow creates a PathFollow over a copy of waypoints.
func NewPathFollow(waypoints []geometry.Vector3D, loop bool) *PathFollow {
	wp := make([]geometry.Vector3D, len(waypoints))
	copy(wp, waypoints)
	return &PathFollow{
		Base:          newBase(),
		waypoints:     wp,
		loop:          loop,
		arrivalRadius: DefaultArrivalRadius,
	}
}

// SetArrivalRadius changes the waypoint arrival tolerance.
func (p *PathFollow) SetArrivalRadius(r float64) error {
	if err := nonNegative("arrival radius", r); err != nil {
		return err
	}
	p.arrivalRadius = r
	return nil
}

// Current returns the index of the waypoint being sought.
func (p *PathFollow) Current() int { return p.current }

// IsComplete reports whether a non-looping path has been fully traversed.
func (p *PathFollow) IsComplete() bool {
	return !p.loop && p.current >= len(p.waypoints)
}

// Reset restarts the path from its first waypoint.
func (p *PathFollow) Reset() { p.current = 0 }

func (p *PathFollow) Calculate(self State, _ []State) geometry.Vector3D {
	if p.current >= len(p.waypoints) {
		return geometry.Vector3D{}
	}

	if self.Position.DistanceTo(p.waypoints[p.current]) < p.arrivalRadius {
		p.current++
		if p.current >= len(p.waypoints) {
			if !p.loop {
				return geometry.Vector3D{}
			}
			p.current = 0
		}
	}

	return seekForce(p.waypoints[p.current].Sub(self.Position), self.MaxSpeed, self.Velocity)
}

// FlowSource yields a guidance direction for a point in space; a zero
// vector means "no guidance here".
type FlowSource interface {
	Direction(position geometry.Vector3D) geometry.Vector3D
}

// FlowFollow steers along a precomputed flow field.
type FlowFollow struct {
	Base
	field FlowSource
}

// NewFlowFollow creates a FlowFollow behavior over field.
func NewFlowFollow(field FlowSource) *FlowFollow {
	return &FlowFollow{Base: newBase(), field: field}
}

func (f *FlowFollow) Calculate(self State, _ []State) geometry.Vector3D {
	if f.field == nil {
		return geometry.Vector3D{}
	}
	dir := f.field.Direction(self.Position)
	if dir.IsZero() {
		return geometry.Vector3D{}
	}
	return seekForce(dir, self.MaxSpeed, self.Velocity)
}
