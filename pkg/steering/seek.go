package steering

import "github.com/lao-tseu-is-alive/go-swarm-steering/pkg/geometry"

// Seek steers toward a fixed target at full speed.
type Seek struct {
	Base
	target geometry.Vector3D
}

// NewSeek creates a Seek behavior toward target.
func NewSeek(target geometry.Vector3D) *Seek {
	return &Seek{Base: newBase(), target: target}
}

func (s *Seek) Target() geometry.Vector3D          { return s.target }
func (s *Seek) SetTarget(target geometry.Vector3D) { s.target = target }

// Calculate returns normalize(target - position) * maxSpeed - velocity.
func (s *Seek) Calculate(self State, _ []State) geometry.Vector3D {
	return seekForce(s.target.Sub(self.Position), self.MaxSpeed, self.Velocity)
}

// Flee steers directly away from a threat at full speed.
type Flee struct {
	Base
	threat geometry.Vector3D
}

// NewFlee creates a Flee behavior away from threat.
func NewFlee(threat geometry.Vector3D) *Flee {
	return &Flee{Base: newBase(), threat: threat}
}

func (f *Flee) Threat() geometry.Vector3D          { return f.threat }
func (f *Flee) SetThreat(threat geometry.Vector3D) { f.threat = threat }

// Calculate returns normalize(position - threat) * maxSpeed - velocity.
func (f *Flee) Calculate(self State, _ []State) geometry.Vector3D {
	return seekForce(self.Position.Sub(f.threat), self.MaxSpeed, self.Velocity)
}
