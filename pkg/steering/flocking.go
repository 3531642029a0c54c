package steering

import "github.com/lao-tseu-is-alive/go-swarm-steering/pkg/geometry"

// inRange reports whether other is a distinct agent strictly inside radius.
// The distance > 0 gate also drops the agent itself from its neighbor list.
func inRange(self, other geometry.Vector3D, radius float64) (float64, bool) {
	d := self.DistanceTo(other)
	return d, d > 0 && d < radius
}

// SeparationSteer returns the raw separation steer: the average of
// normalize(self - neighbor) / distance over neighbors strictly within
// radius, normalized and scaled to speed. It does not subtract the current
// velocity. ok is false when no neighbor is in range.
func SeparationSteer(self geometry.Vector3D, neighbors []State, radius, speed float64) (steer geometry.Vector3D, ok bool) {
	count := 0
	for _, n := range neighbors {
		d, near := inRange(self, n.Position, radius)
		if !near {
			continue
		}
		steer = steer.Add(self.Sub(n.Position).Normalize().Mul(1 / d))
		count++
	}
	if count == 0 {
		return geometry.Vector3D{}, false
	}
	return steer.Mul(1 / float64(count)).Normalize().Mul(speed), true
}

// AverageVelocity returns the mean velocity of the neighbors strictly within
// radius of self, and how many were counted.
func AverageVelocity(self geometry.Vector3D, neighbors []State, radius float64) (geometry.Vector3D, int) {
	var sum geometry.Vector3D
	count := 0
	for _, n := range neighbors {
		if _, near := inRange(self, n.Position, radius); near {
			sum = sum.Add(n.Velocity)
			count++
		}
	}
	if count == 0 {
		return geometry.Vector3D{}, 0
	}
	return sum.Mul(1 / float64(count)), count
}

// CenterOfMass returns the mean position of the neighbors strictly within
// radius of self, and how many were counted.
func CenterOfMass(self geometry.Vector3D, neighbors []State, radius float64) (geometry.Vector3D, int) {
	var sum geometry.Vector3D
	count := 0
	for _, n := range neighbors {
		if _, near := inRange(self, n.Position, radius); near {
			sum = sum.Add(n.Position)
			count++
		}
	}
	if count == 0 {
		return geometry.Vector3D{}, 0
	}
	return sum.Mul(1 / float64(count)), count
}

// Separation pushes the agent away from crowding neighbors.
type Separation struct {
	Base
	radius float64
}

// NewSeparation creates a Separation behavior (default radius is 3).
func NewSeparation(radius float64) (*Separation, error) {
	if err := nonNegative("separation radius", radius); err != nil {
		return nil, err
	}
	return &Separation{Base: newBase(), radius: radius}, nil
}

func (s *Separation) Radius() float64 { return s.radius }

// Calculate returns the separation steer minus the current velocity, or
// zero when nobody is in range.
func (s *Separation) Calculate(self State, neighbors []State) geometry.Vector3D {
	steer, ok := SeparationSteer(self.Position, neighbors, s.radius, self.MaxSpeed)
	if !ok {
		return geometry.Vector3D{}
	}
	return steer.Sub(self.Velocity)
}

// Alignment matches the heading of nearby agents.
type Alignment struct {
	Base
	radius float64
}

// NewAlignment creates an Alignment behavior (default radius is 5).
func NewAlignment(radius float64) (*Alignment, error) {
	if err := nonNegative("alignment radius", radius); err != nil {
		return nil, err
	}
	return &Alignment{Base: newBase(), radius: radius}, nil
}

func (a *Alignment) Radius() float64 { return a.radius }

func (a *Alignment) Calculate(self State, neighbors []State) geometry.Vector3D {
	avg, n := AverageVelocity(self.Position, neighbors, a.radius)
	if n == 0 {
		return geometry.Vector3D{}
	}
	return seekForce(avg, self.MaxSpeed, self.Velocity)
}

// Cohesion steers toward the center of mass of nearby agents.
type Cohesion struct {
	Base
	radius float64
}

// NewCohesion creates a Cohesion behavior (default radius is 8).
func NewCohesion(radius float64) (*Cohesion, error) {
	if err := nonNegative("cohesion radius", radius); err != nil {
		return nil, err
	}
	return &Cohesion{Base: newBase(), radius: radius}, nil
}

func (c *Cohesion) Radius() float64 { return c.radius }

func (c *Cohesion) Calculate(self State, neighbors []State) geometry.Vector3D {
	center, n := CenterOfMass(self.Position, neighbors, c.radius)
	if n == 0 {
		return geometry.Vector3D{}
	}
	return seekForce(center.Sub(self.Position), self.MaxSpeed, self.Velocity)
}
