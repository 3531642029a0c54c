package steering

import "github.com/lao-tseu-is-alive/go-swarm-steering/pkg/geometry"

// Obstacle is a static sphere agents steer around.
type Obstacle struct {
	Position geometry.Vector3D `json:"position" yaml:"position"`
	Radius   float64           `json:"radius" yaml:"radius"`
}

// Avoidance repels the agent from close neighbors and registered obstacles,
// harder the closer they are.
type Avoidance struct {
	Base
	radius    float64
	obstacles []Obstacle
}

// NewAvoidance creates an Avoidance behavior (default radius is 4).
func NewAvoidance(radius float64) (*Avoidance, error) {
	if err := nonNegative("avoidance radius", radius); err != nil {
		return nil, err
	}
	return &Avoidance{Base: newBase(), radius: radius}, nil
}

func (a *Avoidance) Radius() float64 { return a.radius }

// AddObstacle registers a static obstacle.
func (a *Avoidance) AddObstacle(position geometry.Vector3D, radius float64) error {
	if err := nonNegative("obstacle radius", radius); err != nil {
		return err
	}
	a.obstacles = append(a.obstacles, Obstacle{Position: position, Radius: radius})
	return nil
}

// ClearObstacles forgets every registered obstacle.
func (a *Avoidance) ClearObstacles() { a.obstacles = a.obstacles[:0] }

// Obstacles returns a copy of the registered obstacles.
func (a *Avoidance) Obstacles() []Obstacle {
	out := make([]Obstacle, len(a.obstacles))
	copy(out, a.obstacles)
	return out
}

func (a *Avoidance) Calculate(self State, neighbors []State) geometry.Vector3D {
	var steer geometry.Vector3D

	for _, n := range neighbors {
		d, near := inRange(self.Position, n.Position, a.radius)
		if !near {
			continue
		}
		steer = steer.Add(self.Position.Sub(n.Position).Normalize().Mul(a.radius / d))
	}

	for _, o := range a.obstacles {
		d := self.Position.DistanceTo(o.Position)
		clearance := o.Radius + self.Radius + a.radius
		// an agent sitting on the obstacle center has no escape direction
		if d <= 0 || d >= clearance {
			continue
		}
		steer = steer.Add(self.Position.Sub(o.Position).Normalize().Mul(clearance / d))
	}

	if steer.IsZero() {
		return geometry.Vector3D{}
	}
	return seekForce(steer, self.MaxSpeed, self.Velocity)
}
