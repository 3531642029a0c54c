package crowd

import (
	"gonum.org/v1/gonum/stat"

	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/steering"
)

// Pattern is a heuristic label for the collective motion of a flock.
type Pattern int

const (
	PatternUnknown Pattern = iota
	PatternFlocking
	PatternSchooling
	PatternSwarming
	PatternMilling
	PatternSplitting
)

// MinPatternSize is the smallest group DetectPattern will label.
const MinPatternSize = 3

func (p Pattern) String() string {
	switch p {
	case PatternFlocking:
		return "flocking"
	case PatternSchooling:
		return "schooling"
	case PatternSwarming:
		return "swarming"
	case PatternMilling:
		return "milling"
	case PatternSplitting:
		return "splitting"
	default:
		return "unknown"
	}
}

func (p Pattern) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText parses a pattern name; unrecognized names become PatternUnknown.
func (p *Pattern) UnmarshalText(text []byte) error {
	*p = PatternUnknown
	for q := PatternFlocking; q <= PatternSplitting; q++ {
		if q.String() == string(text) {
			*p = q
			break
		}
	}
	return nil
}

// Metrics are the aggregate statistics a Pattern is derived from.
type Metrics struct {
	// Alignment is in [0,1]: 1 when every boid heads the same way.
	Alignment float64 `json:"alignment" csv:"alignment"`
	// Cohesion is in (0,1]: 1 when every boid sits on the centroid.
	Cohesion float64 `json:"cohesion" csv:"cohesion"`
	// VelocityVariance is the speed standard deviation relative to the
	// mean speed.
	VelocityVariance float64 `json:"velocity_variance" csv:"velocity_variance"`
}

// Measure computes the detector metrics. An empty snapshot measures zero.
func Measure(snapshot []steering.State) Metrics {
	if len(snapshot) == 0 {
		return Metrics{}
	}
	return Metrics{
		Alignment:        alignmentLevel(snapshot),
		Cohesion:         cohesionLevel(snapshot),
		VelocityVariance: velocityVariance(snapshot),
	}
}

// Classify maps metrics to a pattern. Rules are tried in order and the
// first match wins; Schooling is the fallback.
func Classify(m Metrics) Pattern {
	switch {
	case m.Alignment > 0.8 && m.Cohesion > 0.7 && m.VelocityVariance < 0.3:
		return PatternFlocking
	case m.Cohesion > 0.8 && m.VelocityVariance > 0.6:
		return PatternSwarming
	case m.Alignment < 0.3 && m.VelocityVariance > 0.7:
		return PatternMilling
	case m.Cohesion < 0.4:
		return PatternSplitting
	default:
		return PatternSchooling
	}
}

// DetectPattern labels the snapshot, or returns PatternUnknown for fewer
// than MinPatternSize boids.
func DetectPattern(snapshot []steering.State) Pattern {
	if len(snapshot) < MinPatternSize {
		return PatternUnknown
	}
	return Classify(Measure(snapshot))
}

// alignmentLevel maps each heading's cosine to the mean heading into [0,1]
// and averages over all boids. Stationary boids count as zero.
func alignmentLevel(snapshot []steering.State) float64 {
	var sum geometry.Vector3D
	for _, s := range snapshot {
		sum = sum.Add(s.Velocity)
	}
	mean := sum.Mul(1 / float64(len(snapshot)))
	if mean.IsZero() {
		return 0
	}
	heading := mean.Normalize()

	total := 0.0
	for _, s := range snapshot {
		if s.Velocity.IsZero() {
			continue
		}
		dir := s.Velocity.Normalize()
		total += (dir.Dot(heading) + 1) / 2
	}
	return total / float64(len(snapshot))
}

// cohesionLevel is 1 / (1 + 0.1 * mean distance to the centroid).
func cohesionLevel(snapshot []steering.State) float64 {
	var center geometry.Vector3D
	for _, s := range snapshot {
		center = center.Add(s.Position)
	}
	center = center.Mul(1 / float64(len(snapshot)))

	dists := make([]float64, len(snapshot))
	for i, s := range snapshot {
		dists[i] = s.Position.DistanceTo(center)
	}
	return 1 / (1 + stat.Mean(dists, nil)*0.1)
}

// velocityVariance is the population standard deviation of speeds over
// (mean speed + 0.1).
func velocityVariance(snapshot []steering.State) float64 {
	speeds := make([]float64, len(snapshot))
	for i, s := range snapshot {
		speeds[i] = s.Velocity.Len()
	}
	mean, std := stat.PopMeanStdDev(speeds, nil)
	return std / (mean + 0.1)
}
