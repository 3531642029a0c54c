package crowd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/steering"
)

func TestDetectPattern_TooFewBoids(t *testing.T) {
	tests := []struct {
		name     string
		snapshot []steering.State
	}{
		{"empty", nil},
		{"one", []steering.State{{Velocity: v3(1, 0, 0)}}},
		{"two aligned", []steering.State{
			{Position: v3(0, 0, 0), Velocity: v3(1, 0, 0)},
			{Position: v3(0.5, 0, 0), Velocity: v3(1, 0, 0)},
		}},
		{"two scattered", []steering.State{
			{Position: v3(-100, 0, 0), Velocity: v3(9, 0, 0)},
			{Position: v3(100, 0, 0), Velocity: v3(0, -0.1, 0)},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, PatternUnknown, DetectPattern(tt.snapshot))
		})
	}
}

func TestDetectPattern_Flocking(t *testing.T) {
	vel := v3(2, 1, 0)
	snapshot := []steering.State{
		{Position: v3(0, 0, 0), Velocity: vel},
		{Position: v3(0.5, 0, 0), Velocity: vel},
		{Position: v3(0, 0.5, 0), Velocity: vel},
		{Position: v3(0.3, 0.3, 0.3), Velocity: vel},
		{Position: v3(0.2, 0.6, 0.1), Velocity: vel},
	}

	m := Measure(snapshot)
	assert.InDelta(t, 1.0, m.Alignment, 1e-9)
	assert.Greater(t, m.Cohesion, 0.9)
	assert.InDelta(t, 0.0, m.VelocityVariance, 1e-9)
	assert.Equal(t, PatternFlocking, DetectPattern(snapshot))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		m    Metrics
		want Pattern
	}{
		{"flocking", Metrics{Alignment: 0.9, Cohesion: 0.8, VelocityVariance: 0.1}, PatternFlocking},
		{"swarming", Metrics{Alignment: 0.5, Cohesion: 0.9, VelocityVariance: 0.7}, PatternSwarming},
		{"milling", Metrics{Alignment: 0.2, Cohesion: 0.5, VelocityVariance: 0.8}, PatternMilling},
		{"splitting", Metrics{Alignment: 0.6, Cohesion: 0.3, VelocityVariance: 0.4}, PatternSplitting},
		{"schooling fallback", Metrics{Alignment: 0.6, Cohesion: 0.6, VelocityVariance: 0.4}, PatternSchooling},
		// swarming is tested before milling
		{"swarming wins over milling", Metrics{Alignment: 0.1, Cohesion: 0.9, VelocityVariance: 0.9}, PatternSwarming},
		// milling is tested before splitting
		{"milling wins over splitting", Metrics{Alignment: 0.1, Cohesion: 0.2, VelocityVariance: 0.9}, PatternMilling},
		{"thresholds are strict", Metrics{Alignment: 0.8, Cohesion: 0.7, VelocityVariance: 0.3}, PatternSchooling},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.m))
		})
	}
}

func TestMeasure(t *testing.T) {
	t.Run("opposite headings", func(t *testing.T) {
		snapshot := []steering.State{
			{Velocity: v3(1, 0, 0)},
			{Velocity: v3(-1, 0, 0)},
			{Velocity: v3(0, 1, 0)},
			{Velocity: v3(0, -1, 0)},
		}
		// the mean velocity is zero, so there is no heading to align with
		assert.Zero(t, Measure(snapshot).Alignment)
	})

	t.Run("stationary boids count against alignment", func(t *testing.T) {
		snapshot := []steering.State{
			{Velocity: v3(1, 0, 0)},
			{Velocity: v3(1, 0, 0)},
			{Velocity: v3(0, 0, 0)},
			{Velocity: v3(0, 0, 0)},
		}
		assert.InDelta(t, 0.5, Measure(snapshot).Alignment, 1e-9)
	})

	t.Run("cohesion from mean distance", func(t *testing.T) {
		snapshot := []steering.State{
			{Position: v3(-10, 0, 0)},
			{Position: v3(10, 0, 0)},
			{Position: v3(0, 10, 0)},
			{Position: v3(0, -10, 0)},
		}
		// every boid is 10 from the centroid
		assert.InDelta(t, 0.5, Measure(snapshot).Cohesion, 1e-9)
	})

	t.Run("velocity variance is population based", func(t *testing.T) {
		snapshot := []steering.State{
			{Velocity: v3(1, 0, 0)},
			{Velocity: v3(3, 0, 0)},
		}
		// speeds 1 and 3: mean 2, population std 1
		assert.InDelta(t, 1/2.1, Measure(snapshot).VelocityVariance, 1e-9)
	})

	assert.Equal(t, Metrics{}, Measure(nil))
}

func TestPattern_String(t *testing.T) {
	assert.Equal(t, "flocking", PatternFlocking.String())
	assert.Equal(t, "splitting", PatternSplitting.String())
	assert.Equal(t, "unknown", Pattern(42).String())

	text, err := PatternMilling.MarshalText()
	assert.NoError(t, err)
	var p Pattern
	assert.NoError(t, p.UnmarshalText(text))
	assert.Equal(t, PatternMilling, p)
	assert.NoError(t, p.UnmarshalText([]byte("stampede")))
	assert.Equal(t, PatternUnknown, p)
}
