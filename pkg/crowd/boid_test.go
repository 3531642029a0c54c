package crowd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/steering"
)

const tol = 1e-9

func v3(x, y, z float64) geometry.Vector3D { return geometry.Vector3D{X: x, Y: y, Z: z} }

func assertVec(t *testing.T, want, got geometry.Vector3D, msgAndArgs ...any) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, tol, msgAndArgs...)
	assert.InDelta(t, want.Y, got.Y, tol, msgAndArgs...)
	assert.InDelta(t, want.Z, got.Z, tol, msgAndArgs...)
}

func TestNewBoid(t *testing.T) {
	b, err := NewBoid("b1", v3(1, 2, 3))
	require.NoError(t, err)

	sep, align, coh := b.Weights()
	assert.Equal(t, []float64{1.5, 1.0, 1.0}, []float64{sep, align, coh})
	sep, align, coh = b.Radii()
	assert.Equal(t, []float64{2, 4, 6}, []float64{sep, align, coh})
	assert.Equal(t, 8.0, b.MaxSpeed())
	assert.Equal(t, v3(1, 2, 3), b.Position())

	t.Run("initial velocity is clamped", func(t *testing.T) {
		fast, err := NewBoid("fast", v3(0, 0, 0), WithVelocity(v3(30, 40, 0)))
		require.NoError(t, err)
		assert.InDelta(t, 8.0, fast.Velocity().Len(), tol)
	})

	tests := []struct {
		name string
		opt  BoidOption
	}{
		{"negative weight", WithWeights(1, -1, 1)},
		{"negative radius", WithRadii(2, 4, -6)},
		{"negative max speed", WithMaxSpeed(-8)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBoid("bad", v3(0, 0, 0), tt.opt)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestBoid_Acceleration(t *testing.T) {
	t.Run("alone", func(t *testing.T) {
		b, err := NewBoid("b", v3(0, 0, 0), WithVelocity(v3(1, 0, 0)))
		require.NoError(t, err)
		assert.Equal(t, geometry.Vector3D{}, b.Acceleration(nil))
	})

	t.Run("separation is raw", func(t *testing.T) {
		// only separation in range, and only separation weighted
		b, err := NewBoid("b", v3(0, 0, 0),
			WithVelocity(v3(3, 0, 0)),
			WithWeights(1, 0, 0),
		)
		require.NoError(t, err)
		acc := b.Acceleration([]steering.State{{Position: v3(1, 0, 0)}})
		assertVec(t, v3(-boidSteerSpeed, 0, 0), acc, "own velocity must not be subtracted")
	})

	t.Run("alignment and cohesion are velocity relative", func(t *testing.T) {
		b, err := NewBoid("b", v3(0, 0, 0),
			WithVelocity(v3(1, 0, 0)),
			WithWeights(0, 1, 0),
		)
		require.NoError(t, err)
		n := steering.State{Position: v3(3, 0, 0), Velocity: v3(0, 2, 0)}
		assertVec(t, v3(-1, 10, 0), b.Acceleration([]steering.State{n}))

		require.NoError(t, WithWeights(0, 0, 1)(b))
		assertVec(t, v3(10-1, 0, 0), b.Acceleration([]steering.State{n}))
	})

	t.Run("each rule uses its own radius", func(t *testing.T) {
		b, err := NewBoid("b", v3(0, 0, 0))
		require.NoError(t, err)
		// 5 units: outside separation (2) and alignment (4), inside cohesion (6)
		n := steering.State{Position: v3(0, 5, 0), Velocity: v3(7, 0, 0)}
		assertVec(t, v3(0, 10, 0), b.Acceleration([]steering.State{n}))
	})
}

func TestBoid_Update(t *testing.T) {
	b, err := NewBoid("b", v3(0, 0, 0), WithVelocity(v3(2, 0, 0)))
	require.NoError(t, err)

	b.Update(0.5, nil)
	assertVec(t, v3(2, 0, 0), b.Velocity())
	assertVec(t, v3(1, 0, 0), b.Position())

	// a huge acceleration is not capped, but the resulting velocity is
	crowded := []steering.State{{Position: v3(1.1, 0, 0)}, {Position: v3(1, 0.2, 0)}}
	for i := 0; i < 10; i++ {
		b.Update(1, crowded)
		assert.LessOrEqual(t, b.Velocity().Len(), b.MaxSpeed()+tol)
	}
}
