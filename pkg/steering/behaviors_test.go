package steering

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/geometry"
)

const tol = 1e-9

func vec(x, y, z float64) geometry.Vector3D { return geometry.Vector3D{X: x, Y: y, Z: z} }

func assertVec(t *testing.T, want, got geometry.Vector3D, msgAndArgs ...any) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, tol, msgAndArgs...)
	assert.InDelta(t, want.Y, got.Y, tol, msgAndArgs...)
	assert.InDelta(t, want.Z, got.Z, tol, msgAndArgs...)
}

func TestSeekAndFlee(t *testing.T) {
	self := State{Position: vec(0, 0, 0), Velocity: vec(1, 0, 0), MaxSpeed: 10}

	seek := NewSeek(vec(0, 5, 0))
	assertVec(t, vec(-1, 10, 0), seek.Calculate(self, nil))

	flee := NewFlee(vec(0, 5, 0))
	assertVec(t, vec(-1, -10, 0), flee.Calculate(self, nil))

	seek.SetTarget(vec(3, 0, 4))
	assert.Equal(t, vec(3, 0, 4), seek.Target())
	assertVec(t, vec(6-1, 0, 8), seek.Calculate(self, nil))

	t.Run("target on the agent yields pure braking", func(t *testing.T) {
		onTop := NewSeek(self.Position)
		assertVec(t, vec(-1, 0, 0), onTop.Calculate(self, nil))
	})

	t.Run("a very close target still gets a full-speed pull", func(t *testing.T) {
		near := NewSeek(vec(0, 1e-10, 0))
		assertVec(t, vec(-1, 10, 0), near.Calculate(self, nil))
	})
}

func TestFlockingRules_NoNeighborsInRange(t *testing.T) {
	self := State{Position: vec(0, 0, 0), Velocity: vec(2, 1, 0), MaxSpeed: 10}
	far := []State{{Position: vec(100, 0, 0), Velocity: vec(0, 3, 0)}}

	sep, err := NewSeparation(3)
	require.NoError(t, err)
	align, err := NewAlignment(5)
	require.NoError(t, err)
	coh, err := NewCohesion(8)
	require.NoError(t, err)

	for _, b := range []Behavior{sep, align, coh} {
		assert.Equal(t, geometry.Vector3D{}, b.Calculate(self, nil), "%T with no neighbors", b)
		assert.Equal(t, geometry.Vector3D{}, b.Calculate(self, far), "%T with far neighbor", b)
	}

	t.Run("self in the neighbor list is ignored", func(t *testing.T) {
		withSelf := []State{self}
		for _, b := range []Behavior{sep, align, coh} {
			assert.Equal(t, geometry.Vector3D{}, b.Calculate(self, withSelf), "%T", b)
		}
	})
}

func TestFlockingRules_SingleNeighbor(t *testing.T) {
	self := State{Position: vec(1, 1, 0), Velocity: vec(0.5, -0.5, 0), MaxSpeed: 10}
	neighbor := State{Position: vec(3, 2, 0), Velocity: vec(0, 4, 3)}

	align, err := NewAlignment(5)
	require.NoError(t, err)
	want := neighbor.Velocity.Normalize().Mul(10).Sub(self.Velocity)
	assertVec(t, want, align.Calculate(self, []State{neighbor}))

	coh, err := NewCohesion(8)
	require.NoError(t, err)
	want = neighbor.Position.Sub(self.Position).Normalize().Mul(10).Sub(self.Velocity)
	assertVec(t, want, coh.Calculate(self, []State{neighbor}))
}

func TestSeparation_RepelsAlongJoiningLine(t *testing.T) {
	// two agents 3 units apart moving toward each other
	a := State{Position: vec(10, 10, 0), Velocity: vec(1, 0, 0), MaxSpeed: 10}
	b := State{Position: vec(13, 10, 0), Velocity: vec(-1, 0, 0), MaxSpeed: 10}

	sep, err := NewSeparation(4)
	require.NoError(t, err)

	fa := sep.Calculate(a, []State{b})
	fb := sep.Calculate(b, []State{a})

	assertVec(t, vec(-10-1, 0, 0), fa)
	assertVec(t, vec(10+1, 0, 0), fb)

	t.Run("boundary distance is exclusive", func(t *testing.T) {
		exact, err := NewSeparation(3)
		require.NoError(t, err)
		assert.Equal(t, geometry.Vector3D{}, exact.Calculate(a, []State{b}))
	})

	t.Run("raw steer is not velocity relative", func(t *testing.T) {
		steer, ok := SeparationSteer(a.Position, []State{b}, 4, 10)
		require.True(t, ok)
		assertVec(t, vec(-10, 0, 0), steer)
	})
}

func TestFlockingHelpers(t *testing.T) {
	self := vec(0, 0, 0)
	ns := []State{
		{Position: vec(1, 0, 0), Velocity: vec(2, 0, 0)},
		{Position: vec(0, 1, 0), Velocity: vec(0, 2, 0)},
		{Position: vec(50, 0, 0), Velocity: vec(9, 9, 9)},
	}

	avg, n := AverageVelocity(self, ns, 5)
	assert.Equal(t, 2, n)
	assertVec(t, vec(1, 1, 0), avg)

	center, n := CenterOfMass(self, ns, 5)
	assert.Equal(t, 2, n)
	assertVec(t, vec(0.5, 0.5, 0), center)
}

func TestAvoidance(t *testing.T) {
	self := State{Position: vec(0, 0, 0), Velocity: vec(0, 0, 0), MaxSpeed: 10, Radius: 1}

	av, err := NewAvoidance(4)
	require.NoError(t, err)

	assert.Equal(t, geometry.Vector3D{}, av.Calculate(self, nil), "nothing to avoid")

	t.Run("neighbor", func(t *testing.T) {
		f := av.Calculate(self, []State{{Position: vec(2, 0, 0)}})
		assertVec(t, vec(-10, 0, 0), f)
	})

	t.Run("obstacle within clearance", func(t *testing.T) {
		require.NoError(t, av.AddObstacle(vec(0, 6, 0), 2))
		// clearance = 2 + 1 + 4 = 7 > 6
		f := av.Calculate(self, nil)
		assertVec(t, vec(0, -10, 0), f)
		assert.Len(t, av.Obstacles(), 1)
	})

	t.Run("obstacle outside clearance", func(t *testing.T) {
		av.ClearObstacles()
		require.NoError(t, av.AddObstacle(vec(0, 8, 0), 2))
		assert.Equal(t, geometry.Vector3D{}, av.Calculate(self, nil))
	})

	t.Run("closer is stronger before normalization", func(t *testing.T) {
		av.ClearObstacles()
		near := State{Position: vec(1, 0, 0)}
		far := State{Position: vec(0, -3, 0)}
		f := av.Calculate(self, []State{near, far})
		// near contributes 4/1 along -x, far contributes 4/3 along +y
		assert.Less(t, f.X, 0.0)
		assert.Greater(t, f.Y, 0.0)
		assert.Greater(t, math.Abs(f.X), math.Abs(f.Y))
	})

	assert.ErrorIs(t, av.AddObstacle(vec(0, 0, 0), -1), ErrInvalidParameter)
}

func TestWander(t *testing.T) {
	w, err := NewWander(2, 5, 1, rand.New(rand.NewPCG(42, 7)))
	require.NoError(t, err)

	self := State{Position: vec(0, 0, 0), Velocity: vec(0, 0, 0), MaxSpeed: 10}
	f := w.Calculate(self, nil)

	assert.InDelta(t, 2.0, w.JitterTarget().Len(), tol, "jitter target stays on the circle")
	assert.Zero(t, w.JitterTarget().Y, "jitter happens on the ground plane")
	assert.InDelta(t, WanderSpeed, f.Len(), tol, "resting agent seeks at wander speed")
	assert.Greater(t, f.Z, 0.0, "resting agent wanders along the default forward axis")

	t.Run("same seed same path", func(t *testing.T) {
		w1, _ := NewWander(2, 5, 1, rand.New(rand.NewPCG(9, 9)))
		w2, _ := NewWander(2, 5, 1, rand.New(rand.NewPCG(9, 9)))
		moving := State{Position: vec(1, 2, 3), Velocity: vec(3, 0, 0), MaxSpeed: 10}
		for i := 0; i < 10; i++ {
			assert.Equal(t, w1.Calculate(moving, nil), w2.Calculate(moving, nil))
		}
		assert.Equal(t, w1.JitterTarget(), w2.JitterTarget())
	})

	t.Run("zero jitter keeps the target", func(t *testing.T) {
		still, _ := NewWander(2, 5, 0, nil)
		still.Calculate(self, nil)
		assertVec(t, vec(0, 0, 2), still.JitterTarget())
	})

	_, err = NewWander(-1, 5, 1, nil)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

type fixedField geometry.Vector3D

func (f fixedField) Direction(geometry.Vector3D) geometry.Vector3D { return geometry.Vector3D(f) }

func TestFlowFollow(t *testing.T) {
	self := State{Velocity: vec(1, 0, 0), MaxSpeed: 10}

	ff := NewFlowFollow(fixedField(vec(0, 1, 0)))
	assertVec(t, vec(-1, 10, 0), ff.Calculate(self, nil))

	assert.Equal(t, geometry.Vector3D{}, NewFlowFollow(fixedField{}).Calculate(self, nil))
	assert.Equal(t, geometry.Vector3D{}, NewFlowFollow(nil).Calculate(self, nil))
}

func TestPathFollow(t *testing.T) {
	path := []geometry.Vector3D{vec(0, 0, 0), vec(10, 0, 0)}

	p := NewPathFollow(path, false)
	self := State{Position: vec(0.5, 0, 0), MaxSpeed: 10}

	// arriving at the first waypoint advances to the second one
	f := p.Calculate(self, nil)
	assert.Equal(t, 1, p.Current())
	assertVec(t, vec(10, 0, 0), f)

	self.Position = vec(9.5, 0, 0)
	assert.Equal(t, geometry.Vector3D{}, p.Calculate(self, nil))
	assert.True(t, p.IsComplete())
	assert.Equal(t, geometry.Vector3D{}, p.Calculate(self, nil), "completed path stays idle")

	p.Reset()
	assert.False(t, p.IsComplete())

	t.Run("loop", func(t *testing.T) {
		lp := NewPathFollow(path, true)
		lp.Calculate(State{Position: vec(0, 0, 0), MaxSpeed: 10}, nil)
		f := lp.Calculate(State{Position: vec(10, 0, 0), MaxSpeed: 10}, nil)
		assert.Equal(t, 0, lp.Current())
		assert.False(t, lp.IsComplete())
		assertVec(t, vec(-10, 0, 0), f)
	})

	assert.ErrorIs(t, p.SetArrivalRadius(-1), ErrInvalidParameter)
}

func TestBase(t *testing.T) {
	s := NewSeek(vec(1, 0, 0))
	assert.Equal(t, 1.0, s.Weight())
	assert.True(t, s.Enabled())

	require.NoError(t, s.SetWeight(0))
	assert.Equal(t, 0.0, s.Weight())
	assert.ErrorIs(t, s.SetWeight(-0.5), ErrInvalidParameter)
	assert.Equal(t, 0.0, s.Weight(), "rejected weight is not applied")

	s.SetEnabled(false)
	assert.False(t, s.Enabled())

	for _, ctor := range []func(float64) error{
		func(r float64) error { _, err := NewSeparation(r); return err },
		func(r float64) error { _, err := NewAlignment(r); return err },
		func(r float64) error { _, err := NewCohesion(r); return err },
		func(r float64) error { _, err := NewAvoidance(r); return err },
	} {
		assert.ErrorIs(t, ctor(-1), ErrInvalidParameter)
		assert.NoError(t, ctor(0))
	}
}

func TestAnimator(t *testing.T) {
	body := &Body{}
	var a Animator

	a.Update(body, 0.5)
	assert.Equal(t, MotionIdle, a.State())
	assert.Equal(t, 0.5, a.Elapsed())

	body.Vel = vec(2, 0, 0)
	a.Update(body, 0.5)
	assert.Equal(t, MotionWalk, a.State())
	assert.Equal(t, 0.0, a.Elapsed(), "state change restarts the clock")

	body.Vel = vec(6, 0, 0)
	a.Update(body, 0.1)
	assert.Equal(t, MotionRun, a.State())
	assert.Equal(t, "run", a.State().String())
}
