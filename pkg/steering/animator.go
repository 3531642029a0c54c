package steering

// Motion is a coarse movement state derived from speed, for driving
// animation or gameplay hooks.
type Motion int

const (
	MotionIdle Motion = iota
	MotionWalk
	MotionRun
)

const (
	idleSpeed = 0.1
	runSpeed  = 5.0
)

func (m Motion) String() string {
	switch m {
	case MotionIdle:
		return "idle"
	case MotionWalk:
		return "walk"
	case MotionRun:
		return "run"
	default:
		return "unknown"
	}
}

// MotionFor classifies a speed.
func MotionFor(speed float64) Motion {
	switch {
	case speed < idleSpeed:
		return MotionIdle
	case speed < runSpeed:
		return MotionWalk
	default:
		return MotionRun
	}
}

// Animator tracks the motion state of an agent and how long it has been in it.
type Animator struct {
	state   Motion
	elapsed float64
}

// Update advances the clock by dt and re-classifies the agent; the clock
// restarts at zero whenever the state changes.
func (a *Animator) Update(agent Agent, dt float64) {
	a.elapsed += dt
	next := MotionFor(agent.Velocity().Len())
	if next != a.state {
		a.state = next
		a.elapsed = 0
	}
}

func (a *Animator) State() Motion    { return a.state }
func (a *Animator) Elapsed() float64 { return a.elapsed }
