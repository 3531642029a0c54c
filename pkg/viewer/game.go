// Package viewer renders a running world with ebiten and lets the user tune
// it live.
package viewer

import (
	"context"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tochemey/goakt/v3/actor"
	"go.uber.org/zap"

	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/ui"
)

const (
	panelWidth = 280.0
	margin     = 10.0
	worldName  = "world"
)

type Game struct {
	ctx        context.Context
	worldPID   *actor.PID
	snapshotCh chan *simulation.WorldSnapshot
	lastState  *simulation.WorldSnapshot
	cfg        *simulation.Config
	logger     *zap.Logger
	proj       projection

	paused bool
	seed   uint64

	// UI Controls
	panel *ui.Panel

	// Widget references for easy access
	widgetNeighborRadius   *ui.Slider
	widgetSeparation       *ui.Slider
	widgetAlignment        *ui.Slider
	widgetCohesion         *ui.Slider
	widgetBoundaryStrength *ui.Slider
	widgetShowHotspots     *ui.Toggle
	widgetShowCenter       *ui.Toggle
	widgetShowRadius       *ui.Toggle
	widgetPause            *ui.Button

	// Timing instrumentation
	updateAvg float64 // Rolling average in ms
	drawAvg   float64 // Rolling average in ms
}

var _ ebiten.Game = (*Game)(nil)

// NewGame spawns the world actor in system and builds the control panel.
func NewGame(ctx context.Context, cfg *simulation.Config, system actor.ActorSystem, logger *zap.Logger) (*Game, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Buffer to avoid blocking the world
	snapshotCh := make(chan *simulation.WorldSnapshot, 10)
	worldPID, err := system.Spawn(ctx, worldName, simulation.NewWorldActor(cfg, logger, snapshotCh))
	if err != nil {
		return nil, fmt.Errorf("failed to spawn world: %w", err)
	}

	g := &Game{
		ctx:        ctx,
		worldPID:   worldPID,
		snapshotCh: snapshotCh,
		lastState:  &simulation.WorldSnapshot{},
		cfg:        cfg,
		logger:     logger,
		seed:       cfg.Seed,
		proj: newProjection(cfg.BoundaryMin, cfg.BoundaryMax,
			panelWidth+2*margin, margin,
			float64(cfg.ScreenWidth)-panelWidth-3*margin, float64(cfg.ScreenHeight)-2*margin),
	}
	g.buildPanel()
	return g, nil
}

func (g *Game) buildPanel() {
	cfg := g.cfg
	panel := ui.NewPanel(margin, margin, panelWidth, float64(cfg.ScreenHeight)-2*margin, "Flock Controls")

	panel.AddSection("Perception")
	g.widgetNeighborRadius = panel.AddSlider("Neighbor Radius", 0, 40, cfg.NeighborRadius)

	panel.AddSection("Rule Weights")
	g.widgetSeparation = panel.AddSlider("Separation", 0, 5, cfg.SeparationWeight)
	g.widgetAlignment = panel.AddSlider("Alignment", 0, 5, cfg.AlignmentWeight)
	g.widgetCohesion = panel.AddSlider("Cohesion", 0, 5, cfg.CohesionWeight)

	panel.AddSection("Boundary")
	g.widgetBoundaryStrength = panel.AddSlider("Push Strength", 0, 100, cfg.BoundaryStrength)

	panel.AddSection("Visualization")
	g.widgetShowHotspots = panel.AddToggle("Show Hotspots", true)
	g.widgetShowCenter = panel.AddToggle("Show Center", true)
	g.widgetShowRadius = panel.AddToggle("Show Neighbor Radius", false)

	panel.AddSection("Run")
	g.widgetPause = panel.AddButton("Pause", g.togglePause)
	panel.AddButton("Reset (new seed)", g.reset)

	g.panel = panel
}

func (g *Game) togglePause() {
	g.paused = !g.paused
	if g.paused {
		g.widgetPause.Label = "Resume"
	} else {
		g.widgetPause.Label = "Pause"
	}
}

func (g *Game) reset() {
	g.seed++
	if err := actor.Tell(g.ctx, g.worldPID, simulation.Reset(g.seed)); err != nil {
		g.logger.Warn("reset not delivered", zap.Error(err))
	}
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		// Rolling average (exponential moving average)
		g.updateAvg = g.updateAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	// 1. Update UI Panel
	g.panel.Update(ui.ReadInput())
	g.sendTuning()

	// 2. Retrieve Latest State (Non-blocking)
	select {
	case snap := <-g.snapshotCh:
		g.lastState = snap
	default:
		// Use previous state if new one isn't ready
	}

	// 3. Trigger Simulation Step
	if !g.paused {
		if err := actor.Tell(g.ctx, g.worldPID, simulation.Tick(g.tickInterval())); err != nil {
			return fmt.Errorf("tick not delivered: %w", err)
		}
	}
	return nil
}

func (g *Game) tickInterval() time.Duration {
	return time.Duration(g.cfg.DeltaTime * float64(time.Second))
}

// sendTuning forwards the sliders that moved this frame.
func (g *Game) sendTuning() {
	values := make(map[string]float64)
	for key, s := range map[string]*ui.Slider{
		simulation.TuneNeighborRadius:   g.widgetNeighborRadius,
		simulation.TuneSeparationWeight: g.widgetSeparation,
		simulation.TuneAlignmentWeight:  g.widgetAlignment,
		simulation.TuneCohesionWeight:   g.widgetCohesion,
		simulation.TuneBoundaryStrength: g.widgetBoundaryStrength,
	} {
		if s.Changed() {
			values[key] = s.Value
		}
	}
	if len(values) == 0 {
		return
	}

	msg, err := simulation.Tune(values)
	if err != nil {
		g.logger.Warn("tuning not encoded", zap.Error(err))
		return
	}
	if err := actor.Tell(g.ctx, g.worldPID, msg); err != nil {
		g.logger.Warn("tuning not delivered", zap.Error(err))
	}
}

func (g *Game) Layout(w, h int) (int, int) { return g.cfg.ScreenWidth, g.cfg.ScreenHeight }
