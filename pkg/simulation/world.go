package simulation

import (
	"fmt"
	"time"

	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/crowd"
)

// Keys accepted in a tuning message.
const (
	TuneNeighborRadius   = "neighborRadius"
	TuneSeparationWeight = "separationWeight"
	TuneAlignmentWeight  = "alignmentWeight"
	TuneCohesionWeight   = "cohesionWeight"
	TuneBoundaryStrength = "boundaryStrength"
)

// Tick asks the world to advance by dt.
func Tick(dt time.Duration) *durationpb.Duration { return durationpb.New(dt) }

// SnapshotRequest asks the world to answer with its current snapshot.
func SnapshotRequest() *emptypb.Empty { return &emptypb.Empty{} }

// Reset asks the world to respawn its flock from seed, keeping the current
// tuning.
func Reset(seed uint64) *wrapperspb.UInt64Value { return wrapperspb.UInt64(seed) }

// Tune builds a live configuration update from the Tune* keys.
func Tune(values map[string]float64) (*structpb.Struct, error) {
	fields := make(map[string]any, len(values))
	for k, v := range values {
		fields[k] = v
	}
	return structpb.NewStruct(fields)
}

// WorldActor owns the flock. It is the only place the simulation is mutated,
// so ticks, tuning and snapshot requests are serialized by its mailbox.
type WorldActor struct {
	cfg    *Config
	sim    *crowd.Simulation
	logger *zap.Logger

	// Communication with UI
	snapshotCh chan<- *WorldSnapshot

	// --- Benchmark Stats ---
	tickCount   int
	stepTime    time.Duration
	lastLogTime time.Time
}

var _ actor.Actor = (*WorldActor)(nil)

// NewWorldActor creates the world logic unit. snapshotCh may be nil when
// nobody polls for frames; a full channel drops the frame.
func NewWorldActor(cfg *Config, logger *zap.Logger, snapshotCh chan<- *WorldSnapshot) *WorldActor {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := *cfg
	return &WorldActor{
		cfg:         &c,
		logger:      logger,
		snapshotCh:  snapshotCh,
		lastLogTime: time.Now(),
	}
}

func (w *WorldActor) PreStart(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Info("World is spawning the flock...")
	sim, err := Build(w.cfg, w.logger)
	if err != nil {
		return fmt.Errorf("world %s: %w", ctx.ActorName(), err)
	}
	w.sim = sim
	return nil
}

func (w *WorldActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *goaktpb.PostStart:
		ctx.Logger().Infof("World started with %d boids", w.sim.Len())

	// The main simulation step, driven by the game loop or the CLI
	case *durationpb.Duration:
		start := time.Now()
		w.sim.Update(msg.AsDuration().Seconds())
		w.stepTime += time.Since(start)
		w.tickCount++

		w.logBenchmarks(ctx)
		w.pushSnapshot()

	// Failures are answered too, so an Ask never waits for its timeout.
	case *emptypb.Empty:
		snap, err := w.snapshot()
		if err != nil {
			ctx.Logger().Errorf("snapshot failed: %v", err)
			ctx.Response(wrapperspb.String(err.Error()))
			return
		}
		out, err := snap.ToProto()
		if err != nil {
			ctx.Logger().Errorf("snapshot encoding failed: %v", err)
			ctx.Response(wrapperspb.String(err.Error()))
			return
		}
		ctx.Response(out)

	case *wrapperspb.UInt64Value:
		if err := w.reset(msg.GetValue()); err != nil {
			ctx.Logger().Errorf("reset failed: %v", err)
			return
		}
		ctx.Logger().Infof("World reset with seed %d", msg.GetValue())
		w.pushSnapshot()

	// Live tuning from the viewer sliders
	case *structpb.Struct:
		if err := w.applyTuning(msg); err != nil {
			w.logger.Warn("tuning rejected", zap.Error(err))
		}

	default:
		ctx.Unhandled()
	}
}

func (w *WorldActor) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Info("World is shutdown...")
	_ = w.logger.Sync()
	return nil
}

func (w *WorldActor) reset(seed uint64) error {
	cfg := *w.cfg
	cfg.Seed = seed
	sim, err := Build(&cfg, w.logger)
	if err != nil {
		return err
	}
	w.cfg, w.sim = &cfg, sim
	return nil
}

func (w *WorldActor) snapshot() (*WorldSnapshot, error) {
	return Observe(w.sim, w.cfg.AnalysisCellSize)
}

func (w *WorldActor) pushSnapshot() {
	if w.snapshotCh == nil {
		return
	}
	snap, err := w.snapshot()
	if err != nil {
		w.logger.Error("snapshot failed", zap.Error(err))
		return
	}
	select {
	case w.snapshotCh <- snap:
	default:
		// UI busy, skip frame
	}
}

func (w *WorldActor) logBenchmarks(ctx *actor.ReceiveContext) {
	if time.Since(w.lastLogTime) >= time.Second {
		avg := time.Duration(0)
		if w.tickCount > 0 {
			avg = w.stepTime / time.Duration(w.tickCount)
		}
		ctx.Logger().Infof("📊 TICK RATE: %d/sec (avg step %s) | Boids: %d", w.tickCount, avg, w.sim.Len())
		w.tickCount = 0
		w.stepTime = 0
		w.lastLogTime = time.Now()
	}
}

// applyTuning applies every recognized key and reports the ones that were
// rejected. Valid keys are applied even if others fail.
func (w *WorldActor) applyTuning(msg *structpb.Struct) error {
	var errs error
	weights := false
	for key, value := range msg.GetFields() {
		if _, ok := value.GetKind().(*structpb.Value_NumberValue); !ok {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s must be a number", ErrInvalidConfig, key))
			continue
		}
		v := value.GetNumberValue()
		switch key {
		case TuneNeighborRadius:
			if err := w.sim.SetNeighborRadius(v); err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			w.cfg.NeighborRadius = v
		case TuneBoundaryStrength:
			margin, _, substep := w.sim.BoundaryResponse()
			if err := w.sim.SetBoundaryResponse(margin, v, substep); err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			w.cfg.BoundaryStrength = v
		case TuneSeparationWeight, TuneAlignmentWeight, TuneCohesionWeight:
			if v < 0 {
				errs = multierr.Append(errs, fmt.Errorf("%w: %s must be >= 0, got %g", ErrInvalidConfig, key, v))
				continue
			}
			switch key {
			case TuneSeparationWeight:
				w.cfg.SeparationWeight = v
			case TuneAlignmentWeight:
				w.cfg.AlignmentWeight = v
			default:
				w.cfg.CohesionWeight = v
			}
			weights = true
		default:
			errs = multierr.Append(errs, fmt.Errorf("%w: unknown tuning key %q", ErrInvalidConfig, key))
		}
	}

	if weights {
		for _, b := range w.sim.Boids() {
			// already validated above
			_ = b.SetWeights(w.cfg.SeparationWeight, w.cfg.AlignmentWeight, w.cfg.CohesionWeight)
		}
	}
	w.logger.Debug("tuning applied",
		zap.Float64("neighborRadius", w.cfg.NeighborRadius),
		zap.Float64("boundaryStrength", w.cfg.BoundaryStrength),
		zap.Float64("separation", w.cfg.SeparationWeight),
		zap.Float64("alignment", w.cfg.AlignmentWeight),
		zap.Float64("cohesion", w.cfg.CohesionWeight))
	return errs
}
