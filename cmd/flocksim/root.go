package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/lao-tseu-is-alive/go-swarm-steering/internal/logging"
	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/telemetry"
)

type runOptions struct {
	configFile string
	ticks      int
	dt         float64
	boids      int
	seed       uint64
	csvPath    string
	logLevel   string
	logFormat  string
	askTimeout time.Duration
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "flocksim",
		Short:         "Headless flocking simulation with pattern and density telemetry.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newValidateCmd(), newDefaultsCmd())
	return root
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the flock for a number of ticks and record one CSV row per tick.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.configFile)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("dt") {
				cfg.DeltaTime = opts.dt
			}
			if flags.Changed("boids") {
				cfg.NumBoids = opts.boids
			}
			if flags.Changed("seed") {
				cfg.Seed = opts.seed
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := logging.New(opts.logLevel, opts.logFormat)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			return run(cmd.Context(), cfg, opts, logger, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configFile, "config", "c", "", "JSON or YAML config file (defaults when empty)")
	f.IntVarP(&opts.ticks, "ticks", "n", 600, "number of ticks to simulate")
	f.Float64Var(&opts.dt, "dt", 0, "seconds per tick (overrides the config)")
	f.IntVar(&opts.boids, "boids", 0, "flock size (overrides the config)")
	f.Uint64Var(&opts.seed, "seed", 0, "random seed (overrides the config)")
	f.StringVar(&opts.csvPath, "csv", "", "write per-tick telemetry to this file, - for stdout")
	f.StringVar(&opts.logLevel, "log-level", "info", "debug, info, warn or error")
	f.StringVar(&opts.logFormat, "log-format", logging.EncodingConsole, "console or json")
	f.DurationVar(&opts.askTimeout, "ask-timeout", 5*time.Second, "how long to wait for a snapshot")
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config>",
		Short: "Check a config file against the schema and the semantic rules.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := simulation.LoadConfig(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", args[0])
			return nil
		},
	}
}

func newDefaultsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "defaults",
		Short: "Print the default configuration as YAML.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(simulation.DefaultConfig()); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}

func loadConfig(path string) (*simulation.Config, error) {
	if path == "" {
		return simulation.DefaultConfig(), nil
	}
	return simulation.LoadConfig(path)
}

// run drives a world actor tick by tick. Each tick is followed by a
// snapshot request, so every row reflects exactly one step.
func run(ctx context.Context, cfg *simulation.Config, opts *runOptions, logger *zap.Logger, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	csvOut, closeCSV, err := openCSV(opts.csvPath, stdout)
	if err != nil {
		return err
	}
	defer closeCSV()
	recorder := telemetry.NewRecorder(csvOut)

	system, err := actor.NewActorSystem("FlockSim",
		actor.WithLogger(golog.DiscardLogger),
		actor.WithActorInitMaxRetries(1))
	if err != nil {
		return fmt.Errorf("creating actor system: %w", err)
	}
	if err := system.Start(ctx); err != nil {
		return fmt.Errorf("starting actor system: %w", err)
	}
	defer func() { _ = system.Stop(ctx) }()

	pid, err := system.Spawn(ctx, "world", simulation.NewWorldActor(cfg, logger, nil))
	if err != nil {
		return fmt.Errorf("failed to spawn world: %w", err)
	}

	dt := time.Duration(cfg.DeltaTime * float64(time.Second))
	start := time.Now()
	var last *simulation.WorldSnapshot
	for i := 0; i < opts.ticks; i++ {
		if err := actor.Tell(ctx, pid, simulation.Tick(dt)); err != nil {
			return fmt.Errorf("tick %d: %w", i, err)
		}
		reply, err := actor.Ask(ctx, pid, simulation.SnapshotRequest(), opts.askTimeout)
		if err != nil {
			return fmt.Errorf("snapshot after tick %d: %w", i, err)
		}
		snap, err := simulation.DecodeSnapshotReply(reply)
		if err != nil {
			return fmt.Errorf("snapshot after tick %d: %w", i, err)
		}
		if err := recorder.WriteSnapshot(snap); err != nil {
			return err
		}
		if last == nil || last.Pattern != snap.Pattern {
			logger.Info("pattern", zap.Uint64("tick", snap.Tick), zap.Stringer("pattern", snap.Pattern))
		}
		last = snap
	}

	logger.Info("run complete",
		zap.Int("ticks", opts.ticks),
		zap.Int("rows", recorder.Rows()),
		zap.Duration("elapsed", time.Since(start)))
	if last != nil && opts.csvPath != "-" {
		fmt.Fprintf(stdout, "ticks=%d boids=%d pattern=%s alignment=%.3f cohesion=%.3f hotspots=%d\n",
			last.Tick, len(last.Boids), last.Pattern,
			last.Metrics.Alignment, last.Metrics.Cohesion, len(last.Density.Hotspots))
	}
	return nil
}

func openCSV(path string, stdout io.Writer) (io.Writer, func(), error) {
	switch path {
	case "":
		return nil, func() {}, nil
	case "-":
		return stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return f, func() { _ = f.Close() }, nil
}
