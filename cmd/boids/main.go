package main

import (
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
	"go.uber.org/zap"

	"github.com/lao-tseu-is-alive/go-swarm-steering/internal/logging"
	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/viewer"
)

func main() {
	var configFile, logLevel string

	cmd := &cobra.Command{
		Use:          "boids",
		Short:        "Interactive 3D flock viewer (X/Y projection, depth shaded).",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := simulation.DefaultConfig()
			if configFile != "" {
				var err error
				if cfg, err = simulation.LoadConfig(configFile); err != nil {
					return err
				}
			}
			logger, err := logging.New(logLevel, logging.EncodingConsole)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx := cmd.Context()
			system, err := actor.NewActorSystem("FlockWorld",
				actor.WithLogger(golog.DiscardLogger),
				actor.WithActorInitMaxRetries(3))
			if err != nil {
				return err
			}
			if err := system.Start(ctx); err != nil {
				return err
			}
			defer func() { _ = system.Stop(ctx) }()

			game, err := viewer.NewGame(ctx, cfg, system, logger)
			if err != nil {
				return err
			}
			logger.Info("viewer ready", zap.Int("boids", cfg.NumBoids), zap.Uint64("seed", cfg.Seed))

			ebiten.SetWindowSize(cfg.ScreenWidth, cfg.ScreenHeight)
			ebiten.SetWindowTitle("Boids: Emergent Flocking")
			return ebiten.RunGame(game)
		},
	}
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "JSON or YAML config file")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
