package simulation

import (
	"fmt"
	"math"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/crowd"
	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/geometry"
)

// Build creates a flock as described by cfg. Boids are named Boid-000,
// Boid-001, ... and placed uniformly inside a ball of SpawnRadius around the
// center of the boundary box, clipped to the box, each heading in a random
// direction at InitialSpeed. The same seed always yields the same flock.
func Build(cfg *Config, logger *zap.Logger) (*crowd.Simulation, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sim, err := crowd.NewSimulation(append(cfg.SimulationOptions(), crowd.WithLogger(logger))...)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
	center := cfg.BoundaryMin.Add(cfg.BoundaryMax).Mul(0.5)
	boidOpts := cfg.BoidOptions()

	for i := 0; i < cfg.NumBoids; i++ {
		name := fmt.Sprintf("Boid-%03d", i)
		offset := randomUnit(rng).Mul(cfg.SpawnRadius * math.Cbrt(rng.Float64()))
		pos := center.Add(offset).Max(cfg.BoundaryMin).Min(cfg.BoundaryMax)
		vel := randomUnit(rng).Mul(cfg.InitialSpeed)

		b, err := crowd.NewBoid(name, pos, append(boidOpts, crowd.WithVelocity(vel))...)
		if err != nil {
			return nil, fmt.Errorf("spawn %s: %w", name, err)
		}
		if err := sim.AddBoid(b); err != nil {
			return nil, err
		}
	}

	logger.Info("flock spawned",
		zap.Int("boids", sim.Len()),
		zap.Uint64("seed", cfg.Seed),
		zap.Stringer("center", center))
	return sim, nil
}

// randomUnit returns a direction uniformly distributed on the unit sphere.
func randomUnit(rng *rand.Rand) geometry.Vector3D {
	z := rng.Float64()*2 - 1
	phi := rng.Float64() * 2 * math.Pi
	r := math.Sqrt(1 - z*z)
	return geometry.NewVector3(r*math.Cos(phi), r*math.Sin(phi), z)
}
