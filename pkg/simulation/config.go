package simulation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/crowd"
	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/geometry"
)

// ErrInvalidConfig is returned when a configuration fails validation.
var ErrInvalidConfig = errors.New("invalid simulation config")

//go:embed config.schema.json
var configSchema []byte

const configSchemaURL = "config.schema.json"

type Config struct {
	// Reproducibility
	Seed uint64 `json:"seed" yaml:"seed"`

	// Population
	NumBoids     int     `json:"numBoids" yaml:"numBoids"`
	SpawnRadius  float64 `json:"spawnRadius" yaml:"spawnRadius"`   // boids start within this distance of the box center
	InitialSpeed float64 `json:"initialSpeed" yaml:"initialSpeed"` // random heading, fixed speed

	// World
	BoundaryMin      geometry.Vector3D `json:"boundaryMin" yaml:"boundaryMin"`
	BoundaryMax      geometry.Vector3D `json:"boundaryMax" yaml:"boundaryMax"`
	BoundaryMargin   float64           `json:"boundaryMargin" yaml:"boundaryMargin"`
	BoundaryStrength float64           `json:"boundaryStrength" yaml:"boundaryStrength"`
	BoundarySubstep  float64           `json:"boundarySubstep" yaml:"boundarySubstep"`
	NeighborRadius   float64           `json:"neighborRadius" yaml:"neighborRadius"`

	// Boid rules
	SeparationWeight float64 `json:"separationWeight" yaml:"separationWeight"`
	AlignmentWeight  float64 `json:"alignmentWeight" yaml:"alignmentWeight"`
	CohesionWeight   float64 `json:"cohesionWeight" yaml:"cohesionWeight"`
	SeparationRadius float64 `json:"separationRadius" yaml:"separationRadius"`
	AlignmentRadius  float64 `json:"alignmentRadius" yaml:"alignmentRadius"`
	CohesionRadius   float64 `json:"cohesionRadius" yaml:"cohesionRadius"`
	MaxSpeed         float64 `json:"maxSpeed" yaml:"maxSpeed"`

	// Stepping
	DeltaTime     float64 `json:"deltaTime" yaml:"deltaTime"` // seconds per tick
	GatherWorkers int     `json:"gatherWorkers" yaml:"gatherWorkers"`

	// Analysis
	AnalysisCellSize float64 `json:"analysisCellSize" yaml:"analysisCellSize"`

	// Viewer
	ScreenWidth  int `json:"screenWidth" yaml:"screenWidth"`
	ScreenHeight int `json:"screenHeight" yaml:"screenHeight"`
}

func DefaultConfig() *Config {
	return &Config{
		Seed:             1,
		NumBoids:         150,
		SpawnRadius:      30,
		InitialSpeed:     2,
		BoundaryMin:      geometry.NewVector3(-50, -50, -50),
		BoundaryMax:      geometry.NewVector3(50, 50, 50),
		BoundaryMargin:   crowd.DefaultBoundaryMargin,
		BoundaryStrength: crowd.DefaultBoundaryStrength,
		BoundarySubstep:  crowd.DefaultBoundarySubstep,
		NeighborRadius:   crowd.DefaultNeighborRadius,
		SeparationWeight: crowd.DefaultSeparationWeight,
		AlignmentWeight:  crowd.DefaultAlignmentWeight,
		CohesionWeight:   crowd.DefaultCohesionWeight,
		SeparationRadius: crowd.DefaultSeparationRadius,
		AlignmentRadius:  crowd.DefaultAlignmentRadius,
		CohesionRadius:   crowd.DefaultCohesionRadius,
		MaxSpeed:         crowd.DefaultBoidMaxSpeed,
		DeltaTime:        1.0 / 60,
		AnalysisCellSize: 5,
		ScreenWidth:      1000,
		ScreenHeight:     800,
	}
}

// LoadConfig loads configuration from a JSON or YAML file (by extension),
// validates it against the embedded schema, and overlays it on the defaults.
func LoadConfig(configFile string) (*Config, error) {
	// 1. Compile Schema
	sch, err := compileSchema()
	if err != nil {
		return nil, err
	}

	// 2. Read Config File
	raw, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// 3. Normalize to JSON so both formats validate the same way
	doc, err := toJSON(raw, filepath.Ext(configFile))
	if err != nil {
		return nil, err
	}

	// 4. Validate
	var v interface{}
	if err := json.Unmarshal(doc, &v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("%w: schema validation failed: %w", ErrInvalidConfig, err)
	}

	// 5. Unmarshal into Struct, keeping defaults for absent fields
	cfg := DefaultConfig()
	if err := json.Unmarshal(doc, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(configSchemaURL, bytes.NewReader(configSchema)); err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}
	sch, err := compiler.Compile(configSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return sch, nil
}

func toJSON(raw []byte, ext string) ([]byte, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		var v interface{}
		if err := yaml.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("failed to decode config yaml: %w", err)
		}
		if v == nil {
			return []byte("{}"), nil
		}
		doc, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to convert config yaml: %w", err)
		}
		return doc, nil
	default:
		return raw, nil
	}
}

// Validate reports every semantic violation the schema cannot express, such
// as an inverted boundary box, combined into one error.
func (c *Config) Validate() error {
	var err error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			err = multierr.Append(err, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}

	check(c.NumBoids >= 0, "numBoids must be >= 0, got %d", c.NumBoids)
	check(c.SpawnRadius >= 0, "spawnRadius must be >= 0, got %g", c.SpawnRadius)
	check(c.InitialSpeed >= 0, "initialSpeed must be >= 0, got %g", c.InitialSpeed)
	check(c.BoundaryMin.LessOrEqual(c.BoundaryMax), "boundaryMin %s must be <= boundaryMax %s", c.BoundaryMin, c.BoundaryMax)
	check(c.BoundaryMargin >= 0, "boundaryMargin must be >= 0, got %g", c.BoundaryMargin)
	check(c.BoundaryStrength >= 0, "boundaryStrength must be >= 0, got %g", c.BoundaryStrength)
	check(c.BoundarySubstep >= 0, "boundarySubstep must be >= 0, got %g", c.BoundarySubstep)
	check(c.NeighborRadius >= 0, "neighborRadius must be >= 0, got %g", c.NeighborRadius)
	check(c.SeparationWeight >= 0 && c.AlignmentWeight >= 0 && c.CohesionWeight >= 0,
		"weights must be >= 0, got %g/%g/%g", c.SeparationWeight, c.AlignmentWeight, c.CohesionWeight)
	check(c.SeparationRadius >= 0 && c.AlignmentRadius >= 0 && c.CohesionRadius >= 0,
		"rule radii must be >= 0, got %g/%g/%g", c.SeparationRadius, c.AlignmentRadius, c.CohesionRadius)
	check(c.MaxSpeed >= 0, "maxSpeed must be >= 0, got %g", c.MaxSpeed)
	check(c.DeltaTime >= 0, "deltaTime must be >= 0, got %g", c.DeltaTime)
	check(c.GatherWorkers >= 0, "gatherWorkers must be >= 0, got %d", c.GatherWorkers)
	check(c.AnalysisCellSize > 0, "analysisCellSize must be > 0, got %g", c.AnalysisCellSize)
	return err
}

// SimulationOptions translates the world settings into crowd options.
func (c *Config) SimulationOptions() []crowd.Option {
	return []crowd.Option{
		crowd.WithNeighborRadius(c.NeighborRadius),
		crowd.WithBoundary(c.BoundaryMin, c.BoundaryMax),
		crowd.WithBoundaryResponse(c.BoundaryMargin, c.BoundaryStrength, c.BoundarySubstep),
		crowd.WithGatherWorkers(c.GatherWorkers),
	}
}

// BoidOptions translates the rule settings into boid options.
func (c *Config) BoidOptions() []crowd.BoidOption {
	return []crowd.BoidOption{
		crowd.WithWeights(c.SeparationWeight, c.AlignmentWeight, c.CohesionWeight),
		crowd.WithRadii(c.SeparationRadius, c.AlignmentRadius, c.CohesionRadius),
		crowd.WithMaxSpeed(c.MaxSpeed),
	}
}
