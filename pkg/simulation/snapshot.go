package simulation

import (
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/crowd"
	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/geometry"
)

// ErrSnapshotFailed is returned by DecodeSnapshotReply when the world could
// not build or encode its snapshot.
var ErrSnapshotFailed = errors.New("world snapshot failed")

// BoidState is the wire view of one boid.
type BoidState struct {
	ID       string            `json:"id"`
	Position geometry.Vector3D `json:"position"`
	Velocity geometry.Vector3D `json:"velocity"`
}

// WorldSnapshot is what the world publishes after every tick: the flock
// plus the analyzer and detector output for it.
type WorldSnapshot struct {
	Tick    uint64            `json:"tick"`
	Boids   []BoidState       `json:"boids"`
	Metrics crowd.Metrics     `json:"metrics"`
	Pattern crowd.Pattern     `json:"pattern"`
	Density crowd.DensityData `json:"density"`
}

// Observe captures the current state of sim and analyzes it with the given
// density cell size.
func Observe(sim *crowd.Simulation, cellSize float64) (*WorldSnapshot, error) {
	states := sim.Snapshot()
	density, err := crowd.AnalyzeDensity(states, cellSize)
	if err != nil {
		return nil, err
	}

	snap := &WorldSnapshot{
		Tick:    sim.Ticks(),
		Boids:   make([]BoidState, 0, len(states)),
		Metrics: crowd.Measure(states),
		Pattern: crowd.DetectPattern(states),
		Density: density,
	}
	for i, b := range sim.Boids() {
		snap.Boids = append(snap.Boids, BoidState{
			ID:       b.ID,
			Position: states[i].Position,
			Velocity: states[i].Velocity,
		})
	}
	return snap, nil
}

// ToProto converts the snapshot into a protobuf Struct so it can travel as
// an actor message.
func (s *WorldSnapshot) ToProto() (*structpb.Struct, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return structpb.NewStruct(fields)
}

// SnapshotFromProto is the inverse of ToProto.
func SnapshotFromProto(p *structpb.Struct) (*WorldSnapshot, error) {
	if p == nil {
		return nil, fmt.Errorf("nil snapshot message")
	}
	raw, err := p.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	snap := &WorldSnapshot{}
	if err := json.Unmarshal(raw, snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snap, nil
}

// DecodeSnapshotReply turns the answer to a SnapshotRequest into a snapshot.
// A failed snapshot comes back as a string message carrying the reason.
func DecodeSnapshotReply(reply proto.Message) (*WorldSnapshot, error) {
	switch msg := reply.(type) {
	case *structpb.Struct:
		return SnapshotFromProto(msg)
	case *wrapperspb.StringValue:
		return nil, fmt.Errorf("%w: %s", ErrSnapshotFailed, msg.GetValue())
	default:
		return nil, fmt.Errorf("unexpected snapshot reply %T", reply)
	}
}
