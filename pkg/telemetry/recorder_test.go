package telemetry

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/crowd"
	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/simulation"
)

func testSnapshot(tick uint64) *simulation.WorldSnapshot {
	return &simulation.WorldSnapshot{
		Tick: tick,
		Boids: []simulation.BoidState{
			{ID: "Boid-000", Velocity: geometry.NewVector3(3, 4, 0)},
			{ID: "Boid-001", Velocity: geometry.NewVector3(1, 0, 0)},
		},
		Metrics: crowd.Metrics{Alignment: 0.9, Cohesion: 0.5, VelocityVariance: 0.2},
		Pattern: crowd.PatternSchooling,
		Density: crowd.DensityData{
			AverageDensity: 0.01,
			MaxDensity:     0.02,
			Center:         geometry.NewVector3(1, 2, 3),
			Hotspots:       []geometry.Vector3D{{}, {X: 5}},
		},
	}
}

func TestRecordFrom(t *testing.T) {
	r := RecordFrom(testSnapshot(9))
	assert.Equal(t, uint64(9), r.Tick)
	assert.Equal(t, 2, r.Boids)
	assert.Equal(t, "schooling", r.Pattern)
	assert.Equal(t, 2, r.Hotspots)
	assert.Equal(t, 3.0, r.CenterZ)
	assert.InDelta(t, 3.0, r.MeanSpeed, 1e-9)
	assert.InDelta(t, 5.0, r.MaxSpeed, 1e-9)

	empty := RecordFrom(&simulation.WorldSnapshot{})
	assert.Zero(t, empty.MeanSpeed)
	assert.Equal(t, "unknown", empty.Pattern)
}

func TestRecorder_WritesHeaderOnce(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(&buf)
	require.NoError(t, rec.WriteSnapshot(testSnapshot(1)))
	require.NoError(t, rec.WriteSnapshot(testSnapshot(2)))
	require.NoError(t, rec.WriteSnapshot(testSnapshot(3)))
	assert.Equal(t, 3, rec.Rows())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "tick,boids,pattern,"), lines[0])

	var rows []Record
	require.NoError(t, gocsv.Unmarshal(strings.NewReader(buf.String()), &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, []uint64{1, 2, 3}, []uint64{rows[0].Tick, rows[1].Tick, rows[2].Tick})
	assert.Equal(t, RecordFrom(testSnapshot(2)), rows[1])
}

func TestRecorder_Nil(t *testing.T) {
	rec := NewRecorder(nil)
	assert.Nil(t, rec)
	assert.NoError(t, rec.WriteSnapshot(testSnapshot(1)))
	assert.NoError(t, rec.Write(Record{}))
	assert.Zero(t, rec.Rows())
}
