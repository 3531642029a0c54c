// Package telemetry writes per-tick flock diagnostics as CSV rows.
package telemetry

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/stat"

	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/simulation"
)

// Record is one CSV row describing the flock after a tick.
type Record struct {
	Tick  uint64 `csv:"tick"`
	Boids int    `csv:"boids"`

	// Detector
	Pattern          string  `csv:"pattern"`
	Alignment        float64 `csv:"alignment"`
	Cohesion         float64 `csv:"cohesion"`
	VelocityVariance float64 `csv:"velocity_variance"`

	// Analyzer
	AverageDensity float64 `csv:"average_density"`
	MaxDensity     float64 `csv:"max_density"`
	Hotspots       int     `csv:"hotspots"`
	CenterX        float64 `csv:"center_x"`
	CenterY        float64 `csv:"center_y"`
	CenterZ        float64 `csv:"center_z"`

	// Kinematics
	MeanSpeed float64 `csv:"mean_speed"`
	MaxSpeed  float64 `csv:"max_speed"`
}

// RecordFrom flattens a world snapshot into a row.
func RecordFrom(snap *simulation.WorldSnapshot) Record {
	r := Record{
		Tick:             snap.Tick,
		Boids:            len(snap.Boids),
		Pattern:          snap.Pattern.String(),
		Alignment:        snap.Metrics.Alignment,
		Cohesion:         snap.Metrics.Cohesion,
		VelocityVariance: snap.Metrics.VelocityVariance,
		AverageDensity:   snap.Density.AverageDensity,
		MaxDensity:       snap.Density.MaxDensity,
		Hotspots:         len(snap.Density.Hotspots),
		CenterX:          snap.Density.Center.X,
		CenterY:          snap.Density.Center.Y,
		CenterZ:          snap.Density.Center.Z,
	}
	if len(snap.Boids) == 0 {
		return r
	}

	speeds := make([]float64, len(snap.Boids))
	for i, b := range snap.Boids {
		speeds[i] = b.Velocity.Len()
		r.MaxSpeed = max(r.MaxSpeed, speeds[i])
	}
	r.MeanSpeed = stat.Mean(speeds, nil)
	return r
}

// Recorder appends records to a CSV stream, writing the header once.
// A nil Recorder discards everything, so callers need not check whether
// recording is enabled.
type Recorder struct {
	out           io.Writer
	headerWritten bool
	rows          int
}

func NewRecorder(out io.Writer) *Recorder {
	if out == nil {
		return nil
	}
	return &Recorder{out: out}
}

// Write appends one row.
func (r *Recorder) Write(rec Record) error {
	if r == nil {
		return nil
	}

	records := []Record{rec}

	if !r.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, r.out); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		r.headerWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, r.out); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
	}
	r.rows++
	return nil
}

// WriteSnapshot is shorthand for Write(RecordFrom(snap)).
func (r *Recorder) WriteSnapshot(snap *simulation.WorldSnapshot) error {
	if r == nil || snap == nil {
		return nil
	}
	return r.Write(RecordFrom(snap))
}

// Rows returns the number of rows written so far.
func (r *Recorder) Rows() int {
	if r == nil {
		return 0
	}
	return r.rows
}
