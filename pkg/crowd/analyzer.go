package crowd

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/steering"
)

// HotspotRatio is the fraction of the maximum density a cell must exceed
// to be reported as a hotspot.
const HotspotRatio = 0.8

// DensityData summarizes how a flock occupies the X/Y plane.
type DensityData struct {
	// AverageDensity is the mean of the per-cell densities over every cell
	// of the grid, empty ones included.
	AverageDensity float64 `json:"average_density"`
	MaxDensity     float64 `json:"max_density"`
	// Center is the centroid of all positions.
	Center geometry.Vector3D `json:"center"`
	// Hotspots are the lower corners (z = 0) of the dense cells, row by row.
	Hotspots []geometry.Vector3D `json:"hotspots"`
	Columns  int                 `json:"columns"`
	Rows     int                 `json:"rows"`
}

type cellIndex struct {
	col, row int
}

// AnalyzeDensity buckets the snapshot positions into square cells of
// cellSize spanning their X/Y bounding box. Density is count / cellSize².
// An empty snapshot yields zero statistics.
func AnalyzeDensity(snapshot []steering.State, cellSize float64) (DensityData, error) {
	if cellSize <= 0 {
		return DensityData{}, fmt.Errorf("%w: cell size must be > 0, got %g", ErrInvalidConfig, cellSize)
	}
	if len(snapshot) == 0 {
		return DensityData{}, nil
	}

	lo, hi := snapshot[0].Position, snapshot[0].Position
	xs := make([]float64, len(snapshot))
	ys := make([]float64, len(snapshot))
	zs := make([]float64, len(snapshot))
	for i, s := range snapshot {
		lo = lo.Min(s.Position)
		hi = hi.Max(s.Position)
		xs[i], ys[i], zs[i] = s.Position.X, s.Position.Y, s.Position.Z
	}

	spanX, spanY := (hi.X-lo.X)/cellSize, (hi.Y-lo.Y)/cellSize
	if !(spanX < math.MaxInt32 && spanY < math.MaxInt32) {
		return DensityData{}, fmt.Errorf("%w: cell size %g is too small for a %gx%g extent",
			ErrInvalidConfig, cellSize, hi.X-lo.X, hi.Y-lo.Y)
	}
	cols := int(spanX) + 1
	rows := int(spanY) + 1

	counts := make(map[cellIndex]int)
	for _, s := range snapshot {
		c := cellIndex{
			col: min(int((s.Position.X-lo.X)/cellSize), cols-1),
			row: min(int((s.Position.Y-lo.Y)/cellSize), rows-1),
		}
		counts[c]++
	}

	area := cellSize * cellSize
	maxDensity := 0.0
	for _, n := range counts {
		maxDensity = math.Max(maxDensity, float64(n)/area)
	}

	// every boid lands in exactly one cell, so the density sum is n / area
	data := DensityData{
		AverageDensity: float64(len(snapshot)) / area / (float64(cols) * float64(rows)),
		MaxDensity:     maxDensity,
		Center:         geometry.NewVector3(stat.Mean(xs, nil), stat.Mean(ys, nil), stat.Mean(zs, nil)),
		Columns:        cols,
		Rows:           rows,
	}

	threshold := HotspotRatio * maxDensity
	var dense []cellIndex
	for c, n := range counts {
		if float64(n)/area > threshold {
			dense = append(dense, c)
		}
	}
	slices.SortFunc(dense, func(a, b cellIndex) int {
		return cmp.Or(cmp.Compare(a.row, b.row), cmp.Compare(a.col, b.col))
	})
	for _, c := range dense {
		data.Hotspots = append(data.Hotspots, geometry.NewVector3(
			lo.X+float64(c.col)*cellSize,
			lo.Y+float64(c.row)*cellSize,
			0,
		))
	}
	return data, nil
}

// LocalDensity returns the number of boids within radius of point divided
// by the area of the disc of that radius.
func LocalDensity(point geometry.Vector3D, snapshot []steering.State, radius float64) (float64, error) {
	if radius <= 0 {
		return 0, fmt.Errorf("%w: radius must be > 0, got %g", ErrInvalidConfig, radius)
	}
	radiusSq := radius * radius
	count := 0
	for _, s := range snapshot {
		if point.DistanceSquaredTo(s.Position) <= radiusSq {
			count++
		}
	}
	return float64(count) / (math.Pi * radiusSq), nil
}
