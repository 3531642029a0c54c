package crowd

import (
	"fmt"
	"math"
	"slices"

	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/steering"
)

// FlowField steers a whole crowd toward one goal on the X/Y plane. A single
// integration pass from the goal gives every cell a direction, so each
// lookup afterwards is O(1) whatever the crowd size.
//
// The field covers [0, width*cellSize) x [0, height*cellSize).
type FlowField struct {
	cols, rows int
	cellSize   float64

	obstacles   []circle
	blocked     []bool
	integration []float64
	directions  []geometry.Vector2D
	queue       []int
}

type circle struct {
	center geometry.Vector2D
	radius float64
}

var _ steering.FlowSource = (*FlowField)(nil)

var (
	neighborDX   = [8]int{-1, 0, 1, -1, 1, -1, 0, 1}
	neighborDY   = [8]int{-1, -1, -1, 0, 0, 1, 1, 1}
	neighborCost = [8]float64{math.Sqrt2, 1, math.Sqrt2, 1, 1, math.Sqrt2, 1, math.Sqrt2}
)

// NewFlowField creates an empty width x height field. Until Generate is
// called every direction is zero.
func NewFlowField(width, height int, cellSize float64) (*FlowField, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: flow field needs at least one cell, got %dx%d", ErrInvalidConfig, width, height)
	}
	if cellSize <= 0 {
		return nil, fmt.Errorf("%w: flow field cell size must be > 0, got %g", ErrInvalidConfig, cellSize)
	}
	size := width * height
	f := &FlowField{
		cols:        width,
		rows:        height,
		cellSize:    cellSize,
		blocked:     make([]bool, size),
		integration: make([]float64, size),
		directions:  make([]geometry.Vector2D, size),
		queue:       make([]int, 0, size),
	}
	for i := range f.integration {
		f.integration[i] = math.Inf(1)
	}
	return f, nil
}

func (f *FlowField) Width() int        { return f.cols }
func (f *FlowField) Height() int       { return f.rows }
func (f *FlowField) CellSize() float64 { return f.cellSize }

// AddObstacle blocks every cell whose center lies within radius of
// position, plus the cell containing position. Call Generate again for
// the field to route around it.
func (f *FlowField) AddObstacle(position geometry.Vector2D, radius float64) error {
	if radius < 0 {
		return fmt.Errorf("%w: obstacle radius must be >= 0, got %g", ErrInvalidConfig, radius)
	}
	f.obstacles = append(f.obstacles, circle{center: position, radius: radius})
	f.rasterize()
	return nil
}

// RemoveObstacle drops every obstacle centered in the same cell as position
// and reports whether any was found.
func (f *FlowField) RemoveObstacle(position geometry.Vector2D) bool {
	col, row := f.cell(position.X, position.Y)
	n := len(f.obstacles)
	f.obstacles = slices.DeleteFunc(f.obstacles, func(o circle) bool {
		c, r := f.cell(o.center.X, o.center.Y)
		return c == col && r == row
	})
	if len(f.obstacles) == n {
		return false
	}
	f.rasterize()
	return true
}

// Blocked reports whether the cell containing position is impassable.
// Positions outside the field are reported as blocked.
func (f *FlowField) Blocked(position geometry.Vector2D) bool {
	idx, ok := f.index(position.X, position.Y)
	return !ok || f.blocked[idx]
}

func (f *FlowField) rasterize() {
	clear(f.blocked)
	for _, o := range f.obstacles {
		if idx, ok := f.index(o.center.X, o.center.Y); ok {
			f.blocked[idx] = true
		}
		rSq := o.radius * o.radius
		for row := 0; row < f.rows; row++ {
			for col := 0; col < f.cols; col++ {
				center := geometry.Vector2D{
					X: (float64(col) + 0.5) * f.cellSize,
					Y: (float64(row) + 0.5) * f.cellSize,
				}
				if center.Sub(o.center).LenSqr() <= rSq {
					f.blocked[row*f.cols+col] = true
				}
			}
		}
	}
}

// Generate recomputes the field toward goal, which is clamped into the
// field. Each reachable cell points at its cheapest 8-neighbour; cells cut
// off from the goal, and every cell when the goal itself is blocked, get a
// zero direction.
func (f *FlowField) Generate(goal geometry.Vector2D) {
	for i := range f.integration {
		f.integration[i] = math.Inf(1)
	}
	clear(f.directions)

	goalCol, goalRow := f.cell(goal.X, goal.Y)
	goalCol = min(max(goalCol, 0), f.cols-1)
	goalRow = min(max(goalRow, 0), f.rows-1)
	goalIdx := goalRow*f.cols + goalCol
	if f.blocked[goalIdx] {
		return
	}

	f.integration[goalIdx] = 0
	f.queue = append(f.queue[:0], goalIdx)
	for head := 0; head < len(f.queue); head++ {
		current := f.queue[head]
		row, col := current/f.cols, current%f.cols
		for i := range neighborDX {
			nc, nr := col+neighborDX[i], row+neighborDY[i]
			if nc < 0 || nc >= f.cols || nr < 0 || nr >= f.rows {
				continue
			}
			nidx := nr*f.cols + nc
			if f.blocked[nidx] {
				continue
			}
			if c := f.integration[current] + neighborCost[i]; c < f.integration[nidx] {
				f.integration[nidx] = c
				f.queue = append(f.queue, nidx)
			}
		}
	}

	for idx, cost := range f.integration {
		if math.IsInf(cost, 1) {
			continue
		}
		row, col := idx/f.cols, idx%f.cols
		best := cost
		var dir geometry.Vector2D
		for i := range neighborDX {
			nc, nr := col+neighborDX[i], row+neighborDY[i]
			if nc < 0 || nc >= f.cols || nr < 0 || nr >= f.rows {
				continue
			}
			if c := f.integration[nr*f.cols+nc]; c < best {
				best = c
				dir = geometry.Vector2D{X: float64(neighborDX[i]), Y: float64(neighborDY[i])}
			}
		}
		f.directions[idx] = dir.Normalize()
	}
}

// Cost returns the integration cost from the cell containing position to
// the goal, +Inf when unreachable or outside the field.
func (f *FlowField) Cost(position geometry.Vector2D) float64 {
	idx, ok := f.index(position.X, position.Y)
	if !ok {
		return math.Inf(1)
	}
	return f.integration[idx]
}

// Direction returns the unit flow direction at position, projected on the
// X/Y plane, or zero outside the field, on blocked cells and at the goal.
func (f *FlowField) Direction(position geometry.Vector3D) geometry.Vector3D {
	idx, ok := f.index(position.X, position.Y)
	if !ok || f.blocked[idx] {
		return geometry.Vector3D{}
	}
	return f.directions[idx].XY3()
}

func (f *FlowField) cell(x, y float64) (col, row int) {
	return int(math.Floor(x / f.cellSize)), int(math.Floor(y / f.cellSize))
}

func (f *FlowField) index(x, y float64) (int, bool) {
	col, row := f.cell(x, y)
	if col < 0 || col >= f.cols || row < 0 || row >= f.rows {
		return 0, false
	}
	return row*f.cols + col, true
}
