package crowd

import (
	"math"
	"slices"

	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/steering"
)

// minCellSize keeps a zero neighbor radius from producing zero-width cells.
const minCellSize = 1.0

type gridKey struct {
	x, y, z int
}

// spatialGrid is a uniform hash grid over snapshot indices. With the cell
// size equal to the query radius, every neighbor of a point lies in the
// 3x3x3 block of cells around it.
type spatialGrid struct {
	cellSize float64
	cells    map[gridKey][]int
}

func newSpatialGrid() *spatialGrid {
	return &spatialGrid{cellSize: minCellSize, cells: make(map[gridKey][]int)}
}

func (g *spatialGrid) key(p geometry.Vector3D) gridKey {
	return gridKey{
		x: int(math.Floor(p.X / g.cellSize)),
		y: int(math.Floor(p.Y / g.cellSize)),
		z: int(math.Floor(p.Z / g.cellSize)),
	}
}

// rebuild re-buckets the snapshot. Cell slices are truncated, not freed, so
// their backing arrays are reused from one tick to the next.
func (g *spatialGrid) rebuild(snapshot []steering.State, radius float64) {
	for k := range g.cells {
		g.cells[k] = g.cells[k][:0]
	}
	g.cellSize = math.Max(radius, minCellSize)

	for i, s := range snapshot {
		k := g.key(s.Position)
		g.cells[k] = append(g.cells[k], i)
	}
}

// neighbors appends to dst the indices j != self of snapshot entries within
// radius (inclusive) of snapshot[self], in ascending order.
func (g *spatialGrid) neighbors(dst []int, snapshot []steering.State, self int, radius float64) []int {
	me := snapshot[self].Position
	c := g.key(me)
	radiusSq := radius * radius
	start := len(dst)

	for i := c.x - 1; i <= c.x+1; i++ {
		for j := c.y - 1; j <= c.y+1; j++ {
			for k := c.z - 1; k <= c.z+1; k++ {
				for _, idx := range g.cells[gridKey{x: i, y: j, z: k}] {
					if idx == self {
						continue
					}
					if me.DistanceSquaredTo(snapshot[idx].Position) <= radiusSq {
						dst = append(dst, idx)
					}
				}
			}
		}
	}
	slices.Sort(dst[start:])
	return dst
}

// scanNeighbors is the exhaustive O(n) reference query.
func scanNeighbors(dst []int, snapshot []steering.State, self int, radius float64) []int {
	me := snapshot[self].Position
	radiusSq := radius * radius
	for idx, other := range snapshot {
		if idx == self {
			continue
		}
		if me.DistanceSquaredTo(other.Position) <= radiusSq {
			dst = append(dst, idx)
		}
	}
	return dst
}
