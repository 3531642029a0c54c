package viewer

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/simulation"
)

var (
	whiteImage = ebiten.NewImage(3, 3)

	backgroundColor = color.RGBA{R: 10, G: 10, B: 30, A: 255}
	boxColor        = color.RGBA{R: 70, G: 70, B: 90, A: 255}
	hotspotColor    = color.RGBA{R: 255, G: 120, B: 40, A: 200}
	centerColor     = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	radiusColor     = color.RGBA{R: 50, G: 100, B: 255, A: 120}
)

func init() {
	whiteImage.Fill(color.White)
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.drawAvg = g.drawAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	screen.Fill(backgroundColor)
	g.drawBox(screen)

	// 1. Analyzer overlays under the flock
	if g.widgetShowHotspots.Value {
		g.drawHotspots(screen)
	}
	if g.widgetShowRadius.Value && len(g.lastState.Boids) > 0 {
		x, y := g.proj.point(g.lastState.Boids[0].Position)
		vector.StrokeCircle(screen, float32(x), float32(y),
			float32(g.proj.length(g.widgetNeighborRadius.Value)), 1, radiusColor, true)
	}

	// 2. Draw all boids from the last known snapshot
	g.drawBoids(screen, g.lastState.Boids)

	if g.widgetShowCenter.Value && len(g.lastState.Boids) > 0 {
		x, y := g.proj.point(g.lastState.Density.Center)
		vector.StrokeCircle(screen, float32(x), float32(y), 4, 2, centerColor, true)
	}

	// 3. Draw UI Panel
	g.panel.Draw(screen)

	// 4. Stats, right side to avoid overlap with the panel
	g.drawStats(screen)
}

func (g *Game) drawBox(screen *ebiten.Image) {
	x0, y0 := g.proj.point(g.cfg.BoundaryMin)
	x1, y1 := g.proj.point(g.cfg.BoundaryMax)
	vector.StrokeRect(screen,
		float32(x0), float32(y1),
		float32(x1-x0), float32(y0-y1),
		1, boxColor, true)
}

// drawHotspots outlines the dense analysis cells. Hotspots are the lower
// corners of their cells.
func (g *Game) drawHotspots(screen *ebiten.Image) {
	size := g.proj.length(g.cfg.AnalysisCellSize)
	for _, h := range g.lastState.Density.Hotspots {
		x, y := g.proj.point(h)
		vector.StrokeRect(screen,
			float32(x), float32(y-size),
			float32(size), float32(size),
			2, hotspotColor, true)
	}
}

// drawBoids batches every boid into a single DrawTriangles call. Nearer boids
// (higher Z) are drawn brighter and larger.
func (g *Game) drawBoids(screen *ebiten.Image, boids []simulation.BoidState) {
	if len(boids) == 0 {
		return
	}
	vertices := make([]ebiten.Vertex, 0, 3*len(boids))
	indices := make([]uint16, 0, 3*len(boids))

	for _, b := range boids {
		if len(vertices)+3 > math.MaxUint16 {
			break
		}
		x, y := g.proj.point(b.Position)
		depth := g.proj.depth(b.Position.Z)
		// screen Y is flipped
		angle := math.Atan2(-b.Velocity.Y, b.Velocity.X)
		size := 4 + 3*depth

		tipX := x + math.Cos(angle)*size
		tipY := y + math.Sin(angle)*size
		rightX := x + math.Cos(angle+2.5)*size*0.8
		rightY := y + math.Sin(angle+2.5)*size*0.8
		leftX := x + math.Cos(angle-2.5)*size*0.8
		leftY := y + math.Sin(angle-2.5)*size*0.8

		shade := float32(0.45 + 0.55*depth)
		base := uint16(len(vertices))
		for _, p := range [3][2]float64{{tipX, tipY}, {rightX, rightY}, {leftX, leftY}} {
			vertices = append(vertices, ebiten.Vertex{
				DstX: float32(p[0]),
				DstY: float32(p[1]),
				SrcX: 1, SrcY: 1,
				ColorR: 0.4 * shade, ColorG: 0.8 * shade, ColorB: shade, ColorA: 1,
			})
		}
		indices = append(indices, base, base+1, base+2)
	}

	op := &ebiten.DrawTrianglesOptions{}
	screen.DrawTriangles(vertices, indices, whiteImage, op)
}

func (g *Game) drawStats(screen *ebiten.Image) {
	s := g.lastState
	state := "running"
	if g.paused {
		state = "paused"
	}
	msg := fmt.Sprintf("Tick: %d (%s)\nBoids: %d\nPattern: %s\n\nAlignment: %.2f\nCohesion:  %.2f\nSpeed var: %.2f\n\nDensity avg: %.4f\nDensity max: %.4f\nHotspots: %d",
		s.Tick, state,
		len(s.Boids),
		s.Pattern,
		s.Metrics.Alignment,
		s.Metrics.Cohesion,
		s.Metrics.VelocityVariance,
		s.Density.AverageDensity,
		s.Density.MaxDensity,
		len(s.Density.Hotspots))
	ebitenutil.DebugPrintAt(screen, msg, g.cfg.ScreenWidth-170, 10)

	perf := fmt.Sprintf("FPS: %.2f\nTPS: %.2f\n\nUpdate: %.2fms\nDraw:   %.2fms\nTotal:  %.2fms",
		ebiten.ActualFPS(),
		ebiten.ActualTPS(),
		g.updateAvg,
		g.drawAvg,
		g.updateAvg+g.drawAvg)
	ebitenutil.DebugPrintAt(screen, perf, g.cfg.ScreenWidth-170, g.cfg.ScreenHeight-90)
}
