package viewer

import "github.com/lao-tseu-is-alive/go-swarm-steering/pkg/geometry"

// projection maps the X/Y face of the world box onto a screen rectangle,
// keeping the aspect ratio and centering the result. Screen Y grows down,
// world Y grows up.
type projection struct {
	scale    float64
	offsetX  float64
	offsetY  float64
	worldMin geometry.Vector3D
	worldMax geometry.Vector3D
}

func newProjection(worldMin, worldMax geometry.Vector3D, x, y, width, height float64) projection {
	w := worldMax.X - worldMin.X
	h := worldMax.Y - worldMin.Y
	scale := 1.0
	switch {
	case w > 0 && h > 0:
		scale = min(width/w, height/h)
	case w > 0:
		scale = width / w
	case h > 0:
		scale = height / h
	}
	return projection{
		scale:    scale,
		offsetX:  x + (width-w*scale)/2,
		offsetY:  y + (height-h*scale)/2,
		worldMin: worldMin,
		worldMax: worldMax,
	}
}

// point returns the screen position of p.
func (pr projection) point(p geometry.Vector3D) (float64, float64) {
	sx := pr.offsetX + (p.X-pr.worldMin.X)*pr.scale
	sy := pr.offsetY + (pr.worldMax.Y-p.Y)*pr.scale
	return sx, sy
}

// length converts a world distance to pixels.
func (pr projection) length(d float64) float64 { return d * pr.scale }

// depth maps Z into [0,1], 1 being the nearest face.
func (pr projection) depth(z float64) float64 {
	span := pr.worldMax.Z - pr.worldMin.Z
	if span <= 0 {
		return 1
	}
	return max(0, min(1, (z-pr.worldMin.Z)/span))
}
