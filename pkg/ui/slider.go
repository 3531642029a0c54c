package ui

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Slider picks a float value in [Min, Max] by dragging.
type Slider struct {
	Label    string
	Value    float64
	Min, Max float64
	X, Y     float64
	W, H     float64
	// Format renders the value next to the label.
	Format string

	changed bool
}

func NewSlider(x, y, w float64, label string, min, max, value float64) *Slider {
	s := &Slider{
		Label:  label,
		Min:    min,
		Max:    max,
		X:      x,
		Y:      y,
		W:      w,
		H:      10,
		Format: "%.2f",
	}
	s.SetValue(value)
	s.changed = false
	return s
}

// SetValue clamps v into range.
func (s *Slider) SetValue(v float64) {
	v = max(s.Min, min(s.Max, v))
	if v != s.Value {
		s.Value = v
		s.changed = true
	}
}

// Changed reports whether the value moved since the last call.
func (s *Slider) Changed() bool {
	c := s.changed
	s.changed = false
	return c
}

// Update checks for mouse interaction
func (s *Slider) Update(in Input) {
	if !in.Pressed || !inside(in, s.X, s.Y, s.W, s.H) || s.W <= 0 {
		return
	}
	p := (in.X - s.X) / s.W
	s.SetValue(s.Min + p*(s.Max-s.Min))
}

func (s *Slider) Draw(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s: "+s.Format, s.Label, s.Value), int(s.X), int(s.Y-15))

	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W), float32(s.H), trackColor, true)
	ratio := 0.0
	if s.Max > s.Min {
		ratio = (s.Value - s.Min) / (s.Max - s.Min)
	}
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W*ratio), float32(s.H), fillColor, true)
}

func (s *Slider) Height() float64     { return s.H + 25 }
func (s *Slider) MoveTo(x, y float64) { s.X, s.Y = x, y+15 }
