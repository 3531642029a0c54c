package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Toggle is a checkbox for boolean values.
type Toggle struct {
	Label string
	Value bool
	X, Y  float64
	Size  float64

	press   press
	changed bool
}

func NewToggle(x, y float64, label string, value bool) *Toggle {
	return &Toggle{
		Label: label,
		Value: value,
		X:     x,
		Y:     y,
		Size:  16,
	}
}

// Update flips the value once per click.
func (t *Toggle) Update(in Input) {
	if t.press.clicked(in, inside(in, t.X, t.Y, t.Size, t.Size)) {
		t.Value = !t.Value
		t.changed = true
	}
}

// Changed reports whether the value flipped since the last call.
func (t *Toggle) Changed() bool {
	c := t.changed
	t.changed = false
	return c
}

func (t *Toggle) Draw(screen *ebiten.Image) {
	vector.StrokeRect(screen,
		float32(t.X), float32(t.Y),
		float32(t.Size), float32(t.Size),
		2, borderColor, true)

	if t.Value {
		vector.FillRect(screen,
			float32(t.X+2), float32(t.Y+2),
			float32(t.Size-4), float32(t.Size-4),
			activeColor, true)
	}
	ebitenutil.DebugPrintAt(screen, t.Label, int(t.X+t.Size+8), int(t.Y))
}

func (t *Toggle) Height() float64     { return t.Size + 5 }
func (t *Toggle) MoveTo(x, y float64) { t.X, t.Y = x, y }
