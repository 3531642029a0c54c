// Package ui holds the small immediate-mode widgets used by the viewer's
// control panel.
package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

var (
	trackColor  = color.RGBA{R: 80, G: 80, B: 80, A: 255}
	fillColor   = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	borderColor = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	activeColor = color.RGBA{R: 100, G: 200, B: 100, A: 255}
)

// Input is the pointer state for one frame. Widgets read it instead of
// polling ebiten so they can be driven from tests.
type Input struct {
	X, Y    float64
	Pressed bool    // left button held
	Wheel   float64 // vertical wheel delta
}

// ReadInput samples the mouse.
func ReadInput() Input {
	mx, my := ebiten.CursorPosition()
	_, dy := ebiten.Wheel()
	return Input{
		X:       float64(mx),
		Y:       float64(my),
		Pressed: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		Wheel:   dy,
	}
}

// Widget is anything the Panel can lay out.
type Widget interface {
	Update(in Input)
	Draw(screen *ebiten.Image)
	// Height is the vertical space the widget needs, label included.
	Height() float64
	// MoveTo places the top left corner of the widget's slot.
	MoveTo(x, y float64)
}

func inside(in Input, x, y, w, h float64) bool {
	return in.X >= x && in.X <= x+w && in.Y >= y && in.Y <= y+h
}

// press tracks a left click edge so a held button fires once.
type press struct {
	held bool
}

// clicked reports true on the first frame the button goes down over the
// given area.
func (p *press) clicked(in Input, over bool) bool {
	if over && in.Pressed {
		if !p.held {
			p.held = true
			return true
		}
		return false
	}
	p.held = false
	return false
}
