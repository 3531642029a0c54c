package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	titleHeight   = 30.0
	sectionHeight = 25.0
	scrollStep    = 20.0
)

// entry is either a section header or a widget.
type entry struct {
	title   string
	widget  Widget
	y       float64 // slot top, relative to the content origin
	visible bool
}

// Panel stacks widgets under section headers in a scrollable column.
type Panel struct {
	X, Y          float64
	Width, Height float64
	Title         string
	ScrollOffset  float64

	// Styling
	BGColor      color.RGBA
	BorderColor  color.RGBA
	SectionColor color.RGBA

	entries []entry
}

func NewPanel(x, y, width, height float64, title string) *Panel {
	return &Panel{
		X:            x,
		Y:            y,
		Width:        width,
		Height:       height,
		Title:        title,
		BGColor:      color.RGBA{R: 40, G: 40, B: 45, A: 230},
		BorderColor:  color.RGBA{R: 100, G: 100, B: 110, A: 255},
		SectionColor: color.RGBA{R: 60, G: 60, B: 70, A: 255},
	}
}

// AddSection starts a new header; widgets added next belong to it.
func (p *Panel) AddSection(title string) {
	p.entries = append(p.entries, entry{title: title})
	p.layout()
}

func (p *Panel) AddSlider(label string, min, max, value float64) *Slider {
	s := NewSlider(0, 0, p.Width-20, label, min, max, value)
	p.Add(s)
	return s
}

func (p *Panel) AddToggle(label string, value bool) *Toggle {
	t := NewToggle(0, 0, label, value)
	p.Add(t)
	return t
}

func (p *Panel) AddButton(label string, onClick func()) *Button {
	b := NewButton(0, 0, p.Width-20, 22, label, onClick)
	p.Add(b)
	return b
}

// Add appends any widget.
func (p *Panel) Add(w Widget) {
	p.entries = append(p.entries, entry{widget: w})
	p.layout()
}

// ContentHeight is the height of everything in the panel, title included.
func (p *Panel) ContentHeight() float64 {
	h := titleHeight
	for _, e := range p.entries {
		h += e.height()
	}
	return h
}

// Contains reports whether the pointer is over the panel.
func (p *Panel) Contains(in Input) bool {
	return inside(in, p.X, p.Y, p.Width, p.Height)
}

// Update scrolls when the wheel moves over the panel and forwards input to
// the visible widgets.
func (p *Panel) Update(in Input) {
	if in.Wheel != 0 && p.Contains(in) {
		p.ScrollOffset -= in.Wheel * scrollStep
		maxScroll := max(0, p.ContentHeight()-p.Height+40)
		p.ScrollOffset = max(0, min(maxScroll, p.ScrollOffset))
	}
	p.layout()

	for _, e := range p.entries {
		if e.widget != nil && e.visible {
			e.widget.Update(in)
		}
	}
}

// layout positions every entry for the current scroll offset.
func (p *Panel) layout() {
	y := titleHeight
	for i := range p.entries {
		e := &p.entries[i]
		e.y = y
		top := p.Y + y - p.ScrollOffset
		e.visible = top >= p.Y+titleHeight-5 && top+e.height() <= p.Y+p.Height
		if e.widget != nil {
			e.widget.MoveTo(p.X+10, top)
		}
		y += e.height()
	}
}

func (e *entry) height() float64 {
	if e.widget == nil {
		return sectionHeight
	}
	return e.widget.Height()
}

func (p *Panel) Draw(screen *ebiten.Image) {
	vector.FillRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		p.BGColor, true)
	vector.StrokeRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		2, p.BorderColor, true)
	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+10), int(p.Y+5))

	for _, e := range p.entries {
		if !e.visible {
			continue
		}
		if e.widget != nil {
			e.widget.Draw(screen)
			continue
		}
		top := p.Y + e.y - p.ScrollOffset
		vector.FillRect(screen,
			float32(p.X+5), float32(top),
			float32(p.Width-10), 20,
			p.SectionColor, true)
		ebitenutil.DebugPrintAt(screen, e.title, int(p.X+10), int(top+3))
	}
}
