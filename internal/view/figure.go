package view

import (
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/san-kum/dipview/internal/dipole"
)

// Figure is a renderable multi-panel drawing.
type Figure interface {
	Size() (w, h vg.Length)
	Draw(c draw.Canvas)
}

// Host is the container that owns a view, e.g. a window.
type Host interface {
	// LineWidth is the base line width in points.
	LineWidth() float64
	Attach(f Figure)
}

// TrialLoader reads up to n trials from a simulation directory. Unreadable
// trials are skipped rather than reported.
type TrialLoader interface {
	LoadTrials(dir string, n int) ([]*dipole.Dipole, error)
}

// Layout holds figure margins as fractions of the figure size. HSpace is
// the gap between panels as a fraction of the panel height.
type Layout struct {
	Bottom, Left, Right, Top float64
	HSpace                   float64
}

var DefaultLayout = Layout{
	Bottom: 0.06,
	Left:   0.06,
	Right:  1.0,
	Top:    0.97,
	HSpace: 0.09,
}

// tiles converts the layout into a single-column grid of n panels.
func (l Layout) tiles(w, h vg.Length, n int) draw.Tiles {
	usable := h * vg.Length(l.Top-l.Bottom)
	panel := usable / vg.Length(float64(n)+float64(n-1)*l.HSpace)
	return draw.Tiles{
		Rows:      n,
		Cols:      1,
		PadTop:    h * vg.Length(1-l.Top),
		PadBottom: h * vg.Length(l.Bottom),
		PadLeft:   w * vg.Length(l.Left),
		PadRight:  w * vg.Length(1-l.Right),
		PadY:      panel * vg.Length(l.HSpace),
	}
}
