// Package termplot draws dipole panels as terminal line graphs.
package termplot

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/dipview/internal/view"
)

type Options struct {
	Width  int
	Height int
	Color  bool
}

var DefaultOptions = Options{Width: 80, Height: 10, Color: true}

// Panel renders one panel. Samples outside a clipped time range are
// dropped, and the y axis uses the panel bounds.
func Panel(p view.Panel, opts Options) string {
	series := make([][]float64, 0, len(p.Lines))
	colors := make([]asciigraph.AnsiColor, 0, len(p.Lines))
	for _, ln := range p.Lines {
		s := clip(p, ln)
		if len(s) == 0 {
			continue
		}
		series = append(series, s)
		if ln.Color == view.AverageColor {
			colors = append(colors, asciigraph.White)
		} else {
			colors = append(colors, asciigraph.Gray)
		}
	}

	caption := p.Title
	if p.YLabel != "" {
		caption += " " + p.YLabel
	}
	if len(series) == 0 {
		return fmt.Sprintf("%s: no data\n", caption)
	}

	options := []asciigraph.Option{
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.LowerBound(p.YMin),
		asciigraph.UpperBound(p.YMax),
		asciigraph.Caption(caption),
	}
	if opts.Color {
		options = append(options, asciigraph.SeriesColors(colors...))
	}
	return asciigraph.PlotMany(series, options...) + "\n"
}

// Render draws every panel of v top to bottom.
func Render(v *view.DipoleView, opts Options) string {
	var b strings.Builder
	for i, p := range v.Panels() {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(Panel(p, opts))
	}
	if panels := v.Panels(); len(panels) > 0 && panels[len(panels)-1].XLabel != "" {
		b.WriteString(panels[len(panels)-1].XLabel + "\n")
	}
	return b.String()
}

func clip(p view.Panel, ln view.Line) []float64 {
	if !p.XClipped {
		return ln.Values
	}
	out := make([]float64, 0, len(ln.Values))
	for i, v := range ln.Values {
		if i < len(ln.Times) && ln.Times[i] >= p.XMin && ln.Times[i] <= p.XMax {
			out = append(out, v)
		}
	}
	return out
}
