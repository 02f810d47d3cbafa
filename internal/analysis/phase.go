package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/dipview/internal/dipole"
)

// Portrait pairs two channels of the same dipole sample by sample.
type Portrait struct {
	X, Y   dipole.Channel
	Points []struct{ X, Y float64 }
}

// ChannelPortrait traces channel y against channel x, e.g. L5 against L2.
func ChannelPortrait(d *dipole.Dipole, x, y dipole.Channel) *Portrait {
	xs, ys := d.Data[x], d.Data[y]
	n := min(len(xs), len(ys))

	p := &Portrait{X: x, Y: y, Points: make([]struct{ X, Y float64 }, n)}
	for i := 0; i < n; i++ {
		p.Points[i].X = xs[i]
		p.Points[i].Y = ys[i]
	}
	return p
}

// ASCII draws the portrait on a width x height character grid, with axes
// where zero is in view.
func (p *Portrait) ASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, pt := range p.Points {
		minX, maxX = math.Min(minX, pt.X), math.Max(maxX, pt.X)
		minY, maxY = math.Min(minY, pt.Y), math.Max(maxY, pt.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	col := func(x float64) int { return int((x - minX) / rangeX * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-minY)/rangeY*float64(height-1)) }

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	if c := col(0); c >= 0 && c < width {
		for r := range grid {
			grid[r][c] = '│'
		}
	}
	if r := row(0); r >= 0 && r < height {
		for c := range grid[r] {
			if grid[r][c] == '│' {
				grid[r][c] = '┼'
			} else {
				grid[r][c] = '─'
			}
		}
	}

	for _, pt := range p.Points {
		r, c := row(pt.Y), col(pt.X)
		if r >= 0 && r < height && c >= 0 && c < width {
			grid[r][c] = '•'
		}
	}

	var sb strings.Builder
	for _, line := range grid {
		sb.WriteString(string(line))
		sb.WriteByte('\n')
	}
	return sb.String()
}
