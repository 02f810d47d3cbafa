package view

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/san-kum/dipview/internal/config"
	"github.com/san-kum/dipview/internal/dipole"
	"github.com/san-kum/dipview/internal/logging"
	"github.com/san-kum/dipview/internal/storage"
)

var ErrInvalidIndex = errors.New("view: trial index must be non-negative")

var (
	AverageColor    color.Color = color.White
	IndividualColor color.Color = color.Gray{Y: 128}
	FaceColor       color.Color = color.Black
	GridColor       color.Color = color.Gray{Y: 64}
	FigureColor     color.Color = color.White
)

const TimeLabel = "Time (ms)"

// Options configure a DipoleView. Zero values fall back to config defaults;
// a nil Logger writes to stderr at the default level.
type Options struct {
	OutputRoot string
	Width      float64 // inches
	Height     float64 // inches
	DPI        int
	FontSize   float64
	LineWidth  float64 // used when there is no host
	Title      string
	Layout     Layout
	Loader     TrialLoader
	Logger     *slog.Logger
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		OutputRoot: cfg.OutputRoot,
		Width:      cfg.Width,
		Height:     cfg.Height,
		DPI:        cfg.DPI,
		FontSize:   cfg.FontSize,
		LineWidth:  cfg.LineWidth,
		Title:      cfg.Title,
	}
}

func (o Options) withDefaults() Options {
	def := config.DefaultConfig()
	if o.OutputRoot == "" {
		o.OutputRoot = def.OutputRoot
	}
	if o.Width <= 0 {
		o.Width = def.Width
	}
	if o.Height <= 0 {
		o.Height = def.Height
	}
	if o.DPI <= 0 {
		o.DPI = def.DPI
	}
	if o.FontSize <= 0 {
		o.FontSize = def.FontSize
	}
	if o.LineWidth <= 0 {
		o.LineWidth = def.LineWidth
	}
	if o.Title == "" {
		o.Title = def.Title
	}
	if o.Layout == (Layout{}) {
		o.Layout = DefaultLayout
	}
	if o.Loader == nil {
		o.Loader = storage.New(o.OutputRoot)
	}
	if o.Logger == nil {
		o.Logger = logging.NewLogger(def.LogLevel, os.Stderr)
	}
	return o
}

// Line is one drawn series.
type Line struct {
	Label  string
	Times  []float64
	Values []float64
	Color  color.Color
	Width  float64
}

type LegendEntry struct {
	Label string
	Color color.Color
}

// Panel describes what one subplot shows.
type Panel struct {
	Channel dipole.Channel
	Title   string
	XLabel  string
	YLabel  string
	Lines   []Line
	Legend  []LegendEntry

	YMin, YMax float64
	XClipped   bool
	XMin, XMax float64
}

// DipoleView is a three-panel dipole figure for one simulation.
type DipoleView struct {
	params *config.Params
	index  int
	host   Host
	opts   Options

	dir    string
	trials []*dipole.Dipole
	avg    *dipole.Dipole

	panels []Panel
	plots  []*plot.Plot
}

// New loads the trials of the simulation described by params, averages
// them and draws the figure. index 0 shows the average and every trial;
// index k shows only trial k-1. host may be nil.
//
// Fewer trials on disk than params.NumTrials produces one warning on the
// options logger. Zero readable trials, a missing directory or trials that
// cannot be averaged are errors.
func New(params *config.Params, index int, host Host, opts Options) (*DipoleView, error) {
	if index < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidIndex, index)
	}

	v := &DipoleView{
		params: params,
		index:  index,
		host:   host,
		opts:   opts.withDefaults(),
	}
	dir, trials, avg, err := v.load(params)
	if err != nil {
		return nil, err
	}
	v.dir, v.trials, v.avg = dir, trials, avg
	if err := v.DrawDipole(); err != nil {
		return nil, err
	}
	if host != nil {
		host.Attach(v)
	}
	return v, nil
}

// load reads and averages the trials of params without touching the view.
func (v *DipoleView) load(params *config.Params) (string, []*dipole.Dipole, *dipole.Dipole, error) {
	dir := storage.New(v.opts.OutputRoot).SimDir(params.SimPrefix)

	trials, err := v.opts.Loader.LoadTrials(dir, params.NumTrials)
	if err != nil {
		return "", nil, nil, fmt.Errorf("load dipoles: %w", err)
	}

	avg, err := dipole.Average(trials)
	if err != nil {
		return "", nil, nil, fmt.Errorf("average dipoles in %s: %w", dir, err)
	}

	if len(trials) < params.NumTrials {
		v.opts.Logger.Warn("only read part of the dipole files",
			"loaded", len(trials),
			"requested", params.NumTrials,
			"dir", dir)
	}
	return dir, trials, avg, nil
}

func (v *DipoleView) Params() *config.Params   { return v.params }
func (v *DipoleView) Index() int               { return v.index }
func (v *DipoleView) Dir() string              { return v.dir }
func (v *DipoleView) Trials() []*dipole.Dipole { return v.trials }
func (v *DipoleView) Average() *dipole.Dipole  { return v.avg }
func (v *DipoleView) Panels() []Panel          { return v.panels }
func (v *DipoleView) Plots() []*plot.Plot      { return v.plots }
func (v *DipoleView) Title() string            { return v.opts.Title }
func (v *DipoleView) DPI() int                 { return v.opts.DPI }

func (v *DipoleView) Size() (w, h vg.Length) {
	return vg.Length(v.opts.Width) * vg.Inch, vg.Length(v.opts.Height) * vg.Inch
}

// LineWidth is the base width for trial lines, taken from the host when
// there is one.
func (v *DipoleView) LineWidth() float64 {
	if v.host != nil {
		return v.host.LineWidth()
	}
	return v.opts.LineWidth
}

// YLabel reports the scale factor applied to the dipole data.
func (v *DipoleView) YLabel() string {
	return "(nAm × " + strconv.FormatFloat(v.params.ScaleFactor, 'g', -1, 64) + ")"
}

// SetIndex switches between the average view (0) and a single trial (k)
// and redraws.
func (v *DipoleView) SetIndex(index int) error {
	if index < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidIndex, index)
	}
	v.index = index
	return v.DrawDipole()
}

// Reload reads the trials for params again, clears the panels and redraws
// with the given index. On error the view keeps its previous data.
func (v *DipoleView) Reload(params *config.Params, index int) error {
	if index < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidIndex, index)
	}
	dir, trials, avg, err := v.load(params)
	if err != nil {
		return err
	}
	v.ClearAxes()
	v.params, v.index = params, index
	v.dir, v.trials, v.avg = dir, trials, avg
	return v.DrawDipole()
}

// buildPanels computes the content of each panel from the loaded data.
func (v *DipoleView) buildPanels() []Panel {
	base := v.LineWidth()
	trialWidth := base
	if v.index != 0 {
		trialWidth = base + 2
	}

	panels := make([]Panel, 0, len(dipole.Channels))
	for _, ch := range dipole.Channels {
		p := Panel{
			Channel: ch,
			Title:   dipole.Titles[ch],
			YLabel:  v.YLabel(),
		}
		if ch == dipole.Agg {
			p.XLabel = TimeLabel
		}

		for i, tr := range v.trials {
			if v.index == 0 || i == v.index-1 {
				p.Lines = append(p.Lines, Line{
					Label:  fmt.Sprintf("trial %d", i+1),
					Times:  tr.Times,
					Values: tr.Data[ch],
					Color:  IndividualColor,
					Width:  trialWidth,
				})
			}
		}
		if v.index == 0 {
			p.Lines = append(p.Lines, Line{
				Label:  "average",
				Times:  v.avg.Times,
				Values: v.avg.Data[ch],
				Color:  AverageColor,
				Width:  base + 2,
			})
		}

		p.YMin, p.YMax, _ = dipole.Range(ch, append([]*dipole.Dipole{v.avg}, v.trials...)...)
		if !v.params.Unbounded() {
			p.XClipped = true
			p.XMin, p.XMax = 0, v.params.Tstop
		}
		if ch == dipole.L2 && len(v.trials) > 0 {
			p.Legend = []LegendEntry{
				{Label: "Average", Color: AverageColor},
				{Label: "Individual", Color: IndividualColor},
			}
		}

		panels = append(panels, p)
	}
	return panels
}

// DrawDipole rebuilds all three panels from the loaded trials.
func (v *DipoleView) DrawDipole() error {
	panels := v.buildPanels()
	plots := make([]*plot.Plot, len(panels))
	for i := range panels {
		p, err := v.newPlot(panels[i])
		if err != nil {
			return fmt.Errorf("%s panel: %w", panels[i].Title, err)
		}
		plots[i] = p
	}
	v.panels = panels
	v.plots = plots
	return nil
}

// ClearAxes removes tick marks and content from every panel, keeping the
// panel count so the figure can be drawn again later.
func (v *DipoleView) ClearAxes() {
	for i := range v.panels {
		v.panels[i] = Panel{Channel: v.panels[i].Channel}
	}
	for i := range v.plots {
		p := v.blankPlot()
		p.Y.Tick.Marker = plot.ConstantTicks(nil)
		v.plots[i] = p
	}
}

func (v *DipoleView) blankPlot() *plot.Plot {
	p := plot.New()
	size := vg.Points(v.opts.FontSize)
	p.Title.TextStyle.Font.Size = size
	p.X.Label.TextStyle.Font.Size = size
	p.Y.Label.TextStyle.Font.Size = size
	p.X.Tick.Label.Font.Size = size
	p.Y.Tick.Label.Font.Size = size
	p.Legend.TextStyle.Font.Size = size
	return p
}

func (v *DipoleView) newPlot(panel Panel) (*plot.Plot, error) {
	p := v.blankPlot()
	p.Title.Text = panel.Title
	p.X.Label.Text = panel.XLabel
	p.Y.Label.Text = panel.YLabel

	p.Add(face{color: FaceColor})
	grid := plotter.NewGrid()
	grid.Vertical.Color = GridColor
	grid.Horizontal.Color = GridColor
	p.Add(grid)

	for _, ln := range panel.Lines {
		l, err := plotter.NewLine(xys(ln.Times, ln.Values))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ln.Label, err)
		}
		l.LineStyle.Color = ln.Color
		l.LineStyle.Width = vg.Points(ln.Width)
		p.Add(l)
	}

	p.Y.Min, p.Y.Max = panel.YMin, panel.YMax
	if panel.XClipped {
		p.X.Min, p.X.Max = panel.XMin, panel.XMax
	}

	if len(panel.Legend) > 0 {
		p.Legend.Top = true
		p.Legend.TextStyle.Color = AverageColor
		for _, e := range panel.Legend {
			p.Legend.Add(e.Label, swatch{color: e.Color})
		}
	}
	return p, nil
}

// Draw lays the panels out top to bottom on c.
func (v *DipoleView) Draw(c draw.Canvas) {
	if len(v.plots) == 0 {
		return
	}
	w, h := c.Max.X-c.Min.X, c.Max.Y-c.Min.Y
	rows := make([][]*plot.Plot, len(v.plots))
	for i, p := range v.plots {
		rows[i] = []*plot.Plot{p}
	}
	canvases := plot.Align(rows, v.opts.Layout.tiles(w, h, len(rows)), c)
	for i, p := range v.plots {
		p.Draw(canvases[i][0])
	}
}

func xys(times, values []float64) plotter.XYs {
	n := min(len(times), len(values))
	pts := make(plotter.XYs, n)
	for i := 0; i < n; i++ {
		pts[i].X = times[i]
		pts[i].Y = values[i]
	}
	return pts
}

// face fills the data area of a panel.
type face struct {
	color color.Color
}

func (f face) Plot(c draw.Canvas, _ *plot.Plot) {
	c.SetColor(f.color)
	c.Fill(c.Rectangle.Path())
}

// swatch is a solid legend thumbnail.
type swatch struct {
	color color.Color
}

func (s swatch) Thumbnail(c *draw.Canvas) {
	c.SetColor(s.color)
	c.Fill(c.Rectangle.Path())
}
