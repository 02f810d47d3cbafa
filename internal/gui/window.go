// Package gui hosts a dipole figure in a desktop window.
package gui

import (
	"fmt"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/san-kum/dipview/internal/config"
	"github.com/san-kum/dipview/internal/view"
)

// Window owns a DipoleView and shows it as an image, re-rendering whenever
// the view is redrawn.
type Window struct {
	win       fyne.Window
	image     *fynecanvas.Image
	selector  *widget.Select
	status    *widget.Label
	lineWidth float64
	dpi       int

	fig  view.Figure
	view *view.DipoleView
}

func NewWindow(a fyne.App, cfg *config.Config) *Window {
	w := &Window{
		win:       a.NewWindow(cfg.Title),
		lineWidth: cfg.LineWidth,
		dpi:       cfg.DPI,
		status:    widget.NewLabel(""),
	}

	w.image = fynecanvas.NewImageFromImage(nil)
	w.image.FillMode = fynecanvas.ImageFillContain
	w.image.SetMinSize(fyne.NewSize(480, 400))

	w.selector = widget.NewSelect(nil, func(selected string) {
		w.selectTrial(w.selector.SelectedIndex())
	})
	reload := widget.NewButton("Reload", w.reload)

	top := container.NewHBox(widget.NewLabel("Show:"), w.selector, reload, w.status)
	w.win.SetContent(container.NewBorder(top, nil, nil, nil, w.image))
	w.win.Resize(fyne.NewSize(float32(cfg.Width*72), float32(cfg.Height*72)))
	return w
}

func (w *Window) LineWidth() float64 { return w.lineWidth }

// Attach displays f. A DipoleView additionally gets a trial selector.
func (w *Window) Attach(f view.Figure) {
	w.fig = f
	if v, ok := f.(*view.DipoleView); ok {
		w.view = v
		w.dpi = v.DPI()
		w.win.SetTitle(v.Title() + " - " + v.Params().SimPrefix)
		w.updateSelector()
	}
	w.refresh()
}

func (w *Window) Image() *fynecanvas.Image { return w.image }

func (w *Window) refresh() {
	if w.fig == nil {
		return
	}
	w.image.Image = view.Render(w.fig, w.dpi)
	w.image.Refresh()
}

func (w *Window) updateSelector() {
	options := []string{"Average"}
	for i := range w.view.Trials() {
		options = append(options, fmt.Sprintf("Trial %d", i+1))
	}
	w.selector.Options = options
	idx := w.view.Index()
	if idx >= len(options) {
		idx = 0
	}
	w.selector.SetSelectedIndex(idx)
	w.status.SetText(fmt.Sprintf("%d of %d trials loaded", len(w.view.Trials()), w.view.Params().NumTrials))
}

func (w *Window) selectTrial(idx int) {
	if w.view == nil || idx < 0 || idx == w.view.Index() {
		return
	}
	if err := w.view.SetIndex(idx); err != nil {
		dialog.ShowError(err, w.win)
		return
	}
	w.refresh()
}

func (w *Window) reload() {
	if w.view == nil {
		return
	}
	if err := w.view.Reload(w.view.Params(), w.view.Index()); err != nil {
		dialog.ShowError(err, w.win)
		return
	}
	w.win.SetTitle(w.view.Title() + " - " + w.view.Params().SimPrefix)
	w.updateSelector()
	w.refresh()
}

// Run opens a window showing the dipoles of params and blocks until it is
// closed.
func Run(params *config.Params, index int, cfg *config.Config, logger *slog.Logger) error {
	w := NewWindow(app.New(), cfg)

	opts := view.OptionsFromConfig(cfg)
	opts.Logger = logger
	if _, err := view.New(params, index, w, opts); err != nil {
		return err
	}

	w.win.ShowAndRun()
	return nil
}
