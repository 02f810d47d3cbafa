package view_test

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/dipview/internal/config"
	"github.com/san-kum/dipview/internal/dipole"
	"github.com/san-kum/dipview/internal/storage"
	"github.com/san-kum/dipview/internal/view"
)

func trial(l2 ...float64) *dipole.Dipole {
	d := dipole.New([]float64{0, 25, 50})
	for i, v := range l2 {
		d.Data[dipole.L2][i] = v
		d.Data[dipole.L5][i] = 10 * v
		d.Data[dipole.Agg][i] = v - 100
	}
	return d
}

type memLoader struct {
	trials []*dipole.Dipole
	err    error
	dirs   []string
}

func (m *memLoader) LoadTrials(dir string, n int) ([]*dipole.Dipole, error) {
	m.dirs = append(m.dirs, dir)
	if m.err != nil {
		return nil, m.err
	}
	if n < len(m.trials) {
		return m.trials[:n], nil
	}
	return m.trials, nil
}

type fakeHost struct {
	width    float64
	attached []view.Figure
}

func (h *fakeHost) LineWidth() float64 { return h.width }
func (h *fakeHost) Attach(f view.Figure) { h.attached = append(h.attached, f) }

func warnings(buf *bytes.Buffer) int {
	return strings.Count(buf.String(), "level=WARN")
}

var _ = Describe("DipoleView", func() {
	var (
		params *config.Params
		loader *memLoader
		logs   *bytes.Buffer
		opts   view.Options
	)

	BeforeEach(func() {
		params = &config.Params{ScaleFactor: 1000, Tstop: 50, NumTrials: 2, SimPrefix: "run1"}
		loader = &memLoader{trials: []*dipole.Dipole{trial(1, 2, 3), trial(3, 2, 1)}}
		logs = &bytes.Buffer{}
		opts = view.Options{
			OutputRoot: "/out",
			LineWidth:  1,
			Loader:     loader,
			Logger:     slog.New(slog.NewTextHandler(logs, nil)),
		}
	})

	Describe("construction", func() {
		It("reads trials from <output_root>/data/<sim_prefix>", func() {
			v, err := view.New(params, 0, nil, opts)
			Expect(err).NotTo(HaveOccurred())
			Expect(loader.dirs).To(ConsistOf("/out/data/run1"))
			Expect(v.Dir()).To(Equal("/out/data/run1"))
		})

		It("averages the trials", func() {
			v, err := view.New(params, 0, nil, opts)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Average().Data[dipole.L2]).To(Equal([]float64{2, 2, 2}))
			Expect(logs.String()).To(BeEmpty())
		})

		It("uses a lone trial as the average", func() {
			params.NumTrials = 1
			v, err := view.New(params, 0, nil, opts)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Average()).To(BeIdenticalTo(v.Trials()[0]))
		})

		It("warns exactly once when fewer trials are read than requested", func() {
			params.NumTrials = 5
			v, err := view.New(params, 0, nil, opts)
			Expect(err).NotTo(HaveOccurred())
			Expect(warnings(logs)).To(Equal(1))
			Expect(logs.String()).To(ContainSubstring("loaded=2"))
			Expect(logs.String()).To(ContainSubstring("requested=5"))
			Expect(v.Panels()).To(HaveLen(3))
		})

		It("reports partial reads on stderr when no logger is set", func() {
			stderr, err := os.CreateTemp(GinkgoT().TempDir(), "stderr")
			Expect(err).NotTo(HaveOccurred())
			saved := os.Stderr
			os.Stderr = stderr
			DeferCleanup(func() { os.Stderr = saved })

			params.NumTrials = 3
			opts.Logger = nil
			_, err = view.New(params, 0, nil, opts)
			Expect(err).NotTo(HaveOccurred())

			out, err := os.ReadFile(stderr.Name())
			Expect(err).NotTo(HaveOccurred())
			Expect(strings.Count(string(out), "level=WARN")).To(Equal(1))
			Expect(string(out)).To(ContainSubstring("requested=3"))
		})

		It("fails without any trials", func() {
			loader.trials = nil
			_, err := view.New(params, 0, nil, opts)
			Expect(errors.Is(err, dipole.ErrNoTrials)).To(BeTrue())
		})

		It("propagates loader failures", func() {
			loader.err = os.ErrNotExist
			_, err := view.New(params, 0, nil, opts)
			Expect(errors.Is(err, os.ErrNotExist)).To(BeTrue())
		})

		It("rejects a negative index", func() {
			_, err := view.New(params, -1, nil, opts)
			Expect(errors.Is(err, view.ErrInvalidIndex)).To(BeTrue())
		})

		It("attaches itself to the host and uses its line width", func() {
			host := &fakeHost{width: 3}
			v, err := view.New(params, 0, host, opts)
			Expect(err).NotTo(HaveOccurred())
			Expect(host.attached).To(HaveLen(1))
			Expect(host.attached[0]).To(BeIdenticalTo(v))
			Expect(v.Panels()[0].Lines[0].Width).To(Equal(3.0))
		})
	})

	Describe("DrawDipole", func() {
		It("draws three panels in layer order", func() {
			v, err := view.New(params, 0, nil, opts)
			Expect(err).NotTo(HaveOccurred())

			panels := v.Panels()
			Expect(panels).To(HaveLen(3))
			Expect(panels[0].Channel).To(Equal(dipole.L2))
			Expect(panels[1].Channel).To(Equal(dipole.L5))
			Expect(panels[2].Channel).To(Equal(dipole.Agg))
			Expect(panels[0].Title).To(Equal("Layer 2/3"))
			Expect(panels[1].Title).To(Equal("Layer 5"))
			Expect(panels[2].Title).To(Equal("Aggregate"))
			Expect(v.Plots()).To(HaveLen(3))
			Expect(v.Plots()[2].Title.Text).To(Equal("Aggregate"))
		})

		It("labels only the bottom panel with time and every panel with the scale", func() {
			v, _ := view.New(params, 0, nil, opts)
			for i, p := range v.Panels() {
				Expect(p.YLabel).To(Equal("(nAm × 1000)"))
				if i < 2 {
					Expect(p.XLabel).To(BeEmpty())
				}
			}
			Expect(v.Panels()[2].XLabel).To(Equal(view.TimeLabel))
			Expect(v.Plots()[2].X.Label.Text).To(Equal("Time (ms)"))
		})

		It("uses the default scale factor in the label", func() {
			params.ScaleFactor = config.DefaultScaleFactor
			v, _ := view.New(params, 0, nil, opts)
			Expect(v.Panels()[0].YLabel).To(Equal("(nAm × 30000)"))
		})

		It("bounds each panel by its own channel over average and trials", func() {
			loader.trials = []*dipole.Dipole{trial(1, 2, 3), trial(3, 2, 7)}
			v, _ := view.New(params, 0, nil, opts)

			want := [][2]float64{{1, 7}, {10, 70}, {-99, -93}}
			for i, p := range v.Panels() {
				Expect([2]float64{p.YMin, p.YMax}).To(Equal(want[i]))
				Expect(v.Plots()[i].Y.Min).To(Equal(want[i][0]))
				Expect(v.Plots()[i].Y.Max).To(Equal(want[i][1]))
			}
		})

		It("clips the time axis to tstop", func() {
			v, _ := view.New(params, 0, nil, opts)
			for i, p := range v.Panels() {
				Expect(p.XClipped).To(BeTrue())
				Expect(p.XMin).To(Equal(0.0))
				Expect(p.XMax).To(Equal(50.0))
				Expect(v.Plots()[i].X.Max).To(Equal(50.0))
			}
		})

		It("leaves the time axis unconstrained when tstop is -1", func() {
			params.Tstop = config.Unbounded
			v, _ := view.New(params, 0, nil, opts)
			for _, p := range v.Panels() {
				Expect(p.XClipped).To(BeFalse())
			}
		})

		Context("with index 0", func() {
			It("draws every trial in gray and the average in white", func() {
				v, _ := view.New(params, 0, nil, opts)
				lines := v.Panels()[0].Lines
				Expect(lines).To(HaveLen(3))
				Expect(lines[0].Color).To(Equal(view.IndividualColor))
				Expect(lines[0].Width).To(Equal(1.0))
				Expect(lines[1].Color).To(Equal(view.IndividualColor))
				Expect(lines[2].Label).To(Equal("average"))
				Expect(lines[2].Color).To(Equal(view.AverageColor))
				Expect(lines[2].Width).To(Equal(3.0))
			})

			It("puts the legend on the first panel only", func() {
				v, _ := view.New(params, 0, nil, opts)
				panels := v.Panels()
				Expect(panels[0].Legend).To(HaveLen(2))
				Expect(panels[0].Legend[0].Label).To(Equal("Average"))
				Expect(panels[0].Legend[1].Label).To(Equal("Individual"))
				Expect(panels[1].Legend).To(BeEmpty())
				Expect(panels[2].Legend).To(BeEmpty())
			})
		})

		Context("with index k > 0", func() {
			It("draws only trial k-1, emphasised, without the average", func() {
				v, err := view.New(params, 2, nil, opts)
				Expect(err).NotTo(HaveOccurred())
				for _, p := range v.Panels() {
					Expect(p.Lines).To(HaveLen(1))
					Expect(p.Lines[0].Label).To(Equal("trial 2"))
					Expect(p.Lines[0].Width).To(Equal(3.0))
					Expect(p.Lines[0].Color).To(Equal(view.IndividualColor))
				}
				Expect(v.Panels()[0].Lines[0].Values).To(Equal([]float64{3, 2, 1}))
			})

			It("keeps the shared y range of all trials", func() {
				v, _ := view.New(params, 1, nil, opts)
				Expect(v.Panels()[0].YMin).To(Equal(1.0))
				Expect(v.Panels()[0].YMax).To(Equal(3.0))
			})

			It("draws nothing for an index past the loaded trials", func() {
				v, err := view.New(params, 9, nil, opts)
				Expect(err).NotTo(HaveOccurred())
				Expect(v.Panels()[0].Lines).To(BeEmpty())
			})
		})

		It("switches index in place", func() {
			v, _ := view.New(params, 0, nil, opts)
			Expect(v.SetIndex(1)).To(Succeed())
			Expect(v.Index()).To(Equal(1))
			Expect(v.Panels()[0].Lines).To(HaveLen(1))
			Expect(v.SetIndex(-2)).To(MatchError(view.ErrInvalidIndex))
		})
	})

	Describe("ClearAxes", func() {
		It("empties all three panels and their ticks", func() {
			v, _ := view.New(params, 0, nil, opts)
			v.ClearAxes()

			Expect(v.Panels()).To(HaveLen(3))
			Expect(v.Plots()).To(HaveLen(3))
			for i, p := range v.Panels() {
				Expect(p.Lines).To(BeEmpty())
				Expect(p.Title).To(BeEmpty())
				Expect(v.Plots()[i].Title.Text).To(BeEmpty())
				Expect(v.Plots()[i].Y.Tick.Marker.Ticks(0, 1)).To(BeEmpty())
			}
		})

		It("allows redrawing afterwards", func() {
			v, _ := view.New(params, 0, nil, opts)
			v.ClearAxes()
			Expect(v.DrawDipole()).To(Succeed())
			Expect(v.Panels()[0].Lines).To(HaveLen(3))
		})
	})

	Describe("Reload", func() {
		It("re-reads trials for new parameters", func() {
			v, _ := view.New(params, 0, nil, opts)
			next := &config.Params{ScaleFactor: 5, Tstop: config.Unbounded, NumTrials: 1, SimPrefix: "run2"}

			Expect(v.Reload(next, 1)).To(Succeed())
			Expect(loader.dirs).To(HaveLen(2))
			Expect(v.Dir()).To(Equal("/out/data/run2"))
			Expect(v.Trials()).To(HaveLen(1))
			Expect(v.Panels()[0].YLabel).To(Equal("(nAm × 5)"))
			Expect(v.Panels()[0].XClipped).To(BeFalse())
		})

		It("keeps the previous figure when reading fails", func() {
			v, _ := view.New(params, 0, nil, opts)
			next := &config.Params{ScaleFactor: 5, Tstop: 50, NumTrials: 1, SimPrefix: "missing"}
			loader.err = os.ErrNotExist

			err := v.Reload(next, 1)
			Expect(errors.Is(err, os.ErrNotExist)).To(BeTrue())
			Expect(v.Params()).To(BeIdenticalTo(params))
			Expect(v.Index()).To(Equal(0))
			Expect(v.Dir()).To(Equal("/out/data/run1"))
			Expect(v.Panels()[0].Title).To(Equal("Layer 2/3"))
			Expect(v.Panels()[0].Lines).To(HaveLen(3))

			Expect(v.DrawDipole()).To(Succeed())
			Expect(v.Panels()[0].YLabel).To(Equal("(nAm × 1000)"))
		})
	})

	Describe("Draw", func() {
		It("renders onto a canvas of the configured size", func() {
			v, _ := view.New(params, 0, nil, opts)
			w, h := v.Size()
			Expect(w).To(Equal(12 * vg.Inch))
			Expect(h).To(Equal(10 * vg.Inch))

			img := view.Render(v, 40)
			Expect(img.Bounds().Dx()).To(Equal(480))
			Expect(img.Bounds().Dy()).To(Equal(400))
		})

		It("tolerates a canvas after ClearAxes", func() {
			v, _ := view.New(params, 0, nil, opts)
			v.ClearAxes()
			Expect(func() { view.Render(v, 20) }).NotTo(Panic())
		})
	})

	Describe("end to end from disk", func() {
		It("renders the two-trial scenario", func() {
			root := GinkgoT().TempDir()
			st := storage.New(root)
			dir := st.SimDir("run1")
			Expect(st.SaveTrial(dir, 0, trial(1, 2, 3))).To(Succeed())
			Expect(st.SaveTrial(dir, 1, trial(3, 2, 1))).To(Succeed())

			v, err := view.New(params, 0, nil, view.Options{OutputRoot: root, Logger: opts.Logger})
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Average().Data[dipole.L2]).To(Equal([]float64{2, 2, 2}))
			Expect(v.Panels()[0].Legend).To(HaveLen(2))
			Expect(v.Panels()[0].XMax).To(Equal(50.0))
			Expect(warnings(logs)).To(Equal(0))

			var buf bytes.Buffer
			Expect(view.WriteTo(&buf, v, "svg", 72)).To(Succeed())
			Expect(buf.String()).To(ContainSubstring("<svg"))
		})
	})
})
