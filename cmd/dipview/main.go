package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/dipview/internal/analysis"
	"github.com/san-kum/dipview/internal/config"
	"github.com/san-kum/dipview/internal/dipole"
	"github.com/san-kum/dipview/internal/gui"
	"github.com/san-kum/dipview/internal/logging"
	"github.com/san-kum/dipview/internal/storage"
	"github.com/san-kum/dipview/internal/termplot"
	"github.com/san-kum/dipview/internal/tui"
	"github.com/san-kum/dipview/internal/view"
)

var (
	configFile string
	outputRoot string
	logLevel   string
	preset     string

	index   int
	outPath string
	width   float64
	height  float64
	dpi     int

	termWidth  int
	termHeight int
	noColor    bool

	format  string
	channel string
	xChan   string
	yChan   string
)

// main registers the dipview commands and flags and runs the root command,
// exiting with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "dipview",
		Short:         "view simulated dipole moments",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&outputRoot, "output-root", "", "simulation output root (default ~/hnn_out)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "figure preset: "+strings.Join(config.ListPresets(), ", "))

	viewCmd := &cobra.Command{
		Use:   "view [param_file]",
		Short: "render the dipole figure to an image file",
		Args:  cobra.ExactArgs(1),
		RunE:  renderFigure,
	}
	viewCmd.Flags().IntVar(&index, "index", 0, "0 for average and all trials, k for trial k only")
	viewCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (.png, .jpg, .svg, .pdf)")
	viewCmd.Flags().Float64Var(&width, "width", config.DefaultWidth, "figure width (inches)")
	viewCmd.Flags().Float64Var(&height, "height", config.DefaultHeight, "figure height (inches)")
	viewCmd.Flags().IntVar(&dpi, "dpi", config.DefaultDPI, "resolution")

	plotCmd := &cobra.Command{
		Use:   "plot [param_file]",
		Short: "plot dipoles in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotTerminal,
	}
	plotCmd.Flags().IntVar(&index, "index", 0, "0 for average and all trials, k for trial k only")
	plotCmd.Flags().IntVar(&termWidth, "cols", termplot.DefaultOptions.Width, "graph width")
	plotCmd.Flags().IntVar(&termHeight, "rows", termplot.DefaultOptions.Height, "graph height per panel")
	plotCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colors")

	tuiCmd := &cobra.Command{
		Use:   "tui [param_file]",
		Short: "browse trials interactively in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := openView(cmd, args[0])
			if err != nil {
				return err
			}
			return tui.Run(v)
		},
	}
	tuiCmd.Flags().IntVar(&index, "index", 0, "initial trial index")

	guiCmd := &cobra.Command{
		Use:   "gui [param_file]",
		Short: "show the dipole figure in a window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			params, err := config.LoadParams(args[0])
			if err != nil {
				return err
			}
			return gui.Run(params, index, cfg, logger)
		},
	}
	guiCmd.Flags().IntVar(&index, "index", 0, "initial trial index")

	averageCmd := &cobra.Command{
		Use:   "average [param_file]",
		Short: "export the trial-averaged dipole",
		Args:  cobra.ExactArgs(1),
		RunE:  exportAverage,
	}
	averageCmd.Flags().StringVar(&format, "format", "json", "json or csv")
	averageCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	spectrumCmd := &cobra.Command{
		Use:   "spectrum [param_file]",
		Short: "frequency analysis of the averaged dipole",
		Args:  cobra.ExactArgs(1),
		RunE:  spectrum,
	}
	spectrumCmd.Flags().StringVar(&channel, "channel", string(dipole.Agg), "channel: L2, L5 or agg")

	portraitCmd := &cobra.Command{
		Use:   "portrait [param_file]",
		Short: "plot one channel of the averaged dipole against another",
		Args:  cobra.ExactArgs(1),
		RunE:  portrait,
	}
	portraitCmd.Flags().StringVar(&xChan, "x", string(dipole.L2), "channel on the x axis")
	portraitCmd.Flags().StringVar(&yChan, "y", string(dipole.L5), "channel on the y axis")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list simulations under the output root",
		RunE:  listSims,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list figure presets",
		Run: func(cmd *cobra.Command, args []string) {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tWIDTH\tHEIGHT\tDPI\tFONT\tLINE")
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				fmt.Fprintf(w, "%s\t%.1fin\t%.1fin\t%d\t%.0fpt\t%.2fpt\n", name, p.Width, p.Height, p.DPI, p.FontSize, p.LineWidth)
			}
			w.Flush()
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "write the effective settings to a yaml file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			path := outPath
			if path == "" {
				path = "dipview.yaml"
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}
	configCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default dipview.yaml)")

	rootCmd.AddCommand(viewCmd, plotCmd, tuiCmd, guiCmd, averageCmd, spectrumCmd, portraitCmd, listCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig layers defaults, the preset, the config file and explicitly
// set flags, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Resolve(preset, configFile)
	if err != nil {
		return nil, nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("output-root") {
		cfg.OutputRoot = outputRoot
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("dpi") {
		cfg.DPI = dpi
	}

	return cfg, logging.NewLogger(cfg.LogLevel, os.Stderr), nil
}

func openView(cmd *cobra.Command, paramFile string) (*view.DipoleView, error) {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	params, err := config.LoadParams(paramFile)
	if err != nil {
		return nil, err
	}

	opts := view.OptionsFromConfig(cfg)
	opts.Logger = logger
	return view.New(params, index, nil, opts)
}

func renderFigure(cmd *cobra.Command, args []string) error {
	v, err := openView(cmd, args[0])
	if err != nil {
		return err
	}

	path := outPath
	if path == "" {
		path = v.Params().SimPrefix + "_dipole.png"
	}
	if err := view.Save(v, path, v.DPI()); err != nil {
		return err
	}

	fmt.Printf("trials: %d of %d\n", len(v.Trials()), v.Params().NumTrials)
	fmt.Printf("wrote %s\n", path)
	return nil
}

func plotTerminal(cmd *cobra.Command, args []string) error {
	v, err := openView(cmd, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("sim: %s\n", v.Params().SimPrefix)
	fmt.Printf("dir: %s\n", v.Dir())
	fmt.Printf("trials: %d of %d\n\n", len(v.Trials()), v.Params().NumTrials)

	fmt.Print(termplot.Render(v, termplot.Options{
		Width:  termWidth,
		Height: termHeight,
		Color:  !noColor,
	}))
	return nil
}

func exportAverage(cmd *cobra.Command, args []string) error {
	v, err := openView(cmd, args[0])
	if err != nil {
		return err
	}

	out := os.Stdout
	if outPath != "" {
		file, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}

	p := v.Params()
	switch strings.ToLower(format) {
	case "json":
		return storage.ExportJSON(out, p.SimPrefix, len(v.Trials()), p.ScaleFactor, v.Average())
	case "csv":
		return storage.ExportCSV(out, v.Average())
	}
	return fmt.Errorf("unknown format: %s (available: json, csv)", format)
}

func parseChannel(s string) (dipole.Channel, error) {
	for _, ch := range dipole.Channels {
		if strings.EqualFold(s, string(ch)) {
			return ch, nil
		}
	}
	return "", fmt.Errorf("unknown channel: %s (available: %v)", s, dipole.Channels)
}

func spectrum(cmd *cobra.Command, args []string) error {
	ch, err := parseChannel(channel)
	if err != nil {
		return err
	}
	v, err := openView(cmd, args[0])
	if err != nil {
		return err
	}

	spec, err := analysis.AmplitudeSpectrum(v.Average(), ch)
	if err != nil {
		return err
	}

	fmt.Printf("channel: %s (%s)\n", ch, dipole.Titles[ch])
	fmt.Printf("bins: %d, resolution: %.3f Hz\n", len(spec.Frequencies), spec.Frequencies[1])
	fmt.Printf("peak: %.2f Hz\n\n", spec.PeakFrequency())

	// Skip DC so it does not flatten the rest of the graph.
	graph := asciigraph.Plot(spec.Amplitudes[1:],
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("amplitude, 0-%.0f Hz", spec.Frequencies[len(spec.Frequencies)-1])),
	)
	fmt.Println(graph)
	return nil
}

func portrait(cmd *cobra.Command, args []string) error {
	x, err := parseChannel(xChan)
	if err != nil {
		return err
	}
	y, err := parseChannel(yChan)
	if err != nil {
		return err
	}
	v, err := openView(cmd, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s vs %s\n\n", y, x)
	fmt.Print(analysis.ChannelPortrait(v.Average(), x, y).ASCII(80, 24))
	return nil
}

func listSims(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	sims, err := storage.New(cfg.OutputRoot).List()
	if err != nil {
		return err
	}
	if len(sims) == 0 {
		fmt.Printf("no simulations under %s\n", filepath.Join(cfg.OutputRoot, "data"))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SIM\tTRIALS\tMODIFIED")
	for _, s := range sims {
		fmt.Fprintf(w, "%s\t%d\t%s\n", s.Prefix, s.Trials, s.Modified.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}
