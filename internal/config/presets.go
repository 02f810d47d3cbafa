package config

import "sort"

// Presets are figure geometries for common output targets.
var Presets = map[string]*Config{
	"screen": {Width: DefaultWidth, Height: DefaultHeight, DPI: DefaultDPI, FontSize: DefaultFontSize, LineWidth: DefaultLineWidth},
	"paper":  {Width: 7, Height: 6, DPI: 300, FontSize: 8, LineWidth: 0.75},
	"slide":  {Width: 13.3, Height: 7.5, DPI: 96, FontSize: 14, LineWidth: 2},
}

// GetPreset returns a copy of the named preset applied on top of the
// defaults, or nil if no such preset exists.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Width = p.Width
	cfg.Height = p.Height
	cfg.DPI = p.DPI
	cfg.FontSize = p.FontSize
	cfg.LineWidth = p.LineWidth
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
