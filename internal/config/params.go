package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultScaleFactor replaces a missing or non-numeric dipole_scalefctr.
	DefaultScaleFactor = 30e3

	// Unbounded as tstop leaves the time axis unclipped.
	Unbounded = -1.0
)

var (
	ErrMissingParam = errors.New("config: missing simulation parameter")
	ErrInvalidParam = errors.New("config: invalid simulation parameter")
)

// Params is the subset of simulation parameters the dipole viewer needs.
type Params struct {
	ScaleFactor float64 `yaml:"dipole_scalefctr"`
	Tstop       float64 `yaml:"tstop"`
	NumTrials   int     `yaml:"N_trials"`
	SimPrefix   string  `yaml:"sim_prefix"`
}

// Unbounded reports whether the time axis should be left unclipped.
func (p *Params) Unbounded() bool {
	return p.Tstop == Unbounded
}

// FromMap builds Params from a loosely typed parameter mapping. A
// dipole_scalefctr that is absent or not a number falls back to
// DefaultScaleFactor without error; the remaining keys are required.
func FromMap(m map[string]any) (*Params, error) {
	p := &Params{ScaleFactor: DefaultScaleFactor}

	if v, ok := number(m["dipole_scalefctr"]); ok {
		p.ScaleFactor = v
	}

	raw, ok := m["tstop"]
	if !ok {
		return nil, fmt.Errorf("%w: tstop", ErrMissingParam)
	}
	tstop, ok := number(raw)
	if !ok {
		return nil, fmt.Errorf("%w: tstop=%v", ErrInvalidParam, raw)
	}
	p.Tstop = tstop

	raw, ok = m["N_trials"]
	if !ok {
		return nil, fmt.Errorf("%w: N_trials", ErrMissingParam)
	}
	n, ok := number(raw)
	if !ok || n != math.Trunc(n) || n < 1 {
		return nil, fmt.Errorf("%w: N_trials=%v", ErrInvalidParam, raw)
	}
	p.NumTrials = int(n)

	raw, ok = m["sim_prefix"]
	if !ok {
		return nil, fmt.Errorf("%w: sim_prefix", ErrMissingParam)
	}
	prefix, ok := raw.(string)
	if !ok || prefix == "" {
		return nil, fmt.Errorf("%w: sim_prefix=%v", ErrInvalidParam, raw)
	}
	p.SimPrefix = prefix

	return p, nil
}

// ParseParams decodes a YAML or JSON parameter document.
func ParseParams(data []byte) (*Params, error) {
	m := make(map[string]any)
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return FromMap(m)
}

func LoadParams(path string) (*Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := ParseParams(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// number accepts only genuine numeric values; strings and booleans are
// rejected even when they look numeric.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	return 0, false
}
