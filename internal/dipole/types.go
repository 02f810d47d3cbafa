package dipole

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Channel names one of the signals recorded per trial.
type Channel string

const (
	L2  Channel = "L2"
	L5  Channel = "L5"
	Agg Channel = "agg"
)

// Channels lists the standard channels in panel order.
var Channels = []Channel{L2, L5, Agg}

// Titles are the display names for each channel.
var Titles = map[Channel]string{
	L2:  "Layer 2/3",
	L5:  "Layer 5",
	Agg: "Aggregate",
}

// timeTolerance absorbs rounding in time columns written at fixed precision.
const timeTolerance = 1e-9

type Dipole struct {
	Times []float64
	Data  map[Channel][]float64
}

func New(times []float64) *Dipole {
	d := &Dipole{
		Times: times,
		Data:  make(map[Channel][]float64, len(Channels)),
	}
	for _, ch := range Channels {
		d.Data[ch] = make([]float64, len(times))
	}
	return d
}

func (d *Dipole) Len() int { return len(d.Times) }

// Validate checks that every standard channel exists and is aligned to the
// time axis.
func (d *Dipole) Validate() error {
	for _, ch := range Channels {
		v, ok := d.Data[ch]
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingChannel, ch)
		}
		if len(v) != len(d.Times) {
			return fmt.Errorf("%w: %s has %d samples, %d times", ErrLengthMismatch, ch, len(v), len(d.Times))
		}
	}
	return nil
}

// Average returns the element-wise mean of each channel across trials. A
// single trial is returned as is.
func Average(trials []*Dipole) (*Dipole, error) {
	if len(trials) == 0 {
		return nil, ErrNoTrials
	}
	for i, tr := range trials {
		if err := tr.Validate(); err != nil {
			return nil, fmt.Errorf("trial %d: %w", i, err)
		}
	}
	if len(trials) == 1 {
		return trials[0], nil
	}

	first := trials[0]
	for i, tr := range trials[1:] {
		if tr.Len() != first.Len() || !floats.EqualApprox(tr.Times, first.Times, timeTolerance) {
			return nil, fmt.Errorf("%w: trial %d", ErrTimeMismatch, i+1)
		}
	}

	avg := New(append([]float64(nil), first.Times...))
	scale := 1 / float64(len(trials))
	for _, ch := range Channels {
		sum := avg.Data[ch]
		for _, tr := range trials {
			floats.Add(sum, tr.Data[ch])
		}
		floats.Scale(scale, sum)
	}
	return avg, nil
}

// Range returns the minimum and maximum of channel ch over all given
// dipoles. ok is false when none of them hold any samples.
func Range(ch Channel, series ...*Dipole) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, d := range series {
		if d == nil {
			continue
		}
		v := d.Data[ch]
		if len(v) == 0 {
			continue
		}
		lo = math.Min(lo, floats.Min(v))
		hi = math.Max(hi, floats.Max(v))
		ok = true
	}
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}
