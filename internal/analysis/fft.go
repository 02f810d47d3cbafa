package analysis

import (
	"errors"
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/dipview/internal/dipole"
)

var ErrTooShort = errors.New("analysis: need at least two samples")

// Spectrum is the single-sided amplitude spectrum of a channel.
type Spectrum struct {
	Channel     dipole.Channel
	Frequencies []float64 // Hz
	Amplitudes  []float64
}

// AmplitudeSpectrum transforms channel ch of d, zero-padded to the next
// power of two. The sample rate comes from the spacing of the first two
// time points. Amplitudes are |X[k]| divided by the unpadded length.
func AmplitudeSpectrum(d *dipole.Dipole, ch dipole.Channel) (*Spectrum, error) {
	data, ok := d.Data[ch]
	if !ok {
		return nil, fmt.Errorf("%w: %s", dipole.ErrMissingChannel, ch)
	}
	n := len(data)
	if n < 2 || len(d.Times) < 2 {
		return nil, ErrTooShort
	}
	dt := d.Times[1] - d.Times[0]
	if dt <= 0 {
		return nil, fmt.Errorf("analysis: non-increasing time axis (dt=%g)", dt)
	}
	fs := 1000 / dt

	size := nextPow2(n)
	padded := make([]float64, size)
	copy(padded, data)
	coeffs := fft.FFTReal(padded)

	half := size/2 + 1
	spec := &Spectrum{
		Channel:     ch,
		Frequencies: make([]float64, half),
		Amplitudes:  make([]float64, half),
	}
	for k := 0; k < half; k++ {
		spec.Frequencies[k] = float64(k) * fs / float64(size)
		spec.Amplitudes[k] = cmplx.Abs(coeffs[k]) / float64(n)
	}
	return spec, nil
}

// PeakFrequency is the frequency with the largest amplitude, ignoring DC.
func (s *Spectrum) PeakFrequency() float64 {
	best, peak := 0.0, -1.0
	for k := 1; k < len(s.Amplitudes); k++ {
		if s.Amplitudes[k] > peak {
			peak = s.Amplitudes[k]
			best = s.Frequencies[k]
		}
	}
	return best
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
