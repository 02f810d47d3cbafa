package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/dipview/internal/dipole"
)

func sine(freqHz float64, n int, dtMs float64) *dipole.Dipole {
	times := make([]float64, n)
	for i := range times {
		times[i] = float64(i) * dtMs
	}
	d := dipole.New(times)
	for i, t := range times {
		d.Data[dipole.Agg][i] = math.Sin(2 * math.Pi * freqHz * t / 1000)
	}
	return d
}

func TestAmplitudeSpectrum_Peak(t *testing.T) {
	tests := []struct {
		freq   float64
		n      int
		dt     float64
		padded int
	}{
		{10, 1000, 1, 1024},
		{40, 1024, 0.5, 1024},
		{25, 800, 0.25, 1024},
	}

	for _, tt := range tests {
		spec, err := AmplitudeSpectrum(sine(tt.freq, tt.n, tt.dt), dipole.Agg)
		if err != nil {
			t.Fatalf("spectrum failed: %v", err)
		}
		resolution := 1000 / (tt.dt * float64(tt.n))
		if got := spec.PeakFrequency(); math.Abs(got-tt.freq) > resolution {
			t.Errorf("peak %v Hz, want %v Hz (resolution %v)", got, tt.freq, resolution)
		}
		if want := tt.padded/2 + 1; len(spec.Frequencies) != want {
			t.Errorf("expected %d bins, got %d", want, len(spec.Frequencies))
		}
		if last := spec.Frequencies[len(spec.Frequencies)-1]; math.Abs(last-500/tt.dt) > 1e-9 {
			t.Errorf("expected Nyquist %v Hz, got %v", 500/tt.dt, last)
		}
	}
}

func TestNextPow2(t *testing.T) {
	for n, want := range map[int]int{1: 1, 2: 2, 3: 4, 800: 1024, 1024: 1024, 1025: 2048} {
		if got := nextPow2(n); got != want {
			t.Errorf("nextPow2(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestAmplitudeSpectrum_Errors(t *testing.T) {
	if _, err := AmplitudeSpectrum(sine(10, 1, 1), dipole.Agg); !errors.Is(err, ErrTooShort) {
		t.Errorf("expected ErrTooShort, got %v", err)
	}

	d := sine(10, 8, 1)
	if _, err := AmplitudeSpectrum(d, dipole.Channel("L6")); !errors.Is(err, dipole.ErrMissingChannel) {
		t.Errorf("expected ErrMissingChannel, got %v", err)
	}

	d.Times[1] = d.Times[0]
	if _, err := AmplitudeSpectrum(d, dipole.Agg); err == nil {
		t.Error("expected error for flat time axis")
	}
}
