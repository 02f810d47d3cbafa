// Package analysis provides signal tools for dipole time series.
//
//   - [AmplitudeSpectrum]: amplitude spectrum of one channel
//   - [Spectrum.PeakFrequency]: dominant non-DC frequency
//   - [ChannelPortrait]: one channel plotted against another
//
// Dipole times are in milliseconds, so frequencies come out in Hz.
//
//	spec, _ := analysis.AmplitudeSpectrum(avg, dipole.Agg)
//	f := spec.PeakFrequency()
package analysis
