// Package dipole provides the dipole-moment time series produced by a
// neural simulation.
//
// A [Dipole] holds a time axis and three channels aligned to it:
//
//   - [L2]: Layer 2/3 pyramidal contribution
//   - [L5]: Layer 5 pyramidal contribution
//   - [Agg]: aggregate signal across layers
//
// Each simulation trial yields one Dipole. [Average] combines trials into
// the element-wise mean used as the summary trace.
//
// # Example
//
//	trials, _ := store.LoadTrials(dir, 3)
//	avg, _ := dipole.Average(trials)
//	lo, hi, ok := dipole.Range(dipole.L2, append([]*dipole.Dipole{avg}, trials...)...)
package dipole
