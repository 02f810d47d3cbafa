package dipole

import "errors"

// Domain errors for dipole operations.
var (
	// ErrNoTrials indicates an average was requested over zero trials.
	ErrNoTrials = errors.New("dipole: no trials to average")

	// ErrTimeMismatch indicates trials whose time axes do not line up.
	ErrTimeMismatch = errors.New("dipole: trials sampled at different times")

	// ErrMissingChannel indicates a dipole lacking one of the standard channels.
	ErrMissingChannel = errors.New("dipole: missing channel")

	// ErrLengthMismatch indicates a channel not aligned to the time axis.
	ErrLengthMismatch = errors.New("dipole: channel length differs from time axis")
)
