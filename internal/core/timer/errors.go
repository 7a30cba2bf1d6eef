package timer

import "errors"

var (
	// ErrStationNotFound is returned for a station that was never ensured
	ErrStationNotFound = errors.New("station not found")
	// ErrUnknownPhase is returned for a phase outside the fixed phase set
	ErrUnknownPhase = errors.New("unknown phase")
)
