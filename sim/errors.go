package sim

import "errors"

// Sentinel errors for the failure taxonomy. Capacity rejections are
// expected business outcomes and are counted, never fatal; invalid
// transitions and double completions are programming-error guards and
// are surfaced immediately.
var (
	// ErrCapacityExceeded is returned when an add would push a track
	// past its usable capacity. Callers must check CanAdd first.
	ErrCapacityExceeded = errors.New("track capacity exceeded")

	// ErrInvalidTransition is returned by entity state machines when a
	// transition method is called from the wrong status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrBayAlreadyIdle is returned when completing a retrofit on a bay
	// that is not busy. Completing twice never double-counts.
	ErrBayAlreadyIdle = errors.New("bay already idle")

	// ErrNoIdleBay is returned when a wagon is assigned to a workshop
	// with every bay busy.
	ErrNoIdleBay = errors.New("no idle bay")

	// ErrIncompatibleCouplers is returned when a rake would contain an
	// adjacent wagon pair whose couplers cannot connect.
	ErrIncompatibleCouplers = errors.New("incompatible couplers")

	// ErrUnknownRoute is returned when no travel duration is configured
	// between two tracks.
	ErrUnknownRoute = errors.New("unknown route")
)
