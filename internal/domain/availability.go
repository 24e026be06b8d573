package domain

import "errors"

// StoreAvailability is the last known reachability of the history store.
type StoreAvailability string

const (
	StoreUnknown     StoreAvailability = "unknown"
	StoreAvailable   StoreAvailability = "available"
	StoreUnavailable StoreAvailability = "unavailable"
	StoreDisabled    StoreAvailability = "disabled"
)

// AvailabilityFromErr maps the outcome of a store call to an availability value.
func AvailabilityFromErr(err error) StoreAvailability {
	if err == nil {
		return StoreAvailable
	}
	var se *StoreError
	if errors.As(err, &se) && se.Kind == StoreErrUnavailable {
		return StoreUnavailable
	}
	// Reachable but refused or failed for another reason.
	return StoreAvailable
}
