package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Infrastructure layers return
// these (optionally wrapped) so callers can decide how to degrade.
//
// - ErrUnavailable: a backing service or transport is not configured or cannot be reached
var (
	ErrUnavailable = errors.New("unavailable")
)
