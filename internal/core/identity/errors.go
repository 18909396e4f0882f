package identity

import "errors"

// Identity errors all map to INVALID_ARGUMENT: the caller sent a malformed
// request, nothing was checked against stored credentials.
var (
	ErrMissingCoach    = errors.New("coach_id required in request or x-coach-id metadata")
	ErrCoachMismatch   = errors.New("coach_id does not match x-coach-id metadata")
	ErrDuplicateHeader = errors.New("x-coach-id metadata set more than once")
)
