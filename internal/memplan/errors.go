package memplan

import (
	"errors"
	"fmt"
)

// Error codes for planning and verification failures.
const (
	ErrStorageOverlap    = "E400" // live, non-aliased intervals share bytes
	ErrMissingAllocation = "E401" // designated value has no assignment
	ErrBadInterval       = "E402" // malformed lifetime or alias reference
	ErrBadConfig         = "E403" // unusable planner configuration
	ErrAlreadyPlanned    = "E404" // replanning an assigned plan
)

// VerifyError is a fatal planning or verification failure carrying the
// offending interval's name.
type VerifyError struct {
	Code     string
	Interval string
	Message  string
}

func (e *VerifyError) Error() string {
	if e.Interval == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: interval %s: %s", e.Code, e.Interval, e.Message)
}

// IsStorageOverlap reports whether err is a storage-overlap violation.
func IsStorageOverlap(err error) bool {
	var ve *VerifyError
	return errors.As(err, &ve) && ve.Code == ErrStorageOverlap
}

// IsMissingAllocation reports whether err is a missing-assignment
// violation.
func IsMissingAllocation(err error) bool {
	var ve *VerifyError
	return errors.As(err, &ve) && ve.Code == ErrMissingAllocation
}
