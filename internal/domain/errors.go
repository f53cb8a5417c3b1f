package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMalformedCount     = errors.New("malformed ticket count")
	ErrMalformedDocument  = errors.New("malformed document")
	ErrValidationRejected = errors.New("submission rejected")
	ErrPresetNotFound     = errors.New("preset not found")
	ErrInvalidState       = errors.New("invalid workflow state")
	ErrMissingIdentity    = errors.New("missing passenger identity")
	ErrUnknownCode        = errors.New("unknown ordinal code")
	ErrNoTrains           = errors.New("no trains available")
	ErrReservationMissing = errors.New("reservation not found")
)

// ValidationRejectedError carries the feedback messages returned by the site.
type ValidationRejectedError struct {
	Messages []string
}

func (e *ValidationRejectedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidationRejected, strings.Join(e.Messages, "; "))
}

func (e *ValidationRejectedError) Is(target error) bool {
	return target == ErrValidationRejected
}
