package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidInput      = errors.New("invalid input")
	ErrSourceNotFound    = errors.New("source not found")
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrPolicyRejected    = errors.New("policy rejected")
	ErrTranscodeFailure  = errors.New("transcode failure")
	ErrStorageFailure    = errors.New("storage failure")
	ErrMetadataFailure   = errors.New("metadata failure")
	ErrObjectExists      = errors.New("object already exists")
)

// PolicyError reports an admission rejection together with the evaluated
// bounds so the caller can render a meaningful message.
type PolicyError struct {
	DurationSeconds int
	MinSeconds      int
	MaxSeconds      int
}

func (e *PolicyError) Error() string {
	if e.DurationSeconds <= 0 {
		return fmt.Sprintf("policy rejected: source duration is unresolvable (allowed range %ds-%ds)", e.MinSeconds, e.MaxSeconds)
	}
	return fmt.Sprintf("policy rejected: duration %ds outside allowed range %ds-%ds", e.DurationSeconds, e.MinSeconds, e.MaxSeconds)
}

func (e *PolicyError) Unwrap() error { return ErrPolicyRejected }
