package review

import "errors"

var (
	// ErrValidation marks caller-correctable input problems. No side
	// effects have occurred when it is returned.
	ErrValidation = errors.New("invalid request")

	// ErrNotFound covers both a missing review id and an id owned by a
	// different user; callers cannot tell the two apart.
	ErrNotFound = errors.New("review not found")

	// ErrUpstream marks a failed or unusable model response. Nothing is
	// persisted when it is returned.
	ErrUpstream = errors.New("review generation failed")
)
