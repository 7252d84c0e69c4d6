package review

import "errors"

var (
	// ErrEmptyUserID is returned by mutating operations called without a user.
	ErrEmptyUserID = errors.New("review: empty user id")
	// ErrInvalidRules is returned by New when the configured rules are unusable.
	ErrInvalidRules = errors.New("review: invalid rules")
)
