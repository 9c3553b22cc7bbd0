package subscriber

import "errors"

// Sentinel errors for the subscriber service layer. These are the only
// failures surfaced to callers; storage errors are absorbed and logged.
var (
	ErrInvalidEmail = errors.New("invalid email address")
	ErrDuplicate    = errors.New("email already exists")
	ErrInvalidToken = errors.New("invalid verification token")
)
