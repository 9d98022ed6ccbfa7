package service

import "errors"

var (
	// ErrNotFound indicates a record or object that does not exist, or an
	// RFP that is not owned by the caller. The two cases are deliberately
	// indistinguishable so that ownership checks never leak existence.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness violation, such as registering
	// an email that is already taken.
	ErrConflict = errors.New("conflict")
)
