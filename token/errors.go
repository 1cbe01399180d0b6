package token

import "errors"

// Errors
var (
	// ErrOutOfFunds is returned when an account balance cannot cover a debit.
	ErrOutOfFunds = errors.New("out of funds")
	// ErrAccountNotFound is returned when an operation requires an existing
	// account or targets the default (all-zero) address.
	ErrAccountNotFound = errors.New("account not found")
	// ErrTokenNotFound is returned when a token identifier has not been
	// handed out by the allocation counter yet.
	ErrTokenNotFound = errors.New("token not found")
	// ErrLengthMismatch is returned by batch operations when the zipped
	// argument lists differ in length.
	ErrLengthMismatch = errors.New("tokens and amounts length mismatch")
	// ErrNotSupported is returned by every operator approval path.
	ErrNotSupported = errors.New("operator approvals are not supported")
	// ErrUnauthorized is returned when a sender acts on an account other
	// than their own.
	ErrUnauthorized = errors.New("unauthorized")
)
