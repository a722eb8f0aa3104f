package errors

import (
	"github.com/pkg/errors"
)

// Common error types for the console
var (
	// Session errors
	ErrForbidden = errors.New("forbidden")

	// Credential storage errors
	ErrCredentialsCorrupt = errors.New("credentials file is corrupt or the passphrase is wrong")
	ErrNoPassphrase       = errors.New("credentials passphrase is required")

	// Request errors
	ErrInvalidRequest   = errors.New("invalid request")
	ErrFileTooLarge     = errors.New("file exceeds the upload limit")
	ErrProgressOverflow = errors.New("total progress exceeds 100%")

	// General errors
	ErrNotFound = errors.New("not found")
)

// Wrapf annotates err with a formatted message and the caller's stack. A nil
// err stays nil.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
