// Package status exports the error kinds produced by a migration run
// and their mapping to process exit codes.
package status

import (
	"github.com/Khankindle/copybara/pkg/errors"
)

var (
	// ErrConfig indicates invalid or missing configuration
	ErrConfig = errors.New("configuration error")

	// ErrVCS indicates a failure talking to a version control system:
	// a subprocess error, an unreachable reference, or unparseable output
	ErrVCS = errors.New("VCS error")

	// ErrTransform indicates a transformation precondition failure
	ErrTransform = errors.New("transformation error")

	// ErrReversibility indicates that reversing a transformation did not
	// reproduce the original tree
	ErrReversibility = errors.New("reversible check failed")

	// ErrCanceled indicates the user declined the confirmation prompt
	ErrCanceled = errors.New("migration canceled by user")

	// ErrNoWork indicates a squash run found no new changes to migrate
	ErrNoWork = errors.New("no new changes to migrate")
)

// Process exit codes, part of the CLI contract.
const (
	ExitSuccess       = 0
	ExitConfig        = 1
	ExitVCS           = 2
	ExitCanceled      = 3
	ExitNoWork        = 4
	ExitInternalError = 5
)

// Configf builds a configuration error with a formatted message
func Configf(format string, args ...interface{}) *errors.Error {
	return errors.Newf(format, args...).Wrap(ErrConfig)
}

// VCSf builds a VCS error with a formatted message
func VCSf(format string, args ...interface{}) *errors.Error {
	return errors.Newf(format, args...).Wrap(ErrVCS)
}

// Transformf builds a transformation error with a formatted message
func Transformf(format string, args ...interface{}) *errors.Error {
	return errors.Newf(format, args...).Wrap(ErrTransform)
}

// Reversibilityf builds a reversibility error with a formatted message
func Reversibilityf(format string, args ...interface{}) *errors.Error {
	return errors.Newf(format, args...).Wrap(ErrReversibility)
}

// ExitCode maps an error to the exit code the CLI reports.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrConfig):
		return ExitConfig
	case errors.Is(err, ErrVCS), errors.Is(err, ErrTransform), errors.Is(err, ErrReversibility):
		return ExitVCS
	case errors.Is(err, ErrCanceled):
		return ExitCanceled
	case errors.Is(err, ErrNoWork):
		return ExitNoWork
	default:
		return ExitInternalError
	}
}
