package usecase

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed run configuration. The caller must fix
// the input; nothing is retried and no simulation work has started.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ComputationError reports an unexpected internal failure during a run. The
// run aborts; previously persisted results of other runs are untouched.
type ComputationError struct {
	Stage string
	Err   error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("backtest %s failed: %v", e.Stage, e.Err)
}

func (e *ComputationError) Unwrap() error { return e.Err }

// PersistenceError reports a best-effort sink failure. The computed result is
// still returned to the caller alongside this error.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist backtest result: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsPersistence reports whether err is (or wraps) a PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
