package pipeline

import (
	"fmt"
)

// StageError reports the stage that aborted a run
// Err is the stage's own error, unchanged
type StageError struct {
	Stage string
	Kind  string
	Index int
	Err   error
}

// Error implements error
func (e *StageError) Error() string {
	return fmt.Sprintf("stage %d %q (%s): %v", e.Index, e.Stage, e.Kind, e.Err)
}

// Unwrap exposes the stage error to errors.As
func (e *StageError) Unwrap() error { return e.Err }

// LoadError reports a pipeline that could not be built
type LoadError struct {
	Source string
	Err    error
}

// Error implements error
func (e *LoadError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("load pipeline: %v", e.Err)
	}
	return fmt.Sprintf("load pipeline from %s: %v", e.Source, e.Err)
}

// Unwrap returns the cause
func (e *LoadError) Unwrap() error { return e.Err }
