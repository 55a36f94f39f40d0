package scenario

import "fmt"

// StepError reports a step that could not be executed.
type StepError struct {
	Step int
	Op   string
	Err  error
}

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Step, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *StepError) Unwrap() error {
	return e.Err
}

// ExpectationError reports one failed check of an expect step.
type ExpectationError struct {
	Step  int
	Field string
	Want  any
	Got   any
	Diff  string
}

// Error implements the error interface.
func (e *ExpectationError) Error() string {
	if e.Diff != "" {
		return fmt.Sprintf("step %d: %s mismatch (-want +got):\n%s", e.Step, e.Field, e.Diff)
	}
	return fmt.Sprintf("step %d: %s = %v, want %v", e.Step, e.Field, e.Got, e.Want)
}
