package analysis

import "fmt"

// InvalidProfileURLError is returned when a URL is not a public profile URL.
// No request is made for such URLs.
type InvalidProfileURLError struct {
	URL string
}

func (e *InvalidProfileURLError) Error() string {
	return fmt.Sprintf("not a profile URL: %q", e.URL)
}

// StepError records which step of an analysis failed.
type StepError struct {
	Step  Step
	Cause error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Step, e.Cause)
}

func (e *StepError) Unwrap() error {
	return e.Cause
}
