package extraction

import (
	"fmt"

	"github.com/jonathan/profile-analyzer/internal/schemas"
)

// ExtractionError represents a failed model call (auth, network, rate limit).
// The response, if any, was never received.
type ExtractionError struct {
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("profile extraction failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("profile extraction failed: %s", e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// SchemaParseError represents a model response that could not be read as a
// profile document, even after normalization. Response holds the text exactly
// as the model returned it.
type SchemaParseError struct {
	Message  string
	Response string
	Fields   []schemas.FieldError
	Cause    error
}

func (e *SchemaParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("schema parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("schema parse error: %s", e.Message)
}

func (e *SchemaParseError) Unwrap() error {
	return e.Cause
}
