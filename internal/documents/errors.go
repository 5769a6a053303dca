package documents

import "fmt"

// ExtractionError represents a document that could not be read, such as a
// corrupt PDF or a DOCX that is not a valid archive.
type ExtractionError struct {
	Document string
	Format   Format
	Message  string
	Cause    error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to extract %s text from %s: %s: %v", e.Format, e.Document, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to extract %s text from %s: %s", e.Format, e.Document, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// UnsupportedFormatError describes a document whose extension is not handled.
// Extract never returns it; callers get it from Text.Err when they want to
// treat the unsupported result as a failure.
type UnsupportedFormatError struct {
	Document  string
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Extension == "" {
		return fmt.Sprintf("unsupported format for %s: no file extension (supported: .pdf, .docx)", e.Document)
	}
	return fmt.Sprintf("unsupported format for %s: %s (supported: .pdf, .docx)", e.Document, e.Extension)
}
