// Package server provides the HTTP REST API for profile analysis.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/profile-analyzer/internal/analysis"
	"github.com/jonathan/profile-analyzer/internal/documents"
	"github.com/jonathan/profile-analyzer/internal/extraction"
	"github.com/jonathan/profile-analyzer/internal/skills"
)

// ErrModelUnavailable is returned by model-backed endpoints when the server
// was started without a usable model client.
var ErrModelUnavailable = errors.New("profile extraction is not configured")

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// Error codes returned in the error_code field of error responses.
const (
	CodeValidation         = "validation_error"
	CodePayloadTooLarge    = "payload_too_large"
	CodeUnsupportedFormat  = "unsupported_format"
	CodeDocumentExtraction = "document_extraction_error"
	CodeModelError         = "model_error"
	CodeSchemaParse        = "schema_parse_error"
	CodeInvalidProfileURL  = "invalid_profile_url"
	CodeUnknownRole        = "unknown_role"
	CodeModelUnavailable   = "model_unavailable"
	CodeInternal           = "internal_error"
)

// classify maps an error, possibly wrapped, to its HTTP status and error code.
func classify(err error) (int, string) {
	var (
		validationErr  *ErrValidation
		tooLarge       *http.MaxBytesError
		unsupported    *documents.UnsupportedFormatError
		documentErr    *documents.ExtractionError
		schemaErr      *extraction.SchemaParseError
		modelErr       *extraction.ExtractionError
		invalidURL     *analysis.InvalidProfileURLError
		unknownRoleErr *skills.UnknownRoleError
	)

	switch {
	case err == nil:
		return http.StatusOK, ""
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, CodeValidation
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, CodePayloadTooLarge
	case errors.As(err, &unsupported):
		return http.StatusUnsupportedMediaType, CodeUnsupportedFormat
	case errors.As(err, &documentErr):
		return http.StatusUnprocessableEntity, CodeDocumentExtraction
	// SchemaParseError is checked before ExtractionError: both are upstream
	// failures but callers retry them differently.
	case errors.As(err, &schemaErr):
		return http.StatusBadGateway, CodeSchemaParse
	case errors.As(err, &modelErr):
		return http.StatusBadGateway, CodeModelError
	case errors.As(err, &invalidURL):
		return http.StatusBadRequest, CodeInvalidProfileURL
	case errors.As(err, &unknownRoleErr):
		return http.StatusBadRequest, CodeUnknownRole
	case errors.Is(err, ErrModelUnavailable):
		return http.StatusServiceUnavailable, CodeModelUnavailable
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	status, _ := classify(err)
	return status
}

// ErrorCode returns the machine-readable code for an error.
func ErrorCode(err error) string {
	_, code := classify(err)
	return code
}
