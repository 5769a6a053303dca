package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/profile-analyzer/internal/documents"
)

// uploadField is the multipart form field carrying the document.
const uploadField = "file"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names, not Go ones.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeJSON reads a size-limited JSON body into dst and validates it.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUpload)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return &ErrValidation{Field: "body", Message: "request body is empty"}
		}
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	return validateRequest(dst)
}

// validateRequest reports the first failed validator tag.
func validateRequest(dst any) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ErrValidation{Field: fe.Field(), Message: validationMessage(fe)}
	}
	return &ErrValidation{Field: "body", Message: err.Error()}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_without":
		return "is required when " + strings.ToLower(fe.Param()) + " is not set"
	case "url":
		return "must be a URL"
	default:
		return "failed " + fe.Tag()
	}
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// readUpload reads the uploaded document from a size-limited multipart body.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (documents.Document, error) {
	if !isMultipart(r) {
		return documents.Document{}, &ErrValidation{Field: uploadField, Message: "expected a multipart/form-data upload"}
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUpload)
	if err := r.ParseMultipartForm(s.config.MaxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return documents.Document{}, err
		}
		return documents.Document{}, &ErrValidation{Field: uploadField, Message: err.Error()}
	}

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		return documents.Document{}, &ErrValidation{Field: uploadField, Message: "is required"}
	}
	defer file.Close() //nolint:errcheck

	content, err := io.ReadAll(file)
	if err != nil {
		return documents.Document{}, &ErrValidation{Field: uploadField, Message: err.Error()}
	}
	return documents.Document{Name: header.Filename, Content: content}, nil
}
