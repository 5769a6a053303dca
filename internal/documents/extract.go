// Package documents converts uploaded resume files into plain text.
package documents

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
	"github.com/ledongthuc/pdf"
)

// Format identifies how a document's text was obtained.
type Format string

const (
	// FormatPDF is a Portable Document Format file
	FormatPDF Format = "pdf"
	// FormatDOCX is an Office Open XML word-processing file
	FormatDOCX Format = "docx"
	// FormatUnsupported marks a document whose extension is not handled
	FormatUnsupported Format = "unsupported"
)

// Document is a named blob of bytes, typically an uploaded file.
type Document struct {
	Name    string
	Content []byte
}

// Text is the result of extracting a document. An unsupported document is a
// normal result with Format set to FormatUnsupported and an empty body.
type Text struct {
	Document  string
	Format    Format
	Extension string
	Body      string
}

// Unsupported reports whether the document's format is not handled.
func (t Text) Unsupported() bool {
	return t.Format == FormatUnsupported
}

// Err returns an *UnsupportedFormatError for unsupported results and nil otherwise.
func (t Text) Err() error {
	if !t.Unsupported() {
		return nil
	}
	return &UnsupportedFormatError{Document: t.Document, Extension: t.Extension}
}

// FormatOf returns the format a file name dispatches to. Matching is by
// suffix and ignores case.
func FormatOf(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return FormatPDF
	case ".docx":
		return FormatDOCX
	default:
		return FormatUnsupported
	}
}

// Extract returns the plain text of a PDF or DOCX document.
// Unsupported extensions are not an error; see Text.Unsupported.
// Read failures return an *ExtractionError. The document is never written to disk.
func Extract(doc Document) (Text, error) {
	result := Text{
		Document:  doc.Name,
		Format:    FormatOf(doc.Name),
		Extension: strings.ToLower(filepath.Ext(doc.Name)),
	}

	var err error
	switch result.Format {
	case FormatPDF:
		result.Body, err = extractPDF(doc)
	case FormatDOCX:
		result.Body, err = extractDOCX(doc)
	}
	if err != nil {
		return Text{}, err
	}
	return result, nil
}

// pageSource is the subset of a PDF reader needed to collect page text.
// Pages are numbered from 1.
type pageSource interface {
	NumPage() int
	PageText(i int) (string, error)
}

type pdfPages struct {
	reader *pdf.Reader
}

func (p pdfPages) NumPage() int {
	return p.reader.NumPage()
}

func (p pdfPages) PageText(i int) (string, error) {
	page := p.reader.Page(i)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}

func extractPDF(doc Document) (text string, err error) {
	// the pdf package panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &ExtractionError{
				Document: doc.Name,
				Format:   FormatPDF,
				Message:  "malformed PDF",
				Cause:    fmt.Errorf("%v", r),
			}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(doc.Content), int64(len(doc.Content)))
	if err != nil {
		return "", &ExtractionError{
			Document: doc.Name,
			Format:   FormatPDF,
			Message:  "failed to open PDF",
			Cause:    err,
		}
	}

	text, err = joinPages(pdfPages{reader: reader})
	if err != nil {
		return "", &ExtractionError{
			Document: doc.Name,
			Format:   FormatPDF,
			Message:  "failed to read page text",
			Cause:    err,
		}
	}
	return text, nil
}

// joinPages collects page text in page order. Pages with no text are skipped
// and the rest are joined with a single newline.
func joinPages(src pageSource) (string, error) {
	var pages []string
	for i := 1; i <= src.NumPage(); i++ {
		text, err := src.PageText(i)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}
	return strings.Join(pages, "\n"), nil
}

func extractDOCX(doc Document) (string, error) {
	body, _, err := docconv.ConvertDocx(bytes.NewReader(doc.Content))
	if err != nil {
		return "", &ExtractionError{
			Document: doc.Name,
			Format:   FormatDOCX,
			Message:  "failed to read DOCX",
			Cause:    err,
		}
	}
	return strings.TrimSpace(body), nil
}
