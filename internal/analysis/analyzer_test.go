package analysis

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/profile-analyzer/internal/documents"
	"github.com/jonathan/profile-analyzer/internal/extraction"
	"github.com/jonathan/profile-analyzer/internal/types"
)

type fakeExtractor struct {
	profile *types.Profile
	err     error
	calls   atomic.Int32
	lastMu  sync.Mutex
	last    string
}

func (f *fakeExtractor) ExtractProfile(_ context.Context, text string) (*types.Profile, error) {
	f.calls.Add(1)
	f.lastMu.Lock()
	f.last = text
	f.lastMu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

type fakeFetcher struct {
	profile *types.ScrapedProfile
	calls   atomic.Int32
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string) *types.ScrapedProfile {
	f.calls.Add(1)
	return f.profile
}

func docxDocument(t *testing.T, name string, paragraphs ...string) documents.Document {
	t.Helper()

	var body bytes.Buffer
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`)
	}
	parts := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body.String() + `</w:body></w:document>`,
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range parts {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(data))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return documents.Document{Name: name, Content: buf.Bytes()}
}

func janeProfile() *types.Profile {
	return &types.Profile{
		Name:   types.StringPtr("Jane Doe"),
		Skills: []string{"Python", "SQL", "Go"},
	}
}

func TestAnalyzeDocument(t *testing.T) {
	extractor := &fakeExtractor{profile: janeProfile()}
	var events []ProgressEvent
	a := New(extractor, WithProgress(func(e ProgressEvent) { events = append(events, e) }))

	result, err := a.AnalyzeDocument(context.Background(), docxDocument(t, "resume.docx", "Jane Doe", "Skills: Python, SQL"))
	require.NoError(t, err)

	assert.Equal(t, "resume.docx", result.Document)
	assert.Equal(t, documents.FormatDOCX, result.Format)
	assert.Equal(t, "Jane Doe", types.StringValue(result.Profile.Name))
	assert.NotEmpty(t, result.RunID)
	assert.Contains(t, extractor.last, "Skills: Python, SQL")
	assert.Equal(t, result.Text, extractor.last)

	steps := make([]Step, 0, len(events))
	for _, e := range events {
		assert.Equal(t, result.RunID, e.RunID)
		steps = append(steps, e.Step)
	}
	assert.Equal(t, []Step{StepExtractText, StepExtractText, StepExtractProfile, StepExtractProfile}, steps)
}

func TestAnalyzeDocument_UnsupportedSkipsModel(t *testing.T) {
	extractor := &fakeExtractor{profile: janeProfile()}
	a := New(extractor)

	_, err := a.AnalyzeDocument(context.Background(), documents.Document{Name: "resume.txt", Content: []byte("Jane")})
	require.Error(t, err)

	var unsupported *documents.UnsupportedFormatError
	require.ErrorAs(t, err, &unsupported)
	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, StepExtractText, stepErr.Step)
	assert.Zero(t, extractor.calls.Load())
}

func TestAnalyzeDocument_CorruptDocument(t *testing.T) {
	extractor := &fakeExtractor{profile: janeProfile()}
	a := New(extractor)

	_, err := a.AnalyzeDocument(context.Background(), documents.Document{Name: "resume.pdf", Content: []byte("not a pdf")})
	require.Error(t, err)

	var extractErr *documents.ExtractionError
	assert.ErrorAs(t, err, &extractErr)
	assert.Zero(t, extractor.calls.Load())
}

func TestAnalyzeDocument_ModelFailure(t *testing.T) {
	cause := &extraction.SchemaParseError{Message: "response is not valid JSON", Response: "nope"}
	a := New(&fakeExtractor{err: cause})

	_, err := a.AnalyzeDocument(context.Background(), docxDocument(t, "cv.docx", "Jane"))
	require.Error(t, err)

	var parseErr *extraction.SchemaParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "nope", parseErr.Response)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, StepExtractProfile, stepErr.Step)
}

func TestScrape_InvalidURL(t *testing.T) {
	fetcher := &fakeFetcher{profile: &types.ScrapedProfile{Name: "x"}}
	a := New(&fakeExtractor{}, WithFetcher(fetcher))

	_, err := a.Scrape(context.Background(), "https://example.com/foo")
	var urlErr *InvalidProfileURLError
	require.ErrorAs(t, err, &urlErr)
	assert.Equal(t, "https://example.com/foo", urlErr.URL)
	assert.Zero(t, fetcher.calls.Load())
}

func TestCompareURL(t *testing.T) {
	fetcher := &fakeFetcher{profile: &types.ScrapedProfile{
		Name:   "jane doe",
		Skills: []string{"python", "Docker"},
	}}
	a := New(&fakeExtractor{}, WithFetcher(fetcher))

	scraped, comparison, err := a.CompareURL(context.Background(), janeProfile(), "https://www.linkedin.com/in/jane-doe")
	require.NoError(t, err)
	assert.Equal(t, "jane doe", scraped.Name)
	assert.Equal(t, NameMatchExact, comparison.Name)
	require.NotNil(t, comparison.Skills)
	assert.Equal(t, []string{"python"}, comparison.Skills.Common)
	assert.InDelta(t, 25.0, comparison.Skills.Score, 1e-9)
}

func TestAnalyzeWithProfileURL(t *testing.T) {
	extractor := &fakeExtractor{profile: janeProfile()}
	fetcher := &fakeFetcher{profile: &types.ScrapedProfile{
		Name:   "Jane Doe",
		Skills: []string{"Python", "SQL", "Go"},
	}}
	var mu sync.Mutex
	var events []ProgressEvent
	a := New(extractor, WithFetcher(fetcher), WithProgress(func(e ProgressEvent) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	}))

	result, err := a.AnalyzeWithProfileURL(context.Background(), docxDocument(t, "resume.docx", "Jane Doe"), "https://www.linkedin.com/in/jane-doe")
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", types.StringValue(result.Profile.Name))
	assert.Equal(t, "Jane Doe", result.Scraped.Name)
	assert.Equal(t, NameMatchExact, result.Comparison.Name)
	require.NotNil(t, result.Comparison.Skills)
	assert.True(t, result.Comparison.Skills.Aligned)
	assert.Equal(t, int32(1), extractor.calls.Load())
	assert.Equal(t, int32(1), fetcher.calls.Load())

	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, StepCompare, last.Step)
	assert.True(t, last.Done)
	for _, e := range events {
		assert.Equal(t, result.RunID, e.RunID)
	}
}

func TestAnalyzeWithProfileURL_InvalidURLCostsNothing(t *testing.T) {
	extractor := &fakeExtractor{profile: janeProfile()}
	fetcher := &fakeFetcher{}
	a := New(extractor, WithFetcher(fetcher))

	_, err := a.AnalyzeWithProfileURL(context.Background(), docxDocument(t, "resume.docx", "Jane"), "https://example.com/in")
	var urlErr *InvalidProfileURLError
	require.ErrorAs(t, err, &urlErr)
	assert.Zero(t, extractor.calls.Load())
	assert.Zero(t, fetcher.calls.Load())
}

func TestAnalyzeWithProfileURL_DocumentFailure(t *testing.T) {
	boom := errors.New("model down")
	fetcher := &fakeFetcher{profile: &types.ScrapedProfile{Name: "Jane Doe"}}
	a := New(&fakeExtractor{err: boom}, WithFetcher(fetcher))

	_, err := a.AnalyzeWithProfileURL(context.Background(), docxDocument(t, "resume.docx", "Jane"), "https://www.linkedin.com/in/jane-doe")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}
