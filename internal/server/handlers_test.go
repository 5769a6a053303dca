package server

import (
	"bufio"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/profile-analyzer/internal/analysis"
	"github.com/jonathan/profile-analyzer/internal/extraction"
	"github.com/jonathan/profile-analyzer/internal/server/middleware"
	"github.com/jonathan/profile-analyzer/internal/skills"
	"github.com/jonathan/profile-analyzer/internal/types"
)

const janeURL = "https://www.linkedin.com/in/jane-doe"

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t, testServerConfig(), WithExtractor(&fakeExtractor{}))

	w := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body HealthResponse
	decodeBody(t, w.Body, &body)
	assert.Equal(t, "ok", body.Status)
	assert.True(t, body.ModelConfigured)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestHandleRoles(t *testing.T) {
	s := newTestServer(t, testServerConfig())

	w := serve(s, httptest.NewRequest(http.MethodGet, "/roles", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Roles []skills.Role `json:"roles"`
	}
	decodeBody(t, w.Body, &body)
	assert.Len(t, body.Roles, 4)
	assert.Equal(t, "Software Engineer", body.Roles[0].Name)
}

func TestHandleDocumentText(t *testing.T) {
	s := newTestServer(t, testServerConfig())

	w := serve(s, uploadRequest(t, "/documents/text", "resume.docx", docxBytes(t, "Jane Doe", "Skills: Go"), nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body DocumentTextResponse
	decodeBody(t, w.Body, &body)
	assert.Equal(t, "resume.docx", body.Document)
	assert.True(t, body.Supported)
	assert.Contains(t, body.Text, "Skills: Go")
}

func TestHandleDocumentText_UnsupportedIsData(t *testing.T) {
	s := newTestServer(t, testServerConfig())

	w := serve(s, uploadRequest(t, "/documents/text", "notes.txt", []byte("Jane"), nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body DocumentTextResponse
	decodeBody(t, w.Body, &body)
	assert.False(t, body.Supported)
	assert.Equal(t, "unsupported", string(body.Format))
	assert.Empty(t, body.Text)
}

func TestHandleDocumentText_BadUploads(t *testing.T) {
	s := newTestServer(t, testServerConfig())

	w := serve(s, uploadRequest(t, "/documents/text", "", nil, map[string]string{"other": "x"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), CodeValidation)

	w = serve(s, jsonRequest(t, http.MethodPost, "/documents/text", map[string]string{"text": "x"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(s, uploadRequest(t, "/documents/text", "resume.pdf", []byte("not a pdf"), nil))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), CodeDocumentExtraction)
}

func TestHandleExtractProfile_JSONText(t *testing.T) {
	extractor := &fakeExtractor{profile: janeProfile()}
	s := newTestServer(t, testServerConfig(), WithExtractor(extractor))

	w := serve(s, jsonRequest(t, http.MethodPost, "/profiles/extract", ExtractTextRequest{Text: "Jane Doe\nPython, SQL"}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body map[string]any
	decodeBody(t, w.Body, &body)
	assert.Equal(t, "Jane Doe", body["Name"])
	assert.Equal(t, []any{"Python", "SQL", "Go"}, body["Skills"])
	assert.Equal(t, "Jane Doe\nPython, SQL", extractor.last)
}

func TestHandleExtractProfile_Upload(t *testing.T) {
	extractor := &fakeExtractor{profile: janeProfile()}
	s := newTestServer(t, testServerConfig(), WithExtractor(extractor))

	w := serve(s, uploadRequest(t, "/profiles/extract", "cv.docx", docxBytes(t, "Jane Doe"), nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, extractor.last, "Jane Doe")
}

func TestHandleExtractProfile_Errors(t *testing.T) {
	tests := []struct {
		name      string
		extractor *fakeExtractor
		req       func(t *testing.T) *http.Request
		status    int
		code      string
		noCalls   bool
	}{
		{
			name:      "empty text",
			extractor: &fakeExtractor{profile: janeProfile()},
			req: func(t *testing.T) *http.Request {
				return jsonRequest(t, http.MethodPost, "/profiles/extract", ExtractTextRequest{Text: "   "})
			},
			status:  http.StatusBadRequest,
			code:    CodeValidation,
			noCalls: true,
		},
		{
			name:      "malformed JSON",
			extractor: &fakeExtractor{profile: janeProfile()},
			req: func(_ *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/profiles/extract", strings.NewReader("{"))
			},
			status:  http.StatusBadRequest,
			code:    CodeValidation,
			noCalls: true,
		},
		{
			name:      "unsupported upload",
			extractor: &fakeExtractor{profile: janeProfile()},
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "/profiles/extract", "resume.txt", []byte("Jane"), nil)
			},
			status:  http.StatusUnsupportedMediaType,
			code:    CodeUnsupportedFormat,
			noCalls: true,
		},
		{
			name:      "model failure",
			extractor: &fakeExtractor{err: &extraction.ExtractionError{Message: "quota exceeded"}},
			req: func(t *testing.T) *http.Request {
				return jsonRequest(t, http.MethodPost, "/profiles/extract", ExtractTextRequest{Text: "Jane"})
			},
			status: http.StatusBadGateway,
			code:   CodeModelError,
		},
		{
			name:      "schema parse failure",
			extractor: &fakeExtractor{err: &extraction.SchemaParseError{Message: "not JSON", Response: "I cannot help"}},
			req: func(t *testing.T) *http.Request {
				return jsonRequest(t, http.MethodPost, "/profiles/extract", ExtractTextRequest{Text: "Jane"})
			},
			status: http.StatusBadGateway,
			code:   CodeSchemaParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, testServerConfig(), WithExtractor(tt.extractor))

			w := serve(s, tt.req(t))
			assert.Equal(t, tt.status, w.Code, w.Body.String())

			var body ErrorBody
			decodeBody(t, w.Body, &body)
			assert.Equal(t, tt.code, body.ErrorCode)
			assert.NotEmpty(t, body.Error)
			if tt.noCalls {
				assert.Zero(t, tt.extractor.calls.Load())
			}
		})
	}
}

func TestHandleExtractProfile_SchemaErrorEchoesResponse(t *testing.T) {
	extractor := &fakeExtractor{err: &extraction.SchemaParseError{Message: "not JSON", Response: "I cannot help"}}
	s := newTestServer(t, testServerConfig(), WithExtractor(extractor))

	w := serve(s, jsonRequest(t, http.MethodPost, "/profiles/extract", ExtractTextRequest{Text: "Jane"}))

	var body ErrorBody
	decodeBody(t, w.Body, &body)
	assert.Equal(t, "I cannot help", body.Response)
}

func TestHandleExtractProfile_NoModel(t *testing.T) {
	s := newTestServer(t, testServerConfig())

	w := serve(s, jsonRequest(t, http.MethodPost, "/profiles/extract", ExtractTextRequest{Text: "Jane"}))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), CodeModelUnavailable)
}

func TestHandleExtractProfile_BodyTooLarge(t *testing.T) {
	cfg := testServerConfig()
	cfg.MaxUpload = 64
	extractor := &fakeExtractor{profile: janeProfile()}
	s := newTestServer(t, cfg, WithExtractor(extractor))

	w := serve(s, jsonRequest(t, http.MethodPost, "/profiles/extract", ExtractTextRequest{Text: strings.Repeat("x", 500)}))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Zero(t, extractor.calls.Load())
}

func TestHandleScrapeProfile(t *testing.T) {
	fetcher := &fakeFetcher{profile: janeScraped()}
	s := newTestServer(t, testServerConfig(), WithFetcher(fetcher))

	w := serve(s, jsonRequest(t, http.MethodPost, "/profiles/scrape", ScrapeRequest{URL: janeURL}))
	require.Equal(t, http.StatusOK, w.Code)

	var body types.ScrapedProfile
	decodeBody(t, w.Body, &body)
	assert.Equal(t, "Jane Doe", body.Name)
	assert.Equal(t, "Backend Engineer", body.Headline)
}

func TestHandleScrapeProfile_InvalidURL(t *testing.T) {
	fetcher := &fakeFetcher{profile: janeScraped()}
	s := newTestServer(t, testServerConfig(), WithFetcher(fetcher))

	w := serve(s, jsonRequest(t, http.MethodPost, "/profiles/scrape", ScrapeRequest{URL: "https://example.com/foo"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), CodeInvalidProfileURL)
	assert.Zero(t, fetcher.calls.Load())

	w = serve(s, jsonRequest(t, http.MethodPost, "/profiles/scrape", map[string]string{}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body ErrorBody
	decodeBody(t, w.Body, &body)
	assert.Equal(t, "validation error: url - is required", body.Error)
}

func TestHandleCompareProfile(t *testing.T) {
	s := newTestServer(t, testServerConfig(), WithFetcher(&fakeFetcher{profile: janeScraped()}))

	w := serve(s, jsonRequest(t, http.MethodPost, "/profiles/compare", map[string]any{
		"profile": map[string]any{"Name": "Jane Doe", "Skills": []string{"Python", "SQL", "Rust"}},
		"url":     janeURL,
	}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Comparison analysis.Comparison `json:"comparison"`
	}
	decodeBody(t, w.Body, &body)
	assert.Equal(t, analysis.NameMatchExact, body.Comparison.Name)
	require.NotNil(t, body.Comparison.Skills)
	assert.Equal(t, []string{"python", "sql"}, body.Comparison.Skills.Common)
	assert.InDelta(t, 50.0, body.Comparison.Skills.Score, 1e-9)
}

func TestHandleCompareProfile_MissingProfile(t *testing.T) {
	s := newTestServer(t, testServerConfig(), WithFetcher(&fakeFetcher{profile: janeScraped()}))

	w := serve(s, jsonRequest(t, http.MethodPost, "/profiles/compare", map[string]any{"url": janeURL}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "profile")
}

func TestHandleProfileInsights(t *testing.T) {
	s := newTestServer(t, testServerConfig())

	w := serve(s, jsonRequest(t, http.MethodPost, "/profiles/insights", map[string]any{
		"profile": map[string]any{"Name": "Jane Doe", "Skills": []string{"Python", "React"}},
	}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body InsightsResponse
	decodeBody(t, w.Body, &body)
	assert.NotEmpty(t, body.Suggestions)
	assert.NotEmpty(t, body.Trending)
	assert.NotEmpty(t, body.FormatTips)
	require.Len(t, body.Categories, 2)
	assert.Equal(t, []string{"Python"}, body.Categories[0].Skills)
}

func TestHandleCompareSkills(t *testing.T) {
	s := newTestServer(t, testServerConfig())

	t.Run("required list", func(t *testing.T) {
		w := serve(s, jsonRequest(t, http.MethodPost, "/skills/compare", CompareSkillsRequest{
			Skills:   []string{"Python", "SQL"},
			Required: []string{"python", "Git"},
		}))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var body CompareSkillsResponse
		decodeBody(t, w.Body, &body)
		assert.Equal(t, []string{"python"}, body.Comparison.Matched)
		assert.Equal(t, []string{"git"}, body.Comparison.Missing)
		assert.Equal(t, []string{"sql"}, body.Comparison.Extra)
		assert.InDelta(t, 50.0, body.Comparison.MatchPercentage, 1e-9)
		assert.Empty(t, body.Role)
	})

	t.Run("role", func(t *testing.T) {
		w := serve(s, jsonRequest(t, http.MethodPost, "/skills/compare", CompareSkillsRequest{
			Skills: []string{"Docker", "AWS"},
			Role:   "devops engineer",
		}))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var body CompareSkillsResponse
		decodeBody(t, w.Body, &body)
		assert.Equal(t, "DevOps Engineer", body.Role)
		assert.InDelta(t, 40.0, body.Comparison.MatchPercentage, 1e-9)
		require.Len(t, body.Recommendations, 3)
		assert.Equal(t, "Jenkins", body.Recommendations[0].Skill)
	})

	t.Run("unknown role", func(t *testing.T) {
		w := serve(s, jsonRequest(t, http.MethodPost, "/skills/compare", CompareSkillsRequest{
			Skills: []string{"Go"},
			Role:   "Astronaut",
		}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), CodeUnknownRole)
	})

	t.Run("neither required nor role", func(t *testing.T) {
		w := serve(s, jsonRequest(t, http.MethodPost, "/skills/compare", map[string]any{"skills": []string{"Go"}}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), CodeValidation)
	})
}

func TestHandleAnalysis(t *testing.T) {
	extractor := &fakeExtractor{profile: janeProfile()}
	fetcher := &fakeFetcher{profile: janeScraped()}
	s := newTestServer(t, testServerConfig(), WithExtractor(extractor), WithFetcher(fetcher))

	w := serve(s, uploadRequest(t, "/analyses", "resume.docx", docxBytes(t, "Jane Doe"), map[string]string{"url": janeURL}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body map[string]any
	decodeBody(t, w.Body, &body)
	assert.NotEmpty(t, body["run_id"])
	assert.Equal(t, "resume.docx", body["document"])
	assert.Equal(t, "docx", body["format"])
	assert.Contains(t, body, "scraped_profile")
	assert.Contains(t, body, "comparison")
	assert.Equal(t, int32(1), fetcher.calls.Load())
}

func TestHandleAnalysis_DocumentOnly(t *testing.T) {
	fetcher := &fakeFetcher{profile: janeScraped()}
	s := newTestServer(t, testServerConfig(), WithExtractor(&fakeExtractor{profile: janeProfile()}), WithFetcher(fetcher))

	w := serve(s, uploadRequest(t, "/analyses", "resume.docx", docxBytes(t, "Jane Doe"), nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body map[string]any
	decodeBody(t, w.Body, &body)
	assert.NotContains(t, body, "scraped_profile")
	assert.Zero(t, fetcher.calls.Load())
}

// readEvents splits an event stream into event names and raw data lines.
func readEvents(t *testing.T, body string) (names []string, data []string) {
	t.Helper()
	sc := bufio.NewScanner(strings.NewReader(body))
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			names = append(names, strings.TrimPrefix(line, "event: "))
		case strings.HasPrefix(line, "data: "):
			data = append(data, strings.TrimPrefix(line, "data: "))
		}
	}
	require.NoError(t, sc.Err())
	return names, data
}

func TestHandleAnalysisStream(t *testing.T) {
	s := newTestServer(t, testServerConfig(),
		WithExtractor(&fakeExtractor{profile: janeProfile()}),
		WithFetcher(&fakeFetcher{profile: janeScraped()}),
	)

	w := serve(s, uploadRequest(t, "/analyses/stream", "resume.docx", docxBytes(t, "Jane Doe"), map[string]string{"url": janeURL}))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	names, data := readEvents(t, w.Body.String())
	require.GreaterOrEqual(t, len(names), 3)
	assert.Equal(t, EventResult, names[len(names)-2])
	assert.Equal(t, EventComplete, names[len(names)-1])
	for _, name := range names[:len(names)-2] {
		assert.Equal(t, EventProgress, name)
	}
	assert.Contains(t, data[len(data)-1], `"status":"completed"`)
	assert.Contains(t, data[len(data)-2], `"scraped_profile"`)
}

func TestHandleAnalysisStream_Failure(t *testing.T) {
	s := newTestServer(t, testServerConfig(),
		WithExtractor(&fakeExtractor{err: &extraction.SchemaParseError{Message: "not JSON"}}),
	)

	w := serve(s, uploadRequest(t, "/analyses/stream", "resume.docx", docxBytes(t, "Jane Doe"), nil))
	require.Equal(t, http.StatusOK, w.Code)

	names, data := readEvents(t, w.Body.String())
	require.GreaterOrEqual(t, len(names), 2)
	assert.Equal(t, EventError, names[len(names)-2])
	assert.Contains(t, data[len(data)-2], CodeSchemaParse)
	assert.Contains(t, data[len(data)-1], `"status":"failed"`)
}

func TestHandleAnalysisStream_UploadErrorIsJSON(t *testing.T) {
	s := newTestServer(t, testServerConfig(), WithExtractor(&fakeExtractor{profile: janeProfile()}))

	w := serve(s, uploadRequest(t, "/analyses/stream", "", nil, nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}
