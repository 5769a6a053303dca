package fetch

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL_Success(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html><body><h1>Test</h1></body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, server.URL, result.URL)
	assert.Contains(t, result.HTML, "<h1>Test</h1>")
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, "text/html", result.ContentType)

	assert.Equal(t, DefaultUserAgent, got.Get("User-Agent"))
	for key, value := range BrowserHeaders() {
		if key == "Connection" {
			continue // hop-by-hop, consumed by the server
		}
		assert.Equal(t, value, got.Get(key), key)
	}
}

func TestURL_InvalidURL(t *testing.T) {
	_, err := URL(context.Background(), "not-a-valid-url", nil)
	require.Error(t, err)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "invalid URL")
}

func TestURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.NotNil(t, result) // Result is returned even on error
	assert.Equal(t, http.StatusNotFound, result.StatusCode)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	assert.Contains(t, err.Error(), "404")
}

func TestURL_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	opts := DefaultOptions()
	opts.Timeout = 50 * time.Millisecond

	start := time.Now()
	_, err := URL(context.Background(), server.URL, opts)
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "HTTP request failed", fetchErr.Message)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestURL_DecodesContentEncoding(t *testing.T) {
	page := "<html><body><h1>Jane Doe</h1></body></html>"

	var gzipped bytes.Buffer
	gw := gzip.NewWriter(&gzipped)
	_, _ = gw.Write([]byte(page))
	require.NoError(t, gw.Close())

	var deflated bytes.Buffer
	fw, err := flate.NewWriter(&deflated, flate.DefaultCompression)
	require.NoError(t, err)
	_, _ = fw.Write([]byte(page))
	require.NoError(t, fw.Close())

	tests := []struct {
		name     string
		encoding string
		body     []byte
	}{
		{name: "gzip", encoding: "gzip", body: gzipped.Bytes()},
		{name: "deflate", encoding: "deflate", body: deflated.Bytes()},
		{name: "identity", encoding: "", body: []byte(page)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				if tt.encoding != "" {
					w.Header().Set("Content-Encoding", tt.encoding)
				}
				_, _ = w.Write(tt.body)
			}))
			defer server.Close()

			result, err := URL(context.Background(), server.URL, nil)
			require.NoError(t, err)
			assert.Equal(t, page, result.HTML)
		})
	}
}

func TestURL_CorruptGzip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		_, _ = w.Write([]byte("definitely not gzip"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Contains(t, err.Error(), "decode")
}

func TestURL_UsesProvidedClient(t *testing.T) {
	calls := 0
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"text/html"}},
			Body:       http.NoBody,
			Request:    r,
		}, nil
	})}

	opts := DefaultOptions()
	opts.Client = client
	result, err := URL(context.Background(), "https://example.com/page", opts)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, result.HTML)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestFirstText(t *testing.T) {
	doc, err := ParseHTML(`<html><body>
		<h1 class="empty"> </h1>
		<h1 class="name">  Jane
		   Doe </h1>
		<div class="headline">Engineer</div>
	</body></html>`)
	require.NoError(t, err)

	text, ok := FirstText(doc, []string{".missing", "h1.empty", "h1.name", ".headline"})
	require.True(t, ok)
	assert.Equal(t, "Jane\nDoe", text)

	_, ok = FirstText(doc, []string{".missing", "h1.empty"})
	assert.False(t, ok)
}
