package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nonFlushingWriter struct {
	http.ResponseWriter
}

func TestSSEWriter(t *testing.T) {
	w := httptest.NewRecorder()
	sse, err := NewSSEWriter(w)
	require.NoError(t, err)

	require.NoError(t, sse.WriteEvent(EventProgress, map[string]string{"step": "extract_text"}))
	sse.WriteError("boom", CodeInternal)
	sse.WriteComplete("run-1", "failed")

	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, "event: progress\ndata: {\"step\":\"extract_text\"}\n\n"+
		"event: error\ndata: {\"error\":\"boom\",\"error_code\":\"internal_error\"}\n\n"+
		"event: complete\ndata: {\"run_id\":\"run-1\",\"status\":\"failed\"}\n\n", w.Body.String())
}

func TestSSEWriter_RequiresFlusher(t *testing.T) {
	_, err := NewSSEWriter(nonFlushingWriter{httptest.NewRecorder()})
	assert.Error(t, err)
}
