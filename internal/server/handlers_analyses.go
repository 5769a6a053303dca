package server

import (
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/jonathan/profile-analyzer/internal/analysis"
	"github.com/jonathan/profile-analyzer/internal/documents"
)

// urlField is the optional multipart form field naming a public profile.
const urlField = "url"

// runAnalysis analyzes doc, and also scrapes and compares rawURL when set.
func runAnalysis(r *http.Request, a *analysis.Analyzer, doc documents.Document, rawURL string) (any, string, error) {
	if rawURL == "" {
		result, err := a.AnalyzeDocument(r.Context(), doc)
		if err != nil {
			return nil, "", err
		}
		return result, result.RunID, nil
	}
	result, err := a.AnalyzeWithProfileURL(r.Context(), doc, rawURL)
	if err != nil {
		return nil, "", err
	}
	return result, result.RunID, nil
}

// handleAnalysis runs a full document analysis and answers once it finishes.
func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	doc, err := s.readUpload(w, r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	result, _, err := runAnalysis(r, s.analyzer(r, nil), doc, strings.TrimSpace(r.FormValue(urlField)))
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleAnalysisStream runs the same analysis and reports progress as
// Server-Sent Events. Upload errors are answered as plain JSON before the
// stream starts.
func (s *Server) handleAnalysisStream(w http.ResponseWriter, r *http.Request) {
	doc, err := s.readUpload(w, r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	rawURL := strings.TrimSpace(r.FormValue(urlField))

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	// Progress arrives from concurrent steps; writes to the stream are serialized.
	var (
		mu    sync.Mutex
		runID string
	)
	progress := func(event analysis.ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		runID = event.RunID
		if err := sse.WriteEvent(EventProgress, event); err != nil {
			s.logger.Debug("client stopped reading progress", zap.Error(err))
		}
	}

	result, resultRunID, err := runAnalysis(r, s.analyzer(r, progress), doc, rawURL)

	mu.Lock()
	defer mu.Unlock()
	if err != nil {
		body := errorBody(err)
		if HTTPStatus(err) == http.StatusInternalServerError {
			s.logger.Error("streamed analysis failed", zap.Error(err))
			body.Error = "internal server error"
		}
		sse.WriteError(body.Error, body.ErrorCode)
		sse.WriteComplete(runID, "failed")
		return
	}

	if err := sse.WriteEvent(EventResult, result); err != nil {
		s.logger.Debug("client went away before the result", zap.Error(err))
		return
	}
	sse.WriteComplete(resultRunID, "completed")
}
