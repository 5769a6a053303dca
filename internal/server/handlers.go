package server

import (
	"net/http"
	"strings"

	"github.com/jonathan/profile-analyzer/internal/analysis"
	"github.com/jonathan/profile-analyzer/internal/documents"
	"github.com/jonathan/profile-analyzer/internal/insights"
	"github.com/jonathan/profile-analyzer/internal/skills"
	"github.com/jonathan/profile-analyzer/internal/types"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status          string `json:"status"`
	ModelConfigured bool   `json:"model_configured"`
}

// DocumentTextResponse is the body of POST /documents/text.
type DocumentTextResponse struct {
	Document  string           `json:"document"`
	Format    documents.Format `json:"format"`
	Supported bool             `json:"supported"`
	Text      string           `json:"text"`
}

// ExtractTextRequest is the JSON form of POST /profiles/extract.
type ExtractTextRequest struct {
	Text string `json:"text" validate:"required"`
}

// ScrapeRequest is the body of POST /profiles/scrape.
type ScrapeRequest struct {
	URL string `json:"url" validate:"required"`
}

// CompareProfileRequest is the body of POST /profiles/compare.
type CompareProfileRequest struct {
	Profile *types.Profile `json:"profile" validate:"required"`
	URL     string         `json:"url" validate:"required"`
}

// CompareProfileResponse is the body returned by POST /profiles/compare.
type CompareProfileResponse struct {
	Scraped    *types.ScrapedProfile `json:"scraped_profile"`
	Comparison analysis.Comparison   `json:"comparison"`
}

// InsightsRequest is the body of POST /profiles/insights.
type InsightsRequest struct {
	Profile *types.Profile `json:"profile" validate:"required"`
}

// InsightsResponse is the body returned by POST /profiles/insights.
type InsightsResponse struct {
	Suggestions []types.Suggestion     `json:"suggestions"`
	Trending    []insights.TrendingGap `json:"trending"`
	Categories  []skills.Group         `json:"categories"`
	FormatTips  []string               `json:"format_tips"`
}

// CompareSkillsRequest is the body of POST /skills/compare. Exactly one of
// Required and Role is expected; Role wins when both are set.
type CompareSkillsRequest struct {
	Skills   []string `json:"skills" validate:"required"`
	Required []string `json:"required" validate:"required_without=Role"`
	Role     string   `json:"role" validate:"required_without=Required"`
}

// CompareSkillsResponse is the body returned by POST /skills/compare.
type CompareSkillsResponse struct {
	Role            string                 `json:"role,omitempty"`
	Comparison      types.ComparisonResult `json:"comparison"`
	Recommendations []types.Recommendation `json:"recommendations"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, HealthResponse{Status: "ok", ModelConfigured: s.extractor != nil})
}

func (s *Server) handleRoles(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{"roles": skills.Roles()})
}

// handleDocumentText extracts text only. Unsupported formats are a normal
// result with supported=false.
func (s *Server) handleDocumentText(w http.ResponseWriter, r *http.Request) {
	doc, err := s.readUpload(w, r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	text, err := documents.Extract(doc)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, DocumentTextResponse{
		Document:  doc.Name,
		Format:    text.Format,
		Supported: !text.Unsupported(),
		Text:      text.Body,
	})
}

// handleExtractProfile accepts either an uploaded document or JSON text and
// returns the Profile document.
func (s *Server) handleExtractProfile(w http.ResponseWriter, r *http.Request) {
	a := s.analyzer(r, nil)

	if isMultipart(r) {
		doc, err := s.readUpload(w, r)
		if err != nil {
			s.errorResponse(w, r, err)
			return
		}
		result, err := a.AnalyzeDocument(r.Context(), doc)
		if err != nil {
			s.errorResponse(w, r, err)
			return
		}
		s.jsonResponse(w, http.StatusOK, result.Profile)
		return
	}

	var req ExtractTextRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.errorResponse(w, r, &ErrValidation{Field: "text", Message: "is required"})
		return
	}

	profile, err := a.ExtractText(r.Context(), req.Text)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}

func (s *Server) handleScrapeProfile(w http.ResponseWriter, r *http.Request) {
	var req ScrapeRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	scraped, err := s.analyzer(r, nil).Scrape(r.Context(), req.URL)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, scraped)
}

func (s *Server) handleCompareProfile(w http.ResponseWriter, r *http.Request) {
	var req CompareProfileRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	scraped, comparison, err := s.analyzer(r, nil).CompareURL(r.Context(), req.Profile, req.URL)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, CompareProfileResponse{Scraped: scraped, Comparison: comparison})
}

func (s *Server) handleProfileInsights(w http.ResponseWriter, r *http.Request) {
	var req InsightsRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	categories := skills.Categorize(req.Profile.Skills)
	if categories == nil {
		categories = []skills.Group{}
	}
	trending := insights.Trending(req.Profile.Skills)
	if trending == nil {
		trending = []insights.TrendingGap{}
	}
	s.jsonResponse(w, http.StatusOK, InsightsResponse{
		Suggestions: insights.Suggest(req.Profile),
		Trending:    trending,
		Categories:  categories,
		FormatTips:  insights.FormatTips,
	})
}

func (s *Server) handleCompareSkills(w http.ResponseWriter, r *http.Request) {
	var req CompareSkillsRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	if req.Role != "" {
		gap, err := skills.AnalyzeRole(req.Skills, req.Role)
		if err != nil {
			s.errorResponse(w, r, err)
			return
		}
		s.jsonResponse(w, http.StatusOK, CompareSkillsResponse{
			Role:            gap.Role,
			Comparison:      gap.Comparison,
			Recommendations: gap.Recommendations,
		})
		return
	}

	s.jsonResponse(w, http.StatusOK, CompareSkillsResponse{
		Comparison:      skills.Compare(req.Skills, req.Required),
		Recommendations: []types.Recommendation{},
	})
}
