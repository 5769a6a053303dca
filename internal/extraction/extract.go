// Package extraction turns resume text into a structured Profile with a single
// model call.
package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/profile-analyzer/internal/llm"
	"github.com/jonathan/profile-analyzer/internal/logger"
	"github.com/jonathan/profile-analyzer/internal/prompts"
	"github.com/jonathan/profile-analyzer/internal/schemas"
	"github.com/jonathan/profile-analyzer/internal/types"
)

const (
	promptFile       = "extraction.json"
	profilePromptKey = "extract-profile"
	summaryPromptKey = "extract-profile-summary"

	logPreviewLen = 300
)

// Extractor sends resume text to a model and interprets the response as a Profile.
// It holds no per-call state and is safe for concurrent use if its client is.
type Extractor struct {
	client llm.Client
	tier   llm.ModelTier
	logger *zap.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithTier selects the model tier used for extraction. The default is TierStandard.
func WithTier(tier llm.ModelTier) Option {
	return func(e *Extractor) {
		e.tier = tier
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger.OrNop(l)
	}
}

// New returns an Extractor using client for model calls.
func New(client llm.Client, opts ...Option) *Extractor {
	e := &Extractor{
		client: client,
		tier:   llm.TierStandard,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// BuildPrompt returns the extraction instruction with the resume text appended verbatim.
func BuildPrompt(resumeText string) string {
	template := prompts.MustGet(promptFile, profilePromptKey)
	return prompts.Format(template, map[string]string{
		"ResumeText": resumeText,
	})
}

// ExtractProfile makes exactly one model call and returns the parsed profile.
//
// A failed call returns *ExtractionError. A response that is not a profile
// document returns *SchemaParseError carrying the raw response. The call is
// never retried.
func (e *Extractor) ExtractProfile(ctx context.Context, resumeText string) (*types.Profile, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, &ExtractionError{Message: "resume text is empty"}
	}

	log := e.logger.With(zap.String(logger.FieldModel, e.client.GetModel(e.tier)))
	start := time.Now()

	raw, err := e.client.GenerateJSON(ctx, BuildPrompt(resumeText), e.tier)
	if err != nil {
		log.Warn("model call failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return nil, &ExtractionError{
			Message: "model call failed",
			Cause:   err,
		}
	}
	log.Debug("model responded",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("response_len", len(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, logPreviewLen)),
	)

	profile, err := ParseResponse(raw)
	if err != nil {
		log.Warn("model response rejected", zap.Error(err))
		return nil, err
	}
	return profile, nil
}

// ParseResponse interprets a model response as a Profile document.
// If the text is not valid JSON it gets one normalization pass that strips
// code fences and surrounding prose.
func ParseResponse(raw string) (*types.Profile, error) {
	doc := strings.TrimSpace(raw)
	if syntaxErr := checkJSON(doc); syntaxErr != nil {
		doc = llm.CleanJSONBlock(raw)
		if err := checkJSON(doc); err != nil {
			return nil, &SchemaParseError{
				Message:  "response is not valid JSON",
				Response: raw,
				Cause:    syntaxErr,
			}
		}
	}

	if err := schemas.ValidateProfileDocument(doc); err != nil {
		parseErr := &SchemaParseError{
			Message:  "response does not match the profile schema",
			Response: raw,
			Cause:    err,
		}
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			parseErr.Fields = validationErr.Errors
		}
		return nil, parseErr
	}

	var profile types.Profile
	if err := json.Unmarshal([]byte(doc), &profile); err != nil {
		parseErr := &SchemaParseError{
			Message:  "response fields could not be decoded",
			Response: raw,
			Cause:    err,
		}
		var fieldErr *types.FieldDecodeError
		if errors.As(err, &fieldErr) {
			parseErr.Fields = []schemas.FieldError{{Field: fieldErr.Field, Message: fieldErr.Cause.Error()}}
		}
		return nil, parseErr
	}
	return &profile, nil
}

func checkJSON(doc string) error {
	var probe any
	return json.Unmarshal([]byte(doc), &probe)
}

// Summarize asks the model for a short recruiter-facing summary of a profile.
func (e *Extractor) Summarize(ctx context.Context, profile *types.Profile) (string, error) {
	encoded, err := json.Marshal(profile)
	if err != nil {
		return "", &ExtractionError{Message: "failed to encode profile", Cause: err}
	}

	template := prompts.MustGet(promptFile, summaryPromptKey)
	prompt := prompts.Format(template, map[string]string{"ProfileJSON": string(encoded)})

	summary, err := e.client.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		return "", &ExtractionError{Message: "model call failed", Cause: err}
	}
	return strings.TrimSpace(summary), nil
}
