// Package analysis orchestrates the end-to-end flows: document to text to
// Profile, and a resume checked against a public profile.
package analysis

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/profile-analyzer/internal/documents"
	"github.com/jonathan/profile-analyzer/internal/logger"
	"github.com/jonathan/profile-analyzer/internal/scraper"
	"github.com/jonathan/profile-analyzer/internal/types"
)

// Step names a stage of an analysis run.
type Step string

const (
	StepExtractText    Step = "extract_text"
	StepExtractProfile Step = "extract_profile"
	StepScrapeProfile  Step = "scrape_profile"
	StepCompare        Step = "compare"
)

// ProgressEvent reports a stage starting or finishing.
type ProgressEvent struct {
	RunID   string `json:"run_id"`
	Step    Step   `json:"step"`
	Done    bool   `json:"done"`
	Message string `json:"message"`
}

// ProgressCallback receives progress events. Steps of AnalyzeWithProfileURL
// run concurrently, so the callback must be safe for concurrent use.
type ProgressCallback func(event ProgressEvent)

// ProfileExtractor turns resume text into a Profile.
type ProfileExtractor interface {
	ExtractProfile(ctx context.Context, resumeText string) (*types.Profile, error)
}

// ProfileFetcher scrapes a public profile. It returns nil only for URLs that
// are not profile URLs.
type ProfileFetcher interface {
	Fetch(ctx context.Context, rawURL string) *types.ScrapedProfile
}

// Analyzer wires the extraction and scraping components together.
type Analyzer struct {
	extractor ProfileExtractor
	fetcher   ProfileFetcher
	logger    *zap.Logger
	progress  ProgressCallback
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithFetcher sets the profile scraper. The default is scraper.New().
func WithFetcher(f ProfileFetcher) Option {
	return func(a *Analyzer) {
		if f != nil {
			a.fetcher = f
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Analyzer) {
		a.logger = logger.OrNop(l)
	}
}

// WithProgress registers a progress callback.
func WithProgress(cb ProgressCallback) Option {
	return func(a *Analyzer) {
		a.progress = cb
	}
}

// New returns an Analyzer that extracts profiles with extractor.
func New(extractor ProfileExtractor, opts ...Option) *Analyzer {
	a := &Analyzer{
		extractor: extractor,
		fetcher:   scraper.New(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Result is the outcome of analyzing one document.
type Result struct {
	RunID    string           `json:"run_id"`
	Document string           `json:"document"`
	Format   documents.Format `json:"format"`
	Text     string           `json:"-"`
	Profile  *types.Profile   `json:"profile"`
}

// ProfileURLResult combines a document analysis with a scraped profile.
type ProfileURLResult struct {
	*Result
	Scraped    *types.ScrapedProfile `json:"scraped_profile"`
	Comparison Comparison            `json:"comparison"`
}

func (a *Analyzer) emit(runID string, step Step, done bool, message string) {
	if a.progress == nil {
		return
	}
	a.progress(ProgressEvent{RunID: runID, Step: step, Done: done, Message: message})
}

// AnalyzeDocument extracts text from doc and then a Profile from the text.
// Unsupported formats fail with *documents.UnsupportedFormatError before any
// model call.
func (a *Analyzer) AnalyzeDocument(ctx context.Context, doc documents.Document) (*Result, error) {
	return a.analyzeDocument(ctx, uuid.NewString(), doc)
}

func (a *Analyzer) analyzeDocument(ctx context.Context, runID string, doc documents.Document) (*Result, error) {
	log := a.logger.With(zap.String(logger.FieldRequestID, runID), zap.String("document", doc.Name))

	a.emit(runID, StepExtractText, false, "extracting text from "+doc.Name)
	text, err := documents.Extract(doc)
	if err != nil {
		return nil, &StepError{Step: StepExtractText, Cause: err}
	}
	if text.Unsupported() {
		return nil, &StepError{Step: StepExtractText, Cause: text.Err()}
	}
	log.Debug("text extracted", zap.String("format", string(text.Format)), zap.Int("chars", len(text.Body)))
	a.emit(runID, StepExtractText, true, "text extracted")

	profile, err := a.extractText(ctx, runID, text.Body)
	if err != nil {
		return nil, err
	}

	return &Result{
		RunID:    runID,
		Document: doc.Name,
		Format:   text.Format,
		Text:     text.Body,
		Profile:  profile,
	}, nil
}

// ExtractText runs only the model step on already-extracted text.
func (a *Analyzer) ExtractText(ctx context.Context, text string) (*types.Profile, error) {
	return a.extractText(ctx, uuid.NewString(), text)
}

func (a *Analyzer) extractText(ctx context.Context, runID, text string) (*types.Profile, error) {
	a.emit(runID, StepExtractProfile, false, "extracting profile")
	profile, err := a.extractor.ExtractProfile(ctx, text)
	if err != nil {
		return nil, &StepError{Step: StepExtractProfile, Cause: err}
	}
	a.emit(runID, StepExtractProfile, true, "profile extracted")
	return profile, nil
}

// Scrape fetches a public profile. Unlike ProfileFetcher.Fetch it reports an
// invalid URL as *InvalidProfileURLError.
func (a *Analyzer) Scrape(ctx context.Context, rawURL string) (*types.ScrapedProfile, error) {
	return a.scrape(ctx, uuid.NewString(), rawURL)
}

func (a *Analyzer) scrape(ctx context.Context, runID, rawURL string) (*types.ScrapedProfile, error) {
	if _, ok := scraper.ParseProfileURL(rawURL); !ok {
		return nil, &InvalidProfileURLError{URL: rawURL}
	}
	a.emit(runID, StepScrapeProfile, false, "fetching "+rawURL)
	scraped := a.fetcher.Fetch(ctx, rawURL)
	if scraped == nil {
		return nil, &InvalidProfileURLError{URL: rawURL}
	}
	a.emit(runID, StepScrapeProfile, true, "profile fetched")
	return scraped, nil
}

// CompareURL scrapes rawURL and compares it with an existing resume profile.
func (a *Analyzer) CompareURL(ctx context.Context, resume *types.Profile, rawURL string) (*types.ScrapedProfile, Comparison, error) {
	scraped, err := a.Scrape(ctx, rawURL)
	if err != nil {
		return nil, Comparison{}, err
	}
	return scraped, CompareWithProfile(resume, scraped), nil
}

// AnalyzeWithProfileURL analyzes doc and scrapes rawURL concurrently, then
// compares the two. The URL is checked before any work starts, so an invalid
// URL never costs a model call. If the document fails, the scrape is
// cancelled through the shared context.
func (a *Analyzer) AnalyzeWithProfileURL(ctx context.Context, doc documents.Document, rawURL string) (*ProfileURLResult, error) {
	if _, ok := scraper.ParseProfileURL(rawURL); !ok {
		return nil, &InvalidProfileURLError{URL: rawURL}
	}

	runID := uuid.NewString()
	g, gCtx := errgroup.WithContext(ctx)

	var (
		mu      sync.Mutex
		result  *Result
		scraped *types.ScrapedProfile
	)

	g.Go(func() error {
		r, err := a.analyzeDocument(gCtx, runID, doc)
		if err != nil {
			return err
		}
		mu.Lock()
		result = r
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		s, err := a.scrape(gCtx, runID, rawURL)
		if err != nil {
			return err
		}
		mu.Lock()
		scraped = s
		mu.Unlock()
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if result == nil || scraped == nil {
		return nil, errors.New("analysis finished without results")
	}

	a.emit(runID, StepCompare, false, "comparing resume with profile")
	comparison := CompareWithProfile(result.Profile, scraped)
	a.emit(runID, StepCompare, true, string(comparison.Name))

	a.logger.Info("analysis complete",
		zap.String(logger.FieldRequestID, runID),
		zap.String("name_consistency", string(comparison.Name)),
	)
	return &ProfileURLResult{Result: result, Scraped: scraped, Comparison: comparison}, nil
}
