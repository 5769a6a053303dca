// Package scraper fetches public profile pages and turns them into
// ScrapedProfile records. It is best effort: every valid profile URL yields a
// record, with synthetic data standing in for whatever could not be scraped.
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/profile-analyzer/internal/fetch"
	"github.com/jonathan/profile-analyzer/internal/logger"
	"github.com/jonathan/profile-analyzer/internal/types"
)

// Selectors are tried in order; the first one with text wins.
var (
	nameSelectors = []string{
		"h1.text-heading-xlarge",
		".text-heading-xlarge",
		`h1[data-test-id="hero__name"]`,
		".pv-text-details__left-panel h1",
	}
	headlineSelectors = []string{
		".text-body-medium.break-words",
		".pv-text-details__left-panel .text-body-medium",
		`[data-test-id="hero__headline"]`,
	}
	locationSelectors = []string{
		".text-body-small.inline.t-black--light.break-words",
		".pv-text-details__left-panel .text-body-small",
	}
	summarySelectors = []string{
		`[data-section="summary"] .core-section-container__content`,
		".pv-about__summary-text",
		"section.summary p",
	}
)

// Scraper fetches profile pages. The zero value is not usable; call New.
type Scraper struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	logger    *zap.Logger
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithHTTPClient sets the client used for page requests.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Scraper) {
		if c != nil {
			s.client = c
		}
	}
}

// WithTimeout bounds each page request. The default is 10 seconds.
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithUserAgent overrides the browser User-Agent.
func WithUserAgent(ua string) Option {
	return func(s *Scraper) {
		if ua = strings.TrimSpace(ua); ua != "" {
			s.userAgent = ua
		}
	}
}

// WithLogger sets the logger used to record why a scrape fell back to synthetic data.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scraper) {
		s.logger = logger.OrNop(l)
	}
}

// New returns a Scraper.
func New(opts ...Option) *Scraper {
	s := &Scraper{
		client:    http.DefaultClient,
		timeout:   fetch.DefaultTimeout,
		userAgent: fetch.DefaultUserAgent,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch returns nil without any network access when rawURL is not a profile
// URL. Otherwise it makes one GET request and always returns a record:
// transport errors, non-200 responses and parse failures all end in the same
// synthetic fallback and are not reported to the caller.
func (s *Scraper) Fetch(ctx context.Context, rawURL string) *types.ScrapedProfile {
	target, ok := ParseProfileURL(rawURL)
	if !ok {
		return nil
	}

	partial, err := s.scrape(ctx, target)
	if err != nil {
		s.logger.Debug("profile scrape failed, using synthetic data",
			zap.String("url", target.URL),
			zap.String("username", target.Username),
			zap.Error(err),
		)
	}
	return synthesize(target, partial)
}

// scrape is the only guarded region: any failure, including a panic while
// parsing, yields nil signals and an error describing it.
func (s *Scraper) scrape(ctx context.Context, target Target) (partial *signals, err error) {
	defer func() {
		if r := recover(); r != nil {
			partial = nil
			err = fmt.Errorf("panic while scraping: %v", r)
		}
	}()

	opts := fetch.DefaultOptions()
	opts.Client = s.client
	opts.Timeout = s.timeout
	opts.UserAgent = s.userAgent

	result, err := fetch.URL(ctx, target.URL, opts)
	if err != nil {
		return nil, err
	}
	return parsePage(result.HTML)
}

// parsePage reads the name, headline, location and summary from a profile
// page. Missing name is left empty for the caller to derive; missing headline
// and location get page-level defaults.
func parsePage(html string) (*signals, error) {
	doc, err := fetch.ParseHTML(html)
	if err != nil {
		return nil, err
	}

	found := &signals{
		Headline: PageHeadline,
		Location: PageLocation,
	}
	if name, ok := fetch.FirstText(doc, nameSelectors); ok {
		found.Name = strings.Join(strings.Fields(name), " ")
	}
	if headline, ok := fetch.FirstText(doc, headlineSelectors); ok {
		found.Headline = strings.Join(strings.Fields(headline), " ")
	}
	if location, ok := fetch.FirstText(doc, locationSelectors); ok {
		found.Location = strings.Join(strings.Fields(location), " ")
	}
	if summary, ok := fetch.FirstText(doc, summarySelectors); ok {
		found.Summary = summary
	}
	return found, nil
}
