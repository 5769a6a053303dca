package scraper

import (
	"net/url"
	"strings"
)

const (
	// ProfileHost must appear in the URL's authority.
	ProfileHost = "linkedin.com"
	// ProfileSegment must appear in the URL's path; the username follows it.
	ProfileSegment = "/in/"
)

// Target is a profile URL that passed the validity gate.
type Target struct {
	URL      string
	Username string
}

// ParseProfileURL checks that raw is a public profile URL and derives the
// username: the first path segment after ProfileSegment, URL-decoded, with
// hyphens kept. It performs no network access.
func ParseProfileURL(raw string) (Target, bool) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Target{}, false
	}
	if !strings.Contains(strings.ToLower(parsed.Host), ProfileHost) {
		return Target{}, false
	}

	path := parsed.EscapedPath()
	idx := strings.Index(path, ProfileSegment)
	if idx < 0 {
		return Target{}, false
	}

	segment := path[idx+len(ProfileSegment):]
	if slash := strings.IndexByte(segment, '/'); slash >= 0 {
		segment = segment[:slash]
	}
	username, err := url.PathUnescape(segment)
	if err != nil {
		return Target{}, false
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return Target{}, false
	}

	return Target{URL: strings.TrimSpace(raw), Username: username}, true
}
