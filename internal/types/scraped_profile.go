package types

import "encoding/json"

// ScrapedProfile is the record produced by the public profile scraper.
// It is built fresh for every scrape and handed to the caller.
type ScrapedProfile struct {
	Name       string   `json:"Name"`
	Headline   string   `json:"Headline"`
	Location   string   `json:"Location"`
	Industry   string   `json:"Industry"`
	Summary    string   `json:"Summary"`
	Experience string   `json:"Experience"`
	Education  string   `json:"Education"`
	Skills     []string `json:"Skills"`
	ProfileURL string   `json:"Profile_URL"`
	Username   string   `json:"Username"`
}

// AsProfile converts the scraped record into a Profile. Experience and
// education become text sections; the scraper-only fields are kept as extra keys.
func (s *ScrapedProfile) AsProfile() *Profile {
	p := &Profile{
		Skills: append([]string{}, s.Skills...),
	}
	if s.Name != "" {
		p.Name = StringPtr(s.Name)
	}
	if s.Experience != "" {
		p.Experience = NewTextSection[ExperienceEntry](s.Experience)
	}
	if s.Education != "" {
		p.Education = NewTextSection[EducationEntry](s.Education)
	}

	extras := map[string]string{
		"Headline":    s.Headline,
		"Location":    s.Location,
		"Industry":    s.Industry,
		"Summary":     s.Summary,
		"Profile_URL": s.ProfileURL,
		"Username":    s.Username,
	}
	for key, value := range extras {
		if value == "" {
			continue
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			continue
		}
		if p.Extra == nil {
			p.Extra = make(map[string]json.RawMessage)
		}
		p.Extra[key] = encoded
	}
	return p
}
