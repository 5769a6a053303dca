package types

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// EducationEntry is one segmented education record.
type EducationEntry struct {
	Degree      string         `json:"degree,omitempty" mapstructure:"degree"`
	Field       string         `json:"field,omitempty" mapstructure:"field"`
	Institution string         `json:"institution,omitempty" mapstructure:"institution"`
	Year        string         `json:"year,omitempty" mapstructure:"year"`
	GPA         string         `json:"gpa,omitempty" mapstructure:"gpa"`
	Extra       map[string]any `json:"-" mapstructure:",remain"`
}

// ExperienceEntry is one internship or work-experience record.
type ExperienceEntry struct {
	Company     string         `json:"company,omitempty" mapstructure:"company"`
	Position    string         `json:"position,omitempty" mapstructure:"position"`
	Duration    string         `json:"duration,omitempty" mapstructure:"duration"`
	Description string         `json:"description,omitempty" mapstructure:"description"`
	Extra       map[string]any `json:"-" mapstructure:",remain"`
}

// ProjectEntry is one project record.
type ProjectEntry struct {
	Name         string         `json:"name,omitempty" mapstructure:"name"`
	Description  string         `json:"description,omitempty" mapstructure:"description"`
	Technologies []string       `json:"technologies,omitempty" mapstructure:"technologies"`
	Extra        map[string]any `json:"-" mapstructure:",remain"`
}

// MarshalJSON includes unrecognised keys next to the known fields.
func (e EducationEntry) MarshalJSON() ([]byte, error) {
	type plain EducationEntry
	return marshalWithExtra(plain(e), e.Extra)
}

// MarshalJSON includes unrecognised keys next to the known fields.
func (e ExperienceEntry) MarshalJSON() ([]byte, error) {
	type plain ExperienceEntry
	return marshalWithExtra(plain(e), e.Extra)
}

// MarshalJSON includes unrecognised keys next to the known fields.
func (e ProjectEntry) MarshalJSON() ([]byte, error) {
	type plain ProjectEntry
	return marshalWithExtra(plain(e), e.Extra)
}

// Alias tables map normalised source keys onto the entry's mapstructure keys.
var (
	educationKeys = map[string]string{
		"degree":         "degree",
		"qualification":  "degree",
		"course":         "degree",
		"field":          "field",
		"fieldofstudy":   "field",
		"major":          "field",
		"specialization": "field",
		"specialisation": "field",
		"stream":         "field",
		"institution":    "institution",
		"institute":      "institution",
		"university":     "institution",
		"college":        "institution",
		"school":         "institution",
		"schooling":      "institution",
		"year":           "year",
		"graduationyear": "year",
		"passingyear":    "year",
		"dates":          "year",
		"duration":       "year",
		"gpa":            "gpa",
		"cgpa":           "gpa",
		"grade":          "gpa",
		"percentage":     "gpa",
		"score":          "gpa",
	}
	experienceKeys = map[string]string{
		"company":          "company",
		"companyname":      "company",
		"employer":         "company",
		"organization":     "company",
		"organisation":     "company",
		"position":         "position",
		"title":            "position",
		"jobtitle":         "position",
		"role":             "position",
		"designation":      "position",
		"duration":         "duration",
		"dates":            "duration",
		"date":             "duration",
		"period":           "duration",
		"tenure":           "duration",
		"years":            "duration",
		"description":      "description",
		"responsibilities": "description",
		"details":          "description",
		"summary":          "description",
		"achievements":     "description",
	}
	projectKeys = map[string]string{
		"name":             "name",
		"projectname":      "name",
		"project":          "name",
		"title":            "name",
		"description":      "description",
		"details":          "description",
		"summary":          "description",
		"technologies":     "technologies",
		"technologiesused": "technologies",
		"tech":             "technologies",
		"techstack":        "technologies",
		"stack":            "technologies",
		"tools":            "technologies",
	}
)

func decodeEducationEntry(raw map[string]any) (EducationEntry, error) {
	var entry EducationEntry
	err := decodeEntry(raw, educationKeys, nil, &entry)
	return entry, err
}

func decodeExperienceEntry(raw map[string]any) (ExperienceEntry, error) {
	var entry ExperienceEntry
	err := decodeEntry(raw, experienceKeys, nil, &entry)
	return entry, err
}

func decodeProjectEntry(raw map[string]any) (ProjectEntry, error) {
	var entry ProjectEntry
	err := decodeEntry(raw, projectKeys, map[string]bool{"technologies": true}, &entry)
	if err != nil {
		return entry, err
	}
	entry.Technologies = cleanList(entry.Technologies)
	return entry, nil
}

// decodeEntry renames aliased keys, flattens values into the shapes the entry
// expects and lets mapstructure do the weakly typed assignment. Keys that are
// exact field names win over aliases; losing or unknown keys land in Extra.
func decodeEntry(raw map[string]any, aliases map[string]string, listFields map[string]bool, out any) error {
	input := make(map[string]any, len(raw))
	extra := make(map[string]any)

	for key, value := range raw {
		if target, ok := aliases[key]; ok && target == key && value != nil {
			input[target] = value
		}
	}
	for _, key := range sortedKeys(raw) {
		value := raw[key]
		target, ok := aliases[normalizeKey(key)]
		if ok && target == key {
			continue
		}
		if ok {
			if _, taken := input[target]; !taken {
				input[target] = value
				continue
			}
		}
		extra[key] = value
	}

	for key, value := range input {
		if value == nil {
			delete(input, key)
			continue
		}
		if listFields[key] {
			// plain strings are split by the decode hook
			if _, isString := value.(string); !isString {
				input[key] = flattenAnyList(value)
			}
		} else {
			input[key] = renderAny(value)
		}
	}
	for key, value := range extra {
		input[key] = value
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("failed to create entry decoder: %w", err)
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("failed to decode entry: %w", err)
	}
	return nil
}

// marshalWithExtra serialises v and merges extra keys that do not collide with known ones.
func marshalWithExtra(v any, extra map[string]any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return data, err
	}
	var merged map[string]any
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for key, value := range extra {
		if _, exists := merged[key]; !exists {
			merged[key] = value
		}
	}
	return json.Marshal(merged)
}

// cleanList trims every item and drops empty ones, keeping order.
func cleanList(items []string) []string {
	if items == nil {
		return nil
	}
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			cleaned = append(cleaned, item)
		}
	}
	return cleaned
}
