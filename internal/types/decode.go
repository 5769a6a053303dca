package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// member is one key/value pair of a JSON object, kept in document order.
type member struct {
	Key   string
	Value json.RawMessage
}

// objectMembers returns the members of a JSON object in the order they appear.
func objectMembers(data []byte) ([]member, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected JSON object, got %s", describeToken(tok))
	}

	var members []member
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("invalid value for %q: %w", key, err)
		}
		members = append(members, member{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return members, nil
}

func describeToken(tok json.Token) string {
	switch tok.(type) {
	case json.Delim:
		if tok == json.Delim('[') {
			return "array"
		}
		return fmt.Sprintf("%v", tok)
	case string:
		return "string"
	case float64, json.Number:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", tok)
	}
}

// leadingByte returns the first non-space byte of a JSON value, or 0 if empty.
func leadingByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

func isNull(raw json.RawMessage) bool {
	return leadingByte(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// normalizeKey lower-cases a key and drops everything but letters and digits,
// so "Work Experience", "work_experience" and "workExperience" compare equal.
func normalizeKey(key string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(key) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// renderAny turns a decoded JSON value into display text.
func renderAny(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := renderAny(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		parts := make([]string, 0, len(val))
		for _, key := range sortedKeys(val) {
			if s := renderAny(val[key]); s != "" {
				parts = append(parts, key+": "+s)
			}
		}
		return strings.Join(parts, "; ")
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

// nameKeys are the keys used to label an object that stands for a single item.
var nameKeys = []string{"name", "skill", "title", "certification", "value"}

// itemName returns the labelling value of an object such as {"name": "Go", "level": "expert"}.
func itemName(obj map[string]any) (string, bool) {
	for _, want := range nameKeys {
		for key, value := range obj {
			if normalizeKey(key) != want {
				continue
			}
			if s, ok := value.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s), true
			}
		}
	}
	return "", false
}

// flattenAnyList flattens nested decoded JSON into a list of strings.
// Strings are split on commas and line breaks.
func flattenAnyList(v any) []string {
	return flattenWith(v, splitSkills)
}

func flattenWith(v any, split func(string) []string) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		return split(val)
	case []any:
		var out []string
		for _, item := range val {
			switch it := item.(type) {
			case string:
				if s := strings.TrimSpace(it); s != "" {
					out = append(out, s)
				}
			default:
				out = append(out, flattenWith(it, split)...)
			}
		}
		return out
	case map[string]any:
		if name, ok := itemName(val); ok {
			return []string{name}
		}
		var out []string
		for _, key := range sortedKeys(val) {
			out = append(out, flattenWith(val[key], split)...)
		}
		return out
	default:
		if s := renderAny(val); s != "" {
			return []string{s}
		}
		return nil
	}
}

func splitOn(text string, seps string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return strings.ContainsRune(seps, r)
	})
	out := make([]string, 0, len(fields))
	for _, field := range fields {
		field = strings.TrimLeft(strings.TrimSpace(field), "-*• ")
		if field = strings.TrimSpace(field); field != "" {
			out = append(out, field)
		}
	}
	return out
}

func splitSkills(text string) []string {
	return splitOn(text, ",;\n•")
}

func splitLines(text string) []string {
	return splitOn(text, "\n;•")
}

// decodeStringList decodes a list-of-strings field. JSON null yields nil
// (absent); every other shape yields a non-nil slice, possibly empty.
// Objects are flattened in document order, which keeps skills grouped by
// category in the order the model listed them.
func decodeStringList(raw json.RawMessage, split func(string) []string) ([]string, error) {
	if isNull(raw) {
		return nil, nil
	}

	out := []string{}
	switch leadingByte(raw) {
	case '{':
		members, err := objectMembers(raw)
		if err != nil {
			return nil, err
		}
		var whole map[string]any
		if err := json.Unmarshal(raw, &whole); err != nil {
			return nil, err
		}
		if name, ok := itemName(whole); ok {
			return append(out, name), nil
		}
		for _, m := range members {
			items, err := decodeStringList(m.Value, split)
			if err != nil {
				return nil, err
			}
			out = append(out, items...)
		}
		return out, nil
	default:
		var value any
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, err
		}
		return append(out, flattenWith(value, split)...), nil
	}
}

// decodeScalar decodes a single-valued text field. Null and blank strings are
// absent; numbers and booleans are rendered; arrays are joined with ", ".
func decodeScalar(raw json.RawMessage) (*string, error) {
	if isNull(raw) {
		return nil, nil
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, err
	}
	if _, isObject := value.(map[string]any); isObject {
		return nil, fmt.Errorf("expected text, got object")
	}
	text := renderAny(value)
	if text == "" {
		return nil, nil
	}
	return &text, nil
}

// decodeSection decides the shape of a dual-representation field.
//
//	string            -> text
//	object            -> one entry
//	array of objects  -> entries (empty array -> no entries)
//	any other array   -> text, one line per element
//	number, boolean   -> text
func decodeSection[T any](raw json.RawMessage, decode func(map[string]any) (T, error)) (*Section[T], error) {
	if isNull(raw) {
		return nil, nil
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, err
	}

	switch val := value.(type) {
	case string:
		text := strings.TrimSpace(val)
		if text == "" {
			return nil, nil
		}
		return NewTextSection[T](text), nil
	case map[string]any:
		entry, err := decode(val)
		if err != nil {
			return nil, err
		}
		return NewEntrySection([]T{entry}), nil
	case []any:
		if allObjects(val) {
			entries := make([]T, 0, len(val))
			for i, item := range val {
				entry, err := decode(item.(map[string]any))
				if err != nil {
					return nil, fmt.Errorf("entry %d: %w", i, err)
				}
				entries = append(entries, entry)
			}
			return NewEntrySection(entries), nil
		}
		lines := make([]string, 0, len(val))
		for _, item := range val {
			if s := renderAny(item); s != "" {
				lines = append(lines, s)
			}
		}
		return NewTextSection[T](strings.Join(lines, "\n")), nil
	default:
		return NewTextSection[T](renderAny(val)), nil
	}
}

func allObjects(items []any) bool {
	for _, item := range items {
		if _, ok := item.(map[string]any); !ok {
			return false
		}
	}
	return true
}

// decodeProjects accepts a list of project objects, a list of names, a block
// of text with one project per line, a single project object, or an object
// keyed by project name.
func decodeProjects(raw json.RawMessage) ([]ProjectEntry, error) {
	if isNull(raw) {
		return nil, nil
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, err
	}

	projects := []ProjectEntry{}
	switch val := value.(type) {
	case string:
		for _, line := range splitLines(val) {
			projects = append(projects, ProjectEntry{Name: line})
		}
	case []any:
		for i, item := range val {
			switch it := item.(type) {
			case map[string]any:
				entry, err := decodeProjectEntry(it)
				if err != nil {
					return nil, fmt.Errorf("project %d: %w", i, err)
				}
				projects = append(projects, entry)
			default:
				if name := renderAny(it); name != "" {
					projects = append(projects, ProjectEntry{Name: name})
				}
			}
		}
	case map[string]any:
		if looksLikeProject(val) {
			entry, err := decodeProjectEntry(val)
			if err != nil {
				return nil, err
			}
			return append(projects, entry), nil
		}
		members, err := objectMembers(raw)
		if err != nil {
			return nil, err
		}
		for _, m := range members {
			entry, err := projectFromNamedValue(m.Key, val[m.Key])
			if err != nil {
				return nil, fmt.Errorf("project %q: %w", m.Key, err)
			}
			projects = append(projects, entry)
		}
	default:
		if name := renderAny(val); name != "" {
			projects = append(projects, ProjectEntry{Name: name})
		}
	}
	return projects, nil
}

func looksLikeProject(obj map[string]any) bool {
	for key := range obj {
		if _, ok := projectKeys[normalizeKey(key)]; ok {
			return true
		}
	}
	return false
}

func projectFromNamedValue(name string, value any) (ProjectEntry, error) {
	switch val := value.(type) {
	case map[string]any:
		entry, err := decodeProjectEntry(val)
		if err != nil {
			return entry, err
		}
		if entry.Name == "" {
			entry.Name = name
		}
		return entry, nil
	case []any:
		return ProjectEntry{Name: name, Technologies: flattenAnyList(val)}, nil
	default:
		return ProjectEntry{Name: name, Description: renderAny(val)}, nil
	}
}
