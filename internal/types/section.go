// Package types provides type definitions for structured data used throughout the profile-analyzer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"strings"
)

// SectionKind identifies which shape a Section holds.
type SectionKind int

const (
	// SectionText is a raw, unsegmented block of text
	SectionText SectionKind = iota + 1
	// SectionEntries is an ordered list of structured entries
	SectionEntries
)

// String returns the lower-case name of the kind.
func (k SectionKind) String() string {
	switch k {
	case SectionText:
		return "text"
	case SectionEntries:
		return "entries"
	default:
		return "unknown"
	}
}

// Section is a profile field that is either raw text or a list of structured entries.
// The shape is decided once when the section is decoded and never changes afterwards.
type Section[T any] struct {
	kind    SectionKind
	text    string
	entries []T
}

// NewTextSection returns a section holding raw text.
func NewTextSection[T any](text string) *Section[T] {
	return &Section[T]{kind: SectionText, text: text}
}

// NewEntrySection returns a section holding structured entries. A nil slice is stored as empty.
func NewEntrySection[T any](entries []T) *Section[T] {
	if entries == nil {
		entries = []T{}
	}
	return &Section[T]{kind: SectionEntries, entries: entries}
}

// Kind reports the shape of the section.
func (s *Section[T]) Kind() SectionKind {
	return s.kind
}

// Text returns the raw text and true when the section is a text section.
func (s *Section[T]) Text() (string, bool) {
	if s.kind != SectionText {
		return "", false
	}
	return s.text, true
}

// Entries returns the entries and true when the section is an entry section.
func (s *Section[T]) Entries() ([]T, bool) {
	if s.kind != SectionEntries {
		return nil, false
	}
	return s.entries, true
}

// Len returns the number of entries, or the number of non-empty lines for a text section.
func (s *Section[T]) Len() int {
	if s == nil {
		return 0
	}
	if s.kind == SectionEntries {
		return len(s.entries)
	}
	n := 0
	for _, line := range strings.Split(s.text, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}

// MarshalJSON writes text sections as a JSON string and entry sections as a JSON array.
func (s *Section[T]) MarshalJSON() ([]byte, error) {
	if s.kind == SectionText {
		return json.Marshal(s.text)
	}
	if s.entries == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.entries)
}
