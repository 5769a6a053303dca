// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import (
	"encoding/json"
	"strings"
)

// CleanJSONBlock strips what models commonly wrap around a JSON document:
// markdown code fences, a prose preamble and trailing commentary.
// Objects win over arrays: every '{' is tried in order before any '[', and
// the first balanced block that is valid JSON is returned. Prose such as
// "see [1]" therefore never shadows the document that follows it. When no
// candidate parses, the first balanced block is returned, or the
// fence-stripped text when there is none.
func CleanJSONBlock(text string) string {
	text = stripCodeFence(strings.TrimSpace(text))

	for _, open := range []byte{'{', '['} {
		if block := firstValidBlock(text, open); block != "" {
			return block
		}
	}

	idx := strings.IndexAny(text, "{[")
	if idx < 0 {
		return text
	}

	candidate := text[idx:]
	var extracted string
	if candidate[0] == '{' {
		extracted = extractJSONObject(candidate)
	} else {
		extracted = extractJSONArray(candidate)
	}
	if extracted == "" {
		return text
	}
	return extracted
}

// firstValidBlock returns the first balanced block opened by open that
// parses as JSON, or "".
func firstValidBlock(text string, open byte) string {
	close := byte('}')
	if open == '[' {
		close = ']'
	}
	for offset := 0; offset < len(text); {
		idx := strings.IndexByte(text[offset:], open)
		if idx < 0 {
			return ""
		}
		start := offset + idx
		if block := extractBalanced(text[start:], open, close); block != "" && json.Valid([]byte(block)) {
			return block
		}
		offset = start + 1
	}
	return ""
}

func stripCodeFence(text string) string {
	// Handle ```json ... ``` blocks
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	// Handle generic ``` ... ``` blocks
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip potential language identifier on first line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	return text
}

// extractJSONObject returns the balanced {...} at the start of text, or "".
func extractJSONObject(text string) string {
	return extractBalanced(text, '{', '}')
}

// extractJSONArray returns the balanced [...] at the start of text, or "".
func extractJSONArray(text string) string {
	return extractBalanced(text, '[', ']')
}

// extractBalanced scans from an opening delimiter to its matching close,
// ignoring delimiters inside string literals.
func extractBalanced(text string, open, close byte) string {
	if text == "" || text[0] != open {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return text[:i+1]
			}
		}
	}
	return ""
}
