package processing

import (
	"strings"

	"github.com/skillsenselab/meetstream/internal/inference"
)

// BuildSummaryFragments maps a summarization payload onto expected transcript
// segments, one fragment per segment. Explicit fragment lists are preferred
// ("fragments", then "highlights"); otherwise the prose summary is split into
// sentences. The result is truncated or right-padded with empty strings to
// exactly expected entries.
func BuildSummaryFragments(payload inference.Payload, expected int) []string {
	if expected == 0 {
		return nil
	}

	var fragments []string

	// "highlights" only stands in when "fragments" is absent or empty. A
	// present but unusable "fragments" value falls through to the prose
	// summary instead.
	candidates := payload["fragments"]
	if !hasValue(candidates) {
		candidates = payload["highlights"]
	}
	if list, ok := candidates.([]any); ok {
		for _, item := range list {
			if s, ok := item.(string); ok {
				if cleaned := strings.TrimSpace(s); cleaned != "" {
					fragments = append(fragments, cleaned)
				}
			}
		}
	}

	if len(fragments) == 0 {
		if summary, ok := payload["summary"].(string); ok {
			fragments = splitSentences(summary)
		}
	}

	if len(fragments) == 0 {
		return make([]string, expected)
	}

	if len(fragments) >= expected {
		return fragments[:expected]
	}

	padded := make([]string, expected)
	copy(padded, fragments)
	return padded
}

// ExtractSummary returns the final summary text: the payload's explicit
// summary field when present, else the non-empty fragments joined by spaces.
func ExtractSummary(payload inference.Payload, fragments []string) string {
	if summary, ok := payload["summary"].(string); ok {
		if cleaned := strings.TrimSpace(summary); cleaned != "" {
			return cleaned
		}
	}

	var parts []string
	for _, fragment := range fragments {
		if fragment != "" {
			parts = append(parts, fragment)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// hasValue reports whether a decoded JSON value is present and non-empty.
// Nil, false, zero numbers, and empty strings, lists, and objects all count
// as absent.
func hasValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

// splitSentences breaks prose at terminal punctuation followed by whitespace.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		current.WriteRune(runes[i])
		if isTerminal(runes[i]) {
			// Consume any run of terminal punctuation.
			for i+1 < len(runes) && isTerminal(runes[i+1]) {
				i++
				current.WriteRune(runes[i])
			}
			if i+1 >= len(runes) || isSpace(runes[i+1]) {
				if s := strings.TrimSpace(current.String()); s != "" {
					sentences = append(sentences, s)
				}
				current.Reset()
			}
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
