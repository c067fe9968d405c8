package processing

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/skillsenselab/meetstream/internal/inference"
)

// NormalizeTranscript converts a raw transcription payload into an ordered
// list of transcript segments. Malformed entries are dropped silently; when no
// structured segment list is usable the top-level text field becomes a single
// unbounded segment. An empty result is valid, not an error.
func NormalizeTranscript(payload inference.Payload) []TranscriptSegment {
	var normalized []TranscriptSegment

	if segments, ok := payload["segments"].([]any); ok {
		for _, raw := range segments {
			entry, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			text, ok := entry["text"].(string)
			if !ok {
				continue
			}
			cleaned := strings.TrimSpace(text)
			if cleaned == "" {
				continue
			}
			normalized = append(normalized, TranscriptSegment{
				Start:      asFloat(entry["start"]),
				End:        asFloat(entry["end"]),
				Text:       cleaned,
				Confidence: asFloat(entry["confidence"]),
			})
		}
	}

	if len(normalized) > 0 {
		sortByStart(normalized, func(s TranscriptSegment) *float64 { return s.Start })
		return normalized
	}

	if text, ok := payload["text"].(string); ok {
		if cleaned := strings.TrimSpace(text); cleaned != "" {
			return []TranscriptSegment{{
				Text:       cleaned,
				Confidence: asFloat(payload["confidence"]),
			}}
		}
	}

	return nil
}

// NormalizeDiarization converts a raw diarization payload into an ordered list
// of speaker segments. There is no whole-payload fallback: without a usable
// segments list the result is empty.
func NormalizeDiarization(payload inference.Payload) []DiarizationSegment {
	segments, ok := payload["segments"].([]any)
	if !ok {
		return nil
	}

	var normalized []DiarizationSegment
	for _, raw := range segments {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		speaker, ok := entry["speaker"].(string)
		if !ok {
			continue
		}
		normalized = append(normalized, DiarizationSegment{
			Start:   asFloat(entry["start"]),
			End:     asFloat(entry["end"]),
			Speaker: speaker,
		})
	}

	sortByStart(normalized, func(s DiarizationSegment) *float64 { return s.Start })
	return normalized
}

// BuildSummaryInput joins the non-empty transcript segment texts with single
// spaces for the summarization call, falling back to the top-level text field.
func BuildSummaryInput(payload inference.Payload) string {
	if segments, ok := payload["segments"].([]any); ok {
		var texts []string
		for _, raw := range segments {
			entry, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			if text, ok := entry["text"].(string); ok {
				if cleaned := strings.TrimSpace(text); cleaned != "" {
					texts = append(texts, cleaned)
				}
			}
		}
		if len(texts) > 0 {
			return strings.Join(texts, " ")
		}
	}

	if text, ok := payload["text"].(string); ok {
		return strings.TrimSpace(text)
	}
	return ""
}

// sortByStart orders segments by start ascending with nil sorting last. The
// sort is stable so equal starts keep payload order.
func sortByStart[T any](segments []T, start func(T) *float64) {
	sort.SliceStable(segments, func(i, j int) bool {
		si, sj := start(segments[i]), start(segments[j])
		if si == nil {
			return false
		}
		if sj == nil {
			return true
		}
		return *si < *sj
	})
}

// asFloat coerces numeric-like payload values to a float pointer, returning
// nil for anything that cannot be interpreted as a number.
func asFloat(value any) *float64 {
	switch v := value.(type) {
	case float64:
		return &v
	case float32:
		f := float64(v)
		return &f
	case int:
		f := float64(v)
		return &f
	case int64:
		f := float64(v)
		return &f
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return &f
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return &f
		}
	}
	return nil
}
