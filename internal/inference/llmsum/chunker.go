package llmsum

import "strings"

// SplitChunks splits text into context-window-sized chunks with a trailing
// overlap between consecutive chunks. Boundaries prefer, in order: the last
// paragraph break in the window, the last sentence end, the last word break,
// then a hard cut. overlap must be strictly less than size; Config.Validate
// enforces this before a Summarizer is built.
func SplitChunks(text string, size, overlap int) []string {
	if len(text) <= size {
		return []string{text}
	}

	var chunks []string
	start := 0
	n := len(text)
	for start < n {
		end := start + size
		if end > n {
			end = n
		}
		boundary := end
		if end < n {
			boundary = locateBoundary(text, start, end)
		}
		if boundary < start+1 {
			boundary = start + 1
		}

		if chunk := strings.TrimSpace(text[start:boundary]); chunk != "" {
			chunks = append(chunks, chunk)
		}

		if boundary >= n {
			break
		}

		ov := overlap
		if ov > size-1 {
			ov = size - 1
		}
		start = boundary - ov
		if start < 0 {
			start = 0
		}
	}
	return chunks
}

// locateBoundary selects a natural break point within text[start:end).
func locateBoundary(text string, start, end int) int {
	window := text[start:end]

	if i := strings.LastIndex(window, "\n\n"); i > 0 {
		return start + i
	}
	if i := strings.LastIndex(window, ". "); i > 0 {
		return start + i + 1
	}
	if i := strings.LastIndex(window, " "); i > 0 {
		return start + i
	}
	return end
}
