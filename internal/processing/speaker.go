package processing

import "math"

// UnknownSpeaker is the sentinel label for transcript segments that no
// diarization segment covers.
const UnknownSpeaker = "Unknown"

// ResolveSpeaker matches a transcript segment to a speaker by interval
// overlap. Diarization segments are scanned in sorted order and the first
// overlapping one wins; a segment with both bounds nil is a global fallback.
// A transcript segment with both bounds nil takes the first diarization
// segment's speaker. Diarization segments are expected to tile the timeline
// without overlap, so first-match is a deterministic tie-break.
func ResolveSpeaker(segment TranscriptSegment, diarization []DiarizationSegment) string {
	if segment.Start == nil && segment.End == nil {
		if len(diarization) > 0 {
			return diarization[0].Speaker
		}
		return UnknownSpeaker
	}

	for _, diar := range diarization {
		if diar.Start == nil && diar.End == nil {
			return diar.Speaker
		}
		if intervalsOverlap(segment.Start, segment.End, diar.Start, diar.End) {
			return diar.Speaker
		}
	}

	return UnknownSpeaker
}

// intervalsOverlap reports whether two half-open intervals [s1,e1) and
// [s2,e2) intersect. A nil start is -inf, a nil end is +inf.
func intervalsOverlap(s1, e1, s2, e2 *float64) bool {
	start1 := orInf(s1, math.Inf(-1))
	end1 := orInf(e1, math.Inf(1))
	start2 := orInf(s2, math.Inf(-1))
	end2 := orInf(e2, math.Inf(1))

	return start1 < end2 && end1 > start2
}

func orInf(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
