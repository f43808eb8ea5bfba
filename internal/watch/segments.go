package watch

import (
	"math"
	"sort"
)

const (
	// MinAdvance is how far playback must move forward between two samples
	// before the span between them counts as watched.
	MinAdvance = 0.3
	// GapTolerance joins segments separated by at most this many seconds.
	GapTolerance = 0.5
)

// Segment is a watched span [Start, End) in seconds.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func (s Segment) Len() float64 {
	return s.End - s.Start
}

// Merge returns segs normalized, sorted by start and joined wherever the next
// segment starts within GapTolerance of the current end. The input is not modified.
func Merge(segs []Segment) []Segment {
	if len(segs) == 0 {
		return nil
	}

	s := make([]Segment, len(segs))
	for i, seg := range segs {
		s[i] = Segment{Start: math.Min(seg.Start, seg.End), End: math.Max(seg.Start, seg.End)}
	}
	sort.Slice(s, func(i, j int) bool { return s[i].Start < s[j].Start })

	merged := make([]Segment, 0, len(s))
	cur := s[0]
	for _, next := range s[1:] {
		if next.Start <= cur.End+GapTolerance {
			cur.End = math.Max(cur.End, next.End)
			continue
		}
		merged = append(merged, cur)
		cur = next
	}
	return append(merged, cur)
}

// Covered sums the merged segment lengths clipped to [0, duration].
func Covered(segs []Segment, duration float64) float64 {
	if len(segs) == 0 || duration <= 0 {
		return 0
	}
	sum := 0.0
	for _, seg := range Merge(segs) {
		sum += math.Max(0, math.Min(seg.End, duration)-math.Max(0, seg.Start))
	}
	return math.Min(sum, duration)
}

// Percent is round(100 * covered / duration), 0 for an unknown duration.
func Percent(segs []Segment, duration float64) int {
	if duration <= 0 {
		return 0
	}
	return int(math.Round(Covered(segs, duration) / duration * 100))
}
