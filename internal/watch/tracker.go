package watch

import (
	"math"
)

const DefaultThreshold = 80

type State int

const (
	StateIdle State = iota
	StateTracking
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateTracking:
		return "tracking"
	case StateCompleted:
		return "completed"
	default:
		return "idle"
	}
}

// Progress is the tracker output for one sample.
type Progress struct {
	Percent       int
	Completed     bool
	JustCompleted bool
}

// Tracker turns a stream of playback positions into a watched percentage and a
// completion signal that fires at most once. It is not safe for concurrent use.
type Tracker struct {
	lessonID  string
	threshold int
	duration  float64
	last      float64
	segments  []Segment
	state     State

	OnPercent   func(percent int)
	OnCompleted func(lessonID string)
}

// NewTracker returns an idle tracker. A threshold outside 1..100 falls back to
// DefaultThreshold.
func NewTracker(lessonID string, threshold int) *Tracker {
	if threshold < 1 || threshold > 100 {
		threshold = DefaultThreshold
	}
	return &Tracker{lessonID: lessonID, threshold: threshold}
}

func (t *Tracker) LessonID() string  { return t.lessonID }
func (t *Tracker) Threshold() int    { return t.threshold }
func (t *Tracker) Duration() float64 { return t.duration }
func (t *Tracker) State() State      { return t.state }

func (t *Tracker) Segments() []Segment {
	return append([]Segment(nil), t.segments...)
}

func (t *Tracker) Percent() int {
	return Percent(t.segments, t.duration)
}

// SetDuration records the media length once metadata is known. Non-positive
// or non-finite values are ignored.
func (t *Tracker) SetDuration(d float64) {
	if d <= 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		return
	}
	t.duration = d
	if t.state == StateIdle {
		t.state = StateTracking
	}
}

// Sample feeds the current playback position in seconds. Forward moves of
// more than MinAdvance add the span since the previous sample; seeks backward
// and tiny moves only reposition.
func (t *Tracker) Sample(pos float64) Progress {
	if math.IsNaN(pos) || math.IsInf(pos, 0) {
		return t.progress(false)
	}

	if t.state != StateIdle && pos > t.last+MinAdvance {
		t.segments = Merge(append(t.segments, Segment{Start: math.Max(0, t.last), End: pos}))
	}
	t.last = pos

	percent := t.Percent()
	if t.OnPercent != nil {
		t.OnPercent(percent)
	}

	just := false
	if t.state == StateTracking && percent >= t.threshold {
		t.state = StateCompleted
		just = true
		if t.OnCompleted != nil {
			t.OnCompleted(t.lessonID)
		}
	}
	return t.progress(just)
}

func (t *Tracker) progress(just bool) Progress {
	return Progress{
		Percent:       t.Percent(),
		Completed:     t.state == StateCompleted,
		JustCompleted: just,
	}
}
