package reservation

import "time"

// Interval is the half-open span [Start, Start+Duration).
type Interval struct {
	Start    time.Time
	Duration time.Duration
}

func NewInterval(start time.Time, d time.Duration) Interval {
	return Interval{Start: start, Duration: d}
}

func (i Interval) End() time.Time {
	return i.Start.Add(i.Duration)
}

// Overlaps uses strict inequalities on both sides, so an interval that ends
// exactly when the other begins does not overlap it.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End()) && o.Start.Before(i.End())
}

// Overlap is the symmetric form of Interval.Overlaps.
func Overlap(a, b Interval) bool {
	return a.Overlaps(b)
}
