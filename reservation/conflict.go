package reservation

import (
	"fmt"
	"strings"
	"time"

	"github.com/yeremiapane/table-reservation/models"
)

// Candidate is a booking request that has not been stored yet.
type Candidate struct {
	Table    string
	Date     string
	Time     string
	Duration time.Duration
}

// ConflictResult reports the first overlapping booking, if any.
type ConflictResult struct {
	Table   string
	Booking *models.Booking
	Start   time.Time
	End     time.Time
}

func (r ConflictResult) Conflict() bool {
	return r.Booking != nil
}

func (r ConflictResult) Message() string {
	if r.Booking == nil {
		return ""
	}
	return fmt.Sprintf("table %s is already booked on %s from %s to %s (booking of %s)",
		r.Table,
		r.Start.Format(models.DateLayout),
		formatClock(r.Start),
		formatClock(r.End),
		r.Booking.GuestName,
	)
}

// CheckConflict compares the candidate window with every active booking of
// the same table, in the order given, and returns the first overlap. An
// unparsable date or time, on the candidate or on a stored booking, is an
// error rather than a skipped entry.
func (e *Engine) CheckConflict(c Candidate, existing []models.Booking) (ConflictResult, error) {
	c.Table = strings.TrimSpace(c.Table)
	c.Date = strings.TrimSpace(c.Date)
	c.Time = strings.TrimSpace(c.Time)
	res := ConflictResult{Table: c.Table}

	if err := checkDuration(c.Duration); err != nil {
		return res, err
	}
	start, err := e.ParseStart(c.Date, c.Time)
	if err != nil {
		return res, err
	}
	want := NewInterval(start, c.Duration)

	for i := range existing {
		b := &existing[i]
		if !b.IsActive() || b.TableName != c.Table {
			continue
		}
		iv, err := e.IntervalOf(b)
		if err != nil {
			return res, fmt.Errorf("booking %s: %w", b.ID, err)
		}
		if want.Overlaps(iv) {
			found := *b
			res.Booking = &found
			res.Start = iv.Start
			res.End = iv.End()
			return res, nil
		}
	}

	return res, nil
}
