package reservation

import (
	"time"

	"github.com/yeremiapane/table-reservation/models"
)

const (
	// A booking starting within occupiedLead, or started at most
	// occupiedGrace ago, marks its table occupied.
	occupiedLead  = 2 * time.Hour
	occupiedGrace = time.Hour
)

// Classify derives a table status from its active bookings at now.
//
// Expired bookings (end strictly before now) are ignored. A same-day booking
// whose start is within [-1h, +2h] of now makes the table occupied and wins
// over everything else. Otherwise a booking starting more than 2h in the
// future makes it reserved. Anything else leaves the table available.
//
// A booking that started between 1h and its end is neither occupied nor
// reserved, so the table reads available while the party may still be
// seated. This is kept as is; see DESIGN.md.
//
// Bookings whose date or time cannot be parsed cannot be placed in time and
// do not influence the result.
func (e *Engine) Classify(table string, now time.Time, bookings []models.Booking) models.TableStatus {
	now = now.In(e.loc)
	reserved := false

	for i := range bookings {
		b := &bookings[i]
		if !b.IsActive() || b.TableName != table {
			continue
		}
		iv, err := e.IntervalOf(b)
		if err != nil {
			continue
		}
		if iv.End().Before(now) {
			continue
		}

		until := iv.Start.Sub(now)
		if sameDay(iv.Start, now) && until <= occupiedLead && until >= -occupiedGrace {
			return models.TableOccupied
		}
		if iv.Start.After(now) && until > occupiedLead {
			reserved = true
		}
	}

	if reserved {
		return models.TableReserved
	}
	return models.TableAvailable
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
