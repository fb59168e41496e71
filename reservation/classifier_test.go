package reservation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yeremiapane/table-reservation/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		now      string
		bookings []models.Booking
		want     models.TableStatus
	}{
		{
			name:     "no bookings",
			now:      "18:30",
			bookings: nil,
			want:     models.TableAvailable,
		},
		{
			name:     "starts in 90 minutes",
			now:      "18:30",
			bookings: []models.Booking{booking("b1", "T1", "2025-06-10", "19:00", 120)},
			want:     models.TableOccupied,
		},
		{
			name:     "starts in 9 hours",
			now:      "10:00",
			bookings: []models.Booking{booking("b1", "T1", "2025-06-10", "19:00", 120)},
			want:     models.TableReserved,
		},
		{
			name:     "starts in exactly 2 hours",
			now:      "17:00",
			bookings: []models.Booking{booking("b1", "T1", "2025-06-10", "19:00", 120)},
			want:     models.TableOccupied,
		},
		{
			name:     "started exactly 1 hour ago",
			now:      "20:00",
			bookings: []models.Booking{booking("b1", "T1", "2025-06-10", "19:00", 120)},
			want:     models.TableOccupied,
		},
		{
			name:     "started 3 hours ago with 2 hour duration",
			now:      "22:00",
			bookings: []models.Booking{booking("b1", "T1", "2025-06-10", "19:00", 120)},
			want:     models.TableAvailable,
		},
		{
			name:     "started 90 minutes ago and still running",
			now:      "20:30",
			bookings: []models.Booking{booking("b1", "T1", "2025-06-10", "19:00", 180)},
			want:     models.TableAvailable,
		},
		{
			name:     "tomorrow evening",
			now:      "18:30",
			bookings: []models.Booking{booking("b1", "T1", "2025-06-11", "19:00", 120)},
			want:     models.TableReserved,
		},
		{
			name:     "other table",
			now:      "18:30",
			bookings: []models.Booking{booking("b1", "T2", "2025-06-10", "19:00", 120)},
			want:     models.TableAvailable,
		},
		{
			name: "occupied wins regardless of order",
			now:  "18:30",
			bookings: []models.Booking{
				booking("b1", "T1", "2025-06-12", "20:00", 120),
				booking("b2", "T1", "2025-06-10", "19:00", 120),
			},
			want: models.TableOccupied,
		},
		{
			name: "unparsable booking ignored",
			now:  "18:30",
			bookings: []models.Booking{
				booking("b1", "T1", "2025-06-10", "late", 120),
			},
			want: models.TableAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := at("2025-06-10", tt.now)
			e := newEngine(now)
			assert.Equal(t, tt.want, e.Classify("T1", now, tt.bookings))
		})
	}
}

func TestClassify_NextDayWithinTwoHoursIsNotOccupied(t *testing.T) {
	now := at("2025-06-10", "23:30")
	e := newEngine(now)

	got := e.Classify("T1", now, []models.Booking{booking("b1", "T1", "2025-06-11", "00:30", 120)})

	assert.Equal(t, models.TableAvailable, got)
}

func TestClassify_InactiveBookingsIgnored(t *testing.T) {
	now := at("2025-06-10", "18:30")
	e := newEngine(now)
	b := booking("b1", "T1", "2025-06-10", "19:00", 120)
	b.Status = models.BookingCancelled

	assert.Equal(t, models.TableAvailable, e.Classify("T1", now, []models.Booking{b}))
}
