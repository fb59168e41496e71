package reservation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/table-reservation/models"
)

func TestStatistics(t *testing.T) {
	now := at("2025-06-10", "12:00")
	e := newEngine(now)
	tables := []models.Table{{Name: "T1", Seats: 4}, {Name: "T2", Seats: 2}}

	done := booking("b1", "T1", "2025-06-08", "19:00", 120)
	done.Status = models.BookingCompleted
	done.PartySize = 4
	noShow := booking("b2", "T2", "2025-06-09", "20:00", 60)
	cancelled := booking("b3", "T1", "2025-06-09", "19:00", 120)
	cancelled.Status = models.BookingCancelled
	upcoming := booking("b4", "T1", "2025-06-10", "19:00", 120)
	old := booking("b5", "T1", "2025-05-01", "19:00", 120)

	st := e.Statistics(now, 7, []models.Booking{done, noShow, cancelled, upcoming, old}, tables)

	assert.Equal(t, 7, st.PeriodDays)
	assert.Equal(t, 4, st.Completion.Total)
	assert.Equal(t, 25.0, st.Completion.Completed)
	assert.Equal(t, 25.0, st.Completion.Cancelled)
	assert.Equal(t, 25.0, st.Completion.NoShow)

	assert.Equal(t, 3, st.TotalBookings)
	assert.Equal(t, 8, st.TotalGuests)
	assert.Equal(t, 2.7, st.AveragePartySize)

	// T1: 4*2h + 2*2h = 12 guest-hours over 4*7*24 = 672 seat-hours
	assert.Equal(t, 1.79, st.Utilization.PerTable["T1"])
	// T2: 2*1h over 2*7*24 = 336
	assert.Equal(t, 0.6, st.Utilization.PerTable["T2"])
	assert.Equal(t, 1.39, st.Utilization.Overall)

	require.Len(t, st.BusiestHours, 2)
	assert.Equal(t, "19:00", st.BusiestHours[0].Hour)
	assert.Equal(t, 2, st.BusiestHours[0].Bookings)
	assert.Equal(t, 100.0, st.BusiestHours[0].Percentage)
	assert.Equal(t, 50.0, st.BusiestHours[1].Percentage)

	assert.Equal(t, "2025-06-08", st.PeakDay)
	assert.Equal(t, 1, st.PeakDayBookings)
}
