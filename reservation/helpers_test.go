package reservation_test

import (
	"fmt"
	"time"

	"github.com/yeremiapane/table-reservation/models"
	"github.com/yeremiapane/table-reservation/reservation"
)

var rome = time.FixedZone("CET", 3600)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func at(date, clock string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, rome)
	if err != nil {
		panic(err)
	}
	return t
}

func newEngine(now time.Time) *reservation.Engine {
	n := 0
	return reservation.NewEngine(
		reservation.Config{Location: rome, DefaultDuration: 2 * time.Hour},
		reservation.WithClock(fixedClock{t: now}),
		reservation.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("bk-%d", n)
		}),
	)
}

func booking(id, table, date, clock string, minutes int) models.Booking {
	return models.Booking{
		ID:              id,
		TableName:       table,
		GuestName:       "Guest " + id,
		PartySize:       2,
		Date:            date,
		Time:            clock,
		DurationMinutes: minutes,
		Status:          models.BookingActive,
	}
}

func intPtr(v int) *int { return &v }
