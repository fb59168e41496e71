package reservation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/table-reservation/models"
	"github.com/yeremiapane/table-reservation/reservation"
)

func floor() []models.Table {
	return []models.Table{
		{ID: 1, Name: "T1", Seats: 4, Status: models.TableAvailable},
		{ID: 2, Name: "T2", Seats: 2, Status: models.TableAvailable},
	}
}

func validInput() reservation.BookingInput {
	return reservation.BookingInput{
		TableName: "T1",
		GuestName: "Rossi",
		PartySize: 4,
		Date:      "2025-06-10",
		Time:      "19:00",
	}
}

func TestCreateBooking_Success(t *testing.T) {
	e := newEngine(at("2025-06-10", "18:30"))

	res, err := e.CreateBooking(validInput(), nil, floor())

	require.NoError(t, err)
	assert.Equal(t, "bk-1", res.Booking.ID)
	assert.Equal(t, models.BookingActive, res.Booking.Status)
	assert.Equal(t, 120, res.Booking.DurationMinutes, "default duration applies")
	assert.Equal(t, at("2025-06-10", "18:30"), res.Booking.CreatedAt)

	require.NotNil(t, res.Update)
	assert.True(t, res.Update.Applied)
	assert.Equal(t, models.TableOccupied, res.Update.Table.Status)
	require.NotNil(t, res.Update.History)
	assert.Equal(t, models.HistoryBookingCreated, res.Update.History.Type)
	assert.Equal(t, uint(1), res.Update.History.TableID)
	assert.Equal(t, models.TableAvailable, res.Update.History.OldStatus)
	assert.Equal(t, models.TableOccupied, res.Update.History.NewStatus)
}

func TestCreateBooking_FarFutureReservesTable(t *testing.T) {
	e := newEngine(at("2025-06-10", "10:00"))
	in := validInput()
	in.DurationMinutes = intPtr(90)

	res, err := e.CreateBooking(in, nil, floor())

	require.NoError(t, err)
	assert.Equal(t, 90, res.Booking.DurationMinutes)
	assert.Equal(t, models.TableReserved, res.Update.Table.Status)
}

func TestCreateBooking_ConflictScenario(t *testing.T) {
	e := newEngine(at("2025-06-10", "12:00"))
	existing := []models.Booking{booking("b1", "T1", "2025-06-10", "19:00", 120)}

	in := validInput()
	in.Time = "20:00"
	_, err := e.CreateBooking(in, existing, floor())

	require.Error(t, err)
	assert.ErrorIs(t, err, reservation.ErrBookingConflict)
	var conflict *reservation.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "b1", conflict.Booking.ID)
	assert.Contains(t, err.Error(), "Guest b1")

	in.Time = "21:00"
	res, err := e.CreateBooking(in, existing, floor())
	require.NoError(t, err)
	assert.Equal(t, "21:00", res.Booking.Time)
}

func TestCreateBooking_Validation(t *testing.T) {
	e := newEngine(at("2025-06-10", "12:00"))

	tests := []struct {
		name   string
		mutate func(in *reservation.BookingInput)
		target error
	}{
		{"missing table", func(in *reservation.BookingInput) { in.TableName = "  " }, reservation.ErrValidation},
		{"missing guest", func(in *reservation.BookingInput) { in.GuestName = "" }, reservation.ErrValidation},
		{"missing date", func(in *reservation.BookingInput) { in.Date = "" }, reservation.ErrValidation},
		{"zero party", func(in *reservation.BookingInput) { in.PartySize = 0 }, reservation.ErrValidation},
		{"zero duration", func(in *reservation.BookingInput) { in.DurationMinutes = intPtr(0) }, reservation.ErrValidation},
		{"negative duration", func(in *reservation.BookingInput) { in.DurationMinutes = intPtr(-30) }, reservation.ErrValidation},
		{"duration over a day", func(in *reservation.BookingInput) { in.DurationMinutes = intPtr(24*60 + 1) }, reservation.ErrValidation},
		{"duration overflowing", func(in *reservation.BookingInput) { in.DurationMinutes = intPtr(400000000) }, reservation.ErrValidation},
		{"bad time", func(in *reservation.BookingInput) { in.Time = "25:99" }, reservation.ErrInvalidTimeFormat},
		{"party too large", func(in *reservation.BookingInput) { in.PartySize = 9 }, reservation.ErrValidation},
		{"unknown table", func(in *reservation.BookingInput) { in.TableName = "T9" }, reservation.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			_, err := e.CreateBooking(in, nil, floor())
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestCreateBooking_FullDayDurationAccepted(t *testing.T) {
	e := newEngine(at("2025-06-10", "12:00"))
	in := validInput()
	in.DurationMinutes = intPtr(24 * 60)

	res, err := e.CreateBooking(in, nil, floor())

	require.NoError(t, err)
	assert.Equal(t, 24*60, res.Booking.DurationMinutes)
}

func TestCreateBooking_RejectedTransitionKeepsStatus(t *testing.T) {
	e := newEngine(at("2025-06-10", "10:00"))
	tables := floor()
	tables[0].Status = models.TableOccupied

	res, err := e.CreateBooking(validInput(), nil, tables)

	require.NoError(t, err, "a refused transition does not abort the booking")
	assert.False(t, res.Update.Applied)
	require.NotNil(t, res.Update.Rejected)
	assert.ErrorIs(t, res.Update.Rejected, reservation.ErrInvalidTransition)
	assert.Equal(t, models.TableReserved, res.Update.NewStatus)
	assert.Equal(t, models.TableOccupied, res.Update.Table.Status)
	require.NotNil(t, res.Update.History)
	assert.Equal(t, models.TableOccupied, res.Update.History.NewStatus)
}

func TestCancelBooking_OnlyBookingFreesTable(t *testing.T) {
	e := newEngine(at("2025-06-10", "18:30"))
	tables := floor()
	tables[0].Status = models.TableOccupied
	bookings := []models.Booking{booking("b1", "T1", "2025-06-10", "19:00", 120)}

	res, err := e.CancelBooking("b1", bookings, tables)

	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, res.Booking.Status)
	require.NotNil(t, res.Booking.CancelledAt)
	assert.Equal(t, models.TableAvailable, res.Update.Table.Status)
	require.NotNil(t, res.Update.History)
	assert.Equal(t, models.HistoryBookingCancelled, res.Update.History.Type)
	assert.Equal(t, models.BookingActive, bookings[0].Status, "input must not be mutated")
}

func TestCancelBooking_OtherQualifyingBookingKeepsStatus(t *testing.T) {
	e := newEngine(at("2025-06-10", "18:30"))
	tables := floor()
	tables[0].Status = models.TableOccupied
	bookings := []models.Booking{
		booking("b1", "T1", "2025-06-10", "19:00", 60),
		booking("b2", "T1", "2025-06-10", "20:00", 60),
	}

	res, err := e.CancelBooking("b1", bookings, tables)

	require.NoError(t, err)
	assert.False(t, res.Update.Applied)
	assert.Nil(t, res.Update.History)
	assert.Equal(t, models.TableOccupied, res.Update.Table.Status)
}

func TestCancelBooking_Errors(t *testing.T) {
	e := newEngine(at("2025-06-10", "18:30"))
	done := booking("b1", "T1", "2025-06-10", "19:00", 60)
	done.Status = models.BookingCompleted

	_, err := e.CancelBooking("missing", []models.Booking{done}, floor())
	assert.ErrorIs(t, err, reservation.ErrNotFound)

	_, err = e.CancelBooking("b1", []models.Booking{done}, floor())
	assert.ErrorIs(t, err, reservation.ErrBookingNotActive)
}

func TestCompleteBooking(t *testing.T) {
	e := newEngine(at("2025-06-10", "19:30"))
	tables := floor()
	tables[0].Status = models.TableOccupied
	bookings := []models.Booking{booking("b1", "T1", "2025-06-10", "19:00", 120)}

	res, err := e.CompleteBooking("b1", bookings, tables)

	require.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, res.Booking.Status)
	require.NotNil(t, res.Booking.CompletedAt)
	assert.Nil(t, res.Booking.CancelledAt)
	assert.Equal(t, models.TableAvailable, res.Update.Table.Status)
	assert.Equal(t, models.HistoryBookingCompleted, res.Update.History.Type)
}

func TestCompleteBooking_MissingTable(t *testing.T) {
	e := newEngine(at("2025-06-10", "19:30"))
	bookings := []models.Booking{booking("b1", "GONE", "2025-06-10", "19:00", 120)}

	res, err := e.CompleteBooking("b1", bookings, floor())

	require.NoError(t, err)
	assert.Nil(t, res.Update)
	assert.Equal(t, models.BookingCompleted, res.Booking.Status)
}

func TestReleaseTable(t *testing.T) {
	e := newEngine(at("2025-06-10", "20:00"))
	tables := floor()
	tables[0].Status = models.TableOccupied
	bookings := []models.Booking{
		booking("started", "T1", "2025-06-10", "19:00", 120),
		booking("past", "T1", "2025-06-09", "19:00", 120),
		booking("later", "T1", "2025-06-10", "22:00", 120),
		booking("other", "T2", "2025-06-10", "19:00", 120),
	}

	res, err := e.ReleaseTable("T1", bookings, tables)

	require.NoError(t, err)
	assert.Equal(t, models.TableAvailable, res.Table.Status)
	assert.Equal(t, models.TableOccupied, res.OldStatus)
	assert.Equal(t, models.HistoryReleased, res.History.Type)
	require.Len(t, res.Completed, 2)
	ids := []string{res.Completed[0].ID, res.Completed[1].ID}
	assert.ElementsMatch(t, []string{"started", "past"}, ids)
	for _, b := range res.Completed {
		assert.Equal(t, models.BookingCompleted, b.Status)
	}

	_, err = e.ReleaseTable("T9", bookings, tables)
	assert.ErrorIs(t, err, reservation.ErrNotFound)
}

func TestResyncTables(t *testing.T) {
	now := at("2025-06-10", "18:30")
	e := newEngine(now)
	tables := []models.Table{
		{ID: 1, Name: "T1", Status: models.TableAvailable},
		{ID: 2, Name: "T2", Status: models.TableOccupied},
		{ID: 3, Name: "T3", Status: models.TableOccupied},
		{ID: 4, Name: "T4", Status: models.TableReserved},
	}
	bookings := []models.Booking{
		booking("b1", "T1", "2025-06-10", "19:00", 120),
		booking("b3", "T3", "2025-06-11", "19:00", 120),
		booking("b4", "T4", "2025-06-12", "19:00", 120),
	}

	changes := e.ResyncTables(now, bookings, tables)

	require.Len(t, changes, 3)
	byName := map[string]reservation.StatusUpdate{}
	for _, c := range changes {
		byName[c.Table.Name] = c
	}

	assert.True(t, byName["T1"].Applied)
	assert.Equal(t, models.TableOccupied, byName["T1"].Table.Status)
	assert.Equal(t, models.HistoryAutoUpdate, byName["T1"].History.Type)

	assert.True(t, byName["T2"].Applied)
	assert.Equal(t, models.TableAvailable, byName["T2"].Table.Status)

	assert.False(t, byName["T3"].Applied)
	assert.NotNil(t, byName["T3"].Rejected)
	assert.Nil(t, byName["T3"].History)
	assert.Equal(t, models.TableOccupied, byName["T3"].Table.Status)

	_, unchanged := byName["T4"]
	assert.False(t, unchanged)
}
