package reservation

import (
	"fmt"
	"strings"
	"time"

	"github.com/yeremiapane/table-reservation/models"
)

// BookingInput is an already-decoded create request. A nil DurationMinutes
// means the configured default duration.
type BookingInput struct {
	TableName       string
	GuestName       string
	PartySize       int
	Date            string
	Time            string
	DurationMinutes *int
	Notes           string
}

// StatusUpdate is the outcome of recomputing one table's status. Table is a
// copy carrying the status the caller should persist; when the proposed
// status was refused, Rejected is set and Table keeps its previous status.
type StatusUpdate struct {
	Table     models.Table
	OldStatus models.TableStatus
	NewStatus models.TableStatus
	Applied   bool
	Rejected  *TransitionError
	History   *models.TableHistory
}

// BookingResult is returned by create, cancel and complete. Update is nil
// when the booking references a table that no longer exists.
type BookingResult struct {
	Booking models.Booking
	Update  *StatusUpdate
}

type ReleaseResult struct {
	Table     models.Table
	OldStatus models.TableStatus
	History   models.TableHistory
	Completed []models.Booking
}

func (e *Engine) CreateBooking(in BookingInput, bookings []models.Booking, tables []models.Table) (*BookingResult, error) {
	in.TableName = strings.TrimSpace(in.TableName)
	in.GuestName = strings.TrimSpace(in.GuestName)
	in.Date = strings.TrimSpace(in.Date)
	in.Time = strings.TrimSpace(in.Time)

	duration, err := e.validateInput(in)
	if err != nil {
		return nil, err
	}

	table, ok := findTable(tables, in.TableName)
	if !ok {
		return nil, fmt.Errorf("%w: table %q", ErrNotFound, in.TableName)
	}
	if table.Seats > 0 && in.PartySize > table.Seats {
		return nil, validationErr("party of %d exceeds the %d seats of table %s", in.PartySize, table.Seats, table.Name)
	}

	conflict, err := e.CheckConflict(Candidate{
		Table:    in.TableName,
		Date:     in.Date,
		Time:     in.Time,
		Duration: duration,
	}, bookings)
	if err != nil {
		return nil, err
	}
	if conflict.Conflict() {
		return nil, &ConflictError{ConflictResult: conflict}
	}

	now := e.Now()
	booking := models.Booking{
		ID:              e.newID(),
		TableName:       in.TableName,
		GuestName:       in.GuestName,
		PartySize:       in.PartySize,
		Date:            in.Date,
		Time:            in.Time,
		DurationMinutes: int(duration / time.Minute),
		Status:          models.BookingActive,
		Notes:           in.Notes,
		CreatedAt:       now,
	}

	after := make([]models.Booking, 0, len(bookings)+1)
	after = append(after, bookings...)
	after = append(after, booking)

	proposed := e.Classify(table.Name, now, after)
	update := recompute(table, proposed, models.TableHistory{
		Type:      models.HistoryBookingCreated,
		BookingID: booking.ID,
		GuestName: booking.GuestName,
		Message:   fmt.Sprintf("booking for %d on %s at %s", booking.PartySize, booking.Date, booking.Time),
		CreatedAt: now,
	}, true)

	return &BookingResult{Booking: booking, Update: update}, nil
}

func (e *Engine) validateInput(in BookingInput) (time.Duration, error) {
	switch {
	case in.TableName == "":
		return 0, validationErr("table name is required")
	case in.GuestName == "":
		return 0, validationErr("guest name is required")
	case in.Date == "":
		return 0, validationErr("date is required")
	case in.Time == "":
		return 0, validationErr("time is required")
	case in.PartySize <= 0:
		return 0, validationErr("party size must be positive")
	}

	duration := e.defaultDuration
	if in.DurationMinutes != nil {
		d, err := DurationFromMinutes(*in.DurationMinutes)
		if err != nil {
			return 0, err
		}
		duration = d
	}

	if _, err := e.ParseStart(in.Date, in.Time); err != nil {
		return 0, err
	}
	return duration, nil
}

func (e *Engine) CancelBooking(id string, bookings []models.Booking, tables []models.Table) (*BookingResult, error) {
	return e.finish(id, models.BookingCancelled, models.HistoryBookingCancelled, bookings, tables)
}

func (e *Engine) CompleteBooking(id string, bookings []models.Booking, tables []models.Table) (*BookingResult, error) {
	return e.finish(id, models.BookingCompleted, models.HistoryBookingCompleted, bookings, tables)
}

// finish moves an active booking to a terminal status and recomputes the
// status of its table from the bookings that remain active.
func (e *Engine) finish(id string, to models.BookingStatus, historyType string, bookings []models.Booking, tables []models.Table) (*BookingResult, error) {
	idx := findBooking(bookings, id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: booking %q", ErrNotFound, id)
	}
	if !bookings[idx].IsActive() {
		return nil, fmt.Errorf("%w: booking %s is %s", ErrBookingNotActive, id, bookings[idx].Status)
	}

	now := e.Now()
	booking := bookings[idx]
	booking.Status = to
	if to == models.BookingCancelled {
		booking.CancelledAt = &now
	} else {
		booking.CompletedAt = &now
	}

	after := make([]models.Booking, len(bookings))
	copy(after, bookings)
	after[idx] = booking

	res := &BookingResult{Booking: booking}
	table, ok := findTable(tables, booking.TableName)
	if !ok {
		return res, nil
	}

	proposed := e.Classify(table.Name, now, after)
	res.Update = recompute(table, proposed, models.TableHistory{
		Type:      historyType,
		BookingID: booking.ID,
		GuestName: booking.GuestName,
		CreatedAt: now,
	}, false)
	return res, nil
}

// ReleaseTable forces a table back to available. Active bookings of the
// table that have already started are completed; later ones stay active.
func (e *Engine) ReleaseTable(name string, bookings []models.Booking, tables []models.Table) (*ReleaseResult, error) {
	table, ok := findTable(tables, name)
	if !ok {
		return nil, fmt.Errorf("%w: table %q", ErrNotFound, name)
	}

	now := e.Now()
	res := &ReleaseResult{OldStatus: table.Status}

	for i := range bookings {
		b := bookings[i]
		if !b.IsActive() || b.TableName != table.Name {
			continue
		}
		start, err := e.ParseStart(b.Date, b.Time)
		if err != nil || start.After(now) {
			continue
		}
		b.Status = models.BookingCompleted
		completedAt := now
		b.CompletedAt = &completedAt
		res.Completed = append(res.Completed, b)
	}

	table.History = nil
	table.Status = models.TableAvailable
	res.Table = table
	res.History = models.TableHistory{
		TableID:   table.ID,
		Type:      models.HistoryReleased,
		OldStatus: res.OldStatus,
		NewStatus: models.TableAvailable,
		Message:   fmt.Sprintf("table released manually, %d booking(s) completed", len(res.Completed)),
		CreatedAt: now,
	}
	return res, nil
}

// ResyncTables recomputes every table at now. Only tables whose proposed
// status differs from the stored one are reported; refused transitions are
// reported with Rejected set and left unapplied.
func (e *Engine) ResyncTables(now time.Time, bookings []models.Booking, tables []models.Table) []StatusUpdate {
	now = now.In(e.loc)
	var changes []StatusUpdate

	for _, table := range tables {
		proposed := e.Classify(table.Name, now, bookings)
		if proposed == normalize(table.Status) && table.Status.Valid() {
			continue
		}
		upd := recompute(table, proposed, models.TableHistory{
			Type:      models.HistoryAutoUpdate,
			CreatedAt: now,
		}, false)
		changes = append(changes, *upd)
	}

	return changes
}

// recompute guards the proposed status with the transition validator. The
// history entry is filled in when the status changed, or always if record
// is set.
func recompute(table models.Table, proposed models.TableStatus, entry models.TableHistory, record bool) *StatusUpdate {
	from := normalize(table.Status)
	upd := &StatusUpdate{OldStatus: table.Status, NewStatus: proposed}
	table.History = nil

	switch {
	case proposed == table.Status:
	case ValidateTransition(from, proposed):
		table.Status = proposed
		upd.Applied = true
	default:
		upd.Rejected = &TransitionError{Table: table.Name, From: table.Status, To: proposed}
	}
	upd.Table = table

	if upd.Applied || record {
		entry.TableID = table.ID
		entry.OldStatus = upd.OldStatus
		entry.NewStatus = table.Status
		upd.History = &entry
	}
	return upd
}

// normalize treats an unset or unknown stored status as available.
func normalize(s models.TableStatus) models.TableStatus {
	if !s.Valid() {
		return models.TableAvailable
	}
	return s
}

func findTable(tables []models.Table, name string) (models.Table, bool) {
	for _, t := range tables {
		if t.Name == name {
			return t, true
		}
	}
	return models.Table{}, false
}

func findBooking(bookings []models.Booking, id string) int {
	for i := range bookings {
		if bookings[i].ID == id {
			return i
		}
	}
	return -1
}
