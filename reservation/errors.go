package reservation

import (
	"errors"
	"fmt"
	"time"

	"github.com/yeremiapane/table-reservation/models"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrInvalidTimeFormat = fmt.Errorf("%w: invalid date/time format", ErrValidation)
	ErrBookingConflict   = errors.New("booking conflict")
	ErrNotFound          = errors.New("not found")
	ErrBookingNotActive  = errors.New("booking is not active")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ConflictError is returned by CreateBooking when the requested window
// overlaps an active booking on the same table.
type ConflictError struct {
	ConflictResult
}

func (e *ConflictError) Error() string {
	return ErrBookingConflict.Error() + ": " + e.Message()
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrBookingConflict
}

// TransitionError describes a status change the state machine refused.
// It is reported in results and never aborts the enclosing operation.
type TransitionError struct {
	Table string
	From  models.TableStatus
	To    models.TableStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s for table %s: %s -> %s", ErrInvalidTransition, e.Table, e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}

func timeFormatErr(date, clock string) error {
	return fmt.Errorf("%w: %q %q, expected %s %s", ErrInvalidTimeFormat, date, clock, models.DateLayout, models.TimeLayout)
}

func formatClock(t time.Time) string {
	return t.Format(models.TimeLayout)
}
