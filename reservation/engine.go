package reservation

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/yeremiapane/table-reservation/models"
)

// DefaultDuration is used when neither the booking nor the configuration
// supplies a length.
const DefaultDuration = 2 * time.Hour

// MaxDuration is the longest a single booking may hold a table.
const MaxDuration = 24 * time.Hour

// Clock is the wall-clock source of the engine.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// IDGenerator returns a new globally unique booking identifier.
type IDGenerator func() string

func NewID() string {
	return uuid.NewString()
}

// Config is resolved once at start-up and shared by every operation.
type Config struct {
	Location        *time.Location
	DefaultDuration time.Duration
}

// Engine holds the resolved configuration and collaborators of the core.
// It keeps no booking or table state between calls.
type Engine struct {
	loc             *time.Location
	defaultDuration time.Duration
	clock           Clock
	newID           IDGenerator
}

type Option func(*Engine)

func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

func WithIDGenerator(g IDGenerator) Option {
	return func(e *Engine) { e.newID = g }
}

func NewEngine(cfg Config, opts ...Option) *Engine {
	e := &Engine{
		loc:             cfg.Location,
		defaultDuration: cfg.DefaultDuration,
		clock:           RealClock{},
		newID:           NewID,
	}
	if e.loc == nil {
		e.loc = time.UTC
	}
	if e.defaultDuration <= 0 {
		e.defaultDuration = DefaultDuration
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Location() *time.Location { return e.loc }

func (e *Engine) DefaultDuration() time.Duration { return e.defaultDuration }

// Now returns the clock's current instant in the restaurant timezone.
func (e *Engine) Now() time.Time {
	return e.clock.Now().In(e.loc)
}

// ParseStart resolves a wall-clock date and time in the engine timezone.
func (e *Engine) ParseStart(date, clock string) (time.Time, error) {
	t, err := time.ParseInLocation(models.DateLayout+" "+models.TimeLayout, date+" "+clock, e.loc)
	if err != nil {
		return time.Time{}, timeFormatErr(date, clock)
	}
	return t, nil
}

// IntervalOf returns the occupied span of a stored booking. Bookings saved
// without a duration fall back to the configured default.
func (e *Engine) IntervalOf(b *models.Booking) (Interval, error) {
	start, err := e.ParseStart(b.Date, b.Time)
	if err != nil {
		return Interval{}, err
	}
	d := b.Duration()
	if d <= 0 {
		d = e.defaultDuration
	}
	return NewInterval(start, d), nil
}

// DurationFromMinutes converts a requested length in minutes. Values outside
// (0, MaxDuration] are validation errors.
func DurationFromMinutes(m int) (time.Duration, error) {
	if m <= 0 {
		return 0, validationErr("duration must be positive")
	}
	if m > int(MaxDuration/time.Minute) {
		return 0, validationErr("duration of %d minutes exceeds the maximum of %s", m, MaxDuration)
	}
	return time.Duration(m) * time.Minute, nil
}

// DurationFromHours is DurationFromMinutes for fractional hours, rounded
// to the minute.
func DurationFromHours(h float64) (time.Duration, error) {
	if math.IsNaN(h) || h <= 0 {
		return 0, validationErr("duration must be positive")
	}
	if h > MaxDuration.Hours() {
		return 0, validationErr("duration of %g hours exceeds the maximum of %s", h, MaxDuration)
	}
	return DurationFromMinutes(int(math.Round(h * 60)))
}

func checkDuration(d time.Duration) error {
	if d <= 0 {
		return validationErr("duration must be positive")
	}
	if d > MaxDuration {
		return validationErr("duration %s exceeds the maximum of %s", d, MaxDuration)
	}
	return nil
}
