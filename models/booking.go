package models

import "time"

type BookingStatus string

const (
	BookingActive    BookingStatus = "active"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// Date and Time are the wall-clock values the guest asked for; they are
// resolved against the configured restaurant timezone.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type Booking struct {
	ID              string        `gorm:"primaryKey;type:varchar(64)" json:"id"`
	TableName       string        `gorm:"type:varchar(50);not null;index:idx_table_status" json:"table_name"`
	GuestName       string        `gorm:"type:varchar(100);not null" json:"guest_name"`
	PartySize       int           `gorm:"not null" json:"party_size"`
	Date            string        `gorm:"type:varchar(10);not null;index" json:"date"`
	Time            string        `gorm:"type:varchar(5);not null" json:"time"`
	DurationMinutes int           `gorm:"not null" json:"duration_minutes"`
	Status          BookingStatus `gorm:"type:varchar(20);not null;default:'active';index:idx_table_status" json:"status"`
	Notes           string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time     `gorm:"not null" json:"created_at"`
	CompletedAt     *time.Time    `json:"completed_at,omitempty"`
	CancelledAt     *time.Time    `json:"cancelled_at,omitempty"`
}

// Duration returns the booking length as a time.Duration.
func (b *Booking) Duration() time.Duration {
	return time.Duration(b.DurationMinutes) * time.Minute
}

func (b *Booking) IsActive() bool {
	return b.Status == BookingActive
}
