package models

import "time"

// History entry types
const (
	HistoryBookingCreated   = "booking_created"
	HistoryBookingCancelled = "booking_cancelled"
	HistoryBookingCompleted = "booking_completed"
	HistoryReleased         = "released"
	HistoryAutoUpdate       = "auto_update"
)

// TableHistory is append-only; rows are never updated after insert.
type TableHistory struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	TableID   uint        `gorm:"not null;index" json:"table_id"`
	Type      string      `gorm:"type:varchar(30);not null" json:"type"`
	OldStatus TableStatus `gorm:"type:varchar(20)" json:"old_status,omitempty"`
	NewStatus TableStatus `gorm:"type:varchar(20)" json:"new_status,omitempty"`
	BookingID string      `gorm:"type:varchar(64)" json:"booking_id,omitempty"`
	GuestName string      `gorm:"type:varchar(100)" json:"guest_name,omitempty"`
	Message   string      `gorm:"type:text" json:"message,omitempty"`
	CreatedAt time.Time   `gorm:"not null" json:"created_at"`
}
