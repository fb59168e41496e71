package models

import "time"

type TableStatus string

const (
	TableAvailable TableStatus = "available"
	TableReserved  TableStatus = "reserved"
	TableOccupied  TableStatus = "occupied"
)

// Valid reports whether s is one of the known table statuses.
func (s TableStatus) Valid() bool {
	switch s {
	case TableAvailable, TableReserved, TableOccupied:
		return true
	}
	return false
}

// Table adalah meja pada denah restoran. Status hanya cache dari hasil
// klasifikasi booking aktif, bukan sumber kebenaran.
type Table struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Seats     int            `gorm:"not null;default:4" json:"seats"`
	X         float64        `json:"x"`
	Y         float64        `json:"y"`
	Status    TableStatus    `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	History   []TableHistory `gorm:"foreignKey:TableID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"history,omitempty"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}
