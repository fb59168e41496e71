package models

import "time"

// LayoutSnapshot stores the floor layout (tables with seats and position)
// as JSON, taken before the layout is overwritten.
type LayoutSnapshot struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Data      string    `gorm:"type:text;not null" json:"-"`
	Tables    int       `gorm:"not null" json:"tables"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

// LayoutTable is the layout-only view of a Table.
type LayoutTable struct {
	Name  string  `json:"name"`
	Seats int     `json:"seats"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}
