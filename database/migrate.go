package database

import (
	"fmt"

	"github.com/yeremiapane/table-reservation/models"
	"github.com/yeremiapane/table-reservation/utils"
	"gorm.io/gorm"
)

type indexDef struct {
	model interface{}
	name  string
	stmt  string
}

// index komposit yang dipakai query booking per meja/tanggal dan riwayat meja
var indexes = []indexDef{
	{&models.Booking{}, "idx_bookings_table_date", "CREATE INDEX idx_bookings_table_date ON bookings (table_name, date)"},
	{&models.TableHistory{}, "idx_table_histories_created", "CREATE INDEX idx_table_histories_created ON table_histories (table_id, created_at)"},
}

// Migrate menjalankan AutoMigrate untuk semua model lalu membuat index tambahan.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Table{},
		&models.TableHistory{},
		&models.Booking{},
		&models.LayoutSnapshot{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.model, idx.name) {
			continue
		}
		if err := db.Exec(idx.stmt).Error; err != nil {
			utils.ErrorLogger.Printf("Error creating index: %v\nStatement: %s", err, idx.stmt)
			continue
		}
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}

// SeedTables mengisi denah awal hanya jika belum ada meja sama sekali.
func SeedTables(db *gorm.DB, layout []models.LayoutTable) (int, error) {
	var count int64
	if err := db.Model(&models.Table{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count tables: %w", err)
	}
	if count > 0 || len(layout) == 0 {
		return 0, nil
	}

	tables := make([]models.Table, 0, len(layout))
	for _, lt := range layout {
		tables = append(tables, models.Table{
			Name:   lt.Name,
			Seats:  lt.Seats,
			X:      lt.X,
			Y:      lt.Y,
			Status: models.TableAvailable,
		})
	}
	if err := db.Create(&tables).Error; err != nil {
		return 0, fmt.Errorf("seed tables: %w", err)
	}
	utils.InfoLogger.Printf("Seeded %d tables", len(tables))
	return len(tables), nil
}
