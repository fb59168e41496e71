package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/yeremiapane/table-reservation/models"
	"github.com/yeremiapane/table-reservation/reservation"
	"github.com/yeremiapane/table-reservation/utils"
	"gorm.io/gorm"
)

type LayoutResult struct {
	Snapshot *models.LayoutSnapshot `json:"snapshot,omitempty"`
	Created  []string               `json:"created"`
	Updated  []string               `json:"updated"`
	Removed  []string               `json:"removed"`
}

// LayoutService mengelola denah meja dan snapshot-nya. Perubahan denah
// memakai lock yang sama dengan BookingService karena meja yang dihapus
// tidak boleh masih punya booking aktif.
type LayoutService struct {
	db        *gorm.DB
	bookings  *BookingService
	retention int
}

func NewLayoutService(db *gorm.DB, bookings *BookingService, retention int) *LayoutService {
	if retention < 1 {
		retention = 1
	}
	return &LayoutService{db: db, bookings: bookings, retention: retention}
}

// SaveLayout replaces the floor layout. The current layout is snapshotted
// first; tables are matched by name so status and history survive.
func (s *LayoutService) SaveLayout(ctx context.Context, layout []models.LayoutTable) (*LayoutResult, error) {
	layout, err := validateLayout(layout)
	if err != nil {
		return nil, err
	}

	s.bookings.mu.Lock()
	defer s.bookings.mu.Unlock()

	var res *LayoutResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		snap, err := s.takeSnapshot(tx, "before layout save")
		if err != nil {
			return err
		}
		res, err = applyLayout(tx, layout)
		if err != nil {
			return err
		}
		res.Snapshot = snap
		return s.prune(tx)
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Layout saved: %d created, %d updated, %d removed", len(res.Created), len(res.Updated), len(res.Removed))
	return res, nil
}

func (s *LayoutService) ListSnapshots(ctx context.Context) ([]models.LayoutSnapshot, error) {
	var snaps []models.LayoutSnapshot
	err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&snaps).Error
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return snaps, nil
}

func (s *LayoutService) CreateSnapshot(ctx context.Context, name string) (*models.LayoutSnapshot, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "manual"
	}

	s.bookings.mu.Lock()
	defer s.bookings.mu.Unlock()

	var snap *models.LayoutSnapshot
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		snap, err = s.takeSnapshot(tx, name)
		if err != nil {
			return err
		}
		return s.prune(tx)
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// RestoreSnapshot applies a stored layout. The layout being replaced is
// snapshotted first, like SaveLayout.
func (s *LayoutService) RestoreSnapshot(ctx context.Context, id uint) (*LayoutResult, error) {
	var stored models.LayoutSnapshot
	if err := s.db.WithContext(ctx).First(&stored, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: snapshot %d", reservation.ErrNotFound, id)
		}
		return nil, err
	}

	var layout []models.LayoutTable
	if err := json.Unmarshal([]byte(stored.Data), &layout); err != nil {
		return nil, fmt.Errorf("decode snapshot %d: %w", id, err)
	}

	res, err := s.SaveLayout(ctx, layout)
	if err != nil {
		return nil, err
	}
	utils.InfoLogger.Printf("Layout restored from snapshot %d (%s)", stored.ID, stored.Name)
	return res, nil
}

func (s *LayoutService) DeleteSnapshot(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.LayoutSnapshot{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete snapshot: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: snapshot %d", reservation.ErrNotFound, id)
	}
	return nil
}

// takeSnapshot returns nil when there is no layout to save yet.
func (s *LayoutService) takeSnapshot(tx *gorm.DB, name string) (*models.LayoutSnapshot, error) {
	var tables []models.Table
	if err := tx.Order("name ASC").Find(&tables).Error; err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}
	if len(tables) == 0 {
		return nil, nil
	}

	layout := make([]models.LayoutTable, 0, len(tables))
	for _, t := range tables {
		layout = append(layout, models.LayoutTable{Name: t.Name, Seats: t.Seats, X: t.X, Y: t.Y})
	}
	data, err := json.Marshal(layout)
	if err != nil {
		return nil, fmt.Errorf("encode layout: %w", err)
	}

	snap := &models.LayoutSnapshot{
		Name:      name,
		Data:      string(data),
		Tables:    len(layout),
		CreatedAt: s.bookings.engine.Now(),
	}
	if err := tx.Create(snap).Error; err != nil {
		return nil, fmt.Errorf("create snapshot: %w", err)
	}
	return snap, nil
}

// prune keeps only the newest retention snapshots.
func (s *LayoutService) prune(tx *gorm.DB) error {
	var stale []uint
	err := tx.Model(&models.LayoutSnapshot{}).
		Order("created_at DESC, id DESC").
		Offset(s.retention).
		Limit(1000).
		Pluck("id", &stale).Error
	if err != nil {
		return fmt.Errorf("find old snapshots: %w", err)
	}
	if len(stale) == 0 {
		return nil
	}
	if err := tx.Delete(&models.LayoutSnapshot{}, stale).Error; err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}

func validateLayout(layout []models.LayoutTable) ([]models.LayoutTable, error) {
	if len(layout) == 0 {
		return nil, fmt.Errorf("%w: layout must contain at least one table", reservation.ErrValidation)
	}

	seen := make(map[string]bool, len(layout))
	out := make([]models.LayoutTable, 0, len(layout))
	for i, lt := range layout {
		lt.Name = strings.TrimSpace(lt.Name)
		switch {
		case lt.Name == "":
			return nil, fmt.Errorf("%w: table %d has no name", reservation.ErrValidation, i+1)
		case lt.Seats <= 0:
			return nil, fmt.Errorf("%w: table %s must have at least one seat", reservation.ErrValidation, lt.Name)
		case seen[lt.Name]:
			return nil, fmt.Errorf("%w: duplicate table name %s", reservation.ErrValidation, lt.Name)
		}
		seen[lt.Name] = true
		out = append(out, lt)
	}
	return out, nil
}

func applyLayout(tx *gorm.DB, layout []models.LayoutTable) (*LayoutResult, error) {
	var current []models.Table
	if err := tx.Find(&current).Error; err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}
	byName := make(map[string]models.Table, len(current))
	for _, t := range current {
		byName[t.Name] = t
	}

	res := &LayoutResult{Created: []string{}, Updated: []string{}, Removed: []string{}}
	wanted := make(map[string]bool, len(layout))

	for _, lt := range layout {
		wanted[lt.Name] = true
		if existing, ok := byName[lt.Name]; ok {
			err := tx.Model(&models.Table{}).Where("id = ?", existing.ID).Updates(map[string]interface{}{
				"seats": lt.Seats,
				"x":     lt.X,
				"y":     lt.Y,
			}).Error
			if err != nil {
				return nil, fmt.Errorf("update table %s: %w", lt.Name, err)
			}
			res.Updated = append(res.Updated, lt.Name)
			continue
		}

		t := models.Table{Name: lt.Name, Seats: lt.Seats, X: lt.X, Y: lt.Y, Status: models.TableAvailable}
		if err := tx.Create(&t).Error; err != nil {
			return nil, fmt.Errorf("create table %s: %w", lt.Name, err)
		}
		res.Created = append(res.Created, lt.Name)
	}

	for _, t := range current {
		if wanted[t.Name] {
			continue
		}
		var active int64
		err := tx.Model(&models.Booking{}).
			Where("table_name = ? AND status = ?", t.Name, models.BookingActive).
			Count(&active).Error
		if err != nil {
			return nil, fmt.Errorf("count bookings of %s: %w", t.Name, err)
		}
		if active > 0 {
			return nil, fmt.Errorf("%w: table %s still has %d active booking(s)", reservation.ErrValidation, t.Name, active)
		}
		if err := tx.Where("table_id = ?", t.ID).Delete(&models.TableHistory{}).Error; err != nil {
			return nil, fmt.Errorf("delete history of %s: %w", t.Name, err)
		}
		if err := tx.Delete(&models.Table{}, t.ID).Error; err != nil {
			return nil, fmt.Errorf("delete table %s: %w", t.Name, err)
		}
		res.Removed = append(res.Removed, t.Name)
	}

	return res, nil
}
