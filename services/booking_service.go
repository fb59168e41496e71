package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/table-reservation/models"
	"github.com/yeremiapane/table-reservation/mq"
	"github.com/yeremiapane/table-reservation/reservation"
	"github.com/yeremiapane/table-reservation/utils"
	"gorm.io/gorm"
)

// EventPublisher is satisfied by *mq.Publisher and mq.Nop.
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

type BookingEvent struct {
	Booking     models.Booking     `json:"booking"`
	TableStatus models.TableStatus `json:"table_status,omitempty"`
	OccurredAt  time.Time          `json:"occurred_at"`
}

type TableEvent struct {
	Table      string             `json:"table"`
	OldStatus  models.TableStatus `json:"old_status"`
	NewStatus  models.TableStatus `json:"new_status"`
	Reason     string             `json:"reason"`
	BookingIDs []string           `json:"booking_ids,omitempty"`
	OccurredAt time.Time          `json:"occurred_at"`
}

type BookingFilter struct {
	Table  string
	Date   string
	Status models.BookingStatus
}

type CleanResult struct {
	Completed int64 `json:"completed"`
	Cancelled int64 `json:"cancelled"`
	Total     int64 `json:"total"`
}

// BookingService menyimpan hasil core reservation ke database. Semua
// operasi tulis diserialisasi oleh mu: load snapshot, hitung, simpan.
type BookingService struct {
	db     *gorm.DB
	engine *reservation.Engine
	pub    EventPublisher
	mu     sync.Mutex
}

func NewBookingService(db *gorm.DB, engine *reservation.Engine, pub EventPublisher) *BookingService {
	if pub == nil {
		pub = mq.Nop{}
	}
	return &BookingService{db: db, engine: engine, pub: pub}
}

func (s *BookingService) Engine() *reservation.Engine { return s.engine }

func (s *BookingService) CreateBooking(ctx context.Context, in reservation.BookingInput) (*reservation.BookingResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res *reservation.BookingResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bookings, tables, err := loadSnapshot(tx)
		if err != nil {
			return err
		}
		res, err = s.engine.CreateBooking(in, bookings, tables)
		if err != nil {
			return err
		}
		if err := tx.Create(&res.Booking).Error; err != nil {
			return fmt.Errorf("create booking: %w", err)
		}
		return applyUpdate(tx, res.Update)
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"booking_id": res.Booking.ID,
		"table":      res.Booking.TableName,
		"date":       res.Booking.Date,
		"time":       res.Booking.Time,
	}).Info("Booking created")

	s.publishBooking(ctx, mq.KeyBookingCreated, res)
	return res, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, id string) (*reservation.BookingResult, error) {
	return s.finish(ctx, id, s.engine.CancelBooking, mq.KeyBookingCancelled)
}

func (s *BookingService) CompleteBooking(ctx context.Context, id string) (*reservation.BookingResult, error) {
	return s.finish(ctx, id, s.engine.CompleteBooking, mq.KeyBookingCompleted)
}

type finishFunc func(id string, bookings []models.Booking, tables []models.Table) (*reservation.BookingResult, error)

func (s *BookingService) finish(ctx context.Context, id string, fn finishFunc, key string) (*reservation.BookingResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res *reservation.BookingResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bookings, tables, err := loadSnapshot(tx)
		if err != nil {
			return err
		}
		res, err = fn(id, bookings, tables)
		if err != nil {
			return err
		}
		if err := tx.Save(&res.Booking).Error; err != nil {
			return fmt.Errorf("save booking: %w", err)
		}
		return applyUpdate(tx, res.Update)
	})
	if err != nil {
		return nil, err
	}

	if res.Update == nil {
		utils.InfoLogger.Printf("Booking %s is now %s (table %s no longer exists)", res.Booking.ID, res.Booking.Status, res.Booking.TableName)
	} else {
		utils.InfoLogger.Printf("Booking %s is now %s", res.Booking.ID, res.Booking.Status)
	}

	s.publishBooking(ctx, key, res)
	return res, nil
}

// ReleaseTable mengosongkan meja secara manual.
func (s *BookingService) ReleaseTable(ctx context.Context, name string) (*reservation.ReleaseResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res *reservation.ReleaseResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bookings, tables, err := loadSnapshot(tx)
		if err != nil {
			return err
		}
		res, err = s.engine.ReleaseTable(name, bookings, tables)
		if err != nil {
			return err
		}
		for i := range res.Completed {
			if err := tx.Save(&res.Completed[i]).Error; err != nil {
				return fmt.Errorf("complete booking %s: %w", res.Completed[i].ID, err)
			}
		}
		if err := updateTableStatus(tx, res.Table); err != nil {
			return err
		}
		if err := tx.Create(&res.History).Error; err != nil {
			return fmt.Errorf("record history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(res.Completed))
	for _, b := range res.Completed {
		ids = append(ids, b.ID)
	}
	utils.InfoLogger.Printf("Table %s released (%s -> available), %d booking(s) completed", res.Table.Name, res.OldStatus, len(ids))

	s.publish(ctx, mq.KeyTableReleased, TableEvent{
		Table:      res.Table.Name,
		OldStatus:  res.OldStatus,
		NewStatus:  res.Table.Status,
		Reason:     models.HistoryReleased,
		BookingIDs: ids,
		OccurredAt: res.History.CreatedAt,
	})
	return res, nil
}

// ResyncTables menghitung ulang status semua meja pada waktu sekarang.
func (s *BookingService) ResyncTables(ctx context.Context) ([]reservation.StatusUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var changes []reservation.StatusUpdate
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bookings, tables, err := loadSnapshot(tx)
		if err != nil {
			return err
		}
		changes = s.engine.ResyncTables(s.engine.Now(), bookings, tables)
		for i := range changes {
			if err := applyUpdate(tx, &changes[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, upd := range changes {
		if upd.Applied {
			s.publishStatusChange(ctx, &upd, models.HistoryAutoUpdate)
		}
	}
	return changes, nil
}

// CheckConflict is a dry run of the conflict detector against the stored
// bookings. Nothing is written.
func (s *BookingService) CheckConflict(ctx context.Context, c reservation.Candidate) (reservation.ConflictResult, error) {
	c.Table = strings.TrimSpace(c.Table)
	var bookings []models.Booking
	err := s.db.WithContext(ctx).
		Where("table_name = ? AND status = ?", c.Table, models.BookingActive).
		Order("date ASC, time ASC").
		Find(&bookings).Error
	if err != nil {
		return reservation.ConflictResult{}, fmt.Errorf("load bookings: %w", err)
	}
	return s.engine.CheckConflict(c, bookings)
}

func (s *BookingService) ListBookings(ctx context.Context, f BookingFilter) ([]models.Booking, error) {
	if f.Status != "" && f.Status != models.BookingActive && f.Status != models.BookingCompleted && f.Status != models.BookingCancelled {
		return nil, fmt.Errorf("%w: unknown booking status %q", reservation.ErrValidation, f.Status)
	}

	q := s.db.WithContext(ctx).Model(&models.Booking{})
	if f.Table != "" {
		q = q.Where("table_name = ?", f.Table)
	}
	if f.Date != "" {
		q = q.Where("date = ?", f.Date)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var bookings []models.Booking
	if err := q.Order("date ASC, time ASC").Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	var b models.Booking
	if err := s.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: booking %q", reservation.ErrNotFound, id)
		}
		return nil, err
	}
	return &b, nil
}

// CleanBookings menghapus booking yang sudah selesai atau dibatalkan.
func (s *BookingService) CleanBookings(ctx context.Context) (CleanResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res CleanResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		done := tx.Where("status = ?", models.BookingCompleted).Delete(&models.Booking{})
		if done.Error != nil {
			return fmt.Errorf("purge completed: %w", done.Error)
		}
		cancelled := tx.Where("status = ?", models.BookingCancelled).Delete(&models.Booking{})
		if cancelled.Error != nil {
			return fmt.Errorf("purge cancelled: %w", cancelled.Error)
		}
		res.Completed = done.RowsAffected
		res.Cancelled = cancelled.RowsAffected
		res.Total = res.Completed + res.Cancelled
		return nil
	})
	if err != nil {
		return CleanResult{}, err
	}

	utils.InfoLogger.Printf("Cleaned %d booking(s): %d completed, %d cancelled", res.Total, res.Completed, res.Cancelled)
	return res, nil
}

func (s *BookingService) Statistics(ctx context.Context, days int) (reservation.Statistics, error) {
	bookings, tables, err := loadSnapshot(s.db.WithContext(ctx))
	if err != nil {
		return reservation.Statistics{}, err
	}
	return s.engine.Statistics(s.engine.Now(), days, bookings, tables), nil
}

func (s *BookingService) ListTables(ctx context.Context, status models.TableStatus) ([]models.Table, error) {
	q := s.db.WithContext(ctx).Order("name ASC")
	if status != "" {
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown table status %q", reservation.ErrValidation, status)
		}
		q = q.Where("status = ?", status)
	}

	var tables []models.Table
	if err := q.Find(&tables).Error; err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return tables, nil
}

func (s *BookingService) GetTable(ctx context.Context, name string) (*models.Table, error) {
	var t models.Table
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: table %q", reservation.ErrNotFound, name)
		}
		return nil, err
	}
	return &t, nil
}

// TableHistory returns the newest entries first. limit <= 0 means all.
func (s *BookingService) TableHistory(ctx context.Context, name string, limit int) ([]models.TableHistory, error) {
	t, err := s.GetTable(ctx, name)
	if err != nil {
		return nil, err
	}

	q := s.db.WithContext(ctx).Where("table_id = ?", t.ID).Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var history []models.TableHistory
	if err := q.Find(&history).Error; err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return history, nil
}

func loadSnapshot(tx *gorm.DB) ([]models.Booking, []models.Table, error) {
	var bookings []models.Booking
	if err := tx.Order("date ASC, time ASC, created_at ASC").Find(&bookings).Error; err != nil {
		return nil, nil, fmt.Errorf("load bookings: %w", err)
	}
	var tables []models.Table
	if err := tx.Order("name ASC").Find(&tables).Error; err != nil {
		return nil, nil, fmt.Errorf("load tables: %w", err)
	}
	return bookings, tables, nil
}

func applyUpdate(tx *gorm.DB, upd *reservation.StatusUpdate) error {
	if upd == nil {
		return nil
	}
	if upd.Rejected != nil {
		utils.InfoLogger.WithField("table", upd.Table.Name).Warnf("Status change refused: %v", upd.Rejected)
	}
	if upd.Applied {
		if err := updateTableStatus(tx, upd.Table); err != nil {
			return err
		}
	}
	if upd.History != nil {
		if err := tx.Create(upd.History).Error; err != nil {
			return fmt.Errorf("record history: %w", err)
		}
	}
	return nil
}

func updateTableStatus(tx *gorm.DB, t models.Table) error {
	err := tx.Model(&models.Table{}).Where("id = ?", t.ID).Update("status", t.Status).Error
	if err != nil {
		return fmt.Errorf("update table %s: %w", t.Name, err)
	}
	return nil
}

func (s *BookingService) publishBooking(ctx context.Context, key string, res *reservation.BookingResult) {
	ev := BookingEvent{Booking: res.Booking, OccurredAt: s.engine.Now()}
	if res.Update != nil {
		ev.TableStatus = res.Update.Table.Status
	}
	s.publish(ctx, key, ev)

	if res.Update != nil && res.Update.Applied {
		reason := models.HistoryBookingCreated
		if res.Update.History != nil {
			reason = res.Update.History.Type
		}
		s.publishStatusChange(ctx, res.Update, reason)
	}
}

func (s *BookingService) publishStatusChange(ctx context.Context, upd *reservation.StatusUpdate, reason string) {
	s.publish(ctx, mq.KeyTableStatusChanged, TableEvent{
		Table:      upd.Table.Name,
		OldStatus:  upd.OldStatus,
		NewStatus:  upd.Table.Status,
		Reason:     reason,
		OccurredAt: s.engine.Now(),
	})
}

// publish never fails the caller; the database is already committed.
func (s *BookingService) publish(ctx context.Context, key string, v any) {
	if err := s.pub.PublishJSON(ctx, key, v); err != nil {
		utils.ErrorLogger.Printf("Error publishing %s: %v", key, err)
	}
}
