package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/table-reservation/database"
	"github.com/yeremiapane/table-reservation/models"
	"github.com/yeremiapane/table-reservation/reservation"
	"github.com/yeremiapane/table-reservation/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var rome = time.FixedZone("CET", 3600)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishJSON(ctx context.Context, key string, v any) error {
	args := m.Called(ctx, key, v)
	return args.Error(0)
}

func at(date, clock string) time.Time {
	t, err := time.ParseInLocation(models.DateLayout+" "+models.TimeLayout, date+" "+clock, rome)
	if err != nil {
		panic(err)
	}
	return t
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLogger("error")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func seedTables(t *testing.T, db *gorm.DB, tables ...models.Table) {
	t.Helper()
	for i := range tables {
		if tables[i].Status == "" {
			tables[i].Status = models.TableAvailable
		}
		require.NoError(t, db.Create(&tables[i]).Error)
	}
}

// setupService returns a service whose clock is frozen at now and whose
// publisher accepts every event.
func setupService(t *testing.T, now time.Time) (*gorm.DB, *BookingService, *mockPublisher) {
	t.Helper()
	db := setupTestDB(t)

	n := 0
	engine := reservation.NewEngine(
		reservation.Config{Location: rome, DefaultDuration: 2 * time.Hour},
		reservation.WithClock(fixedClock{t: now}),
		reservation.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("bk-%d", n)
		}),
	)

	pub := &mockPublisher{}
	pub.On("PublishJSON", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	return db, NewBookingService(db, engine, pub), pub
}

func input(table, date, clock string) reservation.BookingInput {
	return reservation.BookingInput{
		TableName: table,
		GuestName: "Rossi",
		PartySize: 2,
		Date:      date,
		Time:      clock,
	}
}

func tableStatus(t *testing.T, db *gorm.DB, name string) models.TableStatus {
	t.Helper()
	var tb models.Table
	require.NoError(t, db.Where("name = ?", name).First(&tb).Error)
	return tb.Status
}
