package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ticketing/internal/model"
)

// The users email column carries a MySQL collation, so the table is
// declared by hand for SQLite.
const sqliteUsersTable = `CREATE TABLE users (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'User',
	status TEXT NOT NULL DEFAULT 'active',
	is_verified NUMERIC DEFAULT false,
	gender TEXT,
	contact TEXT,
	reset_token TEXT,
	email_verification_token TEXT,
	created_at DATETIME,
	updated_at DATETIME
)`

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "ticketing.db") + "?_pragma=busy_timeout(5000)"
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	// SQLite allows one writer; queue callers on the pool instead of
	// failing with SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, gormDB.Exec(sqliteUsersTable).Error)
	require.NoError(t, gormDB.AutoMigrate(&model.Event{}, &model.Booking{}))
	return gormDB
}

func seedEvent(t *testing.T, db *gorm.DB, capacity, booked int) *model.Event {
	t.Helper()
	event := &model.Event{
		Name:     "Go Meetup",
		Date:     time.Date(2030, 1, 1, 18, 0, 0, 0, time.UTC),
		Capacity: capacity,
		IsActive: true,
		AgentID:  uuid.New(),
	}
	require.NoError(t, NewEventRepository(db).Create(context.Background(), event))
	if booked > 0 {
		require.NoError(t, db.Model(event).UpdateColumn("booked_count", booked).Error)
		event.BookedCount = booked
	}
	return event
}

func bookedCount(t *testing.T, db *gorm.DB, eventID uuid.UUID) int {
	t.Helper()
	var event model.Event
	require.NoError(t, db.Select("id", "booked_count").Where("id = ?", eventID).First(&event).Error)
	return event.BookedCount
}

func bookingRows(t *testing.T, db *gorm.DB, eventID uuid.UUID) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&model.Booking{}).Where("event_id = ?", eventID).Count(&n).Error)
	return n
}
