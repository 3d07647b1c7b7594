package model

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return db, mock
}

func TestScheduleConflictFindsOccupiedDay(t *testing.T) {
	db, mock := newMockDB(t)

	publishAt := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "title", "slug", "status"}).
		AddRow(7, "Phuket Market Outlook", "phuket-market-outlook", "scheduled")

	mock.ExpectQuery(`SELECT (.+) FROM "scheduled_blogs"`).WillReturnRows(rows)

	conflict, err := ScheduleConflict(db, publishAt, 0)
	require.NoError(t, err)
	require.NotNil(t, conflict)
	assert.Equal(t, uint(7), conflict.ID)
	assert.Equal(t, "Phuket Market Outlook", conflict.Title)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleConflictFreeDay(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT (.+) FROM "scheduled_blogs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	conflict, err := ScheduleConflict(db, time.Now().Add(48*time.Hour), 0)
	require.NoError(t, err)
	assert.Nil(t, conflict)

	assert.NoError(t, mock.ExpectationsWereMet())
}
