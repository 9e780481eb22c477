package repositories

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evn/pointeuse_backendl/internal/models"
)

const testSchema = `
CREATE TABLE sessions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id TEXT NOT NULL,
    username TEXT NOT NULL DEFAULT '',
    grade TEXT NOT NULL DEFAULT '',
    start TIMESTAMP NOT NULL,
    "end" TIMESTAMP,
    rate REAL NOT NULL DEFAULT 0,
    pauses TEXT NOT NULL DEFAULT '[]',
    duration_hours REAL,
    pay REAL,
    paid INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE roles (
    role TEXT PRIMARY KEY,
    rate REAL NOT NULL
);`

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	_, err = db.Exec(testSchema)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLiteRepositoryShiftLifecycle(t *testing.T) {
	repo := NewSQLiteRepository(newTestDB(t))
	ctx := context.Background()

	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	rec := models.ShiftRecord{
		UserID: "u1", Username: "alice", Grade: "serveur",
		StartTime: start, Rate: 12.5, Status: models.StatusActive,
	}
	require.NoError(t, repo.RecordShift(ctx, Event{
		Action: ActionStart, UserID: "u1", Username: "alice",
		Grade: "serveur", Rate: 12.5, At: start, Record: rec,
	}))

	// Пауза: открытый интервал уходит в колонку pauses
	pauseStart := start.Add(10 * time.Minute)
	rec.Pauses = []models.PauseInterval{{Start: pauseStart}}
	rec.Status = models.StatusPaused
	require.NoError(t, repo.RecordShift(ctx, Event{Action: ActionPause, UserID: "u1", At: pauseStart, Record: rec}))

	snap, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Shifts["u1"], 1)
	assert.Equal(t, models.StatusPaused, snap.Shifts["u1"][0].Status)
	require.Len(t, snap.Shifts["u1"][0].Pauses, 1)

	// Завершение закрывает открытую строку
	pauseEnd := start.Add(20 * time.Minute)
	rec.Pauses[0].End = &pauseEnd
	end := start.Add(70 * time.Minute)
	rec.EndTime = &end
	rec.Status = models.StatusCooldown
	rec.DurationHours = 1
	rec.Pay = 12.5
	require.NoError(t, repo.RecordShift(ctx, Event{Action: ActionEnd, UserID: "u1", At: end, Record: rec}))

	snap, err = repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Shifts["u1"], 1)
	got := snap.Shifts["u1"][0]
	require.NotNil(t, got.EndTime)
	assert.Equal(t, models.StatusIdle, got.Status)
	assert.Equal(t, 1.0, got.DurationHours)
	assert.Equal(t, 12.5, got.Pay)
	assert.False(t, got.Paid)

	require.NoError(t, repo.RecordShift(ctx, Event{Action: ActionPay, UserID: "u1", At: end, Record: rec}))
	snap, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.True(t, snap.Shifts["u1"][0].Paid)
}

func TestSQLiteRepositorySaveRates(t *testing.T) {
	repo := NewSQLiteRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.SaveRates(ctx, map[string]float64{"everyone": 5, "serveur": 12.5}))
	require.NoError(t, repo.SaveRates(ctx, map[string]float64{"everyone": 5, "serveur": 13}))

	snap, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 13.0, snap.Grades["serveur"])
	assert.Equal(t, 5.0, snap.Grades["everyone"])
	assert.Len(t, snap.Grades, 2)
}

func TestSQLiteRepositoryOnePerUserOpenRow(t *testing.T) {
	db := newTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	start := time.Now().UTC()
	rec := models.ShiftRecord{UserID: "u1", StartTime: start, Rate: 10, Status: models.StatusActive}
	require.NoError(t, repo.RecordShift(ctx, Event{Action: ActionStart, UserID: "u1", At: start, Record: rec}))

	var open int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sessions WHERE user_id = ? AND "end" IS NULL`, "u1").Scan(&open))
	assert.Equal(t, 1, open)
}
