package repositories

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evn/pointeuse_backendl/internal/models"
)

func TestJSONRepositoryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pointeuse.json")
	repo := NewJSONRepository(path)
	ctx := context.Background()

	_, err := repo.Load(ctx)
	require.NoError(t, err)

	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	rec := models.ShiftRecord{
		UserID:    "u1",
		Username:  "alice",
		Grade:     "serveur",
		StartTime: start,
		Rate:      12.5,
		Status:    models.StatusActive,
	}
	require.NoError(t, repo.RecordShift(ctx, Event{
		Action: ActionStart, UserID: "u1", Username: "alice",
		Grade: "serveur", Rate: 12.5, At: start, Record: rec,
	}))
	require.NoError(t, repo.SaveRates(ctx, map[string]float64{"everyone": 5, "serveur": 12.5}))

	// Новый экземпляр читает то, что записал первый
	reloaded := NewJSONRepository(path)
	snap, err := reloaded.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12.5, snap.Grades["serveur"])
	require.Len(t, snap.Shifts["u1"], 1)
	assert.Equal(t, "alice", snap.Shifts["u1"][0].Username)
	assert.True(t, snap.Shifts["u1"][0].StartTime.Equal(start))
	assert.Nil(t, snap.Shifts["u1"][0].EndTime)
}

func TestJSONRepositoryReplacesSameShift(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pointeuse.json")
	repo := NewJSONRepository(path)
	ctx := context.Background()

	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	rec := models.ShiftRecord{UserID: "u1", StartTime: start, Rate: 10, Status: models.StatusActive}
	require.NoError(t, repo.RecordShift(ctx, Event{Action: ActionStart, UserID: "u1", At: start, Record: rec}))

	end := start.Add(time.Hour)
	rec.EndTime = &end
	rec.Status = models.StatusCooldown
	rec.DurationHours = 1
	rec.Pay = 10
	require.NoError(t, repo.RecordShift(ctx, Event{Action: ActionEnd, UserID: "u1", At: end, Record: rec}))

	snap, err := NewJSONRepository(path).Load(ctx)
	require.NoError(t, err)
	// Вторая запись заменила первую, а не добавилась
	require.Len(t, snap.Shifts["u1"], 1)
	require.NotNil(t, snap.Shifts["u1"][0].EndTime)
	assert.Equal(t, 1.0, snap.Shifts["u1"][0].DurationHours)
}

func TestJSONRepositoryDocumentShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pointeuse.json")
	repo := NewJSONRepository(path)
	ctx := context.Background()

	require.NoError(t, repo.SaveRates(ctx, map[string]float64{"everyone": 5}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "grades")
	assert.Contains(t, doc, "users")
}

func TestJSONRepositoryLoadMissingFile(t *testing.T) {
	repo := NewJSONRepository(filepath.Join(t.TempDir(), "absent.json"))
	snap, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Grades)
	assert.Empty(t, snap.Shifts)
}
