package repositories

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evn/pointeuse_backendl/internal/models"
)

func TestWebhookRepositoryPostsAction(t *testing.T) {
	var got webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]string{"date": "01/03/2024"})
	}))
	defer srv.Close()

	repo := NewWebhookRepository(srv.URL)
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	err := repo.RecordShift(context.Background(), Event{
		Action:   ActionStart,
		UserID:   "u1",
		Username: "alice",
		Grade:    "serveur",
		Rate:     12.5,
		At:       at,
		Record:   models.ShiftRecord{UserID: "u1", StartTime: at},
	})
	require.NoError(t, err)

	assert.Equal(t, "shift", got.Type)
	assert.Equal(t, "start", got.Action)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "serveur", got.Grade)
	assert.Equal(t, at.Format(time.RFC3339), got.Timestamp)
}

func TestWebhookRepositoryEndCarriesHoursAndSalary(t *testing.T) {
	var got webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"date": "01/03/2024", "hours": 1.0, "salary": 12.5,
		})
	}))
	defer srv.Close()

	repo := NewWebhookRepository(srv.URL)
	end := time.Now()
	err := repo.RecordShift(context.Background(), Event{
		Action: ActionEnd,
		UserID: "u1",
		At:     end,
		Record: models.ShiftRecord{UserID: "u1", EndTime: &end, DurationHours: 1.0, Pay: 12.5},
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, got.Hours)
	assert.Equal(t, 12.5, got.Salary)
}

func TestWebhookRepositoryErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"error": "Déjà en service"})
	}))
	defer srv.Close()

	repo := NewWebhookRepository(srv.URL)
	err := repo.RecordShift(context.Background(), Event{Action: ActionStart, UserID: "u1", At: time.Now()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Déjà en service")
}

func TestWebhookRepositoryBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	repo := NewWebhookRepository(srv.URL)
	err := repo.RecordShift(context.Background(), Event{Action: ActionStart, UserID: "u1", At: time.Now()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestWebhookRepositoryLoadIsEmpty(t *testing.T) {
	repo := NewWebhookRepository("http://example.invalid")
	snap, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Shifts)
	assert.NoError(t, repo.SaveRates(context.Background(), map[string]float64{"everyone": 5}))
}
