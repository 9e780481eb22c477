package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastShiftReachesClients(t *testing.T) {
	m := NewEventsManager()

	client := &Client{Send: make(chan []byte, 4)}
	m.Register(client)

	m.BroadcastShift(ShiftEvent{
		Action:   "start",
		UserID:   "u1",
		Username: "alice",
		At:       time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	})

	select {
	case raw := <-client.Send:
		var ev ShiftEvent
		require.NoError(t, json.Unmarshal(raw, &ev))
		assert.Equal(t, "shift_event", ev.Type)
		assert.Equal(t, "start", ev.Action)
		assert.Equal(t, "alice", ev.Username)
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}
}

func TestSlowClientDropped(t *testing.T) {
	m := NewEventsManager()

	// Клиент без буфера не успевает читать и отваливается
	slow := &Client{Send: make(chan []byte)}
	m.Register(slow)

	m.Broadcast([]byte("one"))
	m.Broadcast([]byte("two"))

	select {
	case _, ok := <-slow.Send:
		assert.False(t, ok, "expected channel closed for slow client")
	case <-time.After(time.Second):
		t.Fatal("slow client channel not closed")
	}
}
