package discord

import (
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evn/pointeuse_backendl/internal/ledger"
	"github.com/evn/pointeuse_backendl/internal/models"
)

func TestBoardComponentsCustomIDs(t *testing.T) {
	components := boardComponents()
	require.Len(t, components, 1)
	row, ok := components[0].(discordgo.ActionsRow)
	require.True(t, ok)
	require.Len(t, row.Components, 4)

	var ids []string
	for _, c := range row.Components {
		btn, ok := c.(discordgo.Button)
		require.True(t, ok)
		ids = append(ids, btn.CustomID)
	}
	assert.Equal(t, []string{"start", "pause", "resume", "end"}, ids)
}

func TestEndMessageFormat(t *testing.T) {
	msg := endMessage(1.0, 12.5)
	assert.Contains(t, msg, "🧾 Service terminé")
	assert.Contains(t, msg, "⏱ Heures : 1.00")
	assert.Contains(t, msg, "💰 Salaire : 12.50€")
}

func TestStartErrorMessages(t *testing.T) {
	assert.Equal(t, msgAlready, startErrorMessage(ledger.ErrAlreadyActive))
	assert.Equal(t, msgCooldown, startErrorMessage(ledger.ErrCooldown))
	assert.Equal(t, msgPersistError,
		startErrorMessage(&ledger.PersistenceError{Err: errors.New("boom")}))
}

func TestTransitionErrorMessages(t *testing.T) {
	assert.Equal(t, msgNoActive, transitionErrorMessage(ledger.ErrNoActiveShift, msgNoActive))
	assert.Equal(t, msgNotPaused, transitionErrorMessage(ledger.ErrNotPaused, msgNotPaused))
	assert.Equal(t, msgPersistError,
		transitionErrorMessage(&ledger.PersistenceError{Err: errors.New("boom")}, msgNoActive))
}

func TestPayButtonCarriesUserID(t *testing.T) {
	components := payComponents("123456")
	row := components[0].(discordgo.ActionsRow)
	btn := row.Components[0].(discordgo.Button)
	assert.Equal(t, "pay_123456", btn.CustomID)
}

func TestShiftSummaryEmbed(t *testing.T) {
	end := time.Date(2024, 3, 1, 17, 0, 0, 0, time.UTC)
	rec := models.ShiftRecord{
		UserID:        "u1",
		Username:      "alice",
		StartTime:     time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		EndTime:       &end,
		DurationHours: 8,
		Pay:           100,
	}
	embed := shiftSummaryEmbed(rec)
	require.Len(t, embed.Fields, 4)
	assert.Equal(t, "alice", embed.Fields[0].Value)
	assert.Equal(t, "01/03/2024", embed.Fields[1].Value)
	assert.Equal(t, "8.00", embed.Fields[2].Value)
	assert.Equal(t, "100.00€", embed.Fields[3].Value)

	paid := paidSummaryEmbed(rec, "boss")
	require.Len(t, paid.Fields, 5)
	assert.Equal(t, "par boss", paid.Fields[4].Value)
}

func TestSummaryEmbedEmpty(t *testing.T) {
	embed := summaryEmbed(nil)
	assert.Equal(t, "Aucun service terminé", embed.Description)
}
