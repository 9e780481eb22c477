package discord

import (
	"errors"
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noNetworkTransport struct{}

func (noNetworkTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("no network in tests")
}

func newTestSession(t *testing.T) *discordgo.Session {
	t.Helper()
	s, err := discordgo.New("Bot test")
	require.NoError(t, err)
	s.Client = &http.Client{Transport: noNetworkTransport{}}
	return s
}

// В личке Interaction приходит без Member: кнопка должна вежливо
// отказать, а не ронять процесс
func TestButtonWithoutMemberDoesNotPanic(t *testing.T) {
	s := newTestSession(t)
	b := &Bot{session: s}

	for _, customID := range []string{"start", "pause", "resume", "end", "pay_123"} {
		i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
			Type: discordgo.InteractionMessageComponent,
			Data: discordgo.MessageComponentInteractionData{CustomID: customID},
		}}
		assert.NotPanics(t, func() { b.handleButton(s, i) }, customID)
	}
}

func TestCommandsDisabledInDMs(t *testing.T) {
	for _, cmd := range commands() {
		require.NotNil(t, cmd.DMPermission, cmd.Name)
		assert.False(t, *cmd.DMPermission, cmd.Name)
	}
}
