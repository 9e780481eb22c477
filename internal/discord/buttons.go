package discord

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/evn/pointeuse_backendl/internal/ledger"
	"github.com/evn/pointeuse_backendl/internal/services"
)

func (b *Bot) handleButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	// Вне гильдии (личка) Member отсутствует, дальше идти нельзя
	if i.Member == nil || i.Member.User == nil {
		respondEphemeral(s, i, msgGuildOnly)
		return
	}

	customID := i.MessageComponentData().CustomID
	name := memberName(i.Member)
	log.Printf("[BUTTON CLICK] %s a cliqué sur %q à %s", name, customID, time.Now().Format("02/01/2006 15:04:05"))

	if strings.HasPrefix(customID, payButtonPrefix) {
		b.handlePay(s, i, strings.TrimPrefix(customID, payButtonPrefix))
		return
	}

	// Ответ занимает время (запись в хранилище), сразу откладываем
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
	if err != nil {
		log.Printf("❌ Failed to defer reply: %v", err)
		return
	}

	switch customID {
	case "start":
		b.handleStart(s, i)
	case "pause":
		b.handlePause(s, i)
	case "resume":
		b.handleResume(s, i)
	case "end":
		b.handleEnd(s, i)
	default:
		editReply(s, i, "❌ Action inconnue")
	}
}

func (b *Bot) handleStart(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := i.Member.User.ID
	name := memberName(i.Member)
	held := b.roleNames(s, i.GuildID, i.Member)
	rate, grade := b.rates.Resolve(held)

	rec, err := b.ledger.Start(context.Background(), userID, name, grade, rate)
	if err != nil {
		editReply(s, i, startErrorMessage(err))
		return
	}

	log.Printf("[START] %s a commencé le service (taux %.2f €/h)", name, rate)
	editReply(s, i, msgStarted)
	b.broadcast(services.ShiftEvent{Action: "start", UserID: userID, Username: name, At: rec.StartTime})
}

func (b *Bot) handlePause(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := i.Member.User.ID
	name := memberName(i.Member)

	if err := b.ledger.Pause(context.Background(), userID); err != nil {
		editReply(s, i, transitionErrorMessage(err, msgNoActive))
		return
	}

	log.Printf("[PAUSE] %s a mis le service en pause", name)
	editReply(s, i, msgPaused)
	b.broadcast(services.ShiftEvent{Action: "pause", UserID: userID, Username: name, At: time.Now()})
}

func (b *Bot) handleResume(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := i.Member.User.ID
	name := memberName(i.Member)

	if err := b.ledger.Resume(context.Background(), userID); err != nil {
		editReply(s, i, transitionErrorMessage(err, msgNotPaused))
		return
	}

	log.Printf("[RESUME] %s a repris le service", name)
	editReply(s, i, msgResumed)
	b.broadcast(services.ShiftEvent{Action: "resume", UserID: userID, Username: name, At: time.Now()})
}

func (b *Bot) handleEnd(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := i.Member.User.ID
	name := memberName(i.Member)

	res, err := b.ledger.End(context.Background(), userID)
	if err != nil {
		editReply(s, i, transitionErrorMessage(err, msgNoActive))
		return
	}

	log.Printf("[END] %s a terminé le service. Heures: %.2f, Salaire: %.2f€", name, res.DurationHours, res.Pay)
	editReply(s, i, endMessage(res.DurationHours, res.Pay))
	b.broadcast(services.ShiftEvent{
		Action: "end", UserID: userID, Username: name,
		Hours: res.DurationHours, Pay: res.Pay, At: *res.Record.EndTime,
	})

	// Публичная сводка с кнопкой подтверждения оплаты
	_, err = s.ChannelMessageSendComplex(i.ChannelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{shiftSummaryEmbed(res.Record)},
		Components: payComponents(userID),
	})
	if err != nil {
		log.Printf("❌ Failed to post shift summary: %v", err)
	}
}

func (b *Bot) handlePay(s *discordgo.Session, i *discordgo.InteractionCreate, userID string) {
	if !b.isAdmin(i) {
		respondEphemeral(s, i, msgAdminOnly)
		return
	}

	rec, err := b.ledger.MarkPaid(context.Background(), userID)
	if err != nil {
		if errors.Is(err, ledger.ErrNothingToPay) {
			respondEphemeral(s, i, "⛔ Aucun service à payer")
			return
		}
		log.Printf("❌ MarkPaid %s failed: %v", userID, err)
		respondEphemeral(s, i, msgPersistError)
		return
	}

	log.Printf("[PAY] %s a confirmé le paiement de %s (%.2f€)", memberName(i.Member), rec.Username, rec.Pay)

	// Перерисовываем сводку без кнопки
	embeds := []*discordgo.MessageEmbed{paidSummaryEmbed(rec, memberName(i.Member))}
	components := []discordgo.MessageComponent{}
	_, err = s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    i.ChannelID,
		ID:         i.Message.ID,
		Embeds:     &embeds,
		Components: &components,
	})
	if err != nil {
		log.Printf("Failed to edit summary message: %v", err)
	}

	respondEphemeral(s, i, "✅ Paiement confirmé")
	b.broadcast(services.ShiftEvent{Action: "pay", UserID: userID, Username: rec.Username, Pay: rec.Pay, At: time.Now()})
}

func editReply(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	_, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &content})
	if err != nil {
		log.Printf("❌ Failed to edit reply: %v", err)
	}
}
