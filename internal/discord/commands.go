package discord

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/evn/pointeuse_backendl/internal/rates"
)

// commands слэш-команды бота: пуантёза + управление тарифами и сводка
func commands() []*discordgo.ApplicationCommand {
	adminOnly := int64(discordgo.PermissionAdministrator)
	guildOnly := false
	return []*discordgo.ApplicationCommand{
		{
			Name:         "creatp",
			Description:  "Créer la pointeuse",
			DMPermission: &guildOnly,
		},
		{
			Name:                     "setrate",
			Description:              "Définir le taux horaire d'un grade",
			DefaultMemberPermissions: &adminOnly,
			DMPermission:             &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "grade",
					Description: "Nom du rôle/grade",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionNumber,
					Name:        "rate",
					Description: "Taux horaire en euros",
					Required:    true,
				},
			},
		},
		{
			Name:         "taux",
			Description:  "Afficher les taux horaires configurés",
			DMPermission: &guildOnly,
		},
		{
			Name:                     "bilan",
			Description:              "Bilan des services terminés",
			DefaultMemberPermissions: &adminOnly,
			DMPermission:             &guildOnly,
		},
	}
}

func (b *Bot) handleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	name := i.ApplicationCommandData().Name
	log.Printf("[ACTION] %s a utilisé /%s à %s", memberName(i.Member), name, time.Now().Format("02/01/2006 15:04:05"))

	switch name {
	case "creatp":
		b.handleCreateBoard(s, i)
	case "setrate":
		b.handleSetRate(s, i)
	case "taux":
		b.handleListRates(s, i)
	case "bilan":
		b.handleSummary(s, i)
	}
}

func (b *Bot) handleCreateBoard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{boardEmbed()},
			Components: boardComponents(),
		},
	})
	if err != nil {
		log.Printf("❌ Failed to post board: %v", err)
		return
	}

	// Запоминаем сообщение пуантёзы, чтобы пережить рестарт
	msg, err := s.InteractionResponse(i.Interaction)
	if err != nil {
		log.Printf("Failed to fetch board message: %v", err)
		return
	}
	if b.boards != nil {
		if err := b.boards.SaveBoard(context.Background(), i.ChannelID, msg.ID); err != nil {
			log.Printf("Failed to save board handle: %v", err)
		}
	}
}

func (b *Bot) handleSetRate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.isAdmin(i) {
		respondEphemeral(s, i, msgAdminOnly)
		return
	}

	var grade string
	var rate float64
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "grade":
			grade = opt.StringValue()
		case "rate":
			rate = opt.FloatValue()
		}
	}

	if err := b.rates.SetRate(context.Background(), grade, rate); err != nil {
		if errors.Is(err, rates.ErrNegativeRate) {
			respondEphemeral(s, i, "⛔ Le taux doit être positif")
			return
		}
		log.Printf("❌ SetRate %s failed: %v", grade, err)
		respondEphemeral(s, i, msgPersistError)
		return
	}

	log.Printf("[RATE] %s: %s -> %.2f €/h", memberName(i.Member), grade, rate)
	respondEphemeral(s, i, rateSetMessage(grade, rate))
}

func (b *Bot) handleListRates(s *discordgo.Session, i *discordgo.InteractionCreate) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{ratesEmbed(b.rates.Snapshot())},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("❌ Failed to list rates: %v", err)
	}
}

func (b *Bot) handleSummary(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.isAdmin(i) {
		respondEphemeral(s, i, msgAdminOnly)
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{summaryEmbed(b.ledger.Summary())},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("❌ Failed to post summary: %v", err)
	}
}

func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("❌ Failed to respond: %v", err)
	}
}
