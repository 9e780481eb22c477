package discord

import (
	"context"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/evn/pointeuse_backendl/internal/ledger"
	"github.com/evn/pointeuse_backendl/internal/rates"
	"github.com/evn/pointeuse_backendl/internal/services"
)

// Bot тонкий адаптер между Discord и леджером: внутрь уходят только
// плоские вызовы Start/Pause/Resume/End, наружу готовые embed-ы
type Bot struct {
	session *discordgo.Session
	ledger  *ledger.Ledger
	rates   *rates.Table
	boards  *services.BoardStore
	events  *services.EventsManager
	guildID string
}

func NewBot(token, guildID string, led *ledger.Ledger, tbl *rates.Table,
	boards *services.BoardStore, events *services.EventsManager) (*Bot, error) {

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers

	b := &Bot{
		session: session,
		ledger:  led,
		rates:   tbl,
		boards:  boards,
		events:  events,
		guildID: guildID,
	}
	session.AddHandler(b.onReady)
	session.AddHandler(b.onInteraction)
	return b, nil
}

func (b *Bot) Open() error {
	log.Println("🔑 Tentative de connexion au bot Discord...")
	return b.session.Open()
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	log.Printf("✅ Bot connecté en tant que %s (Online)", r.User.String())
	b.registerCommands(s)

	// Пуантёзы, опубликованные до рестарта, продолжают работать:
	// кнопки диспатчатся по CustomID без привязки к сообщению
	if b.boards != nil {
		if boards, err := b.boards.Boards(context.Background()); err != nil {
			log.Printf("Failed to load saved boards: %v", err)
		} else if len(boards) > 0 {
			log.Printf("📌 %d pointeuse(s) retrouvée(s) après redémarrage", len(boards))
		}
	}
}

// registerCommands деплой на гильдию (мгновенно) и глобально
func (b *Bot) registerCommands(s *discordgo.Session) {
	appID := s.State.User.ID

	if b.guildID != "" {
		log.Printf("[DEPLOY] Déploiement commandes sur le serveur GUILD %s...", b.guildID)
		if _, err := s.ApplicationCommandBulkOverwrite(appID, b.guildID, commands()); err != nil {
			log.Printf("[DEPLOY ERROR] guild: %v", err)
		} else {
			log.Println("✅ Commandes GUILD déployées avec succès !")
		}
	}

	log.Println("[DEPLOY] Déploiement commandes GLOBAL...")
	if _, err := s.ApplicationCommandBulkOverwrite(appID, "", commands()); err != nil {
		log.Printf("[DEPLOY ERROR] global: %v", err)
	} else {
		log.Println("✅ Commandes GLOBAL déployées avec succès !")
	}
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.handleCommand(s, i)
	case discordgo.InteractionMessageComponent:
		b.handleButton(s, i)
	}
}

// memberName ник на сервере, иначе имя аккаунта
func memberName(member *discordgo.Member) string {
	if member == nil {
		return "Unknown"
	}
	if member.Nick != "" {
		return member.Nick
	}
	if member.User != nil {
		return member.User.Username
	}
	return "Unknown"
}

// roleNames имена ролей участника без @everyone
func (b *Bot) roleNames(s *discordgo.Session, guildID string, member *discordgo.Member) []string {
	if member == nil {
		return nil
	}

	byID := make(map[string]string)
	if guild, err := s.State.Guild(guildID); err == nil {
		for _, role := range guild.Roles {
			byID[role.ID] = role.Name
		}
	}
	if len(byID) == 0 {
		roles, err := s.GuildRoles(guildID)
		if err != nil {
			log.Printf("Failed to fetch guild roles: %v", err)
			return nil
		}
		for _, role := range roles {
			byID[role.ID] = role.Name
		}
	}

	var names []string
	for _, roleID := range member.Roles {
		name, ok := byID[roleID]
		if !ok || name == "@everyone" {
			continue
		}
		names = append(names, name)
	}
	return names
}

func (b *Bot) isAdmin(i *discordgo.InteractionCreate) bool {
	return i.Member != nil && i.Member.Permissions&discordgo.PermissionAdministrator != 0
}

func (b *Bot) broadcast(ev services.ShiftEvent) {
	if b.events != nil {
		b.events.BroadcastShift(ev)
	}
}
