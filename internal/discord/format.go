package discord

import (
	"errors"
	"fmt"
	"sort"

	"github.com/bwmarrin/discordgo"

	"github.com/evn/pointeuse_backendl/internal/ledger"
	"github.com/evn/pointeuse_backendl/internal/models"
	"github.com/evn/pointeuse_backendl/internal/pkg/response"
	"github.com/evn/pointeuse_backendl/internal/rates"
)

const payButtonPrefix = "pay_"

const (
	msgStarted      = "✅ Service commencé"
	msgPaused       = "⏸️ Service en pause"
	msgResumed      = "▶️ Service repris"
	msgAlready      = "⛔ Déjà en service"
	msgNoActive     = "⛔ Aucun service actif"
	msgNotPaused    = "⛔ Aucun service en pause"
	msgCooldown     = "⏳ Attends la fin du cooldown avant de reprendre le service"
	msgAdminOnly    = "⛔ Réservé aux administrateurs"
	msgGuildOnly    = "⛔ La pointeuse ne fonctionne que sur le serveur"
	msgPersistError = "❌ Erreur lors de l'enregistrement"
)

func boardEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🕒 Pointeuse",
		Description: "Clique sur Start, Pause, Resume ou End",
	}
}

func boardComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{CustomID: "start", Label: "Start", Style: discordgo.SuccessButton},
				discordgo.Button{CustomID: "pause", Label: "Pause", Style: discordgo.SecondaryButton},
				discordgo.Button{CustomID: "resume", Label: "Resume", Style: discordgo.PrimaryButton},
				discordgo.Button{CustomID: "end", Label: "End", Style: discordgo.DangerButton},
			},
		},
	}
}

func payComponents(userID string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					CustomID: payButtonPrefix + userID,
					Label:    "💸 Payer",
					Style:    discordgo.SuccessButton,
				},
			},
		},
	}
}

func endMessage(hours, pay float64) string {
	return fmt.Sprintf("🧾 Service terminé\n⏱ Heures : %.2f\n💰 Salaire : %s€",
		hours, response.FormatEuros(pay))
}

func rateSetMessage(grade string, rate float64) string {
	return fmt.Sprintf("✅ Taux de %s fixé à %.2f €/h", grade, rate)
}

// startErrorMessage отказ старта: занято, кулдаун или хранилище
func startErrorMessage(err error) string {
	switch {
	case errors.Is(err, ledger.ErrAlreadyActive):
		return msgAlready
	case errors.Is(err, ledger.ErrCooldown):
		return msgCooldown
	default:
		return msgPersistError
	}
}

// transitionErrorMessage отказ pause/resume/end с сообщением по умолчанию
// для ошибок состояния
func transitionErrorMessage(err error, notAllowed string) string {
	if errors.Is(err, ledger.ErrActionNotAllowed) {
		return notAllowed
	}
	return msgPersistError
}

// shiftSummaryEmbed публичная сводка после End
func shiftSummaryEmbed(rec models.ShiftRecord) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "🧾 Service terminé",
		Fields: []*discordgo.MessageEmbedField{
			{Name: "👤 Employé", Value: rec.Username, Inline: true},
			{Name: "📅 Date", Value: rec.StartTime.Format("02/01/2006"), Inline: true},
			{Name: "⏱ Heures", Value: fmt.Sprintf("%.2f", rec.DurationHours), Inline: true},
			{Name: "💰 Salaire", Value: fmt.Sprintf("%.2f€", rec.Pay), Inline: true},
		},
	}
}

func paidSummaryEmbed(rec models.ShiftRecord, paidBy string) *discordgo.MessageEmbed {
	embed := shiftSummaryEmbed(rec)
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name: "💸 Payé", Value: "par " + paidBy, Inline: false,
	})
	return embed
}

func ratesEmbed(snapshot map[string]float64) *discordgo.MessageEmbed {
	grades := make([]string, 0, len(snapshot))
	for grade := range snapshot {
		grades = append(grades, grade)
	}
	sort.Strings(grades)

	var fields []*discordgo.MessageEmbedField
	for _, grade := range grades {
		label := grade
		if grade == rates.DefaultGrade {
			label = "everyone (défaut)"
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: label, Value: fmt.Sprintf("%.2f €/h", snapshot[grade]), Inline: true,
		})
	}
	return &discordgo.MessageEmbed{Title: "💶 Taux horaires", Fields: fields}
}

func summaryEmbed(summary map[string]models.ShiftSummary) *discordgo.MessageEmbed {
	ids := make([]string, 0, len(summary))
	for id := range summary {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var fields []*discordgo.MessageEmbedField
	for _, id := range ids {
		s := summary[id]
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  "👤 " + s.Username,
			Value: fmt.Sprintf("%d service(s) · ⏱ %.2f h · 💰 %.2f€", s.Shifts, s.TotalHours, s.TotalPay),
		})
	}
	if len(fields) == 0 {
		return &discordgo.MessageEmbed{
			Title:       "📊 Bilan",
			Description: "Aucun service terminé",
		}
	}
	return &discordgo.MessageEmbed{Title: "📊 Bilan", Fields: fields}
}
