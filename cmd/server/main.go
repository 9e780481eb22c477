package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/evn/pointeuse_backendl/config"
	"github.com/evn/pointeuse_backendl/db"
	"github.com/evn/pointeuse_backendl/internal/discord"
	"github.com/evn/pointeuse_backendl/internal/ledger"
	"github.com/evn/pointeuse_backendl/internal/rates"
	"github.com/evn/pointeuse_backendl/internal/repositories"
	"github.com/evn/pointeuse_backendl/internal/routes"
	"github.com/evn/pointeuse_backendl/internal/services"
)

func main() {
	log.Println("🚀 Lancement du bot pointeuse...")
	cfg := config.NewConfig()

	repo := newRepository(cfg)
	defer repo.Close()

	redisClient := config.NewRedisClient()
	defer redisClient.Close()

	snap, err := repo.Load(context.Background())
	if err != nil {
		log.Fatalf("❌ Impossible de charger l'état: %v", err)
	}

	led := ledger.New(repo, time.Duration(cfg.CooldownMinutes)*time.Minute)
	led.Restore(snap.Shifts)

	tbl := rates.NewTable(repo, cfg.DefaultRate)
	tbl.Restore(snap.Grades)

	jwtService := services.NewJWTService(cfg.JwtSecret, redisClient)
	boards := services.NewBoardStore(redisClient)
	events := services.NewEventsManager()

	exporter := services.NewSheetsExporter(cfg.SpreadsheetID, cfg.GoogleCredentials)

	bot, err := discord.NewBot(cfg.DiscordToken, cfg.GuildID, led, tbl, boards, events)
	if err != nil {
		log.Fatalf("❌ Erreur de création de la session Discord: %v", err)
	}
	if err := bot.Open(); err != nil {
		log.Fatalf("❌ Connexion Discord impossible: %v", err)
	}
	defer bot.Close()

	go cooldownSweepLoop(led)
	go services.KeepAlive(cfg.SelfURL, 5*time.Minute)

	router := routes.Setup(cfg, led, tbl, jwtService, events, exporter)

	serverAddress := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("🚀 Server starting on %s", serverAddress)
	log.Fatal(http.ListenAndServe(serverAddress, router))
}

// newRepository выбирает бэкенд хранения по конфигу
func newRepository(cfg *config.Config) repositories.ShiftRepository {
	switch cfg.StoreBackend {
	case "sqlite":
		database := db.InitDB(cfg.DatabaseDSN)
		return repositories.NewSQLiteRepository(database)
	case "webhook":
		if cfg.SheetURL == "" {
			log.Fatal("❌ SHEET_URL requis pour le backend webhook")
		}
		return repositories.NewWebhookRepository(cfg.SheetURL)
	default:
		return repositories.NewJSONRepository(cfg.DataFile)
	}
}

func cooldownSweepLoop(led *ledger.Ledger) {
	log.Println("✅ Cooldown sweep job started")
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		if count := led.PurgeExpired(); count > 0 {
			log.Printf("✅ Cooldown sweep: %d utilisateur(s) libéré(s)", count)
		}
	}
}
