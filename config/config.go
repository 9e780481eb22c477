package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config хранит все конфигурации приложения
type Config struct {
	DiscordToken      string
	GuildID           string
	SheetURL          string
	StoreBackend      string // json | sqlite | webhook
	DataFile          string
	DatabaseDSN       string
	ServerPort        string
	SelfURL           string
	JwtSecret         string
	AdminUser         string
	AdminPasswordHash string
	CooldownMinutes   int
	DefaultRate       float64
	SpreadsheetID     string
	GoogleCredentials string
}

// NewConfig создает и возвращает новый экземпляр Config
func NewConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("📄 .env не найден, используем переменные окружения")
	}

	cfg := &Config{
		DiscordToken:      os.Getenv("TOKEN"),
		GuildID:           os.Getenv("GUILD_ID"),
		SheetURL:          os.Getenv("SHEET_URL"),
		StoreBackend:      getEnv("STORE_BACKEND", "json"),
		DataFile:          getEnv("DATA_FILE", "./data/pointeuse.json"),
		DatabaseDSN:       getEnv("DATABASE_DSN", "./data/pointeuse.db"),
		ServerPort:        getEnv("SERVER_PORT", "3000"),
		SelfURL:           os.Getenv("SELF_URL"),
		JwtSecret:         getEnv("JWT_SECRET", "change-me-in-production"),
		AdminUser:         getEnv("ADMIN_USER", "admin"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		CooldownMinutes:   getEnvInt("COOLDOWN_MINUTES", 2),
		DefaultRate:       getEnvFloat("DEFAULT_RATE", 0),
		SpreadsheetID:     os.Getenv("SPREADSHEET_ID"),
		GoogleCredentials: getEnv("GOOGLE_CREDENTIALS_FILE", "credentials.json"),
	}

	if cfg.DiscordToken == "" {
		log.Println("❌ TOKEN не задан, бот не сможет подключиться к Discord")
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
	}
	return fallback
}
