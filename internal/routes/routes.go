package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"

	"github.com/evn/pointeuse_backendl/config"
	"github.com/evn/pointeuse_backendl/internal/handlers"
	"github.com/evn/pointeuse_backendl/internal/ledger"
	"github.com/evn/pointeuse_backendl/internal/middleware"
	"github.com/evn/pointeuse_backendl/internal/pkg/response"
	"github.com/evn/pointeuse_backendl/internal/rates"
	"github.com/evn/pointeuse_backendl/internal/services"
)

// Setup инициализирует и возвращает настроенный маршрутизатор.
func Setup(cfg *config.Config, led *ledger.Ledger, tbl *rates.Table,
	jwtSvc *services.JWTService, events *services.EventsManager,
	exporter *services.SheetsExporter) *chi.Mux {

	jwtAuth := jwtauth.New("HS256", []byte(cfg.JwtSecret), nil)
	authHandler := handlers.NewAuthHandler(jwtSvc, cfg.AdminUser, cfg.AdminPasswordHash)

	router := chi.NewRouter()
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	// Liveness для хостинга + автопинга
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Bot en ligne"))
	})
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Public routes
	router.Post("/api/auth/login", authHandler.LoginHandler)
	router.Get("/ws", handlers.WebSocketHandler(jwtAuth, events))

	// Authenticated routes
	router.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(jwtAuth))
		r.Use(jwtauth.Authenticator(jwtAuth))
		r.Use(middleware.CheckRevoked(jwtSvc))

		r.Post("/api/logout", authHandler.LogoutHandler)
		r.Get("/api/shifts/active", handlers.ActiveShiftsHandler(led))
		r.Get("/api/shifts/ended", handlers.EndedShiftsHandler(led))
		r.Get("/api/summary", handlers.SummaryHandler(led))
		r.Get("/api/rates", handlers.GetRatesHandler(tbl))
		r.Post("/api/rates", handlers.SetRateHandler(tbl))
		r.Get("/api/export", handlers.ExportXLSXHandler(led))
		r.Post("/api/export/sheets", handlers.ExportSheetsHandler(led, exporter))
	})

	return router
}
