package api

import (
	"net/http"

	"github.com/dom/combat-tracker/internal/api/handlers"
	"github.com/dom/combat-tracker/internal/api/middleware"
	"github.com/dom/combat-tracker/internal/config"
	"github.com/dom/combat-tracker/internal/service"
	"github.com/dom/combat-tracker/internal/websocket"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func NewRouter(services *service.Services, hub *websocket.Hub, cfg *config.Config, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigin))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	characterHandler := handlers.NewCharacterHandler(services.Character, logger)
	conditionHandler := handlers.NewConditionHandler()
	initiativeHandler := handlers.NewInitiativeHandler(services.Character, logger)
	wsHandler := handlers.NewWebSocketHandler(hub, logger)

	r.Route("/api", func(r chi.Router) {
		r.Route("/characters", func(r chi.Router) {
			r.Get("/", characterHandler.List)
			r.Post("/", characterHandler.Create)
			r.Post("/batch", characterHandler.CreateBatch)
			r.Get("/{id}", characterHandler.Get)
			r.Patch("/{id}", characterHandler.Update)
			r.Delete("/{id}", characterHandler.Delete)
		})

		r.Get("/conditions", conditionHandler.List)
		r.Get("/initiative", initiativeHandler.Get)

		// WebSocket endpoint
		r.Get("/ws", wsHandler.Handle)
	})

	return r
}
