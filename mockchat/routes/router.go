package routes

import (
	"net/http"

	"mockchat/mockchat/config"
	"mockchat/mockchat/controllers"
	"mockchat/mockchat/middlewares"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Controllers struct {
	Chat   *controllers.ChatController
	Upload *controllers.UploadController
	Auth   *controllers.AuthController
	Health *controllers.HealthController
}

// NewRouter wires every route group under /api plus /health.
func NewRouter(cfg config.Config, c Controllers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewares.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.Cors(cfg.CORSOrigins))

	r.Mount("/health", HealthRoutes(c.Health))
	r.Route("/api", func(api chi.Router) {
		api.Use(middlewares.IdentityMiddleware(cfg.JWTSecret))
		api.Mount("/chat", ChatRoutes(c.Chat, cfg.JWTSecret))
		api.Mount("/conversations", ConversationRoutes(c.Chat))
		api.Mount("/upload", UploadRoutes(c.Upload))
		if cfg.JWTSecret != "" {
			api.Mount("/auth", AuthRoutes(c.Auth))
		}
		if cfg.EnableDevRoutes {
			api.Mount("/clear", DevRoutes(c.Chat))
		}
	})
	return r
}
