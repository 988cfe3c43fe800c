package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/billboard/backend/internal/handler/chat"
	"github.com/zhouzirui/billboard/backend/internal/handler/greeting"
	"github.com/zhouzirui/billboard/backend/internal/handler/live"
	"github.com/zhouzirui/billboard/backend/internal/handler/preference"
	"github.com/zhouzirui/billboard/backend/internal/metrics"
	middlewarePkg "github.com/zhouzirui/billboard/backend/internal/middleware"
	"github.com/zhouzirui/billboard/backend/pkg/utils"
)

// Dependencies are the services the routes call. Chat and Greeter are nil
// when no LLM provider is configured; the routes then answer 500.
type Dependencies struct {
	Chat           chat.Responder
	Greeter        greeting.Composer
	Preferences    preference.Store
	StorageBackend string
	AllowedOrigins []string
	Log            *slog.Logger
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(deps.AllowedOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]any{
			"status":  "ok",
			"ai":      deps.Chat != nil,
			"storage": deps.StorageBackend,
		})
	})
	r.Handle("/metrics", metrics.Handler())

	chatHandler := chat.New(deps.Chat)
	greetingHandler := greeting.New(deps.Greeter)
	preferenceHandler := preference.New(deps.Preferences)
	liveHandler := live.New(deps.Chat, deps.Greeter, deps.Log)

	r.Route("/api", func(api chi.Router) {
		chatHandler.RegisterRoutes(api)
		greetingHandler.RegisterRoutes(api)
		preferenceHandler.RegisterRoutes(api)
		liveHandler.RegisterRoutes(api)
	})

	return r
}
