package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Dosada05/swiss-tables/docs"
	"github.com/Dosada05/swiss-tables/handlers"
	"github.com/Dosada05/swiss-tables/middleware"
)

// Options holds router settings that are not handlers.
type Options struct {
	AllowedOrigins []string
	TokenParser    middleware.TokenParser
	RequestTimeout time.Duration
}

func SetupRoutes(
	router *chi.Mux,
	opts Options,
	authHandler *handlers.AuthHandler,
	participantHandler *handlers.ParticipantHandler,
	roundHandler *handlers.RoundHandler,
	matchHandler *handlers.MatchHandler,
	swapHandler *handlers.SwapHandler,
	standingsHandler *handlers.StandingsHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// websocket живёт дольше RequestTimeout, поэтому вне группы /api
	router.Get("/ws", webSocketHandler.ServeWs)

	router.Route("/api", func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(opts.RequestTimeout))
		r.Use(middleware.Authenticate(opts.TokenParser, nil))

		r.Post("/login", authHandler.Login)

		// Публичное чтение
		r.Get("/participants", participantHandler.List)
		r.Post("/participants", participantHandler.Register)
		r.Get("/rounds", roundHandler.List)
		r.Get("/rounds/current", roundHandler.Current)
		r.Get("/rounds/{roundID}/matches", roundHandler.Matches)
		r.Get("/matches/{matchID}", matchHandler.Get)
		r.Get("/standings", standingsHandler.Standings)
		r.Get("/players/{participantID}/matches", standingsHandler.PlayerMatches)

		// Изменения требуют токена; права проверяются в сервисах
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireCaller)

			r.Get("/me", authHandler.Me)
			r.Delete("/participants/{participantID}", participantHandler.Remove)
			r.Patch("/participants/{participantID}/active", participantHandler.SetActive)
			r.Post("/rounds", roundHandler.Generate)
			r.Delete("/rounds/{roundID}", roundHandler.Delete)
			r.Post("/matches/{matchID}/results", matchHandler.SubmitResults)
			r.Delete("/matches/{matchID}/results/{playerID}", matchHandler.ClearResult)
			r.Post("/swaps", swapHandler.Swap)
			r.Post("/standings/export", standingsHandler.Export)
			r.Post("/reset", roundHandler.Reset)
		})
	})
}
