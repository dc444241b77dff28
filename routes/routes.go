package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Dosada05/tournament-manager/handlers"
	"github.com/Dosada05/tournament-manager/middleware"
	"github.com/Dosada05/tournament-manager/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Tournament *handlers.TournamentHandler
	Team       *handlers.TeamHandler
	League     *handlers.LeagueHandler
	Bracket    *handlers.BracketHandler
	WebSocket  *handlers.WebSocketHandler
}

type Options struct {
	JWTSecret      []byte
	AllowedOrigins []string
	Logger         *slog.Logger
}

func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(requestLogger(opts.Logger))
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	router.Get("/ws/tournaments/{tournamentID}", h.WebSocket.ServeWs)

	organizer := func(r chi.Router) {
		r.Use(middleware.Authenticate(opts.JWTSecret, opts.Logger))
		r.Use(middleware.Authorize(string(models.RoleOrganizer), string(models.RoleAdmin)))
	}

	router.Route("/tournaments", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			organizer(r)
			r.Post("/", h.Tournament.CreateHandler)
		})

		r.Route("/{tournamentID}", func(r chi.Router) {
			r.Get("/", h.Tournament.GetByIDHandler)
			r.Get("/teams", h.Team.ListHandler)
			r.Get("/league/schedule", h.League.ScheduleHandler)
			r.Get("/league/current", h.League.CurrentHandler)
			r.Get("/league/standings", h.League.StandingsHandler)
			r.Get("/qualifiers", h.Bracket.QualifiersHandler)
			r.Get("/bracket", h.Bracket.GetHandler)

			r.Group(func(r chi.Router) {
				organizer(r)
				r.Post("/teams", h.Team.RegisterHandler)
				r.Delete("/teams/{teamID}", h.Team.RemoveHandler)
				r.Post("/league/start", h.League.StartHandler)
				r.Post("/league/results", h.League.RecordResultHandler)
				r.Post("/bracket/manual", h.Bracket.SeedManualHandler)
				r.Post("/bracket/ranked", h.Bracket.SeedRankedHandler)
				r.Post("/bracket/winner", h.Bracket.ReportWinnerHandler)
				r.Post("/bracket/reset", h.Bracket.ResetHandler)
			})
		})
	})
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", chiMiddleware.GetReqID(r.Context())))
		})
	}
}
