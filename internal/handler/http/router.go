package http

import (
	"log/slog"
	"os"

	"github.com/chronotrack/chronotrack-backend-go/internal/handler/http/middleware"
	"github.com/chronotrack/chronotrack-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(JWTService jwt.Service, sessionHandler SessionHandler, ledgerHandler LedgerHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "chronotrack"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/sessions", func(r chi.Router) {
				r.Post("/commands", sessionHandler.Command)

				r.Route("/me", func(r chi.Router) {
					r.Get("/", sessionHandler.GetCurrent)
					r.Get("/resolution", sessionHandler.ResolutionStatus)
					r.Post("/resolution", sessionHandler.Resolve)
				})
			})

			r.Route("/ledger", func(r chi.Router) {
				r.Get("/me", ledgerHandler.ListMine)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", ledgerHandler.List)
					r.Patch("/{id}/sync-status", ledgerHandler.UpdateSyncStatus)
				})
			})

			r.Get("/continuation-points/me", sessionHandler.ContinuationPoints)
		})
	})
	return r
}
