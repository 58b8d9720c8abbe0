package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/nucleus-hris/nucleus-backend-go/internal/handler/http/middleware"
	"github.com/nucleus-hris/nucleus-backend-go/internal/pkg/jwt"
)

// RouterConfig carries the settings the router needs from the application config.
type RouterConfig struct {
	AllowedOrigins []string
	Env            string
	Version        string
}

func NewRouter(
	cfg RouterConfig,
	JWTService jwt.Service,
	realtimeHandler RealtimeHandler,
	attendanceHandler AttendanceHandler,
	regularizationHandler RegularizationHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "nucleus-hris"),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
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
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Browsers cannot set headers on EventSource, so the stream authenticates with a query token.
		r.Get("/realtime/stream", realtimeHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/realtime", func(r chi.Router) {
				r.Get("/sse-token", realtimeHandler.GetSSEToken)
				r.Route("/connections/{id}", func(r chi.Router) {
					r.Post("/check-in", realtimeHandler.CheckIn)
					r.Post("/check-out", realtimeHandler.CheckOut)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/calendar", attendanceHandler.Calendar)
				r.Get("/check-in-check-out", attendanceHandler.DayBounds)

				r.Route("/regularizations", func(r chi.Router) {
					r.Get("/", regularizationHandler.List)
					r.Post("/", regularizationHandler.Create)

					r.Route("/{id}", func(r chi.Router) {
						r.Get("/", regularizationHandler.Get)
						r.Put("/", regularizationHandler.Update)
						r.Delete("/", regularizationHandler.Delete)

						// Manager only
						r.With(middleware.RequireManager).Put("/approve", regularizationHandler.Approve)
					})
				})
			})
		})
	})
	return r
}
