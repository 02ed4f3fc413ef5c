// Package server provides the HTTP API for the portfolio dashboard.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"portdash/internal/charts"
	"portdash/internal/openai"
	"portdash/internal/portfolio"
)

type Server struct {
	router      *chi.Mux
	svc         *portfolio.Service
	renderer    *charts.Renderer
	commentator *openai.Commentator // nil when no API key is configured
	log         zerolog.Logger
}

// Config wires the server's collaborators. Webhook is optional; when set
// it is mounted at /telegram/webhook.
type Config struct {
	Service     *portfolio.Service
	Renderer    *charts.Renderer
	Commentator *openai.Commentator
	Webhook     http.HandlerFunc
	Log         zerolog.Logger
}

func New(cfg Config) *Server {
	s := &Server{
		svc:         cfg.Service,
		renderer:    cfg.Renderer,
		commentator: cfg.Commentator,
		log:         cfg.Log.With().Str("component", "http").Logger(),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Route("/api/portfolios", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", s.handleDetail)
			r.Get("/performance", s.handlePerformance)
			r.Get("/correlations", s.handleCorrelations)
			r.Get("/chart.png", s.handleChart)
			r.Get("/commentary", s.handleCommentary)
		})
	})
	if cfg.Webhook != nil {
		r.Post("/telegram/webhook", cfg.Webhook)
	}

	s.router = r
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start blocks serving HTTP on addr.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	s.log.Info().Str("addr", addr).Msg("listening")
	return srv.ListenAndServe()
}
