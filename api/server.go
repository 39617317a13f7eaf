// Package api serves the treningsboten HTTP surface: a small token-protected
// read API for the companion frontend, the slack events webhook and the
// prometheus metrics endpoint.
package api

import (
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"treningsboten/config"
	"treningsboten/dates"
	"treningsboten/records"
)

// EventHandler receives the slack callback events routed by the webhook.
// bot.Bot implements this interface
type EventHandler interface {
	HandleReply(channelID string, threadTS string, userID string, text string, messageTS string)
	HandleMemberJoined(channelID string, userID string)
}

// Server wraps a chi.Router with the bot's routes and base middlewares
type Server struct {
	Router chi.Router

	config   *viper.Viper
	logger   zerolog.Logger
	repo     *records.Repository
	events   EventHandler
	location *time.Location

	// now is the clock, replaceable in tests
	now func() time.Time
}

// NewServer creates the HTTP server and mounts all routes
func NewServer(v *viper.Viper, logger zerolog.Logger, repo *records.Repository, events EventHandler) (s *Server, err error) {
	location, err := config.GetTimeLocation(v)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	s = &Server{
		Router:   r,
		config:   v,
		logger:   logger.With().Str("component", "api").Logger(),
		repo:     repo,
		events:   events,
		location: location,
	}
	s.now = func() time.Time { return time.Now().In(s.location) }

	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
	r.Get("/api", s.handleIndex)
	r.Get("/api/channel", s.handleChannel)
	r.Post("/api/slack-events", s.handleSlackEvents)

	return s, nil
}

// today is the current date in the bot's home timezone
func (s *Server) today() (date string) {
	return s.now().Format(dates.ISODate)
}

// Start runs the server until it fails or the process terminates
func (s *Server) Start(addr string) (err error) {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	s.logger.Info().Str("addr", addr).Msg("http server listening")
	return srv.ListenAndServe()
}

const indexPage = `<html>
  <head>
    <title>Treningsboten</title>
    <style>
      body {
        background-color: black;
        color: white;
        font-family: Arial, sans-serif;
        text-align: center;
      }
    </style>
  </head>
  <body>
    <h1>Welcome to Treningsboten! 🚀✅💥</h1>
    <p>This site is a web API for treningsboten.com</p>
  </body>
</html>`

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(indexPage))
}
