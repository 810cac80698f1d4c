package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/feeds"
	channelService "github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/channel/service"
	statsService "github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/stats/service"
	"github.com/reshetovitsme/telegram-broadcast-bot/internal/shared/config"
	sloghttp "github.com/samber/slog-http"
)

// Server exposes a small status surface next to the bot: a health check, a
// landing page and an RSS feed of recent dispatch runs.
type Server struct {
	cfg      *config.Config
	stats    *statsService.Service
	registry *channelService.Service
	logger   *slog.Logger
}

// New creates a new status server.
func New(cfg *config.Config, stats *statsService.Service, registry *channelService.Service) *Server {
	return &Server{
		cfg:      cfg,
		stats:    stats,
		registry: registry,
		logger:   slog.Default(),
	}
}

// SetLogger overrides the request logger.
func (s *Server) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Start runs the HTTP server. It blocks until the listener fails.
func (s *Server) Start() error {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /feed", s.handleFeed)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /", s.handleRoot)

	addr := fmt.Sprintf(":%s", s.cfg.HTTPPort)
	s.logger.Info("Status server starting", "addr", addr)

	// Use slog-http middleware with recovery
	handler := sloghttp.Recovery(mux)
	handler = sloghttp.New(s.logger)(handler)

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server.ListenAndServe()
}

// handleFeed serves the retained dispatch-run history as an RSS feed, newest
// first.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	baseURL := fmt.Sprintf("%s://%s", getScheme(r), r.Host)
	history := s.stats.History()

	feed := &feeds.Feed{
		Title:       "Broadcast Bot - Dispatch History",
		Link:        &feeds.Link{Href: baseURL + "/feed"},
		Description: "Recent broadcast dispatch runs",
		Created:     time.Now(),
	}

	for i := len(history) - 1; i >= 0; i-- {
		run := history[i]
		feed.Items = append(feed.Items, &feeds.Item{
			Title: fmt.Sprintf("Broadcast to %d channels: %d ok, %d failed", run.Total, run.Success, run.Failed),
			Link:  &feeds.Link{Href: baseURL + "/feed"},
			Description: fmt.Sprintf("Dispatched to %d channels on %s. Successful: %d, failed: %d.",
				run.Total, run.At.Format(time.RFC1123), run.Success, run.Failed),
			Created: run.At,
			Id:      fmt.Sprintf("run-%d", run.At.UnixNano()),
		})
	}

	rss, err := feed.ToRss()
	if err != nil {
		s.logger.Error("Error converting history to RSS", "error", err)
		http.Error(w, "Failed to generate RSS", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300") // Cache for 5 minutes
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(rss))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	stats := s.stats.Snapshot()
	html := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <title>Broadcast Bot</title>
    <style>
        body { font-family: Arial, sans-serif; max-width: 800px; margin: 50px auto; padding: 20px; }
        h1 { color: #333; }
        .info { background: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0; }
        code { background: #e8e8e8; padding: 2px 6px; border-radius: 3px; }
    </style>
</head>
<body>
    <h1>Broadcast Bot Status</h1>
    <div class="info">
        <p>Channels: %d</p>
        <p>Total broadcasts: %d (successful deliveries: %d, failed: %d)</p>
        <p>Dispatch history: <code>/feed</code> (RSS)</p>
    </div>
    <p><a href="/health">Health Check</a></p>
</body>
</html>`, s.registry.Count(), stats.TotalBroadcasts, stats.SuccessfulDeliveries, stats.FailedDeliveries)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(html))
}

func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
