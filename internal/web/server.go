// Package web serves bot statistics, a health check and Prometheus metrics
// over HTTP.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/keshon/support-bot/internal/core"
	"github.com/keshon/support-bot/internal/storage"
	"github.com/keshon/support-bot/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 5 * time.Second

// StatsSource is the running bot.
type StatsSource interface {
	Stats() core.Stats
}

type Server struct {
	addr   string
	bot    StatsSource
	store  *storage.Storage
	gather prometheus.Gatherer
	logger zerolog.Logger
}

// New returns a server listening on addr. store may be nil.
func New(addr string, bot StatsSource, store *storage.Storage, gather prometheus.Gatherer, logger zerolog.Logger) *Server {
	return &Server{addr: addr, bot: bot, store: store, gather: gather, logger: logger}
}

type statsResponse struct {
	Status    string         `json:"status"`
	Guilds    int            `json:"guilds"`
	Users     int            `json:"users"`
	Channels  int            `json:"channels"`
	Uptime    string         `json:"uptime"`
	Heartbeat int64          `json:"heartbeat_ms"`
	Storage   *storage.Stats `json:"storage,omitempty"`
}

type errorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// Handler is the router of the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleStats)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gather, promhttp.HandlerOpts{}))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Status: "error", Error: "not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Status: "error", Error: "method not allowed"})
	})
	return r
}

// Run serves until ctx is done and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.addr).Msg("web server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down web server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st := s.bot.Stats()
	resp := statsResponse{
		Status:    "ok",
		Guilds:    st.Guilds,
		Users:     st.Users,
		Channels:  st.Channels,
		Uptime:    util.FormatDuration(st.Uptime),
		Heartbeat: st.Heartbeat.Milliseconds(),
	}
	if s.store != nil {
		counts, err := s.store.Stats(r.Context())
		if err != nil {
			s.logger.Warn().Err(err).Msg("failed to count rows")
		} else {
			resp.Storage = &counts
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.store.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Status: "error", Error: "database unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", r.RemoteAddr).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("http request")
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
