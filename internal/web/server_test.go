package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/keshon/support-bot/internal/core"
	"github.com/keshon/support-bot/internal/metrics"
	"github.com/keshon/support-bot/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"
)

type fakeBot struct{ stats core.Stats }

func (f fakeBot) Stats() core.Stats { return f.stats }

func newServer(t *testing.T, store *storage.Storage) *Server {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	m.ObserveParse("none")

	bot := fakeBot{stats: core.Stats{Guilds: 2, Users: 30, Channels: 12, Uptime: 90 * time.Minute, Heartbeat: 42 * time.Millisecond}}
	return New(":0", bot, store, reg, zerolog.Nop())
}

func Test_Handler(t *testing.T) {
	store, err := storage.Open(storage.DriverSQLite, "file::memory:", gormlogger.Discard)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	_, err = store.EnsureGuild(context.Background(), "g1")
	require.NoError(t, err)

	srv := httptest.NewServer(newServer(t, store).Handler())
	t.Cleanup(srv.Close)

	testCases := []struct {
		name        string
		method      string
		path        string
		status      int
		contains    []string
		contentType string
	}{
		{
			name:        "stats",
			method:      http.MethodGet,
			path:        "/",
			status:      http.StatusOK,
			contains:    []string{`"status":"ok"`, `"guilds":2`, `"users":30`, `"channels":12`, `"uptime":"1h 30m"`, `"heartbeat_ms":42`},
			contentType: "application/json",
		},
		{
			name:        "health",
			method:      http.MethodGet,
			path:        "/healthz",
			status:      http.StatusOK,
			contains:    []string{`"status":"ok"`},
			contentType: "application/json",
		},
		{
			name:     "metrics",
			method:   http.MethodGet,
			path:     "/metrics",
			status:   http.StatusOK,
			contains: []string{`supportbot_messages_parsed_total{result="none"} 1`},
		},
		{
			name:     "not found",
			method:   http.MethodGet,
			path:     "/nope",
			status:   http.StatusNotFound,
			contains: []string{`"error":"not found"`},
		},
		{
			name:     "method not allowed",
			method:   http.MethodPost,
			path:     "/",
			status:   http.StatusMethodNotAllowed,
			contains: []string{`"error":"method not allowed"`},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(tc.method, srv.URL+tc.path, nil)
			require.NoError(t, err)
			resp, err := srv.Client().Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			if tc.contentType != "" {
				assert.Equal(t, tc.contentType, resp.Header.Get("Content-Type"))
			}
			var body strings.Builder
			_, err = io.Copy(&body, resp.Body)
			require.NoError(t, err)
			for _, want := range tc.contains {
				assert.Contains(t, body.String(), want)
			}
		})
	}
}

func Test_handleStats_storageCounts(t *testing.T) {
	store, err := storage.Open(storage.DriverSQLite, "file::memory:", gormlogger.Discard)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	_, err = store.EnsureGuild(context.Background(), "g1")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	newServer(t, store).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var resp statsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Storage)
	assert.Equal(t, int64(1), resp.Storage.Guilds)
}

func Test_handleHealth_closedStore(t *testing.T) {
	store, err := storage.Open(storage.DriverSQLite, "file::memory:", gormlogger.Discard)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	rec := httptest.NewRecorder()
	newServer(t, store).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func Test_handlers_withoutStore(t *testing.T) {
	h := newServer(t, nil).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `"storage"`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func Test_Run_shutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- newServer(t, nil).Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
