package app

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/internal/config"
	"salespulse/internal/dataset"
	"salespulse/internal/shared/testutil"
	"salespulse/pkg/contracts/events"
)

func testConfig(t *testing.T, dataDir string) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Paths.DataDir = dataDir
	cfg.Paths.LogsDir = t.TempDir()
	cfg.Telemetry.MetricExporter = "none"
	cfg.Telemetry.TraceExporter = "none"
	cfg.Security.RateLimit.Enabled = false
	cfg.Server.ShutdownTimeout = 5 * time.Second
	return cfg
}

func newTestApp(t *testing.T, dataDir string) *Application {
	t.Helper()

	logger, _ := testutil.NewTestLogger(t)
	a, err := New(testConfig(t, dataDir), logger)
	require.NoError(t, err)
	return a
}

func getJSON(t *testing.T, h http.Handler, target string) (int, map[string]interface{}) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var body map[string]interface{}
	if strings.Contains(rec.Header().Get("Content-Type"), "json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	}
	return rec.Code, body
}

func TestNew_WiresComponents(t *testing.T) {
	a := newTestApp(t, testutil.DataDir(t, testutil.MonthlyCSV, testutil.CategoryCSV, testutil.ProductCSV))

	assert.NotNil(t, a.Router)
	assert.NotNil(t, a.Server)
	assert.NotNil(t, a.Dashboard)
	assert.NotNil(t, a.HealthService)
	assert.NotNil(t, a.WebSocketHub)
	assert.IsType(t, &dataset.MemoryCache{}, a.Cache)
	assert.Equal(t, ":8080", a.Server.Addr)
	assert.Nil(t, a.OTelProviders.PrometheusHTTP, "metrics endpoint disabled without the prometheus exporter")
}

func TestNewCache(t *testing.T) {
	assert.IsType(t, dataset.NopCache{}, NewCache(config.CacheConfig{Enabled: false}))
	assert.IsType(t, &dataset.MemoryCache{}, NewCache(config.CacheConfig{Enabled: true, MaxEntries: 4}))
}

func TestRoutes(t *testing.T) {
	a := newTestApp(t, testutil.DataDir(t, testutil.MonthlyCSV, testutil.CategoryCSV, testutil.ProductCSV))

	t.Run("dashboard", func(t *testing.T) {
		code, body := getJSON(t, a.Router, "/api/dashboard?top_n=5")
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, float64(2025), body["year"], "most recent year by default")
		assert.Len(t, body["ranking"], 3)
	})

	t.Run("years", func(t *testing.T) {
		code, body := getJSON(t, a.Router, "/api/dashboard/years")
		require.Equal(t, http.StatusOK, code)
		assert.NotEmpty(t, body)
	})

	t.Run("unknown year", func(t *testing.T) {
		code, body := getJSON(t, a.Router, "/api/dashboard?year=1999")
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "/errors/data/year-not-found", body["type"])
	})

	t.Run("validation", func(t *testing.T) {
		code, body := getJSON(t, a.Router, "/api/dashboard?top_n=99")
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "/errors/validation", body["type"])
	})

	t.Run("datasets", func(t *testing.T) {
		code, body := getJSON(t, a.Router, "/api/datasets")
		require.Equal(t, http.StatusOK, code)
		assert.Len(t, body["datasets"], 3)
	})

	t.Run("health", func(t *testing.T) {
		code, _ := getJSON(t, a.Router, "/api/health/live")
		assert.Equal(t, http.StatusOK, code)

		code, _ = getJSON(t, a.Router, "/api/health/ready")
		assert.Equal(t, http.StatusOK, code)
	})

	t.Run("workbook export", func(t *testing.T) {
		rec := httptest.NewRecorder()
		a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/export.xlsx", nil))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "salespulse_2025")
		assert.NotZero(t, rec.Body.Len())
	})

	t.Run("page", func(t *testing.T) {
		rec := httptest.NewRecorder()
		a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "SalesPulse")
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("gzip when accepted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		rec := httptest.NewRecorder()
		a.Router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))

		zr, err := gzip.NewReader(rec.Body)
		require.NoError(t, err)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(zr).Decode(&body))
		assert.Equal(t, float64(2025), body["year"])
	})

	t.Run("websocket route is not compressed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, config.WebSocketEndpoint, nil)
		req.Header.Set("Accept-Encoding", "gzip")
		rec := httptest.NewRecorder()
		a.Router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, rec.Header().Get("Content-Encoding"))
	})

	t.Run("not found", func(t *testing.T) {
		code, body := getJSON(t, a.Router, "/api/nope")
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "/errors/not-found", body["type"])
	})

	t.Run("method not allowed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/datasets", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestRoutes_MissingMonthlyDataset(t *testing.T) {
	a := newTestApp(t, testutil.DataDir(t, "", testutil.CategoryCSV, ""))

	code, body := getJSON(t, a.Router, "/api/dashboard")
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "/errors/data/load-failed", body["type"])

	code, _ = getJSON(t, a.Router, "/api/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestStartStop(t *testing.T) {
	a := newTestApp(t, testutil.DataDir(t, testutil.MonthlyCSV, testutil.CategoryCSV, ""))

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	errCh := a.Start(context.Background(), listener)
	base := "http://" + listener.Addr().String()

	resp, err := http.Get(base + "/api/health/live")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(base, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg events.Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, events.MessageTypeConnection, msg.Type)

	clear, err := http.Post(base+"/api/datasets/cache/clear", "application/json", nil)
	require.NoError(t, err)
	clear.Body.Close()
	assert.Equal(t, http.StatusOK, clear.StatusCode)

	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, events.MessageTypeDatasetsReloaded, msg.Type)

	require.NoError(t, a.Stop(context.Background()))

	_, open := <-errCh
	assert.False(t, open, "serve loop exits cleanly")
}
