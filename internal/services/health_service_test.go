package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"salespulse/internal/dataset"
	"salespulse/internal/shared/testutil"
)

func TestHealthCheck(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	hs := NewHealthService("1.2.3", "", t.TempDir(), nil, nil, logger)

	status := hs.HealthCheck(context.Background())
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "1.2.3", status.Version)
	assert.True(t, handler.ContainsMessage("HealthService initialized"))
}

func TestReadinessCheck(t *testing.T) {
	tests := []struct {
		name     string
		monthly  string
		category string
		want     string
	}{
		{"ready with required files", testutil.MonthlyCSV, testutil.CategoryCSV, "ready"},
		{"missing category", testutil.MonthlyCSV, "", "not_ready"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := testutil.DataDir(t, tt.monthly, tt.category, "")
			hub := new(MockClientCounter)
			hub.On("ClientCount").Return(2)

			hs := NewHealthService("1.0.0", "", dir, dataset.NewMemoryCache(4), hub, nil)
			status := hs.ReadinessCheck(context.Background())

			assert.Equal(t, tt.want, status.Status)
			assert.Contains(t, status.Services, "data")
			assert.Equal(t, "2 clients connected", status.Services["websocket"].(ServiceHealth).Message)
		})
	}
}

func TestReadinessMissingDataDir(t *testing.T) {
	hs := NewHealthService("1.0.0", "", "/nonexistent/salespulse", nil, nil, nil)
	status := hs.ReadinessCheck(context.Background())
	assert.Equal(t, "not_ready", status.Status)
}

func TestLivenessAndVersion(t *testing.T) {
	hs := NewHealthService("1.0.0", "2025-01-01", t.TempDir(), nil, nil, nil)

	live := hs.LivenessCheck(context.Background())
	assert.Equal(t, "alive", live.Status)
	assert.Contains(t, live.Runtime, "goroutines")

	v := hs.Version()
	assert.Equal(t, "1.0.0", v["version"])
	assert.Equal(t, "2025-01-01", v["build_time"])
}
