package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/internal/shared/testutil"
)

func TestClientLogHandler_Handle(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
		wantLevel  slog.Level
		wantMsg    string
	}{
		{
			name:       "info entry",
			body:       map[string]interface{}{"level": "info", "message": "dashboard rendered", "source": "index.html"},
			wantStatus: http.StatusOK,
			wantLevel:  slog.LevelInfo,
			wantMsg:    "dashboard rendered",
		},
		{
			name:       "error entry with data",
			body:       map[string]interface{}{"level": "error", "message": "fetch failed", "data": map[string]interface{}{"status": 500}},
			wantStatus: http.StatusOK,
			wantLevel:  slog.LevelError,
			wantMsg:    "fetch failed",
		},
		{
			name:       "level defaults to info",
			body:       map[string]interface{}{"message": "no level"},
			wantStatus: http.StatusOK,
			wantLevel:  slog.LevelInfo,
			wantMsg:    "no level",
		},
		{
			name:       "unknown level",
			body:       map[string]interface{}{"level": "fatal", "message": "x"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing message",
			body:       map[string]interface{}{"level": "info"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid json",
			body:       "{not json",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator, errorHandler, _ := testDeps(t)
			logger, logs := testutil.NewTestLogger(t)
			h := NewClientLogHandler(validator, logger, errorHandler)

			var raw []byte
			if s, ok := tt.body.(string); ok {
				raw = []byte(s)
			} else {
				var err error
				raw, err = json.Marshal(tt.body)
				require.NoError(t, err)
			}

			rec := httptest.NewRecorder()
			h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/client-log", bytes.NewReader(raw)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantMsg != "" {
				testutil.AssertLogContains(t, logs, tt.wantLevel, tt.wantMsg)
			}
		})
	}
}
