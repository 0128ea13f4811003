package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "salespulse/internal/errors"
	"salespulse/internal/infrastructure"
	"salespulse/internal/shared/testutil"
)

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		inbound  string
		expectID func(t *testing.T, id string)
	}{
		{
			name:    "reuses inbound header",
			inbound: "req-123",
			expectID: func(t *testing.T, id string) {
				assert.Equal(t, "req-123", id)
			},
		},
		{
			name: "generates uuid",
			expectID: func(t *testing.T, id string) {
				assert.Len(t, id, 36)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seenReqID, seenTraceID string
			handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seenReqID = chimw.GetReqID(r.Context())
				seenTraceID = infrastructure.GetTraceID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.inbound != "" {
				req.Header.Set(RequestIDHeader, tt.inbound)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			tt.expectID(t, seenReqID)
			assert.Equal(t, seenReqID, seenTraceID)
			assert.Equal(t, seenReqID, rec.Header().Get(RequestIDHeader))
		})
	}
}

func TestStructuredLogger(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	handler := RequestID(StructuredLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))

	testutil.AssertLogContains(t, logs, slog.LevelDebug, "request started")
	testutil.AssertLogContains(t, logs, slog.LevelWarn, "request completed")
	testutil.AssertLogAttr(t, logs, "status", int64(422))

	reqID := rec.Header().Get(RequestIDHeader)
	require.NotEmpty(t, reqID)
	testutil.AssertLogAttr(t, logs, "request_id", reqID)
	testutil.AssertLogAttr(t, logs, "trace_id", reqID)
}

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
		want string
	}{
		{name: "empty context", ctx: context.Background(), want: ""},
		{name: "trace id fallback", ctx: infrastructure.WithTraceID(context.Background(), "trace-1"), want: "trace-1"},
		{
			name: "chi request id wins",
			ctx: context.WithValue(infrastructure.WithTraceID(context.Background(), "trace-1"),
				chimw.RequestIDKey, "req-1"),
			want: "req-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetRequestID(tt.ctx))
		})
	}
}

func TestRateLimiter(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	limiter := NewRateLimiter(0.001, 2, logger)
	handler := limiter.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, rec.Code)
		if rec.Code == http.StatusTooManyRequests {
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), "rate-limit-exceeded")
		}
	}

	assert.Equal(t, []int{200, 200, 429}, codes)
	assert.True(t, logs.ContainsMessage("rate limit exceeded"))
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := CORS(CORSConfig{AllowedOrigins: []string{"http://localhost:8080"}})(next)

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://localhost:8080")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "http://localhost:8080", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
	})

	t.Run("other origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://evil.example")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "http://localhost:8080")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(http.NotFoundHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestValidator_DashboardQuery(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	v := NewValidator(logger)

	tests := []struct {
		name      string
		query     string
		wantErr   bool
		wantField string
		check     func(t *testing.T, year, topN, minQty int)
	}{
		{
			name:  "empty uses defaults",
			query: "",
			check: func(t *testing.T, year, topN, minQty int) {
				assert.Equal(t, 0, year)
				assert.Equal(t, 10, topN)
				assert.Equal(t, 50, minQty)
			},
		},
		{
			name:  "explicit values",
			query: "year=2023&top_n=25&min_qty=0",
			check: func(t *testing.T, year, topN, minQty int) {
				assert.Equal(t, 2023, year)
				assert.Equal(t, 25, topN)
				assert.Equal(t, 0, minQty)
			},
		},
		{name: "top_n below range", query: "top_n=4", wantErr: true, wantField: "top_n"},
		{name: "top_n above range", query: "top_n=26", wantErr: true, wantField: "top_n"},
		{name: "min_qty above range", query: "min_qty=501", wantErr: true, wantField: "min_qty"},
		{name: "not a number", query: "year=abc", wantErr: true, wantField: "year"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			q, err := v.DashboardQuery(values)
			if tt.wantErr {
				require.Error(t, err)
				var apiErr *apierrors.APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
				assert.Equal(t, apierrors.CodeValidationFailed, apiErr.ErrorCode)
				assert.Contains(t, fieldsOf(apiErr), tt.wantField)
				return
			}
			require.NoError(t, err)
			tt.check(t, q.YearOrZero(), q.TopNOr(10), q.MinQtyOr(50))
		})
	}
}

func TestValidator_SectionExport(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	v := NewValidator(logger)

	req, err := v.SectionExport(url.Values{}, "margins_top")
	require.NoError(t, err)
	assert.Equal(t, "margins_top", req.Section)

	_, err = v.SectionExport(url.Values{}, "bogus")
	require.Error(t, err)
}

func TestValidator_ValidateStructRejectsNonStruct(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	err := NewValidator(logger).ValidateStruct(nil)
	var apiErr *apierrors.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, apierrors.CodeInternal, apiErr.ErrorCode)
}

func TestMaxBodySize(t *testing.T) {
	var readErr error
	handler := MaxBodySize(4)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	handler.ServeHTTP(httptest.NewRecorder(),
		httptest.NewRequest(http.MethodPost, "/", strings.NewReader("too long")))

	var maxErr *http.MaxBytesError
	assert.True(t, errors.As(readErr, &maxErr))
}

func fieldsOf(apiErr *apierrors.APIError) []string {
	switch d := apiErr.Details.(type) {
	case apierrors.ValidationError:
		return []string{d.Field}
	case apierrors.ValidationErrors:
		fields := make([]string, 0, len(d.Errors))
		for _, e := range d.Errors {
			fields = append(fields, e.Field)
		}
		return fields
	}
	return nil
}
