package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"salespulse/internal/config"
	"salespulse/internal/dataset"
	apierrors "salespulse/internal/errors"
	"salespulse/internal/middleware"
	"salespulse/internal/services"
	"salespulse/internal/shared/testutil"
	"salespulse/pkg/contracts/domain"
	"salespulse/pkg/contracts/events"
)

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Defaults() config.DashboardConfig {
	return config.DashboardConfig{
		DefaultTopN:    10,
		MinTopN:        5,
		MaxTopN:        25,
		DefaultMinQty:  50,
		MaxMinQty:      500,
		MaxUploadBytes: 1 << 20,
	}
}

func (m *MockDashboardService) Render(ctx context.Context, req services.DashboardRequest) (*domain.Dashboard, error) {
	args := m.Called(ctx, req)
	d, _ := args.Get(0).(*domain.Dashboard)
	return d, args.Error(1)
}

func (m *MockDashboardService) Years(ctx context.Context, monthly *dataset.Upload) ([]int, error) {
	args := m.Called(ctx, monthly)
	years, _ := args.Get(0).([]int)
	return years, args.Error(1)
}

type MockDatasetService struct {
	mock.Mock
}

func (m *MockDatasetService) Datasets(ctx context.Context) []domain.DatasetStatus {
	args := m.Called(ctx)
	return args.Get(0).([]domain.DatasetStatus)
}

func (m *MockDatasetService) CacheStats(ctx context.Context) dataset.CacheStats {
	args := m.Called(ctx)
	return args.Get(0).(dataset.CacheStats)
}

func (m *MockDatasetService) ClearCache(ctx context.Context) dataset.CacheStats {
	args := m.Called(ctx)
	return args.Get(0).(dataset.CacheStats)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) BroadcastDatasetsReloaded(ctx context.Context, data events.DatasetsReloadedData) int {
	args := m.Called(ctx, data)
	return args.Int(0)
}

func testDeps(t *testing.T) (*middleware.Validator, *apierrors.ErrorHandler, *testutil.BufferedSlogHandler) {
	t.Helper()
	logger, logs := testutil.NewTestLogger(t)
	return middleware.NewValidator(logger), apierrors.NewErrorHandler(logger, false), logs
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func sampleDashboard() *domain.Dashboard {
	return &domain.Dashboard{
		Year:   2024,
		Years:  []int{2023, 2024},
		TopN:   10,
		MinQty: 50,
		Ranking: []domain.BranchTotal{
			{Branch: "North", TotalCalc: 300},
			{Branch: "South", TotalCalc: 100},
		},
		Margins: domain.MarginSections{
			Top:    []domain.BranchMargin{{Branch: "North", Revenue: 100, TotalProfit: 40, Margin: 0.4}},
			Bottom: []domain.BranchMargin{{Branch: "South", Revenue: 0, TotalProfit: 5, Margin: domain.Undefined}},
		},
		Shares: domain.ShareSection{Categories: []string{domain.CategoryBeverages, domain.CategoryFood}},
		Notices: []domain.Notice{{
			Section: domain.SectionProducts,
			Kind:    domain.NoticeInsufficientData,
			Message: "Product file clean_items_file2.csv not found",
		}},
	}
}
