package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"salespulse/internal/analytics"
	"salespulse/internal/config"
	"salespulse/internal/dataset"
	"salespulse/internal/infrastructure"
	"salespulse/pkg/contracts/domain"
)

// DatasetLoader obtains the tables of one interaction
type DatasetLoader interface {
	Load(ctx context.Context, src dataset.Sources) (*dataset.Datasets, error)
	LoadMonthly(ctx context.Context, src dataset.Sources) (*dataset.Table, error)
	Cache() dataset.Cache
}

// DashboardRequest carries the controls and uploads of one render.
// Year 0 selects the most recent year. TopN and MinQty are used as given;
// callers apply the configured defaults.
type DashboardRequest struct {
	Year     int
	TopN     int
	MinQty   int
	Monthly  *dataset.Upload
	Category *dataset.Upload
	Product  *dataset.Upload
}

func (r DashboardRequest) sources(dataDir string) dataset.Sources {
	return dataset.Sources{
		DataDir:  dataDir,
		Monthly:  r.Monthly,
		Category: r.Category,
		Product:  r.Product,
	}
}

// DashboardService renders dashboards from the dataset pipeline
type DashboardService struct {
	loader  DatasetLoader
	dataDir string
	limits  config.DashboardConfig
	logger  *slog.Logger
	metrics *infrastructure.BusinessMetrics
	tracer  trace.Tracer
	now     func() time.Time
}

// DashboardOption configures a DashboardService
type DashboardOption func(*DashboardService)

// WithDashboardMetrics records render metrics
func WithDashboardMetrics(m *infrastructure.BusinessMetrics) DashboardOption {
	return func(s *DashboardService) { s.metrics = m }
}

// WithClock overrides the render timestamp source
func WithClock(now func() time.Time) DashboardOption {
	return func(s *DashboardService) { s.now = now }
}

// NewDashboardService creates a dashboard service reading defaults from dataDir
func NewDashboardService(loader DatasetLoader, dataDir string, limits config.DashboardConfig, logger *slog.Logger, opts ...DashboardOption) *DashboardService {
	s := &DashboardService{
		loader:  loader,
		dataDir: dataDir,
		limits:  limits,
		logger:  serviceLogger(logger, "dashboard_service"),
		tracer:  otel.Tracer(infrastructure.ServiceName),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.logger.Info("DashboardService initialized",
		slog.String("data_dir", dataDir),
		slog.Int("default_top_n", limits.DefaultTopN),
		slog.Int("default_min_qty", limits.DefaultMinQty))
	return s
}

// Defaults returns the configured dashboard controls
func (s *DashboardService) Defaults() config.DashboardConfig {
	return s.limits
}

// Render runs the full pipeline for one interaction
func (s *DashboardService) Render(ctx context.Context, req DashboardRequest) (*domain.Dashboard, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.render",
		trace.WithAttributes(
			attribute.Int("dashboard.year", req.Year),
			attribute.Int("dashboard.top_n", req.TopN),
			attribute.Int("dashboard.min_qty", req.MinQty),
		))
	defer span.End()

	start := time.Now()
	dash, err := s.render(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		infrastructure.RecordDashboardRender(ctx, s.metrics, "error", time.Since(start))
		s.logger.WarnContext(ctx, "dashboard render failed", slog.String("error", err.Error()))
		return nil, err
	}

	span.SetAttributes(attribute.Int("dashboard.notices", len(dash.Notices)))
	infrastructure.RecordDashboardRender(ctx, s.metrics, "ok", time.Since(start))
	for _, n := range dash.Notices {
		infrastructure.RecordNotice(ctx, s.metrics, n.Section)
	}
	s.logger.InfoContext(ctx, "dashboard rendered",
		slog.Int("year", dash.Year),
		slog.Int("branches", len(dash.Ranking)),
		slog.Int("notices", len(dash.Notices)),
		slog.Duration("duration", time.Since(start)))
	return dash, nil
}

func (s *DashboardService) render(ctx context.Context, req DashboardRequest) (*domain.Dashboard, error) {
	ds, err := s.loader.Load(ctx, req.sources(s.dataDir))
	if err != nil {
		return nil, err
	}

	if err := dataset.Validate(domain.DatasetMonthly, ds.Monthly, dataset.MonthlyRequired); err != nil {
		return nil, err
	}
	if err := dataset.Validate(domain.DatasetCategory, ds.Category, dataset.CategoryRequired); err != nil {
		return nil, err
	}

	monthly, err := dataset.DecodeMonthly(ds.Monthly)
	if err != nil {
		return nil, &dataset.LoadError{Dataset: domain.DatasetMonthly, Source: ds.Monthly.Name(), Cause: err}
	}
	category, err := dataset.DecodeCategory(ds.Category)
	if err != nil {
		return nil, &dataset.LoadError{Dataset: domain.DatasetCategory, Source: ds.Category.Name(), Cause: err}
	}

	years := analytics.Years(monthly)
	year, err := selectYear(years, req.Year)
	if err != nil {
		return nil, err
	}

	topN := req.TopN
	dash := &domain.Dashboard{
		Year:        year,
		Years:       years,
		TopN:        topN,
		MinQty:      req.MinQty,
		Ranking:     analytics.RankBranches(monthly, year, topN),
		Notices:     []domain.Notice{},
		GeneratedAt: s.now().UTC(),
		Previews: domain.Previews{
			Monthly:  ds.Monthly.Preview(config.PreviewRows),
			Category: ds.Category.Preview(config.PreviewRows),
		},
	}

	season := analytics.Seasonality(monthly, year, dataset.MonthPresence(ds.Monthly))
	if series, ok := season.Get(); ok {
		dash.Seasonality = series
	} else {
		dash.Notices = append(dash.Notices, notice(domain.SectionSeasonality, season.Reason()))
	}

	dash.Margins = analytics.SplitMargins(analytics.BranchMargins(category), config.MarginSliceSize)
	dash.Shares = analytics.CategoryShares(category, config.ShareSliceSize)

	products, reason := s.products(ctx, ds.Product, req.MinQty)
	if products != nil {
		dash.Products = products
	} else {
		dash.Notices = append(dash.Notices, notice(domain.SectionProducts, reason))
	}

	return dash, nil
}

// products computes the product sections or explains why they are skipped
func (s *DashboardService) products(ctx context.Context, table domain.Presence[*dataset.Table], minQty int) (*domain.ProductSections, string) {
	t, ok := table.Get()
	if !ok {
		return nil, table.Reason()
	}

	check := dataset.CheckProduct(t)
	cols, ok := check.Get()
	if !ok {
		s.logger.InfoContext(ctx, "product section skipped", slog.String("reason", check.Reason()))
		return nil, check.Reason()
	}

	rows, err := dataset.DecodeProduct(t, cols)
	if err != nil {
		s.logger.WarnContext(ctx, "product rows could not be decoded", slog.String("error", err.Error()))
		return nil, fmt.Sprintf("Product data could not be decoded: %v", err)
	}

	topProfit, topPerUnit := analytics.ProductProfitability(rows, minQty, config.ProductSliceSize)
	return &domain.ProductSections{
		DescriptionColumn: cols.Description,
		MinQty:            minQty,
		TopProfit:         topProfit,
		TopPerUnit:        topPerUnit,
	}, ""
}

// Years lists the distinct years of the monthly dataset
func (s *DashboardService) Years(ctx context.Context, monthly *dataset.Upload) ([]int, error) {
	t, err := s.loader.LoadMonthly(ctx, dataset.Sources{DataDir: s.dataDir, Monthly: monthly})
	if err != nil {
		return nil, err
	}
	if err := dataset.Validate(domain.DatasetMonthly, t, dataset.MonthlyRequired); err != nil {
		return nil, err
	}
	rows, err := dataset.DecodeMonthly(t)
	if err != nil {
		return nil, &dataset.LoadError{Dataset: domain.DatasetMonthly, Source: t.Name(), Cause: err}
	}
	return analytics.Years(rows), nil
}

// Datasets reports the status of the default dataset files
func (s *DashboardService) Datasets(ctx context.Context) []domain.DatasetStatus {
	return dataset.Inspect(s.dataDir)
}

// CacheStats reports the dataset cache counters
func (s *DashboardService) CacheStats(ctx context.Context) dataset.CacheStats {
	return s.loader.Cache().Stats()
}

// ClearCache drops every memoized table
func (s *DashboardService) ClearCache(ctx context.Context) dataset.CacheStats {
	before := s.loader.Cache().Stats()
	s.loader.Cache().Clear()
	s.logger.InfoContext(ctx, "dataset cache cleared", slog.Int("entries", before.Entries))
	return before
}

// selectYear resolves the requested year against the available ones;
// 0 picks the most recent.
func selectYear(years []int, requested int) (int, error) {
	if len(years) == 0 {
		return 0, ErrNoMonthlyRows
	}
	if requested == 0 {
		return years[len(years)-1], nil
	}
	for _, y := range years {
		if y == requested {
			return y, nil
		}
	}
	return 0, &YearNotFoundError{Year: requested, Available: years}
}

func notice(section, message string) domain.Notice {
	return domain.Notice{
		Section: section,
		Kind:    domain.NoticeInsufficientData,
		Message: message,
	}
}
