package dataset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"salespulse/internal/config"
	"salespulse/internal/infrastructure"
	"salespulse/pkg/contracts/domain"
)

// LoadError reports a dataset that could not be read or parsed
type LoadError struct {
	Dataset domain.Dataset
	Source  string
	Cause   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s dataset from %s: %v", e.Dataset, e.Source, e.Cause)
}

func (e *LoadError) Unwrap() error { return e.Cause }

// Datasets holds the loaded tables of one interaction
type Datasets struct {
	Monthly  *Table
	Category *Table
	Product  domain.Presence[*Table]
}

// DefaultFilename returns the well-known file name of a dataset
func DefaultFilename(d domain.Dataset) string {
	switch d {
	case domain.DatasetMonthly:
		return config.MonthlySalesFile
	case domain.DatasetCategory:
		return config.CategorySummaryFile
	case domain.DatasetProduct:
		return config.ProductItemsFile
	}
	return ""
}

// Loader reads datasets through a Cache
type Loader struct {
	cache   Cache
	logger  *slog.Logger
	metrics *infrastructure.BusinessMetrics
}

// LoaderOption configures a Loader
type LoaderOption func(*Loader)

// WithMetrics records load and cache metrics
func WithMetrics(m *infrastructure.BusinessMetrics) LoaderOption {
	return func(l *Loader) { l.metrics = m }
}

// NewLoader creates a loader; a nil cache disables memoization
func NewLoader(cache Cache, logger *slog.Logger, opts ...LoaderOption) *Loader {
	if cache == nil {
		cache = NopCache{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loader{
		cache:  cache,
		logger: infrastructure.WithComponent(logger, "dataset_loader"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Cache returns the loader's cache
func (l *Loader) Cache() Cache { return l.cache }

// Load obtains the monthly, category and optional product tables.
// Uploads replace the matching default file.
func (l *Loader) Load(ctx context.Context, src Sources) (*Datasets, error) {
	monthly, err := l.loadRequired(ctx, src, domain.DatasetMonthly)
	if err != nil {
		return nil, err
	}
	category, err := l.loadRequired(ctx, src, domain.DatasetCategory)
	if err != nil {
		return nil, err
	}
	product, err := l.loadProduct(ctx, src)
	if err != nil {
		return nil, err
	}
	return &Datasets{Monthly: monthly, Category: category, Product: product}, nil
}

// LoadMonthly obtains only the monthly table
func (l *Loader) LoadMonthly(ctx context.Context, src Sources) (*Table, error) {
	return l.loadRequired(ctx, src, domain.DatasetMonthly)
}

func (l *Loader) loadRequired(ctx context.Context, src Sources, d domain.Dataset) (*Table, error) {
	if u := src.upload(d); u != nil {
		return l.loadUpload(ctx, d, u)
	}
	path := filepath.Join(src.DataDir, DefaultFilename(d))
	return l.loadFile(ctx, d, path)
}

func (l *Loader) loadProduct(ctx context.Context, src Sources) (domain.Presence[*Table], error) {
	d := domain.DatasetProduct
	if u := src.upload(d); u != nil {
		t, err := l.loadUpload(ctx, d, u)
		if err != nil {
			return domain.Presence[*Table]{}, err
		}
		return domain.Present(t), nil
	}

	path := filepath.Join(src.DataDir, DefaultFilename(d))
	t, err := l.loadFile(ctx, d, path)
	if err == nil {
		return domain.Present(t), nil
	}

	var loadErr *LoadError
	if errors.As(err, &loadErr) && errors.Is(loadErr.Cause, fs.ErrNotExist) {
		return domain.Absent[*Table](fmt.Sprintf(
			"Product file %s not found; upload it to enable product profitability", DefaultFilename(d))), nil
	}
	if errors.As(err, &loadErr) {
		l.logger.WarnContext(ctx, "default product file unreadable, skipping product section",
			slog.String("path", path), slog.String("error", loadErr.Cause.Error()))
		return domain.Absent[*Table](fmt.Sprintf(
			"Product file %s could not be read: %v", DefaultFilename(d), loadErr.Cause)), nil
	}
	return domain.Presence[*Table]{}, err
}

func (l *Loader) loadFile(ctx context.Context, d domain.Dataset, path string) (*Table, error) {
	start := time.Now()
	info, err := os.Stat(path)
	if err != nil {
		l.record(ctx, d, "file", "error", start)
		return nil, &LoadError{Dataset: d, Source: path, Cause: err}
	}
	if info.IsDir() {
		l.record(ctx, d, "file", "error", start)
		return nil, &LoadError{Dataset: d, Source: path, Cause: fmt.Errorf("%s is a directory", path)}
	}

	t, hit, err := l.cache.GetOrLoad(ctx, fileKey(d, path, info), func() (*Table, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ParseTable(filepath.Base(path), f)
	})
	infrastructure.RecordCacheLookup(ctx, l.metrics, string(d), hit)
	if err != nil {
		l.record(ctx, d, "file", "error", start)
		return nil, &LoadError{Dataset: d, Source: path, Cause: err}
	}

	l.record(ctx, d, "file", "ok", start)
	l.logger.DebugContext(ctx, "dataset loaded",
		slog.String("dataset", string(d)),
		slog.String("path", path),
		slog.Int("rows", t.Len()),
		slog.Bool("cache_hit", hit))
	return t, nil
}

func (l *Loader) loadUpload(ctx context.Context, d domain.Dataset, u *Upload) (*Table, error) {
	start := time.Now()
	t, hit, err := l.cache.GetOrLoad(ctx, uploadKey(d, u.Data), func() (*Table, error) {
		name := u.Filename
		if name == "" {
			name = DefaultFilename(d)
		}
		return ParseTable(name, bytes.NewReader(u.Data))
	})
	infrastructure.RecordCacheLookup(ctx, l.metrics, string(d), hit)
	if err != nil {
		l.record(ctx, d, "upload", "error", start)
		return nil, &LoadError{Dataset: d, Source: u.source(), Cause: err}
	}

	l.record(ctx, d, "upload", "ok", start)
	l.logger.DebugContext(ctx, "dataset uploaded",
		slog.String("dataset", string(d)),
		slog.String("filename", u.Filename),
		slog.Int("bytes", len(u.Data)),
		slog.Int("rows", t.Len()),
		slog.Bool("cache_hit", hit))
	return t, nil
}

func (l *Loader) record(ctx context.Context, d domain.Dataset, source, outcome string, start time.Time) {
	infrastructure.RecordDatasetLoad(ctx, l.metrics, string(d), source, outcome, time.Since(start))
}
