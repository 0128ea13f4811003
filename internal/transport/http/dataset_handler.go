package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"salespulse/internal/dataset"
	apierrors "salespulse/internal/errors"
	api "salespulse/pkg/contracts/api/v1"
	"salespulse/pkg/contracts/domain"
	"salespulse/pkg/contracts/events"
)

// DatasetServiceInterface exposes dataset status and the cache
type DatasetServiceInterface interface {
	Datasets(ctx context.Context) []domain.DatasetStatus
	CacheStats(ctx context.Context) dataset.CacheStats
	ClearCache(ctx context.Context) dataset.CacheStats
}

// ReloadNotifier tells connected dashboards that data changed
type ReloadNotifier interface {
	BroadcastDatasetsReloaded(ctx context.Context, data events.DatasetsReloadedData) int
}

// DatasetHandler serves dataset status and cache control
type DatasetHandler struct {
	service      DatasetServiceInterface
	notifier     ReloadNotifier
	dataDir      string
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDatasetHandler creates a dataset handler; notifier may be nil
func NewDatasetHandler(service DatasetServiceInterface, notifier ReloadNotifier, dataDir string, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DatasetHandler {
	return &DatasetHandler{
		service:      service,
		notifier:     notifier,
		dataDir:      dataDir,
		logger:       logger.With(slog.String("handler", "datasets")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dataset routes
func (h *DatasetHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.ListDatasets)
	r.Post("/cache/clear", h.ClearCache)

	return r
}

// ListDatasets handles GET /api/datasets
func (h *DatasetHandler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	render.JSON(w, r, api.DatasetsResponse{
		DataDir:  h.dataDir,
		Datasets: h.service.Datasets(ctx),
		Cache:    cacheInfo(h.service.CacheStats(ctx)),
	})
}

// ClearCache handles POST /api/datasets/cache/clear
func (h *DatasetHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	before := h.service.ClearCache(ctx)

	resp := api.CacheClearResponse{Cleared: before.Entries}
	if h.notifier != nil {
		resp.Notified = h.notifier.BroadcastDatasetsReloaded(ctx, events.DatasetsReloadedData{
			Reason:         "cache_cleared",
			ClearedEntries: before.Entries,
			Datasets:       h.service.Datasets(ctx),
		})
	}

	h.logger.InfoContext(ctx, "cache cleared via API",
		slog.Int("cleared", resp.Cleared),
		slog.Int("notified_clients", resp.Notified))
	render.JSON(w, r, resp)
}

func cacheInfo(s dataset.CacheStats) api.CacheInfo {
	return api.CacheInfo{
		Entries:    s.Entries,
		MaxEntries: s.MaxEntries,
		Hits:       s.Hits,
		Misses:     s.Misses,
		HitRatio:   s.HitRatio,
	}
}
