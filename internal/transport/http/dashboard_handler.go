package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"salespulse/internal/config"
	"salespulse/internal/dataset"
	apierrors "salespulse/internal/errors"
	"salespulse/internal/exporter"
	"salespulse/internal/infrastructure"
	"salespulse/internal/middleware"
	"salespulse/internal/services"
	api "salespulse/pkg/contracts/api/v1"
	"salespulse/pkg/contracts/domain"
)

// multipartMemory is how much of a multipart form is kept in memory
const multipartMemory = 8 << 20

// DashboardServiceInterface is the dashboard service as seen by handlers
type DashboardServiceInterface interface {
	Defaults() config.DashboardConfig
	Render(ctx context.Context, req services.DashboardRequest) (*domain.Dashboard, error)
	Years(ctx context.Context, monthly *dataset.Upload) ([]int, error)
}

// DashboardHandler serves the dashboard and its exports
type DashboardHandler struct {
	service      DashboardServiceInterface
	validator    *middleware.Validator
	csv          *exporter.CSVWriter
	metrics      *infrastructure.BusinessMetrics
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a dashboard handler; metrics may be nil
func NewDashboardHandler(service DashboardServiceInterface, validator *middleware.Validator, metrics *infrastructure.BusinessMetrics, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		validator:    validator,
		csv:          exporter.NewCSVWriter(nil),
		metrics:      metrics,
		logger:       logger.With(slog.String("handler", "dashboard")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dashboard routes
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(render.SetContentType(render.ContentTypeJSON)).Get("/", h.GetDashboard)
	r.With(
		render.SetContentType(render.ContentTypeJSON),
		middleware.MaxBodySize(h.service.Defaults().MaxUploadBytes),
	).Post("/", h.PostDashboard)
	r.With(render.SetContentType(render.ContentTypeJSON)).Get("/years", h.GetYears)
	r.Get("/export.xlsx", h.ExportWorkbook)
	r.Get("/export/{section}.csv", h.ExportSection)

	return r
}

// GetDashboard handles GET /api/dashboard from the default files
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	req, err := h.request(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.respond(w, r, req)
}

// PostDashboard handles POST /api/dashboard with optional uploaded files
func (h *DashboardHandler) PostDashboard(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.errorHandler.HandleError(w, r, uploadError(err))
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	req, err := h.request(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	for field, dst := range map[string]**dataset.Upload{
		string(domain.DatasetMonthly):  &req.Monthly,
		string(domain.DatasetCategory): &req.Category,
		string(domain.DatasetProduct):  &req.Product,
	} {
		upload, err := formUpload(r, field)
		if err != nil {
			h.errorHandler.HandleError(w, r, uploadError(err))
			return
		}
		*dst = upload
	}

	h.respond(w, r, req)
}

// GetYears handles GET /api/dashboard/years
func (h *DashboardHandler) GetYears(w http.ResponseWriter, r *http.Request) {
	years, err := h.service.Years(r.Context(), nil)
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err))
		return
	}

	resp := api.YearsResponse{Years: years}
	if len(years) > 0 {
		resp.Default = years[len(years)-1]
	}
	render.JSON(w, r, resp)
}

// ExportWorkbook handles GET /api/dashboard/export.xlsx
func (h *DashboardHandler) ExportWorkbook(w http.ResponseWriter, r *http.Request) {
	d, ok := h.render(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := exporter.WriteWorkbook(&buf, d); err != nil {
		infrastructure.RecordSystemError(r.Context(), h.metrics, "export", "dashboard_handler")
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", attachment(d, "xlsx", ""))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "workbook download interrupted", slog.String("error", err.Error()))
		return
	}
	infrastructure.RecordExport(r.Context(), h.metrics, "xlsx")
}

// ExportSection handles GET /api/dashboard/export/{section}.csv
func (h *DashboardHandler) ExportSection(w http.ResponseWriter, r *http.Request) {
	exportReq, err := h.validator.SectionExport(r.URL.Query(), chi.URLParam(r, "section"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	d, ok := h.renderRequest(w, r, h.fromQuery(exportReq.DashboardQuery))
	if !ok {
		return
	}

	section, err := exporter.SectionByName(d, exportReq.Section)
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", attachment(d, "csv", section.Name))
	if err := h.csv.WriteSection(w, d, section.Name); err != nil {
		h.logger.ErrorContext(r.Context(), "section export failed",
			slog.String("section", section.Name),
			slog.String("error", err.Error()))
		return
	}
	infrastructure.RecordExport(r.Context(), h.metrics, "csv")
}

func (h *DashboardHandler) request(r *http.Request) (services.DashboardRequest, error) {
	values := r.URL.Query()
	if r.MultipartForm != nil {
		values = r.Form
	}
	q, err := h.validator.DashboardQuery(values)
	if err != nil {
		return services.DashboardRequest{}, err
	}
	return h.fromQuery(q), nil
}

func (h *DashboardHandler) fromQuery(q api.DashboardQuery) services.DashboardRequest {
	defaults := h.service.Defaults()
	return services.DashboardRequest{
		Year:   q.YearOrZero(),
		TopN:   q.TopNOr(defaults.DefaultTopN),
		MinQty: q.MinQtyOr(defaults.DefaultMinQty),
	}
}

func (h *DashboardHandler) render(w http.ResponseWriter, r *http.Request) (*domain.Dashboard, bool) {
	req, err := h.request(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return nil, false
	}
	return h.renderRequest(w, r, req)
}

func (h *DashboardHandler) renderRequest(w http.ResponseWriter, r *http.Request, req services.DashboardRequest) (*domain.Dashboard, bool) {
	d, err := h.service.Render(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err))
		return nil, false
	}
	return d, true
}

func (h *DashboardHandler) respond(w http.ResponseWriter, r *http.Request, req services.DashboardRequest) {
	d, ok := h.renderRequest(w, r, req)
	if !ok {
		return
	}
	render.JSON(w, r, d)
}

// formUpload reads one optional file field. An empty file counts as absent.
func formUpload(r *http.Request, field string) (*dataset.Upload, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s upload: %w", field, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read %s upload: %w", field, err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &dataset.Upload{Filename: header.Filename, Data: data}, nil
}

// uploadError keeps oversize bodies as *http.MaxBytesError for the 413
// mapping and reports other form failures as bad requests.
func uploadError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return err
	}
	return apierrors.InvalidRequestWithError(err)
}

func attachment(d *domain.Dashboard, ext, section string) string {
	name := fmt.Sprintf("salespulse_%d", d.Year)
	if section != "" {
		name += "_" + section
	}
	stamp := d.GeneratedAt
	if stamp.IsZero() {
		stamp = time.Now()
	}
	return fmt.Sprintf(`attachment; filename="%s_%s.%s"`, name, stamp.Format("20060102"), ext)
}
