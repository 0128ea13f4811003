package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "salespulse/internal/errors"
	api "salespulse/pkg/contracts/api/v1"
)

// Validator validates request contracts using struct tags
type Validator struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// NewValidator creates a validator that reports JSON field names
func NewValidator(logger *slog.Logger) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{
		validate: v,
		logger:   logger.With(slog.String("component", "validation")),
	}
}

// ValidateStruct validates v and returns an APIError listing every field
func (m *Validator) ValidateStruct(v interface{}) error {
	err := m.validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// nil or non-struct input is a caller bug, not a bad request
		return apierrors.NewInternalError(err.Error())
	}

	validationErrors := make([]apierrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		validationErrors = append(validationErrors, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: formatValidationError(fe),
		})
	}
	return apierrors.NewValidationErrors(validationErrors)
}

// DashboardQuery reads the dashboard controls from query or form values
func (m *Validator) DashboardQuery(values url.Values) (api.DashboardQuery, error) {
	var q api.DashboardQuery
	var err error

	if q.Year, err = intParam(values, "year"); err != nil {
		return q, err
	}
	if q.TopN, err = intParam(values, "top_n"); err != nil {
		return q, err
	}
	if q.MinQty, err = intParam(values, "min_qty"); err != nil {
		return q, err
	}

	if err := m.ValidateStruct(q); err != nil {
		m.logger.Debug("dashboard query rejected", slog.String("error", err.Error()))
		return q, err
	}
	return q, nil
}

// SectionExport reads and validates a section export request
func (m *Validator) SectionExport(values url.Values, section string) (api.SectionExportRequest, error) {
	q, err := m.DashboardQuery(values)
	if err != nil {
		return api.SectionExportRequest{}, err
	}
	req := api.SectionExportRequest{DashboardQuery: q, Section: section}
	if err := m.ValidateStruct(req); err != nil {
		return req, err
	}
	return req, nil
}

func intParam(values url.Values, name string) (*int, error) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apierrors.ErrValidation(name, fmt.Sprintf("%s must be a valid integer", name))
	}
	return &n, nil
}

// MaxBodySize caps the request body; handlers see an error once it is exceeded
func MaxBodySize(limit int64) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit > 0 && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}
