package http

import (
	"errors"
	"fmt"
	"net/http"

	"salespulse/internal/dataset"
	apierrors "salespulse/internal/errors"
	"salespulse/internal/exporter"
	"salespulse/internal/services"
	"salespulse/pkg/contracts/domain"
)

// toAPIError maps domain errors onto API errors. Anything it does not
// recognise is returned unchanged for the ErrorHandler to classify.
func toAPIError(err error) error {
	var (
		loadErr    *dataset.LoadError
		missingErr *dataset.MissingColumnsError
		yearErr    *services.YearNotFoundError
	)

	switch {
	case errors.As(err, &missingErr):
		return apierrors.MissingColumnsError(string(missingErr.Dataset), missingErr.Missing)
	case errors.As(err, &loadErr):
		return apierrors.DataLoadError(string(loadErr.Dataset), loadErr.Source, loadErr.Cause)
	case errors.As(err, &yearErr):
		return apierrors.YearNotFoundError(yearErr.Year, yearErr.Available)
	case errors.Is(err, services.ErrNoMonthlyRows):
		return apierrors.DataLoadError(string(domain.DatasetMonthly), dataset.DefaultFilename(domain.DatasetMonthly), err)
	case errors.Is(err, exporter.ErrUnknownSection), errors.Is(err, exporter.ErrSectionUnavailable):
		return apierrors.NewWithDetails(http.StatusNotFound, apierrors.CodeSectionNotFound,
			fmt.Sprintf("Export section not found: %v", err), nil)
	}
	return err
}
