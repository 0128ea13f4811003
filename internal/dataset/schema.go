package dataset

import (
	"fmt"
	"strings"
	"time"

	"salespulse/pkg/contracts/domain"
)

// Required columns per dataset, as canonical keys
var (
	MonthlyRequired  = []string{"year", "branch", "total_calc"}
	CategoryRequired = []string{"branch", "category", "revenue", "total_profit"}
)

// ProductNumericColumns are checked in this order before the description
var ProductNumericColumns = []string{"Qty", "Total Cost", "Total Profit", "Revenue"}

// DescriptionAliases are tried in order to find the product description column
var DescriptionAliases = []string{"Product Desc", "product_desc", "Description", "desc"}

// MinSeasonalMonths is the number of month columns needed for seasonality
const MinSeasonalMonths = 3

// Reason reported when seasonality cannot be computed
const ReasonInsufficientMonths = "insufficient monthly columns"

// MissingColumnsError reports required columns absent from a table
type MissingColumnsError struct {
	Dataset domain.Dataset
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s dataset is missing required columns: %s",
		e.Dataset, strings.Join(e.Missing, ", "))
}

// Validate checks that every required column is present. Missing lists the
// absent columns in the order of required.
func Validate(dataset domain.Dataset, t *Table, required []string) error {
	var missing []string
	for _, col := range required {
		if !t.Has(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnsError{Dataset: dataset, Missing: missing}
	}
	return nil
}

// RequiredColumns returns the fixed requirement of a dataset
func RequiredColumns(dataset domain.Dataset) []string {
	switch dataset {
	case domain.DatasetMonthly:
		return MonthlyRequired
	case domain.DatasetCategory:
		return CategoryRequired
	default:
		return nil
	}
}

// CheckProduct resolves the product column layout. Each missing numeric
// column or an unresolvable description makes the result absent.
func CheckProduct(t *Table) domain.Presence[domain.ProductColumns] {
	for _, col := range ProductNumericColumns {
		if !t.Has(col) {
			return domain.Absent[domain.ProductColumns](fmt.Sprintf("Missing column '%s'", col))
		}
	}
	for _, alias := range DescriptionAliases {
		if t.Has(alias) {
			return domain.Present(domain.ProductColumns{Description: t.HeaderFor(alias)})
		}
	}
	return domain.Absent[domain.ProductColumns](fmt.Sprintf(
		"No product description column (tried: %s)", strings.Join(DescriptionAliases, ", ")))
}

// MonthPresence lists the month columns found in the monthly table, in
// calendar order, when there are enough of them for seasonality.
func MonthPresence(t *Table) domain.Presence[[]time.Month] {
	var months []time.Month
	for _, m := range domain.AllMonths() {
		if t.Has(domain.MonthKey(m)) {
			months = append(months, m)
		}
	}
	if len(months) < MinSeasonalMonths {
		return domain.Absent[[]time.Month](ReasonInsufficientMonths)
	}
	return domain.Present(months)
}
