// Package api contains the HTTP API contracts of SalesPulse.
// Version v1 represents the current stable API version.
package api

// DashboardQuery holds the dashboard controls. Pointer fields distinguish
// "not given" from zero so defaults can apply.
type DashboardQuery struct {
	Year   *int `json:"year,omitempty" query:"year" validate:"omitempty,min=0"`
	TopN   *int `json:"top_n,omitempty" query:"top_n" validate:"omitempty,min=5,max=25"`
	MinQty *int `json:"min_qty,omitempty" query:"min_qty" validate:"omitempty,min=0,max=500"`
}

// YearOrZero returns the requested year, 0 when absent
func (q DashboardQuery) YearOrZero() int {
	if q.Year == nil {
		return 0
	}
	return *q.Year
}

// TopNOr returns the requested top_n or def
func (q DashboardQuery) TopNOr(def int) int {
	if q.TopN == nil {
		return def
	}
	return *q.TopN
}

// MinQtyOr returns the requested min_qty or def
func (q DashboardQuery) MinQtyOr(def int) int {
	if q.MinQty == nil {
		return def
	}
	return *q.MinQty
}

// SectionExportRequest names one section to export as CSV
type SectionExportRequest struct {
	DashboardQuery
	Section string `json:"section" param:"section" validate:"required,oneof=ranking seasonality margins_top margins_bottom category_share products_profit products_per_unit notices"`
}
