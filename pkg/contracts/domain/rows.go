package domain

import (
	"strings"
	"time"
)

// Dataset names the three inputs of the dashboard
type Dataset string

const (
	DatasetMonthly  Dataset = "monthly"
	DatasetCategory Dataset = "category"
	DatasetProduct  Dataset = "product"
)

// Category values the share pivot reports on
const (
	CategoryBeverages = "BEVERAGES"
	CategoryFood      = "FOOD"
)

// MonthlyRow is one (branch, year) line of the monthly sales table.
// Months holds jan..dec at index month-1; columns absent from the file read as 0.
type MonthlyRow struct {
	Year      int         `json:"year"`
	Branch    string      `json:"branch"`
	TotalCalc float64     `json:"total_calc"`
	Months    [12]float64 `json:"months"`
}

// Month returns the value recorded for m
func (r MonthlyRow) Month(m time.Month) float64 {
	if m < time.January || m > time.December {
		return 0
	}
	return r.Months[m-1]
}

// CategoryRow is one (branch, category) line of the category summary
type CategoryRow struct {
	Branch      string  `json:"branch"`
	Category    string  `json:"category"`
	Revenue     float64 `json:"revenue"`
	TotalProfit float64 `json:"total_profit"`
}

// ProductRow is one line of the optional product detail table
type ProductRow struct {
	Description string  `json:"description"`
	Qty         float64 `json:"qty"`
	Revenue     float64 `json:"revenue"`
	TotalCost   float64 `json:"total_cost"`
	TotalProfit float64 `json:"total_profit"`
}

// ProductColumns carries the resolved product column layout
type ProductColumns struct {
	// Description is the header of the column holding product descriptions
	Description string `json:"description"`
}

// MonthKey returns the three-letter lower-case column key of m ("jan")
func MonthKey(m time.Month) string {
	return strings.ToLower(m.String()[:3])
}

// MonthLabel returns the three-letter display label of m ("Jan")
func MonthLabel(m time.Month) string {
	return m.String()[:3]
}

// AllMonths lists the calendar months in order
func AllMonths() []time.Month {
	months := make([]time.Month, 0, 12)
	for m := time.January; m <= time.December; m++ {
		months = append(months, m)
	}
	return months
}
