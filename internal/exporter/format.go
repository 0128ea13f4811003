package exporter

import (
	"strconv"

	"salespulse/pkg/contracts/domain"
)

// formatFloat formats an amount for CSV output with exactly 2 decimal places
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// formatRatio formats a ratio with 4 decimal places; undefined is empty
func formatRatio(r domain.Ratio) string {
	if !r.Defined() {
		return ""
	}
	return strconv.FormatFloat(r.Float(), 'f', 4, 64)
}

// formatCell renders a section cell for CSV output
func formatCell(v interface{}) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case int:
		return strconv.Itoa(c)
	case float64:
		return formatFloat(c)
	case domain.Ratio:
		return formatRatio(c)
	default:
		return ""
	}
}

// ratioCell converts a ratio to a workbook value; undefined stays empty
func ratioCell(r domain.Ratio) interface{} {
	if !r.Defined() {
		return nil
	}
	return r
}
