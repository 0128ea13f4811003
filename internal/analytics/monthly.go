package analytics

import (
	"sort"
	"time"

	"salespulse/pkg/contracts/domain"
)

// Years returns the distinct years of the monthly rows, ascending
func Years(rows []domain.MonthlyRow) []int {
	seen := make(map[int]struct{}, len(rows))
	years := make([]int, 0)
	for _, r := range rows {
		if _, ok := seen[r.Year]; ok {
			continue
		}
		seen[r.Year] = struct{}{}
		years = append(years, r.Year)
	}
	sort.Ints(years)
	return years
}

// FilterYear keeps the rows of one year in input order
func FilterYear(rows []domain.MonthlyRow, year int) []domain.MonthlyRow {
	out := make([]domain.MonthlyRow, 0, len(rows))
	for _, r := range rows {
		if r.Year == year {
			out = append(out, r)
		}
	}
	return out
}

// RankBranches returns the n branches with the highest total_calc in year.
// Ties keep their input order.
func RankBranches(rows []domain.MonthlyRow, year, n int) []domain.BranchTotal {
	filtered := FilterYear(rows, year)
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].TotalCalc > filtered[j].TotalCalc
	})

	ranked := make([]domain.BranchTotal, 0, len(filtered))
	for _, r := range head(filtered, n) {
		ranked = append(ranked, domain.BranchTotal{Branch: r.Branch, TotalCalc: r.TotalCalc})
	}
	return ranked
}

// Seasonality sums each present month column over the rows of year, in
// calendar order. It is absent when too few month columns exist.
func Seasonality(rows []domain.MonthlyRow, year int, months domain.Presence[[]time.Month]) domain.Presence[[]domain.MonthTotal] {
	present, ok := months.Get()
	if !ok {
		return domain.Absent[[]domain.MonthTotal](months.Reason())
	}

	filtered := FilterYear(rows, year)
	series := make([]domain.MonthTotal, 0, len(present))
	for _, m := range present {
		var total float64
		for _, r := range filtered {
			total += r.Month(m)
		}
		series = append(series, domain.MonthTotal{
			Month: domain.MonthKey(m),
			Label: domain.MonthLabel(m),
			Total: total,
		})
	}
	return domain.Present(series)
}
