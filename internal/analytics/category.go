package analytics

import (
	"sort"

	"salespulse/pkg/contracts/domain"
)

// BranchMargins groups category rows by branch in first-appearance order
// and returns every branch sorted by margin descending.
func BranchMargins(rows []domain.CategoryRow) []domain.BranchMargin {
	index := make(map[string]int)
	var margins []domain.BranchMargin
	for _, r := range rows {
		i, ok := index[r.Branch]
		if !ok {
			i = len(margins)
			index[r.Branch] = i
			margins = append(margins, domain.BranchMargin{Branch: r.Branch})
		}
		margins[i].Revenue += r.Revenue
		margins[i].TotalProfit += r.TotalProfit
	}
	for i := range margins {
		margins[i].Margin = Divide(margins[i].TotalProfit, margins[i].Revenue)
	}

	sortByRatioDesc(margins, func(m domain.BranchMargin) domain.Ratio { return m.Margin })
	return margins
}

// SplitMargins takes the first and last n entries of a margin ranking
func SplitMargins(sorted []domain.BranchMargin, n int) domain.MarginSections {
	return domain.MarginSections{
		Top:    head(sorted, n),
		Bottom: tail(sorted, n),
	}
}

// CategoryShares pivots revenue into branch x category, computes the
// beverage and food shares of each branch total and returns the n branches
// with the highest beverage share.
func CategoryShares(rows []domain.CategoryRow, n int) domain.ShareSection {
	index := make(map[string]int)
	seenCategory := make(map[string]struct{})
	var categories []string
	var shares []domain.CategoryShare

	for _, r := range rows {
		if _, ok := seenCategory[r.Category]; !ok {
			seenCategory[r.Category] = struct{}{}
			categories = append(categories, r.Category)
		}
		i, ok := index[r.Branch]
		if !ok {
			i = len(shares)
			index[r.Branch] = i
			shares = append(shares, domain.CategoryShare{Branch: r.Branch, Revenue: map[string]float64{}})
		}
		shares[i].Revenue[r.Category] += r.Revenue
	}
	sort.Strings(categories)

	for i := range shares {
		s := &shares[i]
		for _, c := range categories {
			if _, ok := s.Revenue[c]; !ok {
				s.Revenue[c] = 0
			}
			s.Total += s.Revenue[c]
		}
		s.BevShare = Divide(s.Revenue[domain.CategoryBeverages], s.Total)
		s.FoodShare = Divide(s.Revenue[domain.CategoryFood], s.Total)
	}

	sortByRatioDesc(shares, func(s domain.CategoryShare) domain.Ratio { return s.BevShare })
	if categories == nil {
		categories = []string{}
	}
	return domain.ShareSection{Categories: categories, Rows: head(shares, n)}
}
