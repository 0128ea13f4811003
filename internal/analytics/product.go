package analytics

import (
	"sort"

	"salespulse/pkg/contracts/domain"
)

// ProductMetrics computes margin and profit per unit for each row
func ProductMetrics(rows []domain.ProductRow) []domain.ProductMetric {
	out := make([]domain.ProductMetric, len(rows))
	for i, r := range rows {
		out[i] = domain.ProductMetric{
			Description:   r.Description,
			Qty:           r.Qty,
			Revenue:       r.Revenue,
			TotalCost:     r.TotalCost,
			TotalProfit:   r.TotalProfit,
			Margin:        Divide(r.TotalProfit, r.Revenue),
			ProfitPerUnit: Divide(r.TotalProfit, r.Qty),
		}
	}
	return out
}

// TopProfit returns the n products with the highest total profit
func TopProfit(metrics []domain.ProductMetric, n int) []domain.ProductMetric {
	sorted := append([]domain.ProductMetric(nil), metrics...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalProfit > sorted[j].TotalProfit
	})
	return head(sorted, n)
}

// TopPerUnit returns the n products with the highest profit per unit among
// those sold at least minQty times.
func TopPerUnit(metrics []domain.ProductMetric, minQty float64, n int) []domain.ProductMetric {
	eligible := make([]domain.ProductMetric, 0, len(metrics))
	for _, m := range metrics {
		if m.Qty >= minQty {
			eligible = append(eligible, m)
		}
	}
	sortByRatioDesc(eligible, func(m domain.ProductMetric) domain.Ratio { return m.ProfitPerUnit })
	return head(eligible, n)
}

// ProductProfitability builds both product rankings
func ProductProfitability(rows []domain.ProductRow, minQty, n int) (topProfit, topPerUnit []domain.ProductMetric) {
	metrics := ProductMetrics(rows)
	return TopProfit(metrics, n), TopPerUnit(metrics, float64(minQty), n)
}
