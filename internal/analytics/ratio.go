package analytics

import (
	"sort"

	"salespulse/pkg/contracts/domain"
)

// Divide applies the dashboard's division policy: 0/0 is 0 and x/0 is
// undefined.
func Divide(num, den float64) domain.Ratio {
	if den == 0 {
		if num == 0 {
			return 0
		}
		return domain.Undefined
	}
	return domain.Ratio(num / den)
}

// ratioGreater orders defined ratios descending with undefined ones last
func ratioGreater(a, b domain.Ratio) bool {
	if !a.Defined() {
		return false
	}
	if !b.Defined() {
		return true
	}
	return a > b
}

func sortByRatioDesc[T any](items []T, key func(T) domain.Ratio) {
	sort.SliceStable(items, func(i, j int) bool {
		return ratioGreater(key(items[i]), key(items[j]))
	})
}

func head[T any](items []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if n > len(items) {
		n = len(items)
	}
	return append(make([]T, 0, n), items[:n]...)
}

func tail[T any](items []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if n > len(items) {
		n = len(items)
	}
	return append(make([]T, 0, n), items[len(items)-n:]...)
}
