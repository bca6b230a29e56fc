package export

import (
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
)

// Money денежная сумма с округлением до двух знаков
func Money(v float64) string {
	return decimalRound2(v).StringFixed(2)
}

// Percent ставка в процентах с двумя знаками: 0.15 -> "15.00%"
func Percent(rate float64) string {
	return decimal.NewFromFloat(rate).Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

func itoa(v int) string {
	return strconv.Itoa(v)
}

func sortedIDs[V any](m map[int64]V) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func sortedNames(m map[string]int) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func decimalRound2(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
