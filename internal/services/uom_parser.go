package services

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultUnitWeightKg вес единицы, если обозначение веса не распознано
const DefaultUnitWeightKg = 1.0

var weightPattern = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)\s*(kg|g)$`)

// ParseWeightKg переводит обозначение веса категории в килограммы.
//
//	"500g" -> 0.5, "1kg" -> 1, "2 KG" -> 2, "1,5kg" -> 1.5
//
// Всё остальное ("Custom", "", "abcg", "5lb") дает DefaultUnitWeightKg.
func ParseWeightKg(weight string) float64 {
	text := strings.ToLower(strings.TrimSpace(weight))
	m := weightPattern.FindStringSubmatch(text)
	if m == nil {
		return DefaultUnitWeightKg
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil || value <= 0 {
		return DefaultUnitWeightKg
	}

	if m[2] == "kg" {
		return value
	}
	return value / 1000
}
