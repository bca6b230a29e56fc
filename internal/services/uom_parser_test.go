package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseWeightKg(t *testing.T) {
	tests := []struct {
		weight string
		want   float64
	}{
		{"500g", 0.5},
		{"250g", 0.25},
		{"1kg", 1},
		{"2kg", 2},
		{"2KG", 2},
		{" 1.5 kg ", 1.5},
		{"1,5kg", 1.5},
		{"750 G", 0.75},
		{"Custom", DefaultUnitWeightKg},
		{"", DefaultUnitWeightKg},
		{"abcg", DefaultUnitWeightKg},
		{"5lb", DefaultUnitWeightKg},
		{"kg", DefaultUnitWeightKg},
		{"0g", DefaultUnitWeightKg},
		{"-1kg", DefaultUnitWeightKg},
	}

	for _, tt := range tests {
		t.Run(tt.weight, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseWeightKg(tt.weight), 1e-9)
		})
	}
}
