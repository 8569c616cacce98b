package compat

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestStringify(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"nil", nil, ""},
		{"trimmed string", "  hello  ", "hello"},
		{"integral float", float64(7), "7"},
		{"fractional float", 1000.5, "1000.5"},
		{"int", 42, "42"},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
		{"decimal", decimal.NewFromFloat(12.3), "12.3"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Stringify(tc.input))
		})
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"lowercases", "CORBEILLE", "corbeille"},
		{"folds accents", "Déposé", "depose"},
		{"trims", "  En Attente ", "en attente"},
		{"mixed accents", "Déposé 2ème fois", "depose 2eme fois"},
		{"nil", nil, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Slugify(tc.input))
		})
	}
}

func TestToDecimal(t *testing.T) {
	fallback := decimal.NewFromInt(-1)
	tests := []struct {
		name     string
		input    any
		expected decimal.Decimal
	}{
		{"dot separator", "1000.50", decimal.NewFromFloat(1000.5)},
		{"comma separator", "1000,50", decimal.NewFromFloat(1000.5)},
		{"float", 25.5, decimal.NewFromFloat(25.5)},
		{"int", 30, decimal.NewFromInt(30)},
		{"empty string", "", fallback},
		{"garbage", "abc", fallback},
		{"nil", nil, fallback},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ToDecimal(tc.input, fallback)
			assert.True(t, tc.expected.Equal(got), "expected %s, got %s", tc.expected, got)
		})
	}
}

func TestToBool(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected bool
	}{
		{"bool", true, true},
		{"one", float64(1), true},
		{"zero", float64(0), false},
		{"string one", "1", true},
		{"oui", "Oui", true},
		{"yes", "yes", true},
		{"non", "Non", false},
		{"nil", nil, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ToBool(tc.input))
		})
	}
}
