package compat

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// accentFolder decomposes to NFD and strips combining marks, so that
// locale spelling variants ("déposé" vs "depose") compare equal.
var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))

// Stringify renders a raw scalar as its trimmed text form; nil renders as
// the empty string. Floats render without a trailing fractional part when
// they carry none, matching how the legacy web client printed numbers.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case []byte:
		return strings.TrimSpace(string(t))
	case bool:
		if t {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case decimal.Decimal:
		return t.String()
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

// Slugify lowercases, trims and accent-folds a raw value. Every closed
// enumeration in this package is compared through Slugify.
func Slugify(v any) string {
	s := strings.ToLower(Stringify(v))
	folded, _, err := transform.String(accentFolder, s)
	if err != nil {
		return s
	}
	return folded
}

// ToDecimal coerces a loosely-typed numeric value. Strings accept either
// comma or dot as the decimal separator; anything unparseable, empty or
// non-finite yields the fallback.
func ToDecimal(v any, fallback decimal.Decimal) decimal.Decimal {
	switch t := v.(type) {
	case nil:
		return fallback
	case decimal.Decimal:
		return t
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return fallback
		}
		return decimal.NewFromFloat(t)
	case float32:
		return ToDecimal(float64(t), fallback)
	case int:
		return decimal.NewFromInt(int64(t))
	case int32:
		return decimal.NewFromInt(int64(t))
	case int64:
		return decimal.NewFromInt(t)
	}

	s := strings.TrimSpace(Stringify(v))
	if s == "" {
		return fallback
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fallback
	}
	return d
}

// ToBool coerces a loosely-typed flag. Numbers are a non-zero test;
// strings match the usual affirmative spellings, accent-insensitively.
func ToBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case float32:
		return t != 0
	case int:
		return t != 0
	case int32:
		return t != 0
	case int64:
		return t != 0
	}
	switch Slugify(v) {
	case "1", "true", "oui", "yes":
		return true
	}
	return false
}

// rawAlias returns the first present, non-nil value among the given keys.
func rawAlias(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// strAlias returns the first non-empty trimmed string among the given keys.
func strAlias(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := Stringify(m[k]); s != "" {
			return s
		}
	}
	return ""
}

// optional maps the empty string to nil, for fields the backend stores as
// nullable text.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func defaultStr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
