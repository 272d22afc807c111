// Package formatting converts byte sizes between int64 counts and the
// human-readable strings used in configuration and error messages.
package formatting

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

const prefixes = "KMGTPE"

// multipliers maps every accepted unit spelling to its base-1024 exponent.
var multipliers = func() map[string]int {
	m := map[string]int{"": 0, "B": 0}
	for i, p := range prefixes {
		exp := i + 1
		m[string(p)] = exp
		m[string(p)+"B"] = exp
		m[string(p)+"IB"] = exp
	}
	return m
}()

// FormatBytes renders n with base-1024 units. Counts below 1 KB are shown
// as whole bytes; precision applies to larger units and is clamped at zero.
func FormatBytes(n int64, precision int) string {
	if n > -1024 && n < 1024 {
		return strconv.FormatInt(n, 10) + " B"
	}

	size := float64(n)
	exp := 0
	for math.Abs(size) >= 1024 && exp < len(prefixes) {
		size /= 1024
		exp++
	}

	unit := string(prefixes[exp-1]) + "B"
	return strconv.FormatFloat(size, 'f', max(precision, 0), 64) + " " + unit
}

// ParseBytes reads sizes such as "10MB", "1.5 KiB", or "2048". Units are
// case-insensitive and all resolve to powers of 1024.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte size")
	}

	split := strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '.'
	})
	number, unit := s, ""
	if split >= 0 {
		number, unit = s[:split], strings.TrimSpace(s[split:])
	}
	if number == "" {
		return 0, fmt.Errorf("invalid byte size %q: missing number", s)
	}

	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size %q: %w", s, err)
	}

	exp, ok := multipliers[strings.ToUpper(unit)]
	if !ok {
		return 0, fmt.Errorf("invalid byte size %q: unknown unit %q", s, unit)
	}

	total := value * math.Pow(1024, float64(exp))
	if total >= math.MaxInt64 {
		return 0, fmt.Errorf("invalid byte size %q: overflows int64", s)
	}
	return int64(total), nil
}
