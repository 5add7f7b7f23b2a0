package env

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// Numeric parsing is lenient: the longest valid numeric prefix is used and
// anything after it is ignored, so "3.14abc" reads as 3.14 and "42.9" as the
// integer 42.

// trimLeadingSpace drops leading white space, including the byte order mark.
func trimLeadingSpace(s string) string {
	return strings.TrimLeftFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
}

func isDigit(c byte, radix int) bool {
	switch {
	case c >= '0' && c <= '9':
		return int(c-'0') < radix
	case radix == 16 && c >= 'a' && c <= 'f':
		return true
	case radix == 16 && c >= 'A' && c <= 'F':
		return true
	}
	return false
}

// parseFloatPrefix parses the leading decimal literal of s. The boolean is
// false when s has no numeric prefix at all.
func parseFloatPrefix(s string) (float64, bool) {
	s = trimLeadingSpace(s)

	i := 0
	negative := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		negative = s[i] == '-'
		i++
	}

	if strings.HasPrefix(s[i:], "Infinity") {
		if negative {
			return math.Inf(-1), true
		}
		return math.Inf(1), true
	}

	digits := 0
	for i < len(s) && isDigit(s[i], 10) {
		i++
		digits++
	}

	if i < len(s) && s[i] == '.' {
		j := i + 1
		fraction := 0
		for j < len(s) && isDigit(s[j], 10) {
			j++
			fraction++
		}
		if digits > 0 || fraction > 0 {
			i = j
			digits += fraction
		}
	}

	if digits == 0 {
		return 0, false
	}

	// The exponent only counts when it carries at least one digit.
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k], 10) {
			k++
		}
		if k > j {
			i = k
		}
	}

	value, err := strconv.ParseFloat(s[:i], 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	// Out of range literals saturate to ±Inf or 0, which is what we want.
	return value, true
}

// parseIntPrefix parses the leading integer of s in base 10, or base 16 when
// the digits carry a 0x prefix. The boolean is false when there are no digits
// or the value does not fit in an int64.
func parseIntPrefix(s string) (int64, bool) {
	s = trimLeadingSpace(s)

	sign := ""
	if s != "" && (s[0] == '+' || s[0] == '-') {
		sign = s[:1]
		s = s[1:]
	}

	radix := 10
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		radix = 16
		s = s[2:]
	}

	end := 0
	for end < len(s) && isDigit(s[end], radix) {
		end++
	}
	if end == 0 {
		return 0, false
	}

	value, err := strconv.ParseInt(sign+s[:end], radix, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

var boolQuotes = []string{`"`, `'`, "`"}

// parseBool normalizes text and matches it against "true" and "false".
// A single layer of matching quotes around the value is ignored.
func parseBool(text string) (bool, bool) {
	text = strings.ToLower(strings.TrimSpace(text))

	for _, quote := range boolQuotes {
		if strings.HasPrefix(text, quote) && strings.HasSuffix(text, quote) {
			if len(text) < 2*len(quote) {
				text = ""
			} else {
				text = text[len(quote) : len(text)-len(quote)]
			}
			break
		}
	}

	switch text {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}
