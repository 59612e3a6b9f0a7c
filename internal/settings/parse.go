package settings

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"
)

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func trimSign(s string) int {
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		return 1
	}
	return 0
}

// parseInt reads the longest base-10 integer prefix of s after leading
// whitespace: "12abc" is 12, "abc" fails. A prefix that overflows int64
// fails on purpose instead of yielding a huge number, so the field falls
// back to its default.
func parseInt(s string) (int64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	i := trimSign(s)
	j := i
	for j < len(s) && isDigit(s[j]) {
		j++
	}
	if j == i {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:j], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseFloat reads the longest decimal literal prefix of s: optional sign,
// digits with an optional fraction, an optional exponent, or Infinity.
// Out-of-range literals saturate to ±Inf or 0.
func parseFloat(s string) (float64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	i := trimSign(s)
	if strings.HasPrefix(s[i:], "Infinity") {
		if i > 0 && s[0] == '-' {
			return math.Inf(-1), true
		}
		return math.Inf(1), true
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0, false
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		j += trimSign(s[j:])
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}

	f, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return f, true
		}
		return 0, false
	}
	return f, true
}

// parseBool accepts exactly "true" and "false".
func parseBool(s string) (bool, bool) {
	switch s {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}
