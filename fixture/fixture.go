// Package fixture generates deterministic text fixtures for todo list tests.
package fixture

import (
	"strconv"
	"strings"
	"unicode"
)

// Strings returns n strings made from base. With enumerate set, the i-th element (1-based)
// is base followed by i, otherwise every element is base itself. Negative n yields an empty slice.
func Strings(n int, base string, enumerate bool) []string {
	if n < 0 {
		n = 0
	}
	res := make([]string, n)
	for i := range res {
		if !enumerate {
			res[i] = base
			continue
		}
		res[i] = base + strconv.Itoa(i+1)
	}
	return res
}

// EnumeratedStrings returns base1, base2, ..., baseN
func EnumeratedStrings(n int, base string) []string {
	return Strings(n, base, true)
}

// Trim removes leading and trailing whitespace, byte order mark included, the way browsers trim strings.
func Trim(text string) string {
	return strings.TrimFunc(text, isTrimmable)
}

// IsTrimmed reports whether text has no leading and no trailing whitespace.
func IsTrimmed(text string) bool {
	return text == Trim(text)
}

func isTrimmable(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}
