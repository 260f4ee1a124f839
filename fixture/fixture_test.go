package fixture

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrings(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		base      string
		enumerate bool
		want      []string
	}{
		{name: "zero enumerated", n: 0, base: "Lorem", enumerate: true, want: []string{}},
		{name: "negative count", n: -3, base: "Lorem", enumerate: true, want: []string{}},
		{name: "three enumerated", n: 3, base: "Lorem", enumerate: true, want: []string{"Lorem1", "Lorem2", "Lorem3"}},
		{name: "three identical", n: 3, base: "Lorem", enumerate: false, want: []string{"Lorem", "Lorem", "Lorem"}},
		{name: "empty base", n: 2, base: "", enumerate: true, want: []string{"1", "2"}},
		{name: "base with spaces", n: 2, base: " x ", enumerate: true, want: []string{" x 1", " x 2"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Strings(tc.n, tc.base, tc.enumerate))
		})
	}
}

func TestEnumeratedStrings(t *testing.T) {
	for _, n := range []int{0, 1, 7, 120} {
		res := EnumeratedStrings(n, "Example")
		require.Len(t, res, n)
		for i, s := range res {
			assert.Equal(t, "Example"+strconv.Itoa(i+1), s)
		}
	}
}

func TestStrings_Identical(t *testing.T) {
	res := Strings(25, "Example", false)
	require.Len(t, res, 25)
	for _, s := range res {
		assert.Equal(t, "Example", s)
	}
}

func TestIsTrimmed(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Ipsum", true},
		{"", true},
		{"Lorem Ipsum", true},
		{"Lorem \t Ipsum", true},
		{"   Ipsum", false},
		{"\t\tIpsum", false},
		{" \t \tIpsum", false},
		{"Ipsum   ", false},
		{"Ipsum\t\t", false},
		{" \t \tIpsum \t \t", false},
		{"  \t    ", false},
		{"Ipsum\n", false},
		{"\uFEFFIpsum", false},
		{"Ipsum\u00a0", false},
		{"Lorem\uFEFFIpsum", true},
	}

	for _, tc := range tests {
		t.Run(strconv.Quote(tc.text), func(t *testing.T) {
			assert.Equal(t, tc.want, IsTrimmed(tc.text))
			assert.Equal(t, tc.want, IsTrimmed(tc.text), "repeated call gives the same answer")
		})
	}
}

func TestTrim(t *testing.T) {
	tests := []struct {
		text, want string
	}{
		{"Ipsum", "Ipsum"},
		{" \t Ipsum \t ", "Ipsum"},
		{"\uFEFF Ipsum\uFEFF", "Ipsum"},
		{"\u00a0Ipsum\u2003", "Ipsum"},
		{"  \t  ", ""},
		{"Lorem Ipsum", "Lorem Ipsum"},
	}

	for _, tc := range tests {
		t.Run(strconv.Quote(tc.text), func(t *testing.T) {
			res := Trim(tc.text)
			assert.Equal(t, tc.want, res)
			assert.True(t, IsTrimmed(res), "trimmed text should pass the check")
		})
	}
}
