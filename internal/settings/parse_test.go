package settings

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseInt(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"12", 12, true},
		{"12abc", 12, true},
		{"  7", 7, true},
		{"-3", -3, true},
		{"+5", 5, true},
		{"12.9", 12, true},
		{"1e3", 1, true},
		{"0x10", 0, true},
		{"abc", 0, false},
		{"", 0, false},
		{"-", 0, false},
		{" - 4", 0, false},
		{"99999999999999999999", 0, false},
	}
	for _, test := range tests {
		got, ok := parseInt(test.in)
		assert.Equal(t, test.ok, ok, "parseInt(%q)", test.in)
		assert.Equal(t, test.want, got, "parseInt(%q)", test.in)
	}
}

func TestParseFloat(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"2.5", 2.5, true},
		{"2.5s", 2.5, true},
		{".5", 0.5, true},
		{"5.", 5, true},
		{"-1.25", -1.25, true},
		{"1e3", 1000, true},
		{"1e", 1, true},
		{"1e+", 1, true},
		{"2E-1x", 0.2, true},
		{"\t3", 3, true},
		{"1e400", math.Inf(1), true},
		{"Infinity", math.Inf(1), true},
		{"-Infinityx", math.Inf(-1), true},
		{"NaN", 0, false},
		{".", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, test := range tests {
		got, ok := parseFloat(test.in)
		assert.Equal(t, test.ok, ok, "parseFloat(%q)", test.in)
		assert.Equal(t, test.want, got, "parseFloat(%q)", test.in)
	}
}

func TestParseBool(t *testing.T) {
	for in, want := range map[string]bool{"true": true, "false": false} {
		got, ok := parseBool(in)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}
	for _, in := range []string{"", "maybe", "TRUE", "1", " true"} {
		_, ok := parseBool(in)
		assert.False(t, ok, "parseBool(%q)", in)
	}
}
