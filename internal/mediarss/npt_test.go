// SPDX-License-Identifier: MIT
package mediarss

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseNPT(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"12:05:35", 12*time.Hour + 5*time.Minute + 35*time.Second, true},
		{"12:05:35.123", 12*time.Hour + 5*time.Minute + 35*time.Second + 123*time.Millisecond, true},
		{"123.45", 123450 * time.Millisecond, true},
		{"0:00:00", 0, true},
		{"0", 0, true},
		{"42", 42 * time.Second, true},
		{"not-a-time", 0, false},
		{"", 0, false},
		{"::", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseNPT(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseNPT_FractionFloor(t *testing.T) {
	// The fractional digit string of length n contributes
	// floor(1000 * frac / 10^n) milliseconds.
	tests := []struct {
		frac string
		want time.Duration
	}{
		{"5", 500 * time.Millisecond},
		{"05", 50 * time.Millisecond},
		{"005", 5 * time.Millisecond},
		{"0005", 0},
		{"1239", 123 * time.Millisecond},
		{"9999", 999 * time.Millisecond},
		{"123456789123456789", 123 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.frac, func(t *testing.T) {
			got, ok := ParseNPT("1." + tt.frac)
			assert.True(t, ok)
			assert.Equal(t, time.Second+tt.want, got)
		})
	}
}

func TestParseNPT_Overflow(t *testing.T) {
	// Component overflow in the clock grammar falls back to the seconds
	// grammar; values past the Duration range yield no value at all.
	got, ok := ParseNPT("5000000000:00:00")
	assert.True(t, ok, "falls back to the seconds grammar on a digit run")
	assert.Equal(t, 5000000000*time.Second, got)

	_, ok = ParseNPT("99999999999999999999")
	assert.False(t, ok)

	_, ok = ParseNPT("10000000000")
	assert.False(t, ok, "seconds past the Duration range yield no value")
}

func TestParseNPT_FractionAtRangeBoundary(t *testing.T) {
	// 9223372036 seconds is the largest whole-second value a Duration can
	// hold. Without a fraction it is valid; with one that pushes the total
	// past the range it must yield no value, never a wrapped negative.
	got, ok := ParseNPT("9223372036")
	assert.True(t, ok)
	assert.Equal(t, 9223372036*time.Second, got)

	for _, in := range []string{"9223372036.999", "9223372036.9"} {
		d, ok := ParseNPT(in)
		assert.False(t, ok, "input %q must yield no value", in)
		assert.GreaterOrEqual(t, d, time.Duration(0))
	}

	// The clock grammar rejects the same boundary, then falls back to the
	// seconds grammar on the leading digit run.
	got, ok = ParseNPT("2562047:47:16.999")
	assert.True(t, ok)
	assert.Equal(t, 2562047*time.Second, got)
}
