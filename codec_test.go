//go:build !ios && !android && (amd64 || arm64)

package ffframes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorrectTimeBase(t *testing.T) {
	tests := []struct {
		in, want Rational
	}{
		{Rational{Num: 90000, Den: 1}, Rational{Num: 90000, Den: 1000}},
		{Rational{Num: 1001, Den: 1}, Rational{Num: 1001, Den: 1000}},
		{Rational{Num: 1000, Den: 1}, Rational{Num: 1000, Den: 1}},
		{Rational{Num: 25, Den: 1}, Rational{Num: 25, Den: 1}},
		{Rational{Num: 1, Den: 25}, Rational{Num: 1, Den: 25}},
		{Rational{Num: 90000, Den: 2}, Rational{Num: 90000, Den: 2}},
		{Rational{Num: 1001, Den: 30000}, Rational{Num: 1001, Den: 30000}},
		{Rational{}, Rational{}},
	}

	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			got := correctTimeBase(tt.in)
			assert.Equal(t, tt.want, got)
			// Applying it twice changes nothing more.
			assert.Equal(t, got, correctTimeBase(got))
		})
	}
}
