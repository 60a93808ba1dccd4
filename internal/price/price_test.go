package price

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  int64
		found bool
	}{
		{"grouped", "1,234", 1234, true},
		{"rupee sign", "₹500", 500, true},
		{"rs lowercase", "rs 500", 500, true},
		{"inr uppercase", "INR 500", 500, true},
		{"rupee ligature", "₨ 750", 750, true},
		{"bare number", "how about 800?", 800, true},
		{"plain digit run", "1200 is my price", 1200, true},
		{"millions grouped", "₹1,250,000 firm", 1250000, true},
		{"first of many", "was 900, now 850", 900, true},
		{"full-width digits", "５００", 500, true},
		{"devanagari digits", "₹५००", 500, true},
		{"devanagari grouped", "१,२००", 1200, true},
		{"superscript ignored", "x²=900", 900, true},
		{"fraction ignored", "½", 0, false},
		{"circled digit ignored", "①", 0, false},
		{"embedded in sentence", "I can offer rs 1,200, need it soon", 1200, true},
		{"zero", "0", 0, true},
		{"no digits", "what a lovely laptop", 0, false},
		{"empty", "", 0, false},
		{"currency only", "INR", 0, false},
		{"overflow", "99999999999999999999999", 0, false},
		{"above max", "1000000000000001", 0, false},
		{"at max", "1000000000000000", Max, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Extract(tt.text)
			assert.Equal(t, tt.found, ok, "found for %q", tt.text)
			assert.Equal(t, tt.want, got, "value for %q", tt.text)
		})
	}
}

func TestExtract_MalformedGroupingFallsBackToLeadingDigits(t *testing.T) {
	got, ok := Extract("12,34")
	assert.True(t, ok)
	assert.Equal(t, int64(12), got)
}

func TestFold(t *testing.T) {
	assert.Equal(t, "final offer", Fold("FINAL Offer"))
	assert.Equal(t, "rs 10", Fold("₨ １０"))
	assert.Equal(t, "x²", Fold("X²"))
}
