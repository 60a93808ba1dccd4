// Package price extracts price quantities from free-text negotiation messages.
package price

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Max is the largest price or budget the negotiation engine accepts.
// Keeping values at or below it lets every percentage computation stay in int64.
const Max int64 = 1_000_000_000_000_000

// pricePattern matches an optional currency marker followed by either
// comma-grouped digits (1,234,567) or a plain digit run (1234567).
// Digits are any Unicode decimal digit, so ५०० matches too.
// The marker is optional, so bare numbers match as well.
var pricePattern = regexp.MustCompile(`(?:₹|rs|inr)?\s*(\p{Nd}{1,3}(?:,\p{Nd}{3})+|\p{Nd}+)`)

// ligatures are compatibility forms spelled out before matching.
var ligatures = strings.NewReplacer("₨", "rs")

// Fold normalises text for matching. Full-width forms narrow to ASCII, the ₨
// ligature becomes "rs" and case folding makes "INR" and "inr" equal.
// Superscripts, fractions and circled digits are left alone.
func Fold(text string) string {
	return cases.Fold().String(ligatures.Replace(width.Fold.String(norm.NFC.String(text))))
}

// Extract returns the first price-like value in text, scanning left to right.
// Grouping commas are removed. It reports false when no value matches or the
// first match exceeds Max.
func Extract(text string) (int64, bool) {
	m := pricePattern.FindStringSubmatch(Fold(text))
	if m == nil {
		return 0, false
	}
	var n int64
	for _, r := range m[1] {
		if r == ',' {
			continue
		}
		n = n*10 + int64(digitValue(r))
		if n > Max {
			return 0, false
		}
	}
	return n, true
}

// digitValue returns the value of a decimal digit rune. Unicode assigns
// decimal digits in contiguous runs of whole 0-9 blocks, so the offset from
// the start of the run gives the value.
func digitValue(r rune) int {
	start := r
	for start > 0 && unicode.Is(unicode.Nd, start-1) {
		start--
	}
	return int(r-start) % 10
}
