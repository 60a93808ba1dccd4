package negotiation

import (
	"strings"

	"github.com/rcliao/buyer-agent/internal/price"
)

// finalityMarker signals that the seller considers the offer non-negotiable.
const finalityMarker = "final"

// urgencyMarkers signal that the seller wants a fast close.
var urgencyMarkers = []string{"soon", "quick", "immediate"}

// Turn is a seller message with the signals derived from it.
type Turn struct {
	Message  string
	Price    int64
	HasPrice bool
	IsFinal  bool
	IsUrgent bool
}

// ReadTurn extracts the price and marker signals from a seller message.
// Markers match as case-insensitive substrings, so "Finally" counts as final.
// A price of zero is no offer at all.
func ReadTurn(message string) Turn {
	folded := price.Fold(message)
	t := Turn{
		Message: message,
		IsFinal: strings.Contains(folded, finalityMarker),
	}
	if p, ok := price.Extract(message); ok && p > 0 {
		t.Price, t.HasPrice = p, true
	}
	for _, w := range urgencyMarkers {
		if strings.Contains(folded, w) {
			t.IsUrgent = true
			break
		}
	}
	return t
}
