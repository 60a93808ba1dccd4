package negotiation

import (
	"fmt"

	"github.com/rcliao/buyer-agent/internal/model"
)

// Trace is the append-only record of a session's messages.
type Trace struct {
	entries []model.Entry
}

func (t *Trace) append(e model.Entry) {
	e.Seq = len(t.entries)
	t.entries = append(t.entries, e)
}

// Len returns the number of entries.
func (t *Trace) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the trace in append order.
func (t *Trace) Entries() []model.Entry {
	out := make([]model.Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Lines renders the trace as readable text, one line per entry.
func (t *Trace) Lines() []string {
	return FormatEntries(t.entries)
}

// FormatEntries renders entries as "Seller (Round 2): ..." and "Buyer: ..." lines.
func FormatEntries(entries []model.Entry) []string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		switch e.Role {
		case model.RoleSeller:
			lines = append(lines, fmt.Sprintf("Seller (Round %d): %s", e.Round, e.Text))
		default:
			lines = append(lines, fmt.Sprintf("Buyer: %s", e.Text))
		}
	}
	return lines
}
