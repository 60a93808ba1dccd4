package negotiation

import (
	"fmt"
	"math/rand/v2"

	"github.com/rcliao/buyer-agent/internal/model"
)

// Chooser picks an index in [0, n). *rand.Rand from math/rand/v2 satisfies it.
type Chooser interface {
	IntN(n int) int
}

// FixedChooser always picks the same index (modulo n).
type FixedChooser int

func (f FixedChooser) IntN(n int) int {
	return int(f) % n
}

// randomChooser uses the goroutine-safe global source so one instance can
// serve every session.
type randomChooser struct{}

func (randomChooser) IntN(n int) int {
	return rand.IntN(n)
}

// CounterTemplates are the interchangeable wordings for an in-budget counter.
// Each takes the counter price.
var CounterTemplates = []string{
	"My research suggests ₹%d would be a fair price. What do you think?",
	"I can do ₹%d based on current market rates.",
	"Would ₹%d work for you? That aligns better with my budget.",
	"Given the specs, I believe ₹%d is reasonable. Your thoughts?",
}

// Phrasebook renders decisions as buyer messages.
type Phrasebook struct {
	chooser Chooser
}

// NewPhrasebook returns a Phrasebook; a nil chooser picks templates at random.
func NewPhrasebook(c Chooser) *Phrasebook {
	if c == nil {
		c = randomChooser{}
	}
	return &Phrasebook{chooser: c}
}

// Render returns the message for d. budget is quoted by the settle counter.
func (pb *Phrasebook) Render(d Decision, budget int64) string {
	switch d.Reason {
	case ReasonMissingPriceFinal:
		return "Without a clear price, I'll need to decline. Thank you."
	case ReasonMissingPrice:
		return "Could you please specify your asking price for the product?"
	case ReasonGreatDeal:
		return fmt.Sprintf("Excellent! I accept ₹%d. Let's proceed with the paperwork.", d.Price)
	case ReasonConclude:
		return fmt.Sprintf("I'll accept your ₹%d offer to conclude this deal.", d.Price)
	case ReasonCounterWithinBudget:
		tmpl := CounterTemplates[pb.chooser.IntN(len(CounterTemplates))]
		return fmt.Sprintf(tmpl, d.Price)
	case ReasonUrgentCounter:
		return fmt.Sprintf("I understand the urgency. My best offer is ₹%d.", d.Price)
	case ReasonOverBudget:
		return "This exceeds my budget constraints. Thank you for your time."
	case ReasonSettle:
		return fmt.Sprintf("My maximum is ₹%d. Could we settle at ₹%d?", budget, d.Price)
	}
	return ""
}

// Result packages a decision and its wording. OfferPrice is set only for
// actions that carry a price.
func (pb *Phrasebook) Result(d Decision, budget int64) model.Result {
	r := model.Result{Action: d.Action, Message: pb.Render(d, budget)}
	if d.Action.CarriesPrice() {
		p := d.Price
		r.OfferPrice = &p
	}
	return r
}
