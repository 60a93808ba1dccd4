// Package negotiation implements the buyer's per-session negotiation policy.
//
// A Policy owns a product, a budget, a round counter and a trace. Each call to
// Negotiate advances the round, reads the seller message, runs Decide and
// renders the reply. A Policy is not safe for concurrent use; callers
// serialise calls per session.
package negotiation

import (
	"errors"
	"fmt"

	"github.com/rcliao/buyer-agent/internal/model"
	"github.com/rcliao/buyer-agent/internal/price"
)

// ErrInvalidBudget is returned for budgets outside (0, price.Max].
var ErrInvalidBudget = errors.New("budget must be positive")

// ValidateBudget checks a budget before a Policy is built for it.
func ValidateBudget(budget int64) error {
	if budget <= 0 {
		return ErrInvalidBudget
	}
	if budget > price.Max {
		return fmt.Errorf("%w and at most %d", ErrInvalidBudget, price.Max)
	}
	return nil
}

// Snapshot is the serialisable state of a Policy.
type Snapshot struct {
	Product string        `json:"product"`
	Budget  int64         `json:"budget"`
	Rounds  int           `json:"rounds"`
	Trace   []model.Entry `json:"trace"`
}

// Option configures a Policy.
type Option func(*Policy)

// WithChooser sets how counter templates are picked.
func WithChooser(c Chooser) Option {
	return func(p *Policy) { p.phrases = NewPhrasebook(c) }
}

// WithPhrasebook shares an existing Phrasebook.
func WithPhrasebook(pb *Phrasebook) Option {
	return func(p *Policy) { p.phrases = pb }
}

// Policy is the buyer agent for one session.
type Policy struct {
	product string
	budget  int64
	rounds  int
	trace   Trace
	phrases *Phrasebook
}

// New returns a Policy for product with the given budget.
func New(product string, budget int64, opts ...Option) (*Policy, error) {
	if err := ValidateBudget(budget); err != nil {
		return nil, err
	}
	p := &Policy{product: product, budget: budget}
	for _, o := range opts {
		o(p)
	}
	if p.phrases == nil {
		p.phrases = NewPhrasebook(nil)
	}
	return p, nil
}

// Restore rebuilds a Policy from a snapshot.
func Restore(s Snapshot, opts ...Option) (*Policy, error) {
	p, err := New(s.Product, s.Budget, opts...)
	if err != nil {
		return nil, err
	}
	if s.Rounds < 0 {
		return nil, fmt.Errorf("invalid round count %d", s.Rounds)
	}
	p.rounds = s.Rounds
	for _, e := range s.Trace {
		p.trace.append(e)
	}
	return p, nil
}

func (p *Policy) Product() string { return p.product }
func (p *Policy) Budget() int64   { return p.budget }

// Rounds returns how many times Negotiate has been called.
func (p *Policy) Rounds() int { return p.rounds }

// Trace returns the session's message trace.
func (p *Policy) Trace() *Trace { return &p.trace }

// Snapshot captures the current state.
func (p *Policy) Snapshot() Snapshot {
	return Snapshot{
		Product: p.product,
		Budget:  p.budget,
		Rounds:  p.rounds,
		Trace:   p.trace.Entries(),
	}
}

// Negotiate answers one seller message. Every input, including empty text,
// produces a result.
func (p *Policy) Negotiate(sellerMessage string) model.Result {
	p.rounds++
	p.trace.append(model.Entry{Round: p.rounds, Role: model.RoleSeller, Text: sellerMessage})

	d := Decide(State{Budget: p.budget, Round: p.rounds}, ReadTurn(sellerMessage))
	res := p.phrases.Result(d, p.budget)

	p.trace.append(model.Entry{
		Round:      p.rounds,
		Role:       model.RoleBuyer,
		Text:       res.Message,
		Action:     res.Action,
		OfferPrice: res.OfferPrice,
	})
	return res
}
