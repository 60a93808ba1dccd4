package negotiation

import "github.com/rcliao/buyer-agent/internal/model"

// Reason identifies which branch of the decision tree produced a Decision.
// The Phrasebook maps each reason to its wording.
type Reason int

const (
	ReasonMissingPrice Reason = iota
	ReasonMissingPriceFinal
	ReasonGreatDeal
	ReasonConclude
	ReasonCounterWithinBudget
	ReasonUrgentCounter
	ReasonOverBudget
	ReasonSettle
)

// State is the per-session input to Decide.
type State struct {
	Budget int64
	Round  int // already incremented for the current turn
}

// Decision is the outcome of the decision tree before it is put into words.
// Price is meaningful only when Action.CarriesPrice().
type Decision struct {
	Action model.Action
	Reason Reason
	Price  int64
}

// concludeRound is the round from which an in-budget offer is accepted outright.
const concludeRound = 3

// Decide applies the buyer's decision tree. All thresholds are percentages of
// the budget computed in exact integer arithmetic with floor division; callers
// keep prices and budgets within price.Max so no product overflows.
func Decide(s State, t Turn) Decision {
	if !t.HasPrice {
		if t.IsFinal {
			return Decision{Action: model.ActionReject, Reason: ReasonMissingPriceFinal}
		}
		return Decision{Action: model.ActionAsk, Reason: ReasonMissingPrice}
	}

	p, b := t.Price, s.Budget
	switch {
	case 100*p <= 85*b:
		return Decision{Action: model.ActionAccept, Reason: ReasonGreatDeal, Price: p}

	case p <= b:
		if s.Round >= concludeRound || t.IsFinal {
			return Decision{Action: model.ActionAccept, Reason: ReasonConclude, Price: p}
		}
		return Decision{
			Action: model.ActionCounter,
			Reason: ReasonCounterWithinBudget,
			Price:  max(percent(p, 93), percent(b, 95)),
		}

	case t.IsUrgent && 110*b >= 100*p:
		return Decision{Action: model.ActionCounter, Reason: ReasonUrgentCounter, Price: percent(b, 98)}
	}

	mid := midpoint(p, b)
	if 100*mid >= 110*b {
		return Decision{Action: model.ActionReject, Reason: ReasonOverBudget}
	}
	return Decision{Action: model.ActionCounter, Reason: ReasonSettle, Price: mid}
}

// percent returns floor(v * pct / 100) for non-negative v.
func percent(v, pct int64) int64 {
	return v * pct / 100
}

// midpoint returns floor((b + min(p, 1.2b)) / 2), working in hundredths so the
// 1.2b cap stays exact.
func midpoint(p, b int64) int64 {
	return (100*b + min(100*p, 120*b)) / 200
}
