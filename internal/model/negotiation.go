// Package model defines the core negotiation data types.
package model

// Action is the buyer's decision for a round.
type Action string

const (
	ActionAccept  Action = "ACCEPT"
	ActionCounter Action = "COUNTER"
	ActionAsk     Action = "ASK"
	ActionReject  Action = "REJECT"
)

// ValidActions are the allowed buyer actions.
var ValidActions = map[Action]bool{
	ActionAccept:  true,
	ActionCounter: true,
	ActionAsk:     true,
	ActionReject:  true,
}

// CarriesPrice reports whether results with this action include an offer price.
func (a Action) CarriesPrice() bool {
	return a == ActionAccept || a == ActionCounter
}

// Result is the buyer's reply to one seller message.
type Result struct {
	Action     Action `json:"action"`
	Message    string `json:"message"`
	OfferPrice *int64 `json:"offer_price"`
}

// Role identifies who authored a trace entry.
type Role string

const (
	RoleSeller Role = "seller"
	RoleBuyer  Role = "buyer"
)

// Entry is one record in a session's negotiation trace.
type Entry struct {
	Seq        int    `json:"seq"`
	Round      int    `json:"round"`
	Role       Role   `json:"role"`
	Text       string `json:"text"`
	Action     Action `json:"action,omitempty"`
	OfferPrice *int64 `json:"offer_price,omitempty"`
}
