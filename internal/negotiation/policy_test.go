package negotiation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/buyer-agent/internal/model"
)

func newTestPolicy(t *testing.T, budget int64) *Policy {
	t.Helper()
	p, err := New("laptop", budget, WithChooser(FixedChooser(0)))
	require.NoError(t, err)
	return p
}

func offer(t *testing.T, r model.Result) int64 {
	t.Helper()
	require.NotNil(t, r.OfferPrice, "expected an offer price for %s", r.Action)
	return *r.OfferPrice
}

func TestNew_RejectsInvalidBudget(t *testing.T) {
	for _, b := range []int64{0, -1, 1_000_000_000_000_001} {
		_, err := New("laptop", b)
		assert.ErrorIs(t, err, ErrInvalidBudget, "budget %d", b)
	}
}

func TestNegotiate_NoPrice(t *testing.T) {
	p := newTestPolicy(t, 1000)

	r := p.Negotiate("Hello, interested in the laptop?")
	assert.Equal(t, model.ActionAsk, r.Action)
	assert.Equal(t, "Could you please specify your asking price for the product?", r.Message)
	assert.Nil(t, r.OfferPrice)

	r = p.Negotiate("This is my FINAL word.")
	assert.Equal(t, model.ActionReject, r.Action)
	assert.Equal(t, "Without a clear price, I'll need to decline. Thank you.", r.Message)
	assert.Nil(t, r.OfferPrice)
}

func TestNegotiate_ZeroPriceIsNoOffer(t *testing.T) {
	p := newTestPolicy(t, 1000)

	r := p.Negotiate("take it for 0")
	assert.Equal(t, model.ActionAsk, r.Action)
	assert.Nil(t, r.OfferPrice)

	r = p.Negotiate("price is 0 final")
	assert.Equal(t, model.ActionReject, r.Action)
	assert.Nil(t, r.OfferPrice)
}

func TestNegotiate_CompatibilityDigitsAreNotPrices(t *testing.T) {
	p := newTestPolicy(t, 1000)

	r := p.Negotiate("x²=900")
	assert.Equal(t, model.ActionCounter, r.Action)
	assert.Equal(t, int64(950), offer(t, r))

	r = p.Negotiate("₹५०० only")
	assert.Equal(t, model.ActionAccept, r.Action)
	assert.Equal(t, int64(500), offer(t, r))
}

func TestNegotiate_EmptyMessageAsks(t *testing.T) {
	p := newTestPolicy(t, 1000)
	r := p.Negotiate("")
	assert.Equal(t, model.ActionAsk, r.Action)
	assert.Equal(t, 1, p.Rounds())
}

func TestNegotiate_GreatDealAccepted(t *testing.T) {
	p := newTestPolicy(t, 1000)
	r := p.Negotiate("850 and it's yours")
	assert.Equal(t, model.ActionAccept, r.Action)
	assert.Equal(t, int64(850), offer(t, r))
	assert.Equal(t, "Excellent! I accept ₹850. Let's proceed with the paperwork.", r.Message)
}

func TestNegotiate_MidRangeCounter(t *testing.T) {
	tests := []struct {
		price, budget, want int64
	}{
		{900, 1000, 950},  // 837 vs 950
		{1000, 1000, 950}, // 930 vs 950
		{999, 1000, 950},
		{86000, 100000, 95000},
		{97, 100, 95}, // 90 vs 95
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_of_%d", tt.price, tt.budget), func(t *testing.T) {
			p := newTestPolicy(t, tt.budget)
			r := p.Negotiate(fmt.Sprintf("I can let it go for %d", tt.price))
			assert.Equal(t, model.ActionCounter, r.Action)
			assert.Equal(t, tt.want, offer(t, r))
			assert.Equal(t, fmt.Sprintf(CounterTemplates[0], tt.want), r.Message)
		})
	}
}

func TestNegotiate_CounterTemplateFollowsChooser(t *testing.T) {
	for i := range CounterTemplates {
		p, err := New("laptop", 1000, WithChooser(FixedChooser(i)))
		require.NoError(t, err)
		r := p.Negotiate("900")
		assert.Equal(t, fmt.Sprintf(CounterTemplates[i], 950), r.Message)
	}
}

func TestNegotiate_RandomTemplateMentionsCounter(t *testing.T) {
	p, err := New("laptop", 1000)
	require.NoError(t, err)
	r := p.Negotiate("900")

	var rendered []string
	for _, tmpl := range CounterTemplates {
		rendered = append(rendered, fmt.Sprintf(tmpl, 950))
	}
	assert.Contains(t, rendered, r.Message)
	assert.Contains(t, r.Message, "₹950")
}

func TestNegotiate_ThirdRoundAccepts(t *testing.T) {
	p := newTestPolicy(t, 1000)

	assert.Equal(t, model.ActionCounter, p.Negotiate("900").Action)
	assert.Equal(t, model.ActionCounter, p.Negotiate("900").Action)

	r := p.Negotiate("900")
	assert.Equal(t, model.ActionAccept, r.Action)
	assert.Equal(t, int64(900), offer(t, r))
	assert.Equal(t, "I'll accept your ₹900 offer to conclude this deal.", r.Message)
	assert.Equal(t, 3, p.Rounds())
}

func TestNegotiate_FinalOfferWithinBudget(t *testing.T) {
	p := newTestPolicy(t, 1000)
	r := p.Negotiate("Final offer: 950")
	assert.Equal(t, model.ActionAccept, r.Action)
	assert.Equal(t, int64(950), offer(t, r))
}

func TestNegotiate_UrgentSlightlyOverBudget(t *testing.T) {
	p := newTestPolicy(t, 1000)
	r := p.Negotiate("Need to sell quick, 1,080")
	assert.Equal(t, model.ActionCounter, r.Action)
	assert.Equal(t, int64(980), offer(t, r))
	assert.Equal(t, "I understand the urgency. My best offer is ₹980.", r.Message)
}

func TestNegotiate_UrgentBoundaryIsInclusive(t *testing.T) {
	p := newTestPolicy(t, 1000)
	r := p.Negotiate("1100, need it immediately")
	assert.Equal(t, model.ActionCounter, r.Action)
	assert.Equal(t, int64(980), offer(t, r))
}

func TestNegotiate_UrgentTooFarOverRejects(t *testing.T) {
	p := newTestPolicy(t, 1000)
	r := p.Negotiate("I can offer rs 1,200, need it soon")
	assert.Equal(t, model.ActionReject, r.Action)
	assert.Equal(t, "This exceeds my budget constraints. Thank you for your time.", r.Message)
	assert.Nil(t, r.OfferPrice)
}

func TestNegotiate_OverBudgetSettleCounter(t *testing.T) {
	p := newTestPolicy(t, 1000)
	r := p.Negotiate("Best I can do is 1,150")
	// midpoint = (1000 + 1150) / 2 = 1075 < 1100
	assert.Equal(t, model.ActionCounter, r.Action)
	assert.Equal(t, int64(1075), offer(t, r))
	assert.Equal(t, "My maximum is ₹1000. Could we settle at ₹1075?", r.Message)
}

func TestNegotiate_FarOverBudgetRejects(t *testing.T) {
	p := newTestPolicy(t, 1000)
	r := p.Negotiate("5000 final")
	// min(5000, 1200) caps the midpoint at 1100, which is not below 1.1 * budget
	assert.Equal(t, model.ActionReject, r.Action)
	assert.Nil(t, r.OfferPrice)
}

func TestNegotiate_TraceRecordsBothSides(t *testing.T) {
	p := newTestPolicy(t, 1000)
	p.Negotiate("hi")
	p.Negotiate("850")

	entries := p.Trace().Entries()
	require.Len(t, entries, 4)
	assert.Equal(t, model.RoleSeller, entries[0].Role)
	assert.Equal(t, "hi", entries[0].Text)
	assert.Equal(t, 1, entries[0].Round)
	assert.Equal(t, model.RoleBuyer, entries[1].Role)
	assert.Equal(t, model.ActionAsk, entries[1].Action)
	assert.Equal(t, 2, entries[3].Round)
	assert.Equal(t, model.ActionAccept, entries[3].Action)
	for i, e := range entries {
		assert.Equal(t, i, e.Seq)
	}

	assert.Equal(t, []string{
		"Seller (Round 1): hi",
		"Buyer: Could you please specify your asking price for the product?",
		"Seller (Round 2): 850",
		"Buyer: Excellent! I accept ₹850. Let's proceed with the paperwork.",
	}, p.Trace().Lines())
}

func TestNegotiate_ContinuesAfterReject(t *testing.T) {
	p := newTestPolicy(t, 1000)
	assert.Equal(t, model.ActionReject, p.Negotiate("2000").Action)
	r := p.Negotiate("ok, 800 then")
	assert.Equal(t, model.ActionAccept, r.Action)
	assert.Equal(t, 2, p.Rounds())
}

func TestSnapshotRestore(t *testing.T) {
	p := newTestPolicy(t, 1000)
	p.Negotiate("900")
	p.Negotiate("900")

	restored, err := Restore(p.Snapshot(), WithChooser(FixedChooser(0)))
	require.NoError(t, err)
	assert.Equal(t, 2, restored.Rounds())
	assert.Equal(t, 4, restored.Trace().Len())
	assert.Equal(t, "laptop", restored.Product())
	assert.Equal(t, int64(1000), restored.Budget())

	// Round 3 on the restored policy concludes the deal.
	assert.Equal(t, model.ActionAccept, restored.Negotiate("900").Action)
}

func TestRestore_RejectsBadSnapshot(t *testing.T) {
	_, err := Restore(Snapshot{Product: "x", Budget: 0})
	assert.ErrorIs(t, err, ErrInvalidBudget)

	_, err = Restore(Snapshot{Product: "x", Budget: 10, Rounds: -1})
	assert.Error(t, err)
}

func TestReadTurn(t *testing.T) {
	tests := []struct {
		msg  string
		want Turn
	}{
		{"Final offer: 950", Turn{Price: 950, HasPrice: true, IsFinal: true}},
		{"finally, 700", Turn{Price: 700, HasPrice: true, IsFinal: true}},
		{"Need it SOON", Turn{IsUrgent: true}},
		{"a quick sale at INR 2,000", Turn{Price: 2000, HasPrice: true, IsUrgent: true}},
		{"IMMEDIATE final", Turn{IsFinal: true, IsUrgent: true}},
		{"just browsing", Turn{}},
		{"price is 0 final", Turn{IsFinal: true}},
		{"₹५०० soon", Turn{Price: 500, HasPrice: true, IsUrgent: true}},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			tt.want.Message = tt.msg
			assert.Equal(t, tt.want, ReadTurn(tt.msg))
		})
	}
}
