package tiersync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stacklist_backend/internal/model"
)

func TestTierFromPrice(t *testing.T) {
	assert.Equal(t, model.TierPremium, TierFromPrice("price_premium_monthly"))
	assert.Equal(t, model.TierPremium, TierFromPrice("price_1ABC_PREMIUM"))
	assert.Equal(t, model.TierFeatured, TierFromPrice("price_featured_monthly"))
	assert.Equal(t, model.TierFeatured, TierFromPrice("price_1XYZ"))
}

func TestDecideFirstActivationMintsTokenAndUpgrades(t *testing.T) {
	d := Decide(TokenState{}, Event{Status: "active", PriceID: "price_featured"})

	assert.True(t, d.MintToken)
	assert.Equal(t, model.TierFeatured, d.Tier)
	assert.True(t, d.UpgradeSubmissions)
	assert.False(t, d.CancelOtherSubscriptions)
	assert.False(t, d.RevokeToken)
}

func TestDecideTrialingBehavesLikeActive(t *testing.T) {
	d := Decide(TokenState{}, Event{Status: "trialing", PriceID: "price_premium"})

	assert.True(t, d.MintToken)
	assert.Equal(t, model.TierPremium, d.Tier)
	assert.True(t, d.UpgradeSubmissions)
}

func TestDecideUpgradeWhileActive(t *testing.T) {
	state := TokenState{Exists: true, Tier: model.TierFeatured}
	d := Decide(state, Event{Status: "active", PriceID: "price_premium"})

	assert.False(t, d.MintToken)
	assert.True(t, d.UpdateTokenTier)
	assert.Equal(t, model.TierPremium, d.Tier)
	assert.True(t, d.UpgradeSubmissions)
	assert.True(t, d.CancelOtherSubscriptions)
}

// A downgrade updates the stored tier but leaves listings where they are.
func TestDecideDowngradeDoesNotTouchSubmissions(t *testing.T) {
	state := TokenState{Exists: true, Tier: model.TierPremium}
	d := Decide(state, Event{Status: "active", PriceID: "price_featured"})

	assert.True(t, d.UpdateTokenTier)
	assert.Equal(t, model.TierFeatured, d.Tier)
	assert.False(t, d.UpgradeSubmissions)
	assert.True(t, d.CancelOtherSubscriptions)
}

func TestDecideSameTierIsANoop(t *testing.T) {
	state := TokenState{Exists: true, Tier: model.TierPremium}
	d := Decide(state, Event{Status: "active", PriceID: "price_premium_yearly"})

	assert.False(t, d.MintToken)
	assert.False(t, d.UpdateTokenTier)
	assert.False(t, d.UpgradeSubmissions)
	assert.False(t, d.CancelOtherSubscriptions)
	assert.False(t, d.RevokeToken)
}

func TestDecideTerminalStatusesRevoke(t *testing.T) {
	for _, status := range []string{"canceled", "past_due", "unpaid"} {
		d := Decide(TokenState{Exists: true, Tier: model.TierPremium}, Event{Status: status})
		assert.True(t, d.RevokeToken, "status %s must revoke", status)
		assert.False(t, d.MintToken)
		assert.False(t, d.UpgradeSubmissions)
	}
}

func TestDecideUnknownStatusDoesNothing(t *testing.T) {
	d := Decide(TokenState{Exists: true, Tier: model.TierFeatured}, Event{Status: "incomplete"})
	assert.Equal(t, Decision{}, d)
}

// stateAfter threads a Decision back into TokenState the way the applier
// does, so sequences of events can be replayed in-memory.
func stateAfter(state TokenState, d Decision) TokenState {
	switch {
	case d.RevokeToken:
		return TokenState{}
	case d.MintToken:
		return TokenState{Exists: true, Tier: d.Tier}
	case d.UpdateTokenTier:
		state.Tier = d.Tier
		return state
	default:
		return state
	}
}

// active(featured) -> active(premium) -> canceled: listings end free and
// the token is gone.
func TestSequenceUpgradeThenCancel(t *testing.T) {
	state := TokenState{}
	listingTier := model.TierFree

	d := Decide(state, Event{Status: "active", PriceID: "price_featured"})
	require.True(t, d.MintToken)
	if d.UpgradeSubmissions {
		listingTier = d.Tier
	}
	state = stateAfter(state, d)
	assert.Equal(t, model.TierFeatured, listingTier)

	d = Decide(state, Event{Status: "active", PriceID: "price_premium"})
	require.True(t, d.UpdateTokenTier)
	if d.UpgradeSubmissions {
		listingTier = d.Tier
	}
	state = stateAfter(state, d)
	assert.Equal(t, model.TierPremium, listingTier)

	d = Decide(state, Event{Status: "canceled"})
	require.True(t, d.RevokeToken)
	listingTier = model.TierFree
	state = stateAfter(state, d)

	assert.False(t, state.Exists, "token must be deleted")
	assert.Equal(t, model.TierFree, listingTier)
}

// premium -> featured while active: token tier moves, listings keep premium.
func TestSequenceDowngradeKeepsListingTier(t *testing.T) {
	state := TokenState{}
	listingTier := model.TierFree

	d := Decide(state, Event{Status: "active", PriceID: "price_premium"})
	if d.UpgradeSubmissions {
		listingTier = d.Tier
	}
	state = stateAfter(state, d)

	d = Decide(state, Event{Status: "active", PriceID: "price_featured"})
	if d.UpgradeSubmissions {
		listingTier = d.Tier
	}
	state = stateAfter(state, d)

	assert.Equal(t, model.TierFeatured, state.Tier, "stored token tier follows the plan")
	assert.Equal(t, model.TierPremium, listingTier, "listings are not downgraded automatically")
}

// Replaying the same event against the resulting state converges.
func TestDecideIdempotentOnRedelivery(t *testing.T) {
	ev := Event{Status: "active", PriceID: "price_premium"}

	first := Decide(TokenState{}, ev)
	state := stateAfter(TokenState{}, first)

	second := Decide(state, ev)
	assert.False(t, second.MintToken)
	assert.False(t, second.UpdateTokenTier)
	assert.False(t, second.UpgradeSubmissions)
	assert.Equal(t, state, stateAfter(state, second))
}
