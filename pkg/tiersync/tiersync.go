package tiersync

import (
	"strings"

	"stacklist_backend/internal/model"
)

// Event is the slice of a payment-provider webhook the synchronizer acts
// on.
type Event struct {
	CustomerID         string
	Email              string
	SubscriptionID     string
	Status             string
	PriceID            string
	CurrentPeriodStart int64
	CurrentPeriodEnd   int64
	CancelAtPeriodEnd  bool
	PaymentMethodBrand string
	PaymentMethodLast4 string
}

// TokenState is the current capability-token row for the event's email, or
// absent.
type TokenState struct {
	Exists bool
	Tier   model.Tier
}

// Decision is what must change. Decide is pure so replayed webhook
// deliveries always produce the same Decision for the same state.
type Decision struct {
	// MintToken creates a token row with Tier for the email.
	MintToken bool
	// UpdateTokenTier rewrites an existing token row to Tier.
	UpdateTokenTier bool
	// Tier the token should end up with after Mint/Update.
	Tier model.Tier
	// UpgradeSubmissions moves all of the email's listings to Tier.
	// Downgrades while active intentionally leave listings untouched.
	UpgradeSubmissions bool
	// CancelOtherSubscriptions enforces at most one paid subscription per
	// customer.
	CancelOtherSubscriptions bool
	// RevokeToken deletes the token row and reverts the email's listings
	// to free.
	RevokeToken bool
}

func tierRank(t model.Tier) int {
	switch t {
	case model.TierPremium:
		return 2
	case model.TierFeatured:
		return 1
	default:
		return 0
	}
}

// TierFromPrice maps a purchased price identifier to a listing tier.
func TierFromPrice(priceID string) model.Tier {
	if strings.Contains(strings.ToLower(priceID), "premium") {
		return model.TierPremium
	}
	return model.TierFeatured
}

func isActive(status string) bool {
	return status == "active" || status == "trialing"
}

func isTerminal(status string) bool {
	return status == "canceled" || status == "past_due" || status == "unpaid"
}

// Decide maps the current token state and an incoming event to the set of
// mutations to apply. It performs no I/O.
func Decide(state TokenState, ev Event) Decision {
	switch {
	case isActive(ev.Status):
		tier := TierFromPrice(ev.PriceID)

		if !state.Exists {
			return Decision{
				MintToken:          true,
				Tier:               tier,
				UpgradeSubmissions: true,
			}
		}

		if state.Tier == tier {
			return Decision{Tier: tier}
		}

		return Decision{
			UpdateTokenTier:          true,
			Tier:                     tier,
			UpgradeSubmissions:       tierRank(tier) > tierRank(state.Tier),
			CancelOtherSubscriptions: true,
		}

	case isTerminal(ev.Status):
		return Decision{RevokeToken: true}

	default:
		return Decision{}
	}
}
