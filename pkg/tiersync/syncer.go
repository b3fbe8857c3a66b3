package tiersync

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/subscription"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stacklist_backend/internal/model"
)

// Syncer applies a Decision. All writes are upserts or status-gated
// conditional updates, so a replayed webhook converges on the same rows.
type Syncer struct {
	db        *gorm.DB
	stripeKey string
}

func NewSyncer(db *gorm.DB, stripeKey string) *Syncer {
	return &Syncer{db: db, stripeKey: stripeKey}
}

// HandleEvent upserts the provider's subscription state and reconciles the
// email's token and listing tiers.
func (s *Syncer) HandleEvent(ev Event) error {
	if err := s.upsertSubscription(ev); err != nil {
		return err
	}

	var state TokenState
	var token model.UserToken
	err := s.db.Where("email = ?", ev.Email).First(&token).Error
	switch {
	case err == nil:
		state = TokenState{Exists: true, Tier: token.Tier}
	case err == gorm.ErrRecordNotFound:
		state = TokenState{}
	default:
		return fmt.Errorf("could not load token for %s: %v", ev.Email, err)
	}

	decision := Decide(state, ev)

	if decision.CancelOtherSubscriptions {
		s.cancelOtherSubscriptions(ev.CustomerID, ev.SubscriptionID)
	}

	if decision.MintToken {
		minted := model.UserToken{
			Email: ev.Email,
			Token: uuid.New().String(),
			Tier:  decision.Tier,
		}
		if err := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"tier"}),
		}).Create(&minted).Error; err != nil {
			return fmt.Errorf("could not mint token for %s: %v", ev.Email, err)
		}
	}

	if decision.UpdateTokenTier {
		if err := s.db.Model(&model.UserToken{}).
			Where("email = ?", ev.Email).
			Update("tier", decision.Tier).Error; err != nil {
			return fmt.Errorf("could not update token tier for %s: %v", ev.Email, err)
		}
	}

	if decision.UpgradeSubmissions {
		if err := s.db.Model(&model.Submission{}).
			Where("email = ?", ev.Email).
			Update("tier", decision.Tier).Error; err != nil {
			return fmt.Errorf("could not upgrade submissions for %s: %v", ev.Email, err)
		}
	}

	if decision.RevokeToken {
		if err := s.db.Model(&model.Submission{}).
			Where("email = ?", ev.Email).
			Update("tier", model.TierFree).Error; err != nil {
			return fmt.Errorf("could not revert submissions for %s: %v", ev.Email, err)
		}
		if err := s.db.Unscoped().Where("email = ?", ev.Email).
			Delete(&model.UserToken{}).Error; err != nil {
			return fmt.Errorf("could not delete token for %s: %v", ev.Email, err)
		}
	}

	return nil
}

// upsertSubscription overwrites the single stripe_subscriptions row for the
// customer. No history is kept.
func (s *Syncer) upsertSubscription(ev Event) error {
	row := model.StripeSubscription{
		CustomerID:         ev.CustomerID,
		SubscriptionID:     ev.SubscriptionID,
		PriceID:            ev.PriceID,
		Email:              ev.Email,
		CurrentPeriodStart: ev.CurrentPeriodStart,
		CurrentPeriodEnd:   ev.CurrentPeriodEnd,
		CancelAtPeriodEnd:  ev.CancelAtPeriodEnd,
		PaymentMethodBrand: ev.PaymentMethodBrand,
		PaymentMethodLast4: ev.PaymentMethodLast4,
		Status:             ev.Status,
	}

	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "customer_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"subscription_id", "price_id", "email",
			"current_period_start", "current_period_end",
			"cancel_at_period_end", "payment_method_brand",
			"payment_method_last4", "status", "updated_at",
		}),
	}).Create(&row).Error
}

// cancelOtherSubscriptions enforces the at-most-one-paid-subscription
// invariant. Failures are logged and skipped; the next webhook for the
// offending subscription converges the state anyway.
func (s *Syncer) cancelOtherSubscriptions(customerID, keepSubscriptionID string) {
	if s.stripeKey == "" {
		return
	}
	stripe.Key = s.stripeKey

	params := &stripe.SubscriptionListParams{
		Customer: stripe.String(customerID),
		Status:   stripe.String(string(stripe.SubscriptionStatusActive)),
	}
	iter := subscription.List(params)
	for iter.Next() {
		sub := iter.Subscription()
		if sub.ID == keepSubscriptionID {
			continue
		}
		if _, err := subscription.Cancel(sub.ID, nil); err != nil {
			log.Printf("Could not cancel duplicate subscription %s: %v", sub.ID, err)
		} else {
			log.Printf("Cancelled duplicate subscription %s for customer %s", sub.ID, customerID)
		}
	}
	if err := iter.Err(); err != nil {
		log.Printf("Could not list subscriptions for customer %s: %v", customerID, err)
	}
}
