package model

import "gorm.io/gorm"

// StripeSubscription mirrors the provider's view of a customer's
// subscription. One row per customer, overwritten on every webhook event.
type StripeSubscription struct {
	gorm.Model
	CustomerID         string `json:"customer_id" gorm:"uniqueIndex;not null"`
	SubscriptionID     string `json:"subscription_id"`
	PriceID            string `json:"price_id"`
	Email              string `json:"email" gorm:"index"`
	CurrentPeriodStart int64  `json:"current_period_start"`
	CurrentPeriodEnd   int64  `json:"current_period_end"`
	CancelAtPeriodEnd  bool   `json:"cancel_at_period_end"`
	PaymentMethodBrand string `json:"payment_method_brand"`
	PaymentMethodLast4 string `json:"payment_method_last4"`
	Status             string `json:"status" gorm:"not null;default:'not_started'"`
}

func (StripeSubscription) TableName() string {
	return "stripe_subscriptions"
}

// StripeOrder records a completed checkout session.
type StripeOrder struct {
	gorm.Model
	CheckoutSessionID string `json:"checkout_session_id" gorm:"uniqueIndex;not null"`
	PaymentIntentID   string `json:"payment_intent_id"`
	CustomerID        string `json:"customer_id" gorm:"index"`
	AmountSubtotal    int64  `json:"amount_subtotal"`
	AmountTotal       int64  `json:"amount_total"`
	Currency          string `json:"currency"`
	PaymentStatus     string `json:"payment_status"`
	OrderStatus       string `json:"order_status" gorm:"default:'completed'"`
}

func (StripeOrder) TableName() string {
	return "stripe_orders"
}
