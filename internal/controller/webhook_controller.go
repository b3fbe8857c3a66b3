package controller

import (
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/customer"
	"github.com/stripe/stripe-go/v74/webhook"
	"gorm.io/gorm/clause"

	"stacklist_backend/internal/model"
	"stacklist_backend/pkg/database"
	"stacklist_backend/pkg/tiersync"
)

// HandleStripeWebhook verifies the signature and converges tier state.
// Processing is idempotent, so Stripe's redeliveries are harmless.
func HandleStripeWebhook(c *fiber.Ctx) error {
	payload := c.Body()
	signatureHeader := c.Get("Stripe-Signature")

	event, err := webhook.ConstructEvent(payload, signatureHeader, cfg.Stripe.WebhookSecret)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook signature",
		})
	}

	log.Printf("Processing Stripe webhook event: %s", event.Type)

	switch event.Type {
	case "customer.subscription.created",
		"customer.subscription.updated",
		"customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Could not parse subscription payload",
			})
		}

		ev := subscriptionEvent(&sub)
		if ev.Email == "" {
			log.Printf("No email resolved for customer %s, skipping tier sync", ev.CustomerID)
			return c.SendStatus(fiber.StatusOK)
		}

		if err := syncer.HandleEvent(ev); err != nil {
			log.Printf("Tier sync failed for customer %s: %v", ev.CustomerID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not process subscription event",
			})
		}

	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Could not parse checkout payload",
			})
		}
		recordOrder(&session)
	}

	return c.SendStatus(fiber.StatusOK)
}

// subscriptionEvent flattens the provider payload into the synchronizer's
// event shape, resolving the customer's email as needed.
func subscriptionEvent(sub *stripe.Subscription) tiersync.Event {
	ev := tiersync.Event{
		SubscriptionID:     sub.ID,
		Status:             string(sub.Status),
		CurrentPeriodStart: sub.CurrentPeriodStart,
		CurrentPeriodEnd:   sub.CurrentPeriodEnd,
		CancelAtPeriodEnd:  sub.CancelAtPeriodEnd,
	}

	if sub.Customer != nil {
		ev.CustomerID = sub.Customer.ID
		ev.Email = sub.Customer.Email
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		ev.PriceID = sub.Items.Data[0].Price.ID
	}
	if pm := sub.DefaultPaymentMethod; pm != nil && pm.Card != nil {
		ev.PaymentMethodBrand = string(pm.Card.Brand)
		ev.PaymentMethodLast4 = pm.Card.Last4
	}

	if ev.Email == "" && ev.CustomerID != "" {
		ev.Email = resolveCustomerEmail(ev.CustomerID)
	}

	return ev
}

// Webhook payloads carry the customer as a bare id; fetch the full record
// for the email, falling back to the last synced row.
func resolveCustomerEmail(customerID string) string {
	if cfg.Stripe.SecretKey != "" {
		stripe.Key = cfg.Stripe.SecretKey
		if cus, err := customer.Get(customerID, nil); err == nil && cus.Email != "" {
			return cus.Email
		} else if err != nil {
			log.Printf("Could not fetch customer %s: %v", customerID, err)
		}
	}

	var row model.StripeSubscription
	if err := database.GetDB().Where("customer_id = ?", customerID).First(&row).Error; err == nil {
		return row.Email
	}
	return ""
}

func recordOrder(session *stripe.CheckoutSession) {
	order := model.StripeOrder{
		CheckoutSessionID: session.ID,
		AmountSubtotal:    session.AmountSubtotal,
		AmountTotal:       session.AmountTotal,
		Currency:          string(session.Currency),
		PaymentStatus:     string(session.PaymentStatus),
	}
	if session.PaymentIntent != nil {
		order.PaymentIntentID = session.PaymentIntent.ID
	}
	if session.Customer != nil {
		order.CustomerID = session.Customer.ID
	}

	err := database.GetDB().Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "checkout_session_id"}},
		DoNothing: true,
	}).Create(&order).Error
	if err != nil {
		log.Printf("Could not record order %s: %v", session.ID, err)
	}
}
