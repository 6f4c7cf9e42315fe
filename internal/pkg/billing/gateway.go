package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v79"
	checkoutsession "github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/customer"
	"github.com/stripe/stripe-go/v79/subscription"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/danieljstvincent/topthreeclub/app/models"
	"github.com/danieljstvincent/topthreeclub/internal/pkg/env"
)

// Gateway is the narrow payment-provider contract the reconciler and the
// billing controller depend on. Signature verification lives here; the
// service never sees an unverified payload.
type Gateway interface {
	CreateCustomer(ctx context.Context, userID uint, email, name string) (string, error)
	CreateCheckoutSession(ctx context.Context, customerID, interval, successURL, cancelURL string) (string, error)
	CancelSubscription(ctx context.Context, subscriptionID string) error
	RetrieveSubscription(ctx context.Context, subscriptionID string) (*SubscriptionInfo, error)
	ConstructEvent(payload []byte, signatureHeader string) (Event, error)
}

type stripeGateway struct {
	webhookSecret  string
	monthlyPriceID string
	yearlyPriceID  string
}

// NewStripeGatewayFromEnv configures the global Stripe client from the
// environment and returns a Gateway backed by it.
func NewStripeGatewayFromEnv() Gateway {
	stripe.Key = env.GetEnv("STRIPE_SECRET_KEY", "")
	return &stripeGateway{
		webhookSecret:  env.GetEnv("STRIPE_WEBHOOK_SECRET", ""),
		monthlyPriceID: env.GetEnv("STRIPE_PREMIUM_MONTHLY_PRICE_ID", ""),
		yearlyPriceID:  env.GetEnv("STRIPE_PREMIUM_YEARLY_PRICE_ID", ""),
	}
}

func (g *stripeGateway) CreateCustomer(ctx context.Context, userID uint, email, name string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	}
	params.Context = ctx
	params.AddMetadata("user_id", strconv.FormatUint(uint64(userID), 10))

	cust, err := customer.New(params)
	if err != nil {
		return "", err
	}
	return cust.ID, nil
}

func (g *stripeGateway) CreateCheckoutSession(ctx context.Context, customerID, interval, successURL, cancelURL string) (string, error) {
	priceID := g.monthlyPriceID
	if interval == models.BillingIntervalYearly {
		priceID = g.yearlyPriceID
	}
	if priceID == "" {
		return "", fmt.Errorf("no price configured for interval %q", interval)
	}

	params := &stripe.CheckoutSessionParams{
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer: stripe.String(customerID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
	}
	params.Context = ctx
	// Retried calls must not open a second checkout for the same click.
	params.SetIdempotencyKey(uuid.NewString())

	sess, err := checkoutsession.New(params)
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}

func (g *stripeGateway) CancelSubscription(ctx context.Context, subscriptionID string) error {
	params := &stripe.SubscriptionCancelParams{}
	params.Context = ctx
	_, err := subscription.Cancel(subscriptionID, params)
	return err
}

func (g *stripeGateway) RetrieveSubscription(ctx context.Context, subscriptionID string) (*SubscriptionInfo, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx
	sub, err := subscription.Get(subscriptionID, params)
	if err != nil {
		return nil, err
	}

	info := &SubscriptionInfo{
		ID:                 sub.ID,
		Status:             string(sub.Status),
		CurrentPeriodStart: time.Unix(sub.CurrentPeriodStart, 0),
		CurrentPeriodEnd:   time.Unix(sub.CurrentPeriodEnd, 0),
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 {
		if price := sub.Items.Data[0].Price; price != nil && price.Recurring != nil {
			info.Interval = string(price.Recurring.Interval)
		}
	}
	return info, nil
}

// ConstructEvent verifies the webhook signature and normalizes the event
// into the provider-agnostic shape the reconciler consumes.
func (g *stripeGateway) ConstructEvent(payload []byte, signatureHeader string) (Event, error) {
	stripeEvent, err := webhook.ConstructEventWithOptions(
		payload,
		signatureHeader,
		g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	event := Event{ID: stripeEvent.ID, Kind: string(stripeEvent.Type)}
	switch event.Kind {
	case EventCheckoutCompleted:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(stripeEvent.Data.Raw, &sess); err != nil {
			return Event{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		if sess.Customer != nil {
			event.CustomerID = sess.Customer.ID
		}
		if sess.Subscription != nil {
			event.SubscriptionID = sess.Subscription.ID
		}
	case EventSubscriptionUpdated, EventSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(stripeEvent.Data.Raw, &sub); err != nil {
			return Event{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		event.SubscriptionID = sub.ID
		event.Status = string(sub.Status)
		if sub.CurrentPeriodStart > 0 {
			start := time.Unix(sub.CurrentPeriodStart, 0)
			event.CurrentPeriodStart = &start
		}
		if sub.CurrentPeriodEnd > 0 {
			end := time.Unix(sub.CurrentPeriodEnd, 0)
			event.CurrentPeriodEnd = &end
		}
	}
	return event, nil
}
