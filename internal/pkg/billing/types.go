package billing

import (
	"errors"
	"time"
)

// Provider event kinds the reconciler understands. Other kinds are
// acknowledged and ignored.
const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)

// ErrInvalidPayload is returned when a webhook body cannot be parsed.
var ErrInvalidPayload = errors.New("invalid webhook payload")

// ErrInvalidSignature is returned when webhook signature verification fails.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// ErrNoSubscription is returned when a user has no provider subscription
// to act on.
var ErrNoSubscription = errors.New("no active provider subscription")

// Event is the provider-agnostic shape of a verified webhook event.
// Exactly one of CustomerID/SubscriptionID is the lookup key depending on
// the kind.
type Event struct {
	ID                 string
	Kind               string
	CustomerID         string
	SubscriptionID     string
	Status             string
	CurrentPeriodStart *time.Time
	CurrentPeriodEnd   *time.Time
}

// SubscriptionInfo is the authoritative provider-side subscription state
// fetched from the gateway.
type SubscriptionInfo struct {
	ID                 string
	Status             string
	Interval           string // provider values: "month" or "year"
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
}
