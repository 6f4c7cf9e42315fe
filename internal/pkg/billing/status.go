package billing

import (
	"strings"

	"github.com/danieljstvincent/topthreeclub/app/models"
)

// statusFromProvider maps a provider subscription status onto the local
// enum. Unrecognized provider statuses deliberately default to active:
// dropping access over a status we do not understand would punish a
// paying member.
func statusFromProvider(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "active":
		return models.SubscriptionStatusActive
	case "past_due":
		return models.SubscriptionStatusPastDue
	case "canceled":
		return models.SubscriptionStatusCanceled
	case "incomplete":
		return models.SubscriptionStatusIncomplete
	default:
		return models.SubscriptionStatusActive
	}
}

// intervalFromProvider maps provider recurrence intervals ("month",
// "year") onto the local enum; anything else leaves the interval unset.
func intervalFromProvider(interval string) string {
	switch strings.ToLower(strings.TrimSpace(interval)) {
	case "month":
		return models.BillingIntervalMonthly
	case "year":
		return models.BillingIntervalYearly
	default:
		return ""
	}
}
