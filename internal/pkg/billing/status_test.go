package billing

import (
	"testing"

	"github.com/danieljstvincent/topthreeclub/app/models"
)

func TestStatusFromProvider(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "active", want: models.SubscriptionStatusActive},
		{in: "past_due", want: models.SubscriptionStatusPastDue},
		{in: "canceled", want: models.SubscriptionStatusCanceled},
		{in: "incomplete", want: models.SubscriptionStatusIncomplete},
		{in: "  Active  ", want: models.SubscriptionStatusActive},
		// Unknown statuses keep the member on active rather than cutting access.
		{in: "trialing", want: models.SubscriptionStatusActive},
		{in: "paused", want: models.SubscriptionStatusActive},
		{in: "", want: models.SubscriptionStatusActive},
	}

	for _, tt := range tests {
		if got := statusFromProvider(tt.in); got != tt.want {
			t.Fatalf("statusFromProvider(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIntervalFromProvider(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "month", want: models.BillingIntervalMonthly},
		{in: "year", want: models.BillingIntervalYearly},
		{in: "YEAR", want: models.BillingIntervalYearly},
		{in: "week", want: ""},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		if got := intervalFromProvider(tt.in); got != tt.want {
			t.Fatalf("intervalFromProvider(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
