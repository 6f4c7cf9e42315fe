package entitlements

import (
	"strings"

	"github.com/danieljstvincent/topthreeclub/app/models"
)

type Plan string

const (
	PlanFree    Plan = "free"
	PlanPremium Plan = "premium"
)

// Normalize maps arbitrary plan strings onto a known plan, defaulting to free.
func Normalize(plan string) Plan {
	switch strings.ToLower(strings.TrimSpace(plan)) {
	case string(PlanPremium):
		return PlanPremium
	default:
		return PlanFree
	}
}

// PlanFor derives the effective plan from a subscription row: premium
// only while the tier is premium and the status is active.
func PlanFor(sub *models.Subscription) Plan {
	if sub.IsPremium() {
		return PlanPremium
	}
	return PlanFree
}
