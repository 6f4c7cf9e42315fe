package models

import "time"

const (
	SubscriptionTierFree    = "free"
	SubscriptionTierPremium = "premium"
)

const (
	BillingIntervalMonthly = "monthly"
	BillingIntervalYearly  = "yearly"
)

const (
	SubscriptionStatusActive     = "active"
	SubscriptionStatusCanceled   = "canceled"
	SubscriptionStatusPastDue    = "past_due"
	SubscriptionStatusIncomplete = "incomplete"
)

// Subscription mirrors a member's billing state against the payment
// provider. At most one row per user; created lazily as "free" on the
// first billing interaction and only mutated by the reconciler.
type Subscription struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	UserID               uint       `gorm:"not null;uniqueIndex" json:"user_id"`
	Tier                 string     `gorm:"type:varchar(20);not null;default:'free'" json:"tier"`
	BillingInterval      string     `gorm:"type:varchar(16);not null;default:''" json:"billing_interval"`
	Status               string     `gorm:"type:varchar(32);not null;default:'active'" json:"status"`
	StripeCustomerID     string     `gorm:"type:varchar(191);not null;default:'';index" json:"-"`
	StripeSubscriptionID string     `gorm:"type:varchar(191);not null;default:'';index" json:"-"`
	CurrentPeriodStart   *time.Time `gorm:"type:timestamp;default:null" json:"current_period_start,omitempty"`
	CurrentPeriodEnd     *time.Time `gorm:"type:timestamp;default:null" json:"current_period_end,omitempty"`
	CreatedAt            time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsPremium holds iff the tier is premium and the status is active.
func (s *Subscription) IsPremium() bool {
	return s != nil && s.Tier == SubscriptionTierPremium && s.Status == SubscriptionStatusActive
}
