// Package models defines the persisted entities and HTTP payloads.
package models

import "time"

type SubscriptionTier string

const (
	TierFree    SubscriptionTier = "free"
	TierPremium SubscriptionTier = "premium"
)

// User is an account row keyed by the identity provider's token subject.
// LastActiveDate is a calendar day (no time component); DailyUsageStart is
// only meaningful when LastActiveDate is the current day.
type User struct {
	ID               string           `db:"id"`
	Email            string           `db:"email"`
	Name             string           `db:"name"`
	Tier             SubscriptionTier `db:"subscription_tier"`
	StripeCustomerID string           `db:"stripe_customer_id"`
	LastActiveDate   *time.Time       `db:"last_active_date"`
	DailyUsageStart  *time.Time       `db:"daily_usage_start"`
}
