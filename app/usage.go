// Package app enforces the daily chat-time limit for free-tier users.
package app

import (
	"context"
	"log"
	"time"

	"example/companion-api/app/models"
)

// usageUpdate is the at-most-one persistence write a gate decision may carry.
type usageUpdate struct {
	LastActiveDate  *time.Time
	DailyUsageStart *time.Time
}

// usageDecision is the outcome of evaluating a user's daily window.
type usageDecision struct {
	Allowed bool
	Reason  string
	// Update is non-nil when the user's window fields need persisting.
	Update *usageUpdate
}

func dayStartUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// evaluateUsage is a pure state transition: (user, now) -> decision.
// Premium users always pass. Free users get a rolling window anchored at
// DailyUsageStart; once elapsed time exceeds the limit the day is spent.
// The window never resets mid-day. A DailyUsageStart from a previous day is
// stale and treated as absent.
func evaluateUsage(user models.User, now time.Time, limit time.Duration) usageDecision {
	if user.Tier == models.TierPremium {
		return usageDecision{Allowed: true}
	}

	today := dayStartUTC(now)

	if user.LastActiveDate == nil || user.LastActiveDate.Before(today) {
		// First activity today: open a fresh window.
		start := now
		return usageDecision{
			Allowed: true,
			Update:  &usageUpdate{LastActiveDate: &today, DailyUsageStart: &start},
		}
	}

	if user.DailyUsageStart == nil {
		// Active today but no window anchor; self-heal.
		start := now
		return usageDecision{
			Allowed: true,
			Update:  &usageUpdate{DailyUsageStart: &start},
		}
	}

	if now.Sub(*user.DailyUsageStart) > limit {
		return usageDecision{Allowed: false, Reason: "Daily limit reached. Upgrade to Premium for unlimited chat."}
	}

	return usageDecision{Allowed: true}
}

// applyUsageUpdate persists a gate decision's window fields. Concurrent
// requests from the same user may double-reset the window; that is an
// accepted race, not a guarded invariant.
func applyUsageUpdate(ctx context.Context, userID string, upd *usageUpdate) error {
	if db == nil || upd == nil {
		return nil
	}

	var err error
	switch {
	case upd.LastActiveDate != nil && upd.DailyUsageStart != nil:
		_, err = db.ExecContext(ctx, `
			UPDATE users
			SET last_active_date = $1, daily_usage_start = $2
			WHERE id = $3;
		`, *upd.LastActiveDate, *upd.DailyUsageStart, userID)
	case upd.DailyUsageStart != nil:
		_, err = db.ExecContext(ctx, `
			UPDATE users
			SET daily_usage_start = $1
			WHERE id = $2;
		`, *upd.DailyUsageStart, userID)
	}
	if err != nil {
		log.Printf("usage window update failed user=%s: %v", userID, err)
	}
	return err
}
