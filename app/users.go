// Package app provides user persistence helpers for authenticated requests.
package app

import (
	"context"
	"database/sql"
	"strings"

	"example/companion-api/app/models"
	"example/companion-api/auth"
)

// UpsertUserFromClaims creates a user row if it does not already exist.
// New users start on the free tier with no usage window.
func UpsertUserFromClaims(ctx context.Context, claims *auth.Claims) error {
	if db == nil {
		return nil
	}
	if claims == nil || claims.Subject == "" {
		return nil
	}

	email := readStringClaim(claims.Raw, "email")
	name := readStringClaim(claims.Raw, "name")

	const q = `
		INSERT INTO users (id, email, name, subscription_tier)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING;
	`

	_, err := db.ExecContext(
		ctx,
		q,
		claims.Subject,
		nullIfEmpty(email),
		nullIfEmpty(name),
		models.TierFree,
	)
	return err
}

func getUserByID(ctx context.Context, userID string) (models.User, error) {
	var (
		user     models.User
		email    sql.NullString
		name     sql.NullString
		stripeID sql.NullString
	)
	err := db.QueryRowContext(ctx, `
		SELECT email, name, subscription_tier, stripe_customer_id, last_active_date, daily_usage_start
		FROM users
		WHERE id = $1;
	`, userID).Scan(&email, &name, &user.Tier, &stripeID, &user.LastActiveDate, &user.DailyUsageStart)
	if err != nil {
		return models.User{}, err
	}
	user.ID = userID
	user.Email = email.String
	user.Name = name.String
	user.StripeCustomerID = stripeID.String
	return user, nil
}

func updateUserTier(ctx context.Context, userID string, tier models.SubscriptionTier) error {
	_, err := db.ExecContext(ctx, `
		UPDATE users
		SET subscription_tier = $1
		WHERE id = $2;
	`, tier, userID)
	return err
}

func updateUserTierByStripeCustomer(ctx context.Context, stripeCustomerID string, tier models.SubscriptionTier) error {
	res, err := db.ExecContext(ctx, `
		UPDATE users
		SET subscription_tier = $1
		WHERE stripe_customer_id = $2;
	`, tier, stripeCustomerID)
	if err != nil {
		return err
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func readStringClaim(raw map[string]any, key string) string {
	if raw == nil {
		return ""
	}
	if s, ok := raw[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
