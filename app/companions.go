package app

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"example/companion-api/app/models"

	"github.com/google/uuid"
)

var errCompanionNotFound = errors.New("companion not found")

func createCompanion(ctx context.Context, userID string, req models.CreateCompanionRequest, systemPrompt string) (models.Companion, error) {
	now := time.Now().UTC()
	companion := models.Companion{
		ID:            uuid.NewString(),
		UserID:        userID,
		Name:          req.Name,
		Gender:        req.Gender,
		Age:           req.Age,
		Personality:   req.Personality,
		Appearance:    req.Appearance,
		SystemPrompt:  systemPrompt,
		CreatedAt:     now,
		LastMessageAt: &now,
	}

	personality, err := json.Marshal(companion.Personality)
	if err != nil {
		return models.Companion{}, err
	}
	appearance, err := json.Marshal(companion.Appearance)
	if err != nil {
		return models.Companion{}, err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO companions (id, user_id, name, gender, age, personality, appearance, system_prompt, created_at, last_message_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`, companion.ID, userID, companion.Name, companion.Gender, companion.Age,
		personality, appearance, systemPrompt, now, now)
	if err != nil {
		return models.Companion{}, err
	}

	return companion, nil
}

// getOwnedCompanion loads a companion and enforces ownership. A row owned by
// another user is reported as not found, never as forbidden.
func getOwnedCompanion(ctx context.Context, companionID, userID string) (models.Companion, error) {
	var (
		c           models.Companion
		personality []byte
		appearance  []byte
	)
	err := db.QueryRowContext(ctx, `
		SELECT id, user_id, name, gender, age, personality, appearance, system_prompt, created_at, last_message_at
		FROM companions
		WHERE id = $1;
	`, companionID).Scan(&c.ID, &c.UserID, &c.Name, &c.Gender, &c.Age,
		&personality, &appearance, &c.SystemPrompt, &c.CreatedAt, &c.LastMessageAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Companion{}, errCompanionNotFound
		}
		return models.Companion{}, err
	}
	if c.UserID != userID {
		return models.Companion{}, errCompanionNotFound
	}

	if err := json.Unmarshal(personality, &c.Personality); err != nil {
		return models.Companion{}, err
	}
	if err := json.Unmarshal(appearance, &c.Appearance); err != nil {
		return models.Companion{}, err
	}
	return c, nil
}

// listCompanions returns the user's companions, most recently active first,
// each annotated with its unread assistant-message count.
func listCompanions(ctx context.Context, userID string) ([]models.Companion, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT c.id, c.user_id, c.name, c.gender, c.age, c.personality, c.appearance,
		       c.system_prompt, c.created_at, c.last_message_at,
		       COUNT(m.id) FILTER (WHERE m.role = 'assistant' AND m.read_at IS NULL) AS unread
		FROM companions c
		LEFT JOIN messages m ON m.companion_id = c.id
		WHERE c.user_id = $1
		GROUP BY c.id
		ORDER BY c.last_message_at DESC NULLS LAST;
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Companion{}
	for rows.Next() {
		var (
			c           models.Companion
			personality []byte
			appearance  []byte
		)
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Gender, &c.Age,
			&personality, &appearance, &c.SystemPrompt, &c.CreatedAt, &c.LastMessageAt,
			&c.UnreadCount); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(personality, &c.Personality); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(appearance, &c.Appearance); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// deleteCompanion removes a companion; messages and scheduled rows cascade.
func deleteCompanion(ctx context.Context, companionID string) error {
	_, err := db.ExecContext(ctx, `
		DELETE FROM companions
		WHERE id = $1;
	`, companionID)
	return err
}
