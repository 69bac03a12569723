// Package app persists conversation turns, encrypting content at the
// storage boundary.
package app

import (
	"context"
	"time"

	"example/companion-api/app/models"

	"github.com/google/uuid"
)

// createMessage appends a turn and bumps the companion's last_message_at in
// one transaction. The returned message carries the clear-text content.
func createMessage(ctx context.Context, encryptKey []byte, companionID string, role models.MessageRole, content string) (models.Message, error) {
	msg := models.Message{
		ID:          uuid.NewString(),
		CompanionID: companionID,
		Role:        role,
		Content:     content,
		Timestamp:   time.Now().UTC(),
	}
	if db == nil {
		// Allow test runs without a backing DB.
		return msg, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return models.Message{}, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO messages (id, companion_id, role, content, timestamp)
		VALUES ($1, $2, $3, $4, $5);
	`, msg.ID, companionID, role, encryptContent(encryptKey, content), msg.Timestamp)
	if err != nil {
		return models.Message{}, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE companions
		SET last_message_at = $1
		WHERE id = $2;
	`, msg.Timestamp, companionID)
	if err != nil {
		return models.Message{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Message{}, err
	}
	return msg, nil
}

// listMessages returns all turns for a companion in chronological order,
// decrypted for the caller.
func listMessages(ctx context.Context, encryptKey []byte, companionID string) ([]models.Message, error) {
	if db == nil {
		return []models.Message{}, nil
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, companion_id, role, content, timestamp, read_at
		FROM messages
		WHERE companion_id = $1
		ORDER BY timestamp ASC;
	`, companionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Message{}
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.CompanionID, &m.Role, &m.Content, &m.Timestamp, &m.ReadAt); err != nil {
			return nil, err
		}
		m.Content = decryptContent(encryptKey, m.Content)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// markMessagesRead stamps all unread assistant turns for a companion.
func markMessagesRead(ctx context.Context, companionID string) error {
	if db == nil {
		return nil
	}
	_, err := db.ExecContext(ctx, `
		UPDATE messages
		SET read_at = now()
		WHERE companion_id = $1
		  AND role = 'assistant'
		  AND read_at IS NULL;
	`, companionID)
	return err
}

// createScheduledMessage records a deferred generation request.
func createScheduledMessage(ctx context.Context, companionID, userID string, scheduledAt time.Time, promptContext string) error {
	if db == nil {
		return nil
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO scheduled_messages (id, companion_id, user_id, scheduled_at, prompt_context, status)
		VALUES ($1, $2, $3, $4, $5, $6);
	`, uuid.NewString(), companionID, userID, scheduledAt, promptContext, models.SchedulePending)
	return err
}
