// Package app resolves due scheduled messages into delivered replies.
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"example/companion-api/app/config"
	"example/companion-api/app/models"

	"github.com/google/uuid"
)

// sweepItem is a due scheduled row joined with its companion's instructions.
type sweepItem struct {
	models.ScheduledMessage
	SystemPrompt string
}

// sweepResult reports the outcome for one scheduled row.
type sweepResult struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// RunScheduledSweep processes every pending scheduled message that is due.
// Rows are independent: a failure on one is reported in its result and does
// not stop the rest. Returns the number of rows delivered.
func RunScheduledSweep(ctx context.Context, cfg *config.Config) (int, []sweepResult, error) {
	items, err := findDueScheduled(ctx, time.Now().UTC())
	if err != nil {
		return 0, nil, fmt.Errorf("load pending scheduled messages: %w", err)
	}
	processed, results := runSweepItems(ctx, cfg, items)
	return processed, results, nil
}

func runSweepItems(ctx context.Context, cfg *config.Config, items []sweepItem) (int, []sweepResult) {
	processed := 0
	results := make([]sweepResult, 0, len(items))

	for _, item := range items {
		reply, err := generateCompanionReply(
			ctx,
			cfg.Gemini.APIKey,
			cfg.Gemini.Model,
			item.SystemPrompt,
			[]geminiContent{{Role: "user", Parts: []geminiPart{{Text: buildReachOutPrompt(item.PromptContext)}}}},
		)
		if err != nil {
			log.Printf("sweep: generate failed id=%s companion=%s: %v", item.ID, item.CompanionID, err)
			results = append(results, sweepResult{ID: item.ID, Status: "error", Error: err.Error()})
			continue
		}

		if err := deliverScheduledReply(ctx, []byte(cfg.EncryptKey), item, reply); err != nil {
			log.Printf("sweep: deliver failed id=%s companion=%s: %v", item.ID, item.CompanionID, err)
			results = append(results, sweepResult{ID: item.ID, Status: "error", Error: err.Error()})
			continue
		}

		processed++
		results = append(results, sweepResult{ID: item.ID, Status: "processed", Message: reply})
	}

	return processed, results
}

// findDueScheduled loads pending rows due at or before now, joined with the
// owning companion's system prompt. Order across rows is immaterial.
func findDueScheduled(ctx context.Context, now time.Time) ([]sweepItem, error) {
	if db == nil {
		return []sweepItem{}, nil
	}

	rows, err := db.QueryContext(ctx, `
		SELECT s.id, s.companion_id, s.user_id, s.scheduled_at, s.prompt_context, s.status, c.system_prompt
		FROM scheduled_messages s
		JOIN companions c ON c.id = s.companion_id
		WHERE s.status = $1
		  AND s.scheduled_at <= $2;
	`, models.SchedulePending, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []sweepItem{}
	for rows.Next() {
		var item sweepItem
		if err := rows.Scan(&item.ID, &item.CompanionID, &item.UserID, &item.ScheduledAt,
			&item.PromptContext, &item.Status, &item.SystemPrompt); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// deliverScheduledReply stores the generated assistant turn and marks the
// source row processed in one transaction, so a row is never marked without
// its message and never delivers twice. The status update is guarded on
// 'pending' in case a concurrent sweep already claimed the row.
func deliverScheduledReply(ctx context.Context, encryptKey []byte, item sweepItem, reply string) error {
	if db == nil {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE scheduled_messages
		SET status = $1
		WHERE id = $2
		  AND status = $3;
	`, models.ScheduleProcessed, item.ID, models.SchedulePending)
	if err != nil {
		return err
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		// Lost the race to another sweeper; nothing to deliver.
		return nil
	}

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO messages (id, companion_id, role, content, timestamp)
		VALUES ($1, $2, $3, $4, $5);
	`, uuid.NewString(), item.CompanionID, models.RoleAssistant, encryptContent(encryptKey, reply), now)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE companions
		SET last_message_at = $1
		WHERE id = $2;
	`, now, item.CompanionID)
	if err != nil {
		return err
	}

	return tx.Commit()
}
