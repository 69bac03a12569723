package models

import "time"

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message is one conversation turn. Content is encrypted at the storage
// boundary; in memory it is always clear text. Immutable once created
// except for ReadAt.
type Message struct {
	ID          string      `json:"id"`
	CompanionID string      `json:"companionId"`
	Role        MessageRole `json:"role"`
	Content     string      `json:"content"`
	Timestamp   time.Time   `json:"timestamp"`
	ReadAt      *time.Time  `json:"readAt,omitempty"`
}

type ScheduleStatus string

const (
	SchedulePending   ScheduleStatus = "pending"
	ScheduleProcessed ScheduleStatus = "processed"
)

// ScheduledMessage is a deferred generation request created when the model
// emits a schedule directive. The sweeper flips Status to processed exactly
// once, after the resulting assistant message is stored.
type ScheduledMessage struct {
	ID            string         `json:"id"`
	CompanionID   string         `json:"companionId"`
	UserID        string         `json:"userId"`
	ScheduledAt   time.Time      `json:"scheduledAt"`
	PromptContext string         `json:"promptContext"`
	Status        ScheduleStatus `json:"status"`
}
