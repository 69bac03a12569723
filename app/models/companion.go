package models

import "time"

// Personality and Appearance are stored as JSONB columns.
type Personality struct {
	Traits      []string `json:"traits"`
	Description string   `json:"description"`
}

type Appearance struct {
	HairColor   string `json:"hairColor"`
	EyeColor    string `json:"eyeColor"`
	Style       string `json:"style"`
	Description string `json:"description"`
}

// Companion is a user-owned persona. SystemPrompt holds the generated
// behavioral instructions sent to the model on every turn.
type Companion struct {
	ID            string      `json:"id"`
	UserID        string      `json:"userId"`
	Name          string      `json:"name"`
	Gender        string      `json:"gender"`
	Age           int         `json:"age"`
	Personality   Personality `json:"personality"`
	Appearance    Appearance  `json:"appearance"`
	SystemPrompt  string      `json:"-"`
	CreatedAt     time.Time   `json:"createdAt"`
	LastMessageAt *time.Time  `json:"lastMessageAt,omitempty"`
	UnreadCount   int         `json:"unreadCount"`
}
