package models

// Request and response payloads for the HTTP surface.

type ChatRequest struct {
	CompanionID string `json:"companionId"`
	Message     string `json:"message"`
}

type ChatResponse struct {
	Response string `json:"response"`
	Call     bool   `json:"call"`
}

type CreateCompanionRequest struct {
	Name        string      `json:"name"`
	Gender      string      `json:"gender"`
	Age         int         `json:"age"`
	Personality Personality `json:"personality"`
	Appearance  Appearance  `json:"appearance"`
}

// CallJob is the SQS payload handed to the voice-call worker when the model
// emits a call directive.
type CallJob struct {
	CompanionID   string `json:"companion_id"`
	UserID        string `json:"user_id"`
	CompanionName string `json:"companion_name"`
	RequestedAt   int64  `json:"requested_at"`
}
