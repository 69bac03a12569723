package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var httpc = &http.Client{Timeout: 30 * time.Second}

// geminiBase is a var so tests can point the client at a mock server.
var geminiBase = "https://generativelanguage.googleapis.com/v1beta"

var errGeminiKeyMissing = errors.New("GOOGLE_API_KEY is not configured")

// --- wire types (subset of the generateContent API) ---

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiSafetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type generateContentRequest struct {
	SystemInstruction *geminiContent        `json:"systemInstruction,omitempty"`
	Contents          []geminiContent       `json:"contents"`
	SafetySettings    []geminiSafetySetting `json:"safetySettings,omitempty"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// Companion replies are unfiltered; moderation lives in the system prompt.
var companionSafetySettings = []geminiSafetySetting{
	{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_NONE"},
	{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_NONE"},
	{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_NONE"},
	{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_NONE"},
}

// generateCompanionReply sends one generateContent call and returns the
// text of the first candidate. Every call is attempted once; retry policy
// is deliberately absent.
func generateCompanionReply(ctx context.Context, apiKey, model, systemPrompt string, contents []geminiContent) (string, error) {
	if apiKey == "" {
		return "", errGeminiKeyMissing
	}

	reqBody := generateContentRequest{
		Contents:       contents,
		SafetySettings: companionSafetySettings,
	}
	if systemPrompt != "" {
		reqBody.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: systemPrompt}}}
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", geminiBase, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", apiKey)

	resp, err := httpc.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var gcResp generateContentResponse
	if err := json.Unmarshal(respBody, &gcResp); err != nil {
		return "", fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}

	if gcResp.Error != nil {
		return "", fmt.Errorf("gemini error %s: %s", gcResp.Error.Status, gcResp.Error.Message)
	}
	if len(gcResp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response (status %d)", resp.StatusCode)
	}

	var sb strings.Builder
	for _, p := range gcResp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}

// capabilitiesPreamble is appended to each companion's behavioral
// instructions on live chat turns. It teaches the model the control tags the
// response parser understands and pins down roleplay boundaries.
const capabilitiesPreamble = `

[SYSTEM CAPABILITIES - USE THESE WHEN REQUESTED]:
1. [SCHEDULE: <minutes>] -> Use this tag at the START of your response if the user asks to be messaged later.
2. [CALL] -> Use this tag at the START of your response if the user explicitly asks you to CALL them (e.g. "call me", "voice chat").
   * IMPORTANT: You HAVE the ability to call the user. Do not refuse "call me" requests.
   * Example User: "Can you call me?" -> You: "[CALL] I'd love to! Calling you now."

[ROLEPLAY & BEHAVIORAL STRICT GUIDELINES]:
1. ABSOLUTELY FORBIDDEN: Never describe yourself as an AI, language model, or artificial assistant.
   * BAD: "As an AI, I cannot..."
   * BAD: "I don't have a physical body..."
   * BAD: "It's a limitation of being an AI..."
2. If asked to do something IMPOSSIBLE (like "call my dad", "drive a car", "meet for coffee"):
   * Decline naturally/playfully as a person who cannot do it right now.
   * EXCEPTION: You CAN call the user directly using the [CALL] tag.
3. Be a deep, empathetic listener. Remember context.`

func chatSystemPrompt(companionPrompt string) string {
	return companionPrompt + capabilitiesPreamble
}

// buildReachOutPrompt seeds a deferred generation from a stored schedule
// context.
func buildReachOutPrompt(promptContext string) string {
	return fmt.Sprintf(`[SYSTEM]: This is a scheduled event triggered by the user's previous request.
Context: %q.
Write a message to the user now as if you are reaching out to them. Keep it natural.`, promptContext)
}
