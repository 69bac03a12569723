package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func withMockGemini(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	server := httptest.NewServer(handler)
	original := geminiBase
	geminiBase = server.URL
	t.Cleanup(func() {
		geminiBase = original
		server.Close()
	})
}

func TestGenerateCompanionReplySuccess(t *testing.T) {
	var captured generateContentRequest
	withMockGemini(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models/gemini-2.0-flash:generateContent") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Hey "},{"text":"you!"}]},"finishReason":"STOP"}]}`))
	})

	contents := []geminiContent{{Role: "user", Parts: []geminiPart{{Text: "hi"}}}}
	got, err := generateCompanionReply(context.Background(), "test-key", "gemini-2.0-flash", "be warm", contents)
	if err != nil {
		t.Fatalf("generateCompanionReply error = %v", err)
	}
	if got != "Hey you!" {
		t.Fatalf("reply = %q, want %q", got, "Hey you!")
	}

	if captured.SystemInstruction == nil || captured.SystemInstruction.Parts[0].Text != "be warm" {
		t.Fatalf("system instruction not sent: %+v", captured.SystemInstruction)
	}
	if len(captured.SafetySettings) != 4 {
		t.Fatalf("safety settings = %d, want 4", len(captured.SafetySettings))
	}
	for _, s := range captured.SafetySettings {
		if s.Threshold != "BLOCK_NONE" {
			t.Fatalf("threshold = %q, want BLOCK_NONE", s.Threshold)
		}
	}
}

func TestGenerateCompanionReplyAPIError(t *testing.T) {
	withMockGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`))
	})

	_, err := generateCompanionReply(context.Background(), "bad-key", "gemini-2.0-flash", "", nil)
	if err == nil || !strings.Contains(err.Error(), "INVALID_ARGUMENT") {
		t.Fatalf("expected API error, got %v", err)
	}
}

func TestGenerateCompanionReplyNoCandidates(t *testing.T) {
	withMockGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := generateCompanionReply(context.Background(), "test-key", "gemini-2.0-flash", "", nil)
	if err == nil || !strings.Contains(err.Error(), "no candidates") {
		t.Fatalf("expected no-candidates error, got %v", err)
	}
}

func TestGenerateCompanionReplyMissingKey(t *testing.T) {
	_, err := generateCompanionReply(context.Background(), "", "gemini-2.0-flash", "", nil)
	if !errors.Is(err, errGeminiKeyMissing) {
		t.Fatalf("expected errGeminiKeyMissing, got %v", err)
	}
}

func TestChatSystemPromptAppendsCapabilities(t *testing.T) {
	got := chatSystemPrompt("You are Luna.")
	if !strings.HasPrefix(got, "You are Luna.") {
		t.Fatalf("companion prompt should lead: %q", got[:40])
	}
	if !strings.Contains(got, "[SCHEDULE: <minutes>]") || !strings.Contains(got, "[CALL]") {
		t.Fatalf("capabilities preamble missing from prompt")
	}
}

func TestBuildReachOutPromptEmbedsContext(t *testing.T) {
	got := buildReachOutPrompt("User requested message after 30 minutes.")
	if !strings.Contains(got, "User requested message after 30 minutes.") {
		t.Fatalf("context missing from reach-out prompt: %q", got)
	}
}
