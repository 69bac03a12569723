package app

import (
	"fmt"
	"testing"

	"example/companion-api/app/models"
)

func makeLog(n int, first models.MessageRole) []models.Message {
	msgs := make([]models.Message, 0, n)
	role := first
	for i := 0; i < n; i++ {
		msgs = append(msgs, models.Message{Role: role, Content: fmt.Sprintf("msg-%d", i)})
		if role == models.RoleUser {
			role = models.RoleAssistant
		} else {
			role = models.RoleUser
		}
	}
	return msgs
}

func TestAssembleHistoryWindowsTail(t *testing.T) {
	msgs := makeLog(25, models.RoleUser)
	got := assembleHistory(msgs, 20)

	// 25 alternating turns starting with user: the last 20 start with an
	// assistant turn, which gets dropped.
	if len(got) != 19 {
		t.Fatalf("len = %d, want 19", len(got))
	}
	if got[0].Role != "user" {
		t.Fatalf("first role = %q, want user", got[0].Role)
	}
	if got[len(got)-1].Parts[0].Text != "msg-24" {
		t.Fatalf("last text = %q, want msg-24", got[len(got)-1].Parts[0].Text)
	}
}

func TestAssembleHistoryShortLog(t *testing.T) {
	msgs := makeLog(4, models.RoleUser)
	got := assembleHistory(msgs, 20)
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	if got[0].Role != "user" || got[1].Role != "model" {
		t.Fatalf("roles = %q,%q, want user,model", got[0].Role, got[1].Role)
	}
}

func TestAssembleHistoryDropsLeadingModelTurns(t *testing.T) {
	msgs := []models.Message{
		{Role: models.RoleAssistant, Content: "reach-out"},
		{Role: models.RoleAssistant, Content: "still there?"},
		{Role: models.RoleUser, Content: "hi"},
		{Role: models.RoleAssistant, Content: "hello!"},
	}
	got := assembleHistory(msgs, 20)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Role != "user" || got[0].Parts[0].Text != "hi" {
		t.Fatalf("first entry = %+v, want user hi", got[0])
	}
}

func TestAssembleHistoryEmpty(t *testing.T) {
	if got := assembleHistory(nil, 20); len(got) != 0 {
		t.Fatalf("empty log should produce empty history, got %d", len(got))
	}
	// A log of only assistant turns collapses to nothing.
	msgs := []models.Message{{Role: models.RoleAssistant, Content: "hello?"}}
	if got := assembleHistory(msgs, 20); len(got) != 0 {
		t.Fatalf("assistant-only log should collapse, got %d", len(got))
	}
}

func TestAssembleHistoryDoesNotMutateInput(t *testing.T) {
	msgs := makeLog(3, models.RoleAssistant)
	before := make([]models.Message, len(msgs))
	copy(before, msgs)

	_ = assembleHistory(msgs, 2)

	for i := range msgs {
		if msgs[i] != before[i] {
			t.Fatalf("input mutated at %d: %+v != %+v", i, msgs[i], before[i])
		}
	}
}
