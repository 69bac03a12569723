package app

import "example/companion-api/app/models"

// historyWindow is how many recent turns are sent to the model.
const historyWindow = 20

// assembleHistory maps the tail of a conversation log onto model contents.
// The result always opens with a "user" entry (the model API rejects
// histories that start with a model turn) and may be empty for a fresh
// conversation. The input log is not mutated.
func assembleHistory(msgs []models.Message, window int) []geminiContent {
	if window <= 0 || len(msgs) == 0 {
		return nil
	}

	start := len(msgs) - window
	if start < 0 {
		start = 0
	}
	recent := msgs[start:]

	out := make([]geminiContent, 0, len(recent))
	for _, m := range recent {
		role := "model"
		if m.Role == models.RoleUser {
			role = "user"
		}
		out = append(out, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: m.Content}},
		})
	}

	// Drop leading model turns so the history opens with the user.
	for len(out) > 0 && out[0].Role != "user" {
		out = out[1:]
	}

	return out
}
