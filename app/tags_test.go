package app

import "testing"

func TestParseDirectivesSchedule(t *testing.T) {
	visible, d := parseDirectives("[SCHEDULE: 30] Sure, I'll message you in a bit!")
	if d.ScheduleMinutes != 30 {
		t.Fatalf("ScheduleMinutes = %d, want 30", d.ScheduleMinutes)
	}
	if d.Call {
		t.Fatalf("Call should be false")
	}
	if visible != "Sure, I'll message you in a bit!" {
		t.Fatalf("visible = %q", visible)
	}
}

func TestParseDirectivesCall(t *testing.T) {
	visible, d := parseDirectives("[CALL] I'd love to! Calling you now.")
	if !d.Call {
		t.Fatalf("Call should be true")
	}
	if d.ScheduleMinutes != 0 {
		t.Fatalf("ScheduleMinutes = %d, want 0", d.ScheduleMinutes)
	}
	if visible != "I'd love to! Calling you now." {
		t.Fatalf("visible = %q", visible)
	}
}

func TestParseDirectivesBothTags(t *testing.T) {
	visible, d := parseDirectives("[SCHEDULE: 5] [CALL] Talk soon!")
	if d.ScheduleMinutes != 5 || !d.Call {
		t.Fatalf("directives = %+v", d)
	}
	if visible != "Talk soon!" {
		t.Fatalf("visible = %q", visible)
	}
}

func TestParseDirectivesZeroMinutesLeftInPlace(t *testing.T) {
	raw := "[SCHEDULE: 0] Okay."
	visible, d := parseDirectives(raw)
	if d.ScheduleMinutes != 0 {
		t.Fatalf("ScheduleMinutes = %d, want 0", d.ScheduleMinutes)
	}
	if visible != raw {
		t.Fatalf("unrecognized tag should stay in output, got %q", visible)
	}
}

func TestParseDirectivesOverflowLeftInPlace(t *testing.T) {
	raw := "[SCHEDULE: 99999999999999999999] Okay."
	visible, d := parseDirectives(raw)
	if d.ScheduleMinutes != 0 {
		t.Fatalf("ScheduleMinutes = %d, want 0", d.ScheduleMinutes)
	}
	if visible != raw {
		t.Fatalf("overflowing tag should stay in output, got %q", visible)
	}
}

func TestParseDirectivesPlainText(t *testing.T) {
	visible, d := parseDirectives("Just a normal reply.")
	if d.ScheduleMinutes != 0 || d.Call {
		t.Fatalf("directives = %+v, want zero value", d)
	}
	if visible != "Just a normal reply." {
		t.Fatalf("visible = %q", visible)
	}
}

func TestParseDirectivesMidText(t *testing.T) {
	visible, d := parseDirectives("Of course [SCHEDULE: 10] I'll check in then.")
	if d.ScheduleMinutes != 10 {
		t.Fatalf("ScheduleMinutes = %d, want 10", d.ScheduleMinutes)
	}
	if visible != "Of course  I'll check in then." {
		t.Fatalf("visible = %q", visible)
	}
}

func TestParseDirectivesFirstScheduleWins(t *testing.T) {
	visible, d := parseDirectives("[SCHEDULE: 15] hi [SCHEDULE: 45]")
	if d.ScheduleMinutes != 15 {
		t.Fatalf("ScheduleMinutes = %d, want 15", d.ScheduleMinutes)
	}
	if visible != "hi [SCHEDULE: 45]" {
		t.Fatalf("visible = %q", visible)
	}
}
