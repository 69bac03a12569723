package app

import (
	"regexp"
	"strconv"
	"strings"
)

const callTag = "[CALL]"

var reScheduleTag = regexp.MustCompile(`\[SCHEDULE: (\d+)\]`)

// directives are the control markers recognized in model output.
type directives struct {
	// ScheduleMinutes is > 0 when a schedule directive was recognized.
	ScheduleMinutes int
	Call            bool
}

// parseDirectives scans generated text for embedded control tags and returns
// the visible text with recognized tags removed. Parsing is best-effort: a
// schedule tag with a non-positive or overflowing minute value is not
// recognized and its text is left in place. The parser never persists
// anything; side effects belong to the caller.
func parseDirectives(raw string) (string, directives) {
	var d directives
	visible := raw

	if m := reScheduleTag.FindStringSubmatch(visible); m != nil {
		minutes, err := strconv.Atoi(m[1])
		if err == nil && minutes > 0 {
			d.ScheduleMinutes = minutes
			visible = strings.Replace(visible, m[0], "", 1)
		}
	}

	if strings.Contains(visible, callTag) {
		d.Call = true
		visible = strings.Replace(visible, callTag, "", 1)
	}

	return strings.TrimSpace(visible), d
}
