package channel

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// StatusLine formats a STATUS part text with a humanized elapsed time,
// used by the grader's per-submission status messages.
func StatusLine(label string, since time.Time) string {
	return fmt.Sprintf("%s (%s)", label, humanize.Time(since))
}

// Elapsed formats a plain duration for timing summaries, e.g. the
// grader's end-of-run statistics.
func Elapsed(d time.Duration) string {
	if d < time.Second {
		return "less than a second"
	}
	now := time.Now()
	return strings.TrimSpace(humanize.RelTime(now.Add(-d), now, "", ""))
}
