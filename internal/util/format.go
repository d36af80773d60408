package util

import (
	"fmt"
	"time"
)

// FormatDuration formats a duration as m:ss, or h:mm:ss past an hour.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	h := total / 3600
	m := total / 60 % 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatProgress formats "elapsed / total".
func FormatProgress(elapsed, total time.Duration) string {
	return FormatDuration(elapsed) + " / " + FormatDuration(total)
}
