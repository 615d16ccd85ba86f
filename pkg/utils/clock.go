package utils

import (
	"fmt"
	"time"
)

// FormatClock renders a clock duration for on-screen display: M:SS under an
// hour, "Xh Ym" from one hour up.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	totalSeconds := int(d / time.Second)
	if totalSeconds >= 3600 {
		return fmt.Sprintf("%dh %dm", totalSeconds/3600, (totalSeconds%3600)/60)
	}
	return fmt.Sprintf("%d:%02d", totalSeconds/60, totalSeconds%60)
}

// FormatClockExport renders a clock duration as HH:MM:SS for file export.
func FormatClockExport(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	totalSeconds := int(d / time.Second)
	return fmt.Sprintf(
		"%02d:%02d:%02d",
		totalSeconds/3600,
		(totalSeconds%3600)/60,
		totalSeconds%60,
	)
}
