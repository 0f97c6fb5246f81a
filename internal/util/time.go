package util

import (
	"fmt"
	"strings"
	"time"
)

var twelveHourLayouts = []string{"3:04PM", "3:04 PM", "03:04PM", "03:04 PM"}

// ParseClock parses a wall-clock string in either 24-hour or 12-hour format
// and returns its hour and minute.
// Supported formats:
// - 24-hour: "H:MM" or "HH:MM" (e.g., "9:00", "17:30")
// - 12-hour: "H:MM[AM|PM]" (e.g., "9:00AM", "5:30 PM")
func ParseClock(clock string) (hour, minute int, err error) {
	clock = strings.TrimSpace(strings.ToUpper(clock))

	if t, err := time.Parse("15:04", clock); err == nil {
		return t.Hour(), t.Minute(), nil
	}

	for _, layout := range twelveHourLayouts {
		if t, err := time.Parse(layout, clock); err == nil {
			return t.Hour(), t.Minute(), nil
		}
	}

	return 0, 0, fmt.Errorf("invalid time format: %q\n\nValid formats:\n"+
		"• 24-hour format: HH:MM (e.g., '17:30', '9:00')\n"+
		"• 12-hour format: HH:MM[AM|PM] (e.g., '5:30PM', '9:00 AM')", clock)
}
