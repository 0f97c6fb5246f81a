// Package rules loads the weekly schedule of time windows during which
// synthetic activity is permitted.
package rules

import (
	"fmt"
	"time"

	"github.com/stigoleg/keep-active/internal/util"
)

// MinutesPerDay is the number of distinct TimeOfDay values.
const MinutesPerDay = 24 * 60

// TimeOfDay is a wall-clock time without a date, in minutes since midnight.
type TimeOfDay int

// NewTimeOfDay builds a TimeOfDay from an hour and a minute.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("time of day %02d:%02d out of range", hour, minute)
	}
	return TimeOfDay(hour*60 + minute), nil
}

// TimeOfDayOf returns the time of day of t in t's location, truncated to the minute.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

// ParseTimeOfDay parses "HH:mm" or "h:mmAM/PM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	hour, minute, err := util.ParseClock(s)
	if err != nil {
		return 0, err
	}
	return NewTimeOfDay(hour, minute)
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// TimeWindow is an inclusive range of times within one day.
type TimeWindow struct {
	start TimeOfDay
	end   TimeOfDay
}

// NewTimeWindow returns the window between a and b. Operands given in
// reverse order are swapped so that Start is never after End.
func NewTimeWindow(a, b TimeOfDay) TimeWindow {
	if a > b {
		a, b = b, a
	}
	return TimeWindow{start: a, end: b}
}

func (w TimeWindow) Start() TimeOfDay { return w.start }
func (w TimeWindow) End() TimeOfDay   { return w.end }

// Contains reports whether t lies in [Start, End].
func (w TimeWindow) Contains(t TimeOfDay) bool {
	return w.start <= t && t <= w.end
}

func (w TimeWindow) String() string {
	return w.start.String() + "-" + w.end.String()
}
