package rules

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Format describes a valid rules file record.
const Format = "Day of the week;HH:mm;HH:mm"

// Example is a valid rules file record.
const Example = "Monday;9:00;17:30"

// ErrNoRules is returned when a source holds no usable records.
var ErrNoRules = errors.New("no rules defined")

// ParseError reports a malformed rules source.
type ParseError struct {
	// Line is 1-based; zero when the error concerns the whole source.
	Line   int
	Text   string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return "rules: " + e.Reason
	}
	return fmt.Sprintf("rules: line %d %q: %s", e.Line, e.Text, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Entry is a single (weekday, start, end) record.
type Entry struct {
	Weekday time.Weekday
	Start   TimeOfDay
	End     TimeOfDay
}

// RuleSet maps weekdays to the windows in which activity is permitted.
// It is read-only once built.
type RuleSet struct {
	days map[time.Weekday][]TimeWindow
	size int
}

// New builds a RuleSet from entries, preserving their order within a day.
func New(entries []Entry) (*RuleSet, error) {
	if len(entries) == 0 {
		return nil, &ParseError{Reason: ErrNoRules.Error(), Err: ErrNoRules}
	}

	rs := &RuleSet{days: make(map[time.Weekday][]TimeWindow)}
	for _, e := range entries {
		if e.Weekday < time.Sunday || e.Weekday > time.Saturday {
			return nil, &ParseError{Reason: fmt.Sprintf("invalid weekday %d", int(e.Weekday))}
		}
		rs.days[e.Weekday] = append(rs.days[e.Weekday], NewTimeWindow(e.Start, e.End))
		rs.size++
	}
	return rs, nil
}

// Load reads and parses the rules file at path.
func Load(path string) (*RuleSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rules file: %w", err)
	}
	defer f.Close()

	rs, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rs, nil
}

// Parse reads one "Weekday;HH:mm;HH:mm" record per line. Blank lines and
// lines starting with '#' are ignored.
func Parse(r io.Reader) (*RuleSet, error) {
	var entries []Entry

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry, err := parseLine(line)
		if err != nil {
			err.Line = lineNo
			err.Text = line
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}

	return New(entries)
}

func parseLine(line string) (Entry, *ParseError) {
	fields := strings.Split(line, ";")
	if len(fields) != 3 {
		return Entry{}, &ParseError{Reason: fmt.Sprintf("expected 3 fields separated by ';', got %d", len(fields))}
	}

	day, err := ParseWeekday(fields[0])
	if err != nil {
		return Entry{}, &ParseError{Reason: err.Error(), Err: err}
	}
	start, err := ParseTimeOfDay(fields[1])
	if err != nil {
		return Entry{}, &ParseError{Reason: fmt.Sprintf("start time %q is not valid", strings.TrimSpace(fields[1])), Err: err}
	}
	end, err := ParseTimeOfDay(fields[2])
	if err != nil {
		return Entry{}, &ParseError{Reason: fmt.Sprintf("end time %q is not valid", strings.TrimSpace(fields[2])), Err: err}
	}

	return Entry{Weekday: day, Start: start, End: end}, nil
}

// ParseWeekday accepts full English day names and two-letter abbreviations,
// case-insensitively.
func ParseWeekday(s string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monday", "mo":
		return time.Monday, nil
	case "tuesday", "tu":
		return time.Tuesday, nil
	case "wednesday", "we":
		return time.Wednesday, nil
	case "thursday", "th":
		return time.Thursday, nil
	case "friday", "fr":
		return time.Friday, nil
	case "saturday", "sa":
		return time.Saturday, nil
	case "sunday", "su":
		return time.Sunday, nil
	}
	return 0, fmt.Errorf("day of the week %q cannot be recognized", strings.TrimSpace(s))
}

// IsPermittedNow reports whether any window configured for weekday contains t.
// A weekday without windows is never permitted.
func (rs *RuleSet) IsPermittedNow(weekday time.Weekday, t TimeOfDay) bool {
	for _, w := range rs.days[weekday] {
		if w.Contains(t) {
			return true
		}
	}
	return false
}

// IsPermittedAt is IsPermittedNow for the weekday and time of day of t.
func (rs *RuleSet) IsPermittedAt(t time.Time) bool {
	return rs.IsPermittedNow(t.Weekday(), TimeOfDayOf(t))
}

// Windows returns a copy of the windows configured for weekday.
func (rs *RuleSet) Windows(weekday time.Weekday) []TimeWindow {
	windows := rs.days[weekday]
	out := make([]TimeWindow, len(windows))
	copy(out, windows)
	return out
}

// Days returns the weekdays that have at least one window, Sunday first.
func (rs *RuleSet) Days() []time.Weekday {
	var days []time.Weekday
	for d := time.Sunday; d <= time.Saturday; d++ {
		if len(rs.days[d]) > 0 {
			days = append(days, d)
		}
	}
	return days
}

// Len returns the total number of windows.
func (rs *RuleSet) Len() int { return rs.size }
