package timemath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultFixedOffsetMinutes is UTC+05:30.
const DefaultFixedOffsetMinutes = 330

var ErrInvalidTimeOfDay = errors.New("invalid time of day")

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// ApplyLocalOffset shifts instant so that, printed in the host zone, it shows the wall clock of the
// zone fixedOffsetMinutes east of UTC. hostOffsetMinutes is the host's own offset from UTC.
func ApplyLocalOffset(instant time.Time, fixedOffsetMinutes, hostOffsetMinutes int) time.Time {
	return instant.Add(time.Duration(fixedOffsetMinutes-hostOffsetMinutes) * time.Minute)
}

// FormatSignedDuration returns "HH:MM" for the magnitude of ms.
func FormatSignedDuration(ms int64) string {
	if ms < 0 {
		ms = -ms
	}
	hours := ms / int64(time.Hour/time.Millisecond)
	minutes := (ms % int64(time.Hour/time.Millisecond)) / int64(time.Minute/time.Millisecond)
	return fmt.Sprintf("%02d:%02d", hours, minutes)
}

// MillisecondsToHHMMSS formats an elapsed duration as "HH:MM:SS". Hours are not capped at 24.
// Negative durations format as zero.
func MillisecondsToHHMMSS(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	return SecondsToHHMMSS(ms / 1000)
}

func SecondsToHHMMSS(seconds int64) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds%60)
}

// HHMMSSToSeconds parses "H:MM:SS" (any number of hour digits) into seconds.
func HHMMSSToSeconds(s string) (int64, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("parse duration %q: expected HH:MM:SS", s)
	}

	var total int64
	for i, mult := range []int64{3600, 60, 1} {
		v, err := strconv.ParseInt(parts[i], 10, 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("parse duration %q: invalid component %q", s, parts[i])
		}
		total += v * mult
	}
	return total, nil
}

var timeOfDayLayouts = []string{
	"03:04 PM",
	"3:04 PM",
	"03:04PM",
	"3:04PM",
	"03:04:05 PM",
	"15:04",
	"15:04:05",
}

// ParseTimeOfDay accepts 12-hour ("09:00 AM") and 24-hour ("18:30", "18:30:00") forms.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	value := strings.ToUpper(strings.TrimSpace(s))
	for _, layout := range timeOfDayLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
}

// On returns the instant on at's calendar date, in at's location, at the given time of day.
func On(at time.Time, tod TimeOfDay) time.Time {
	return time.Date(at.Year(), at.Month(), at.Day(), tod.Hour, tod.Minute, tod.Second, 0, at.Location())
}

// DateOf truncates t to midnight of its calendar date in its own location.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ClockTime formats the wall-clock part of t as "HH:MM:SS".
func ClockTime(t time.Time) string {
	return t.Format("15:04:05")
}
