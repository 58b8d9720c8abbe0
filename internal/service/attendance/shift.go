package attendance

import (
	"log/slog"
	"time"

	"github.com/nucleus-hris/nucleus-backend-go/internal/domain/attendance"
	"github.com/nucleus-hris/nucleus-backend-go/internal/pkg/timemath"
)

// ResolveShift returns the first shift, in configuration order, whose window on at's calendar date
// contains at (both ends inclusive). Shifts with unparsable bounds never match.
func ResolveShift(shifts []attendance.Shift, at time.Time) (attendance.Shift, error) {
	for _, s := range shifts {
		from, err := timemath.ParseTimeOfDay(s.From)
		if err != nil {
			slog.Warn("Skipping shift with invalid start time", "shift_id", s.ID, "from", s.From, "error", err)
			continue
		}
		to, err := timemath.ParseTimeOfDay(s.To)
		if err != nil {
			slog.Warn("Skipping shift with invalid end time", "shift_id", s.ID, "to", s.To, "error", err)
			continue
		}

		start := timemath.On(at, from)
		end := timemath.On(at, to)
		if !at.Before(start) && !at.After(end) {
			return s, nil
		}
	}
	return attendance.Shift{}, attendance.ErrNoShiftMatched
}
