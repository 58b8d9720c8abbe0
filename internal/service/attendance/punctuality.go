package attendance

import (
	"fmt"
	"time"

	"github.com/nucleus-hris/nucleus-backend-go/internal/domain/attendance"
	"github.com/nucleus-hris/nucleus-backend-go/internal/pkg/timemath"
)

// ClassifyCheckIn compares a check-in with the shift start on the same calendar date.
func ClassifyCheckIn(checkInAt time.Time, shiftFrom string) (attendance.PunctualityResult, error) {
	return classify(checkInAt, shiftFrom, attendance.EarlyCheckIn, attendance.LateCheckIn)
}

// ClassifyCheckOut compares a check-out with the shift end on the same calendar date.
func ClassifyCheckOut(checkOutAt time.Time, shiftTo string) (attendance.PunctualityResult, error) {
	return classify(checkOutAt, shiftTo, attendance.EarlyCheckout, attendance.LateCheckout)
}

func classify(at time.Time, boundary string, early, late attendance.PunctualityStatus) (attendance.PunctualityResult, error) {
	tod, err := timemath.ParseTimeOfDay(boundary)
	if err != nil {
		return attendance.PunctualityResult{}, fmt.Errorf("parse shift boundary: %w", err)
	}

	edge := timemath.On(at, tod)
	diff := timemath.FormatSignedDuration(edge.Sub(at).Milliseconds())

	switch {
	case at.Before(edge):
		return attendance.PunctualityResult{Status: early, TimeDifference: diff}, nil
	case at.After(edge):
		return attendance.PunctualityResult{Status: late, TimeDifference: diff}, nil
	default:
		return attendance.PunctualityResult{Status: attendance.OnTime, TimeDifference: diff}, nil
	}
}
