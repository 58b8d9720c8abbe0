package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nucleus-hris/nucleus-backend-go/internal/domain/attendance"
	"github.com/nucleus-hris/nucleus-backend-go/internal/pkg/timemath"
)

type queryServiceImpl struct {
	attendance.AttendanceRepository
}

func NewQueryService(attendanceRepo attendance.AttendanceRepository) attendance.QueryService {
	return &queryServiceImpl{AttendanceRepository: attendanceRepo}
}

// CalendarView implements attendance.QueryService.
func (q *queryServiceImpl) CalendarView(ctx context.Context, req attendance.CalendarViewRequest) (attendance.CalendarViewResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.CalendarViewResponse{}, err
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)

	records, err := q.AttendanceRepository.ListByEmployeeBetween(ctx, req.EmployeeID, start, end)
	if err != nil {
		return attendance.CalendarViewResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	resp := attendance.CalendarViewResponse{
		TotalWeekHours:    timemath.SecondsToHHMMSS(0),
		AttendanceDetails: [][]attendance.CalendarDetail{},
	}
	if len(records) == 0 {
		return resp, nil
	}

	var totalSeconds int64
	var checkInSum, checkOutSum int64
	var checkOutCount int64
	dayIndex := make(map[string]int)

	for _, rec := range records {
		if rec.TotalHours != "" {
			secs, err := timemath.HHMMSSToSeconds(rec.TotalHours)
			if err != nil {
				slog.Warn("Ignoring malformed total_hours", "attendance_id", rec.ID, "total_hours", rec.TotalHours)
			} else {
				totalSeconds += secs
			}
		}

		// Averages are over the wall-clock time of day, not over instants spread across dates.
		checkInSum += secondsOfDay(rec.CheckIn)
		if rec.CheckOut != nil {
			checkOutSum += secondsOfDay(*rec.CheckOut)
			checkOutCount++
		}

		dateKey := rec.Date.Format("2006-01-02")
		idx, ok := dayIndex[dateKey]
		if !ok {
			idx = len(resp.AttendanceDetails)
			dayIndex[dateKey] = idx
			resp.AttendanceDetails = append(resp.AttendanceDetails, []attendance.CalendarDetail{})
		}

		intervals := rec.MultipleInOut
		if intervals == nil {
			intervals = []attendance.Interval{}
		}
		resp.AttendanceDetails[idx] = append(resp.AttendanceDetails[idx], attendance.CalendarDetail{
			Date:             dateKey,
			CheckIn:          rec.CheckIn,
			CheckOut:         rec.CheckOut,
			AttendanceStatus: rec.AttendanceStatus,
			TotalHours:       rec.TotalHours,
			ShiftID:          rec.ShiftID,
			ShiftStartTime:   rec.ShiftFrom,
			ShiftEndTime:     rec.ShiftTo,
			MultipleInOut:    intervals,
		})
	}

	resp.TotalAttendanceDays = len(dayIndex)
	resp.TotalWeekHours = timemath.SecondsToHHMMSS(totalSeconds)
	resp.AverageCheckInTime = timemath.SecondsToHHMMSS(checkInSum / int64(len(records)))
	if checkOutCount > 0 {
		avg := timemath.SecondsToHHMMSS(checkOutSum / checkOutCount)
		resp.AverageCheckOutTime = &avg
	}

	return resp, nil
}

// DayBounds implements attendance.QueryService.
func (q *queryServiceImpl) DayBounds(ctx context.Context, req attendance.DayBoundsRequest) (attendance.DayBoundsResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.DayBoundsResponse{}, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)
	records, err := q.AttendanceRepository.ListByEmployeeAndDate(ctx, req.EmployeeID, date)
	if err != nil {
		return attendance.DayBoundsResponse{}, fmt.Errorf("failed to list attendance for the day: %w", err)
	}
	if len(records) == 0 {
		return attendance.DayBoundsResponse{}, attendance.ErrAttendanceNotFound
	}

	var resp attendance.DayBoundsResponse
	for i := range records {
		rec := records[i]
		if resp.CheckIn == nil || rec.CheckIn.Before(*resp.CheckIn) {
			checkIn := rec.CheckIn
			resp.CheckIn = &checkIn
		}
		if rec.CheckOut != nil && (resp.CheckOut == nil || rec.CheckOut.After(*resp.CheckOut)) {
			checkOut := *rec.CheckOut
			resp.CheckOut = &checkOut
		}
	}
	return resp, nil
}

func secondsOfDay(t time.Time) int64 {
	return int64(t.Hour()*3600 + t.Minute()*60 + t.Second())
}
