package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nucleus-hris/nucleus-backend-go/internal/domain/attendance"
	"github.com/nucleus-hris/nucleus-backend-go/internal/pkg/timemath"
)

// dayState applies check-in and check-out events to the employee's day record and to the
// connection session that delivered them.
type dayState struct {
	attendanceRepo attendance.AttendanceRepository
	shiftRepo      attendance.ShiftRepository
	medium         string
}

type closedInterval struct {
	record     attendance.Attendance
	status     attendance.PunctualityResult
	totalHours string
}

// openCheckIn creates or reuses the (employee, date) record and moves the session to CheckedIn.
// A record closed by an earlier check-out the same day is reopened so the next check-out can
// find it.
func (d *dayState) openCheckIn(ctx context.Context, session *attendance.Session, employeeID int64, at time.Time, shift attendance.Shift) (attendance.Attendance, error) {
	if !session.CanCheckIn() {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
	}

	existing, err := d.attendanceRepo.FindByEmployeeAndDate(ctx, employeeID, timemath.DateOf(at))
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to find attendance for the day: %w", err)
	}

	var record attendance.Attendance
	switch {
	case existing == nil:
		shiftID := shift.ID
		record, err = d.attendanceRepo.Create(ctx, attendance.Attendance{
			EmployeeID:       employeeID,
			Date:             timemath.DateOf(at),
			CheckIn:          at,
			ShiftID:          &shiftID,
			AttendanceStatus: attendance.StatusPresent,
			TotalHours:       attendance.TotalHoursZero,
			MultipleInOut:    []attendance.Interval{},
			IsActive:         true,
			AttendanceMedium: d.medium,
		})
		if err != nil {
			return attendance.Attendance{}, fmt.Errorf("failed to create attendance record: %w", err)
		}
	case !existing.IsOpen():
		active := true
		record, err = d.attendanceRepo.Update(ctx, existing.ID, attendance.AttendanceUpdate{
			ClearCheckOut: true,
			IsActive:      &active,
		})
		if err != nil {
			return attendance.Attendance{}, fmt.Errorf("failed to reopen attendance record: %w", err)
		}
	default:
		record = *existing
	}

	session.EmployeeID = employeeID
	session.State = attendance.SessionCheckedIn
	session.CheckIn = &at
	session.Intervals = []attendance.Interval{}

	return record, nil
}

// closeCheckOut closes the employee's latest open record. It returns nil, nil when there is no
// open record to close; nothing is mutated in that case.
func (d *dayState) closeCheckOut(ctx context.Context, session *attendance.Session, employeeID int64, at time.Time) (*closedInterval, error) {
	if !session.CanCheckOut() {
		return nil, attendance.ErrAlreadyCheckedOut
	}

	open, err := d.attendanceRepo.FindLatestOpen(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to find open attendance: %w", err)
	}
	if open == nil || open.ShiftID == nil {
		return nil, nil
	}

	shift, err := d.shiftRepo.GetByID(ctx, *open.ShiftID)
	if err != nil {
		if errors.Is(err, attendance.ErrShiftNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get shift: %w", err)
	}

	status, err := ClassifyCheckOut(at, shift.To)
	if err != nil {
		return nil, err
	}

	start := open.CheckIn
	if session.CheckIn != nil {
		start = *session.CheckIn
	}
	interval := attendance.Interval{CheckIn: start, CheckOut: at}

	intervals := make([]attendance.Interval, 0, len(open.MultipleInOut)+1)
	intervals = append(intervals, open.MultipleInOut...)
	intervals = append(intervals, interval)

	// Elapsed time from the day's first check-in; gaps between intervals are not subtracted.
	totalHours := timemath.MillisecondsToHHMMSS(at.Sub(open.CheckIn).Milliseconds())
	inactive := false

	updated, err := d.attendanceRepo.Update(ctx, open.ID, attendance.AttendanceUpdate{
		CheckOut:      &at,
		TotalHours:    &totalHours,
		IsActive:      &inactive,
		MultipleInOut: intervals,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update attendance record: %w", err)
	}

	if session.EmployeeID == 0 {
		session.EmployeeID = employeeID
	}
	session.State = attendance.SessionCheckedOut
	session.CheckedOutAt = &at
	session.Intervals = append(session.Intervals, interval)

	slog.Debug("Attendance interval closed",
		"attendance_id", updated.ID,
		"employee_id", employeeID,
		"intervals", len(intervals),
		"total_hours", totalHours)

	return &closedInterval{record: updated, status: status, totalHours: totalHours}, nil
}
