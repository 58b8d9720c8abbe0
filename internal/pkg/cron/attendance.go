package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nucleus-hris/nucleus-backend-go/internal/domain/attendance"
	"github.com/nucleus-hris/nucleus-backend-go/internal/pkg/timemath"
)

type AttendanceJobs struct {
	attendanceRepo     attendance.AttendanceRepository
	clock              timemath.Clock
	fixedOffsetMinutes int
}

func NewAttendanceJobs(attendanceRepo attendance.AttendanceRepository, clock timemath.Clock, fixedOffsetMinutes int) *AttendanceJobs {
	if clock == nil {
		clock = timemath.SystemClock()
	}
	return &AttendanceJobs{
		attendanceRepo:     attendanceRepo,
		clock:              clock,
		fixedOffsetMinutes: fixedOffsetMinutes,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("auto_close_stale_attendances", 1*time.Hour, j.AutoCloseStaleAttendances)
}

// AutoCloseStaleAttendances closes records left open on an earlier date at their shift end.
func (j *AttendanceJobs) AutoCloseStaleAttendances(ctx context.Context) error {
	now := j.clock.Now()
	today := timemath.DateOf(timemath.ApplyLocalOffset(now, j.fixedOffsetMinutes, j.clock.OffsetMinutes(now)))

	stale, err := j.attendanceRepo.ListStaleOpen(ctx, today)
	if err != nil {
		return fmt.Errorf("failed to get stale attendances: %w", err)
	}

	if len(stale) == 0 {
		slog.Debug("Cron: No stale attendances found")
		return nil
	}

	closedCount := 0
	for _, rec := range stale {
		if rec.ShiftTo == nil {
			slog.Warn("Cron: Stale attendance has no shift, leaving open", "attendance_id", rec.ID, "employee_id", rec.EmployeeID)
			continue
		}
		end, err := timemath.ParseTimeOfDay(*rec.ShiftTo)
		if err != nil {
			slog.Warn("Cron: Stale attendance shift end unparsable", "attendance_id", rec.ID, "shift_to", *rec.ShiftTo, "error", err)
			continue
		}

		// The open interval started at the day's check-in, or after the last closed interval.
		start := rec.CheckIn
		if n := len(rec.MultipleInOut); n > 0 {
			start = rec.MultipleInOut[n-1].CheckOut
		}
		checkOut := timemath.On(rec.CheckIn, end)
		if checkOut.Before(start) {
			checkOut = start
		}

		intervals := append(append([]attendance.Interval{}, rec.MultipleInOut...), attendance.Interval{CheckIn: start, CheckOut: checkOut})
		totalHours := timemath.MillisecondsToHHMMSS(checkOut.Sub(rec.CheckIn).Milliseconds())
		inactive := false

		if _, err := j.attendanceRepo.Update(ctx, rec.ID, attendance.AttendanceUpdate{
			CheckOut:      &checkOut,
			TotalHours:    &totalHours,
			IsActive:      &inactive,
			MultipleInOut: intervals,
		}); err != nil {
			slog.Error("Cron: Failed to auto-close attendance",
				"attendance_id", rec.ID,
				"employee_id", rec.EmployeeID,
				"error", err)
			continue
		}
		closedCount++
	}

	slog.Info("Cron: Auto-closed stale attendances", "closed", closedCount, "found", len(stale))
	return nil
}
