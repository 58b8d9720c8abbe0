package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nucleus-hris/nucleus-backend-go/internal/domain/attendance"
	"github.com/nucleus-hris/nucleus-backend-go/internal/pkg/timemath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staleRepo struct {
	attendance.AttendanceRepository
	stale     []attendance.Attendance
	before    time.Time
	patches   map[int64]attendance.AttendanceUpdate
	updateErr map[int64]error
}

func (r *staleRepo) ListStaleOpen(ctx context.Context, before time.Time) ([]attendance.Attendance, error) {
	r.before = before
	return r.stale, nil
}

func (r *staleRepo) Update(ctx context.Context, id int64, patch attendance.AttendanceUpdate) (attendance.Attendance, error) {
	if err := r.updateErr[id]; err != nil {
		return attendance.Attendance{}, err
	}
	if r.patches == nil {
		r.patches = make(map[int64]attendance.AttendanceUpdate)
	}
	r.patches[id] = patch
	return attendance.Attendance{ID: id}, nil
}

func strPtr(s string) *string { return &s }

func TestAutoCloseStaleAttendances(t *testing.T) {
	checkIn := time.Date(2024, 3, 4, 9, 5, 0, 0, time.UTC)
	earlier := time.Date(2024, 3, 3, 9, 0, 0, 0, time.UTC)
	repo := &staleRepo{
		stale: []attendance.Attendance{
			{ID: 1, EmployeeID: 42, CheckIn: checkIn, ShiftTo: strPtr("06:00 PM"), MultipleInOut: []attendance.Interval{}},
			{ID: 2, EmployeeID: 43, CheckIn: checkIn}, // no shift
			{ID: 3, EmployeeID: 44, CheckIn: earlier, ShiftTo: strPtr("06:00 PM"), MultipleInOut: []attendance.Interval{
				{CheckIn: earlier, CheckOut: earlier.Add(3 * time.Hour)},
			}},
			{ID: 4, EmployeeID: 45, CheckIn: checkIn, ShiftTo: strPtr("06:00 PM")},
		},
		updateErr: map[int64]error{4: errors.New("boom")},
	}
	clock := &timemath.FixedClock{At: time.Date(2024, 3, 5, 3, 0, 0, 0, time.UTC)}
	jobs := NewAttendanceJobs(repo, clock, timemath.DefaultFixedOffsetMinutes)

	require.NoError(t, jobs.AutoCloseStaleAttendances(context.Background()))

	assert.Equal(t, "2024-03-05", repo.before.Format("2006-01-02"))
	require.Len(t, repo.patches, 2)

	p := repo.patches[1]
	require.NotNil(t, p.CheckOut)
	assert.Equal(t, "18:00:00", timemath.ClockTime(*p.CheckOut))
	assert.Equal(t, "08:55:00", *p.TotalHours)
	assert.False(t, *p.IsActive)
	require.Len(t, p.MultipleInOut, 1)
	assert.True(t, p.MultipleInOut[0].CheckIn.Equal(checkIn))

	p = repo.patches[3]
	require.Len(t, p.MultipleInOut, 2)
	assert.True(t, p.MultipleInOut[1].CheckIn.Equal(earlier.Add(3*time.Hour)))
	assert.Equal(t, "09:00:00", *p.TotalHours)
}

func TestAutoCloseStaleAttendances_CheckInAfterShiftEnd(t *testing.T) {
	lateIn := time.Date(2024, 3, 4, 19, 0, 0, 0, time.UTC)
	repo := &staleRepo{stale: []attendance.Attendance{{ID: 1, CheckIn: lateIn, ShiftTo: strPtr("06:00 PM")}}}
	jobs := NewAttendanceJobs(repo, &timemath.FixedClock{At: time.Date(2024, 3, 5, 3, 0, 0, 0, time.UTC)}, 330)

	require.NoError(t, jobs.AutoCloseStaleAttendances(context.Background()))
	p := repo.patches[1]
	assert.True(t, p.CheckOut.Equal(lateIn))
	assert.Equal(t, "00:00:00", *p.TotalHours)
}

func TestScheduler_RunOnceAndStop(t *testing.T) {
	s := NewScheduler(context.Background())
	calls := 0
	s.AddJob("count", time.Hour, func(ctx context.Context) error {
		calls++
		return nil
	})
	s.AddJob("fail", time.Hour, func(ctx context.Context) error {
		return errors.New("always")
	})

	assert.Equal(t, []string{"count", "fail"}, s.Jobs())
	s.RunOnce(context.Background())
	assert.Equal(t, 1, calls)

	s.Start()
	s.Start()
	s.Stop()
	assert.Equal(t, 2, calls)
}

func TestScheduler_JobTimeout(t *testing.T) {
	s := NewScheduler(context.Background())
	var hadDeadline bool
	s.Add(Job{Name: "bounded", Interval: time.Hour, Timeout: time.Minute, Fn: func(ctx context.Context) error {
		_, hadDeadline = ctx.Deadline()
		return nil
	}})

	s.RunOnce(context.Background())
	assert.True(t, hadDeadline)
}
