package attendance

import (
	"context"
	"time"
)

// ShiftRepository reads the configured shifts.
type ShiftRepository interface {
	// FindAll returns shifts in configuration order.
	FindAll(ctx context.Context) ([]Shift, error)

	// GetByID returns ErrShiftNotFound when absent.
	GetByID(ctx context.Context, id int64) (Shift, error)
}

// AttendanceRepository defines data access for the per-day attendance records.
type AttendanceRepository interface {
	// FindByEmployeeAndDate returns nil, nil when no record exists for the day.
	FindByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) (*Attendance, error)

	// FindLatestOpen returns the employee's most recent record with no check-out, or nil, nil.
	FindLatestOpen(ctx context.Context, employeeID int64) (*Attendance, error)

	// Create inserts the day record. If a concurrent writer already created the
	// (employee, date) row, the existing row is returned instead.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// Update applies the patch and returns the stored record.
	Update(ctx context.Context, id int64, patch AttendanceUpdate) (Attendance, error)

	GetByID(ctx context.Context, id int64) (Attendance, error)

	// ListByEmployeeBetween returns records with check_in in [from, to), ordered by date then check_in.
	ListByEmployeeBetween(ctx context.Context, employeeID int64, from, to time.Time) ([]Attendance, error)

	// ListByEmployeeAndDate returns every record of the employee on date.
	ListByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) ([]Attendance, error)

	// ListStaleOpen returns open records dated before the given date.
	ListStaleOpen(ctx context.Context, before time.Time) ([]Attendance, error)
}
