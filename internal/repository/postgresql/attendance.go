package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/nucleus-hris/nucleus-backend-go/internal/domain/attendance"
	"github.com/nucleus-hris/nucleus-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	a.id, a.employee_id, a.date, a.check_in, a.check_out, a.shift_id,
	a.attendance_status, a.total_hours, a.multiple_in_out, a.is_active, a.attendance_medium,
	a.created_at, a.updated_at,
	s.start_time, s.end_time`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	var intervals []byte
	err := row.Scan(
		&att.ID, &att.EmployeeID, &att.Date, &att.CheckIn, &att.CheckOut, &att.ShiftID,
		&att.AttendanceStatus, &att.TotalHours, &intervals, &att.IsActive, &att.AttendanceMedium,
		&att.CreatedAt, &att.UpdatedAt,
		&att.ShiftFrom, &att.ShiftTo,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}

	att.MultipleInOut = []attendance.Interval{}
	if len(intervals) > 0 {
		if err := json.Unmarshal(intervals, &att.MultipleInOut); err != nil {
			return attendance.Attendance{}, fmt.Errorf("failed to decode multiple_in_out of attendance %d: %w", att.ID, err)
		}
	}
	return att, nil
}

func (a *attendanceRepository) queryAttendances(ctx context.Context, query string, args ...interface{}) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	var result []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		result = append(result, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendances: %w", err)
	}
	return result, nil
}

// FindByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) FindByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		LEFT JOIN shifts s ON s.id = a.shift_id
		WHERE a.employee_id = $1
		  AND a.date = $2::date
		LIMIT 1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date.Format("2006-01-02")))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}
	return &att, nil
}

// FindLatestOpen implements attendance.AttendanceRepository.
func (a *attendanceRepository) FindLatestOpen(ctx context.Context, employeeID int64) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		LEFT JOIN shifts s ON s.id = a.shift_id
		WHERE a.employee_id = $1
		  AND a.check_out IS NULL
		ORDER BY a.check_in DESC
		LIMIT 1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open attendance: %w", err)
	}
	return &att, nil
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	intervals := newAttendance.MultipleInOut
	if intervals == nil {
		intervals = []attendance.Interval{}
	}
	encoded, err := json.Marshal(intervals)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to encode multiple_in_out: %w", err)
	}

	query := `
		INSERT INTO attendances (
			employee_id, date, check_in, check_out, shift_id,
			attendance_status, total_hours, multiple_in_out, is_active, attendance_medium
		) VALUES (
			$1, $2::date, $3, $4, $5, $6, $7, $8, $9, $10
		)
		ON CONFLICT (employee_id, date) DO NOTHING
		RETURNING id
	`

	var id int64
	err = q.QueryRow(ctx, query,
		newAttendance.EmployeeID,
		newAttendance.Date.Format("2006-01-02"),
		newAttendance.CheckIn,
		newAttendance.CheckOut,
		newAttendance.ShiftID,
		newAttendance.AttendanceStatus,
		newAttendance.TotalHours,
		encoded,
		newAttendance.IsActive,
		newAttendance.AttendanceMedium,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Lost the race for (employee_id, date); hand back the winner's row.
			existing, findErr := a.FindByEmployeeAndDate(ctx, newAttendance.EmployeeID, newAttendance.Date)
			if findErr != nil {
				return attendance.Attendance{}, findErr
			}
			if existing == nil {
				return attendance.Attendance{}, fmt.Errorf("failed to create attendance: conflicting row vanished")
			}
			return *existing, nil
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return a.GetByID(ctx, id)
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, id int64, patch attendance.AttendanceUpdate) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	updates := []string{}
	args := []interface{}{}
	argIdx := 1

	if patch.CheckIn != nil {
		updates = append(updates, fmt.Sprintf("check_in = $%d", argIdx))
		args = append(args, *patch.CheckIn)
		argIdx++
	}
	switch {
	case patch.ClearCheckOut:
		updates = append(updates, "check_out = NULL")
	case patch.CheckOut != nil:
		updates = append(updates, fmt.Sprintf("check_out = $%d", argIdx))
		args = append(args, *patch.CheckOut)
		argIdx++
	}
	if patch.TotalHours != nil {
		updates = append(updates, fmt.Sprintf("total_hours = $%d", argIdx))
		args = append(args, *patch.TotalHours)
		argIdx++
	}
	if patch.IsActive != nil {
		updates = append(updates, fmt.Sprintf("is_active = $%d", argIdx))
		args = append(args, *patch.IsActive)
		argIdx++
	}
	if patch.MultipleInOut != nil {
		encoded, err := json.Marshal(patch.MultipleInOut)
		if err != nil {
			return attendance.Attendance{}, fmt.Errorf("failed to encode multiple_in_out: %w", err)
		}
		updates = append(updates, fmt.Sprintf("multiple_in_out = $%d", argIdx))
		args = append(args, encoded)
		argIdx++
	}

	updates = append(updates, "updated_at = NOW()")

	query := "UPDATE attendances SET " + strings.Join(updates, ", ") +
		fmt.Sprintf(" WHERE id = $%d", argIdx)
	args = append(args, id)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}

	return a.GetByID(ctx, id)
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id int64) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		LEFT JOIN shifts s ON s.id = a.shift_id
		WHERE a.id = $1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by id: %w", err)
	}
	return att, nil
}

// ListByEmployeeBetween implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployeeBetween(ctx context.Context, employeeID int64, from, to time.Time) ([]attendance.Attendance, error) {
	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		LEFT JOIN shifts s ON s.id = a.shift_id
		WHERE a.employee_id = $1
		  AND a.check_in >= $2
		  AND a.check_in < $3
		ORDER BY a.date ASC, a.check_in ASC
	`
	return a.queryAttendances(ctx, query, employeeID, from, to)
}

// ListByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) ([]attendance.Attendance, error) {
	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		LEFT JOIN shifts s ON s.id = a.shift_id
		WHERE a.employee_id = $1
		  AND a.date = $2::date
		ORDER BY a.check_in ASC
	`
	return a.queryAttendances(ctx, query, employeeID, date.Format("2006-01-02"))
}

// ListStaleOpen implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListStaleOpen(ctx context.Context, before time.Time) ([]attendance.Attendance, error) {
	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		LEFT JOIN shifts s ON s.id = a.shift_id
		WHERE a.check_out IS NULL
		  AND a.date < $1::date
		ORDER BY a.date ASC, a.id ASC
	`
	return a.queryAttendances(ctx, query, before.Format("2006-01-02"))
}
