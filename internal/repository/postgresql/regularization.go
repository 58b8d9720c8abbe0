package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/nucleus-hris/nucleus-backend-go/internal/domain/regularization"
	"github.com/nucleus-hris/nucleus-backend-go/internal/pkg/database"
)

type regularizationRepository struct {
	db *database.DB
}

func NewRegularizationRepository(db *database.DB) regularization.RegularizationRepository {
	return &regularizationRepository{db: db}
}

const regularizationColumns = `
	r.id, r.attendance_id, r.date, r.regularized_check_in, r.regularized_check_out,
	r.regularized_total_hours, r.reason, r.description, r.approval_status,
	r.approved_by, r.modified_by, r.is_deleted, r.created_at, r.updated_at`

const regularizationDetailColumns = regularizationColumns + `,
	a.employee_id, a.date, a.check_in, a.check_out, a.attendance_medium, a.attendance_status,
	s.name, s.start_time, s.end_time`

func scanRegularization(row pgx.Row) (regularization.Regularization, error) {
	var r regularization.Regularization
	err := row.Scan(
		&r.ID, &r.AttendanceID, &r.Date, &r.RegularizedCheckIn, &r.RegularizedCheckOut,
		&r.RegularizedTotalHours, &r.Reason, &r.Description, &r.ApprovalStatus,
		&r.ApprovedBy, &r.ModifiedBy, &r.IsDeleted, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

func scanRegularizationDetail(row pgx.Row) (regularization.RegularizationWithAttendance, error) {
	var d regularization.RegularizationWithAttendance
	r := &d.Regularization
	a := &d.Attendance
	err := row.Scan(
		&r.ID, &r.AttendanceID, &r.Date, &r.RegularizedCheckIn, &r.RegularizedCheckOut,
		&r.RegularizedTotalHours, &r.Reason, &r.Description, &r.ApprovalStatus,
		&r.ApprovedBy, &r.ModifiedBy, &r.IsDeleted, &r.CreatedAt, &r.UpdatedAt,
		&a.EmployeeID, &a.Date, &a.CheckIn, &a.CheckOut, &a.AttendanceMedium, &a.AttendanceStatus,
		&a.ShiftName, &a.ShiftFrom, &a.ShiftTo,
	)
	return d, err
}

// Create implements regularization.RegularizationRepository.
func (r *regularizationRepository) Create(ctx context.Context, reg regularization.Regularization) (regularization.Regularization, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_regularizations (
			attendance_id, date, regularized_check_in, regularized_check_out,
			regularized_total_hours, reason, description, approval_status
		) VALUES (
			$1, $2::date, $3, $4, $5, $6, $7, $8
		) RETURNING id, is_deleted, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		reg.AttendanceID,
		reg.Date.Format("2006-01-02"),
		reg.RegularizedCheckIn,
		reg.RegularizedCheckOut,
		reg.RegularizedTotalHours,
		reg.Reason,
		reg.Description,
		reg.ApprovalStatus,
	).Scan(&reg.ID, &reg.IsDeleted, &reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		return regularization.Regularization{}, fmt.Errorf("failed to create regularization: %w", err)
	}

	return reg, nil
}

// GetByID implements regularization.RegularizationRepository.
func (r *regularizationRepository) GetByID(ctx context.Context, id int64) (regularization.Regularization, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + regularizationColumns + `
		FROM attendance_regularizations r
		WHERE r.id = $1
	`

	reg, err := scanRegularization(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return regularization.Regularization{}, regularization.ErrRegularizationNotFound
		}
		return regularization.Regularization{}, fmt.Errorf("failed to get regularization by id: %w", err)
	}
	return reg, nil
}

// GetByIDForUpdate implements regularization.RegularizationRepository.
func (r *regularizationRepository) GetByIDForUpdate(ctx context.Context, id int64) (regularization.Regularization, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + regularizationColumns + `
		FROM attendance_regularizations r
		WHERE r.id = $1
		FOR UPDATE
	`

	reg, err := scanRegularization(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return regularization.Regularization{}, regularization.ErrRegularizationNotFound
		}
		return regularization.Regularization{}, fmt.Errorf("failed to lock regularization: %w", err)
	}
	return reg, nil
}

// GetDetail implements regularization.RegularizationRepository.
func (r *regularizationRepository) GetDetail(ctx context.Context, id int64) (regularization.RegularizationWithAttendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + regularizationDetailColumns + `
		FROM attendance_regularizations r
		JOIN attendances a ON a.id = r.attendance_id
		LEFT JOIN shifts s ON s.id = a.shift_id
		WHERE r.id = $1
	`

	d, err := scanRegularizationDetail(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return regularization.RegularizationWithAttendance{}, regularization.ErrRegularizationNotFound
		}
		return regularization.RegularizationWithAttendance{}, fmt.Errorf("failed to get regularization detail: %w", err)
	}
	return d, nil
}

// List implements regularization.RegularizationRepository.
func (r *regularizationRepository) List(ctx context.Context, filter regularization.RegularizationFilter) ([]regularization.RegularizationWithAttendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "r.is_deleted = FALSE"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil {
		baseWhere += fmt.Sprintf(" AND a.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}

	countQuery := `
		SELECT COUNT(*)
		FROM attendance_regularizations r
		JOIN attendances a ON a.id = r.attendance_id
		WHERE ` + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count regularizations: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s
		FROM attendance_regularizations r
		JOIN attendances a ON a.id = r.attendance_id
		LEFT JOIN shifts s ON s.id = a.shift_id
		WHERE %s
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT $%d OFFSET $%d
	`, regularizationDetailColumns, baseWhere, argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query regularizations: %w", err)
	}
	defer rows.Close()

	var result []regularization.RegularizationWithAttendance
	for rows.Next() {
		d, err := scanRegularizationDetail(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan regularization: %w", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate regularizations: %w", err)
	}

	return result, total, nil
}

// Update implements regularization.RegularizationRepository.
func (r *regularizationRepository) Update(ctx context.Context, reg regularization.Regularization) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_regularizations SET
			date = $1::date,
			regularized_check_in = $2,
			regularized_check_out = $3,
			regularized_total_hours = $4,
			reason = $5,
			description = $6,
			approval_status = $7,
			approved_by = $8,
			modified_by = $9,
			updated_at = NOW()
		WHERE id = $10 AND is_deleted = FALSE
	`

	tag, err := q.Exec(ctx, query,
		reg.Date.Format("2006-01-02"),
		reg.RegularizedCheckIn,
		reg.RegularizedCheckOut,
		reg.RegularizedTotalHours,
		reg.Reason,
		reg.Description,
		reg.ApprovalStatus,
		reg.ApprovedBy,
		reg.ModifiedBy,
		reg.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update regularization: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return regularization.ErrRegularizationNotFound
	}
	return nil
}

// SoftDelete implements regularization.RegularizationRepository.
func (r *regularizationRepository) SoftDelete(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_regularizations
		SET is_deleted = TRUE, updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE
	`

	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete regularization: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return regularization.ErrRegularizationNotFound
	}
	return nil
}
