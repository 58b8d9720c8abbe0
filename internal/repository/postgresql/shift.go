package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/nucleus-hris/nucleus-backend-go/internal/domain/attendance"
	"github.com/nucleus-hris/nucleus-backend-go/internal/pkg/database"
)

type shiftRepository struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) attendance.ShiftRepository {
	return &shiftRepository{db: db}
}

// FindAll implements attendance.ShiftRepository.
func (s *shiftRepository) FindAll(ctx context.Context) ([]attendance.Shift, error) {
	q := GetQuerier(ctx, s.db)

	// Configuration order is insertion order.
	query := `
		SELECT id, name, start_time, end_time, created_at, updated_at
		FROM shifts
		ORDER BY id ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	var shifts []attendance.Shift
	for rows.Next() {
		var sh attendance.Shift
		if err := rows.Scan(&sh.ID, &sh.Name, &sh.From, &sh.To, &sh.CreatedAt, &sh.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, sh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shifts: %w", err)
	}

	return shifts, nil
}

// GetByID implements attendance.ShiftRepository.
func (s *shiftRepository) GetByID(ctx context.Context, id int64) (attendance.Shift, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT id, name, start_time, end_time, created_at, updated_at
		FROM shifts
		WHERE id = $1
	`

	var sh attendance.Shift
	err := q.QueryRow(ctx, query, id).Scan(&sh.ID, &sh.Name, &sh.From, &sh.To, &sh.CreatedAt, &sh.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Shift{}, attendance.ErrShiftNotFound
		}
		return attendance.Shift{}, fmt.Errorf("failed to get shift by id: %w", err)
	}

	return sh, nil
}
