package regularization

import (
	"context"
)

type RegularizationRepository interface {
	Create(ctx context.Context, reg Regularization) (Regularization, error)

	// GetByID returns ErrRegularizationNotFound when absent. Soft-deleted rows are returned.
	GetByID(ctx context.Context, id int64) (Regularization, error)

	// GetByIDForUpdate is GetByID with a row lock held until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id int64) (Regularization, error)

	GetDetail(ctx context.Context, id int64) (RegularizationWithAttendance, error)

	// List excludes soft-deleted rows. EmployeeID filters through the attendance record.
	List(ctx context.Context, filter RegularizationFilter) ([]RegularizationWithAttendance, int64, error)

	Update(ctx context.Context, reg Regularization) error

	SoftDelete(ctx context.Context, id int64) error
}

// Transactor runs fn atomically. Repositories called with the context passed to fn join
// the transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
