package regularization

import (
	"context"
)

type RegularizationService interface {
	Create(ctx context.Context, req CreateRegularizationRequest) (RegularizationResponse, error)
	List(ctx context.Context, filter RegularizationFilter) (ListRegularizationResponse, error)
	Get(ctx context.Context, id int64) (RegularizationDetailResponse, error)
	UpdateDetails(ctx context.Context, req UpdateRegularizationRequest) (RegularizationResponse, error)
	// Approve marks the request approved and writes its times to the attendance record.
	Approve(ctx context.Context, req ApproveRegularizationRequest) (RegularizationResponse, error)
	Delete(ctx context.Context, id int64) error
}
