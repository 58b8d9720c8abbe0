package regularization

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/nucleus-hris/nucleus-backend-go/internal/domain/attendance"
	"github.com/nucleus-hris/nucleus-backend-go/internal/domain/regularization"
	"github.com/nucleus-hris/nucleus-backend-go/internal/pkg/timemath"
	"github.com/nucleus-hris/nucleus-backend-go/internal/pkg/validator"
)

type regularizationServiceImpl struct {
	tx             regularization.Transactor
	repo           regularization.RegularizationRepository
	attendanceRepo attendance.AttendanceRepository
}

func NewRegularizationService(
	tx regularization.Transactor,
	repo regularization.RegularizationRepository,
	attendanceRepo attendance.AttendanceRepository,
) regularization.RegularizationService {
	return &regularizationServiceImpl{
		tx:             tx,
		repo:           repo,
		attendanceRepo: attendanceRepo,
	}
}

// Create implements regularization.RegularizationService.
func (s *regularizationServiceImpl) Create(ctx context.Context, req regularization.CreateRegularizationRequest) (regularization.RegularizationResponse, error) {
	if err := req.Validate(); err != nil {
		return regularization.RegularizationResponse{}, err
	}

	if _, err := s.attendanceRepo.GetByID(ctx, req.AttendanceID); err != nil {
		return regularization.RegularizationResponse{}, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)
	checkIn, _ := validator.IsValidDateTime(req.RegularizedCheckIn)
	checkOut, _ := validator.IsValidDateTime(req.RegularizedCheckOut)

	totalHours := req.RegularizedTotalHours
	if totalHours == "" {
		totalHours = timemath.MillisecondsToHHMMSS(checkOut.Sub(checkIn).Milliseconds())
	}

	created, err := s.repo.Create(ctx, regularization.Regularization{
		AttendanceID:          req.AttendanceID,
		Date:                  date,
		RegularizedCheckIn:    checkIn,
		RegularizedCheckOut:   checkOut,
		RegularizedTotalHours: totalHours,
		Reason:                req.Reason,
		Description:           req.Description,
		ApprovalStatus:        regularization.ApprovalPending,
	})
	if err != nil {
		return regularization.RegularizationResponse{}, fmt.Errorf("failed to create regularization: %w", err)
	}

	slog.Info("Regularization created", "regularization_id", created.ID, "attendance_id", created.AttendanceID)
	return regularization.NewRegularizationResponse(created), nil
}

// List implements regularization.RegularizationService.
func (s *regularizationServiceImpl) List(ctx context.Context, filter regularization.RegularizationFilter) (regularization.ListRegularizationResponse, error) {
	if err := filter.Validate(); err != nil {
		return regularization.ListRegularizationResponse{}, err
	}

	rows, totalCount, err := s.repo.List(ctx, filter)
	if err != nil {
		return regularization.ListRegularizationResponse{}, fmt.Errorf("failed to list regularizations: %w", err)
	}

	items := make([]regularization.RegularizationDetailResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, regularization.NewRegularizationDetailResponse(row))
	}

	totalPages := int(math.Ceil(float64(totalCount) / float64(filter.Limit)))

	start := filter.Offset() + 1
	end := start + len(items) - 1
	if end > int(totalCount) {
		end = int(totalCount)
	}
	showing := fmt.Sprintf("%d-%d of %d results", start, end, totalCount)
	if totalCount == 0 || len(items) == 0 {
		showing = fmt.Sprintf("0 of %d results", totalCount)
	}

	return regularization.ListRegularizationResponse{
		TotalCount:      totalCount,
		Page:            filter.Page,
		Limit:           filter.Limit,
		TotalPages:      totalPages,
		Showing:         showing,
		Regularizations: items,
	}, nil
}

// Get implements regularization.RegularizationService.
func (s *regularizationServiceImpl) Get(ctx context.Context, id int64) (regularization.RegularizationDetailResponse, error) {
	detail, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		return regularization.RegularizationDetailResponse{}, err
	}
	if detail.IsDeleted {
		return regularization.RegularizationDetailResponse{}, regularization.ErrRegularizationNotFound
	}
	return regularization.NewRegularizationDetailResponse(detail), nil
}

// UpdateDetails implements regularization.RegularizationService.
func (s *regularizationServiceImpl) UpdateDetails(ctx context.Context, req regularization.UpdateRegularizationRequest) (regularization.RegularizationResponse, error) {
	if err := req.Validate(); err != nil {
		return regularization.RegularizationResponse{}, err
	}

	reg, err := s.getLive(ctx, req.ID)
	if err != nil {
		return regularization.RegularizationResponse{}, err
	}
	if reg.IsApproved() {
		return regularization.RegularizationResponse{}, regularization.ErrAlreadyApproved
	}

	timesChanged := false
	if req.Date != nil {
		reg.Date, _ = time.Parse("2006-01-02", *req.Date)
	}
	if req.RegularizedCheckIn != nil {
		reg.RegularizedCheckIn, _ = validator.IsValidDateTime(*req.RegularizedCheckIn)
		timesChanged = true
	}
	if req.RegularizedCheckOut != nil {
		reg.RegularizedCheckOut, _ = validator.IsValidDateTime(*req.RegularizedCheckOut)
		timesChanged = true
	}
	if !reg.RegularizedCheckOut.After(reg.RegularizedCheckIn) {
		return regularization.RegularizationResponse{}, validator.ValidationErrors{{
			Field:   "regularized_check_out",
			Message: "regularized_check_out must be after regularized_check_in",
		}}
	}

	switch {
	case req.RegularizedTotalHours != nil:
		reg.RegularizedTotalHours = *req.RegularizedTotalHours
	case timesChanged:
		reg.RegularizedTotalHours = timemath.MillisecondsToHHMMSS(reg.RegularizedCheckOut.Sub(reg.RegularizedCheckIn).Milliseconds())
	}
	if req.Reason != nil {
		reg.Reason = *req.Reason
	}
	if req.Description != nil {
		reg.Description = req.Description
	}

	if err := s.repo.Update(ctx, reg); err != nil {
		return regularization.RegularizationResponse{}, fmt.Errorf("failed to update regularization: %w", err)
	}
	return regularization.NewRegularizationResponse(reg), nil
}

// Approve implements regularization.RegularizationService.
func (s *regularizationServiceImpl) Approve(ctx context.Context, req regularization.ApproveRegularizationRequest) (regularization.RegularizationResponse, error) {
	if err := req.Validate(); err != nil {
		return regularization.RegularizationResponse{}, err
	}

	var approved regularization.Regularization
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		// The row stays locked until commit so concurrent approvals serialize here.
		reg, err := s.repo.GetByIDForUpdate(txCtx, req.ID)
		if err != nil {
			return err
		}
		if reg.IsDeleted {
			return regularization.ErrRegularizationNotFound
		}
		if reg.IsApproved() {
			return regularization.ErrAlreadyApproved
		}

		approver := req.ApprovedBy
		reg.ApprovalStatus = regularization.ApprovalApproved
		reg.ApprovedBy = &approver
		reg.ModifiedBy = &approver
		if err := s.repo.Update(txCtx, reg); err != nil {
			return fmt.Errorf("failed to approve regularization: %w", err)
		}

		checkIn := reg.RegularizedCheckIn
		checkOut := reg.RegularizedCheckOut
		totalHours := reg.RegularizedTotalHours
		inactive := false
		if _, err := s.attendanceRepo.Update(txCtx, reg.AttendanceID, attendance.AttendanceUpdate{
			CheckIn:       &checkIn,
			CheckOut:      &checkOut,
			TotalHours:    &totalHours,
			IsActive:      &inactive,
			MultipleInOut: []attendance.Interval{{CheckIn: checkIn, CheckOut: checkOut}},
		}); err != nil {
			return fmt.Errorf("failed to apply regularization to attendance: %w", err)
		}

		approved = reg
		return nil
	})
	if err != nil {
		return regularization.RegularizationResponse{}, err
	}

	slog.Info("Regularization approved",
		"regularization_id", approved.ID,
		"attendance_id", approved.AttendanceID,
		"approved_by", req.ApprovedBy)
	return regularization.NewRegularizationResponse(approved), nil
}

// Delete implements regularization.RegularizationService.
func (s *regularizationServiceImpl) Delete(ctx context.Context, id int64) error {
	reg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if reg.IsApproved() {
		return regularization.ErrCannotDeleteApproved
	}
	if reg.IsDeleted {
		return regularization.ErrAlreadyDeleted
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete regularization: %w", err)
	}
	return nil
}

func (s *regularizationServiceImpl) getLive(ctx context.Context, id int64) (regularization.Regularization, error) {
	reg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return regularization.Regularization{}, err
	}
	if reg.IsDeleted {
		return regularization.Regularization{}, regularization.ErrRegularizationNotFound
	}
	return reg, nil
}
