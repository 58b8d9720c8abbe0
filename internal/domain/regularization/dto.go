package regularization

import (
	"time"

	"github.com/nucleus-hris/nucleus-backend-go/internal/pkg/validator"
)

type CreateRegularizationRequest struct {
	AttendanceID          int64   `json:"attendance_id"`
	Date                  string  `json:"date"`                    // YYYY-MM-DD
	RegularizedCheckIn    string  `json:"regularized_check_in"`    // RFC3339
	RegularizedCheckOut   string  `json:"regularized_check_out"`   // RFC3339
	RegularizedTotalHours string  `json:"regularized_total_hours"` // HH:MM:SS, derived from the times when empty
	Reason                string  `json:"reason"`
	Description           *string `json:"description,omitempty"`
}

func (r *CreateRegularizationRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.AttendanceID <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "attendance_id",
			Message: "attendance_id must be a positive number",
		})
	}

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	checkIn, inOK := validator.IsValidDateTime(r.RegularizedCheckIn)
	if !inOK {
		errs = append(errs, validator.ValidationError{
			Field:   "regularized_check_in",
			Message: "regularized_check_in must be an ISO8601 timestamp",
		})
	}
	checkOut, outOK := validator.IsValidDateTime(r.RegularizedCheckOut)
	if !outOK {
		errs = append(errs, validator.ValidationError{
			Field:   "regularized_check_out",
			Message: "regularized_check_out must be an ISO8601 timestamp",
		})
	}
	if inOK && outOK && !checkOut.After(checkIn) {
		errs = append(errs, validator.ValidationError{
			Field:   "regularized_check_out",
			Message: "regularized_check_out must be after regularized_check_in",
		})
	}

	if r.RegularizedTotalHours != "" && !validator.IsValidDuration(r.RegularizedTotalHours) {
		errs = append(errs, validator.ValidationError{
			Field:   "regularized_total_hours",
			Message: "regularized_total_hours must be in HH:MM:SS format",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateRegularizationRequest changes the details of a pending request. Nil fields are kept.
type UpdateRegularizationRequest struct {
	ID                    int64   `json:"-"`
	Date                  *string `json:"date,omitempty"`
	RegularizedCheckIn    *string `json:"regularized_check_in,omitempty"`
	RegularizedCheckOut   *string `json:"regularized_check_out,omitempty"`
	RegularizedTotalHours *string `json:"regularized_total_hours,omitempty"`
	Reason                *string `json:"reason,omitempty"`
	Description           *string `json:"description,omitempty"`
}

func (r *UpdateRegularizationRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ID <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a positive number",
		})
	}
	if r.Date != nil {
		if _, ok := validator.IsValidDate(*r.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}
	if r.RegularizedCheckIn != nil {
		if _, ok := validator.IsValidDateTime(*r.RegularizedCheckIn); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "regularized_check_in",
				Message: "regularized_check_in must be an ISO8601 timestamp",
			})
		}
	}
	if r.RegularizedCheckOut != nil {
		if _, ok := validator.IsValidDateTime(*r.RegularizedCheckOut); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "regularized_check_out",
				Message: "regularized_check_out must be an ISO8601 timestamp",
			})
		}
	}
	if r.RegularizedTotalHours != nil && !validator.IsValidDuration(*r.RegularizedTotalHours) {
		errs = append(errs, validator.ValidationError{
			Field:   "regularized_total_hours",
			Message: "regularized_total_hours must be in HH:MM:SS format",
		})
	}
	if r.Reason != nil && validator.IsEmpty(*r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not be empty",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ApproveRegularizationRequest struct {
	ID         int64 `json:"-"`
	ApprovedBy int64 `json:"-"`
}

func (r *ApproveRegularizationRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ID <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a positive number",
		})
	}
	if r.ApprovedBy <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "approved_by",
			Message: "approver could not be determined",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RegularizationFilter struct {
	EmployeeID *int64 `json:"employee_id,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *RegularizationFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.EmployeeID != nil && *f.EmployeeID <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a positive number",
		})
	}

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 10
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (f RegularizationFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type RegularizationResponse struct {
	ID                    int64     `json:"id"`
	AttendanceID          int64     `json:"attendance_id"`
	Date                  string    `json:"date"`
	RegularizedCheckIn    time.Time `json:"regularized_check_in"`
	RegularizedCheckOut   time.Time `json:"regularized_check_out"`
	RegularizedTotalHours string    `json:"regularized_total_hours"`
	Reason                string    `json:"reason"`
	Description           *string   `json:"description"`
	ApprovalStatus        string    `json:"approval_status"`
	ApprovedBy            *int64    `json:"approved_by"`
	ModifiedBy            *int64    `json:"modified_by"`
	CreatedAt             string    `json:"created_at"`
	UpdatedAt             string    `json:"updated_at"`
}

func NewRegularizationResponse(r Regularization) RegularizationResponse {
	return RegularizationResponse{
		ID:                    r.ID,
		AttendanceID:          r.AttendanceID,
		Date:                  r.Date.Format("2006-01-02"),
		RegularizedCheckIn:    r.RegularizedCheckIn,
		RegularizedCheckOut:   r.RegularizedCheckOut,
		RegularizedTotalHours: r.RegularizedTotalHours,
		Reason:                r.Reason,
		Description:           r.Description,
		ApprovalStatus:        r.ApprovalStatus,
		ApprovedBy:            r.ApprovedBy,
		ModifiedBy:            r.ModifiedBy,
		CreatedAt:             r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:             r.UpdatedAt.Format(time.RFC3339),
	}
}

type AttendanceSummaryResponse struct {
	EmployeeID       int64      `json:"employee_id"`
	Date             string     `json:"date"`
	CheckIn          time.Time  `json:"check_in"`
	CheckOut         *time.Time `json:"check_out"`
	AttendanceMedium string     `json:"attendance_medium"`
	AttendanceStatus string     `json:"attendance_status"`
	ShiftName        *string    `json:"shift_name"`
	ShiftFrom        *string    `json:"shift_from"`
	ShiftTo          *string    `json:"shift_to"`
}

type RegularizationDetailResponse struct {
	RegularizationResponse
	Attendance AttendanceSummaryResponse `json:"attendance"`
}

func NewRegularizationDetailResponse(r RegularizationWithAttendance) RegularizationDetailResponse {
	a := r.Attendance
	return RegularizationDetailResponse{
		RegularizationResponse: NewRegularizationResponse(r.Regularization),
		Attendance: AttendanceSummaryResponse{
			EmployeeID:       a.EmployeeID,
			Date:             a.Date.Format("2006-01-02"),
			CheckIn:          a.CheckIn,
			CheckOut:         a.CheckOut,
			AttendanceMedium: a.AttendanceMedium,
			AttendanceStatus: a.AttendanceStatus,
			ShiftName:        a.ShiftName,
			ShiftFrom:        a.ShiftFrom,
			ShiftTo:          a.ShiftTo,
		},
	}
}

type ListRegularizationResponse struct {
	TotalCount      int64                          `json:"total_count"`
	Page            int                            `json:"page"`
	Limit           int                            `json:"limit"`
	TotalPages      int                            `json:"total_pages"`
	Showing         string                         `json:"showing"`
	Regularizations []RegularizationDetailResponse `json:"regularizations"`
}
