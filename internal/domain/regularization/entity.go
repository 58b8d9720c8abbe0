package regularization

import (
	"time"
)

const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
)

// Regularization is an employee's request to correct the times of an attendance record.
type Regularization struct {
	ID                    int64
	AttendanceID          int64
	Date                  time.Time
	RegularizedCheckIn    time.Time
	RegularizedCheckOut   time.Time
	RegularizedTotalHours string
	Reason                string
	Description           *string
	ApprovalStatus        string
	ApprovedBy            *int64
	ModifiedBy            *int64
	IsDeleted             bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (r Regularization) IsApproved() bool {
	return r.ApprovalStatus == ApprovalApproved
}

// AttendanceSummary is the attendance record a regularization points at, with its shift.
type AttendanceSummary struct {
	EmployeeID       int64
	Date             time.Time
	CheckIn          time.Time
	CheckOut         *time.Time
	AttendanceMedium string
	AttendanceStatus string
	ShiftName        *string
	ShiftFrom        *string
	ShiftTo          *string
}

// RegularizationWithAttendance is the detail view of a regularization.
type RegularizationWithAttendance struct {
	Regularization
	Attendance AttendanceSummary
}
