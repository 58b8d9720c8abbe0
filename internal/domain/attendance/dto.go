package attendance

import (
	"time"

	"github.com/nucleus-hris/nucleus-backend-go/internal/pkg/validator"
)

// ========================================
// REALTIME EVENTS
// ========================================

// Outbound realtime event names.
const (
	EventInitialCheckedInUsers  = "initialCheckedInUsers"
	EventInitialCheckedOutUsers = "initialCheckedOutUsers"
	EventUpdateCheckedInUsers   = "updateCheckedInUsers"
	EventUpdateCheckedOutUsers  = "updateCheckedOutUsers"
	EventCheckIn                = "checkIn"
	EventCheckOut               = "checkOut"
	EventCheckInError           = "checkInError"
	EventCheckOutError          = "checkOutError"
)

// AttendanceView is the wire shape of an attendance record.
type AttendanceView struct {
	ID               int64      `json:"id"`
	EmployeeID       int64      `json:"employee_id"`
	Date             string     `json:"date"`
	CheckIn          time.Time  `json:"check_in"`
	CheckOut         *time.Time `json:"check_out"`
	ShiftID          *int64     `json:"shift_id"`
	AttendanceStatus string     `json:"attendance_status"`
	TotalHours       string     `json:"total_hours"`
	MultipleInOut    []Interval `json:"multiple_in_out"`
	IsActive         bool       `json:"is_active"`
	AttendanceMedium string     `json:"attendance_medium"`
}

// NewAttendanceView maps a record to its wire shape.
func NewAttendanceView(a Attendance) AttendanceView {
	intervals := a.MultipleInOut
	if intervals == nil {
		intervals = []Interval{}
	}
	return AttendanceView{
		ID:               a.ID,
		EmployeeID:       a.EmployeeID,
		Date:             a.Date.Format("2006-01-02"),
		CheckIn:          a.CheckIn,
		CheckOut:         a.CheckOut,
		ShiftID:          a.ShiftID,
		AttendanceStatus: a.AttendanceStatus,
		TotalHours:       a.TotalHours,
		MultipleInOut:    intervals,
		IsActive:         a.IsActive,
		AttendanceMedium: a.AttendanceMedium,
	}
}

// CheckInEvent is broadcast after an accepted check-in.
type CheckInEvent struct {
	EmployeeID    int64             `json:"employee_id"`
	CheckIn       time.Time         `json:"check_in"`
	CheckInStatus PunctualityResult `json:"checkInStatus"`
	Data          AttendanceView    `json:"data"`
}

// CheckOutEvent is broadcast after an accepted check-out.
type CheckOutEvent struct {
	EmployeeID     int64             `json:"employee_id"`
	CheckOut       time.Time         `json:"check_out"`
	CheckOutStatus PunctualityResult `json:"checkOutStatus"`
	Data           AttendanceView    `json:"data"`
}

// ErrorEvent is sent to the originating connection only.
type ErrorEvent struct {
	Error string `json:"error"`
}

// CheckOutResult distinguishes an applied check-out from one with no open record.
type CheckOutResult string

const (
	CheckOutApplied CheckOutResult = "checked_out"
	CheckOutOrphan  CheckOutResult = "orphan"
)

// CheckOutOutcome is returned to the transport after a check-out event.
type CheckOutOutcome struct {
	Result CheckOutResult `json:"result"`
	Event  *CheckOutEvent `json:"event,omitempty"`
}

// EventRequest is the inbound realtime payload.
type EventRequest struct {
	EmployeeID int64 `json:"employee_id"`
}

func (r *EventRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a positive number",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========================================
// QUERY DTOs
// ========================================

type CalendarViewRequest struct {
	EmployeeID int64  `json:"employee_id"`
	StartDate  string `json:"start_date"` // YYYY-MM-DD, inclusive
	EndDate    string `json:"end_date"`   // YYYY-MM-DD, exclusive
}

func (r *CalendarViewRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a positive number",
		})
	}

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if startOK && endOK && !start.Before(end) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be after start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CalendarDetail is one record inside a calendar day.
type CalendarDetail struct {
	Date             string     `json:"date"`
	CheckIn          time.Time  `json:"check_in"`
	CheckOut         *time.Time `json:"check_out"`
	AttendanceStatus string     `json:"attendance_status"`
	TotalHours       string     `json:"total_hours"`
	ShiftID          *int64     `json:"shift_id"`
	ShiftStartTime   *string    `json:"shift_start_time"`
	ShiftEndTime     *string    `json:"shift_end_time"`
	MultipleInOut    []Interval `json:"multiple_in_out"`
}

type CalendarViewResponse struct {
	TotalAttendanceDays int                `json:"total_attendance_days"`
	TotalWeekHours      string             `json:"total_week_hours"`
	AverageCheckInTime  string             `json:"average_check_in_time"`
	AverageCheckOutTime *string            `json:"average_check_out_time"`
	AttendanceDetails   [][]CalendarDetail `json:"attendance_details"`
}

type DayBoundsRequest struct {
	EmployeeID int64  `json:"employee_id"`
	Date       string `json:"date"` // YYYY-MM-DD
}

func (r *DayBoundsRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a positive number",
		})
	}

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DayBoundsResponse holds the earliest check-in and latest check-out of a day.
type DayBoundsResponse struct {
	CheckIn  *time.Time `json:"checkIn"`
	CheckOut *time.Time `json:"checkOut"`
}
