package attendance

import (
	"time"
)

// Shift is a configured daily window. From and To are time-of-day strings such as "09:00 AM".
type Shift struct {
	ID        int64
	Name      string
	From      string
	To        string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval is one contiguous check-in to check-out span within a day.
type Interval struct {
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
}

// Attendance is the one-per-employee-per-day record.
type Attendance struct {
	ID               int64
	EmployeeID       int64
	Date             time.Time
	CheckIn          time.Time
	CheckOut         *time.Time
	ShiftID          *int64
	AttendanceStatus string
	TotalHours       string
	MultipleInOut    []Interval
	IsActive         bool
	AttendanceMedium string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Joined
	ShiftFrom *string
	ShiftTo   *string
}

// IsOpen reports whether the day's current interval has no check-out yet.
func (a Attendance) IsOpen() bool {
	return a.CheckOut == nil
}

// AttendanceUpdate is the patch written on check-out, by regularization approval and by
// maintenance jobs. Nil fields are left unchanged.
type AttendanceUpdate struct {
	CheckIn       *time.Time
	CheckOut      *time.Time
	ClearCheckOut bool
	TotalHours    *string
	IsActive      *bool
	MultipleInOut []Interval
}

const (
	StatusPresent = "Present"

	TotalHoursZero = "00:00:00"

	MediumWebsocket = "Websocket"
)

type PunctualityStatus string

const (
	EarlyCheckIn  PunctualityStatus = "Early Check-in"
	LateCheckIn   PunctualityStatus = "Late Check-in"
	OnTime        PunctualityStatus = "On Time"
	EarlyCheckout PunctualityStatus = "Early Checkout"
	LateCheckout  PunctualityStatus = "Late Checkout"
)

// PunctualityResult classifies an event against its shift boundary. TimeDifference is "HH:MM".
type PunctualityResult struct {
	Status         PunctualityStatus `json:"status"`
	TimeDifference string            `json:"timeDifference"`
}
