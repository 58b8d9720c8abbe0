package attendance

import "errors"

// Attendance domain errors
var (
	// Engine errors
	ErrNoShiftMatched    = errors.New("no shift found for the current time")
	ErrAlreadyCheckedIn  = errors.New("user is already checked in")
	ErrAlreadyCheckedOut = errors.New("user is already checked out")

	// Lookup errors
	ErrShiftNotFound      = errors.New("shift not found")
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrSessionNotFound    = errors.New("realtime session not found")
)
