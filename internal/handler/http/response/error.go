package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/nucleus-hris/nucleus-backend-go/internal/domain/attendance"
	"github.com/nucleus-hris/nucleus-backend-go/internal/domain/regularization"
	"github.com/nucleus-hris/nucleus-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "User is already checked in.")
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, "User is already checked out.")
	case errors.Is(err, attendance.ErrNoShiftMatched):
		BadRequest(w, "No shift found for the current time.", nil)
	case errors.Is(err, attendance.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrSessionNotFound):
		NotFound(w, "Realtime connection not found")

	// Regularization domain errors
	case errors.Is(err, regularization.ErrRegularizationNotFound):
		NotFound(w, "Regularization not found")
	case errors.Is(err, regularization.ErrAlreadyApproved):
		Conflict(w, "Regularization is already approved")
	case errors.Is(err, regularization.ErrCannotDeleteApproved):
		Conflict(w, "Cannot delete an approved regularization")
	case errors.Is(err, regularization.ErrAlreadyDeleted):
		Conflict(w, "Regularization is already deleted")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
