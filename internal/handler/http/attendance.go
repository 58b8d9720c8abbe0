package http

import (
	"net/http"

	"github.com/nucleus-hris/nucleus-backend-go/internal/domain/attendance"
	"github.com/nucleus-hris/nucleus-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	Calendar(w http.ResponseWriter, r *http.Request)
	DayBounds(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	queryService attendance.QueryService
}

func NewAttendanceHandler(queryService attendance.QueryService) AttendanceHandler {
	return &attendanceHandlerImpl{
		queryService: queryService,
	}
}

// Calendar implements AttendanceHandler.
func (h *attendanceHandlerImpl) Calendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := attendance.CalendarViewRequest{
		EmployeeID: parseID(q.Get("employee_id")),
		StartDate:  q.Get("start_date"),
		EndDate:    q.Get("end_date"),
	}

	result, err := h.queryService.CalendarView(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if result.TotalAttendanceDays == 0 {
		response.SuccessWithMessage(w, "No attendance records found for the employee", result)
		return
	}
	response.Success(w, result)
}

// DayBounds implements AttendanceHandler.
func (h *attendanceHandlerImpl) DayBounds(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := attendance.DayBoundsRequest{
		EmployeeID: parseID(q.Get("employee_id")),
		Date:       q.Get("date"),
	}

	result, err := h.queryService.DayBounds(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
