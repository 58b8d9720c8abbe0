package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nucleus-hris/nucleus-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Calendar - records found
func TestAttendanceHandler_Calendar_Success(t *testing.T) {
	ts := newTestServer(t)
	ts.query.calendar = attendance.CalendarViewResponse{
		TotalAttendanceDays: 1,
		TotalWeekHours:      "08:00:00",
		AverageCheckInTime:  "09:00:00",
		AttendanceDetails:   [][]attendance.CalendarDetail{{{Date: "2024-03-04", TotalHours: "08:00:00"}}},
	}

	req := authorized(httptest.NewRequest(http.MethodGet,
		"/api/v1/attendance/calendar?employee_id=7&start_date=2024-03-04&end_date=2024-03-11", nil), ts.employeeAuth(t))
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	assert.True(t, resp["success"].(bool))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "08:00:00", data["total_week_hours"])
	assert.Equal(t, int64(7), ts.query.lastCal.EmployeeID)
	assert.Equal(t, "2024-03-04", ts.query.lastCal.StartDate)
}

// Test Calendar - empty range still succeeds
func TestAttendanceHandler_Calendar_Empty(t *testing.T) {
	ts := newTestServer(t)
	ts.query.calendar = attendance.CalendarViewResponse{
		TotalWeekHours:    "00:00:00",
		AttendanceDetails: [][]attendance.CalendarDetail{},
	}

	req := authorized(httptest.NewRequest(http.MethodGet,
		"/api/v1/attendance/calendar?employee_id=7&start_date=2024-03-04&end_date=2024-03-11", nil), ts.employeeAuth(t))
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, "No attendance records found for the employee", resp["message"])
}

// Test Calendar - bad query parameters
func TestAttendanceHandler_Calendar_Invalid(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name  string
		query string
	}{
		{"non numeric employee", "employee_id=abc&start_date=2024-03-04&end_date=2024-03-11"},
		{"bad date", "employee_id=7&start_date=04-03-2024&end_date=2024-03-11"},
		{"end before start", "employee_id=7&start_date=2024-03-11&end_date=2024-03-04"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := authorized(httptest.NewRequest(http.MethodGet, "/api/v1/attendance/calendar?"+tt.query, nil), ts.employeeAuth(t))
			w := httptest.NewRecorder()
			ts.router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			resp := decodeBody(t, w)
			assert.False(t, resp["success"].(bool))
		})
	}
}

// Test Calendar - repository failures are not leaked
func TestAttendanceHandler_Calendar_InternalError(t *testing.T) {
	ts := newTestServer(t)
	ts.query.err = errors.New("connection reset")

	req := authorized(httptest.NewRequest(http.MethodGet,
		"/api/v1/attendance/calendar?employee_id=7&start_date=2024-03-04&end_date=2024-03-11", nil), ts.employeeAuth(t))
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection reset")
}

// Test DayBounds - first check-in and last check-out
func TestAttendanceHandler_DayBounds(t *testing.T) {
	ts := newTestServer(t)
	in := time.Date(2024, 3, 4, 9, 5, 0, 0, time.UTC)
	out := time.Date(2024, 3, 4, 18, 10, 0, 0, time.UTC)
	ts.query.dayBounds = attendance.DayBoundsResponse{CheckIn: &in, CheckOut: &out}

	req := authorized(httptest.NewRequest(http.MethodGet,
		"/api/v1/attendance/check-in-check-out?employee_id=7&date=2024-03-04", nil), ts.employeeAuth(t))
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "2024-03-04T09:05:00Z", data["checkIn"])
	assert.Equal(t, "2024-03-04T18:10:00Z", data["checkOut"])
}

// Test DayBounds - no records for the day
func TestAttendanceHandler_DayBounds_NotFound(t *testing.T) {
	ts := newTestServer(t)
	ts.query.err = attendance.ErrAttendanceNotFound

	req := authorized(httptest.NewRequest(http.MethodGet,
		"/api/v1/attendance/check-in-check-out?employee_id=7&date=2024-03-04", nil), ts.employeeAuth(t))
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
