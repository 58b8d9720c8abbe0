package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nucleus-hris/nucleus-backend-go/internal/domain/regularization"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validCreateBody = `{
	"attendance_id": 11,
	"date": "2024-03-04",
	"regularized_check_in": "2024-03-04T09:00:00Z",
	"regularized_check_out": "2024-03-04T18:00:00Z",
	"reason": "Forgot to check out"
}`

// Test Create - Success
func TestRegularizationHandler_Create_Success(t *testing.T) {
	ts := newTestServer(t)

	req := authorized(httptest.NewRequest(http.MethodPost, "/api/v1/attendance/regularizations", strings.NewReader(validCreateBody)), ts.employeeAuth(t))
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	resp := decodeBody(t, w)
	assert.True(t, resp["success"].(bool))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(11), data["attendance_id"])
	assert.Equal(t, regularization.ApprovalPending, data["approval_status"])
}

// Test Create - validation errors
func TestRegularizationHandler_Create_Invalid(t *testing.T) {
	ts := newTestServer(t)

	body := `{"attendance_id": 11, "date": "2024-03-04", "regularized_check_in": "2024-03-04T18:00:00Z", "regularized_check_out": "2024-03-04T09:00:00Z", "reason": "x"}`
	req := authorized(httptest.NewRequest(http.MethodPost, "/api/v1/attendance/regularizations", strings.NewReader(body)), ts.employeeAuth(t))
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeBody(t, w)
	details := resp["error"].(map[string]interface{})["details"].(map[string]interface{})
	assert.Contains(t, details, "regularized_check_out")
}

// Test List - paging parameters and employee filter
func TestRegularizationHandler_List(t *testing.T) {
	ts := newTestServer(t)

	req := authorized(httptest.NewRequest(http.MethodGet, "/api/v1/attendance/regularizations?employee_id=7&page=2&limit=5", nil), ts.employeeAuth(t))
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, ts.regular.lastFilter.Page)
	assert.Equal(t, 5, ts.regular.lastFilter.Limit)
	require.NotNil(t, ts.regular.lastFilter.EmployeeID)
	assert.Equal(t, int64(7), *ts.regular.lastFilter.EmployeeID)

	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "0 of 0 results", data["showing"])
}

// Test List - no employee filter
func TestRegularizationHandler_List_AllEmployees(t *testing.T) {
	ts := newTestServer(t)

	req := authorized(httptest.NewRequest(http.MethodGet, "/api/v1/attendance/regularizations", nil), ts.employeeAuth(t))
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, ts.regular.lastFilter.EmployeeID)
	assert.Equal(t, 1, ts.regular.lastFilter.Page)
	assert.Equal(t, 10, ts.regular.lastFilter.Limit)
}

// Test Get - not found and bad id
func TestRegularizationHandler_Get(t *testing.T) {
	ts := newTestServer(t)

	req := authorized(httptest.NewRequest(http.MethodGet, "/api/v1/attendance/regularizations/abc", nil), ts.employeeAuth(t))
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	ts.regular.err = regularization.ErrRegularizationNotFound
	req = authorized(httptest.NewRequest(http.MethodGet, "/api/v1/attendance/regularizations/3", nil), ts.employeeAuth(t))
	w = httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// Test Update - id comes from the path, not the body
func TestRegularizationHandler_Update(t *testing.T) {
	ts := newTestServer(t)

	body := `{"id": 999, "reason": "Network outage"}`
	req := authorized(httptest.NewRequest(http.MethodPut, "/api/v1/attendance/regularizations/3", strings.NewReader(body)), ts.employeeAuth(t))
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(3), ts.regular.lastUpdate.ID)
	require.NotNil(t, ts.regular.lastUpdate.Reason)
	assert.Equal(t, "Network outage", *ts.regular.lastUpdate.Reason)
}

// Test Approve - employees are forbidden
func TestRegularizationHandler_Approve_Forbidden(t *testing.T) {
	ts := newTestServer(t)

	req := authorized(httptest.NewRequest(http.MethodPut, "/api/v1/attendance/regularizations/3/approve", nil), ts.employeeAuth(t))
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Zero(t, ts.regular.lastApprove.ID)
}

// Test Approve - manager approves, approver taken from the token
func TestRegularizationHandler_Approve_Success(t *testing.T) {
	ts := newTestServer(t)

	req := authorized(httptest.NewRequest(http.MethodPut, "/api/v1/attendance/regularizations/3/approve", nil), ts.managerAuth(t))
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, regularization.ApproveRegularizationRequest{ID: 3, ApprovedBy: 42}, ts.regular.lastApprove)

	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, regularization.ApprovalApproved, data["approval_status"])
}

// Test Approve - already approved
func TestRegularizationHandler_Approve_Conflict(t *testing.T) {
	ts := newTestServer(t)
	ts.regular.err = regularization.ErrAlreadyApproved

	req := authorized(httptest.NewRequest(http.MethodPut, "/api/v1/attendance/regularizations/3/approve", nil), ts.managerAuth(t))
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

// Test Delete - Success and approved rows
func TestRegularizationHandler_Delete(t *testing.T) {
	ts := newTestServer(t)

	req := authorized(httptest.NewRequest(http.MethodDelete, "/api/v1/attendance/regularizations/3", nil), ts.employeeAuth(t))
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int64{3}, ts.regular.deleted)

	ts.regular.err = regularization.ErrCannotDeleteApproved
	req = authorized(httptest.NewRequest(http.MethodDelete, "/api/v1/attendance/regularizations/4", nil), ts.employeeAuth(t))
	w = httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
}
