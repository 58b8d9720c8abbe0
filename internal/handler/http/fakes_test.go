package http

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/nucleus-hris/nucleus-backend-go/internal/domain/attendance"
	"github.com/nucleus-hris/nucleus-backend-go/internal/domain/regularization"
	"github.com/nucleus-hris/nucleus-backend-go/internal/handler/http/middleware"
	"github.com/nucleus-hris/nucleus-backend-go/internal/pkg/jwt"
	"github.com/nucleus-hris/nucleus-backend-go/internal/pkg/sse"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "handler-test-secret"

type fakeEngine struct {
	mu           sync.Mutex
	connected    []string
	disconnected []string
	checkIns     []string
	checkInErr   error
	checkOut     attendance.CheckOutOutcome
	checkOutErr  error
}

func (f *fakeEngine) Connect(ctx context.Context, connectionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = append(f.connected, connectionID)
	return nil
}

func (f *fakeEngine) CheckIn(ctx context.Context, connectionID string, employeeID int64) (attendance.CheckInEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checkIns = append(f.checkIns, connectionID+":"+strconv.FormatInt(employeeID, 10))
	if f.checkInErr != nil {
		return attendance.CheckInEvent{}, f.checkInErr
	}
	return attendance.CheckInEvent{
		EmployeeID:    employeeID,
		CheckInStatus: attendance.PunctualityResult{Status: attendance.OnTime, TimeDifference: "00:00"},
	}, nil
}

func (f *fakeEngine) CheckOut(ctx context.Context, connectionID string, employeeID int64) (attendance.CheckOutOutcome, error) {
	return f.checkOut, f.checkOutErr
}

func (f *fakeEngine) Disconnect(ctx context.Context, connectionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnected = append(f.disconnected, connectionID)
	return nil
}

func (f *fakeEngine) disconnectedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.disconnected)
}

type fakeQueryService struct {
	calendar  attendance.CalendarViewResponse
	dayBounds attendance.DayBoundsResponse
	err       error
	lastCal   attendance.CalendarViewRequest
}

func (f *fakeQueryService) CalendarView(ctx context.Context, req attendance.CalendarViewRequest) (attendance.CalendarViewResponse, error) {
	f.lastCal = req
	if err := req.Validate(); err != nil {
		return attendance.CalendarViewResponse{}, err
	}
	return f.calendar, f.err
}

func (f *fakeQueryService) DayBounds(ctx context.Context, req attendance.DayBoundsRequest) (attendance.DayBoundsResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.DayBoundsResponse{}, err
	}
	return f.dayBounds, f.err
}

type fakeRegularizationService struct {
	err         error
	lastApprove regularization.ApproveRegularizationRequest
	lastUpdate  regularization.UpdateRegularizationRequest
	lastFilter  regularization.RegularizationFilter
	deleted     []int64
}

func (f *fakeRegularizationService) Create(ctx context.Context, req regularization.CreateRegularizationRequest) (regularization.RegularizationResponse, error) {
	if err := req.Validate(); err != nil {
		return regularization.RegularizationResponse{}, err
	}
	if f.err != nil {
		return regularization.RegularizationResponse{}, f.err
	}
	return regularization.RegularizationResponse{ID: 1, AttendanceID: req.AttendanceID, ApprovalStatus: regularization.ApprovalPending}, nil
}

func (f *fakeRegularizationService) List(ctx context.Context, filter regularization.RegularizationFilter) (regularization.ListRegularizationResponse, error) {
	f.lastFilter = filter
	return regularization.ListRegularizationResponse{
		Page:            filter.Page,
		Limit:           filter.Limit,
		Showing:         "0 of 0 results",
		Regularizations: []regularization.RegularizationDetailResponse{},
	}, f.err
}

func (f *fakeRegularizationService) Get(ctx context.Context, id int64) (regularization.RegularizationDetailResponse, error) {
	if f.err != nil {
		return regularization.RegularizationDetailResponse{}, f.err
	}
	return regularization.RegularizationDetailResponse{
		RegularizationResponse: regularization.RegularizationResponse{ID: id},
	}, nil
}

func (f *fakeRegularizationService) UpdateDetails(ctx context.Context, req regularization.UpdateRegularizationRequest) (regularization.RegularizationResponse, error) {
	f.lastUpdate = req
	if f.err != nil {
		return regularization.RegularizationResponse{}, f.err
	}
	return regularization.RegularizationResponse{ID: req.ID}, nil
}

func (f *fakeRegularizationService) Approve(ctx context.Context, req regularization.ApproveRegularizationRequest) (regularization.RegularizationResponse, error) {
	f.lastApprove = req
	if f.err != nil {
		return regularization.RegularizationResponse{}, f.err
	}
	approver := req.ApprovedBy
	return regularization.RegularizationResponse{ID: req.ID, ApprovalStatus: regularization.ApprovalApproved, ApprovedBy: &approver}, nil
}

func (f *fakeRegularizationService) Delete(ctx context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type testServer struct {
	router  *chi.Mux
	jwt     jwt.Service
	engine  *fakeEngine
	query   *fakeQueryService
	regular *fakeRegularizationService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	jwtSvc := jwt.NewJWTService(handlerTestSecret, "1h")
	ts := &testServer{
		jwt:     jwtSvc,
		engine:  &fakeEngine{},
		query:   &fakeQueryService{},
		regular: &fakeRegularizationService{},
	}
	ts.router = NewRouter(
		RouterConfig{AllowedOrigins: []string{"http://localhost:3000"}, Env: "test", Version: "test"},
		jwtSvc,
		NewRealtimeHandler(ts.engine, sse.NewHub(), jwtSvc),
		NewAttendanceHandler(ts.query),
		NewRegularizationHandler(ts.regular),
	)
	return ts
}

func (ts *testServer) bearer(t *testing.T, userID, role string) string {
	t.Helper()
	token, _, err := ts.jwt.GenerateAccessToken(userID, nil, role)
	require.NoError(t, err)
	return "Bearer " + token
}

func (ts *testServer) employeeAuth(t *testing.T) string {
	return ts.bearer(t, "7", middleware.RoleEmployee)
}

func (ts *testServer) managerAuth(t *testing.T) string {
	return ts.bearer(t, "42", middleware.RoleManager)
}

func authorized(req *http.Request, auth string) *http.Request {
	req.Header.Set("Authorization", auth)
	return req
}
