package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/nucleus-hris/nucleus-backend-go/internal/domain/attendance"
	"github.com/nucleus-hris/nucleus-backend-go/internal/pkg/timemath"
)

// EngineConfig holds the attendance engine settings.
type EngineConfig struct {
	FixedOffsetMinutes int    // default: 330 (UTC+05:30)
	Medium             string // default: "Websocket"
}

type engineImpl struct {
	shiftRepo   attendance.ShiftRepository
	sessions    attendance.SessionRegistry
	broadcaster attendance.Broadcaster
	clock       timemath.Clock
	config      EngineConfig
	days        *dayState

	// Events for one connection are applied one at a time; different connections run freely.
	connLocks sync.Map // connectionID -> *sync.Mutex
}

// NewEngine creates the realtime attendance engine.
func NewEngine(
	shiftRepo attendance.ShiftRepository,
	attendanceRepo attendance.AttendanceRepository,
	sessions attendance.SessionRegistry,
	broadcaster attendance.Broadcaster,
	clock timemath.Clock,
	cfg EngineConfig,
) attendance.Engine {
	if cfg.FixedOffsetMinutes == 0 {
		cfg.FixedOffsetMinutes = timemath.DefaultFixedOffsetMinutes
	}
	if cfg.Medium == "" {
		cfg.Medium = attendance.MediumWebsocket
	}
	if clock == nil {
		clock = timemath.SystemClock()
	}

	return &engineImpl{
		shiftRepo:   shiftRepo,
		sessions:    sessions,
		broadcaster: broadcaster,
		clock:       clock,
		config:      cfg,
		days: &dayState{
			attendanceRepo: attendanceRepo,
			shiftRepo:      shiftRepo,
			medium:         cfg.Medium,
		},
	}
}

// Connect implements attendance.Engine.
func (e *engineImpl) Connect(ctx context.Context, connectionID string) error {
	mu := e.lock(connectionID)
	defer mu.Unlock()

	if err := e.sessions.Save(ctx, attendance.NewSession(connectionID, e.clock.Now())); err != nil {
		return fmt.Errorf("failed to register session: %w", err)
	}

	checkedIn, checkedOut, err := e.rosters(ctx)
	if err != nil {
		return err
	}
	e.broadcaster.SendTo(connectionID, attendance.EventInitialCheckedInUsers, checkedIn)
	e.broadcaster.SendTo(connectionID, attendance.EventInitialCheckedOutUsers, checkedOut)

	slog.Info("Client connected", "connection_id", connectionID)
	return nil
}

// CheckIn implements attendance.Engine.
func (e *engineImpl) CheckIn(ctx context.Context, connectionID string, employeeID int64) (attendance.CheckInEvent, error) {
	mu := e.lock(connectionID)
	defer mu.Unlock()

	session, err := e.loadSession(ctx, connectionID, mu)
	if err != nil {
		return attendance.CheckInEvent{}, e.rejectCheckIn(connectionID, err)
	}
	if !session.CanCheckIn() {
		return attendance.CheckInEvent{}, e.rejectCheckIn(connectionID, attendance.ErrAlreadyCheckedIn)
	}

	checkIn := e.localNow()

	shifts, err := e.shiftRepo.FindAll(ctx)
	if err != nil {
		return attendance.CheckInEvent{}, e.rejectCheckIn(connectionID, fmt.Errorf("failed to load shifts: %w", err))
	}

	shift, err := ResolveShift(shifts, checkIn)
	if err != nil {
		return attendance.CheckInEvent{}, e.rejectCheckIn(connectionID, err)
	}
	slog.Info("Shift resolved", "employee_id", employeeID, "shift_id", shift.ID, "check_in", checkIn)

	status, err := ClassifyCheckIn(checkIn, shift.From)
	if err != nil {
		return attendance.CheckInEvent{}, e.rejectCheckIn(connectionID, err)
	}
	slog.Info("Check-in classified",
		"employee_id", employeeID,
		"status", status.Status,
		"time_difference", status.TimeDifference)

	record, err := e.days.openCheckIn(ctx, &session, employeeID, checkIn, shift)
	if err != nil {
		return attendance.CheckInEvent{}, e.rejectCheckIn(connectionID, err)
	}

	view := attendance.NewAttendanceView(record)
	session.CheckedInEntry = &attendance.CheckedInEntry{CheckInData: view, CheckInStatus: status}
	if err := e.sessions.Save(ctx, session); err != nil {
		return attendance.CheckInEvent{}, e.rejectCheckIn(connectionID, fmt.Errorf("failed to save session: %w", err))
	}

	event := attendance.CheckInEvent{
		EmployeeID:    employeeID,
		CheckIn:       checkIn,
		CheckInStatus: status,
		Data:          view,
	}

	checkedIn, _, err := e.rosters(ctx)
	if err != nil {
		slog.Error("Failed to build checked-in roster", "error", err)
	} else {
		e.broadcaster.Broadcast(attendance.EventUpdateCheckedInUsers, checkedIn)
	}
	e.broadcaster.Broadcast(attendance.EventCheckIn, event)

	return event, nil
}

// CheckOut implements attendance.Engine.
func (e *engineImpl) CheckOut(ctx context.Context, connectionID string, employeeID int64) (attendance.CheckOutOutcome, error) {
	mu := e.lock(connectionID)
	defer mu.Unlock()

	session, err := e.loadSession(ctx, connectionID, mu)
	if err != nil {
		return attendance.CheckOutOutcome{}, e.rejectCheckOut(connectionID, err)
	}
	if !session.CanCheckOut() {
		return attendance.CheckOutOutcome{}, e.rejectCheckOut(connectionID, attendance.ErrAlreadyCheckedOut)
	}

	checkOut := e.localNow()
	slog.Info("User checking out", "employee_id", employeeID, "check_out", checkOut)

	closed, err := e.days.closeCheckOut(ctx, &session, employeeID, checkOut)
	if err != nil {
		return attendance.CheckOutOutcome{}, e.rejectCheckOut(connectionID, err)
	}
	if closed == nil {
		// Nothing was open for the day: no record is written and no event is broadcast.
		slog.Warn("Check-out without an open attendance record", "employee_id", employeeID, "connection_id", connectionID)
		return attendance.CheckOutOutcome{Result: attendance.CheckOutOrphan}, nil
	}
	slog.Info("Check-out classified",
		"employee_id", employeeID,
		"status", closed.status.Status,
		"time_difference", closed.status.TimeDifference,
		"total_hours", closed.totalHours)

	view := attendance.NewAttendanceView(closed.record)
	session.CheckedOutEntry = &attendance.CheckedOutEntry{CheckOutData: view, TotalHours: closed.totalHours}
	if err := e.sessions.Save(ctx, session); err != nil {
		return attendance.CheckOutOutcome{}, e.rejectCheckOut(connectionID, fmt.Errorf("failed to save session: %w", err))
	}

	event := attendance.CheckOutEvent{
		EmployeeID:     employeeID,
		CheckOut:       checkOut,
		CheckOutStatus: closed.status,
		Data:           view,
	}

	_, checkedOut, err := e.rosters(ctx)
	if err != nil {
		slog.Error("Failed to build checked-out roster", "error", err)
	} else {
		e.broadcaster.Broadcast(attendance.EventUpdateCheckedOutUsers, checkedOut)
	}
	e.broadcaster.Broadcast(attendance.EventCheckOut, event)

	return attendance.CheckOutOutcome{Result: attendance.CheckOutApplied, Event: &event}, nil
}

// Disconnect implements attendance.Engine.
func (e *engineImpl) Disconnect(ctx context.Context, connectionID string) error {
	mu := e.lock(connectionID)
	session, err := e.sessions.Get(ctx, connectionID)
	if err == nil {
		err = e.sessions.Delete(ctx, connectionID)
	}
	e.forget(connectionID, mu)
	mu.Unlock()

	if errors.Is(err, attendance.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to discard session: %w", err)
	}

	slog.Info("Client disconnected", "connection_id", connectionID, "state", session.State)

	if session.CheckedInEntry == nil && session.CheckedOutEntry == nil {
		return nil
	}
	checkedIn, checkedOut, err := e.rosters(ctx)
	if err != nil {
		return err
	}
	if session.CheckedInEntry != nil {
		e.broadcaster.Broadcast(attendance.EventUpdateCheckedInUsers, checkedIn)
	}
	if session.CheckedOutEntry != nil {
		e.broadcaster.Broadcast(attendance.EventUpdateCheckedOutUsers, checkedOut)
	}
	return nil
}

// localNow returns the current instant shifted to the configured wall clock.
func (e *engineImpl) localNow() time.Time {
	now := e.clock.Now()
	return timemath.ApplyLocalOffset(now, e.config.FixedOffsetMinutes, e.clock.OffsetMinutes(now))
}

// loadSession returns the session registered by Connect. Connections that were never
// opened, or already disconnected, get ErrSessionNotFound and their lock entry is dropped.
func (e *engineImpl) loadSession(ctx context.Context, connectionID string, mu *sync.Mutex) (attendance.Session, error) {
	session, err := e.sessions.Get(ctx, connectionID)
	if errors.Is(err, attendance.ErrSessionNotFound) {
		e.forget(connectionID, mu)
		return attendance.Session{}, attendance.ErrSessionNotFound
	}
	if err != nil {
		return attendance.Session{}, fmt.Errorf("failed to load session: %w", err)
	}
	return session, nil
}

// lock serializes events for one connection. The caller unlocks the returned mutex.
func (e *engineImpl) lock(connectionID string) *sync.Mutex {
	v, _ := e.connLocks.LoadOrStore(connectionID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu
}

// forget drops the connection's lock entry. Callers hold mu.
func (e *engineImpl) forget(connectionID string, mu *sync.Mutex) {
	e.connLocks.CompareAndDelete(connectionID, mu)
}

func (e *engineImpl) rosters(ctx context.Context) ([]attendance.CheckedInEntry, []attendance.CheckedOutEntry, error) {
	sessions, err := e.sessions.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	slices.SortStableFunc(sessions, func(a, b attendance.Session) int {
		return compareTimePtr(a.CheckIn, b.CheckIn)
	})
	checkedIn := make([]attendance.CheckedInEntry, 0, len(sessions))
	for _, s := range sessions {
		if s.CheckedInEntry != nil {
			checkedIn = append(checkedIn, *s.CheckedInEntry)
		}
	}

	slices.SortStableFunc(sessions, func(a, b attendance.Session) int {
		return compareTimePtr(a.CheckedOutAt, b.CheckedOutAt)
	})
	checkedOut := make([]attendance.CheckedOutEntry, 0, len(sessions))
	for _, s := range sessions {
		if s.CheckedOutEntry != nil {
			checkedOut = append(checkedOut, *s.CheckedOutEntry)
		}
	}

	return checkedIn, checkedOut, nil
}

func (e *engineImpl) rejectCheckIn(connectionID string, err error) error {
	slog.Warn("Check-in rejected", "connection_id", connectionID, "error", err)
	e.broadcaster.SendTo(connectionID, attendance.EventCheckInError, attendance.ErrorEvent{Error: errorMessage(err, "Failed to check in.")})
	return err
}

func (e *engineImpl) rejectCheckOut(connectionID string, err error) error {
	slog.Warn("Check-out rejected", "connection_id", connectionID, "error", err)
	e.broadcaster.SendTo(connectionID, attendance.EventCheckOutError, attendance.ErrorEvent{Error: errorMessage(err, "Failed to check out.")})
	return err
}

// errorMessage maps engine errors to the text shown to the client.
func errorMessage(err error, fallback string) string {
	switch {
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		return "User is already checked in."
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		return "User is already checked out."
	case errors.Is(err, attendance.ErrNoShiftMatched):
		return "No shift found for the current time."
	case errors.Is(err, attendance.ErrShiftNotFound):
		return "Shift assigned to the attendance record no longer exists."
	case errors.Is(err, attendance.ErrSessionNotFound):
		return "Realtime connection not found."
	default:
		return fallback
	}
}

func compareTimePtr(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return a.Compare(*b)
	}
}
