package attendance

import (
	"context"
	"time"
)

// SessionState is the per-connection check-in/check-out progress.
type SessionState string

const (
	SessionNone       SessionState = "no_session"
	SessionCheckedIn  SessionState = "checked_in"
	SessionCheckedOut SessionState = "checked_out"
)

// Session tracks one realtime connection. A connection checks in at most once and
// checks out at most once; both rules are enforced through State.
type Session struct {
	ConnectionID string       `json:"connection_id"`
	EmployeeID   int64        `json:"employee_id,omitempty"`
	State        SessionState `json:"state"`
	ConnectedAt  time.Time    `json:"connected_at"`

	// CheckIn is the check-in tracked on this connection, used as the start of the interval
	// closed by the next check-out.
	CheckIn      *time.Time `json:"check_in,omitempty"`
	CheckedOutAt *time.Time `json:"checked_out_at,omitempty"`
	Intervals    []Interval `json:"intervals"`

	CheckedInEntry  *CheckedInEntry  `json:"checked_in_entry,omitempty"`
	CheckedOutEntry *CheckedOutEntry `json:"checked_out_entry,omitempty"`
}

// NewSession returns a session in the NoSession state.
func NewSession(connectionID string, connectedAt time.Time) Session {
	return Session{
		ConnectionID: connectionID,
		State:        SessionNone,
		ConnectedAt:  connectedAt,
		Intervals:    []Interval{},
	}
}

// CanCheckIn reports whether a check-in is accepted on this connection.
func (s Session) CanCheckIn() bool {
	return s.State == SessionNone
}

// CanCheckOut reports whether a check-out is accepted on this connection.
func (s Session) CanCheckOut() bool {
	return s.State != SessionCheckedOut
}

// CheckedInEntry is one row of the live checked-in roster.
type CheckedInEntry struct {
	CheckInData   AttendanceView    `json:"checkInData"`
	CheckInStatus PunctualityResult `json:"checkInStatus"`
}

// CheckedOutEntry is one row of the live checked-out roster.
type CheckedOutEntry struct {
	CheckOutData AttendanceView `json:"checkOutData"`
	TotalHours   string         `json:"total_hours"`
}

// SessionRegistry stores connection sessions. Implementations may be process-local or shared
// between instances.
type SessionRegistry interface {
	// Get returns ErrSessionNotFound when the connection is unknown.
	Get(ctx context.Context, connectionID string) (Session, error)
	Save(ctx context.Context, session Session) error
	Delete(ctx context.Context, connectionID string) error
	// List returns all sessions ordered by ConnectedAt.
	List(ctx context.Context) ([]Session, error)
}

// Broadcaster delivers outbound realtime events.
type Broadcaster interface {
	Broadcast(event string, payload interface{})
	SendTo(connectionID string, event string, payload interface{})
}
