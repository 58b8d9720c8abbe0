package attendance

import (
	"context"
)

// Engine applies realtime check-in/check-out events to the day records.
type Engine interface {
	// Connect registers a connection and sends it the current rosters.
	Connect(ctx context.Context, connectionID string) error

	// CheckIn handles a check-in event delivered on connectionID.
	CheckIn(ctx context.Context, connectionID string, employeeID int64) (CheckInEvent, error)

	// CheckOut handles a check-out event delivered on connectionID.
	CheckOut(ctx context.Context, connectionID string, employeeID int64) (CheckOutOutcome, error)

	// Disconnect discards the connection's tracking. Persisted records are unaffected.
	Disconnect(ctx context.Context, connectionID string) error
}

// QueryService serves read-side attendance views.
type QueryService interface {
	// CalendarView summarises an employee's records for a date range.
	CalendarView(ctx context.Context, req CalendarViewRequest) (CalendarViewResponse, error)

	// DayBounds returns the first check-in and last check-out of a day.
	DayBounds(ctx context.Context, req DayBoundsRequest) (DayBoundsResponse, error)
}
