package session

import (
	"context"
	"slices"
	"sync"

	"github.com/nucleus-hris/nucleus-backend-go/internal/domain/attendance"
)

// MemoryRegistry keeps sessions in process memory. Rosters built from it are only
// visible to clients connected to the same instance.
type MemoryRegistry struct {
	mu       sync.RWMutex
	sessions map[string]attendance.Session
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		sessions: make(map[string]attendance.Session),
	}
}

// Get implements attendance.SessionRegistry.
func (m *MemoryRegistry) Get(ctx context.Context, connectionID string) (attendance.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[connectionID]
	if !ok {
		return attendance.Session{}, attendance.ErrSessionNotFound
	}
	return clone(s), nil
}

// Save implements attendance.SessionRegistry.
func (m *MemoryRegistry) Save(ctx context.Context, s attendance.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[s.ConnectionID] = clone(s)
	return nil
}

// Delete implements attendance.SessionRegistry.
func (m *MemoryRegistry) Delete(ctx context.Context, connectionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[connectionID]; !ok {
		return attendance.ErrSessionNotFound
	}
	delete(m.sessions, connectionID)
	return nil
}

// List implements attendance.SessionRegistry.
func (m *MemoryRegistry) List(ctx context.Context) ([]attendance.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]attendance.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		result = append(result, clone(s))
	}
	SortByConnectedAt(result)
	return result, nil
}

// Count returns the number of registered connections.
func (m *MemoryRegistry) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// SortByConnectedAt orders sessions oldest first, breaking ties by connection id.
func SortByConnectedAt(sessions []attendance.Session) {
	slices.SortFunc(sessions, func(a, b attendance.Session) int {
		if c := a.ConnectedAt.Compare(b.ConnectedAt); c != 0 {
			return c
		}
		switch {
		case a.ConnectionID < b.ConnectionID:
			return -1
		case a.ConnectionID > b.ConnectionID:
			return 1
		}
		return 0
	})
}

// clone copies the interval slice so callers cannot mutate stored state.
func clone(s attendance.Session) attendance.Session {
	s.Intervals = append([]attendance.Interval(nil), s.Intervals...)
	return s
}
