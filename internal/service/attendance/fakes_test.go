package attendance

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nucleus-hris/nucleus-backend-go/internal/domain/attendance"
)

type fakeShiftRepo struct {
	shifts []attendance.Shift
	err    error
}

func (f *fakeShiftRepo) FindAll(ctx context.Context) ([]attendance.Shift, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.shifts, nil
}

func (f *fakeShiftRepo) GetByID(ctx context.Context, id int64) (attendance.Shift, error) {
	for _, s := range f.shifts {
		if s.ID == id {
			return s, nil
		}
	}
	return attendance.Shift{}, attendance.ErrShiftNotFound
}

type fakeAttendanceRepo struct {
	mu        sync.Mutex
	nextID    int64
	records   map[int64]attendance.Attendance
	createErr error
	updates   int
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[int64]attendance.Attendance)}
}

func (f *fakeAttendanceRepo) sorted() []attendance.Attendance {
	out := make([]attendance.Attendance, 0, len(f.records))
	for _, r := range f.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeAttendanceRepo) FindByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) (*attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.sorted() {
		if r.EmployeeID == employeeID && sameDay(r.Date, date) {
			rec := r
			return &rec, nil
		}
	}
	return nil, nil
}

func (f *fakeAttendanceRepo) FindLatestOpen(ctx context.Context, employeeID int64) (*attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *attendance.Attendance
	for _, r := range f.sorted() {
		if r.EmployeeID != employeeID || r.CheckOut != nil {
			continue
		}
		if latest == nil || r.CheckIn.After(latest.CheckIn) {
			rec := r
			latest = &rec
		}
	}
	return latest, nil
}

func (f *fakeAttendanceRepo) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return attendance.Attendance{}, f.createErr
	}
	for _, r := range f.records {
		if r.EmployeeID == a.EmployeeID && sameDay(r.Date, a.Date) {
			return r, nil
		}
	}
	f.nextID++
	a.ID = f.nextID
	if a.MultipleInOut == nil {
		a.MultipleInOut = []attendance.Interval{}
	}
	f.records[a.ID] = a
	return a, nil
}

func (f *fakeAttendanceRepo) Update(ctx context.Context, id int64, patch attendance.AttendanceUpdate) (attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.records[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	if patch.CheckIn != nil {
		r.CheckIn = *patch.CheckIn
	}
	switch {
	case patch.ClearCheckOut:
		r.CheckOut = nil
	case patch.CheckOut != nil:
		co := *patch.CheckOut
		r.CheckOut = &co
	}
	if patch.TotalHours != nil {
		r.TotalHours = *patch.TotalHours
	}
	if patch.IsActive != nil {
		r.IsActive = *patch.IsActive
	}
	if patch.MultipleInOut != nil {
		r.MultipleInOut = append([]attendance.Interval(nil), patch.MultipleInOut...)
	}
	f.records[id] = r
	f.updates++
	return r, nil
}

func (f *fakeAttendanceRepo) GetByID(ctx context.Context, id int64) (attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.records[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return r, nil
}

func (f *fakeAttendanceRepo) ListByEmployeeBetween(ctx context.Context, employeeID int64, from, to time.Time) ([]attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []attendance.Attendance
	for _, r := range f.sorted() {
		if r.EmployeeID == employeeID && !r.CheckIn.Before(from) && r.CheckIn.Before(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) ListByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) ([]attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []attendance.Attendance
	for _, r := range f.sorted() {
		if r.EmployeeID == employeeID && sameDay(r.Date, date) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) ListStaleOpen(ctx context.Context, before time.Time) ([]attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []attendance.Attendance
	for _, r := range f.sorted() {
		if r.CheckOut == nil && r.Date.Before(before) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

func sameDay(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

type sentEvent struct {
	to      string // empty for broadcasts
	event   string
	payload interface{}
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []sentEvent
}

func (b *recordingBroadcaster) Broadcast(event string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, sentEvent{event: event, payload: payload})
}

func (b *recordingBroadcaster) SendTo(connectionID string, event string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, sentEvent{to: connectionID, event: event, payload: payload})
}

func (b *recordingBroadcaster) named(event string) []sentEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []sentEvent
	for _, e := range b.events {
		if e.event == event {
			out = append(out, e)
		}
	}
	return out
}

func (b *recordingBroadcaster) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = nil
}
