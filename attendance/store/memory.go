// Package store provides an in-memory implementation of every persistence
// interface in the engine. Used for testing and development; the production
// implementation lives in store/sqlite.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/notify"
	"github.com/warp/attendance-engine/policy"
	"github.com/warp/attendance-engine/schedule"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu sync.RWMutex

	events    map[attendance.EventID]attendance.CheckInEvent
	issues    map[attendance.IssueID]attendance.AttendanceIssue
	employees map[attendance.UserID]attendance.Employee
	actions   map[string][]attendance.PunctualityAction

	schedules map[string]schedule.ProductSchedule
	holidays  map[string]schedule.Holiday
	policies  map[string]policy.Document

	notifications []notify.Notification
}

func NewMemory() *Memory {
	return &Memory{
		events:    make(map[attendance.EventID]attendance.CheckInEvent),
		issues:    make(map[attendance.IssueID]attendance.AttendanceIssue),
		employees: make(map[attendance.UserID]attendance.Employee),
		actions:   make(map[string][]attendance.PunctualityAction),
		schedules: make(map[string]schedule.ProductSchedule),
		holidays:  make(map[string]schedule.Holiday),
		policies:  make(map[string]policy.Document),
	}
}

// =============================================================================
// CHECK-IN STORE
// =============================================================================

func (m *Memory) Insert(_ context.Context, ev attendance.CheckInEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[ev.ID] = ev
	return nil
}

func (m *Memory) Get(_ context.Context, id attendance.EventID) (attendance.CheckInEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ev, ok := m.events[id]
	if !ok {
		return attendance.CheckInEvent{}, attendance.ErrEventNotFound
	}
	return ev, nil
}

func (m *Memory) ListDay(_ context.Context, userID attendance.UserID, date attendance.Date) ([]attendance.CheckInEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []attendance.CheckInEvent
	for _, ev := range m.events {
		if ev.UserID == userID && ev.Date() == date {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (m *Memory) SetRequiresComment(_ context.Context, id attendance.EventID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ev, ok := m.events[id]
	if !ok {
		return attendance.ErrEventNotFound
	}
	ev.RequiresComment = true
	m.events[id] = ev
	return nil
}

func (m *Memory) SetComment(_ context.Context, id attendance.EventID, comment string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ev, ok := m.events[id]
	if !ok {
		return attendance.ErrEventNotFound
	}
	ev.Comment = comment
	m.events[id] = ev
	return nil
}

// =============================================================================
// ISSUE STORE
// =============================================================================

// InsertIssue enforces the (user, kind, date) uniqueness under the store
// lock, matching the conditional-insert contract. Resolved issues count:
// once an issue is closed, later sweeps must not raise it again.
func (m *Memory) InsertIssue(_ context.Context, issue attendance.AttendanceIssue) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.issues {
		if existing.UserID == issue.UserID &&
			existing.Kind == issue.Kind &&
			existing.Date == issue.Date {
			return attendance.ErrDuplicateIssue
		}
	}
	m.issues[issue.ID] = issue
	return nil
}

func (m *Memory) GetIssue(_ context.Context, id attendance.IssueID) (attendance.AttendanceIssue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	issue, ok := m.issues[id]
	if !ok {
		return attendance.AttendanceIssue{}, attendance.ErrIssueNotFound
	}
	return issue, nil
}

func (m *Memory) ListIssues(_ context.Context, filter attendance.IssueFilter) ([]attendance.AttendanceIssue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []attendance.AttendanceIssue
	for _, issue := range m.issues {
		if filter.UserID != nil && issue.UserID != *filter.UserID {
			continue
		}
		if filter.Date != nil && issue.Date != *filter.Date {
			continue
		}
		if filter.Kind != nil && issue.Kind != *filter.Kind {
			continue
		}
		if filter.Resolved != nil && issue.Resolved != *filter.Resolved {
			continue
		}
		out = append(out, issue)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DetectedAt.After(out[j].DetectedAt) })
	return out, nil
}

func (m *Memory) ResolveIssue(_ context.Context, id attendance.IssueID, by, resolution string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	issue, ok := m.issues[id]
	if !ok {
		return attendance.ErrIssueNotFound
	}
	issue.Resolved = true
	issue.ResolvedBy = by
	issue.Resolution = resolution
	issue.ResolvedAt = &at
	m.issues[id] = issue
	return nil
}

// =============================================================================
// EMPLOYEE STORE
// =============================================================================

func (m *Memory) GetEmployee(_ context.Context, id attendance.UserID) (attendance.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	emp, ok := m.employees[id]
	if !ok {
		return attendance.Employee{}, attendance.ErrEmployeeNotFound
	}
	return emp, nil
}

func (m *Memory) ListEmployees(_ context.Context) ([]attendance.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sortedEmployees(func(attendance.Employee) bool { return true }), nil
}

func (m *Memory) ListActive(_ context.Context) ([]attendance.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sortedEmployees(func(e attendance.Employee) bool { return e.Active }), nil
}

func (m *Memory) ListActiveAdmins(_ context.Context) ([]attendance.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sortedEmployees(func(e attendance.Employee) bool {
		return e.Active && e.Role.IsAdmin()
	}), nil
}

func (m *Memory) sortedEmployees(keep func(attendance.Employee) bool) []attendance.Employee {
	var out []attendance.Employee
	for _, emp := range m.employees {
		if keep(emp) {
			out = append(out, emp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Memory) PutEmployee(_ context.Context, e attendance.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[e.ID] = e
	return nil
}

func (m *Memory) AddLateMinutes(_ context.Context, id attendance.UserID, minutes int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	emp, ok := m.employees[id]
	if !ok {
		return attendance.ErrEmployeeNotFound
	}
	emp.TotalLateMinutes += minutes
	m.employees[id] = emp
	return nil
}

// =============================================================================
// ACTION LOG
// =============================================================================

func (m *Memory) AppendAction(_ context.Context, action attendance.PunctualityAction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions[action.SourceID] = append(m.actions[action.SourceID], action)
	return nil
}

func (m *Memory) ListBySource(_ context.Context, sourceID string) ([]attendance.PunctualityAction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]attendance.PunctualityAction, len(m.actions[sourceID]))
	copy(out, m.actions[sourceID])
	return out, nil
}

// =============================================================================
// SCHEDULE + HOLIDAY STORES
// =============================================================================

func (m *Memory) GetSchedule(_ context.Context, productLine string) (schedule.ProductSchedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.schedules[productLine]
	if !ok {
		return schedule.ProductSchedule{}, schedule.ErrScheduleNotFound
	}
	return s, nil
}

func (m *Memory) PutSchedule(_ context.Context, s schedule.ProductSchedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schedules[s.ProductLine] = s
	return nil
}

func (m *Memory) InsertHoliday(_ context.Context, h schedule.Holiday) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holidays[h.ID] = h
	return nil
}

func (m *Memory) DeleteHoliday(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.holidays, id)
	return nil
}

func (m *Memory) ListHolidays(_ context.Context) ([]schedule.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []schedule.Holiday
	for _, h := range m.holidays {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (m *Memory) ListHolidaysByDate(_ context.Context, date attendance.Date) ([]schedule.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []schedule.Holiday
	for _, h := range m.holidays {
		if h.Date == date {
			out = append(out, h)
		}
	}
	return out, nil
}

// =============================================================================
// POLICY DOCUMENT STORE
// =============================================================================

func (m *Memory) GetPolicyDoc(_ context.Context, scope string) (*policy.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.policies[scope]
	if !ok {
		return nil, nil
	}
	found := doc
	return &found, nil
}

func (m *Memory) PutPolicyDoc(_ context.Context, scope string, doc policy.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.policies[scope] = doc
	return nil
}

// =============================================================================
// NOTIFICATION STORE
// =============================================================================

func (m *Memory) InsertNotification(_ context.Context, n notify.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = append(m.notifications, n)
	return nil
}

func (m *Memory) ListByRecipient(_ context.Context, recipientID string) ([]notify.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []notify.Notification
	for _, n := range m.notifications {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *Memory) MarkRead(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.notifications {
		if m.notifications[i].ID == id {
			m.notifications[i].Read = true
			return nil
		}
	}
	return nil
}
