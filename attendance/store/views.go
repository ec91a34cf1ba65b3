package store

import (
	"context"
	"time"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/notify"
	"github.com/warp/attendance-engine/policy"
	"github.com/warp/attendance-engine/schedule"
)

// =============================================================================
// INTERFACE VIEWS
// =============================================================================
// One Memory backs every store interface; method names on Memory stay
// distinct per concern, and these thin views map them onto the domain
// interfaces. The sqlite store follows the same pattern.

// CheckIns returns the CheckInStore view. Memory's event methods already
// carry the interface names, so this is the identity view.
func (m *Memory) CheckIns() attendance.CheckInStore { return m }

func (m *Memory) Issues() attendance.IssueStore         { return issuesView{m} }
func (m *Memory) Employees() attendance.EmployeeStore   { return employeesView{m} }
func (m *Memory) Actions() attendance.ActionLog         { return actionsView{m} }
func (m *Memory) Schedules() schedule.Store             { return schedulesView{m} }
func (m *Memory) Holidays() schedule.HolidayStore       { return holidaysView{m} }
func (m *Memory) PolicyDocs() policy.DocumentStore      { return policyView{m} }
func (m *Memory) Notifications() notify.Store           { return notificationsView{m} }

type issuesView struct{ m *Memory }

func (v issuesView) Insert(ctx context.Context, issue attendance.AttendanceIssue) error {
	return v.m.InsertIssue(ctx, issue)
}

func (v issuesView) Get(ctx context.Context, id attendance.IssueID) (attendance.AttendanceIssue, error) {
	return v.m.GetIssue(ctx, id)
}

func (v issuesView) List(ctx context.Context, filter attendance.IssueFilter) ([]attendance.AttendanceIssue, error) {
	return v.m.ListIssues(ctx, filter)
}

func (v issuesView) Resolve(ctx context.Context, id attendance.IssueID, by, resolution string, at time.Time) error {
	return v.m.ResolveIssue(ctx, id, by, resolution, at)
}

type employeesView struct{ m *Memory }

func (v employeesView) Get(ctx context.Context, id attendance.UserID) (attendance.Employee, error) {
	return v.m.GetEmployee(ctx, id)
}

func (v employeesView) List(ctx context.Context) ([]attendance.Employee, error) {
	return v.m.ListEmployees(ctx)
}

func (v employeesView) ListActive(ctx context.Context) ([]attendance.Employee, error) {
	return v.m.ListActive(ctx)
}

func (v employeesView) ListActiveAdmins(ctx context.Context) ([]attendance.Employee, error) {
	return v.m.ListActiveAdmins(ctx)
}

func (v employeesView) Put(ctx context.Context, e attendance.Employee) error {
	return v.m.PutEmployee(ctx, e)
}

func (v employeesView) AddLateMinutes(ctx context.Context, id attendance.UserID, minutes int) error {
	return v.m.AddLateMinutes(ctx, id, minutes)
}

type actionsView struct{ m *Memory }

func (v actionsView) Append(ctx context.Context, action attendance.PunctualityAction) error {
	return v.m.AppendAction(ctx, action)
}

func (v actionsView) ListBySource(ctx context.Context, sourceID string) ([]attendance.PunctualityAction, error) {
	return v.m.ListBySource(ctx, sourceID)
}

type schedulesView struct{ m *Memory }

func (v schedulesView) Get(ctx context.Context, productLine string) (schedule.ProductSchedule, error) {
	return v.m.GetSchedule(ctx, productLine)
}

func (v schedulesView) Put(ctx context.Context, s schedule.ProductSchedule) error {
	return v.m.PutSchedule(ctx, s)
}

type holidaysView struct{ m *Memory }

func (v holidaysView) Insert(ctx context.Context, h schedule.Holiday) error {
	return v.m.InsertHoliday(ctx, h)
}

func (v holidaysView) Delete(ctx context.Context, id string) error {
	return v.m.DeleteHoliday(ctx, id)
}

func (v holidaysView) List(ctx context.Context) ([]schedule.Holiday, error) {
	return v.m.ListHolidays(ctx)
}

func (v holidaysView) ListByDate(ctx context.Context, date attendance.Date) ([]schedule.Holiday, error) {
	return v.m.ListHolidaysByDate(ctx, date)
}

type policyView struct{ m *Memory }

func (v policyView) Get(ctx context.Context, scope string) (*policy.Document, error) {
	return v.m.GetPolicyDoc(ctx, scope)
}

func (v policyView) Put(ctx context.Context, scope string, doc policy.Document) error {
	return v.m.PutPolicyDoc(ctx, scope, doc)
}

type notificationsView struct{ m *Memory }

func (v notificationsView) Insert(ctx context.Context, n notify.Notification) error {
	return v.m.InsertNotification(ctx, n)
}

func (v notificationsView) ListByRecipient(ctx context.Context, recipientID string) ([]notify.Notification, error) {
	return v.m.ListByRecipient(ctx, recipientID)
}

func (v notificationsView) MarkRead(ctx context.Context, id string) error {
	return v.m.MarkRead(ctx, id)
}

// Compile-time interface checks.
var (
	_ attendance.CheckInStore  = (*Memory)(nil)
	_ attendance.IssueStore    = issuesView{}
	_ attendance.EmployeeStore = employeesView{}
	_ attendance.ActionLog     = actionsView{}
	_ schedule.Store           = schedulesView{}
	_ schedule.HolidayStore    = holidaysView{}
	_ policy.DocumentStore     = policyView{}
	_ notify.Store             = notificationsView{}
)
