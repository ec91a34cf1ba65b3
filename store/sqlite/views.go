package sqlite

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
// One Store backs every persistence interface; method names on Store stay
// distinct per concern, and these thin views map them onto the domain
// interfaces. Mirrors the in-memory store's views.

// CheckIns returns the CheckInStore view. Store's event methods already
// carry the interface names, so this is the identity view.
func (s *Store) CheckIns() attendance.CheckInStore { return s }

func (s *Store) Issues() attendance.IssueStore       { return issuesView{s} }
func (s *Store) Employees() attendance.EmployeeStore { return employeesView{s} }
func (s *Store) Actions() attendance.ActionLog       { return actionsView{s} }
func (s *Store) Schedules() schedule.Store           { return schedulesView{s} }
func (s *Store) Holidays() schedule.HolidayStore     { return holidaysView{s} }
func (s *Store) PolicyDocs() policy.DocumentStore    { return policyView{s} }
func (s *Store) Notifications() notify.Store         { return notificationsView{s} }

type issuesView struct{ s *Store }

func (v issuesView) Insert(ctx context.Context, issue attendance.AttendanceIssue) error {
	return v.s.InsertIssue(ctx, issue)
}

func (v issuesView) Get(ctx context.Context, id attendance.IssueID) (attendance.AttendanceIssue, error) {
	return v.s.GetIssue(ctx, id)
}

func (v issuesView) List(ctx context.Context, filter attendance.IssueFilter) ([]attendance.AttendanceIssue, error) {
	return v.s.ListIssues(ctx, filter)
}

func (v issuesView) Resolve(ctx context.Context, id attendance.IssueID, by, resolution string, at time.Time) error {
	return v.s.ResolveIssue(ctx, id, by, resolution, at)
}

type employeesView struct{ s *Store }

func (v employeesView) Get(ctx context.Context, id attendance.UserID) (attendance.Employee, error) {
	return v.s.GetEmployee(ctx, id)
}

func (v employeesView) List(ctx context.Context) ([]attendance.Employee, error) {
	return v.s.ListEmployees(ctx)
}

func (v employeesView) ListActive(ctx context.Context) ([]attendance.Employee, error) {
	return v.s.ListActive(ctx)
}

func (v employeesView) ListActiveAdmins(ctx context.Context) ([]attendance.Employee, error) {
	return v.s.ListActiveAdmins(ctx)
}

func (v employeesView) Put(ctx context.Context, e attendance.Employee) error {
	return v.s.PutEmployee(ctx, e)
}

func (v employeesView) AddLateMinutes(ctx context.Context, id attendance.UserID, minutes int) error {
	return v.s.AddLateMinutes(ctx, id, minutes)
}

type actionsView struct{ s *Store }

func (v actionsView) Append(ctx context.Context, action attendance.PunctualityAction) error {
	return v.s.AppendAction(ctx, action)
}

func (v actionsView) ListBySource(ctx context.Context, sourceID string) ([]attendance.PunctualityAction, error) {
	return v.s.ListBySource(ctx, sourceID)
}

type schedulesView struct{ s *Store }

func (v schedulesView) Get(ctx context.Context, productLine string) (schedule.ProductSchedule, error) {
	return v.s.GetSchedule(ctx, productLine)
}

func (v schedulesView) Put(ctx context.Context, sched schedule.ProductSchedule) error {
	return v.s.PutSchedule(ctx, sched)
}

type holidaysView struct{ s *Store }

func (v holidaysView) Insert(ctx context.Context, h schedule.Holiday) error {
	return v.s.InsertHoliday(ctx, h)
}

func (v holidaysView) Delete(ctx context.Context, id string) error {
	return v.s.DeleteHoliday(ctx, id)
}

func (v holidaysView) List(ctx context.Context) ([]schedule.Holiday, error) {
	return v.s.ListHolidays(ctx)
}

func (v holidaysView) ListByDate(ctx context.Context, date attendance.Date) ([]schedule.Holiday, error) {
	return v.s.ListHolidaysByDate(ctx, date)
}

type policyView struct{ s *Store }

func (v policyView) Get(ctx context.Context, scope string) (*policy.Document, error) {
	return v.s.GetPolicyDoc(ctx, scope)
}

func (v policyView) Put(ctx context.Context, scope string, doc policy.Document) error {
	return v.s.PutPolicyDoc(ctx, scope, doc)
}

type notificationsView struct{ s *Store }

func (v notificationsView) Insert(ctx context.Context, n notify.Notification) error {
	return v.s.InsertNotification(ctx, n)
}

func (v notificationsView) ListByRecipient(ctx context.Context, recipientID string) ([]notify.Notification, error) {
	return v.s.ListByRecipient(ctx, recipientID)
}

func (v notificationsView) MarkRead(ctx context.Context, id string) error {
	return v.s.MarkRead(ctx, id)
}

// Compile-time interface checks.
var (
	_ attendance.CheckInStore  = (*Store)(nil)
	_ attendance.IssueStore    = issuesView{}
	_ attendance.EmployeeStore = employeesView{}
	_ attendance.ActionLog     = actionsView{}
	_ schedule.Store           = schedulesView{}
	_ schedule.HolidayStore    = holidaysView{}
	_ policy.DocumentStore     = policyView{}
	_ notify.Store             = notificationsView{}
)
