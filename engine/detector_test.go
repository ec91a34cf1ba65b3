package engine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/attendance/store"
	"github.com/warp/attendance-engine/engine"
	"github.com/warp/attendance-engine/notify"
	"github.com/warp/attendance-engine/policy"
	"github.com/warp/attendance-engine/schedule"
)

// =============================================================================
// TEST SETUP
// =============================================================================

type detectorFixture struct {
	mem      *store.Memory
	detector *engine.Detector
}

func newDetectorFixture(t *testing.T) *detectorFixture {
	t.Helper()
	mem := store.NewMemory()
	log := testLogger()

	schedules := schedule.NewProvider(mem.Schedules(), schedule.NewHolidayCalendar(mem.Holidays()))
	policies := policy.NewResolver(mem.PolicyDocs())
	actions := engine.NewActions(
		mem.Employees(), mem.CheckIns(), mem.Actions(),
		notify.NewStoreSink(mem.Notifications()), &fakeSlack{}, nil, log)
	detector := engine.NewDetector(
		mem.Employees(), mem.CheckIns(), mem.Issues(), schedules, policies, actions, log)

	return &detectorFixture{mem: mem, detector: detector}
}

func (f *detectorFixture) putEmployee(t *testing.T, emp attendance.Employee) attendance.Employee {
	t.Helper()
	require.NoError(t, f.mem.PutEmployee(context.Background(), emp))
	return emp
}

func (f *detectorFixture) insertCheckIn(t *testing.T, ev attendance.CheckInEvent) {
	t.Helper()
	require.NoError(t, f.mem.Insert(context.Background(), ev))
}

func issueKinds(issues []attendance.AttendanceIssue) []attendance.IssueKind {
	out := make([]attendance.IssueKind, len(issues))
	for i, issue := range issues {
		out[i] = issue.Kind
	}
	return out
}

// Monday 2026-08-24. The administration default schedule is 09:00-18:00,
// lunch at 13:00 for 60 minutes.
func sweepAt(hour, minute int) time.Time {
	return time.Date(2026, time.August, 24, hour, minute, 0, 0, time.Local)
}

// =============================================================================
// NO-ENTRY DETECTION
// =============================================================================

func TestSweep_NoEntry_PastGrace_IssueInserted(t *testing.T) {
	// GIVEN: An active employee with no check-ins, sweep past entry + grace
	// WHEN: Sweeping at 10:30 (entry 09:00, grace 60)
	// THEN: One no_entry issue with the overdue magnitude

	f := newDetectorFixture(t)
	f.putEmployee(t, worker("emp-1", ""))

	inserted, err := f.detector.Sweep(context.Background(), sweepAt(10, 30))
	require.NoError(t, err)

	require.Len(t, inserted, 1)
	issue := inserted[0]
	assert.Equal(t, attendance.IssueNoEntry, issue.Kind)
	assert.Equal(t, attendance.UserID("emp-1"), issue.UserID)
	assert.Equal(t, attendance.Date("2026-08-24"), issue.Date)
	assert.Equal(t, 30, issue.MinutesOverdue)
	assert.False(t, issue.Resolved)
}

func TestSweep_NoEntry_BeforeGrace_NoIssue(t *testing.T) {
	// GIVEN: No check-ins, sweep inside the grace window
	// WHEN: Sweeping at 09:30
	// THEN: Nothing inserted

	f := newDetectorFixture(t)
	f.putEmployee(t, worker("emp-1", ""))

	inserted, err := f.detector.Sweep(context.Background(), sweepAt(9, 30))
	require.NoError(t, err)
	assert.Empty(t, inserted)
}

func TestSweep_EntryPresent_NoEntryNotRaised(t *testing.T) {
	// GIVEN: The employee checked in late but did check in
	// WHEN: Sweeping past the grace window
	// THEN: No no_entry issue

	f := newDetectorFixture(t)
	f.putEmployee(t, worker("emp-1", ""))
	f.insertCheckIn(t, checkin("e1", attendance.CheckEntry, sweepAt(9, 40)))

	inserted, err := f.detector.Sweep(context.Background(), sweepAt(10, 30))
	require.NoError(t, err)
	assert.Empty(t, inserted)
}

// =============================================================================
// IDEMPOTENCE
// =============================================================================

func TestSweep_RepeatedRuns_SingleIssue(t *testing.T) {
	// GIVEN: A missing entry already detected by one sweep
	// WHEN: Sweeping twice more
	// THEN: No duplicate issues, later runs return nothing new

	f := newDetectorFixture(t)
	f.putEmployee(t, worker("emp-1", ""))
	ctx := context.Background()

	first, err := f.detector.Sweep(ctx, sweepAt(10, 30))
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := f.detector.Sweep(ctx, sweepAt(11, 0))
	require.NoError(t, err)
	assert.Empty(t, second)

	third, err := f.detector.Sweep(ctx, sweepAt(12, 0))
	require.NoError(t, err)
	assert.Empty(t, third)

	all, err := f.mem.ListIssues(ctx, attendance.IssueFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSweep_ResolvedIssue_NotRecreated(t *testing.T) {
	// GIVEN: A detected no_entry issue that an admin resolved
	// WHEN: Sweeping again the same day
	// THEN: The resolved issue stays closed and no replacement appears

	f := newDetectorFixture(t)
	f.putEmployee(t, worker("emp-1", ""))
	ctx := context.Background()

	first, err := f.detector.Sweep(ctx, sweepAt(10, 30))
	require.NoError(t, err)
	require.Len(t, first, 1)

	require.NoError(t, f.mem.ResolveIssue(ctx, first[0].ID, "adm-1", "employee called in sick", sweepAt(11, 0)))

	second, err := f.detector.Sweep(ctx, sweepAt(12, 0))
	require.NoError(t, err)
	assert.Empty(t, second, "a resolved issue must not be raised again")

	all, err := f.mem.ListIssues(ctx, attendance.IssueFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Resolved)
	assert.Equal(t, "adm-1", all[0].ResolvedBy)
}

// =============================================================================
// NO-EXIT AND AUTO-CLOSE
// =============================================================================

func TestSweep_NoExit_EntryWithoutExit(t *testing.T) {
	// GIVEN: An entry and no exit, sweep past exit + grace (18:00 + 60)
	// WHEN: Sweeping at 19:30
	// THEN: A no_exit issue; auto_closed absent under default policy

	f := newDetectorFixture(t)
	f.putEmployee(t, worker("emp-1", ""))
	f.insertCheckIn(t, checkin("e1", attendance.CheckEntry, sweepAt(9, 0)))

	inserted, err := f.detector.Sweep(context.Background(), sweepAt(19, 30))
	require.NoError(t, err)

	assert.Equal(t, []attendance.IssueKind{attendance.IssueNoExit}, issueKinds(inserted))
}

func TestSweep_AutoClose_CoexistsWithNoExit(t *testing.T) {
	// GIVEN: Mark-as-absent enabled; entry without exit far past close time
	// WHEN: Sweeping at 20:30 (exit 18:00, grace 60, close 120)
	// THEN: Both no_exit and auto_closed for the same day

	f := newDetectorFixture(t)
	f.putEmployee(t, worker("emp-1", ""))
	f.insertCheckIn(t, checkin("e1", attendance.CheckEntry, sweepAt(9, 0)))

	markAbsent := true
	doc := policy.Document{AutoClose: &policy.AutoCloseDoc{MarkAsAbsent: &markAbsent}}
	require.NoError(t, f.mem.PutPolicyDoc(context.Background(), policy.GlobalScope, doc))

	inserted, err := f.detector.Sweep(context.Background(), sweepAt(20, 30))
	require.NoError(t, err)

	assert.ElementsMatch(t, []attendance.IssueKind{
		attendance.IssueNoExit,
		attendance.IssueAutoClosed,
	}, issueKinds(inserted))
}

func TestSweep_ExitPresent_NothingRaised(t *testing.T) {
	f := newDetectorFixture(t)
	f.putEmployee(t, worker("emp-1", ""))
	f.insertCheckIn(t, checkin("e1", attendance.CheckEntry, sweepAt(9, 0)))
	f.insertCheckIn(t, checkin("e2", attendance.CheckExit, sweepAt(18, 0)))

	inserted, err := f.detector.Sweep(context.Background(), sweepAt(20, 30))
	require.NoError(t, err)
	assert.Empty(t, inserted)
}

// =============================================================================
// LUNCH OVERRUN
// =============================================================================

func TestSweep_OpenLunch_PastMaxDuration(t *testing.T) {
	// GIVEN: A lunch_out at 13:00 never returned, max duration 60
	// WHEN: Sweeping at 14:30
	// THEN: A late_lunch_return issue measured from the lunch_out

	f := newDetectorFixture(t)
	f.putEmployee(t, worker("emp-1", ""))
	f.insertCheckIn(t, checkin("e1", attendance.CheckEntry, sweepAt(9, 0)))
	f.insertCheckIn(t, checkin("e2", attendance.CheckLunchOut, sweepAt(13, 0)))

	inserted, err := f.detector.Sweep(context.Background(), sweepAt(14, 30))
	require.NoError(t, err)

	require.Len(t, inserted, 1)
	assert.Equal(t, attendance.IssueLateLunchReturn, inserted[0].Kind)
	assert.Equal(t, 30, inserted[0].MinutesOverdue)
}

func TestSweep_ClosedLunch_NotFlagged(t *testing.T) {
	f := newDetectorFixture(t)
	f.putEmployee(t, worker("emp-1", ""))
	f.insertCheckIn(t, checkin("e1", attendance.CheckEntry, sweepAt(9, 0)))
	f.insertCheckIn(t, checkin("e2", attendance.CheckLunchOut, sweepAt(13, 0)))
	f.insertCheckIn(t, checkin("e3", attendance.CheckLunchReturn, sweepAt(13, 50)))

	inserted, err := f.detector.Sweep(context.Background(), sweepAt(14, 30))
	require.NoError(t, err)
	assert.Empty(t, inserted)
}

// =============================================================================
// SCOPE AND SCHEDULING
// =============================================================================

func TestSweep_SkipsAdminsAndInactive(t *testing.T) {
	// GIVEN: An admin, an inactive worker, and a worker without a line
	// WHEN: Sweeping well past grace
	// THEN: None of them produce issues

	f := newDetectorFixture(t)
	f.putEmployee(t, attendance.Employee{ID: "adm-1", Name: "Admin", Role: attendance.RoleAdmin, ProductLine: "administration", Active: true})
	inactive := worker("emp-2", "")
	inactive.Active = false
	f.putEmployee(t, inactive)
	f.putEmployee(t, attendance.Employee{ID: "emp-3", Name: "Unassigned", Role: attendance.RoleEmployee, Active: true})

	inserted, err := f.detector.Sweep(context.Background(), sweepAt(12, 0))
	require.NoError(t, err)
	assert.Empty(t, inserted)
}

func TestSweep_NonWorkDay_Skipped(t *testing.T) {
	// GIVEN: A Sunday; administration works Monday to Friday
	// WHEN: Sweeping at noon
	// THEN: No absence issues

	f := newDetectorFixture(t)
	f.putEmployee(t, worker("emp-1", ""))

	sunday := time.Date(2026, time.August, 23, 12, 0, 0, 0, time.Local)
	inserted, err := f.detector.Sweep(context.Background(), sunday)
	require.NoError(t, err)
	assert.Empty(t, inserted)
}

func TestSweep_Holiday_Skipped(t *testing.T) {
	// GIVEN: A company-wide holiday on the sweep day
	// WHEN: Sweeping past grace
	// THEN: No issues; administration observes holidays

	f := newDetectorFixture(t)
	f.putEmployee(t, worker("emp-1", ""))
	require.NoError(t, f.mem.InsertHoliday(context.Background(), schedule.Holiday{
		ID:   "hol-1",
		Date: "2026-08-24",
		Name: "Foundation Day",
	}))

	inserted, err := f.detector.Sweep(context.Background(), sweepAt(12, 0))
	require.NoError(t, err)
	assert.Empty(t, inserted)
}

func TestSweep_AbsenceNotification_ReachesSupervisor(t *testing.T) {
	// GIVEN: Default policy notifies on absence; the worker has a supervisor
	// WHEN: A no_entry issue is inserted
	// THEN: The supervisor's inbox holds the absence notification

	f := newDetectorFixture(t)
	ctx := context.Background()
	f.putEmployee(t, worker("emp-1", "sup-1"))
	f.putEmployee(t, worker("sup-1", ""))

	// The supervisor is also swept; give them an entry so only emp-1 trips.
	sup := checkin("s1", attendance.CheckEntry, sweepAt(9, 0))
	sup.UserID = "sup-1"
	f.insertCheckIn(t, sup)

	inserted, err := f.detector.Sweep(ctx, sweepAt(10, 30))
	require.NoError(t, err)
	require.Len(t, inserted, 1)

	inbox, err := f.mem.ListByRecipient(ctx, "sup-1")
	require.NoError(t, err)
	assert.Len(t, inbox, 1)
}

// =============================================================================
// FAILURE ISOLATION
// =============================================================================

// failingScheduleStore errors for one product line and delegates otherwise.
type failingScheduleStore struct {
	inner schedule.Store
	line  string
}

func (f *failingScheduleStore) Get(ctx context.Context, productLine string) (schedule.ProductSchedule, error) {
	if productLine == f.line {
		return schedule.ProductSchedule{}, errors.New("schedule backend unavailable")
	}
	return f.inner.Get(ctx, productLine)
}

func (f *failingScheduleStore) Put(ctx context.Context, sched schedule.ProductSchedule) error {
	return f.inner.Put(ctx, sched)
}

func TestSweep_FailingLine_OtherEmployeesStillSwept(t *testing.T) {
	// GIVEN: Two absent workers; one line's schedule backend errors
	// WHEN: Sweeping past the entry deadline
	// THEN: The sweep reports no error, skips the broken line's worker, and
	//       still inserts the healthy worker's issue

	mem := store.NewMemory()
	log := testLogger()
	schedules := schedule.NewProvider(
		&failingScheduleStore{inner: mem.Schedules(), line: "logistics"},
		schedule.NewHolidayCalendar(mem.Holidays()))
	policies := policy.NewResolver(mem.PolicyDocs())
	actions := engine.NewActions(
		mem.Employees(), mem.CheckIns(), mem.Actions(),
		notify.NewStoreSink(mem.Notifications()), &fakeSlack{}, nil, log)
	detector := engine.NewDetector(
		mem.Employees(), mem.CheckIns(), mem.Issues(), schedules, policies, actions, log)

	ctx := context.Background()
	require.NoError(t, mem.PutEmployee(ctx, worker("emp-1", "")))
	stranded := worker("emp-2", "")
	stranded.ProductLine = "logistics"
	require.NoError(t, mem.PutEmployee(ctx, stranded))

	inserted, err := detector.Sweep(ctx, sweepAt(10, 30))
	require.NoError(t, err)

	require.Len(t, inserted, 1)
	assert.Equal(t, attendance.UserID("emp-1"), inserted[0].UserID)
	assert.Equal(t, attendance.IssueNoEntry, inserted[0].Kind)

	all, err := mem.ListIssues(ctx, attendance.IssueFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
