package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/attendance-engine/api"
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

type apiFixture struct {
	mem    *store.Memory
	server *httptest.Server
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	mem := store.NewMemory()
	log := logrus.New()
	log.SetOutput(io.Discard)

	holidays := schedule.NewHolidayCalendar(mem.Holidays())
	schedules := schedule.NewProvider(mem.Schedules(), holidays)
	policies := policy.NewResolver(mem.PolicyDocs())
	sink := notify.NewStoreSink(mem.Notifications())
	slack := notify.NewSlackWebhook()

	actions := engine.NewActions(mem.Employees(), mem.CheckIns(), mem.Actions(), sink, slack, nil, log)
	detector := engine.NewDetector(mem.Employees(), mem.CheckIns(), mem.Issues(), schedules, policies, actions, log)

	handler := &api.Handler{
		CheckIns:      mem.CheckIns(),
		Issues:        mem.Issues(),
		Employees:     mem.Employees(),
		ActionLog:     mem.Actions(),
		Holidays:      mem.Holidays(),
		Schedules:     schedules,
		ScheduleStore: mem.Schedules(),
		PolicyDocs:    mem.PolicyDocs(),
		Policies:      policies,
		Notifications: mem.Notifications(),
		Classifier:    engine.NewClassifier(log),
		Actions:       actions,
		Detector:      detector,
		Log:           log,
	}

	srv := httptest.NewServer(api.NewRouter(handler, []string{"*"}))
	t.Cleanup(srv.Close)
	return &apiFixture{mem: mem, server: srv}
}

func (f *apiFixture) putEmployee(t *testing.T, id, line, supervisor string) {
	t.Helper()
	require.NoError(t, f.mem.PutEmployee(context.Background(), attendance.Employee{
		ID:           attendance.UserID(id),
		Name:         "Worker " + id,
		Role:         attendance.RoleEmployee,
		ProductLine:  line,
		SupervisorID: attendance.UserID(supervisor),
		Active:       true,
	}))
}

func (f *apiFixture) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, f.server.URL+path, buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// Administration default: 09:00-18:00, tolerance 5, lunch 60.
func stamp(hour, minute int) string {
	return time.Date(2026, time.August, 24, hour, minute, 0, 0, time.Local).Format(time.RFC3339)
}

// =============================================================================
// CHECK-IN ENDPOINT
// =============================================================================

func TestAPI_SubmitCheckIn_LateEntry(t *testing.T) {
	// GIVEN: An administration worker arriving 09:20 against 09:00 tol 5
	// WHEN: Posting the check-in
	// THEN: 201 with late status, magnitude 15, comment demanded

	f := newAPIFixture(t)
	f.putEmployee(t, "emp-1", "administration", "sup-1")
	f.putEmployee(t, "sup-1", "administration", "")

	resp := f.do(t, http.MethodPost, "/api/checkins", api.SubmitCheckInRequest{
		UserID:    "emp-1",
		KioskID:   "kiosk-3",
		Type:      "entry",
		Timestamp: stamp(9, 20),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	out := decode[api.SubmitCheckInResponse](t, resp)
	assert.Equal(t, "late", out.CheckIn.Status)
	assert.Equal(t, 15, out.CheckIn.MinutesLate)
	assert.True(t, out.CheckIn.RequiresComment)
	assert.NotEmpty(t, out.CheckIn.ID)
	assert.Equal(t, "administration", out.CheckIn.ProductLine)
	assert.NotEmpty(t, out.Actions)
}

func TestAPI_SubmitCheckIn_OnTime(t *testing.T) {
	f := newAPIFixture(t)
	f.putEmployee(t, "emp-1", "administration", "")

	resp := f.do(t, http.MethodPost, "/api/checkins", api.SubmitCheckInRequest{
		UserID: "emp-1", Type: "entry", Timestamp: stamp(9, 3),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	out := decode[api.SubmitCheckInResponse](t, resp)
	assert.Equal(t, "on_time", out.CheckIn.Status)
	assert.False(t, out.CheckIn.RequiresComment)
}

func TestAPI_SubmitCheckIn_InvalidLocation(t *testing.T) {
	// GIVEN: A mobile capture outside the allowed radius
	// WHEN: Posting with location_valid=false
	// THEN: Status invalid_location regardless of timing

	f := newAPIFixture(t)
	f.putEmployee(t, "emp-1", "administration", "")

	invalid := false
	resp := f.do(t, http.MethodPost, "/api/checkins", api.SubmitCheckInRequest{
		UserID:        "emp-1",
		Type:          "entry",
		Timestamp:     stamp(9, 0),
		Location:      &attendance.Geolocation{Latitude: -12.04, Longitude: -77.03},
		LocationValid: &invalid,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	out := decode[api.SubmitCheckInResponse](t, resp)
	assert.Equal(t, "invalid_location", out.CheckIn.Status)
}

func TestAPI_SubmitCheckIn_UnknownEmployee_404(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do(t, http.MethodPost, "/api/checkins", api.SubmitCheckInRequest{
		UserID: "ghost", Type: "entry",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_SubmitCheckIn_BadType_400(t *testing.T) {
	f := newAPIFixture(t)
	f.putEmployee(t, "emp-1", "administration", "")

	resp := f.do(t, http.MethodPost, "/api/checkins", api.SubmitCheckInRequest{
		UserID: "emp-1", Type: "coffee_break",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_AddComment_EnforcesMinLength(t *testing.T) {
	// GIVEN: A late entry flagged for comment
	// WHEN: Posting a too-short then a sufficient comment
	// THEN: 400 first, then 200 with the comment stored

	f := newAPIFixture(t)
	f.putEmployee(t, "emp-1", "administration", "")

	submit := decode[api.SubmitCheckInResponse](t, f.do(t, http.MethodPost, "/api/checkins",
		api.SubmitCheckInRequest{UserID: "emp-1", Type: "entry", Timestamp: stamp(9, 30)}))
	require.True(t, submit.CheckIn.RequiresComment)

	short := f.do(t, http.MethodPost, "/api/checkins/"+submit.CheckIn.ID+"/comment",
		api.CommentRequest{Comment: "traffic"})
	defer short.Body.Close()
	assert.Equal(t, http.StatusBadRequest, short.StatusCode)

	ok := f.do(t, http.MethodPost, "/api/checkins/"+submit.CheckIn.ID+"/comment",
		api.CommentRequest{Comment: "highway closed for roadworks"})
	require.Equal(t, http.StatusOK, ok.StatusCode)
	updated := decode[api.CheckInDTO](t, ok)
	assert.Equal(t, "highway closed for roadworks", updated.Comment)
}

func TestAPI_ListDayCheckIns(t *testing.T) {
	f := newAPIFixture(t)
	f.putEmployee(t, "emp-1", "administration", "")

	for i, typ := range []string{"entry", "lunch_out", "lunch_return", "exit"} {
		resp := f.do(t, http.MethodPost, "/api/checkins", api.SubmitCheckInRequest{
			UserID: "emp-1", Type: typ, Timestamp: stamp(9+2*i, 0),
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := f.do(t, http.MethodGet, "/api/employees/emp-1/checkins?date=2026-08-24", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	events := decode[[]api.CheckInDTO](t, resp)
	assert.Len(t, events, 4)
}

// =============================================================================
// ISSUES AND SWEEP
// =============================================================================

func TestAPI_Sweep_ListAndResolveIssue(t *testing.T) {
	// GIVEN: A worker with no check-ins on a work day
	// WHEN: Triggering the sweep, listing open issues, resolving one
	// THEN: The full lifecycle round-trips over HTTP

	f := newAPIFixture(t)
	f.putEmployee(t, "emp-1", "administration", "")

	// Manual sweep. The clock is the server's; the test employee is absent
	// whatever the hour, so only assert on a weekday-and-overdue run.
	sweep := f.do(t, http.MethodPost, "/api/admin/sweep", nil)
	require.Equal(t, http.StatusOK, sweep.StatusCode)
	sweep.Body.Close()

	resp := f.do(t, http.MethodGet, "/api/issues?user_id=emp-1&resolved=false", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	open := decode[[]api.IssueDTO](t, resp)

	if len(open) == 0 {
		t.Skip("sweep ran before the entry deadline; nothing to resolve")
	}

	resolve := f.do(t, http.MethodPost, "/api/issues/"+open[0].ID+"/resolve",
		api.ResolveIssueRequest{ResolvedBy: "adm-1", Resolution: "medical leave"})
	require.Equal(t, http.StatusOK, resolve.StatusCode)
	resolved := decode[api.IssueDTO](t, resolve)
	assert.True(t, resolved.Resolved)
	assert.Equal(t, "adm-1", resolved.ResolvedBy)
	assert.Equal(t, "medical leave", resolved.Resolution)
}

func TestAPI_ResolveIssue_Unknown_404(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do(t, http.MethodPost, "/api/issues/ghost/resolve",
		api.ResolveIssueRequest{ResolvedBy: "adm-1"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func TestAPI_PutAndGetEmployee(t *testing.T) {
	f := newAPIFixture(t)

	put := f.do(t, http.MethodPut, "/api/employees/emp-9", api.PutEmployeeRequest{
		Name:        "Nidia Quispe",
		Role:        "employee",
		ProductLine: "packaging",
	})
	require.Equal(t, http.StatusOK, put.StatusCode)
	put.Body.Close()

	got := decode[api.EmployeeDTO](t, f.do(t, http.MethodGet, "/api/employees/emp-9", nil))
	assert.Equal(t, "Nidia Quispe", got.Name)
	assert.Equal(t, "packaging", got.ProductLine)
	assert.True(t, got.Active)
}

func TestAPI_PutEmployee_PreservesAccumulator(t *testing.T) {
	// GIVEN: An employee with accumulated late minutes
	// WHEN: Replacing the record over HTTP
	// THEN: The accumulator survives

	f := newAPIFixture(t)
	f.putEmployee(t, "emp-1", "administration", "")
	require.NoError(t, f.mem.AddLateMinutes(context.Background(), "emp-1", 42))

	put := f.do(t, http.MethodPut, "/api/employees/emp-1", api.PutEmployeeRequest{
		Name: "Renamed Worker", ProductLine: "administration",
	})
	require.Equal(t, http.StatusOK, put.StatusCode)
	updated := decode[api.EmployeeDTO](t, put)
	assert.Equal(t, 42, updated.TotalLateMinutes)
}

func TestAPI_AttendanceReport(t *testing.T) {
	// GIVEN: Entries on Mon and Tue of a Mon-Sat week
	// WHEN: Requesting the report for that week
	// THEN: 2 present over 6 business days

	f := newAPIFixture(t)
	f.putEmployee(t, "emp-1", "administration", "")

	for day := 17; day <= 18; day++ { // Mon 17th, Tue 18th
		ev := attendance.CheckInEvent{
			ID:            attendance.EventID(fmt.Sprintf("e-%d", day)),
			UserID:        "emp-1",
			Type:          attendance.CheckEntry,
			Timestamp:     time.Date(2026, time.August, day, 9, 0, 0, 0, time.Local),
			LocationValid: true,
			Status:        attendance.StatusOnTime,
		}
		require.NoError(t, f.mem.Insert(context.Background(), ev))
	}

	resp := f.do(t, http.MethodGet, "/api/employees/emp-1/report?from=2026-08-17&to=2026-08-22", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	report := decode[api.AttendanceReportDTO](t, resp)

	assert.Equal(t, 6, report.BusinessDays)
	assert.Equal(t, 2, report.PresentDays)
	assert.Equal(t, "0.3333", report.Rate)
}

// =============================================================================
// SCHEDULES, HOLIDAYS, POLICIES
// =============================================================================

func TestAPI_Schedule_DefaultThenOverride(t *testing.T) {
	f := newAPIFixture(t)

	def := decode[api.ScheduleDTO](t, f.do(t, http.MethodGet, "/api/schedules/assembly", nil))
	assert.Equal(t, "06:00", def.EntryTime)

	override := def
	override.EntryTime = "07:00"
	put := f.do(t, http.MethodPut, "/api/schedules/assembly", override)
	require.Equal(t, http.StatusOK, put.StatusCode)
	put.Body.Close()

	got := decode[api.ScheduleDTO](t, f.do(t, http.MethodGet, "/api/schedules/assembly", nil))
	assert.Equal(t, "07:00", got.EntryTime)
}

func TestAPI_Schedule_InvalidRejected(t *testing.T) {
	f := newAPIFixture(t)

	bad := api.ScheduleDTO{
		WorkDays:             []int{1, 2, 3},
		EntryTime:            "18:00",
		ExitTime:             "06:00",
		LunchStartTime:       "12:00",
		LunchDurationMinutes: 60,
	}
	resp := f.do(t, http.MethodPut, "/api/schedules/assembly", bad)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_Holidays_CRUD(t *testing.T) {
	f := newAPIFixture(t)

	created := decode[api.HolidayDTO](t, f.do(t, http.MethodPost, "/api/holidays",
		api.CreateHolidayRequest{Date: "2026-12-25", Name: "Christmas"}))
	assert.NotEmpty(t, created.ID)

	list := decode[[]api.HolidayDTO](t, f.do(t, http.MethodGet, "/api/holidays", nil))
	require.Len(t, list, 1)

	del := f.do(t, http.MethodDelete, "/api/holidays/"+created.ID, nil)
	defer del.Body.Close()
	assert.Equal(t, http.StatusNoContent, del.StatusCode)

	empty := decode[[]api.HolidayDTO](t, f.do(t, http.MethodGet, "/api/holidays", nil))
	assert.Empty(t, empty)
}

func TestAPI_Policy_PutAndEffective(t *testing.T) {
	// GIVEN: A global document tightening the lunch allowance
	// WHEN: Storing it and resolving the effective policy for a line
	// THEN: The override shows through; untouched fields stay at defaults

	f := newAPIFixture(t)

	maxLunch := 45
	put := f.do(t, http.MethodPut, "/api/policies/global",
		policy.Document{Lunch: &policy.LunchDoc{MaxDurationMinutes: &maxLunch}})
	require.Equal(t, http.StatusOK, put.StatusCode)
	put.Body.Close()

	effective := decode[policy.Policy](t, f.do(t, http.MethodGet, "/api/policies/assembly/effective", nil))
	assert.Equal(t, 45, effective.Lunch.MaxDurationMinutes)
	assert.Equal(t, 60, effective.Absence.NoEntryAfterMinutes)
}

// =============================================================================
// NOTIFICATIONS
// =============================================================================

func TestAPI_Notifications_InboxAndMarkRead(t *testing.T) {
	// GIVEN: A late entry that notified the supervisor
	// WHEN: Listing the supervisor inbox and marking the entry read
	// THEN: The notification round-trips

	f := newAPIFixture(t)
	f.putEmployee(t, "emp-1", "administration", "sup-1")
	f.putEmployee(t, "sup-1", "administration", "")

	resp := f.do(t, http.MethodPost, "/api/checkins", api.SubmitCheckInRequest{
		UserID: "emp-1", Type: "entry", Timestamp: stamp(9, 30),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	inbox := decode[[]api.NotificationDTO](t, f.do(t, http.MethodGet, "/api/notifications/sup-1", nil))
	require.Len(t, inbox, 1)
	assert.False(t, inbox[0].Read)

	mark := f.do(t, http.MethodPost, "/api/notifications/"+inbox[0].ID+"/read", nil)
	defer mark.Body.Close()
	require.Equal(t, http.StatusNoContent, mark.StatusCode)

	after := decode[[]api.NotificationDTO](t, f.do(t, http.MethodGet, "/api/notifications/sup-1", nil))
	require.Len(t, after, 1)
	assert.True(t, after[0].Read)
}
