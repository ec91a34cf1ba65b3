/*
handlers.go - HTTP API handlers for the attendance engine

PURPOSE:
  Exposes the punctuality engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Check-ins:
    POST   /api/checkins                      Submit and classify a check-in
    POST   /api/checkins/{id}/comment         Attach a justification comment
    GET    /api/checkins/{id}/actions         Audit trail for one event
    GET    /api/employees/{id}/checkins       One employee's day

  Issues:
    GET    /api/issues                        List issues (filterable)
    POST   /api/issues/{id}/resolve           Resolve an open issue

  Employees:
    GET    /api/employees                     List employees
    GET    /api/employees/{id}                Get employee
    PUT    /api/employees/{id}                Create or replace employee
    GET    /api/employees/{id}/report         Attendance rate over a range

  Schedules and holidays:
    GET    /api/schedules/{line}              Effective schedule for a line
    PUT    /api/schedules/{line}              Override a line's schedule
    GET    /api/holidays                      List holidays
    POST   /api/holidays                      Create holiday
    DELETE /api/holidays/{id}                 Delete holiday

  Policies:
    GET    /api/policies/{scope}              Stored partial document
    PUT    /api/policies/{scope}              Store partial document
    GET    /api/policies/{scope}/effective    Fully resolved policy

  Notifications:
    GET    /api/notifications/{id}           Recipient's in-app inbox
    POST   /api/notifications/{id}/read       Mark read

  Admin:
    POST   /api/admin/sweep                   Trigger an absence sweep now

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 409: Conflict (duplicate issue)
  - 502: Downstream delivery failure surfaced on manual operations
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.
  Deploy behind the gateway that owns identity.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - scheduler.go: Cron-driven sweep
*/
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/engine"
	"github.com/warp/attendance-engine/notify"
	"github.com/warp/attendance-engine/policy"
	"github.com/warp/attendance-engine/schedule"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	CheckIns      attendance.CheckInStore
	Issues        attendance.IssueStore
	Employees     attendance.EmployeeStore
	ActionLog     attendance.ActionLog
	Holidays      schedule.HolidayStore
	Schedules     *schedule.Provider
	ScheduleStore schedule.Store
	PolicyDocs    policy.DocumentStore
	Policies      *policy.Resolver
	Notifications notify.Store

	Classifier *engine.Classifier
	Actions    *engine.Actions
	Detector   *engine.Detector

	Log *logrus.Logger
}

// =============================================================================
// CHECK-IN ENDPOINTS
// =============================================================================

// SubmitCheckIn classifies and persists one capture, then runs the cascade.
// POST /api/checkins
func (h *Handler) SubmitCheckIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SubmitCheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	ts := time.Now()
	if req.Timestamp != "" {
		parsed, err := time.Parse(time.RFC3339, req.Timestamp)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid timestamp", err)
			return
		}
		ts = parsed.Local()
	}

	emp, err := h.Employees.Get(ctx, attendance.UserID(req.UserID))
	if err != nil {
		if attendance.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "employee not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load employee", err)
		return
	}
	if !emp.Active {
		writeError(w, http.StatusBadRequest, "employee is inactive", nil)
		return
	}

	ev := attendance.CheckInEvent{
		ID:            attendance.EventID(uuid.NewString()),
		UserID:        emp.ID,
		KioskID:       req.KioskID,
		ProductLine:   emp.ProductLine,
		Type:          attendance.CheckInType(req.Type),
		Timestamp:     ts,
		Location:      req.Location,
		LocationValid: req.LocationValid == nil || *req.LocationValid,
		Comment:       req.Comment,
		CreatedAt:     time.Now(),
	}
	if err := ev.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid check-in", err)
		return
	}

	sched, err := h.Schedules.Resolve(ctx, emp.ProductLine)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to resolve schedule", err)
		return
	}
	pol, err := h.Policies.Resolve(ctx, emp.ProductLine)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to resolve policy", err)
		return
	}

	// The day must contain the incoming event so lunch pairing can see it.
	existing, err := h.CheckIns.ListDay(ctx, emp.ID, ev.Date())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load day", err)
		return
	}
	day := attendance.BuildDay(append(existing, ev))

	result := h.Classifier.Classify(ev, sched, day)
	ev.Status = result.Status
	ev.MinutesLate = result.MinutesLate
	ev.MinutesEarly = result.MinutesEarly

	if err := h.CheckIns.Insert(ctx, ev); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to persist check-in", err)
		return
	}

	actions := h.Actions.Apply(ctx, ev, result, emp, pol)

	// The cascade may have appended the requires-comment flag; return the
	// stored state, not the pre-cascade snapshot.
	stored, err := h.CheckIns.Get(ctx, ev.ID)
	if err != nil {
		stored = ev
	}

	resp := SubmitCheckInResponse{CheckIn: toCheckInDTO(stored)}
	for _, a := range actions {
		resp.Actions = append(resp.Actions, toActionDTO(a))
	}
	writeJSON(w, http.StatusCreated, resp)
}

// AddComment attaches a justification to a flagged check-in.
// POST /api/checkins/{id}/comment
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := attendance.EventID(chi.URLParam(r, "id"))

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	ev, err := h.CheckIns.Get(ctx, id)
	if err != nil {
		if attendance.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "check-in not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load check-in", err)
		return
	}

	pol, err := h.Policies.Resolve(ctx, ev.ProductLine)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to resolve policy", err)
		return
	}
	if len(req.Comment) < pol.Comments.MinCommentLength {
		writeError(w, http.StatusBadRequest, "comment too short", nil)
		return
	}

	if err := h.CheckIns.SetComment(ctx, id, req.Comment); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save comment", err)
		return
	}

	stored, err := h.CheckIns.Get(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to reload check-in", err)
		return
	}
	writeJSON(w, http.StatusOK, toCheckInDTO(stored))
}

// ListCheckInActions returns the audit trail for one event.
// GET /api/checkins/{id}/actions
func (h *Handler) ListCheckInActions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	actions, err := h.ActionLog.ListBySource(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list actions", err)
		return
	}

	dtos := []ActionDTO{}
	for _, a := range actions {
		dtos = append(dtos, toActionDTO(a))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListDayCheckIns returns one employee's events for a calendar day.
// GET /api/employees/{id}/checkins?date=2026-08-28
func (h *Handler) ListDayCheckIns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := attendance.UserID(chi.URLParam(r, "id"))

	date := attendance.Date(r.URL.Query().Get("date"))
	if date == "" {
		date = attendance.DateOf(time.Now())
	}
	if !date.Valid() {
		writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD", nil)
		return
	}

	events, err := h.CheckIns.ListDay(ctx, userID, date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list check-ins", err)
		return
	}

	dtos := []CheckInDTO{}
	for _, ev := range events {
		dtos = append(dtos, toCheckInDTO(ev))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// ISSUE ENDPOINTS
// =============================================================================

// ListIssues returns issues matching the query filters.
// GET /api/issues?user_id=&date=&kind=&resolved=
func (h *Handler) ListIssues(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	var filter attendance.IssueFilter
	if v := q.Get("user_id"); v != "" {
		uid := attendance.UserID(v)
		filter.UserID = &uid
	}
	if v := q.Get("date"); v != "" {
		d := attendance.Date(v)
		if !d.Valid() {
			writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD", nil)
			return
		}
		filter.Date = &d
	}
	if v := q.Get("kind"); v != "" {
		k := attendance.IssueKind(v)
		filter.Kind = &k
	}
	if v := q.Get("resolved"); v != "" {
		resolved := v == "true" || v == "1"
		filter.Resolved = &resolved
	}

	issues, err := h.Issues.List(ctx, filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list issues", err)
		return
	}

	dtos := []IssueDTO{}
	for _, issue := range issues {
		dtos = append(dtos, toIssueDTO(issue))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ResolveIssue closes an open issue.
// POST /api/issues/{id}/resolve
func (h *Handler) ResolveIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := attendance.IssueID(chi.URLParam(r, "id"))

	var req ResolveIssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.ResolvedBy == "" {
		writeError(w, http.StatusBadRequest, "resolved_by is required", nil)
		return
	}

	if err := h.Issues.Resolve(ctx, id, req.ResolvedBy, req.Resolution, time.Now()); err != nil {
		if attendance.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "issue not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to resolve issue", err)
		return
	}

	issue, err := h.Issues.Get(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to reload issue", err)
		return
	}
	writeJSON(w, http.StatusOK, toIssueDTO(issue))
}

// TriggerSweep runs an absence sweep immediately.
// POST /api/admin/sweep
func (h *Handler) TriggerSweep(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	asOf := time.Now()

	inserted, err := h.Detector.Sweep(ctx, asOf)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sweep failed", err)
		return
	}

	resp := SweepResponse{AsOf: asOf.Format(time.RFC3339), Inserted: []IssueDTO{}}
	for _, issue := range inserted {
		resp.Inserted = append(resp.Inserted, toIssueDTO(issue))
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// EMPLOYEE ENDPOINTS
// =============================================================================

// ListEmployees returns all employees.
// GET /api/employees
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Employees.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list employees", err)
		return
	}

	dtos := []EmployeeDTO{}
	for _, e := range employees {
		dtos = append(dtos, toEmployeeDTO(e))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns one employee.
// GET /api/employees/{id}
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Employees.Get(r.Context(), attendance.UserID(chi.URLParam(r, "id")))
	if err != nil {
		if attendance.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "employee not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

// PutEmployee creates or replaces an employee record.
// PUT /api/employees/{id}
func (h *Handler) PutEmployee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req PutEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}

	role := attendance.Role(req.Role)
	if req.Role == "" {
		role = attendance.RoleEmployee
	}
	switch role {
	case attendance.RoleEmployee, attendance.RoleAdmin, attendance.RoleSuperAdmin:
	default:
		writeError(w, http.StatusBadRequest, "invalid role", nil)
		return
	}

	emp := attendance.Employee{
		ID:           attendance.UserID(id),
		Name:         req.Name,
		Email:        req.Email,
		Role:         role,
		ProductLine:  req.ProductLine,
		KioskID:      req.KioskID,
		SupervisorID: attendance.UserID(req.SupervisorID),
		Active:       req.Active == nil || *req.Active,
	}

	// Replacing an existing record keeps the accumulated late minutes.
	if prev, err := h.Employees.Get(ctx, emp.ID); err == nil {
		emp.TotalLateMinutes = prev.TotalLateMinutes
	}

	if err := h.Employees.Put(ctx, emp); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

// GetAttendanceReport computes the attendance rate over a date range.
// GET /api/employees/{id}/report?from=2026-08-01&to=2026-08-31
func (h *Handler) GetAttendanceReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := attendance.UserID(chi.URLParam(r, "id"))

	from := attendance.Date(r.URL.Query().Get("from"))
	to := attendance.Date(r.URL.Query().Get("to"))
	if !from.Valid() || !to.Valid() {
		writeError(w, http.StatusBadRequest, "from and to are required, YYYY-MM-DD", nil)
		return
	}
	if to.Time().Before(from.Time()) {
		writeError(w, http.StatusBadRequest, "to precedes from", nil)
		return
	}

	if _, err := h.Employees.Get(ctx, userID); err != nil {
		if attendance.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "employee not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load employee", err)
		return
	}

	// A day counts as present when at least one entry was recorded.
	present := 0
	for d := from.Time(); !d.After(to.Time()); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Sunday {
			continue
		}
		events, err := h.CheckIns.ListDay(ctx, userID, attendance.DateOf(d))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load check-ins", err)
			return
		}
		for _, ev := range events {
			if ev.Type == attendance.CheckEntry {
				present++
				break
			}
		}
	}

	business := schedule.BusinessDays(from.Time(), to.Time())
	writeJSON(w, http.StatusOK, AttendanceReportDTO{
		UserID:       string(userID),
		From:         string(from),
		To:           string(to),
		BusinessDays: business,
		PresentDays:  present,
		Rate:         schedule.AttendanceRate(present, from.Time(), to.Time()).String(),
	})
}

// =============================================================================
// SCHEDULE ENDPOINTS
// =============================================================================

// GetSchedule returns the effective schedule for a product line, stored
// override or built-in default.
// GET /api/schedules/{line}
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	sched, err := h.Schedules.Resolve(r.Context(), chi.URLParam(r, "line"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to resolve schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, toScheduleDTO(sched))
}

// PutSchedule stores a schedule override for a product line.
// PUT /api/schedules/{line}
func (h *Handler) PutSchedule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	line := chi.URLParam(r, "line")

	var req ScheduleDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	sched := schedule.ProductSchedule{
		ProductLine:          line,
		LunchDurationMinutes: req.LunchDurationMinutes,
		ToleranceMinutes:     req.ToleranceMinutes,
		WorksOnHolidays:      req.WorksOnHolidays,
	}
	for _, wd := range req.WorkDays {
		sched.WorkDays = append(sched.WorkDays, time.Weekday(wd))
	}

	var err error
	if sched.EntryTime, err = schedule.ParseClock(req.EntryTime); err != nil {
		writeError(w, http.StatusBadRequest, "invalid entry_time", err)
		return
	}
	if sched.ExitTime, err = schedule.ParseClock(req.ExitTime); err != nil {
		writeError(w, http.StatusBadRequest, "invalid exit_time", err)
		return
	}
	if sched.LunchStartTime, err = schedule.ParseClock(req.LunchStartTime); err != nil {
		writeError(w, http.StatusBadRequest, "invalid lunch_start_time", err)
		return
	}
	if err := sched.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid schedule", err)
		return
	}

	if err := h.ScheduleStore.Put(ctx, sched); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, toScheduleDTO(sched))
}

// =============================================================================
// HOLIDAY ENDPOINTS
// =============================================================================

// ListHolidays returns all holidays.
// GET /api/holidays
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.Holidays.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list holidays", err)
		return
	}

	dtos := []HolidayDTO{}
	for _, hol := range holidays {
		dtos = append(dtos, HolidayDTO{
			ID:           hol.ID,
			Date:         string(hol.Date),
			Name:         hol.Name,
			ProductLines: hol.ProductLines,
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateHoliday adds a holiday.
// POST /api/holidays
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	date := attendance.Date(req.Date)
	if !date.Valid() {
		writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD", nil)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}

	hol := schedule.Holiday{
		ID:           uuid.NewString(),
		Date:         date,
		Name:         req.Name,
		ProductLines: req.ProductLines,
	}
	if err := h.Holidays.Insert(ctx, hol); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save holiday", err)
		return
	}
	writeJSON(w, http.StatusCreated, HolidayDTO{
		ID:           hol.ID,
		Date:         string(hol.Date),
		Name:         hol.Name,
		ProductLines: hol.ProductLines,
	})
}

// DeleteHoliday removes a holiday.
// DELETE /api/holidays/{id}
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	if err := h.Holidays.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete holiday", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// POLICY ENDPOINTS
// =============================================================================

// GetPolicyDoc returns the stored partial document for a scope, or an empty
// document when none exists.
// GET /api/policies/{scope}
func (h *Handler) GetPolicyDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := h.PolicyDocs.Get(r.Context(), chi.URLParam(r, "scope"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load policy document", err)
		return
	}
	if doc == nil {
		doc = &policy.Document{}
	}
	writeJSON(w, http.StatusOK, doc)
}

// PutPolicyDoc stores a partial policy document for a scope.
// PUT /api/policies/{scope}
func (h *Handler) PutPolicyDoc(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scope := chi.URLParam(r, "scope")

	var doc policy.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.PolicyDocs.Put(ctx, scope, doc); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save policy document", err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// GetEffectivePolicy returns the fully resolved policy for a scope. The
// global scope resolves defaults plus the global layer only.
// GET /api/policies/{scope}/effective
func (h *Handler) GetEffectivePolicy(w http.ResponseWriter, r *http.Request) {
	scope := chi.URLParam(r, "scope")
	line := scope
	if scope == policy.GlobalScope {
		line = ""
	}

	pol, err := h.Policies.Resolve(r.Context(), line)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to resolve policy", err)
		return
	}
	writeJSON(w, http.StatusOK, pol)
}

// =============================================================================
// NOTIFICATION ENDPOINTS
// =============================================================================

// ListNotifications returns one recipient's in-app inbox, newest first.
// GET /api/notifications/{id} where id is the recipient's user ID.
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.Notifications.ListByRecipient(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list notifications", err)
		return
	}

	dtos := []NotificationDTO{}
	for _, n := range notifications {
		dtos = append(dtos, toNotificationDTO(n))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// MarkNotificationRead marks one notification read.
// POST /api/notifications/{id}/read
func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	if err := h.Notifications.MarkRead(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to mark read", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
