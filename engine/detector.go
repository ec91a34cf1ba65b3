/*
detector.go - Periodic sweep for events that never arrived

PURPOSE:
  No single check-in can reveal that an employee never showed up. The
  Detector sweeps every active non-admin employee with an assigned product
  line and synthesizes AttendanceIssues for deadlines that passed with no
  corresponding event: no entry, no exit, auto-close, lunch never returned
  from.

IDEMPOTENCY:
  Issue insertion is conditional on the store's unique (user, kind, date)
  constraint. Repeated sweeps within the same day are no-ops for
  already-detected issues, and a resolved issue is never re-created.

CACHING:
  Schedule and policy are resolved once per product line per sweep; the
  cache lives and dies with the Sweep call, so a policy changed mid-sweep
  applies to the next sweep, never retroactively.

FAILURE ISOLATION:
  One employee's schedule/config/store failure is logged and skipped; the
  sweep continues for everyone else.
*/
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/policy"
	"github.com/warp/attendance-engine/schedule"
)

// Detector runs the absence sweep.
type Detector struct {
	employees attendance.EmployeeStore
	checkins  attendance.CheckInStore
	issues    attendance.IssueStore
	schedules *schedule.Provider
	policies  *policy.Resolver
	actions   *Actions
	log       *logrus.Logger
}

func NewDetector(
	employees attendance.EmployeeStore,
	checkins attendance.CheckInStore,
	issues attendance.IssueStore,
	schedules *schedule.Provider,
	policies *policy.Resolver,
	actions *Actions,
	log *logrus.Logger,
) *Detector {
	return &Detector{
		employees: employees,
		checkins:  checkins,
		issues:    issues,
		schedules: schedules,
		policies:  policies,
		actions:   actions,
		log:       log,
	}
}

// lineContext caches the per-product-line resolution for one sweep.
type lineContext struct {
	sched   schedule.ProductSchedule
	pol     policy.Policy
	workDay bool
}

// Sweep examines every active non-admin employee as of the given instant and
// returns the issues inserted by this run. Suppressed duplicates are not
// returned. The error is reserved for failures that prevent the sweep from
// running at all; per-employee failures are logged and skipped.
func (d *Detector) Sweep(ctx context.Context, asOf time.Time) ([]attendance.AttendanceIssue, error) {
	employees, err := d.employees.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing active employees: %w", err)
	}

	date := attendance.DateOf(asOf)
	lines := make(map[string]*lineContext)
	var inserted []attendance.AttendanceIssue

	for _, emp := range employees {
		if emp.Role.IsAdmin() || emp.ProductLine == "" {
			continue
		}

		lc, err := d.lineFor(ctx, lines, emp.ProductLine, asOf)
		if err != nil {
			d.log.WithFields(logrus.Fields{
				"employee": emp.ID,
				"line":     emp.ProductLine,
			}).WithError(err).Error("sweep: skipping employee, resolution failed")
			continue
		}
		if !lc.workDay {
			continue
		}

		issues, err := d.sweepEmployee(ctx, emp, lc, date, asOf)
		if err != nil {
			d.log.WithFields(logrus.Fields{
				"employee": emp.ID,
				"date":     date,
			}).WithError(err).Error("sweep: skipping employee, check failed")
			continue
		}
		inserted = append(inserted, issues...)
	}

	d.log.WithFields(logrus.Fields{
		"as_of":    asOf.Format(time.RFC3339),
		"inserted": len(inserted),
	}).Info("absence sweep completed")
	return inserted, nil
}

// lineFor resolves and caches schedule, policy, and work-day status for a
// product line within this sweep.
func (d *Detector) lineFor(ctx context.Context, cache map[string]*lineContext, productLine string, asOf time.Time) (*lineContext, error) {
	if lc, ok := cache[productLine]; ok {
		return lc, nil
	}

	sched, err := d.schedules.Resolve(ctx, productLine)
	if err != nil {
		return nil, err
	}
	pol, err := d.policies.Resolve(ctx, productLine)
	if err != nil {
		return nil, err
	}
	workDay, err := d.schedules.IsWorkDay(ctx, productLine, asOf)
	if err != nil {
		return nil, err
	}

	lc := &lineContext{sched: sched, pol: pol, workDay: workDay}
	cache[productLine] = lc
	return lc, nil
}

// sweepEmployee runs all four checks for one employee's day.
func (d *Detector) sweepEmployee(ctx context.Context, emp attendance.Employee, lc *lineContext, date attendance.Date, asOf time.Time) ([]attendance.AttendanceIssue, error) {
	events, err := d.checkins.ListDay(ctx, emp.ID, date)
	if err != nil {
		return nil, fmt.Errorf("listing check-ins: %w", err)
	}
	day := attendance.BuildDay(events)

	var inserted []attendance.AttendanceIssue
	insert := func(kind attendance.IssueKind, expectedAt time.Time) {
		issue := attendance.AttendanceIssue{
			ID:             attendance.IssueID(uuid.NewString()),
			UserID:         emp.ID,
			Kind:           kind,
			Date:           date,
			ExpectedAt:     expectedAt,
			DetectedAt:     asOf,
			MinutesOverdue: int(asOf.Sub(expectedAt).Minutes()),
		}
		if err := d.issues.Insert(ctx, issue); err != nil {
			if errors.Is(err, attendance.ErrDuplicateIssue) {
				// Already detected by an earlier sweep; silent no-op.
				return
			}
			d.log.WithFields(logrus.Fields{
				"employee": emp.ID,
				"kind":     kind,
			}).WithError(err).Error("sweep: issue insert failed")
			return
		}
		inserted = append(inserted, issue)

		if lc.pol.Notifications.OnAbsence {
			d.actions.ApplyIssue(ctx, issue, emp, lc.pol)
		}
	}

	// No-entry: deadline = scheduled entry + grace, no entry event today.
	entryDeadline := date.At(int(lc.sched.EntryTime) + lc.pol.Absence.NoEntryAfterMinutes)
	if asOf.After(entryDeadline) && !day.HasEntry() {
		insert(attendance.IssueNoEntry, entryDeadline)
	}

	// No-exit: entry exists, exit missing, past scheduled exit + grace.
	exitDeadline := date.At(int(lc.sched.ExitTime) + lc.pol.Absence.NoExitAfterMinutes)
	if asOf.After(exitDeadline) && day.HasEntry() && !day.HasExit() {
		insert(attendance.IssueNoExit, exitDeadline)
	}

	// Auto-close: additive to no-exit, only when the policy marks absences.
	if lc.pol.AutoClose.MarkAsAbsent {
		closeDeadline := date.At(int(lc.sched.ExitTime) + lc.pol.AutoClose.CloseAfterMinutes)
		if asOf.After(closeDeadline) && day.HasEntry() && !day.HasExit() {
			insert(attendance.IssueAutoClosed, closeDeadline)
		}
	}

	// Lunch overrun without return.
	for _, lunch := range day.OpenLunches() {
		deadline := lunch.Opening.Timestamp.Add(time.Duration(lc.pol.Lunch.MaxDurationMinutes) * time.Minute)
		if asOf.After(deadline) {
			insert(attendance.IssueLateLunchReturn, deadline)
		}
	}

	return inserted, nil
}
