/*
Package engine contains the punctuality decision logic and its side-effects.

PURPOSE:
  Three collaborators, wired explicitly:
  - Classifier: pure timing decision for one check-in against its schedule
  - Actions:    the ordered, best-effort cascade a classification triggers
  - Detector:   the periodic sweep that synthesizes missing-event issues

DATA FLOW:
  A check-in arrives, the caller resolves schedule and policy once, the
  Classifier assigns a status, and Actions executes accumulation, comment
  requirements, and notification fan-out. Independently, Detector sweeps all
  active employees for events that never arrived.

SEE ALSO:
  - classify.go: Per-type timing rules
  - actions.go:  Side-effect cascade
  - detector.go: Absence sweep
*/
package engine

import (
	"github.com/sirupsen/logrus"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/schedule"
)

// =============================================================================
// TIMING THRESHOLDS - Fixed constants, not policy-configurable
// =============================================================================

const (
	// tooEarlyEntryMinutes: an entry more than this far before the
	// scheduled time is flagged early.
	tooEarlyEntryMinutes = 30

	// earlyExitMinutes: an exit more than this far before the scheduled
	// time is flagged early. A late exit is intentionally not flagged;
	// lateness is not symmetrical between entry and exit.
	earlyExitMinutes = 60
)

// =============================================================================
// CLASSIFIER
// =============================================================================

// Classifier assigns a punctuality status to a single check-in. It is a pure
// decision: no store access, no side-effects beyond a log line for the
// degraded unpaired-lunch case.
type Classifier struct {
	log *logrus.Logger
}

func NewClassifier(log *logrus.Logger) *Classifier {
	return &Classifier{log: log}
}

// Classify judges one event against its product schedule. The day carries
// the reconstructed sessions for the event's calendar day, pairing included.
//
// Lateness and earliness magnitudes are the excess beyond the allowed
// threshold: arriving at 08:06 against 08:00 with a 5-minute tolerance is
// one minute late, matching the lunch rule where a 70-minute lunch against
// a 60-minute allowance is ten minutes over.
func (c *Classifier) Classify(ev attendance.CheckInEvent, sched schedule.ProductSchedule, day attendance.Day) attendance.ClassificationResult {
	result := c.classifyTiming(ev, sched, day)

	// Location validity is an orthogonal axis and always wins for the
	// persisted status.
	if !ev.LocationValid {
		result.Status = attendance.StatusInvalidLocation
	}
	return result
}

func (c *Classifier) classifyTiming(ev attendance.CheckInEvent, sched schedule.ProductSchedule, day attendance.Day) attendance.ClassificationResult {
	switch ev.Type {
	case attendance.CheckEntry:
		return classifyEntry(ev, sched)
	case attendance.CheckLunchOut:
		// Marks the start of the lunch window; never tardy by itself.
		return attendance.ClassificationResult{Status: attendance.StatusOnTime}
	case attendance.CheckLunchReturn:
		return c.classifyLunchReturn(ev, sched, day)
	case attendance.CheckExit:
		return classifyExit(ev, sched)
	default:
		return attendance.ClassificationResult{Status: attendance.StatusOnTime}
	}
}

func classifyEntry(ev attendance.CheckInEvent, sched schedule.ProductSchedule) attendance.ClassificationResult {
	diff := int(schedule.MinuteOf(ev.Timestamp) - sched.EntryTime)
	switch {
	case diff > sched.ToleranceMinutes:
		return attendance.ClassificationResult{
			Status:      attendance.StatusLate,
			MinutesLate: diff - sched.ToleranceMinutes,
		}
	case diff < -tooEarlyEntryMinutes:
		return attendance.ClassificationResult{
			Status:       attendance.StatusEarly,
			MinutesEarly: -diff - tooEarlyEntryMinutes,
		}
	default:
		return attendance.ClassificationResult{Status: attendance.StatusOnTime}
	}
}

func (c *Classifier) classifyLunchReturn(ev attendance.CheckInEvent, sched schedule.ProductSchedule, day attendance.Day) attendance.ClassificationResult {
	opener := day.PairedOpener(ev)
	if opener == nil {
		// No lunch_out baseline to measure against; degrade to on_time
		// rather than penalize.
		c.log.WithFields(logrus.Fields{
			"event":   ev.ID,
			"user":    ev.UserID,
			"date":    ev.Date(),
		}).Warn("lunch_return with no paired lunch_out; classifying on_time")
		return attendance.ClassificationResult{Status: attendance.StatusOnTime}
	}

	actual := int(ev.Timestamp.Sub(opener.Timestamp).Minutes())
	if actual > sched.LunchDurationMinutes {
		return attendance.ClassificationResult{
			Status:      attendance.StatusLate,
			MinutesLate: actual - sched.LunchDurationMinutes,
		}
	}
	return attendance.ClassificationResult{Status: attendance.StatusOnTime}
}

func classifyExit(ev attendance.CheckInEvent, sched schedule.ProductSchedule) attendance.ClassificationResult {
	diff := int(schedule.MinuteOf(ev.Timestamp) - sched.ExitTime)
	if diff < -earlyExitMinutes {
		return attendance.ClassificationResult{
			Status:       attendance.StatusEarly,
			MinutesEarly: -diff - earlyExitMinutes,
		}
	}
	return attendance.ClassificationResult{Status: attendance.StatusOnTime}
}
