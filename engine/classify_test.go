package engine_test

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/engine"
	"github.com/warp/attendance-engine/schedule"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// 08:00-17:00, lunch 13:00 for 60 minutes, 5 minutes of tolerance.
func officeSchedule() schedule.ProductSchedule {
	return schedule.ProductSchedule{
		ProductLine:          "administration",
		WorkDays:             []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		EntryTime:            schedule.MustClock("08:00"),
		ExitTime:             schedule.MustClock("17:00"),
		LunchStartTime:       schedule.MustClock("13:00"),
		LunchDurationMinutes: 60,
		ToleranceMinutes:     5,
	}
}

func at(hour, minute int) time.Time {
	return time.Date(2026, time.August, 24, hour, minute, 0, 0, time.Local) // a Monday
}

func checkin(id string, typ attendance.CheckInType, ts time.Time) attendance.CheckInEvent {
	return attendance.CheckInEvent{
		ID:            attendance.EventID(id),
		UserID:        "emp-1",
		Type:          typ,
		Timestamp:     ts,
		LocationValid: true,
	}
}

// =============================================================================
// ENTRY CLASSIFICATION
// =============================================================================

func TestClassify_Entry_WithinTolerance_OnTime(t *testing.T) {
	// GIVEN: Entry at exactly the tolerance edge (08:05 against 08:00, tol 5)
	// WHEN: Classifying
	// THEN: on_time, no magnitude

	c := engine.NewClassifier(testLogger())
	ev := checkin("e1", attendance.CheckEntry, at(8, 5))

	result := c.Classify(ev, officeSchedule(), attendance.BuildDay([]attendance.CheckInEvent{ev}))

	assert.Equal(t, attendance.StatusOnTime, result.Status)
	assert.Zero(t, result.MinutesLate)
	assert.Zero(t, result.MinutesEarly)
}

func TestClassify_Entry_OneMinutePastTolerance_LateByOne(t *testing.T) {
	// GIVEN: Entry at 08:06 against 08:00 with 5 minutes of tolerance
	// WHEN: Classifying
	// THEN: late, and the magnitude is the excess beyond the tolerance

	c := engine.NewClassifier(testLogger())
	ev := checkin("e1", attendance.CheckEntry, at(8, 6))

	result := c.Classify(ev, officeSchedule(), attendance.BuildDay([]attendance.CheckInEvent{ev}))

	assert.Equal(t, attendance.StatusLate, result.Status)
	assert.Equal(t, 1, result.MinutesLate)
}

func TestClassify_Entry_ThirtyMinutesEarly_StillOnTime(t *testing.T) {
	// GIVEN: Entry at 07:35, 25 minutes before schedule
	// WHEN: Classifying
	// THEN: on_time; the early window starts past 30 minutes

	c := engine.NewClassifier(testLogger())
	ev := checkin("e1", attendance.CheckEntry, at(7, 35))

	result := c.Classify(ev, officeSchedule(), attendance.BuildDay([]attendance.CheckInEvent{ev}))

	assert.Equal(t, attendance.StatusOnTime, result.Status)
}

func TestClassify_Entry_BeyondEarlyWindow_EarlyByExcess(t *testing.T) {
	// GIVEN: Entry at 07:25, 35 minutes before schedule
	// WHEN: Classifying
	// THEN: early by 5, the excess beyond the 30-minute window

	c := engine.NewClassifier(testLogger())
	ev := checkin("e1", attendance.CheckEntry, at(7, 25))

	result := c.Classify(ev, officeSchedule(), attendance.BuildDay([]attendance.CheckInEvent{ev}))

	assert.Equal(t, attendance.StatusEarly, result.Status)
	assert.Equal(t, 5, result.MinutesEarly)
}

// =============================================================================
// LUNCH CLASSIFICATION
// =============================================================================

func TestClassify_LunchOut_AlwaysOnTime(t *testing.T) {
	c := engine.NewClassifier(testLogger())
	ev := checkin("e1", attendance.CheckLunchOut, at(13, 45))

	result := c.Classify(ev, officeSchedule(), attendance.BuildDay([]attendance.CheckInEvent{ev}))

	assert.Equal(t, attendance.StatusOnTime, result.Status)
}

func TestClassify_LunchReturn_Overrun_LateByExcess(t *testing.T) {
	// GIVEN: A 70-minute lunch against a 60-minute allowance
	// WHEN: Classifying the return
	// THEN: late by 10

	c := engine.NewClassifier(testLogger())
	out := checkin("e1", attendance.CheckLunchOut, at(13, 0))
	ret := checkin("e2", attendance.CheckLunchReturn, at(14, 10))
	day := attendance.BuildDay([]attendance.CheckInEvent{out, ret})

	result := c.Classify(ret, officeSchedule(), day)

	assert.Equal(t, attendance.StatusLate, result.Status)
	assert.Equal(t, 10, result.MinutesLate)
}

func TestClassify_LunchReturn_WithinAllowance_OnTime(t *testing.T) {
	// GIVEN: A 55-minute lunch against a 60-minute allowance
	// WHEN: Classifying the return
	// THEN: on_time

	c := engine.NewClassifier(testLogger())
	out := checkin("e1", attendance.CheckLunchOut, at(13, 0))
	ret := checkin("e2", attendance.CheckLunchReturn, at(13, 55))
	day := attendance.BuildDay([]attendance.CheckInEvent{out, ret})

	result := c.Classify(ret, officeSchedule(), day)

	assert.Equal(t, attendance.StatusOnTime, result.Status)
}

func TestClassify_LunchReturn_Unpaired_DegradesToOnTime(t *testing.T) {
	// GIVEN: A lunch return with no lunch_out on record
	// WHEN: Classifying
	// THEN: on_time; there is no baseline to measure against

	c := engine.NewClassifier(testLogger())
	ret := checkin("e1", attendance.CheckLunchReturn, at(15, 0))
	day := attendance.BuildDay([]attendance.CheckInEvent{ret})

	result := c.Classify(ret, officeSchedule(), day)

	assert.Equal(t, attendance.StatusOnTime, result.Status)
	assert.Zero(t, result.MinutesLate)
}

// =============================================================================
// EXIT CLASSIFICATION
// =============================================================================

func TestClassify_Exit_WithinEarlyWindow_OnTime(t *testing.T) {
	// GIVEN: Exit at 16:05, 55 minutes before schedule
	// WHEN: Classifying
	// THEN: on_time; the early window starts past 60 minutes

	c := engine.NewClassifier(testLogger())
	ev := checkin("e1", attendance.CheckExit, at(16, 5))

	result := c.Classify(ev, officeSchedule(), attendance.BuildDay([]attendance.CheckInEvent{ev}))

	assert.Equal(t, attendance.StatusOnTime, result.Status)
}

func TestClassify_Exit_BeyondEarlyWindow_EarlyByExcess(t *testing.T) {
	// GIVEN: Exit at 15:55, 65 minutes before schedule
	// WHEN: Classifying
	// THEN: early by 5

	c := engine.NewClassifier(testLogger())
	ev := checkin("e1", attendance.CheckExit, at(15, 55))

	result := c.Classify(ev, officeSchedule(), attendance.BuildDay([]attendance.CheckInEvent{ev}))

	assert.Equal(t, attendance.StatusEarly, result.Status)
	assert.Equal(t, 5, result.MinutesEarly)
}

func TestClassify_Exit_Late_NotFlagged(t *testing.T) {
	// GIVEN: Exit two hours past schedule
	// WHEN: Classifying
	// THEN: on_time; staying late is never penalized

	c := engine.NewClassifier(testLogger())
	ev := checkin("e1", attendance.CheckExit, at(19, 0))

	result := c.Classify(ev, officeSchedule(), attendance.BuildDay([]attendance.CheckInEvent{ev}))

	assert.Equal(t, attendance.StatusOnTime, result.Status)
}

// =============================================================================
// LOCATION OVERRIDE
// =============================================================================

func TestClassify_InvalidLocation_OverridesTimingStatus(t *testing.T) {
	// GIVEN: A late entry captured outside the allowed radius
	// WHEN: Classifying
	// THEN: invalid_location wins, the timing magnitude is preserved

	c := engine.NewClassifier(testLogger())
	ev := checkin("e1", attendance.CheckEntry, at(8, 30))
	ev.LocationValid = false

	result := c.Classify(ev, officeSchedule(), attendance.BuildDay([]attendance.CheckInEvent{ev}))

	assert.Equal(t, attendance.StatusInvalidLocation, result.Status)
	assert.Equal(t, 25, result.MinutesLate)
}

func TestClassify_InvalidLocation_OnTimeTiming_StillInvalid(t *testing.T) {
	c := engine.NewClassifier(testLogger())
	ev := checkin("e1", attendance.CheckEntry, at(8, 0))
	ev.LocationValid = false

	result := c.Classify(ev, officeSchedule(), attendance.BuildDay([]attendance.CheckInEvent{ev}))

	assert.Equal(t, attendance.StatusInvalidLocation, result.Status)
	assert.Zero(t, result.MinutesLate)
}
