package attendance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/attendance-engine/attendance"
)

// =============================================================================
// CALENDAR DATES
// =============================================================================

func TestDate_At_WallClockMinute(t *testing.T) {
	at := attendance.Date("2026-08-24").At(9*60 + 30)

	assert.Equal(t, 9, at.Hour())
	assert.Equal(t, 30, at.Minute())
	assert.Equal(t, attendance.Date("2026-08-24"), attendance.DateOf(at))
}

func TestDate_At_PinsWallClockAcrossDST(t *testing.T) {
	// GIVEN: A zone whose clocks jump 02:00 to 03:00 on 2026-03-08
	// WHEN: Asking for minute 540 of that day
	// THEN: The result is 09:00 wall clock, not midnight plus nine elapsed
	//       hours, which would land on 10:00

	orig := time.Local
	t.Cleanup(func() { time.Local = orig })
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	time.Local = loc

	at := attendance.Date("2026-03-08").At(9 * 60)
	assert.Equal(t, 9, at.Hour())
	assert.Equal(t, 0, at.Minute())
}

func TestDate_At_InvalidDateIsZero(t *testing.T) {
	assert.True(t, attendance.Date("not-a-date").At(60).IsZero())
}

func TestDate_Valid(t *testing.T) {
	assert.True(t, attendance.Date("2026-08-24").Valid())
	assert.False(t, attendance.Date("2026-8-24").Valid())
	assert.False(t, attendance.Date("").Valid())
}
