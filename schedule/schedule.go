/*
Package schedule resolves the work calendar a check-in is judged against.

PURPOSE:
  Each product line carries a weekly work calendar: work days, entry and
  exit times, the lunch window, and the on-time tolerance. The Provider
  resolves the persisted schedule for a line or falls back to that line's
  canonical built-in default, and answers the "is this a work day" question
  holidays included.

KEY CONCEPTS:
  - MinuteOfDay: A clock time as minutes since local midnight
  - ProductSchedule: The weekly calendar for one product line
  - Provider: Persisted schedule or built-in default, plus IsWorkDay
  - Built-in defaults: One canonical schedule per known product line

INVARIANTS:
  - EntryTime < ExitTime
  - LunchDurationMinutes > 0
  Validated on every admin update; the built-in defaults satisfy them.

SEE ALSO:
  - holiday.go: Holiday calendar consulted by IsWorkDay
  - report.go: Business-day counting for attendance rates
*/
package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// MINUTE OF DAY - Clock times without dates
// =============================================================================

// MinuteOfDay is a clock time expressed as minutes since local midnight.
type MinuteOfDay int

// ParseClock parses "15:04" into a MinuteOfDay.
func ParseClock(s string) (MinuteOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return MinuteOfDay(t.Hour()*60 + t.Minute()), nil
}

// MustClock parses "15:04" and panics on error. For built-in defaults only.
func MustClock(s string) MinuteOfDay {
	m, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return m
}

// MinuteOf projects a timestamp onto its local minute of day.
func MinuteOf(t time.Time) MinuteOfDay {
	lt := t.Local()
	return MinuteOfDay(lt.Hour()*60 + lt.Minute())
}

func (m MinuteOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

// =============================================================================
// PRODUCT SCHEDULE
// =============================================================================

// ProductSchedule is the weekly work calendar for one product line.
// Immutable during a classification; mutated only via explicit admin update.
type ProductSchedule struct {
	ProductLine          string
	WorkDays             []time.Weekday
	EntryTime            MinuteOfDay
	ExitTime             MinuteOfDay
	LunchStartTime       MinuteOfDay
	LunchDurationMinutes int
	ToleranceMinutes     int
	WorksOnHolidays      bool
}

var (
	ErrScheduleNotFound = errors.New("schedule not found")
	ErrInvalidSchedule  = errors.New("invalid schedule")
)

// Validate enforces the schedule invariants.
func (s ProductSchedule) Validate() error {
	if s.ProductLine == "" {
		return fmt.Errorf("%w: product line is required", ErrInvalidSchedule)
	}
	if s.EntryTime >= s.ExitTime {
		return fmt.Errorf("%w: entry time %s must precede exit time %s",
			ErrInvalidSchedule, s.EntryTime, s.ExitTime)
	}
	if s.LunchDurationMinutes <= 0 {
		return fmt.Errorf("%w: lunch duration must be positive", ErrInvalidSchedule)
	}
	if len(s.WorkDays) == 0 {
		return fmt.Errorf("%w: at least one work day is required", ErrInvalidSchedule)
	}
	return nil
}

// WorksOn reports whether the weekday is part of the calendar.
func (s ProductSchedule) WorksOn(wd time.Weekday) bool {
	for _, d := range s.WorkDays {
		if d == wd {
			return true
		}
	}
	return false
}

// =============================================================================
// BUILT-IN DEFAULTS - One canonical schedule per known product line
// =============================================================================

var monToFri = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
}

var monToSat = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday,
}

// builtinDefaults are the canonical schedules applied when no schedule has
// been persisted for a product line.
var builtinDefaults = map[string]ProductSchedule{
	"assembly": {
		ProductLine:          "assembly",
		WorkDays:             monToSat,
		EntryTime:            MustClock("06:00"),
		ExitTime:             MustClock("14:30"),
		LunchStartTime:       MustClock("10:00"),
		LunchDurationMinutes: 30,
		ToleranceMinutes:     10,
		WorksOnHolidays:      true,
	},
	"packaging": {
		ProductLine:          "packaging",
		WorkDays:             monToSat,
		EntryTime:            MustClock("08:00"),
		ExitTime:             MustClock("17:00"),
		LunchStartTime:       MustClock("12:00"),
		LunchDurationMinutes: 45,
		ToleranceMinutes:     5,
		WorksOnHolidays:      false,
	},
	"logistics": {
		ProductLine:          "logistics",
		WorkDays:             monToSat,
		EntryTime:            MustClock("07:00"),
		ExitTime:             MustClock("16:00"),
		LunchStartTime:       MustClock("12:30"),
		LunchDurationMinutes: 60,
		ToleranceMinutes:     15,
		WorksOnHolidays:      true,
	},
	"administration": {
		ProductLine:          "administration",
		WorkDays:             monToFri,
		EntryTime:            MustClock("09:00"),
		ExitTime:             MustClock("18:00"),
		LunchStartTime:       MustClock("13:00"),
		LunchDurationMinutes: 60,
		ToleranceMinutes:     5,
		WorksOnHolidays:      false,
	},
}

// DefaultFor returns the canonical default schedule for a product line.
// Unknown lines get a standard Monday-Friday office schedule.
func DefaultFor(productLine string) ProductSchedule {
	if s, ok := builtinDefaults[productLine]; ok {
		return s
	}
	return ProductSchedule{
		ProductLine:          productLine,
		WorkDays:             monToFri,
		EntryTime:            MustClock("08:00"),
		ExitTime:             MustClock("17:00"),
		LunchStartTime:       MustClock("13:00"),
		LunchDurationMinutes: 60,
		ToleranceMinutes:     5,
		WorksOnHolidays:      false,
	}
}

// =============================================================================
// STORE + PROVIDER
// =============================================================================

// Store persists admin-updated schedules, keyed by product line.
type Store interface {
	// Get returns the persisted schedule for a product line.
	// Returns ErrScheduleNotFound when none was ever persisted.
	Get(ctx context.Context, productLine string) (ProductSchedule, error)

	// Put creates or replaces the schedule for a product line.
	Put(ctx context.Context, s ProductSchedule) error
}

// Provider resolves schedules and answers work-day questions.
type Provider struct {
	store    Store
	holidays *HolidayCalendar
}

func NewProvider(store Store, holidays *HolidayCalendar) *Provider {
	return &Provider{store: store, holidays: holidays}
}

// Resolve returns the persisted schedule for the product line, or the
// built-in default when none exists. A missing schedule is a valid state,
// never an error.
func (p *Provider) Resolve(ctx context.Context, productLine string) (ProductSchedule, error) {
	s, err := p.store.Get(ctx, productLine)
	if err != nil {
		if errors.Is(err, ErrScheduleNotFound) {
			return DefaultFor(productLine), nil
		}
		return ProductSchedule{}, fmt.Errorf("resolving schedule for %s: %w", productLine, err)
	}
	return s, nil
}

// IsWorkDay reports whether the date is a work day for the product line:
// false when the weekday is off-calendar, false when the line observes
// holidays and a holiday scoped to it (or unscoped) falls on the date.
func (p *Provider) IsWorkDay(ctx context.Context, productLine string, day time.Time) (bool, error) {
	s, err := p.Resolve(ctx, productLine)
	if err != nil {
		return false, err
	}
	if !s.WorksOn(day.Weekday()) {
		return false, nil
	}
	if s.WorksOnHolidays || p.holidays == nil {
		return true, nil
	}
	h, err := p.holidays.HolidayFor(ctx, productLine, day)
	if err != nil {
		return false, err
	}
	return h == nil, nil
}
