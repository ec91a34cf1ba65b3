package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/warp/attendance-engine/attendance"
)

// =============================================================================
// HOLIDAY CALENDAR - Date lookup, optionally scoped to product lines
// =============================================================================

// Holiday is a non-working date. An empty ProductLines slice means the
// holiday applies to every product line; otherwise only to the listed ones.
type Holiday struct {
	ID           string
	Date         attendance.Date
	Name         string
	ProductLines []string
}

// AppliesTo reports whether the holiday covers the product line.
func (h Holiday) AppliesTo(productLine string) bool {
	if len(h.ProductLines) == 0 {
		return true
	}
	for _, pl := range h.ProductLines {
		if pl == productLine {
			return true
		}
	}
	return false
}

// HolidayStore persists the holiday calendar.
type HolidayStore interface {
	Insert(ctx context.Context, h Holiday) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Holiday, error)
	ListByDate(ctx context.Context, date attendance.Date) ([]Holiday, error)
}

// HolidayCalendar answers date-to-holiday lookups against a store.
type HolidayCalendar struct {
	store HolidayStore
}

func NewHolidayCalendar(store HolidayStore) *HolidayCalendar {
	return &HolidayCalendar{store: store}
}

// HolidayFor returns the holiday covering the product line on the given day,
// or nil when the day is not a holiday for that line.
func (c *HolidayCalendar) HolidayFor(ctx context.Context, productLine string, day time.Time) (*Holiday, error) {
	hs, err := c.store.ListByDate(ctx, attendance.DateOf(day))
	if err != nil {
		return nil, fmt.Errorf("looking up holidays: %w", err)
	}
	for _, h := range hs {
		if h.AppliesTo(productLine) {
			found := h
			return &found, nil
		}
	}
	return nil, nil
}
