/*
session.go - Same-day session reconstruction

PURPOSE:
  Rebuilds the day's work and lunch sessions from the raw event list before
  any classification happens. Pairing is explicit: a closing event (exit,
  lunch_return) is matched to the most recent opening event (entry,
  lunch_out) that precedes it on the same calendar day and is not already
  closed. A closing event with no qualifying opener stays unpaired and the
  classifier degrades it to on_time rather than guessing a baseline.

SEE ALSO:
  - engine/classify.go: Consumes Day to classify lunch returns and exits
  - engine/detector.go: Consumes Day to find never-closed sessions
*/
package attendance

import "sort"

// Session pairs an opening event with its closing event, if one arrived.
type Session struct {
	Opening CheckInEvent
	Closing *CheckInEvent
}

// Open reports whether the session has no closing event yet.
func (s Session) Open() bool { return s.Closing == nil }

// Day is the reconstructed view of one employee's calendar day.
type Day struct {
	Date  Date
	Work  []Session // entry/exit pairs, in timestamp order
	Lunch []Session // lunch_out/lunch_return pairs, in timestamp order

	// Unpaired holds closing events with no qualifying opener before them.
	Unpaired []CheckInEvent
}

// BuildDay reconstructs sessions from one day's events. Events are processed
// in strict timestamp order regardless of input order.
func BuildDay(events []CheckInEvent) Day {
	sorted := make([]CheckInEvent, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var day Day
	if len(sorted) > 0 {
		day.Date = sorted[0].Date()
	}

	for _, ev := range sorted {
		switch ev.Type {
		case CheckEntry:
			day.Work = append(day.Work, Session{Opening: ev})
		case CheckLunchOut:
			day.Lunch = append(day.Lunch, Session{Opening: ev})
		case CheckExit:
			if !closeLast(day.Work, ev) {
				day.Unpaired = append(day.Unpaired, ev)
			}
		case CheckLunchReturn:
			if !closeLast(day.Lunch, ev) {
				day.Unpaired = append(day.Unpaired, ev)
			}
		}
	}
	return day
}

// closeLast attaches ev to the most recent open session whose opening
// strictly precedes it. Returns false when no session qualifies.
func closeLast(sessions []Session, ev CheckInEvent) bool {
	for i := len(sessions) - 1; i >= 0; i-- {
		if sessions[i].Open() && sessions[i].Opening.Timestamp.Before(ev.Timestamp) {
			closing := ev
			sessions[i].Closing = &closing
			return true
		}
	}
	return false
}

// PairedOpener returns the opening event matched to the given closing event,
// or nil when the event is unpaired or not a closing type.
func (d Day) PairedOpener(ev CheckInEvent) *CheckInEvent {
	var sessions []Session
	switch ev.Type {
	case CheckExit:
		sessions = d.Work
	case CheckLunchReturn:
		sessions = d.Lunch
	default:
		return nil
	}
	for _, s := range sessions {
		if s.Closing != nil && s.Closing.ID == ev.ID {
			opening := s.Opening
			return &opening
		}
	}
	return nil
}

// HasEntry reports whether any entry event was captured.
func (d Day) HasEntry() bool { return len(d.Work) > 0 }

// HasExit reports whether any work session was closed.
func (d Day) HasExit() bool {
	for _, s := range d.Work {
		if s.Closing != nil {
			return true
		}
	}
	return false
}

// OpenLunches returns lunch sessions that were never closed.
func (d Day) OpenLunches() []Session {
	var open []Session
	for _, s := range d.Lunch {
		if s.Open() {
			open = append(open, s)
		}
	}
	return open
}
