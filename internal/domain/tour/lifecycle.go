package tour

import "time"

// Advance applies the time-driven lifecycle automaton to the tour and reports
// whether the status changed. Transitions only ever move forward:
//
//	scheduled -> ongoing  when now >= startsAt
//	ongoing   -> done     when now >  endsAt (strict; a tour ending exactly
//	                      "now" has not finished yet)
//
// done and cancelled are terminal. Re-applying Advance with the same now is a
// no-op, so the periodic sweep is idempotent.
func (t *Tour) Advance(now time.Time) (Status, bool) {
	switch t.status {
	case StatusScheduled:
		if !now.Before(t.startsAt) {
			t.status = StatusOngoing
			// A sweep that was delayed past endsAt still settles in one pass.
			if now.After(t.endsAt) {
				t.status = StatusDone
			}
			return t.status, true
		}
	case StatusOngoing:
		if now.After(t.endsAt) {
			t.status = StatusDone
			return t.status, true
		}
	case StatusDone, StatusCancelled:
	}
	return t.status, false
}

// Cancel is the explicit external action; the automaton never produces
// cancelled. Only scheduled and ongoing tours can be cancelled.
func (t *Tour) Cancel() error {
	switch t.status {
	case StatusScheduled, StatusOngoing:
		t.status = StatusCancelled
		return nil
	case StatusCancelled:
		return ErrAlreadyCancelledStatus
	default:
		return ErrNotCancellable
	}
}
