package booking

import (
	"time"

	"tourbook/internal/domain/tour"

	"github.com/google/uuid"
)

// Proposed carries the admission request before an entity exists. Excluding is
// set when revalidating an update so the booking's own spots do not count
// against itself.
type Proposed struct {
	Spots     int32
	Excluding *uuid.UUID
}

// AddOnSelection pairs a catalog add-on ID with a requested quantity.
type AddOnSelection struct {
	AddOnID  uuid.UUID
	Quantity int32
}

// Validate enforces every admission rule for a reservation against a
// consistent snapshot of the tour's non-cancelled bookings. Rules are
// independent and all failures are collected so the caller can present them at
// once. Callers must hold the tour row lock for the duration of
// validate-then-insert; the validator itself has no side effects.
func Validate(t *tour.Tour, p Proposed, records []Record, asOf time.Time) []ValidationError {
	var errs []ValidationError

	if p.Spots <= 0 {
		errs = append(errs, newValidationError(KindInvalidSpotCount,
			"spot count must be positive, got %d", p.Spots))
	}

	if !t.AcceptsBookings(asOf) {
		errs = append(errs, newValidationError(KindTourNotBookable,
			"tour %q is not accepting bookings", t.Title()))
	}

	// Exclusivity runs before capacity would ever matter: the first confirmed
	// booking on a private tour exhausts capacity entirely.
	if t.IsPrivate() {
		if activeCount(records, p.Excluding) > 0 {
			errs = append(errs, newValidationError(KindPrivateTourAlreadyBooked,
				"private tour already has a reservation"))
		}
		if p.Spots > 0 && p.Spots != t.Capacity() {
			errs = append(errs, newValidationError(KindPrivateTourPartialBuyout,
				"private tour must be booked in full: %d spots required, got %d", t.Capacity(), p.Spots))
		}
		if deadline := t.BookingDeadline(); deadline != nil && !asOf.Before(*deadline) {
			errs = append(errs, newValidationError(KindBookingDeadlinePassed,
				"booking deadline passed at %s", deadline.Format(time.RFC3339)))
		}
	}

	if p.Spots > 0 {
		if available := AvailableSpots(t.Capacity(), records, p.Excluding); p.Spots > available {
			errs = append(errs, newValidationError(KindCapacityExceeded,
				"requested %d spots but only %d available", p.Spots, available))
		}
	}

	return errs
}

// ValidateAddOns checks the selected extras against the tour's catalog:
// the add-on must exist and be active, quantities must be positive and within
// the optional maximum, and no catalog item may appear twice (quantity
// expresses repetition).
func ValidateAddOns(catalog []*tour.AddOn, selections []AddOnSelection) []ValidationError {
	var errs []ValidationError

	byID := make(map[uuid.UUID]*tour.AddOn, len(catalog))
	for _, a := range catalog {
		byID[a.ID()] = a
	}

	seen := make(map[uuid.UUID]bool, len(selections))
	for _, sel := range selections {
		if seen[sel.AddOnID] {
			errs = append(errs, newValidationError(KindDuplicateAddOnOnBooking,
				"add-on %s selected more than once", sel.AddOnID))
			continue
		}
		seen[sel.AddOnID] = true

		a, ok := byID[sel.AddOnID]
		if !ok || !a.IsActive() {
			errs = append(errs, newValidationError(KindAddOnNotAvailable,
				"add-on %s is not available on this tour", sel.AddOnID))
			continue
		}

		if sel.Quantity <= 0 {
			errs = append(errs, newValidationError(KindInvalidSpotCount,
				"add-on %q quantity must be positive, got %d", a.Name(), sel.Quantity))
			continue
		}
		if maxQ := a.MaxQuantity(); maxQ != nil && sel.Quantity > *maxQ {
			errs = append(errs, newValidationError(KindAddOnQuantityExceedsMaximum,
				"add-on %q allows at most %d, got %d", a.Name(), *maxQ, sel.Quantity))
		}
	}

	return errs
}

// CanBook answers the cheap pre-check the listing layer shows as a "bookable"
// badge. It is advisory; admission always revalidates under the tour lock.
func CanBook(t *tour.Tour, records []Record, asOf time.Time) bool {
	if !t.AcceptsBookings(asOf) {
		return false
	}
	if t.IsPrivate() {
		if activeCount(records, nil) > 0 {
			return false
		}
		deadline := t.BookingDeadline()
		return deadline != nil && asOf.Before(*deadline)
	}
	return AvailableSpots(t.Capacity(), records, nil) > 0
}

// ListingSnapshot carries the per-tour aggregates a listing query computes in
// SQL, enough to answer CanBook without loading entities or records.
type ListingSnapshot struct {
	Status         tour.Status
	Kind           tour.Kind
	StartsAt       time.Time
	DeadlineHours  int32
	AvailableSpots int32
	ActiveBookings int32
}

// CanBookFromSnapshot is CanBook for the listing read path. The rules and
// deadline arithmetic must stay in lockstep with CanBook.
func CanBookFromSnapshot(s ListingSnapshot, asOf time.Time) bool {
	if s.Status != tour.StatusScheduled || !s.StartsAt.After(asOf) {
		return false
	}
	if s.Kind == tour.KindPrivate {
		if s.ActiveBookings > 0 {
			return false
		}
		deadline := s.StartsAt.Add(-time.Duration(s.DeadlineHours) * time.Hour)
		return asOf.Before(deadline)
	}
	return s.AvailableSpots > 0
}
