package booking

import "fmt"

// ValidationKind identifies a single violated admission rule. All failures are
// user-facing business outcomes, never process-fatal.
type ValidationKind string

const (
	KindInvalidSpotCount                 ValidationKind = "INVALID_SPOT_COUNT"
	KindCapacityExceeded                 ValidationKind = "CAPACITY_EXCEEDED"
	KindPrivateTourAlreadyBooked         ValidationKind = "PRIVATE_TOUR_ALREADY_BOOKED"
	KindPrivateTourPartialBuyout         ValidationKind = "PRIVATE_TOUR_PARTIAL_BUYOUT_NOT_ALLOWED"
	KindBookingDeadlinePassed            ValidationKind = "BOOKING_DEADLINE_PASSED"
	KindTourNotBookable                  ValidationKind = "TOUR_NOT_BOOKABLE"
	KindAddOnQuantityExceedsMaximum      ValidationKind = "ADDON_QUANTITY_EXCEEDS_MAXIMUM"
	KindDuplicateAddOnOnBooking          ValidationKind = "DUPLICATE_ADDON_ON_BOOKING"
	KindAddOnNotAvailable                ValidationKind = "ADDON_NOT_AVAILABLE"
)

type ValidationError struct {
	Kind    ValidationKind `json:"kind"`
	Message string         `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newValidationError(kind ValidationKind, format string, args ...any) ValidationError {
	return ValidationError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// HasKind reports whether any collected failure matches kind.
func HasKind(errs []ValidationError, kind ValidationKind) bool {
	for _, e := range errs {
		if e.Kind == kind {
			return true
		}
	}
	return false
}
