package booking

import (
	"tourbook/internal/domain/tour"
)

// TourLineTotal is price-per-spot times spots, in minor currency units.
// Tours without a price are free.
func TourLineTotal(t *tour.Tour, spots int32) int64 {
	if t.PriceCents() == nil {
		return 0
	}
	return *t.PriceCents() * int64(spots)
}

// AddOnLineTotal computes one line from its frozen unit price. Per-person
// extras scale with the party size; flat fees apply once per purchase
// regardless of spots.
func AddOnLineTotal(line *AddOnLine, spots int32) int64 {
	switch line.PricingMode() {
	case tour.PricingPerPerson:
		return line.PriceAtBookingCents() * int64(spots) * int64(line.Quantity())
	case tour.PricingFlatFee:
		return line.PriceAtBookingCents() * int64(line.Quantity())
	default:
		return 0
	}
}

// GrandTotal is the tour line plus every add-on line, all read from frozen
// prices; the live catalog never participates.
func GrandTotal(t *tour.Tour, b *Booking, lines []*AddOnLine) int64 {
	total := TourLineTotal(t, b.Spots())
	for _, line := range lines {
		total += AddOnLineTotal(line, b.Spots())
	}
	return total
}
