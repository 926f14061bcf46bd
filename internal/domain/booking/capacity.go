package booking

import (
	"github.com/google/uuid"
)

// Record is the minimal reservation data the capacity math needs. Repositories
// hand these to the ledger so the functions stay pure over a snapshot.
type Record struct {
	ID     uuid.UUID
	Spots  int32
	Status Status
}

// BookedSpots sums the spots of non-cancelled bookings, excluding at most one
// booking by ID (the one being revalidated on update). Cancelled bookings
// never consume capacity.
func BookedSpots(records []Record, excluding *uuid.UUID) int32 {
	var sum int32
	for _, r := range records {
		if r.Status == StatusCancelled {
			continue
		}
		if excluding != nil && r.ID == *excluding {
			continue
		}
		sum += r.Spots
	}
	return sum
}

// AvailableSpots is capacity minus the booked sum. A tour with only cancelled
// bookings reports full capacity.
func AvailableSpots(capacity int32, records []Record, excluding *uuid.UUID) int32 {
	return capacity - BookedSpots(records, excluding)
}

// activeCount reports how many non-cancelled bookings exist besides the one
// being revalidated; the private-tour exclusivity rule hangs off this.
func activeCount(records []Record, excluding *uuid.UUID) int {
	n := 0
	for _, r := range records {
		if r.Status == StatusCancelled {
			continue
		}
		if excluding != nil && r.ID == *excluding {
			continue
		}
		n++
	}
	return n
}
