//go:build unit || e2e

package builder

import (
	dombooking "tourbook/internal/domain/booking"
	"tourbook/internal/domain/user"
	reqdto "tourbook/internal/handler/dto/request"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	TourID       uuid.UUID
	TouristID    *uuid.UUID
	ContactName  string
	ContactEmail string
	Spots        int32
	Provenance   dombooking.Provenance
}

func NewBookingBuilder() *BookingBuilder {
	touristID := uuid.New()
	return &BookingBuilder{
		TourID:       uuid.New(),
		TouristID:    &touristID,
		ContactName:  "Jamie Walker",
		ContactEmail: "jamie@example.com",
		Spots:        2,
		Provenance:   dombooking.ProvenancePortal,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) Guest() *BookingBuilder {
	b.TouristID = nil
	b.Provenance = dombooking.ProvenanceGuest
	return b
}

func (b *BookingBuilder) BuildDomain() (*dombooking.Booking, error) {
	email, err := user.NewEmail(b.ContactEmail)
	if err != nil {
		return nil, err
	}
	return dombooking.NewBooking(
		b.TourID,
		b.TouristID,
		b.ContactName,
		email,
		b.Spots,
		b.Provenance,
	)
}

func (b *BookingBuilder) BuildRequest() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		TourID:       b.TourID,
		Spots:        b.Spots,
		ContactName:  b.ContactName,
		ContactEmail: b.ContactEmail,
	}
}

// ConfirmedRecord is a shorthand for the capacity snapshot entries the
// validator consumes.
func ConfirmedRecord(spots int32) dombooking.Record {
	return dombooking.Record{ID: uuid.New(), Spots: spots, Status: dombooking.StatusConfirmed}
}

func CancelledRecord(spots int32) dombooking.Record {
	return dombooking.Record{ID: uuid.New(), Spots: spots, Status: dombooking.StatusCancelled}
}
