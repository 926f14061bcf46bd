package booking

import (
	"errors"
	"time"

	"tourbook/internal/domain/user"

	"github.com/google/uuid"
)

var (
	ErrEmptyContactName = errors.New("contact name cannot be empty")
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
)

// Booking is one party's claim on spots within a tour. Contact name and email
// are snapshots taken at creation, not live references, so guest bookings stay
// reachable through the captured email after the account (if any) changes.
type Booking struct {
	id           uuid.UUID
	tourID       uuid.UUID
	touristID    *uuid.UUID
	contactName  string
	contactEmail user.Email
	spots        int32
	status       Status
	provenance   Provenance
	createdAt    time.Time
	updatedAt    time.Time
}

func NewBooking(
	tourID uuid.UUID,
	touristID *uuid.UUID,
	contactName string,
	contactEmail user.Email,
	spots int32,
	provenance Provenance,
) (*Booking, error) {
	if contactName == "" {
		return nil, ErrEmptyContactName
	}

	return &Booking{
		id:           uuid.New(),
		tourID:       tourID,
		touristID:    touristID,
		contactName:  contactName,
		contactEmail: contactEmail,
		spots:        spots,
		status:       StatusConfirmed,
		provenance:   provenance,
	}, nil
}

func ReconstructBooking(
	id, tourID uuid.UUID,
	touristID *uuid.UUID,
	contactName string,
	contactEmail user.Email,
	spots int32,
	status Status,
	provenance Provenance,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:           id,
		tourID:       tourID,
		touristID:    touristID,
		contactName:  contactName,
		contactEmail: contactEmail,
		spots:        spots,
		status:       status,
		provenance:   provenance,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (b *Booking) ID() uuid.UUID           { return b.id }
func (b *Booking) TourID() uuid.UUID       { return b.tourID }
func (b *Booking) TouristID() *uuid.UUID   { return b.touristID }
func (b *Booking) ContactName() string     { return b.contactName }
func (b *Booking) ContactEmail() user.Email { return b.contactEmail }
func (b *Booking) Spots() int32            { return b.spots }
func (b *Booking) Status() Status          { return b.status }
func (b *Booking) Provenance() Provenance  { return b.provenance }
func (b *Booking) CreatedAt() time.Time    { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time    { return b.updatedAt }

func (b *Booking) IsCancelled() bool {
	return b.status == StatusCancelled
}

// Cancel is idempotent at the storage level but reports the repeat attempt so
// callers can tell the two outcomes apart. A cancelled booking is never
// resurrected.
func (b *Booking) Cancel() error {
	if b.status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	b.status = StatusCancelled
	return nil
}

func (b *Booking) Rename(contactName string) error {
	if b.status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	if contactName == "" {
		return ErrEmptyContactName
	}
	b.contactName = contactName
	return nil
}

// Resize only mutates the entity; the caller must re-run admission with this
// booking's current spots excluded before persisting.
func (b *Booking) Resize(spots int32) error {
	if b.status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	b.spots = spots
	return nil
}
