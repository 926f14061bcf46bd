package tour

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyTitle             = errors.New("title cannot be empty")
	ErrInvalidCapacity        = errors.New("capacity must be positive")
	ErrInvalidTimeRange       = errors.New("end time must be after start time")
	ErrInvalidDeadlineHours   = errors.New("booking deadline hours must be positive")
	ErrInvalidPrice           = errors.New("price cannot be negative")
	ErrInvalidStatus          = errors.New("invalid tour status")
	ErrInvalidKind            = errors.New("invalid tour kind")
	ErrNotCancellable         = errors.New("tour can no longer be cancelled")
	ErrAlreadyCancelledStatus = errors.New("tour is already cancelled")
)

type Tour struct {
	id                   uuid.UUID
	guideID              uuid.UUID
	title                string
	capacity             int32
	priceCents           *int64
	currency             string
	startsAt             time.Time
	endsAt               time.Time
	status               Status
	kind                 Kind
	bookingDeadlineHours int32
	bookingsCount        int32
	createdAt            time.Time
	updatedAt            time.Time
}

func NewTour(
	guideID uuid.UUID,
	title string,
	capacity int32,
	priceCents *int64,
	currency string,
	startsAt, endsAt time.Time,
	kind Kind,
	bookingDeadlineHours int32,
) (*Tour, error) {
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if !endsAt.After(startsAt) {
		return nil, ErrInvalidTimeRange
	}
	if !kind.IsValid() {
		return nil, ErrInvalidKind
	}
	if bookingDeadlineHours <= 0 {
		return nil, ErrInvalidDeadlineHours
	}
	if priceCents != nil && *priceCents < 0 {
		return nil, ErrInvalidPrice
	}

	return &Tour{
		id:                   uuid.New(),
		guideID:              guideID,
		title:                title,
		capacity:             capacity,
		priceCents:           priceCents,
		currency:             currency,
		startsAt:             startsAt,
		endsAt:               endsAt,
		status:               StatusScheduled,
		kind:                 kind,
		bookingDeadlineHours: bookingDeadlineHours,
	}, nil
}

func ReconstructTour(
	id, guideID uuid.UUID,
	title string,
	capacity int32,
	priceCents *int64,
	currency string,
	startsAt, endsAt time.Time,
	status Status,
	kind Kind,
	bookingDeadlineHours int32,
	bookingsCount int32,
	createdAt, updatedAt time.Time,
) *Tour {
	return &Tour{
		id:                   id,
		guideID:              guideID,
		title:                title,
		capacity:             capacity,
		priceCents:           priceCents,
		currency:             currency,
		startsAt:             startsAt,
		endsAt:               endsAt,
		status:               status,
		kind:                 kind,
		bookingDeadlineHours: bookingDeadlineHours,
		bookingsCount:        bookingsCount,
		createdAt:            createdAt,
		updatedAt:            updatedAt,
	}
}

func (t *Tour) ID() uuid.UUID                { return t.id }
func (t *Tour) GuideID() uuid.UUID           { return t.guideID }
func (t *Tour) Title() string                { return t.title }
func (t *Tour) Capacity() int32              { return t.capacity }
func (t *Tour) PriceCents() *int64           { return t.priceCents }
func (t *Tour) Currency() string             { return t.currency }
func (t *Tour) StartsAt() time.Time          { return t.startsAt }
func (t *Tour) EndsAt() time.Time            { return t.endsAt }
func (t *Tour) Status() Status               { return t.status }
func (t *Tour) Kind() Kind                   { return t.kind }
func (t *Tour) BookingDeadlineHours() int32  { return t.bookingDeadlineHours }
func (t *Tour) BookingsCount() int32         { return t.bookingsCount }
func (t *Tour) CreatedAt() time.Time         { return t.createdAt }
func (t *Tour) UpdatedAt() time.Time         { return t.updatedAt }

func (t *Tour) IsPrivate() bool {
	return t.kind == KindPrivate
}

// BookingDeadline is the instant after which a private tour stops accepting
// bookings. Public tours have no deadline and return nil.
func (t *Tour) BookingDeadline() *time.Time {
	if !t.IsPrivate() {
		return nil
	}
	d := t.startsAt.Add(-time.Duration(t.bookingDeadlineHours) * time.Hour)
	return &d
}

// AcceptsBookings reports whether the tour's status and start time still admit
// new bookings at asOf. Capacity and private-tour exclusivity are checked
// separately by the booking validator against the current reservation set.
func (t *Tour) AcceptsBookings(asOf time.Time) bool {
	return t.status == StatusScheduled && t.startsAt.After(asOf)
}
