package booking

import (
	"errors"
	"time"

	"tourbook/internal/domain/tour"

	"github.com/google/uuid"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// AddOnLine is a priced extra attached to one booking. The unit price and
// pricing mode are frozen from the catalog add-on at creation; later catalog
// edits never change what the tourist agreed to pay.
type AddOnLine struct {
	id                 uuid.UUID
	bookingID          uuid.UUID
	addOnID            uuid.UUID
	quantity           int32
	priceAtBookingCents int64
	pricingMode        tour.PricingMode
	createdAt          time.Time
}

// NewAddOnLine freezes the catalog add-on's current price into the line.
func NewAddOnLine(bookingID uuid.UUID, catalogAddOn *tour.AddOn, quantity int32) (*AddOnLine, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	return &AddOnLine{
		id:                  uuid.New(),
		bookingID:           bookingID,
		addOnID:             catalogAddOn.ID(),
		quantity:            quantity,
		priceAtBookingCents: catalogAddOn.PriceCents(),
		pricingMode:         catalogAddOn.PricingMode(),
	}, nil
}

func ReconstructAddOnLine(
	id, bookingID, addOnID uuid.UUID,
	quantity int32,
	priceAtBookingCents int64,
	pricingMode tour.PricingMode,
	createdAt time.Time,
) *AddOnLine {
	return &AddOnLine{
		id:                  id,
		bookingID:           bookingID,
		addOnID:             addOnID,
		quantity:            quantity,
		priceAtBookingCents: priceAtBookingCents,
		pricingMode:         pricingMode,
		createdAt:           createdAt,
	}
}

func (l *AddOnLine) ID() uuid.UUID               { return l.id }
func (l *AddOnLine) BookingID() uuid.UUID        { return l.bookingID }
func (l *AddOnLine) AddOnID() uuid.UUID          { return l.addOnID }
func (l *AddOnLine) Quantity() int32             { return l.quantity }
func (l *AddOnLine) PriceAtBookingCents() int64  { return l.priceAtBookingCents }
func (l *AddOnLine) PricingMode() tour.PricingMode { return l.pricingMode }
func (l *AddOnLine) CreatedAt() time.Time        { return l.createdAt }
