package tour

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// MaxAddOnsPerTour caps the catalog size per tour, counting disabled entries.
const MaxAddOnsPerTour = 10

var (
	ErrEmptyAddOnName      = errors.New("add-on name cannot be empty")
	ErrInvalidAddOnPrice   = errors.New("add-on price must be positive")
	ErrInvalidPricingMode  = errors.New("invalid pricing mode")
	ErrInvalidMaxQuantity  = errors.New("max quantity must be positive")
	ErrAddOnLimitReached   = errors.New("tour add-on limit reached")
)

// AddOn is a catalog item a guide offers on a tour. Its price is the live
// catalog price; bookings freeze their own copy at reservation time.
type AddOn struct {
	id          uuid.UUID
	tourID      uuid.UUID
	name        string
	priceCents  int64
	pricingMode PricingMode
	maxQuantity *int32
	active      bool
	position    int32
	kindTag     string
	createdAt   time.Time
	updatedAt   time.Time
}

func NewAddOn(
	tourID uuid.UUID,
	name string,
	priceCents int64,
	pricingMode PricingMode,
	maxQuantity *int32,
	position int32,
	kindTag string,
) (*AddOn, error) {
	if name == "" {
		return nil, ErrEmptyAddOnName
	}
	if priceCents <= 0 {
		return nil, ErrInvalidAddOnPrice
	}
	if !pricingMode.IsValid() {
		return nil, ErrInvalidPricingMode
	}
	if maxQuantity != nil && *maxQuantity <= 0 {
		return nil, ErrInvalidMaxQuantity
	}

	return &AddOn{
		id:          uuid.New(),
		tourID:      tourID,
		name:        name,
		priceCents:  priceCents,
		pricingMode: pricingMode,
		maxQuantity: maxQuantity,
		active:      true,
		position:    position,
		kindTag:     kindTag,
	}, nil
}

func ReconstructAddOn(
	id, tourID uuid.UUID,
	name string,
	priceCents int64,
	pricingMode PricingMode,
	maxQuantity *int32,
	active bool,
	position int32,
	kindTag string,
	createdAt, updatedAt time.Time,
) *AddOn {
	return &AddOn{
		id:          id,
		tourID:      tourID,
		name:        name,
		priceCents:  priceCents,
		pricingMode: pricingMode,
		maxQuantity: maxQuantity,
		active:      active,
		position:    position,
		kindTag:     kindTag,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (a *AddOn) ID() uuid.UUID            { return a.id }
func (a *AddOn) TourID() uuid.UUID        { return a.tourID }
func (a *AddOn) Name() string             { return a.name }
func (a *AddOn) PriceCents() int64        { return a.priceCents }
func (a *AddOn) PricingMode() PricingMode { return a.pricingMode }
func (a *AddOn) MaxQuantity() *int32      { return a.maxQuantity }
func (a *AddOn) IsActive() bool           { return a.active }
func (a *AddOn) Position() int32          { return a.position }
func (a *AddOn) KindTag() string          { return a.kindTag }
func (a *AddOn) CreatedAt() time.Time     { return a.createdAt }
func (a *AddOn) UpdatedAt() time.Time     { return a.updatedAt }

// Disable soft-deletes the catalog entry; existing booking lines keep their
// frozen price and are unaffected.
func (a *AddOn) Disable() {
	a.active = false
}

func (a *AddOn) Enable() {
	a.active = true
}

func (a *AddOn) ChangePrice(priceCents int64) error {
	if priceCents <= 0 {
		return ErrInvalidAddOnPrice
	}
	a.priceCents = priceCents
	return nil
}
