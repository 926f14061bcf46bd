package request

import (
	"strings"

	"tourbook/internal/domain/booking"

	"github.com/google/uuid"
)

type BookingAddOnSelection struct {
	AddOnID  uuid.UUID `json:"add_on_id" binding:"required"`
	Quantity int32     `json:"quantity" binding:"required,min=1"`
}

type CreateBookingRequest struct {
	TourID       uuid.UUID               `json:"tour_id" binding:"required"`
	Spots        int32                   `json:"spots" binding:"required"`
	ContactName  string                  `json:"contact_name" binding:"required,max=100"`
	ContactEmail string                  `json:"contact_email" binding:"required,email"`
	AddOns       []BookingAddOnSelection `json:"add_ons,omitempty" binding:"omitempty,dive"`
}

func (r CreateBookingRequest) TrimmedContactName() string {
	return strings.TrimSpace(r.ContactName)
}

func (r CreateBookingRequest) Selections() []booking.AddOnSelection {
	if len(r.AddOns) == 0 {
		return nil
	}
	selections := make([]booking.AddOnSelection, 0, len(r.AddOns))
	for _, a := range r.AddOns {
		selections = append(selections, booking.AddOnSelection{
			AddOnID:  a.AddOnID,
			Quantity: a.Quantity,
		})
	}
	return selections
}

type UpdateBookingRequest struct {
	ContactName *string `json:"contact_name,omitempty" binding:"omitempty,max=100"`
	Spots       *int32  `json:"spots,omitempty" binding:"omitempty,min=1"`
}

func (r UpdateBookingRequest) TrimmedContactName() *string {
	if r.ContactName == nil {
		return nil
	}
	name := strings.TrimSpace(*r.ContactName)
	return &name
}
