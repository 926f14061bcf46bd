package request

import (
	"strings"
	"time"

	"tourbook/internal/domain/tour"

	"github.com/google/uuid"
)

type CreateTourRequest struct {
	Title                string    `json:"title" binding:"required,max=200"`
	Capacity             int32     `json:"capacity" binding:"required,min=1"`
	PriceCents           *int64    `json:"price_cents,omitempty" binding:"omitempty,min=0"`
	Currency             string    `json:"currency" binding:"required,len=3"`
	StartsAt             time.Time `json:"starts_at" binding:"required"`
	EndsAt               time.Time `json:"ends_at" binding:"required"`
	Kind                 string    `json:"kind" binding:"required,oneof=public private"`
	BookingDeadlineHours int32     `json:"booking_deadline_hours" binding:"required,min=1"`
}

func (r CreateTourRequest) ToDomain(guideID uuid.UUID) (*tour.Tour, error) {
	return tour.NewTour(
		guideID,
		strings.TrimSpace(r.Title),
		r.Capacity,
		r.PriceCents,
		strings.ToUpper(r.Currency),
		r.StartsAt,
		r.EndsAt,
		tour.Kind(r.Kind),
		r.BookingDeadlineHours,
	)
}

type CreateAddOnRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	PriceCents  int64  `json:"price_cents" binding:"required,min=1"`
	PricingMode string `json:"pricing_mode" binding:"required,oneof=per_person flat_fee"`
	MaxQuantity *int32 `json:"max_quantity,omitempty" binding:"omitempty,min=1"`
	Position    int32  `json:"position"`
	KindTag     string `json:"kind_tag" binding:"omitempty,max=50"`
}

func (r CreateAddOnRequest) ToDomain(tourID uuid.UUID) (*tour.AddOn, error) {
	return tour.NewAddOn(
		tourID,
		strings.TrimSpace(r.Name),
		r.PriceCents,
		tour.PricingMode(r.PricingMode),
		r.MaxQuantity,
		r.Position,
		strings.TrimSpace(r.KindTag),
	)
}

type UpdateAddOnRequest struct {
	PriceCents *int64 `json:"price_cents,omitempty" binding:"omitempty,min=1"`
	Active     *bool  `json:"active,omitempty"`
}
