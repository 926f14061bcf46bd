package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type TourView struct {
	ID                   uuid.UUID  `json:"id"`
	GuideID              uuid.UUID  `json:"guide_id"`
	GuideName            string     `json:"guide_name"`
	Title                string     `json:"title"`
	Capacity             int32      `json:"capacity"`
	PriceCents           *int64     `json:"price_cents,omitempty"`
	Currency             string     `json:"currency"`
	StartsAt             time.Time  `json:"starts_at"`
	EndsAt               time.Time  `json:"ends_at"`
	Status               string     `json:"status"`
	Kind                 string     `json:"kind"`
	BookingDeadlineHours int32      `json:"booking_deadline_hours"`
	BookingsCount        int32      `json:"bookings_count"`
	BookedSpots          int32      `json:"booked_spots"`
	AvailableSpots       int32      `json:"available_spots"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

type TourListItem struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Capacity       int32     `json:"capacity"`
	PriceCents     *int64    `json:"price_cents,omitempty"`
	Currency       string    `json:"currency"`
	StartsAt       time.Time `json:"starts_at"`
	Status         string    `json:"status"`
	Kind           string    `json:"kind"`
	AvailableSpots int32     `json:"available_spots"`
	Bookable       bool      `json:"bookable"`
}

type AddOnView struct {
	ID          uuid.UUID `json:"id"`
	TourID      uuid.UUID `json:"tour_id"`
	Name        string    `json:"name"`
	PriceCents  int64     `json:"price_cents"`
	PricingMode string    `json:"pricing_mode"`
	MaxQuantity *int32    `json:"max_quantity,omitempty"`
	Active      bool      `json:"active"`
	Position    int32     `json:"position"`
	KindTag     string    `json:"kind_tag"`
}

type BookingAddOnView struct {
	AddOnID             uuid.UUID `json:"add_on_id"`
	AddOnName           string    `json:"add_on_name"`
	Quantity            int32     `json:"quantity"`
	PriceAtBookingCents int64     `json:"price_at_booking_cents"`
	PricingMode         string    `json:"pricing_mode"`
	LineTotalCents      int64     `json:"line_total_cents"`
}

type BookingView struct {
	ID              uuid.UUID          `json:"id"`
	TourID          uuid.UUID          `json:"tour_id"`
	TourTitle       string             `json:"tour_title"`
	TourGuideID     uuid.UUID          `json:"tour_guide_id"`
	TouristID       *uuid.UUID         `json:"tourist_id,omitempty"`
	ContactName     string             `json:"contact_name"`
	ContactEmail    string             `json:"contact_email"`
	Spots           int32              `json:"spots"`
	Status          string             `json:"status"`
	Provenance      string             `json:"provenance"`
	AddOns          []BookingAddOnView `json:"add_ons"`
	TourTotalCents  int64              `json:"tour_total_cents"`
	GrandTotalCents int64              `json:"grand_total_cents"`
	Currency        string             `json:"currency"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

type BookingListItem struct {
	ID        uuid.UUID `json:"id"`
	TourID    uuid.UUID `json:"tour_id"`
	TourTitle string    `json:"tour_title"`
	Spots     int32     `json:"spots"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthorizedUserView struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	IsActive bool      `json:"is_active"`
}

type TourViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*TourView, error)
	List(ctx context.Context, limit, offset int32) ([]*TourListItem, error)
	ListByGuide(ctx context.Context, guideID uuid.UUID, limit, offset int32) ([]*TourListItem, error)
	AddOnsByTour(ctx context.Context, tourID uuid.UUID) ([]*AddOnView, error)
}

type BookingViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByTourist(ctx context.Context, touristID uuid.UUID, limit, offset int32) ([]*BookingListItem, error)
	FindByTour(ctx context.Context, tourID uuid.UUID, limit, offset int32) ([]*BookingListItem, error)
}
