package response

import (
	"time"

	"tourbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type TourResponse struct {
	ID                   uuid.UUID `json:"id"`
	GuideID              uuid.UUID `json:"guideId"`
	GuideName            string    `json:"guideName"`
	Title                string    `json:"title"`
	Capacity             int32     `json:"capacity"`
	PriceCents           *int64    `json:"priceCents,omitempty"`
	Currency             string    `json:"currency"`
	StartsAt             time.Time `json:"startsAt"`
	EndsAt               time.Time `json:"endsAt"`
	Status               string    `json:"status"`
	Kind                 string    `json:"kind"`
	BookingDeadlineHours int32     `json:"bookingDeadlineHours"`
	BookingsCount        int32     `json:"bookingsCount"`
	BookedSpots          int32     `json:"bookedSpots"`
	AvailableSpots       int32     `json:"availableSpots"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

type TourListResponse struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Capacity       int32     `json:"capacity"`
	PriceCents     *int64    `json:"priceCents,omitempty"`
	Currency       string    `json:"currency"`
	StartsAt       time.Time `json:"startsAt"`
	Status         string    `json:"status"`
	Kind           string    `json:"kind"`
	AvailableSpots int32     `json:"availableSpots"`
	Bookable       bool      `json:"bookable"`
}

type AddOnResponse struct {
	ID          uuid.UUID `json:"id"`
	TourID      uuid.UUID `json:"tourId"`
	Name        string    `json:"name"`
	PriceCents  int64     `json:"priceCents"`
	PricingMode string    `json:"pricingMode"`
	MaxQuantity *int32    `json:"maxQuantity,omitempty"`
	Active      bool      `json:"active"`
	Position    int32     `json:"position"`
	KindTag     string    `json:"kindTag,omitempty"`
}

func FromTourView(rm *queries.TourView) *TourResponse {
	var resp TourResponse
	_ = copier.Copy(&resp, rm)
	return &resp
}

func FromTourListItems(rms []*queries.TourListItem) []*TourListResponse {
	resp := make([]*TourListResponse, 0, len(rms))
	for _, rm := range rms {
		var item TourListResponse
		_ = copier.Copy(&item, rm)
		resp = append(resp, &item)
	}
	return resp
}

func FromAddOnView(rm *queries.AddOnView) *AddOnResponse {
	var resp AddOnResponse
	_ = copier.Copy(&resp, rm)
	return &resp
}

func FromAddOnViews(rms []*queries.AddOnView) []*AddOnResponse {
	resp := make([]*AddOnResponse, 0, len(rms))
	for _, rm := range rms {
		resp = append(resp, FromAddOnView(rm))
	}
	return resp
}
