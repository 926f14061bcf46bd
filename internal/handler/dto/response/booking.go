package response

import (
	"time"

	"tourbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type BookingAddOnResponse struct {
	AddOnID             uuid.UUID `json:"addOnId"`
	AddOnName           string    `json:"addOnName"`
	Quantity            int32     `json:"quantity"`
	PriceAtBookingCents int64     `json:"priceAtBookingCents"`
	PricingMode         string    `json:"pricingMode"`
	LineTotalCents      int64     `json:"lineTotalCents"`
}

type BookingResponse struct {
	ID              uuid.UUID              `json:"id"`
	TourID          uuid.UUID              `json:"tourId"`
	TourTitle       string                 `json:"tourTitle"`
	TouristID       *uuid.UUID             `json:"touristId,omitempty"`
	ContactName     string                 `json:"contactName"`
	ContactEmail    string                 `json:"contactEmail"`
	Spots           int32                  `json:"spots"`
	Status          string                 `json:"status"`
	Provenance      string                 `json:"provenance"`
	AddOns          []BookingAddOnResponse `json:"addOns"`
	TourTotalCents  int64                  `json:"tourTotalCents"`
	GrandTotalCents int64                  `json:"grandTotalCents"`
	Currency        string                 `json:"currency"`
	// ManageToken rides along only on guest creation responses.
	ManageToken string    `json:"manageToken,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type BookingListResponse struct {
	ID        uuid.UUID `json:"id"`
	TourID    uuid.UUID `json:"tourId"`
	TourTitle string    `json:"tourTitle"`
	Spots     int32     `json:"spots"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func FromBookingView(rm *queries.BookingView) *BookingResponse {
	var resp BookingResponse
	_ = copier.Copy(&resp, rm)
	return &resp
}

func FromBookingListItems(rms []*queries.BookingListItem) []*BookingListResponse {
	resp := make([]*BookingListResponse, 0, len(rms))
	for _, rm := range rms {
		var item BookingListResponse
		_ = copier.Copy(&item, rm)
		resp = append(resp, &item)
	}
	return resp
}
