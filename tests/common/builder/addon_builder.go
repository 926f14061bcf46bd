//go:build unit || e2e

package builder

import (
	domtour "tourbook/internal/domain/tour"
	reqdto "tourbook/internal/handler/dto/request"

	"github.com/google/uuid"
)

type AddOnBuilder struct {
	TourID      uuid.UUID
	Name        string
	PriceCents  int64
	PricingMode domtour.PricingMode
	MaxQuantity *int32
	Position    int32
	KindTag     string
}

func NewAddOnBuilder() *AddOnBuilder {
	return &AddOnBuilder{
		TourID:      uuid.New(),
		Name:        "Lunch Box",
		PriceCents:  1500,
		PricingMode: domtour.PricingPerPerson,
		Position:    0,
		KindTag:     "meal",
	}
}

func (b *AddOnBuilder) With(mutate func(*AddOnBuilder)) *AddOnBuilder {
	mutate(b)
	return b
}

func (b *AddOnBuilder) FlatFee() *AddOnBuilder {
	b.PricingMode = domtour.PricingFlatFee
	return b
}

func (b *AddOnBuilder) WithMaxQuantity(n int32) *AddOnBuilder {
	b.MaxQuantity = &n
	return b
}

func (b *AddOnBuilder) BuildDomain() (*domtour.AddOn, error) {
	return domtour.NewAddOn(
		b.TourID,
		b.Name,
		b.PriceCents,
		b.PricingMode,
		b.MaxQuantity,
		b.Position,
		b.KindTag,
	)
}

func (b *AddOnBuilder) BuildRequest() reqdto.CreateAddOnRequest {
	return reqdto.CreateAddOnRequest{
		Name:        b.Name,
		PriceCents:  b.PriceCents,
		PricingMode: b.PricingMode.String(),
		MaxQuantity: b.MaxQuantity,
		Position:    b.Position,
		KindTag:     b.KindTag,
	}
}
