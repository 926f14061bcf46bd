//go:build unit || e2e

package builder

import (
	"time"

	domtour "tourbook/internal/domain/tour"
	reqdto "tourbook/internal/handler/dto/request"

	"github.com/google/uuid"
)

type TourBuilder struct {
	GuideID              uuid.UUID
	Title                string
	Capacity             int32
	PriceCents           *int64
	Currency             string
	StartsAt             time.Time
	EndsAt               time.Time
	Kind                 domtour.Kind
	BookingDeadlineHours int32
}

func NewTourBuilder() *TourBuilder {
	price := int64(5000)
	startsAt := time.Now().Add(72 * time.Hour)
	return &TourBuilder{
		GuideID:              uuid.New(),
		Title:                "Old Town Walking Tour",
		Capacity:             8,
		PriceCents:           &price,
		Currency:             "USD",
		StartsAt:             startsAt,
		EndsAt:               startsAt.Add(4 * time.Hour),
		Kind:                 domtour.KindPublic,
		BookingDeadlineHours: 24,
	}
}

func (b *TourBuilder) With(mutate func(*TourBuilder)) *TourBuilder {
	mutate(b)
	return b
}

func (b *TourBuilder) Private() *TourBuilder {
	b.Kind = domtour.KindPrivate
	return b
}

func (b *TourBuilder) StartingAt(t time.Time) *TourBuilder {
	b.StartsAt = t
	b.EndsAt = t.Add(4 * time.Hour)
	return b
}

func (b *TourBuilder) BuildDomain() (*domtour.Tour, error) {
	return domtour.NewTour(
		b.GuideID,
		b.Title,
		b.Capacity,
		b.PriceCents,
		b.Currency,
		b.StartsAt,
		b.EndsAt,
		b.Kind,
		b.BookingDeadlineHours,
	)
}

func (b *TourBuilder) BuildRequest() reqdto.CreateTourRequest {
	return reqdto.CreateTourRequest{
		Title:                b.Title,
		Capacity:             b.Capacity,
		PriceCents:           b.PriceCents,
		Currency:             b.Currency,
		StartsAt:             b.StartsAt,
		EndsAt:               b.EndsAt,
		Kind:                 b.Kind.String(),
		BookingDeadlineHours: b.BookingDeadlineHours,
	}
}
