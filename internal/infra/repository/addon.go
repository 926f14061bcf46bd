package repository

import (
	"context"

	"tourbook/internal/domain/tour"
	"tourbook/internal/infra"
	"tourbook/internal/infra/db"
)

type AddOnRepository struct {
	dbtx db.DBTX
}

func NewAddOnRepository(dbtx db.DBTX) *AddOnRepository {
	return &AddOnRepository{dbtx: dbtx}
}

func (r *AddOnRepository) Create(ctx context.Context, a *tour.AddOn) error {
	const query = `
		INSERT INTO tour_add_ons (id, tour_id, name, price_cents, pricing_mode, max_quantity, active, position, kind_tag)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.dbtx.Exec(ctx, query,
		a.ID(), a.TourID(), a.Name(), a.PriceCents(), a.PricingMode().String(),
		a.MaxQuantity(), a.IsActive(), a.Position(), a.KindTag(),
	)
	if err != nil {
		return wrapPgError("failed to create tour add-on", err)
	}
	return nil
}

func (r *AddOnRepository) Update(ctx context.Context, a *tour.AddOn) error {
	const query = `
		UPDATE tour_add_ons
		SET name = $2, price_cents = $3, pricing_mode = $4, max_quantity = $5,
			active = $6, position = $7, kind_tag = $8, updated_at = now()
		WHERE id = $1`

	tag, err := r.dbtx.Exec(ctx, query,
		a.ID(), a.Name(), a.PriceCents(), a.PricingMode().String(),
		a.MaxQuantity(), a.IsActive(), a.Position(), a.KindTag(),
	)
	if err != nil {
		return wrapPgError("failed to update tour add-on", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "tour add-on not found", nil)
	}
	return nil
}
