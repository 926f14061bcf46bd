package repository

import (
	"context"

	"tourbook/internal/domain/booking"
	"tourbook/internal/infra"
	"tourbook/internal/infra/db"

	"github.com/google/uuid"
)

type BookingRepository struct {
	dbtx db.DBTX
}

func NewBookingRepository(dbtx db.DBTX) *BookingRepository {
	return &BookingRepository{dbtx: dbtx}
}

// Create inserts the booking and its frozen add-on lines in one shot; the
// caller's transaction makes the pair atomic.
func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking, lines []*booking.AddOnLine) error {
	const insertBooking = `
		INSERT INTO bookings (id, tour_id, tourist_id, contact_name, contact_email, spots, status, provenance)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.dbtx.Exec(ctx, insertBooking,
		b.ID(), b.TourID(), b.TouristID(), b.ContactName(), b.ContactEmail().Value(),
		b.Spots(), b.Status().String(), b.Provenance().String(),
	)
	if err != nil {
		return wrapPgError("failed to create booking", err)
	}

	const insertLine = `
		INSERT INTO booking_add_ons (id, booking_id, add_on_id, quantity, price_at_booking_cents, pricing_mode)
		VALUES ($1, $2, $3, $4, $5, $6)`

	for _, line := range lines {
		_, err := r.dbtx.Exec(ctx, insertLine,
			line.ID(), line.BookingID(), line.AddOnID(), line.Quantity(),
			line.PriceAtBookingCents(), line.PricingMode().String(),
		)
		if err != nil {
			return wrapPgError("failed to create booking add-on line", err)
		}
	}

	return nil
}

func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	const query = `UPDATE bookings SET contact_name = $2, spots = $3, updated_at = now() WHERE id = $1`

	tag, err := r.dbtx.Exec(ctx, query, b.ID(), b.ContactName(), b.Spots())
	if err != nil {
		return wrapPgError("failed to update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "booking not found", nil)
	}
	return nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status booking.Status) error {
	const query = `UPDATE bookings SET status = $2, updated_at = now() WHERE id = $1`

	tag, err := r.dbtx.Exec(ctx, query, id, status.String())
	if err != nil {
		return wrapPgError("failed to update booking status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "booking not found", nil)
	}
	return nil
}
