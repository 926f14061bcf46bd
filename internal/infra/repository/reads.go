package repository

import (
	"context"
	"errors"
	"time"

	"tourbook/internal/domain/booking"
	"tourbook/internal/domain/tour"
	"tourbook/internal/domain/user"
	"tourbook/internal/infra"
	"tourbook/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CommandReads serves the write path's validation reads inside a Within
// transaction, where they see the locked snapshot.
type CommandReads struct {
	dbtx db.DBTX
}

func NewCommandReads(dbtx db.DBTX) *CommandReads {
	return &CommandReads{dbtx: dbtx}
}

func (r *CommandReads) TourByIDForUpdate(ctx context.Context, id uuid.UUID) (*tour.Tour, error) {
	return lockTourByID(ctx, r.dbtx, id)
}

func (r *CommandReads) BookingRecordsByTour(ctx context.Context, tourID uuid.UUID) ([]booking.Record, error) {
	const query = `SELECT id, spots, status FROM bookings WHERE tour_id = $1`

	rows, err := r.dbtx.Query(ctx, query, tourID)
	if err != nil {
		return nil, wrapPgError("failed to read booking records", err)
	}
	defer rows.Close()

	var records []booking.Record
	for rows.Next() {
		var (
			rec    booking.Record
			status string
		)
		if err := rows.Scan(&rec.ID, &rec.Spots, &status); err != nil {
			return nil, wrapPgError("failed to scan booking record", err)
		}
		rec.Status = booking.Status(status)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgError("failed to read booking records", err)
	}
	return records, nil
}

func (r *CommandReads) BookingByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	const query = `
		SELECT id, tour_id, tourist_id, contact_name, contact_email, spots, status, provenance,
			created_at, updated_at
		FROM bookings WHERE id = $1`

	var (
		bid, tourID          uuid.UUID
		touristID            *uuid.UUID
		contactName, email   string
		spots                int32
		status, provenance   string
		createdAt, updatedAt time.Time
	)
	err := r.dbtx.QueryRow(ctx, query, id).Scan(
		&bid, &tourID, &touristID, &contactName, &email, &spots, &status, &provenance,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.NewRepoErr(infra.KindNotFound, "booking not found", err)
		}
		return nil, wrapPgError("failed to find booking", err)
	}

	contactEmail, err := user.NewEmail(email)
	if err != nil {
		return nil, infra.NewRepoErr(infra.KindDBFailure, "stored contact email is invalid", err)
	}

	return booking.ReconstructBooking(
		bid, tourID, touristID, contactName, contactEmail, spots,
		booking.Status(status), booking.Provenance(provenance), createdAt, updatedAt,
	), nil
}

func (r *CommandReads) AddOnCatalogByTour(ctx context.Context, tourID uuid.UUID) ([]*tour.AddOn, error) {
	const query = `
		SELECT id, tour_id, name, price_cents, pricing_mode, max_quantity, active, position, kind_tag,
			created_at, updated_at
		FROM tour_add_ons WHERE tour_id = $1
		ORDER BY position, created_at`

	rows, err := r.dbtx.Query(ctx, query, tourID)
	if err != nil {
		return nil, wrapPgError("failed to read add-on catalog", err)
	}
	defer rows.Close()

	var catalog []*tour.AddOn
	for rows.Next() {
		var (
			id, tid              uuid.UUID
			name, mode, kindTag  string
			priceCents           int64
			maxQuantity          *int32
			active               bool
			position             int32
			createdAt, updatedAt time.Time
		)
		err := rows.Scan(&id, &tid, &name, &priceCents, &mode, &maxQuantity, &active,
			&position, &kindTag, &createdAt, &updatedAt)
		if err != nil {
			return nil, wrapPgError("failed to scan add-on", err)
		}
		catalog = append(catalog, tour.ReconstructAddOn(
			id, tid, name, priceCents, tour.PricingMode(mode), maxQuantity,
			active, position, kindTag, createdAt, updatedAt,
		))
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgError("failed to read add-on catalog", err)
	}
	return catalog, nil
}

func (r *CommandReads) AddOnCountByTour(ctx context.Context, tourID uuid.UUID) (int, error) {
	const query = `SELECT count(*) FROM tour_add_ons WHERE tour_id = $1`

	var n int
	if err := r.dbtx.QueryRow(ctx, query, tourID).Scan(&n); err != nil {
		return 0, wrapPgError("failed to count add-ons", err)
	}
	return n, nil
}

func (r *CommandReads) AddOnLinesByBooking(ctx context.Context, bookingID uuid.UUID) ([]*booking.AddOnLine, error) {
	const query = `
		SELECT id, booking_id, add_on_id, quantity, price_at_booking_cents, pricing_mode, created_at
		FROM booking_add_ons WHERE booking_id = $1`

	rows, err := r.dbtx.Query(ctx, query, bookingID)
	if err != nil {
		return nil, wrapPgError("failed to read booking add-on lines", err)
	}
	defer rows.Close()

	var lines []*booking.AddOnLine
	for rows.Next() {
		var (
			id, bid, addOnID uuid.UUID
			quantity         int32
			priceCents       int64
			mode             string
			createdAt        time.Time
		)
		if err := rows.Scan(&id, &bid, &addOnID, &quantity, &priceCents, &mode, &createdAt); err != nil {
			return nil, wrapPgError("failed to scan booking add-on line", err)
		}
		lines = append(lines, booking.ReconstructAddOnLine(
			id, bid, addOnID, quantity, priceCents, tour.PricingMode(mode), createdAt,
		))
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgError("failed to read booking add-on lines", err)
	}
	return lines, nil
}
