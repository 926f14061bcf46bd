package repository

import (
	"context"
	"errors"
	"time"

	"tourbook/internal/domain/tour"
	"tourbook/internal/infra"
	"tourbook/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TourRepository struct {
	dbtx db.DBTX
}

func NewTourRepository(dbtx db.DBTX) *TourRepository {
	return &TourRepository{dbtx: dbtx}
}

const tourColumns = `id, guide_id, title, capacity, price_cents, currency, starts_at, ends_at,
	status, kind, booking_deadline_hours, bookings_count, created_at, updated_at`

func (r *TourRepository) Create(ctx context.Context, t *tour.Tour) error {
	const query = `
		INSERT INTO tours (id, guide_id, title, capacity, price_cents, currency, starts_at, ends_at,
			status, kind, booking_deadline_hours, bookings_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 0)`

	_, err := r.dbtx.Exec(ctx, query,
		t.ID(), t.GuideID(), t.Title(), t.Capacity(), t.PriceCents(), t.Currency(),
		t.StartsAt(), t.EndsAt(), t.Status().String(), t.Kind().String(), t.BookingDeadlineHours(),
	)
	if err != nil {
		return wrapPgError("failed to create tour", err)
	}
	return nil
}

func (r *TourRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status tour.Status) error {
	const query = `UPDATE tours SET status = $2, updated_at = now() WHERE id = $1`

	tag, err := r.dbtx.Exec(ctx, query, id, status.String())
	if err != nil {
		return wrapPgError("failed to update tour status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "tour not found", nil)
	}
	return nil
}

func (r *TourRepository) AdjustBookingsCount(ctx context.Context, id uuid.UUID, delta int32) error {
	const query = `UPDATE tours SET bookings_count = bookings_count + $2, updated_at = now() WHERE id = $1`

	tag, err := r.dbtx.Exec(ctx, query, id, delta)
	if err != nil {
		return wrapPgError("failed to adjust bookings count", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "tour not found", nil)
	}
	return nil
}

// NonTerminalForUpdate locks every sweep candidate in a stable order so
// concurrent sweeps serialize instead of deadlocking.
func (r *TourRepository) NonTerminalForUpdate(ctx context.Context) ([]*tour.Tour, error) {
	query := `SELECT ` + tourColumns + ` FROM tours
		WHERE status IN ('scheduled', 'ongoing')
		ORDER BY id
		FOR UPDATE`

	rows, err := r.dbtx.Query(ctx, query)
	if err != nil {
		return nil, wrapPgError("failed to lock non-terminal tours", err)
	}
	defer rows.Close()

	var tours []*tour.Tour
	for rows.Next() {
		t, err := scanTour(rows)
		if err != nil {
			return nil, wrapPgError("failed to scan tour", err)
		}
		tours = append(tours, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgError("failed to read locked tours", err)
	}
	return tours, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTour(row rowScanner) (*tour.Tour, error) {
	var (
		id, guideID          uuid.UUID
		title, currency      string
		capacity             int32
		priceCents           *int64
		startsAt, endsAt     time.Time
		status, kind         string
		deadlineHours        int32
		bookingsCount        int32
		createdAt, updatedAt time.Time
	)

	err := row.Scan(&id, &guideID, &title, &capacity, &priceCents, &currency,
		&startsAt, &endsAt, &status, &kind, &deadlineHours, &bookingsCount,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	return tour.ReconstructTour(
		id, guideID, title, capacity, priceCents, currency,
		startsAt, endsAt, tour.Status(status), tour.Kind(kind),
		deadlineHours, bookingsCount, createdAt, updatedAt,
	), nil
}

func lockTourByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*tour.Tour, error) {
	query := `SELECT ` + tourColumns + ` FROM tours WHERE id = $1 FOR UPDATE`

	t, err := scanTour(dbtx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.NewRepoErr(infra.KindNotFound, "tour not found", err)
		}
		return nil, wrapPgError("failed to find tour", err)
	}
	return t, nil
}
