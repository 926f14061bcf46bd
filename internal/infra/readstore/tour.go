package readstore

import (
	"context"
	"errors"

	"tourbook/internal/domain/booking"
	"tourbook/internal/domain/tour"
	"tourbook/internal/infra"
	"tourbook/internal/infra/db"
	"tourbook/internal/pkg/clock"
	"tourbook/internal/usecase/queries"
	"tourbook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TourReadStore struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewTourReadStore(uow shared.UnitOfWork, clock clock.Clock) *TourReadStore {
	return &TourReadStore{uow: uow, clock: clock}
}

func (s *TourReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.TourView, error) {
	const query = `
		SELECT t.id, t.guide_id, u.name, t.title, t.capacity, t.price_cents, t.currency,
			t.starts_at, t.ends_at, t.status, t.kind, t.booking_deadline_hours, t.bookings_count,
			COALESCE(SUM(b.spots) FILTER (WHERE b.status <> 'cancelled'), 0) AS booked_spots,
			t.created_at, t.updated_at
		FROM tours t
		JOIN users u ON u.id = t.guide_id
		LEFT JOIN bookings b ON b.tour_id = t.id
		WHERE t.id = $1
		GROUP BY t.id, u.name`

	var v queries.TourView
	err := s.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		return dbtx.QueryRow(ctx, query, id).Scan(
			&v.ID, &v.GuideID, &v.GuideName, &v.Title, &v.Capacity, &v.PriceCents, &v.Currency,
			&v.StartsAt, &v.EndsAt, &v.Status, &v.Kind, &v.BookingDeadlineHours, &v.BookingsCount,
			&v.BookedSpots, &v.CreatedAt, &v.UpdatedAt,
		)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.NewRepoErr(infra.KindNotFound, "tour not found", err)
		}
		return nil, infra.WrapRepoErr("failed to find tour view", err)
	}

	v.AvailableSpots = v.Capacity - v.BookedSpots
	return &v, nil
}

const listQuery = `
	SELECT t.id, t.title, t.capacity, t.price_cents, t.currency, t.starts_at, t.status, t.kind,
		t.booking_deadline_hours,
		COALESCE(SUM(b.spots) FILTER (WHERE b.status <> 'cancelled'), 0) AS booked_spots,
		COALESCE(COUNT(b.id) FILTER (WHERE b.status <> 'cancelled'), 0) AS active_bookings
	FROM tours t
	LEFT JOIN bookings b ON b.tour_id = t.id
	WHERE t.status <> 'cancelled' %s
	GROUP BY t.id
	ORDER BY t.starts_at
	LIMIT $1 OFFSET $2`

func (s *TourReadStore) List(ctx context.Context, limit, offset int32) ([]*queries.TourListItem, error) {
	return s.list(ctx, "", limit, offset)
}

func (s *TourReadStore) ListByGuide(ctx context.Context, guideID uuid.UUID, limit, offset int32) ([]*queries.TourListItem, error) {
	return s.list(ctx, "AND t.guide_id = $3", limit, offset, guideID)
}

func (s *TourReadStore) list(ctx context.Context, extraCond string, limit, offset int32, extraArgs ...any) ([]*queries.TourListItem, error) {
	args := append([]any{limit, offset}, extraArgs...)
	query := applyCond(listQuery, extraCond)

	now := s.clock.Now()
	var items []*queries.TourListItem
	err := s.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		rows, err := dbtx.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var (
				item           queries.TourListItem
				deadlineHours  int32
				bookedSpots    int32
				activeBookings int32
			)
			err := rows.Scan(&item.ID, &item.Title, &item.Capacity, &item.PriceCents, &item.Currency,
				&item.StartsAt, &item.Status, &item.Kind, &deadlineHours, &bookedSpots, &activeBookings)
			if err != nil {
				return err
			}

			item.AvailableSpots = item.Capacity - bookedSpots
			// Advisory badge only; admission revalidates under the tour lock.
			item.Bookable = booking.CanBookFromSnapshot(booking.ListingSnapshot{
				Status:         tour.Status(item.Status),
				Kind:           tour.Kind(item.Kind),
				StartsAt:       item.StartsAt,
				DeadlineHours:  deadlineHours,
				AvailableSpots: item.AvailableSpots,
				ActiveBookings: activeBookings,
			}, now)
			items = append(items, &item)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list tours", err)
	}
	return items, nil
}

func (s *TourReadStore) AddOnsByTour(ctx context.Context, tourID uuid.UUID) ([]*queries.AddOnView, error) {
	const query = `
		SELECT id, tour_id, name, price_cents, pricing_mode, max_quantity, active, position, kind_tag
		FROM tour_add_ons
		WHERE tour_id = $1
		ORDER BY position, created_at`

	var views []*queries.AddOnView
	err := s.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		rows, err := dbtx.Query(ctx, query, tourID)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var v queries.AddOnView
			err := rows.Scan(&v.ID, &v.TourID, &v.Name, &v.PriceCents, &v.PricingMode,
				&v.MaxQuantity, &v.Active, &v.Position, &v.KindTag)
			if err != nil {
				return err
			}
			views = append(views, &v)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list tour add-ons", err)
	}
	return views, nil
}
