package readstore

import (
	"context"
	"errors"
	"strings"

	"tourbook/internal/domain/tour"
	"tourbook/internal/infra"
	"tourbook/internal/infra/db"
	"tourbook/internal/usecase/queries"
	"tourbook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BookingReadStore struct {
	uow shared.UnitOfWork
}

func NewBookingReadStore(uow shared.UnitOfWork) *BookingReadStore {
	return &BookingReadStore{uow: uow}
}

// FindByID reads the booking row and its add-on lines in one read-only
// transaction so the totals always describe a single snapshot.
func (s *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	const query = `
		SELECT b.id, b.tour_id, t.title, t.guide_id, b.tourist_id, b.contact_name, b.contact_email,
			b.spots, b.status, b.provenance, t.price_cents, t.currency, b.created_at, b.updated_at
		FROM bookings b
		JOIN tours t ON t.id = b.tour_id
		WHERE b.id = $1`

	var (
		v              queries.BookingView
		tourPriceCents *int64
	)
	err := s.uow.WithinReadOnly(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		err := dbtx.QueryRow(ctx, query, id).Scan(
			&v.ID, &v.TourID, &v.TourTitle, &v.TourGuideID, &v.TouristID, &v.ContactName, &v.ContactEmail,
			&v.Spots, &v.Status, &v.Provenance, &tourPriceCents, &v.Currency, &v.CreatedAt, &v.UpdatedAt,
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return infra.NewRepoErr(infra.KindNotFound, "booking not found", err)
			}
			return infra.WrapRepoErr("failed to find booking view", err)
		}

		addOns, err := addOnLines(ctx, dbtx, id, v.Spots)
		if err != nil {
			return err
		}
		v.AddOns = addOns
		return nil
	})
	if err != nil {
		return nil, err
	}

	if tourPriceCents != nil {
		v.TourTotalCents = *tourPriceCents * int64(v.Spots)
	}
	v.GrandTotalCents = v.TourTotalCents
	for _, line := range v.AddOns {
		v.GrandTotalCents += line.LineTotalCents
	}
	return &v, nil
}

// addOnLines totals each line from the price frozen at booking time, never
// the live catalog price.
func addOnLines(ctx context.Context, dbtx db.DBTX, bookingID uuid.UUID, spots int32) ([]queries.BookingAddOnView, error) {
	const query = `
		SELECT ba.add_on_id, a.name, ba.quantity, ba.price_at_booking_cents, ba.pricing_mode
		FROM booking_add_ons ba
		JOIN tour_add_ons a ON a.id = ba.add_on_id
		WHERE ba.booking_id = $1
		ORDER BY a.position, a.created_at`

	rows, err := dbtx.Query(ctx, query, bookingID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list booking add-ons", err)
	}
	defer rows.Close()

	var views []queries.BookingAddOnView
	for rows.Next() {
		var v queries.BookingAddOnView
		err := rows.Scan(&v.AddOnID, &v.AddOnName, &v.Quantity, &v.PriceAtBookingCents, &v.PricingMode)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking add-on", err)
		}
		v.LineTotalCents = frozenLineTotal(v.PricingMode, v.PriceAtBookingCents, spots, v.Quantity)
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list booking add-ons", err)
	}
	return views, nil
}

func frozenLineTotal(mode string, priceCents int64, spots, quantity int32) int64 {
	if mode == tour.PricingPerPerson.String() {
		return priceCents * int64(spots) * int64(quantity)
	}
	return priceCents * int64(quantity)
}

const bookingListQuery = `
	SELECT b.id, b.tour_id, t.title, b.spots, b.status, b.created_at
	FROM bookings b
	JOIN tours t ON t.id = b.tour_id
	WHERE %s
	ORDER BY b.created_at DESC
	LIMIT $2 OFFSET $3`

func (s *BookingReadStore) FindByTourist(ctx context.Context, touristID uuid.UUID, limit, offset int32) ([]*queries.BookingListItem, error) {
	return s.listBookings(ctx, "b.tourist_id = $1", touristID, limit, offset)
}

func (s *BookingReadStore) FindByTour(ctx context.Context, tourID uuid.UUID, limit, offset int32) ([]*queries.BookingListItem, error) {
	return s.listBookings(ctx, "b.tour_id = $1", tourID, limit, offset)
}

func (s *BookingReadStore) listBookings(ctx context.Context, cond string, key uuid.UUID, limit, offset int32) ([]*queries.BookingListItem, error) {
	query := applyCond(bookingListQuery, cond)

	var items []*queries.BookingListItem
	err := s.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		rows, err := dbtx.Query(ctx, query, key, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var item queries.BookingListItem
			err := rows.Scan(&item.ID, &item.TourID, &item.TourTitle, &item.Spots, &item.Status, &item.CreatedAt)
			if err != nil {
				return err
			}
			items = append(items, &item)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	return items, nil
}

func applyCond(query, cond string) string {
	return strings.Replace(query, "%s", cond, 1)
}
