package queries

import (
	"context"

	"tourbook/internal/domain/authz"
	"tourbook/internal/domain/user"
	"tourbook/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrBookingNotFound = errs.New("booking not found")

type BookingQueries interface {
	GetByID(ctx context.Context, actor authz.Actor, id uuid.UUID) (*BookingView, error)
	// GetByIDSystem bypasses scoping for internal read-after-write.
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListByTourist(ctx context.Context, actor authz.Actor, touristID uuid.UUID, limit, offset int32) ([]*BookingListItem, error)
	ListByTour(ctx context.Context, actor authz.Actor, tourID uuid.UUID, tourGuideID uuid.UUID, limit, offset int32) ([]*BookingListItem, error)
}

type bookingQueriesImpl struct {
	repo BookingViewRepo
}

func NewBookingQueries(repo BookingViewRepo) BookingQueries {
	return &bookingQueriesImpl{repo: repo}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, actor authz.Actor, id uuid.UUID) (*BookingView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := authz.Check(actor, authz.ActionView, bookingResource(view)); err != nil {
		return nil, err
	}
	return view, nil
}

func (q *bookingQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	return q.repo.FindByID(ctx, id)
}

func (q *bookingQueriesImpl) ListByTourist(ctx context.Context, actor authz.Actor, touristID uuid.UUID, limit, offset int32) ([]*BookingListItem, error) {
	res := authz.Resource{Entity: authz.EntityProfile, OwnerID: touristID}
	if err := authz.Check(actor, authz.ActionView, res); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	return q.repo.FindByTourist(ctx, touristID, limit, offset)
}

func (q *bookingQueriesImpl) ListByTour(ctx context.Context, actor authz.Actor, tourID, tourGuideID uuid.UUID, limit, offset int32) ([]*BookingListItem, error) {
	// The guide slice: bookings on an owned tour are visible even though the
	// guide does not own the booking records themselves.
	res := authz.Resource{Entity: authz.EntityBooking, TourOwnerID: tourGuideID}
	if err := authz.Check(actor, authz.ActionView, res); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	return q.repo.FindByTour(ctx, tourID, limit, offset)
}

func bookingResource(view *BookingView) authz.Resource {
	res := authz.Resource{
		Entity:      authz.EntityBooking,
		TourOwnerID: view.TourGuideID,
		Active:      true,
	}
	if view.TouristID != nil {
		res.OwnerID = *view.TouristID
	}
	if email, err := user.NewEmail(view.ContactEmail); err == nil {
		res.CapturedEmail = &email
	}
	return res
}
