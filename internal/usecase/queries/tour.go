package queries

import (
	"context"

	"tourbook/internal/domain/authz"
	"tourbook/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrTourNotFound = errs.New("tour not found")

const defaultPageSize = 50

type TourQueries interface {
	GetByID(ctx context.Context, actor authz.Actor, id uuid.UUID) (*TourView, error)
	List(ctx context.Context, actor authz.Actor, limit, offset int32) ([]*TourListItem, error)
	ListByGuide(ctx context.Context, actor authz.Actor, guideID uuid.UUID, limit, offset int32) ([]*TourListItem, error)
	AddOns(ctx context.Context, actor authz.Actor, tourID uuid.UUID) ([]*AddOnView, error)
}

type tourQueriesImpl struct {
	repo TourViewRepo
}

func NewTourQueries(repo TourViewRepo) TourQueries {
	return &tourQueriesImpl{repo: repo}
}

func (q *tourQueriesImpl) GetByID(ctx context.Context, actor authz.Actor, id uuid.UUID) (*TourView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	res := authz.Resource{
		Entity:  authz.EntityTour,
		OwnerID: view.GuideID,
		// Cancelled tours drop off the public listing but stay visible to
		// their owner and admins.
		Active: view.Status != "cancelled",
	}
	if err := authz.Check(actor, authz.ActionView, res); err != nil {
		return nil, err
	}
	return view, nil
}

func (q *tourQueriesImpl) List(ctx context.Context, _ authz.Actor, limit, offset int32) ([]*TourListItem, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	// The listing itself is the public filtered view; repo excludes cancelled.
	return q.repo.List(ctx, limit, offset)
}

func (q *tourQueriesImpl) ListByGuide(ctx context.Context, actor authz.Actor, guideID uuid.UUID, limit, offset int32) ([]*TourListItem, error) {
	res := authz.Resource{Entity: authz.EntityProfile, OwnerID: guideID}
	if err := authz.Check(actor, authz.ActionView, res); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	return q.repo.ListByGuide(ctx, guideID, limit, offset)
}

func (q *tourQueriesImpl) AddOns(ctx context.Context, actor authz.Actor, tourID uuid.UUID) ([]*AddOnView, error) {
	tourView, err := q.repo.FindByID(ctx, tourID)
	if err != nil {
		return nil, err
	}

	views, err := q.repo.AddOnsByTour(ctx, tourID)
	if err != nil {
		return nil, err
	}

	// Owners and admins see disabled catalog entries; everyone else gets the
	// active slice only.
	visible := make([]*AddOnView, 0, len(views))
	for _, v := range views {
		res := authz.Resource{
			Entity:  authz.EntityAddOn,
			OwnerID: tourView.GuideID,
			Active:  v.Active,
		}
		if authz.Can(actor, authz.ActionView, res) {
			visible = append(visible, v)
		}
	}
	return visible, nil
}
