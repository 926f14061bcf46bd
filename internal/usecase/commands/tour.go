package commands

import (
	"context"
	"errors"

	"tourbook/internal/domain/authz"
	"tourbook/internal/domain/tour"
	reqdto "tourbook/internal/handler/dto/request"
	"tourbook/internal/infra"
	"tourbook/internal/pkg/clock"
	"tourbook/internal/pkg/errs"
	"tourbook/internal/usecase/queries"
	"tourbook/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrTourNotCancellable = errs.New("tour can no longer be cancelled")
	ErrAddOnNotFound      = errs.New("add-on not found")
	ErrAddOnLimitReached  = errs.New("add-on limit reached for tour")
)

type TourCommands interface {
	CreateTour(ctx context.Context, actor authz.Actor, req reqdto.CreateTourRequest) (*queries.TourView, error)
	CancelTour(ctx context.Context, actor authz.Actor, tourID uuid.UUID) (*queries.TourView, error)
	CreateAddOn(ctx context.Context, actor authz.Actor, tourID uuid.UUID, req reqdto.CreateAddOnRequest) (*queries.AddOnView, error)
	UpdateAddOn(ctx context.Context, actor authz.Actor, tourID, addOnID uuid.UUID, req reqdto.UpdateAddOnRequest) (*queries.AddOnView, error)
}

type tourCommandsImpl struct {
	uow         shared.UnitOfWork
	tourQueries queries.TourQueries
	clock       clock.Clock
}

func NewTourCommands(uow shared.UnitOfWork, tourQueries queries.TourQueries, clock clock.Clock) TourCommands {
	return &tourCommandsImpl{
		uow:         uow,
		tourQueries: tourQueries,
		clock:       clock,
	}
}

func (t *tourCommandsImpl) CreateTour(
	ctx context.Context,
	actor authz.Actor,
	req reqdto.CreateTourRequest,
) (*queries.TourView, error) {
	if err := authz.Check(actor, authz.ActionCreate, authz.Resource{Entity: authz.EntityTour}); err != nil {
		return nil, err
	}

	entity, err := req.ToDomain(actor.ID)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	err = t.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if createErr := tx.Tours().Create(ctx, entity); createErr != nil {
			return errs.Mark(createErr, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return t.tourQueries.GetByID(ctx, actor, entity.ID())
}

func (t *tourCommandsImpl) CancelTour(
	ctx context.Context,
	actor authz.Actor,
	tourID uuid.UUID,
) (*queries.TourView, error) {
	err := t.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, lockErr := tx.Reads().TourByIDForUpdate(ctx, tourID)
		if lockErr != nil {
			if infra.IsKind(lockErr, infra.KindNotFound) {
				return ErrTourNotFound
			}
			return errs.Mark(lockErr, ErrDatabaseOperationFailed)
		}

		res := authz.Resource{Entity: authz.EntityTour, OwnerID: entity.GuideID()}
		if authzErr := authz.Check(actor, authz.ActionDestroy, res); authzErr != nil {
			return authzErr
		}

		from := entity.Status()
		if cancelErr := entity.Cancel(); cancelErr != nil {
			if errors.Is(cancelErr, tour.ErrAlreadyCancelledStatus) {
				// Cancelling twice settles in the same place; report success.
				return nil
			}
			return errs.Mark(cancelErr, ErrTourNotCancellable)
		}

		return markStatus(ctx, tx, entity.ID(), from, tour.StatusCancelled, t.clock.Now())
	})
	if err != nil {
		return nil, mapConflict(err)
	}

	return t.tourQueries.GetByID(ctx, actor, tourID)
}

func (t *tourCommandsImpl) CreateAddOn(
	ctx context.Context,
	actor authz.Actor,
	tourID uuid.UUID,
	req reqdto.CreateAddOnRequest,
) (*queries.AddOnView, error) {
	entity, err := req.ToDomain(tourID)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	err = t.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// The tour lock makes the catalog-size check race-free.
		parent, lockErr := tx.Reads().TourByIDForUpdate(ctx, tourID)
		if lockErr != nil {
			if infra.IsKind(lockErr, infra.KindNotFound) {
				return ErrTourNotFound
			}
			return errs.Mark(lockErr, ErrDatabaseOperationFailed)
		}

		res := authz.Resource{Entity: authz.EntityAddOn, OwnerID: parent.GuideID()}
		if authzErr := authz.Check(actor, authz.ActionCreate, res); authzErr != nil {
			return authzErr
		}

		count, countErr := tx.Reads().AddOnCountByTour(ctx, tourID)
		if countErr != nil {
			return errs.Mark(countErr, ErrDatabaseOperationFailed)
		}
		if count >= tour.MaxAddOnsPerTour {
			return ErrAddOnLimitReached
		}

		if createErr := tx.AddOns().Create(ctx, entity); createErr != nil {
			return errs.Mark(createErr, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, mapConflict(err)
	}

	return t.findAddOnView(ctx, actor, tourID, entity.ID())
}

func (t *tourCommandsImpl) UpdateAddOn(
	ctx context.Context,
	actor authz.Actor,
	tourID, addOnID uuid.UUID,
	req reqdto.UpdateAddOnRequest,
) (*queries.AddOnView, error) {
	err := t.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		parent, lockErr := tx.Reads().TourByIDForUpdate(ctx, tourID)
		if lockErr != nil {
			if infra.IsKind(lockErr, infra.KindNotFound) {
				return ErrTourNotFound
			}
			return errs.Mark(lockErr, ErrDatabaseOperationFailed)
		}

		res := authz.Resource{Entity: authz.EntityAddOn, OwnerID: parent.GuideID()}
		if authzErr := authz.Check(actor, authz.ActionUpdate, res); authzErr != nil {
			return authzErr
		}

		catalog, readErr := tx.Reads().AddOnCatalogByTour(ctx, tourID)
		if readErr != nil {
			return errs.Mark(readErr, ErrDatabaseOperationFailed)
		}
		entity := findAddOn(catalog, addOnID)
		if entity == nil {
			return ErrAddOnNotFound
		}

		if req.PriceCents != nil {
			// Price changes never reprice existing bookings; their lines
			// keep the frozen amount.
			if priceErr := entity.ChangePrice(*req.PriceCents); priceErr != nil {
				return errs.Mark(priceErr, ErrDomainValidation)
			}
		}
		if req.Active != nil {
			if *req.Active {
				entity.Enable()
			} else {
				entity.Disable()
			}
		}

		if updErr := tx.AddOns().Update(ctx, entity); updErr != nil {
			return errs.Mark(updErr, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, mapConflict(err)
	}

	return t.findAddOnView(ctx, actor, tourID, addOnID)
}

func (t *tourCommandsImpl) findAddOnView(
	ctx context.Context,
	actor authz.Actor,
	tourID, addOnID uuid.UUID,
) (*queries.AddOnView, error) {
	views, err := t.tourQueries.AddOns(ctx, actor, tourID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	for _, v := range views {
		if v.ID == addOnID {
			return v, nil
		}
	}
	return nil, ErrAddOnNotFound
}

func findAddOn(catalog []*tour.AddOn, id uuid.UUID) *tour.AddOn {
	for _, a := range catalog {
		if a.ID() == id {
			return a
		}
	}
	return nil
}
