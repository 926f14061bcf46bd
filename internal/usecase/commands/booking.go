package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"tourbook/internal/domain/authz"
	"tourbook/internal/domain/booking"
	"tourbook/internal/domain/event"
	"tourbook/internal/domain/tour"
	"tourbook/internal/domain/user"
	reqdto "tourbook/internal/handler/dto/request"
	"tourbook/internal/infra"
	"tourbook/internal/pkg/clock"
	"tourbook/internal/pkg/errs"
	"tourbook/internal/pkg/jwt"
	"tourbook/internal/usecase/queries"
	"tourbook/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrTourNotFound            = errs.New("tour not found")
	ErrBookingNotFound         = errs.New("booking not found")
	ErrValidationFailed        = errs.New("booking validation failed")
	ErrConcurrencyConflict     = errs.New("concurrent booking conflict")
	ErrAlreadyCancelled        = errs.New("booking is already cancelled")
	ErrDomainValidation        = errs.New("domain validation error")
	ErrTokenGeneration         = errs.New("token generation failed")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

// ValidationFailedError carries every admission rule the request broke, so
// one response can report the full list instead of the first failure.
type ValidationFailedError struct {
	Violations []booking.ValidationError
}

func (e *ValidationFailedError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message)
	}
	return fmt.Sprintf("booking validation failed: %s", strings.Join(msgs, "; "))
}

func (e *ValidationFailedError) Unwrap() error { return ErrValidationFailed }

type CreateBookingResult struct {
	Booking *queries.BookingView
	// ManageToken is only set for guest bookings; the magic-link capability
	// for managing the booking without an account.
	ManageToken string
}

type BookingCommands interface {
	CreateBooking(ctx context.Context, actor authz.Actor, req reqdto.CreateBookingRequest) (*CreateBookingResult, error)
	UpdateBooking(ctx context.Context, actor authz.Actor, bookingID uuid.UUID, req reqdto.UpdateBookingRequest) (*queries.BookingView, error)
	CancelBooking(ctx context.Context, actor authz.Actor, bookingID uuid.UUID) (*queries.BookingView, error)
}

type bookingCommandsImpl struct {
	uow            shared.UnitOfWork
	bookingQueries queries.BookingQueries
	jwtService     *jwt.Service
	clock          clock.Clock
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	bookingQueries queries.BookingQueries,
	jwtService *jwt.Service,
	clock clock.Clock,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:            uow,
		bookingQueries: bookingQueries,
		jwtService:     jwtService,
		clock:          clock,
	}
}

func (b *bookingCommandsImpl) CreateBooking(
	ctx context.Context,
	actor authz.Actor,
	req reqdto.CreateBookingRequest,
) (*CreateBookingResult, error) {
	if err := authz.Check(actor, authz.ActionCreate, authz.Resource{Entity: authz.EntityBooking}); err != nil {
		return nil, err
	}

	contactEmail, err := user.NewEmail(req.ContactEmail)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	touristID, provenance := bookingIdentity(actor)

	var bookingID uuid.UUID
	err = b.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// The tour row lock serializes admission: capacity, exclusivity and
		// the bookings_count adjustment all happen under it.
		t, lockErr := tx.Reads().TourByIDForUpdate(ctx, req.TourID)
		if lockErr != nil {
			if infra.IsKind(lockErr, infra.KindNotFound) {
				return ErrTourNotFound
			}
			return errs.Mark(lockErr, ErrDatabaseOperationFailed)
		}

		records, readErr := tx.Reads().BookingRecordsByTour(ctx, t.ID())
		if readErr != nil {
			return errs.Mark(readErr, ErrDatabaseOperationFailed)
		}

		now := b.clock.Now()
		violations := booking.Validate(t, booking.Proposed{Spots: req.Spots}, records, now)

		selections := req.Selections()
		var catalog []*tour.AddOn
		if len(selections) > 0 {
			catalog, readErr = tx.Reads().AddOnCatalogByTour(ctx, t.ID())
			if readErr != nil {
				return errs.Mark(readErr, ErrDatabaseOperationFailed)
			}
			violations = append(violations, booking.ValidateAddOns(catalog, selections)...)
		}
		if len(violations) > 0 {
			return &ValidationFailedError{Violations: violations}
		}

		entity, newErr := booking.NewBooking(t.ID(), touristID, req.TrimmedContactName(), contactEmail, req.Spots, provenance)
		if newErr != nil {
			return errs.Mark(newErr, ErrDomainValidation)
		}

		lines, lineErr := buildAddOnLines(entity.ID(), catalog, selections)
		if lineErr != nil {
			return errs.Mark(lineErr, ErrDomainValidation)
		}

		if createErr := tx.Bookings().Create(ctx, entity, lines); createErr != nil {
			return errs.Mark(createErr, ErrDatabaseOperationFailed)
		}
		if adjErr := tx.Tours().AdjustBookingsCount(ctx, t.ID(), 1); adjErr != nil {
			return errs.Mark(adjErr, ErrDatabaseOperationFailed)
		}

		confirmed := event.BookingConfirmed{
			BookingID:       entity.ID(),
			TourID:          t.ID(),
			ContactEmail:    contactEmail.Value(),
			Spots:           entity.Spots(),
			GrandTotalCents: booking.GrandTotal(t, entity, lines),
			At:              now,
		}
		if jobErr := enqueueEvent(ctx, tx, confirmed, now); jobErr != nil {
			return errs.Mark(jobErr, ErrDatabaseOperationFailed)
		}

		bookingID = entity.ID()
		return nil
	})
	if err != nil {
		return nil, mapConflict(err)
	}

	view, err := b.bookingQueries.GetByIDSystem(ctx, bookingID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	result := &CreateBookingResult{Booking: view}
	if provenance == booking.ProvenanceGuest {
		token, tokenErr := b.jwtService.GenerateManageToken(bookingID, contactEmail.Value())
		if tokenErr != nil {
			return nil, errs.Mark(tokenErr, ErrTokenGeneration)
		}
		result.ManageToken = token
	}
	return result, nil
}

func (b *bookingCommandsImpl) UpdateBooking(
	ctx context.Context,
	actor authz.Actor,
	bookingID uuid.UUID,
	req reqdto.UpdateBookingRequest,
) (*queries.BookingView, error) {
	err := b.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, readErr := tx.Reads().BookingByID(ctx, bookingID)
		if readErr != nil {
			if infra.IsKind(readErr, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return errs.Mark(readErr, ErrDatabaseOperationFailed)
		}

		// Resizes compete with admissions over the same capacity, so the
		// tour lock covers the whole edit.
		t, lockErr := tx.Reads().TourByIDForUpdate(ctx, entity.TourID())
		if lockErr != nil {
			return errs.Mark(lockErr, ErrDatabaseOperationFailed)
		}

		if authzErr := authz.Check(actor, authz.ActionUpdate, bookingResource(entity, t)); authzErr != nil {
			return authzErr
		}
		if entity.IsCancelled() {
			return ErrAlreadyCancelled
		}

		now := b.clock.Now()
		if name := req.TrimmedContactName(); name != nil {
			if renameErr := entity.Rename(*name); renameErr != nil {
				return errs.Mark(renameErr, ErrDomainValidation)
			}
		}
		if req.Spots != nil && *req.Spots != entity.Spots() {
			records, recErr := tx.Reads().BookingRecordsByTour(ctx, t.ID())
			if recErr != nil {
				return errs.Mark(recErr, ErrDatabaseOperationFailed)
			}
			// The booking's own spots are excluded so shrinking always
			// passes and growing only claims the difference.
			own := entity.ID()
			proposed := booking.Proposed{Spots: *req.Spots, Excluding: &own}
			if violations := booking.Validate(t, proposed, records, now); len(violations) > 0 {
				return &ValidationFailedError{Violations: violations}
			}
			if resizeErr := entity.Resize(*req.Spots); resizeErr != nil {
				return errs.Mark(resizeErr, ErrDomainValidation)
			}
		}

		if updErr := tx.Bookings().Update(ctx, entity); updErr != nil {
			return errs.Mark(updErr, ErrDatabaseOperationFailed)
		}

		// Resizes change per-person line totals, so the amended event carries
		// the recomputed grand total over the frozen add-on prices.
		lines, lineErr := tx.Reads().AddOnLinesByBooking(ctx, entity.ID())
		if lineErr != nil {
			return errs.Mark(lineErr, ErrDatabaseOperationFailed)
		}

		amended := event.BookingAmended{
			BookingID:       entity.ID(),
			TourID:          t.ID(),
			ContactEmail:    entity.ContactEmail().Value(),
			Spots:           entity.Spots(),
			GrandTotalCents: booking.GrandTotal(t, entity, lines),
			At:              now,
		}
		return enqueueEvent(ctx, tx, amended, now)
	})
	if err != nil {
		return nil, mapConflict(err)
	}

	view, err := b.bookingQueries.GetByIDSystem(ctx, bookingID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (b *bookingCommandsImpl) CancelBooking(
	ctx context.Context,
	actor authz.Actor,
	bookingID uuid.UUID,
) (*queries.BookingView, error) {
	err := b.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, readErr := tx.Reads().BookingByID(ctx, bookingID)
		if readErr != nil {
			if infra.IsKind(readErr, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return errs.Mark(readErr, ErrDatabaseOperationFailed)
		}

		// Lock before re-reading state: the cancel races against admissions
		// over the same capacity.
		t, lockErr := tx.Reads().TourByIDForUpdate(ctx, entity.TourID())
		if lockErr != nil {
			return errs.Mark(lockErr, ErrDatabaseOperationFailed)
		}

		if authzErr := authz.Check(actor, authz.ActionDestroy, bookingResource(entity, t)); authzErr != nil {
			return authzErr
		}

		if cancelErr := entity.Cancel(); cancelErr != nil {
			if errors.Is(cancelErr, booking.ErrAlreadyCancelled) {
				return ErrAlreadyCancelled
			}
			return errs.Mark(cancelErr, ErrDomainValidation)
		}

		if updErr := tx.Bookings().UpdateStatus(ctx, entity.ID(), booking.StatusCancelled); updErr != nil {
			return errs.Mark(updErr, ErrDatabaseOperationFailed)
		}
		if adjErr := tx.Tours().AdjustBookingsCount(ctx, t.ID(), -1); adjErr != nil {
			return errs.Mark(adjErr, ErrDatabaseOperationFailed)
		}

		now := b.clock.Now()
		cancelled := event.BookingCancelled{
			BookingID:    entity.ID(),
			TourID:       t.ID(),
			ContactEmail: entity.ContactEmail().Value(),
			At:           now,
		}
		return enqueueEvent(ctx, tx, cancelled, now)
	})
	if err != nil {
		return nil, mapConflict(err)
	}

	view, err := b.bookingQueries.GetByIDSystem(ctx, bookingID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return view, nil
}

func bookingIdentity(actor authz.Actor) (*uuid.UUID, booking.Provenance) {
	if actor.Role == user.RoleAnonymous {
		return nil, booking.ProvenanceGuest
	}
	id := actor.ID
	return &id, booking.ProvenancePortal
}

func buildAddOnLines(bookingID uuid.UUID, catalog []*tour.AddOn, selections []booking.AddOnSelection) ([]*booking.AddOnLine, error) {
	if len(selections) == 0 {
		return nil, nil
	}
	byID := make(map[uuid.UUID]*tour.AddOn, len(catalog))
	for _, a := range catalog {
		byID[a.ID()] = a
	}

	lines := make([]*booking.AddOnLine, 0, len(selections))
	for _, sel := range selections {
		catalogAddOn, ok := byID[sel.AddOnID]
		if !ok {
			// ValidateAddOns already rejected unknown IDs; reaching here
			// means the catalog changed mid-transaction, which the tour
			// lock rules out.
			return nil, errs.New("add-on disappeared from catalog")
		}
		line, err := booking.NewAddOnLine(bookingID, catalogAddOn, sel.Quantity)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func bookingResource(b *booking.Booking, t *tour.Tour) authz.Resource {
	email := b.ContactEmail()
	res := authz.Resource{
		Entity:        authz.EntityBooking,
		TourOwnerID:   t.GuideID(),
		CapturedEmail: &email,
	}
	if b.TouristID() != nil {
		res.OwnerID = *b.TouristID()
	}
	return res
}

func enqueueEvent(ctx context.Context, tx shared.Tx, ev event.Event, runAt time.Time) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return tx.Notifications().CreateJob(ctx, "email", ev.Topic(), payload, runAt)
}

// mapConflict folds lock/serialization failures that survived the retry
// budget into the conflict sentinel callers can act on.
func mapConflict(err error) error {
	if infra.IsKind(err, infra.KindConflict) {
		return errs.Mark(err, ErrConcurrencyConflict)
	}
	return err
}
