package commands

import (
	"context"
	"log/slog"
	"time"

	"tourbook/internal/domain/event"
	"tourbook/internal/domain/tour"
	"tourbook/internal/pkg/clock"
	"tourbook/internal/pkg/errs"
	"tourbook/internal/usecase/shared"

	"github.com/google/uuid"
)

type SweepResult struct {
	Examined int
	Advanced []uuid.UUID
}

// LifecycleCommands drives the scheduled -> ongoing -> done progression.
// Transitions depend only on the clock, so the sweep is idempotent: a second
// run at the same instant advances nothing.
type LifecycleCommands interface {
	RunSweep(ctx context.Context) (*SweepResult, error)
}

type lifecycleCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewLifecycleCommands(uow shared.UnitOfWork, clock clock.Clock) LifecycleCommands {
	return &lifecycleCommandsImpl{uow: uow, clock: clock}
}

func (l *lifecycleCommandsImpl) RunSweep(ctx context.Context) (*SweepResult, error) {
	result := &SweepResult{}

	err := l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// Locking the rows keeps the sweep from racing bookings that are
		// validating against the status it is about to change.
		tours, lockErr := tx.Tours().NonTerminalForUpdate(ctx)
		if lockErr != nil {
			return errs.Mark(lockErr, ErrDatabaseOperationFailed)
		}
		result.Examined = len(tours)

		now := l.clock.Now()
		for _, t := range tours {
			from := t.Status()
			to, changed := t.Advance(now)
			if !changed {
				continue
			}
			if err := markStatus(ctx, tx, t.ID(), from, to, now); err != nil {
				return err
			}
			result.Advanced = append(result.Advanced, t.ID())
		}
		return nil
	})
	if err != nil {
		return nil, mapConflict(err)
	}

	if len(result.Advanced) > 0 {
		slog.Info("lifecycle sweep advanced tours",
			"examined", result.Examined, "advanced", len(result.Advanced))
	}
	return result, nil
}

// markStatus persists a status change and queues the matching notification
// job in the same transaction.
func markStatus(ctx context.Context, tx shared.Tx, tourID uuid.UUID, from, to tour.Status, now time.Time) error {
	if err := tx.Tours().UpdateStatus(ctx, tourID, to); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	ev := event.TourStatusChanged{TourID: tourID, From: from, To: to, At: now}
	if err := enqueueEvent(ctx, tx, ev, now); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}
