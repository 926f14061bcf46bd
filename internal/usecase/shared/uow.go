package shared

import (
	"context"
	"time"

	"tourbook/internal/domain/booking"
	"tourbook/internal/domain/tour"
	"tourbook/internal/domain/user"
	"tourbook/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: full transaction for write operations with retry on
	// serialization failures. Admission checks and the reservation insert
	// must share one Within call so the tour row lock covers both.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
	// WithDB: single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
}

type Tx interface {
	Tours() TourRepository
	Bookings() BookingRepository
	AddOns() AddOnRepository
	Users() UserRepository
	Notifications() NotificationRepository
	Reads() CommandReads
}

// CommandReads serves the write path's in-transaction validation reads.
type CommandReads interface {
	// TourByIDForUpdate locks the tour row; every command read of a tour
	// happens under this lock.
	TourByIDForUpdate(ctx context.Context, id uuid.UUID) (*tour.Tour, error)
	BookingRecordsByTour(ctx context.Context, tourID uuid.UUID) ([]booking.Record, error)
	BookingByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	AddOnCatalogByTour(ctx context.Context, tourID uuid.UUID) ([]*tour.AddOn, error)
	AddOnCountByTour(ctx context.Context, tourID uuid.UUID) (int, error)
	AddOnLinesByBooking(ctx context.Context, bookingID uuid.UUID) ([]*booking.AddOnLine, error)
}

type TourRepository interface {
	Create(ctx context.Context, t *tour.Tour) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status tour.Status) error
	AdjustBookingsCount(ctx context.Context, id uuid.UUID, delta int32) error
	// NonTerminalForUpdate locks and returns every tour the sweep may touch.
	NonTerminalForUpdate(ctx context.Context) ([]*tour.Tour, error)
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking, lines []*booking.AddOnLine) error
	Update(ctx context.Context, b *booking.Booking) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status booking.Status) error
}

type AddOnRepository interface {
	Create(ctx context.Context, a *tour.AddOn) error
	Update(ctx context.Context, a *tour.AddOn) error
}

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error
}
