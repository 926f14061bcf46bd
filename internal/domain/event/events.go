// Package event defines the typed domain events the core returns alongside
// command results. The core never reaches outward on success; the caller
// persists these as notification jobs in the same transaction and an external
// consumer reacts after commit.
package event

import (
	"time"

	"tourbook/internal/domain/tour"

	"github.com/google/uuid"
)

type Event interface {
	Topic() string
	OccurredAt() time.Time
}

type BookingConfirmed struct {
	BookingID       uuid.UUID
	TourID          uuid.UUID
	ContactEmail    string
	Spots           int32
	GrandTotalCents int64
	At              time.Time
}

func (e BookingConfirmed) Topic() string         { return "booking_confirmed" }
func (e BookingConfirmed) OccurredAt() time.Time { return e.At }

type BookingAmended struct {
	BookingID       uuid.UUID
	TourID          uuid.UUID
	ContactEmail    string
	Spots           int32
	GrandTotalCents int64
	At              time.Time
}

func (e BookingAmended) Topic() string         { return "booking_amended" }
func (e BookingAmended) OccurredAt() time.Time { return e.At }

type BookingCancelled struct {
	BookingID    uuid.UUID
	TourID       uuid.UUID
	ContactEmail string
	At           time.Time
}

func (e BookingCancelled) Topic() string         { return "booking_cancelled" }
func (e BookingCancelled) OccurredAt() time.Time { return e.At }

type TourStatusChanged struct {
	TourID uuid.UUID
	From   tour.Status
	To     tour.Status
	At     time.Time
}

func (e TourStatusChanged) Topic() string         { return "tour_status_changed" }
func (e TourStatusChanged) OccurredAt() time.Time { return e.At }
