//go:build unit

package booking_test

import (
	"testing"
	"time"

	"tourbook/internal/domain/booking"
	"tourbook/internal/domain/tour"
	"tourbook/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTour(t *testing.T, mutate func(*builder.TourBuilder)) *tour.Tour {
	t.Helper()
	b := builder.NewTourBuilder()
	if mutate != nil {
		mutate(b)
	}
	entity, err := b.BuildDomain()
	require.NoError(t, err)
	return entity
}

func kinds(errs []booking.ValidationError) []booking.ValidationKind {
	out := make([]booking.ValidationKind, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Kind)
	}
	return out
}

func TestValidate(t *testing.T) {
	now := time.Now()

	t.Run("public tour happy path", func(t *testing.T) {
		tr := buildTour(t, nil)
		errs := booking.Validate(tr, booking.Proposed{Spots: 3}, nil, now)
		assert.Empty(t, errs)
	})

	t.Run("capacity exactly consumed", func(t *testing.T) {
		tr := buildTour(t, func(b *builder.TourBuilder) { b.Capacity = 10 })
		records := []booking.Record{builder.ConfirmedRecord(7)}

		errs := booking.Validate(tr, booking.Proposed{Spots: 3}, records, now)
		assert.Empty(t, errs)

		errs = booking.Validate(tr, booking.Proposed{Spots: 4}, records, now)
		require.Len(t, errs, 1)
		assert.Equal(t, booking.KindCapacityExceeded, errs[0].Kind)
	})

	t.Run("cancelled bookings release capacity", func(t *testing.T) {
		tr := buildTour(t, func(b *builder.TourBuilder) { b.Capacity = 4 })
		records := []booking.Record{
			builder.ConfirmedRecord(2),
			builder.CancelledRecord(2),
		}

		errs := booking.Validate(tr, booking.Proposed{Spots: 2}, records, now)
		assert.Empty(t, errs)
	})

	t.Run("zero and negative spot counts", func(t *testing.T) {
		tr := buildTour(t, nil)

		errs := booking.Validate(tr, booking.Proposed{Spots: 0}, nil, now)
		assert.True(t, booking.HasKind(errs, booking.KindInvalidSpotCount))

		errs = booking.Validate(tr, booking.Proposed{Spots: -2}, nil, now)
		assert.True(t, booking.HasKind(errs, booking.KindInvalidSpotCount))
		// A non-positive request never triggers the capacity rule on top.
		assert.False(t, booking.HasKind(errs, booking.KindCapacityExceeded))
	})

	t.Run("tour not bookable once started", func(t *testing.T) {
		tr := buildTour(t, nil)
		after := tr.StartsAt().Add(time.Minute)

		errs := booking.Validate(tr, booking.Proposed{Spots: 1}, nil, after)
		assert.True(t, booking.HasKind(errs, booking.KindTourNotBookable))
	})

	t.Run("private tour full buyout succeeds", func(t *testing.T) {
		tr := buildTour(t, func(b *builder.TourBuilder) {
			b.Private()
			b.Capacity = 6
		})

		errs := booking.Validate(tr, booking.Proposed{Spots: 6}, nil, now)
		assert.Empty(t, errs)
	})

	t.Run("private tour rejects partial buyout", func(t *testing.T) {
		tr := buildTour(t, func(b *builder.TourBuilder) {
			b.Private()
			b.Capacity = 6
		})

		errs := booking.Validate(tr, booking.Proposed{Spots: 4}, nil, now)
		require.Len(t, errs, 1)
		assert.Equal(t, booking.KindPrivateTourPartialBuyout, errs[0].Kind)
	})

	t.Run("private tour exclusivity beats capacity", func(t *testing.T) {
		tr := buildTour(t, func(b *builder.TourBuilder) {
			b.Private()
			b.Capacity = 6
		})
		records := []booking.Record{builder.ConfirmedRecord(6)}

		errs := booking.Validate(tr, booking.Proposed{Spots: 6}, records, now)
		assert.True(t, booking.HasKind(errs, booking.KindPrivateTourAlreadyBooked),
			"got kinds %v", kinds(errs))
	})

	t.Run("private tour frees up after cancellation", func(t *testing.T) {
		tr := buildTour(t, func(b *builder.TourBuilder) {
			b.Private()
			b.Capacity = 6
		})
		records := []booking.Record{builder.CancelledRecord(6)}

		errs := booking.Validate(tr, booking.Proposed{Spots: 6}, records, now)
		assert.Empty(t, errs)
	})

	t.Run("private tour booking deadline", func(t *testing.T) {
		startsAt := now.Add(12 * time.Hour)
		tr := buildTour(t, func(b *builder.TourBuilder) {
			b.Private()
			b.Capacity = 4
			b.StartingAt(startsAt)
			b.BookingDeadlineHours = 24
		})

		// Deadline was 24h before start, already behind us.
		errs := booking.Validate(tr, booking.Proposed{Spots: 4}, nil, now)
		assert.True(t, booking.HasKind(errs, booking.KindBookingDeadlinePassed))

		// An instant exactly on the deadline is already too late.
		deadline := startsAt.Add(-24 * time.Hour)
		errs = booking.Validate(tr, booking.Proposed{Spots: 4}, nil, deadline)
		assert.True(t, booking.HasKind(errs, booking.KindBookingDeadlinePassed))

		// One second before the deadline still books.
		errs = booking.Validate(tr, booking.Proposed{Spots: 4}, nil, deadline.Add(-time.Second))
		assert.False(t, booking.HasKind(errs, booking.KindBookingDeadlinePassed))
	})

	t.Run("public tour has no deadline", func(t *testing.T) {
		tr := buildTour(t, func(b *builder.TourBuilder) {
			b.StartingAt(now.Add(time.Hour))
			b.BookingDeadlineHours = 24
		})

		// Inside what would be the deadline window for a private tour.
		errs := booking.Validate(tr, booking.Proposed{Spots: 1}, nil, now)
		assert.Empty(t, errs)
	})

	t.Run("collects every failure at once", func(t *testing.T) {
		tr := buildTour(t, func(b *builder.TourBuilder) {
			b.Private()
			b.Capacity = 6
			b.StartingAt(now.Add(12 * time.Hour))
			b.BookingDeadlineHours = 24
		})
		records := []booking.Record{builder.ConfirmedRecord(6)}

		errs := booking.Validate(tr, booking.Proposed{Spots: 3}, records, now)
		got := kinds(errs)
		assert.Contains(t, got, booking.KindPrivateTourAlreadyBooked)
		assert.Contains(t, got, booking.KindPrivateTourPartialBuyout)
		assert.Contains(t, got, booking.KindBookingDeadlinePassed)
		assert.Contains(t, got, booking.KindCapacityExceeded)
	})

	t.Run("excluding frees the booking's own spots", func(t *testing.T) {
		tr := buildTour(t, func(b *builder.TourBuilder) { b.Capacity = 4 })
		own := builder.ConfirmedRecord(3)
		records := []booking.Record{own, builder.ConfirmedRecord(1)}

		errs := booking.Validate(tr, booking.Proposed{Spots: 3, Excluding: &own.ID}, records, now)
		assert.Empty(t, errs)
	})
}

func TestValidateAddOns(t *testing.T) {
	buildAddOn := func(t *testing.T, mutate func(*builder.AddOnBuilder)) *tour.AddOn {
		t.Helper()
		b := builder.NewAddOnBuilder()
		if mutate != nil {
			mutate(b)
		}
		a, err := b.BuildDomain()
		require.NoError(t, err)
		return a
	}

	t.Run("valid selection", func(t *testing.T) {
		a := buildAddOn(t, nil)
		errs := booking.ValidateAddOns(
			[]*tour.AddOn{a},
			[]booking.AddOnSelection{{AddOnID: a.ID(), Quantity: 2}},
		)
		assert.Empty(t, errs)
	})

	t.Run("unknown add-on", func(t *testing.T) {
		a := buildAddOn(t, nil)
		errs := booking.ValidateAddOns(
			[]*tour.AddOn{a},
			[]booking.AddOnSelection{{AddOnID: uuid.New(), Quantity: 1}},
		)
		require.Len(t, errs, 1)
		assert.Equal(t, booking.KindAddOnNotAvailable, errs[0].Kind)
	})

	t.Run("inactive add-on", func(t *testing.T) {
		a := buildAddOn(t, nil)
		a.Disable()
		errs := booking.ValidateAddOns(
			[]*tour.AddOn{a},
			[]booking.AddOnSelection{{AddOnID: a.ID(), Quantity: 1}},
		)
		require.Len(t, errs, 1)
		assert.Equal(t, booking.KindAddOnNotAvailable, errs[0].Kind)
	})

	t.Run("duplicate selection", func(t *testing.T) {
		a := buildAddOn(t, nil)
		errs := booking.ValidateAddOns(
			[]*tour.AddOn{a},
			[]booking.AddOnSelection{
				{AddOnID: a.ID(), Quantity: 1},
				{AddOnID: a.ID(), Quantity: 2},
			},
		)
		require.Len(t, errs, 1)
		assert.Equal(t, booking.KindDuplicateAddOnOnBooking, errs[0].Kind)
	})

	t.Run("quantity above maximum", func(t *testing.T) {
		a := buildAddOn(t, func(b *builder.AddOnBuilder) { b.WithMaxQuantity(2) })
		errs := booking.ValidateAddOns(
			[]*tour.AddOn{a},
			[]booking.AddOnSelection{{AddOnID: a.ID(), Quantity: 3}},
		)
		require.Len(t, errs, 1)
		assert.Equal(t, booking.KindAddOnQuantityExceedsMaximum, errs[0].Kind)
	})

	t.Run("quantity at maximum", func(t *testing.T) {
		a := buildAddOn(t, func(b *builder.AddOnBuilder) { b.WithMaxQuantity(2) })
		errs := booking.ValidateAddOns(
			[]*tour.AddOn{a},
			[]booking.AddOnSelection{{AddOnID: a.ID(), Quantity: 2}},
		)
		assert.Empty(t, errs)
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		a := buildAddOn(t, nil)
		errs := booking.ValidateAddOns(
			[]*tour.AddOn{a},
			[]booking.AddOnSelection{{AddOnID: a.ID(), Quantity: 0}},
		)
		require.Len(t, errs, 1)
		assert.Equal(t, booking.KindInvalidSpotCount, errs[0].Kind)
	})
}

func TestCanBook(t *testing.T) {
	now := time.Now()

	t.Run("public with space", func(t *testing.T) {
		tr := buildTour(t, nil)
		assert.True(t, booking.CanBook(tr, nil, now))
	})

	t.Run("public fully booked", func(t *testing.T) {
		tr := buildTour(t, func(b *builder.TourBuilder) { b.Capacity = 2 })
		records := []booking.Record{builder.ConfirmedRecord(2)}
		assert.False(t, booking.CanBook(tr, records, now))
	})

	t.Run("private already reserved", func(t *testing.T) {
		tr := buildTour(t, func(b *builder.TourBuilder) { b.Private() })
		records := []booking.Record{builder.ConfirmedRecord(8)}
		assert.False(t, booking.CanBook(tr, records, now))
	})

	t.Run("private past deadline", func(t *testing.T) {
		tr := buildTour(t, func(b *builder.TourBuilder) {
			b.Private()
			b.StartingAt(now.Add(12 * time.Hour))
			b.BookingDeadlineHours = 24
		})
		assert.False(t, booking.CanBook(tr, nil, now))
	})
}

func TestCanBookFromSnapshot(t *testing.T) {
	asOf := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	public := booking.ListingSnapshot{
		Status:         tour.StatusScheduled,
		Kind:           tour.KindPublic,
		StartsAt:       asOf.Add(48 * time.Hour),
		AvailableSpots: 3,
	}

	t.Run("public with space", func(t *testing.T) {
		assert.True(t, booking.CanBookFromSnapshot(public, asOf))
	})

	t.Run("public sold out", func(t *testing.T) {
		s := public
		s.AvailableSpots = 0
		assert.False(t, booking.CanBookFromSnapshot(s, asOf))
	})

	t.Run("not scheduled or already started", func(t *testing.T) {
		s := public
		s.Status = tour.StatusOngoing
		assert.False(t, booking.CanBookFromSnapshot(s, asOf))

		s = public
		s.StartsAt = asOf
		assert.False(t, booking.CanBookFromSnapshot(s, asOf))
	})

	t.Run("private deadline boundary", func(t *testing.T) {
		s := booking.ListingSnapshot{
			Status:        tour.StatusScheduled,
			Kind:          tour.KindPrivate,
			StartsAt:      asOf.Add(24 * time.Hour),
			DeadlineHours: 24,
		}
		// The deadline instant itself is already closed.
		assert.False(t, booking.CanBookFromSnapshot(s, asOf))
		assert.True(t, booking.CanBookFromSnapshot(s, asOf.Add(-time.Second)))
	})

	t.Run("private already reserved", func(t *testing.T) {
		s := booking.ListingSnapshot{
			Status:         tour.StatusScheduled,
			Kind:           tour.KindPrivate,
			StartsAt:       asOf.Add(72 * time.Hour),
			DeadlineHours:  24,
			ActiveBookings: 1,
		}
		assert.False(t, booking.CanBookFromSnapshot(s, asOf))
	})

	t.Run("agrees with CanBook over the same tour", func(t *testing.T) {
		tr := buildTour(t, func(b *builder.TourBuilder) {
			b.Private()
			b.StartingAt(asOf.Add(12 * time.Hour))
			b.BookingDeadlineHours = 24
		})
		s := booking.ListingSnapshot{
			Status:        tr.Status(),
			Kind:          tr.Kind(),
			StartsAt:      tr.StartsAt(),
			DeadlineHours: tr.BookingDeadlineHours(),
		}
		assert.Equal(t, booking.CanBook(tr, nil, asOf), booking.CanBookFromSnapshot(s, asOf))
	})
}
