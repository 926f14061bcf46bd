//go:build unit

package booking_test

import (
	"testing"

	"tourbook/internal/domain/booking"
	"tourbook/tests/common/builder"

	"github.com/stretchr/testify/assert"
)

func TestBookedSpots(t *testing.T) {
	confirmed := builder.ConfirmedRecord(3)
	records := []booking.Record{
		confirmed,
		builder.ConfirmedRecord(2),
		builder.CancelledRecord(5),
	}

	t.Run("cancelled bookings do not count", func(t *testing.T) {
		assert.Equal(t, int32(5), booking.BookedSpots(records, nil))
	})

	t.Run("excluding releases one booking's spots", func(t *testing.T) {
		assert.Equal(t, int32(2), booking.BookedSpots(records, &confirmed.ID))
	})

	t.Run("empty set books nothing", func(t *testing.T) {
		assert.Equal(t, int32(0), booking.BookedSpots(nil, nil))
	})
}

func TestAvailableSpots(t *testing.T) {
	records := []booking.Record{
		builder.ConfirmedRecord(4),
		builder.CancelledRecord(4),
	}

	assert.Equal(t, int32(6), booking.AvailableSpots(10, records, nil))

	t.Run("only cancelled bookings report full capacity", func(t *testing.T) {
		cancelled := []booking.Record{builder.CancelledRecord(10)}
		assert.Equal(t, int32(10), booking.AvailableSpots(10, cancelled, nil))
	})
}
