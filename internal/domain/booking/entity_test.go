//go:build unit

package booking_test

import (
	"testing"

	"tourbook/internal/domain/booking"
	"tourbook/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBooking(t *testing.T) {
	t.Run("portal booking keeps the tourist reference", func(t *testing.T) {
		b := builder.NewBookingBuilder()
		entity, err := b.BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, entity.TouristID())
		assert.Equal(t, *b.TouristID, *entity.TouristID())
		assert.Equal(t, booking.StatusConfirmed, entity.Status())
		assert.Equal(t, booking.ProvenancePortal, entity.Provenance())
	})

	t.Run("guest booking has no tourist", func(t *testing.T) {
		entity, err := builder.NewBookingBuilder().Guest().BuildDomain()
		require.NoError(t, err)
		assert.Nil(t, entity.TouristID())
		assert.Equal(t, booking.ProvenanceGuest, entity.Provenance())
	})

	t.Run("empty contact name", func(t *testing.T) {
		b := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
			b.ContactName = ""
		})
		_, err := b.BuildDomain()
		require.ErrorIs(t, err, booking.ErrEmptyContactName)
	})
}

func TestBookingRename(t *testing.T) {
	entity, err := builder.NewBookingBuilder().BuildDomain()
	require.NoError(t, err)

	require.NoError(t, entity.Rename("Morgan Reyes"))
	assert.Equal(t, "Morgan Reyes", entity.ContactName())

	require.ErrorIs(t, entity.Rename(""), booking.ErrEmptyContactName)
	assert.Equal(t, "Morgan Reyes", entity.ContactName())

	require.NoError(t, entity.Cancel())
	require.ErrorIs(t, entity.Rename("Sam"), booking.ErrAlreadyCancelled)
}

func TestBookingResize(t *testing.T) {
	entity, err := builder.NewBookingBuilder().BuildDomain()
	require.NoError(t, err)

	require.NoError(t, entity.Resize(5))
	assert.Equal(t, int32(5), entity.Spots())

	require.NoError(t, entity.Cancel())
	require.ErrorIs(t, entity.Resize(2), booking.ErrAlreadyCancelled)
	assert.Equal(t, int32(5), entity.Spots())
}

func TestBookingCancel(t *testing.T) {
	entity, err := builder.NewBookingBuilder().BuildDomain()
	require.NoError(t, err)

	require.NoError(t, entity.Cancel())
	assert.True(t, entity.IsCancelled())

	require.ErrorIs(t, entity.Cancel(), booking.ErrAlreadyCancelled)
	assert.True(t, entity.IsCancelled(), "a cancelled booking stays cancelled")
}
