//go:build e2e

package booking_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"tourbook/internal/domain/user"
	"tourbook/internal/handler/dto/request"
	"tourbook/internal/handler/dto/response"
	"tourbook/tests/common/authtest"
	"tourbook/tests/common/dbtest"
	"tourbook/tests/common/httptest"
	"tourbook/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	bookingsURL      = "/api/bookings"
	bookingDetailURL = "/api/bookings/%s"
	bookingCancelURL = "/api/bookings/%s/cancel"
)

type BookingSuite struct {
	e2e.SharedSuite
}

func TestBookingSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(BookingSuite))
}

func (s *BookingSuite) createRequest(tourID uuid.UUID, spots int32) request.CreateBookingRequest {
	return request.CreateBookingRequest{
		TourID:       tourID,
		Spots:        spots,
		ContactName:  "Jamie Walker",
		ContactEmail: "jamie@example.com",
	}
}

func (s *BookingSuite) TestCreateBooking() {
	s.Run("Normal case: tourist books spots and totals are frozen", func() {
		t := s.T()

		guideID := dbtest.CreateTestUser(t, s.DB, "guide@example.com", string(user.RoleGuide))
		tourID := dbtest.CreateTestTour(t, s.DB, guideID, "Old Town Walking Tour", 8, 5000)
		lunchID := dbtest.CreateTestAddOn(t, s.DB, tourID, "Lunch Box", 1500, "per_person")
		transferID := dbtest.CreateTestAddOn(t, s.DB, tourID, "Private Transfer", 9000, "flat_fee")

		token := authtest.CreateAndLogin(t, s.DB, s.Router, "tourist@example.com", string(user.RoleTourist))

		reqBody := s.createRequest(tourID, 2)
		reqBody.AddOns = []request.BookingAddOnSelection{
			{AddOnID: lunchID, Quantity: 1},
			{AddOnID: transferID, Quantity: 1},
		}

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, reqBody, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created response.BookingResponse
		err := httptest.DecodeResponseBody(t, w.Body, &created)
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)
		require.Empty(t, created.ManageToken, "portal bookings get no manage token")

		expected := response.BookingResponse{
			TourID:       tourID,
			TourTitle:    "Old Town Walking Tour",
			ContactName:  "Jamie Walker",
			ContactEmail: "jamie@example.com",
			Spots:        2,
			Status:       "confirmed",
			Provenance:   "portal",
			// 5000*2 tour + 1500*2*1 per-person + 9000*1 flat fee
			TourTotalCents:  10000,
			GrandTotalCents: 22000,
			Currency:        "USD",
		}
		opts := []cmp.Option{
			cmpopts.IgnoreFields(response.BookingResponse{},
				"ID", "TouristID", "AddOns", "CreatedAt", "UpdatedAt"),
		}
		if diff := cmp.Diff(expected, created, opts...); diff != "" {
			t.Errorf("booking response mismatch (-want +got):\n%s", diff)
		}
		require.Len(t, created.AddOns, 2)

		// Raising the catalog price never touches the frozen line.
		_, err = s.DB.Exec(context.Background(), "UPDATE tour_add_ons SET price_cents = 99999 WHERE id = $1", lunchID)
		require.NoError(t, err)

		dw := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf(bookingDetailURL, created.ID), nil, token)
		require.Equal(t, http.StatusOK, dw.Code, dw.Body.String())

		var fetched response.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, dw.Body, &fetched))
		require.Equal(t, int64(22000), fetched.GrandTotalCents)
	})

	s.Run("Normal case: guest booking returns a manage token", func() {
		t := s.T()

		guideID := dbtest.CreateTestUser(t, s.DB, "guide@example.com", string(user.RoleGuide))
		tourID := dbtest.CreateTestTour(t, s.DB, guideID, "Harbor Kayak Tour", 6, 4000)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			s.createRequest(tourID, 2), "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created response.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))
		require.Equal(t, "guest", created.Provenance)
		require.Nil(t, created.TouristID)
		require.NotEmpty(t, created.ManageToken)

		// The magic link opens the booking without a session.
		detailURL := fmt.Sprintf(bookingDetailURL+"?manage_token=%s", created.ID, created.ManageToken)
		dw := httptest.PerformRequest(t, s.Router, http.MethodGet, detailURL, nil, "")
		require.Equal(t, http.StatusOK, dw.Code, dw.Body.String())

		// Without it the booking stays hidden.
		dw = httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf(bookingDetailURL, created.ID), nil, "")
		require.Equal(t, http.StatusForbidden, dw.Code)
	})

	s.Run("Error case: overbooking reports every violated rule", func() {
		t := s.T()

		guideID := dbtest.CreateTestUser(t, s.DB, "guide@example.com", string(user.RoleGuide))
		tourID := dbtest.CreateTestTour(t, s.DB, guideID, "Small Group Tour", 4, 5000)

		token := authtest.CreateAndLogin(t, s.DB, s.Router, "tourist@example.com", string(user.RoleTourist))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			s.createRequest(tourID, 3), token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			s.createRequest(tourID, 2), token)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

		var body struct {
			Violations []struct {
				Kind string `json:"kind"`
			} `json:"violations"`
		}
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &body))
		require.Len(t, body.Violations, 1)
		require.Equal(t, "CAPACITY_EXCEEDED", body.Violations[0].Kind)
	})

	s.Run("Error case: guides cannot book", func() {
		t := s.T()

		guideID := dbtest.CreateTestUser(t, s.DB, "guide@example.com", string(user.RoleGuide))
		tourID := dbtest.CreateTestTour(t, s.DB, guideID, "City Food Tour", 8, 5000)

		token := authtest.LoginUser(t, s.Router, "guide@example.com", "password123")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			s.createRequest(tourID, 2), token)
		require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	})
}

func (s *BookingSuite) TestUpdateBooking() {
	s.Run("Normal case: a resize only claims the spot difference", func() {
		t := s.T()

		guideID := dbtest.CreateTestUser(t, s.DB, "guide@example.com", string(user.RoleGuide))
		tourID := dbtest.CreateTestTour(t, s.DB, guideID, "River Cruise", 5, 5000)

		token := authtest.CreateAndLogin(t, s.DB, s.Router, "tourist@example.com", string(user.RoleTourist))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			s.createRequest(tourID, 3), token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created response.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))

		// 3 of 5 taken; growing to 5 works because the booking's own 3
		// spots do not count against it.
		spots := int32(5)
		uw := httptest.PerformRequest(t, s.Router, http.MethodPatch,
			fmt.Sprintf(bookingDetailURL, created.ID),
			request.UpdateBookingRequest{Spots: &spots}, token)
		require.Equal(t, http.StatusOK, uw.Code, uw.Body.String())

		var updated response.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, uw.Body, &updated))
		require.Equal(t, int32(5), updated.Spots)
		require.Equal(t, int64(25000), updated.TourTotalCents)

		// The amended event carries the grand total recomputed for the new
		// spot count.
		var payload struct {
			Spots           int32
			GrandTotalCents int64
		}
		var raw []byte
		require.NoError(t, s.DB.QueryRow(context.Background(),
			`SELECT payload FROM notification_jobs WHERE topic = 'booking_amended'`).Scan(&raw))
		require.NoError(t, json.Unmarshal(raw, &payload))
		require.Equal(t, int32(5), payload.Spots)
		require.Equal(t, int64(25000), payload.GrandTotalCents)

		// The tour is now full for everyone else.
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			s.createRequest(tourID, 1), "")
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	})

	s.Run("Normal case: guest renames the contact through the manage token", func() {
		t := s.T()

		guideID := dbtest.CreateTestUser(t, s.DB, "guide@example.com", string(user.RoleGuide))
		tourID := dbtest.CreateTestTour(t, s.DB, guideID, "Mountain Hike", 6, 4000)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			s.createRequest(tourID, 2), "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created response.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))
		require.NotEmpty(t, created.ManageToken)

		name := "Morgan Reyes"
		updateURL := fmt.Sprintf(bookingDetailURL+"?manage_token=%s", created.ID, created.ManageToken)
		uw := httptest.PerformRequest(t, s.Router, http.MethodPatch, updateURL,
			request.UpdateBookingRequest{ContactName: &name}, "")
		require.Equal(t, http.StatusOK, uw.Code, uw.Body.String())

		var updated response.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, uw.Body, &updated))
		require.Equal(t, "Morgan Reyes", updated.ContactName)

		// Without the token the edit is refused.
		uw = httptest.PerformRequest(t, s.Router, http.MethodPatch,
			fmt.Sprintf(bookingDetailURL, created.ID),
			request.UpdateBookingRequest{ContactName: &name}, "")
		require.Equal(t, http.StatusForbidden, uw.Code, uw.Body.String())
	})

	s.Run("Error case: growing past the remaining capacity is refused", func() {
		t := s.T()

		guideID := dbtest.CreateTestUser(t, s.DB, "guide@example.com", string(user.RoleGuide))
		tourID := dbtest.CreateTestTour(t, s.DB, guideID, "Cave Exploration", 5, 6000)

		token := authtest.CreateAndLogin(t, s.DB, s.Router, "tourist@example.com", string(user.RoleTourist))
		otherToken := authtest.CreateAndLogin(t, s.DB, s.Router, "other@example.com", string(user.RoleTourist))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			s.createRequest(tourID, 2), token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created response.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			s.createRequest(tourID, 2), otherToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		// 2+2 of 5 taken; growing the first booking to 4 needs 2 more.
		spots := int32(4)
		uw := httptest.PerformRequest(t, s.Router, http.MethodPatch,
			fmt.Sprintf(bookingDetailURL, created.ID),
			request.UpdateBookingRequest{Spots: &spots}, token)
		require.Equal(t, http.StatusUnprocessableEntity, uw.Code, uw.Body.String())

		var body struct {
			Violations []struct {
				Kind string `json:"kind"`
			} `json:"violations"`
		}
		require.NoError(t, httptest.DecodeResponseBody(t, uw.Body, &body))
		require.Len(t, body.Violations, 1)
		require.Equal(t, "CAPACITY_EXCEEDED", body.Violations[0].Kind)
	})

	s.Run("Error case: a cancelled booking cannot be edited", func() {
		t := s.T()

		guideID := dbtest.CreateTestUser(t, s.DB, "guide@example.com", string(user.RoleGuide))
		tourID := dbtest.CreateTestTour(t, s.DB, guideID, "Food Market Tour", 6, 3000)

		token := authtest.CreateAndLogin(t, s.DB, s.Router, "tourist@example.com", string(user.RoleTourist))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			s.createRequest(tourID, 2), token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created response.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))

		cw := httptest.PerformRequest(t, s.Router, http.MethodPost,
			fmt.Sprintf(bookingCancelURL, created.ID), nil, token)
		require.Equal(t, http.StatusOK, cw.Code, cw.Body.String())

		name := "Sam"
		uw := httptest.PerformRequest(t, s.Router, http.MethodPatch,
			fmt.Sprintf(bookingDetailURL, created.ID),
			request.UpdateBookingRequest{ContactName: &name}, token)
		require.Equal(t, http.StatusConflict, uw.Code, uw.Body.String())
	})
}

func (s *BookingSuite) TestCancelBooking() {
	s.Run("Normal case: cancellation releases capacity for rebooking", func() {
		t := s.T()

		guideID := dbtest.CreateTestUser(t, s.DB, "guide@example.com", string(user.RoleGuide))
		tourID := dbtest.CreateTestTour(t, s.DB, guideID, "Sunset Sailing", 4, 8000)

		token := authtest.CreateAndLogin(t, s.DB, s.Router, "tourist@example.com", string(user.RoleTourist))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			s.createRequest(tourID, 4), token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created response.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))

		cw := httptest.PerformRequest(t, s.Router, http.MethodPost,
			fmt.Sprintf(bookingCancelURL, created.ID), nil, token)
		require.Equal(t, http.StatusOK, cw.Code, cw.Body.String())

		var cancelled response.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, cw.Body, &cancelled))
		require.Equal(t, "cancelled", cancelled.Status)

		// All four spots are free again.
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			s.createRequest(tourID, 4), token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	s.Run("Error case: cancelling twice reports the repeat", func() {
		t := s.T()

		guideID := dbtest.CreateTestUser(t, s.DB, "guide@example.com", string(user.RoleGuide))
		tourID := dbtest.CreateTestTour(t, s.DB, guideID, "Night Market Tour", 6, 3000)

		token := authtest.CreateAndLogin(t, s.DB, s.Router, "tourist@example.com", string(user.RoleTourist))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			s.createRequest(tourID, 2), token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created response.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))

		cancelURL := fmt.Sprintf(bookingCancelURL, created.ID)
		cw := httptest.PerformRequest(t, s.Router, http.MethodPost, cancelURL, nil, token)
		require.Equal(t, http.StatusOK, cw.Code, cw.Body.String())

		cw = httptest.PerformRequest(t, s.Router, http.MethodPost, cancelURL, nil, token)
		require.Equal(t, http.StatusConflict, cw.Code, cw.Body.String())
	})

	s.Run("Error case: a stranger cannot cancel the booking", func() {
		t := s.T()

		guideID := dbtest.CreateTestUser(t, s.DB, "guide@example.com", string(user.RoleGuide))
		tourID := dbtest.CreateTestTour(t, s.DB, guideID, "Castle Day Trip", 6, 7000)

		ownerToken := authtest.CreateAndLogin(t, s.DB, s.Router, "owner@example.com", string(user.RoleTourist))
		strangerToken := authtest.CreateAndLogin(t, s.DB, s.Router, "stranger@example.com", string(user.RoleTourist))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			s.createRequest(tourID, 2), ownerToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created response.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))

		cw := httptest.PerformRequest(t, s.Router, http.MethodPost,
			fmt.Sprintf(bookingCancelURL, created.ID), nil, strangerToken)
		require.Equal(t, http.StatusForbidden, cw.Code, cw.Body.String())
	})
}

func (s *BookingSuite) TestListMyBookings() {
	s.Run("Normal case: only the caller's bookings come back", func() {
		t := s.T()

		guideID := dbtest.CreateTestUser(t, s.DB, "guide@example.com", string(user.RoleGuide))
		tourID := dbtest.CreateTestTour(t, s.DB, guideID, "Vineyard Tour", 10, 6000)

		mineToken := authtest.CreateAndLogin(t, s.DB, s.Router, "mine@example.com", string(user.RoleTourist))
		otherToken := authtest.CreateAndLogin(t, s.DB, s.Router, "other@example.com", string(user.RoleTourist))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			s.createRequest(tourID, 2), mineToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			s.createRequest(tourID, 3), otherToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		lw := httptest.PerformRequest(t, s.Router, http.MethodGet, bookingsURL, nil, mineToken)
		require.Equal(t, http.StatusOK, lw.Code, lw.Body.String())

		var items []response.BookingListResponse
		require.NoError(t, httptest.DecodeResponseBody(t, lw.Body, &items))
		require.Len(t, items, 1)
		require.Equal(t, int32(2), items[0].Spots)
	})
}
