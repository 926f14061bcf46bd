//go:build unit

package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"tourbook/internal/domain/authz"
	"tourbook/internal/domain/booking"
	"tourbook/internal/domain/user"
	"tourbook/internal/handler/api"
	reqdto "tourbook/internal/handler/dto/request"
	resdto "tourbook/internal/handler/dto/response"
	"tourbook/internal/usecase/commands"
	"tourbook/internal/usecase/queries"
	"tourbook/tests/common/builder"
	"tourbook/tests/common/httptest"
	commandsmock "tourbook/tests/mock/commands"
	queriesmock "tourbook/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockBookingQueries
	handler      *api.BookingHandler

	// set per test to simulate what the auth middleware would have resolved
	sessionUserID *uuid.UUID
	sessionRole   user.Role
	manageBooking *uuid.UUID
	manageEmail   string
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.handler = api.NewBookingHandler(s.mockCommands, s.mockQueries)

	s.sessionUserID = nil
	s.sessionRole = user.RoleTourist
	s.manageBooking = nil
	s.manageEmail = ""

	identity := func(c *gin.Context) {
		if s.sessionUserID != nil {
			c.Set("user_id", *s.sessionUserID)
			c.Set("user_role", s.sessionRole)
		}
		if s.manageBooking != nil {
			c.Set("manage_booking_id", *s.manageBooking)
			c.Set("manage_email", s.manageEmail)
		}
	}

	s.router.POST("/bookings", identity, s.handler.Create)
	s.router.GET("/bookings", identity, s.handler.ListMine)
	s.router.GET("/bookings/:id", identity, s.handler.GetByID)
	s.router.PATCH("/bookings/:id", identity, s.handler.Update)
	s.router.POST("/bookings/:id/cancel", identity, s.handler.Cancel)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

func bookingView(id uuid.UUID) *queries.BookingView {
	now := time.Now().UTC()
	return &queries.BookingView{
		ID:              id,
		TourID:          uuid.New(),
		TourTitle:       "Old Town Walking Tour",
		TourGuideID:     uuid.New(),
		ContactName:     "Jamie Walker",
		ContactEmail:    "jamie@example.com",
		Spots:           2,
		Status:          "confirmed",
		Provenance:      "portal",
		AddOns:          []queries.BookingAddOnView{},
		TourTotalCents:  10000,
		GrandTotalCents: 10000,
		Currency:        "USD",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (s *BookingHandlerTestSuite) TestCreate() {
	url := "/bookings"
	reqBody := builder.NewBookingBuilder().BuildRequest()

	s.Run("success: 201 with booking body", func() {
		view := bookingView(uuid.New())
		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), gomock.Any(), reqBody).
			Return(&commands.CreateBookingResult{Booking: view}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(view.ID, response.ID)
		s.Empty(response.ManageToken)
	})

	s.Run("success: guest creation carries the manage token", func() {
		view := bookingView(uuid.New())
		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), gomock.Any(), reqBody).
			Return(&commands.CreateBookingResult{Booking: view, ManageToken: "manage-jwt"}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal("manage-jwt", response.ManageToken)
	})

	s.Run("error: 400 on malformed body", func() {
		bad := map[string]any{"tour_id": reqBody.TourID, "spots": 2}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, bad, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: 404 when the tour does not exist", func() {
		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), gomock.Any(), reqBody).
			Return(nil, commands.ErrTourNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Tour not found")
	})

	s.Run("error: 422 lists every violated rule", func() {
		violations := []booking.ValidationError{
			{Kind: booking.KindCapacityExceeded, Message: "requested 4 spots but only 2 available"},
			{Kind: booking.KindBookingDeadlinePassed, Message: "booking deadline passed"},
		}
		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), gomock.Any(), reqBody).
			Return(nil, &commands.ValidationFailedError{Violations: violations}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "validation failed")

		var body struct {
			Violations []booking.ValidationError `json:"violations"`
		}
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Len(body.Violations, 2)
		s.Equal(booking.KindCapacityExceeded, body.Violations[0].Kind)
	})

	s.Run("error: 409 on concurrent admission", func() {
		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), gomock.Any(), reqBody).
			Return(nil, commands.ErrConcurrencyConflict).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "retry")
	})

	s.Run("error: 403 when the role may not book", func() {
		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), gomock.Any(), reqBody).
			Return(nil, authz.ErrPermissionDenied).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Permission denied")
	})
}

func (s *BookingHandlerTestSuite) TestGetByID() {
	bookingID := uuid.New()
	url := fmt.Sprintf("/bookings/%s", bookingID)

	s.Run("success: 200 for visible booking", func() {
		view := bookingView(bookingID)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), gomock.Any(), bookingID).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var response resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(bookingID, response.ID)
	})

	s.Run("manage token for this booking keeps the email capability", func() {
		s.manageBooking = &bookingID
		s.manageEmail = "jamie@example.com"
		defer func() { s.manageBooking = nil; s.manageEmail = "" }()

		s.mockQueries.EXPECT().GetByID(gomock.Any(), gomock.Any(), bookingID).
			DoAndReturn(func(_ context.Context, actor authz.Actor, id uuid.UUID) (*queries.BookingView, error) {
				s.Require().NotNil(actor.Email)
				s.Equal("jamie@example.com", actor.Email.Value())
				return bookingView(id), nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("manage token for another booking opens nothing", func() {
		other := uuid.New()
		s.manageBooking = &other
		s.manageEmail = "jamie@example.com"
		defer func() { s.manageBooking = nil; s.manageEmail = "" }()

		s.mockQueries.EXPECT().GetByID(gomock.Any(), gomock.Any(), bookingID).
			DoAndReturn(func(_ context.Context, actor authz.Actor, _ uuid.UUID) (*queries.BookingView, error) {
				s.Nil(actor.Email, "mismatched manage token must not carry the email capability")
				return nil, authz.ErrPermissionDenied
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Permission denied")
	})

	s.Run("error: 400 on malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/not-a-uuid", nil, "")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("error: 404 when booking is missing", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), gomock.Any(), bookingID).
			Return(nil, queries.ErrBookingNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Booking not found")
	})
}

func (s *BookingHandlerTestSuite) TestUpdate() {
	bookingID := uuid.New()
	url := fmt.Sprintf("/bookings/%s", bookingID)

	s.Run("success: 200 with resized booking", func() {
		s.mockCommands.EXPECT().UpdateBooking(gomock.Any(), gomock.Any(), bookingID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ authz.Actor, id uuid.UUID, req reqdto.UpdateBookingRequest) (*queries.BookingView, error) {
				s.Require().NotNil(req.Spots)
				s.Equal(int32(5), *req.Spots)
				view := bookingView(id)
				view.Spots = 5
				return view, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{"spots": 5}, "")

		var response resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(int32(5), response.Spots)
	})

	s.Run("manage token for another booking drops the email capability", func() {
		other := uuid.New()
		s.manageBooking = &other
		s.manageEmail = "jamie@example.com"
		defer func() { s.manageBooking = nil; s.manageEmail = "" }()

		s.mockCommands.EXPECT().UpdateBooking(gomock.Any(), gomock.Any(), bookingID, gomock.Any()).
			DoAndReturn(func(_ context.Context, actor authz.Actor, _ uuid.UUID, _ reqdto.UpdateBookingRequest) (*queries.BookingView, error) {
				s.Nil(actor.Email)
				return nil, authz.ErrPermissionDenied
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{"contact_name": "Morgan"}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Permission denied")
	})

	s.Run("error: 422 when the resize breaks admission", func() {
		violations := []booking.ValidationError{
			{Kind: booking.KindCapacityExceeded, Message: "requested spots exceed remaining capacity"},
		}
		s.mockCommands.EXPECT().UpdateBooking(gomock.Any(), gomock.Any(), bookingID, gomock.Any()).
			Return(nil, &commands.ValidationFailedError{Violations: violations}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{"spots": 9}, "")
		s.Equal(http.StatusUnprocessableEntity, rec.Code)

		var body struct {
			Violations []booking.ValidationError `json:"violations"`
		}
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Require().Len(body.Violations, 1)
		s.Equal(booking.KindCapacityExceeded, body.Violations[0].Kind)
	})

	s.Run("error: 409 when the booking is cancelled", func() {
		s.mockCommands.EXPECT().UpdateBooking(gomock.Any(), gomock.Any(), bookingID, gomock.Any()).
			Return(nil, commands.ErrAlreadyCancelled).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{"spots": 1}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "already cancelled")
	})

	s.Run("error: 400 on malformed body", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{"spots": "three"}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})
}

func (s *BookingHandlerTestSuite) TestCancel() {
	bookingID := uuid.New()
	url := fmt.Sprintf("/bookings/%s/cancel", bookingID)

	s.Run("success: 200 with cancelled view", func() {
		view := bookingView(bookingID)
		view.Status = "cancelled"
		s.mockCommands.EXPECT().CancelBooking(gomock.Any(), gomock.Any(), bookingID).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")

		var response resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("cancelled", response.Status)
	})

	s.Run("error: 409 on repeat cancellation", func() {
		s.mockCommands.EXPECT().CancelBooking(gomock.Any(), gomock.Any(), bookingID).
			Return(nil, commands.ErrAlreadyCancelled).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "already cancelled")
	})

	s.Run("error: 403 for a foreign booking", func() {
		s.mockCommands.EXPECT().CancelBooking(gomock.Any(), gomock.Any(), bookingID).
			Return(nil, authz.ErrPermissionDenied).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Permission denied")
	})
}

func (s *BookingHandlerTestSuite) TestListMine() {
	url := "/bookings"

	s.Run("error: 401 without a session", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "not authenticated")
	})

	s.Run("success: 200 with the tourist's bookings", func() {
		userID := uuid.New()
		s.sessionUserID = &userID
		defer func() { s.sessionUserID = nil }()

		items := []*queries.BookingListItem{
			{ID: uuid.New(), TourID: uuid.New(), TourTitle: "Old Town Walking Tour", Spots: 2, Status: "confirmed", CreatedAt: time.Now().UTC()},
		}
		s.mockQueries.EXPECT().ListByTourist(gomock.Any(), gomock.Any(), userID, int32(0), int32(0)).
			Return(items, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var response []resdto.BookingListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Require().Len(response, 1)
		s.Equal(items[0].ID, response[0].ID)
	})
}
