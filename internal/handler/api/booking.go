package api

import (
	"errors"
	"net/http"

	"tourbook/internal/domain/authz"
	reqdto "tourbook/internal/handler/dto/request"
	resdto "tourbook/internal/handler/dto/response"
	"tourbook/internal/handler/middleware"
	"tourbook/internal/usecase/commands"
	"tourbook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	bookingCommands commands.BookingCommands
	bookingQueries  queries.BookingQueries
}

func NewBookingHandler(bookingCommands commands.BookingCommands, bookingQueries queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		bookingCommands: bookingCommands,
		bookingQueries:  bookingQueries,
	}
}

// @Summary Create booking
// @Description Book spots on a tour, optionally with add-ons. Works for
// @Description logged-in tourists and for guests, who get a manage token back.
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]any
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.bookingCommands.CreateBooking(c.Request.Context(), middleware.CurrentActor(c), req)
	if err != nil {
		h.renderError(c, err)
		return
	}

	response := resdto.FromBookingView(result.Booking)
	response.ManageToken = result.ManageToken
	c.JSON(http.StatusCreated, response)
}

// @Summary Get booking
// @Description Get a booking visible to the caller, by session or manage token
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Param manage_token query string false "Magic-link manage token"
// @Success 200 {object} resdto.BookingResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetByID(c *gin.Context) {
	bookingID, ok := pathID(c, "id")
	if !ok {
		return
	}

	actor := middleware.CurrentActor(c)
	if managedID, managed := middleware.ManagedBookingID(c); managed && managedID != bookingID {
		// A manage token only opens the booking it was minted for.
		actor.Email = nil
	}

	view, err := h.bookingQueries.GetByID(c.Request.Context(), actor, bookingID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary List my bookings
// @Description List the authenticated tourist's bookings
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.BookingListResponse
// @Failure 401 {object} map[string]string
// @Router /bookings [get]
func (h *BookingHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	limit, offset := pagination(c)
	items, err := h.bookingQueries.ListByTourist(c.Request.Context(), middleware.CurrentActor(c), userID, limit, offset)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingListItems(items))
}

// @Summary Update booking
// @Description Rename the contact or change the spot count on a booking.
// @Description Spot changes re-run admission with the booking's own spots excluded.
// @Tags bookings
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param manage_token query string false "Magic-link manage token"
// @Param request body reqdto.UpdateBookingRequest true "Fields to change"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]any
// @Router /bookings/{id} [patch]
func (h *BookingHandler) Update(c *gin.Context) {
	bookingID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req reqdto.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	actor := middleware.CurrentActor(c)
	if managedID, managed := middleware.ManagedBookingID(c); managed && managedID != bookingID {
		actor.Email = nil
	}

	view, err := h.bookingCommands.UpdateBooking(c.Request.Context(), actor, bookingID, req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary Cancel booking
// @Description Cancel a booking; cancelling twice reports the repeat
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Param manage_token query string false "Magic-link manage token"
// @Success 200 {object} resdto.BookingResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	bookingID, ok := pathID(c, "id")
	if !ok {
		return
	}

	actor := middleware.CurrentActor(c)
	if managedID, managed := middleware.ManagedBookingID(c); managed && managedID != bookingID {
		actor.Email = nil
	}

	view, err := h.bookingCommands.CancelBooking(c.Request.Context(), actor, bookingID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

func (h *BookingHandler) renderError(c *gin.Context, err error) {
	var validation *commands.ValidationFailedError

	switch {
	case errors.Is(err, authz.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Permission denied",
		})
	case errors.Is(err, commands.ErrTourNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Tour not found",
		})
	case errors.Is(err, commands.ErrBookingNotFound), errors.Is(err, queries.ErrBookingNotFound), isNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Booking not found",
		})
	case errors.As(err, &validation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":      "Booking validation failed",
			"violations": validation.Violations,
		})
	case errors.Is(err, commands.ErrAlreadyCancelled):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Booking is already cancelled",
		})
	case errors.Is(err, commands.ErrConcurrencyConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Booking conflicted with a concurrent request, please retry",
		})
	case errors.Is(err, commands.ErrDomainValidation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request data",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
