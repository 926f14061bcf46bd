package api

import (
	"errors"
	"net/http"
	"strconv"

	"tourbook/internal/domain/authz"
	reqdto "tourbook/internal/handler/dto/request"
	resdto "tourbook/internal/handler/dto/response"
	"tourbook/internal/handler/middleware"
	"tourbook/internal/infra"
	"tourbook/internal/usecase/commands"
	"tourbook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TourHandler struct {
	tourCommands   commands.TourCommands
	tourQueries    queries.TourQueries
	bookingQueries queries.BookingQueries
}

func NewTourHandler(
	tourCommands commands.TourCommands,
	tourQueries queries.TourQueries,
	bookingQueries queries.BookingQueries,
) *TourHandler {
	return &TourHandler{
		tourCommands:   tourCommands,
		tourQueries:    tourQueries,
		bookingQueries: bookingQueries,
	}
}

func isNotFound(err error) bool {
	return infra.IsKind(err, infra.KindNotFound)
}

func pagination(c *gin.Context) (int32, int32) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "0"), 10, 32)
	offset, _ := strconv.ParseInt(c.DefaultQuery("offset", "0"), 10, 32)
	return int32(limit), int32(offset)
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + name,
		})
		return uuid.Nil, false
	}
	return id, true
}

// @Summary List tours
// @Description List bookable tours with availability
// @Tags tours
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} resdto.TourListResponse
// @Router /tours [get]
func (h *TourHandler) List(c *gin.Context) {
	limit, offset := pagination(c)

	items, err := h.tourQueries.List(c.Request.Context(), middleware.CurrentActor(c), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, resdto.FromTourListItems(items))
}

// @Summary Get tour
// @Description Get one tour with live availability
// @Tags tours
// @Produce json
// @Param id path string true "Tour ID"
// @Success 200 {object} resdto.TourResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tours/{id} [get]
func (h *TourHandler) GetByID(c *gin.Context) {
	tourID, ok := pathID(c, "id")
	if !ok {
		return
	}

	view, err := h.tourQueries.GetByID(c.Request.Context(), middleware.CurrentActor(c), tourID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromTourView(view))
}

// @Summary List tour add-ons
// @Description List the add-on catalog for a tour
// @Tags tours
// @Produce json
// @Param id path string true "Tour ID"
// @Success 200 {array} resdto.AddOnResponse
// @Failure 404 {object} map[string]string
// @Router /tours/{id}/add-ons [get]
func (h *TourHandler) ListAddOns(c *gin.Context) {
	tourID, ok := pathID(c, "id")
	if !ok {
		return
	}

	views, err := h.tourQueries.AddOns(c.Request.Context(), middleware.CurrentActor(c), tourID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromAddOnViews(views))
}

// @Summary Create tour
// @Description Create a tour owned by the authenticated guide
// @Tags tours
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateTourRequest true "Tour request"
// @Success 201 {object} resdto.TourResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /tours [post]
func (h *TourHandler) Create(c *gin.Context) {
	var req reqdto.CreateTourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.tourCommands.CreateTour(c.Request.Context(), middleware.CurrentActor(c), req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromTourView(view))
}

// @Summary Cancel tour
// @Description Cancel a scheduled or ongoing tour
// @Tags tours
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tour ID"
// @Success 200 {object} resdto.TourResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /tours/{id}/cancel [post]
func (h *TourHandler) Cancel(c *gin.Context) {
	tourID, ok := pathID(c, "id")
	if !ok {
		return
	}

	view, err := h.tourCommands.CancelTour(c.Request.Context(), middleware.CurrentActor(c), tourID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromTourView(view))
}

// @Summary Create add-on
// @Description Add an extra to a tour's catalog
// @Tags tours
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tour ID"
// @Param request body reqdto.CreateAddOnRequest true "Add-on request"
// @Success 201 {object} resdto.AddOnResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /tours/{id}/add-ons [post]
func (h *TourHandler) CreateAddOn(c *gin.Context) {
	tourID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req reqdto.CreateAddOnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.tourCommands.CreateAddOn(c.Request.Context(), middleware.CurrentActor(c), tourID, req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromAddOnView(view))
}

// @Summary Update add-on
// @Description Change an add-on's price or availability
// @Tags tours
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tour ID"
// @Param addOnId path string true "Add-on ID"
// @Param request body reqdto.UpdateAddOnRequest true "Add-on update"
// @Success 200 {object} resdto.AddOnResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tours/{id}/add-ons/{addOnId} [patch]
func (h *TourHandler) UpdateAddOn(c *gin.Context) {
	tourID, ok := pathID(c, "id")
	if !ok {
		return
	}
	addOnID, ok := pathID(c, "addOnId")
	if !ok {
		return
	}

	var req reqdto.UpdateAddOnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.tourCommands.UpdateAddOn(c.Request.Context(), middleware.CurrentActor(c), tourID, addOnID, req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromAddOnView(view))
}

// @Summary List tour bookings
// @Description List bookings for a tour the caller may oversee
// @Tags tours
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tour ID"
// @Success 200 {array} resdto.BookingListResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tours/{id}/bookings [get]
func (h *TourHandler) ListBookings(c *gin.Context) {
	tourID, ok := pathID(c, "id")
	if !ok {
		return
	}

	tourView, err := h.tourQueries.GetByID(c.Request.Context(), middleware.CurrentActor(c), tourID)
	if err != nil {
		h.renderError(c, err)
		return
	}

	limit, offset := pagination(c)
	items, err := h.bookingQueries.ListByTour(c.Request.Context(), middleware.CurrentActor(c), tourID, tourView.GuideID, limit, offset)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingListItems(items))
}

func (h *TourHandler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, authz.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Permission denied",
		})
	case errors.Is(err, commands.ErrTourNotFound), errors.Is(err, queries.ErrTourNotFound), isNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Tour not found",
		})
	case errors.Is(err, commands.ErrAddOnNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Add-on not found",
		})
	case errors.Is(err, commands.ErrAddOnLimitReached):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Add-on limit reached for tour",
		})
	case errors.Is(err, commands.ErrTourNotCancellable):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Tour can no longer be cancelled",
		})
	case errors.Is(err, commands.ErrDomainValidation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request data",
		})
	case errors.Is(err, commands.ErrConcurrencyConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Conflicting update, please retry",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
