package booking

import (
	"net/http"
	"strconv"

	"trainerbook/internal/api"
	"trainerbook/internal/apperr"
	"trainerbook/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// BookSlot godoc
// @Summary      Book a slot
// @Description  Reserves an open slot for the authenticated client, debiting one lesson credit. All-or-nothing: on any failure neither the slot nor the package changes.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        slotID   path      string           true  "Slot ID"
// @Param        request  body      BookSlotRequest  true  "Booking details"
// @Success      201      {object}  BookSlotResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      401      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /slots/{slotID}/book [post]
func (h *Handler) BookSlot(c *gin.Context) {
	clientID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	slotID := c.Param("slotID")

	var req BookSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	booking, err := h.service.BookSlot(c.Request.Context(), clientID, req.TrainerID, slotID, req.PackageID)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), api.ErrorResponse{Error: apperr.Message(err)})
		return
	}

	c.JSON(http.StatusCreated, BookSlotResponse{
		Message:   "Slot booked successfully",
		BookingID: booking.ID,
		Booking:   booking,
	})
}

// CancelBooking godoc
// @Summary      Cancel booking
// @Description  Cancels a booking, reopens its slot and refunds the lesson credit.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path      int  true  "Booking ID"
// @Success      200        {object}  api.MessageResponse
// @Failure      400        {object}  api.ErrorResponse
// @Failure      404        {object}  api.ErrorResponse
// @Failure      409        {object}  api.ErrorResponse
// @Router       /bookings/{bookingID}/cancel [post]
func (h *Handler) CancelBooking(c *gin.Context) {
	clientID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid booking ID"})
		return
	}

	role, _ := auth.GetUserRole(c)
	if err := h.service.CancelBooking(c.Request.Context(), clientID, bookingID, role == auth.RoleAdmin); err != nil {
		c.JSON(apperr.HTTPStatus(err), api.ErrorResponse{Error: apperr.Message(err)})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Booking cancelled successfully"})
}

// ListMyBookings godoc
// @Summary      List my bookings
// @Description  Returns bookings of the authenticated client, newest first.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   BookingWithDetails
// @Failure      500  {object}  api.ErrorResponse
// @Router       /bookings [get]
func (h *Handler) ListMyBookings(c *gin.Context) {
	clientID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	bookings, err := h.service.ListByClient(c.Request.Context(), clientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// ListBookingsByTrainer godoc
// @Summary      List bookings by trainer
// @Description  Returns all bookings for a trainer. Admin only.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        trainerID  path      int  true  "Trainer ID"
// @Success      200        {array}   BookingWithDetails
// @Failure      400        {object}  api.ErrorResponse
// @Failure      500        {object}  api.ErrorResponse
// @Router       /admin/trainers/{trainerID}/bookings [get]
func (h *Handler) ListBookingsByTrainer(c *gin.Context) {
	trainerID, err := strconv.Atoi(c.Param("trainerID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid trainer ID"})
		return
	}

	bookings, err := h.service.ListByTrainer(c.Request.Context(), trainerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}
