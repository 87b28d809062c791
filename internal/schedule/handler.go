package schedule

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"trainerbook/internal/api"
	"trainerbook/internal/apperr"
	"trainerbook/internal/auth"
	"trainerbook/internal/trainer"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service     Service
	trainerRepo trainer.Repository
}

func NewHandler(service Service, trainerRepo trainer.Repository) *Handler {
	return &Handler{
		service:     service,
		trainerRepo: trainerRepo,
	}
}

type GenerateAvailabilityRequest struct {
	StartDate           string `json:"start_date" example:"2025-01-06"`
	EndDate             string `json:"end_date" example:"2025-01-12"`
	DailyStartHour      int    `json:"daily_start_hour" binding:"gte=0,lte=23" example:"9"`
	DailyEndHour        int    `json:"daily_end_hour" binding:"gte=0,lte=24" example:"17"`
	SlotDurationMinutes int    `json:"slot_duration_minutes" binding:"gte=0" example:"60"`
	Weekdays            []int  `json:"weekdays" example:"1,3,5"`
}

type GenerateAvailabilityResponse struct {
	Message    string `json:"message"`
	SlotsAdded int    `json:"slots_added"`
}

type SetSlotStatusRequest struct {
	StartTime string `json:"start_time" binding:"required" example:"2025-01-06T09:00:00Z"`
	Status    string `json:"status" binding:"required,oneof=open unavailable"`
}

// GenerateAvailability godoc
// @Summary      Generate availability slots
// @Description  Expands a recurring availability rule into open slots over a date range. Existing slots are never overwritten.
// @Tags         schedule
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        trainerID  path      int                          true  "Trainer ID"
// @Param        request    body      GenerateAvailabilityRequest  true  "Availability rule"
// @Success      200        {object}  GenerateAvailabilityResponse
// @Failure      400        {object}  api.ErrorResponse
// @Failure      403        {object}  api.ErrorResponse
// @Failure      404        {object}  api.ErrorResponse
// @Router       /trainers/{trainerID}/availability [post]
func (h *Handler) GenerateAvailability(c *gin.Context) {
	trainerID, ok := h.authorizeTrainer(c)
	if !ok {
		return
	}

	var req GenerateAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	rule := Rule{
		TrainerID:           trainerID,
		DailyStartHour:      req.DailyStartHour,
		DailyEndHour:        req.DailyEndHour,
		SlotDurationMinutes: req.SlotDurationMinutes,
	}

	if req.StartDate != "" {
		startDate, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid start_date, use YYYY-MM-DD"})
			return
		}
		rule.StartDate = startDate
	}
	if req.EndDate != "" {
		endDate, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid end_date, use YYYY-MM-DD"})
			return
		}
		rule.EndDate = endDate
	}
	for _, wd := range req.Weekdays {
		if wd < 0 || wd > 6 {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "weekdays must be 0 (Sunday) through 6 (Saturday)"})
			return
		}
		rule.Weekdays = append(rule.Weekdays, time.Weekday(wd))
	}

	created, err := h.service.GenerateAvailability(c.Request.Context(), rule)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), api.ErrorResponse{Error: apperr.Message(err)})
		return
	}

	c.JSON(http.StatusOK, GenerateAvailabilityResponse{
		Message:    fmt.Sprintf("Added %d availability slots", created),
		SlotsAdded: created,
	})
}

// SetSlotStatus godoc
// @Summary      Set slot status
// @Description  Creates a slot or flips it between open and unavailable. Booked slots cannot be edited.
// @Tags         schedule
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        trainerID  path      int                   true  "Trainer ID"
// @Param        request    body      SetSlotStatusRequest  true  "Slot status"
// @Success      200        {object}  Slot
// @Failure      400        {object}  api.ErrorResponse
// @Failure      403        {object}  api.ErrorResponse
// @Failure      409        {object}  api.ErrorResponse
// @Router       /trainers/{trainerID}/slots [put]
func (h *Handler) SetSlotStatus(c *gin.Context) {
	trainerID, ok := h.authorizeTrainer(c)
	if !ok {
		return
	}

	var req SetSlotStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid start_time, use RFC3339"})
		return
	}

	slot, err := h.service.SetSlotStatus(c.Request.Context(), trainerID, start, Status(req.Status))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), api.ErrorResponse{Error: apperr.Message(err)})
		return
	}

	c.JSON(http.StatusOK, slot)
}

// DeleteSlot godoc
// @Summary      Delete slot
// @Description  Removes an open or unavailable slot. Booked slots must be cancelled instead.
// @Tags         schedule
// @Security     BearerAuth
// @Produce      json
// @Param        trainerID   path      int     true  "Trainer ID"
// @Param        start_time  query     string  true  "Slot start time (RFC3339)"
// @Success      200         {object}  api.MessageResponse
// @Failure      400         {object}  api.ErrorResponse
// @Failure      404         {object}  api.ErrorResponse
// @Failure      409         {object}  api.ErrorResponse
// @Router       /trainers/{trainerID}/slots [delete]
func (h *Handler) DeleteSlot(c *gin.Context) {
	trainerID, ok := h.authorizeTrainer(c)
	if !ok {
		return
	}

	start, err := time.Parse(time.RFC3339, c.Query("start_time"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid start_time, use RFC3339"})
		return
	}

	if err := h.service.DeleteSlot(c.Request.Context(), trainerID, start); err != nil {
		c.JSON(apperr.HTTPStatus(err), api.ErrorResponse{Error: apperr.Message(err)})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Slot deleted"})
}

// ListSlots godoc
// @Summary      List trainer slots
// @Description  Returns all slots for a trainer within a time range. Defaults to the coming week.
// @Tags         schedule
// @Security     BearerAuth
// @Produce      json
// @Param        trainerID  path      int     true   "Trainer ID"
// @Param        from       query     string  false  "Range start (RFC3339)"
// @Param        to         query     string  false  "Range end (RFC3339)"
// @Success      200        {array}   Slot
// @Failure      400        {object}  api.ErrorResponse
// @Failure      500        {object}  api.ErrorResponse
// @Router       /trainers/{trainerID}/slots [get]
func (h *Handler) ListSlots(c *gin.Context) {
	trainerID, err := strconv.Atoi(c.Param("trainerID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid trainer ID"})
		return
	}

	from := time.Now()
	to := from.AddDate(0, 0, DefaultRangeDays)

	if fromStr := c.Query("from"); fromStr != "" {
		from, err = time.Parse(time.RFC3339, fromStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid from, use RFC3339"})
			return
		}
	}
	if toStr := c.Query("to"); toStr != "" {
		to, err = time.Parse(time.RFC3339, toStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid to, use RFC3339"})
			return
		}
	}

	slots, err := h.service.ListSlots(c.Request.Context(), trainerID, from, to)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), api.ErrorResponse{Error: apperr.Message(err)})
		return
	}

	c.JSON(http.StatusOK, slots)
}

// authorizeTrainer resolves the trainerID path param and verifies the
// caller owns that trainer profile. Admins may act on any trainer.
func (h *Handler) authorizeTrainer(c *gin.Context) (int, bool) {
	trainerID, err := strconv.Atoi(c.Param("trainerID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid trainer ID"})
		return 0, false
	}

	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return 0, false
	}

	if role, _ := auth.GetUserRole(c); role == auth.RoleAdmin {
		return trainerID, true
	}

	t, err := h.trainerRepo.GetByID(c.Request.Context(), trainerID)
	if err != nil {
		if errors.Is(err, trainer.ErrTrainerNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Trainer not found"})
			return 0, false
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch trainer"})
		return 0, false
	}

	if t.UserID != userID {
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "You can only manage your own schedule"})
		return 0, false
	}

	return trainerID, true
}
