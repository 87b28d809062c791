package trainer

import (
	"errors"
	"net/http"
	"strconv"

	"trainerbook/internal/api"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// CreateTrainer godoc
// @Summary      Create trainer profile
// @Description  Creates a trainer profile for an existing user. Admin only.
// @Tags         trainers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateTrainerRequest  true  "Trainer data"
// @Success      201      {object}  Trainer
// @Failure      400      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /admin/trainers [post]
func (h *Handler) CreateTrainer(c *gin.Context) {
	var req CreateTrainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	trainer, err := h.repo.Create(c.Request.Context(), req.UserID, req.Name, req.Specialty)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create trainer"})
		return
	}

	c.JSON(http.StatusCreated, trainer)
}

// ListTrainers godoc
// @Summary      List active trainers
// @Description  Returns all trainers currently accepting bookings.
// @Tags         trainers
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Trainer
// @Failure      500  {object}  api.ErrorResponse
// @Router       /trainers [get]
func (h *Handler) ListTrainers(c *gin.Context) {
	trainers, err := h.repo.ListActive(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch trainers"})
		return
	}

	c.JSON(http.StatusOK, trainers)
}

// GetTrainer godoc
// @Summary      Get trainer by ID
// @Tags         trainers
// @Security     BearerAuth
// @Produce      json
// @Param        trainerID  path      int  true  "Trainer ID"
// @Success      200        {object}  Trainer
// @Failure      400        {object}  api.ErrorResponse
// @Failure      404        {object}  api.ErrorResponse
// @Router       /trainers/{trainerID} [get]
func (h *Handler) GetTrainer(c *gin.Context) {
	trainerID, err := strconv.Atoi(c.Param("trainerID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid trainer ID"})
		return
	}

	trainer, err := h.repo.GetByID(c.Request.Context(), trainerID)
	if err != nil {
		if errors.Is(err, ErrTrainerNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Trainer not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch trainer"})
		return
	}

	c.JSON(http.StatusOK, trainer)
}
