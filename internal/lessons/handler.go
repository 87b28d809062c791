package lessons

import (
	"net/http"
	"time"

	"trainerbook/internal/api"
	"trainerbook/internal/auth"
	"trainerbook/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Monthly packages expire; the other types keep their credits until
// they are spent.
const monthlyValidity = 30 * 24 * time.Hour

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// ConfirmPayment godoc
// @Summary      Confirm a package payment
// @Description  Creates a lesson package after the payment provider confirms a purchase. Repeated confirmations for the same payment_ref return the existing package. Admin only.
// @Tags         packages
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      ConfirmPaymentRequest  true  "Payment confirmation"
// @Success      201      {object}  Package
// @Failure      400      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /admin/payments/confirm [post]
func (h *Handler) ConfirmPayment(c *gin.Context) {
	var req ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	packageType := PackageType(req.Type)
	totalLessons := LessonsFor(packageType)
	if totalLessons == 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "unknown package type"})
		return
	}

	paymentRef := req.PaymentRef
	if paymentRef == "" {
		paymentRef = uuid.NewString()
	}

	var expiration *time.Time
	if packageType == TypeMonthly {
		exp := time.Now().Add(monthlyValidity)
		expiration = &exp
	}

	pkg, err := h.repo.CreatePackage(c.Request.Context(), req.ClientID, packageType, totalLessons, paymentRef, expiration)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create lesson package"})
		return
	}

	metrics.RecordLessonPackage(string(packageType))

	c.JSON(http.StatusCreated, pkg)
}

// ListMyPackages godoc
// @Summary      List my lesson packages
// @Description  Returns the authenticated client's lesson packages, newest first.
// @Tags         packages
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Package
// @Failure      500  {object}  api.ErrorResponse
// @Router       /packages [get]
func (h *Handler) ListMyPackages(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	pkgs, err := h.repo.ListByClient(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch packages"})
		return
	}

	c.JSON(http.StatusOK, pkgs)
}
