package http

import (
	"net/http"

	"loyalty-hub/pkg/logger"
	"loyalty-hub/services/api/internal/entity"
	"loyalty-hub/services/api/internal/usecase"

	"github.com/gin-gonic/gin"
)

type TierHandler struct {
	tierUseCase     usecase.TierUseCase
	customerUseCase usecase.CustomerUseCase
	logger          *logger.Logger
}

func NewTierHandler(tierUseCase usecase.TierUseCase, customerUseCase usecase.CustomerUseCase, logger *logger.Logger) *TierHandler {
	return &TierHandler{
		tierUseCase:     tierUseCase,
		customerUseCase: customerUseCase,
		logger:          logger,
	}
}

type UpgradeTierRequest struct {
	CustomerID string `json:"customer_id" binding:"required"`
	NewTier    string `json:"new_tier" binding:"required,oneof=bronze silver gold platinum"`
	Reason     string `json:"reason" binding:"max=255"`
}

// ListTiers godoc
// @Summary      Tier ladder
// @Tags         tiers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   entity.TierInfo
// @Router       /tiers [get]
func (h *TierHandler) ListTiers(c *gin.Context) {
	c.JSON(http.StatusOK, h.tierUseCase.ListTiers(c.Request.Context()))
}

// ListBenefits godoc
// @Summary      Active tier benefits
// @Tags         tiers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   entity.TierBenefit
// @Router       /tiers/benefits [get]
func (h *TierHandler) ListBenefits(c *gin.Context) {
	benefits, err := h.tierUseCase.ListBenefits(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "list tier benefits", err)
		return
	}

	c.JSON(http.StatusOK, benefits)
}

// CustomerTier godoc
// @Summary      Customer tier progress
// @Tags         tiers
// @Produce      json
// @Security     BearerAuth
// @Param        customer_id  path  string  true  "Customer ID"
// @Success      200  {object}  entity.TierProgress
// @Failure      404  {object}  map[string]string
// @Router       /tiers/customer/{customer_id} [get]
func (h *TierHandler) CustomerTier(c *gin.Context) {
	customerID := c.Param("customer_id")
	if !authorizeCustomer(c, h.customerUseCase, h.logger, customerID) {
		return
	}

	progress, err := h.tierUseCase.CustomerTier(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, h.logger, "get customer tier", err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// Upgrade godoc
// @Summary      Manually change a customer's tier
// @Tags         tiers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  UpgradeTierRequest  true  "Target tier"
// @Success      200  {object}  entity.TierHistory
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /tiers/upgrade [post]
func (h *TierHandler) Upgrade(c *gin.Context) {
	var req UpgradeTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	history, err := h.tierUseCase.ManualUpgrade(c.Request.Context(), req.CustomerID, entity.Tier(req.NewTier), req.Reason, currentUserID(c))
	if err != nil {
		respondError(c, h.logger, "upgrade tier", err)
		return
	}

	c.JSON(http.StatusOK, history)
}
