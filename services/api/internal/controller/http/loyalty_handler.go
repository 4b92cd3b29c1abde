package http

import (
	"net/http"
	"time"

	"loyalty-hub/pkg/logger"
	"loyalty-hub/services/api/internal/entity"
	"loyalty-hub/services/api/internal/usecase"

	"github.com/gin-gonic/gin"
)

type LoyaltyHandler struct {
	loyaltyUseCase  usecase.LoyaltyUseCase
	customerUseCase usecase.CustomerUseCase
	logger          *logger.Logger
}

func NewLoyaltyHandler(loyaltyUseCase usecase.LoyaltyUseCase, customerUseCase usecase.CustomerUseCase, logger *logger.Logger) *LoyaltyHandler {
	return &LoyaltyHandler{
		loyaltyUseCase:  loyaltyUseCase,
		customerUseCase: customerUseCase,
		logger:          logger,
	}
}

type AwardPointsRequest struct {
	CustomerID  string                     `json:"customer_id" binding:"required"`
	Points      int                        `json:"points" binding:"required,gt=0"`
	Source      string                     `json:"source"`
	Description string                     `json:"description" binding:"max=500"`
	ReferenceID string                     `json:"reference_id" binding:"max=100"`
	ExpiresAt   *time.Time                 `json:"expires_at"`
	Metadata    entity.TransactionMetadata `json:"metadata"`
}

type DeductPointsRequest struct {
	CustomerID  string                     `json:"customer_id" binding:"required"`
	Points      int                        `json:"points" binding:"required,gt=0"`
	Source      string                     `json:"source"`
	Description string                     `json:"description" binding:"max=500"`
	ReferenceID string                     `json:"reference_id" binding:"max=100"`
	Metadata    entity.TransactionMetadata `json:"metadata"`
}

type AdjustPointsRequest struct {
	CustomerID  string `json:"customer_id" binding:"required"`
	Points      int    `json:"points" binding:"required,ne=0"`
	Description string `json:"description" binding:"required,max=500"`
}

type TransferPointsRequest struct {
	FromCustomerID string `json:"from_customer_id" binding:"required"`
	ToCustomerID   string `json:"to_customer_id" binding:"required"`
	Points         int    `json:"points" binding:"required,gt=0"`
	Description    string `json:"description" binding:"max=500"`
}

// GetPoints godoc
// @Summary      Points summary
// @Description  Balance, lifetime points, tier progress, totals and points expiring soon
// @Tags         loyalty
// @Produce      json
// @Security     BearerAuth
// @Param        customer_id  path      string  true  "Customer ID"
// @Success      200  {object}  entity.PointsSummary
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /loyalty/points/{customer_id} [get]
func (h *LoyaltyHandler) GetPoints(c *gin.Context) {
	customerID := c.Param("customer_id")
	if !authorizeCustomer(c, h.customerUseCase, h.logger, customerID) {
		return
	}

	summary, err := h.loyaltyUseCase.GetSummary(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, h.logger, "get points summary", err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// AwardPoints godoc
// @Summary      Award points
// @Tags         loyalty
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  AwardPointsRequest  true  "Award"
// @Success      201  {object}  entity.PointsResult
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /loyalty/points/award [post]
func (h *LoyaltyHandler) AwardPoints(c *gin.Context) {
	var req AwardPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	metadata := req.Metadata
	metadata.ActorID = currentUserID(c)

	result, err := h.loyaltyUseCase.AwardPoints(c.Request.Context(), entity.PointsAward{
		CustomerID:  req.CustomerID,
		Points:      req.Points,
		Source:      entity.TransactionSource(req.Source),
		Description: req.Description,
		ReferenceID: req.ReferenceID,
		ExpiresAt:   req.ExpiresAt,
		Metadata:    metadata,
	})
	if err != nil {
		respondError(c, h.logger, "award points", err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// DeductPoints godoc
// @Summary      Deduct points
// @Tags         loyalty
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  DeductPointsRequest  true  "Deduction"
// @Success      201  {object}  entity.PointsResult
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /loyalty/points/deduct [post]
func (h *LoyaltyHandler) DeductPoints(c *gin.Context) {
	var req DeductPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	metadata := req.Metadata
	metadata.ActorID = currentUserID(c)

	result, err := h.loyaltyUseCase.DeductPoints(c.Request.Context(), entity.PointsDeduction{
		CustomerID:  req.CustomerID,
		Points:      req.Points,
		Source:      entity.TransactionSource(req.Source),
		Description: req.Description,
		ReferenceID: req.ReferenceID,
		Metadata:    metadata,
	})
	if err != nil {
		respondError(c, h.logger, "deduct points", err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// AdjustPoints godoc
// @Summary      Manually adjust points
// @Description  Positive or negative adjustment. The balance never drops below zero.
// @Tags         loyalty
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  AdjustPointsRequest  true  "Adjustment"
// @Success      201  {object}  entity.PointsResult
// @Failure      400  {object}  map[string]string
// @Router       /loyalty/points/adjust [post]
func (h *LoyaltyHandler) AdjustPoints(c *gin.Context) {
	var req AdjustPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	result, err := h.loyaltyUseCase.AdjustPoints(c.Request.Context(), req.CustomerID, req.Points, req.Description, currentUserID(c))
	if err != nil {
		respondError(c, h.logger, "adjust points", err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// TransferPoints godoc
// @Summary      Transfer points between customers
// @Tags         loyalty
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  TransferPointsRequest  true  "Transfer"
// @Success      201  {object}  entity.TransferResult
// @Failure      400  {object}  map[string]string
// @Router       /loyalty/points/transfer [post]
func (h *LoyaltyHandler) TransferPoints(c *gin.Context) {
	var req TransferPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	result, err := h.loyaltyUseCase.TransferPoints(c.Request.Context(), req.FromCustomerID, req.ToCustomerID, req.Points, req.Description)
	if err != nil {
		respondError(c, h.logger, "transfer points", err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// ListTransactions godoc
// @Summary      Points history
// @Tags         loyalty
// @Produce      json
// @Security     BearerAuth
// @Param        customer_id       path   string  true   "Customer ID"
// @Param        transaction_type  query  string  false  "Type" Enums(earned, redeemed, expired, adjustment, transfer)
// @Param        source            query  string  false  "Source"
// @Param        date_from         query  string  false  "From (YYYY-MM-DD or RFC 3339)"
// @Param        date_to           query  string  false  "To (YYYY-MM-DD or RFC 3339)"
// @Param        limit             query  int     false  "Page size (max 100)" default(50)
// @Param        offset            query  int     false  "Offset" default(0)
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /loyalty/transactions/{customer_id} [get]
func (h *LoyaltyHandler) ListTransactions(c *gin.Context) {
	customerID := c.Param("customer_id")
	if !authorizeCustomer(c, h.customerUseCase, h.logger, customerID) {
		return
	}

	from, to, err := queryPeriod(c)
	if err != nil {
		respondError(c, h.logger, "list transactions", err)
		return
	}

	filter := entity.TransactionFilter{
		Type:   entity.TransactionType(c.Query("transaction_type")),
		Source: entity.TransactionSource(c.Query("source")),
		From:   from,
		To:     to,
	}

	result, err := h.loyaltyUseCase.History(c.Request.Context(), customerID, filter, parsePage(c))
	if err != nil {
		respondError(c, h.logger, "list transactions", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ExpirePoints godoc
// @Summary      Run points expiry now
// @Tags         loyalty
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.ExpiryResult
// @Router       /loyalty/expire [post]
func (h *LoyaltyHandler) ExpirePoints(c *gin.Context) {
	result, err := h.loyaltyUseCase.ExpirePoints(c.Request.Context(), time.Now().UTC())
	if err != nil {
		respondError(c, h.logger, "expire points", err)
		return
	}

	c.JSON(http.StatusOK, result)
}
