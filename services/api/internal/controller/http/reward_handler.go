package http

import (
	"net/http"
	"strconv"
	"time"

	"loyalty-hub/pkg/logger"
	"loyalty-hub/services/api/internal/entity"
	"loyalty-hub/services/api/internal/usecase"

	"github.com/gin-gonic/gin"
)

type RewardHandler struct {
	rewardUseCase   usecase.RewardUseCase
	customerUseCase usecase.CustomerUseCase
	logger          *logger.Logger
}

func NewRewardHandler(rewardUseCase usecase.RewardUseCase, customerUseCase usecase.CustomerUseCase, logger *logger.Logger) *RewardHandler {
	return &RewardHandler{
		rewardUseCase:   rewardUseCase,
		customerUseCase: customerUseCase,
		logger:          logger,
	}
}

type CreateRewardRequest struct {
	Name            string     `json:"name" binding:"required,max=200"`
	Description     string     `json:"description"`
	PointsRequired  int        `json:"points_required" binding:"required,gt=0"`
	Category        string     `json:"category" binding:"max=50"`
	StockQuantity   *int       `json:"stock_quantity" binding:"omitempty,min=-1"`
	MaxPerCustomer  int        `json:"max_per_customer" binding:"omitempty,min=1"`
	ValidFrom       *time.Time `json:"valid_from"`
	ValidUntil      *time.Time `json:"valid_until"`
	TermsConditions string     `json:"terms_conditions"`
	IsFeatured      bool       `json:"is_featured"`
}

type UpdateStockRequest struct {
	StockQuantity *int `json:"stock_quantity" binding:"required,min=-1"`
}

type RedeemRequest struct {
	CustomerID string `json:"customer_id" binding:"required"`
	RewardID   string `json:"reward_id" binding:"required"`
	Quantity   int    `json:"quantity" binding:"omitempty,min=1"`
}

type FulfillRequest struct {
	Notes string `json:"notes"`
}

type CancelRedemptionRequest struct {
	Reason string `json:"reason"`
}

// ListRewards godoc
// @Summary      List rewards
// @Tags         rewards
// @Produce      json
// @Security     BearerAuth
// @Param        category  query  string  false  "Category"
// @Param        status    query  string  false  "Status" Enums(active, inactive, out_of_stock, discontinued)
// @Param        featured  query  bool    false  "Only featured"
// @Param        search    query  string  false  "Name search"
// @Param        limit     query  int     false  "Page size (max 100)" default(50)
// @Param        offset    query  int     false  "Offset" default(0)
// @Success      200  {object}  map[string]interface{}
// @Router       /rewards [get]
func (h *RewardHandler) ListRewards(c *gin.Context) {
	filter := entity.RewardFilter{
		Category: c.Query("category"),
		Status:   entity.RewardStatus(c.Query("status")),
		Search:   c.Query("search"),
	}
	if featured := c.Query("featured"); featured != "" {
		value, err := strconv.ParseBool(featured)
		if err != nil {
			badRequest(c, "featured must be true or false")
			return
		}
		filter.Featured = &value
	}

	result, err := h.rewardUseCase.List(c.Request.Context(), filter, parsePage(c))
	if err != nil {
		respondError(c, h.logger, "list rewards", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetReward godoc
// @Summary      Get reward
// @Tags         rewards
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Reward ID"
// @Success      200  {object}  entity.Reward
// @Failure      404  {object}  map[string]string
// @Router       /rewards/{id} [get]
func (h *RewardHandler) GetReward(c *gin.Context) {
	reward, err := h.rewardUseCase.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "get reward", err)
		return
	}

	c.JSON(http.StatusOK, reward)
}

// CreateReward godoc
// @Summary      Create reward
// @Description  stock_quantity -1 means unlimited
// @Tags         rewards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  CreateRewardRequest  true  "Reward"
// @Success      201  {object}  entity.Reward
// @Failure      400  {object}  map[string]string
// @Router       /rewards [post]
func (h *RewardHandler) CreateReward(c *gin.Context) {
	var req CreateRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	reward := entity.Reward{
		Name:            req.Name,
		Description:     req.Description,
		PointsRequired:  req.PointsRequired,
		Category:        req.Category,
		StockQuantity:   entity.UnlimitedStock,
		MaxPerCustomer:  req.MaxPerCustomer,
		ValidUntil:      req.ValidUntil,
		TermsConditions: req.TermsConditions,
		IsFeatured:      req.IsFeatured,
	}
	if req.StockQuantity != nil {
		reward.StockQuantity = *req.StockQuantity
	}
	if req.ValidFrom != nil {
		reward.ValidFrom = *req.ValidFrom
	}

	created, err := h.rewardUseCase.Create(c.Request.Context(), reward)
	if err != nil {
		respondError(c, h.logger, "create reward", err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// UpdateReward godoc
// @Summary      Update reward
// @Tags         rewards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string               true  "Reward ID"
// @Param        request  body  entity.RewardUpdate  true  "Fields to change"
// @Success      200  {object}  entity.Reward
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /rewards/{id} [put]
func (h *RewardHandler) UpdateReward(c *gin.Context) {
	var req entity.RewardUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	reward, err := h.rewardUseCase.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, "update reward", err)
		return
	}

	c.JSON(http.StatusOK, reward)
}

// UpdateStock godoc
// @Summary      Set reward stock
// @Tags         rewards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string              true  "Reward ID"
// @Param        request  body  UpdateStockRequest  true  "Stock"
// @Success      200  {object}  entity.Reward
// @Failure      400  {object}  map[string]string
// @Router       /rewards/{id}/stock [put]
func (h *RewardHandler) UpdateStock(c *gin.Context) {
	var req UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	reward, err := h.rewardUseCase.UpdateStock(c.Request.Context(), c.Param("id"), *req.StockQuantity)
	if err != nil {
		respondError(c, h.logger, "update stock", err)
		return
	}

	c.JSON(http.StatusOK, reward)
}

// UploadImage godoc
// @Summary      Upload reward image
// @Tags         rewards
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true  "Reward ID"
// @Param        image  formData  file    true  "Image (jpg/png/webp)"
// @Success      200  {object}  entity.Reward
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /rewards/{id}/image [post]
func (h *RewardHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		badRequest(c, "Image file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		badRequest(c, "Failed to read image")
		return
	}
	defer file.Close()

	reward, err := h.rewardUseCase.UploadImage(c.Request.Context(), c.Param("id"), file, fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		respondError(c, h.logger, "upload reward image", err)
		return
	}

	c.JSON(http.StatusOK, reward)
}

// Categories godoc
// @Summary      Reward categories
// @Tags         rewards
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string][]string
// @Router       /rewards/categories [get]
func (h *RewardHandler) Categories(c *gin.Context) {
	categories, err := h.rewardUseCase.Categories(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "list categories", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// Featured godoc
// @Summary      Featured rewards
// @Tags         rewards
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query  int  false  "Max items" default(10)
// @Success      200  {array}   entity.Reward
// @Router       /rewards/featured [get]
func (h *RewardHandler) Featured(c *gin.Context) {
	rewards, err := h.rewardUseCase.Featured(c.Request.Context(), queryInt(c, "limit", 0))
	if err != nil {
		respondError(c, h.logger, "list featured rewards", err)
		return
	}

	c.JSON(http.StatusOK, rewards)
}

// Available godoc
// @Summary      Rewards available to a customer
// @Description  Active, valid and in-stock rewards with can_redeem computed from balance and per-customer limits
// @Tags         rewards
// @Produce      json
// @Security     BearerAuth
// @Param        customer_id  path  string  true  "Customer ID"
// @Success      200  {array}   entity.AvailableReward
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /rewards/available/{customer_id} [get]
func (h *RewardHandler) Available(c *gin.Context) {
	customerID := c.Param("customer_id")
	if !authorizeCustomer(c, h.customerUseCase, h.logger, customerID) {
		return
	}

	rewards, err := h.rewardUseCase.Available(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, h.logger, "list available rewards", err)
		return
	}

	c.JSON(http.StatusOK, rewards)
}

// Redeem godoc
// @Summary      Redeem a reward
// @Tags         rewards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  RedeemRequest  true  "Redemption"
// @Success      201  {object}  entity.RedemptionResult
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /rewards/redeem [post]
func (h *RewardHandler) Redeem(c *gin.Context) {
	var req RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if !authorizeCustomer(c, h.customerUseCase, h.logger, req.CustomerID) {
		return
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	result, err := h.rewardUseCase.Redeem(c.Request.Context(), req.CustomerID, req.RewardID, quantity)
	if err != nil {
		respondError(c, h.logger, "redeem reward", err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Fulfill godoc
// @Summary      Fulfill a redemption
// @Tags         rewards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string          true   "Redemption ID"
// @Param        request  body  FulfillRequest  false  "Notes"
// @Success      200  {object}  entity.RewardRedemption
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /rewards/redeem/{id}/fulfill [post]
func (h *RewardHandler) Fulfill(c *gin.Context) {
	var req FulfillRequest
	_ = c.ShouldBindJSON(&req)

	redemption, err := h.rewardUseCase.Fulfill(c.Request.Context(), c.Param("id"), currentUserID(c), req.Notes)
	if err != nil {
		respondError(c, h.logger, "fulfill redemption", err)
		return
	}

	c.JSON(http.StatusOK, redemption)
}

// Cancel godoc
// @Summary      Cancel a redemption
// @Description  Refunds the points and restores stock
// @Tags         rewards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                   true   "Redemption ID"
// @Param        request  body  CancelRedemptionRequest  false  "Reason"
// @Success      200  {object}  entity.RedemptionResult
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /rewards/redeem/{id}/cancel [post]
func (h *RewardHandler) Cancel(c *gin.Context) {
	var req CancelRedemptionRequest
	_ = c.ShouldBindJSON(&req)

	result, err := h.rewardUseCase.Cancel(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		respondError(c, h.logger, "cancel redemption", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// History godoc
// @Summary      Redemption history
// @Tags         rewards
// @Produce      json
// @Security     BearerAuth
// @Param        customer_id  path   string  true   "Customer ID"
// @Param        limit        query  int     false  "Page size (max 100)" default(50)
// @Param        offset       query  int     false  "Offset" default(0)
// @Success      200  {object}  map[string]interface{}
// @Router       /rewards/history/{customer_id} [get]
func (h *RewardHandler) History(c *gin.Context) {
	customerID := c.Param("customer_id")
	if !authorizeCustomer(c, h.customerUseCase, h.logger, customerID) {
		return
	}

	result, err := h.rewardUseCase.History(c.Request.Context(), customerID, parsePage(c))
	if err != nil {
		respondError(c, h.logger, "list redemption history", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Statistics godoc
// @Summary      Reward statistics
// @Tags         rewards
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Reward ID"
// @Success      200  {object}  entity.RewardStatistics
// @Failure      404  {object}  map[string]string
// @Router       /rewards/{id}/statistics [get]
func (h *RewardHandler) Statistics(c *gin.Context) {
	stats, err := h.rewardUseCase.Statistics(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "get reward statistics", err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Analytics godoc
// @Summary      Reward analytics
// @Tags         rewards
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.RewardAnalytics
// @Router       /rewards/analytics [get]
func (h *RewardHandler) Analytics(c *gin.Context) {
	analytics, err := h.rewardUseCase.Analytics(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "get reward analytics", err)
		return
	}

	c.JSON(http.StatusOK, analytics)
}
