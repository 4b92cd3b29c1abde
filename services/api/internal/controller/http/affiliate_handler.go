package http

import (
	"net/http"

	"loyalty-hub/pkg/logger"
	"loyalty-hub/services/api/internal/entity"
	"loyalty-hub/services/api/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type AffiliateHandler struct {
	affiliateUseCase usecase.AffiliateUseCase
	customerUseCase  usecase.CustomerUseCase
	logger           *logger.Logger
}

func NewAffiliateHandler(affiliateUseCase usecase.AffiliateUseCase, customerUseCase usecase.CustomerUseCase, logger *logger.Logger) *AffiliateHandler {
	return &AffiliateHandler{
		affiliateUseCase: affiliateUseCase,
		customerUseCase:  customerUseCase,
		logger:           logger,
	}
}

type RegisterAffiliateRequest struct {
	UserID string `json:"user_id"`
	entity.AffiliateProfile
}

type AffiliateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending approved rejected suspended active inactive"`
}

type TrackReferralRequest struct {
	AffiliateCode string                  `json:"affiliate_code" binding:"required"`
	CustomerID    string                  `json:"customer_id" binding:"required"`
	Source        string                  `json:"source" binding:"max=100"`
	Metadata      entity.ReferralMetadata `json:"metadata"`
}

type CommissionRequest struct {
	PurchaseAmount decimal.Decimal  `json:"purchase_amount"`
	CommissionRate *decimal.Decimal `json:"commission_rate"`
}

type PayoutRequestBody struct {
	Amount         decimal.Decimal        `json:"amount"`
	PaymentMethod  string                 `json:"payment_method" binding:"max=50"`
	PaymentDetails *entity.PaymentDetails `json:"payment_details"`
}

type CompletePayoutRequest struct {
	TransactionID string `json:"transaction_id" binding:"required,max=100"`
}

type RejectPayoutRequest struct {
	Notes string `json:"notes"`
}

// Register godoc
// @Summary      Register as an affiliate
// @Description  Admins may register another user by passing user_id
// @Tags         affiliates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  RegisterAffiliateRequest  true  "Profile"
// @Success      201  {object}  entity.Affiliate
// @Failure      400  {object}  map[string]string
// @Router       /affiliates/register [post]
func (h *AffiliateHandler) Register(c *gin.Context) {
	var req RegisterAffiliateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	userID := currentUserID(c)
	if req.UserID != "" && isAdmin(c) {
		userID = req.UserID
	}

	affiliate, err := h.affiliateUseCase.Register(c.Request.Context(), userID, req.AffiliateProfile)
	if err != nil {
		respondError(c, h.logger, "register affiliate", err)
		return
	}

	c.JSON(http.StatusCreated, affiliate)
}

// ListAffiliates godoc
// @Summary      List affiliates
// @Tags         affiliates
// @Produce      json
// @Security     BearerAuth
// @Param        status  query  string  false  "Status"
// @Param        search  query  string  false  "Code, name or email"
// @Param        limit   query  int     false  "Page size (max 100)" default(50)
// @Param        offset  query  int     false  "Offset" default(0)
// @Success      200  {object}  map[string]interface{}
// @Router       /affiliates [get]
func (h *AffiliateHandler) ListAffiliates(c *gin.Context) {
	filter := entity.AffiliateFilter{
		Status: entity.AffiliateStatus(c.Query("status")),
		Search: c.Query("search"),
	}

	result, err := h.affiliateUseCase.List(c.Request.Context(), filter, parsePage(c))
	if err != nil {
		respondError(c, h.logger, "list affiliates", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAffiliate godoc
// @Summary      Get affiliate
// @Tags         affiliates
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Affiliate ID"
// @Success      200  {object}  entity.Affiliate
// @Failure      404  {object}  map[string]string
// @Router       /affiliates/{id} [get]
func (h *AffiliateHandler) GetAffiliate(c *gin.Context) {
	id := c.Param("id")
	if !authorizeAffiliate(c, h.affiliateUseCase, h.logger, id) {
		return
	}

	affiliate, err := h.affiliateUseCase.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "get affiliate", err)
		return
	}

	c.JSON(http.StatusOK, affiliate)
}

// UpdateProfile godoc
// @Summary      Update affiliate profile
// @Tags         affiliates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                   true  "Affiliate ID"
// @Param        request  body  entity.AffiliateProfile  true  "Profile"
// @Success      200  {object}  entity.Affiliate
// @Failure      400  {object}  map[string]string
// @Router       /affiliates/{id} [put]
func (h *AffiliateHandler) UpdateProfile(c *gin.Context) {
	id := c.Param("id")
	if !authorizeAffiliate(c, h.affiliateUseCase, h.logger, id) {
		return
	}

	var req entity.AffiliateProfile
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	affiliate, err := h.affiliateUseCase.UpdateProfile(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.logger, "update affiliate", err)
		return
	}

	c.JSON(http.StatusOK, affiliate)
}

// Approve godoc
// @Summary      Approve a pending affiliate
// @Tags         affiliates
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Affiliate ID"
// @Success      200  {object}  entity.Affiliate
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /affiliates/{id}/approve [post]
func (h *AffiliateHandler) Approve(c *gin.Context) {
	affiliate, err := h.affiliateUseCase.Approve(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		respondError(c, h.logger, "approve affiliate", err)
		return
	}

	c.JSON(http.StatusOK, affiliate)
}

// SetStatus godoc
// @Summary      Change affiliate status
// @Tags         affiliates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                  true  "Affiliate ID"
// @Param        request  body  AffiliateStatusRequest  true  "Status"
// @Success      200  {object}  entity.Affiliate
// @Failure      400  {object}  map[string]string
// @Router       /affiliates/{id}/status [put]
func (h *AffiliateHandler) SetStatus(c *gin.Context) {
	var req AffiliateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	affiliate, err := h.affiliateUseCase.SetStatus(c.Request.Context(), c.Param("id"), entity.AffiliateStatus(req.Status))
	if err != nil {
		respondError(c, h.logger, "set affiliate status", err)
		return
	}

	c.JSON(http.StatusOK, affiliate)
}

// Dashboard godoc
// @Summary      Affiliate dashboard
// @Tags         affiliates
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Affiliate ID"
// @Success      200  {object}  entity.AffiliateDashboard
// @Failure      404  {object}  map[string]string
// @Router       /affiliates/{id}/dashboard [get]
func (h *AffiliateHandler) Dashboard(c *gin.Context) {
	id := c.Param("id")
	if !authorizeAffiliate(c, h.affiliateUseCase, h.logger, id) {
		return
	}

	dashboard, err := h.affiliateUseCase.Dashboard(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "get affiliate dashboard", err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// Performance godoc
// @Summary      Affiliate performance
// @Tags         affiliates
// @Produce      json
// @Security     BearerAuth
// @Param        id    path   string  true   "Affiliate ID"
// @Param        days  query  int     false  "Period in days (1-365)" default(30)
// @Success      200  {object}  entity.AffiliatePerformance
// @Failure      400  {object}  map[string]string
// @Router       /affiliates/{id}/performance [get]
func (h *AffiliateHandler) Performance(c *gin.Context) {
	id := c.Param("id")
	if !authorizeAffiliate(c, h.affiliateUseCase, h.logger, id) {
		return
	}

	performance, err := h.affiliateUseCase.Performance(c.Request.Context(), id, queryInt(c, "days", 0))
	if err != nil {
		respondError(c, h.logger, "get affiliate performance", err)
		return
	}

	c.JSON(http.StatusOK, performance)
}

// ListReferrals godoc
// @Summary      Affiliate referrals
// @Tags         affiliates
// @Produce      json
// @Security     BearerAuth
// @Param        id      path   string  true   "Affiliate ID"
// @Param        limit   query  int     false  "Page size (max 100)" default(50)
// @Param        offset  query  int     false  "Offset" default(0)
// @Success      200  {object}  map[string]interface{}
// @Router       /affiliates/{id}/referrals [get]
func (h *AffiliateHandler) ListReferrals(c *gin.Context) {
	id := c.Param("id")
	if !authorizeAffiliate(c, h.affiliateUseCase, h.logger, id) {
		return
	}

	result, err := h.affiliateUseCase.ListReferrals(c.Request.Context(), id, parsePage(c))
	if err != nil {
		respondError(c, h.logger, "list referrals", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListCommissions godoc
// @Summary      Affiliate commissions
// @Tags         affiliates
// @Produce      json
// @Security     BearerAuth
// @Param        id      path   string  true   "Affiliate ID"
// @Param        status  query  string  false  "Status" Enums(pending, approved, paid, cancelled)
// @Param        limit   query  int     false  "Page size (max 100)" default(50)
// @Param        offset  query  int     false  "Offset" default(0)
// @Success      200  {object}  map[string]interface{}
// @Router       /affiliates/commissions/{id} [get]
func (h *AffiliateHandler) ListCommissions(c *gin.Context) {
	id := c.Param("id")
	if !authorizeAffiliate(c, h.affiliateUseCase, h.logger, id) {
		return
	}

	result, err := h.affiliateUseCase.ListCommissions(c.Request.Context(), id, entity.CommissionStatus(c.Query("status")), parsePage(c))
	if err != nil {
		respondError(c, h.logger, "list commissions", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// TrackReferral godoc
// @Summary      Attribute a customer to an affiliate code
// @Description  Unknown or inactive codes are accepted and nothing is recorded
// @Tags         affiliates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  TrackReferralRequest  true  "Referral"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /affiliates/referrals/track [post]
func (h *AffiliateHandler) TrackReferral(c *gin.Context) {
	var req TrackReferralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if !authorizeCustomer(c, h.customerUseCase, h.logger, req.CustomerID) {
		return
	}

	metadata := req.Metadata
	if metadata.UserAgent == "" {
		metadata.UserAgent = c.Request.UserAgent()
	}

	referral, err := h.affiliateUseCase.TrackReferral(c.Request.Context(), req.AffiliateCode, req.CustomerID, req.Source, metadata)
	if err != nil {
		respondError(c, h.logger, "track referral", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tracked": referral != nil, "referral": referral})
}

// CalculateCommission godoc
// @Summary      Record a commission for a referral purchase
// @Tags         affiliates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string             true  "Referral ID"
// @Param        request  body  CommissionRequest  true  "Purchase"
// @Success      201  {object}  entity.AffiliateCommission
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /affiliates/referrals/{id}/commission [post]
func (h *AffiliateHandler) CalculateCommission(c *gin.Context) {
	var req CommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	commission, err := h.affiliateUseCase.CalculateCommission(c.Request.Context(), c.Param("id"), req.PurchaseAmount, req.CommissionRate)
	if err != nil {
		respondError(c, h.logger, "calculate commission", err)
		return
	}

	c.JSON(http.StatusCreated, commission)
}

// ApproveCommission godoc
// @Summary      Approve a pending commission
// @Tags         affiliates
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Commission ID"
// @Success      200  {object}  entity.AffiliateCommission
// @Failure      400  {object}  map[string]string
// @Router       /affiliates/commissions/{id}/approve [post]
func (h *AffiliateHandler) ApproveCommission(c *gin.Context) {
	commission, err := h.affiliateUseCase.ApproveCommission(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		respondError(c, h.logger, "approve commission", err)
		return
	}

	c.JSON(http.StatusOK, commission)
}

// RequestPayout godoc
// @Summary      Request a payout
// @Tags         affiliates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string             true  "Affiliate ID"
// @Param        request  body  PayoutRequestBody  true  "Payout"
// @Success      201  {object}  entity.PayoutRequest
// @Failure      400  {object}  map[string]string
// @Router       /affiliates/{id}/payouts [post]
func (h *AffiliateHandler) RequestPayout(c *gin.Context) {
	id := c.Param("id")
	if !authorizeAffiliate(c, h.affiliateUseCase, h.logger, id) {
		return
	}

	var req PayoutRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	var details entity.PaymentDetails
	if req.PaymentDetails != nil {
		details = *req.PaymentDetails
	}

	payout, err := h.affiliateUseCase.RequestPayout(c.Request.Context(), id, req.Amount, req.PaymentMethod, details)
	if err != nil {
		respondError(c, h.logger, "request payout", err)
		return
	}

	c.JSON(http.StatusCreated, payout)
}

// ListPayouts godoc
// @Summary      Affiliate payouts
// @Tags         affiliates
// @Produce      json
// @Security     BearerAuth
// @Param        id      path   string  true   "Affiliate ID"
// @Param        status  query  string  false  "Status" Enums(pending, processing, completed, rejected)
// @Param        limit   query  int     false  "Page size (max 100)" default(50)
// @Param        offset  query  int     false  "Offset" default(0)
// @Success      200  {object}  map[string]interface{}
// @Router       /affiliates/{id}/payouts [get]
func (h *AffiliateHandler) ListPayouts(c *gin.Context) {
	id := c.Param("id")
	if !authorizeAffiliate(c, h.affiliateUseCase, h.logger, id) {
		return
	}

	result, err := h.affiliateUseCase.ListPayouts(c.Request.Context(), id, entity.PayoutStatus(c.Query("status")), parsePage(c))
	if err != nil {
		respondError(c, h.logger, "list payouts", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ProcessPayout godoc
// @Summary      Start processing a payout
// @Tags         affiliates
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Payout ID"
// @Success      200  {object}  entity.PayoutRequest
// @Failure      400  {object}  map[string]string
// @Router       /affiliates/payouts/{id}/process [post]
func (h *AffiliateHandler) ProcessPayout(c *gin.Context) {
	payout, err := h.affiliateUseCase.ProcessPayout(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		respondError(c, h.logger, "process payout", err)
		return
	}

	c.JSON(http.StatusOK, payout)
}

// CompletePayout godoc
// @Summary      Complete a payout
// @Description  Moves the amount from unpaid balance to total paid and settles approved commissions
// @Tags         affiliates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                 true  "Payout ID"
// @Param        request  body  CompletePayoutRequest  true  "Payment reference"
// @Success      200  {object}  entity.PayoutRequest
// @Failure      400  {object}  map[string]string
// @Router       /affiliates/payouts/{id}/complete [post]
func (h *AffiliateHandler) CompletePayout(c *gin.Context) {
	var req CompletePayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	payout, err := h.affiliateUseCase.CompletePayout(c.Request.Context(), c.Param("id"), req.TransactionID, currentUserID(c))
	if err != nil {
		respondError(c, h.logger, "complete payout", err)
		return
	}

	c.JSON(http.StatusOK, payout)
}

// RejectPayout godoc
// @Summary      Reject a payout
// @Tags         affiliates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string               true   "Payout ID"
// @Param        request  body  RejectPayoutRequest  false  "Notes"
// @Success      200  {object}  entity.PayoutRequest
// @Failure      400  {object}  map[string]string
// @Router       /affiliates/payouts/{id}/reject [post]
func (h *AffiliateHandler) RejectPayout(c *gin.Context) {
	var req RejectPayoutRequest
	_ = c.ShouldBindJSON(&req)

	payout, err := h.affiliateUseCase.RejectPayout(c.Request.Context(), c.Param("id"), currentUserID(c), req.Notes)
	if err != nil {
		respondError(c, h.logger, "reject payout", err)
		return
	}

	c.JSON(http.StatusOK, payout)
}
