package http

import (
	"net/http"
	"time"

	"loyalty-hub/pkg/logger"
	"loyalty-hub/services/api/internal/entity"
	"loyalty-hub/services/api/internal/usecase"

	"github.com/gin-gonic/gin"
)

type CustomerHandler struct {
	customerUseCase usecase.CustomerUseCase
	logger          *logger.Logger
}

func NewCustomerHandler(customerUseCase usecase.CustomerUseCase, logger *logger.Logger) *CustomerHandler {
	return &CustomerHandler{
		customerUseCase: customerUseCase,
		logger:          logger,
	}
}

type CreateCustomerRequest struct {
	Name        string     `json:"name" binding:"required,max=100"`
	Email       string     `json:"email" binding:"required,email"`
	Phone       string     `json:"phone" binding:"required,max=20"`
	Password    string     `json:"password" binding:"omitempty,min=8"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	ERPID       string     `json:"erp_id" binding:"max=100"`
}

type KidRequest struct {
	Name        string    `json:"name" binding:"required,max=100"`
	DateOfBirth time.Time `json:"date_of_birth" binding:"required"`
	Gender      string    `json:"gender" binding:"omitempty,oneof=male female other"`
	Notes       string    `json:"notes"`
}

// ListCustomers godoc
// @Summary      List customers
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        search      query  string  false  "Name, email or phone"
// @Param        tier        query  string  false  "Tier" Enums(bronze, silver, gold, platinum)
// @Param        status      query  string  false  "Status" Enums(active, inactive, suspended)
// @Param        sort_by     query  string  false  "Sort column" Enums(joined_date, total_points, lifetime_points, last_activity, name)
// @Param        sort_order  query  string  false  "asc or desc" Enums(asc, desc)
// @Param        limit       query  int     false  "Page size (max 100)" default(50)
// @Param        offset      query  int     false  "Offset" default(0)
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /customers [get]
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	filter := entity.CustomerFilter{
		Search:    c.Query("search"),
		Tier:      entity.Tier(c.Query("tier")),
		Status:    entity.CustomerStatus(c.Query("status")),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	result, err := h.customerUseCase.List(c.Request.Context(), filter, parsePage(c))
	if err != nil {
		respondError(c, h.logger, "list customers", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCustomer godoc
// @Summary      Customer details
// @Description  Customer with recent transactions, redemptions, kids, tier history and engagement analytics
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Customer ID"
// @Success      200  {object}  entity.CustomerDetails
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /customers/{id} [get]
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id := c.Param("id")
	if !authorizeCustomer(c, h.customerUseCase, h.logger, id) {
		return
	}

	details, err := h.customerUseCase.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "get customer", err)
		return
	}

	c.JSON(http.StatusOK, details)
}

// CreateCustomer godoc
// @Summary      Create customer
// @Description  Creates the user account and the loyalty customer together
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  CreateCustomerRequest  true  "Customer"
// @Success      201  {object}  entity.Customer
// @Failure      400  {object}  map[string]string
// @Router       /customers [post]
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	customer, err := h.customerUseCase.Create(c.Request.Context(), entity.NewCustomer{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Password:    req.Password,
		DateOfBirth: req.DateOfBirth,
		ERPID:       req.ERPID,
	})
	if err != nil {
		respondError(c, h.logger, "create customer", err)
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// UpdateCustomer godoc
// @Summary      Update customer
// @Description  A tier change is recorded in the tier history as a manual update
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                 true  "Customer ID"
// @Param        request  body  entity.CustomerUpdate  true  "Fields to change"
// @Success      200  {object}  entity.Customer
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /customers/{id} [put]
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	var req entity.CustomerUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	customer, err := h.customerUseCase.Update(c.Request.Context(), c.Param("id"), req, currentUserID(c))
	if err != nil {
		respondError(c, h.logger, "update customer", err)
		return
	}

	c.JSON(http.StatusOK, customer)
}

// DeactivateCustomer godoc
// @Summary      Deactivate customer
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Customer ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /customers/{id} [delete]
func (h *CustomerHandler) DeactivateCustomer(c *gin.Context) {
	if err := h.customerUseCase.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, "deactivate customer", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer deactivated"})
}

// Segments godoc
// @Summary      Customer segments
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.CustomerSegments
// @Router       /customers/segments [get]
func (h *CustomerHandler) Segments(c *gin.Context) {
	segments, err := h.customerUseCase.Segments(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "get customer segments", err)
		return
	}

	c.JSON(http.StatusOK, segments)
}

// Activity godoc
// @Summary      Customer activity timeline
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        id     path   string  true   "Customer ID"
// @Param        limit  query  int     false  "Max items" default(50)
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /customers/{id}/activity [get]
func (h *CustomerHandler) Activity(c *gin.Context) {
	id := c.Param("id")
	if !authorizeCustomer(c, h.customerUseCase, h.logger, id) {
		return
	}

	items, err := h.customerUseCase.Activity(c.Request.Context(), id, queryInt(c, "limit", entity.DefaultPageLimit))
	if err != nil {
		respondError(c, h.logger, "get customer activity", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"customer_id": id, "activities": items})
}

// ListKids godoc
// @Summary      List customer's kids
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Customer ID"
// @Success      200  {array}   entity.CustomerKid
// @Router       /customers/{id}/kids [get]
func (h *CustomerHandler) ListKids(c *gin.Context) {
	id := c.Param("id")
	if !authorizeCustomer(c, h.customerUseCase, h.logger, id) {
		return
	}

	kids, err := h.customerUseCase.ListKids(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "list kids", err)
		return
	}

	c.JSON(http.StatusOK, kids)
}

// AddKid godoc
// @Summary      Add a kid to a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string      true  "Customer ID"
// @Param        request  body  KidRequest  true  "Kid"
// @Success      201  {object}  entity.CustomerKid
// @Failure      400  {object}  map[string]string
// @Router       /customers/{id}/kids [post]
func (h *CustomerHandler) AddKid(c *gin.Context) {
	id := c.Param("id")
	if !authorizeCustomer(c, h.customerUseCase, h.logger, id) {
		return
	}

	var req KidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	kid, err := h.customerUseCase.AddKid(c.Request.Context(), id, entity.CustomerKid{
		Name:        req.Name,
		DateOfBirth: req.DateOfBirth,
		Gender:      req.Gender,
		Notes:       req.Notes,
	})
	if err != nil {
		respondError(c, h.logger, "add kid", err)
		return
	}

	c.JSON(http.StatusCreated, kid)
}

// UpdateKid godoc
// @Summary      Update a kid
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string            true  "Customer ID"
// @Param        kid_id   path  string            true  "Kid ID"
// @Param        request  body  entity.KidUpdate  true  "Fields to change"
// @Success      200  {object}  entity.CustomerKid
// @Failure      404  {object}  map[string]string
// @Router       /customers/{id}/kids/{kid_id} [put]
func (h *CustomerHandler) UpdateKid(c *gin.Context) {
	id := c.Param("id")
	if !authorizeCustomer(c, h.customerUseCase, h.logger, id) {
		return
	}

	var req entity.KidUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	kid, err := h.customerUseCase.UpdateKid(c.Request.Context(), id, c.Param("kid_id"), req)
	if err != nil {
		respondError(c, h.logger, "update kid", err)
		return
	}

	c.JSON(http.StatusOK, kid)
}

// RemoveKid godoc
// @Summary      Remove a kid
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        id      path  string  true  "Customer ID"
// @Param        kid_id  path  string  true  "Kid ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /customers/{id}/kids/{kid_id} [delete]
func (h *CustomerHandler) RemoveKid(c *gin.Context) {
	id := c.Param("id")
	if !authorizeCustomer(c, h.customerUseCase, h.logger, id) {
		return
	}

	if err := h.customerUseCase.RemoveKid(c.Request.Context(), id, c.Param("kid_id")); err != nil {
		respondError(c, h.logger, "remove kid", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Kid removed"})
}
