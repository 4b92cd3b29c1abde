package http

import (
	"net/http"

	"loyalty-hub/pkg/logger"
	"loyalty-hub/services/api/internal/entity"
	"loyalty-hub/services/api/internal/usecase"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userUseCase usecase.UserUseCase
	authUseCase usecase.AuthUseCase
	logger      *logger.Logger
}

func NewUserHandler(userUseCase usecase.UserUseCase, authUseCase usecase.AuthUseCase, logger *logger.Logger) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
		authUseCase: authUseCase,
		logger:      logger,
	}
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// ListUsers godoc
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        role    query  string  false  "Role filter" Enums(admin, customer, affiliate)
// @Param        status  query  string  false  "Status filter" Enums(active, inactive, suspended)
// @Param        search  query  string  false  "Name or email search"
// @Param        limit   query  int     false  "Page size (max 100)" default(50)
// @Param        offset  query  int     false  "Offset" default(0)
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	filter := entity.UserFilter{
		Role:   entity.UserRole(c.Query("role")),
		Status: entity.UserStatus(c.Query("status")),
		Search: c.Query("search"),
	}

	result, err := h.userUseCase.ListUsers(c.Request.Context(), filter, parsePage(c))
	if err != nil {
		respondError(c, h.logger, "list users", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetUser godoc
// @Summary      Get user by ID
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  entity.User
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userUseCase.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "get user", err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateUser godoc
// @Summary      Update user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string             true  "User ID"
// @Param        request  body  entity.UserUpdate  true  "Fields to change"
// @Success      200  {object}  entity.User
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req entity.UserUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	user, err := h.userUseCase.UpdateUser(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, "update user", err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeactivateUser godoc
// @Summary      Deactivate user
// @Description  Marks the user inactive. Users are never hard-deleted.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [delete]
func (h *UserHandler) DeactivateUser(c *gin.Context) {
	if err := h.userUseCase.DeactivateUser(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, "deactivate user", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deactivated"})
}

// ChangePassword godoc
// @Summary      Change own password
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  ChangePasswordRequest  true  "Old and new password"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Router       /users/change-password [post]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := h.authUseCase.ChangePassword(c.Request.Context(), currentUserID(c), req.OldPassword, req.NewPassword); err != nil {
		respondError(c, h.logger, "change password", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed"})
}
