package http

import (
	"net/http"

	"loyalty-hub/pkg/logger"
	"loyalty-hub/pkg/middleware"
	"loyalty-hub/services/api/internal/entity"
	"loyalty-hub/services/api/internal/usecase"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUseCase usecase.AuthUseCase
	logger      *logger.Logger
}

func NewAuthHandler(authUseCase usecase.AuthUseCase, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
		logger:      logger,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required,max=20"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=customer affiliate"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type PasswordResetConfirmRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// Register godoc
// @Summary      Register a new account
// @Description  Creates a user. Customer registrations also get a bronze loyalty account.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration"
// @Success      201  {object}  entity.AuthResult
// @Failure      400  {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	role := entity.RoleCustomer
	if req.Role != "" {
		role = entity.UserRole(req.Role)
	}

	result, err := h.authUseCase.Register(c.Request.Context(), entity.Registration{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		respondError(c, h.logger, "register user", err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Login godoc
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Credentials"
// @Success      200  {object}  entity.AuthResult
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	result, err := h.authUseCase.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, "log in", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Refresh godoc
// @Summary      Rotate a refresh token
// @Description  Issues a new token pair and revokes the presented refresh token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshRequest true "Refresh token"
// @Success      200  {object}  jwt.TokenPair
// @Failure      401  {object}  map[string]string
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	tokens, err := h.authUseCase.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, h.logger, "refresh token", err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// Logout godoc
// @Summary      Log out
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body RefreshRequest true "Refresh token to revoke"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := h.authUseCase.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		respondError(c, h.logger, "log out", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.User
// @Failure      404  {object}  map[string]string
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authUseCase.Me(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, h.logger, "get current user", err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// RequestPasswordReset godoc
// @Summary      Request a password reset
// @Description  Always answers 200 so registered emails cannot be enumerated
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body PasswordResetRequest true "Email"
// @Success      200  {object}  map[string]string
// @Router       /auth/password-reset/request [post]
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if _, err := h.authUseCase.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		respondError(c, h.logger, "request password reset", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "If the email is registered, a reset link has been sent"})
}

// ConfirmPasswordReset godoc
// @Summary      Reset a password with a reset token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body PasswordResetConfirmRequest true "Token and new password"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Router       /auth/password-reset/confirm [post]
func (h *AuthHandler) ConfirmPasswordReset(c *gin.Context) {
	var req PasswordResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := h.authUseCase.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		respondError(c, h.logger, "reset password", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

// Permissions godoc
// @Summary      Permissions of the current role
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.Permissions
// @Router       /auth/permissions [get]
func (h *AuthHandler) Permissions(c *gin.Context) {
	role := entity.UserRole(c.GetString(middleware.ContextUserRole))
	c.JSON(http.StatusOK, h.authUseCase.Permissions(role))
}
