package http

import (
	"net/http"
	"time"

	"loyalty-hub/pkg/logger"
	"loyalty-hub/services/api/internal/entity"
	"loyalty-hub/services/api/internal/usecase"

	"github.com/gin-gonic/gin"
)

type WhatsAppHandler struct {
	whatsAppUseCase usecase.WhatsAppUseCase
	customerUseCase usecase.CustomerUseCase
	logger          *logger.Logger
}

func NewWhatsAppHandler(whatsAppUseCase usecase.WhatsAppUseCase, customerUseCase usecase.CustomerUseCase, logger *logger.Logger) *WhatsAppHandler {
	return &WhatsAppHandler{
		whatsAppUseCase: whatsAppUseCase,
		customerUseCase: customerUseCase,
		logger:          logger,
	}
}

type SendMessageRequest struct {
	Phone       string  `json:"phone" binding:"required,max=20"`
	Content     string  `json:"content"`
	MessageType string  `json:"message_type" binding:"omitempty,oneof=text image document audio video"`
	MediaURL    string  `json:"media_url" binding:"omitempty,url"`
	CustomerID  *string `json:"customer_id"`
}

type SendTemplateRequest struct {
	Phone        string            `json:"phone" binding:"required,max=20"`
	TemplateName string            `json:"template_name" binding:"required"`
	Variables    map[string]string `json:"variables"`
	CustomerID   *string           `json:"customer_id"`
}

type CreateTemplateRequest struct {
	Name        string   `json:"name" binding:"required,max=100"`
	Category    string   `json:"category" binding:"required,oneof=bill birthday promotion welcome loyalty affiliate"`
	MessageType string   `json:"message_type" binding:"omitempty,oneof=text image document audio video template"`
	Content     string   `json:"content" binding:"required"`
	Variables   []string `json:"variables"`
	MediaURL    string   `json:"media_url"`
	IsDefault   bool     `json:"is_default"`
}

type ProcessBirthdaysRequest struct {
	Date string `json:"date"`
}

// SendMessage godoc
// @Summary      Send a WhatsApp message
// @Description  A vendor failure still returns the stored message with status failed
// @Tags         whatsapp
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  SendMessageRequest  true  "Message"
// @Success      201  {object}  entity.WhatsAppMessage
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]interface{}
// @Router       /whatsapp/send [post]
func (h *WhatsAppHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	messageType := entity.MessageText
	if req.MessageType != "" {
		messageType = entity.MessageType(req.MessageType)
	}

	message, err := h.whatsAppUseCase.SendMessage(c.Request.Context(), entity.OutboundMessage{
		Phone:       req.Phone,
		Content:     req.Content,
		MessageType: messageType,
		MediaURL:    req.MediaURL,
		CustomerID:  req.CustomerID,
	})
	h.respondMessage(c, "send whatsapp message", message, err)
}

// SendTemplate godoc
// @Summary      Send a stored template
// @Tags         whatsapp
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  SendTemplateRequest  true  "Template message"
// @Success      201  {object}  entity.WhatsAppMessage
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /whatsapp/send-template [post]
func (h *WhatsAppHandler) SendTemplate(c *gin.Context) {
	var req SendTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	message, err := h.whatsAppUseCase.SendTemplate(c.Request.Context(), entity.TemplateMessage{
		Phone:        req.Phone,
		TemplateName: req.TemplateName,
		Variables:    req.Variables,
		CustomerID:   req.CustomerID,
	})
	h.respondMessage(c, "send whatsapp template", message, err)
}

// respondMessage reports a degraded send as 502 with the failed record attached.
func (h *WhatsAppHandler) respondMessage(c *gin.Context, action string, message *entity.WhatsAppMessage, err error) {
	if err != nil {
		if message != nil {
			h.logger.Warn("Failed to %s: %v", action, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": message.ErrorMessage, "message": message})
			return
		}
		respondError(c, h.logger, action, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

// VerifyWebhook godoc
// @Summary      Webhook subscription handshake
// @Tags         whatsapp
// @Produce      plain
// @Param        hub.mode          query  string  true  "subscribe"
// @Param        hub.verify_token  query  string  true  "Verify token"
// @Param        hub.challenge     query  string  true  "Challenge to echo"
// @Success      200  {string}  string
// @Failure      403  {object}  map[string]string
// @Router       /whatsapp/webhook [get]
func (h *WhatsAppHandler) VerifyWebhook(c *gin.Context) {
	challenge, err := h.whatsAppUseCase.VerifyWebhook(c.Query("hub.mode"), c.Query("hub.verify_token"), c.Query("hub.challenge"))
	if err != nil {
		respondError(c, h.logger, "verify webhook", err)
		return
	}

	c.String(http.StatusOK, challenge)
}

// ReceiveWebhook godoc
// @Summary      Receive WhatsApp webhook notifications
// @Tags         whatsapp
// @Accept       json
// @Produce      json
// @Success      200  {object}  entity.WebhookResult
// @Failure      400  {object}  map[string]string
// @Router       /whatsapp/webhook [post]
func (h *WhatsAppHandler) ReceiveWebhook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		badRequest(c, "Failed to read body")
		return
	}

	result, err := h.whatsAppUseCase.HandleWebhook(c.Request.Context(), body)
	if err != nil {
		respondError(c, h.logger, "handle webhook", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// History godoc
// @Summary      Customer message history
// @Tags         whatsapp
// @Produce      json
// @Security     BearerAuth
// @Param        customer_id  path   string  true   "Customer ID"
// @Param        limit        query  int     false  "Page size (max 100)" default(50)
// @Param        offset       query  int     false  "Offset" default(0)
// @Success      200  {object}  map[string]interface{}
// @Router       /whatsapp/history/{customer_id} [get]
func (h *WhatsAppHandler) History(c *gin.Context) {
	customerID := c.Param("customer_id")
	if !authorizeCustomer(c, h.customerUseCase, h.logger, customerID) {
		return
	}

	result, err := h.whatsAppUseCase.History(c.Request.Context(), customerID, parsePage(c))
	if err != nil {
		respondError(c, h.logger, "list message history", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeliveryStatus godoc
// @Summary      Message delivery status
// @Tags         whatsapp
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Message ID"
// @Success      200  {object}  entity.MessageDeliveryStatus
// @Failure      404  {object}  map[string]string
// @Router       /whatsapp/messages/{id}/status [get]
func (h *WhatsAppHandler) DeliveryStatus(c *gin.Context) {
	status, err := h.whatsAppUseCase.DeliveryStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "get delivery status", err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// ListTemplates godoc
// @Summary      List notification templates
// @Tags         whatsapp
// @Produce      json
// @Security     BearerAuth
// @Param        category     query  string  false  "Category"
// @Param        active_only  query  bool    false  "Only active templates"
// @Success      200  {array}   entity.NotificationTemplate
// @Router       /whatsapp/templates [get]
func (h *WhatsAppHandler) ListTemplates(c *gin.Context) {
	templates, err := h.whatsAppUseCase.ListTemplates(c.Request.Context(), entity.TemplateCategory(c.Query("category")), c.Query("active_only") == "true")
	if err != nil {
		respondError(c, h.logger, "list templates", err)
		return
	}

	c.JSON(http.StatusOK, templates)
}

// CreateTemplate godoc
// @Summary      Create a notification template
// @Tags         whatsapp
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  CreateTemplateRequest  true  "Template"
// @Success      201  {object}  entity.NotificationTemplate
// @Failure      400  {object}  map[string]string
// @Router       /whatsapp/templates [post]
func (h *WhatsAppHandler) CreateTemplate(c *gin.Context) {
	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	messageType := entity.MessageText
	if req.MessageType != "" {
		messageType = entity.MessageType(req.MessageType)
	}
	actorID := currentUserID(c)

	template, err := h.whatsAppUseCase.CreateTemplate(c.Request.Context(), &entity.NotificationTemplate{
		Name:        req.Name,
		Category:    entity.TemplateCategory(req.Category),
		MessageType: messageType,
		Content:     req.Content,
		Variables:   req.Variables,
		MediaURL:    req.MediaURL,
		IsActive:    true,
		IsDefault:   req.IsDefault,
		CreatedBy:   &actorID,
	})
	if err != nil {
		respondError(c, h.logger, "create template", err)
		return
	}

	c.JSON(http.StatusCreated, template)
}

// UpdateTemplate godoc
// @Summary      Update a notification template
// @Tags         whatsapp
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                 true  "Template ID"
// @Param        request  body  entity.TemplateUpdate  true  "Fields to change"
// @Success      200  {object}  entity.NotificationTemplate
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /whatsapp/templates/{id} [put]
func (h *WhatsAppHandler) UpdateTemplate(c *gin.Context) {
	var req entity.TemplateUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	template, err := h.whatsAppUseCase.UpdateTemplate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, "update template", err)
		return
	}

	c.JSON(http.StatusOK, template)
}

// ProcessBirthdays godoc
// @Summary      Send today's birthday promotions
// @Tags         whatsapp
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  ProcessBirthdaysRequest  false  "Optional date (YYYY-MM-DD), defaults to today"
// @Success      200  {object}  entity.BirthdayRunResult
// @Failure      400  {object}  map[string]string
// @Router       /whatsapp/birthdays/process [post]
func (h *WhatsAppHandler) ProcessBirthdays(c *gin.Context) {
	var req ProcessBirthdaysRequest
	_ = c.ShouldBindJSON(&req)

	today := time.Now().UTC()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			badRequest(c, "date must be YYYY-MM-DD")
			return
		}
		today = parsed
	}

	result, err := h.whatsAppUseCase.ProcessDailyBirthdays(c.Request.Context(), today)
	if err != nil {
		respondError(c, h.logger, "process birthdays", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UploadMedia godoc
// @Summary      Upload media for outbound messages
// @Tags         whatsapp
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "Media file"
// @Success      201  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /whatsapp/media [post]
func (h *WhatsAppHandler) UploadMedia(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "File is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		badRequest(c, "Failed to read file")
		return
	}
	defer file.Close()

	url, err := h.whatsAppUseCase.UploadMedia(c.Request.Context(), file, fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		respondError(c, h.logger, "upload media", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"media_url": url})
}
