package entity

import "time"

type MessageType string

const (
	MessageText     MessageType = "text"
	MessageImage    MessageType = "image"
	MessageDocument MessageType = "document"
	MessageAudio    MessageType = "audio"
	MessageVideo    MessageType = "video"
	MessageTemplate MessageType = "template"
)

func (t MessageType) Valid() bool {
	switch t {
	case MessageText, MessageImage, MessageDocument, MessageAudio, MessageVideo, MessageTemplate:
		return true
	}
	return false
}

// IsMedia reports whether the type is sent by media link.
func (t MessageType) IsMedia() bool {
	return t == MessageImage || t == MessageDocument || t == MessageAudio || t == MessageVideo
}

type MessageDirection string

const (
	DirectionOutbound MessageDirection = "outbound"
	DirectionInbound  MessageDirection = "inbound"
)

type MessageStatus string

const (
	MessagePending   MessageStatus = "pending"
	MessageSent      MessageStatus = "sent"
	MessageDelivered MessageStatus = "delivered"
	MessageRead      MessageStatus = "read"
	MessageFailed    MessageStatus = "failed"
)

type TemplateCategory string

const (
	TemplateBill      TemplateCategory = "bill"
	TemplateBirthday  TemplateCategory = "birthday"
	TemplatePromotion TemplateCategory = "promotion"
	TemplateWelcome   TemplateCategory = "welcome"
	TemplateLoyalty   TemplateCategory = "loyalty"
	TemplateAffiliate TemplateCategory = "affiliate"
)

func (c TemplateCategory) Valid() bool {
	switch c {
	case TemplateBill, TemplateBirthday, TemplatePromotion, TemplateWelcome, TemplateLoyalty, TemplateAffiliate:
		return true
	}
	return false
}

type PromotionStatus string

const (
	PromotionScheduled PromotionStatus = "scheduled"
	PromotionSent      PromotionStatus = "sent"
	PromotionDelivered PromotionStatus = "delivered"
	PromotionRead      PromotionStatus = "read"
	PromotionFailed    PromotionStatus = "failed"
	PromotionCancelled PromotionStatus = "cancelled"
)

type MessageMetadata struct {
	TemplateName string            `json:"template_name,omitempty"`
	Variables    map[string]string `json:"variables,omitempty"`
	Event        string            `json:"event,omitempty"`
	ContactName  string            `json:"contact_name,omitempty"`
	MediaID      string            `json:"media_id,omitempty"`
}

type WhatsAppMessage struct {
	ID                string           `json:"id"`
	UserID            *string          `json:"user_id,omitempty"`
	CustomerID        *string          `json:"customer_id,omitempty"`
	MessageType       MessageType      `json:"message_type"`
	Direction         MessageDirection `json:"direction"`
	Content           string           `json:"content"`
	MediaURL          string           `json:"media_url,omitempty"`
	TemplateID        *string          `json:"template_id,omitempty"`
	WhatsAppMessageID string           `json:"whatsapp_message_id,omitempty"`
	RecipientPhone    string           `json:"recipient_phone"`
	Status            MessageStatus    `json:"status"`
	StatusTimestamp   *time.Time       `json:"status_timestamp,omitempty"`
	ErrorMessage      string           `json:"error_message,omitempty"`
	Metadata          MessageMetadata  `json:"metadata"`
	IsAutomated       bool             `json:"is_automated"`
	ScheduledFor      *time.Time       `json:"scheduled_for,omitempty"`
	SentAt            *time.Time       `json:"sent_at,omitempty"`
	DeliveredAt       *time.Time       `json:"delivered_at,omitempty"`
	ReadAt            *time.Time       `json:"read_at,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

type NotificationTemplate struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Category    TemplateCategory `json:"category"`
	MessageType MessageType      `json:"message_type"`
	Content     string           `json:"content"`
	Variables   []string         `json:"variables"`
	MediaURL    string           `json:"media_url,omitempty"`
	IsActive    bool             `json:"is_active"`
	IsDefault   bool             `json:"is_default"`
	UsageCount  int              `json:"usage_count"`
	LastUsed    *time.Time       `json:"last_used,omitempty"`
	CreatedBy   *string          `json:"created_by,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

type TemplateUpdate struct {
	Content   *string  `json:"content,omitempty"`
	Variables []string `json:"variables,omitempty"`
	MediaURL  *string  `json:"media_url,omitempty"`
	IsActive  *bool    `json:"is_active,omitempty"`
	IsDefault *bool    `json:"is_default,omitempty"`
}

type WebhookEvent struct {
	ID           string     `json:"id"`
	WebhookID    string     `json:"webhook_id"`
	EventType    string     `json:"event_type"`
	Payload      []byte     `json:"-"`
	Processed    bool       `json:"processed"`
	ProcessedAt  *time.Time `json:"processed_at,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type WebhookResult struct {
	Duplicate       bool `json:"duplicate"`
	MessagesStored  int  `json:"messages_stored"`
	StatusesUpdated int  `json:"statuses_updated"`
}

type PromotionMetadata struct {
	KidName      string `json:"kid_name,omitempty"`
	CustomerName string `json:"customer_name,omitempty"`
	Year         int    `json:"year"`
}

type BirthdayPromotion struct {
	ID                string            `json:"id"`
	CustomerID        string            `json:"customer_id"`
	KidID             *string           `json:"kid_id,omitempty"`
	PromotionType     string            `json:"promotion_type"`
	BirthdayDate      time.Time         `json:"birthday_date"`
	ScheduledDate     time.Time         `json:"scheduled_date"`
	SentDate          *time.Time        `json:"sent_date,omitempty"`
	Status            PromotionStatus   `json:"status"`
	PromotionCode     string            `json:"promotion_code"`
	DiscountAmount    string            `json:"discount_amount"`
	MessageContent    string            `json:"message_content,omitempty"`
	TemplateID        *string           `json:"template_id,omitempty"`
	WhatsAppMessageID *string           `json:"whatsapp_message_id,omitempty"`
	IsRecurring       bool              `json:"is_recurring"`
	Metadata          PromotionMetadata `json:"metadata"`
	CreatedBy         *string           `json:"created_by,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
}

const (
	PromotionTypeCustomerBirthday = "customer_birthday"
	PromotionTypeKidBirthday      = "kid_birthday"
)

// BirthdayCandidate is a customer, or one of their kids, whose birthday is today.
type BirthdayCandidate struct {
	Customer *Customer
	Kid      *CustomerKid
}

type BirthdayRunResult struct {
	Processed int      `json:"processed"`
	Sent      int      `json:"sent"`
	Failed    int      `json:"failed"`
	Skipped   int      `json:"skipped"`
	Errors    []string `json:"errors,omitempty"`
}

type MessageDeliveryStatus struct {
	MessageID         string        `json:"message_id"`
	WhatsAppMessageID string        `json:"whatsapp_message_id,omitempty"`
	Status            MessageStatus `json:"status"`
	SentAt            *time.Time    `json:"sent_at,omitempty"`
	DeliveredAt       *time.Time    `json:"delivered_at,omitempty"`
	ReadAt            *time.Time    `json:"read_at,omitempty"`
	ErrorMessage      string        `json:"error_message,omitempty"`
}

type OutboundMessage struct {
	Phone       string          `json:"phone"`
	Content     string          `json:"content"`
	MessageType MessageType     `json:"message_type"`
	MediaURL    string          `json:"media_url,omitempty"`
	CustomerID  *string         `json:"customer_id,omitempty"`
	TemplateID  *string         `json:"-"`
	Metadata    MessageMetadata `json:"-"`
	IsAutomated bool            `json:"-"`
}

type TemplateMessage struct {
	Phone        string            `json:"phone"`
	TemplateName string            `json:"template_name"`
	Variables    map[string]string `json:"variables,omitempty"`
	CustomerID   *string           `json:"customer_id,omitempty"`
}
