package model

import (
	"time"

	"loyalty-hub/services/api/internal/entity"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NotificationTemplateModel struct {
	ID          string                      `gorm:"type:uuid;primary_key" json:"id"`
	Name        string                      `gorm:"type:varchar(200);uniqueIndex;not null" json:"name"`
	Category    string                      `gorm:"type:varchar(20);not null" json:"category"`
	MessageType string                      `gorm:"type:varchar(20);default:'text'" json:"message_type"`
	Content     string                      `gorm:"type:text;not null" json:"content"`
	Variables   datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"variables"`
	MediaURL    string                      `gorm:"type:varchar(500)" json:"media_url"`
	IsActive    bool                        `gorm:"default:true" json:"is_active"`
	IsDefault   bool                        `gorm:"default:false" json:"is_default"`
	UsageCount  int                         `gorm:"default:0" json:"usage_count"`
	LastUsed    *time.Time                  `json:"last_used"`
	CreatedBy   *string                     `gorm:"type:uuid" json:"created_by"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

func (NotificationTemplateModel) TableName() string {
	return "notification_templates"
}

func (t *NotificationTemplateModel) BeforeCreate(tx *gorm.DB) error {
	newID(&t.ID)
	return nil
}

type WhatsAppMessageModel struct {
	ID                string                                     `gorm:"type:uuid;primary_key" json:"id"`
	UserID            *string                                    `gorm:"type:uuid" json:"user_id"`
	CustomerID        *string                                    `gorm:"type:uuid;index" json:"customer_id"`
	MessageType       string                                     `gorm:"type:varchar(20);not null" json:"message_type"`
	Direction         string                                     `gorm:"type:varchar(10);not null" json:"direction"`
	Content           string                                     `gorm:"type:text;not null" json:"content"`
	MediaURL          string                                     `gorm:"type:varchar(500)" json:"media_url"`
	TemplateID        *string                                    `gorm:"type:uuid" json:"template_id"`
	WhatsAppMessageID string                                     `gorm:"column:whatsapp_message_id;type:varchar(100);index" json:"whatsapp_message_id"`
	RecipientPhone    string                                     `gorm:"type:varchar(20);not null;index" json:"recipient_phone"`
	Status            string                                     `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	StatusTimestamp   *time.Time                                 `json:"status_timestamp"`
	ErrorMessage      string                                     `gorm:"type:text" json:"error_message"`
	Metadata          datatypes.JSONType[entity.MessageMetadata] `gorm:"type:jsonb" json:"metadata"`
	IsAutomated       bool                                       `gorm:"default:false" json:"is_automated"`
	ScheduledFor      *time.Time                                 `json:"scheduled_for"`
	SentAt            *time.Time                                 `json:"sent_at"`
	DeliveredAt       *time.Time                                 `json:"delivered_at"`
	ReadAt            *time.Time                                 `json:"read_at"`
	CreatedAt         time.Time                                  `json:"created_at"`
	UpdatedAt         time.Time                                  `json:"updated_at"`
}

func (WhatsAppMessageModel) TableName() string {
	return "whatsapp_messages"
}

func (m *WhatsAppMessageModel) BeforeCreate(tx *gorm.DB) error {
	newID(&m.ID)
	return nil
}

type WhatsAppWebhookModel struct {
	ID           string         `gorm:"type:uuid;primary_key" json:"id"`
	WebhookID    string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"webhook_id"`
	EventType    string         `gorm:"type:varchar(100);not null" json:"event_type"`
	Payload      datatypes.JSON `gorm:"type:jsonb;not null" json:"payload"`
	Processed    bool           `gorm:"default:false;index" json:"processed"`
	ProcessedAt  *time.Time     `json:"processed_at"`
	ErrorMessage string         `gorm:"type:text" json:"error_message"`
	CreatedAt    time.Time      `json:"created_at"`
}

func (WhatsAppWebhookModel) TableName() string {
	return "whatsapp_webhooks"
}

func (w *WhatsAppWebhookModel) BeforeCreate(tx *gorm.DB) error {
	newID(&w.ID)
	return nil
}

type BirthdayPromotionModel struct {
	ID                string                                       `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID        string                                       `gorm:"type:uuid;not null;index" json:"customer_id"`
	KidID             *string                                      `gorm:"type:uuid" json:"kid_id"`
	PromotionType     string                                       `gorm:"type:varchar(50);not null" json:"promotion_type"`
	BirthdayDate      time.Time                                    `gorm:"type:date;not null" json:"birthday_date"`
	ScheduledDate     time.Time                                    `gorm:"not null" json:"scheduled_date"`
	SentDate          *time.Time                                   `json:"sent_date"`
	Status            string                                       `gorm:"type:varchar(20);default:'scheduled'" json:"status"`
	PromotionCode     string                                       `gorm:"type:varchar(100);uniqueIndex;not null" json:"promotion_code"`
	DiscountAmount    string                                       `gorm:"type:varchar(50)" json:"discount_amount"`
	MessageContent    string                                       `gorm:"type:text" json:"message_content"`
	TemplateID        *string                                      `gorm:"type:uuid" json:"template_id"`
	WhatsAppMessageID *string                                      `gorm:"column:whatsapp_message_id;type:uuid" json:"whatsapp_message_id"`
	IsRecurring       bool                                         `gorm:"default:true" json:"is_recurring"`
	Metadata          datatypes.JSONType[entity.PromotionMetadata] `gorm:"type:jsonb" json:"metadata"`
	CreatedBy         *string                                      `gorm:"type:uuid" json:"created_by"`
	CreatedAt         time.Time                                    `json:"created_at"`
}

func (BirthdayPromotionModel) TableName() string {
	return "birthday_promotions"
}

func (p *BirthdayPromotionModel) BeforeCreate(tx *gorm.DB) error {
	newID(&p.ID)
	return nil
}
