package persistent

import (
	"context"
	"time"

	"loyalty-hub/pkg/errs"
	"loyalty-hub/services/api/internal/entity"
	"loyalty-hub/services/api/internal/model"

	"gorm.io/gorm"
)

type WhatsAppRepository interface {
	CreateMessage(ctx context.Context, msg *entity.WhatsAppMessage) error
	UpdateMessage(ctx context.Context, msg *entity.WhatsAppMessage) error
	GetMessage(ctx context.Context, id string) (*entity.WhatsAppMessage, error)
	GetMessageByWhatsAppID(ctx context.Context, waID string) (*entity.WhatsAppMessage, error)
	ListMessages(ctx context.Context, customerID string, page entity.Page) ([]*entity.WhatsAppMessage, int64, error)

	CreateTemplate(ctx context.Context, tpl *entity.NotificationTemplate) error
	GetTemplate(ctx context.Context, id string) (*entity.NotificationTemplate, error)
	GetTemplateByName(ctx context.Context, name string) (*entity.NotificationTemplate, error)
	UpdateTemplate(ctx context.Context, tpl *entity.NotificationTemplate) error
	ListTemplates(ctx context.Context, category entity.TemplateCategory, activeOnly bool) ([]*entity.NotificationTemplate, error)
	FirstActiveTemplate(ctx context.Context, category entity.TemplateCategory) (*entity.NotificationTemplate, error)
	RecordTemplateUse(ctx context.Context, id string, now time.Time) error

	CreateWebhook(ctx context.Context, event *entity.WebhookEvent) error
	MarkWebhookProcessed(ctx context.Context, webhookID string, processErr error, now time.Time) error

	CreatePromotion(ctx context.Context, promo *entity.BirthdayPromotion) error
	UpdatePromotion(ctx context.Context, promo *entity.BirthdayPromotion) error
	PromotionExists(ctx context.Context, customerID string, kidID *string, year int) (bool, error)
}

type whatsappRepository struct {
	db *gorm.DB
}

func NewWhatsAppRepository(db *gorm.DB) WhatsAppRepository {
	return &whatsappRepository{db: db}
}

func (r *whatsappRepository) CreateMessage(ctx context.Context, msg *entity.WhatsAppMessage) error {
	msgModel := ToMessageModel(msg)
	if err := r.db.WithContext(ctx).Create(msgModel).Error; err != nil {
		return translate(err, "message")
	}
	*msg = *ToMessageEntity(msgModel)
	return nil
}

func (r *whatsappRepository) UpdateMessage(ctx context.Context, msg *entity.WhatsAppMessage) error {
	msgModel := ToMessageModel(msg)
	msgModel.UpdatedAt = time.Now().UTC()
	err := r.db.WithContext(ctx).Model(msgModel).
		Select("whatsapp_message_id", "status", "status_timestamp", "error_message", "metadata",
			"sent_at", "delivered_at", "read_at", "updated_at").
		Updates(msgModel).Error
	if err != nil {
		return translate(err, "message")
	}
	msg.UpdatedAt = msgModel.UpdatedAt
	return nil
}

func (r *whatsappRepository) GetMessage(ctx context.Context, id string) (*entity.WhatsAppMessage, error) {
	var msgModel model.WhatsAppMessageModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&msgModel).Error; err != nil {
		return nil, translate(err, "message")
	}
	return ToMessageEntity(&msgModel), nil
}

func (r *whatsappRepository) GetMessageByWhatsAppID(ctx context.Context, waID string) (*entity.WhatsAppMessage, error) {
	var msgModel model.WhatsAppMessageModel
	err := r.db.WithContext(ctx).
		Where("whatsapp_message_id = ? AND direction = ?", waID, entity.DirectionOutbound).
		First(&msgModel).Error
	if err != nil {
		return nil, translate(err, "message")
	}
	return ToMessageEntity(&msgModel), nil
}

func (r *whatsappRepository) ListMessages(ctx context.Context, customerID string, page entity.Page) ([]*entity.WhatsAppMessage, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.WhatsAppMessageModel{}).Where("customer_id = ?", customerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var msgModels []model.WhatsAppMessageModel
	if err := paginate(query.Order("created_at DESC"), page).Find(&msgModels).Error; err != nil {
		return nil, 0, err
	}

	messages := make([]*entity.WhatsAppMessage, len(msgModels))
	for i := range msgModels {
		messages[i] = ToMessageEntity(&msgModels[i])
	}
	return messages, total, nil
}

func (r *whatsappRepository) CreateTemplate(ctx context.Context, tpl *entity.NotificationTemplate) error {
	tplModel := ToTemplateModel(tpl)
	// IsActive carries a column default; write it explicitly so false survives.
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(tplModel).Error; err != nil {
			return translate(err, "template")
		}
		if !tpl.IsActive {
			return tx.Model(tplModel).Update("is_active", false).Error
		}
		return nil
	})
	if err != nil {
		return err
	}
	*tpl = *ToTemplateEntity(tplModel)
	return nil
}

func (r *whatsappRepository) GetTemplate(ctx context.Context, id string) (*entity.NotificationTemplate, error) {
	var tplModel model.NotificationTemplateModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&tplModel).Error; err != nil {
		return nil, translate(err, "template")
	}
	return ToTemplateEntity(&tplModel), nil
}

func (r *whatsappRepository) GetTemplateByName(ctx context.Context, name string) (*entity.NotificationTemplate, error) {
	var tplModel model.NotificationTemplateModel
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&tplModel).Error; err != nil {
		return nil, translate(err, "template")
	}
	return ToTemplateEntity(&tplModel), nil
}

func (r *whatsappRepository) UpdateTemplate(ctx context.Context, tpl *entity.NotificationTemplate) error {
	tplModel := ToTemplateModel(tpl)
	tplModel.UpdatedAt = time.Now().UTC()
	err := r.db.WithContext(ctx).Model(tplModel).
		Select("content", "variables", "media_url", "is_active", "is_default", "updated_at").
		Updates(tplModel).Error
	if err != nil {
		return translate(err, "template")
	}
	tpl.UpdatedAt = tplModel.UpdatedAt
	return nil
}

func (r *whatsappRepository) ListTemplates(ctx context.Context, category entity.TemplateCategory, activeOnly bool) ([]*entity.NotificationTemplate, error) {
	query := r.db.WithContext(ctx).Model(&model.NotificationTemplateModel{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var tplModels []model.NotificationTemplateModel
	if err := query.Order("category ASC, name ASC").Find(&tplModels).Error; err != nil {
		return nil, err
	}

	templates := make([]*entity.NotificationTemplate, len(tplModels))
	for i := range tplModels {
		templates[i] = ToTemplateEntity(&tplModels[i])
	}
	return templates, nil
}

// FirstActiveTemplate prefers the category default, then the oldest active template.
func (r *whatsappRepository) FirstActiveTemplate(ctx context.Context, category entity.TemplateCategory) (*entity.NotificationTemplate, error) {
	var tplModel model.NotificationTemplateModel
	err := r.db.WithContext(ctx).
		Where("category = ? AND is_active = ?", category, true).
		Order("is_default DESC, created_at ASC").
		First(&tplModel).Error
	if err != nil {
		return nil, translate(err, "template")
	}
	return ToTemplateEntity(&tplModel), nil
}

func (r *whatsappRepository) RecordTemplateUse(ctx context.Context, id string, now time.Time) error {
	return r.db.WithContext(ctx).Model(&model.NotificationTemplateModel{}).Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"usage_count": gorm.Expr("usage_count + 1"),
			"last_used":   now,
		}).Error
}

// CreateWebhook stores a raw webhook delivery. A repeated webhook id yields a conflict.
func (r *whatsappRepository) CreateWebhook(ctx context.Context, event *entity.WebhookEvent) error {
	webhookModel := ToWebhookModel(event)
	if err := r.db.WithContext(ctx).Create(webhookModel).Error; err != nil {
		return translate(err, "webhook")
	}
	event.ID = webhookModel.ID
	event.CreatedAt = webhookModel.CreatedAt
	return nil
}

func (r *whatsappRepository) MarkWebhookProcessed(ctx context.Context, webhookID string, processErr error, now time.Time) error {
	updates := map[string]interface{}{"processed": true, "processed_at": now}
	if processErr != nil {
		updates["error_message"] = processErr.Error()
	}
	res := r.db.WithContext(ctx).Model(&model.WhatsAppWebhookModel{}).Where("webhook_id = ?", webhookID).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("webhook")
	}
	return nil
}

func (r *whatsappRepository) CreatePromotion(ctx context.Context, promo *entity.BirthdayPromotion) error {
	promoModel := ToPromotionModel(promo)
	if err := r.db.WithContext(ctx).Create(promoModel).Error; err != nil {
		return translate(err, "promotion")
	}
	*promo = *ToPromotionEntity(promoModel)
	return nil
}

func (r *whatsappRepository) UpdatePromotion(ctx context.Context, promo *entity.BirthdayPromotion) error {
	promoModel := ToPromotionModel(promo)
	return r.db.WithContext(ctx).Model(promoModel).
		Select("status", "sent_date", "message_content", "template_id", "whatsapp_message_id").
		Updates(promoModel).Error
}

// PromotionExists reports whether a birthday promotion was already created for
// the customer (or the given kid) in year.
func (r *whatsappRepository) PromotionExists(ctx context.Context, customerID string, kidID *string, year int) (bool, error) {
	query := r.db.WithContext(ctx).Model(&model.BirthdayPromotionModel{}).
		Where("customer_id = ? AND EXTRACT(YEAR FROM birthday_date) = ?", customerID, year).
		Where("status <> ?", entity.PromotionCancelled)
	if kidID != nil {
		query = query.Where("kid_id = ?", *kidID)
	} else {
		query = query.Where("kid_id IS NULL")
	}

	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}
