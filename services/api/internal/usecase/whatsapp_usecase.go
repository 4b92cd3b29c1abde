package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"loyalty-hub/pkg/config"
	"loyalty-hub/pkg/errs"
	"loyalty-hub/pkg/logger"
	"loyalty-hub/pkg/metrics"
	"loyalty-hub/pkg/queue"
	"loyalty-hub/pkg/s3"
	"loyalty-hub/pkg/whatsapp"
	"loyalty-hub/services/api/internal/entity"
	"loyalty-hub/services/api/internal/repo/persistent"

	"github.com/google/uuid"
)

const (
	webhookDedupPrefix     = "whatsapp_webhook:"
	webhookDedupTTL        = 24 * time.Hour
	birthdayDiscount       = "10%"
	birthdayCodePrefix     = "BDAY"
	whatsappMediaPrefix    = "whatsapp"
	maxMessageContentRunes = 4096
)

type WhatsAppUseCase interface {
	SendMessage(ctx context.Context, msg entity.OutboundMessage) (*entity.WhatsAppMessage, error)
	SendTemplate(ctx context.Context, msg entity.TemplateMessage) (*entity.WhatsAppMessage, error)

	CreateTemplate(ctx context.Context, tpl *entity.NotificationTemplate) (*entity.NotificationTemplate, error)
	UpdateTemplate(ctx context.Context, id string, update entity.TemplateUpdate) (*entity.NotificationTemplate, error)
	ListTemplates(ctx context.Context, category entity.TemplateCategory, activeOnly bool) ([]*entity.NotificationTemplate, error)

	VerifyWebhook(mode, token, challenge string) (string, error)
	HandleWebhook(ctx context.Context, body []byte) (*entity.WebhookResult, error)

	SendPointsNotification(ctx context.Context, customer *entity.Customer, points int, reason string) (*entity.WhatsAppMessage, error)
	SendTierUpgradeNotification(ctx context.Context, customer *entity.Customer, newTier entity.Tier) (*entity.WhatsAppMessage, error)
	SendRedemptionNotification(ctx context.Context, customer *entity.Customer, rewardName, code string) (*entity.WhatsAppMessage, error)
	SendBirthdayMessage(ctx context.Context, customer *entity.Customer, kid *entity.CustomerKid, code string) (*entity.WhatsAppMessage, error)
	ProcessDailyBirthdays(ctx context.Context, today time.Time) (*entity.BirthdayRunResult, error)

	History(ctx context.Context, customerID string, page entity.Page) (*entity.PageResult[*entity.WhatsAppMessage], error)
	DeliveryStatus(ctx context.Context, messageID string) (*entity.MessageDeliveryStatus, error)
	UploadMedia(ctx context.Context, file io.Reader, filename, contentType string) (string, error)

	HandleEvent(event queue.Event) error
}

type whatsappUseCase struct {
	whatsappRepo persistent.WhatsAppRepository
	customerRepo persistent.CustomerRepository
	sender       MessageSender
	files        FileStore
	store        KeyValueStore
	cfg          *config.Config
	logger       *logger.Logger
}

func NewWhatsAppUseCase(
	whatsappRepo persistent.WhatsAppRepository,
	customerRepo persistent.CustomerRepository,
	sender MessageSender,
	files FileStore,
	store KeyValueStore,
	cfg *config.Config,
	logger *logger.Logger,
) WhatsAppUseCase {
	return &whatsappUseCase{
		whatsappRepo: whatsappRepo,
		customerRepo: customerRepo,
		sender:       sender,
		files:        files,
		store:        store,
		cfg:          cfg,
		logger:       logger,
	}
}

// SendMessage logs the message as pending, then calls the vendor. A vendor
// failure returns the failed record together with the error.
func (uc *whatsappUseCase) SendMessage(ctx context.Context, in entity.OutboundMessage) (*entity.WhatsAppMessage, error) {
	if in.MessageType == "" {
		in.MessageType = entity.MessageText
	}
	if err := validateOutbound(in); err != nil {
		return nil, err
	}

	msg := &entity.WhatsAppMessage{
		CustomerID:     in.CustomerID,
		MessageType:    in.MessageType,
		Direction:      entity.DirectionOutbound,
		Content:        in.Content,
		MediaURL:       in.MediaURL,
		TemplateID:     in.TemplateID,
		RecipientPhone: whatsapp.CleanPhone(in.Phone),
		Status:         entity.MessagePending,
		Metadata:       in.Metadata,
		IsAutomated:    in.IsAutomated,
	}
	if err := uc.whatsappRepo.CreateMessage(ctx, msg); err != nil {
		uc.logger.Error("Failed to log outbound message to %s: %v", msg.RecipientPhone, err)
		return nil, fmt.Errorf("failed to log message: %w", err)
	}

	var (
		result  *whatsapp.SendResult
		sendErr error
	)
	if in.MessageType.IsMedia() {
		result, sendErr = uc.sender.SendMedia(ctx, msg.RecipientPhone, string(in.MessageType), in.MediaURL, in.Content)
	} else {
		result, sendErr = uc.sender.SendText(ctx, msg.RecipientPhone, in.Content)
	}

	now := time.Now().UTC()
	msg.StatusTimestamp = &now
	if sendErr != nil {
		msg.Status = entity.MessageFailed
		msg.ErrorMessage = sendErr.Error()
	} else {
		msg.Status = entity.MessageSent
		msg.WhatsAppMessageID = result.MessageID
		msg.SentAt = &now
	}
	metrics.RecordWhatsAppMessage(string(msg.Status))

	if err := uc.whatsappRepo.UpdateMessage(ctx, msg); err != nil {
		uc.logger.Error("Failed to update message %s: %v", msg.ID, err)
		if sendErr == nil {
			return nil, fmt.Errorf("failed to update message: %w", err)
		}
	}

	if sendErr != nil {
		uc.logger.Warn("WhatsApp send to %s failed: %v", msg.RecipientPhone, sendErr)
		return msg, errs.External("whatsapp", sendErr)
	}
	uc.logger.Info("WhatsApp message %s sent to %s", msg.ID, msg.RecipientPhone)
	return msg, nil
}

func (uc *whatsappUseCase) SendTemplate(ctx context.Context, in entity.TemplateMessage) (*entity.WhatsAppMessage, error) {
	if in.TemplateName == "" {
		return nil, errs.Validation("template_name is required")
	}
	tpl, err := uc.whatsappRepo.GetTemplateByName(ctx, in.TemplateName)
	if err != nil {
		return nil, err
	}
	if !tpl.IsActive {
		return nil, errs.Validation("template %s is not active", tpl.Name)
	}
	return uc.sendFromTemplate(ctx, tpl, in.Phone, in.Variables, in.CustomerID, false)
}

func (uc *whatsappUseCase) sendFromTemplate(ctx context.Context, tpl *entity.NotificationTemplate, phone string, vars map[string]string, customerID *string, automated bool) (*entity.WhatsAppMessage, error) {
	out := entity.OutboundMessage{
		Phone:       phone,
		Content:     RenderTemplate(tpl.Content, vars),
		MessageType: tpl.MessageType,
		MediaURL:    tpl.MediaURL,
		CustomerID:  customerID,
		TemplateID:  &tpl.ID,
		Metadata:    entity.MessageMetadata{TemplateName: tpl.Name, Variables: vars},
		IsAutomated: automated,
	}
	if out.MessageType == entity.MessageTemplate {
		out.MessageType = entity.MessageText
	}

	msg, err := uc.SendMessage(ctx, out)
	if msg != nil {
		if useErr := uc.whatsappRepo.RecordTemplateUse(ctx, tpl.ID, time.Now().UTC()); useErr != nil {
			uc.logger.Warn("Failed to record use of template %s: %v", tpl.Name, useErr)
		}
	}
	return msg, err
}

// RenderTemplate replaces every {{name}} placeholder with its value.
func RenderTemplate(content string, vars map[string]string) string {
	if len(vars) == 0 {
		return content
	}
	pairs := make([]string, 0, len(vars)*2)
	for name, value := range vars {
		pairs = append(pairs, "{{"+name+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(content)
}

func (uc *whatsappUseCase) CreateTemplate(ctx context.Context, tpl *entity.NotificationTemplate) (*entity.NotificationTemplate, error) {
	tpl.Name = strings.TrimSpace(tpl.Name)
	if tpl.Name == "" {
		return nil, errs.Validation("name is required")
	}
	if !tpl.Category.Valid() {
		return nil, errs.Validation("invalid category: %s", tpl.Category)
	}
	if tpl.MessageType == "" {
		tpl.MessageType = entity.MessageText
	}
	if !tpl.MessageType.Valid() {
		return nil, errs.Validation("invalid message_type: %s", tpl.MessageType)
	}
	if strings.TrimSpace(tpl.Content) == "" {
		return nil, errs.Validation("content is required")
	}
	if tpl.Variables == nil {
		tpl.Variables = []string{}
	}

	if _, err := uc.whatsappRepo.GetTemplateByName(ctx, tpl.Name); err == nil {
		return nil, errs.Conflict("template %s already exists", tpl.Name)
	} else if !errors.Is(err, errs.ErrNotFound) {
		return nil, fmt.Errorf("failed to check template name: %w", err)
	}

	if err := uc.whatsappRepo.CreateTemplate(ctx, tpl); err != nil {
		uc.logger.Error("Failed to create template %s: %v", tpl.Name, err)
		return nil, fmt.Errorf("failed to create template: %w", err)
	}
	return tpl, nil
}

func (uc *whatsappUseCase) UpdateTemplate(ctx context.Context, id string, update entity.TemplateUpdate) (*entity.NotificationTemplate, error) {
	tpl, err := uc.whatsappRepo.GetTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	if update.Content != nil {
		if strings.TrimSpace(*update.Content) == "" {
			return nil, errs.Validation("content cannot be empty")
		}
		tpl.Content = *update.Content
	}
	if update.Variables != nil {
		tpl.Variables = update.Variables
	}
	if update.MediaURL != nil {
		tpl.MediaURL = *update.MediaURL
	}
	if update.IsActive != nil {
		tpl.IsActive = *update.IsActive
	}
	if update.IsDefault != nil {
		tpl.IsDefault = *update.IsDefault
	}

	if err := uc.whatsappRepo.UpdateTemplate(ctx, tpl); err != nil {
		uc.logger.Error("Failed to update template %s: %v", id, err)
		return nil, fmt.Errorf("failed to update template: %w", err)
	}
	return tpl, nil
}

func (uc *whatsappUseCase) ListTemplates(ctx context.Context, category entity.TemplateCategory, activeOnly bool) ([]*entity.NotificationTemplate, error) {
	if category != "" && !category.Valid() {
		return nil, errs.Validation("invalid category: %s", category)
	}
	return uc.whatsappRepo.ListTemplates(ctx, category, activeOnly)
}

func (uc *whatsappUseCase) VerifyWebhook(mode, token, challenge string) (string, error) {
	if mode == "subscribe" && uc.cfg.WhatsAppVerifyToken != "" && token == uc.cfg.WhatsAppVerifyToken {
		return challenge, nil
	}
	uc.logger.Warn("Rejected webhook verification with mode %q", mode)
	return "", errs.Forbidden("webhook verification failed")
}

func (uc *whatsappUseCase) HandleWebhook(ctx context.Context, body []byte) (*entity.WebhookResult, error) {
	var payload whatsapp.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errs.Validation("invalid webhook payload")
	}
	if payload.Object != whatsapp.WebhookObject {
		return nil, errs.Validation("unexpected webhook object: %s", payload.Object)
	}

	webhookID := uuid.NewSHA1(uuid.NameSpaceOID, body).String()
	result := &entity.WebhookResult{}

	claimed := false
	if uc.store != nil {
		fresh, err := uc.store.SetNX(ctx, webhookDedupPrefix+webhookID, "1", webhookDedupTTL)
		if err != nil {
			uc.logger.Warn("Webhook de-duplication unavailable: %v", err)
		} else if !fresh {
			result.Duplicate = true
			return result, nil
		}
		claimed = err == nil
	}

	event := &entity.WebhookEvent{
		WebhookID: webhookID,
		EventType: webhookEventType(payload),
		Payload:   body,
	}
	if err := uc.whatsappRepo.CreateWebhook(ctx, event); err != nil {
		if errors.Is(err, errs.ErrConflict) {
			result.Duplicate = true
			return result, nil
		}
		uc.logger.Error("Failed to store webhook %s: %v", webhookID, err)
		// Release the claim so the provider's retry is processed.
		if claimed {
			if delErr := uc.store.Del(ctx, webhookDedupPrefix+webhookID); delErr != nil {
				uc.logger.Warn("Failed to release webhook claim %s: %v", webhookID, delErr)
			}
		}
		return nil, fmt.Errorf("failed to store webhook: %w", err)
	}

	var processErr error
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			if change.Field != whatsapp.WebhookFieldMessage {
				continue
			}
			stored, updated, err := uc.applyChange(ctx, change.Value)
			result.MessagesStored += stored
			result.StatusesUpdated += updated
			if err != nil && processErr == nil {
				processErr = err
			}
		}
	}

	if err := uc.whatsappRepo.MarkWebhookProcessed(ctx, webhookID, processErr, time.Now().UTC()); err != nil {
		uc.logger.Error("Failed to mark webhook %s processed: %v", webhookID, err)
	}
	if processErr != nil {
		uc.logger.Error("Webhook %s processed with errors: %v", webhookID, processErr)
	}
	return result, nil
}

func (uc *whatsappUseCase) applyChange(ctx context.Context, value whatsapp.WebhookValue) (int, int, error) {
	var (
		stored, updated int
		firstErr        error
	)
	names := make(map[string]string, len(value.Contacts))
	for _, contact := range value.Contacts {
		names[contact.WaID] = contact.Profile.Name
	}

	for _, in := range value.Messages {
		if err := uc.storeInbound(ctx, in, names[in.From]); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		stored++
	}
	for _, status := range value.Statuses {
		ok, err := uc.applyStatus(ctx, status)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if ok {
			updated++
		}
	}
	return stored, updated, firstErr
}

func (uc *whatsappUseCase) storeInbound(ctx context.Context, in whatsapp.InboundMessage, contactName string) error {
	received := whatsapp.ParseTimestamp(in.Timestamp)
	msg := &entity.WhatsAppMessage{
		MessageType:       inboundType(in.Type),
		Direction:         entity.DirectionInbound,
		Content:           in.Content(),
		WhatsAppMessageID: in.ID,
		RecipientPhone:    whatsapp.CleanPhone(in.From),
		Status:            entity.MessageDelivered,
		StatusTimestamp:   &received,
		DeliveredAt:       &received,
		Metadata:          entity.MessageMetadata{ContactName: contactName, MediaID: inboundMediaID(in)},
	}
	if customer := uc.customerByPhone(ctx, in.From); customer != nil {
		msg.CustomerID = &customer.ID
		msg.UserID = &customer.UserID
	}

	if err := uc.whatsappRepo.CreateMessage(ctx, msg); err != nil {
		return fmt.Errorf("failed to store inbound message %s: %w", in.ID, err)
	}
	return nil
}

func (uc *whatsappUseCase) customerByPhone(ctx context.Context, from string) *entity.Customer {
	phone := whatsapp.CleanPhone(from)
	if phone == "" {
		return nil
	}
	for _, candidate := range []string{phone, "+" + phone} {
		customer, err := uc.customerRepo.FindByContact(ctx, "", candidate)
		if err == nil {
			return customer
		}
		if !errors.Is(err, errs.ErrNotFound) {
			uc.logger.Warn("Failed to match inbound phone %s: %v", phone, err)
			return nil
		}
	}
	return nil
}

func (uc *whatsappUseCase) applyStatus(ctx context.Context, status whatsapp.MessageStatus) (bool, error) {
	msg, err := uc.whatsappRepo.GetMessageByWhatsAppID(ctx, status.ID)
	if errors.Is(err, errs.ErrNotFound) {
		uc.logger.Debug("Status %s for unknown message %s", status.Status, status.ID)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load message %s: %w", status.ID, err)
	}

	at := whatsapp.ParseTimestamp(status.Timestamp)
	switch entity.MessageStatus(status.Status) {
	case entity.MessageSent:
		msg.Status = entity.MessageSent
		if msg.SentAt == nil {
			msg.SentAt = &at
		}
	case entity.MessageDelivered:
		msg.Status = entity.MessageDelivered
		msg.DeliveredAt = &at
	case entity.MessageRead:
		msg.Status = entity.MessageRead
		msg.ReadAt = &at
		if msg.DeliveredAt == nil {
			msg.DeliveredAt = &at
		}
	case entity.MessageFailed:
		msg.Status = entity.MessageFailed
		if len(status.Errors) > 0 {
			msg.ErrorMessage = statusErrorText(status.Errors[0])
		}
	default:
		return false, nil
	}
	msg.StatusTimestamp = &at
	metrics.RecordWhatsAppMessage(string(msg.Status))

	if err := uc.whatsappRepo.UpdateMessage(ctx, msg); err != nil {
		return false, fmt.Errorf("failed to update message %s: %w", msg.ID, err)
	}
	return true, nil
}

func (uc *whatsappUseCase) SendPointsNotification(ctx context.Context, customer *entity.Customer, points int, reason string) (*entity.WhatsAppMessage, error) {
	vars := map[string]string{
		"name":         customerFirstName(customer),
		"points":       fmt.Sprintf("%d", points),
		"total_points": fmt.Sprintf("%d", customer.TotalPoints),
		"reason":       reason,
	}
	fallback := fmt.Sprintf("Hi %s! You earned %d points for %s. Your balance is now %d points.",
		vars["name"], points, reason, customer.TotalPoints)
	return uc.notify(ctx, customer, entity.TemplateLoyalty, vars, fallback, "points_awarded")
}

func (uc *whatsappUseCase) SendTierUpgradeNotification(ctx context.Context, customer *entity.Customer, newTier entity.Tier) (*entity.WhatsAppMessage, error) {
	vars := map[string]string{
		"name": customerFirstName(customer),
		"tier": newTier.Title(),
	}
	fallback := fmt.Sprintf("Congratulations %s! You have been upgraded to %s tier. Enjoy your new benefits!",
		vars["name"], vars["tier"])
	return uc.notify(ctx, customer, entity.TemplateLoyalty, vars, fallback, "tier_upgraded")
}

func (uc *whatsappUseCase) SendRedemptionNotification(ctx context.Context, customer *entity.Customer, rewardName, code string) (*entity.WhatsAppMessage, error) {
	vars := map[string]string{
		"name":   customerFirstName(customer),
		"reward": rewardName,
		"code":   code,
	}
	fallback := fmt.Sprintf("Hi %s! Your redemption of %s is confirmed. Your code is %s.",
		vars["name"], rewardName, code)
	return uc.notify(ctx, customer, entity.TemplateLoyalty, vars, fallback, "reward_redeemed")
}

func (uc *whatsappUseCase) SendBirthdayMessage(ctx context.Context, customer *entity.Customer, kid *entity.CustomerKid, code string) (*entity.WhatsAppMessage, error) {
	vars := map[string]string{
		"name":     customerFirstName(customer),
		"code":     code,
		"discount": birthdayDiscount,
	}
	var fallback string
	if kid != nil {
		vars["kid_name"] = kid.Name
		fallback = fmt.Sprintf("Happy birthday to %s! Celebrate with %s off using code %s.", kid.Name, birthdayDiscount, code)
	} else {
		fallback = fmt.Sprintf("Happy birthday %s! Enjoy %s off with code %s.", vars["name"], birthdayDiscount, code)
	}
	return uc.notify(ctx, customer, entity.TemplateBirthday, vars, fallback, "birthday")
}

// notify sends the first active template of the category, or the fallback text
// when the category has none.
func (uc *whatsappUseCase) notify(ctx context.Context, customer *entity.Customer, category entity.TemplateCategory, vars map[string]string, fallback, event string) (*entity.WhatsAppMessage, error) {
	phone := customerPhone(customer)
	if phone == "" {
		return nil, errs.Validation("customer %s has no phone number", customer.ID)
	}

	tpl, err := uc.whatsappRepo.FirstActiveTemplate(ctx, category)
	switch {
	case err == nil:
		return uc.sendFromTemplate(ctx, tpl, phone, vars, &customer.ID, true)
	case !errors.Is(err, errs.ErrNotFound):
		uc.logger.Warn("Failed to load %s template, using built-in text: %v", category, err)
	}

	return uc.SendMessage(ctx, entity.OutboundMessage{
		Phone:       phone,
		Content:     fallback,
		MessageType: entity.MessageText,
		CustomerID:  &customer.ID,
		Metadata:    entity.MessageMetadata{Event: event, Variables: vars},
		IsAutomated: true,
	})
}

func (uc *whatsappUseCase) ProcessDailyBirthdays(ctx context.Context, today time.Time) (*entity.BirthdayRunResult, error) {
	candidates, err := uc.customerRepo.BirthdayCandidates(ctx, today)
	if err != nil {
		uc.logger.Error("Failed to load birthday candidates: %v", err)
		return nil, fmt.Errorf("failed to load birthday candidates: %w", err)
	}

	result := &entity.BirthdayRunResult{}
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			result.Errors = append(result.Errors, err.Error())
			break
		}
		result.Processed++

		sent, err := uc.processBirthday(ctx, candidate, today)
		switch {
		case err != nil:
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("customer %s: %v", candidate.Customer.ID, err))
		case sent:
			result.Sent++
		default:
			result.Skipped++
		}
	}

	uc.logger.Info("Birthday run for %s: processed=%d sent=%d failed=%d skipped=%d",
		today.Format("2006-01-02"), result.Processed, result.Sent, result.Failed, result.Skipped)
	return result, nil
}

func (uc *whatsappUseCase) processBirthday(ctx context.Context, candidate entity.BirthdayCandidate, today time.Time) (bool, error) {
	customer := candidate.Customer
	var kidID *string
	if candidate.Kid != nil {
		kidID = &candidate.Kid.ID
	}

	exists, err := uc.whatsappRepo.PromotionExists(ctx, customer.ID, kidID, today.Year())
	if err != nil {
		return false, fmt.Errorf("failed to check promotion: %w", err)
	}
	if exists {
		return false, nil
	}

	suffix, err := randomHex(4)
	if err != nil {
		return false, fmt.Errorf("failed to generate code: %w", err)
	}
	code := birthdayCodePrefix + strings.ToUpper(suffix)

	promo := &entity.BirthdayPromotion{
		CustomerID:     customer.ID,
		KidID:          kidID,
		PromotionType:  entity.PromotionTypeCustomerBirthday,
		ScheduledDate:  today,
		Status:         entity.PromotionScheduled,
		PromotionCode:  code,
		DiscountAmount: birthdayDiscount,
		IsRecurring:    true,
		Metadata:       entity.PromotionMetadata{CustomerName: customerName(customer), Year: today.Year()},
	}
	if candidate.Kid != nil {
		promo.PromotionType = entity.PromotionTypeKidBirthday
		promo.BirthdayDate = candidate.Kid.DateOfBirth
		promo.Metadata.KidName = candidate.Kid.Name
	} else if customer.DateOfBirth != nil {
		promo.BirthdayDate = *customer.DateOfBirth
	}
	if err := uc.whatsappRepo.CreatePromotion(ctx, promo); err != nil {
		return false, fmt.Errorf("failed to create promotion: %w", err)
	}

	msg, sendErr := uc.SendBirthdayMessage(ctx, customer, candidate.Kid, code)
	if msg != nil {
		promo.WhatsAppMessageID = &msg.ID
		promo.MessageContent = msg.Content
		promo.TemplateID = msg.TemplateID
	}
	if sendErr != nil {
		promo.Status = entity.PromotionFailed
	} else {
		now := time.Now().UTC()
		promo.Status = entity.PromotionSent
		promo.SentDate = &now
	}
	if err := uc.whatsappRepo.UpdatePromotion(ctx, promo); err != nil {
		uc.logger.Error("Failed to update promotion %s: %v", promo.ID, err)
	}

	if sendErr != nil {
		return false, sendErr
	}
	return true, nil
}

func (uc *whatsappUseCase) History(ctx context.Context, customerID string, page entity.Page) (*entity.PageResult[*entity.WhatsAppMessage], error) {
	if _, err := uc.customerRepo.GetByID(ctx, customerID); err != nil {
		return nil, err
	}
	page = page.Normalize()
	messages, total, err := uc.whatsappRepo.ListMessages(ctx, customerID, page)
	if err != nil {
		uc.logger.Error("Failed to list messages for customer %s: %v", customerID, err)
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return entity.NewPageResult(messages, total, page), nil
}

func (uc *whatsappUseCase) DeliveryStatus(ctx context.Context, messageID string) (*entity.MessageDeliveryStatus, error) {
	msg, err := uc.whatsappRepo.GetMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	return &entity.MessageDeliveryStatus{
		MessageID:         msg.ID,
		WhatsAppMessageID: msg.WhatsAppMessageID,
		Status:            msg.Status,
		SentAt:            msg.SentAt,
		DeliveredAt:       msg.DeliveredAt,
		ReadAt:            msg.ReadAt,
		ErrorMessage:      msg.ErrorMessage,
	}, nil
}

func (uc *whatsappUseCase) UploadMedia(ctx context.Context, file io.Reader, filename, contentType string) (string, error) {
	if filename == "" {
		return "", errs.Validation("file is required")
	}
	url, err := uc.files.UploadFile(s3.ObjectKey(whatsappMediaPrefix, filename), file, contentType)
	if err != nil {
		uc.logger.Error("Failed to upload media %s: %v", filename, err)
		return "", errs.External("object storage", err)
	}
	return url, nil
}

// HandleEvent is the queue consumer callback. Events for customers without a
// phone number are dropped.
func (uc *whatsappUseCase) HandleEvent(event queue.Event) error {
	ctx := context.Background()
	uc.logger.Info("[EVENT QUEUE] Handling %s event: customer_id=%s", event.Type, event.CustomerID)

	customer, err := uc.customerRepo.GetByID(ctx, event.CustomerID)
	if err != nil {
		return fmt.Errorf("failed to load customer %s: %w", event.CustomerID, err)
	}
	if customerPhone(customer) == "" {
		uc.logger.Debug("[EVENT QUEUE] Customer %s has no phone, skipping", customer.ID)
		return nil
	}

	switch event.Type {
	case queue.EventPointsAwarded:
		_, err = uc.SendPointsNotification(ctx, customer, event.Points, event.Reason)
	case queue.EventTierUpgraded:
		_, err = uc.SendTierUpgradeNotification(ctx, customer, entity.Tier(event.NewTier))
	case queue.EventRewardRedeemed:
		_, err = uc.SendRedemptionNotification(ctx, customer, event.RewardName, event.RedemptionCode)
	default:
		uc.logger.Warn("[EVENT QUEUE] Unknown event type %s", event.Type)
		return nil
	}

	// A vendor failure is already recorded on the message row; redelivery would
	// only repeat it.
	if err != nil && !errors.Is(err, errs.ErrExternalService) {
		return err
	}
	return nil
}

func validateOutbound(in entity.OutboundMessage) error {
	if whatsapp.CleanPhone(in.Phone) == "" {
		return errs.Validation("phone is required")
	}
	if !in.MessageType.Valid() || in.MessageType == entity.MessageTemplate {
		return errs.Validation("invalid message_type: %s", in.MessageType)
	}
	if in.MessageType.IsMedia() {
		if in.MediaURL == "" {
			return errs.Validation("media_url is required for %s messages", in.MessageType)
		}
	} else if strings.TrimSpace(in.Content) == "" {
		return errs.Validation("content is required")
	}
	if len([]rune(in.Content)) > maxMessageContentRunes {
		return errs.Validation("content must be at most %d characters", maxMessageContentRunes)
	}
	return nil
}

func webhookEventType(payload whatsapp.WebhookPayload) string {
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			if len(change.Value.Messages) > 0 {
				return "message"
			}
			if len(change.Value.Statuses) > 0 {
				return "status"
			}
		}
	}
	return "unknown"
}

func inboundType(vendorType string) entity.MessageType {
	t := entity.MessageType(vendorType)
	if t.Valid() && t != entity.MessageTemplate {
		return t
	}
	return entity.MessageText
}

func inboundMediaID(in whatsapp.InboundMessage) string {
	for _, media := range []*whatsapp.InboundMedia{in.Image, in.Document, in.Audio, in.Video} {
		if media != nil {
			return media.ID
		}
	}
	return ""
}

func statusErrorText(e whatsapp.StatusError) string {
	if e.Message != "" {
		return fmt.Sprintf("%d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%d: %s", e.Code, e.Title)
}

func customerPhone(c *entity.Customer) string {
	if c == nil || c.User == nil {
		return ""
	}
	return c.User.Phone
}

func customerName(c *entity.Customer) string {
	if c == nil || c.User == nil {
		return ""
	}
	return c.User.Name
}

func customerFirstName(c *entity.Customer) string {
	if c == nil || c.User == nil {
		return "there"
	}
	if first := c.User.FirstName(); first != "" {
		return first
	}
	return "there"
}
