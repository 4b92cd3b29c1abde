package usecase

import (
	"context"
	"fmt"
	"time"

	"loyalty-hub/pkg/config"
	"loyalty-hub/pkg/errs"
	"loyalty-hub/pkg/logger"
	"loyalty-hub/pkg/metrics"
	"loyalty-hub/pkg/queue"
	"loyalty-hub/services/api/internal/entity"
	"loyalty-hub/services/api/internal/repo/persistent"
)

const expiryBatchSize = 500

type LoyaltyUseCase interface {
	AwardPoints(ctx context.Context, award entity.PointsAward) (*entity.PointsResult, error)
	DeductPoints(ctx context.Context, deduction entity.PointsDeduction) (*entity.PointsResult, error)
	AdjustPoints(ctx context.Context, customerID string, points int, description, actorID string) (*entity.PointsResult, error)
	TransferPoints(ctx context.Context, fromID, toID string, points int, description string) (*entity.TransferResult, error)
	GetSummary(ctx context.Context, customerID string) (*entity.PointsSummary, error)
	History(ctx context.Context, customerID string, filter entity.TransactionFilter, page entity.Page) (*entity.PageResult[*entity.LoyaltyTransaction], error)
	ExpirePoints(ctx context.Context, now time.Time) (*entity.ExpiryResult, error)
}

type loyaltyUseCase struct {
	customerRepo persistent.CustomerRepository
	loyaltyRepo  persistent.LoyaltyRepository
	tiers        TierUseCase
	publisher    EventPublisher
	cfg          *config.Config
	logger       *logger.Logger
}

func NewLoyaltyUseCase(
	customerRepo persistent.CustomerRepository,
	loyaltyRepo persistent.LoyaltyRepository,
	tiers TierUseCase,
	publisher EventPublisher,
	cfg *config.Config,
	logger *logger.Logger,
) LoyaltyUseCase {
	return &loyaltyUseCase{
		customerRepo: customerRepo,
		loyaltyRepo:  loyaltyRepo,
		tiers:        tiers,
		publisher:    publisher,
		cfg:          cfg,
		logger:       logger,
	}
}

func (uc *loyaltyUseCase) AwardPoints(ctx context.Context, award entity.PointsAward) (*entity.PointsResult, error) {
	if award.Points <= 0 {
		return nil, errs.Validation("points must be positive")
	}
	if award.Source == "" {
		award.Source = entity.SourcePurchase
	}
	if !award.Source.Valid() {
		return nil, errs.Validation("invalid source: %s", award.Source)
	}

	customer, err := uc.customerRepo.GetByID(ctx, award.CustomerID)
	if err != nil {
		return nil, err
	}

	expiresAt := award.ExpiresAt
	if expiresAt == nil && uc.cfg.PointsExpiryDays > 0 {
		at := time.Now().UTC().AddDate(0, 0, uc.cfg.PointsExpiryDays)
		expiresAt = &at
	}

	t := &entity.LoyaltyTransaction{
		UserID:      customer.UserID,
		CustomerID:  customer.ID,
		ERPSaleID:   award.ERPSaleID,
		Points:      award.Points,
		Type:        entity.TransactionEarned,
		Source:      award.Source,
		Description: award.Description,
		ReferenceID: award.ReferenceID,
		Metadata:    award.Metadata,
		ExpiresAt:   expiresAt,
	}
	if t.Description == "" {
		t.Description = fmt.Sprintf("Points earned from %s", award.Source)
	}

	updated, err := uc.loyaltyRepo.Apply(ctx, t)
	if err != nil {
		uc.logger.Error("Failed to award points to customer %s: %v", award.CustomerID, err)
		return nil, fmt.Errorf("failed to award points: %w", err)
	}
	metrics.RecordPoints(string(entity.TransactionEarned), award.Points)

	result := &entity.PointsResult{Transaction: t, Customer: updated}
	result.TierChange = uc.evaluateTier(ctx, updated)

	publishEvent(ctx, uc.publisher, uc.logger, queue.Event{
		Type:        queue.EventPointsAwarded,
		CustomerID:  updated.ID,
		Points:      award.Points,
		TotalPoints: updated.TotalPoints,
		Reason:      t.Description,
		Priority:    5,
	})
	return result, nil
}

func (uc *loyaltyUseCase) DeductPoints(ctx context.Context, deduction entity.PointsDeduction) (*entity.PointsResult, error) {
	if deduction.Points <= 0 {
		return nil, errs.Validation("points must be positive")
	}
	if deduction.Source == "" {
		deduction.Source = entity.SourceManual
	}
	if !deduction.Source.Valid() {
		return nil, errs.Validation("invalid source: %s", deduction.Source)
	}

	customer, err := uc.customerRepo.GetByID(ctx, deduction.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer.TotalPoints < deduction.Points {
		return nil, errs.InsufficientBalance(customer.TotalPoints, deduction.Points)
	}

	t := &entity.LoyaltyTransaction{
		UserID:      customer.UserID,
		CustomerID:  customer.ID,
		Points:      -deduction.Points,
		Type:        entity.TransactionRedeemed,
		Source:      deduction.Source,
		Description: deduction.Description,
		ReferenceID: deduction.ReferenceID,
		Metadata:    deduction.Metadata,
	}

	updated, err := uc.loyaltyRepo.Apply(ctx, t)
	if err != nil {
		uc.logger.Error("Failed to deduct points from customer %s: %v", deduction.CustomerID, err)
		return nil, fmt.Errorf("failed to deduct points: %w", err)
	}
	metrics.RecordPoints(string(entity.TransactionRedeemed), deduction.Points)

	return &entity.PointsResult{Transaction: t, Customer: updated}, nil
}

// AdjustPoints applies a signed manual correction. The result may not go below zero.
func (uc *loyaltyUseCase) AdjustPoints(ctx context.Context, customerID string, points int, description, actorID string) (*entity.PointsResult, error) {
	if points == 0 {
		return nil, errs.Validation("adjustment must not be zero")
	}

	customer, err := uc.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if description == "" {
		description = "Manual points adjustment"
	}

	t := &entity.LoyaltyTransaction{
		UserID:      customer.UserID,
		CustomerID:  customer.ID,
		Points:      points,
		Type:        entity.TransactionAdjustment,
		Source:      entity.SourceManual,
		Description: description,
		Metadata:    entity.TransactionMetadata{ActorID: actorID},
	}

	updated, err := uc.loyaltyRepo.Apply(ctx, t)
	if err != nil {
		uc.logger.Error("Failed to adjust points for customer %s: %v", customerID, err)
		return nil, fmt.Errorf("failed to adjust points: %w", err)
	}
	metrics.RecordPoints(string(entity.TransactionAdjustment), points)

	result := &entity.PointsResult{Transaction: t, Customer: updated}
	if points > 0 {
		result.TierChange = uc.evaluateTier(ctx, updated)
	}
	return result, nil
}

func (uc *loyaltyUseCase) TransferPoints(ctx context.Context, fromID, toID string, points int, description string) (*entity.TransferResult, error) {
	if fromID == toID {
		return nil, errs.Validation("cannot transfer points to the same customer")
	}
	if points <= 0 {
		return nil, errs.Validation("points must be positive")
	}

	sender, err := uc.customerRepo.GetByID(ctx, fromID)
	if err != nil {
		return nil, err
	}
	receiver, err := uc.customerRepo.GetByID(ctx, toID)
	if err != nil {
		return nil, err
	}
	if sender.TotalPoints < points {
		return nil, errs.InsufficientBalance(sender.TotalPoints, points)
	}
	if description == "" {
		description = "Points transfer"
	}

	debit := &entity.LoyaltyTransaction{
		UserID:      sender.UserID,
		CustomerID:  sender.ID,
		Points:      -points,
		Type:        entity.TransactionTransfer,
		Source:      entity.SourceTransfer,
		Description: description,
		Metadata:    entity.TransactionMetadata{Counterparty: receiver.ID},
	}
	credit := &entity.LoyaltyTransaction{
		UserID:      receiver.UserID,
		CustomerID:  receiver.ID,
		Points:      points,
		Type:        entity.TransactionEarned,
		Source:      entity.SourceTransfer,
		Description: description,
		Metadata:    entity.TransactionMetadata{Counterparty: sender.ID},
	}

	updatedSender, updatedReceiver, err := uc.loyaltyRepo.Transfer(ctx, debit, credit)
	if err != nil {
		uc.logger.Error("Failed to transfer %d points from %s to %s: %v", points, fromID, toID, err)
		return nil, fmt.Errorf("failed to transfer points: %w", err)
	}
	metrics.RecordPoints(string(entity.TransactionTransfer), points)

	result := &entity.TransferResult{
		Sender:   &entity.PointsResult{Transaction: debit, Customer: updatedSender},
		Receiver: &entity.PointsResult{Transaction: credit, Customer: updatedReceiver},
	}
	result.Receiver.TierChange = uc.evaluateTier(ctx, updatedReceiver)
	return result, nil
}

func (uc *loyaltyUseCase) GetSummary(ctx context.Context, customerID string) (*entity.PointsSummary, error) {
	customer, err := uc.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	window := time.Duration(uc.cfg.ExpiringSoonDays) * 24 * time.Hour
	totals, err := uc.loyaltyRepo.Totals(ctx, customerID, time.Now().UTC(), window)
	if err != nil {
		uc.logger.Error("Failed to load ledger totals for customer %s: %v", customerID, err)
		return nil, fmt.Errorf("failed to load points summary: %w", err)
	}

	progress := uc.tiers.Progress(customer)
	return &entity.PointsSummary{
		CustomerID:       customer.ID,
		TotalPoints:      customer.TotalPoints,
		LifetimePoints:   customer.LifetimePoints,
		CurrentTier:      customer.Tier,
		NextTier:         progress.NextTier,
		PointsToNextTier: progress.PointsToNext,
		ProgressToNext:   progress.ProgressPercent,
		PointsEarned:     totals.Earned,
		PointsSpent:      totals.Spent,
		TransactionCount: totals.Count,
		ExpiringSoon:     totals.ExpiringSoon,
		ExpiringSoonDays: uc.cfg.ExpiringSoonDays,
		TierBenefits:     progress.Benefits,
	}, nil
}

func (uc *loyaltyUseCase) History(ctx context.Context, customerID string, filter entity.TransactionFilter, page entity.Page) (*entity.PageResult[*entity.LoyaltyTransaction], error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, errs.Validation("invalid transaction type: %s", filter.Type)
	}
	if filter.Source != "" && !filter.Source.Valid() {
		return nil, errs.Validation("invalid source: %s", filter.Source)
	}
	if _, err := uc.customerRepo.GetByID(ctx, customerID); err != nil {
		return nil, err
	}

	page = page.Normalize()
	transactions, total, err := uc.loyaltyRepo.ListByCustomer(ctx, customerID, filter, page)
	if err != nil {
		uc.logger.Error("Failed to list transactions for customer %s: %v", customerID, err)
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return entity.NewPageResult(transactions, total, page), nil
}

// ExpirePoints retires every due row. Each row commits on its own; failures are
// collected and the row stays due for the next run.
func (uc *loyaltyUseCase) ExpirePoints(ctx context.Context, now time.Time) (*entity.ExpiryResult, error) {
	result := &entity.ExpiryResult{}
	// A failed row stays due and comes back in every later batch.
	failed := make(map[string]bool)
	for {
		due, err := uc.loyaltyRepo.DueForExpiry(ctx, now, expiryBatchSize)
		if err != nil {
			uc.logger.Error("Failed to load transactions due for expiry: %v", err)
			return result, fmt.Errorf("failed to load due transactions: %w", err)
		}

		progressed := false
		for _, t := range due {
			if failed[t.ID] {
				continue
			}
			result.Processed++
			expired, _, err := uc.loyaltyRepo.Expire(ctx, t.ID, now)
			if err != nil {
				uc.logger.Warn("Failed to expire transaction %s: %v", t.ID, err)
				result.Errors = append(result.Errors, fmt.Sprintf("transaction %s: %v", t.ID, err))
				failed[t.ID] = true
				continue
			}
			progressed = true
			if expired == nil {
				continue
			}
			result.Expired++
			result.PointsExpired += -expired.Points
			metrics.RecordPoints(string(entity.TransactionExpired), -expired.Points)
		}

		if len(due) < expiryBatchSize || !progressed {
			break
		}
	}

	uc.logger.Info("Points expiry finished: processed=%d expired=%d points=%d errors=%d",
		result.Processed, result.Expired, result.PointsExpired, len(result.Errors))
	return result, nil
}

// evaluateTier runs after the balance change has committed, so a failure here
// is logged rather than returned.
func (uc *loyaltyUseCase) evaluateTier(ctx context.Context, customer *entity.Customer) *entity.TierHistory {
	change, err := uc.tiers.Evaluate(ctx, customer)
	if err != nil {
		uc.logger.Warn("Tier evaluation failed for customer %s: %v", customer.ID, err)
		return nil
	}
	return change
}
