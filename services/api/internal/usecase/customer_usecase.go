package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"loyalty-hub/pkg/errs"
	"loyalty-hub/pkg/logger"
	"loyalty-hub/services/api/internal/entity"
	"loyalty-hub/services/api/internal/repo/persistent"
)

const (
	recentItemsLimit     = 10
	defaultActivityLimit = 20
)

type CustomerUseCase interface {
	List(ctx context.Context, filter entity.CustomerFilter, page entity.Page) (*entity.PageResult[*entity.Customer], error)
	Get(ctx context.Context, id string) (*entity.CustomerDetails, error)
	GetByUserID(ctx context.Context, userID string) (*entity.Customer, error)
	Create(ctx context.Context, input entity.NewCustomer) (*entity.Customer, error)
	Update(ctx context.Context, id string, update entity.CustomerUpdate, actorID string) (*entity.Customer, error)
	Deactivate(ctx context.Context, id string) error
	AddKid(ctx context.Context, customerID string, kid entity.CustomerKid) (*entity.CustomerKid, error)
	ListKids(ctx context.Context, customerID string) ([]*entity.CustomerKid, error)
	UpdateKid(ctx context.Context, customerID, kidID string, update entity.KidUpdate) (*entity.CustomerKid, error)
	RemoveKid(ctx context.Context, customerID, kidID string) error
	Segments(ctx context.Context) (entity.CustomerSegments, error)
	Activity(ctx context.Context, id string, limit int) ([]entity.ActivityItem, error)
}

type customerUseCase struct {
	customerRepo persistent.CustomerRepository
	userRepo     persistent.UserRepository
	loyaltyRepo  persistent.LoyaltyRepository
	rewardRepo   persistent.RewardRepository
	logger       *logger.Logger
}

func NewCustomerUseCase(
	customerRepo persistent.CustomerRepository,
	userRepo persistent.UserRepository,
	loyaltyRepo persistent.LoyaltyRepository,
	rewardRepo persistent.RewardRepository,
	logger *logger.Logger,
) CustomerUseCase {
	return &customerUseCase{
		customerRepo: customerRepo,
		userRepo:     userRepo,
		loyaltyRepo:  loyaltyRepo,
		rewardRepo:   rewardRepo,
		logger:       logger,
	}
}

func (uc *customerUseCase) List(ctx context.Context, filter entity.CustomerFilter, page entity.Page) (*entity.PageResult[*entity.Customer], error) {
	if filter.Tier != "" && !filter.Tier.Valid() {
		return nil, errs.Validation("invalid tier: %s", filter.Tier)
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, errs.Validation("invalid status: %s", filter.Status)
	}
	if filter.SortBy != "" && !entity.CustomerSortFields[filter.SortBy] {
		return nil, errs.Validation("cannot sort by %s", filter.SortBy)
	}

	page = page.Normalize()
	customers, total, err := uc.customerRepo.List(ctx, filter, page)
	if err != nil {
		uc.logger.Error("Failed to list customers: %v", err)
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return entity.NewPageResult(customers, total, page), nil
}

func (uc *customerUseCase) Get(ctx context.Context, id string) (*entity.CustomerDetails, error) {
	customer, err := uc.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	recent := entity.Page{Limit: recentItemsLimit}

	transactions, _, err := uc.loyaltyRepo.ListByCustomer(ctx, id, entity.TransactionFilter{}, recent)
	if err != nil {
		uc.logger.Error("Failed to load transactions for customer %s: %v", id, err)
		return nil, fmt.Errorf("failed to load customer details: %w", err)
	}
	redemptions, redemptionCount, err := uc.rewardRepo.ListRedemptions(ctx, id, recent)
	if err != nil {
		uc.logger.Error("Failed to load redemptions for customer %s: %v", id, err)
		return nil, fmt.Errorf("failed to load customer details: %w", err)
	}
	kids, err := uc.customerRepo.ListKids(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load kids: %w", err)
	}
	history, err := uc.customerRepo.TierHistory(ctx, id, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load tier history: %w", err)
	}
	totals, err := uc.loyaltyRepo.Totals(ctx, id, now, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger totals: %w", err)
	}
	recentCount, err := uc.loyaltyRepo.CountSince(ctx, id, now.AddDate(0, 0, -90))
	if err != nil {
		return nil, fmt.Errorf("failed to count recent transactions: %w", err)
	}

	analytics := entity.CustomerAnalytics{
		TransactionCount:   totals.Count,
		RecentTransactions: recentCount,
		PointsEarned:       totals.Earned,
		PointsRedeemed:     totals.Spent,
		RedemptionCount:    redemptionCount,
	}
	if customer.LastActivity != nil {
		days := int(now.Sub(*customer.LastActivity).Hours() / 24)
		analytics.DaysSinceLastActivity = &days
	}
	analytics.EngagementScore = engagementScore(analytics.DaysSinceLastActivity, recentCount, customer.CurrentStreak)

	return &entity.CustomerDetails{
		Customer:           customer,
		RecentTransactions: transactions,
		RecentRedemptions:  redemptions,
		Kids:               kids,
		TierHistory:        history,
		Analytics:          analytics,
	}, nil
}

func (uc *customerUseCase) GetByUserID(ctx context.Context, userID string) (*entity.Customer, error) {
	return uc.customerRepo.GetByUserID(ctx, userID)
}

func (uc *customerUseCase) Create(ctx context.Context, input entity.NewCustomer) (*entity.Customer, error) {
	if err := validateContact(input.Name, input.Email, input.Phone); err != nil {
		return nil, err
	}
	if len(input.ERPID) > 100 {
		return nil, errs.Validation("erp_id must be at most 100 characters")
	}

	exists, err := uc.userRepo.ExistsByEmailOrPhone(ctx, input.Email, input.Phone)
	if err != nil {
		uc.logger.Error("Failed to check existing user: %v", err)
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, errs.Conflict("customer with this email or phone already exists")
	}

	password := input.Password
	if password == "" {
		if password, err = randomHex(12); err != nil {
			return nil, fmt.Errorf("failed to generate password: %w", err)
		}
	} else if err := validatePassword(password); err != nil {
		return nil, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:        strings.TrimSpace(input.Phone),
		PasswordHash: hash,
		Role:         entity.RoleCustomer,
		Status:       entity.UserStatusActive,
	}
	customer := newCustomerRecord(input.DateOfBirth, input.ERPID)
	if err := uc.customerRepo.CreateWithUser(ctx, user, customer); err != nil {
		uc.logger.Error("Failed to create customer: %v", err)
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	uc.logger.Info("Created customer %s for user %s", customer.ID, user.ID)
	return customer, nil
}

func (uc *customerUseCase) Update(ctx context.Context, id string, update entity.CustomerUpdate, actorID string) (*entity.Customer, error) {
	customer, err := uc.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user := customer.User
	if user == nil {
		if user, err = uc.userRepo.GetByID(ctx, customer.UserID); err != nil {
			return nil, err
		}
	}

	name, email, phone := user.Name, user.Email, user.Phone
	if update.Name != nil {
		name = strings.TrimSpace(*update.Name)
	}
	if update.Email != nil {
		email = strings.ToLower(strings.TrimSpace(*update.Email))
	}
	if update.Phone != nil {
		phone = strings.TrimSpace(*update.Phone)
	}
	if err := validateContact(name, email, phone); err != nil {
		return nil, err
	}
	user.Name, user.Email, user.Phone = name, email, phone

	if update.Status != nil {
		if !update.Status.Valid() {
			return nil, errs.Validation("invalid status: %s", *update.Status)
		}
		customer.Status = *update.Status
	}
	if update.DateOfBirth != nil {
		customer.DateOfBirth = update.DateOfBirth
	}
	if update.ERPID != nil {
		if len(*update.ERPID) > 100 {
			return nil, errs.Validation("erp_id must be at most 100 characters")
		}
		customer.ERPID = *update.ERPID
	}
	if update.Tier != nil && !update.Tier.Valid() {
		return nil, errs.Validation("invalid tier: %s", *update.Tier)
	}

	if err := uc.customerRepo.UpdateWithUser(ctx, user, customer); err != nil {
		uc.logger.Error("Failed to update customer %s: %v", id, err)
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	customer.User = user

	if update.Tier != nil && *update.Tier != customer.Tier {
		previous := customer.Tier
		history := &entity.TierHistory{
			CustomerID:      customer.ID,
			PreviousTier:    &previous,
			NewTier:         *update.Tier,
			PointsAtUpgrade: customer.TotalPoints,
			Reason:          entity.TierReasonManualUpdate,
		}
		if actorID != "" {
			history.ChangedBy = &actorID
		}
		changed, err := uc.customerRepo.ChangeTier(ctx, previous, history)
		if err != nil {
			uc.logger.Error("Failed to change tier for customer %s: %v", id, err)
			return nil, fmt.Errorf("failed to change tier: %w", err)
		}
		if !changed {
			return nil, errs.Conflict("tier of customer %s changed concurrently", id)
		}
		customer.Tier = *update.Tier
	}
	return customer, nil
}

func (uc *customerUseCase) Deactivate(ctx context.Context, id string) error {
	if err := uc.customerRepo.Deactivate(ctx, id); err != nil {
		uc.logger.Error("Failed to deactivate customer %s: %v", id, err)
		return fmt.Errorf("failed to deactivate customer: %w", err)
	}
	return nil
}

func (uc *customerUseCase) AddKid(ctx context.Context, customerID string, kid entity.CustomerKid) (*entity.CustomerKid, error) {
	if strings.TrimSpace(kid.Name) == "" {
		return nil, errs.Validation("kid name is required")
	}
	if kid.DateOfBirth.IsZero() {
		return nil, errs.Validation("kid date_of_birth is required")
	}
	if kid.DateOfBirth.After(time.Now().UTC()) {
		return nil, errs.Validation("kid date_of_birth is in the future")
	}
	if _, err := uc.customerRepo.GetByID(ctx, customerID); err != nil {
		return nil, err
	}

	kid.ID = ""
	kid.CustomerID = customerID
	kid.Name = strings.TrimSpace(kid.Name)
	kid.IsActive = true
	if err := uc.customerRepo.CreateKid(ctx, &kid); err != nil {
		uc.logger.Error("Failed to add kid to customer %s: %v", customerID, err)
		return nil, fmt.Errorf("failed to add kid: %w", err)
	}
	return &kid, nil
}

func (uc *customerUseCase) ListKids(ctx context.Context, customerID string) ([]*entity.CustomerKid, error) {
	if _, err := uc.customerRepo.GetByID(ctx, customerID); err != nil {
		return nil, err
	}
	return uc.customerRepo.ListKids(ctx, customerID)
}

func (uc *customerUseCase) UpdateKid(ctx context.Context, customerID, kidID string, update entity.KidUpdate) (*entity.CustomerKid, error) {
	kid, err := uc.customerRepo.GetKid(ctx, customerID, kidID)
	if err != nil {
		return nil, err
	}
	if update.Name != nil {
		if strings.TrimSpace(*update.Name) == "" {
			return nil, errs.Validation("kid name is required")
		}
		kid.Name = strings.TrimSpace(*update.Name)
	}
	if update.DateOfBirth != nil {
		kid.DateOfBirth = *update.DateOfBirth
	}
	if update.Gender != nil {
		kid.Gender = *update.Gender
	}
	if update.Notes != nil {
		kid.Notes = *update.Notes
	}

	if err := uc.customerRepo.UpdateKid(ctx, kid); err != nil {
		uc.logger.Error("Failed to update kid %s: %v", kidID, err)
		return nil, fmt.Errorf("failed to update kid: %w", err)
	}
	return kid, nil
}

func (uc *customerUseCase) RemoveKid(ctx context.Context, customerID, kidID string) error {
	kid, err := uc.customerRepo.GetKid(ctx, customerID, kidID)
	if err != nil {
		return err
	}
	kid.IsActive = false
	if err := uc.customerRepo.UpdateKid(ctx, kid); err != nil {
		uc.logger.Error("Failed to remove kid %s: %v", kidID, err)
		return fmt.Errorf("failed to remove kid: %w", err)
	}
	return nil
}

func (uc *customerUseCase) Segments(ctx context.Context) (entity.CustomerSegments, error) {
	segments, err := uc.customerRepo.Segments(ctx, time.Now().UTC())
	if err != nil {
		uc.logger.Error("Failed to compute customer segments: %v", err)
		return segments, fmt.Errorf("failed to compute segments: %w", err)
	}
	return segments, nil
}

// Activity merges ledger rows, redemptions and tier changes newest first.
func (uc *customerUseCase) Activity(ctx context.Context, id string, limit int) ([]entity.ActivityItem, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if limit > entity.MaxPageLimit {
		limit = entity.MaxPageLimit
	}
	if _, err := uc.customerRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	page := entity.Page{Limit: limit}
	transactions, _, err := uc.loyaltyRepo.ListByCustomer(ctx, id, entity.TransactionFilter{}, page)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	redemptions, _, err := uc.rewardRepo.ListRedemptions(ctx, id, page)
	if err != nil {
		return nil, fmt.Errorf("failed to load redemptions: %w", err)
	}
	history, err := uc.customerRepo.TierHistory(ctx, id, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load tier history: %w", err)
	}

	items := make([]entity.ActivityItem, 0, len(transactions)+len(redemptions)+len(history))
	for _, t := range transactions {
		items = append(items, entity.ActivityItem{
			Kind:        entity.ActivityTransaction,
			Description: t.Description,
			Points:      t.Points,
			ReferenceID: t.ID,
			OccurredAt:  t.CreatedAt,
		})
	}
	for _, r := range redemptions {
		description := "Reward redemption"
		if r.Reward != nil {
			description = "Redeemed " + r.Reward.Name
		}
		items = append(items, entity.ActivityItem{
			Kind:        entity.ActivityRedemption,
			Description: fmt.Sprintf("%s (%s)", description, r.Status),
			Points:      -r.PointsSpent,
			ReferenceID: r.ID,
			OccurredAt:  r.CreatedAt,
		})
	}
	for _, h := range history {
		from := "none"
		if h.PreviousTier != nil {
			from = h.PreviousTier.Title()
		}
		items = append(items, entity.ActivityItem{
			Kind:        entity.ActivityTierChange,
			Description: fmt.Sprintf("Tier changed from %s to %s", from, h.NewTier.Title()),
			ReferenceID: h.ID,
			OccurredAt:  h.CreatedAt,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].OccurredAt.After(items[j].OccurredAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// engagementScore adds recency (max 40), 90-day frequency (max 30) and streak
// consistency (max 30).
func engagementScore(daysSinceActivity *int, recentTransactions int64, streak int) int {
	score := 0
	if daysSinceActivity != nil {
		switch days := *daysSinceActivity; {
		case days <= 7:
			score += 40
		case days <= 30:
			score += 30
		case days <= 90:
			score += 20
		default:
			score += 10
		}
	}

	switch {
	case recentTransactions >= 20:
		score += 30
	case recentTransactions >= 10:
		score += 20
	case recentTransactions >= 1:
		score += 10
	}

	switch {
	case streak >= 10:
		score += 30
	case streak >= 5:
		score += 20
	case streak >= 1:
		score += 10
	}
	return score
}
