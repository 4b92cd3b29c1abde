package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"loyalty-hub/pkg/errs"
	"loyalty-hub/pkg/logger"
	"loyalty-hub/pkg/queue"
	"loyalty-hub/services/api/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type loyaltyFixture struct {
	customerRepo *MockCustomerRepository
	loyaltyRepo  *MockLoyaltyRepository
	publisher    *MockEventPublisher
	uc           LoyaltyUseCase
}

func newLoyaltyFixture() *loyaltyFixture {
	f := &loyaltyFixture{
		customerRepo: new(MockCustomerRepository),
		loyaltyRepo:  new(MockLoyaltyRepository),
		publisher:    new(MockEventPublisher),
	}
	log := logger.New()
	tiers := NewTierUseCase(f.customerRepo, nil, testPolicy(), f.publisher, log)
	f.uc = NewLoyaltyUseCase(f.customerRepo, f.loyaltyRepo, tiers, f.publisher, testConfig(), log)
	return f
}

// applyReturning makes Apply echo the row back with an id and return the
// customer with the balance moved.
func (f *loyaltyFixture) applyReturning(customer *entity.Customer) *mock.Call {
	return f.loyaltyRepo.On("Apply", mock.Anything, mock.AnythingOfType("*entity.LoyaltyTransaction")).
		Run(func(args mock.Arguments) {
			tx := args.Get(1).(*entity.LoyaltyTransaction)
			tx.ID = "tx-1"
		}).
		Return(customer, nil)
}

func TestAwardPoints_UpgradesTier(t *testing.T) {
	f := newLoyaltyFixture()
	ctx := context.Background()

	f.customerRepo.On("GetByID", mock.Anything, "c-1").
		Return(&entity.Customer{ID: "c-1", UserID: "u-1", Tier: entity.TierBronze, TotalPoints: 0}, nil)
	f.applyReturning(&entity.Customer{ID: "c-1", UserID: "u-1", Tier: entity.TierBronze, TotalPoints: 250, LifetimePoints: 250})
	f.customerRepo.On("ChangeTier", mock.Anything, entity.TierBronze, mock.Anything).Return(true, nil)
	f.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e queue.Event) bool {
		return e.Type == queue.EventTierUpgraded
	})).Return(nil).Once()
	f.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e queue.Event) bool {
		return e.Type == queue.EventPointsAwarded && e.Points == 250 && e.TotalPoints == 250
	})).Return(nil).Once()

	result, err := f.uc.AwardPoints(ctx, entity.PointsAward{CustomerID: "c-1", Points: 250})

	require.NoError(t, err)
	assert.Equal(t, 250, result.Customer.TotalPoints)
	assert.Equal(t, entity.TierSilver, result.Customer.Tier)
	require.NotNil(t, result.TierChange)
	assert.Equal(t, entity.TierSilver, result.TierChange.NewTier)
	assert.Equal(t, entity.TierBronze, *result.TierChange.PreviousTier)

	assert.Equal(t, entity.TransactionEarned, result.Transaction.Type)
	assert.Equal(t, entity.SourcePurchase, result.Transaction.Source)
	assert.Equal(t, "Points earned from purchase", result.Transaction.Description)
	assert.Equal(t, "u-1", result.Transaction.UserID)
	f.loyaltyRepo.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func TestAwardPoints_DefaultExpiry(t *testing.T) {
	f := newLoyaltyFixture()
	f.customerRepo.On("GetByID", mock.Anything, "c-1").Return(&entity.Customer{ID: "c-1", Tier: entity.TierBronze}, nil)
	f.applyReturning(&entity.Customer{ID: "c-1", Tier: entity.TierBronze, TotalPoints: 10})
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	result, err := f.uc.AwardPoints(context.Background(), entity.PointsAward{CustomerID: "c-1", Points: 10, Source: entity.SourceBirthday})

	require.NoError(t, err)
	require.NotNil(t, result.Transaction.ExpiresAt)
	assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, 365), *result.Transaction.ExpiresAt, time.Minute)
	assert.Equal(t, "Points earned from birthday", result.Transaction.Description)
	assert.Nil(t, result.TierChange)
}

func TestAwardPoints_Validation(t *testing.T) {
	f := newLoyaltyFixture()
	ctx := context.Background()

	_, err := f.uc.AwardPoints(ctx, entity.PointsAward{CustomerID: "c-1", Points: 0})
	assert.True(t, errors.Is(err, errs.ErrValidation))

	_, err = f.uc.AwardPoints(ctx, entity.PointsAward{CustomerID: "c-1", Points: -5})
	assert.True(t, errors.Is(err, errs.ErrValidation))

	_, err = f.uc.AwardPoints(ctx, entity.PointsAward{CustomerID: "c-1", Points: 5, Source: "lottery"})
	assert.True(t, errors.Is(err, errs.ErrValidation))

	f.loyaltyRepo.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything)
}

func TestAwardPoints_CustomerNotFound(t *testing.T) {
	f := newLoyaltyFixture()
	f.customerRepo.On("GetByID", mock.Anything, "missing").Return(nil, errs.NotFound("customer"))

	_, err := f.uc.AwardPoints(context.Background(), entity.PointsAward{CustomerID: "missing", Points: 5})

	assert.True(t, errors.Is(err, errs.ErrNotFound))
}

func TestDeductPoints(t *testing.T) {
	f := newLoyaltyFixture()
	f.customerRepo.On("GetByID", mock.Anything, "c-1").Return(&entity.Customer{ID: "c-1", TotalPoints: 300}, nil)
	f.applyReturning(&entity.Customer{ID: "c-1", TotalPoints: 200})

	result, err := f.uc.DeductPoints(context.Background(), entity.PointsDeduction{CustomerID: "c-1", Points: 100, Description: "Shop credit"})

	require.NoError(t, err)
	assert.Equal(t, -100, result.Transaction.Points)
	assert.Equal(t, entity.TransactionRedeemed, result.Transaction.Type)
	assert.Equal(t, entity.SourceManual, result.Transaction.Source)
	assert.Equal(t, 200, result.Customer.TotalPoints)
}

func TestDeductPoints_InsufficientBalance(t *testing.T) {
	f := newLoyaltyFixture()
	f.customerRepo.On("GetByID", mock.Anything, "c-1").Return(&entity.Customer{ID: "c-1", TotalPoints: 50}, nil)

	_, err := f.uc.DeductPoints(context.Background(), entity.PointsDeduction{CustomerID: "c-1", Points: 100})

	assert.True(t, errors.Is(err, errs.ErrInsufficientBalance))
	assert.Equal(t, "insufficient points: have 50, need 100", errs.PublicMessage(err))
	f.loyaltyRepo.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything)
}

func TestDeductPoints_RaceLostInRepository(t *testing.T) {
	f := newLoyaltyFixture()
	f.customerRepo.On("GetByID", mock.Anything, "c-1").Return(&entity.Customer{ID: "c-1", TotalPoints: 100}, nil)
	f.loyaltyRepo.On("Apply", mock.Anything, mock.Anything).Return(nil, errs.InsufficientBalance(20, 100))

	_, err := f.uc.DeductPoints(context.Background(), entity.PointsDeduction{CustomerID: "c-1", Points: 100})

	assert.True(t, errors.Is(err, errs.ErrInsufficientBalance))
}

func TestAdjustPoints(t *testing.T) {
	f := newLoyaltyFixture()
	ctx := context.Background()

	_, err := f.uc.AdjustPoints(ctx, "c-1", 0, "", "admin-1")
	assert.True(t, errors.Is(err, errs.ErrValidation))

	f.customerRepo.On("GetByID", mock.Anything, "c-1").Return(&entity.Customer{ID: "c-1", Tier: entity.TierSilver, TotalPoints: 300}, nil)
	f.applyReturning(&entity.Customer{ID: "c-1", Tier: entity.TierSilver, TotalPoints: 260})

	result, err := f.uc.AdjustPoints(ctx, "c-1", -40, "", "admin-1")

	require.NoError(t, err)
	assert.Equal(t, entity.TransactionAdjustment, result.Transaction.Type)
	assert.Equal(t, "Manual points adjustment", result.Transaction.Description)
	assert.Equal(t, "admin-1", result.Transaction.Metadata.ActorID)
	assert.Nil(t, result.TierChange)
	f.customerRepo.AssertNotCalled(t, "ChangeTier", mock.Anything, mock.Anything, mock.Anything)
}

func TestTransferPoints(t *testing.T) {
	f := newLoyaltyFixture()
	ctx := context.Background()

	_, err := f.uc.TransferPoints(ctx, "c-1", "c-1", 10, "")
	assert.True(t, errors.Is(err, errs.ErrValidation))

	f.customerRepo.On("GetByID", mock.Anything, "c-1").Return(&entity.Customer{ID: "c-1", UserID: "u-1", TotalPoints: 100}, nil)
	f.customerRepo.On("GetByID", mock.Anything, "c-2").Return(&entity.Customer{ID: "c-2", UserID: "u-2", Tier: entity.TierBronze, TotalPoints: 10}, nil)
	f.loyaltyRepo.On("Transfer", mock.Anything,
		mock.MatchedBy(func(d *entity.LoyaltyTransaction) bool {
			return d.CustomerID == "c-1" && d.Points == -40 && d.Type == entity.TransactionTransfer && d.Metadata.Counterparty == "c-2"
		}),
		mock.MatchedBy(func(c *entity.LoyaltyTransaction) bool {
			return c.CustomerID == "c-2" && c.Points == 40 && c.Type == entity.TransactionEarned && c.Source == entity.SourceTransfer
		}),
	).Return(&entity.Customer{ID: "c-1", TotalPoints: 60}, &entity.Customer{ID: "c-2", Tier: entity.TierBronze, TotalPoints: 50}, nil)

	result, err := f.uc.TransferPoints(ctx, "c-1", "c-2", 40, "")

	require.NoError(t, err)
	assert.Equal(t, 60, result.Sender.Customer.TotalPoints)
	assert.Equal(t, 50, result.Receiver.Customer.TotalPoints)
	assert.Nil(t, result.Receiver.TierChange)
	f.loyaltyRepo.AssertExpectations(t)
}

func TestTransferPoints_InsufficientBalance(t *testing.T) {
	f := newLoyaltyFixture()
	f.customerRepo.On("GetByID", mock.Anything, "c-1").Return(&entity.Customer{ID: "c-1", TotalPoints: 5}, nil)
	f.customerRepo.On("GetByID", mock.Anything, "c-2").Return(&entity.Customer{ID: "c-2"}, nil)

	_, err := f.uc.TransferPoints(context.Background(), "c-1", "c-2", 40, "")

	assert.True(t, errors.Is(err, errs.ErrInsufficientBalance))
	f.loyaltyRepo.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetSummary(t *testing.T) {
	f := newLoyaltyFixture()
	f.customerRepo.On("GetByID", mock.Anything, "c-1").
		Return(&entity.Customer{ID: "c-1", Tier: entity.TierSilver, TotalPoints: 350, LifetimePoints: 600}, nil)
	f.loyaltyRepo.On("Totals", mock.Anything, "c-1", mock.AnythingOfType("time.Time"), 30*24*time.Hour).
		Return(entity.LedgerTotals{Earned: 600, Spent: 250, Count: 7, ExpiringSoon: 40}, nil)

	summary, err := f.uc.GetSummary(context.Background(), "c-1")

	require.NoError(t, err)
	assert.Equal(t, 350, summary.TotalPoints)
	assert.Equal(t, int64(600), summary.PointsEarned)
	assert.Equal(t, int64(250), summary.PointsSpent)
	assert.Equal(t, int64(40), summary.ExpiringSoon)
	assert.Equal(t, entity.TierGold, *summary.NextTier)
	assert.Equal(t, 150, summary.PointsToNextTier)
	assert.Equal(t, 1.5, summary.TierBenefits.PointsMultiplier)
}

func TestHistory_RejectsUnknownType(t *testing.T) {
	f := newLoyaltyFixture()

	_, err := f.uc.History(context.Background(), "c-1", entity.TransactionFilter{Type: "bonus"}, entity.Page{})

	assert.True(t, errors.Is(err, errs.ErrValidation))
}

func TestHistory_NormalizesPage(t *testing.T) {
	f := newLoyaltyFixture()
	f.customerRepo.On("GetByID", mock.Anything, "c-1").Return(&entity.Customer{ID: "c-1"}, nil)
	f.loyaltyRepo.On("ListByCustomer", mock.Anything, "c-1", entity.TransactionFilter{}, entity.Page{Limit: entity.MaxPageLimit, Offset: 0}).
		Return([]*entity.LoyaltyTransaction{{ID: "tx-1"}}, int64(1), nil)

	page, err := f.uc.History(context.Background(), "c-1", entity.TransactionFilter{}, entity.Page{Limit: 5000, Offset: -3})

	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, int64(1), page.Total)
}

func TestExpirePoints_CollectsErrors(t *testing.T) {
	f := newLoyaltyFixture()
	now := time.Date(2026, 3, 1, 2, 0, 0, 0, time.UTC)

	f.loyaltyRepo.On("DueForExpiry", mock.Anything, now, expiryBatchSize).
		Return([]*entity.LoyaltyTransaction{{ID: "tx-1"}, {ID: "tx-2"}, {ID: "tx-3"}}, nil).Once()
	f.loyaltyRepo.On("Expire", mock.Anything, "tx-1", now).
		Return(&entity.LoyaltyTransaction{ID: "exp-1", Points: -30, Type: entity.TransactionExpired}, &entity.Customer{ID: "c-1"}, nil)
	f.loyaltyRepo.On("Expire", mock.Anything, "tx-2", now).Return(nil, nil, errors.New("deadlock"))
	// Already consumed by redemptions: nothing left to expire.
	f.loyaltyRepo.On("Expire", mock.Anything, "tx-3", now).Return(nil, &entity.Customer{ID: "c-2"}, nil)

	result, err := f.uc.ExpirePoints(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, 3, result.Processed)
	assert.Equal(t, 1, result.Expired)
	assert.Equal(t, 30, result.PointsExpired)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "tx-2")
	f.loyaltyRepo.AssertExpectations(t)
}

func TestExpirePoints_FailedRowCountedOnce(t *testing.T) {
	f := newLoyaltyFixture()
	now := time.Date(2026, 3, 1, 2, 0, 0, 0, time.UTC)

	full := []*entity.LoyaltyTransaction{{ID: "tx-bad"}}
	for i := 1; i < expiryBatchSize; i++ {
		full = append(full, &entity.LoyaltyTransaction{ID: fmt.Sprintf("tx-%d", i)})
	}
	f.loyaltyRepo.On("DueForExpiry", mock.Anything, now, expiryBatchSize).Return(full, nil).Once()
	f.loyaltyRepo.On("DueForExpiry", mock.Anything, now, expiryBatchSize).
		Return([]*entity.LoyaltyTransaction{{ID: "tx-bad"}}, nil).Once()
	f.loyaltyRepo.On("Expire", mock.Anything, "tx-bad", now).Return(nil, nil, errors.New("deadlock")).Once()
	f.loyaltyRepo.On("Expire", mock.Anything, mock.MatchedBy(func(id string) bool { return id != "tx-bad" }), now).
		Return(&entity.LoyaltyTransaction{Points: -1, Type: entity.TransactionExpired}, &entity.Customer{ID: "c-1"}, nil)

	result, err := f.uc.ExpirePoints(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, expiryBatchSize, result.Processed)
	assert.Equal(t, expiryBatchSize-1, result.Expired)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "tx-bad")
	f.loyaltyRepo.AssertNumberOfCalls(t, "Expire", expiryBatchSize)
	f.loyaltyRepo.AssertNumberOfCalls(t, "DueForExpiry", 2)
}
