package persistent

import (
	"context"
	"fmt"
	"time"

	"loyalty-hub/services/api/internal/entity"
	"loyalty-hub/services/api/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LoyaltyRepository owns the points ledger. A customer's total_points always
// equals the sum of every ledger delta for that customer, active or not.
// is_active only marks rows that a later row compensated (an expiry or a
// cancelled redemption), so summing active rows alone does not reconcile
// with the balance.
type LoyaltyRepository interface {
	// Apply appends t to the ledger and moves the balance by t.Points atomically.
	Apply(ctx context.Context, t *entity.LoyaltyTransaction) (*entity.Customer, error)
	Transfer(ctx context.Context, debit, credit *entity.LoyaltyTransaction) (*entity.Customer, *entity.Customer, error)
	Expire(ctx context.Context, sourceID string, now time.Time) (*entity.LoyaltyTransaction, *entity.Customer, error)
	GetByID(ctx context.Context, id string) (*entity.LoyaltyTransaction, error)
	ListByCustomer(ctx context.Context, customerID string, filter entity.TransactionFilter, page entity.Page) ([]*entity.LoyaltyTransaction, int64, error)
	DueForExpiry(ctx context.Context, now time.Time, limit int) ([]*entity.LoyaltyTransaction, error)
	Totals(ctx context.Context, customerID string, now time.Time, window time.Duration) (entity.LedgerTotals, error)
	CountSince(ctx context.Context, customerID string, since time.Time) (int64, error)
	ExistsForERPSale(ctx context.Context, saleID string) (bool, error)
}

type loyaltyRepository struct {
	db *gorm.DB
}

func NewLoyaltyRepository(db *gorm.DB) LoyaltyRepository {
	return &loyaltyRepository{db: db}
}

func (r *loyaltyRepository) Apply(ctx context.Context, t *entity.LoyaltyTransaction) (*entity.Customer, error) {
	var customer *entity.Customer
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customerModel, err := applyDelta(tx, t, time.Now().UTC())
		if err != nil {
			return err
		}
		customer = ToCustomerEntity(customerModel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return customer, nil
}

func (r *loyaltyRepository) Transfer(ctx context.Context, debit, credit *entity.LoyaltyTransaction) (*entity.Customer, *entity.Customer, error) {
	var sender, receiver *entity.Customer
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		senderModel, err := applyDelta(tx, debit, now)
		if err != nil {
			return err
		}
		receiverModel, err := applyDelta(tx, credit, now)
		if err != nil {
			return err
		}
		sender = ToCustomerEntity(senderModel)
		receiver = ToCustomerEntity(receiverModel)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return sender, receiver, nil
}

// Expire retires one due ledger row. The customer row is locked first so the
// clamp to the current balance cannot race a concurrent deduction. A row that
// was already retired yields (nil, nil, nil).
func (r *loyaltyRepository) Expire(ctx context.Context, sourceID string, now time.Time) (*entity.LoyaltyTransaction, *entity.Customer, error) {
	var expired *entity.LoyaltyTransaction
	var customer *entity.Customer

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var source model.LoyaltyTransactionModel
		if err := tx.Where("id = ?", sourceID).First(&source).Error; err != nil {
			return translate(err, "transaction")
		}

		var customerModel model.CustomerModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", source.CustomerID).First(&customerModel).Error; err != nil {
			return translate(err, "customer")
		}

		res := tx.Model(&model.LoyaltyTransactionModel{}).
			Where("id = ? AND is_active = ?", sourceID, true).
			Update("is_active", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		points := source.Points
		if points > customerModel.TotalPoints {
			points = customerModel.TotalPoints
		}

		row := &entity.LoyaltyTransaction{
			UserID:      source.UserID,
			CustomerID:  source.CustomerID,
			Points:      -points,
			Type:        entity.TransactionExpired,
			Source:      entity.SourceSystem,
			Description: fmt.Sprintf("Points expired from transaction %s", source.ID),
			ReferenceID: source.ID,
			CreatedAt:   now,
		}
		updated, err := applyDelta(tx, row, now)
		if err != nil {
			return err
		}
		expired = row
		customer = ToCustomerEntity(updated)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return expired, customer, nil
}

func (r *loyaltyRepository) GetByID(ctx context.Context, id string) (*entity.LoyaltyTransaction, error) {
	var txModel model.LoyaltyTransactionModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&txModel).Error; err != nil {
		return nil, translate(err, "transaction")
	}
	return ToTransactionEntity(&txModel), nil
}

func (r *loyaltyRepository) ListByCustomer(ctx context.Context, customerID string, filter entity.TransactionFilter, page entity.Page) ([]*entity.LoyaltyTransaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.LoyaltyTransactionModel{}).Where("customer_id = ?", customerID)
	if filter.Type != "" {
		query = query.Where("transaction_type = ?", filter.Type)
	}
	if filter.Source != "" {
		query = query.Where("source = ?", filter.Source)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txModels []model.LoyaltyTransactionModel
	if err := paginate(query.Order("created_at DESC"), page).Find(&txModels).Error; err != nil {
		return nil, 0, err
	}

	transactions := make([]*entity.LoyaltyTransaction, len(txModels))
	for i := range txModels {
		transactions[i] = ToTransactionEntity(&txModels[i])
	}
	return transactions, total, nil
}

func (r *loyaltyRepository) DueForExpiry(ctx context.Context, now time.Time, limit int) ([]*entity.LoyaltyTransaction, error) {
	var txModels []model.LoyaltyTransactionModel
	query := r.db.WithContext(ctx).
		Where("is_active = ? AND expires_at IS NOT NULL AND expires_at <= ? AND points > 0", true, now).
		Order("expires_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&txModels).Error; err != nil {
		return nil, err
	}

	transactions := make([]*entity.LoyaltyTransaction, len(txModels))
	for i := range txModels {
		transactions[i] = ToTransactionEntity(&txModels[i])
	}
	return transactions, nil
}

func (r *loyaltyRepository) Totals(ctx context.Context, customerID string, now time.Time, window time.Duration) (entity.LedgerTotals, error) {
	var totals entity.LedgerTotals
	err := r.db.WithContext(ctx).Model(&model.LoyaltyTransactionModel{}).
		Select(`COALESCE(SUM(points) FILTER (WHERE points > 0 AND transaction_type = ?), 0) AS earned,
			COALESCE(-SUM(points) FILTER (WHERE points < 0 AND transaction_type = ?), 0) AS spent,
			COUNT(*) AS count,
			COALESCE(SUM(points) FILTER (WHERE is_active AND points > 0 AND expires_at > ? AND expires_at <= ?), 0) AS expiring_soon`,
			entity.TransactionEarned, entity.TransactionRedeemed, now, now.Add(window)).
		Where("customer_id = ?", customerID).
		Scan(&totals).Error
	return totals, err
}

func (r *loyaltyRepository) CountSince(ctx context.Context, customerID string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.LoyaltyTransactionModel{}).
		Where("customer_id = ? AND created_at >= ?", customerID, since).
		Count(&count).Error
	return count, err
}

func (r *loyaltyRepository) ExistsForERPSale(ctx context.Context, saleID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.LoyaltyTransactionModel{}).
		Where("erp_sale_id = ?", saleID).
		Count(&count).Error
	return count > 0, err
}
