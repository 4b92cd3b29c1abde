package persistent

import (
	"errors"
	"strings"
	"time"

	"loyalty-hub/pkg/errs"
	"loyalty-hub/services/api/internal/entity"
	"loyalty-hub/services/api/internal/model"

	"gorm.io/gorm"
)

// translate maps gorm sentinel errors onto the shared error kinds.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errs.NotFound(what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errs.Conflict("%s already exists", what)
	}
	return err
}

func paginate(q *gorm.DB, page entity.Page) *gorm.DB {
	page = page.Normalize()
	return q.Limit(page.Limit).Offset(page.Offset)
}

func likePattern(s string) string {
	s = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
	return "%" + s + "%"
}

// applyDelta moves a customer's balance by t.Points and appends the ledger row,
// both on tx. The balance never goes negative: a delta that would overdraw
// affects zero rows and yields an insufficient balance error.
func applyDelta(tx *gorm.DB, t *entity.LoyaltyTransaction, now time.Time) (*model.CustomerModel, error) {
	updates := map[string]interface{}{
		"total_points":  gorm.Expr("total_points + ?", t.Points),
		"last_activity": now,
		"updated_at":    now,
	}
	if t.CountsTowardLifetime() {
		updates["lifetime_points"] = gorm.Expr("lifetime_points + ?", t.Points)
	}

	res := tx.Model(&model.CustomerModel{}).
		Where("id = ? AND total_points + ? >= 0", t.CustomerID, t.Points).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		var current model.CustomerModel
		if err := tx.Select("id", "total_points").Where("id = ?", t.CustomerID).First(&current).Error; err != nil {
			return nil, translate(err, "customer")
		}
		return nil, errs.InsufficientBalance(current.TotalPoints, -t.Points)
	}

	txModel := ToTransactionModel(t)
	txModel.IsActive = true
	if txModel.CreatedAt.IsZero() {
		txModel.CreatedAt = now
	}
	if err := tx.Create(txModel).Error; err != nil {
		return nil, translate(err, "transaction")
	}
	*t = *ToTransactionEntity(txModel)

	var customer model.CustomerModel
	if err := tx.Where("id = ?", t.CustomerID).First(&customer).Error; err != nil {
		return nil, translate(err, "customer")
	}
	return &customer, nil
}
