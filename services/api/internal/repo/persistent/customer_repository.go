package persistent

import (
	"context"
	"time"

	"loyalty-hub/services/api/internal/entity"
	"loyalty-hub/services/api/internal/model"

	"gorm.io/gorm"
)

const highValueLifetimePoints = 1000

type CustomerRepository interface {
	CreateWithUser(ctx context.Context, user *entity.User, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	GetByUserID(ctx context.Context, userID string) (*entity.Customer, error)
	GetByERPID(ctx context.Context, erpID string) (*entity.Customer, error)
	FindByContact(ctx context.Context, email, phone string) (*entity.Customer, error)
	List(ctx context.Context, filter entity.CustomerFilter, page entity.Page) ([]*entity.Customer, int64, error)
	Update(ctx context.Context, customer *entity.Customer) error
	UpdateWithUser(ctx context.Context, user *entity.User, customer *entity.Customer) error
	Deactivate(ctx context.Context, id string) error
	ChangeTier(ctx context.Context, from entity.Tier, history *entity.TierHistory) (bool, error)
	TierHistory(ctx context.Context, customerID string, limit int) ([]*entity.TierHistory, error)

	CreateKid(ctx context.Context, kid *entity.CustomerKid) error
	GetKid(ctx context.Context, customerID, kidID string) (*entity.CustomerKid, error)
	ListKids(ctx context.Context, customerID string) ([]*entity.CustomerKid, error)
	UpdateKid(ctx context.Context, kid *entity.CustomerKid) error

	Segments(ctx context.Context, now time.Time) (entity.CustomerSegments, error)
	TierDistribution(ctx context.Context) (map[entity.Tier]int64, error)
	TopByLifetime(ctx context.Context, limit int) ([]entity.TopCustomer, error)
	BirthdayCandidates(ctx context.Context, day time.Time) ([]entity.BirthdayCandidate, error)
}

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) CreateWithUser(ctx context.Context, user *entity.User, customer *entity.Customer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userModel := ToUserModel(user)
		if err := tx.Create(userModel).Error; err != nil {
			return translate(err, "user")
		}

		customerModel := ToCustomerModel(customer)
		customerModel.UserID = userModel.ID
		if err := tx.Create(customerModel).Error; err != nil {
			return translate(err, "customer")
		}

		*user = *ToUserEntity(userModel)
		*customer = *ToCustomerEntity(customerModel)
		customer.User = user
		return nil
	})
}

func (r *customerRepository) first(ctx context.Context, query string, args ...interface{}) (*entity.Customer, error) {
	var customerModel model.CustomerModel
	if err := r.db.WithContext(ctx).Preload("User").Where(query, args...).First(&customerModel).Error; err != nil {
		return nil, translate(err, "customer")
	}
	return ToCustomerEntity(&customerModel), nil
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *customerRepository) GetByUserID(ctx context.Context, userID string) (*entity.Customer, error) {
	return r.first(ctx, "user_id = ?", userID)
}

func (r *customerRepository) GetByERPID(ctx context.Context, erpID string) (*entity.Customer, error) {
	return r.first(ctx, "erp_id = ?", erpID)
}

// FindByContact matches on email first, then phone. Empty values are ignored.
func (r *customerRepository) FindByContact(ctx context.Context, email, phone string) (*entity.Customer, error) {
	if email != "" {
		customer, err := r.first(ctx, "user_id IN (?)",
			r.db.Model(&model.UserModel{}).Select("id").Where("LOWER(email) = LOWER(?)", email))
		if err == nil {
			return customer, nil
		}
		if phone == "" {
			return nil, err
		}
	}
	if phone != "" {
		return r.first(ctx, "user_id IN (?)",
			r.db.Model(&model.UserModel{}).Select("id").Where("phone = ?", phone))
	}
	return nil, translate(gorm.ErrRecordNotFound, "customer")
}

func (r *customerRepository) List(ctx context.Context, filter entity.CustomerFilter, page entity.Page) ([]*entity.Customer, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.CustomerModel{}).
		Joins("JOIN users ON users.id = customers.user_id")
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("users.name ILIKE ? OR users.email ILIKE ? OR users.phone ILIKE ?", pattern, pattern, pattern)
	}
	if filter.Tier != "" {
		query = query.Where("customers.tier = ?", filter.Tier)
	}
	if filter.Status != "" {
		query = query.Where("customers.status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var customerModels []model.CustomerModel
	err := paginate(query.Preload("User").Order(customerOrder(filter)), page).Find(&customerModels).Error
	if err != nil {
		return nil, 0, err
	}

	customers := make([]*entity.Customer, len(customerModels))
	for i := range customerModels {
		customers[i] = ToCustomerEntity(&customerModels[i])
	}
	return customers, total, nil
}

// customerOrder builds the ORDER BY clause from whitelisted fields only.
func customerOrder(filter entity.CustomerFilter) string {
	column := "customers.joined_date"
	if entity.CustomerSortFields[filter.SortBy] {
		if filter.SortBy == "name" {
			column = "users.name"
		} else {
			column = "customers." + filter.SortBy
		}
	}
	if filter.SortOrder == "asc" {
		return column + " ASC"
	}
	return column + " DESC"
}

// Update writes the descriptive columns only; balances and tier change through
// their own guarded paths.
func (r *customerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	customerModel := ToCustomerModel(customer)
	customerModel.UpdatedAt = time.Now().UTC()
	err := r.db.WithContext(ctx).Model(customerModel).
		Select("erp_id", "status", "date_of_birth", "current_streak", "longest_streak", "last_sync", "data_hash", "updated_at").
		Updates(customerModel).Error
	if err != nil {
		return translate(err, "customer")
	}
	customer.UpdatedAt = customerModel.UpdatedAt
	return nil
}

func (r *customerRepository) UpdateWithUser(ctx context.Context, user *entity.User, customer *entity.Customer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := NewUserRepository(tx).Update(ctx, user); err != nil {
			return err
		}
		return NewCustomerRepository(tx).Update(ctx, customer)
	})
}

func (r *customerRepository) Deactivate(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customerModel model.CustomerModel
		if err := tx.Select("id", "user_id").Where("id = ?", id).First(&customerModel).Error; err != nil {
			return translate(err, "customer")
		}
		now := time.Now().UTC()
		if err := tx.Model(&model.CustomerModel{}).Where("id = ?", id).
			Updates(map[string]interface{}{"status": entity.CustomerStatusInactive, "updated_at": now}).Error; err != nil {
			return err
		}
		return tx.Model(&model.UserModel{}).Where("id = ?", customerModel.UserID).
			Updates(map[string]interface{}{"status": entity.UserStatusInactive, "updated_at": now}).Error
	})
}

// ChangeTier moves the customer from `from` to history.NewTier and records the
// history row in the same transaction. It reports false when the stored tier
// no longer equals `from`.
func (r *customerRepository) ChangeTier(ctx context.Context, from entity.Tier, history *entity.TierHistory) (bool, error) {
	changed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.CustomerModel{}).
			Where("id = ? AND tier = ?", history.CustomerID, from).
			Updates(map[string]interface{}{"tier": history.NewTier, "updated_at": time.Now().UTC()})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		historyModel := ToTierHistoryModel(history)
		if err := tx.Create(historyModel).Error; err != nil {
			return err
		}
		*history = *ToTierHistoryEntity(historyModel)
		changed = true
		return nil
	})
	return changed, err
}

func (r *customerRepository) TierHistory(ctx context.Context, customerID string, limit int) ([]*entity.TierHistory, error) {
	var historyModels []model.TierHistoryModel
	query := r.db.WithContext(ctx).Where("customer_id = ?", customerID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&historyModels).Error; err != nil {
		return nil, err
	}

	history := make([]*entity.TierHistory, len(historyModels))
	for i := range historyModels {
		history[i] = ToTierHistoryEntity(&historyModels[i])
	}
	return history, nil
}

func (r *customerRepository) CreateKid(ctx context.Context, kid *entity.CustomerKid) error {
	kidModel := ToKidModel(kid)
	if err := r.db.WithContext(ctx).Create(kidModel).Error; err != nil {
		return translate(err, "kid")
	}
	*kid = *ToKidEntity(kidModel)
	return nil
}

func (r *customerRepository) GetKid(ctx context.Context, customerID, kidID string) (*entity.CustomerKid, error) {
	var kidModel model.CustomerKidModel
	err := r.db.WithContext(ctx).Where("id = ? AND customer_id = ?", kidID, customerID).First(&kidModel).Error
	if err != nil {
		return nil, translate(err, "kid")
	}
	return ToKidEntity(&kidModel), nil
}

func (r *customerRepository) ListKids(ctx context.Context, customerID string) ([]*entity.CustomerKid, error) {
	var kidModels []model.CustomerKidModel
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND is_active = ?", customerID, true).
		Order("date_of_birth ASC").
		Find(&kidModels).Error
	if err != nil {
		return nil, err
	}

	kids := make([]*entity.CustomerKid, len(kidModels))
	for i := range kidModels {
		kids[i] = ToKidEntity(&kidModels[i])
	}
	return kids, nil
}

func (r *customerRepository) UpdateKid(ctx context.Context, kid *entity.CustomerKid) error {
	kidModel := ToKidModel(kid)
	kidModel.UpdatedAt = time.Now().UTC()
	err := r.db.WithContext(ctx).Model(kidModel).
		Select("name", "date_of_birth", "gender", "notes", "is_active", "updated_at").
		Updates(kidModel).Error
	return translate(err, "kid")
}

func (r *customerRepository) Segments(ctx context.Context, now time.Time) (entity.CustomerSegments, error) {
	var segments entity.CustomerSegments
	err := r.db.WithContext(ctx).Model(&model.CustomerModel{}).
		Select(`COUNT(*) FILTER (WHERE lifetime_points >= ?) AS high_value,
			COUNT(*) FILTER (WHERE last_activity >= ?) AS active,
			COUNT(*) FILTER (WHERE last_activity IS NULL OR last_activity < ?) AS inactive,
			COUNT(*) FILTER (WHERE joined_date >= ?) AS new_customers`,
			highValueLifetimePoints, now.AddDate(0, 0, -30), now.AddDate(0, 0, -90), now.AddDate(0, 0, -30)).
		Scan(&segments).Error
	return segments, err
}

func (r *customerRepository) TierDistribution(ctx context.Context) (map[entity.Tier]int64, error) {
	var rows []struct {
		Tier  string
		Count int64
	}
	err := r.db.WithContext(ctx).Model(&model.CustomerModel{}).
		Select("tier, COUNT(*) AS count").
		Where("status = ?", entity.CustomerStatusActive).
		Group("tier").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	distribution := make(map[entity.Tier]int64, len(entity.Tiers))
	for _, tier := range entity.Tiers {
		distribution[tier] = 0
	}
	for _, row := range rows {
		distribution[entity.Tier(row.Tier)] = row.Count
	}
	return distribution, nil
}

func (r *customerRepository) TopByLifetime(ctx context.Context, limit int) ([]entity.TopCustomer, error) {
	var top []entity.TopCustomer
	err := r.db.WithContext(ctx).Model(&model.CustomerModel{}).
		Select("customers.id AS customer_id, users.name AS name, customers.tier AS tier, customers.lifetime_points AS lifetime_points, customers.total_points AS total_points").
		Joins("JOIN users ON users.id = customers.user_id").
		Where("customers.status = ?", entity.CustomerStatusActive).
		Order("customers.lifetime_points DESC").
		Limit(limit).
		Scan(&top).Error
	return top, err
}

// BirthdayCandidates returns active customers, and active kids of active
// customers, born on day's month and day.
func (r *customerRepository) BirthdayCandidates(ctx context.Context, day time.Time) ([]entity.BirthdayCandidate, error) {
	month, date := int(day.Month()), day.Day()
	db := r.db.WithContext(ctx)

	var customerModels []model.CustomerModel
	err := db.Preload("User").
		Where("status = ? AND date_of_birth IS NOT NULL", entity.CustomerStatusActive).
		Where("EXTRACT(MONTH FROM date_of_birth) = ? AND EXTRACT(DAY FROM date_of_birth) = ?", month, date).
		Find(&customerModels).Error
	if err != nil {
		return nil, err
	}

	var kidModels []model.CustomerKidModel
	err = db.Where("is_active = ?", true).
		Where("EXTRACT(MONTH FROM date_of_birth) = ? AND EXTRACT(DAY FROM date_of_birth) = ?", month, date).
		Where("customer_id IN (?)", db.Model(&model.CustomerModel{}).Select("id").Where("status = ?", entity.CustomerStatusActive)).
		Find(&kidModels).Error
	if err != nil {
		return nil, err
	}

	candidates := make([]entity.BirthdayCandidate, 0, len(customerModels)+len(kidModels))
	for i := range customerModels {
		candidates = append(candidates, entity.BirthdayCandidate{Customer: ToCustomerEntity(&customerModels[i])})
	}
	if len(kidModels) == 0 {
		return candidates, nil
	}

	parentIDs := make([]string, 0, len(kidModels))
	for _, kid := range kidModels {
		parentIDs = append(parentIDs, kid.CustomerID)
	}
	var parentModels []model.CustomerModel
	if err := db.Preload("User").Where("id IN ?", parentIDs).Find(&parentModels).Error; err != nil {
		return nil, err
	}
	parents := make(map[string]*entity.Customer, len(parentModels))
	for i := range parentModels {
		parents[parentModels[i].ID] = ToCustomerEntity(&parentModels[i])
	}

	for i := range kidModels {
		parent, ok := parents[kidModels[i].CustomerID]
		if !ok {
			continue
		}
		candidates = append(candidates, entity.BirthdayCandidate{Customer: parent, Kid: ToKidEntity(&kidModels[i])})
	}
	return candidates, nil
}
