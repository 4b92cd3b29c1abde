package persistent

import (
	"context"
	"time"

	"loyalty-hub/services/api/internal/entity"
	"loyalty-hub/services/api/internal/model"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByPhone(ctx context.Context, phone string) (*entity.User, error)
	ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error)
	Update(ctx context.Context, user *entity.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	List(ctx context.Context, filter entity.UserFilter, page entity.Page) ([]*entity.User, int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	userModel := ToUserModel(user)
	if err := r.db.WithContext(ctx).Create(userModel).Error; err != nil {
		return translate(err, "user")
	}
	*user = *ToUserEntity(userModel)
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var userModel model.UserModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&userModel).Error; err != nil {
		return nil, translate(err, "user")
	}
	return ToUserEntity(&userModel), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userModel model.UserModel
	if err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&userModel).Error; err != nil {
		return nil, translate(err, "user")
	}
	return ToUserEntity(&userModel), nil
}

func (r *userRepository) GetByPhone(ctx context.Context, phone string) (*entity.User, error) {
	var userModel model.UserModel
	if err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&userModel).Error; err != nil {
		return nil, translate(err, "user")
	}
	return ToUserEntity(&userModel), nil
}

func (r *userRepository) ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.UserModel{}).
		Where("LOWER(email) = LOWER(?) OR phone = ?", email, phone).
		Count(&count).Error
	return count > 0, err
}

// Update writes the profile columns. Password and login time have their own methods.
func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	userModel := ToUserModel(user)
	userModel.UpdatedAt = time.Now().UTC()
	err := r.db.WithContext(ctx).Model(userModel).
		Select("name", "email", "phone", "role", "status", "email_verified", "phone_verified", "updated_at").
		Updates(userModel).Error
	if err != nil {
		return translate(err, "user")
	}
	user.UpdatedAt = userModel.UpdatedAt
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res := r.db.WithContext(ctx).Model(&model.UserModel{}).Where("id = ?", id).
		Updates(map[string]interface{}{"password_hash": passwordHash, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "user")
	}
	return nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.UserModel{}).Where("id = ?", id).
		UpdateColumn("last_login", at).Error
}

func (r *userRepository) List(ctx context.Context, filter entity.UserFilter, page entity.Page) ([]*entity.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.UserModel{})
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("name ILIKE ? OR email ILIKE ? OR phone ILIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var userModels []model.UserModel
	if err := paginate(query.Order("created_at DESC"), page).Find(&userModels).Error; err != nil {
		return nil, 0, err
	}

	users := make([]*entity.User, len(userModels))
	for i := range userModels {
		users[i] = ToUserEntity(&userModels[i])
	}
	return users, total, nil
}
