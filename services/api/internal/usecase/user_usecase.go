package usecase

import (
	"context"
	"fmt"
	"strings"

	"loyalty-hub/pkg/errs"
	"loyalty-hub/pkg/logger"
	"loyalty-hub/services/api/internal/entity"
	"loyalty-hub/services/api/internal/repo/persistent"
)

type UserUseCase interface {
	ListUsers(ctx context.Context, filter entity.UserFilter, page entity.Page) (*entity.PageResult[*entity.User], error)
	GetUser(ctx context.Context, id string) (*entity.User, error)
	UpdateUser(ctx context.Context, id string, update entity.UserUpdate) (*entity.User, error)
	DeactivateUser(ctx context.Context, id string) error
}

type userUseCase struct {
	userRepo persistent.UserRepository
	logger   *logger.Logger
}

func NewUserUseCase(userRepo persistent.UserRepository, logger *logger.Logger) UserUseCase {
	return &userUseCase{userRepo: userRepo, logger: logger}
}

func (uc *userUseCase) ListUsers(ctx context.Context, filter entity.UserFilter, page entity.Page) (*entity.PageResult[*entity.User], error) {
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, errs.Validation("invalid role: %s", filter.Role)
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, errs.Validation("invalid status: %s", filter.Status)
	}

	page = page.Normalize()
	users, total, err := uc.userRepo.List(ctx, filter, page)
	if err != nil {
		uc.logger.Error("Failed to list users: %v", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return entity.NewPageResult(users, total, page), nil
}

func (uc *userUseCase) GetUser(ctx context.Context, id string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

func (uc *userUseCase) UpdateUser(ctx context.Context, id string, update entity.UserUpdate) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" || len(name) > 100 {
			return nil, errs.Validation("name must be between 1 and 100 characters")
		}
		user.Name = name
	}
	if update.Phone != nil {
		phone := strings.TrimSpace(*update.Phone)
		if phone == "" || len(phone) > 20 {
			return nil, errs.Validation("phone must be between 1 and 20 characters")
		}
		user.Phone = phone
	}
	if update.Role != nil {
		if !update.Role.Valid() {
			return nil, errs.Validation("invalid role: %s", *update.Role)
		}
		user.Role = *update.Role
	}
	if update.Status != nil {
		if !update.Status.Valid() {
			return nil, errs.Validation("invalid status: %s", *update.Status)
		}
		user.Status = *update.Status
	}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		uc.logger.Error("Failed to update user %s: %v", id, err)
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// DeactivateUser marks the account inactive. Users are never deleted.
func (uc *userUseCase) DeactivateUser(ctx context.Context, id string) error {
	status := entity.UserStatusInactive
	_, err := uc.UpdateUser(ctx, id, entity.UserUpdate{Status: &status})
	return err
}
