package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"chatcore/internal/common"
	"chatcore/internal/dbmysql"
)

type UserRepository interface {
	Create(ctx context.Context, user *dbmysql.User) error
	ByIDs(ctx context.Context, userIDs []string) ([]dbmysql.User, error)
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *dbmysql.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("%w: create user: %v", common.ErrStorageFailure, err)
	}
	return nil
}

func (r *userRepo) ByIDs(ctx context.Context, userIDs []string) ([]dbmysql.User, error) {
	var users []dbmysql.User
	if len(userIDs) == 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("%w: load users: %v", common.ErrStorageFailure, err)
	}
	return users, nil
}
