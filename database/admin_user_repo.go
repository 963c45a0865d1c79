package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

const adminUserEntity = "admin user"

type AdminUserRepo struct {
	db *gorm.DB
}

func NewAdminUserRepo(db *gorm.DB) *AdminUserRepo {
	return &AdminUserRepo{db}
}

// FindByUsername matches the username exactly.
func (r *AdminUserRepo) FindByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	var user models.AdminUser
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound(adminUserEntity)
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", adminUserEntity, err)
	}
	return &user, nil
}

func (r *AdminUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error) {
	var user models.AdminUser
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound(adminUserEntity)
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", adminUserEntity, err)
	}
	return &user, nil
}

func (r *AdminUserRepo) Add(ctx context.Context, user *models.AdminUser) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return errs.NewDatabaseError("create", adminUserEntity, err)
	}
	return nil
}

// TouchLastLogin is the only mutation the application performs on a user.
func (r *AdminUserRepo) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.AdminUser{}).
		Where("id = ?", id).
		Update("last_login", at)
	if result.Error != nil {
		return errs.NewDatabaseError("update", adminUserEntity, result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound(adminUserEntity)
	}
	return nil
}
