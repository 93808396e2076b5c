package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/skdm/shopkart/internal/models"
)

type ActivityRepo struct {
	db *gorm.DB
}

func NewActivityRepo(db *gorm.DB) *ActivityRepo {
	return &ActivityRepo{db: db}
}

func (r *ActivityRepo) UserExists(ctx context.Context, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Count(&count).Error
	return count > 0, err
}

// Upsert keeps a single funnel row per user: update the existing one or
// create it.
func (r *ActivityRepo) Upsert(ctx context.Context, userID uint, productIDs, currentStep string) (created bool, err error) {
	var existing models.Activity
	err = r.db.WithContext(ctx).Where("user_id = ?", userID).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		a := models.Activity{UserID: userID, ProductIDs: productIDs, CurrentStep: currentStep}
		return true, r.db.WithContext(ctx).Create(&a).Error
	case err != nil:
		return false, err
	default:
		return false, r.db.WithContext(ctx).Model(&existing).
			Updates(map[string]any{"product_ids": productIDs, "current_step": currentStep}).Error
	}
}

// ActivityWithUser is one funnel row joined with its user's contact details.
type ActivityWithUser struct {
	models.Activity
	UserName   string `json:"user_name"`
	UserEmail  string `json:"user_email"`
	UserMobile string `json:"user_mobile"`
}

func (r *ActivityRepo) List(ctx context.Context, limit, offset int) ([]ActivityWithUser, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Activity{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []ActivityWithUser
	err := r.db.WithContext(ctx).
		Table("activities").
		Select(`activities.*, users.name AS user_name, users.email AS user_email,
			users.mobile AS user_mobile`).
		Joins("JOIN users ON users.id = activities.user_id").
		Order("activities.updated_at DESC").
		Limit(limit).Offset(offset).
		Scan(&out).Error
	return out, total, err
}
