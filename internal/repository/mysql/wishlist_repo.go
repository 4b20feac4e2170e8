package mysql

import (
	"context"
	"errors"

	"ecommerce-backend/internal/domain"

	"gorm.io/gorm"
)

type wishlistRepo struct {
	db *gorm.DB
}

func (r *wishlistRepo) Create(ctx context.Context, w *domain.Wishlist) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *wishlistRepo) FindByUser(ctx context.Context, userID uint64) ([]domain.Wishlist, error) {
	var out []domain.Wishlist
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *wishlistRepo) Find(ctx context.Context, userID, productID uint64) (*domain.Wishlist, error) {
	var w domain.Wishlist
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&w).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

func (r *wishlistRepo) DeleteForUser(ctx context.Context, id, userID uint64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Wishlist{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
