package services

import (
	"context"

	"ecommerce-backend/internal/domain"
	"ecommerce-backend/internal/repository"
)

type WishlistService struct {
	store repository.Store
}

func NewWishlistService(store repository.Store) *WishlistService {
	return &WishlistService{store: store}
}

func (s *WishlistService) List(ctx context.Context, userID uint64) ([]domain.Wishlist, error) {
	return s.store.Wishlists().FindByUser(ctx, userID)
}

// Add enforces the one-entry-per-(user, product) rule.
func (s *WishlistService) Add(ctx context.Context, userID, productID uint64) (*domain.Wishlist, error) {
	existing, err := s.store.Wishlists().Find(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateWishlistItem
	}
	entry := &domain.Wishlist{
		UserID:    userID,
		ProductID: productID,
	}
	if err := s.store.Wishlists().Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *WishlistService) Remove(ctx context.Context, userID, id uint64) error {
	removed, err := s.store.Wishlists().DeleteForUser(ctx, id, userID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrWishlistItemNotFound
	}
	return nil
}
