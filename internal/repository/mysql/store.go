package mysql

import (
	"context"

	"ecommerce-backend/internal/repository"

	"gorm.io/gorm"
)

type store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) repository.Store {
	return &store{db: db}
}

func (s *store) Products() repository.ProductRepository   { return &productRepo{db: s.db} }
func (s *store) Orders() repository.OrderRepository       { return &orderRepo{db: s.db} }
func (s *store) OrderItems() repository.OrderItemRepository { return &orderItemRepo{db: s.db} }
func (s *store) Payments() repository.PaymentRepository   { return &paymentRepo{db: s.db} }
func (s *store) Users() repository.UserRepository         { return &userRepo{db: s.db} }
func (s *store) Vendors() repository.VendorRepository     { return &vendorRepo{db: s.db} }
func (s *store) Wishlists() repository.WishlistRepository { return &wishlistRepo{db: s.db} }

// Transaction runs fn against a Store bound to one database transaction.
// Any error from fn rolls back every write made through that Store.
func (s *store) Transaction(ctx context.Context, fn func(repository.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&store{db: tx})
	})
}
