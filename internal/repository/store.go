package repository

import (
	"context"

	"ecommerce-backend/internal/domain"
)

type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id uint64) error
	FindByID(ctx context.Context, id uint64) (*domain.Product, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
	FindByVendor(ctx context.Context, vendorID uint64) ([]domain.Product, error)
	// DecrementStock atomically subtracts qty when at least qty units remain.
	// Returns false without mutating when stock is insufficient.
	DecrementStock(ctx context.Context, id uint64, qty int) (bool, error)
}

type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	FindByID(ctx context.Context, id uint64) (*domain.Order, error)
	FindByUser(ctx context.Context, userID uint64) ([]domain.Order, error)
	// MarkPaid flips the order to paid and links the settling payment.
	MarkPaid(ctx context.Context, orderID, paymentID uint64) error
}

type OrderItemRepository interface {
	Create(ctx context.Context, item *domain.OrderItem) error
	FindByOrder(ctx context.Context, orderID uint64) ([]domain.OrderItem, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	Update(ctx context.Context, p *domain.Payment) error
	FindByOrder(ctx context.Context, orderID uint64) (*domain.Payment, error)
	FindByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*domain.Payment, error)
	// Settle applies a terminal state with a compare-and-set guarded on the
	// payment still being pending. Returns false when another writer (callback
	// vs poll) settled it first.
	Settle(ctx context.Context, paymentID uint64, s domain.PaymentSettlement) (bool, error)
}

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}

type VendorRepository interface {
	Create(ctx context.Context, v *domain.Vendor) error
	FindByUsername(ctx context.Context, username string) (*domain.Vendor, error)
}

type WishlistRepository interface {
	Create(ctx context.Context, w *domain.Wishlist) error
	FindByUser(ctx context.Context, userID uint64) ([]domain.Wishlist, error)
	Find(ctx context.Context, userID, productID uint64) (*domain.Wishlist, error)
	// DeleteForUser removes the entry only when owned by userID; returns
	// false when nothing matched.
	DeleteForUser(ctx context.Context, id, userID uint64) (bool, error)
}

// Store aggregates the repositories behind one transaction boundary.
// Repositories obtained inside Transaction share the transaction.
type Store interface {
	Products() ProductRepository
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	Payments() PaymentRepository
	Users() UserRepository
	Vendors() VendorRepository
	Wishlists() WishlistRepository
	Transaction(ctx context.Context, fn func(Store) error) error
}
