package domain

import "time"

type OrderStatus string

const (
	OrderPending OrderStatus = "pending"
	OrderPaid    OrderStatus = "paid"
	OrderFailed  OrderStatus = "failed"
)

type Order struct {
	ID        uint64      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint64      `json:"userId" gorm:"not null;index"`
	Status    OrderStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	Total     float64     `json:"total" gorm:"not null"`
	PaymentID *uint64     `json:"paymentId,omitempty" gorm:"index"`
	CreatedAt time.Time   `json:"createdAt" gorm:"autoCreateTime"`
}

// OrderItem snapshots the unit price at purchase time so later product
// price edits do not rewrite order history. Immutable once created.
type OrderItem struct {
	ID        uint64  `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID   uint64  `json:"orderId" gorm:"not null;index"`
	ProductID uint64  `json:"productId" gorm:"not null;index"`
	Quantity  int     `json:"quantity" gorm:"not null"`
	Price     float64 `json:"price" gorm:"not null"`
}
