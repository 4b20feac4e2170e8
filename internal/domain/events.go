package domain

import "time"

type OrderCreatedEvent struct {
	OrderID   uint64    `json:"orderId"`
	UserID    uint64    `json:"userId"`
	Total     float64   `json:"total"`
	ItemCount int       `json:"itemCount"`
	CreatedAt time.Time `json:"createdAt"`
}

type PaymentCompletedEvent struct {
	PaymentID     uint64    `json:"paymentId"`
	OrderID       uint64    `json:"orderId"`
	Amount        float64   `json:"amount"`
	PaymentMethod string    `json:"paymentMethod"`
	CompletedAt   time.Time `json:"completedAt"`
}
