package domain

import "time"

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// Terminal reports whether the status may no longer change. Both settlement
// paths (provider callback and client poll) check this before writing.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentCompleted || s == PaymentFailed
}

const PaymentMethodMpesa = "mpesa"

type Payment struct {
	ID            uint64        `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID       uint64        `json:"orderId" gorm:"not null;index"`
	Amount        float64       `json:"amount" gorm:"not null"`
	Status        PaymentStatus `json:"status" gorm:"type:varchar(20);not null"`
	PaymentDate   time.Time     `json:"paymentDate" gorm:"autoCreateTime"`
	PaymentMethod string        `json:"paymentMethod" gorm:"size:50;not null"`
	// Raw provider payload retained for audit and debugging.
	PaymentDetails string `json:"-" gorm:"type:text"`

	MpesaPhone             string `json:"mpesaPhone,omitempty" gorm:"size:20"`
	MpesaReceipt           string `json:"mpesaReceipt,omitempty" gorm:"size:50"`
	MpesaCheckoutRequestID string `json:"mpesaCheckoutRequestId,omitempty" gorm:"size:100;index"`
	MpesaResultCode        string `json:"mpesaResultCode,omitempty" gorm:"size:10"`
	MpesaResultDesc        string `json:"mpesaResultDesc,omitempty" gorm:"size:255"`
}

// PaymentSettlement is the terminal state applied to a pending payment by
// either the callback handler or the status poll.
type PaymentSettlement struct {
	Status     PaymentStatus
	Receipt    string
	ResultCode string
	ResultDesc string
	Details    string
}
