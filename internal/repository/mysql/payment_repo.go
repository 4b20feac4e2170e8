package mysql

import (
	"context"
	"errors"
	"log"

	"ecommerce-backend/internal/domain"

	"gorm.io/gorm"
)

type paymentRepo struct {
	db *gorm.DB
}

func (r *paymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		log.Printf("payment create error: %v", err)
		return err
	}
	return nil
}

func (r *paymentRepo) Update(ctx context.Context, p *domain.Payment) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *paymentRepo) FindByOrder(ctx context.Context, orderID uint64) (*domain.Payment, error) {
	var p domain.Payment
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("payment FindByOrder error: %v", err)
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepo) FindByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*domain.Payment, error) {
	var p domain.Payment
	err := r.db.WithContext(ctx).
		Where("mpesa_checkout_request_id = ?", checkoutRequestID).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("payment FindByCheckoutRequestID error: %v", err)
		return nil, err
	}
	return &p, nil
}

// Settle transitions pending -> terminal with a status-guarded UPDATE.
// A racing callback and poll both call this; only one write lands.
func (r *paymentRepo) Settle(ctx context.Context, paymentID uint64, s domain.PaymentSettlement) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Payment{}).
		Where("id = ? AND status = ?", paymentID, domain.PaymentPending).
		Updates(map[string]any{
			"status":            s.Status,
			"mpesa_receipt":     s.Receipt,
			"mpesa_result_code": s.ResultCode,
			"mpesa_result_desc": s.ResultDesc,
			"payment_details":   s.Details,
		})
	if res.Error != nil {
		log.Printf("payment Settle error: %v", res.Error)
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
