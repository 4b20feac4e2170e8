package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"ecommerce-backend/internal/domain"
	"ecommerce-backend/internal/infra/mpesa"
	rabbit "ecommerce-backend/internal/infra/rabbitmq"
	"ecommerce-backend/internal/repository"
)

// PaymentService owns the payment lifecycle: pending -> completed | failed,
// both terminal. Settlement arrives either through the provider callback or
// an explicit status poll; both paths funnel through the same status-guarded
// settle so they converge on one terminal state.
type PaymentService struct {
	store     repository.Store
	gateway   mpesa.Gateway
	publisher rabbit.PublisherInterface
}

func NewPaymentService(store repository.Store, gateway mpesa.Gateway, pub rabbit.PublisherInterface) *PaymentService {
	return &PaymentService{
		store:     store,
		gateway:   gateway,
		publisher: pub,
	}
}

type InitiatePaymentInput struct {
	OrderID       uint64
	Amount        float64
	PaymentMethod string
	PhoneNumber   string
}

// InitiatePayment starts a payment for an order owned by the caller.
//
// For M-Pesa the Payment is persisted in pending before the push request, so
// a record exists for audit whatever the gateway answers. A gateway rejection
// marks it failed and the caller sees the failed Payment, not an error.
// Other methods are trusted on receipt: the Payment is created completed and
// the Order settles immediately.
func (s *PaymentService) InitiatePayment(ctx context.Context, ident domain.Identity, in InitiatePaymentInput) (*domain.Payment, error) {
	order, err := s.store.Orders().FindByID(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !ident.IsUser() || order.UserID != ident.ID {
		return nil, ErrUnauthorized
	}

	if in.PaymentMethod == domain.PaymentMethodMpesa {
		return s.initiateMpesa(ctx, order, in)
	}

	payment := &domain.Payment{
		OrderID:       order.ID,
		Amount:        in.Amount,
		Status:        domain.PaymentCompleted,
		PaymentMethod: in.PaymentMethod,
	}
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := tx.Payments().Create(ctx, payment); err != nil {
			return err
		}
		return tx.Orders().MarkPaid(ctx, order.ID, payment.ID)
	})
	if err != nil {
		return nil, err
	}

	go s.publishPaymentCompleted(context.Background(), payment)
	return payment, nil
}

func (s *PaymentService) initiateMpesa(ctx context.Context, order *domain.Order, in InitiatePaymentInput) (*domain.Payment, error) {
	if in.PhoneNumber == "" {
		return nil, ErrPhoneRequired
	}

	payment := &domain.Payment{
		OrderID:       order.ID,
		Amount:        in.Amount,
		Status:        domain.PaymentPending,
		PaymentMethod: domain.PaymentMethodMpesa,
		MpesaPhone:    in.PhoneNumber,
	}
	if err := s.store.Payments().Create(ctx, payment); err != nil {
		return nil, err
	}

	accountReference := fmt.Sprintf("Order #%d", order.ID)
	transactionDesc := fmt.Sprintf("Payment for Order #%d", order.ID)
	result := s.gateway.InitiateSTKPush(ctx, in.PhoneNumber, in.Amount, accountReference, transactionDesc)

	if !result.Success {
		log.Printf("payment %d: STK push rejected: %s", payment.ID, result.Message)
		if _, err := s.store.Payments().Settle(ctx, payment.ID, domain.PaymentSettlement{
			Status:     domain.PaymentFailed,
			ResultDesc: result.Message,
		}); err != nil {
			return nil, err
		}
		payment.Status = domain.PaymentFailed
		payment.MpesaResultDesc = result.Message
		return payment, nil
	}

	payment.MpesaCheckoutRequestID = result.CheckoutRequestID
	if err := s.store.Payments().Update(ctx, payment); err != nil {
		return nil, err
	}
	log.Printf("payment %d: STK push accepted, checkout_request_id=%s", payment.ID, result.CheckoutRequestID)
	return payment, nil
}

// HandleCallback processes the provider's asynchronous settlement callback.
// Replays of a callback for an already-terminal payment are acknowledged
// without touching state.
func (s *PaymentService) HandleCallback(ctx context.Context, env mpesa.CallbackEnvelope) (*domain.Payment, error) {
	cb := env.Body.StkCallback

	payment, err := s.store.Payments().FindByCheckoutRequestID(ctx, cb.CheckoutRequestID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		log.Printf("callback for unknown checkout_request_id %q", cb.CheckoutRequestID)
		return nil, ErrPaymentNotFound
	}
	if payment.Status.Terminal() {
		log.Printf("payment %d: duplicate callback ignored (status=%s)", payment.ID, payment.Status)
		return payment, nil
	}

	raw, _ := json.Marshal(env)

	if cb.ResultCode == 0 {
		settlement := domain.PaymentSettlement{
			Status:     domain.PaymentCompleted,
			Receipt:    env.ReceiptNumber(),
			ResultCode: strconv.Itoa(cb.ResultCode),
			ResultDesc: cb.ResultDesc,
			Details:    string(raw),
		}
		if err := s.settleSuccess(ctx, payment, settlement); err != nil {
			return nil, err
		}
		return payment, nil
	}

	settlement := domain.PaymentSettlement{
		Status:     domain.PaymentFailed,
		ResultCode: strconv.Itoa(cb.ResultCode),
		ResultDesc: cb.ResultDesc,
		Details:    string(raw),
	}
	applied, err := s.store.Payments().Settle(ctx, payment.ID, settlement)
	if err != nil {
		return nil, err
	}
	if applied {
		applySettlement(payment, settlement)
		log.Printf("payment %d: marked failed: %s", payment.ID, cb.ResultDesc)
	}
	return payment, nil
}

// QueryStatus returns the payment state for a checkout request, polling the
// gateway only when the payment is still pending. A definitive poll result
// settles the payment exactly as the callback path would.
func (s *PaymentService) QueryStatus(ctx context.Context, ident domain.Identity, checkoutRequestID string) (*domain.Payment, *mpesa.QueryResult, error) {
	payment, err := s.store.Payments().FindByCheckoutRequestID(ctx, checkoutRequestID)
	if err != nil {
		return nil, nil, err
	}
	if payment == nil {
		return nil, nil, ErrPaymentNotFound
	}

	order, err := s.store.Orders().FindByID(ctx, payment.OrderID)
	if err != nil {
		return nil, nil, err
	}
	if order == nil || !ident.IsUser() || order.UserID != ident.ID {
		return nil, nil, ErrUnauthorized
	}

	if payment.Status.Terminal() {
		return payment, nil, nil
	}

	result := s.gateway.QuerySTKStatus(ctx, checkoutRequestID)
	if !result.Success || result.Response == nil {
		return payment, result, nil
	}

	raw, _ := json.Marshal(result.Response)
	switch code := result.Response.ResultCode; {
	case code == "0":
		settlement := domain.PaymentSettlement{
			Status:     domain.PaymentCompleted,
			ResultCode: code,
			ResultDesc: result.Response.ResultDesc,
			Details:    string(raw),
		}
		if err := s.settleSuccess(ctx, payment, settlement); err != nil {
			return nil, nil, err
		}
	case code != "":
		settlement := domain.PaymentSettlement{
			Status:     domain.PaymentFailed,
			ResultCode: code,
			ResultDesc: result.Response.ResultDesc,
			Details:    string(raw),
		}
		applied, err := s.store.Payments().Settle(ctx, payment.ID, settlement)
		if err != nil {
			return nil, nil, err
		}
		if applied {
			applySettlement(payment, settlement)
		}
	default:
		// No usable result code yet; payment stays pending and the raw
		// response is surfaced to the caller.
	}

	return payment, result, nil
}

// GetByOrder returns the payment attached to an order owned by the caller.
func (s *PaymentService) GetByOrder(ctx context.Context, ident domain.Identity, orderID uint64) (*domain.Payment, error) {
	order, err := s.store.Orders().FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !ident.IsUser() || order.UserID != ident.ID {
		return nil, ErrUnauthorized
	}

	payment, err := s.store.Payments().FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	return payment, nil
}

// settleSuccess applies a completed settlement and marks the order paid in
// one transaction. The CAS inside Settle makes a lost race a no-op: if the
// other path settled first, neither payment nor order is rewritten.
func (s *PaymentService) settleSuccess(ctx context.Context, payment *domain.Payment, settlement domain.PaymentSettlement) error {
	applied := false
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		applied, err = tx.Payments().Settle(ctx, payment.ID, settlement)
		if err != nil {
			return err
		}
		if !applied {
			return nil
		}
		return tx.Orders().MarkPaid(ctx, payment.OrderID, payment.ID)
	})
	if err != nil {
		return err
	}
	if applied {
		applySettlement(payment, settlement)
		log.Printf("payment %d: completed, order %d marked paid", payment.ID, payment.OrderID)
		go s.publishPaymentCompleted(context.Background(), payment)
	}
	return nil
}

func applySettlement(p *domain.Payment, s domain.PaymentSettlement) {
	p.Status = s.Status
	p.MpesaReceipt = s.Receipt
	p.MpesaResultCode = s.ResultCode
	p.MpesaResultDesc = s.ResultDesc
	p.PaymentDetails = s.Details
}

func (s *PaymentService) publishPaymentCompleted(ctx context.Context, payment *domain.Payment) {
	if s.publisher == nil {
		return
	}
	evt := domain.PaymentCompletedEvent{
		PaymentID:     payment.ID,
		OrderID:       payment.OrderID,
		Amount:        payment.Amount,
		PaymentMethod: payment.PaymentMethod,
		CompletedAt:   time.Now(),
	}
	if err := s.publisher.Publish(ctx, "payment.completed", evt); err != nil {
		log.Printf("failed to publish payment.completed for payment %d: %v", payment.ID, err)
	}
}
