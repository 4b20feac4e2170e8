package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"ecommerce-backend/internal/domain"
	rabbit "ecommerce-backend/internal/infra/rabbitmq"
	"ecommerce-backend/internal/repository"

	"github.com/go-redis/redis/v8"
)

// OrderLine is one requested cart entry. Price is the client-submitted unit
// price, stored as the snapshot on the resulting OrderItem.
type OrderLine struct {
	ProductID uint64
	Quantity  int
	Price     float64
}

type OrderService struct {
	store       repository.Store
	publisher   rabbit.PublisherInterface
	redisClient *redis.Client
}

func NewOrderService(store repository.Store, pub rabbit.PublisherInterface) *OrderService {
	return &OrderService{
		store:     store,
		publisher: pub,
	}
}

func (s *OrderService) SetRedisClient(client *redis.Client) {
	s.redisClient = client
}

// PlaceOrder creates an Order and its OrderItems and decrements stock, all
// inside one transaction: a failed line rolls back everything, including the
// Order row, so no orphan pending orders survive.
//
// Line items referencing a product that no longer exists are skipped rather
// than rejected; the order proceeds with the remaining lines.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uint64, total float64, items []OrderLine) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, line := range items {
		if line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}

	order := &domain.Order{
		UserID: userID,
		Status: domain.OrderPending,
		Total:  total,
	}

	itemCount := 0
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}

		for _, line := range items {
			product, err := tx.Products().FindByID(ctx, line.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				log.Printf("order %d: product %d not found, skipping line", order.ID, line.ProductID)
				continue
			}

			ok, err := tx.Products().DecrementStock(ctx, product.ID, line.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return &InsufficientStockError{ProductName: product.Name}
			}

			item := &domain.OrderItem{
				OrderID:   order.ID,
				ProductID: product.ID,
				Quantity:  line.Quantity,
				Price:     line.Price,
			}
			if err := tx.OrderItems().Create(ctx, item); err != nil {
				return err
			}
			itemCount++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateProductCache(items)
	go s.publishOrderCreated(context.Background(), order, itemCount)

	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, userID uint64) ([]domain.Order, error) {
	return s.store.Orders().FindByUser(ctx, userID)
}

func (s *OrderService) OrderItems(ctx context.Context, orderID uint64) ([]domain.OrderItem, error) {
	return s.store.OrderItems().FindByOrder(ctx, orderID)
}

// invalidateProductCache drops cached product entries whose stock changed.
func (s *OrderService) invalidateProductCache(items []OrderLine) {
	if s.redisClient == nil {
		return
	}
	keys := make([]string, 0, len(items))
	for _, line := range items {
		keys = append(keys, fmt.Sprintf("product:%d", line.ProductID))
	}
	s.redisClient.Del(context.Background(), keys...)
}

func (s *OrderService) publishOrderCreated(ctx context.Context, order *domain.Order, itemCount int) {
	if s.publisher == nil {
		return
	}
	evt := domain.OrderCreatedEvent{
		OrderID:   order.ID,
		UserID:    order.UserID,
		Total:     order.Total,
		ItemCount: itemCount,
		CreatedAt: time.Now(),
	}
	if err := s.publisher.Publish(ctx, "order.created", evt); err != nil {
		log.Printf("failed to publish order.created for order %d: %v", order.ID, err)
	}
}
