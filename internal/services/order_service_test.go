package services

import (
	"context"
	"sync"
	"testing"

	"ecommerce-backend/internal/domain"
	"ecommerce-backend/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestOrderService_PlaceOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("decrements stock and snapshots item prices", func(t *testing.T) {
		store := newFakeStore()
		product := seedProduct(store, "Widget", 50, 5)

		pub := new(mocks.MockPublisher)
		pub.On("Publish", mock.Anything, "order.created", mock.Anything).Return(nil).Maybe()

		svc := NewOrderService(store, pub)
		order, err := svc.PlaceOrder(ctx, 1, 100, []OrderLine{
			{ProductID: product.ID, Quantity: 2, Price: 50},
		})

		assert.NoError(t, err)
		assert.NotNil(t, order)
		assert.NotZero(t, order.ID)
		assert.Equal(t, domain.OrderPending, order.Status)
		assert.Equal(t, float64(100), order.Total)

		got, _ := store.Products().FindByID(ctx, product.ID)
		assert.Equal(t, 3, got.Stock)

		items, _ := store.OrderItems().FindByOrder(ctx, order.ID)
		if assert.Len(t, items, 1) {
			assert.Equal(t, product.ID, items[0].ProductID)
			assert.Equal(t, 2, items[0].Quantity)
			assert.Equal(t, float64(50), items[0].Price)
		}
	})

	t.Run("insufficient stock rolls back the whole order", func(t *testing.T) {
		store := newFakeStore()
		cheap := seedProduct(store, "Cheap", 10, 10)
		scarce := seedProduct(store, "Scarce", 99, 1)

		svc := NewOrderService(store, nil)
		order, err := svc.PlaceOrder(ctx, 1, 218, []OrderLine{
			{ProductID: cheap.ID, Quantity: 2, Price: 10},
			{ProductID: scarce.ID, Quantity: 2, Price: 99},
		})

		assert.Nil(t, order)
		var stockErr *InsufficientStockError
		if assert.ErrorAs(t, err, &stockErr) {
			assert.Equal(t, "Scarce", stockErr.ProductName)
		}

		// Neither line's decrement survives, and no order row remains.
		gotCheap, _ := store.Products().FindByID(ctx, cheap.ID)
		assert.Equal(t, 10, gotCheap.Stock)
		gotScarce, _ := store.Products().FindByID(ctx, scarce.ID)
		assert.Equal(t, 1, gotScarce.Stock)
		orders, _ := store.Orders().FindByUser(ctx, 1)
		assert.Empty(t, orders)
	})

	t.Run("missing product line is skipped", func(t *testing.T) {
		store := newFakeStore()
		product := seedProduct(store, "Widget", 50, 5)

		svc := NewOrderService(store, nil)
		order, err := svc.PlaceOrder(ctx, 1, 150, []OrderLine{
			{ProductID: 9999, Quantity: 1, Price: 100},
			{ProductID: product.ID, Quantity: 1, Price: 50},
		})

		assert.NoError(t, err)
		items, _ := store.OrderItems().FindByOrder(ctx, order.ID)
		assert.Len(t, items, 1)
		assert.Equal(t, product.ID, items[0].ProductID)
	})

	t.Run("empty item list rejected", func(t *testing.T) {
		svc := NewOrderService(newFakeStore(), nil)
		_, err := svc.PlaceOrder(ctx, 1, 0, nil)
		assert.ErrorIs(t, err, ErrEmptyOrder)
	})

	t.Run("non-positive quantity rejected", func(t *testing.T) {
		store := newFakeStore()
		product := seedProduct(store, "Widget", 50, 5)
		svc := NewOrderService(store, nil)
		_, err := svc.PlaceOrder(ctx, 1, 50, []OrderLine{
			{ProductID: product.ID, Quantity: 0, Price: 50},
		})
		assert.ErrorIs(t, err, ErrInvalidQuantity)

		got, _ := store.Products().FindByID(ctx, product.ID)
		assert.Equal(t, 5, got.Stock)
	})
}

// Two buyers race for the last unit: exactly one order succeeds, the other
// gets the insufficient-stock failure and the stock never goes negative.
func TestOrderService_PlaceOrder_ConcurrentLastUnit(t *testing.T) {
	store := newFakeStore()
	product := seedProduct(store, "Last One", 20, 1)
	svc := NewOrderService(store, nil)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.PlaceOrder(context.Background(), uint64(i+1), 20, []OrderLine{
				{ProductID: product.ID, Quantity: 1, Price: 20},
			})
		}(i)
	}
	wg.Wait()

	var succeeded, failed int
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var stockErr *InsufficientStockError
		assert.ErrorAs(t, err, &stockErr)
		failed++
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, failed)

	got, _ := store.Products().FindByID(context.Background(), product.ID)
	assert.Equal(t, 0, got.Stock)
}

func TestOrderService_ListOrders(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	seedOrder(store, 1, 100)
	seedOrder(store, 1, 55)
	seedOrder(store, 2, 70)

	svc := NewOrderService(store, nil)
	orders, err := svc.ListOrders(ctx, 1)
	assert.NoError(t, err)
	assert.Len(t, orders, 2)
	for _, o := range orders {
		assert.Equal(t, uint64(1), o.UserID)
	}
}
