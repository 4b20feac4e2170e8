package mocks

import (
	"context"

	"ecommerce-backend/internal/infra/mpesa"

	"github.com/stretchr/testify/mock"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) InitiateSTKPush(ctx context.Context, phone string, amount float64, accountReference, transactionDesc string) *mpesa.STKPushResult {
	args := m.Called(ctx, phone, amount, accountReference, transactionDesc)
	return args.Get(0).(*mpesa.STKPushResult)
}

func (m *MockGateway) QuerySTKStatus(ctx context.Context, checkoutRequestID string) *mpesa.QueryResult {
	args := m.Called(ctx, checkoutRequestID)
	return args.Get(0).(*mpesa.QueryResult)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, data any) error {
	args := m.Called(ctx, routingKey, data)
	return args.Error(0)
}
