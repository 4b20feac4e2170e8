package mpesa

import "context"

// Gateway is the surface the payment service depends on. Both calls fold
// transport and provider faults into structured results; callers persist the
// failure instead of handling a transport error.
type Gateway interface {
	InitiateSTKPush(ctx context.Context, phone string, amount float64, accountReference, transactionDesc string) *STKPushResult
	QuerySTKStatus(ctx context.Context, checkoutRequestID string) *QueryResult
}

var _ Gateway = (*Client)(nil)
