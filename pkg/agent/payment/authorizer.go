package payment

import (
	"context"
	"time"

	"github.com/voyagerlabs/ap2-go/pkg/mandate"
)

// Authorization is a payment network's answer to an authorization request.
type Authorization struct {
	Authorized        bool
	TransactionID     string
	AuthorizationCode string
	NetworkResponse   string
	Processor         string
	Reason            string
}

// Authorizer is the payment network seam. The demo ships a simulator; a real
// integration implements this against an acquirer API.
type Authorizer interface {
	Authorize(ctx context.Context, pm *mandate.PaymentMandate, totalUSD float64) (*Authorization, error)
}

// SimulatedAuthorizer approves every request after a fixed latency.
type SimulatedAuthorizer struct {
	Latency time.Duration
}

// NewSimulatedAuthorizer creates a simulator with 500ms of network latency.
func NewSimulatedAuthorizer() *SimulatedAuthorizer {
	return &SimulatedAuthorizer{Latency: 500 * time.Millisecond}
}

// Authorize implements Authorizer. Context cancellation interrupts the
// simulated latency.
func (a *SimulatedAuthorizer) Authorize(ctx context.Context, _ *mandate.PaymentMandate, _ float64) (*Authorization, error) {
	if a.Latency > 0 {
		select {
		case <-time.After(a.Latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return &Authorization{
		Authorized:        true,
		TransactionID:     NewTransactionID(),
		AuthorizationCode: NewAuthorizationCode(),
		NetworkResponse:   "APPROVED",
		Processor:         "VoyagerPay Demo",
	}, nil
}
