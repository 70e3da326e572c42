// Package payment holds the in-process payment gateway used instead of a real
// card processor.
package payment

import (
	"context"
	"log"
	"sync"

	"github.com/Domenick1991/hotelbooking/internal/domain"
)

// MaxCharge is the largest amount the gateway approves, in minor units.
const MaxCharge int64 = 1_000_000

// MockGateway approves charges in (0, MaxCharge] and remembers them per
// booking reference so that refunds never exceed what was charged.
type MockGateway struct {
	mu      sync.Mutex
	charged map[domain.BookingReference]domain.Money
}

func NewMockGateway() *MockGateway {
	return &MockGateway{charged: make(map[domain.BookingReference]domain.Money)}
}

func (g *MockGateway) Charge(ctx context.Context, ref domain.BookingReference, amount domain.Money) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if amount.Amount <= 0 || amount.Amount > MaxCharge {
		log.Printf("payment declined for %s: %s", ref, amount)
		return false, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.charged[ref] = amount
	log.Printf("payment approved for %s: %s", ref, amount)
	return true, nil
}

// Refund returns false when nothing was charged for ref or amount exceeds the
// charge. A successful refund clears the charge.
func (g *MockGateway) Refund(ctx context.Context, ref domain.BookingReference, amount domain.Money) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	charged, ok := g.charged[ref]
	if !ok {
		return false, nil
	}
	cmp, err := amount.Compare(charged)
	if err != nil {
		return false, err
	}
	if cmp > 0 || amount.Amount <= 0 {
		return false, nil
	}
	delete(g.charged, ref)
	log.Printf("refund issued for %s: %s", ref, amount)
	return true, nil
}
