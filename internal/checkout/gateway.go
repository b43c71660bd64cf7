package checkout

import (
	"context"
	"time"

	"github.com/Gsweya/hweibo-prototype/internal/models"
)

// PendingOrder is what a gateway sees while a checkout moves through its
// phases. Items is already a private copy.
type PendingOrder struct {
	Items         []models.CartItem
	Totals        models.Totals
	PaymentMethod models.PaymentMethod
}

// Gateway performs the work of one checkout phase. A real payment provider
// plugs in here; returning an error fails the checkout and leaves the cart
// untouched.
type Gateway interface {
	Step(ctx context.Context, phase models.CheckoutStatus, order PendingOrder) error
}

var DefaultDelays = map[models.CheckoutStatus]time.Duration{
	models.CheckoutStatusAuthorizing: 850 * time.Millisecond,
	models.CheckoutStatusProcessing:  1200 * time.Millisecond,
	models.CheckoutStatusFinalizing:  900 * time.Millisecond,
}

// SimulatedGateway holds each phase for a fixed delay and always succeeds
// unless the context ends first.
type SimulatedGateway struct {
	Delays map[models.CheckoutStatus]time.Duration
}

func NewSimulatedGateway(delays map[models.CheckoutStatus]time.Duration) *SimulatedGateway {
	if delays == nil {
		delays = DefaultDelays
	}
	return &SimulatedGateway{Delays: delays}
}

func (g *SimulatedGateway) Step(ctx context.Context, phase models.CheckoutStatus, _ PendingOrder) error {
	d := g.Delays[phase]
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
