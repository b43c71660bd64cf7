// Package checkout turns a session's cart into an order receipt.
//
// A checkout walks idle -> authorizing -> processing -> finalizing -> done.
// Any phase can end in failed instead; a failed checkout leaves the cart as
// it was so the buyer can retry.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/Gsweya/hweibo-prototype/internal/cart"
	"github.com/Gsweya/hweibo-prototype/internal/models"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInFlight             = errors.New("checkout already in progress")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrFailed               = errors.New("checkout failed")
	ErrTimeout              = errors.New("checkout timed out")
	ErrCanceled             = errors.New("checkout canceled")
)

const DefaultTimeout = 10 * time.Second

var phases = []models.CheckoutStatus{
	models.CheckoutStatusAuthorizing,
	models.CheckoutStatusProcessing,
	models.CheckoutStatusFinalizing,
}

type Options struct {
	Policy  Policy
	Gateway Gateway
	// Timeout bounds a whole checkout run. Zero means DefaultTimeout.
	Timeout    time.Duration
	Logger     *slog.Logger
	Now        func() time.Time
	NewOrderID func(time.Time) (string, error)
	// OnTransition is called after every status change, outside any lock.
	OnTransition func(from, to models.CheckoutStatus)
}

type Orchestrator struct {
	cart         *cart.Store
	policy       Policy
	gateway      Gateway
	timeout      time.Duration
	logger       *slog.Logger
	now          func() time.Time
	newOrderID   func(time.Time) (string, error)
	onTransition func(from, to models.CheckoutStatus)

	mu      sync.Mutex
	status  models.CheckoutStatus
	pending *models.Totals
	receipt *models.OrderReceipt
	failure string
	cancel  context.CancelFunc
}

func New(store *cart.Store, opts Options) *Orchestrator {
	o := &Orchestrator{
		cart:         store,
		policy:       opts.Policy,
		gateway:      opts.Gateway,
		timeout:      opts.Timeout,
		logger:       opts.Logger,
		now:          opts.Now,
		newOrderID:   opts.NewOrderID,
		onTransition: opts.OnTransition,
		status:       models.CheckoutStatusIdle,
	}
	if o.policy.TaxRate.IsZero() && o.policy.ShippingFee == 0 {
		o.policy = DefaultPolicy()
	}
	if o.gateway == nil {
		o.gateway = NewSimulatedGateway(nil)
	}
	if o.timeout <= 0 {
		o.timeout = DefaultTimeout
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.now == nil {
		o.now = time.Now
	}
	if o.newOrderID == nil {
		o.newOrderID = NewOrderID
	}
	return o
}

// Quote returns the totals a checkout would charge for the cart right now.
func (o *Orchestrator) Quote() models.Totals {
	return o.policy.Quote(o.cart.Items())
}

// Checkout runs the full payment flow for the current cart. It declines
// without side effects, returning ErrEmptyCart or ErrInFlight, when there is
// nothing to buy or another checkout on this cart has not finished.
//
// Cancelling ctx, calling Cancel, or exceeding the configured timeout fails
// the checkout and keeps the cart.
func (o *Orchestrator) Checkout(ctx context.Context, method models.PaymentMethod) (*models.OrderReceipt, error) {
	if !method.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, method)
	}

	o.mu.Lock()
	if o.status.InFlight() {
		o.mu.Unlock()
		return nil, ErrInFlight
	}

	// The receipt is built from this copy.
	items, _, _ := o.cart.Snapshot()
	if len(items) == 0 {
		o.mu.Unlock()
		return nil, ErrEmptyCart
	}
	totals := o.policy.Quote(items)

	runCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	from := o.status
	o.status = models.CheckoutStatusAuthorizing
	o.pending = &totals
	o.failure = ""
	o.cancel = cancel
	o.mu.Unlock()
	o.transitioned(from, models.CheckoutStatusAuthorizing)

	started := o.now()
	logger := o.logger.With(slog.String("payment_method", string(method)))
	logger.Info("Checkout started",
		slog.Int("items", len(items)),
		slog.Int64("grand_total", totals.GrandTotal))

	order := PendingOrder{Items: slices.Clone(items), Totals: totals, PaymentMethod: method}
	for i, phase := range phases {
		if i > 0 {
			o.advance(phase)
		}
		if err := runCtx.Err(); err != nil {
			return nil, o.fail(runCtx, phase, err)
		}
		if err := o.gateway.Step(runCtx, phase, order); err != nil {
			return nil, o.fail(runCtx, phase, err)
		}
	}

	orderID, err := o.newOrderID(o.now())
	if err != nil {
		return nil, o.fail(runCtx, models.CheckoutStatusFinalizing, err)
	}

	receipt := &models.OrderReceipt{
		OrderID:       orderID,
		Items:         items,
		Totals:        totals,
		PaymentMethod: method,
		PaymentLabel:  method.Label(),
		CreatedAt:     o.now(),
	}

	// The cart is emptied before the status leaves the in-flight set, so no
	// second checkout can snapshot the lines just paid for.
	o.mu.Lock()
	o.cart.ClearCart()
	o.status = models.CheckoutStatusDone
	o.receipt = receipt
	o.pending = nil
	o.cancel = nil
	o.mu.Unlock()
	o.transitioned(models.CheckoutStatusFinalizing, models.CheckoutStatusDone)

	logger.Info("Checkout completed",
		slog.String("order_id", orderID),
		slog.Duration("duration", o.now().Sub(started)))

	return receipt.Clone(), nil
}

// Cancel aborts an in-flight checkout. It reports whether one was running.
func (o *Orchestrator) Cancel() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancel == nil || !o.status.InFlight() {
		return false
	}
	o.cancel()
	return true
}

func (o *Orchestrator) Status() models.CheckoutStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// State reports the current status, the totals being charged while in
// flight, the last receipt and the last failure reason.
func (o *Orchestrator) State() models.CheckoutState {
	o.mu.Lock()
	defer o.mu.Unlock()

	st := models.CheckoutState{
		Status:  o.status,
		Receipt: o.receipt.Clone(),
		Failure: o.failure,
	}
	if o.pending != nil {
		p := *o.pending
		st.Pending = &p
	}
	return st
}

// LastReceipt returns a copy of the most recent successful receipt.
func (o *Orchestrator) LastReceipt() *models.OrderReceipt {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.receipt.Clone()
}

// advance is only called by the goroutine running the checkout, which is the
// sole writer of status while it is in flight.
func (o *Orchestrator) advance(to models.CheckoutStatus) {
	o.mu.Lock()
	from := o.status
	o.status = to
	o.mu.Unlock()
	o.transitioned(from, to)
}

func (o *Orchestrator) fail(runCtx context.Context, phase models.CheckoutStatus, cause error) error {
	var err error
	switch {
	case errors.Is(cause, context.DeadlineExceeded) || errors.Is(runCtx.Err(), context.DeadlineExceeded):
		err = fmt.Errorf("%w: %w during %s", ErrFailed, ErrTimeout, phase)
	case errors.Is(cause, context.Canceled) || runCtx.Err() != nil:
		err = fmt.Errorf("%w: %w during %s", ErrFailed, ErrCanceled, phase)
	default:
		err = fmt.Errorf("%w during %s: %w", ErrFailed, phase, cause)
	}

	o.mu.Lock()
	from := o.status
	o.status = models.CheckoutStatusFailed
	o.pending = nil
	o.cancel = nil
	o.failure = err.Error()
	o.mu.Unlock()
	o.transitioned(from, models.CheckoutStatusFailed)

	o.logger.Warn("Checkout failed",
		slog.String("phase", phase.String()),
		slog.String("error", err.Error()))

	return err
}

func (o *Orchestrator) transitioned(from, to models.CheckoutStatus) {
	o.logger.Debug("Checkout status changed",
		slog.String("from", from.String()),
		slog.String("to", to.String()))
	if o.onTransition != nil {
		o.onTransition(from, to)
	}
}
