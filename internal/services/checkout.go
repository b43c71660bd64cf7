package service

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"time"

	"github.com/Gsweya/hweibo-prototype/internal/api/middleware"
	"github.com/Gsweya/hweibo-prototype/internal/cache"
	"github.com/Gsweya/hweibo-prototype/internal/checkout"
	"github.com/Gsweya/hweibo-prototype/internal/errors"
	"github.com/Gsweya/hweibo-prototype/internal/metrics"
	"github.com/Gsweya/hweibo-prototype/internal/models"
	"github.com/Gsweya/hweibo-prototype/internal/pricing"
	"github.com/Gsweya/hweibo-prototype/internal/session"
	"github.com/Gsweya/hweibo-prototype/internal/utils"
)

type CheckoutService interface {
	Quote(ctx context.Context, sessionID string) (*models.TotalsView, error)
	Checkout(ctx context.Context, sessionID string, req *models.CheckoutRequest) (*models.OrderReceipt, error)
	GetState(ctx context.Context, sessionID string) (*models.CheckoutState, error)
	Cancel(ctx context.Context, sessionID string) (bool, error)
	GetReceipt(ctx context.Context, sessionID, orderID string) (*models.OrderReceipt, error)
}

type checkoutService struct {
	sessions *session.Registry
	receipts cache.ReceiptCache
}

func NewCheckoutService(sessions *session.Registry, receipts cache.ReceiptCache) CheckoutService {
	return &checkoutService{sessions: sessions, receipts: receipts}
}

func (s *checkoutService) Quote(ctx context.Context, sessionID string) (*models.TotalsView, error) {
	if sessionID == "" {
		return nil, errors.BadRequestError("Missing session")
	}

	return TotalsView(s.sessions.Get(sessionID).Checkout.Quote()), nil
}

// Checkout runs detached from the request context so a dropped connection
// does not abort a payment; Cancel and the checkout timeout still apply.
func (s *checkoutService) Checkout(ctx context.Context, sessionID string, req *models.CheckoutRequest) (*models.OrderReceipt, error) {
	if sessionID == "" {
		return nil, errors.BadRequestError("Missing session")
	}

	logger := middleware.LoggerFromContext(ctx)
	sess := s.sessions.Get(sessionID)

	started := time.Now()
	receipt, err := sess.Checkout.Checkout(context.WithoutCancel(ctx), req.PaymentMethod)
	metrics.ObserveCheckout(outcome(err), time.Since(started))
	if err != nil {
		logger.Warn("Checkout declined or failed", slog.String("error", err.Error()))
		return nil, checkoutError(err)
	}

	cacheCtx, cancel := utils.WithCacheTimeout(context.WithoutCancel(ctx))
	defer cancel()

	if err := s.receipts.Put(cacheCtx, sessionID, receipt); err != nil {
		logger.Error("Failed to cache receipt",
			slog.String("order_id", receipt.OrderID),
			slog.String("error", err.Error()))
	}

	return receipt, nil
}

func (s *checkoutService) GetState(ctx context.Context, sessionID string) (*models.CheckoutState, error) {
	if sessionID == "" {
		return nil, errors.BadRequestError("Missing session")
	}

	state := s.sessions.Get(sessionID).Checkout.State()

	return &state, nil
}

func (s *checkoutService) Cancel(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, errors.BadRequestError("Missing session")
	}

	sess, ok := s.sessions.Lookup(sessionID)
	if !ok {
		return false, nil
	}

	canceled := sess.Checkout.Cancel()
	if canceled {
		middleware.LoggerFromContext(ctx).Info("Checkout cancel requested")
	}

	return canceled, nil
}

// GetReceipt reads the receipt cache first and falls back to the session's
// last receipt, which covers a cache write that failed.
func (s *checkoutService) GetReceipt(ctx context.Context, sessionID, orderID string) (*models.OrderReceipt, error) {
	if sessionID == "" {
		return nil, errors.BadRequestError("Missing session")
	}

	cacheCtx, cancel := utils.WithCacheTimeout(ctx)
	defer cancel()

	receipt, found, err := s.receipts.Get(cacheCtx, sessionID, orderID)
	if err != nil {
		middleware.LoggerFromContext(ctx).Warn("Receipt cache lookup failed", slog.String("error", err.Error()))
	}
	if found {
		return receipt, nil
	}

	if sess, ok := s.sessions.Lookup(sessionID); ok {
		if last := sess.Checkout.LastReceipt(); last != nil && last.OrderID == orderID {
			return last, nil
		}
	}

	return nil, errors.NotFoundError("Order not found").WithDetail(orderID)
}

// TotalsView attaches display labels to t.
func TotalsView(t models.Totals) *models.TotalsView {
	return &models.TotalsView{
		Totals:          t,
		SubtotalLabel:   pricing.FormatPriceFull(t.Subtotal),
		ShippingLabel:   pricing.FormatPriceFull(t.Shipping),
		TaxLabel:        pricing.FormatPriceFull(t.Tax),
		GrandTotalLabel: pricing.FormatPriceFull(t.GrandTotal),
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "done"
	case stdErrors.Is(err, checkout.ErrEmptyCart),
		stdErrors.Is(err, checkout.ErrInFlight),
		stdErrors.Is(err, checkout.ErrInvalidPaymentMethod):
		return "declined"
	case stdErrors.Is(err, checkout.ErrTimeout):
		return "timeout"
	case stdErrors.Is(err, checkout.ErrCanceled):
		return "canceled"
	}
	return "failed"
}

func checkoutError(err error) error {
	switch {
	case stdErrors.Is(err, checkout.ErrEmptyCart):
		return errors.EmptyCartError().WithError(err)
	case stdErrors.Is(err, checkout.ErrInFlight):
		return errors.CheckoutInProgressError().WithError(err)
	case stdErrors.Is(err, checkout.ErrInvalidPaymentMethod):
		return errors.ValidationError("Invalid payment method").WithDetail(err.Error()).WithError(err)
	case stdErrors.Is(err, checkout.ErrTimeout):
		return errors.CheckoutTimeoutError().WithError(err)
	case stdErrors.Is(err, checkout.ErrCanceled):
		return errors.CheckoutCanceledError().WithError(err)
	case stdErrors.Is(err, checkout.ErrFailed):
		return errors.CheckoutFailedError("Payment failed").WithDetail(err.Error()).WithError(err)
	}
	return errors.InternalError("Checkout failed").WithError(err)
}
