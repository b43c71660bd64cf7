package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Gsweya/hweibo-prototype/internal/models"
	service "github.com/Gsweya/hweibo-prototype/internal/services"
	"github.com/Gsweya/hweibo-prototype/internal/utils"
	"github.com/Gsweya/hweibo-prototype/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
	validator       *validator.Validate
}

func NewCheckoutHandler(checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService, validator: utils.NewValidator()}
}

// CancelResult reports whether DELETE /checkout stopped a running checkout.
type CancelResult struct {
	Canceled bool `json:"canceled"`
}

// Quote godoc
//	@Summary		Checkout totals
//	@Description	Subtotal, shipping, tax and grand total a checkout would charge for the cart right now.
//	@Tags			Checkout
//	@Produce		json
//	@Success		200	{object}	models.TotalsView	"Order summary"
//	@Router			/checkout/quote [get]
func (h *CheckoutHandler) Quote() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sessionID, logger, ok := requireSession(w, r)
		if !ok {
			return
		}

		quote, err := h.checkoutService.Quote(r.Context(), sessionID)
		if err != nil {
			logger.Error("Failed to quote checkout", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, quote)
	}
}

// Checkout godoc
//	@Summary		Place an order
//	@Description	Runs the payment phases for the current cart and returns the receipt. The cart is cleared only on success.
//	@Tags			Checkout
//	@Accept			json
//	@Produce		json
//	@Param			checkout	body		models.CheckoutRequest	true	"Payment method"
//	@Success		201			{object}	models.OrderReceipt		"Order receipt"
//	@Failure		400			{object}	response.ErrorResponse	"Empty cart or invalid payment method"
//	@Failure		402			{object}	response.ErrorResponse	"Payment failed"
//	@Failure		409			{object}	response.ErrorResponse	"Checkout already in progress or canceled"
//	@Failure		504			{object}	response.ErrorResponse	"Checkout timed out"
//	@Router			/checkout [post]
func (h *CheckoutHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sessionID, logger, ok := requireSession(w, r)
		if !ok {
			return
		}

		var req models.CheckoutRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid checkout input")
			return
		}

		receipt, err := h.checkoutService.Checkout(r.Context(), sessionID, &req)
		if err != nil {
			logger.Warn("Checkout did not complete", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Order placed", slog.String("orderId", receipt.OrderID))
		response.Success(w, http.StatusCreated, receipt)
	}
}

// GetState godoc
//	@Summary		Checkout state
//	@Description	Current checkout status, the totals being charged while in flight, the last receipt and the last failure.
//	@Tags			Checkout
//	@Produce		json
//	@Success		200	{object}	models.CheckoutState	"Checkout state"
//	@Router			/checkout [get]
func (h *CheckoutHandler) GetState() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sessionID, logger, ok := requireSession(w, r)
		if !ok {
			return
		}

		state, err := h.checkoutService.GetState(r.Context(), sessionID)
		if err != nil {
			logger.Error("Failed to get checkout state", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, state)
	}
}

// Cancel godoc
//	@Summary		Cancel a running checkout
//	@Description	Aborts the in-flight checkout, if any. The cart is kept.
//	@Tags			Checkout
//	@Produce		json
//	@Success		200	{object}	CancelResult	"Whether a checkout was running"
//	@Router			/checkout [delete]
func (h *CheckoutHandler) Cancel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sessionID, logger, ok := requireSession(w, r)
		if !ok {
			return
		}

		canceled, err := h.checkoutService.Cancel(r.Context(), sessionID)
		if err != nil {
			logger.Error("Failed to cancel checkout", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, CancelResult{Canceled: canceled})
	}
}
