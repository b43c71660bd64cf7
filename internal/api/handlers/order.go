package handlers

import (
	"log/slog"
	"net/http"

	service "github.com/Gsweya/hweibo-prototype/internal/services"
	"github.com/Gsweya/hweibo-prototype/internal/utils"
	"github.com/Gsweya/hweibo-prototype/internal/utils/response"
)

type OrderHandler struct {
	checkoutService service.CheckoutService
}

func NewOrderHandler(checkoutService service.CheckoutService) *OrderHandler {
	return &OrderHandler{checkoutService: checkoutService}
}

// GetOrder godoc
//	@Summary		Get an order receipt
//	@Description	Looks up a receipt placed by the current session. Receipts expire with the receipt cache.
//	@Tags			Orders
//	@Produce		json
//	@Param			id	path		string					true	"Order id"	example(HW-LZ3K9Q-1A2B3C)
//	@Success		200	{object}	models.OrderReceipt		"Receipt"
//	@Failure		404	{object}	response.ErrorResponse	"Order not found"
//	@Router			/orders/{id} [get]
func (h *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sessionID, logger, ok := requireSession(w, r)
		if !ok {
			return
		}

		orderID, err := utils.PathParam(r, "id")
		if err != nil {
			logger.Warn("Missing order id")
			response.Error(w, err)
			return
		}

		logger = logger.With(slog.String("orderId", orderID))

		receipt, err := h.checkoutService.GetReceipt(r.Context(), sessionID, orderID)
		if err != nil {
			logger.Warn("Failed to get order", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, receipt)
	}
}
