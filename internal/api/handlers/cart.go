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

type CartHandler struct {
	cartService service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService, validator: utils.NewValidator()}
}

// GetCart godoc
//	@Summary		Get the session cart
//	@Description	Returns the items in the current session's cart with item count and total price.
//	@Tags			Cart
//	@Produce		json
//	@Param			X-Session-ID	header		string					false	"Session id, defaults to the session cookie"
//	@Success		200				{object}	models.CartView			"Current cart"
//	@Failure		400				{object}	response.ErrorResponse	"Missing session"
//	@Router			/cart [get]
func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sessionID, logger, ok := requireSession(w, r)
		if !ok {
			return
		}

		cart, err := h.cartService.GetCart(r.Context(), sessionID)
		if err != nil {
			logger.Error("Failed to get cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// AddItem godoc
//	@Summary		Add an item to the cart
//	@Description	Adds one unit of a product. Adding a product already in the cart increments its quantity.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			item	body		models.AddItemRequest	true	"Product to add"
//	@Success		200		{object}	models.CartView			"Updated cart"
//	@Failure		400		{object}	response.ErrorResponse	"Invalid request body or validation error"
//	@Router			/cart/items [post]
func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sessionID, logger, ok := requireSession(w, r)
		if !ok {
			return
		}

		var req models.AddItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid add item input")
			return
		}

		cart, err := h.cartService.AddItem(r.Context(), sessionID, &req)
		if err != nil {
			logger.Error("Failed to add item", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// UpdateQuantity godoc
//	@Summary		Set an item's quantity
//	@Description	Sets the quantity of a cart item. A quantity of zero or less removes it.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			id			path		string							true	"Product id"
//	@Param			quantity	body		models.UpdateQuantityRequest	true	"New quantity"
//	@Success		200			{object}	models.CartView					"Updated cart"
//	@Failure		400			{object}	response.ErrorResponse			"Invalid request body"
//	@Router			/cart/items/{id} [put]
func (h *CartHandler) UpdateQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sessionID, logger, ok := requireSession(w, r)
		if !ok {
			return
		}

		itemID, err := utils.PathParam(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}
		logger = logger.With(slog.String("itemId", itemID))

		var req models.UpdateQuantityRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update quantity input")
			return
		}

		cart, err := h.cartService.UpdateQuantity(r.Context(), sessionID, itemID, &req)
		if err != nil {
			logger.Error("Failed to update quantity", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// RemoveItem godoc
//	@Summary		Remove an item from the cart
//	@Tags			Cart
//	@Produce		json
//	@Param			id	path		string					true	"Product id"
//	@Success		200	{object}	models.CartView			"Updated cart"
//	@Failure		400	{object}	response.ErrorResponse	"Missing item id"
//	@Router			/cart/items/{id} [delete]
func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sessionID, logger, ok := requireSession(w, r)
		if !ok {
			return
		}

		itemID, err := utils.PathParam(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		cart, err := h.cartService.RemoveItem(r.Context(), sessionID, itemID)
		if err != nil {
			logger.Error("Failed to remove item", slog.String("itemId", itemID), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// ClearCart godoc
//	@Summary	Empty the cart
//	@Tags		Cart
//	@Produce	json
//	@Success	200	{object}	models.CartView	"Empty cart"
//	@Router		/cart [delete]
func (h *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sessionID, logger, ok := requireSession(w, r)
		if !ok {
			return
		}

		cart, err := h.cartService.ClearCart(r.Context(), sessionID)
		if err != nil {
			logger.Error("Failed to clear cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Cart cleared")
		response.Success(w, http.StatusOK, cart)
	}
}

// GetBadge godoc
//	@Summary		Cart badge count
//	@Description	Total quantity across all cart items, as shown on the navigation badge.
//	@Tags			Cart
//	@Produce		json
//	@Success		200	{object}	models.CartBadge	"Badge count"
//	@Router			/cart/badge [get]
func (h *CartHandler) GetBadge() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sessionID, logger, ok := requireSession(w, r)
		if !ok {
			return
		}

		badge, err := h.cartService.GetBadge(r.Context(), sessionID)
		if err != nil {
			logger.Error("Failed to get badge", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, badge)
	}
}
