package service

import (
	"context"
	"log/slog"

	"github.com/Gsweya/hweibo-prototype/internal/api/middleware"
	"github.com/Gsweya/hweibo-prototype/internal/cart"
	"github.com/Gsweya/hweibo-prototype/internal/errors"
	"github.com/Gsweya/hweibo-prototype/internal/models"
	"github.com/Gsweya/hweibo-prototype/internal/pricing"
	"github.com/Gsweya/hweibo-prototype/internal/session"
	"github.com/Gsweya/hweibo-prototype/internal/utils"
)

type CartService interface {
	GetCart(ctx context.Context, sessionID string) (*models.CartView, error)
	AddItem(ctx context.Context, sessionID string, req *models.AddItemRequest) (*models.CartView, error)
	UpdateQuantity(ctx context.Context, sessionID, itemID string, req *models.UpdateQuantityRequest) (*models.CartView, error)
	RemoveItem(ctx context.Context, sessionID, itemID string) (*models.CartView, error)
	ClearCart(ctx context.Context, sessionID string) (*models.CartView, error)
	GetBadge(ctx context.Context, sessionID string) (*models.CartBadge, error)
}

type cartService struct {
	sessions *session.Registry
}

func NewCartService(sessions *session.Registry) CartService {
	return &cartService{sessions: sessions}
}

// GetCart and GetBadge only read, so a session that does not exist yet is
// reported as an empty cart instead of being created.
func (s *cartService) GetCart(ctx context.Context, sessionID string) (*models.CartView, error) {
	if sessionID == "" {
		return nil, errors.BadRequestError("Missing session")
	}

	sess, ok := s.sessions.Find(sessionID)
	if !ok {
		return emptyCartView(), nil
	}

	return cartView(sess.Cart), nil
}

func (s *cartService) AddItem(ctx context.Context, sessionID string, req *models.AddItemRequest) (*models.CartView, error) {
	store, err := s.store(sessionID)
	if err != nil {
		return nil, err
	}

	item := req.Item()
	item.ID = utils.SanitizeText(item.ID)
	item.Name = utils.SanitizeText(item.Name)
	item.Image = utils.SanitizeText(item.Image)
	item.Store = utils.SanitizeText(item.Store)
	item.Location = utils.SanitizeText(item.Location)
	item.Description = utils.SanitizeText(item.Description)

	if item.ID == "" || item.Name == "" {
		return nil, errors.ValidationError("Item id and name are required")
	}

	store.AddToCart(item)

	middleware.LoggerFromContext(ctx).Info("Item added to cart", slog.String("item_id", item.ID))

	return cartView(store), nil
}

// UpdateQuantity and RemoveItem ignore ids that are not in the cart.
func (s *cartService) UpdateQuantity(ctx context.Context, sessionID, itemID string, req *models.UpdateQuantityRequest) (*models.CartView, error) {
	store, err := s.store(sessionID)
	if err != nil {
		return nil, err
	}

	store.UpdateQuantity(itemID, req.Quantity)

	return cartView(store), nil
}

func (s *cartService) RemoveItem(ctx context.Context, sessionID, itemID string) (*models.CartView, error) {
	store, err := s.store(sessionID)
	if err != nil {
		return nil, err
	}

	store.RemoveFromCart(itemID)

	return cartView(store), nil
}

func (s *cartService) ClearCart(ctx context.Context, sessionID string) (*models.CartView, error) {
	store, err := s.store(sessionID)
	if err != nil {
		return nil, err
	}

	store.ClearCart()

	return cartView(store), nil
}

func (s *cartService) GetBadge(ctx context.Context, sessionID string) (*models.CartBadge, error) {
	if sessionID == "" {
		return nil, errors.BadRequestError("Missing session")
	}

	sess, ok := s.sessions.Find(sessionID)
	if !ok {
		return &models.CartBadge{}, nil
	}

	return &models.CartBadge{Count: sess.Badge.Count()}, nil
}

func (s *cartService) store(sessionID string) (*cart.Store, error) {
	if sessionID == "" {
		return nil, errors.BadRequestError("Missing session")
	}

	return s.sessions.Get(sessionID).Cart, nil
}

func emptyCartView() *models.CartView {
	return &models.CartView{
		Items:           []models.CartItem{},
		TotalPriceLabel: pricing.FormatPriceFull(0),
	}
}

func cartView(store *cart.Store) *models.CartView {
	items, count, total := store.Snapshot()
	if items == nil {
		items = []models.CartItem{}
	}

	return &models.CartView{
		Items:           items,
		TotalItems:      count,
		TotalPrice:      total,
		TotalPriceLabel: pricing.FormatPriceFull(total),
	}
}
