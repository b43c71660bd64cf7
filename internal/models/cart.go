package models

// CartItem is one distinct product in a buyer's cart. ID identifies the
// product, not the line, so a cart never holds two items with the same ID.
type CartItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Image       string `json:"image"`
	Store       string `json:"store"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
}

// LineTotal is price times quantity.
func (i CartItem) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}

type AddItemRequest struct {
	ID          string `json:"id"          validate:"required,max=128"`
	Name        string `json:"name"        validate:"required,max=200"`
	Price       int64  `json:"price"       validate:"gte=0"`
	Image       string `json:"image"       validate:"max=512"`
	Store       string `json:"store"       validate:"max=200"`
	Location    string `json:"location"    validate:"max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// Item converts the request into a fresh cart line with quantity 1.
func (r *AddItemRequest) Item() CartItem {
	return CartItem{
		ID:          r.ID,
		Name:        r.Name,
		Price:       r.Price,
		Image:       r.Image,
		Store:       r.Store,
		Location:    r.Location,
		Description: r.Description,
		Quantity:    1,
	}
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CartView struct {
	Items           []CartItem `json:"items"`
	TotalItems      int        `json:"total_items"`
	TotalPrice      int64      `json:"total_price"`
	TotalPriceLabel string     `json:"total_price_label"`
}

type CartBadge struct {
	Count int `json:"count"`
}
