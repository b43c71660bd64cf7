package models

import "strconv"

// RankedProduct is the recommendation backend's product plus its 1-based rank.
type RankedProduct struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	PriceCents  int64    `json:"price_cents"`
	Currency    string   `json:"currency"`
	Images      []string `json:"images"`
	Rank        int      `json:"rank"`
}

type PromptRequest struct {
	Prompt string `json:"prompt"`
}

type PromptResponse struct {
	Prompt       string          `json:"prompt"`
	Products     []RankedProduct `json:"products"`
	Mode         string          `json:"mode,omitempty"`
	Model        *string         `json:"model,omitempty"`
	FallbackUsed bool            `json:"fallback_used,omitempty"`
}

// APIProduct is an item of the backend's GET /products listing.
type APIProduct struct {
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	PriceCents    int64    `json:"price_cents"`
	Images        []string `json:"images"`
	StoreName     string   `json:"store_name,omitempty"`
	StoreLocation string   `json:"store_location,omitempty"`
}

// Product is the storefront's display shape, shared by the browse grid,
// search results and the add-to-cart payload.
type Product struct {
	ID          string `json:"id"`
	Image       string `json:"image"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	PriceLabel  string `json:"price_label,omitempty"`
	Store       string `json:"store"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

const (
	DefaultProductImage = "/product_images/canon_camera.jpg"
	DefaultStoreName    = "Hweibo Store"
	DefaultLocation     = "Dodoma"
	DefaultCategory     = "General"
)

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func firstImage(images []string) string {
	if len(images) > 0 && images[0] != "" {
		return images[0]
	}
	return DefaultProductImage
}

func (p APIProduct) Product() Product {
	return Product{
		ID:          strconv.FormatInt(p.ID, 10),
		Image:       firstImage(p.Images),
		Name:        p.Title,
		Price:       p.PriceCents,
		Store:       orDefault(p.StoreName, DefaultStoreName),
		Location:    orDefault(p.StoreLocation, DefaultLocation),
		Description: p.Description,
		Category:    orDefault(p.Category, DefaultCategory),
	}
}

func (p RankedProduct) Product() Product {
	return Product{
		ID:          strconv.FormatInt(p.ID, 10),
		Image:       firstImage(p.Images),
		Name:        p.Title,
		Price:       p.PriceCents,
		Store:       DefaultStoreName,
		Location:    DefaultLocation,
		Description: p.Description,
		Category:    orDefault(p.Category, DefaultCategory),
	}
}

type SearchSource string

const (
	SearchSourceBackend  SearchSource = "backend"
	SearchSourceFallback SearchSource = "fallback"
)

type SearchRequest struct {
	Prompt string `json:"prompt" validate:"max=1000"`
}

type SearchResult struct {
	Prompt       string       `json:"prompt"`
	Products     []Product    `json:"products"`
	Source       SearchSource `json:"source"`
	FallbackUsed bool         `json:"fallback_used"`
	Mode         string       `json:"mode,omitempty"`
	Model        *string      `json:"model,omitempty"`
}
