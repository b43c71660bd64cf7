package main

import (
	"net/http"

	"github.com/Gsweya/hweibo-prototype/internal/api/handlers"
	"github.com/Gsweya/hweibo-prototype/internal/api/middleware"
	"github.com/Gsweya/hweibo-prototype/internal/metrics"
	"github.com/Gsweya/hweibo-prototype/internal/proxy"
	service "github.com/Gsweya/hweibo-prototype/internal/services"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type routerDeps struct {
	Cart      service.CartService
	Checkout  service.CheckoutService
	Search    service.SearchService
	Forwarder *proxy.Forwarder
	Sessions  *middleware.SessionMiddleware
	// Limiter throttles the prompt routes. Nil disables rate limiting.
	Limiter middleware.Limiter
	Health  http.Handler
}

func newRouter(d routerDeps) http.Handler {

	cartHandler := handlers.NewCartHandler(d.Cart)
	checkoutHandler := handlers.NewCheckoutHandler(d.Checkout)
	orderHandler := handlers.NewOrderHandler(d.Checkout)
	searchHandler := handlers.NewSearchHandler(d.Search)

	throttle := func(h http.Handler) http.Handler { return h }
	if d.Limiter != nil {
		throttle = middleware.RateLimit(d.Limiter, metrics.IncRateLimited)
	}

	routerMux := http.NewServeMux()
	routerMux.HandleFunc("GET /api/cart", cartHandler.GetCart())
	routerMux.HandleFunc("DELETE /api/cart", cartHandler.ClearCart())
	routerMux.HandleFunc("POST /api/cart/items", cartHandler.AddItem())
	routerMux.HandleFunc("PUT /api/cart/items/{id}", cartHandler.UpdateQuantity())
	routerMux.HandleFunc("DELETE /api/cart/items/{id}", cartHandler.RemoveItem())
	routerMux.HandleFunc("GET /api/cart/badge", cartHandler.GetBadge())
	routerMux.HandleFunc("GET /api/checkout/quote", checkoutHandler.Quote())
	routerMux.HandleFunc("POST /api/checkout", checkoutHandler.Checkout())
	routerMux.HandleFunc("GET /api/checkout", checkoutHandler.GetState())
	routerMux.HandleFunc("DELETE /api/checkout", checkoutHandler.Cancel())
	routerMux.HandleFunc("GET /api/orders/{id}", orderHandler.GetOrder())
	routerMux.Handle("POST /api/search", throttle(searchHandler.Search()))
	routerMux.Handle("GET /api/products", d.Forwarder.Handler(proxy.ProductsRoute))
	routerMux.Handle("GET /api/seller/dashboard", d.Forwarder.Handler(proxy.DashboardRoute))
	routerMux.Handle("POST /api/ai/prompts", throttle(d.Forwarder.Handler(proxy.PromptsRoute)))

	if d.Health != nil {
		routerMux.Handle("GET /health", d.Health)
	}
	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// Metrics reads r.Pattern, so it must sit directly on the mux.
	var handler http.Handler = metrics.Middleware(routerMux)
	handler = d.Sessions.Identify(handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, "hweibo-storefront")

	return handler
}
