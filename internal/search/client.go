// Package search asks the recommendation backend for products matching a
// free-text prompt and falls back to ranking a local catalog when the backend
// cannot give a usable answer.
package search

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/Gsweya/hweibo-prototype/internal/models"
	"github.com/Gsweya/hweibo-prototype/internal/pricing"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"
)

const (
	// APIKeyHeader carries the backend shared secret when one is configured.
	APIKeyHeader = "X-Hweibo-Api-Key"

	DefaultTimeout = 45 * time.Second

	promptsPath     = "/ai/prompts"
	maxResponseSize = 1 << 20
)

var (
	ErrPromptRequired  = errors.New("prompt is required")
	ErrUpstreamStatus  = errors.New("recommendation backend returned an error status")
	ErrInvalidResponse = errors.New("recommendation backend returned an invalid response")
)

type Config struct {
	BaseURL string
	APIKey  string
	// Timeout bounds one backend round trip. Zero means DefaultTimeout.
	Timeout    time.Duration
	HTTPClient *http.Client
	// Catalog ranks prompts when the backend fails. Nil means DefaultCatalog.
	Catalog []models.Product
	// BreakerFailures consecutive failures open the breaker for BreakerCooldown.
	BreakerFailures uint32
	BreakerCooldown time.Duration
	Logger          *slog.Logger
	// OnResult is told which source answered every successful Search.
	OnResult func(models.SearchSource)
}

type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
	catalog    []models.Product
	breaker    *gobreaker.CircuitBreaker[*models.PromptResponse]
	group      singleflight.Group
	logger     *slog.Logger
	onResult   func(models.SearchSource)
}

func NewClient(cfg Config) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		timeout:    cfg.Timeout,
		httpClient: cfg.HTTPClient,
		catalog:    cfg.Catalog,
		logger:     cfg.Logger,
		onResult:   cfg.OnResult,
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	if c.catalog == nil {
		c.catalog = DefaultCatalog()
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	cooldown := cfg.BreakerCooldown
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	c.breaker = gobreaker.NewCircuitBreaker[*models.PromptResponse](gobreaker.Settings{
		Name:    "recommendations",
		Timeout: cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("Circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	})
	return c
}

// FetchRecommendations returns exactly RecommendationCount backend products
// ordered by rank. Any other count is ErrInvalidResponse.
func (c *Client) FetchRecommendations(ctx context.Context, prompt string) ([]models.RankedProduct, error) {
	resp, err := c.recommend(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// Search answers prompt from the backend, or from the local catalog when the
// backend fails for any reason. It only errors for an empty prompt or when
// ctx itself is done.
func (c *Client) Search(ctx context.Context, prompt string) (*models.SearchResult, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrPromptRequired
	}

	resp, err := c.recommend(ctx, prompt)
	if err == nil {
		products := make([]models.Product, len(resp.Products))
		for i, p := range resp.Products {
			products[i] = withLabel(p.Product())
		}
		c.report(models.SearchSourceBackend)
		return &models.SearchResult{
			Prompt:       prompt,
			Products:     products,
			Source:       models.SearchSourceBackend,
			FallbackUsed: resp.FallbackUsed,
			Mode:         resp.Mode,
			Model:        resp.Model,
		}, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	c.logger.Warn("Recommendation backend unavailable, using local catalog",
		slog.String("error", err.Error()))

	products := c.FallbackSearch(prompt)
	c.report(models.SearchSourceFallback)
	return &models.SearchResult{
		Prompt:       prompt,
		Products:     products,
		Source:       models.SearchSourceFallback,
		FallbackUsed: true,
	}, nil
}

// FallbackSearch ranks the client's catalog against prompt.
func (c *Client) FallbackSearch(prompt string) []models.Product {
	products := FallbackSearch(c.catalog, prompt)
	for i := range products {
		products[i] = withLabel(products[i])
	}
	return products
}

// recommend collapses concurrent identical prompts into one backend call.
// The shared call is detached from any single caller's cancellation; each
// caller still stops waiting when its own ctx is done.
func (c *Client) recommend(ctx context.Context, prompt string) (*models.PromptResponse, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrPromptRequired
	}

	ch := c.group.DoChan(prompt, func() (any, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		return c.breaker.Execute(func() (*models.PromptResponse, error) {
			return c.fetch(callCtx, prompt)
		})
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		shared := res.Val.(*models.PromptResponse)
		out := *shared
		out.Products = slices.Clone(shared.Products)
		return &out, nil
	}
}

func (c *Client) fetch(ctx context.Context, prompt string) (*models.PromptResponse, error) {
	body, err := json.Marshal(models.PromptRequest{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("encoding prompt: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+promptsPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(APIKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling recommendation backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
		return nil, fmt.Errorf("%w: %d", ErrUpstreamStatus, resp.StatusCode)
	}

	var out models.PromptResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	if len(out.Products) != RecommendationCount {
		return nil, fmt.Errorf("%w: got %d products, want %d",
			ErrInvalidResponse, len(out.Products), RecommendationCount)
	}

	slices.SortStableFunc(out.Products, func(a, b models.RankedProduct) int {
		return cmp.Compare(a.Rank, b.Rank)
	})
	return &out, nil
}

func (c *Client) report(source models.SearchSource) {
	if c.onResult != nil {
		c.onResult(source)
	}
}

func withLabel(p models.Product) models.Product {
	p.PriceLabel = pricing.FormatPriceFull(p.Price)
	return p
}
