package search_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Gsweya/hweibo-prototype/internal/models"
	"github.com/Gsweya/hweibo-prototype/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rankedProducts(n int) []models.RankedProduct {
	out := make([]models.RankedProduct, n)
	for i := range n {
		// Reverse rank order so the client has to sort.
		out[i] = models.RankedProduct{
			ID:         int64(100 + i),
			Title:      fmt.Sprintf("Backend Item %d", i),
			Category:   "Shoes",
			PriceCents: 10000,
			Currency:   "USD",
			Images:     []string{fmt.Sprintf("/img/%d.jpg", i)},
			Rank:       n - i,
		}
	}
	return out
}

func backend(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func respond(products []models.RankedProduct) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.PromptRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.PromptResponse{Prompt: req.Prompt, Products: products, Mode: "llm"})
	}
}

func TestFetchRecommendations(t *testing.T) {
	t.Run("Success - Five products sorted by rank", func(t *testing.T) {
		// Arrange
		var gotKey, gotPrompt, gotPath string
		srv := backend(t, func(w http.ResponseWriter, r *http.Request) {
			gotKey = r.Header.Get(search.APIKeyHeader)
			gotPath = r.URL.Path
			var req models.PromptRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			gotPrompt = req.Prompt
			_ = json.NewEncoder(w).Encode(models.PromptResponse{Products: rankedProducts(5)})
		})
		client := search.NewClient(search.Config{BaseURL: srv.URL + "/", APIKey: "secret"})

		// Act
		products, err := client.FetchRecommendations(context.Background(), "  running shoes ")

		// Assert
		require.NoError(t, err)
		require.Len(t, products, 5)
		for i, p := range products {
			assert.Equal(t, i+1, p.Rank)
		}
		assert.Equal(t, "secret", gotKey)
		assert.Equal(t, "running shoes", gotPrompt)
		assert.Equal(t, "/ai/prompts", gotPath)
	})

	t.Run("Success - No key header without a key", func(t *testing.T) {
		var present bool
		srv := backend(t, func(w http.ResponseWriter, r *http.Request) {
			_, present = r.Header[http.CanonicalHeaderKey(search.APIKeyHeader)]
			respond(rankedProducts(5))(w, r)
		})
		client := search.NewClient(search.Config{BaseURL: srv.URL})

		_, err := client.FetchRecommendations(context.Background(), "camera")

		require.NoError(t, err)
		assert.False(t, present)
	})

	t.Run("Failure - Wrong product count", func(t *testing.T) {
		for _, n := range []int{0, 4, 6} {
			srv := backend(t, respond(rankedProducts(n)))
			client := search.NewClient(search.Config{BaseURL: srv.URL})

			products, err := client.FetchRecommendations(context.Background(), "laptop")

			assert.ErrorIs(t, err, search.ErrInvalidResponse, "count %d", n)
			assert.Nil(t, products)
		}
	})

	t.Run("Failure - Non-2xx status", func(t *testing.T) {
		srv := backend(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		})
		client := search.NewClient(search.Config{BaseURL: srv.URL})

		_, err := client.FetchRecommendations(context.Background(), "laptop")

		assert.ErrorIs(t, err, search.ErrUpstreamStatus)
	})

	t.Run("Failure - Malformed body", func(t *testing.T) {
		srv := backend(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"products": "nope"`))
		})
		client := search.NewClient(search.Config{BaseURL: srv.URL})

		_, err := client.FetchRecommendations(context.Background(), "laptop")

		assert.ErrorIs(t, err, search.ErrInvalidResponse)
	})

	t.Run("Failure - Empty prompt", func(t *testing.T) {
		client := search.NewClient(search.Config{BaseURL: "http://127.0.0.1:0"})

		_, err := client.FetchRecommendations(context.Background(), "   ")

		assert.ErrorIs(t, err, search.ErrPromptRequired)
	})

	t.Run("Failure - Backend slower than timeout", func(t *testing.T) {
		release := make(chan struct{})
		srv := backend(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		})
		t.Cleanup(func() { close(release) })
		client := search.NewClient(search.Config{BaseURL: srv.URL, Timeout: 30 * time.Millisecond})

		_, err := client.FetchRecommendations(context.Background(), "laptop")

		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("Success - Concurrent identical prompts share one call", func(t *testing.T) {
		var hits atomic.Int32
		release := make(chan struct{})
		srv := backend(t, func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			<-release
			respond(rankedProducts(5))(w, r)
		})
		client := search.NewClient(search.Config{BaseURL: srv.URL})

		var wg sync.WaitGroup
		errs := make([]error, 4)
		for i := range errs {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, errs[i] = client.FetchRecommendations(context.Background(), "watch")
			}()
		}
		time.Sleep(100 * time.Millisecond)
		close(release)
		wg.Wait()

		for _, err := range errs {
			assert.NoError(t, err)
		}
		assert.Equal(t, int32(1), hits.Load())
	})
}

func TestSearch(t *testing.T) {
	t.Run("Success - Backend answer is mapped to products", func(t *testing.T) {
		// Arrange
		srv := backend(t, respond(rankedProducts(5)))
		var sources []models.SearchSource
		client := search.NewClient(search.Config{
			BaseURL:  srv.URL,
			OnResult: func(s models.SearchSource) { sources = append(sources, s) },
		})

		// Act
		result, err := client.Search(context.Background(), "sneakers")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.SearchSourceBackend, result.Source)
		assert.False(t, result.FallbackUsed)
		assert.Equal(t, "llm", result.Mode)
		require.Len(t, result.Products, 5)
		first := result.Products[0]
		assert.Equal(t, "104", first.ID)
		assert.Equal(t, "/img/4.jpg", first.Image)
		assert.Equal(t, models.DefaultStoreName, first.Store)
		assert.Equal(t, models.DefaultLocation, first.Location)
		assert.NotEmpty(t, first.PriceLabel)
		assert.Equal(t, []models.SearchSource{models.SearchSourceBackend}, sources)
	})

	t.Run("Success - Backend down falls back to catalog", func(t *testing.T) {
		srv := backend(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		var sources []models.SearchSource
		client := search.NewClient(search.Config{
			BaseURL:  srv.URL,
			OnResult: func(s models.SearchSource) { sources = append(sources, s) },
		})

		result, err := client.Search(context.Background(), "running shoes")

		require.NoError(t, err)
		assert.Equal(t, models.SearchSourceFallback, result.Source)
		assert.True(t, result.FallbackUsed)
		assert.Equal(t, []string{"f3", "f7", "f8", "f1", "f2"}, ids(result.Products))
		assert.Equal(t, []models.SearchSource{models.SearchSourceFallback}, sources)
	})

	t.Run("Success - Short backend answer falls back", func(t *testing.T) {
		srv := backend(t, respond(rankedProducts(3)))
		client := search.NewClient(search.Config{BaseURL: srv.URL})

		result, err := client.Search(context.Background(), "macbook")

		require.NoError(t, err)
		assert.Equal(t, models.SearchSourceFallback, result.Source)
		assert.Equal(t, "f1", result.Products[0].ID)
	})

	t.Run("Success - Open breaker skips the backend", func(t *testing.T) {
		var hits atomic.Int32
		srv := backend(t, func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
		})
		client := search.NewClient(search.Config{BaseURL: srv.URL, BreakerFailures: 2, BreakerCooldown: time.Minute})

		for range 5 {
			result, err := client.Search(context.Background(), "laptop")
			require.NoError(t, err)
			assert.Equal(t, models.SearchSourceFallback, result.Source)
		}

		assert.Equal(t, int32(2), hits.Load())
	})

	t.Run("Failure - Empty prompt", func(t *testing.T) {
		client := search.NewClient(search.Config{BaseURL: "http://127.0.0.1:0"})

		result, err := client.Search(context.Background(), "")

		assert.ErrorIs(t, err, search.ErrPromptRequired)
		assert.Nil(t, result)
	})

	t.Run("Failure - Caller context canceled", func(t *testing.T) {
		release := make(chan struct{})
		srv := backend(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		})
		t.Cleanup(func() { close(release) })
		client := search.NewClient(search.Config{BaseURL: srv.URL})
		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(20*time.Millisecond, cancel)

		result, err := client.Search(ctx, "laptop")

		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, result)
	})
}
