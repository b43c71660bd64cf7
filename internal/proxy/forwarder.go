// Package proxy relays a few storefront routes to the catalog backend
// unchanged, so the browser never talks to the backend directly.
package proxy

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Gsweya/hweibo-prototype/internal/api/middleware"
	"github.com/Gsweya/hweibo-prototype/internal/utils/response"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	APIKeyHeader = "X-Hweibo-Api-Key"

	defaultContentType = "application/json"
	maxBodySize        = 1 << 20
)

var (
	bodyPromptRequired = []byte(`{"error":"prompt_required"}`)
	bodyServerError    = []byte(`{"error":"server_error"}`)
)

// Route describes one relayed endpoint.
type Route struct {
	Method   string
	Upstream string
	// ForwardQuery appends the incoming query string to Upstream.
	ForwardQuery bool
	InjectAPIKey bool
	// ValidatePrompt requires a non-blank "prompt" field and forwards only
	// {"prompt": <trimmed>}.
	ValidatePrompt bool
}

var (
	ProductsRoute  = Route{Method: http.MethodGet, Upstream: "/products", ForwardQuery: true}
	DashboardRoute = Route{Method: http.MethodGet, Upstream: "/seller/dashboard"}
	PromptsRoute   = Route{Method: http.MethodPost, Upstream: "/ai/prompts", InjectAPIKey: true, ValidatePrompt: true}
)

type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

type Forwarder struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewForwarder(cfg Config) *Forwarder {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &Forwarder{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  strings.TrimSpace(cfg.APIKey),
		client:  client,
	}
}

// Handler relays requests for route. Upstream status, body and content type
// are passed through verbatim; only a failure to reach the backend turns into
// a 500 {"error":"server_error"}.
func (f *Forwarder) Handler(route Route) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context()).With(slog.String("upstream", route.Upstream))

		var body io.Reader
		if route.ValidatePrompt {
			prompt, err := readPrompt(r.Body)
			if err != nil {
				logger.Warn("Unreadable prompt body", slog.String("error", err.Error()))
				writeRaw(w, http.StatusInternalServerError, bodyServerError)
				return
			}
			if prompt == "" {
				writeRaw(w, http.StatusBadRequest, bodyPromptRequired)
				return
			}
			payload, _ := json.Marshal(map[string]string{"prompt": prompt})
			body = bytes.NewReader(payload)
		}

		target := f.baseURL + route.Upstream
		if route.ForwardQuery && r.URL.RawQuery != "" {
			target += "?" + r.URL.Query().Encode()
		}

		req, err := http.NewRequestWithContext(r.Context(), route.Method, target, body)
		if err != nil {
			logger.Error("Failed to build upstream request", slog.String("error", err.Error()))
			writeRaw(w, http.StatusInternalServerError, bodyServerError)
			return
		}
		if body != nil {
			req.Header.Set("Content-Type", defaultContentType)
		}
		req.Header.Set("Cache-Control", "no-store")
		if route.InjectAPIKey && f.apiKey != "" {
			req.Header.Set(APIKeyHeader, f.apiKey)
		}

		resp, err := f.client.Do(req)
		if err != nil {
			logger.Error("Upstream request failed", slog.String("error", err.Error()))
			writeRaw(w, http.StatusInternalServerError, bodyServerError)
			return
		}
		defer resp.Body.Close()

		payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
		if err != nil {
			logger.Error("Failed to read upstream response", slog.String("error", err.Error()))
			writeRaw(w, http.StatusInternalServerError, bodyServerError)
			return
		}
		if len(payload) > maxBodySize {
			logger.Error("Upstream response too large", slog.Int("limit_bytes", maxBodySize))
			writeRaw(w, http.StatusInternalServerError, bodyServerError)
			return
		}

		w.Header().Set("Cache-Control", "no-store")
		response.Raw(w, resp.StatusCode, resp.Header.Get("Content-Type"), payload)

		logger.Debug("Relayed upstream response", slog.Int("upstream_status", resp.StatusCode))
	}
}

// readPrompt mirrors loose JSON truthiness: a missing, null, false, zero or
// blank prompt all count as no prompt.
func readPrompt(r io.Reader) (string, error) {
	var payload any
	if err := json.NewDecoder(io.LimitReader(r, maxBodySize)).Decode(&payload); err != nil {
		return "", err
	}
	obj, _ := payload.(map[string]any)

	switch v := obj["prompt"].(type) {
	case string:
		return strings.TrimSpace(v), nil
	case float64:
		if v == 0 {
			return "", nil
		}
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		if v {
			return "true", nil
		}
	}
	return "", nil
}

func writeRaw(w http.ResponseWriter, status int, body []byte) {
	response.Raw(w, status, defaultContentType, body)
}
