package testutils

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gsweya/hweibo-prototype/internal/api/middleware"
	"github.com/Gsweya/hweibo-prototype/internal/utils/response"
	"github.com/stretchr/testify/require"
)

const TestSessionID = "test-session-0001"

// CreateTestRequestWithSession builds a request as it looks after the logging
// and session middleware have run.
func CreateTestRequestWithSession(method, target string, body io.Reader, sessionID string, pathParams map[string]string) *http.Request {
	req := CreateTestRequestWithoutSession(method, target, body, pathParams)

	return req.WithContext(middleware.WithSessionID(req.Context(), sessionID))
}

func CreateTestRequestWithoutSession(method, target string, body io.Reader, pathParams map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")

	for key, value := range pathParams {
		req.SetPathValue(key, value)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.WithValue(req.Context(), middleware.LoggerKey, logger)

	return req.WithContext(ctx)
}

// DecodeAPIResponse decodes the envelope and re-decodes its data into dest
// when dest is not nil.
func DecodeAPIResponse(t *testing.T, rec *httptest.ResponseRecorder, dest any) response.APIResponse {
	t.Helper()

	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	if dest != nil && resp.Data != nil {
		raw, err := json.Marshal(resp.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, dest))
	}

	return resp
}
