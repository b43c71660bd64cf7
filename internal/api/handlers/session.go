package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Gsweya/hweibo-prototype/internal/api/middleware"
	"github.com/Gsweya/hweibo-prototype/internal/errors"
	"github.com/Gsweya/hweibo-prototype/internal/utils/response"
)

// requireSession returns the request's session id and a logger tagged with
// it, writing a 400 when the session middleware did not run.
func requireSession(w http.ResponseWriter, r *http.Request) (string, *slog.Logger, bool) {
	logger := middleware.LoggerFromContext(r.Context())

	id, ok := middleware.SessionIDFromContext(r.Context())
	if !ok {
		logger.Warn("Request without session")
		response.Error(w, errors.BadRequestError("Missing session"))
		return "", logger, false
	}

	return id, logger, true
}
