package service

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"strings"

	"github.com/Gsweya/hweibo-prototype/internal/api/middleware"
	"github.com/Gsweya/hweibo-prototype/internal/errors"
	"github.com/Gsweya/hweibo-prototype/internal/models"
	"github.com/Gsweya/hweibo-prototype/internal/search"
)

type SearchService interface {
	Search(ctx context.Context, req *models.SearchRequest) (*models.SearchResult, error)
}

// Searcher is the part of search.Client the service needs.
type Searcher interface {
	Search(ctx context.Context, prompt string) (*models.SearchResult, error)
}

type searchService struct {
	client Searcher
}

func NewSearchService(client Searcher) SearchService {
	return &searchService{client: client}
}

func (s *searchService) Search(ctx context.Context, req *models.SearchRequest) (*models.SearchResult, error) {
	prompt := strings.TrimSpace(req.Prompt)

	result, err := s.client.Search(ctx, prompt)
	if err != nil {
		if stdErrors.Is(err, search.ErrPromptRequired) {
			return nil, errors.PromptRequiredError().WithError(err)
		}
		return nil, errors.UpstreamError("Search unavailable").WithError(err)
	}

	middleware.LoggerFromContext(ctx).Info("Search completed",
		slog.String("source", string(result.Source)),
		slog.Int("results", len(result.Products)))

	return result, nil
}
