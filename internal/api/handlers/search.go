package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Gsweya/hweibo-prototype/internal/api/middleware"
	"github.com/Gsweya/hweibo-prototype/internal/models"
	service "github.com/Gsweya/hweibo-prototype/internal/services"
	"github.com/Gsweya/hweibo-prototype/internal/utils"
	"github.com/Gsweya/hweibo-prototype/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type SearchHandler struct {
	searchService service.SearchService
	validator     *validator.Validate
}

func NewSearchHandler(searchService service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService, validator: utils.NewValidator()}
}

// Search godoc
//	@Summary		Product recommendations
//	@Description	Top five products for a free-text prompt. Falls back to ranking the local catalog when the recommendation backend is unavailable.
//	@Tags			Search
//	@Accept			json
//	@Produce		json
//	@Param			search	body		models.SearchRequest	true	"Prompt"
//	@Success		200		{object}	models.SearchResult		"Ranked products"
//	@Failure		400		{object}	response.ErrorResponse	"Prompt required"
//	@Failure		429		{object}	response.ErrorResponse	"Too many requests"
//	@Router			/search [post]
func (h *SearchHandler) Search() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.SearchRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid search input")
			return
		}

		result, err := h.searchService.Search(r.Context(), &req)
		if err != nil {
			logger.Warn("Search failed", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, result)
	}
}
