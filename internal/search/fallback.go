package search

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/Gsweya/hweibo-prototype/internal/models"
)

// RecommendationCount is how many products a search returns.
const RecommendationCount = 5

const minTokenLength = 3

//go:embed catalog.json
var embeddedCatalog []byte

// DefaultCatalog returns a fresh copy of the built-in fallback catalog.
func DefaultCatalog() []models.Product {
	products, err := parseCatalog(embeddedCatalog)
	if err != nil {
		panic(fmt.Sprintf("search: embedded catalog: %v", err))
	}
	return products
}

// LoadCatalog reads a JSON array of products from path.
func LoadCatalog(path string) ([]models.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	return parseCatalog(data)
}

func parseCatalog(data []byte) ([]models.Product, error) {
	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	return products, nil
}

func tokenize(prompt string) []string {
	var tokens []string
	for _, f := range strings.Fields(strings.ToLower(prompt)) {
		if len([]rune(f)) >= minTokenLength {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// Score rates p against the prompt tokens: 4 per token found in the name,
// otherwise 3 if found in the category, otherwise 1 if found anywhere in
// name, description or category.
func Score(tokens []string, p models.Product) int {
	name := strings.ToLower(p.Name)
	category := strings.ToLower(p.Category)
	hay := name + " " + strings.ToLower(p.Description) + " " + category

	score := 0
	for _, t := range tokens {
		switch {
		case strings.Contains(name, t):
			score += 4
		case strings.Contains(category, t):
			score += 3
		case strings.Contains(hay, t):
			score++
		}
	}
	return score
}

// FallbackSearch ranks catalog against prompt without any network access and
// returns at most RecommendationCount products. Ties keep catalog order.
func FallbackSearch(catalog []models.Product, prompt string) []models.Product {
	tokens := tokenize(prompt)

	type scored struct {
		product models.Product
		score   int
	}
	ranked := make([]scored, len(catalog))
	for i, p := range catalog {
		ranked[i] = scored{product: p, score: Score(tokens, p)}
	}
	slices.SortStableFunc(ranked, func(a, b scored) int {
		return b.score - a.score
	})

	n := min(len(ranked), RecommendationCount)
	out := make([]models.Product, n)
	for i := range n {
		out[i] = ranked[i].product
	}
	return out
}
