package search_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Gsweya/hweibo-prototype/internal/models"
	"github.com/Gsweya/hweibo-prototype/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(products []models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestFallbackSearch(t *testing.T) {
	catalog := search.DefaultCatalog()

	tests := []struct {
		name   string
		prompt string
		want   []string
	}{
		{"running shoes", "running shoes", []string{"f3", "f7", "f8", "f1", "f2"}},
		{"category match keeps catalog order on ties", "laptop", []string{"f1", "f2", "f5", "f6", "f3"}},
		{"name match wins", "MacBook", []string{"f1", "f2", "f3", "f4", "f5"}},
		{"short tokens are ignored", "a tv", []string{"f1", "f2", "f3", "f4", "f5"}},
		{"empty prompt", "", []string{"f1", "f2", "f3", "f4", "f5"}},
		{"description only", "battery", []string{"f5", "f1", "f2", "f3", "f4"}},
	}

	for _, tt := range tests {
		t.Run("Success - "+tt.name, func(t *testing.T) {
			got := search.FallbackSearch(catalog, tt.prompt)

			assert.Equal(t, tt.want, ids(got))
		})
	}

	t.Run("Success - Deterministic", func(t *testing.T) {
		first := search.FallbackSearch(catalog, "shoes for running")
		for range 20 {
			assert.Equal(t, first, search.FallbackSearch(catalog, "shoes for running"))
		}
	})

	t.Run("Success - Small catalog returns everything", func(t *testing.T) {
		got := search.FallbackSearch(catalog[:2], "laptop")

		assert.Len(t, got, 2)
	})
}

func TestScore(t *testing.T) {
	p := models.Product{Name: "Puma Sport Runner", Category: "Shoes", Description: "Supportive running shoe"}

	assert.Equal(t, 4, search.Score([]string{"puma"}, p))
	assert.Equal(t, 3, search.Score([]string{"shoes"}, p))
	assert.Equal(t, 1, search.Score([]string{"supportive"}, p))
	assert.Equal(t, 0, search.Score([]string{"camera"}, p))
	assert.Equal(t, 8, search.Score([]string{"puma", "shoes", "supportive"}, p))
}

func TestLoadCatalog(t *testing.T) {
	t.Run("Success - Reads a JSON catalog", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.json")
		require.NoError(t, os.WriteFile(path, []byte(`[{"id":"x1","name":"Tent","price":5000,"category":"Outdoor"}]`), 0o600))

		got, err := search.LoadCatalog(path)

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Tent", got[0].Name)
	})

	t.Run("Failure - Missing file", func(t *testing.T) {
		_, err := search.LoadCatalog(filepath.Join(t.TempDir(), "missing.json"))

		assert.Error(t, err)
	})

	t.Run("Success - Default catalog is a fresh copy", func(t *testing.T) {
		a := search.DefaultCatalog()
		a[0].Name = "changed"

		assert.Equal(t, "MacBook Pro 16-inch", search.DefaultCatalog()[0].Name)
	})
}
