// Package catalog serves the static item dump: a read-only mapping from
// unique item names to localized display names, loaded once at startup.
package catalog

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/DorianAlbert/AlbionSearchPrice/internal/models"
)

const (
	// maxResults caps search hits; the UI shows a short pick list.
	maxResults = 10

	searchCacheSize = 256

	// DefaultLocale is the locale searched when none is given. The original
	// tool was French-first.
	DefaultLocale = "FR-FR"
)

type Catalog struct {
	items []models.CatalogItem

	// searchCache memoizes recent (locale, query) lookups. The catalog is
	// immutable, so entries never need invalidation.
	searchCache *lru.Cache[string, []models.CatalogMatch]
}

// Load reads the item dump from path. The file is a JSON array of objects
// with UniqueName and LocalizedNames fields.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var items []models.CatalogItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	return NewFromItems(items)
}

// NewFromItems builds a catalog from an already-decoded item list.
func NewFromItems(items []models.CatalogItem) (*Catalog, error) {
	cache, err := lru.New[string, []models.CatalogMatch](searchCacheSize)
	if err != nil {
		return nil, err
	}

	log.Printf("Catalog loaded: %d items", len(items))
	return &Catalog{
		items:       items,
		searchCache: cache,
	}, nil
}

// ItemCount returns the number of catalog items.
func (c *Catalog) ItemCount() int {
	return len(c.items)
}

// DisplayName resolves the localized name for one item ID. Items missing from
// the catalog keep their raw ID so a dangling watchlist reference degrades to
// an ugly name rather than an error.
func (c *Catalog) DisplayName(itemID, locale string) string {
	for _, item := range c.items {
		if item.UniqueName == itemID {
			return item.Name(locale)
		}
	}
	return itemID
}

// Search finds items whose localized display name contains the query,
// case-insensitively, capped at 10 results. Names that equal or start with
// the query rank ahead of mid-string matches.
func (c *Catalog) Search(query, locale string) *models.CatalogSearchResult {
	if locale == "" {
		locale = DefaultLocale
	}
	queryLower := strings.ToLower(strings.TrimSpace(query))
	if queryLower == "" {
		return &models.CatalogSearchResult{Items: []models.CatalogMatch{}}
	}

	cacheKey := locale + "\x00" + queryLower
	if cached, ok := c.searchCache.Get(cacheKey); ok {
		return &models.CatalogSearchResult{Items: cached, TotalCount: len(cached)}
	}

	type scoredMatch struct {
		match models.CatalogMatch
		score int
		order int
	}
	scored := make([]scoredMatch, 0)

	for i, item := range c.items {
		name := item.Name(locale)
		nameLower := strings.ToLower(name)

		score := 0
		switch {
		case nameLower == queryLower:
			score = 1000
		case strings.HasPrefix(nameLower, queryLower):
			score = 800
		case strings.Contains(nameLower, " "+queryLower):
			score = 600
		case strings.Contains(nameLower, queryLower):
			score = 500
		}
		if score == 0 {
			continue
		}

		scored = append(scored, scoredMatch{
			match: models.CatalogMatch{UniqueName: item.UniqueName, DisplayName: name},
			score: score,
			order: i,
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].order < scored[j].order
	})

	if len(scored) > maxResults {
		scored = scored[:maxResults]
	}

	matches := make([]models.CatalogMatch, len(scored))
	for i, s := range scored {
		matches[i] = s.match
	}

	c.searchCache.Add(cacheKey, matches)
	return &models.CatalogSearchResult{Items: matches, TotalCount: len(matches)}
}
