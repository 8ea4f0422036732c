// Package search finds catalog services matching a free-text query.
package search

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"renovo-backend-go/internal/db"
	"renovo-backend-go/internal/models"
)

// Limits applied to every search.
const (
	DefaultLimit = 8
	MaxLimit     = 50
)

// Searcher returns up to limit services ranked by relevance to query.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]models.ServiceOffering, error)
}

// ClampLimit maps a requested limit into [1, MaxLimit], defaulting to DefaultLimit.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}

// CatalogSearcher ranks the stored catalog in process.
type CatalogSearcher struct {
	repo db.CatalogRepository
}

// NewCatalogSearcher creates a searcher over repo.
func NewCatalogSearcher(repo db.CatalogRepository) *CatalogSearcher {
	return &CatalogSearcher{repo: repo}
}

// Search scores each service by the number of distinct query tokens found in its
// name, category, tags or description. A blank query returns every service by name.
func (s *CatalogSearcher) Search(ctx context.Context, query string, limit int) ([]models.ServiceOffering, error) {
	limit = ClampLimit(limit)
	offerings, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	tokens := Tokenize(query)
	type scored struct {
		offering models.ServiceOffering
		score    int
	}
	matches := make([]scored, 0, len(offerings))
	for _, o := range offerings {
		score := Score(o, tokens)
		if len(tokens) > 0 && score == 0 {
			continue
		}
		matches = append(matches, scored{offering: *o, score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].offering.Name < matches[j].offering.Name
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	results := make([]models.ServiceOffering, len(matches))
	for i, m := range matches {
		results[i] = m.offering
	}
	return results, nil
}

// Tokenize lowercases query and splits it on anything that is not a letter or digit.
// Duplicate tokens are dropped.
func Tokenize(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[string]bool, len(fields))
	tokens := fields[:0]
	for _, f := range fields {
		if !seen[f] {
			seen[f] = true
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// Score counts the tokens contained in the searchable text of o.
func Score(o *models.ServiceOffering, tokens []string) int {
	if len(tokens) == 0 {
		return 0
	}
	text := strings.ToLower(strings.Join(append([]string{o.Name, o.Category, o.Description}, o.Tags...), " "))
	score := 0
	for _, t := range tokens {
		if strings.Contains(text, t) {
			score++
		}
	}
	return score
}
