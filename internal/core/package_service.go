package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"renovo-backend-go/internal/cache"
	"renovo-backend-go/internal/metrics"
	"renovo-backend-go/internal/models"
	"renovo-backend-go/internal/search"
)

// Bundling parameters.
const (
	PackageCandidateLimit = 8
	PackageMaxServices    = 3
	PackageBudgetSlack    = 1.05
	PackageRangeLow       = 0.9
	PackageRangeHigh      = 1.1
	DefaultPackageTTL     = 5 * time.Minute
)

// PackageCacheKeyPrefix namespaces suggestion payloads in a shared cache.
const PackageCacheKeyPrefix = "packages:"

// SuggestRequest is the package-suggestion input. It is also the cache key source.
type SuggestRequest struct {
	Query       string   `json:"query"`
	Budget      *float64 `json:"budget,omitempty"`
	Timeline    string   `json:"timeline,omitempty"`
	Preferences []string `json:"preferences,omitempty"`
}

// PriceRange is an estimated min/max price in dollars.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Package is one suggested bundle.
type Package struct {
	Name                string                   `json:"name"`
	Services            []models.ServiceOffering `json:"services"`
	TotalPrice          float64                  `json:"totalPrice"`
	EstimatedPriceRange PriceRange               `json:"estimatedPriceRange"`
	Timeline            string                   `json:"timeline"`
	Rationale           string                   `json:"rationale"`
}

// SuggestResponse is the encoded payload of Suggest.
type SuggestResponse struct {
	Packages []Package `json:"packages"`
}

type packageService struct {
	searcher search.Searcher
	cache    cache.Cache
	ttl      time.Duration
	logger   *zap.Logger
}

// NewPackageService creates a PackageService. Responses are cached for ttl.
func NewPackageService(searcher search.Searcher, c cache.Cache, ttl time.Duration, logger *zap.Logger) PackageService {
	if ttl <= 0 {
		ttl = DefaultPackageTTL
	}
	return &packageService{searcher: searcher, cache: c, ttl: ttl, logger: logger}
}

// Suggest serves a cached payload when one exists; otherwise it searches,
// bundles, caches and returns the new payload. Cache failures are logged only.
func (s *packageService) Suggest(ctx context.Context, req SuggestRequest) ([]byte, bool, error) {
	key, err := suggestCacheKey(req)
	if err != nil {
		return nil, false, err
	}

	if payload, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("Package cache read failed", zap.Error(err))
	} else if ok {
		metrics.RecordCacheLookup(true)
		return payload, true, nil
	}
	metrics.RecordCacheLookup(false)

	candidates, err := s.searcher.Search(ctx, req.Query, PackageCandidateLimit)
	if err != nil {
		return nil, false, fmt.Errorf("searching package candidates: %w", err)
	}

	resp := SuggestResponse{Packages: []Package{}}
	var budget float64
	if req.Budget != nil {
		budget = *req.Budget
	}
	if selected := SelectBundle(candidates, budget); len(selected) > 0 {
		resp.Packages = append(resp.Packages, buildPackage(req, selected, budget))
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		return nil, false, fmt.Errorf("encoding package suggestions: %w", err)
	}
	if err := s.cache.Set(ctx, key, payload, s.ttl); err != nil {
		s.logger.Warn("Package cache write failed", zap.Error(err))
	}
	return payload, false, nil
}

// SelectBundle walks candidates in order and keeps each one whose price fits in
// the remaining budget allowance (budget * PackageBudgetSlack), stopping at
// PackageMaxServices. A budget <= 0 places no price limit.
func SelectBundle(candidates []models.ServiceOffering, budget float64) []models.ServiceOffering {
	limit := math.Inf(1)
	if budget > 0 {
		limit = budget * PackageBudgetSlack
	}

	selected := make([]models.ServiceOffering, 0, PackageMaxServices)
	var sum float64
	for _, c := range candidates {
		if len(selected) == PackageMaxServices {
			break
		}
		if sum+c.Price > limit {
			continue
		}
		selected = append(selected, c)
		sum += c.Price
	}
	return selected
}

func buildPackage(req SuggestRequest, services []models.ServiceOffering, budget float64) Package {
	var total float64
	for _, svc := range services {
		total += svc.Price
	}

	name := "Recommended Package"
	if q := strings.TrimSpace(req.Query); q != "" {
		name = fmt.Sprintf("Recommended %s Package", q)
	}
	timeline := strings.TrimSpace(req.Timeline)
	if timeline == "" {
		timeline = "Flexible"
	}
	rationale := "The closest catalog matches for your request."
	if budget > 0 {
		rationale = "The closest catalog matches for your request that fit within your budget."
	}

	return Package{
		Name:       name,
		Services:   services,
		TotalPrice: roundCents(total),
		EstimatedPriceRange: PriceRange{
			Min: roundCents(total * PackageRangeLow),
			Max: roundCents(total * PackageRangeHigh),
		},
		Timeline:  timeline,
		Rationale: rationale,
	}
}

func suggestCacheKey(req SuggestRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encoding package cache key: %w", err)
	}
	sum := sha256.Sum256(body)
	return PackageCacheKeyPrefix + hex.EncodeToString(sum[:]), nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
