package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/legal-portal-api/internal/models"
	"github.com/legal-portal-api/internal/repository"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 50
)

// searchService is the concrete implementation of SearchService
type searchService struct {
	search repository.SearchRepository
	log    zerolog.Logger
}

func newSearchService(search repository.SearchRepository, log zerolog.Logger) *searchService {
	return &searchService{
		search: search,
		log:    log.With().Str("service", "search").Logger(),
	}
}

// Search runs a ranked full-text query over approved, active articles
func (s *searchService) Search(ctx context.Context, query, locale string, limit int) ([]repository.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []repository.SearchResult{}, nil
	}
	if !models.SupportedLocales[locale] {
		locale = models.DefaultLocale
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	results, err := s.search.SearchArticles(ctx, query, locale, limit)
	if err != nil {
		s.log.Error().Err(err).Str("query", query).Str("locale", locale).Msg("search failed")
		return nil, err
	}
	return results, nil
}
