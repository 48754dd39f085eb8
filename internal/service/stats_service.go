package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/legal-portal-api/internal/models"
	"github.com/legal-portal-api/internal/repository"
)

const (
	defaultStatsDays = 30
	maxStatsDays     = 365
	defaultTopLimit  = 10
)

// statsService is the concrete implementation of StatsService
type statsService struct {
	stats repository.StatsRepository
	log   zerolog.Logger
}

func newStatsService(stats repository.StatsRepository, log zerolog.Logger) *statsService {
	return &statsService{
		stats: stats,
		log:   log.With().Str("service", "stats").Logger(),
	}
}

func (s *statsService) Overview(ctx context.Context) (*repository.OverviewStats, error) {
	return s.stats.Overview(ctx)
}

func (s *statsService) CommentsPerDay(ctx context.Context, days int) ([]repository.DailyCount, error) {
	if days <= 0 {
		days = defaultStatsDays
	}
	if days > maxStatsDays {
		days = maxStatsDays
	}
	return s.stats.CommentsPerDay(ctx, days)
}

func (s *statsService) TopCommentedArticles(ctx context.Context, locale string, limit int) ([]repository.ArticleCommentCount, error) {
	if !models.SupportedLocales[locale] {
		locale = models.DefaultLocale
	}
	if limit <= 0 {
		limit = defaultTopLimit
	}
	return s.stats.TopCommentedArticles(ctx, locale, limit)
}
