package repository

import (
	"context"
	"time"

	"github.com/legal-portal-api/internal/database"
	"github.com/legal-portal-api/internal/models"
)

// statsRepo is the concrete implementation of StatsRepository
type statsRepo struct {
	db *database.DB
}

// NewStatsRepo creates a new stats repository
func NewStatsRepo(db *database.DB) StatsRepository {
	return &statsRepo{db: db}
}

// Overview collects portal-wide counts in one round trip per table
func (r *statsRepo) Overview(ctx context.Context) (*OverviewStats, error) {
	stats := &OverviewStats{
		CommentsByStatus: make(map[models.CommentStatus]int),
	}

	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM users WHERE active = TRUE),
			(SELECT COUNT(*) FROM sections WHERE deleted_at IS NULL),
			(SELECT COUNT(*) FROM chapters WHERE deleted_at IS NULL),
			(SELECT COUNT(*) FROM articles WHERE deleted_at IS NULL),
			(SELECT COUNT(*) FROM login_attempts WHERE successful = FALSE AND attempted_at >= $1)`,
		time.Now().Add(-24*time.Hour),
	).Scan(&stats.Users, &stats.ActiveUsers, &stats.Sections, &stats.Chapters,
		&stats.Articles, &stats.LoginFailures24h)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT status, COUNT(*) FROM comments WHERE deleted_at IS NULL GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var status models.CommentStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.CommentsByStatus[status] = count
	}
	return stats, rows.Err()
}

// CommentsPerDay returns daily comment volume over the trailing window
func (r *statsRepo) CommentsPerDay(ctx context.Context, days int) ([]DailyCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DATE_TRUNC('day', created_at) AS day, COUNT(*)
		FROM comments
		WHERE deleted_at IS NULL AND created_at >= $1
		GROUP BY day
		ORDER BY day`,
		time.Now().AddDate(0, 0, -days),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []DailyCount
	for rows.Next() {
		var dc DailyCount
		if err := rows.Scan(&dc.Day, &dc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, dc)
	}
	return counts, rows.Err()
}

// TopCommentedArticles ranks articles by live comment volume, titled in
// the requested locale with default-locale fallback
func (r *statsRepo) TopCommentedArticles(ctx context.Context, locale string, limit int) ([]ArticleCommentCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.id,
			COALESCE(
				(SELECT title FROM translations WHERE entity_type = 'article' AND entity_id = a.id AND locale = $1),
				(SELECT title FROM translations WHERE entity_type = 'article' AND entity_id = a.id AND locale = $2),
				''),
			COUNT(c.id)
		FROM articles a
		JOIN comments c ON c.article_id = a.id AND c.deleted_at IS NULL
		WHERE a.deleted_at IS NULL
		GROUP BY a.id
		ORDER BY COUNT(c.id) DESC
		LIMIT $3`,
		locale, models.DefaultLocale, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ranked []ArticleCommentCount
	for rows.Next() {
		var acc ArticleCommentCount
		if err := rows.Scan(&acc.ArticleID, &acc.Title, &acc.Comments); err != nil {
			return nil, err
		}
		ranked = append(ranked, acc)
	}
	return ranked, rows.Err()
}
