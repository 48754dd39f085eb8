package repository

import (
	"context"

	"github.com/legal-portal-api/internal/database"
	"github.com/legal-portal-api/internal/models"
)

// searchRepo delegates full-text search to PostgreSQL
type searchRepo struct {
	db *database.DB
}

// NewSearchRepo creates a new search repository
func NewSearchRepo(db *database.DB) SearchRepository {
	return &searchRepo{db: db}
}

// tsConfigs maps portal locales to PostgreSQL text search configurations.
// Uzbek has no built-in configuration, so it falls back to simple
// tokenization.
var tsConfigs = map[string]string{
	models.LocaleUzbek:   "simple",
	models.LocaleRussian: "russian",
	models.LocaleEnglish: "english",
}

// SearchArticles runs a ranked full-text query over article translations
// in the given locale. Only active, approved articles are searched.
func (r *searchRepo) SearchArticles(ctx context.Context, query, locale string, limit int) ([]SearchResult, error) {
	tsConfig, ok := tsConfigs[locale]
	if !ok {
		tsConfig = "simple"
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT a.id, t.locale, t.title,
			ts_headline($1::regconfig, t.content, plainto_tsquery($1::regconfig, $2),
				'MaxWords=30, MinWords=10') AS snippet,
			ts_rank(to_tsvector($1::regconfig, t.title || ' ' || t.content),
				plainto_tsquery($1::regconfig, $2)) AS rank
		FROM articles a
		JOIN translations t ON t.entity_type = 'article' AND t.entity_id = a.id
		WHERE a.deleted_at IS NULL
			AND a.is_active = TRUE
			AND a.translation_status = 'approved'
			AND t.locale = $3
			AND to_tsvector($1::regconfig, t.title || ' ' || t.content) @@ plainto_tsquery($1::regconfig, $2)
		ORDER BY rank DESC
		LIMIT $4`,
		tsConfig, query, locale, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var res SearchResult
		if err := rows.Scan(&res.ArticleID, &res.Locale, &res.Title, &res.Snippet, &res.Rank); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}
