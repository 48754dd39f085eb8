package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchArticlesUsesLocaleTextSearchConfig(t *testing.T) {
	tests := []struct {
		locale   string
		tsConfig string
	}{
		{"uz", "simple"},
		{"ru", "russian"},
		{"en", "english"},
		{"de", "simple"}, // unknown locales fall back to plain tokenization
	}

	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewSearchRepo(db)

			rows := sqlmock.NewRows([]string{"id", "locale", "title", "snippet", "rank"}).
				AddRow("a1", tt.locale, "Mulk huquqi", "...mulk...", 0.42)

			mock.ExpectQuery("SELECT a.id, t.locale, t.title").
				WithArgs(tt.tsConfig, "mulk", tt.locale, 20).
				WillReturnRows(rows)

			results, err := repo.SearchArticles(context.Background(), "mulk", tt.locale, 20)
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.Equal(t, "a1", results[0].ArticleID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSearchArticlesNoMatches(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSearchRepo(db)

	mock.ExpectQuery("SELECT a.id, t.locale, t.title").
		WillReturnRows(sqlmock.NewRows([]string{"id", "locale", "title", "snippet", "rank"}))

	results, err := repo.SearchArticles(context.Background(), "nothing", "uz", 20)
	require.NoError(t, err)
	assert.Empty(t, results)
	require.NoError(t, mock.ExpectationsWereMet())
}
