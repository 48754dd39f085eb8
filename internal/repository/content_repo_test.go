package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legal-portal-api/internal/database"
	"github.com/legal-portal-api/internal/models"
)

func newMockDB(t *testing.T) (*database.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return database.NewFromConn(conn, zerolog.Nop()), mock
}

func sampleArticle() *models.Article {
	now := time.Now()
	return &models.Article{
		ID:                "a1",
		ChapterID:         "c1",
		Position:          1,
		IsActive:          true,
		TranslationStatus: models.TranslationStatusDraft,
		CreatedAt:         now,
		Translations: []models.Translation{
			{ID: "t1", Locale: "uz", Title: "Moddа 1", Content: "Matn"},
			{ID: "t2", Locale: "ru", Title: "Статья 1", Content: "Текст"},
		},
	}
}

func TestCreateArticleCommitsEntityAndTranslations(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewContentRepo(db)
	article := sampleArticle()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO articles").
		WithArgs(article.ID, article.ChapterID, article.Position, article.IsActive,
			article.TranslationStatus, article.CreatedAt, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	for _, tr := range article.Translations {
		mock.ExpectExec("INSERT INTO translations").
			WithArgs(tr.ID, models.EntityArticle, article.ID, tr.Locale, tr.Title,
				tr.Content, tr.Description, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	err := repo.CreateArticle(context.Background(), article)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateArticleRollsBackOnTranslationFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewContentRepo(db)
	article := sampleArticle()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO articles").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO translations").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO translations").
		WillReturnError(errors.New("unique_violation"))
	mock.ExpectRollback()

	err := repo.CreateArticle(context.Background(), article)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "translation ru")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSectionRollsBackOnSectionFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewContentRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO sections").
		WillReturnError(errors.New("duplicate key"))
	mock.ExpectRollback()

	err := repo.CreateSection(context.Background(), &models.Section{
		ID:           "s1",
		Position:     1,
		IsActive:     true,
		CreatedAt:    time.Now(),
		Translations: []models.Translation{{ID: "t1", Locale: "uz", Title: "Bo'lim"}},
	})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetArticleNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewContentRepo(db)

	mock.ExpectQuery("SELECT id, chapter_id, position, is_active").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	article, err := repo.GetArticle(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, article)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetArticleLoadsTranslations(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewContentRepo(db)
	now := time.Now()

	mock.ExpectQuery("SELECT id, chapter_id, position, is_active").
		WithArgs("a1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "chapter_id", "position", "is_active", "translation_status",
			"submitted_by", "submitted_at", "created_at", "updated_at",
		}).AddRow("a1", "c1", 1, true, "approved", nil, nil, now, now))
	mock.ExpectQuery("SELECT id, entity_type, entity_id, locale").
		WithArgs(models.EntityArticle, "a1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "entity_type", "entity_id", "locale", "title", "content",
			"description", "created_at", "updated_at",
		}).
			AddRow("t1", models.EntityArticle, "a1", "ru", "Статья", "Текст", "", now, now).
			AddRow("t2", models.EntityArticle, "a1", "uz", "Moddа", "Matn", "", now, now))

	article, err := repo.GetArticle(context.Background(), "a1")
	require.NoError(t, err)
	require.NotNil(t, article)
	assert.Equal(t, models.TranslationStatusApproved, article.TranslationStatus)
	require.Len(t, article.Translations, 2)
	assert.Equal(t, "ru", article.Translations[0].Locale)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetActiveRejectsUnknownEntity(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewContentRepo(db)

	err := repo.SetActive(context.Background(), "comments", "x", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown entity type")
}
