package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legal-portal-api/internal/models"
)

func TestAddLikeBumpsCounterInOneTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCommentRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO comment_likes").
		WithArgs("c1", "u1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`UPDATE comments SET likes_count = likes_count \+ 1`).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"likes_count"}).AddRow(4))
	mock.ExpectCommit()

	count, err := repo.AddLike(context.Background(), "c1", "u1")
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddLikeRollsBackOnCounterFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCommentRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO comment_likes").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`UPDATE comments SET likes_count = likes_count \+ 1`).
		WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	_, err := repo.AddLike(context.Background(), "c1", "u1")
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveLikeWithoutExistingLike(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCommentRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM comment_likes").
		WithArgs("c1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT likes_count FROM comments").
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"likes_count"}).AddRow(2))
	mock.ExpectCommit()

	count, err := repo.RemoveLike(context.Background(), "c1", "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveLikeDecrementsCounter(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCommentRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM comment_likes").
		WithArgs("c1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`UPDATE comments SET likes_count = GREATEST`).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"likes_count"}).AddRow(0))
	mock.ExpectCommit()

	count, err := repo.RemoveLike(context.Background(), "c1", "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListByArticleApprovedOnly(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCommentRepo(db)
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "article_id", "user_id", "parent_id", "content", "status",
		"moderated_by", "moderated_at", "likes_count", "created_at", "updated_at",
	}).AddRow("c1", "a1", "u1", nil, "First", "approved", nil, nil, 0, now, now)

	mock.ExpectQuery("SELECT (.+) FROM comments WHERE article_id").
		WithArgs("a1", models.CommentStatusApproved).
		WillReturnRows(rows)

	comments, err := repo.ListByArticle(context.Background(), "a1", true)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, models.CommentStatusApproved, comments[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDSkipsDeleted(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCommentRepo(db)

	mock.ExpectQuery("SELECT (.+) FROM comments WHERE id").
		WithArgs("gone").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	comment, err := repo.GetByID(context.Background(), "gone")
	require.NoError(t, err)
	assert.Nil(t, comment)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCommentRepo(db)

	mock.ExpectQuery("SELECT status, COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("approved", 12).
			AddRow("pending", 3))

	counts, err := repo.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, counts[models.CommentStatusApproved])
	assert.Equal(t, 3, counts[models.CommentStatusPending])
	require.NoError(t, mock.ExpectationsWereMet())
}
