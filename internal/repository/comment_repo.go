package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/legal-portal-api/internal/database"
	"github.com/legal-portal-api/internal/models"
)

// commentRepo is the concrete implementation of CommentRepository
type commentRepo struct {
	db *database.DB
}

// NewCommentRepo creates a new comment repository
func NewCommentRepo(db *database.DB) CommentRepository {
	return &commentRepo{db: db}
}

const commentColumns = `id, article_id, user_id, parent_id, content, status,
	moderated_by, moderated_at, likes_count, created_at, updated_at`

// Create inserts a new comment
func (r *commentRepo) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (id, article_id, user_id, parent_id, content, status, likes_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		comment.ID, comment.ArticleID, comment.UserID, comment.ParentID,
		comment.Content, comment.Status, comment.CreatedAt, time.Now(),
	)
	return err
}

// GetByID retrieves a comment by ID, excluding soft-deleted rows
func (r *commentRepo) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1 AND deleted_at IS NULL`

	var comment models.Comment
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&comment.ID, &comment.ArticleID, &comment.UserID, &comment.ParentID,
		&comment.Content, &comment.Status, &comment.ModeratedBy, &comment.ModeratedAt,
		&comment.LikesCount, &comment.CreatedAt, &comment.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Update persists content, status and moderation fields
func (r *commentRepo) Update(ctx context.Context, comment *models.Comment) error {
	query := `
		UPDATE comments
		SET content = $2, status = $3, moderated_by = $4, moderated_at = $5, updated_at = $6
		WHERE id = $1 AND deleted_at IS NULL
	`
	_, err := r.db.ExecContext(ctx, query,
		comment.ID, comment.Content, comment.Status,
		comment.ModeratedBy, comment.ModeratedAt, time.Now(),
	)
	return err
}

// SoftDelete tombstones a comment; the row stays recoverable in storage
func (r *commentRepo) SoftDelete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE comments SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL",
		id, time.Now(),
	)
	return err
}

// ListByArticle returns comments for an article, oldest first. Non-staff
// viewers only see approved comments.
func (r *commentRepo) ListByArticle(ctx context.Context, articleID string, approvedOnly bool) ([]*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE article_id = $1 AND deleted_at IS NULL`
	args := []interface{}{articleID}
	if approvedOnly {
		query += ` AND status = $2`
		args = append(args, models.CommentStatusApproved)
	}
	query += ` ORDER BY created_at`

	return r.queryComments(ctx, query, args...)
}

// ListByStatus returns comments in a given moderation state, oldest first,
// for the admin review queue
func (r *commentRepo) ListByStatus(ctx context.Context, status models.CommentStatus, limit, offset int) ([]*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments
		WHERE status = $1 AND deleted_at IS NULL
		ORDER BY created_at
		LIMIT $2 OFFSET $3`
	return r.queryComments(ctx, query, status, limit, offset)
}

// HasLike checks whether the user already liked the comment
func (r *commentRepo) HasLike(ctx context.Context, commentID, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM comment_likes WHERE comment_id = $1 AND user_id = $2)",
		commentID, userID,
	).Scan(&exists)
	return exists, err
}

// AddLike inserts the like row and bumps the denormalized counter in the
// same transaction with an atomic increment. Returns the new count.
func (r *commentRepo) AddLike(ctx context.Context, commentID, userID string) (int, error) {
	var count int
	err := r.db.WithinTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO comment_likes (comment_id, user_id, created_at) VALUES ($1, $2, $3)",
			commentID, userID, time.Now(),
		)
		if err != nil {
			return err
		}
		return tx.QueryRowContext(ctx,
			"UPDATE comments SET likes_count = likes_count + 1 WHERE id = $1 RETURNING likes_count",
			commentID,
		).Scan(&count)
	})
	return count, err
}

// RemoveLike deletes the like row and decrements the counter, clamped at
// zero. Returns the new count.
func (r *commentRepo) RemoveLike(ctx context.Context, commentID, userID string) (int, error) {
	var count int
	err := r.db.WithinTransaction(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"DELETE FROM comment_likes WHERE comment_id = $1 AND user_id = $2",
			commentID, userID,
		)
		if err != nil {
			return err
		}
		deleted, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if deleted == 0 {
			// Nothing to undo; report current count
			return tx.QueryRowContext(ctx,
				"SELECT likes_count FROM comments WHERE id = $1", commentID,
			).Scan(&count)
		}
		return tx.QueryRowContext(ctx,
			"UPDATE comments SET likes_count = GREATEST(likes_count - 1, 0) WHERE id = $1 RETURNING likes_count",
			commentID,
		).Scan(&count)
	})
	return count, err
}

// CountByStatus returns comment totals per moderation state
func (r *commentRepo) CountByStatus(ctx context.Context) (map[models.CommentStatus]int, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT status, COUNT(*) FROM comments WHERE deleted_at IS NULL GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.CommentStatus]int)
	for rows.Next() {
		var status models.CommentStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *commentRepo) queryComments(ctx context.Context, query string, args ...interface{}) ([]*models.Comment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		var comment models.Comment
		err := rows.Scan(
			&comment.ID, &comment.ArticleID, &comment.UserID, &comment.ParentID,
			&comment.Content, &comment.Status, &comment.ModeratedBy, &comment.ModeratedAt,
			&comment.LikesCount, &comment.CreatedAt, &comment.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		comments = append(comments, &comment)
	}
	return comments, rows.Err()
}
