package models

import (
	"time"
)

// CommentStatus is the moderation state of a comment
type CommentStatus string

const (
	CommentStatusPending  CommentStatus = "pending"
	CommentStatusApproved CommentStatus = "approved"
	CommentStatusRejected CommentStatus = "rejected"
)

// Comment represents a user comment on an article. Root comments have a
// nil ParentID; replies reference a parent on the same article.
type Comment struct {
	ID          string        `json:"id" db:"id"`
	ArticleID   string        `json:"article_id" db:"article_id"`
	UserID      string        `json:"user_id" db:"user_id"`
	ParentID    *string       `json:"parent_id,omitempty" db:"parent_id"`
	Content     string        `json:"content" db:"content"`
	Status      CommentStatus `json:"status,omitempty" db:"status"`
	ModeratedBy *string       `json:"moderated_by,omitempty" db:"moderated_by"`
	ModeratedAt *time.Time    `json:"moderated_at,omitempty" db:"moderated_at"`
	LikesCount  int           `json:"likes_count" db:"likes_count"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
	DeletedAt   *time.Time    `json:"-" db:"deleted_at"`
}

// CommentLike marks that a user liked a comment. The (comment_id, user_id)
// pair is unique; existence of the row means "liked".
type CommentLike struct {
	CommentID string    `json:"comment_id" db:"comment_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Comment content length bounds enforced at the API boundary
const (
	MinCommentLength = 10
	MaxCommentLength = 1000
)
