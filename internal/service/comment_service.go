package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/legal-portal-api/internal/moderation"
	"github.com/legal-portal-api/internal/models"
	"github.com/legal-portal-api/internal/repository"
)

// commentService is the concrete implementation of CommentService
type commentService struct {
	comments repository.CommentRepository
	content  repository.ContentRepository
	activity ActivityService
	log      zerolog.Logger
}

func newCommentService(
	comments repository.CommentRepository,
	content repository.ContentRepository,
	activity ActivityService,
	log zerolog.Logger,
) *commentService {
	return &commentService{
		comments: comments,
		content:  content,
		activity: activity,
		log:      log.With().Str("service", "comment").Logger(),
	}
}

// Create sanitizes, classifies and persists a new comment. Staff comments
// are approved immediately; everything else starts pending, with
// heuristic flags recorded in the audit trail.
func (s *commentService) Create(ctx context.Context, articleID string, input CommentInput, author *models.User, meta RequestMeta) (*models.Comment, error) {
	exists, err := s.content.ArticleExists(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}

	if input.ParentID != nil {
		parent, err := s.comments.GetByID(ctx, *input.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.ArticleID != articleID {
			return nil, ErrInvalidParent
		}
	}

	sanitized := moderation.Sanitize(input.Content)
	result := moderation.Classify(sanitized, author)

	comment := &models.Comment{
		ID:        uuid.New().String(),
		ArticleID: articleID,
		UserID:    author.ID,
		ParentID:  input.ParentID,
		Content:   sanitized,
		Status:    result.Status,
		CreatedAt: time.Now(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	description := "comment created with status " + string(result.Status)
	if len(result.Flags) > 0 {
		description += "; flagged: " + strings.Join(result.Flags, ", ")
	}
	s.activity.Record(ctx, &author.ID, models.ActionCreate, "comment", comment.ID,
		nil, map[string]interface{}{"status": result.Status, "flags": result.Flags},
		description, meta)

	return comment, nil
}

// Update re-sanitizes edited content. A non-staff edit of an approved
// comment drops it back to pending for re-review; staff edits keep the
// current status.
func (s *commentService) Update(ctx context.Context, commentID, newContent string, editor *models.User, meta RequestMeta) (*models.Comment, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrNotFound
	}
	if comment.UserID != editor.ID && !editor.IsStaff() {
		return nil, ErrForbidden
	}

	oldContent := comment.Content
	oldStatus := comment.Status

	comment.Content = moderation.Sanitize(newContent)
	if !editor.IsStaff() && comment.Status == models.CommentStatusApproved {
		comment.Status = models.CommentStatusPending
	}

	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, &editor.ID, models.ActionUpdate, "comment", comment.ID,
		map[string]interface{}{"content": oldContent, "status": oldStatus},
		map[string]interface{}{"content": comment.Content, "status": comment.Status},
		"comment edited", meta)

	return comment, nil
}

// Approve marks a comment approved. Idempotent in effect; every call
// still writes an audit entry.
func (s *commentService) Approve(ctx context.Context, commentID string, moderator *models.User, meta RequestMeta) (*models.Comment, error) {
	return s.moderate(ctx, commentID, models.CommentStatusApproved, models.ActionApprove, moderator, meta)
}

// Reject marks a comment rejected
func (s *commentService) Reject(ctx context.Context, commentID string, moderator *models.User, meta RequestMeta) (*models.Comment, error) {
	return s.moderate(ctx, commentID, models.CommentStatusRejected, models.ActionReject, moderator, meta)
}

func (s *commentService) moderate(ctx context.Context, commentID string, status models.CommentStatus, action string, moderator *models.User, meta RequestMeta) (*models.Comment, error) {
	if !moderator.HasCapability(models.CapModerate) {
		return nil, ErrForbidden
	}

	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrNotFound
	}

	oldStatus := comment.Status
	now := time.Now()
	comment.Status = status
	comment.ModeratedBy = &moderator.ID
	comment.ModeratedAt = &now

	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, &moderator.ID, action, "comment", comment.ID,
		map[string]interface{}{"status": oldStatus},
		map[string]interface{}{"status": status},
		"comment "+string(status), meta)

	return comment, nil
}

// Delete soft-deletes a comment. Restore is only possible via direct
// store access.
func (s *commentService) Delete(ctx context.Context, commentID string, actor *models.User, meta RequestMeta) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrNotFound
	}
	if comment.UserID != actor.ID && !actor.IsStaff() {
		return ErrForbidden
	}

	if err := s.comments.SoftDelete(ctx, commentID); err != nil {
		return err
	}

	s.activity.Record(ctx, &actor.ID, models.ActionDelete, "comment", commentID,
		map[string]interface{}{"content": comment.Content, "status": comment.Status},
		nil, "comment deleted", meta)

	return nil
}

// ToggleLike flips the user's like on a comment. The returned result is
// authoritative; callers must not assume the direction they requested.
func (s *commentService) ToggleLike(ctx context.Context, commentID string, user *models.User) (*LikeResult, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrNotFound
	}

	liked, err := s.comments.HasLike(ctx, commentID, user.ID)
	if err != nil {
		return nil, err
	}

	if liked {
		count, err := s.comments.RemoveLike(ctx, commentID, user.ID)
		if err != nil {
			return nil, err
		}
		return &LikeResult{Liked: false, LikesCount: count}, nil
	}

	count, err := s.comments.AddLike(ctx, commentID, user.ID)
	if err != nil {
		return nil, err
	}
	return &LikeResult{Liked: true, LikesCount: count}, nil
}

// ListForArticle returns an article's comments. Non-staff viewers only
// see approved ones.
func (s *commentService) ListForArticle(ctx context.Context, articleID string, viewer *models.User) ([]*models.Comment, error) {
	approvedOnly := viewer == nil || !viewer.IsStaff()
	return s.comments.ListByArticle(ctx, articleID, approvedOnly)
}

// PendingQueue returns the moderation backlog, oldest first
func (s *commentService) PendingQueue(ctx context.Context, limit, offset int) ([]*models.Comment, error) {
	return s.comments.ListByStatus(ctx, models.CommentStatusPending, limit, offset)
}
