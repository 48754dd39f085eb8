package api

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/legal-portal-api/internal/config"
	"github.com/legal-portal-api/internal/models"
	"github.com/legal-portal-api/internal/service"
	"github.com/legal-portal-api/internal/validation"
)

// CommentHandler handles comment creation, editing, likes and moderation
type CommentHandler struct {
	handlerBase
	comments  service.CommentService
	validator *validation.Validator
}

// NewCommentHandler creates a comment handler
func NewCommentHandler(services *service.Services, cfg *config.Config, validator *validation.Validator, log zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		handlerBase: handlerBase{cfg: cfg, log: log.With().Str("handler", "comment").Logger()},
		comments:    services.Comment,
		validator:   validator,
	}
}

type createCommentRequest struct {
	Content  string  `json:"content" validate:"required"`
	ParentID *string `json:"parent_id" validate:"omitempty,uuid"`
}

type updateCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// commentView is a comment shaped for a specific viewer. Moderation fields
// are only present for staff.
type commentView struct {
	ID          string               `json:"id"`
	ArticleID   string               `json:"article_id"`
	UserID      string               `json:"user_id"`
	ParentID    *string              `json:"parent_id,omitempty"`
	Content     string               `json:"content"`
	Status      models.CommentStatus `json:"status,omitempty"`
	ModeratedBy *string              `json:"moderated_by,omitempty"`
	ModeratedAt *time.Time           `json:"moderated_at,omitempty"`
	LikesCount  int                  `json:"likes_count"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

func commentForViewer(comment *models.Comment, viewer *models.User) *commentView {
	view := &commentView{
		ID:         comment.ID,
		ArticleID:  comment.ArticleID,
		UserID:     comment.UserID,
		ParentID:   comment.ParentID,
		Content:    comment.Content,
		LikesCount: comment.LikesCount,
		CreatedAt:  comment.CreatedAt,
		UpdatedAt:  comment.UpdatedAt,
	}
	if viewer != nil && viewer.IsStaff() {
		view.Status = comment.Status
		view.ModeratedBy = comment.ModeratedBy
		view.ModeratedAt = comment.ModeratedAt
	}
	return view
}

func commentsForViewer(comments []*models.Comment, viewer *models.User) []*commentView {
	views := make([]*commentView, 0, len(comments))
	for _, comment := range comments {
		views = append(views, commentForViewer(comment, viewer))
	}
	return views
}

// Create handles POST /v1/articles/:id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c)
		return
	}
	if errs := h.validator.Struct(req); errs != nil {
		respondValidationErrors(c, errs)
		return
	}
	if errs := h.validator.ValidateCommentContent(req.Content); errs != nil {
		respondValidationErrors(c, errs)
		return
	}

	user := currentUser(c)
	comment, err := h.comments.Create(c.Request.Context(), c.Param("id"), service.CommentInput{
		Content:  req.Content,
		ParentID: req.ParentID,
	}, user, requestMeta(c))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondCreated(c, gin.H{"comment": commentForViewer(comment, user)})
}

// Update handles PUT /v1/comments/:id
func (h *CommentHandler) Update(c *gin.Context) {
	var req updateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c)
		return
	}
	if errs := h.validator.ValidateCommentContent(req.Content); errs != nil {
		respondValidationErrors(c, errs)
		return
	}

	user := currentUser(c)
	comment, err := h.comments.Update(c.Request.Context(), c.Param("id"), req.Content, user, requestMeta(c))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"comment": commentForViewer(comment, user)})
}

// Delete handles DELETE /v1/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	err := h.comments.Delete(c.Request.Context(), c.Param("id"), currentUser(c), requestMeta(c))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondMessage(c, "comment deleted")
}

// ToggleLike handles POST /v1/comments/:id/like
func (h *CommentHandler) ToggleLike(c *gin.Context) {
	result, err := h.comments.ToggleLike(c.Request.Context(), c.Param("id"), currentUser(c))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondOK(c, result)
}

// ListForArticle handles GET /v1/articles/:id/comments
func (h *CommentHandler) ListForArticle(c *gin.Context) {
	viewer := currentUser(c)
	comments, err := h.comments.ListForArticle(c.Request.Context(), c.Param("id"), viewer)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"comments": commentsForViewer(comments, viewer)})
}

// Approve handles POST /v1/admin/comments/:id/approve
func (h *CommentHandler) Approve(c *gin.Context) {
	h.moderate(c, h.comments.Approve)
}

// Reject handles POST /v1/admin/comments/:id/reject
func (h *CommentHandler) Reject(c *gin.Context) {
	h.moderate(c, h.comments.Reject)
}

func (h *CommentHandler) moderate(c *gin.Context, action func(ctx context.Context, id string, moderator *models.User, meta service.RequestMeta) (*models.Comment, error)) {
	user := currentUser(c)
	comment, err := action(c.Request.Context(), c.Param("id"), user, requestMeta(c))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"comment": commentForViewer(comment, user)})
}

// PendingQueue handles GET /v1/admin/comments/pending
func (h *CommentHandler) PendingQueue(c *gin.Context) {
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)

	comments, err := h.comments.PendingQueue(c.Request.Context(), limit, offset)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"comments": commentsForViewer(comments, currentUser(c))})
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
