package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/legal-portal-api/internal/config"
	"github.com/legal-portal-api/internal/service"
	"github.com/legal-portal-api/internal/validation"
)

// ContentHandler serves the law hierarchy and its admin mutations
type ContentHandler struct {
	handlerBase
	content   service.ContentService
	validator *validation.Validator
}

// NewContentHandler creates a content handler
func NewContentHandler(services *service.Services, cfg *config.Config, validator *validation.Validator, log zerolog.Logger) *ContentHandler {
	return &ContentHandler{
		handlerBase: handlerBase{cfg: cfg, log: log.With().Str("handler", "content").Logger()},
		content:     services.Content,
		validator:   validator,
	}
}

type translationRequest struct {
	Locale      string `json:"locale" validate:"required,locale"`
	Title       string `json:"title" validate:"required,max=500"`
	Content     string `json:"content" validate:"omitempty"`
	Description string `json:"description" validate:"omitempty,max=2000"`
}

type sectionRequest struct {
	Position     int                  `json:"position" validate:"min=0"`
	IsActive     bool                 `json:"is_active"`
	Translations []translationRequest `json:"translations" validate:"required,min=1,dive"`
}

type chapterRequest struct {
	SectionID    string               `json:"section_id" validate:"required,uuid"`
	Position     int                  `json:"position" validate:"min=0"`
	IsActive     bool                 `json:"is_active"`
	Translations []translationRequest `json:"translations" validate:"required,min=1,dive"`
}

type articleRequest struct {
	ChapterID    string               `json:"chapter_id" validate:"required,uuid"`
	Position     int                  `json:"position" validate:"min=0"`
	IsActive     bool                 `json:"is_active"`
	Translations []translationRequest `json:"translations" validate:"required,min=1,dive"`
}

func toTranslationInputs(reqs []translationRequest) []service.TranslationInput {
	inputs := make([]service.TranslationInput, 0, len(reqs))
	for _, r := range reqs {
		inputs = append(inputs, service.TranslationInput{
			Locale:      r.Locale,
			Title:       r.Title,
			Content:     r.Content,
			Description: r.Description,
		})
	}
	return inputs
}

// GetSections handles GET /v1/sections
func (h *ContentHandler) GetSections(c *gin.Context) {
	viewer := currentUser(c)
	staff := viewer != nil && viewer.IsStaff()

	sections, err := h.content.GetSectionTree(c.Request.Context(), currentLocale(c), staff)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"sections": sections})
}

// GetArticle handles GET /v1/articles/:id
func (h *ContentHandler) GetArticle(c *gin.Context) {
	article, err := h.content.GetArticle(c.Request.Context(), c.Param("id"), currentLocale(c))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	viewer := currentUser(c)
	if !article.IsActive && (viewer == nil || !viewer.IsStaff()) {
		respondError(c, http.StatusNotFound, CodeNotFound, "resource not found")
		return
	}
	respondOK(c, gin.H{"article": article})
}

// CreateSection handles POST /v1/admin/sections
func (h *ContentHandler) CreateSection(c *gin.Context) {
	var req sectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c)
		return
	}
	if errs := h.validator.Struct(req); errs != nil {
		respondValidationErrors(c, errs)
		return
	}

	section, err := h.content.CreateSection(c.Request.Context(), service.SectionInput{
		Position:     req.Position,
		IsActive:     req.IsActive,
		Translations: toTranslationInputs(req.Translations),
	}, currentUser(c), requestMeta(c))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondCreated(c, gin.H{"section": section})
}

// CreateChapter handles POST /v1/admin/chapters
func (h *ContentHandler) CreateChapter(c *gin.Context) {
	var req chapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c)
		return
	}
	if errs := h.validator.Struct(req); errs != nil {
		respondValidationErrors(c, errs)
		return
	}

	chapter, err := h.content.CreateChapter(c.Request.Context(), service.ChapterInput{
		SectionID:    req.SectionID,
		Position:     req.Position,
		IsActive:     req.IsActive,
		Translations: toTranslationInputs(req.Translations),
	}, currentUser(c), requestMeta(c))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondCreated(c, gin.H{"chapter": chapter})
}

// CreateArticle handles POST /v1/admin/articles
func (h *ContentHandler) CreateArticle(c *gin.Context) {
	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c)
		return
	}
	if errs := h.validator.Struct(req); errs != nil {
		respondValidationErrors(c, errs)
		return
	}

	article, err := h.content.CreateArticle(c.Request.Context(), service.ArticleInput{
		ChapterID:    req.ChapterID,
		Position:     req.Position,
		IsActive:     req.IsActive,
		Translations: toTranslationInputs(req.Translations),
	}, currentUser(c), requestMeta(c))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondCreated(c, gin.H{"article": article})
}

// UpdateArticle handles PUT /v1/admin/articles/:id
func (h *ContentHandler) UpdateArticle(c *gin.Context) {
	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c)
		return
	}
	if errs := h.validator.Struct(req); errs != nil {
		respondValidationErrors(c, errs)
		return
	}

	article, err := h.content.UpdateArticle(c.Request.Context(), c.Param("id"), service.ArticleInput{
		ChapterID:    req.ChapterID,
		Position:     req.Position,
		IsActive:     req.IsActive,
		Translations: toTranslationInputs(req.Translations),
	}, currentUser(c), requestMeta(c))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"article": article})
}

type setActiveRequest struct {
	IsActive bool `json:"is_active"`
}

// SetActive returns a handler toggling visibility for one entity type,
// mounted at PUT /v1/admin/{sections,chapters,articles}/:id/active
func (h *ContentHandler) SetActive(entityType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req setActiveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c)
			return
		}

		err := h.content.SetActive(c.Request.Context(), entityType, c.Param("id"), req.IsActive, currentUser(c), requestMeta(c))
		if err != nil {
			h.respondServiceError(c, err)
			return
		}
		respondMessage(c, "visibility updated")
	}
}

// Delete returns a soft-delete handler for one entity type, mounted at
// DELETE /v1/admin/{sections,chapters,articles}/:id
func (h *ContentHandler) Delete(entityType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := h.content.Delete(c.Request.Context(), entityType, c.Param("id"), currentUser(c), requestMeta(c))
		if err != nil {
			h.respondServiceError(c, err)
			return
		}
		respondMessage(c, "deleted")
	}
}

// SubmitTranslation handles POST /v1/admin/articles/:id/submit
func (h *ContentHandler) SubmitTranslation(c *gin.Context) {
	err := h.content.SubmitTranslation(c.Request.Context(), c.Param("id"), currentUser(c), requestMeta(c))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondMessage(c, "article submitted for review")
}

// ApproveTranslation handles POST /v1/admin/articles/:id/approve
func (h *ContentHandler) ApproveTranslation(c *gin.Context) {
	err := h.content.ApproveTranslation(c.Request.Context(), c.Param("id"), currentUser(c), requestMeta(c))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondMessage(c, "article content approved")
}
