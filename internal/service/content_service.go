package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/legal-portal-api/internal/models"
	"github.com/legal-portal-api/internal/repository"
)

// contentService is the concrete implementation of ContentService
type contentService struct {
	content  repository.ContentRepository
	activity ActivityService
	log      zerolog.Logger
}

func newContentService(content repository.ContentRepository, activity ActivityService, log zerolog.Logger) *contentService {
	return &contentService{
		content:  content,
		activity: activity,
		log:      log.With().Str("service", "content").Logger(),
	}
}

// CreateSection creates a section with its translations atomically
func (s *contentService) CreateSection(ctx context.Context, input SectionInput, actor *models.User, meta RequestMeta) (*models.Section, error) {
	translations, err := buildTranslations(input.Translations)
	if err != nil {
		return nil, err
	}

	section := &models.Section{
		ID:           uuid.New().String(),
		Position:     input.Position,
		IsActive:     input.IsActive,
		CreatedAt:    time.Now(),
		Translations: translations,
	}
	if err := s.content.CreateSection(ctx, section); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, &actor.ID, models.ActionCreate, "section", section.ID,
		nil, translationSummary(translations), "section created", meta)

	return section, nil
}

// CreateChapter creates a chapter with its translations atomically
func (s *contentService) CreateChapter(ctx context.Context, input ChapterInput, actor *models.User, meta RequestMeta) (*models.Chapter, error) {
	translations, err := buildTranslations(input.Translations)
	if err != nil {
		return nil, err
	}

	chapter := &models.Chapter{
		ID:           uuid.New().String(),
		SectionID:    input.SectionID,
		Position:     input.Position,
		IsActive:     input.IsActive,
		CreatedAt:    time.Now(),
		Translations: translations,
	}
	if err := s.content.CreateChapter(ctx, chapter); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, &actor.ID, models.ActionCreate, "chapter", chapter.ID,
		nil, translationSummary(translations), "chapter created", meta)

	return chapter, nil
}

// CreateArticle creates an article with its translations atomically. New
// articles start in the draft review state.
func (s *contentService) CreateArticle(ctx context.Context, input ArticleInput, actor *models.User, meta RequestMeta) (*models.Article, error) {
	translations, err := buildTranslations(input.Translations)
	if err != nil {
		return nil, err
	}

	article := &models.Article{
		ID:                uuid.New().String(),
		ChapterID:         input.ChapterID,
		Position:          input.Position,
		IsActive:          input.IsActive,
		TranslationStatus: models.TranslationStatusDraft,
		CreatedAt:         time.Now(),
		Translations:      translations,
	}
	if err := s.content.CreateArticle(ctx, article); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, &actor.ID, models.ActionCreate, "article", article.ID,
		nil, translationSummary(translations), "article created", meta)

	return article, nil
}

// UpdateArticle updates the article and upserts its translations in one
// transaction. A content edit moves the article back to draft review.
func (s *contentService) UpdateArticle(ctx context.Context, id string, input ArticleInput, actor *models.User, meta RequestMeta) (*models.Article, error) {
	existing, err := s.content.GetArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	translations, err := buildTranslations(input.Translations)
	if err != nil {
		return nil, err
	}

	article := &models.Article{
		ID:                id,
		ChapterID:         input.ChapterID,
		Position:          input.Position,
		IsActive:          input.IsActive,
		TranslationStatus: models.TranslationStatusDraft,
		Translations:      translations,
	}
	if err := s.content.UpdateArticle(ctx, article); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, &actor.ID, models.ActionUpdate, "article", id,
		translationSummary(existing.Translations), translationSummary(translations),
		"article updated", meta)

	return article, nil
}

// GetArticle resolves an article to a single locale with fallback
func (s *contentService) GetArticle(ctx context.Context, id, locale string) (*ArticleView, error) {
	article, err := s.content.GetArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, ErrNotFound
	}

	view := &ArticleView{
		ID:                article.ID,
		ChapterID:         article.ChapterID,
		Position:          article.Position,
		IsActive:          article.IsActive,
		TranslationStatus: article.TranslationStatus,
		Locale:            locale,
	}
	if t := models.TranslationFor(article.Translations, locale); t != nil {
		view.Locale = t.Locale
		view.Title = t.Title
		view.Content = t.Content
		view.Description = t.Description
	}
	return view, nil
}

// GetSectionTree returns the hierarchy resolved to a locale. Non-staff
// viewers only see active entities.
func (s *contentService) GetSectionTree(ctx context.Context, locale string, staffViewer bool) ([]*SectionView, error) {
	sections, err := s.content.GetSectionTree(ctx, !staffViewer)
	if err != nil {
		return nil, err
	}

	views := make([]*SectionView, 0, len(sections))
	for _, section := range sections {
		sv := &SectionView{
			ID:       section.ID,
			Position: section.Position,
			IsActive: section.IsActive,
			Title:    titleFor(section.Translations, locale),
		}
		for _, chapter := range section.Chapters {
			cv := &ChapterView{
				ID:       chapter.ID,
				Position: chapter.Position,
				IsActive: chapter.IsActive,
				Title:    titleFor(chapter.Translations, locale),
			}
			for _, article := range chapter.Articles {
				cv.Articles = append(cv.Articles, &ArticleListItem{
					ID:       article.ID,
					Position: article.Position,
					IsActive: article.IsActive,
					Title:    titleFor(article.Translations, locale),
				})
			}
			sv.Chapters = append(sv.Chapters, cv)
		}
		views = append(views, sv)
	}
	return views, nil
}

// SetActive toggles the publish flag
func (s *contentService) SetActive(ctx context.Context, entityType, id string, active bool, actor *models.User, meta RequestMeta) error {
	if err := s.content.SetActive(ctx, entityType, id, active); err != nil {
		return err
	}
	s.activity.Record(ctx, &actor.ID, models.ActionUpdate, entityType, id,
		map[string]bool{"is_active": !active}, map[string]bool{"is_active": active},
		entityType+" visibility changed", meta)
	return nil
}

// Delete soft-deletes a content entity, recording a snapshot of its
// translations in the audit trail
func (s *contentService) Delete(ctx context.Context, entityType, id string, actor *models.User, meta RequestMeta) error {
	var snapshot interface{}
	if entityType == models.EntityArticle {
		if article, err := s.content.GetArticle(ctx, id); err == nil && article != nil {
			snapshot = translationSummary(article.Translations)
		}
	}

	if err := s.content.SoftDelete(ctx, entityType, id); err != nil {
		return err
	}

	s.activity.Record(ctx, &actor.ID, models.ActionDelete, entityType, id,
		snapshot, nil, entityType+" deleted", meta)
	return nil
}

// SubmitTranslation moves an article's content into review
func (s *contentService) SubmitTranslation(ctx context.Context, articleID string, actor *models.User, meta RequestMeta) error {
	article, err := s.content.GetArticle(ctx, articleID)
	if err != nil {
		return err
	}
	if article == nil {
		return ErrNotFound
	}

	now := time.Now()
	if err := s.content.SetTranslationStatus(ctx, articleID, models.TranslationStatusPending, &actor.ID, &now); err != nil {
		return err
	}

	s.activity.Record(ctx, &actor.ID, models.ActionUpdate, "article", articleID,
		map[string]interface{}{"translation_status": article.TranslationStatus},
		map[string]interface{}{"translation_status": models.TranslationStatusPending},
		"article submitted for review", meta)
	return nil
}

// ApproveTranslation approves an article's content. Staff only.
func (s *contentService) ApproveTranslation(ctx context.Context, articleID string, actor *models.User, meta RequestMeta) error {
	if !actor.HasCapability(models.CapModerate) {
		return ErrForbidden
	}

	article, err := s.content.GetArticle(ctx, articleID)
	if err != nil {
		return err
	}
	if article == nil {
		return ErrNotFound
	}

	if err := s.content.SetTranslationStatus(ctx, articleID, models.TranslationStatusApproved, article.SubmittedBy, article.SubmittedAt); err != nil {
		return err
	}

	s.activity.Record(ctx, &actor.ID, models.ActionApprove, "article", articleID,
		map[string]interface{}{"translation_status": article.TranslationStatus},
		map[string]interface{}{"translation_status": models.TranslationStatusApproved},
		"article content approved", meta)
	return nil
}

func buildTranslations(inputs []TranslationInput) ([]models.Translation, error) {
	if len(inputs) == 0 {
		return nil, ErrNoTranslations
	}
	translations := make([]models.Translation, 0, len(inputs))
	for _, in := range inputs {
		if !models.SupportedLocales[in.Locale] {
			return nil, ErrInvalidLocale
		}
		translations = append(translations, models.Translation{
			ID:          uuid.New().String(),
			Locale:      in.Locale,
			Title:       in.Title,
			Content:     in.Content,
			Description: in.Description,
		})
	}
	return translations, nil
}

func titleFor(translations []models.Translation, locale string) string {
	if t := models.TranslationFor(translations, locale); t != nil {
		return t.Title
	}
	return ""
}

func translationSummary(translations []models.Translation) map[string]string {
	summary := make(map[string]string, len(translations))
	for _, t := range translations {
		summary[t.Locale] = t.Title
	}
	return summary
}
