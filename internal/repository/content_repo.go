package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/legal-portal-api/internal/database"
	"github.com/legal-portal-api/internal/models"
)

// contentRepo is the concrete implementation of ContentRepository
type contentRepo struct {
	db *database.DB
}

// NewContentRepo creates a new content repository
func NewContentRepo(db *database.DB) ContentRepository {
	return &contentRepo{db: db}
}

// CreateSection inserts a section together with its translations in one
// transaction. A failing translation insert rolls back the section row.
func (r *contentRepo) CreateSection(ctx context.Context, section *models.Section) error {
	return r.db.WithinTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO sections (id, position, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)`,
			section.ID, section.Position, section.IsActive, section.CreatedAt, time.Now(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert section: %w", err)
		}
		return insertTranslations(ctx, tx, models.EntitySection, section.ID, section.Translations)
	})
}

// CreateChapter inserts a chapter together with its translations
func (r *contentRepo) CreateChapter(ctx context.Context, chapter *models.Chapter) error {
	return r.db.WithinTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO chapters (id, section_id, position, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			chapter.ID, chapter.SectionID, chapter.Position, chapter.IsActive,
			chapter.CreatedAt, time.Now(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert chapter: %w", err)
		}
		return insertTranslations(ctx, tx, models.EntityChapter, chapter.ID, chapter.Translations)
	})
}

// CreateArticle inserts an article together with its translations
func (r *contentRepo) CreateArticle(ctx context.Context, article *models.Article) error {
	return r.db.WithinTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO articles (id, chapter_id, position, is_active, translation_status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			article.ID, article.ChapterID, article.Position, article.IsActive,
			article.TranslationStatus, article.CreatedAt, time.Now(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert article: %w", err)
		}
		return insertTranslations(ctx, tx, models.EntityArticle, article.ID, article.Translations)
	})
}

// UpdateArticle updates the article row and upserts its translations in
// one transaction
func (r *contentRepo) UpdateArticle(ctx context.Context, article *models.Article) error {
	return r.db.WithinTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			UPDATE articles
			SET chapter_id = $2, position = $3, is_active = $4, translation_status = $5, updated_at = $6
			WHERE id = $1 AND deleted_at IS NULL`,
			article.ID, article.ChapterID, article.Position, article.IsActive,
			article.TranslationStatus, time.Now(),
		)
		if err != nil {
			return fmt.Errorf("failed to update article: %w", err)
		}
		for _, t := range article.Translations {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO translations (id, entity_type, entity_id, locale, title, content, description, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				ON CONFLICT (entity_type, entity_id, locale) DO UPDATE SET
					title = EXCLUDED.title,
					content = EXCLUDED.content,
					description = EXCLUDED.description,
					updated_at = EXCLUDED.updated_at`,
				t.ID, models.EntityArticle, article.ID, t.Locale,
				t.Title, t.Content, t.Description, time.Now(), time.Now(),
			)
			if err != nil {
				return fmt.Errorf("failed to upsert translation %s: %w", t.Locale, err)
			}
		}
		return nil
	})
}

// GetSection retrieves a section with its translations
func (r *contentRepo) GetSection(ctx context.Context, id string) (*models.Section, error) {
	var section models.Section
	err := r.db.QueryRowContext(ctx, `
		SELECT id, position, is_active, created_at, updated_at
		FROM sections WHERE id = $1 AND deleted_at IS NULL`, id,
	).Scan(&section.ID, &section.Position, &section.IsActive, &section.CreatedAt, &section.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	section.Translations, err = r.loadTranslations(ctx, models.EntitySection, id)
	if err != nil {
		return nil, err
	}
	return &section, nil
}

// GetArticle retrieves an article with its translations
func (r *contentRepo) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	var article models.Article
	err := r.db.QueryRowContext(ctx, `
		SELECT id, chapter_id, position, is_active, translation_status, submitted_by, submitted_at, created_at, updated_at
		FROM articles WHERE id = $1 AND deleted_at IS NULL`, id,
	).Scan(
		&article.ID, &article.ChapterID, &article.Position, &article.IsActive,
		&article.TranslationStatus, &article.SubmittedBy, &article.SubmittedAt,
		&article.CreatedAt, &article.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	article.Translations, err = r.loadTranslations(ctx, models.EntityArticle, id)
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// GetSectionTree loads the full hierarchy with translations, ordered by
// position at every level
func (r *contentRepo) GetSectionTree(ctx context.Context, activeOnly bool) ([]*models.Section, error) {
	activeFilter := ""
	if activeOnly {
		activeFilter = " AND is_active = TRUE"
	}

	sections, err := r.loadSections(ctx, activeFilter)
	if err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		return sections, nil
	}

	chaptersBySection, err := r.loadChapters(ctx, activeFilter)
	if err != nil {
		return nil, err
	}
	articlesByChapter, err := r.loadArticles(ctx, activeFilter)
	if err != nil {
		return nil, err
	}
	translations, err := r.loadAllTranslations(ctx)
	if err != nil {
		return nil, err
	}

	for _, s := range sections {
		s.Translations = translations[models.EntitySection+":"+s.ID]
		s.Chapters = chaptersBySection[s.ID]
		for _, c := range s.Chapters {
			c.Translations = translations[models.EntityChapter+":"+c.ID]
			c.Articles = articlesByChapter[c.ID]
			for _, a := range c.Articles {
				a.Translations = translations[models.EntityArticle+":"+a.ID]
			}
		}
	}
	return sections, nil
}

// SetActive toggles the publish flag on a section, chapter or article
func (r *contentRepo) SetActive(ctx context.Context, entityType, id string, active bool) error {
	table, err := tableFor(entityType)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET is_active = $2, updated_at = $3 WHERE id = $1 AND deleted_at IS NULL", table),
		id, active, time.Now(),
	)
	return err
}

// SetTranslationStatus moves an article through the content review
// workflow, recording who submitted it for review
func (r *contentRepo) SetTranslationStatus(ctx context.Context, articleID string, status models.TranslationStatus, submittedBy *string, submittedAt *time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE articles
		SET translation_status = $2, submitted_by = $3, submitted_at = $4, updated_at = $5
		WHERE id = $1 AND deleted_at IS NULL`,
		articleID, status, submittedBy, submittedAt, time.Now(),
	)
	return err
}

// SoftDelete tombstones a content entity
func (r *contentRepo) SoftDelete(ctx context.Context, entityType, id string) error {
	table, err := tableFor(entityType)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL", table),
		id, time.Now(),
	)
	return err
}

// ArticleExists checks if a live article with the given ID exists
func (r *contentRepo) ArticleExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM articles WHERE id = $1 AND deleted_at IS NULL)", id,
	).Scan(&exists)
	return exists, err
}

func tableFor(entityType string) (string, error) {
	switch entityType {
	case models.EntitySection:
		return "sections", nil
	case models.EntityChapter:
		return "chapters", nil
	case models.EntityArticle:
		return "articles", nil
	}
	return "", fmt.Errorf("unknown entity type %q", entityType)
}

func insertTranslations(ctx context.Context, tx *sql.Tx, entityType, entityID string, translations []models.Translation) error {
	for _, t := range translations {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO translations (id, entity_type, entity_id, locale, title, content, description, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			t.ID, entityType, entityID, t.Locale, t.Title, t.Content, t.Description,
			time.Now(), time.Now(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert translation %s: %w", t.Locale, err)
		}
	}
	return nil
}

func (r *contentRepo) loadTranslations(ctx context.Context, entityType, entityID string) ([]models.Translation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, entity_type, entity_id, locale, title, content, description, created_at, updated_at
		FROM translations WHERE entity_type = $1 AND entity_id = $2 ORDER BY locale`,
		entityType, entityID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTranslations(rows)
}

func (r *contentRepo) loadAllTranslations(ctx context.Context) (map[string][]models.Translation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, entity_type, entity_id, locale, title, content, description, created_at, updated_at
		FROM translations ORDER BY locale`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byEntity := make(map[string][]models.Translation)
	for rows.Next() {
		var t models.Translation
		if err := rows.Scan(&t.ID, &t.EntityType, &t.EntityID, &t.Locale, &t.Title,
			&t.Content, &t.Description, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		key := t.EntityType + ":" + t.EntityID
		byEntity[key] = append(byEntity[key], t)
	}
	return byEntity, rows.Err()
}

func (r *contentRepo) loadSections(ctx context.Context, activeFilter string) ([]*models.Section, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, position, is_active, created_at, updated_at FROM sections WHERE deleted_at IS NULL"+activeFilter+" ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []*models.Section
	for rows.Next() {
		var s models.Section
		if err := rows.Scan(&s.ID, &s.Position, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		sections = append(sections, &s)
	}
	return sections, rows.Err()
}

func (r *contentRepo) loadChapters(ctx context.Context, activeFilter string) (map[string][]*models.Chapter, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, section_id, position, is_active, created_at, updated_at FROM chapters WHERE deleted_at IS NULL"+activeFilter+" ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bySection := make(map[string][]*models.Chapter)
	for rows.Next() {
		var c models.Chapter
		if err := rows.Scan(&c.ID, &c.SectionID, &c.Position, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		bySection[c.SectionID] = append(bySection[c.SectionID], &c)
	}
	return bySection, rows.Err()
}

func (r *contentRepo) loadArticles(ctx context.Context, activeFilter string) (map[string][]*models.Article, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, chapter_id, position, is_active, translation_status, created_at, updated_at FROM articles WHERE deleted_at IS NULL"+activeFilter+" ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byChapter := make(map[string][]*models.Article)
	for rows.Next() {
		var a models.Article
		if err := rows.Scan(&a.ID, &a.ChapterID, &a.Position, &a.IsActive,
			&a.TranslationStatus, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		byChapter[a.ChapterID] = append(byChapter[a.ChapterID], &a)
	}
	return byChapter, rows.Err()
}

func scanTranslations(rows *sql.Rows) ([]models.Translation, error) {
	var translations []models.Translation
	for rows.Next() {
		var t models.Translation
		if err := rows.Scan(&t.ID, &t.EntityType, &t.EntityID, &t.Locale, &t.Title,
			&t.Content, &t.Description, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		translations = append(translations, t)
	}
	return translations, rows.Err()
}
