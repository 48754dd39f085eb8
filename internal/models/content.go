package models

import (
	"time"
)

// Supported display locales, in fallback order
const (
	LocaleUzbek   = "uz"
	LocaleRussian = "ru"
	LocaleEnglish = "en"

	DefaultLocale = LocaleUzbek
)

// SupportedLocales defines the locales a translation row may carry
var SupportedLocales = map[string]bool{
	LocaleUzbek:   true,
	LocaleRussian: true,
	LocaleEnglish: true,
}

// TranslationStatus tracks the article content review workflow,
// distinct from comment moderation.
type TranslationStatus string

const (
	TranslationStatusDraft    TranslationStatus = "draft"
	TranslationStatusPending  TranslationStatus = "pending"
	TranslationStatusApproved TranslationStatus = "approved"
)

// Section is the top level of the law hierarchy
type Section struct {
	ID        string     `json:"id" db:"id"`
	Position  int        `json:"position" db:"position"`
	IsActive  bool       `json:"is_active" db:"is_active"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`

	Translations []Translation `json:"translations,omitempty" db:"-"`
	Chapters     []*Chapter    `json:"chapters,omitempty" db:"-"`
}

// Chapter groups articles under a section
type Chapter struct {
	ID        string     `json:"id" db:"id"`
	SectionID string     `json:"section_id" db:"section_id"`
	Position  int        `json:"position" db:"position"`
	IsActive  bool       `json:"is_active" db:"is_active"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`

	Translations []Translation `json:"translations,omitempty" db:"-"`
	Articles     []*Article    `json:"articles,omitempty" db:"-"`
}

// Article is a single provision of law within a chapter
type Article struct {
	ID                string            `json:"id" db:"id"`
	ChapterID         string            `json:"chapter_id" db:"chapter_id"`
	Position          int               `json:"position" db:"position"`
	IsActive          bool              `json:"is_active" db:"is_active"`
	TranslationStatus TranslationStatus `json:"translation_status" db:"translation_status"`
	SubmittedBy       *string           `json:"submitted_by,omitempty" db:"submitted_by"`
	SubmittedAt       *time.Time        `json:"submitted_at,omitempty" db:"submitted_at"`
	CreatedAt         time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at" db:"updated_at"`
	DeletedAt         *time.Time        `json:"-" db:"deleted_at"`

	Translations []Translation `json:"translations,omitempty" db:"-"`
}

// Entity types a translation row may belong to
const (
	EntitySection = "section"
	EntityChapter = "chapter"
	EntityArticle = "article"
)

// Translation is a locale-specific text record for a section, chapter or
// article. Unique per (entity, locale).
type Translation struct {
	ID          string    `json:"id" db:"id"`
	EntityType  string    `json:"-" db:"entity_type"`
	EntityID    string    `json:"-" db:"entity_id"`
	Locale      string    `json:"locale" db:"locale"`
	Title       string    `json:"title" db:"title"`
	Content     string    `json:"content" db:"content"`
	Description string    `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// TranslationFor returns the translation matching locale, falling back to
// the default locale and then to any available row.
func TranslationFor(translations []Translation, locale string) *Translation {
	var fallback *Translation
	for i := range translations {
		t := &translations[i]
		if t.Locale == locale {
			return t
		}
		if t.Locale == DefaultLocale {
			fallback = t
		}
	}
	if fallback == nil && len(translations) > 0 {
		fallback = &translations[0]
	}
	return fallback
}
