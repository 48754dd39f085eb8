package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/legal-portal-api/internal/mocks"
	"github.com/legal-portal-api/internal/models"
)

type contentFixture struct {
	svc      *contentService
	content  *mocks.MockContentRepository
	activity *mocks.MockActivityLogRepository
}

func newContentFixture() *contentFixture {
	content := mocks.NewMockContentRepository()
	activity := mocks.NewMockActivityLogRepository()
	svc := newContentService(content, newActivityService(activity, zerolog.Nop()), zerolog.Nop())
	return &contentFixture{svc: svc, content: content, activity: activity}
}

func uzRu(title string) []TranslationInput {
	return []TranslationInput{
		{Locale: "uz", Title: title + " (uz)", Content: "Matn"},
		{Locale: "ru", Title: title + " (ru)", Content: "Текст"},
	}
}

func TestCreateArticleStartsInDraft(t *testing.T) {
	f := newContentFixture()

	article, err := f.svc.CreateArticle(context.Background(), ArticleInput{
		ChapterID:    "ch1",
		Position:     1,
		IsActive:     true,
		Translations: uzRu("Modda"),
	}, moderatorUser("m1"), noMeta)
	if err != nil {
		t.Fatalf("CreateArticle: %v", err)
	}
	if article.TranslationStatus != models.TranslationStatusDraft {
		t.Errorf("status = %s, want draft", article.TranslationStatus)
	}
	if len(article.Translations) != 2 {
		t.Errorf("got %d translations, want 2", len(article.Translations))
	}
	if entry := f.activity.LastEntry(); entry == nil || entry.Action != models.ActionCreate {
		t.Errorf("expected a create audit entry, got %+v", entry)
	}
}

func TestCreateArticleRejectsUnsupportedLocale(t *testing.T) {
	f := newContentFixture()

	_, err := f.svc.CreateArticle(context.Background(), ArticleInput{
		ChapterID:    "ch1",
		Translations: []TranslationInput{{Locale: "de", Title: "Artikel", Content: "Text"}},
	}, moderatorUser("m1"), noMeta)
	if err != ErrInvalidLocale {
		t.Errorf("err = %v, want ErrInvalidLocale", err)
	}
}

func TestCreateSectionRequiresTranslations(t *testing.T) {
	f := newContentFixture()

	_, err := f.svc.CreateSection(context.Background(), SectionInput{Position: 1},
		moderatorUser("m1"), noMeta)
	if err != ErrNoTranslations {
		t.Errorf("err = %v, want ErrNoTranslations", err)
	}
}

func TestUpdateArticleResetsToDraft(t *testing.T) {
	f := newContentFixture()
	ctx := context.Background()

	created, err := f.svc.CreateArticle(ctx, ArticleInput{
		ChapterID: "ch1", Position: 1, IsActive: true, Translations: uzRu("Modda"),
	}, moderatorUser("m1"), noMeta)
	if err != nil {
		t.Fatalf("CreateArticle: %v", err)
	}
	f.content.Articles[created.ID].TranslationStatus = models.TranslationStatusApproved

	updated, err := f.svc.UpdateArticle(ctx, created.ID, ArticleInput{
		ChapterID: "ch1", Position: 1, IsActive: true, Translations: uzRu("Yangi modda"),
	}, moderatorUser("m1"), noMeta)
	if err != nil {
		t.Fatalf("UpdateArticle: %v", err)
	}
	if updated.TranslationStatus != models.TranslationStatusDraft {
		t.Errorf("status after edit = %s, want draft", updated.TranslationStatus)
	}
}

func TestUpdateMissingArticle(t *testing.T) {
	f := newContentFixture()

	_, err := f.svc.UpdateArticle(context.Background(), "missing", ArticleInput{
		Translations: uzRu("Modda"),
	}, moderatorUser("m1"), noMeta)
	if err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestGetArticleLocaleFallback(t *testing.T) {
	f := newContentFixture()
	f.content.Articles["a1"] = &models.Article{
		ID: "a1", ChapterID: "ch1", IsActive: true,
		TranslationStatus: models.TranslationStatusApproved,
		Translations: []models.Translation{
			{Locale: "uz", Title: "Mulk huquqi", Content: "Matn"},
		},
	}

	// Requested locale exists
	view, err := f.svc.GetArticle(context.Background(), "a1", "uz")
	if err != nil {
		t.Fatalf("GetArticle: %v", err)
	}
	if view.Title != "Mulk huquqi" || view.Locale != "uz" {
		t.Errorf("view = %+v", view)
	}

	// Missing locale falls back to the default
	view, err = f.svc.GetArticle(context.Background(), "a1", "en")
	if err != nil {
		t.Fatalf("GetArticle fallback: %v", err)
	}
	if view.Locale != "uz" || view.Title != "Mulk huquqi" {
		t.Errorf("fallback view = %+v, want the Uzbek translation", view)
	}
}

func TestGetSectionTreeFiltersForPublic(t *testing.T) {
	f := newContentFixture()
	f.content.Sections["s1"] = &models.Section{
		ID: "s1", Position: 1, IsActive: true,
		Translations: []models.Translation{{Locale: "uz", Title: "Bo'lim 1"}},
	}
	f.content.Sections["s2"] = &models.Section{
		ID: "s2", Position: 2, IsActive: false,
		Translations: []models.Translation{{Locale: "uz", Title: "Bo'lim 2"}},
	}

	public, err := f.svc.GetSectionTree(context.Background(), "uz", false)
	if err != nil {
		t.Fatalf("GetSectionTree: %v", err)
	}
	if len(public) != 1 || public[0].ID != "s1" {
		t.Errorf("public tree = %+v, want only the active section", public)
	}

	staff, err := f.svc.GetSectionTree(context.Background(), "uz", true)
	if err != nil {
		t.Fatalf("GetSectionTree staff: %v", err)
	}
	if len(staff) != 2 {
		t.Errorf("staff tree has %d sections, want 2", len(staff))
	}
}

func TestTranslationReviewWorkflow(t *testing.T) {
	f := newContentFixture()
	ctx := context.Background()
	f.content.Articles["a1"] = &models.Article{
		ID: "a1", ChapterID: "ch1", IsActive: true,
		TranslationStatus: models.TranslationStatusDraft,
		Translations:      []models.Translation{{Locale: "uz", Title: "Modda"}},
	}

	editor := moderatorUser("m1")
	if err := f.svc.SubmitTranslation(ctx, "a1", editor, noMeta); err != nil {
		t.Fatalf("SubmitTranslation: %v", err)
	}
	article := f.content.Articles["a1"]
	if article.TranslationStatus != models.TranslationStatusPending {
		t.Errorf("status = %s, want pending", article.TranslationStatus)
	}
	if article.SubmittedBy == nil || *article.SubmittedBy != "m1" {
		t.Error("submitter must be recorded")
	}

	// Regular users cannot approve
	if err := f.svc.ApproveTranslation(ctx, "a1", normalUser("u1"), noMeta); err != ErrForbidden {
		t.Errorf("non-staff approve: err = %v, want ErrForbidden", err)
	}

	if err := f.svc.ApproveTranslation(ctx, "a1", moderatorUser("m2"), noMeta); err != nil {
		t.Fatalf("ApproveTranslation: %v", err)
	}
	if article.TranslationStatus != models.TranslationStatusApproved {
		t.Errorf("status = %s, want approved", article.TranslationStatus)
	}
	if article.SubmittedBy == nil || *article.SubmittedBy != "m1" {
		t.Error("approval must keep the original submitter")
	}
}

func TestDeleteArticleSnapshotsTranslations(t *testing.T) {
	f := newContentFixture()
	f.content.Articles["a1"] = &models.Article{
		ID: "a1", ChapterID: "ch1", IsActive: true,
		Translations: []models.Translation{{Locale: "uz", Title: "Modda"}},
	}

	if err := f.svc.Delete(context.Background(), models.EntityArticle, "a1",
		moderatorUser("m1"), noMeta); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if f.content.Articles["a1"].DeletedAt == nil {
		t.Error("article must be soft-deleted")
	}

	entry := f.activity.LastEntry()
	if entry == nil || entry.Action != models.ActionDelete {
		t.Fatalf("expected a delete audit entry, got %+v", entry)
	}
	if entry.OldValues == nil {
		t.Error("delete entry must snapshot the translations")
	}
}

func TestSetActiveLogsTransition(t *testing.T) {
	f := newContentFixture()
	f.content.Sections["s1"] = &models.Section{ID: "s1", IsActive: true}

	if err := f.svc.SetActive(context.Background(), models.EntitySection, "s1", false,
		moderatorUser("m1"), noMeta); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if f.content.Sections["s1"].IsActive {
		t.Error("section must be deactivated")
	}
	if entry := f.activity.LastEntry(); entry == nil || entry.ModelType != models.EntitySection {
		t.Errorf("expected an audit entry for the section, got %+v", entry)
	}
}
