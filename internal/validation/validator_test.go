package validation

import (
	"strings"
	"testing"
)

type registerPayload struct {
	Email           string `json:"email" validate:"required,email"`
	Name            string `json:"name" validate:"required,min=2,max=100"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	PreferredLocale string `json:"preferred_locale" validate:"omitempty,locale"`
}

type translationPayload struct {
	Locale  string `json:"locale" validate:"required,locale"`
	Title   string `json:"title" validate:"required,max=500"`
	Content string `json:"content" validate:"required"`
}

type articlePayload struct {
	ChapterID    string               `json:"chapter_id" validate:"required,uuid"`
	Translations []translationPayload `json:"translations" validate:"required,min=1,dive"`
}

func TestStructValid(t *testing.T) {
	v := NewValidator()

	errs := v.Struct(&registerPayload{
		Email:           "user@example.com",
		Name:            "Test User",
		Password:        "password123",
		PreferredLocale: "ru",
	})
	if len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	v := NewValidator()

	errs := v.Struct(&registerPayload{
		Email:    "not-an-email",
		Name:     "A",
		Password: "short",
	})
	if len(errs) != 3 {
		t.Fatalf("got %d errors, want 3: %v", len(errs), errs)
	}

	byField := map[string]string{}
	for _, e := range errs {
		byField[e.Field] = e.Message
	}
	if byField["email"] != "invalid email format" {
		t.Errorf("email message = %q", byField["email"])
	}
	if !strings.Contains(byField["name"], "at least 2") {
		t.Errorf("name message = %q", byField["name"])
	}
	if !strings.Contains(byField["password"], "at least 8") {
		t.Errorf("password message = %q", byField["password"])
	}
}

func TestStructLocaleTag(t *testing.T) {
	v := NewValidator()

	for _, locale := range []string{"uz", "ru", "en"} {
		errs := v.Struct(&registerPayload{
			Email: "user@example.com", Name: "Test User",
			Password: "password123", PreferredLocale: locale,
		})
		if len(errs) != 0 {
			t.Errorf("locale %s rejected: %v", locale, errs)
		}
	}

	errs := v.Struct(&registerPayload{
		Email: "user@example.com", Name: "Test User",
		Password: "password123", PreferredLocale: "de",
	})
	if len(errs) != 1 || errs[0].Field != "preferred_locale" {
		t.Errorf("unsupported locale: got %v", errs)
	}
}

func TestStructNestedFieldPaths(t *testing.T) {
	v := NewValidator()

	errs := v.Struct(&articlePayload{
		ChapterID: "550e8400-e29b-41d4-a716-446655440000",
		Translations: []translationPayload{
			{Locale: "uz", Title: "Modda", Content: "Matn"},
			{Locale: "xx", Title: "", Content: "Text"},
		},
	})
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(errs), errs)
	}

	fields := map[string]bool{}
	for _, e := range errs {
		fields[e.Field] = true
	}
	if !fields["translations[1].locale"] || !fields["translations[1].title"] {
		t.Errorf("nested paths missing, got %v", errs)
	}
}

func TestStructEmptyTranslations(t *testing.T) {
	v := NewValidator()

	errs := v.Struct(&articlePayload{ChapterID: "550e8400-e29b-41d4-a716-446655440000"})
	if len(errs) != 1 || errs[0].Field != "translations" {
		t.Errorf("got %v, want a translations error", errs)
	}
}

func TestValidateCommentContent(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"valid", "This is a reasonable comment.", false},
		{"too short", "short", true},
		{"exactly at minimum", strings.Repeat("a", 10), false},
		{"too long", strings.Repeat("a", 1001), true},
		{"multibyte counts runes not bytes", strings.Repeat("ҳ", 10), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.ValidateCommentContent(tt.content)
			if (len(errs) > 0) != tt.wantErr {
				t.Errorf("content %q: errs = %v, wantErr = %v", tt.content, errs, tt.wantErr)
			}
		})
	}
}
