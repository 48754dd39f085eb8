package benchmark

import (
	"strings"
	"testing"

	"github.com/legal-portal-api/internal/models"
	"github.com/legal-portal-api/internal/moderation"
	"github.com/legal-portal-api/internal/validation"
)

var sampleComments = []string{
	"This article clarified the property registration process for me, thank you.",
	"VERY USEFUL ARTICLE EVERYONE SHOULD READ IT RIGHT NOW!!!",
	"Check out https://example.com and www.example.org and https://example.net for more.",
	"Bu modda juda foydali bo'ldi, rahmat katta yordam berdi.",
	"Читал несколько раз, но всё равно остались вопросы по третьему пункту.",
}

// BenchmarkClassify measures the moderation heuristics on typical input
func BenchmarkClassify(b *testing.B) {
	author := &models.User{ID: "u1", Role: models.RoleUser}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		moderation.Classify(sampleComments[i%len(sampleComments)], author)
	}
}

// BenchmarkSanitize measures HTML stripping on markup-heavy input
func BenchmarkSanitize(b *testing.B) {
	content := "<p>Some <b>bold</b> text with <a href=\"https://example.com\">a link</a> " +
		"and a <script>alert(1)</script> attempt.</p>"

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		moderation.Sanitize(content)
	}
}

// BenchmarkClassifyLongComment exercises the rune-level heuristics on a
// comment near the length limit
func BenchmarkClassifyLongComment(b *testing.B) {
	author := &models.User{ID: "u1", Role: models.RoleUser}
	content := strings.Repeat("The statute of limitations applies here. ", 24)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		moderation.Classify(content, author)
	}
}

// BenchmarkStructValidation measures request validation throughput
func BenchmarkStructValidation(b *testing.B) {
	v := validation.NewValidator()
	payload := struct {
		Email    string `json:"email" validate:"required,email"`
		Name     string `json:"name" validate:"required,min=2,max=100"`
		Password string `json:"password" validate:"required,min=8,max=72"`
		Locale   string `json:"locale" validate:"omitempty,locale"`
	}{
		Email:    "user@example.com",
		Name:     "Test User",
		Password: "password123",
		Locale:   "uz",
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		v.Struct(&payload)
	}
}
