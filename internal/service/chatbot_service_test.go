package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/legal-portal-api/internal/mocks"
	"github.com/legal-portal-api/internal/repository"
)

type chatbotFixture struct {
	svc    *chatbotService
	search *mocks.MockSearchRepository
}

func newChatbotFixture() *chatbotFixture {
	search := mocks.NewMockSearchRepository()
	searchSvc := newSearchService(search, zerolog.Nop())
	return &chatbotFixture{
		svc:    newChatbotService(searchSvc, zerolog.Nop()),
		search: search,
	}
}

func TestChatbotGreetingIntentPerLanguage(t *testing.T) {
	f := newChatbotFixture()

	cases := []struct {
		message string
		locale  string
	}{
		{"salom", "uz"},
		{"Assalomu alaykum", "uz"},
		{"привет", "ru"},
		{"Здравствуйте, бот", "ru"},
		{"hi there", "en"},
		{"Hello", "en"},
	}
	for _, tc := range cases {
		reply, err := f.svc.Reply(context.Background(), tc.message, tc.locale)
		if err != nil {
			t.Fatalf("Reply(%q): %v", tc.message, err)
		}
		if reply.Intent != IntentGreeting {
			t.Errorf("Reply(%q) intent = %s, want greeting", tc.message, reply.Intent)
		}
		if want := chatbotTemplates[tc.locale][IntentGreeting]; reply.Message != want {
			t.Errorf("Reply(%q) message = %q, want %q", tc.message, reply.Message, want)
		}
	}
}

func TestChatbotHelpAndThanksIntents(t *testing.T) {
	f := newChatbotFixture()

	reply, err := f.svc.Reply(context.Background(), "yordam kerak", "uz")
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if reply.Intent != IntentHelp {
		t.Errorf("intent = %s, want help", reply.Intent)
	}

	reply, err = f.svc.Reply(context.Background(), "спасибо большое", "ru")
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if reply.Intent != IntentThanks {
		t.Errorf("intent = %s, want thanks", reply.Intent)
	}
}

func TestChatbotEmptyMessageFallsBackToHelp(t *testing.T) {
	f := newChatbotFixture()

	reply, err := f.svc.Reply(context.Background(), "   ", "en")
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if reply.Intent != IntentHelp {
		t.Errorf("intent = %s, want help", reply.Intent)
	}
	if f.search.LastQuery != "" {
		t.Error("empty message should not hit search")
	}
}

func TestChatbotFallsThroughToSearch(t *testing.T) {
	f := newChatbotFixture()
	f.search.Results = []repository.SearchResult{
		{ArticleID: "a1", Locale: "ru", Title: "О собственности", Rank: 0.6},
	}

	reply, err := f.svc.Reply(context.Background(), "право собственности", "ru")
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if reply.Intent != IntentSearch {
		t.Errorf("intent = %s, want search", reply.Intent)
	}
	if len(reply.Results) != 1 || reply.Results[0].ArticleID != "a1" {
		t.Errorf("results = %+v, want the matched article", reply.Results)
	}
	if f.search.LastQuery != "право собственности" {
		t.Errorf("search query = %q", f.search.LastQuery)
	}
	if f.search.LastLocale != "ru" {
		t.Errorf("search locale = %q, want ru", f.search.LastLocale)
	}
}

func TestChatbotNoMatchWhenSearchIsEmpty(t *testing.T) {
	f := newChatbotFixture()

	reply, err := f.svc.Reply(context.Background(), "mavjud bo'lmagan mavzu", "uz")
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if reply.Intent != IntentNoMatch {
		t.Errorf("intent = %s, want no_match", reply.Intent)
	}
	if len(reply.Results) != 0 {
		t.Errorf("results = %+v, want none", reply.Results)
	}
}

func TestChatbotPropagatesSearchError(t *testing.T) {
	f := newChatbotFixture()
	f.search.SearchError = errors.New("db down")

	if _, err := f.svc.Reply(context.Background(), "mulk huquqi", "uz"); err == nil {
		t.Fatal("expected search error to propagate")
	}
}

func TestChatbotUnsupportedLocaleFallsBack(t *testing.T) {
	f := newChatbotFixture()

	reply, err := f.svc.Reply(context.Background(), "hello", "de")
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if want := chatbotTemplates["uz"][IntentGreeting]; reply.Message != want {
		t.Errorf("message = %q, want default-locale template %q", reply.Message, want)
	}
}
