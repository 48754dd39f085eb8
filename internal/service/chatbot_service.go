package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/legal-portal-api/internal/models"
)

// Chatbot intents, matched in order. Unmatched messages fall through to
// full-text search.
const (
	IntentGreeting = "greeting"
	IntentHelp     = "help"
	IntentThanks   = "thanks"
	IntentSearch   = "search"
	IntentNoMatch  = "no_match"
)

const chatbotResultLimit = 5

// \b is an ASCII word boundary in RE2 and never matches next to Cyrillic
// letters, so the intent patterns spell out their boundaries with \pL\pN.
var (
	greetingRegex = regexp.MustCompile(`(?i)^\s*(hi|hello|hey|salom|assalomu\s+alaykum|привет|здравствуйте|добрый\s+(день|вечер))([^\pL\pN]|$)`)
	helpRegex     = regexp.MustCompile(`(?i)(^|[^\pL\pN])(help|yordam|помощь|помогите|что\s+ты\s+умеешь|what\s+can\s+you\s+do)([^\pL\pN]|$)`)
	thanksRegex   = regexp.MustCompile(`(?i)(^|[^\pL\pN])(thanks|thank\s+you|rahmat|спасибо)([^\pL\pN]|$)`)
)

// chatbotTemplates holds the canned responses per locale. Locales without
// an entry fall back to the default locale.
var chatbotTemplates = map[string]map[string]string{
	models.LocaleUzbek: {
		IntentGreeting: "Assalomu alaykum! Qonun moddalari bo'yicha savolingizni yozing.",
		IntentHelp:     "Men qonun moddalari bo'yicha qidiruvga yordam beraman. Kalit so'zlarni yozing, men mos moddalarni topaman.",
		IntentThanks:   "Arzimaydi! Yana savollaringiz bo'lsa, yozing.",
		IntentSearch:   "So'rovingiz bo'yicha quyidagi moddalar topildi:",
		IntentNoMatch:  "Afsuski, so'rovingizga mos modda topilmadi. Boshqa kalit so'zlar bilan urinib ko'ring.",
	},
	models.LocaleRussian: {
		IntentGreeting: "Здравствуйте! Напишите ваш вопрос по статьям закона.",
		IntentHelp:     "Я помогаю искать статьи закона. Напишите ключевые слова, и я найду подходящие статьи.",
		IntentThanks:   "Пожалуйста! Обращайтесь, если будут ещё вопросы.",
		IntentSearch:   "По вашему запросу найдены следующие статьи:",
		IntentNoMatch:  "К сожалению, по вашему запросу ничего не найдено. Попробуйте другие ключевые слова.",
	},
	models.LocaleEnglish: {
		IntentGreeting: "Hello! Ask me anything about the articles of law.",
		IntentHelp:     "I help you search articles of law. Type a few keywords and I will find matching articles.",
		IntentThanks:   "You're welcome! Let me know if you have more questions.",
		IntentSearch:   "Here is what I found for your query:",
		IntentNoMatch:  "Sorry, I could not find anything for that. Try different keywords.",
	},
}

// chatbotService is the concrete implementation of ChatbotService
type chatbotService struct {
	search SearchService
	log    zerolog.Logger
}

func newChatbotService(search SearchService, log zerolog.Logger) *chatbotService {
	return &chatbotService{
		search: search,
		log:    log.With().Str("service", "chatbot").Logger(),
	}
}

// Reply matches the message against the known intents and falls back to
// full-text search over the articles
func (s *chatbotService) Reply(ctx context.Context, message, locale string) (*ChatbotReply, error) {
	if !models.SupportedLocales[locale] {
		locale = models.DefaultLocale
	}
	message = strings.TrimSpace(message)

	switch {
	case message == "":
		return s.canned(IntentHelp, locale), nil
	case greetingRegex.MatchString(message):
		return s.canned(IntentGreeting, locale), nil
	case helpRegex.MatchString(message):
		return s.canned(IntentHelp, locale), nil
	case thanksRegex.MatchString(message):
		return s.canned(IntentThanks, locale), nil
	}

	results, err := s.search.Search(ctx, message, locale, chatbotResultLimit)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return s.canned(IntentNoMatch, locale), nil
	}

	reply := s.canned(IntentSearch, locale)
	reply.Results = results
	return reply, nil
}

func (s *chatbotService) canned(intent, locale string) *ChatbotReply {
	templates, ok := chatbotTemplates[locale]
	if !ok {
		templates = chatbotTemplates[models.DefaultLocale]
	}
	return &ChatbotReply{Intent: intent, Message: templates[intent]}
}
