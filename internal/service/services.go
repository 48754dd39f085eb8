package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/legal-portal-api/internal/config"
	"github.com/legal-portal-api/internal/models"
	"github.com/legal-portal-api/internal/repository"
)

// RequestMeta carries per-request caller details into audit entries.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// RegisterInput is the payload for account creation
type RegisterInput struct {
	Email           string
	Name            string
	Password        string
	PreferredLocale string
}

// LoginInput is the payload for authentication
type LoginInput struct {
	Email         string
	Password      string
	TwoFactorCode string
	RecoveryCode  string
}

// LoginResult is the outcome of a successful (or 2FA-pending) login
type LoginResult struct {
	RequiresTwoFactor bool
	User              *models.User
	Token             string
}

// AuthService defines authentication operations
type AuthService interface {
	Register(ctx context.Context, input RegisterInput, meta RequestMeta) (*models.User, error)
	Login(ctx context.Context, input LoginInput, meta RequestMeta) (*LoginResult, error)
	Logout(ctx context.Context, user *models.User, meta RequestMeta) error
	ValidateToken(ctx context.Context, token string) (*models.User, error)
}

// ThrottleService defines the login-attempt rate limiting operations
type ThrottleService interface {
	RecordAttempt(ctx context.Context, ip, email string, successful bool)
	IsIPBlocked(ctx context.Context, ip string) (bool, error)
	IsEmailBlocked(ctx context.Context, email string) (bool, error)
	IPBlockRemainingSeconds(ctx context.Context, ip string) (int, error)
	EmailBlockRemainingSeconds(ctx context.Context, email string) (int, error)
	CleanOldAttempts(ctx context.Context) (int64, error)
	StartSweeper(ctx context.Context)
	StopSweeper()
}

// CommentInput is the payload for creating a comment
type CommentInput struct {
	Content  string
	ParentID *string
}

// LikeResult is the authoritative outcome of a like toggle
type LikeResult struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

// CommentService defines comment creation, moderation and likes
type CommentService interface {
	Create(ctx context.Context, articleID string, input CommentInput, author *models.User, meta RequestMeta) (*models.Comment, error)
	Update(ctx context.Context, commentID, newContent string, editor *models.User, meta RequestMeta) (*models.Comment, error)
	Approve(ctx context.Context, commentID string, moderator *models.User, meta RequestMeta) (*models.Comment, error)
	Reject(ctx context.Context, commentID string, moderator *models.User, meta RequestMeta) (*models.Comment, error)
	Delete(ctx context.Context, commentID string, actor *models.User, meta RequestMeta) error
	ToggleLike(ctx context.Context, commentID string, user *models.User) (*LikeResult, error)
	ListForArticle(ctx context.Context, articleID string, viewer *models.User) ([]*models.Comment, error)
	PendingQueue(ctx context.Context, limit, offset int) ([]*models.Comment, error)
}

// TwoFactorSetup is returned when a new secret is staged
type TwoFactorSetup struct {
	Secret    string `json:"secret"`
	QRCodeURL string `json:"qr_code_url"`
	QRCodeSVG string `json:"qr_code_svg"`
}

// TwoFactorStatus summarizes a user's 2FA state
type TwoFactorStatus struct {
	Enabled            bool `json:"enabled"`
	Required           bool `json:"required"`
	RecoveryCodesCount int  `json:"recovery_codes_count"`
}

// TwoFactorService defines the TOTP second factor operations
type TwoFactorService interface {
	GenerateSecret(ctx context.Context, user *models.User, meta RequestMeta) (*TwoFactorSetup, error)
	ConfirmSetup(ctx context.Context, user *models.User, code string, meta RequestMeta) ([]string, error)
	Disable(ctx context.Context, user *models.User, code string, meta RequestMeta) error
	Verify(user *models.User, code string) bool
	VerifyRecoveryCode(ctx context.Context, user *models.User, code string) (bool, error)
	RegenerateRecoveryCodes(ctx context.Context, user *models.User, code string, meta RequestMeta) ([]string, error)
	IsRequired(user *models.User) bool
	Status(user *models.User) TwoFactorStatus
}

// TranslationInput is one locale's text for a content entity
type TranslationInput struct {
	Locale      string
	Title       string
	Content     string
	Description string
}

// SectionInput creates or updates a section
type SectionInput struct {
	Position     int
	IsActive     bool
	Translations []TranslationInput
}

// ChapterInput creates or updates a chapter
type ChapterInput struct {
	SectionID    string
	Position     int
	IsActive     bool
	Translations []TranslationInput
}

// ArticleInput creates or updates an article
type ArticleInput struct {
	ChapterID    string
	Position     int
	IsActive     bool
	Translations []TranslationInput
}

// ArticleView is an article resolved to a single locale
type ArticleView struct {
	ID                string                   `json:"id"`
	ChapterID         string                   `json:"chapter_id"`
	Position          int                      `json:"position"`
	IsActive          bool                     `json:"is_active"`
	TranslationStatus models.TranslationStatus `json:"translation_status"`
	Locale            string                   `json:"locale"`
	Title             string                   `json:"title"`
	Content           string                   `json:"content"`
	Description       string                   `json:"description,omitempty"`
}

// ContentService defines the law hierarchy operations
type ContentService interface {
	CreateSection(ctx context.Context, input SectionInput, actor *models.User, meta RequestMeta) (*models.Section, error)
	CreateChapter(ctx context.Context, input ChapterInput, actor *models.User, meta RequestMeta) (*models.Chapter, error)
	CreateArticle(ctx context.Context, input ArticleInput, actor *models.User, meta RequestMeta) (*models.Article, error)
	UpdateArticle(ctx context.Context, id string, input ArticleInput, actor *models.User, meta RequestMeta) (*models.Article, error)
	GetArticle(ctx context.Context, id, locale string) (*ArticleView, error)
	GetSectionTree(ctx context.Context, locale string, staffViewer bool) ([]*SectionView, error)
	SetActive(ctx context.Context, entityType, id string, active bool, actor *models.User, meta RequestMeta) error
	Delete(ctx context.Context, entityType, id string, actor *models.User, meta RequestMeta) error
	SubmitTranslation(ctx context.Context, articleID string, actor *models.User, meta RequestMeta) error
	ApproveTranslation(ctx context.Context, articleID string, actor *models.User, meta RequestMeta) error
}

// SectionView is a locale-resolved slice of the hierarchy
type SectionView struct {
	ID       string         `json:"id"`
	Position int            `json:"position"`
	IsActive bool           `json:"is_active"`
	Title    string         `json:"title"`
	Chapters []*ChapterView `json:"chapters,omitempty"`
}

// ChapterView is a locale-resolved chapter
type ChapterView struct {
	ID       string             `json:"id"`
	Position int                `json:"position"`
	IsActive bool               `json:"is_active"`
	Title    string             `json:"title"`
	Articles []*ArticleListItem `json:"articles,omitempty"`
}

// ArticleListItem is a locale-resolved article summary
type ArticleListItem struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
	IsActive bool   `json:"is_active"`
	Title    string `json:"title"`
}

// SearchService defines keyword search over articles
type SearchService interface {
	Search(ctx context.Context, query, locale string, limit int) ([]repository.SearchResult, error)
}

// ChatbotReply is a canned response, optionally carrying search hits
type ChatbotReply struct {
	Intent  string                    `json:"intent"`
	Message string                    `json:"message"`
	Results []repository.SearchResult `json:"results,omitempty"`
}

// ChatbotService defines the keyword chatbot
type ChatbotService interface {
	Reply(ctx context.Context, message, locale string) (*ChatbotReply, error)
}

// ActivityService defines audit trail writes and admin reads
type ActivityService interface {
	Record(ctx context.Context, userID *string, action, modelType, modelID string, oldValues, newValues interface{}, description string, meta RequestMeta)
	Recent(ctx context.Context, limit, offset int) ([]*models.ActivityLog, error)
	ByUser(ctx context.Context, userID string, limit, offset int) ([]*models.ActivityLog, error)
}

// StatsService defines read-only analytics
type StatsService interface {
	Overview(ctx context.Context) (*repository.OverviewStats, error)
	CommentsPerDay(ctx context.Context, days int) ([]repository.DailyCount, error)
	TopCommentedArticles(ctx context.Context, locale string, limit int) ([]repository.ArticleCommentCount, error)
}

// Services holds all service interfaces
type Services struct {
	Auth      AuthService
	Throttle  ThrottleService
	Comment   CommentService
	TwoFactor TwoFactorService
	Content   ContentService
	Search    SearchService
	Chatbot   ChatbotService
	Activity  ActivityService
	Stats     StatsService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) (*Services, error) {
	activitySvc := newActivityService(repos.Activity, log)
	throttleSvc := newThrottleService(repos.LoginAttempt, log)
	twoFactorSvc, err := newTwoFactorService(repos.User, activitySvc, &cfg.TwoFactor, log)
	if err != nil {
		return nil, err
	}
	authSvc := newAuthService(repos.User, repos.Token, throttleSvc, twoFactorSvc, activitySvc, &cfg.Auth, log)
	commentSvc := newCommentService(repos.Comment, repos.Content, activitySvc, log)
	contentSvc := newContentService(repos.Content, activitySvc, log)
	searchSvc := newSearchService(repos.Search, log)
	chatbotSvc := newChatbotService(searchSvc, log)
	statsSvc := newStatsService(repos.Stats, log)

	return &Services{
		Auth:      authSvc,
		Throttle:  throttleSvc,
		Comment:   commentSvc,
		TwoFactor: twoFactorSvc,
		Content:   contentSvc,
		Search:    searchSvc,
		Chatbot:   chatbotSvc,
		Activity:  activitySvc,
		Stats:     statsSvc,
	}, nil
}
