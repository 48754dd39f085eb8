package repository

import (
	"context"
	"time"

	"github.com/legal-portal-api/internal/database"
	"github.com/legal-portal-api/internal/models"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *models.User) error
	UpdateTwoFactor(ctx context.Context, userID string, secret, recoveryCodes *string, confirmedAt *time.Time) error
	Count(ctx context.Context) (int, error)
}

// TokenRepository defines the interface for personal access tokens
type TokenRepository interface {
	Create(ctx context.Context, userID, name string, expiresAt time.Time) (string, error)
	FindUserByToken(ctx context.Context, token string) (*models.User, error)
	DeleteUserTokens(ctx context.Context, userID string) error
}

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	SoftDelete(ctx context.Context, id string) error
	ListByArticle(ctx context.Context, articleID string, approvedOnly bool) ([]*models.Comment, error)
	ListByStatus(ctx context.Context, status models.CommentStatus, limit, offset int) ([]*models.Comment, error)
	HasLike(ctx context.Context, commentID, userID string) (bool, error)
	AddLike(ctx context.Context, commentID, userID string) (int, error)
	RemoveLike(ctx context.Context, commentID, userID string) (int, error)
	CountByStatus(ctx context.Context) (map[models.CommentStatus]int, error)
}

// ContentRepository defines the interface for the section/chapter/article
// hierarchy and its translations
type ContentRepository interface {
	CreateSection(ctx context.Context, section *models.Section) error
	CreateChapter(ctx context.Context, chapter *models.Chapter) error
	CreateArticle(ctx context.Context, article *models.Article) error
	UpdateArticle(ctx context.Context, article *models.Article) error
	GetSection(ctx context.Context, id string) (*models.Section, error)
	GetArticle(ctx context.Context, id string) (*models.Article, error)
	GetSectionTree(ctx context.Context, activeOnly bool) ([]*models.Section, error)
	SetActive(ctx context.Context, entityType, id string, active bool) error
	SetTranslationStatus(ctx context.Context, articleID string, status models.TranslationStatus, submittedBy *string, submittedAt *time.Time) error
	SoftDelete(ctx context.Context, entityType, id string) error
	ArticleExists(ctx context.Context, id string) (bool, error)
}

// SearchResult is a ranked article hit from full-text search
type SearchResult struct {
	ArticleID string  `json:"article_id"`
	Locale    string  `json:"locale"`
	Title     string  `json:"title"`
	Snippet   string  `json:"snippet"`
	Rank      float64 `json:"rank"`
}

// SearchRepository defines the interface for full-text search, delegated
// to the database engine
type SearchRepository interface {
	SearchArticles(ctx context.Context, query, locale string, limit int) ([]SearchResult, error)
}

// LoginAttemptRepository defines the interface for login throttle storage
type LoginAttemptRepository interface {
	Create(ctx context.Context, attempt *models.LoginAttempt) error
	FailedTimesByIP(ctx context.Context, ip string, since time.Time) ([]time.Time, error)
	FailedTimesByEmail(ctx context.Context, email string, since time.Time) ([]time.Time, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// ActivityLogRepository defines the interface for the append-only audit
// trail. There is deliberately no update or delete.
type ActivityLogRepository interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
	ListRecent(ctx context.Context, limit, offset int) ([]*models.ActivityLog, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.ActivityLog, error)
}

// OverviewStats aggregates portal-wide counts for the admin dashboard
type OverviewStats struct {
	Users            int                          `json:"users"`
	ActiveUsers      int                          `json:"active_users"`
	Sections         int                          `json:"sections"`
	Chapters         int                          `json:"chapters"`
	Articles         int                          `json:"articles"`
	CommentsByStatus map[models.CommentStatus]int `json:"comments_by_status"`
	LoginFailures24h int                          `json:"login_failures_24h"`
}

// DailyCount is a per-day aggregate row
type DailyCount struct {
	Day   time.Time `json:"day"`
	Count int       `json:"count"`
}

// ArticleCommentCount ranks articles by comment volume
type ArticleCommentCount struct {
	ArticleID string `json:"article_id"`
	Title     string `json:"title"`
	Comments  int    `json:"comments"`
}

// StatsRepository defines the interface for read-only analytics aggregates
type StatsRepository interface {
	Overview(ctx context.Context) (*OverviewStats, error)
	CommentsPerDay(ctx context.Context, days int) ([]DailyCount, error)
	TopCommentedArticles(ctx context.Context, locale string, limit int) ([]ArticleCommentCount, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	User         UserRepository
	Token        TokenRepository
	Comment      CommentRepository
	Content      ContentRepository
	Search       SearchRepository
	LoginAttempt LoginAttemptRepository
	Activity     ActivityLogRepository
	Stats        StatsRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepo(db),
		Token:        NewTokenRepo(db),
		Comment:      NewCommentRepo(db),
		Content:      NewContentRepo(db),
		Search:       NewSearchRepo(db),
		LoginAttempt: NewLoginAttemptRepo(db),
		Activity:     NewActivityLogRepo(db),
		Stats:        NewStatsRepo(db),
	}
}
