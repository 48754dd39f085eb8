package mocks

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/legal-portal-api/internal/models"
	"github.com/legal-portal-api/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	Users       map[string]*models.User
	EmailToUser map[string]*models.User
	CreateError error
	UpdateError error
	GetError    error
}

var _ repository.UserRepository = (*MockUserRepository)(nil)

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users:       make(map[string]*models.User),
		EmailToUser: make(map[string]*models.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.Users[user.ID] = user
	m.EmailToUser[strings.ToLower(user.Email)] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	return m.Users[id], nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	return m.EmailToUser[strings.ToLower(email)], nil
}

func (m *MockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	_, exists := m.EmailToUser[strings.ToLower(email)]
	return exists, nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.Users[user.ID] = user
	m.EmailToUser[strings.ToLower(user.Email)] = user
	return nil
}

func (m *MockUserRepository) UpdateTwoFactor(ctx context.Context, userID string, secret, recoveryCodes *string, confirmedAt *time.Time) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	user, ok := m.Users[userID]
	if !ok {
		return fmt.Errorf("user %s not found", userID)
	}
	user.TwoFactorSecret = secret
	user.RecoveryCodes = recoveryCodes
	user.TwoFactorConfirmedAt = confirmedAt
	return nil
}

func (m *MockUserRepository) Count(ctx context.Context) (int, error) {
	return len(m.Users), nil
}

// MockTokenRepository is a mock implementation of TokenRepository
type MockTokenRepository struct {
	TokensByHash map[string]string // token hash -> user id
	Users        *MockUserRepository
	CreateError  error
	nextID       int
}

var _ repository.TokenRepository = (*MockTokenRepository)(nil)

func NewMockTokenRepository(users *MockUserRepository) *MockTokenRepository {
	return &MockTokenRepository{
		TokensByHash: make(map[string]string),
		Users:        users,
	}
}

func (m *MockTokenRepository) Create(ctx context.Context, userID, name string, expiresAt time.Time) (string, error) {
	if m.CreateError != nil {
		return "", m.CreateError
	}
	m.nextID++
	plain := fmt.Sprintf("mocktoken%d", m.nextID)
	sum := sha256.Sum256([]byte(plain))
	m.TokensByHash[hex.EncodeToString(sum[:])] = userID
	return fmt.Sprintf("%d|%s", m.nextID, plain), nil
}

func (m *MockTokenRepository) FindUserByToken(ctx context.Context, token string) (*models.User, error) {
	_, plain, ok := strings.Cut(token, "|")
	if !ok {
		return nil, nil
	}
	sum := sha256.Sum256([]byte(plain))
	userID, ok := m.TokensByHash[hex.EncodeToString(sum[:])]
	if !ok {
		return nil, nil
	}
	return m.Users.Users[userID], nil
}

func (m *MockTokenRepository) DeleteUserTokens(ctx context.Context, userID string) error {
	for hash, uid := range m.TokensByHash {
		if uid == userID {
			delete(m.TokensByHash, hash)
		}
	}
	return nil
}

// MockCommentRepository is a mock implementation of CommentRepository
type MockCommentRepository struct {
	Comments    map[string]*models.Comment
	Likes       map[string]bool // "commentID:userID"
	CreateError error
	UpdateError error
	LikeError   error
}

var _ repository.CommentRepository = (*MockCommentRepository)(nil)

func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{
		Comments: make(map[string]*models.Comment),
		Likes:    make(map[string]bool),
	}
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.Comments[comment.ID] = comment
	return nil
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	comment, ok := m.Comments[id]
	if !ok || comment.DeletedAt != nil {
		return nil, nil
	}
	return comment, nil
}

func (m *MockCommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.Comments[comment.ID] = comment
	return nil
}

func (m *MockCommentRepository) SoftDelete(ctx context.Context, id string) error {
	if comment, ok := m.Comments[id]; ok {
		now := time.Now()
		comment.DeletedAt = &now
	}
	return nil
}

func (m *MockCommentRepository) ListByArticle(ctx context.Context, articleID string, approvedOnly bool) ([]*models.Comment, error) {
	var out []*models.Comment
	for _, c := range m.Comments {
		if c.ArticleID != articleID || c.DeletedAt != nil {
			continue
		}
		if approvedOnly && c.Status != models.CommentStatusApproved {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MockCommentRepository) ListByStatus(ctx context.Context, status models.CommentStatus, limit, offset int) ([]*models.Comment, error) {
	var out []*models.Comment
	for _, c := range m.Comments {
		if c.Status == status && c.DeletedAt == nil {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MockCommentRepository) HasLike(ctx context.Context, commentID, userID string) (bool, error) {
	return m.Likes[commentID+":"+userID], nil
}

func (m *MockCommentRepository) AddLike(ctx context.Context, commentID, userID string) (int, error) {
	if m.LikeError != nil {
		return 0, m.LikeError
	}
	m.Likes[commentID+":"+userID] = true
	comment := m.Comments[commentID]
	comment.LikesCount++
	return comment.LikesCount, nil
}

func (m *MockCommentRepository) RemoveLike(ctx context.Context, commentID, userID string) (int, error) {
	if m.LikeError != nil {
		return 0, m.LikeError
	}
	delete(m.Likes, commentID+":"+userID)
	comment := m.Comments[commentID]
	if comment.LikesCount > 0 {
		comment.LikesCount--
	}
	return comment.LikesCount, nil
}

func (m *MockCommentRepository) CountByStatus(ctx context.Context) (map[models.CommentStatus]int, error) {
	counts := make(map[models.CommentStatus]int)
	for _, c := range m.Comments {
		if c.DeletedAt == nil {
			counts[c.Status]++
		}
	}
	return counts, nil
}

// MockContentRepository is a mock implementation of ContentRepository
type MockContentRepository struct {
	Sections    map[string]*models.Section
	Chapters    map[string]*models.Chapter
	Articles    map[string]*models.Article
	CreateError error
	UpdateError error
}

var _ repository.ContentRepository = (*MockContentRepository)(nil)

func NewMockContentRepository() *MockContentRepository {
	return &MockContentRepository{
		Sections: make(map[string]*models.Section),
		Chapters: make(map[string]*models.Chapter),
		Articles: make(map[string]*models.Article),
	}
}

func (m *MockContentRepository) CreateSection(ctx context.Context, section *models.Section) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.Sections[section.ID] = section
	return nil
}

func (m *MockContentRepository) CreateChapter(ctx context.Context, chapter *models.Chapter) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.Chapters[chapter.ID] = chapter
	return nil
}

func (m *MockContentRepository) CreateArticle(ctx context.Context, article *models.Article) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.Articles[article.ID] = article
	return nil
}

func (m *MockContentRepository) UpdateArticle(ctx context.Context, article *models.Article) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.Articles[article.ID] = article
	return nil
}

func (m *MockContentRepository) GetSection(ctx context.Context, id string) (*models.Section, error) {
	section, ok := m.Sections[id]
	if !ok || section.DeletedAt != nil {
		return nil, nil
	}
	return section, nil
}

func (m *MockContentRepository) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	article, ok := m.Articles[id]
	if !ok || article.DeletedAt != nil {
		return nil, nil
	}
	return article, nil
}

func (m *MockContentRepository) GetSectionTree(ctx context.Context, activeOnly bool) ([]*models.Section, error) {
	var sections []*models.Section
	for _, s := range m.Sections {
		if s.DeletedAt != nil || (activeOnly && !s.IsActive) {
			continue
		}
		sections = append(sections, s)
	}
	sort.Slice(sections, func(i, j int) bool { return sections[i].Position < sections[j].Position })
	return sections, nil
}

func (m *MockContentRepository) SetActive(ctx context.Context, entityType, id string, active bool) error {
	switch entityType {
	case models.EntitySection:
		if s, ok := m.Sections[id]; ok {
			s.IsActive = active
		}
	case models.EntityChapter:
		if c, ok := m.Chapters[id]; ok {
			c.IsActive = active
		}
	case models.EntityArticle:
		if a, ok := m.Articles[id]; ok {
			a.IsActive = active
		}
	}
	return nil
}

func (m *MockContentRepository) SetTranslationStatus(ctx context.Context, articleID string, status models.TranslationStatus, submittedBy *string, submittedAt *time.Time) error {
	article, ok := m.Articles[articleID]
	if !ok {
		return fmt.Errorf("article %s not found", articleID)
	}
	article.TranslationStatus = status
	article.SubmittedBy = submittedBy
	article.SubmittedAt = submittedAt
	return nil
}

func (m *MockContentRepository) SoftDelete(ctx context.Context, entityType, id string) error {
	now := time.Now()
	switch entityType {
	case models.EntitySection:
		if s, ok := m.Sections[id]; ok {
			s.DeletedAt = &now
		}
	case models.EntityChapter:
		if c, ok := m.Chapters[id]; ok {
			c.DeletedAt = &now
		}
	case models.EntityArticle:
		if a, ok := m.Articles[id]; ok {
			a.DeletedAt = &now
		}
	}
	return nil
}

func (m *MockContentRepository) ArticleExists(ctx context.Context, id string) (bool, error) {
	article, ok := m.Articles[id]
	return ok && article.DeletedAt == nil, nil
}

// MockSearchRepository is a mock implementation of SearchRepository
type MockSearchRepository struct {
	Results     []repository.SearchResult
	SearchError error
	LastQuery   string
	LastLocale  string
}

var _ repository.SearchRepository = (*MockSearchRepository)(nil)

func NewMockSearchRepository() *MockSearchRepository {
	return &MockSearchRepository{}
}

func (m *MockSearchRepository) SearchArticles(ctx context.Context, query, locale string, limit int) ([]repository.SearchResult, error) {
	m.LastQuery = query
	m.LastLocale = locale
	if m.SearchError != nil {
		return nil, m.SearchError
	}
	if limit > 0 && limit < len(m.Results) {
		return m.Results[:limit], nil
	}
	return m.Results, nil
}

// MockLoginAttemptRepository is a mock implementation of LoginAttemptRepository
type MockLoginAttemptRepository struct {
	Attempts    []*models.LoginAttempt
	CreateError error
	QueryError  error
}

var _ repository.LoginAttemptRepository = (*MockLoginAttemptRepository)(nil)

func NewMockLoginAttemptRepository() *MockLoginAttemptRepository {
	return &MockLoginAttemptRepository{}
}

func (m *MockLoginAttemptRepository) Create(ctx context.Context, attempt *models.LoginAttempt) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.Attempts = append(m.Attempts, attempt)
	return nil
}

func (m *MockLoginAttemptRepository) FailedTimesByIP(ctx context.Context, ip string, since time.Time) ([]time.Time, error) {
	if m.QueryError != nil {
		return nil, m.QueryError
	}
	return m.failedTimes(func(a *models.LoginAttempt) bool { return a.IPAddress == ip }, since), nil
}

func (m *MockLoginAttemptRepository) FailedTimesByEmail(ctx context.Context, email string, since time.Time) ([]time.Time, error) {
	if m.QueryError != nil {
		return nil, m.QueryError
	}
	return m.failedTimes(func(a *models.LoginAttempt) bool {
		return strings.EqualFold(a.Email, email)
	}, since), nil
}

func (m *MockLoginAttemptRepository) failedTimes(match func(*models.LoginAttempt) bool, since time.Time) []time.Time {
	var times []time.Time
	for _, a := range m.Attempts {
		if !a.Successful && match(a) && !a.AttemptedAt.Before(since) {
			times = append(times, a.AttemptedAt)
		}
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	return times
}

func (m *MockLoginAttemptRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var kept []*models.LoginAttempt
	var deleted int64
	for _, a := range m.Attempts {
		if a.AttemptedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, a)
	}
	m.Attempts = kept
	return deleted, nil
}

// MockActivityLogRepository is a mock implementation of ActivityLogRepository
type MockActivityLogRepository struct {
	Entries     []*models.ActivityLog
	CreateError error
}

var _ repository.ActivityLogRepository = (*MockActivityLogRepository)(nil)

func NewMockActivityLogRepository() *MockActivityLogRepository {
	return &MockActivityLogRepository{}
}

func (m *MockActivityLogRepository) Create(ctx context.Context, entry *models.ActivityLog) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.Entries = append(m.Entries, entry)
	return nil
}

func (m *MockActivityLogRepository) ListRecent(ctx context.Context, limit, offset int) ([]*models.ActivityLog, error) {
	if offset >= len(m.Entries) {
		return nil, nil
	}
	end := offset + limit
	if end > len(m.Entries) {
		end = len(m.Entries)
	}
	return m.Entries[offset:end], nil
}

func (m *MockActivityLogRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.ActivityLog, error) {
	var out []*models.ActivityLog
	for _, e := range m.Entries {
		if e.UserID != nil && *e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

// LastEntry returns the most recently recorded entry, or nil
func (m *MockActivityLogRepository) LastEntry() *models.ActivityLog {
	if len(m.Entries) == 0 {
		return nil
	}
	return m.Entries[len(m.Entries)-1]
}

// MockStatsRepository is a mock implementation of StatsRepository
type MockStatsRepository struct {
	OverviewResult *repository.OverviewStats
	Daily          []repository.DailyCount
	Top            []repository.ArticleCommentCount
	Error          error
}

var _ repository.StatsRepository = (*MockStatsRepository)(nil)

func NewMockStatsRepository() *MockStatsRepository {
	return &MockStatsRepository{}
}

func (m *MockStatsRepository) Overview(ctx context.Context) (*repository.OverviewStats, error) {
	if m.Error != nil {
		return nil, m.Error
	}
	if m.OverviewResult != nil {
		return m.OverviewResult, nil
	}
	return &repository.OverviewStats{CommentsByStatus: map[models.CommentStatus]int{}}, nil
}

func (m *MockStatsRepository) CommentsPerDay(ctx context.Context, days int) ([]repository.DailyCount, error) {
	return m.Daily, m.Error
}

func (m *MockStatsRepository) TopCommentedArticles(ctx context.Context, locale string, limit int) ([]repository.ArticleCommentCount, error) {
	return m.Top, m.Error
}

// NewMockRepositories wires all mocks into a Repositories bundle
func NewMockRepositories() *repository.Repositories {
	users := NewMockUserRepository()
	return &repository.Repositories{
		User:         users,
		Token:        NewMockTokenRepository(users),
		Comment:      NewMockCommentRepository(),
		Content:      NewMockContentRepository(),
		Search:       NewMockSearchRepository(),
		LoginAttempt: NewMockLoginAttemptRepository(),
		Activity:     NewMockActivityLogRepository(),
		Stats:        NewMockStatsRepository(),
	}
}
