package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/legal-portal-api/internal/mocks"
	"github.com/legal-portal-api/internal/models"
)

type commentFixture struct {
	svc      *commentService
	comments *mocks.MockCommentRepository
	content  *mocks.MockContentRepository
	activity *mocks.MockActivityLogRepository
}

func newCommentFixture() *commentFixture {
	comments := mocks.NewMockCommentRepository()
	content := mocks.NewMockContentRepository()
	activity := mocks.NewMockActivityLogRepository()
	activitySvc := newActivityService(activity, zerolog.Nop())
	return &commentFixture{
		svc:      newCommentService(comments, content, activitySvc, zerolog.Nop()),
		comments: comments,
		content:  content,
		activity: activity,
	}
}

func (f *commentFixture) addArticle(id string) {
	f.content.Articles[id] = &models.Article{ID: id, IsActive: true}
}

var noMeta = RequestMeta{IP: "127.0.0.1", UserAgent: "test"}

func normalUser(id string) *models.User {
	return &models.User{ID: id, Role: models.RoleUser, Active: true}
}

func moderatorUser(id string) *models.User {
	return &models.User{ID: id, Role: models.RoleModerator, Active: true}
}

func TestCreateCommentSanitizesAndStartsPending(t *testing.T) {
	f := newCommentFixture()
	f.addArticle("a1")

	comment, err := f.svc.Create(context.Background(), "a1",
		CommentInput{Content: "<script>alert(1)</script>Hello"}, normalUser("u1"), noMeta)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if comment.Content != "Hello" {
		t.Errorf("content = %q, want %q", comment.Content, "Hello")
	}
	if comment.Status != models.CommentStatusPending {
		t.Errorf("status = %s, want pending", comment.Status)
	}
	if entry := f.activity.LastEntry(); entry == nil || entry.Action != models.ActionCreate {
		t.Error("expected a create audit entry")
	}
}

func TestCreateCommentStaffApproved(t *testing.T) {
	f := newCommentFixture()
	f.addArticle("a1")

	comment, err := f.svc.Create(context.Background(), "a1",
		CommentInput{Content: "BUY NOW!!! www.x.com www.y.com www.z.com"}, moderatorUser("m1"), noMeta)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if comment.Status != models.CommentStatusApproved {
		t.Errorf("staff comment status = %s, want approved", comment.Status)
	}
}

func TestCreateCommentUnknownArticle(t *testing.T) {
	f := newCommentFixture()

	_, err := f.svc.Create(context.Background(), "missing",
		CommentInput{Content: "valid comment here"}, normalUser("u1"), noMeta)
	if err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCreateCommentInvalidParent(t *testing.T) {
	f := newCommentFixture()
	f.addArticle("a1")
	f.addArticle("a2")
	f.comments.Comments["p1"] = &models.Comment{ID: "p1", ArticleID: "a2", Status: models.CommentStatusApproved}

	parentID := "p1"
	_, err := f.svc.Create(context.Background(), "a1",
		CommentInput{Content: "reply to wrong article", ParentID: &parentID}, normalUser("u1"), noMeta)
	if err != ErrInvalidParent {
		t.Errorf("cross-article parent: err = %v, want ErrInvalidParent", err)
	}

	missing := "nope"
	_, err = f.svc.Create(context.Background(), "a1",
		CommentInput{Content: "reply to nothing at all", ParentID: &missing}, normalUser("u1"), noMeta)
	if err != ErrInvalidParent {
		t.Errorf("missing parent: err = %v, want ErrInvalidParent", err)
	}
}

func TestCreateCommentFlagsRecordedInAudit(t *testing.T) {
	f := newCommentFixture()
	f.addArticle("a1")

	_, err := f.svc.Create(context.Background(), "a1",
		CommentInput{Content: "this is spam content for sure"}, normalUser("u1"), noMeta)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	entry := f.activity.LastEntry()
	if entry == nil {
		t.Fatal("expected an audit entry")
	}
	if !strings.Contains(entry.Description, "flagged") {
		t.Errorf("description %q should mention flags", entry.Description)
	}
}

func TestUpdateApprovedCommentResetsStatusForAuthor(t *testing.T) {
	f := newCommentFixture()
	author := normalUser("u1")
	f.comments.Comments["c1"] = &models.Comment{
		ID: "c1", ArticleID: "a1", UserID: "u1",
		Content: "original text here", Status: models.CommentStatusApproved,
	}

	updated, err := f.svc.Update(context.Background(), "c1", "edited text goes here", author, noMeta)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != models.CommentStatusPending {
		t.Errorf("status after author edit = %s, want pending", updated.Status)
	}
}

func TestUpdateApprovedCommentKeepsStatusForStaff(t *testing.T) {
	f := newCommentFixture()
	f.comments.Comments["c1"] = &models.Comment{
		ID: "c1", ArticleID: "a1", UserID: "u1",
		Content: "original text here", Status: models.CommentStatusApproved,
	}

	updated, err := f.svc.Update(context.Background(), "c1", "staff fixed a typo here", moderatorUser("m1"), noMeta)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != models.CommentStatusApproved {
		t.Errorf("status after staff edit = %s, want approved", updated.Status)
	}
}

func TestUpdateForbiddenForOtherUsers(t *testing.T) {
	f := newCommentFixture()
	f.comments.Comments["c1"] = &models.Comment{ID: "c1", UserID: "u1", Status: models.CommentStatusPending}

	_, err := f.svc.Update(context.Background(), "c1", "someone else's edit", normalUser("u2"), noMeta)
	if err != ErrForbidden {
		t.Errorf("err = %v, want ErrForbidden", err)
	}
}

func TestModerationTransitions(t *testing.T) {
	f := newCommentFixture()
	mod := moderatorUser("m1")
	f.comments.Comments["c1"] = &models.Comment{ID: "c1", Status: models.CommentStatusPending}

	approved, err := f.svc.Approve(context.Background(), "c1", mod, noMeta)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if approved.Status != models.CommentStatusApproved {
		t.Errorf("status = %s, want approved", approved.Status)
	}
	if approved.ModeratedBy == nil || *approved.ModeratedBy != "m1" {
		t.Error("moderated_by not set")
	}
	if approved.ModeratedAt == nil || time.Since(*approved.ModeratedAt) > time.Minute {
		t.Error("moderated_at not set")
	}

	before := len(f.activity.Entries)
	// Re-approving is idempotent in effect but still logs.
	if _, err := f.svc.Approve(context.Background(), "c1", mod, noMeta); err != nil {
		t.Fatalf("second Approve: %v", err)
	}
	if len(f.activity.Entries) != before+1 {
		t.Error("repeated approval must still write an audit entry")
	}

	rejected, err := f.svc.Reject(context.Background(), "c1", mod, noMeta)
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if rejected.Status != models.CommentStatusRejected {
		t.Errorf("status = %s, want rejected", rejected.Status)
	}
}

func TestModerationRequiresCapability(t *testing.T) {
	f := newCommentFixture()
	f.comments.Comments["c1"] = &models.Comment{ID: "c1", Status: models.CommentStatusPending}

	_, err := f.svc.Approve(context.Background(), "c1", normalUser("u1"), noMeta)
	if err != ErrForbidden {
		t.Errorf("err = %v, want ErrForbidden", err)
	}
}

func TestToggleLikeSequence(t *testing.T) {
	f := newCommentFixture()
	user := normalUser("u1")
	f.comments.Comments["c1"] = &models.Comment{ID: "c1", Status: models.CommentStatusApproved}

	first, err := f.svc.ToggleLike(context.Background(), "c1", user)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !first.Liked || first.LikesCount != 1 {
		t.Errorf("first toggle = {%v %d}, want {true 1}", first.Liked, first.LikesCount)
	}

	second, err := f.svc.ToggleLike(context.Background(), "c1", user)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if second.Liked || second.LikesCount != 0 {
		t.Errorf("second toggle = {%v %d}, want {false 0}", second.Liked, second.LikesCount)
	}
}

func TestListForArticleFiltersByViewer(t *testing.T) {
	f := newCommentFixture()
	f.comments.Comments["c1"] = &models.Comment{ID: "c1", ArticleID: "a1", Status: models.CommentStatusApproved, CreatedAt: time.Now()}
	f.comments.Comments["c2"] = &models.Comment{ID: "c2", ArticleID: "a1", Status: models.CommentStatusPending, CreatedAt: time.Now().Add(time.Second)}

	public, err := f.svc.ListForArticle(context.Background(), "a1", nil)
	if err != nil {
		t.Fatalf("ListForArticle: %v", err)
	}
	if len(public) != 1 {
		t.Errorf("anonymous viewer sees %d comments, want 1", len(public))
	}

	staff, _ := f.svc.ListForArticle(context.Background(), "a1", moderatorUser("m1"))
	if len(staff) != 2 {
		t.Errorf("staff viewer sees %d comments, want 2", len(staff))
	}
}

func TestDeleteCommentSoftDeletes(t *testing.T) {
	f := newCommentFixture()
	f.comments.Comments["c1"] = &models.Comment{ID: "c1", UserID: "u1", Status: models.CommentStatusApproved}

	if err := f.svc.Delete(context.Background(), "c1", normalUser("u1"), noMeta); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if f.comments.Comments["c1"].DeletedAt == nil {
		t.Error("expected soft delete tombstone")
	}

	if err := f.svc.Delete(context.Background(), "c1", normalUser("u1"), noMeta); err != ErrNotFound {
		t.Errorf("deleting a deleted comment: err = %v, want ErrNotFound", err)
	}
}
