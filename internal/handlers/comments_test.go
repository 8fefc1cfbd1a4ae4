package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/sharathkodoth/backend-project/internal/models"
	"github.com/sharathkodoth/backend-project/internal/repositories"
)

type fakeCommentStore struct {
	comments map[string]models.Comment
	views    []models.CommentView
	total    int64

	updatedContent string
	deletedID      string
}

func newFakeCommentStore() *fakeCommentStore {
	return &fakeCommentStore{comments: make(map[string]models.Comment)}
}

func (s *fakeCommentStore) Create(_ context.Context, comment models.Comment) error {
	s.comments[comment.ID] = comment
	return nil
}

func (s *fakeCommentStore) FindByID(_ context.Context, id string) (models.Comment, error) {
	comment, ok := s.comments[id]
	if !ok {
		return models.Comment{}, repositories.ErrNotFound
	}
	return comment, nil
}

func (s *fakeCommentStore) UpdateContent(_ context.Context, id, content string) error {
	if _, ok := s.comments[id]; !ok {
		return repositories.ErrNotFound
	}
	s.updatedContent = content
	return nil
}

func (s *fakeCommentStore) Delete(_ context.Context, id string) error {
	if _, ok := s.comments[id]; !ok {
		return repositories.ErrNotFound
	}
	s.deletedID = id
	delete(s.comments, id)
	return nil
}

func (s *fakeCommentStore) ListForVideo(_ context.Context, _ string, _, _ int) ([]models.CommentView, error) {
	return s.views, nil
}

func (s *fakeCommentStore) CountForVideo(_ context.Context, _ string) (int64, error) {
	return s.total, nil
}

type fakeTargetCheckerMap map[string]bool

func (c fakeTargetCheckerMap) TargetExists(_ context.Context, targetID string, _ models.RelationKind) (bool, error) {
	return c[targetID], nil
}

func TestCommentHandlerList(t *testing.T) {
	videoID := uuid.NewString()
	store := newFakeCommentStore()
	store.views = []models.CommentView{{Comment: models.Comment{ID: "comment-1", Content: "nice"}, LikeCount: 2}}
	store.total = 14
	handler := CommentHandler{Comments: store, Targets: fakeTargetCheckerMap{videoID: true}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos/"+videoID+"/comments", nil)
	req.SetPathValue("videoId", videoID)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp struct {
		Comments      []models.CommentView `json:"comments"`
		TotalComments int64                `json:"totalComments"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Comments) != 1 || resp.Comments[0].LikeCount != 2 {
		t.Fatalf("unexpected comments %+v", resp.Comments)
	}
	if resp.TotalComments != 14 {
		t.Fatalf("expected total 14, got %d", resp.TotalComments)
	}
}

func TestCommentHandlerListMissingVideo(t *testing.T) {
	videoID := uuid.NewString()
	handler := CommentHandler{Comments: newFakeCommentStore(), Targets: fakeTargetCheckerMap{}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos/"+videoID+"/comments", nil)
	req.SetPathValue("videoId", videoID)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d got %d", http.StatusNotFound, rec.Code)
	}
}

func TestCommentHandlerCreate(t *testing.T) {
	videoID := uuid.NewString()
	store := newFakeCommentStore()
	handler := CommentHandler{Comments: store, Targets: fakeTargetCheckerMap{videoID: true}}

	body, err := json.Marshal(commentRequest{Content: "  great video  "})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos/"+videoID+"/comments", bytes.NewReader(body))
	req.SetPathValue("videoId", videoID)
	req = authedRequestFrom(req, "user-1")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}
	if len(store.comments) != 1 {
		t.Fatalf("expected one stored comment, got %d", len(store.comments))
	}
	for _, comment := range store.comments {
		if comment.Content != "great video" {
			t.Fatalf("expected trimmed content, got %q", comment.Content)
		}
		if comment.OwnerID != "user-1" || comment.VideoID != videoID {
			t.Fatalf("unexpected ownership %+v", comment)
		}
	}
}

func TestCommentHandlerCreateEmptyContent(t *testing.T) {
	videoID := uuid.NewString()
	handler := CommentHandler{Comments: newFakeCommentStore(), Targets: fakeTargetCheckerMap{videoID: true}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos/"+videoID+"/comments", bytes.NewReader([]byte(`{"content":"   "}`)))
	req.SetPathValue("videoId", videoID)
	req = authedRequestFrom(req, "user-1")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestCommentHandlerUpdateOwnerOnly(t *testing.T) {
	commentID := uuid.NewString()
	store := newFakeCommentStore()
	store.comments[commentID] = models.Comment{ID: commentID, OwnerID: "user-1", Content: "before"}
	handler := CommentHandler{Comments: store}

	body := []byte(`{"content":"after"}`)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/comments/"+commentID, bytes.NewReader(body))
	req.SetPathValue("commentId", commentID)
	req = authedRequestFrom(req, "user-2")
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status %d for non-owner got %d", http.StatusForbidden, rec.Code)
	}

	req = httptest.NewRequest(http.MethodPatch, "/api/v1/comments/"+commentID, bytes.NewReader(body))
	req.SetPathValue("commentId", commentID)
	req = authedRequestFrom(req, "user-1")
	rec = httptest.NewRecorder()

	handler.Update(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d for owner got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	if store.updatedContent != "after" {
		t.Fatalf("expected content update, got %q", store.updatedContent)
	}
}

func TestCommentHandlerDeleteOwnerOnly(t *testing.T) {
	commentID := uuid.NewString()
	store := newFakeCommentStore()
	store.comments[commentID] = models.Comment{ID: commentID, OwnerID: "user-1"}
	handler := CommentHandler{Comments: store}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/comments/"+commentID, nil)
	req.SetPathValue("commentId", commentID)
	req = authedRequestFrom(req, "user-2")
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status %d for non-owner got %d", http.StatusForbidden, rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/comments/"+commentID, nil)
	req.SetPathValue("commentId", commentID)
	req = authedRequestFrom(req, "user-1")
	rec = httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d for owner got %d", http.StatusOK, rec.Code)
	}
	if store.deletedID != commentID {
		t.Fatal("expected comment to be deleted")
	}
}

func TestCommentHandlerDeleteMissing(t *testing.T) {
	handler := CommentHandler{Comments: newFakeCommentStore()}

	commentID := uuid.NewString()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/comments/"+commentID, nil)
	req.SetPathValue("commentId", commentID)
	req = authedRequestFrom(req, "user-1")
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d got %d", http.StatusNotFound, rec.Code)
	}
}
