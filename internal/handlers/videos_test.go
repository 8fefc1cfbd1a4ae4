package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/sharathkodoth/backend-project/internal/models"
	"github.com/sharathkodoth/backend-project/internal/repositories"
)

type fakeVideoStore struct {
	created models.Video
	view    models.VideoView
	videos  []models.Video

	viewErr      error
	incrementErr error

	incrementedID string
	viewerID      string
}

func (s *fakeVideoStore) Create(_ context.Context, video models.Video) error {
	s.created = video
	return nil
}

func (s *fakeVideoStore) GetView(_ context.Context, videoID, viewerID string) (models.VideoView, error) {
	s.viewerID = viewerID
	if s.viewErr != nil {
		return models.VideoView{}, s.viewErr
	}
	return s.view, nil
}

func (s *fakeVideoStore) List(_ context.Context, _, _ int) ([]models.Video, error) {
	return s.videos, nil
}

func (s *fakeVideoStore) IncrementViews(_ context.Context, videoID string) error {
	s.incrementedID = videoID
	return s.incrementErr
}

type fakeAssetStorage struct {
	saved map[string]string
	err   error
}

func (s *fakeAssetStorage) Save(_ context.Context, key, contentType string, r io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.saved == nil {
		s.saved = make(map[string]string)
	}
	s.saved[key] = contentType
	return "https://cdn.example.com/" + key, nil
}

func multipartUpload(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			t.Fatalf("write field %s: %v", name, err)
		}
	}
	for name, contents := range files {
		part, err := writer.CreateFormFile(name, name+".bin")
		if err != nil {
			t.Fatalf("create file %s: %v", name, err)
		}
		if _, err := part.Write([]byte(contents)); err != nil {
			t.Fatalf("write file %s: %v", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestVideoHandlerPublish(t *testing.T) {
	store := &fakeVideoStore{}
	assets := &fakeAssetStorage{}
	handler := VideoHandler{Videos: store, Assets: assets}

	body, contentType := multipartUpload(t,
		map[string]string{"title": "My Video", "description": "A test", "duration": "12.5"},
		map[string]string{"videoFile": "video-bytes", "thumbnail": "thumb-bytes"},
	)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos", body)
	req.Header.Set("Content-Type", contentType)
	req = authedRequestFrom(req, "user-1")
	rec := httptest.NewRecorder()

	handler.Publish(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	if store.created.Title != "My Video" || store.created.OwnerID != "user-1" {
		t.Fatalf("unexpected stored video %+v", store.created)
	}
	if store.created.Duration != 12.5 {
		t.Fatalf("expected duration 12.5, got %v", store.created.Duration)
	}
	if store.created.VideoURL == "" || store.created.ThumbnailURL == "" {
		t.Fatalf("expected asset URLs to be set, got %+v", store.created)
	}
	if len(assets.saved) != 2 {
		t.Fatalf("expected two uploads, got %d", len(assets.saved))
	}
}

func TestVideoHandlerPublishMissingVideoFile(t *testing.T) {
	handler := VideoHandler{Videos: &fakeVideoStore{}, Assets: &fakeAssetStorage{}}

	body, contentType := multipartUpload(t,
		map[string]string{"title": "My Video"},
		map[string]string{"thumbnail": "thumb-bytes"},
	)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos", body)
	req.Header.Set("Content-Type", contentType)
	req = authedRequestFrom(req, "user-1")
	rec := httptest.NewRecorder()

	handler.Publish(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestVideoHandlerPublishMissingTitle(t *testing.T) {
	handler := VideoHandler{Videos: &fakeVideoStore{}, Assets: &fakeAssetStorage{}}

	body, contentType := multipartUpload(t, map[string]string{}, map[string]string{"videoFile": "v", "thumbnail": "t"})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos", body)
	req.Header.Set("Content-Type", contentType)
	req = authedRequestFrom(req, "user-1")
	rec := httptest.NewRecorder()

	handler.Publish(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestVideoHandlerItem(t *testing.T) {
	videoID := uuid.NewString()
	store := &fakeVideoStore{view: models.VideoView{
		Video:     models.Video{ID: videoID, Title: "Watched"},
		LikeCount: 7,
		IsLiked:   true,
	}}
	handler := VideoHandler{Videos: store}

	req := authedRequest(http.MethodGet, "/api/v1/videos/"+videoID, "user-1")
	req.SetPathValue("videoId", videoID)
	rec := httptest.NewRecorder()

	handler.Item(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	if store.viewerID != "user-1" {
		t.Fatalf("expected viewer to decorate the view, got %q", store.viewerID)
	}
	if store.incrementedID != videoID {
		t.Fatal("expected fetch to count a view")
	}

	var resp struct {
		Video models.VideoView `json:"video"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Video.LikeCount != 7 || !resp.Video.IsLiked {
		t.Fatalf("unexpected view %+v", resp.Video)
	}
}

func TestVideoHandlerItemViewCountFailureIsNotFatal(t *testing.T) {
	videoID := uuid.NewString()
	store := &fakeVideoStore{
		view:         models.VideoView{Video: models.Video{ID: videoID}},
		incrementErr: errors.New("db hiccup"),
	}
	handler := VideoHandler{Videos: store}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos/"+videoID, nil)
	req.SetPathValue("videoId", videoID)
	rec := httptest.NewRecorder()

	handler.Item(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}
}

func TestVideoHandlerItemNotFound(t *testing.T) {
	store := &fakeVideoStore{viewErr: repositories.ErrNotFound}
	handler := VideoHandler{Videos: store}

	videoID := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos/"+videoID, nil)
	req.SetPathValue("videoId", videoID)
	rec := httptest.NewRecorder()

	handler.Item(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d got %d", http.StatusNotFound, rec.Code)
	}
}

func TestVideoHandlerItemInvalidID(t *testing.T) {
	handler := VideoHandler{Videos: &fakeVideoStore{}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos/not-a-uuid", nil)
	req.SetPathValue("videoId", "not-a-uuid")
	rec := httptest.NewRecorder()

	handler.Item(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestVideoHandlerList(t *testing.T) {
	store := &fakeVideoStore{videos: []models.Video{{ID: "video-1"}, {ID: "video-2"}}}
	handler := VideoHandler{Videos: store}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}

	var resp struct {
		Videos []models.Video `json:"videos"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Videos) != 2 {
		t.Fatalf("expected two videos, got %d", len(resp.Videos))
	}
}
