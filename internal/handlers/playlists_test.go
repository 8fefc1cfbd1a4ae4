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

type fakePlaylistStore struct {
	playlists map[string]models.Playlist
	members   map[string][]string
	summaries []models.PlaylistSummary
	videos    []models.Video
}

func newFakePlaylistStore() *fakePlaylistStore {
	return &fakePlaylistStore{
		playlists: make(map[string]models.Playlist),
		members:   make(map[string][]string),
	}
}

func (s *fakePlaylistStore) Create(_ context.Context, playlist models.Playlist) error {
	s.playlists[playlist.ID] = playlist
	return nil
}

func (s *fakePlaylistStore) FindByID(_ context.Context, id string) (models.Playlist, error) {
	playlist, ok := s.playlists[id]
	if !ok {
		return models.Playlist{}, repositories.ErrNotFound
	}
	return playlist, nil
}

func (s *fakePlaylistStore) ListForOwner(_ context.Context, _ string) ([]models.PlaylistSummary, error) {
	return s.summaries, nil
}

func (s *fakePlaylistStore) AddVideo(_ context.Context, playlistID, videoID string) error {
	for _, existing := range s.members[playlistID] {
		if existing == videoID {
			return nil
		}
	}
	s.members[playlistID] = append(s.members[playlistID], videoID)
	return nil
}

func (s *fakePlaylistStore) RemoveVideo(_ context.Context, playlistID, videoID string) error {
	videos := s.members[playlistID]
	for i, existing := range videos {
		if existing == videoID {
			s.members[playlistID] = append(videos[:i], videos[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (s *fakePlaylistStore) ListVideos(_ context.Context, _ string) ([]models.Video, error) {
	return s.videos, nil
}

func TestPlaylistHandlerCreate(t *testing.T) {
	store := newFakePlaylistStore()
	handler := PlaylistHandler{Playlists: store}

	body, err := json.Marshal(playlistRequest{Name: "Watch Later", Description: "queue"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/playlists", bytes.NewReader(body))
	req = authedRequestFrom(req, "user-1")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}
	if len(store.playlists) != 1 {
		t.Fatalf("expected one playlist, got %d", len(store.playlists))
	}
	for _, playlist := range store.playlists {
		if playlist.OwnerID != "user-1" || playlist.Name != "Watch Later" {
			t.Fatalf("unexpected playlist %+v", playlist)
		}
	}
}

func TestPlaylistHandlerCreateRequiresName(t *testing.T) {
	handler := PlaylistHandler{Playlists: newFakePlaylistStore()}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/playlists", bytes.NewReader([]byte(`{"name":"  "}`)))
	req = authedRequestFrom(req, "user-1")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestPlaylistHandlerItem(t *testing.T) {
	playlistID := uuid.NewString()
	store := newFakePlaylistStore()
	store.playlists[playlistID] = models.Playlist{ID: playlistID, Name: "Mix"}
	store.videos = []models.Video{{ID: "video-1"}}
	handler := PlaylistHandler{Playlists: store}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/playlists/"+playlistID, nil)
	req.SetPathValue("playlistId", playlistID)
	rec := httptest.NewRecorder()

	handler.Item(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}

	var resp struct {
		Playlist models.Playlist `json:"playlist"`
		Videos   []models.Video  `json:"videos"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Playlist.Name != "Mix" || len(resp.Videos) != 1 {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestPlaylistHandlerForUser(t *testing.T) {
	userID := uuid.NewString()
	store := newFakePlaylistStore()
	store.summaries = []models.PlaylistSummary{
		{Playlist: models.Playlist{ID: "playlist-1", Name: "Mix"}, TotalVideos: 3, TotalViews: 120},
	}
	handler := PlaylistHandler{Playlists: store}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/"+userID+"/playlists", nil)
	req.SetPathValue("userId", userID)
	rec := httptest.NewRecorder()

	handler.ForUser(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}

	var resp struct {
		Playlists []models.PlaylistSummary `json:"playlists"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Playlists) != 1 || resp.Playlists[0].TotalVideos != 3 {
		t.Fatalf("unexpected playlists %+v", resp.Playlists)
	}
}

func TestPlaylistHandlerAddVideoOwnerOnly(t *testing.T) {
	playlistID := uuid.NewString()
	videoID := uuid.NewString()
	store := newFakePlaylistStore()
	store.playlists[playlistID] = models.Playlist{ID: playlistID, OwnerID: "user-1"}
	handler := PlaylistHandler{Playlists: store}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/playlists/"+playlistID+"/videos/"+videoID, nil)
	req.SetPathValue("playlistId", playlistID)
	req.SetPathValue("videoId", videoID)
	req = authedRequestFrom(req, "user-2")
	rec := httptest.NewRecorder()

	handler.AddVideo(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status %d for non-owner got %d", http.StatusForbidden, rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/playlists/"+playlistID+"/videos/"+videoID, nil)
	req.SetPathValue("playlistId", playlistID)
	req.SetPathValue("videoId", videoID)
	req = authedRequestFrom(req, "user-1")
	rec = httptest.NewRecorder()

	handler.AddVideo(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d for owner got %d", http.StatusOK, rec.Code)
	}
	if len(store.members[playlistID]) != 1 {
		t.Fatalf("expected one member, got %d", len(store.members[playlistID]))
	}
}

func TestPlaylistHandlerAddVideoIdempotent(t *testing.T) {
	playlistID := uuid.NewString()
	videoID := uuid.NewString()
	store := newFakePlaylistStore()
	store.playlists[playlistID] = models.Playlist{ID: playlistID, OwnerID: "user-1"}
	handler := PlaylistHandler{Playlists: store}

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/playlists/"+playlistID+"/videos/"+videoID, nil)
		req.SetPathValue("playlistId", playlistID)
		req.SetPathValue("videoId", videoID)
		req = authedRequestFrom(req, "user-1")
		rec := httptest.NewRecorder()

		handler.AddVideo(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected status %d got %d", i+1, http.StatusOK, rec.Code)
		}
	}

	if len(store.members[playlistID]) != 1 {
		t.Fatalf("expected membership to stay a set, got %d entries", len(store.members[playlistID]))
	}
}

func TestPlaylistHandlerRemoveVideo(t *testing.T) {
	playlistID := uuid.NewString()
	videoID := uuid.NewString()
	store := newFakePlaylistStore()
	store.playlists[playlistID] = models.Playlist{ID: playlistID, OwnerID: "user-1"}
	store.members[playlistID] = []string{videoID}
	handler := PlaylistHandler{Playlists: store}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/playlists/"+playlistID+"/videos/"+videoID, nil)
	req.SetPathValue("playlistId", playlistID)
	req.SetPathValue("videoId", videoID)
	req = authedRequestFrom(req, "user-1")
	rec := httptest.NewRecorder()

	handler.RemoveVideo(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}
	if len(store.members[playlistID]) != 0 {
		t.Fatal("expected video to be removed")
	}

	// Removing a video that is not in the playlist reports not found.
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/playlists/"+playlistID+"/videos/"+videoID, nil)
	req.SetPathValue("playlistId", playlistID)
	req.SetPathValue("videoId", videoID)
	req = authedRequestFrom(req, "user-1")
	rec = httptest.NewRecorder()

	handler.RemoveVideo(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d got %d", http.StatusNotFound, rec.Code)
	}
}
