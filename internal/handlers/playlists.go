package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sharathkodoth/backend-project/internal/auth"
	"github.com/sharathkodoth/backend-project/internal/logging"
	"github.com/sharathkodoth/backend-project/internal/models"
	"github.com/sharathkodoth/backend-project/internal/repositories"
)

// PlaylistHandler serves playlist CRUD and membership operations.
type PlaylistHandler struct {
	Playlists PlaylistStore
	NowFunc   func() time.Time
}

// Create handles POST /api/v1/playlists.
func (h PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	if h.Playlists == nil {
		logger.Error("playlist store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "playlist services unavailable"})
		return
	}

	var req playlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid playlist payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	now := h.now()
	playlist := models.Playlist{
		ID:          uuid.NewString(),
		OwnerID:     identity.UserID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.Playlists.Create(ctx, playlist); err != nil {
		respondError(ctx, w, err, "failed to create playlist")
		return
	}

	respondJSON(ctx, w, http.StatusCreated, map[string]any{"playlist": playlist})
}

// Item handles GET /api/v1/playlists/{playlistId}.
func (h PlaylistHandler) Item(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Playlists == nil {
		logger.Error("playlist store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "playlist services unavailable"})
		return
	}

	playlistID := r.PathValue("playlistId")
	if _, err := uuid.Parse(playlistID); err != nil {
		logger.Warn("invalid playlist id", "playlistId", playlistID)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid playlist id"})
		return
	}

	playlist, err := h.Playlists.FindByID(ctx, playlistID)
	if err != nil {
		respondError(ctx, w, err, "failed to load playlist")
		return
	}

	videos, err := h.Playlists.ListVideos(ctx, playlistID)
	if err != nil {
		respondError(ctx, w, err, "failed to load playlist")
		return
	}
	if videos == nil {
		videos = []models.Video{}
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"playlist": playlist, "videos": videos})
}

// ForUser handles GET /api/v1/users/{userId}/playlists.
func (h PlaylistHandler) ForUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Playlists == nil {
		logger.Error("playlist store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "playlist services unavailable"})
		return
	}

	userID := r.PathValue("userId")
	if _, err := uuid.Parse(userID); err != nil {
		logger.Warn("invalid user id", "userId", userID)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid user id"})
		return
	}

	playlists, err := h.Playlists.ListForOwner(ctx, userID)
	if err != nil {
		respondError(ctx, w, err, "failed to list playlists")
		return
	}
	if playlists == nil {
		playlists = []models.PlaylistSummary{}
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"playlists": playlists})
}

// AddVideo handles POST /api/v1/playlists/{playlistId}/videos/{videoId}.
// Adding an already-present video is a no-op; membership is a set.
func (h PlaylistHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	if h.Playlists == nil {
		logging.FromContext(ctx).Error("playlist store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "playlist services unavailable"})
		return
	}

	playlistID, videoID := r.PathValue("playlistId"), r.PathValue("videoId")
	if err := h.authorizeOwner(ctx, playlistID, identity.UserID); err != nil {
		respondError(ctx, w, err, "failed to update playlist")
		return
	}
	if _, err := uuid.Parse(videoID); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid video id"})
		return
	}

	if err := h.Playlists.AddVideo(ctx, playlistID, videoID); err != nil {
		respondError(ctx, w, err, "failed to update playlist")
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "added"})
}

// RemoveVideo handles DELETE /api/v1/playlists/{playlistId}/videos/{videoId}.
func (h PlaylistHandler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	if h.Playlists == nil {
		logging.FromContext(ctx).Error("playlist store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "playlist services unavailable"})
		return
	}

	playlistID, videoID := r.PathValue("playlistId"), r.PathValue("videoId")
	if err := h.authorizeOwner(ctx, playlistID, identity.UserID); err != nil {
		respondError(ctx, w, err, "failed to update playlist")
		return
	}
	if _, err := uuid.Parse(videoID); err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid video id"})
		return
	}

	if err := h.Playlists.RemoveVideo(ctx, playlistID, videoID); err != nil {
		respondError(ctx, w, err, "failed to update playlist")
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "removed"})
}

func (h PlaylistHandler) authorizeOwner(ctx context.Context, playlistID, userID string) error {
	if _, err := uuid.Parse(playlistID); err != nil {
		return repositories.ErrNotFound
	}
	playlist, err := h.Playlists.FindByID(ctx, playlistID)
	if err != nil {
		return err
	}
	if playlist.OwnerID != userID {
		return ErrForbidden
	}
	return nil
}

func (h PlaylistHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}

type playlistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
