package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sharathkodoth/backend-project/internal/auth"
	"github.com/sharathkodoth/backend-project/internal/logging"
	"github.com/sharathkodoth/backend-project/internal/models"
)

// multipartMemoryLimit is how much of an upload is buffered in memory before
// spilling to temp files.
const multipartMemoryLimit = 32 << 20

// VideoHandler serves video publishing and playback metadata.
type VideoHandler struct {
	Videos         VideoStore
	Assets         AssetStorage
	MaxUploadBytes int64
	NowFunc        func() time.Time
}

// Publish handles POST /api/v1/videos. The request is multipart form data
// carrying title, description, duration, and the videoFile and thumbnail
// uploads.
func (h VideoHandler) Publish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	if h.Videos == nil || h.Assets == nil {
		logger.Error("video dependencies unavailable", "hasVideos", h.Videos != nil, "hasAssets", h.Assets != nil)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "video services unavailable"})
		return
	}

	if h.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	}
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		logger.Warn("invalid multipart upload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid multipart upload"})
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return
	}

	duration := 0.0
	if raw := strings.TrimSpace(r.FormValue("duration")); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 {
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "duration must be a non-negative number"})
			return
		}
		duration = parsed
	}

	videoID := uuid.NewString()

	videoURL, err := h.storeUpload(r, "videoFile", fmt.Sprintf("videos/%s/source", videoID))
	if err != nil {
		logger.Warn("video upload failed", "videoId", videoID, "error", err)
		respondError(ctx, w, err, "video file is required")
		return
	}

	thumbnailURL, err := h.storeUpload(r, "thumbnail", fmt.Sprintf("videos/%s/thumbnail", videoID))
	if err != nil {
		logger.Warn("thumbnail upload failed", "videoId", videoID, "error", err)
		respondError(ctx, w, err, "thumbnail is required")
		return
	}

	video := models.Video{
		ID:           videoID,
		OwnerID:      identity.UserID,
		Title:        title,
		Description:  strings.TrimSpace(r.FormValue("description")),
		VideoURL:     videoURL,
		ThumbnailURL: thumbnailURL,
		Duration:     duration,
		CreatedAt:    h.now(),
	}

	if err := h.Videos.Create(ctx, video); err != nil {
		respondError(ctx, w, err, "failed to publish video")
		return
	}

	logger.Info("video published", "videoId", video.ID, "ownerId", video.OwnerID)
	respondJSON(ctx, w, http.StatusCreated, map[string]any{"video": video})
}

// Item handles GET /api/v1/videos/{videoId}. Fetching a video also counts a
// view; the increment is best effort and never fails the request.
func (h VideoHandler) Item(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Videos == nil {
		logger.Error("video store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "video services unavailable"})
		return
	}

	videoID := r.PathValue("videoId")
	if _, err := uuid.Parse(videoID); err != nil {
		logger.Warn("invalid video id", "videoId", videoID)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid video id"})
		return
	}

	viewerID := ""
	if identity, ok := auth.IdentityFromContext(ctx); ok {
		viewerID = identity.UserID
	}

	view, err := h.Videos.GetView(ctx, videoID, viewerID)
	if err != nil {
		respondError(ctx, w, err, "failed to load video")
		return
	}

	if err := h.Videos.IncrementViews(ctx, videoID); err != nil {
		logger.Warn("failed to count view", "videoId", videoID, "error", err)
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"video": view})
}

// List handles GET /api/v1/videos.
func (h VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.Videos == nil {
		logging.FromContext(ctx).Error("video store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "video services unavailable"})
		return
	}

	page, limit := parsePagination(r)
	videos, err := h.Videos.List(ctx, page, limit)
	if err != nil {
		respondError(ctx, w, err, "failed to list videos")
		return
	}
	if videos == nil {
		videos = []models.Video{}
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"videos": videos, "page": page, "limit": limit})
}

func (h VideoHandler) storeUpload(r *http.Request, field, key string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", fmt.Errorf("missing %s upload: %w", field, ErrMissingUpload)
		}
		return "", fmt.Errorf("read %s upload: %w", field, err)
	}
	defer file.Close()

	return h.Assets.Save(r.Context(), key, uploadContentType(header), file)
}

func uploadContentType(header *multipart.FileHeader) string {
	if header == nil {
		return "application/octet-stream"
	}
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func (h VideoHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
