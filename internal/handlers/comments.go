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

// CommentHandler serves the comment operations scoped under a video.
type CommentHandler struct {
	Comments CommentStore
	Targets  TargetChecker
	NowFunc  func() time.Time
}

// List handles GET /api/v1/videos/{videoId}/comments. The listing is public.
func (h CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Comments == nil || h.Targets == nil {
		logger.Error("comment dependencies unavailable", "hasComments", h.Comments != nil, "hasTargets", h.Targets != nil)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "comment services unavailable"})
		return
	}

	videoID := r.PathValue("videoId")
	if _, err := uuid.Parse(videoID); err != nil {
		logger.Warn("invalid video id", "videoId", videoID)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid video id"})
		return
	}

	exists, err := h.Targets.TargetExists(ctx, videoID, models.KindVideo)
	if err != nil {
		respondError(ctx, w, err, "failed to load comments")
		return
	}
	if !exists {
		respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "video not found"})
		return
	}

	page, limit := parsePagination(r)
	comments, err := h.Comments.ListForVideo(ctx, videoID, page, limit)
	if err != nil {
		respondError(ctx, w, err, "failed to load comments")
		return
	}
	if comments == nil {
		comments = []models.CommentView{}
	}

	total, err := h.Comments.CountForVideo(ctx, videoID)
	if err != nil {
		respondError(ctx, w, err, "failed to load comments")
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{
		"comments":      comments,
		"totalComments": total,
		"page":          page,
		"limit":         limit,
	})
}

// Create handles POST /api/v1/videos/{videoId}/comments.
func (h CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	if h.Comments == nil {
		logger.Error("comment store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "comment services unavailable"})
		return
	}

	videoID := r.PathValue("videoId")
	if _, err := uuid.Parse(videoID); err != nil {
		logger.Warn("invalid video id", "videoId", videoID)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid video id"})
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid comment payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "content is required"})
		return
	}

	now := h.now()
	comment := models.Comment{
		ID:        uuid.NewString(),
		VideoID:   videoID,
		OwnerID:   identity.UserID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.Comments.Create(ctx, comment); err != nil {
		respondError(ctx, w, err, "failed to add comment")
		return
	}

	respondJSON(ctx, w, http.StatusCreated, map[string]any{"comment": comment})
}

// Update handles PATCH /api/v1/comments/{commentId}. Only the author may
// edit.
func (h CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	if h.Comments == nil {
		logger.Error("comment store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "comment services unavailable"})
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid comment payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "content is required"})
		return
	}

	comment, err := h.loadOwned(ctx, r.PathValue("commentId"), identity.UserID)
	if err != nil {
		respondError(ctx, w, err, "failed to update comment")
		return
	}

	if err := h.Comments.UpdateContent(ctx, comment.ID, content); err != nil {
		respondError(ctx, w, err, "failed to update comment")
		return
	}

	comment.Content = content
	comment.UpdatedAt = h.now()
	respondJSON(ctx, w, http.StatusOK, map[string]any{"comment": comment})
}

// Delete handles DELETE /api/v1/comments/{commentId}. Only the author may
// delete.
func (h CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	if h.Comments == nil {
		logging.FromContext(ctx).Error("comment store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "comment services unavailable"})
		return
	}

	comment, err := h.loadOwned(ctx, r.PathValue("commentId"), identity.UserID)
	if err != nil {
		respondError(ctx, w, err, "failed to delete comment")
		return
	}

	if err := h.Comments.Delete(ctx, comment.ID); err != nil {
		respondError(ctx, w, err, "failed to delete comment")
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h CommentHandler) loadOwned(ctx context.Context, commentID, userID string) (models.Comment, error) {
	if _, err := uuid.Parse(commentID); err != nil {
		return models.Comment{}, repositories.ErrNotFound
	}
	comment, err := h.Comments.FindByID(ctx, commentID)
	if err != nil {
		return models.Comment{}, err
	}
	if comment.OwnerID != userID {
		return models.Comment{}, ErrForbidden
	}
	return comment, nil
}

func (h CommentHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}

type commentRequest struct {
	Content string `json:"content"`
}
