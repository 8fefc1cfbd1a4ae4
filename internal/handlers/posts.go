package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sharathkodoth/backend-project/internal/auth"
	"github.com/sharathkodoth/backend-project/internal/logging"
	"github.com/sharathkodoth/backend-project/internal/models"
)

// PostHandler serves community posts.
type PostHandler struct {
	Posts   PostStore
	NowFunc func() time.Time
}

// Create handles POST /api/v1/posts.
func (h PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	if h.Posts == nil {
		logger.Error("post store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "post services unavailable"})
		return
	}

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid post payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "content is required"})
		return
	}

	post := models.CommunityPost{
		ID:        uuid.NewString(),
		OwnerID:   identity.UserID,
		Content:   content,
		CreatedAt: h.now(),
	}

	if err := h.Posts.Create(ctx, post); err != nil {
		respondError(ctx, w, err, "failed to create post")
		return
	}

	respondJSON(ctx, w, http.StatusCreated, map[string]any{"post": post})
}

// List handles GET /api/v1/posts.
func (h PostHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.Posts == nil {
		logging.FromContext(ctx).Error("post store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "post services unavailable"})
		return
	}

	page, limit := parsePagination(r)
	posts, err := h.Posts.List(ctx, page, limit)
	if err != nil {
		respondError(ctx, w, err, "failed to list posts")
		return
	}
	if posts == nil {
		posts = []models.CommunityPost{}
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"posts": posts, "page": page, "limit": limit})
}

func (h PostHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}

type postRequest struct {
	Content string `json:"content"`
}
