package handlers

import (
	"net/http"

	"github.com/sharathkodoth/backend-project/internal/auth"
	"github.com/sharathkodoth/backend-project/internal/logging"
	"github.com/sharathkodoth/backend-project/internal/models"
	"github.com/sharathkodoth/backend-project/internal/relationships"
)

// LikeHandler toggles likes on videos, comments, and community posts.
type LikeHandler struct {
	Toggler RelationshipToggler
	Liked   LikedVideoLister
}

// Toggle handles POST /api/v1/likes/toggle/{kind}/{targetId}.
func (h LikeHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	if h.Toggler == nil {
		logger.Error("relationship service unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "relationship service unavailable"})
		return
	}

	kind := models.RelationKind(r.PathValue("kind"))
	switch kind {
	case models.KindVideo, models.KindComment, models.KindPost:
	default:
		logger.Warn("unsupported like kind", "kind", string(kind))
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "kind must be video, comment, or post"})
		return
	}

	result, err := h.Toggler.Toggle(ctx, identity.UserID, r.PathValue("targetId"), kind)
	if err != nil {
		respondError(ctx, w, err, "failed to toggle like")
		return
	}

	respondJSON(ctx, w, http.StatusOK, toggleResponse{
		State: string(result.State),
		Liked: result.State == relationships.StateAdded,
	})
}

// LikedVideos handles GET /api/v1/likes/videos.
func (h LikeHandler) LikedVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	if h.Liked == nil {
		logging.FromContext(ctx).Error("relationship service unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "relationship service unavailable"})
		return
	}

	page, limit := parsePagination(r)
	videos, err := h.Liked.ListLikedVideos(ctx, identity.UserID, page, limit)
	if err != nil {
		respondError(ctx, w, err, "failed to list liked videos")
		return
	}
	if videos == nil {
		videos = []models.LikedVideo{}
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"videos": videos, "page": page, "limit": limit})
}

type toggleResponse struct {
	State string `json:"state"`
	Liked bool   `json:"liked"`
}
