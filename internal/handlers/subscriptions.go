package handlers

import (
	"net/http"

	"github.com/sharathkodoth/backend-project/internal/auth"
	"github.com/sharathkodoth/backend-project/internal/logging"
	"github.com/sharathkodoth/backend-project/internal/models"
	"github.com/sharathkodoth/backend-project/internal/relationships"
)

// SubscriptionHandler toggles and lists channel subscriptions.
type SubscriptionHandler struct {
	Toggler     RelationshipToggler
	Subscribers SubscriberLister
}

// Toggle handles POST /api/v1/subscriptions/toggle/{channelId}.
func (h SubscriptionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
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

	channelID := r.PathValue("channelId")
	if channelID == identity.UserID {
		logger.Warn("self subscription rejected", "userId", identity.UserID)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "cannot subscribe to your own channel"})
		return
	}

	result, err := h.Toggler.Toggle(ctx, identity.UserID, channelID, models.KindChannel)
	if err != nil {
		respondError(ctx, w, err, "failed to toggle subscription")
		return
	}

	respondJSON(ctx, w, http.StatusOK, subscriptionToggleResponse{
		State:      string(result.State),
		Subscribed: result.State == relationships.StateAdded,
	})
}

// List handles GET /api/v1/subscriptions/subscribers/{channelId}. The viewer
// is optional; when present each entry reports whether the viewer subscribes
// to that subscriber's own channel.
func (h SubscriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.Subscribers == nil {
		logging.FromContext(ctx).Error("relationship service unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "relationship service unavailable"})
		return
	}

	viewerID := ""
	if identity, ok := auth.IdentityFromContext(ctx); ok {
		viewerID = identity.UserID
	}

	page, limit := parsePagination(r)
	subscribers, err := h.Subscribers.ListSubscribers(ctx, r.PathValue("channelId"), viewerID, page, limit)
	if err != nil {
		respondError(ctx, w, err, "failed to list subscribers")
		return
	}
	if subscribers == nil {
		subscribers = []models.ChannelSubscriber{}
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"subscribers": subscribers, "page": page, "limit": limit})
}

type subscriptionToggleResponse struct {
	State      string `json:"state"`
	Subscribed bool   `json:"subscribed"`
}
