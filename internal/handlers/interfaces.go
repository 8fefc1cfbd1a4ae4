package handlers

import (
	"context"
	"io"

	"github.com/sharathkodoth/backend-project/internal/models"
	"github.com/sharathkodoth/backend-project/internal/relationships"
)

// UserStore captures the persistence operations required by the auth handlers.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// SessionService issues, refreshes, and revokes session token pairs.
type SessionService interface {
	Rotate(ctx context.Context, userID string) (models.SessionTokens, error)
	Refresh(ctx context.Context, refreshToken string) (models.SessionTokens, error)
	Revoke(ctx context.Context, userID string) error
}

// RelationshipToggler flips like and subscription relationships.
type RelationshipToggler interface {
	Toggle(ctx context.Context, actorID, targetID string, kind models.RelationKind) (relationships.ToggleResult, error)
}

// TargetChecker resolves whether a piece of content exists.
type TargetChecker interface {
	TargetExists(ctx context.Context, targetID string, kind models.RelationKind) (bool, error)
}

// SubscriberLister serves the channel subscriber aggregation view.
type SubscriberLister interface {
	ListSubscribers(ctx context.Context, channelID, viewerID string, page, limit int) ([]models.ChannelSubscriber, error)
}

// LikedVideoLister serves the liked-videos aggregation view.
type LikedVideoLister interface {
	ListLikedVideos(ctx context.Context, actorID string, page, limit int) ([]models.LikedVideo, error)
}

// VideoStore captures persistence for published videos.
type VideoStore interface {
	Create(ctx context.Context, video models.Video) error
	GetView(ctx context.Context, videoID, viewerID string) (models.VideoView, error)
	List(ctx context.Context, page, limit int) ([]models.Video, error)
	IncrementViews(ctx context.Context, videoID string) error
}

// AssetStorage uploads video and thumbnail files to the object store.
type AssetStorage interface {
	Save(ctx context.Context, key, contentType string, r io.Reader) (string, error)
}

// CommentStore captures persistence for video comments.
type CommentStore interface {
	Create(ctx context.Context, comment models.Comment) error
	FindByID(ctx context.Context, id string) (models.Comment, error)
	UpdateContent(ctx context.Context, id, content string) error
	Delete(ctx context.Context, id string) error
	ListForVideo(ctx context.Context, videoID string, page, limit int) ([]models.CommentView, error)
	CountForVideo(ctx context.Context, videoID string) (int64, error)
}

// PostStore captures persistence for community posts.
type PostStore interface {
	Create(ctx context.Context, post models.CommunityPost) error
	List(ctx context.Context, page, limit int) ([]models.CommunityPost, error)
}

// PlaylistStore captures persistence for playlists and their membership set.
type PlaylistStore interface {
	Create(ctx context.Context, playlist models.Playlist) error
	FindByID(ctx context.Context, id string) (models.Playlist, error)
	ListForOwner(ctx context.Context, ownerID string) ([]models.PlaylistSummary, error)
	AddVideo(ctx context.Context, playlistID, videoID string) error
	RemoveVideo(ctx context.Context, playlistID, videoID string) error
	ListVideos(ctx context.Context, playlistID string) ([]models.Video, error)
}

// RateLimiter is the minimal interface required to guard sensitive endpoints.
type RateLimiter interface {
	Allow(key string) bool
}
