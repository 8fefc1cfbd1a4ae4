package models

import "time"

// User represents an account on the VideoTube platform. Username and Email are
// stored case-folded and are unique across all accounts. RefreshToken holds the
// single currently-valid refresh credential; empty means no active session.
type User struct {
	ID           string
	Username     string
	Email        string
	FullName     string
	Avatar       string
	CoverImage   string
	PasswordHash string
	RefreshToken string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Summary strips the credential fields for embedding in API responses.
func (u User) Summary() UserSummary {
	return UserSummary{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Avatar:   u.Avatar,
	}
}

// UserSummary is the denormalized account view attached to content listings.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar"`
}

// SessionTokens groups the bearer credentials issued to authenticated users.
type SessionTokens struct {
	AccessToken      string    `json:"accessToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

// RelationKind discriminates what a relationship row points at.
type RelationKind string

const (
	KindVideo   RelationKind = "video"
	KindComment RelationKind = "comment"
	KindPost    RelationKind = "post"
	KindChannel RelationKind = "channel"
)

// Valid reports whether the kind is one of the supported relation targets.
func (k RelationKind) Valid() bool {
	switch k {
	case KindVideo, KindComment, KindPost, KindChannel:
		return true
	}
	return false
}

// Relationship is a single actor-to-target fact: a like when the target is a
// video, comment or post, and a subscription when the target is a channel.
// At most one row exists per (actor, target, kind) triple.
type Relationship struct {
	ID        string       `json:"id"`
	ActorID   string       `json:"actorId"`
	TargetID  string       `json:"targetId"`
	Kind      RelationKind `json:"kind"`
	CreatedAt time.Time    `json:"createdAt"`
}

// Video is a published video owned by a channel (user).
type Video struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"ownerId"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	VideoURL     string    `json:"videoUrl"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	Duration     float64   `json:"duration"`
	Views        int64     `json:"views"`
	CreatedAt    time.Time `json:"createdAt"`
}

// VideoView decorates a video with aggregate state for the requesting viewer.
type VideoView struct {
	Video
	Owner     UserSummary `json:"owner"`
	LikeCount int64       `json:"likeCount"`
	IsLiked   bool        `json:"isLiked"`
}

// Comment belongs to a single video.
type Comment struct {
	ID        string    `json:"id"`
	VideoID   string    `json:"videoId"`
	OwnerID   string    `json:"ownerId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CommentView pairs a comment with its like count.
type CommentView struct {
	Comment
	LikeCount int64 `json:"likeCount"`
}

// CommunityPost is a short text post published to a channel's community tab.
type CommunityPost struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Playlist is an owner-exclusive collection of videos. Membership is a set; a
// video appears at most once.
type Playlist struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PlaylistSummary decorates a playlist with aggregate totals over its videos.
type PlaylistSummary struct {
	Playlist
	TotalVideos int64 `json:"totalVideos"`
	TotalViews  int64 `json:"totalViews"`
}

// ChannelSubscriber is one entry in a channel's subscriber listing. IsSubscribed
// reports whether the viewing user is themselves subscribed to this subscriber's
// channel, not whether the subscriber follows the viewer.
type ChannelSubscriber struct {
	Subscriber   UserSummary `json:"subscriber"`
	SubscribedAt time.Time   `json:"subscribedAt"`
	IsSubscribed bool        `json:"isSubscribed"`
}

// LikedVideo is one entry in a user's liked-videos listing.
type LikedVideo struct {
	Video   Video       `json:"video"`
	Owner   UserSummary `json:"owner"`
	LikedAt time.Time   `json:"likedAt"`
}
