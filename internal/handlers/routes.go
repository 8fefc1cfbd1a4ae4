package handlers

import (
	"net/http"
	"time"

	"github.com/sharathkodoth/backend-project/internal/middleware"
)

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Users          UserStore
	Sessions       SessionService
	Verifier       middleware.TokenVerifier
	Toggler        RelationshipToggler
	Targets        TargetChecker
	Subscribers    SubscriberLister
	Liked          LikedVideoLister
	Videos         VideoStore
	Assets         AssetStorage
	Comments       CommentStore
	Posts          PostStore
	Playlists      PlaylistStore
	AuthLimiter    RateLimiter
	SecureCookies  bool
	MaxUploadBytes int64
	NowFunc        func() time.Time
}

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	account := AuthHandler{
		Users:         deps.Users,
		Sessions:      deps.Sessions,
		Limiter:       deps.AuthLimiter,
		SecureCookies: deps.SecureCookies,
		NowFunc:       deps.NowFunc,
	}
	likes := LikeHandler{Toggler: deps.Toggler, Liked: deps.Liked}
	subscriptions := SubscriptionHandler{Toggler: deps.Toggler, Subscribers: deps.Subscribers}
	videos := VideoHandler{
		Videos:         deps.Videos,
		Assets:         deps.Assets,
		MaxUploadBytes: deps.MaxUploadBytes,
		NowFunc:        deps.NowFunc,
	}
	comments := CommentHandler{Comments: deps.Comments, Targets: deps.Targets, NowFunc: deps.NowFunc}
	posts := PostHandler{Posts: deps.Posts, NowFunc: deps.NowFunc}
	playlists := PlaylistHandler{Playlists: deps.Playlists, NowFunc: deps.NowFunc}

	requireAuth := middleware.RequireAuth(deps.Verifier)
	optionalAuth := middleware.OptionalAuth(deps.Verifier)

	mux.HandleFunc("GET /healthz", health.Handle)

	mux.HandleFunc("POST /api/v1/users/register", account.Register)
	mux.HandleFunc("POST /api/v1/users/login", account.Login)
	mux.HandleFunc("POST /api/v1/users/refresh-token", account.Refresh)
	mux.Handle("POST /api/v1/users/logout", requireAuth(http.HandlerFunc(account.Logout)))
	mux.Handle("POST /api/v1/users/change-password", requireAuth(http.HandlerFunc(account.ChangePassword)))
	mux.Handle("GET /api/v1/users/current", requireAuth(http.HandlerFunc(account.Current)))

	mux.Handle("POST /api/v1/likes/toggle/{kind}/{targetId}", requireAuth(http.HandlerFunc(likes.Toggle)))
	mux.Handle("GET /api/v1/likes/videos", requireAuth(http.HandlerFunc(likes.LikedVideos)))

	mux.Handle("POST /api/v1/subscriptions/toggle/{channelId}", requireAuth(http.HandlerFunc(subscriptions.Toggle)))
	mux.Handle("GET /api/v1/subscriptions/subscribers/{channelId}", requireAuth(http.HandlerFunc(subscriptions.List)))

	mux.Handle("POST /api/v1/videos", requireAuth(http.HandlerFunc(videos.Publish)))
	mux.HandleFunc("GET /api/v1/videos", videos.List)
	mux.Handle("GET /api/v1/videos/{videoId}", optionalAuth(http.HandlerFunc(videos.Item)))

	mux.HandleFunc("GET /api/v1/videos/{videoId}/comments", comments.List)
	mux.Handle("POST /api/v1/videos/{videoId}/comments", requireAuth(http.HandlerFunc(comments.Create)))
	mux.Handle("PATCH /api/v1/comments/{commentId}", requireAuth(http.HandlerFunc(comments.Update)))
	mux.Handle("DELETE /api/v1/comments/{commentId}", requireAuth(http.HandlerFunc(comments.Delete)))

	mux.Handle("POST /api/v1/posts", requireAuth(http.HandlerFunc(posts.Create)))
	mux.HandleFunc("GET /api/v1/posts", posts.List)

	mux.Handle("POST /api/v1/playlists", requireAuth(http.HandlerFunc(playlists.Create)))
	mux.HandleFunc("GET /api/v1/playlists/{playlistId}", playlists.Item)
	mux.HandleFunc("GET /api/v1/users/{userId}/playlists", playlists.ForUser)
	mux.Handle("POST /api/v1/playlists/{playlistId}/videos/{videoId}", requireAuth(http.HandlerFunc(playlists.AddVideo)))
	mux.Handle("DELETE /api/v1/playlists/{playlistId}/videos/{videoId}", requireAuth(http.HandlerFunc(playlists.RemoveVideo)))
}
