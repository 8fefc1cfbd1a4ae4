package app

import (
	"context"
	"fmt"

	"github.com/sharathkodoth/backend-project/internal/auth"
	"github.com/sharathkodoth/backend-project/internal/config"
	"github.com/sharathkodoth/backend-project/internal/db"
	"github.com/sharathkodoth/backend-project/internal/handlers"
	"github.com/sharathkodoth/backend-project/internal/middleware"
	"github.com/sharathkodoth/backend-project/internal/relationships"
	"github.com/sharathkodoth/backend-project/internal/repositories"
	"github.com/sharathkodoth/backend-project/internal/storage"
)

// buildDependencies wires together concrete implementations used by the HTTP
// handlers.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config) (handlers.Dependencies, error) {
	users := repositories.NewPostgresUserRepository(pool)
	relations := repositories.NewPostgresRelationshipRepository(pool)

	tokens := auth.NewTokenService(
		[]byte(cfg.AccessTokenSecret),
		[]byte(cfg.RefreshTokenSecret),
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
		users,
	)

	assets, err := storage.NewS3Storage(ctx, cfg.ObjectStore)
	if err != nil {
		return handlers.Dependencies{}, fmt.Errorf("configure object storage: %w", err)
	}

	return handlers.Dependencies{
		Users:       users,
		Sessions:    tokens,
		Verifier:    tokens,
		Toggler:     relationships.NewStore(relations, relations),
		Targets:     relations,
		Subscribers: relations,
		Liked:       relations,
		Videos:      repositories.NewPostgresVideoRepository(pool),
		Assets:      assets,
		Comments:    repositories.NewPostgresCommentRepository(pool),
		Posts:       repositories.NewPostgresPostRepository(pool),
		Playlists:   repositories.NewPostgresPlaylistRepository(pool),
		AuthLimiter: middleware.NewKeyedRateLimiter(
			cfg.AuthRateLimit.Requests,
			cfg.AuthRateLimit.Window,
			cfg.AuthRateLimit.Burst,
			cfg.AuthRateLimit.TTL,
		),
		SecureCookies:  cfg.SecureCookies,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}, nil
}
