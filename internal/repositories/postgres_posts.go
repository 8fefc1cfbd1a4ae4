package repositories

import (
	"context"
	"fmt"

	"github.com/sharathkodoth/backend-project/internal/db"
	"github.com/sharathkodoth/backend-project/internal/models"
)

// PostgresPostRepository provides PostgreSQL-backed persistence for community posts.
type PostgresPostRepository struct {
	pool db.Pool
}

// NewPostgresPostRepository constructs a community post repository backed by PostgreSQL.
func NewPostgresPostRepository(pool db.Pool) *PostgresPostRepository {
	return &PostgresPostRepository{pool: pool}
}

// Create stores a new community post.
func (r *PostgresPostRepository) Create(ctx context.Context, post models.CommunityPost) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO community_posts (id, owner_id, content, created_at)
        VALUES ($1, $2, $3, $4)
    `, post.ID, post.OwnerID, post.Content, post.CreatedAt)
	if err != nil {
		return storeError("insert community post", err)
	}

	return nil
}

// List returns one page of community posts, newest first.
func (r *PostgresPostRepository) List(ctx context.Context, page, limit int) ([]models.CommunityPost, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT id, owner_id, content, created_at
        FROM community_posts
        ORDER BY created_at DESC, id DESC
        OFFSET $1 LIMIT $2
    `, pageOffset(page, limit), limit)
	if err != nil {
		return nil, storeError("query community posts", err)
	}
	defer rows.Close()

	var posts []models.CommunityPost
	for rows.Next() {
		var post models.CommunityPost
		if err := rows.Scan(&post.ID, &post.OwnerID, &post.Content, &post.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan community post: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate community posts: %w", err)
	}

	return posts, nil
}
