package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sharathkodoth/backend-project/internal/db"
	"github.com/sharathkodoth/backend-project/internal/models"
)

// PostgresVideoRepository provides PostgreSQL-backed persistence for published videos.
type PostgresVideoRepository struct {
	pool db.Pool
}

// NewPostgresVideoRepository constructs a video repository backed by PostgreSQL.
func NewPostgresVideoRepository(pool db.Pool) *PostgresVideoRepository {
	return &PostgresVideoRepository{pool: pool}
}

// Create stores a new video record.
func (r *PostgresVideoRepository) Create(ctx context.Context, video models.Video) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO videos (id, owner_id, title, description, video_url, thumbnail_url, duration, views, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `, video.ID, video.OwnerID, video.Title, video.Description, video.VideoURL, video.ThumbnailURL,
		video.Duration, video.Views, video.CreatedAt)
	if err != nil {
		return storeError("insert video", err)
	}

	return nil
}

// GetView loads a video decorated with its owner summary, like count, and
// whether the viewer has liked it. An empty viewerID reports IsLiked false.
// The aggregates come from the same statement as the video row, so the counts
// are consistent with the relationship store at read time.
func (r *PostgresVideoRepository) GetView(ctx context.Context, videoID, viewerID string) (models.VideoView, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.VideoView{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT v.id, v.owner_id, v.title, v.description, v.video_url, v.thumbnail_url,
               v.duration, v.views, v.created_at,
               o.id, o.username, o.full_name, o.avatar,
               (SELECT COUNT(*) FROM relationships r WHERE r.target_id = v.id AND r.kind = 'video') AS like_count,
               (NULLIF($2, '') IS NOT NULL AND EXISTS (
                   SELECT 1 FROM relationships r
                   WHERE r.actor_id = NULLIF($2, '')::uuid AND r.target_id = v.id AND r.kind = 'video'
               )) AS is_liked
        FROM videos v
        JOIN users o ON o.id = v.owner_id
        WHERE v.id = $1
    `, videoID, viewerID)

	var view models.VideoView
	if err := row.Scan(&view.ID, &view.OwnerID, &view.Title, &view.Description, &view.VideoURL, &view.ThumbnailURL,
		&view.Duration, &view.Views, &view.CreatedAt,
		&view.Owner.ID, &view.Owner.Username, &view.Owner.FullName, &view.Owner.Avatar,
		&view.LikeCount, &view.IsLiked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.VideoView{}, ErrNotFound
		}
		return models.VideoView{}, storeError("select video view", err)
	}

	return view, nil
}

// List returns one page of published videos, newest first.
func (r *PostgresVideoRepository) List(ctx context.Context, page, limit int) ([]models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT id, owner_id, title, description, video_url, thumbnail_url, duration, views, created_at
        FROM videos
        ORDER BY created_at DESC, id DESC
        OFFSET $1 LIMIT $2
    `, pageOffset(page, limit), limit)
	if err != nil {
		return nil, storeError("query videos", err)
	}
	defer rows.Close()

	var videos []models.Video
	for rows.Next() {
		var video models.Video
		if err := rows.Scan(&video.ID, &video.OwnerID, &video.Title, &video.Description, &video.VideoURL,
			&video.ThumbnailURL, &video.Duration, &video.Views, &video.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}

	return videos, nil
}

// IncrementViews bumps the view counter for a fetched video.
func (r *PostgresVideoRepository) IncrementViews(ctx context.Context, videoID string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `UPDATE videos SET views = views + 1 WHERE id = $1`, videoID)
	if err != nil {
		return storeError("increment views", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
