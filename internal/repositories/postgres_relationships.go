package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sharathkodoth/backend-project/internal/db"
	"github.com/sharathkodoth/backend-project/internal/models"
)

// PostgresRelationshipRepository persists actor-to-target relationship rows
// (likes and subscriptions) and serves the read-side aggregation views over
// them. The relationships table carries a unique constraint on
// (actor_id, target_id, kind), so a racing double insert surfaces ErrConflict.
type PostgresRelationshipRepository struct {
	pool db.Pool
}

// NewPostgresRelationshipRepository constructs a relationship repository backed by PostgreSQL.
func NewPostgresRelationshipRepository(pool db.Pool) *PostgresRelationshipRepository {
	return &PostgresRelationshipRepository{pool: pool}
}

// Find returns the relationship row for the triple, or ErrNotFound.
func (r *PostgresRelationshipRepository) Find(ctx context.Context, actorID, targetID string, kind models.RelationKind) (models.Relationship, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Relationship{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, actor_id, target_id, kind, created_at
        FROM relationships
        WHERE actor_id = $1 AND target_id = $2 AND kind = $3
    `, actorID, targetID, kind)

	var rel models.Relationship
	if err := row.Scan(&rel.ID, &rel.ActorID, &rel.TargetID, &rel.Kind, &rel.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Relationship{}, ErrNotFound
		}
		return models.Relationship{}, storeError("select relationship", err)
	}

	return rel, nil
}

// Insert stores a new relationship row. A concurrent insert of the same triple
// trips the unique constraint and returns ErrConflict.
func (r *PostgresRelationshipRepository) Insert(ctx context.Context, rel models.Relationship) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO relationships (id, actor_id, target_id, kind, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `, rel.ID, rel.ActorID, rel.TargetID, rel.Kind, rel.CreatedAt)
	if err != nil {
		return storeError("insert relationship", err)
	}

	return nil
}

// Delete removes the relationship row for the triple. Deleting an absent row
// returns ErrNotFound, which togglers treat as already removed.
func (r *PostgresRelationshipRepository) Delete(ctx context.Context, actorID, targetID string, kind models.RelationKind) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        DELETE FROM relationships
        WHERE actor_id = $1 AND target_id = $2 AND kind = $3
    `, actorID, targetID, kind)
	if err != nil {
		return storeError("delete relationship", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Exists reports whether the actor currently holds a relationship to the target.
func (r *PostgresRelationshipRepository) Exists(ctx context.Context, actorID, targetID string, kind models.RelationKind) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var exists bool
	row := conn.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM relationships
            WHERE actor_id = $1 AND target_id = $2 AND kind = $3
        )
    `, actorID, targetID, kind)
	if err := row.Scan(&exists); err != nil {
		return false, storeError("select relationship existence", err)
	}

	return exists, nil
}

// Count returns the number of relationship rows pointing at the target.
func (r *PostgresRelationshipRepository) Count(ctx context.Context, targetID string, kind models.RelationKind) (int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var count int64
	row := conn.QueryRow(ctx, `
        SELECT COUNT(*) FROM relationships
        WHERE target_id = $1 AND kind = $2
    `, targetID, kind)
	if err := row.Scan(&count); err != nil {
		return 0, storeError("count relationships", err)
	}

	return count, nil
}

// TargetExists reports whether the target of a prospective relationship exists
// in its content table.
func (r *PostgresRelationshipRepository) TargetExists(ctx context.Context, targetID string, kind models.RelationKind) (bool, error) {
	var query string
	switch kind {
	case models.KindVideo:
		query = `SELECT EXISTS (SELECT 1 FROM videos WHERE id = $1)`
	case models.KindComment:
		query = `SELECT EXISTS (SELECT 1 FROM comments WHERE id = $1)`
	case models.KindPost:
		query = `SELECT EXISTS (SELECT 1 FROM community_posts WHERE id = $1)`
	case models.KindChannel:
		query = `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`
	default:
		return false, fmt.Errorf("unknown relation kind %q", kind)
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var exists bool
	if err := conn.QueryRow(ctx, query, targetID).Scan(&exists); err != nil {
		return false, storeError("select target existence", err)
	}

	return exists, nil
}

// ListSubscribers returns one page of a channel's subscribers, newest
// subscription first, each annotated with whether the viewer is subscribed to
// that subscriber's own channel.
func (r *PostgresRelationshipRepository) ListSubscribers(ctx context.Context, channelID, viewerID string, page, limit int) ([]models.ChannelSubscriber, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT u.id, u.username, u.full_name, u.avatar, r.created_at,
               (NULLIF($2, '') IS NOT NULL AND EXISTS (
                   SELECT 1 FROM relationships v
                   WHERE v.actor_id = NULLIF($2, '')::uuid AND v.target_id = u.id AND v.kind = 'channel'
               )) AS is_subscribed
        FROM relationships r
        JOIN users u ON u.id = r.actor_id
        WHERE r.target_id = $1 AND r.kind = 'channel'
        ORDER BY r.created_at DESC, r.id DESC
        OFFSET $3 LIMIT $4
    `, channelID, viewerID, pageOffset(page, limit), limit)
	if err != nil {
		return nil, storeError("query subscribers", err)
	}
	defer rows.Close()

	var subscribers []models.ChannelSubscriber
	for rows.Next() {
		var sub models.ChannelSubscriber
		if err := rows.Scan(&sub.Subscriber.ID, &sub.Subscriber.Username, &sub.Subscriber.FullName,
			&sub.Subscriber.Avatar, &sub.SubscribedAt, &sub.IsSubscribed); err != nil {
			return nil, fmt.Errorf("scan subscriber: %w", err)
		}
		subscribers = append(subscribers, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscribers: %w", err)
	}

	return subscribers, nil
}

// ListLikedVideos returns one page of the videos an actor has liked, most
// recently liked first, joined with each video's owner summary.
func (r *PostgresRelationshipRepository) ListLikedVideos(ctx context.Context, actorID string, page, limit int) ([]models.LikedVideo, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT v.id, v.owner_id, v.title, v.description, v.video_url, v.thumbnail_url,
               v.duration, v.views, v.created_at,
               o.id, o.username, o.full_name, o.avatar,
               r.created_at
        FROM relationships r
        JOIN videos v ON v.id = r.target_id
        JOIN users o ON o.id = v.owner_id
        WHERE r.actor_id = $1 AND r.kind = 'video'
        ORDER BY r.created_at DESC, r.id DESC
        OFFSET $2 LIMIT $3
    `, actorID, pageOffset(page, limit), limit)
	if err != nil {
		return nil, storeError("query liked videos", err)
	}
	defer rows.Close()

	var liked []models.LikedVideo
	for rows.Next() {
		var lv models.LikedVideo
		if err := rows.Scan(&lv.Video.ID, &lv.Video.OwnerID, &lv.Video.Title, &lv.Video.Description,
			&lv.Video.VideoURL, &lv.Video.ThumbnailURL, &lv.Video.Duration, &lv.Video.Views, &lv.Video.CreatedAt,
			&lv.Owner.ID, &lv.Owner.Username, &lv.Owner.FullName, &lv.Owner.Avatar,
			&lv.LikedAt); err != nil {
			return nil, fmt.Errorf("scan liked video: %w", err)
		}
		liked = append(liked, lv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate liked videos: %w", err)
	}

	return liked, nil
}

func pageOffset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}
