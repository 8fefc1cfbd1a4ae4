// Package relationships implements the toggleable actor-to-target relation
// behind likes and subscriptions. One code path serves every target kind; the
// storage layer's unique constraint on the (actor, target, kind) triple keeps
// racing toggles from ever producing a duplicate row.
package relationships

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sharathkodoth/backend-project/internal/logging"
	"github.com/sharathkodoth/backend-project/internal/models"
	"github.com/sharathkodoth/backend-project/internal/repositories"
)

var (
	// ErrInvalidTarget indicates the target id is not a well-formed identifier.
	ErrInvalidTarget = errors.New("invalid target id")
	// ErrUnknownKind indicates an unsupported relation kind.
	ErrUnknownKind = errors.New("unknown relation kind")
)

// State reports which way a toggle flipped.
type State string

const (
	StateAdded   State = "added"
	StateRemoved State = "removed"
)

// ToggleResult describes the outcome of a toggle. Relationship is set only
// when State is StateAdded.
type ToggleResult struct {
	State        State               `json:"state"`
	Relationship *models.Relationship `json:"relationship,omitempty"`
}

// Repository is the persistence contract for relationship rows.
type Repository interface {
	Find(ctx context.Context, actorID, targetID string, kind models.RelationKind) (models.Relationship, error)
	Insert(ctx context.Context, rel models.Relationship) error
	Delete(ctx context.Context, actorID, targetID string, kind models.RelationKind) error
	Exists(ctx context.Context, actorID, targetID string, kind models.RelationKind) (bool, error)
}

// TargetChecker resolves whether the content a relationship would point at exists.
type TargetChecker interface {
	TargetExists(ctx context.Context, targetID string, kind models.RelationKind) (bool, error)
}

// Store flips relationship existence for (actor, target, kind) triples.
type Store struct {
	repo    Repository
	targets TargetChecker
	now     func() time.Time
}

// NewStore constructs a relationship store.
func NewStore(repo Repository, targets TargetChecker) *Store {
	if repo == nil {
		panic("relationships: repository must not be nil")
	}
	if targets == nil {
		panic("relationships: target checker must not be nil")
	}
	return &Store{
		repo:    repo,
		targets: targets,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Toggle creates the relationship if it is absent and removes it if present.
// The actor id always comes from the authenticated identity, never from client
// input, so deletion only ever touches the caller's own row. Toggle is safe to
// retry blindly: a race lost on either branch resolves to the surviving state
// instead of an error.
func (s *Store) Toggle(ctx context.Context, actorID, targetID string, kind models.RelationKind) (ToggleResult, error) {
	ctx, span := logging.StartSpan(ctx, "relationships.toggle")
	defer span.End()

	if actorID == "" {
		return ToggleResult{}, errors.New("actor id must be provided")
	}
	if !kind.Valid() {
		return ToggleResult{}, fmt.Errorf("%q: %w", kind, ErrUnknownKind)
	}
	if _, err := uuid.Parse(targetID); err != nil {
		return ToggleResult{}, fmt.Errorf("%q: %w", targetID, ErrInvalidTarget)
	}

	_, err := s.repo.Find(ctx, actorID, targetID, kind)
	switch {
	case err == nil:
		if err := s.repo.Delete(ctx, actorID, targetID, kind); err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return ToggleResult{}, fmt.Errorf("toggle off: %w", err)
		}
		// A concurrent toggle that deleted the row first leaves nothing to
		// do; either way the relationship is gone.
		return ToggleResult{State: StateRemoved}, nil
	case !errors.Is(err, repositories.ErrNotFound):
		return ToggleResult{}, fmt.Errorf("toggle lookup: %w", err)
	}

	exists, err := s.targets.TargetExists(ctx, targetID, kind)
	if err != nil {
		return ToggleResult{}, fmt.Errorf("check target: %w", err)
	}
	if !exists {
		return ToggleResult{}, fmt.Errorf("%s %s: %w", kind, targetID, repositories.ErrNotFound)
	}

	rel := models.Relationship{
		ID:        uuid.NewString(),
		ActorID:   actorID,
		TargetID:  targetID,
		Kind:      kind,
		CreatedAt: s.now(),
	}
	if err := s.repo.Insert(ctx, rel); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return s.resolveRace(ctx, actorID, targetID, kind)
		}
		return ToggleResult{}, fmt.Errorf("toggle on: %w", err)
	}

	return ToggleResult{State: StateAdded, Relationship: &rel}, nil
}

// IsActive reports whether the actor currently holds the relationship. Used to
// decorate single-item detail views.
func (s *Store) IsActive(ctx context.Context, actorID, targetID string, kind models.RelationKind) (bool, error) {
	if actorID == "" {
		return false, nil
	}
	return s.repo.Exists(ctx, actorID, targetID, kind)
}

// resolveRace handles an insert that lost to a concurrent identical toggle. The
// surviving row (or its absence, if a still later toggle removed it) is the
// truth; report that instead of failing the caller.
func (s *Store) resolveRace(ctx context.Context, actorID, targetID string, kind models.RelationKind) (ToggleResult, error) {
	current, err := s.repo.Find(ctx, actorID, targetID, kind)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ToggleResult{State: StateRemoved}, nil
		}
		return ToggleResult{}, fmt.Errorf("toggle race lookup: %w", err)
	}
	return ToggleResult{State: StateAdded, Relationship: &current}, nil
}
