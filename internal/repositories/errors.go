package repositories

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict indicates the attempted write would violate a uniqueness constraint.
	ErrConflict = errors.New("record conflict")
	// ErrUnavailable indicates the storage backend could not be reached; the
	// operation is safe to retry with backoff.
	ErrUnavailable = errors.New("storage unavailable")
)

// storeError translates driver failures into the package sentinels so callers
// can branch with errors.Is instead of inspecting pg error codes.
func storeError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505":
			return fmt.Errorf("%s: %w", op, ErrConflict)
		case pgErr.Code == "23503":
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		case strings.HasPrefix(pgErr.Code, "08"), pgErr.Code == "57P01":
			return fmt.Errorf("%s: %w", op, ErrUnavailable)
		}
	}
	if pgconn.Timeout(err) {
		return fmt.Errorf("%s: %w", op, ErrUnavailable)
	}
	return fmt.Errorf("%s: %w", op, err)
}
