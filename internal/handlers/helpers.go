package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/sharathkodoth/backend-project/internal/auth"
	"github.com/sharathkodoth/backend-project/internal/logging"
	"github.com/sharathkodoth/backend-project/internal/relationships"
	"github.com/sharathkodoth/backend-project/internal/repositories"
)

// ErrForbidden indicates an authenticated caller acting on a resource they do
// not own.
var ErrForbidden = errors.New("forbidden")

// ErrMissingUpload indicates a multipart request without a required file part.
var ErrMissingUpload = errors.New("missing upload")

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "response", payload)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "response", payload)
	}
}

// respondError maps a failure from the core services onto its transport status
// and emits a stable error body. The message is client-facing; the underlying
// error only reaches the logs.
func respondError(ctx context.Context, w http.ResponseWriter, err error, message string) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		logging.FromContext(ctx).Error(message, "error", err, "status", status)
	} else {
		logging.FromContext(ctx).Warn(message, "error", err, "status", status)
	}
	respondJSON(ctx, w, status, map[string]string{"error": message})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, relationships.ErrInvalidTarget), errors.Is(err, relationships.ErrUnknownKind), errors.Is(err, ErrMissingUpload):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenExpired), errors.Is(err, auth.ErrTokenReused):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, repositories.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repositories.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, repositories.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// parsePagination reads page and limit query parameters, clamping them to sane
// bounds. Offset is (page-1)*limit, computed by the repositories.
func parsePagination(r *http.Request) (page, limit int) {
	page = 1
	limit = defaultPageLimit

	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			page = v
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func allowRequest(limiter RateLimiter, r *http.Request, scope string) bool {
	if limiter == nil {
		return true
	}
	return limiter.Allow(rateLimitKey(r, scope))
}

func rateLimitKey(r *http.Request, scope string) string {
	ip := clientIP(r)
	if scope == "" {
		return ip
	}
	return fmt.Sprintf("%s:%s", scope, ip)
}

func clientIP(r *http.Request) string {
	if forwarded := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	return strings.TrimSpace(r.RemoteAddr)
}
