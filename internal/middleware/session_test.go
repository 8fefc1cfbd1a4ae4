package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sharathkodoth/backend-project/internal/auth"
)

type stubVerifier struct {
	identity auth.Identity
	err      error

	calls int
	seen  string
}

func (v *stubVerifier) VerifyAccessToken(token string) (auth.Identity, error) {
	v.calls++
	v.seen = token
	if v.err != nil {
		return auth.Identity{}, v.err
	}
	return v.identity, nil
}

func identityEcho(t *testing.T) (http.Handler, *auth.Identity, *bool) {
	t.Helper()
	var captured auth.Identity
	var reached bool
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		if id, ok := auth.IdentityFromContext(r.Context()); ok {
			captured = id
		}
		w.WriteHeader(http.StatusOK)
	})
	return handler, &captured, &reached
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	verifier := &stubVerifier{}
	handler, _, reached := identityEcho(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()

	RequireAuth(verifier)(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d got %d", http.StatusUnauthorized, rec.Code)
	}
	if *reached {
		t.Fatal("handler must not run without a token")
	}
	if verifier.calls != 0 {
		t.Fatal("verifier must not be called without a token")
	}
}

func TestRequireAuthRejectsBadToken(t *testing.T) {
	verifier := &stubVerifier{err: errors.New("bad signature")}
	handler, _, reached := identityEcho(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec := httptest.NewRecorder()

	RequireAuth(verifier)(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d got %d", http.StatusUnauthorized, rec.Code)
	}
	if *reached {
		t.Fatal("handler must not run with a rejected token")
	}
}

func TestRequireAuthAttachesIdentity(t *testing.T) {
	verifier := &stubVerifier{identity: auth.Identity{UserID: "user-1", Username: "alice"}}
	handler, captured, _ := identityEcho(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()

	RequireAuth(verifier)(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}
	if captured.UserID != "user-1" {
		t.Fatalf("expected identity on context, got %+v", captured)
	}
}

func TestBearerTokenHeaderWinsOverCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer from-header")
	req.AddCookie(&http.Cookie{Name: auth.AccessTokenCookie, Value: "from-cookie"})

	if token := BearerToken(req); token != "from-header" {
		t.Fatalf("expected header token to win, got %q", token)
	}
}

func TestBearerTokenFallsBackToCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: auth.AccessTokenCookie, Value: "from-cookie"})

	if token := BearerToken(req); token != "from-cookie" {
		t.Fatalf("expected cookie token, got %q", token)
	}
}

func TestOptionalAuthPassesThroughWithoutToken(t *testing.T) {
	verifier := &stubVerifier{err: errors.New("should not matter")}
	handler, _, reached := identityEcho(t)

	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	rec := httptest.NewRecorder()

	OptionalAuth(verifier)(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}
	if !*reached {
		t.Fatal("public handler should run without a token")
	}
}

func TestOptionalAuthIgnoresInvalidToken(t *testing.T) {
	verifier := &stubVerifier{err: errors.New("expired")}
	handler, captured, reached := identityEcho(t)

	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set("Authorization", "Bearer stale")
	rec := httptest.NewRecorder()

	OptionalAuth(verifier)(handler).ServeHTTP(rec, req)

	if !*reached {
		t.Fatal("public handler should still run")
	}
	if captured.UserID != "" {
		t.Fatalf("expected no identity, got %+v", captured)
	}
}
