package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sharathkodoth/backend-project/internal/models"
)

var (
	// ErrInvalidToken indicates the presented token is malformed or carries a bad signature.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired indicates the presented token is past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenReused indicates a refresh token that no longer matches the stored
	// credential: it was rotated out and is being replayed.
	ErrTokenReused = errors.New("refresh token superseded")
)

// CredentialStore persists the single currently-valid refresh credential per account.
type CredentialStore interface {
	FindByID(ctx context.Context, id string) (models.User, error)
	UpdateCredential(ctx context.Context, id, refreshToken string) error
}

// TokenService issues and verifies the signed session tokens. Access tokens are
// self-contained; refresh tokens are additionally checked against the account's
// stored credential so that rotation invalidates every earlier refresh token.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration

	creds CredentialStore
	now   func() time.Time
}

// NewTokenService constructs a TokenService with the provided signing secrets and TTLs.
func NewTokenService(accessSecret, refreshSecret []byte, accessTTL, refreshTTL time.Duration, creds CredentialStore) *TokenService {
	if len(accessSecret) == 0 || len(refreshSecret) == 0 {
		panic("auth: signing secrets must not be empty")
	}
	if creds == nil {
		panic("auth: credential store must not be nil")
	}
	return &TokenService{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		creds:         creds,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// IssueAccessToken signs a short-lived token carrying the account id and
// denormalized profile claims.
func (s *TokenService) IssueAccessToken(user models.User) (string, time.Time, error) {
	if user.ID == "" {
		return "", time.Time{}, errors.New("user id must be provided")
	}

	now := s.now()
	expiresAt := now.Add(s.accessTTL)
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"email":    user.Email,
		"fullName": user.FullName,
		"iat":      now.Unix(),
		"exp":      expiresAt.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.accessSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	return signed, expiresAt, nil
}

// IssueRefreshToken signs a long-lived token carrying only the account id. The
// random jti keeps two rotations within the same second from producing equal
// token values.
func (s *TokenService) IssueRefreshToken(userID string) (string, time.Time, error) {
	if userID == "" {
		return "", time.Time{}, errors.New("user id must be provided")
	}

	jti, err := randomJTI()
	if err != nil {
		return "", time.Time{}, err
	}

	now := s.now()
	expiresAt := now.Add(s.refreshTTL)
	claims := jwt.MapClaims{
		"sub": userID,
		"jti": jti,
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.refreshSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return signed, expiresAt, nil
}

// VerifyAccessToken validates signature and expiry and returns the embedded
// identity. It never touches storage.
func (s *TokenService) VerifyAccessToken(raw string) (Identity, error) {
	claims, err := s.parse(raw, s.accessSecret)
	if err != nil {
		return Identity{}, err
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return Identity{}, ErrInvalidToken
	}

	return Identity{
		UserID:   sub,
		Username: stringClaim(claims, "username"),
		Email:    stringClaim(claims, "email"),
		FullName: stringClaim(claims, "fullName"),
	}, nil
}

// VerifyRefreshToken validates signature and expiry, then requires the token to
// equal the account's stored credential. A signed, unexpired token that fails
// the equality check was rotated out and is being replayed.
func (s *TokenService) VerifyRefreshToken(raw, storedCredential string) (string, error) {
	claims, err := s.parse(raw, s.refreshSecret)
	if err != nil {
		return "", err
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrInvalidToken
	}

	if storedCredential == "" || subtle.ConstantTimeCompare([]byte(raw), []byte(storedCredential)) != 1 {
		return "", ErrTokenReused
	}

	return sub, nil
}

// Rotate issues a fresh token pair for the account and overwrites the stored
// refresh credential before returning. Whatever refresh token was valid before
// the call is unusable once Rotate returns; when rotations race, the last
// writer wins and earlier winners' tokens fail verification.
func (s *TokenService) Rotate(ctx context.Context, userID string) (models.SessionTokens, error) {
	user, err := s.creds.FindByID(ctx, userID)
	if err != nil {
		return models.SessionTokens{}, fmt.Errorf("load account: %w", err)
	}
	return s.rotate(ctx, user)
}

// Refresh exchanges a presented refresh token for a new session token pair,
// rotating the stored credential in the process.
func (s *TokenService) Refresh(ctx context.Context, raw string) (models.SessionTokens, error) {
	claims, err := s.parse(raw, s.refreshSecret)
	if err != nil {
		return models.SessionTokens{}, err
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return models.SessionTokens{}, ErrInvalidToken
	}

	user, err := s.creds.FindByID(ctx, sub)
	if err != nil {
		return models.SessionTokens{}, fmt.Errorf("load account: %w", err)
	}

	if _, err := s.VerifyRefreshToken(raw, user.RefreshToken); err != nil {
		return models.SessionTokens{}, err
	}

	return s.rotate(ctx, user)
}

// Revoke clears the account's stored refresh credential, ending its session.
func (s *TokenService) Revoke(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.New("user id must be provided")
	}
	if err := s.creds.UpdateCredential(ctx, userID, ""); err != nil {
		return fmt.Errorf("clear refresh credential: %w", err)
	}
	return nil
}

func (s *TokenService) rotate(ctx context.Context, user models.User) (models.SessionTokens, error) {
	accessToken, accessExpiresAt, err := s.IssueAccessToken(user)
	if err != nil {
		return models.SessionTokens{}, err
	}

	refreshToken, refreshExpiresAt, err := s.IssueRefreshToken(user.ID)
	if err != nil {
		return models.SessionTokens{}, err
	}

	if err := s.creds.UpdateCredential(ctx, user.ID, refreshToken); err != nil {
		return models.SessionTokens{}, fmt.Errorf("store refresh credential: %w", err)
	}

	return models.SessionTokens{
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExpiresAt,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExpiresAt,
	}, nil
}

func (s *TokenService) parse(raw string, secret []byte) (jwt.MapClaims, error) {
	if raw == "" {
		return nil, ErrInvalidToken
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	value, _ := claims[key].(string)
	return value
}

func randomJTI() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate jti: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
