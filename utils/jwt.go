package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Matthew12-t/UAS-TST/models"
)

var (
	// ErrNoSigningSecret means JWT_SECRET was never configured. Surfaced as a
	// ConfigError on login rather than at startup.
	ErrNoSigningSecret = errors.New("JWT signing secret is not configured")
	// ErrInvalidToken covers malformed, badly signed and expired tokens alike.
	ErrInvalidToken = errors.New("token is invalid or has expired")
	// ErrInvalidIdentity rejects issue requests that do not form a valid
	// {userId, role} pair.
	ErrInvalidIdentity = errors.New("userId and role do not form a valid identity")
)

// Claims carried inside every access token.
type Claims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 bearer tokens. Secret and TTL are
// injected from config; the service itself never reads the environment.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Configured reports whether a signing secret is present.
func (t *TokenService) Configured() bool {
	return len(t.secret) > 0
}

// Issue signs a token embedding {userId, role} with the configured expiry.
func (t *TokenService) Issue(userID, role string) (string, error) {
	if !t.Configured() {
		return "", ErrNoSigningSecret
	}
	if strings.TrimSpace(userID) == "" || !models.ValidRole(role) {
		return "", ErrInvalidIdentity
	}

	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			Subject:   userID,
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify parses and validates a token and returns the identity it carries.
// All failure modes collapse into ErrInvalidToken; callers answer 401 without
// caring why.
func (t *TokenService) Verify(tokenString string) (models.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return t.secret, nil
		})
	if err != nil {
		return models.Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return models.Identity{}, ErrInvalidToken
	}
	if claims.UserID == "" || !models.ValidRole(claims.Role) {
		return models.Identity{}, ErrInvalidToken
	}

	return models.Identity{UserID: claims.UserID, Role: claims.Role}, nil
}
