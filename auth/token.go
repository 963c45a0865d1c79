package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL is both the token lifetime and the cookie max age.
const SessionTTL = 24 * time.Hour

var ErrEmptySecret = errors.New("token signing secret is empty")

// Claims embeds the admin user id next to the registered claims.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 session tokens. It holds no state
// besides the secret.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = SessionTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// TTL returns how long issued tokens stay valid.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

func (s *TokenService) Issue(userID string) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify returns the embedded user id, or false for any token that is
// malformed, expired, or not signed with this secret.
func (s *TokenService) Verify(tokenString string) (string, bool) {
	if tokenString == "" {
		return "", false
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid || claims.UserID == "" {
		return "", false
	}
	return claims.UserID, true
}
