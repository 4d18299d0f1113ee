package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultTokenTTL = 24 * time.Hour

var (
	ErrTokenMissing = errors.New("token missing")
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

// AuthClaims is the payload of an auth token. Tokens are stateless, a
// token stays valid until it expires even after the user logs out.
type AuthClaims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// TokenService issues and validates HS256 signed auth tokens and
// password reset tokens with the same server secret
type TokenService struct {
	secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	return &TokenService{
		secret: []byte(secret),
		TTL:    ttl,
		Now:    time.Now,
	}
}

func (s *TokenService) IssueAuthToken(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("no user ID provided")
	}

	now := s.Now()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &AuthClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
		},
	})

	return t.SignedString(s.secret)
}

// ValidateAuthToken returns the user ID the token was issued for. The
// returned error is one of ErrTokenMissing, ErrTokenExpired or
// ErrTokenInvalid (possibly wrapped).
func (s *TokenService) ValidateAuthToken(tokenStr string) (string, error) {
	if tokenStr == "" {
		return "", ErrTokenMissing
	}

	var claims AuthClaims

	_, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.Now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}

		return "", fmt.Errorf("%w, %v", ErrTokenInvalid, err)
	}

	if claims.UserID == "" {
		return "", ErrTokenInvalid
	}

	return claims.UserID, nil
}
