package middleware

import (
	"errors"
	"net/http"

	"bitwise74/notes-api/internal/model"
	"bitwise74/notes-api/internal/store"
	"bitwise74/notes-api/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// CookieName is the cookie the auth token travels in
	CookieName = "jwt"

	UserKey   = "user"
	UserIDKey = "userID"
)

// ErrNotVerified is returned by Authenticate for users that haven't verified
// their email yet
var ErrNotVerified = errors.New("email not verified")

// Authenticate runs the three gate checks: the cookie is present, the token
// in it is valid, and its user exists and has a verified email
func Authenticate(c *gin.Context, tokens *security.TokenService, users *store.UserStore) (*model.User, error) {
	tokenStr, err := c.Cookie(CookieName)
	if err != nil || tokenStr == "" {
		return nil, security.ErrTokenMissing
	}

	userID, err := tokens.ValidateAuthToken(tokenStr)
	if err != nil {
		return nil, err
	}

	user, err := users.FindByID(c.Request.Context(), userID)
	if err != nil {
		return nil, err
	}

	if !user.IsEmailVerified {
		return nil, ErrNotVerified
	}

	return user, nil
}

// NewJWTMiddleware guards a route with Authenticate. Every denial answers
// 401 with the same body, a missing cookie, a bad or expired token and an
// unverified email can't be told apart by the client.
func NewJWTMiddleware(tokens *security.TokenService, users *store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetString(RequestIDKey)

		user, err := Authenticate(c, tokens, users)
		if err != nil {
			if !isDenial(err) {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":     "Internal server error",
					"requestID": requestID,
				})

				zap.L().Error("Failed to authenticate request", zap.Error(err), zap.String("requestID", requestID))
				return
			}

			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Unauthorized",
				"requestID": requestID,
			})

			zap.L().Debug("Request denied", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		c.Set(UserKey, user)
		c.Set(UserIDKey, user.ID)
		c.Next()
	}
}

func isDenial(err error) bool {
	return errors.Is(err, security.ErrTokenMissing) ||
		errors.Is(err, security.ErrTokenInvalid) ||
		errors.Is(err, security.ErrTokenExpired) ||
		errors.Is(err, store.ErrNotFound) ||
		errors.Is(err, ErrNotVerified)
}

// CurrentUser returns the user admitted by the JWT middleware
func CurrentUser(c *gin.Context) *model.User {
	return c.MustGet(UserKey).(*model.User)
}
