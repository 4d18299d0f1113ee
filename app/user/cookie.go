// Package user contains the account endpoints
package user

import (
	"net/http"

	"bitwise74/notes-api/internal"
	"bitwise74/notes-api/pkg/middleware"

	"github.com/gin-gonic/gin"
)

func setAuthCookie(c *gin.Context, d *internal.Deps, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.CookieName, token, int(d.Tokens.TTL.Seconds()), "/", "", d.SecureCookies, true)
}

// clearAuthCookie only removes the cookie from the client. The token
// itself stays valid until it expires.
func clearAuthCookie(c *gin.Context, d *internal.Deps) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.CookieName, "", -1, "/", "", d.SecureCookies, true)
}
