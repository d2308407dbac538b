package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionCookie = "session_key"
	sessionMaxAge = 60 * 60 * 24 * 30
)

// Session makes sure every visitor carries a session_key cookie so an
// anonymous cart can follow them between requests.
func Session() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		key, err := ctx.Cookie(SessionCookie)
		if err != nil || uuid.Validate(key) != nil {
			key = uuid.NewString()
			ctx.SetSameSite(http.SameSiteLaxMode)
			ctx.SetCookie(SessionCookie, key, sessionMaxAge, "/", "", false, true)
		}
		ctx.Set(SessionCookie, key)
		ctx.Next()
	}
}

func SessionKey(ctx *gin.Context) string {
	return ctx.GetString(SessionCookie)
}
