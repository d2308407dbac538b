package middlewares

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Kariqs/netshop-api/initializers"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var errMissingToken = errors.New("missing bearer token")

func parseBearer(ctx *gin.Context) (jwt.MapClaims, error) {
	header := ctx.GetHeader("Authorization")
	tokenString, found := strings.CutPrefix(header, "Bearer ")
	if !found || tokenString == "" {
		return nil, errMissingToken
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(initializers.Cfg.JWTSecret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// RequireAuth rejects requests without a valid token and stores its claims
// under "user".
func RequireAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		claims, err := parseBearer(ctx)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		ctx.Set("user", claims)
		ctx.Next()
	}
}

// OptionalAuth stores the claims of a valid token and lets anonymous
// requests through. A token that is present but invalid is still rejected.
func OptionalAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		claims, err := parseBearer(ctx)
		switch {
		case err == nil:
			ctx.Set("user", claims)
		case !errors.Is(err, errMissingToken):
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		ctx.Next()
	}
}

// UserID returns the authenticated user's id, if any.
func UserID(ctx *gin.Context) (uint, bool) {
	v, exists := ctx.Get("user")
	if !exists {
		return 0, false
	}
	claims, ok := v.(jwt.MapClaims)
	if !ok {
		return 0, false
	}
	id, ok := claims["user_id"].(float64)
	if !ok || id <= 0 {
		return 0, false
	}
	return uint(id), true
}
