package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/domain"
)

const (
	userIDKey   = "userID"
	userRoleKey = "userRole"
)

// Auth requires a valid HS256 bearer token carrying user_id and role claims and
// stores both on the context for RequireRoles and the handlers.
func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			abortUnauthorized(c, "missing bearer token")
			return
		}

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(strings.TrimSpace(raw), claims, func(t *jwt.Token) (any, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		userID, err := claimInt64(claims["user_id"])
		if err != nil || userID <= 0 {
			abortUnauthorized(c, "token has no user_id")
			return
		}
		role, _ := claims["role"].(string)

		c.Set(userIDKey, userID)
		c.Set(userRoleKey, strings.ToLower(strings.TrimSpace(role)))
		c.Next()
	}
}

// ActorFromContext returns the authenticated identity, or nil when the request
// carries none.
func ActorFromContext(c *gin.Context) *domain.Actor {
	v, ok := c.Get(userIDKey)
	if !ok {
		return nil
	}
	id, ok := v.(int64)
	if !ok || id <= 0 {
		return nil
	}
	return &domain.Actor{UserID: id, Role: c.GetString(userRoleKey)}
}

// IssueToken signs a token in the format Auth accepts.
func IssueToken(secret []byte, userID int64, role string, claims jwt.MapClaims) (string, error) {
	all := jwt.MapClaims{"user_id": userID, "role": role}
	for k, v := range claims {
		all[k] = v
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, all).SignedString(secret)
}

func claimInt64(v any) (int64, error) {
	switch n := v.(type) {
	case float64:
		return int64(n), nil
	case int64:
		return n, nil
	case string:
		return strconv.ParseInt(n, 10, 64)
	case nil:
		return 0, errors.New("claim missing")
	}
	return 0, fmt.Errorf("unsupported claim type %T", v)
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":      "unauthorized: " + msg,
		"code":       "unauthorized",
		"request_id": GetRequestID(c),
	})
}
