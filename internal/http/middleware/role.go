package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireRoles only lets through requests whose role (set by Auth) is in allowedRoles.
//
//	r.PUT("/participations/:id/approve", Auth(secret), RequireRoles("admin", "superadmin"), handler)
func RequireRoles(allowedRoles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[strings.ToLower(strings.TrimSpace(r))] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString(userRoleKey)
		if role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      "unauthorized: role missing from context",
				"code":       "unauthorized",
				"request_id": GetRequestID(c),
			})
			return
		}

		if _, ok := allowed[strings.ToLower(strings.TrimSpace(role))]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":      "forbidden: role not allowed",
				"code":       "forbidden",
				"request_id": GetRequestID(c),
			})
			return
		}

		c.Next()
	}
}
