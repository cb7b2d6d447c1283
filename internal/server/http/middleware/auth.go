package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	pkgAuth "github.com/polkiloo/arkpay/internal/pkg/auth"
)

// AdminSubjectContextKey is a gin context key for the authenticated operator.
const AdminSubjectContextKey = "adminSubject"

// TokenParser resolves a bearer token into its subject.
type TokenParser interface {
	ParseToken(token string) (string, error)
}

// AdminRequired rejects requests without a valid operator token.
func AdminRequired(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
			return
		}

		subject, err := parser.ParseToken(token)
		if err != nil {
			if errors.Is(err, pkgAuth.ErrInvalidToken) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
				return
			}
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		c.Set(AdminSubjectContextKey, subject)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
