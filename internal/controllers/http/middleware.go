package http

import (
	"net/http"
	"strings"

	"ecommerce-backend/internal/domain"
	"ecommerce-backend/internal/services"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// AuthRequired resolves the bearer token into an Identity once per request.
// Handlers downstream read the tagged Identity and never see the token.
func AuthRequired(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, err := auth.Authenticate(c.Request.Context(), bearerToken(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Missing or invalid token"})
			return
		}
		c.Set(identityKey, ident)
		c.Next()
	}
}

// UserOnly rejects vendor sessions on user-scoped routes.
func UserOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !identityFrom(c).IsUser() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Unauthorized"})
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func identityFrom(c *gin.Context) domain.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return domain.Identity{}
	}
	ident, _ := v.(domain.Identity)
	return ident
}
