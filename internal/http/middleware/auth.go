package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/annaclean/cleanmarket-backend/internal/service"
)

// Context ключи для gin.Context.
const (
	ContextClientIDKey = "clientID"
	ContextIsAdminKey  = "isAdmin"
)

// AuthMiddleware проверяет JWT access токен. Отсутствующий токен даёт 401,
// невалидный или просроченный — 403.
func AuthMiddleware(tokens *service.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "требуется авторизация"})
			return
		}

		raw := strings.TrimPrefix(auth, "Bearer ")
		clientID, isAdmin, err := tokens.ParseAccess(raw)
		if err != nil || clientID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "токен невалиден"})
			return
		}

		c.Set(ContextClientIDKey, clientID)
		c.Set(ContextIsAdminKey, isAdmin)
		c.Next()
	}
}

// RequireAdmin пропускает только администратора.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ContextIsAdminKey) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "недостаточно прав"})
			return
		}
		c.Next()
	}
}
