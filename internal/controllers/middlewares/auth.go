package middlewares

import (
	"net/http"
	"strings"

	"github.com/MihaiMusteata/url-shortener/internal/tokens"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CurrentUserKey ключ в контексте gin под которым лежит uuid.UUID пользователя.
const CurrentUserKey = "currentUserID"

const bearerPrefix = "Bearer "

// AuthMiddleware проверяет Bearer токен и кладет идентификатор пользователя в контекст.
// Механика выдачи токенов живет во внешнем сервисе авторизации, здесь только проверка.
func AuthMiddleware(jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := tokens.ValidateAccessJWT(strings.TrimPrefix(header, bearerPrefix), jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		userID, parseErr := uuid.Parse(claims.UserID)
		if parseErr != nil || userID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(CurrentUserKey, userID)
		c.Next()
	}
}

// CurrentUser достает идентификатор пользователя из контекста gin.
func CurrentUser(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(CurrentUserKey)
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := v.(uuid.UUID)
	return userID, ok
}
