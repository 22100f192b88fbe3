package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/annaclean/cleanmarket-backend/internal/logger"
	"github.com/annaclean/cleanmarket-backend/internal/pkg/apperror"
)

// ErrorHandler обрабатывает ошибки централизованно. Известные ошибки
// превращаются в JSON с подходящим статусом, остальные маскируются как 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		statusCode := http.StatusInternalServerError
		message := "внутренняя ошибка сервера"

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			statusCode = appErr.HTTPStatus
			message = appErr.Message
		}

		entry := logger.WithComponent("http").WithFields(logrus.Fields{
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
			"status": statusCode,
		})
		if statusCode >= http.StatusInternalServerError {
			entry.WithError(err).Error("request failed")
		} else {
			entry.WithError(err).Debug("request rejected")
		}

		c.JSON(statusCode, gin.H{"error": message})
	}
}
