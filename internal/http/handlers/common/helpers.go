package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/annaclean/cleanmarket-backend/internal/dto"
	"github.com/annaclean/cleanmarket-backend/internal/http/middleware"
	"github.com/annaclean/cleanmarket-backend/internal/logger"
	"github.com/annaclean/cleanmarket-backend/internal/pkg/apperror"
)

var (
	// ErrClientNotInContext возвращается, когда клиент не найден в контексте.
	ErrClientNotInContext = errors.New("клиент не найден в контексте")

	// ErrInvalidUUID возвращается при ошибке разбора UUID.
	ErrInvalidUUID = errors.New("неверный формат UUID")
)

// CurrentClientID извлекает идентификатор клиента из контекста.
func CurrentClientID(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get(middleware.ContextClientIDKey)
	if !exists {
		return uuid.Nil, ErrClientNotInContext
	}

	clientID, ok := raw.(uuid.UUID)
	if !ok {
		return uuid.Nil, ErrClientNotInContext
	}

	return clientID, nil
}

// IsAdmin извлекает флаг администратора из контекста.
func IsAdmin(c *gin.Context) bool {
	return c.GetBool(middleware.ContextIsAdminKey)
}

// ParseUUIDParam разбирает UUID из параметра маршрута.
func ParseUUIDParam(c *gin.Context, paramName string) (uuid.UUID, error) {
	param := c.Param(paramName)
	if param == "" {
		return uuid.Nil, fmt.Errorf("параметр %s отсутствует", paramName)
	}

	parsed, err := uuid.Parse(param)
	if err != nil {
		return uuid.Nil, ErrInvalidUUID
	}

	return parsed, nil
}

// RespondError отправляет стандартный ответ с ошибкой.
func RespondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.ErrorResponse{Error: message})
}

// RespondAppError превращает ошибку бизнес-слоя в HTTP ответ. Известные
// ошибки отдают своё сообщение и статус, остальные маскируются как 500.
func RespondAppError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		RespondError(c, appErr.HTTPStatus, appErr.Message)
		return
	}

	logger.WithComponent("http").WithError(err).
		WithField("path", c.Request.URL.Path).Error("unhandled error")
	RespondError(c, http.StatusInternalServerError, "внутренняя ошибка сервера")
}

// RespondSuccess отправляет стандартный ответ об успехе.
func RespondSuccess(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, dto.SuccessResponse{
		Message: message,
		Data:    data,
	})
}
