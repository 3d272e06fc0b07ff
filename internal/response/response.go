// Package response собирает JSON-ответы в едином конверте {"success": bool, ...}.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Leganyst/dj-booking/internal/service"
)

const (
	CodeValidation = "VALIDATION_ERROR"
	CodeConflict   = "CONFLICT"
	CodeNotFound   = "NOT_FOUND"
	CodeInternal   = "INTERNAL_ERROR"
)

type ErrorBody struct {
	Success       bool     `json:"success"`
	Error         string   `json:"error"`
	Code          string   `json:"code"`
	MissingFields []string `json:"missing_fields,omitempty"`
}

// Success пишет {"success": true} плюс поля payload.
func Success(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

func OK(c *gin.Context, payload gin.H) {
	Success(c, http.StatusOK, payload)
}

func Created(c *gin.Context, payload gin.H) {
	Success(c, http.StatusCreated, payload)
}

func Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorBody{Error: message, Code: code})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, CodeValidation, message)
}

// FromError переводит ошибку сервиса в HTTP-ответ. Текст внутренних
// ошибок наружу не уходит, только в лог.
func FromError(c *gin.Context, log *zap.Logger, err error) {
	var (
		ve *service.ValidationError
		ce *service.ConflictError
		ne *service.NotFoundError
		ie *service.InternalError
	)
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, ErrorBody{
			Error:         ve.Message,
			Code:          CodeValidation,
			MissingFields: ve.MissingFields,
		})
	case errors.As(err, &ce):
		Error(c, http.StatusConflict, CodeConflict, ce.Message)
	case errors.As(err, &ne):
		Error(c, http.StatusNotFound, CodeNotFound, ne.Error())
	case errors.As(err, &ie):
		log.Error("request failed", zap.String("path", c.FullPath()), zap.String("detail", ie.Detail()))
		Error(c, http.StatusInternalServerError, CodeInternal, ie.Error())
	default:
		log.Error("unexpected error", zap.String("path", c.FullPath()), zap.Error(err))
		Error(c, http.StatusInternalServerError, CodeInternal, (&service.InternalError{}).Error())
	}
	_ = c.Error(err)
}
