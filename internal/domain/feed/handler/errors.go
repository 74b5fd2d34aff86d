package handler

import (
	"errors"
	"net/http"

	"geeknews/internal/domain/feed/service"
	"geeknews/pkg/logger"
	"geeknews/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// writeError 将业务错误映射为 HTTP 状态码和业务码
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrContentNotFound):
		response.Error(c, http.StatusNotFound, response.ErrContentNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidCategory):
		response.Error(c, http.StatusBadRequest, response.ErrInvalidCategory, err.Error())
	case errors.Is(err, service.ErrMissingVideoURL):
		response.Error(c, http.StatusBadRequest, response.ErrMissingVideoURL, err.Error())
	case errors.Is(err, service.ErrInvalidReaction):
		response.Error(c, http.StatusBadRequest, response.ErrInvalidReaction, err.Error())
	case errors.Is(err, service.ErrMissingFields):
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
	default:
		_ = c.Error(err)
		logger.L().Error("feed request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Internal server error")
	}
}
