package common

import (
	"context"
	"errors"
	"net/http"
	"time"

	"geeknews/pkg/kv"
	"geeknews/pkg/logger"
	"geeknews/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// healthProbeKey 探测存储可用性时读取的 key，不存在也视为正常
const healthProbeKey = "healthz"

// HealthStatus 健康检查结果
type HealthStatus struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
	Time    int64  `json:"time"`
}

// HealthHandler 存储后端可读时返回 200，否则 503
func HealthHandler(store kv.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := HealthStatus{Status: "ok", Storage: "ok", Time: time.Now().UnixMilli()}
		if _, err := store.Get(ctx, healthProbeKey); err != nil && !errors.Is(err, kv.ErrNotFound) {
			logger.L().Warn("health check failed", zap.Error(err))
			status.Status = "degraded"
			status.Storage = err.Error()
			response.Reject(c, http.StatusServiceUnavailable, response.ErrServerInternal, "storage unavailable", status)
			return
		}

		response.Success(c, status)
	}
}
