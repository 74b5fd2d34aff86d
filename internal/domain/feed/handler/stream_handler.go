package handler

import (
	"io"
	"time"

	"geeknews/internal/pkg/notify"
	"geeknews/pkg/metrics"

	"github.com/gin-gonic/gin"
)

const defaultHeartbeat = 15 * time.Second

// StreamHandler 以 SSE 推送内容变更事件
type StreamHandler struct {
	hub       *notify.Hub
	metrics   *metrics.MetricsCollector
	heartbeat time.Duration
}

// NewStreamHandler heartbeat <= 0 时使用默认间隔
func NewStreamHandler(hub *notify.Hub, mc *metrics.MetricsCollector, heartbeat time.Duration) *StreamHandler {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	return &StreamHandler{hub: hub, metrics: mc, heartbeat: heartbeat}
}

// Stream 事件名为事件类型，数据为事件 JSON
// @Summary 变更事件流
// @Tags Feed
// @Produce text/event-stream
// @Router /api/v1/feed/stream [get]
func (h *StreamHandler) Stream(c *gin.Context) {
	events, cancel := h.hub.Subscribe()
	defer cancel()

	h.metrics.StreamClientConnected()
	defer h.metrics.StreamClientDisconnected()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	done := c.Request.Context().Done()
	c.SSEvent("ready", gin.H{"timestamp": time.Now().UnixMilli()})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-done:
			return false
		case ev, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(string(ev.Type), ev)
			return true
		case t := <-ticker.C:
			c.SSEvent("ping", gin.H{"timestamp": t.UnixMilli()})
			return true
		}
	})
}
