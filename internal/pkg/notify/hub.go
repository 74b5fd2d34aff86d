package notify

import (
	"context"
	"sync"

	"geeknews/pkg/logger"

	"go.uber.org/zap"
)

// Hub 进程内的事件分发
// Publish 不阻塞：订阅者缓冲区满时丢弃该事件
type Hub struct {
	mu     sync.RWMutex
	subs   map[int]chan Event
	nextID int
	buffer int
	closed bool
}

// NewHub buffer 为每个订阅者的缓冲大小
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{
		subs:   make(map[int]chan Event),
		buffer: buffer,
	}
}

// Subscribe 返回事件通道和取消函数，取消后通道会被关闭
func (h *Hub) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, h.buffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}

	id := h.nextID
	h.nextID++
	h.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if sub, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(sub)
			}
		})
	}
	return ch, cancel
}

func (h *Hub) Publish(ctx context.Context, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, ch := range h.subs {
		select {
		case ch <- ev:
		default:
			logger.L().Warn("subscriber buffer full, dropping event",
				zap.Int("subscriber", id),
				zap.String("type", string(ev.Type)),
				zap.String("content_id", ev.ContentID))
		}
	}
}

// Subscribers 当前订阅者数量
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close 关闭所有订阅
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
	h.closed = true
}
