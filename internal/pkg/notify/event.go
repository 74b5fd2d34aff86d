package notify

import "context"

// EventType 变更事件类型
type EventType string

const (
	EventContentAdded    EventType = "content.added"
	EventCommentAdded    EventType = "comment.added"
	EventReactionChanged EventType = "reaction.changed"
)

// Event 写操作完成后发出的通知
type Event struct {
	Type      EventType `json:"type"`
	ContentID string    `json:"contentId"`
	Username  string    `json:"username,omitempty"`
	Timestamp int64     `json:"timestamp"`
}

// Publisher 事件发布接口，发布失败只记录日志，不影响写操作
type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

// Nop 丢弃所有事件
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}
