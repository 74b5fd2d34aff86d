package model

// Category 内容分类
type Category string

const (
	CategoryNews  Category = "NEWS"
	CategoryVideo Category = "VIDEO"
)

// Valid 是否为已知分类
func (c Category) Valid() bool {
	return c == CategoryNews || c == CategoryVideo
}

// ReactionKind 表情类型
type ReactionKind string

const (
	ReactionLike    ReactionKind = "LIKE"
	ReactionDislike ReactionKind = "DISLIKE"
	ReactionHappy   ReactionKind = "HAPPY"
	ReactionAngry   ReactionKind = "ANGRY"
)

// ReactionKinds 固定顺序的全部表情
var ReactionKinds = []ReactionKind{ReactionLike, ReactionDislike, ReactionHappy, ReactionAngry}

// Valid 是否为已知表情
func (k ReactionKind) Valid() bool {
	switch k {
	case ReactionLike, ReactionDislike, ReactionHappy, ReactionAngry:
		return true
	}
	return false
}

// ContentItem 新闻或视频，创建后不可修改
type ContentItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"` // 新闻为正文 (Markdown)，视频为简介
	ImageURL    string   `json:"imageUrl"`
	Category    Category `json:"category"`
	VideoURL    string   `json:"videoUrl,omitempty"` // 仅视频
	Timestamp   int64    `json:"timestamp"`          // epoch 毫秒
	Author      string   `json:"author"`
	Tags        []string `json:"tags"`
}

// Comment 评论，只追加
type Comment struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Author    string `json:"author"`
	Timestamp int64  `json:"timestamp"`
}

// ReactionCounts 每种表情的计数
type ReactionCounts map[ReactionKind]int

// NewReactionCounts 四种表情全部为 0
func NewReactionCounts() ReactionCounts {
	counts := make(ReactionCounts, len(ReactionKinds))
	for _, k := range ReactionKinds {
		counts[k] = 0
	}
	return counts
}

// Total 计数总和
func (c ReactionCounts) Total() int {
	total := 0
	for _, k := range ReactionKinds {
		total += c[k]
	}
	return total
}

// CommentCheck 评论校验结果，拒绝不是错误
type CommentCheck struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

// 评论拒绝原因
const (
	ReasonTooShort    = "too short"
	ReasonTooLong     = "too long"
	ReasonLinks       = "links not allowed"
	ReasonRateLimited = "rate limited"
)

// Summary 详情页使用的聚合数据
type Summary struct {
	Reactions    ReactionCounts `json:"reactions"`
	UserReaction *ReactionKind  `json:"userReaction"`
	CommentCount int            `json:"commentCount"`
}
