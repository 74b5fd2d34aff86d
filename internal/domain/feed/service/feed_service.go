package service

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"geeknews/internal/domain/feed/model"
	"geeknews/internal/domain/feed/repository"
	"geeknews/internal/pkg/notify"
	"geeknews/pkg/logger"
	"geeknews/pkg/metrics"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

var (
	ErrContentNotFound = errors.New("content not found")
	ErrInvalidReaction = errors.New("invalid reaction type")
	ErrInvalidCategory = errors.New("invalid category")
	ErrMissingVideoURL = errors.New("video content requires a video URL")
	ErrMissingFields   = errors.New("title and description are required")
)

// linkPattern 评论中不允许出现链接
var linkPattern = regexp.MustCompile(`(?i)(https?://|www\.)`)

// FeedService 内容、评论与表情
type FeedService interface {
	ListContent(ctx context.Context) ([]model.ContentItem, error)
	ListFeed(ctx context.Context, category model.Category) ([]model.ContentItem, error)
	GetContent(ctx context.Context, id string) (*model.ContentItem, error)
	AddContent(ctx context.Context, item model.ContentItem) error

	GetComments(ctx context.Context, contentID string) ([]model.Comment, error)
	CanUserComment(ctx context.Context, contentID, username, text string) (model.CommentCheck, error)
	AddComment(ctx context.Context, contentID string, comment model.Comment) error
	SubmitComment(ctx context.Context, contentID, username, text string) (*model.Comment, model.CommentCheck, error)

	GetReactions(ctx context.Context, contentID string) (model.ReactionCounts, error)
	GetUserReaction(ctx context.Context, contentID, username string) (*model.ReactionKind, error)
	SetUserReaction(ctx context.Context, contentID, username string, kind model.ReactionKind) (model.ReactionCounts, error)

	Summary(ctx context.Context, contentID, username string) (*model.Summary, error)
}

// CommentRules 评论长度与频率限制
type CommentRules struct {
	MinLength int
	MaxLength int
	Interval  time.Duration
}

// DefaultCommentRules 3~300 个字符，同一用户同一内容 15 秒一条
var DefaultCommentRules = CommentRules{MinLength: 3, MaxLength: 300, Interval: 15 * time.Second}

// Options 可选依赖，零值可用
type Options struct {
	Rules   CommentRules
	Now     func() time.Time
	Events  notify.Publisher
	Metrics *metrics.MetricsCollector
}

type feedService struct {
	repo    repository.FeedRepository
	rules   CommentRules
	now     func() time.Time
	events  notify.Publisher
	metrics *metrics.MetricsCollector

	// 串行化本进程内的读-改-写；多进程共享同一后端时仍可能丢失更新
	mu sync.Mutex
}

func NewFeedService(repo repository.FeedRepository, opts Options) FeedService {
	s := &feedService{
		repo:    repo,
		rules:   opts.Rules,
		now:     opts.Now,
		events:  opts.Events,
		metrics: opts.Metrics,
	}
	if s.rules == (CommentRules{}) {
		s.rules = DefaultCommentRules
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.events == nil {
		s.events = notify.Nop{}
	}
	return s
}

func (s *feedService) nowMillis() int64 {
	return s.now().UnixMilli()
}

// --- Content ---

func (s *feedService) ListContent(ctx context.Context) ([]model.ContentItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadContent(ctx)
}

// loadContent 内容表不存在时写入示例数据
func (s *feedService) loadContent(ctx context.Context) ([]model.ContentItem, error) {
	items, found, err := s.repo.LoadContent(ctx)
	if err != nil {
		return nil, err
	}
	if found {
		return items, nil
	}

	seeded := seedContent(s.nowMillis())
	if err := s.repo.SaveContent(ctx, seeded); err != nil {
		return nil, err
	}
	logger.L().Info("content table seeded", zap.Int("items", len(seeded)))
	return seeded, nil
}

// ListFeed 按时间倒序，category 为空时返回全部
func (s *feedService) ListFeed(ctx context.Context, category model.Category) ([]model.ContentItem, error) {
	if category != "" && !category.Valid() {
		return nil, ErrInvalidCategory
	}

	items, err := s.ListContent(ctx)
	if err != nil {
		return nil, err
	}

	if category != "" {
		items = lo.Filter(items, func(item model.ContentItem, _ int) bool {
			return item.Category == category
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp > items[j].Timestamp
	})
	return items, nil
}

func (s *feedService) GetContent(ctx context.Context, id string) (*model.ContentItem, error) {
	items, err := s.ListContent(ctx)
	if err != nil {
		return nil, err
	}

	item, ok := lo.Find(items, func(item model.ContentItem) bool {
		return item.ID == id
	})
	if !ok {
		return nil, ErrContentNotFound
	}
	return &item, nil
}

// AddContent 插入到最前面，不做校验
func (s *feedService) AddContent(ctx context.Context, item model.ContentItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.loadContent(ctx)
	if err != nil {
		return err
	}

	updated := append([]model.ContentItem{item}, current...)
	if err := s.repo.SaveContent(ctx, updated); err != nil {
		return err
	}

	s.metrics.RecordContentPublished(string(item.Category))
	s.events.Publish(ctx, notify.Event{
		Type:      notify.EventContentAdded,
		ContentID: item.ID,
		Username:  item.Author,
		Timestamp: s.nowMillis(),
	})
	return nil
}

// --- Comment ---

// GetComments 新的在前，没有评论时返回空切片
func (s *feedService) GetComments(ctx context.Context, contentID string) ([]model.Comment, error) {
	table, err := s.repo.LoadComments(ctx)
	if err != nil {
		return nil, err
	}

	comments := table[contentID]
	if comments == nil {
		return []model.Comment{}, nil
	}
	return comments, nil
}

// CanUserComment 只做检查，不写入任何数据
func (s *feedService) CanUserComment(ctx context.Context, contentID, username, text string) (model.CommentCheck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkComment(ctx, contentID, username, text)
}

func (s *feedService) checkComment(ctx context.Context, contentID, username, text string) (model.CommentCheck, error) {
	trimmed := strings.TrimSpace(text)
	length := utf8.RuneCountInString(trimmed)

	// 1. 长度
	if length < s.rules.MinLength {
		return model.CommentCheck{Reason: model.ReasonTooShort}, nil
	}
	if length > s.rules.MaxLength {
		return model.CommentCheck{Reason: model.ReasonTooLong}, nil
	}

	// 2. 链接
	if linkPattern.MatchString(trimmed) {
		return model.CommentCheck{Reason: model.ReasonLinks}, nil
	}

	// 3. 频率
	last, err := s.repo.LoadCommentLast(ctx)
	if err != nil {
		return model.CommentCheck{}, err
	}
	if ts, ok := last[repository.CommentLastKey(contentID, username)]; ok {
		if s.nowMillis()-ts < s.rules.Interval.Milliseconds() {
			return model.CommentCheck{Reason: model.ReasonRateLimited}, nil
		}
	}

	return model.CommentCheck{OK: true}, nil
}

// AddComment 不再校验，直接写入并更新节流索引
func (s *feedService) AddComment(ctx context.Context, contentID string, comment model.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addComment(ctx, contentID, comment)
}

func (s *feedService) addComment(ctx context.Context, contentID string, comment model.Comment) error {
	now := s.nowMillis()
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	if comment.Timestamp == 0 {
		comment.Timestamp = now
	}

	// 1. 先写节流索引：评论写入失败后重试会被限流，不会产生重复评论
	last, err := s.repo.LoadCommentLast(ctx)
	if err != nil {
		return err
	}
	key := repository.CommentLastKey(contentID, comment.Author)
	prevTS, hadPrev := last[key]
	last[key] = now
	if err := s.repo.SaveCommentLast(ctx, last); err != nil {
		return err
	}

	// 2. 写评论，失败时撤销节流索引
	comments, err := s.repo.LoadComments(ctx)
	if err == nil {
		comments[contentID] = append([]model.Comment{comment}, comments[contentID]...)
		err = s.repo.SaveComments(ctx, comments)
	}
	if err != nil {
		if hadPrev {
			last[key] = prevTS
		} else {
			delete(last, key)
		}
		if rbErr := s.repo.SaveCommentLast(ctx, last); rbErr != nil {
			logger.L().Error("restore comment throttle failed",
				zap.String("content_id", contentID), zap.Error(rbErr))
		}
		return err
	}

	s.metrics.RecordComment("accepted")
	s.events.Publish(ctx, notify.Event{
		Type:      notify.EventCommentAdded,
		ContentID: contentID,
		Username:  comment.Author,
		Timestamp: now,
	})
	return nil
}

// SubmitComment 在同一把锁内完成检查和写入
// 被拒绝时返回 nil 评论和拒绝原因，err 只表示存储错误
func (s *feedService) SubmitComment(ctx context.Context, contentID, username, text string) (*model.Comment, model.CommentCheck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	check, err := s.checkComment(ctx, contentID, username, text)
	if err != nil {
		return nil, check, err
	}
	if !check.OK {
		s.metrics.RecordComment(check.Reason)
		return nil, check, nil
	}

	comment := model.Comment{
		ID:        uuid.New().String(),
		Content:   strings.TrimSpace(text),
		Author:    username,
		Timestamp: s.nowMillis(),
	}
	if err := s.addComment(ctx, contentID, comment); err != nil {
		return nil, check, err
	}
	return &comment, check, nil
}

// --- Reaction ---

// GetReactions 没有记录时四种表情均为 0
func (s *feedService) GetReactions(ctx context.Context, contentID string) (model.ReactionCounts, error) {
	table, err := s.repo.LoadReactions(ctx)
	if err != nil {
		return nil, err
	}
	return normalizeCounts(table[contentID]), nil
}

func (s *feedService) GetUserReaction(ctx context.Context, contentID, username string) (*model.ReactionKind, error) {
	table, err := s.repo.LoadUserReactions(ctx)
	if err != nil {
		return nil, err
	}

	kind, ok := table[contentID][username]
	if !ok || kind == "" {
		return nil, nil
	}
	return &kind, nil
}

// SetUserReaction 每个用户对每条内容最多一个表情，可以切换但不能取消
// 重复点击同一个表情不产生任何变化
func (s *feedService) SetUserReaction(ctx context.Context, contentID, username string, kind model.ReactionKind) (model.ReactionCounts, error) {
	if !kind.Valid() {
		return nil, ErrInvalidReaction
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// 1. 读取当前计数和用户之前的选择
	reactions, err := s.repo.LoadReactions(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.repo.LoadUserReactions(ctx)
	if err != nil {
		return nil, err
	}

	counts := normalizeCounts(reactions[contentID])
	previous := users[contentID][username]

	if previous == kind {
		return counts, nil
	}

	// 2. 切换时旧表情减一，不小于 0
	if previous != "" {
		counts[previous] = max(0, counts[previous]-1)
	}

	// 3. 先记录用户选择：计数写入失败后重试是空操作，不会重复累加
	if users[contentID] == nil {
		users[contentID] = make(map[string]model.ReactionKind)
	}
	users[contentID][username] = kind
	if err := s.repo.SaveUserReactions(ctx, users); err != nil {
		return nil, err
	}

	// 4. 新表情加一；计数写入失败时撤销用户选择
	counts[kind]++
	reactions[contentID] = counts
	if err := s.repo.SaveReactions(ctx, reactions); err != nil {
		if previous != "" {
			users[contentID][username] = previous
		} else {
			delete(users[contentID], username)
		}
		if rbErr := s.repo.SaveUserReactions(ctx, users); rbErr != nil {
			logger.L().Error("restore user reaction failed",
				zap.String("content_id", contentID),
				zap.String("username", username),
				zap.Error(rbErr))
		}
		return nil, err
	}

	s.metrics.RecordReaction(string(kind))
	s.events.Publish(ctx, notify.Event{
		Type:      notify.EventReactionChanged,
		ContentID: contentID,
		Username:  username,
		Timestamp: s.nowMillis(),
	})

	return copyCounts(counts), nil
}

// Summary 详情页聚合；username 为空时不查询用户表情
func (s *feedService) Summary(ctx context.Context, contentID, username string) (*model.Summary, error) {
	counts, err := s.GetReactions(ctx, contentID)
	if err != nil {
		return nil, err
	}
	comments, err := s.GetComments(ctx, contentID)
	if err != nil {
		return nil, err
	}

	summary := &model.Summary{
		Reactions:    counts,
		CommentCount: len(comments),
	}
	if username != "" {
		if summary.UserReaction, err = s.GetUserReaction(ctx, contentID, username); err != nil {
			return nil, err
		}
	}
	return summary, nil
}

// normalizeCounts 补齐缺失的表情，丢弃未知表情
func normalizeCounts(stored model.ReactionCounts) model.ReactionCounts {
	counts := model.NewReactionCounts()
	for _, k := range model.ReactionKinds {
		if v := stored[k]; v > 0 {
			counts[k] = v
		}
	}
	return counts
}

func copyCounts(c model.ReactionCounts) model.ReactionCounts {
	out := make(model.ReactionCounts, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
