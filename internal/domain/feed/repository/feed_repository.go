package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"geeknews/internal/domain/feed/model"
	"geeknews/pkg/kv"
	"geeknews/pkg/logger"

	"go.uber.org/zap"
)

// 存储中的逻辑表
const (
	KeyContent       = "content"
	KeyComments      = "comments"
	KeyReactions     = "reactions"
	KeyUserReactions = "user_reactions"
	KeyCommentLast   = "comment_last"
)

// CommentsTable contentID -> 评论（新的在前）
type CommentsTable map[string][]model.Comment

// ReactionsTable contentID -> 计数
type ReactionsTable map[string]model.ReactionCounts

// UserReactionsTable contentID -> username -> 表情
type UserReactionsTable map[string]map[string]model.ReactionKind

// CommentLastTable "contentID:username" -> 最近一次评论时间 (毫秒)
type CommentLastTable map[string]int64

// CommentLastKey 节流索引的 key
func CommentLastKey(contentID, username string) string {
	return contentID + ":" + username
}

// FeedRepository 整表读写，每个方法对应一次 Get 或 Set
type FeedRepository interface {
	// LoadContent 第二个返回值表示表是否存在，内容损坏时返回 ErrCorruptTable
	LoadContent(ctx context.Context) ([]model.ContentItem, bool, error)
	SaveContent(ctx context.Context, items []model.ContentItem) error

	LoadComments(ctx context.Context) (CommentsTable, error)
	SaveComments(ctx context.Context, table CommentsTable) error

	LoadReactions(ctx context.Context) (ReactionsTable, error)
	SaveReactions(ctx context.Context, table ReactionsTable) error

	LoadUserReactions(ctx context.Context) (UserReactionsTable, error)
	SaveUserReactions(ctx context.Context, table UserReactionsTable) error

	LoadCommentLast(ctx context.Context) (CommentLastTable, error)
	SaveCommentLast(ctx context.Context, table CommentLastTable) error
}

type feedRepository struct {
	store kv.Store
}

func NewFeedRepository(store kv.Store) FeedRepository {
	return &feedRepository{store: store}
}

// ErrCorruptTable 存储中的值无法解码
var ErrCorruptTable = errors.New("stored table is not valid JSON")

// load 读取并解码一张表，不存在时返回 found=false
func load[T any](ctx context.Context, store kv.Store, key string, dest *T) (bool, error) {
	raw, err := store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		var zero T
		*dest = zero
		return false, fmt.Errorf("%w: %s: %v", ErrCorruptTable, key, err)
	}
	return true, nil
}

// loadTable 损坏的辅助表按空表处理
func loadTable[T any](ctx context.Context, store kv.Store, key string, dest *T) error {
	_, err := load(ctx, store, key, dest)
	if errors.Is(err, ErrCorruptTable) {
		logger.L().Warn("stored table is corrupt, treating as empty",
			zap.String("key", key), zap.Error(err))
		return nil
	}
	return err
}

func save[T any](ctx context.Context, store kv.Store, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// --- Content ---

func (r *feedRepository) LoadContent(ctx context.Context) ([]model.ContentItem, bool, error) {
	var items []model.ContentItem
	found, err := load(ctx, r.store, KeyContent, &items)
	if err != nil {
		// 内容表损坏时不能当作不存在，否则会被示例数据覆盖
		if errors.Is(err, ErrCorruptTable) {
			logger.L().Error("content table is corrupt", zap.Error(err))
		}
		return nil, false, err
	}
	if items == nil {
		items = []model.ContentItem{}
	}
	return items, found, nil
}

func (r *feedRepository) SaveContent(ctx context.Context, items []model.ContentItem) error {
	return save(ctx, r.store, KeyContent, items)
}

// --- Comment ---

func (r *feedRepository) LoadComments(ctx context.Context) (CommentsTable, error) {
	table := CommentsTable{}
	if err := loadTable(ctx, r.store, KeyComments, &table); err != nil {
		return nil, err
	}
	if table == nil {
		table = CommentsTable{}
	}
	return table, nil
}

func (r *feedRepository) SaveComments(ctx context.Context, table CommentsTable) error {
	return save(ctx, r.store, KeyComments, table)
}

// --- Reaction ---

func (r *feedRepository) LoadReactions(ctx context.Context) (ReactionsTable, error) {
	table := ReactionsTable{}
	if err := loadTable(ctx, r.store, KeyReactions, &table); err != nil {
		return nil, err
	}
	if table == nil {
		table = ReactionsTable{}
	}
	return table, nil
}

func (r *feedRepository) SaveReactions(ctx context.Context, table ReactionsTable) error {
	return save(ctx, r.store, KeyReactions, table)
}

func (r *feedRepository) LoadUserReactions(ctx context.Context) (UserReactionsTable, error) {
	table := UserReactionsTable{}
	if err := loadTable(ctx, r.store, KeyUserReactions, &table); err != nil {
		return nil, err
	}
	if table == nil {
		table = UserReactionsTable{}
	}
	return table, nil
}

func (r *feedRepository) SaveUserReactions(ctx context.Context, table UserReactionsTable) error {
	return save(ctx, r.store, KeyUserReactions, table)
}

// --- Throttle ---

func (r *feedRepository) LoadCommentLast(ctx context.Context) (CommentLastTable, error) {
	table := CommentLastTable{}
	if err := loadTable(ctx, r.store, KeyCommentLast, &table); err != nil {
		return nil, err
	}
	if table == nil {
		table = CommentLastTable{}
	}
	return table, nil
}

func (r *feedRepository) SaveCommentLast(ctx context.Context, table CommentLastTable) error {
	return save(ctx, r.store, KeyCommentLast, table)
}
