package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"geeknews/internal/domain/feed/model"
	"geeknews/internal/pkg/generator"
	"geeknews/pkg/logger"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	// AdminAuthor 管理员发布内容的作者名
	AdminAuthor = "Admin"

	defaultCoverURL = "https://picsum.photos/800/400?random=%d"
)

// PublishInput 管理员发布表单
type PublishInput struct {
	Title       string         `json:"title" binding:"required"`
	Description string         `json:"description" binding:"required"`
	ImageURL    string         `json:"imageUrl"`
	Category    model.Category `json:"category" binding:"required"`
	VideoURL    string         `json:"videoUrl"`
	Tags        []string       `json:"tags"`
}

// ContentPublisher 管理员发布流程：校验表单、补全默认值、生成标签后写入
type ContentPublisher struct {
	feed      FeedService
	generator generator.Generator
	now       func() time.Time
}

func NewContentPublisher(feed FeedService, gen generator.Generator, now func() time.Time) *ContentPublisher {
	if now == nil {
		now = time.Now
	}
	return &ContentPublisher{feed: feed, generator: gen, now: now}
}

// Publish 视频必须带视频地址；新闻会丢弃视频地址
func (p *ContentPublisher) Publish(ctx context.Context, in PublishInput) (*model.ContentItem, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" || description == "" {
		return nil, ErrMissingFields
	}
	if !in.Category.Valid() {
		return nil, ErrInvalidCategory
	}

	videoURL := strings.TrimSpace(in.VideoURL)
	if in.Category == model.CategoryVideo && videoURL == "" {
		return nil, ErrMissingVideoURL
	}
	if in.Category != model.CategoryVideo {
		videoURL = ""
	}

	now := p.now().UnixMilli()
	imageURL := strings.TrimSpace(in.ImageURL)
	if imageURL == "" {
		imageURL = fmt.Sprintf(defaultCoverURL, now)
	}

	tags := normalizeTags(in.Tags)
	if len(tags) == 0 {
		tags = p.generator.GenerateTags(ctx, description)
	}

	id, err := p.nextID(ctx, now)
	if err != nil {
		return nil, err
	}

	item := model.ContentItem{
		ID:          id,
		Title:       title,
		Description: description,
		ImageURL:    imageURL,
		Category:    in.Category,
		VideoURL:    videoURL,
		Timestamp:   now,
		Author:      AdminAuthor,
		Tags:        tags,
	}
	if err := p.feed.AddContent(ctx, item); err != nil {
		return nil, err
	}

	logger.L().Info("content published",
		zap.String("id", item.ID),
		zap.String("category", string(item.Category)),
		zap.Int("tags", len(item.Tags)))
	return &item, nil
}

// Draft 为主题生成文章草稿
func (p *ContentPublisher) Draft(ctx context.Context, topic string) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", ErrMissingFields
	}
	return p.generator.GenerateArticle(ctx, topic), nil
}

// nextID 以毫秒时间戳为 ID，同一毫秒内重复时追加短后缀
func (p *ContentPublisher) nextID(ctx context.Context, now int64) (string, error) {
	id := strconv.FormatInt(now, 10)

	items, err := p.feed.ListContent(ctx)
	if err != nil {
		return "", err
	}
	taken := lo.ContainsBy(items, func(item model.ContentItem) bool {
		return item.ID == id
	})
	if taken {
		id = id + "-" + uuid.New().String()[:8]
	}
	return id, nil
}

func normalizeTags(tags []string) []string {
	cleaned := lo.Filter(lo.Map(tags, func(t string, _ int) string {
		return strings.TrimSpace(t)
	}), func(t string, _ int) bool {
		return t != ""
	})
	return lo.Uniq(cleaned)
}
