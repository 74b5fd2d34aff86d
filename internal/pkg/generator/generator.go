package generator

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"geeknews/internal/pkg/config"
	"geeknews/pkg/logger"
	"geeknews/pkg/metrics"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	articlePrompt = `Write a short, fun and engaging article (geek blog style) about the following topic: "%s". Use Markdown formatting. The audience is nerds, gamers and pop culture fans.`
	tagsPrompt    = `Generate 5 short tags (one word each) separated by commas for the following text: %s...`

	// 生成标签时只取正文前 200 个字符
	tagsInputLimit = 200

	MissingKeyArticle = "Simulation: API key not configured. This would be an AI-generated article about "
	FailedArticle     = "Could not reach the AI service. Try again."
	EmptyArticle      = "Could not generate content."
)

var (
	MissingKeyTags = []string{"Geek", "News"}
	FailedTags     = []string{"Geek", "Tech"}
)

// Generator 管理员发布流程使用的文本生成
// 永远不返回错误：失败时返回占位内容
type Generator interface {
	GenerateArticle(ctx context.Context, topic string) string
	GenerateTags(ctx context.Context, text string) []string
}

// chatCompleter openai-go 的 Chat.Completions 服务
type chatCompleter interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// OpenAIGenerator 基于 OpenAI 兼容接口的实现
type OpenAIGenerator struct {
	completions chatCompleter
	model       string
	temperature float64
	metrics     *metrics.MetricsCollector
}

// New 未配置 API Key 时进入占位模式，不发起任何网络请求
func New(cfg config.GeneratorConfig, mc *metrics.MetricsCollector) *OpenAIGenerator {
	g := &OpenAIGenerator{
		model:       cfg.Model,
		temperature: cfg.Temperature,
		metrics:     mc,
	}
	if cfg.APIKey == "" {
		logger.L().Warn("generator API key is missing, using placeholder text")
		return g
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	client := openai.NewClient(opts...)
	g.completions = client.Chat.Completions
	return g
}

func (g *OpenAIGenerator) GenerateArticle(ctx context.Context, topic string) string {
	if g.completions == nil {
		g.metrics.RecordGeneratorCall("article", "fallback")
		return MissingKeyArticle + topic
	}

	text, err := g.complete(ctx, fmt.Sprintf(articlePrompt, topic), true)
	if err != nil {
		logger.L().Error("generate article failed", zap.String("topic", topic), zap.Error(err))
		g.metrics.RecordGeneratorCall("article", "error")
		return FailedArticle
	}
	if text == "" {
		g.metrics.RecordGeneratorCall("article", "fallback")
		return EmptyArticle
	}

	g.metrics.RecordGeneratorCall("article", "ok")
	return text
}

func (g *OpenAIGenerator) GenerateTags(ctx context.Context, text string) []string {
	if g.completions == nil {
		g.metrics.RecordGeneratorCall("tags", "fallback")
		return append([]string(nil), MissingKeyTags...)
	}

	reply, err := g.complete(ctx, fmt.Sprintf(tagsPrompt, truncateRunes(text, tagsInputLimit)), false)
	if err != nil {
		logger.L().Error("generate tags failed", zap.Error(err))
		g.metrics.RecordGeneratorCall("tags", "error")
		return append([]string(nil), FailedTags...)
	}

	tags := ParseTags(reply)
	if len(tags) == 0 {
		g.metrics.RecordGeneratorCall("tags", "fallback")
		return append([]string(nil), FailedTags...)
	}

	g.metrics.RecordGeneratorCall("tags", "ok")
	return tags
}

func (g *OpenAIGenerator) complete(ctx context.Context, prompt string, creative bool) (string, error) {
	params := openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		}),
		Model: openai.F(openai.ChatModel(g.model)),
	}
	if creative {
		params.Temperature = openai.Float(g.temperature)
	}

	resp, err := g.completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// ParseTags 按逗号拆分并去掉空白项
func ParseTags(reply string) []string {
	parts := lo.Map(strings.Split(reply, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	})
	return lo.Filter(parts, func(s string, _ int) bool {
		return s != ""
	})
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
