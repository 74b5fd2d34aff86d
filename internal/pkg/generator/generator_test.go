package generator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"geeknews/internal/pkg/config"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockCompleter is a mock of chatCompleter
type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error) {
	args := m.Called(ctx, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openai.ChatCompletion), args.Error(1)
}

func completion(content string) *openai.ChatCompletion {
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}
}

func newMockGenerator(m *MockCompleter) *OpenAIGenerator {
	return &OpenAIGenerator{completions: m, model: "gpt-4o-mini", temperature: 0.8}
}

func TestPlaceholderMode(t *testing.T) {
	g := New(config.GeneratorConfig{Model: "gpt-4o-mini"}, nil)
	ctx := context.Background()

	assert.Equal(t, MissingKeyArticle+"Arcane", g.GenerateArticle(ctx, "Arcane"))
	assert.Equal(t, []string{"Geek", "News"}, g.GenerateTags(ctx, "anything"))
}

func TestGenerateArticle(t *testing.T) {
	ctx := context.Background()

	t.Run("Returns generated text", func(t *testing.T) {
		m := new(MockCompleter)
		m.On("New", ctx, mock.Anything).Return(completion("  # GTA VI\nIt is here.  "), nil)

		text := newMockGenerator(m).GenerateArticle(ctx, "GTA VI")

		assert.Equal(t, "# GTA VI\nIt is here.", text)
		m.AssertExpectations(t)
	})

	t.Run("Prompt carries the topic", func(t *testing.T) {
		m := new(MockCompleter)
		m.On("New", ctx, mock.Anything).Return(completion("ok"), nil)

		newMockGenerator(m).GenerateArticle(ctx, "Quantum chips")

		params := m.Calls[0].Arguments.Get(1).(openai.ChatCompletionNewParams)
		assert.Len(t, params.Messages.Value, 1)
		assert.True(t, params.Temperature.Present)
	})

	t.Run("Failure degrades to placeholder", func(t *testing.T) {
		m := new(MockCompleter)
		m.On("New", ctx, mock.Anything).Return(nil, errors.New("dial tcp: timeout"))

		assert.Equal(t, FailedArticle, newMockGenerator(m).GenerateArticle(ctx, "x"))
	})

	t.Run("Empty reply degrades to placeholder", func(t *testing.T) {
		m := new(MockCompleter)
		m.On("New", ctx, mock.Anything).Return(&openai.ChatCompletion{}, nil)

		assert.Equal(t, EmptyArticle, newMockGenerator(m).GenerateArticle(ctx, "x"))
	})
}

func TestGenerateTags(t *testing.T) {
	ctx := context.Background()

	t.Run("Splits and trims", func(t *testing.T) {
		m := new(MockCompleter)
		m.On("New", ctx, mock.Anything).Return(completion("LoL, Netflix ,Arcane,, Riot"), nil)

		tags := newMockGenerator(m).GenerateTags(ctx, "Arcane season two")

		assert.Equal(t, []string{"LoL", "Netflix", "Arcane", "Riot"}, tags)
	})

	t.Run("Failure degrades to fallback tags", func(t *testing.T) {
		m := new(MockCompleter)
		m.On("New", ctx, mock.Anything).Return(nil, errors.New("401"))

		assert.Equal(t, []string{"Geek", "Tech"}, newMockGenerator(m).GenerateTags(ctx, "x"))
	})

	t.Run("Blank reply degrades to fallback tags", func(t *testing.T) {
		m := new(MockCompleter)
		m.On("New", ctx, mock.Anything).Return(completion(" , "), nil)

		assert.Equal(t, []string{"Geek", "Tech"}, newMockGenerator(m).GenerateTags(ctx, "x"))
	})

	t.Run("Fallback slices are not shared", func(t *testing.T) {
		g := New(config.GeneratorConfig{}, nil)
		tags := g.GenerateTags(ctx, "x")
		tags[0] = "changed"
		assert.Equal(t, "Geek", MissingKeyTags[0])
	})
}

func TestTruncateRunes(t *testing.T) {
	long := strings.Repeat("é", 250)
	assert.Len(t, []rune(truncateRunes(long, tagsInputLimit)), 200)
	assert.Equal(t, "short", truncateRunes("short", tagsInputLimit))
}
