package repository

import (
	"context"
	"testing"

	"geeknews/internal/domain/feed/model"
	"geeknews/pkg/kv"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedRepository_Content(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	repo := NewFeedRepository(store)

	t.Run("Missing table", func(t *testing.T) {
		items, found, err := repo.LoadContent(ctx)
		require.NoError(t, err)
		assert.False(t, found)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("Round trip", func(t *testing.T) {
		saved := []model.ContentItem{{ID: "1", Title: "t", Category: model.CategoryNews, Tags: []string{"a"}}}
		require.NoError(t, repo.SaveContent(ctx, saved))

		items, found, err := repo.LoadContent(ctx)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, saved, items)
	})

	t.Run("Empty list is still a table", func(t *testing.T) {
		require.NoError(t, repo.SaveContent(ctx, []model.ContentItem{}))

		items, found, err := repo.LoadContent(ctx)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Empty(t, items)
	})

	t.Run("Corrupt content is an error", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, KeyContent, []byte("{not json")))

		_, found, err := repo.LoadContent(ctx)
		assert.ErrorIs(t, err, ErrCorruptTable)
		assert.False(t, found)
	})
}

func TestFeedRepository_Tables(t *testing.T) {
	ctx := context.Background()
	repo := NewFeedRepository(kv.NewMemoryStore())

	comments, err := repo.LoadComments(ctx)
	require.NoError(t, err)
	assert.NotNil(t, comments)
	comments["1"] = []model.Comment{{ID: "c1", Content: "hello", Author: "bob", Timestamp: 10}}
	require.NoError(t, repo.SaveComments(ctx, comments))

	reactions, err := repo.LoadReactions(ctx)
	require.NoError(t, err)
	assert.NotNil(t, reactions)
	reactions["1"] = model.ReactionCounts{model.ReactionLike: 2}
	require.NoError(t, repo.SaveReactions(ctx, reactions))

	users, err := repo.LoadUserReactions(ctx)
	require.NoError(t, err)
	assert.NotNil(t, users)
	users["1"] = map[string]model.ReactionKind{"bob": model.ReactionLike}
	require.NoError(t, repo.SaveUserReactions(ctx, users))

	last, err := repo.LoadCommentLast(ctx)
	require.NoError(t, err)
	assert.NotNil(t, last)
	last[CommentLastKey("1", "bob")] = 10
	require.NoError(t, repo.SaveCommentLast(ctx, last))

	gotComments, err := repo.LoadComments(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hello", gotComments["1"][0].Content)

	gotReactions, err := repo.LoadReactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, gotReactions["1"][model.ReactionLike])

	gotUsers, err := repo.LoadUserReactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.ReactionLike, gotUsers["1"]["bob"])

	gotLast, err := repo.LoadCommentLast(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10), gotLast["1:bob"])
}

func TestFeedRepository_CorruptSideTables(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	repo := NewFeedRepository(store)

	for _, key := range []string{KeyComments, KeyReactions, KeyUserReactions, KeyCommentLast} {
		require.NoError(t, store.Set(ctx, key, []byte("[1,")))
	}

	comments, err := repo.LoadComments(ctx)
	require.NoError(t, err)
	assert.NotNil(t, comments)
	assert.Empty(t, comments)

	reactions, err := repo.LoadReactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, reactions)

	users, err := repo.LoadUserReactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	last, err := repo.LoadCommentLast(ctx)
	require.NoError(t, err)
	assert.NotNil(t, last)
}
