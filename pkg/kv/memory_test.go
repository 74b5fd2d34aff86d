package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Missing key returns ErrNotFound", func(t *testing.T) {
		s := NewMemoryStore()
		_, err := s.Get(ctx, "content")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Set then Get returns a copy", func(t *testing.T) {
		s := NewMemoryStore()
		value := []byte(`{"a":1}`)
		require.NoError(t, s.Set(ctx, "k", value))

		value[0] = 'x'
		got, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, `{"a":1}`, string(got))

		got[0] = 'y'
		again, _ := s.Get(ctx, "k")
		assert.Equal(t, `{"a":1}`, string(again))
	})

	t.Run("Set overwrites", func(t *testing.T) {
		s := NewMemoryStore()
		require.NoError(t, s.Set(ctx, "k", []byte("1")))
		require.NoError(t, s.Set(ctx, "k", []byte("2")))

		got, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "2", string(got))
		assert.Equal(t, 1, s.Len())
	})
}

func TestPrefixed(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()
	s := Prefixed(inner, "geeknews:")

	require.NoError(t, s.Set(ctx, "content", []byte("[]")))

	_, err := inner.Get(ctx, "content")
	assert.ErrorIs(t, err, ErrNotFound)

	raw, err := inner.Get(ctx, "geeknews:content")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))

	got, err := s.Get(ctx, "content")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))

	assert.Same(t, inner, Prefixed(inner, "").(*MemoryStore))
}
