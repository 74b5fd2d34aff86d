package kv

import (
	"context"
	"errors"
)

// ErrNotFound 键不存在
var ErrNotFound = errors.New("kv: key not found")

// Store 不透明的键值字节存储
// 值的编码由调用方决定，存储层只负责按 key 读写
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Prefixed 为所有 key 加统一前缀，便于多个应用共用同一个后端
func Prefixed(s Store, prefix string) Store {
	if prefix == "" {
		return s
	}
	return &prefixedStore{inner: s, prefix: prefix}
}

type prefixedStore struct {
	inner  Store
	prefix string
}

func (p *prefixedStore) Get(ctx context.Context, key string) ([]byte, error) {
	return p.inner.Get(ctx, p.prefix+key)
}

func (p *prefixedStore) Set(ctx context.Context, key string, value []byte) error {
	return p.inner.Set(ctx, p.prefix+key, value)
}
