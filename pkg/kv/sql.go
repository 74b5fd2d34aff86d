package kv

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry kv_entries 表的一行
type Entry struct {
	Key       string `gorm:"primaryKey;column:key"`
	Value     []byte `gorm:"column:value"`
	UpdatedAt int64  `gorm:"column:updated_at;autoUpdateTime:milli"`
}

func (Entry) TableName() string {
	return "kv_entries"
}

// SQLStore 基于 GORM 的实现，表结构由 cmd/migrate 创建
type SQLStore struct {
	db *gorm.DB
}

// NewSQLStore 创建 SQL 存储
func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	var entry Entry
	if err := s.db.WithContext(ctx).Where("key = ?", key).Take(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("sql get %s: %w", key, err)
	}
	return entry.Value, nil
}

// Set 使用 upsert 覆盖已有值
func (s *SQLStore) Set(ctx context.Context, key string, value []byte) error {
	entry := Entry{Key: key, Value: value}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("sql set %s: %w", key, err)
	}
	return nil
}
