package kv

import (
	"context"
	"errors"

	"go-ppm-dashboard/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormStore struct {
	db *gorm.DB
}

// NewGormStore stores entries in the kv_entries table. Call Migrate once at startup.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.KVEntry{})
}

func (s *gormStore) Get(ctx context.Context, key string) (string, bool, error) {
	var entry model.KVEntry
	err := s.db.WithContext(ctx).First(&entry, "entry_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

func (s *gormStore) Set(ctx context.Context, key, value string) error {
	entry := model.KVEntry{Key: key, Value: value}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

func (s *gormStore) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&model.KVEntry{}, "entry_key = ?", key).Error
}
