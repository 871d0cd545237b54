package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// kvEntry is the single-table schema behind the SQLite store.
type kvEntry struct {
	Key       string `gorm:"primaryKey;column:key"`
	Value     []byte `gorm:"column:value"`
	UpdatedAt time.Time
}

func (kvEntry) TableName() string {
	return "kv_entries"
}

// sqliteStore is a file-backed Store implementation. It is the on-device
// default: cart and order snapshots survive process restarts.
type sqliteStore struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewSQLiteStore opens (creating if needed) a SQLite database at path and
// migrates the key-value table.
func NewSQLiteStore(path string, logger zerolog.Logger) (Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.AutoMigrate(&kvEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate kv table: %w", err)
	}

	logger.Info().Str("path", path).Msg("sqlite store opened")

	return &sqliteStore{
		db:     db,
		logger: logger.With().Str("store", "sqlite").Logger(),
	}, nil
}

func (s *sqliteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var entry kvEntry
	err := s.db.WithContext(ctx).First(&entry, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKeyNotFound
		}
		s.logger.Error().Err(err).Str("key", key).Msg("failed to get value")
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return entry.Value, nil
}

func (s *sqliteStore) Set(ctx context.Context, key string, value []byte) error {
	entry := kvEntry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to set value")
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (s *sqliteStore) Delete(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).Delete(&kvEntry{}, "key = ?", key).Error
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to delete value")
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *sqliteStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := s.db.WithContext(ctx).
		Model(&kvEntry{}).
		Where("key LIKE ?", prefix+"%").
		Pluck("key", &keys).Error
	if err != nil {
		s.logger.Error().Err(err).Str("prefix", prefix).Msg("failed to list keys")
		return nil, fmt.Errorf("failed to list keys with prefix %s: %w", prefix, err)
	}
	return keys, nil
}

func (s *sqliteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
