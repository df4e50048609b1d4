package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"github.com/hammamikhairi/ottopantry/internal/domain"
	"github.com/hammamikhairi/ottopantry/internal/logger"
)

var _ domain.KVStore = (*SQLiteStore)(nil)

// kvRecord is one row of kv_records.
type kvRecord struct {
	Key       string `gorm:"column:record_key;primaryKey"`
	Value     []byte `gorm:"column:value"`
	UpdatedAt time.Time
}

func (kvRecord) TableName() string { return "kv_records" }

// SQLiteStore keeps documents in a single SQLite table through gorm.
type SQLiteStore struct {
	db  *gorm.DB
	log *logger.Logger
}

// OpenSQLite opens (or creates) the database at path and migrates it.
// Uses the pure-Go modernc driver so no cgo is needed.
func OpenSQLite(ctx context.Context, path string, log *logger.Logger) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path,
	}, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}
	log.Debug("sqlite: opened %s", path)
	return &SQLiteStore{db: db, log: log}, nil
}

// Get returns the document stored under key.
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var rec kvRecord
	err := s.db.WithContext(ctx).Where("record_key = ?", key).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get %s: %w", key, err)
	}
	return rec.Value, nil
}

// Set upserts the document under key.
func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	rec := kvRecord{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "record_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("sqlite: set %s: %w", key, err)
	}
	s.log.Debug("sqlite: set %s (%d bytes)", key, len(value))
	return nil
}

// Delete removes key.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	res := s.db.WithContext(ctx).Where("record_key = ?", key).Delete(&kvRecord{})
	if res.Error != nil {
		return fmt.Errorf("sqlite: delete %s: %w", key, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
