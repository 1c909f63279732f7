package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// setting is one overridden key. Value holds the JSON encoding of the Go
// value.
type setting struct {
	Name      string `gorm:"primaryKey"`
	Value     string
	UpdatedAt time.Time
}

func (setting) TableName() string { return "proxy_settings" }

// SQLiteStore keeps overrides in a SQLite database. It is the backend for
// hosts without GNOME settings. Change notifications cover writes made
// through this process.
type SQLiteStore struct {
	db *gorm.DB
	notifier
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating settings directory: %w", err)
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open settings database: %w", err)
	}
	if err := db.AutoMigrate(&setting{}); err != nil {
		return nil, fmt.Errorf("failed to migrate settings database: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(key Key) (any, error) {
	kind, err := key.Kind()
	if err != nil {
		return nil, err
	}
	var row setting
	err = s.db.First(&row, "name = ?", string(key)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return DefaultValue(key)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return decodeValue(kind, row.Value)
}

func (s *SQLiteStore) Set(key Key, value any) error {
	if err := CheckValue(key, value); err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	row := setting{Name: string(key), Value: string(data)}
	err = s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	s.notify(key)
	return nil
}

func (s *SQLiteStore) Reset(key Key) error {
	if _, err := key.Kind(); err != nil {
		return err
	}
	res := s.db.Where("name = ?", string(key)).Delete(&setting{})
	if res.Error != nil {
		return fmt.Errorf("resetting %s: %w", key, res.Error)
	}
	if res.RowsAffected > 0 {
		s.notify(key)
	}
	return nil
}

func (s *SQLiteStore) Default(key Key) (any, error) {
	return DefaultValue(key)
}

func (s *SQLiteStore) Subscribe(key Key, fn func()) (func(), error) {
	if _, err := key.Kind(); err != nil {
		return nil, err
	}
	return s.subscribe(key, fn), nil
}

// Overrides returns the keys that currently carry a stored value.
func (s *SQLiteStore) Overrides() ([]Key, error) {
	var names []string
	if err := s.db.Model(&setting{}).Order("name").Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	keys := make([]Key, len(names))
	for i, n := range names {
		keys[i] = Key(n)
	}
	return keys, nil
}

func (s *SQLiteStore) Close() error {
	s.clear()
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func decodeValue(kind Kind, data string) (any, error) {
	var err error
	switch kind {
	case KindString:
		var v string
		err = json.Unmarshal([]byte(data), &v)
		return v, err
	case KindInt:
		var v int32
		err = json.Unmarshal([]byte(data), &v)
		return v, err
	case KindBool:
		var v bool
		err = json.Unmarshal([]byte(data), &v)
		return v, err
	case KindStrings:
		v := []string{}
		err = json.Unmarshal([]byte(data), &v)
		return v, err
	}
	return nil, fmt.Errorf("%w: kind %s", ErrTypeMismatch, kind)
}
