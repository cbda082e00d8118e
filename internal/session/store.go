// Package session keeps the admin's bearer token between console runs.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TokenKey is the only key the console stores.
const TokenKey = "token"

type Store interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

type Memory struct {
	mu    sync.Mutex
	token string
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Get(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *Memory) Set(_ context.Context, token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

func (m *Memory) Clear(ctx context.Context) error {
	return m.Set(ctx, "")
}

type entry struct {
	Key       string `gorm:"primaryKey"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

func (entry) TableName() string { return "session_entries" }

// DBStore keeps the token in a key/value table.
type DBStore struct {
	db *gorm.DB
}

func NewDBStore(db *gorm.DB) (*DBStore, error) {
	if err := db.AutoMigrate(&entry{}); err != nil {
		return nil, fmt.Errorf("migrate session_entries: %w", err)
	}
	return &DBStore{db: db}, nil
}

func (s *DBStore) Get(ctx context.Context) (string, error) {
	var e entry
	err := s.db.WithContext(ctx).Where(&entry{Key: TokenKey}).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read session token: %w", err)
	}
	return e.Value, nil
}

func (s *DBStore) Set(ctx context.Context, token string) error {
	e := entry{Key: TokenKey, Value: token}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&e).Error
	if err != nil {
		return fmt.Errorf("store session token: %w", err)
	}
	return nil
}

func (s *DBStore) Clear(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Where(&entry{Key: TokenKey}).Delete(&entry{}).Error; err != nil {
		return fmt.Errorf("clear session token: %w", err)
	}
	return nil
}
