package sqlite

import (
	"context"
	"fmt"
	"remindbot/internal/domain/entity"
	"remindbot/internal/domain/repository"
	appErrors "remindbot/internal/pkg/errors"
	"remindbot/internal/pkg/logger"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type brain struct {
	db  *gorm.DB
	log logger.Logger

	mu       sync.Mutex
	data     map[string][]byte
	dirty    map[string]struct{}
	handlers []func()
}

// NewBrain creates a Brain backed by the brain_entries table.
// Nothing is read until Load is called.
func NewBrain(db *gorm.DB, log logger.Logger) repository.Brain {
	return &brain{
		db:    db,
		log:   log,
		data:  make(map[string][]byte),
		dirty: make(map[string]struct{}),
	}
}

// Get returns a copy of the blob stored under key.
func (b *brain) Get(key string) ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	blob, ok := b.data[key]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), blob...), true
}

// Set replaces the blob under key in memory; Save writes it out.
func (b *brain) Set(key string, blob []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = append([]byte(nil), blob...)
	b.dirty[key] = struct{}{}
}

// Save upserts every key changed since the last successful Save.
func (b *brain) Save(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.dirty) == 0 {
		return nil
	}
	now := time.Now()
	entries := make([]entity.BrainEntry, 0, len(b.dirty))
	for key := range b.dirty {
		entries = append(entries, entity.BrainEntry{Key: key, Value: b.data[key], UpdatedAt: now})
	}

	err := b.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "brain_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entries).Error
	if err != nil {
		return fmt.Errorf("%w: failed to save brain: %v", appErrors.ErrDatabaseOperation, err)
	}

	b.dirty = make(map[string]struct{})
	b.log.Debug(fmt.Sprintf("Brain saved %d key(s)", len(entries)))
	return nil
}

// Load reads all entries, keeping any unsaved local changes on top, and
// then runs the ready handlers on the caller's goroutine.
func (b *brain) Load(ctx context.Context) error {
	var rows []entity.BrainEntry
	if err := b.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return fmt.Errorf("%w: failed to load brain: %v", appErrors.ErrDatabaseOperation, err)
	}

	b.mu.Lock()
	data := make(map[string][]byte, len(rows))
	for _, row := range rows {
		data[row.Key] = row.Value
	}
	for key := range b.dirty {
		data[key] = b.data[key]
	}
	b.data = data
	handlers := append([]func(){}, b.handlers...)
	b.mu.Unlock()

	b.log.Info(fmt.Sprintf("Brain loaded %d key(s)", len(rows)))
	for _, fn := range handlers {
		fn()
	}
	return nil
}

// OnReady registers fn to run after every Load.
func (b *brain) OnReady(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, fn)
}
