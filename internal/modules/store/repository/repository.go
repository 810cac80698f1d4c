package repository

import (
	"github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/store/domain"
)

// Repository defines the interface for persisting the broadcast record.
// This abstraction allows easy replacement of storage implementations
// (e.g., FileStorage -> PostgreSQL -> MongoDB)
type Repository interface {
	// Load reads the persisted record. The second return value is false when
	// the record had to be default-initialized (file absent or corrupt); the
	// caller is expected to save the default back immediately.
	Load() (*domain.Record, bool)
	Save(record *domain.Record) error
}
