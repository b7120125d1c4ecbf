// internal/store/store.go
//
// Durable persistence for user records. The engine keeps the working set
// in memory; a Store mirrors every mutation and replays the full record
// set at boot.

package store

import (
	"context"

	"github.com/asavelyev/ribalka/internal/game"
)

// Store is the persistence interface for user records.
// Implementations may be backed by memory (tests) or SQLite.
type Store interface {
	// Save durably writes one user record, replacing any previous version.
	Save(ctx context.Context, id string, u *game.User) error

	// LoadAll reads every persisted user record, keyed by user id.
	LoadAll(ctx context.Context) (map[string]*game.User, error)
}
