// internal/store/memory.go
//
// In-memory Store implementation, used in tests and when durability is
// not required. Records are held as JSON snapshots so saves have the same
// copy semantics as a real backend: later mutations of the saved struct
// never leak into the stored version.

package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/asavelyev/ribalka/internal/game"
)

type memory struct {
	mu   sync.RWMutex
	rows map[string][]byte // JSON-encoded game.User keyed by user id
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{rows: make(map[string][]byte)}
}

func (m *memory) Save(ctx context.Context, id string, u *game.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[id] = data
	return nil
}

func (m *memory) LoadAll(ctx context.Context) (map[string]*game.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]*game.User, len(m.rows))
	for id, data := range m.rows {
		var u game.User
		if err := json.Unmarshal(data, &u); err != nil {
			return nil, err
		}
		out[id] = &u
	}
	return out, nil
}
