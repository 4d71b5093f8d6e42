// Package offset persists the getUpdates offset of a polling bot so a
// restart resumes where the previous run stopped.
package offset

import (
	"context"
	"sync"

	"github.com/flemzord/botapi/pkg/telegram"
)

var (
	_ telegram.OffsetStore = (*MemoryStore)(nil)
	_ telegram.OffsetStore = (*SQLiteStore)(nil)
)

// MemoryStore keeps offsets in process memory. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.Mutex
	offsets map[int64]int64
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{offsets: make(map[int64]int64)}
}

// LoadOffset implements telegram.OffsetStore. Unknown bots start at 0.
func (s *MemoryStore) LoadOffset(_ context.Context, botID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offsets[botID], nil
}

// SaveOffset implements telegram.OffsetStore.
func (s *MemoryStore) SaveOffset(_ context.Context, botID, offset int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offsets[botID] = offset
	return nil
}
