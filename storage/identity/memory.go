package identity

import (
	"sync"

	"github.com/trezcool/masomo/core/session"
	"github.com/trezcool/masomo/core/user"
)

// MemoryStore keeps the encoded identity in memory.
type MemoryStore struct {
	mu   sync.RWMutex
	data []byte
}

func NewMemoryStore() *MemoryStore {
	return new(MemoryStore)
}

func (s *MemoryStore) Load() (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data == nil {
		return nil, nil
	}
	return decode(s.data)
}

func (s *MemoryStore) Save(usr user.User) error {
	data, err := encode(usr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	s.data = nil
	s.mu.Unlock()
	return nil
}

// SetRaw stores data as is, valid or not.
func (s *MemoryStore) SetRaw(data []byte) {
	s.mu.Lock()
	s.data = append([]byte(nil), data...)
	s.mu.Unlock()
}

// MemoryStores holds one MemoryStore per session key.
// A key is only held between a Save and the next Clear.
type MemoryStores struct {
	mu     sync.Mutex
	stores map[string]*MemoryStore
}

func NewMemoryStores() *MemoryStores {
	return &MemoryStores{stores: make(map[string]*MemoryStore)}
}

// Open returns the store of key; it is a session.StoreFactory.
func (ms *MemoryStores) Open(key string) session.IdentityStore {
	return memoryEntry{set: ms, key: key}
}

// Len returns the number of held keys.
func (ms *MemoryStores) Len() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return len(ms.stores)
}

func (ms *MemoryStores) get(key string, create bool) *MemoryStore {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	store, ok := ms.stores[key]
	if !ok && create {
		store = NewMemoryStore()
		ms.stores[key] = store
	}
	return store
}

func (ms *MemoryStores) remove(key string) {
	ms.mu.Lock()
	delete(ms.stores, key)
	ms.mu.Unlock()
}

type memoryEntry struct {
	set *MemoryStores
	key string
}

var _ session.IdentityStore = memoryEntry{}

func (e memoryEntry) Load() (*user.User, error) {
	store := e.set.get(e.key, false)
	if store == nil {
		return nil, nil
	}
	return store.Load()
}

func (e memoryEntry) Save(usr user.User) error {
	return e.set.get(e.key, true).Save(usr)
}

func (e memoryEntry) Clear() error {
	e.set.remove(e.key)
	return nil
}
