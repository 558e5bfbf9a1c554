package cache

import (
	"sync"
	"time"
)

const janitorInterval = 5 * time.Minute

type memoryItem struct {
	value     []byte
	expiresAt time.Time
}

func (i memoryItem) expired(now time.Time) bool {
	return !i.expiresAt.IsZero() && !now.Before(i.expiresAt)
}

// memoryStore is a mutex guarded map with per-key expiry and a background janitor.
// It backs the in-memory idempotency store and listing cache.
type memoryStore struct {
	mu        sync.RWMutex
	items     map[string]memoryItem
	stop      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

func newMemoryStore() *memoryStore {
	s := &memoryStore{
		items: make(map[string]memoryItem),
		stop:  make(chan struct{}),
	}
	s.wg.Add(1)
	go s.janitor()
	return s
}

func (s *memoryStore) get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[key]
	if !ok || item.expired(time.Now()) {
		return nil, false
	}
	return item.value, true
}

func (s *memoryStore) set(key string, value []byte, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = memoryItem{value: value, expiresAt: deadline(ttl)}
}

// setNX stores the key only when it is absent or expired
func (s *memoryStore) setNX(key string, value []byte, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item, ok := s.items[key]; ok && !item.expired(time.Now()) {
		return false
	}
	s.items[key] = memoryItem{value: value, expiresAt: deadline(ttl)}
	return true
}

func (s *memoryStore) delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
}

func (s *memoryStore) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]memoryItem)
}

func (s *memoryStore) size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *memoryStore) evictExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, item := range s.items {
		if item.expired(now) {
			delete(s.items, key)
		}
	}
}

func (s *memoryStore) janitor() {
	defer s.wg.Done()

	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.evictExpired()
		}
	}
}

func (s *memoryStore) close() {
	s.closeOnce.Do(func() {
		close(s.stop)
		s.wg.Wait()
	})
}

// deadline converts a TTL to an absolute expiry, zero meaning never
func deadline(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return time.Now().Add(ttl)
}
