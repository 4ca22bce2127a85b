package credstore

import (
	"context"
	"sync"
	"time"
)

// MemoryBackend keeps session values in process memory.
type MemoryBackend struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*memorySession
}

type memorySession struct {
	values    map[Key][]byte
	expiresAt time.Time
}

// NewMemoryBackend builds a backend whose sessions expire ttl after their last write.
func NewMemoryBackend(ttl time.Duration) *MemoryBackend {
	return &MemoryBackend{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*memorySession),
	}
}

// Session returns the store of session id.
func (b *MemoryBackend) Session(id string) Store {
	if id == "" {
		return NoSession()
	}
	return &memoryStore{backend: b, id: id}
}

// Ping always succeeds.
func (b *MemoryBackend) Ping(context.Context) error { return nil }

// live returns the session when present and not expired. Caller holds b.mu.
func (b *MemoryBackend) live(id string) (*memorySession, bool) {
	sess, ok := b.sessions[id]
	if !ok {
		return nil, false
	}
	if b.ttl > 0 && b.now().After(sess.expiresAt) {
		delete(b.sessions, id)
		return nil, false
	}
	return sess, true
}

type memoryStore struct {
	backend *MemoryBackend
	id      string
}

func (s *memoryStore) Get(ctx context.Context, key Key) Lookup {
	if err := ctx.Err(); err != nil {
		return unavailable(err)
	}
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	sess, ok := b.live(s.id)
	if !ok {
		return missing()
	}
	v, ok := sess.values[key]
	if !ok {
		return missing()
	}
	return found(append([]byte(nil), v...))
}

func (s *memoryStore) Set(ctx context.Context, entries ...Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	sess, ok := b.live(s.id)
	if !ok {
		sess = &memorySession{values: make(map[Key][]byte, len(entries))}
		b.sessions[s.id] = sess
	}
	for _, e := range entries {
		sess.values[e.Key] = append([]byte(nil), e.Value...)
	}
	sess.expiresAt = b.now().Add(b.ttl)
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, keys ...Key) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	sess, ok := b.live(s.id)
	if !ok {
		return nil
	}
	for _, k := range keys {
		delete(sess.values, k)
	}
	if len(sess.values) == 0 {
		delete(b.sessions, s.id)
	}
	return nil
}

// PurgeExpired drops sessions whose ttl has passed.
func (b *MemoryBackend) PurgeExpired(context.Context) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var purged int64
	for id := range b.sessions {
		if _, ok := b.live(id); !ok {
			purged++
		}
	}
	return purged, nil
}
