package session

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const cleanupInterval = 30 * time.Second

// MemoryStore keeps sessions in process memory and evicts them after a
// period of inactivity.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*entry

	ttl    time.Duration
	logger *slog.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	cleanup chan struct{}
}

type entry struct {
	snapshot     Snapshot
	lastActivity time.Time
}

// NewMemoryStore creates an in-memory session store
func NewMemoryStore(ttl time.Duration, logger *slog.Logger) *MemoryStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	ctx, cancel := context.WithCancel(context.Background())
	store := &MemoryStore{
		entries: make(map[string]*entry),
		ttl:     ttl,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		cleanup: make(chan struct{}),
	}

	go store.cleanupLoop()

	return store
}

// Snapshot returns the session's current slots. Unknown sessions read as
// empty.
func (m *MemoryStore) Snapshot(ctx context.Context, sessionID string) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if e, ok := m.entries[sessionID]; ok {
		return e.snapshot, nil
	}
	return Snapshot{}, nil
}

// SetInput overwrites the session's input slot.
func (m *MemoryStore) SetInput(ctx context.Context, sessionID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.touch(sessionID)
	e.snapshot.InputText = text
	return nil
}

// SetTranslated overwrites the session's translation slot.
func (m *MemoryStore) SetTranslated(ctx context.Context, sessionID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.touch(sessionID)
	e.snapshot.TranslatedText = text
	return nil
}

// Count returns the number of live sessions.
func (m *MemoryStore) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries), nil
}

// Close stops the cleanup loop and drops all sessions.
func (m *MemoryStore) Close() error {
	m.cancel()
	<-m.cleanup

	m.mu.Lock()
	count := len(m.entries)
	m.entries = make(map[string]*entry)
	m.mu.Unlock()

	m.logger.Info("Session store closed", slog.Int("dropped_sessions", count))
	return nil
}

// touch returns the entry for the session, creating it if needed, and
// refreshes its activity timestamp. Callers must hold the write lock.
func (m *MemoryStore) touch(sessionID string) *entry {
	e, ok := m.entries[sessionID]
	if !ok {
		e = &entry{}
		m.entries[sessionID] = e
		m.logger.Debug("session created", slog.String("session_id", sessionID))
	}

	now := time.Now()
	e.lastActivity = now
	e.snapshot.UpdatedAt = now
	return e
}

func (m *MemoryStore) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	defer close(m.cleanup)

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.evictExpired()
		}
	}
}

func (m *MemoryStore) evictExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	evicted := 0
	for id, e := range m.entries {
		if now.Sub(e.lastActivity) > m.ttl {
			delete(m.entries, id)
			evicted++
		}
	}

	if evicted > 0 {
		m.logger.Debug("evicted idle sessions",
			slog.Int("evicted", evicted),
			slog.Int("remaining", len(m.entries)),
		)
	}
}
