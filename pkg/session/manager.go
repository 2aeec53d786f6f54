// Package session keeps analysis runs in memory per client session. Sessions
// expire after an idle TTL, the store is capped with least-recently-used
// eviction, and concurrent graph builds are limited by a semaphore so a burst
// of uploads cannot exhaust the process.
package session

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chainsight-io/chainsight/pkg/logging"
	"github.com/chainsight-io/chainsight/pkg/metrics"
	"github.com/chainsight-io/chainsight/pkg/pipeline"
)

// Store limits.
const (
	DefaultTTL        = 7200 * time.Second
	DefaultCapacity   = 100
	DefaultBuildSlots = 5
	janitorInterval   = 60 * time.Second
)

var (
	// ErrNotFound means the session id is unknown or already expired.
	ErrNotFound = errors.New("session not found")
	// ErrNoRun means the session exists but holds no completed analysis yet.
	ErrNoRun = errors.New("session has no analysis run")
)

// Session is one client's slot: at most one current run.
type Session struct {
	ID        string
	Run       *pipeline.Run
	CreatedAt time.Time
	lastUsed  time.Time
}

// Manager is the concurrent session store.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	ttl      time.Duration
	capacity int
	builds   chan struct{}

	log  logging.Logger
	stop chan struct{}
	wg   sync.WaitGroup
}

// Config tunes the store. Zero fields take defaults.
type Config struct {
	TTL        time.Duration
	Capacity   int
	BuildSlots int
	Logger     logging.Logger
}

// NewManager creates a session store and starts its expiry janitor.
// Call Close to stop the janitor.
func NewManager(cfg Config) *Manager {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultCapacity
	}
	if cfg.BuildSlots <= 0 {
		cfg.BuildSlots = DefaultBuildSlots
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}

	m := &Manager{
		sessions: make(map[string]*Session),
		ttl:      cfg.TTL,
		capacity: cfg.Capacity,
		builds:   make(chan struct{}, cfg.BuildSlots),
		log:      cfg.Logger,
		stop:     make(chan struct{}),
	}
	m.wg.Add(1)
	go m.janitor()
	return m
}

// Create allocates a new session. If the store is full, the least recently
// used session is evicted first.
func (m *Manager) Create() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sessions) >= m.capacity {
		m.evictOldestLocked()
	}

	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		lastUsed:  now,
	}
	m.sessions[s.ID] = s
	metrics.SessionsCreated.Inc()
	metrics.SessionsActive.Set(float64(len(m.sessions)))
	return s
}

// Get returns the session and refreshes its idle timer. Expired sessions are
// removed on access rather than waiting for the janitor.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if time.Since(s.lastUsed) > m.ttl {
		delete(m.sessions, id)
		metrics.SessionsExpired.Inc()
		metrics.SessionsActive.Set(float64(len(m.sessions)))
		return nil, ErrNotFound
	}
	s.lastUsed = time.Now()
	return s, nil
}

// Run returns the session's completed analysis run.
func (m *Manager) Run(id string) (*pipeline.Run, error) {
	s, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	run := s.Run
	m.mu.RUnlock()
	if run == nil {
		return nil, ErrNoRun
	}
	return run, nil
}

// Build executes one analysis run under the build semaphore and attaches the
// result to the session. Blocks while all build slots are busy, honoring ctx.
func (m *Manager) Build(ctx context.Context, id string, in pipeline.Inputs, opts pipeline.Options) (*pipeline.Run, error) {
	if _, err := m.Get(id); err != nil {
		return nil, err
	}

	select {
	case m.builds <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	metrics.SessionBuildsInFlight.Inc()
	defer func() {
		<-m.builds
		metrics.SessionBuildsInFlight.Dec()
	}()

	run, err := pipeline.New(in, opts)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		// Session evicted while the build ran. The run is still returned so
		// the caller can respond, it just is not retained.
		return run, nil
	}
	s.Run = run
	s.lastUsed = time.Now()
	return run, nil
}

// Delete removes a session.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; ok {
		delete(m.sessions, id)
		metrics.SessionsActive.Set(float64(len(m.sessions)))
	}
}

// Len returns the live session count.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close stops the janitor and waits for it to exit.
func (m *Manager) Close() {
	close(m.stop)
	m.wg.Wait()
}

// evictOldestLocked drops the least recently used session. Ties broken by id
// so eviction is deterministic. Caller holds the write lock.
func (m *Manager) evictOldestLocked() {
	var victim string
	var oldest time.Time
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		s := m.sessions[id]
		if victim == "" || s.lastUsed.Before(oldest) {
			victim = id
			oldest = s.lastUsed
		}
	}
	if victim != "" {
		delete(m.sessions, victim)
		metrics.SessionsEvicted.Inc()
		m.log.Info("session evicted", logging.Field{Key: "session_id", Value: victim})
	}
}

func (m *Manager) janitor() {
	defer m.wg.Done()
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *Manager) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for id, s := range m.sessions {
		if now.Sub(s.lastUsed) > m.ttl {
			delete(m.sessions, id)
			metrics.SessionsExpired.Inc()
		}
	}
	metrics.SessionsActive.Set(float64(len(m.sessions)))
}
