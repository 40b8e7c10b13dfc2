package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/errand/internal/logging"
	"github.com/aretw0/errand/pkg/domain"
	"github.com/aretw0/errand/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed episode lock is held.
const DefaultLockTTL = 30 * time.Second

// ErrNoEngine is returned by Start and Step when the Manager was built without an engine.
var ErrNoEngine = errors.New("session manager has no engine")

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates episode access, ensuring safe concurrent operations.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store  ports.StateStore
	engine ports.StatelessEngine

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the distributed lock lease.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithEngine sets the engine used by Start and Step.
func WithEngine(engine ports.StatelessEngine) Option {
	return func(m *Manager) {
		m.engine = engine
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new episode Manager with the given persistence store.
func NewManager(store ports.StateStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(episodeID) after unlocking.
func (m *Manager) acquire(episodeID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[episodeID]
	if !exists {
		entry = &lockEntry{}
		m.locks[episodeID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(episodeID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[episodeID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, episodeID)
	}
}

// Load retrieves an existing episode from the store.
func (m *Manager) Load(ctx context.Context, episodeID string) (*domain.State, error) {
	var state *domain.State
	err := m.WithLock(ctx, episodeID, func(ctx context.Context) error {
		var err error
		state, err = m.store.Load(ctx, episodeID)
		return err
	})
	return state, err
}

// LoadOrStart loads an episode, or starts and persists a new one for task if absent.
func (m *Manager) LoadOrStart(ctx context.Context, episodeID string, task domain.TaskSpec) (*domain.State, error) {
	if m.engine == nil {
		return nil, ErrNoEngine
	}
	var state *domain.State
	err := m.WithLock(ctx, episodeID, func(ctx context.Context) error {
		var err error
		state, err = m.store.Load(ctx, episodeID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrEpisodeNotFound) {
			return fmt.Errorf("failed to check episode existence: %w", err)
		}

		state, err = m.engine.Start(ctx, episodeID, task)
		if err != nil {
			return err
		}
		// Persist immediately to reserve the ID
		if err := m.store.Save(ctx, episodeID, state); err != nil {
			return fmt.Errorf("failed to initialize episode: %w", err)
		}
		return nil
	})
	return state, err
}

// Start creates and persists a new episode. An empty ID is generated by the engine.
func (m *Manager) Start(ctx context.Context, episodeID string, task domain.TaskSpec) (*domain.State, error) {
	if m.engine == nil {
		return nil, ErrNoEngine
	}
	state, err := m.engine.Start(ctx, episodeID, task)
	if err != nil {
		return nil, err
	}
	if err := m.Save(ctx, state.EpisodeID, state); err != nil {
		return nil, err
	}
	return state, nil
}

// Step loads the episode, feeds it one observation and saves the result, atomically per
// episode. Terminal outcomes are persisted before the error is returned.
func (m *Manager) Step(ctx context.Context, episodeID, observation string) (*domain.State, string, error) {
	if m.engine == nil {
		return nil, "", ErrNoEngine
	}
	var (
		next    *domain.State
		command string
	)
	err := m.WithLock(ctx, episodeID, func(ctx context.Context) error {
		state, err := m.store.Load(ctx, episodeID)
		if err != nil {
			return err
		}

		var stepErr error
		next, command, stepErr = m.engine.Step(ctx, state, observation)
		if next == nil {
			return stepErr
		}
		if err := m.store.Save(ctx, episodeID, next); err != nil {
			return fmt.Errorf("failed to save episode: %w", err)
		}
		return stepErr
	})
	return next, command, err
}

// Succeed marks the episode as succeeded and persists it.
func (m *Manager) Succeed(ctx context.Context, episodeID string) (*domain.State, error) {
	if m.engine == nil {
		return nil, ErrNoEngine
	}
	var next *domain.State
	err := m.WithLock(ctx, episodeID, func(ctx context.Context) error {
		state, err := m.store.Load(ctx, episodeID)
		if err != nil {
			return err
		}
		next = m.engine.MarkSucceeded(ctx, state)
		return m.store.Save(ctx, episodeID, next)
	})
	return next, err
}

// Save persists the episode state.
func (m *Manager) Save(ctx context.Context, episodeID string, state *domain.State) error {
	return m.WithLock(ctx, episodeID, func(ctx context.Context) error {
		return m.store.Save(ctx, episodeID, state)
	})
}

// Delete removes the episode from the store.
func (m *Manager) Delete(ctx context.Context, episodeID string) error {
	return m.WithLock(ctx, episodeID, func(ctx context.Context) error {
		return m.store.Delete(ctx, episodeID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying state store.
func (m *Manager) Store() ports.StateStore {
	return m.store
}

// WithLock executes a function while holding the lock for the episode.
func (m *Manager) WithLock(ctx context.Context, episodeID string, fn func(context.Context) error) error {
	entry := m.acquire(episodeID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(episodeID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, episodeID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"episode_id", episodeID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
