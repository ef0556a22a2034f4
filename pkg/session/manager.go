package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/transducer"
	"github.com/aretw0/transducer/internal/logging"
	"github.com/aretw0/transducer/pkg/definition"
	"github.com/aretw0/transducer/pkg/domain"
	"github.com/aretw0/transducer/pkg/ports"
)

// ErrMachineNotFound is returned when no machine is registered under a name.
var ErrMachineNotFound = errors.New("machine not found")

// DefaultLockTTL bounds how long a distributed lock outlives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager keeps named machines and serializes access to each of them.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	mu       sync.Mutex                     // guards locks
	locks    map[string]*lockEntry          // active per-name locks
	regMu    sync.RWMutex                   // guards machines
	machines map[string]*transducer.Machine // registered machines

	locker      ports.DistributedLocker // optional distributed locker
	lockTTL     time.Duration
	logger      *slog.Logger
	machineOpts []transducer.Option
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the expiry of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithMachineOptions sets the options applied to every machine the manager
// creates itself, such as metrics hooks.
func WithMachineOptions(opts ...transducer.Option) Option {
	return func(m *Manager) {
		m.machineOpts = append(m.machineOpts, opts...)
	}
}

// NewManager creates an empty manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		locks:    make(map[string]*lockEntry),
		machines: make(map[string]*transducer.Machine),
		lockTTL:  DefaultLockTTL,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(name) after unlocking.
func (m *Manager) acquire(name string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[name]
	if !exists {
		entry = &lockEntry{}
		m.locks[name] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[name]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, name)
	}
}

// WithLock executes fn while holding the lock for name.
func (m *Manager) WithLock(ctx context.Context, name string, fn func(context.Context) error) error {
	entry := m.acquire(name)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(name)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, name, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			// The caller's context may already be done; release on a fresh one.
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"machine", name,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// Register stores machine under name, replacing any previous one.
func (m *Manager) Register(ctx context.Context, name string, machine *transducer.Machine) error {
	if name == "" {
		return fmt.Errorf("machine name cannot be empty")
	}
	if machine == nil {
		return fmt.Errorf("machine cannot be nil")
	}
	return m.WithLock(ctx, name, func(context.Context) error {
		m.regMu.Lock()
		_, replaced := m.machines[name]
		m.machines[name] = machine
		m.regMu.Unlock()
		m.logger.Info("machine registered", "machine", name, "replaced", replaced)
		return nil
	})
}

// Load builds a machine from def and registers it under name.
func (m *Manager) Load(ctx context.Context, name string, def *definition.Definition) (*transducer.Machine, error) {
	opts := append([]transducer.Option{}, m.machineOpts...)
	opts = append(opts, transducer.WithName(name))
	machine, err := transducer.FromDefinition(def, opts...)
	if err != nil {
		return nil, err
	}
	if err := m.Register(ctx, name, machine); err != nil {
		return nil, err
	}
	return machine, nil
}

// Get returns the machine registered under name.
func (m *Manager) Get(name string) (*transducer.Machine, bool) {
	m.regMu.RLock()
	defer m.regMu.RUnlock()
	machine, ok := m.machines[name]
	return machine, ok
}

// Names lists the registered machines in lexical order.
func (m *Manager) Names() []string {
	m.regMu.RLock()
	defer m.regMu.RUnlock()
	names := make([]string, 0, len(m.machines))
	for name := range m.machines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Remove unregisters name.
func (m *Manager) Remove(ctx context.Context, name string) error {
	return m.WithLock(ctx, name, func(context.Context) error {
		m.regMu.Lock()
		defer m.regMu.Unlock()
		if _, ok := m.machines[name]; !ok {
			return fmt.Errorf("%w: %s", ErrMachineNotFound, name)
		}
		delete(m.machines, name)
		return nil
	})
}

// AddTransition adds t to the machine registered under name, creating an
// empty machine on first use.
func (m *Manager) AddTransition(ctx context.Context, name string, t *domain.Transition) (*transducer.Machine, error) {
	var machine *transducer.Machine
	err := m.WithLock(ctx, name, func(context.Context) error {
		m.regMu.Lock()
		var ok bool
		machine, ok = m.machines[name]
		if !ok {
			opts := append([]transducer.Option{}, m.machineOpts...)
			machine = transducer.New(append(opts, transducer.WithName(name))...)
			m.machines[name] = machine
		}
		m.regMu.Unlock()
		return machine.AddTransition(t)
	})
	if err != nil {
		return nil, err
	}
	return machine, nil
}

// Interpret runs the machine registered under name.
func (m *Manager) Interpret(ctx context.Context, name, input string) (string, error) {
	var out string
	err := m.WithLock(ctx, name, func(context.Context) error {
		machine, ok := m.Get(name)
		if !ok {
			return fmt.Errorf("%w: %s", ErrMachineNotFound, name)
		}
		var err error
		out, err = machine.Interpret(input)
		return err
	})
	return out, err
}

// Trace runs the machine registered under name and returns every step.
func (m *Manager) Trace(ctx context.Context, name, input string) ([]domain.Step, error) {
	var steps []domain.Step
	err := m.WithLock(ctx, name, func(context.Context) error {
		machine, ok := m.Get(name)
		if !ok {
			return fmt.Errorf("%w: %s", ErrMachineNotFound, name)
		}
		var err error
		steps, err = machine.Trace(input)
		return err
	})
	return steps, err
}
