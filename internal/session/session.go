// Package session holds the single authenticated identity of the process.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jwalitptl/smarthealth/internal/model"
	"github.com/jwalitptl/smarthealth/pkg/logger"
)

// Authenticator is the subset of the auth API the session drives
type Authenticator interface {
	Login(ctx context.Context, email, password string) (model.LoginResponse, error)
	Account(ctx context.Context) (model.User, error)
	Logout(ctx context.Context) error
	Refresh(ctx context.Context) (model.LoginResponse, error)
}

// Snapshot is a read-only copy of the session
type Snapshot struct {
	LoggedIn  bool
	User      model.Principal
	Role      string
	Token     string
	ExpiresAt time.Time
}

// Manager owns the token and principal. Create one per process and pass it
// to whatever needs it.
type Manager struct {
	mu       sync.RWMutex
	store    Store
	state    State
	loggedIn bool
	log      *logger.Logger
	now      func() time.Time

	subs    map[int]func(Snapshot)
	nextSub int
}

func NewManager(store Store, log *logger.Logger) *Manager {
	if store == nil {
		store = NewMemoryStore()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{
		store: store,
		log:   log.With("component", "session"),
		now:   time.Now,
		subs:  make(map[int]func(Snapshot)),
	}
}

// Token implements client.TokenSource
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Token
}

func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() Snapshot {
	return Snapshot{
		LoggedIn:  m.loggedIn,
		User:      m.state.User,
		Role:      m.state.User.Role,
		Token:     m.state.Token,
		ExpiresAt: m.state.ExpiresAt,
	}
}

// Restore silently resumes a persisted session. Failures leave the session
// logged out and are only logged.
func (m *Manager) Restore(ctx context.Context, auth Authenticator) Snapshot {
	st, err := m.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrNoSession) {
			m.log.Warn("failed to load stored session", "error", err.Error())
		}
		return m.Snapshot()
	}

	if exp, ok := tokenExpiry(st.Token); ok {
		st.ExpiresAt = exp
	}
	if !st.ExpiresAt.IsZero() && !m.now().Before(st.ExpiresAt) {
		m.log.Info("stored session expired")
		m.clear(ctx)
		return m.Snapshot()
	}

	m.mu.Lock()
	m.state = State{Token: st.Token, ExpiresAt: st.ExpiresAt}
	m.mu.Unlock()

	user, err := auth.Account(ctx)
	if err != nil {
		m.log.Warn("stored session rejected", "error", err.Error())
		m.clear(ctx)
		return m.Snapshot()
	}

	m.mu.Lock()
	m.state.User = model.PrincipalOf(user)
	m.loggedIn = true
	st = m.state
	m.mu.Unlock()

	m.persist(ctx, st)
	m.publish()
	return m.Snapshot()
}

func (m *Manager) Login(ctx context.Context, auth Authenticator, email, password string) (Snapshot, error) {
	resp, err := auth.Login(ctx, email, password)
	if err != nil {
		return m.Snapshot(), err
	}
	if err := m.apply(ctx, auth, resp); err != nil {
		return m.Snapshot(), err
	}
	m.log.Info("logged in", "user_id", resp.User.ID)
	return m.Snapshot(), nil
}

// Refresh swaps the token for a fresh one and keeps the principal
func (m *Manager) Refresh(ctx context.Context, auth Authenticator) (Snapshot, error) {
	resp, err := auth.Refresh(ctx)
	if err != nil {
		return m.Snapshot(), err
	}
	if err := m.apply(ctx, auth, resp); err != nil {
		return m.Snapshot(), err
	}
	return m.Snapshot(), nil
}

func (m *Manager) apply(ctx context.Context, auth Authenticator, resp model.LoginResponse) error {
	st := State{Token: resp.Token, User: model.PrincipalOf(resp.User)}
	if resp.ExpiresAt != nil {
		st.ExpiresAt = *resp.ExpiresAt
	} else if exp, ok := tokenExpiry(resp.Token); ok {
		st.ExpiresAt = exp
	}

	if st.User.ID == 0 {
		// some deployments return only the token; resolve the principal with it
		m.mu.Lock()
		m.state = st
		m.mu.Unlock()

		user, err := auth.Account(ctx)
		if err != nil {
			m.clear(ctx)
			return err
		}
		st.User = model.PrincipalOf(user)
	}

	m.mu.Lock()
	m.state = st
	m.loggedIn = true
	m.mu.Unlock()

	m.persist(ctx, st)
	m.publish()
	return nil
}

// Logout ends the session locally even when the server call fails
func (m *Manager) Logout(ctx context.Context, auth Authenticator) error {
	var err error
	if m.Token() != "" {
		err = auth.Logout(ctx)
		if err != nil {
			m.log.Warn("server logout failed, clearing local session", "error", err.Error())
		}
	}
	m.clear(ctx)
	return err
}

func (m *Manager) clear(ctx context.Context) {
	m.mu.Lock()
	m.state = State{}
	m.loggedIn = false
	m.mu.Unlock()

	if err := m.store.Clear(ctx); err != nil {
		m.log.Warn("failed to clear stored session", "error", err.Error())
	}
	m.publish()
}

func (m *Manager) persist(ctx context.Context, st State) {
	if err := m.store.Save(ctx, st); err != nil {
		m.log.Warn("failed to persist session", "error", err.Error())
	}
}

// Subscribe registers fn for every session change
func (m *Manager) Subscribe(fn func(Snapshot)) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

func (m *Manager) publish() {
	m.mu.RLock()
	snap := m.snapshotLocked()
	subs := make([]func(Snapshot), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.RUnlock()

	for _, fn := range subs {
		fn(snap)
	}
}
