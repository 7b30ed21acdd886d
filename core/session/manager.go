// Package session signs users in & out and gates what their role may reach.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo/core"
	"github.com/trezcool/masomo/core/user"
)

// IdentityStore persists the signed-in identity across restarts.
// Load returns nil, nil when nothing is stored.
type IdentityStore interface {
	Load() (*user.User, error)
	Save(usr user.User) error
	Clear() error
}

// StoreFactory opens the IdentityStore of one session, by key.
type StoreFactory func(key string) IdentityStore

// Authenticator resolves credentials into an identity, without keeping any state.
type Authenticator struct {
	verifier CredentialVerifier
	dir      Directory
	delay    time.Duration
}

func NewAuthenticator(verifier CredentialVerifier, dir Directory, delay time.Duration) *Authenticator {
	return &Authenticator{verifier: verifier, dir: dir, delay: delay}
}

// Authenticate waits the login delay, then checks the password & looks up the role's identity.
func (a *Authenticator) Authenticate(ctx context.Context, email, password string, role user.Role) (user.User, error) {
	if a.delay > 0 {
		timer := time.NewTimer(a.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return user.User{}, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return user.User{}, err
	}

	if err := a.verifier.Verify(email, password); err != nil {
		return user.User{}, core.NewAuthenticationError("invalid credentials")
	}
	usr, ok := a.dir.ForRole(role)
	if !ok {
		return user.User{}, core.NewAuthenticationError("user not found")
	}
	return usr, nil
}

// Manager is a single session: Anonymous until a successful Login, backed by an IdentityStore.
// It is safe for concurrent use.
type Manager struct {
	auth   *Authenticator
	store  IdentityStore
	logger core.Logger

	mu      sync.RWMutex
	current *user.User
}

func NewManager(auth *Authenticator, store IdentityStore, logger core.Logger) *Manager {
	return &Manager{auth: auth, store: store, logger: logger}
}

// Login authenticates & persists the identity. On failure the session is left as it was.
func (m *Manager) Login(ctx context.Context, email, password string, role user.Role) (user.User, error) {
	usr, err := m.auth.Authenticate(ctx, email, password, role)
	if err != nil {
		return user.User{}, err
	}
	if err := m.store.Save(usr); err != nil {
		return user.User{}, errors.Wrap(err, "saving identity")
	}

	m.mu.Lock()
	m.current = &usr
	m.mu.Unlock()

	m.logger.Info("user signed in", usr)
	return usr, nil
}

// Logout drops the identity, in memory even when the store fails to clear.
func (m *Manager) Logout() error {
	m.mu.Lock()
	usr := m.current
	m.current = nil
	m.mu.Unlock()

	if err := m.store.Clear(); err != nil {
		return errors.Wrap(err, "clearing identity")
	}
	if usr != nil {
		m.logger.Info("user signed out", *usr)
	}
	return nil
}

// Restore loads the persisted identity. Unreadable data leaves the session anonymous.
func (m *Manager) Restore() State {
	usr, err := m.store.Load()
	if err != nil {
		m.logger.Warn("discarding stored identity", err)
		usr = nil
	}

	m.mu.Lock()
	m.current = usr
	m.mu.Unlock()
	return State{User: copyUser(usr)}
}

func (m *Manager) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return State{User: copyUser(m.current)}
}

func (m *Manager) IsAuthenticated() bool {
	return m.Current().IsAuthenticated()
}

func copyUser(usr *user.User) *user.User {
	if usr == nil {
		return nil
	}
	cp := *usr
	return &cp
}
