package session

import (
	"context"
	"fmt"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"serialfic-backend/internal/config"
)

// KeyUserID is the session value holding the authenticated user's id.
const KeyUserID = "uid"

// Manager wraps scs.SessionManager with the operations the API needs.
type Manager struct {
	*scs.SessionManager
	store *RedisStore
}

func NewManager(client *redis.Client, cfg config.SessionConfig) *Manager {
	sm := scs.New()
	sm.Lifetime = cfg.Lifetime
	sm.IdleTimeout = cfg.IdleTimeout

	sm.Cookie.Name = cfg.CookieName
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.Secure
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"
	sm.Cookie.Persist = true

	store := NewRedisStore(client, sm.Codec, cfg.Lifetime)
	sm.Store = store

	return &Manager{SessionManager: sm, store: store}
}

// Login binds the session to uid. The token is renewed to prevent fixation.
func (m *Manager) Login(ctx context.Context, uid uuid.UUID) error {
	if err := m.RenewToken(ctx); err != nil {
		return fmt.Errorf("renew session token: %w", err)
	}
	m.Put(ctx, KeyUserID, uid.String())
	return nil
}

func (m *Manager) Logout(ctx context.Context) error {
	return m.Destroy(ctx)
}

// UserID returns the authenticated user, if any.
func (m *Manager) UserID(ctx context.Context) (uuid.UUID, bool) {
	raw := m.GetString(ctx, KeyUserID)
	if raw == "" {
		return uuid.Nil, false
	}
	uid, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return uid, true
}

// RevokeUser logs uid out everywhere.
func (m *Manager) RevokeUser(ctx context.Context, uid uuid.UUID) error {
	_, err := m.store.DeleteUserSessions(ctx, uid.String())
	return err
}
