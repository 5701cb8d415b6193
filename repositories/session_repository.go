package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AnthonyFclub/glor-crm/domain"
	"github.com/bradfitz/gomemcache/memcache"
	"github.com/karlseguin/ccache/v3"
	"go.uber.org/zap"
)

const (
	sessionPrefix = "session:"
	resetPrefix   = "reset:"
	revokedPrefix = "revoked:"
)

// SessionRepository guarda las sesiones de login y los tokens de recuperación
type SessionRepository interface {
	SaveSession(ctx context.Context, session *domain.AuthSession) error
	GetSession(ctx context.Context, id string) (*domain.AuthSession, error)
	DeleteSession(ctx context.Context, id string) error
	// RevokeUserSessions invalida todas las sesiones del usuario emitidas hasta ahora
	RevokeUserSessions(ctx context.Context, userID string, ttl time.Duration) error
	SaveResetToken(ctx context.Context, token, userID string, ttl time.Duration) error
	ConsumeResetToken(ctx context.Context, token string) (string, error)
	Close()
}

// memcachedClient es la parte de *memcache.Client que usa el repositorio
type memcachedClient interface {
	Get(key string) (*memcache.Item, error)
	Set(item *memcache.Item) error
	Delete(key string) error
}

// sessionRepository guarda en Memcached si está configurado, compartido entre
// réplicas y sin copia local: un logout en una réplica vale para todas.
// Sin Memcached usa ccache en memoria (una sola instancia).
type sessionRepository struct {
	localCache *ccache.Cache[[]byte]
	memcached  memcachedClient
	logger     *zap.Logger
}

// NewSessionRepository crea el repositorio; memcachedHost vacío deja solo el nivel local
func NewSessionRepository(memcachedHost string, logger *zap.Logger) SessionRepository {
	if memcachedHost == "" {
		logger.Info("Session store initialized (local only)")
		return newSessionRepository(nil, logger)
	}
	logger.Info("Session store initialized with Memcached", zap.String("host", memcachedHost))
	return newSessionRepository(memcache.New(memcachedHost), logger)
}

func newSessionRepository(client memcachedClient, logger *zap.Logger) *sessionRepository {
	r := &sessionRepository{memcached: client, logger: logger}
	if client == nil {
		r.localCache = ccache.New(ccache.Configure[[]byte]().MaxSize(10000))
	}
	return r
}

func (r *sessionRepository) SaveSession(ctx context.Context, session *domain.AuthSession) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", session.ID)
	}
	if session.IssuedAt.IsZero() {
		session.IssuedAt = time.Now().UTC()
	}
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.set(sessionPrefix+session.ID, data, ttl)
}

func (r *sessionRepository) GetSession(ctx context.Context, id string) (*domain.AuthSession, error) {
	data, err := r.get(sessionPrefix + id)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", id, err)
	}
	var session domain.AuthSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("session %s: corrupt entry: %w", id, err)
	}
	if time.Now().After(session.ExpiresAt) {
		r.delete(sessionPrefix + id)
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}

	revoked, err := r.revokedAt(session.UserID)
	if err != nil {
		return nil, err
	}
	if !revoked.IsZero() && !session.IssuedAt.After(revoked) {
		r.delete(sessionPrefix + id)
		return nil, fmt.Errorf("session %s revoked: %w", id, ErrNotFound)
	}
	return &session, nil
}

func (r *sessionRepository) DeleteSession(ctx context.Context, id string) error {
	r.delete(sessionPrefix + id)
	return nil
}

// RevokeUserSessions guarda la marca de revocación; ttl debe cubrir la vida de una sesión
func (r *sessionRepository) RevokeUserSessions(ctx context.Context, userID string, ttl time.Duration) error {
	stamp := time.Now().UTC().Format(time.RFC3339Nano)
	return r.set(revokedPrefix+userID, []byte(stamp), ttl)
}

func (r *sessionRepository) revokedAt(userID string) (time.Time, error) {
	data, err := r.get(revokedPrefix + userID)
	if errors.Is(err, ErrNotFound) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, string(data))
	if err != nil {
		return time.Time{}, fmt.Errorf("revocation for %s: corrupt entry: %w", userID, err)
	}
	return t, nil
}

func (r *sessionRepository) SaveResetToken(ctx context.Context, token, userID string, ttl time.Duration) error {
	return r.set(resetPrefix+token, []byte(userID), ttl)
}

// ConsumeResetToken devuelve el usuario del token y lo invalida. Solo gana
// quien logra borrarlo, así que el token sirve una sola vez aunque dos
// réplicas lo lean al mismo tiempo.
func (r *sessionRepository) ConsumeResetToken(ctx context.Context, token string) (string, error) {
	key := resetPrefix + token
	data, err := r.get(key)
	if err != nil {
		return "", fmt.Errorf("reset token: %w", err)
	}
	if err := r.take(key); err != nil {
		return "", fmt.Errorf("reset token: %w", err)
	}
	return string(data), nil
}

// Close detiene el worker de ccache
func (r *sessionRepository) Close() {
	if r.localCache != nil {
		r.localCache.Stop()
	}
}

func (r *sessionRepository) set(key string, data []byte, ttl time.Duration) error {
	if r.memcached == nil {
		r.localCache.Set(key, data, ttl)
		return nil
	}

	// Memcached usa segundos; redondeo hacia arriba para no expirar antes
	seconds := int32((ttl + time.Second - 1) / time.Second)
	item := &memcache.Item{Key: key, Value: data, Expiration: seconds}
	if err := r.memcached.Set(item); err != nil {
		r.logger.Error("Error setting key in Memcached", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

func (r *sessionRepository) get(key string) ([]byte, error) {
	if r.memcached == nil {
		if item := r.localCache.Get(key); item != nil && !item.Expired() {
			return item.Value(), nil
		}
		return nil, ErrNotFound
	}

	item, err := r.memcached.Get(key)
	if err != nil {
		if errors.Is(err, memcache.ErrCacheMiss) {
			return nil, ErrNotFound
		}
		r.logger.Error("Error getting key from Memcached", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	return item.Value, nil
}

// take borra la clave y falla con ErrNotFound si otro la borró antes
func (r *sessionRepository) take(key string) error {
	if r.memcached == nil {
		if !r.localCache.Delete(key) {
			return ErrNotFound
		}
		return nil
	}

	err := r.memcached.Delete(key)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return ErrNotFound
	}
	if err != nil {
		r.logger.Error("Error deleting key from Memcached", zap.String("key", key), zap.Error(err))
	}
	return err
}

func (r *sessionRepository) delete(key string) {
	if err := r.take(key); err != nil && !errors.Is(err, ErrNotFound) {
		r.logger.Warn("Key not deleted", zap.String("key", key), zap.Error(err))
	}
}
