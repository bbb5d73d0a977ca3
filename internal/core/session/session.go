// Package session holds per-browser login and cart state in redis, keyed by an
// opaque cookie value. It replaces ambient request-global state with an
// explicit object handed to the services that mutate it.
package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// Data is everything a session carries. Zero UserID means anonymous.
type Data struct {
	UserID   uint   `json:"userId,omitempty"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"` // "Customer"/"Admin"
	CartID   uint   `json:"cartId,omitempty"`
}

type Session struct {
	ID string
	Data
}

func (s *Session) SignedIn() bool { return s.UserID != 0 }

// SetUser records the signed-in identity. The cart reference survives a
// re-login on the same browser.
func (s *Session) SetUser(id uint, username, role string) {
	s.UserID = id
	s.Username = username
	s.Role = role
}

// Reset drops everything the session carries, keeping its ID.
func (s *Session) Reset() { s.Data = Data{} }

// Store persists sessions with a sliding idle timeout: every Load refreshes
// the TTL, so only inactivity expires a session.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, idleTimeout time.Duration) *Store {
	return &Store{rdb: rdb, ttl: idleTimeout}
}

// New returns a fresh anonymous session. It is not persisted until Save.
func (st *Store) New() *Session {
	return &Session{ID: uuid.NewString()}
}

// Load fetches the session for id and refreshes its idle timeout. A missing or
// expired session yields (nil, nil).
func (st *Store) Load(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, nil
	}
	b, err := st.rdb.GetEx(ctx, keyPrefix+id, st.ttl).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s := &Session{ID: id}
	if err := json.Unmarshal(b, &s.Data); err != nil {
		return nil, err
	}
	return s, nil
}

func (st *Store) Save(ctx context.Context, s *Session) error {
	b, err := json.Marshal(s.Data)
	if err != nil {
		return err
	}
	return st.rdb.Set(ctx, keyPrefix+s.ID, b, st.ttl).Err()
}

// Delete evicts the session entirely, e.g. on logout.
func (st *Store) Delete(ctx context.Context, id string) error {
	return st.rdb.Del(ctx, keyPrefix+id).Err()
}

// IdleTimeout reports the configured inactivity window, used for the cookie
// max-age.
func (st *Store) IdleTimeout() time.Duration { return st.ttl }
