package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewStore(rdb, 30*time.Minute), mr
}

func TestStoreRoundTrip(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	s := st.New()
	require.NotEmpty(t, s.ID)
	require.False(t, s.SignedIn())

	s.SetUser(7, "alice", "Customer")
	s.CartID = 3
	require.NoError(t, st.Save(ctx, s))

	got, err := st.Load(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, s.ID, got.ID)
	require.Equal(t, uint(7), got.UserID)
	require.Equal(t, "alice", got.Username)
	require.Equal(t, uint(3), got.CartID)
	require.True(t, got.SignedIn())
}

func TestLoadMissingSession(t *testing.T) {
	st, _ := newTestStore(t)

	got, err := st.Load(context.Background(), "no-such-id")
	require.NoError(t, err)
	require.Nil(t, got)

	got, err = st.Load(context.Background(), "")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestIdleTimeoutSlides(t *testing.T) {
	st, mr := newTestStore(t)
	ctx := context.Background()

	s := st.New()
	s.SetUser(1, "bob", "Customer")
	require.NoError(t, st.Save(ctx, s))

	// activity just before expiry keeps the session alive
	mr.FastForward(29 * time.Minute)
	got, err := st.Load(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	mr.FastForward(29 * time.Minute)
	got, err = st.Load(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	// a full idle window with no activity expires it
	mr.FastForward(31 * time.Minute)
	got, err = st.Load(ctx, s.ID)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestDelete(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	s := st.New()
	s.SetUser(2, "carol", "Customer")
	require.NoError(t, st.Save(ctx, s))
	require.NoError(t, st.Delete(ctx, s.ID))

	got, err := st.Load(ctx, s.ID)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestResetKeepsID(t *testing.T) {
	st, _ := newTestStore(t)

	s := st.New()
	id := s.ID
	s.SetUser(5, "dave", "Admin")
	s.CartID = 9
	s.Reset()

	require.Equal(t, id, s.ID)
	require.False(t, s.SignedIn())
	require.Zero(t, s.CartID)
	require.Empty(t, s.Role)
}
