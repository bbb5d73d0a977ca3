package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"petstore/internal/core/session"
	"petstore/internal/domain"
	"petstore/internal/repo"
)

func newAccountEnv(t *testing.T) (*Account, *session.Store) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := session.NewStore(rdb, 30*time.Minute)

	return NewAccount(repo.NewUserRepo(db), store, zap.NewNop()), store
}

func TestRegisterSignsIn(t *testing.T) {
	svc, store := newAccountEnv(t)
	ctx := context.Background()
	sess := store.New()

	u, fieldErrs, err := svc.Register(ctx, sess, RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "secret1",
	})
	require.NoError(t, err)
	require.Nil(t, fieldErrs)
	require.Equal(t, domain.RoleCustomer, u.Role)

	require.True(t, sess.SignedIn())
	require.Equal(t, u.ID, sess.UserID)

	persisted, err := store.Load(ctx, sess.ID)
	require.NoError(t, err)
	require.Equal(t, u.ID, persisted.UserID)
}

func TestRegisterDuplicateFields(t *testing.T) {
	svc, store := newAccountEnv(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, store.New(), RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "secret1",
	})
	require.NoError(t, err)

	_, fieldErrs, err := svc.Register(ctx, store.New(), RegisterInput{
		Username: "alice", Email: "other@example.com", Password: "secret1",
	})
	require.NoError(t, err)
	require.Equal(t, "Username already exists.", fieldErrs["username"])

	_, fieldErrs, err = svc.Register(ctx, store.New(), RegisterInput{
		Username: "bob", Email: "alice@example.com", Password: "secret1",
	})
	require.NoError(t, err)
	require.Equal(t, "Email already exists.", fieldErrs["email"])
}

func TestLoginByUsernameOrEmail(t *testing.T) {
	svc, store := newAccountEnv(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, store.New(), RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "secret1",
	})
	require.NoError(t, err)

	sess := store.New()
	u, err := svc.Login(ctx, sess, "alice", "secret1")
	require.NoError(t, err)
	require.Equal(t, "alice", u.Username)
	require.True(t, sess.SignedIn())

	sess = store.New()
	_, err = svc.Login(ctx, sess, "alice@example.com", "secret1")
	require.NoError(t, err)

	_, err = svc.Login(ctx, store.New(), "alice", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, store.New(), "nobody", "secret1")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutEvictsSession(t *testing.T) {
	svc, store := newAccountEnv(t)
	ctx := context.Background()

	sess := store.New()
	_, _, err := svc.Register(ctx, sess, RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "secret1",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, sess))
	require.False(t, sess.SignedIn())

	got, err := store.Load(ctx, sess.ID)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestChangePassword(t *testing.T) {
	svc, store := newAccountEnv(t)
	ctx := context.Background()

	sess := store.New()
	u, _, err := svc.Register(ctx, sess, RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "secret1",
	})
	require.NoError(t, err)

	require.ErrorIs(t, svc.ChangePassword(ctx, u.ID, "wrong", "newpass1"), ErrWrongPassword)
	require.NoError(t, svc.ChangePassword(ctx, u.ID, "secret1", "newpass1"))

	_, err = svc.Login(ctx, store.New(), "alice", "newpass1")
	require.NoError(t, err)
	_, err = svc.Login(ctx, store.New(), "alice", "secret1")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
