package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"petstore/internal/core/session"
	"petstore/internal/domain"
	"petstore/internal/repo"
)

type cartEnv struct {
	db       *gorm.DB
	store    *session.Store
	cart     *Cart
	checkout *Checkout
	sess     *session.Session
	dog      *domain.Product
	fish     *domain.Product
}

func newCartEnv(t *testing.T) *cartEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{}, &domain.Category{}, &domain.Product{},
		&domain.Cart{}, &domain.CartItem{},
	))

	cat := domain.Category{Name: "Pets"}
	require.NoError(t, db.Create(&cat).Error)
	dog := domain.Product{Name: "Golden Retriever Puppy", CategoryID: cat.ID, Breed: "Golden Retriever",
		Price: decimal.RequireFromString("850.00"), HealthInfo: "vaccinated", Stock: 3}
	fish := domain.Product{Name: "Betta Fish", CategoryID: cat.ID, Breed: "Betta",
		Price: decimal.RequireFromString("25.00"), HealthInfo: "healthy", Stock: 20}
	require.NoError(t, db.Create(&dog).Error)
	require.NoError(t, db.Create(&fish).Error)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := session.NewStore(rdb, 30*time.Minute)

	carts := repo.NewCartRepo(db)
	products := repo.NewProductRepo(db)
	log := zap.NewNop()

	sess := store.New()
	sess.SetUser(1, "alice", domain.RoleCustomer)
	require.NoError(t, store.Save(context.Background(), sess))

	return &cartEnv{
		db:       db,
		store:    store,
		cart:     NewCart(carts, products, store, log),
		checkout: NewCheckout(carts, store, log),
		sess:     sess,
		dog:      &dog,
		fish:     &fish,
	}
}

func TestResolveCartRequiresSignIn(t *testing.T) {
	env := newCartEnv(t)
	anon := env.store.New()

	_, err := env.cart.ResolveCart(context.Background(), anon)
	require.ErrorIs(t, err, ErrNotSignedIn)

	err = env.cart.AddItem(context.Background(), anon, env.dog.ID, 1)
	require.ErrorIs(t, err, ErrNotSignedIn)
}

func TestResolveCartCreatesOnceAndCaches(t *testing.T) {
	env := newCartEnv(t)
	ctx := context.Background()

	id, err := env.cart.ResolveCart(ctx, env.sess)
	require.NoError(t, err)
	require.NotZero(t, id)
	require.Equal(t, id, env.sess.CartID)

	// the cart reference is written through to the session store
	persisted, err := env.store.Load(ctx, env.sess.ID)
	require.NoError(t, err)
	require.Equal(t, id, persisted.CartID)

	again, err := env.cart.ResolveCart(ctx, env.sess)
	require.NoError(t, err)
	require.Equal(t, id, again)

	var count int64
	require.NoError(t, env.db.Model(&domain.Cart{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestAddItemUnknownProduct(t *testing.T) {
	env := newCartEnv(t)

	err := env.cart.AddItem(context.Background(), env.sess, 9999, 1)
	require.ErrorIs(t, err, ErrProductNotFound)

	// nothing was created for the failed add
	require.Zero(t, env.sess.CartID)
}

func TestAddItemClampsQuantity(t *testing.T) {
	env := newCartEnv(t)
	ctx := context.Background()

	require.NoError(t, env.cart.AddItem(ctx, env.sess, env.fish.ID, -5))

	view, err := env.cart.View(ctx, env.sess)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	require.Equal(t, 1, view.Lines[0].Quantity)
}

func TestViewTotals(t *testing.T) {
	env := newCartEnv(t)
	ctx := context.Background()

	require.NoError(t, env.cart.AddItem(ctx, env.sess, env.dog.ID, 2))
	require.NoError(t, env.cart.AddItem(ctx, env.sess, env.fish.ID, 1))

	view, err := env.cart.View(ctx, env.sess)
	require.NoError(t, err)
	require.Len(t, view.Lines, 2)
	require.True(t, view.Total.Equal(decimal.RequireFromString("1725.00")),
		"total = %s", view.Total)

	for _, line := range view.Lines {
		want := line.Product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		require.True(t, line.Subtotal.Equal(want))
	}
}

func TestUpdateQuantityRemovesAtZero(t *testing.T) {
	env := newCartEnv(t)
	ctx := context.Background()

	require.NoError(t, env.cart.AddItem(ctx, env.sess, env.dog.ID, 2))
	view, err := env.cart.View(ctx, env.sess)
	require.NoError(t, err)
	itemID := view.Lines[0].Item.ID

	require.NoError(t, env.cart.UpdateQuantity(ctx, env.sess, itemID, 3))
	view, err = env.cart.View(ctx, env.sess)
	require.NoError(t, err)
	require.Equal(t, 3, view.Lines[0].Quantity)

	require.NoError(t, env.cart.UpdateQuantity(ctx, env.sess, itemID, 0))
	view, err = env.cart.View(ctx, env.sess)
	require.NoError(t, err)
	require.Empty(t, view.Lines)
	require.True(t, view.Total.IsZero())
}

func TestViewSkipsDeletedProduct(t *testing.T) {
	env := newCartEnv(t)
	ctx := context.Background()

	require.NoError(t, env.cart.AddItem(ctx, env.sess, env.dog.ID, 1))
	require.NoError(t, env.cart.AddItem(ctx, env.sess, env.fish.ID, 1))

	require.NoError(t, env.db.Delete(&domain.Product{}, env.dog.ID).Error)

	view, err := env.cart.View(ctx, env.sess)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	require.True(t, view.Total.Equal(env.fish.Price))
}
