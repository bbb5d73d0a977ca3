package repo

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"petstore/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// named in-memory DB so the pool's connections see the same schema
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{}, &domain.Category{}, &domain.Product{},
		&domain.Cart{}, &domain.CartItem{},
	))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price string) *domain.Product {
	t.Helper()
	cat := domain.Category{Name: "Dogs"}
	require.NoError(t, db.FirstOrCreate(&cat, domain.Category{Name: "Dogs"}).Error)
	p := domain.Product{
		Name:       name,
		CategoryID: cat.ID,
		Breed:      "Mixed",
		Price:      decimal.RequireFromString(price),
		HealthInfo: "vaccinated",
		Stock:      10,
	}
	require.NoError(t, db.Create(&p).Error)
	return &p
}

func TestCreateForUserSurvivesRace(t *testing.T) {
	db := newTestDB(t)
	r := NewCartRepo(db)
	ctx := context.Background()

	first, err := r.CreateForUser(ctx, 1)
	require.NoError(t, err)
	require.NotZero(t, first.ID)

	// the losing insert hits the unique index and gets the surviving row
	second, err := r.CreateForUser(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&domain.Cart{}).Where("user_id = ?", 1).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestAddOrIncrementItemMergesLines(t *testing.T) {
	db := newTestDB(t)
	r := NewCartRepo(db)
	ctx := context.Background()
	p := seedProduct(t, db, "Golden Retriever Puppy", "850.00")

	cart, err := r.CreateForUser(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, r.AddOrIncrementItem(ctx, cart.ID, p.ID, 2))
	require.NoError(t, r.AddOrIncrementItem(ctx, cart.ID, p.ID, 3))

	items, err := r.ListItems(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, 5, items[0].Quantity)
	require.NotNil(t, items[0].Product)
	require.Equal(t, "Golden Retriever Puppy", items[0].Product.Name)
}

func TestAddOrIncrementItemClampsQuantity(t *testing.T) {
	db := newTestDB(t)
	r := NewCartRepo(db)
	ctx := context.Background()
	p := seedProduct(t, db, "Betta Fish", "25.00")

	cart, err := r.CreateForUser(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, r.AddOrIncrementItem(ctx, cart.ID, p.ID, 0))
	items, err := r.ListItems(ctx, cart.ID)
	require.NoError(t, err)
	require.Equal(t, domain.MinItemQuantity, items[0].Quantity)

	require.NoError(t, r.AddOrIncrementItem(ctx, cart.ID, p.ID, 500))
	items, err = r.ListItems(ctx, cart.ID)
	require.NoError(t, err)
	require.Equal(t, domain.MaxItemQuantity, items[0].Quantity)
}

func TestSetItemQuantity(t *testing.T) {
	db := newTestDB(t)
	r := NewCartRepo(db)
	ctx := context.Background()
	p := seedProduct(t, db, "Persian Cat", "400.00")

	cart, err := r.CreateForUser(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, r.AddOrIncrementItem(ctx, cart.ID, p.ID, 2))
	items, _ := r.ListItems(ctx, cart.ID)
	itemID := items[0].ID

	owned, err := r.SetItemQuantity(ctx, cart.ID, itemID, 7)
	require.NoError(t, err)
	require.True(t, owned)
	items, _ = r.ListItems(ctx, cart.ID)
	require.Equal(t, 7, items[0].Quantity)

	// someone else's cart cannot touch the line
	other, err := r.CreateForUser(ctx, 2)
	require.NoError(t, err)
	owned, err = r.SetItemQuantity(ctx, other.ID, itemID, 1)
	require.NoError(t, err)
	require.False(t, owned)
	items, _ = r.ListItems(ctx, cart.ID)
	require.Equal(t, 7, items[0].Quantity)

	// zero deletes the row instead of persisting it
	owned, err = r.SetItemQuantity(ctx, cart.ID, itemID, 0)
	require.NoError(t, err)
	require.True(t, owned)
	items, _ = r.ListItems(ctx, cart.ID)
	require.Empty(t, items)
}

func TestRemoveAndClearItems(t *testing.T) {
	db := newTestDB(t)
	r := NewCartRepo(db)
	ctx := context.Background()
	p1 := seedProduct(t, db, "Parrot", "150.00")
	p2 := seedProduct(t, db, "Hamster", "30.00")

	cart, err := r.CreateForUser(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, r.AddOrIncrementItem(ctx, cart.ID, p1.ID, 1))
	require.NoError(t, r.AddOrIncrementItem(ctx, cart.ID, p2.ID, 1))

	items, _ := r.ListItems(ctx, cart.ID)
	require.Len(t, items, 2)

	ok, err := r.RemoveItem(ctx, cart.ID, items[0].ID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = r.RemoveItem(ctx, cart.ID, items[0].ID)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, r.ClearItems(ctx, cart.ID))
	items, _ = r.ListItems(ctx, cart.ID)
	require.Empty(t, items)

	// the cart row itself survives clearing
	got, err := r.FindByUser(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, cart.ID, got.ID)
}
