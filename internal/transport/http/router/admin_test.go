package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"petstore/internal/core/auth"
	"petstore/internal/core/cache"
	"petstore/internal/core/database"
	"petstore/internal/domain"
	"petstore/internal/repo"
	"petstore/internal/service"
)

type adminClient struct {
	t      *testing.T
	engine *gin.Engine
	token  string
}

func (c *adminClient) do(method, path string, body any) envelope {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	c.engine.ServeHTTP(rec, req)
	require.Equal(c.t, http.StatusOK, rec.Code)
	var env envelope
	require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func newBackOffice(t *testing.T) (*adminClient, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{}, &domain.Category{}, &domain.Product{},
		&domain.Cart{}, &domain.CartItem{},
		&domain.Order{}, &domain.OrderedItem{},
	))
	require.NoError(t, database.Seed(db, zap.NewNop()))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	users := repo.NewUserRepo(db)
	products := repo.NewProductRepo(db)
	categories := repo.NewCategoryRepo(db)
	orders := repo.NewOrderRepo(db)

	engine := NewAdminEngine(AdminDeps{
		Log:     zap.NewNop(),
		DB:      db,
		JWTer:   &auth.JWTer{Secret: []byte("test-secret"), Issuer: "petstore-admin", TTL: time.Hour},
		Admin:   service.NewAdmin(products, categories, users, orders),
		Catalog: service.NewCatalog(products, categories, cache.New(rdb)),
	})
	return &adminClient{t: t, engine: engine}, db
}

func (c *adminClient) login(login, password string) envelope {
	c.t.Helper()
	env := c.do(http.MethodPost, "/admin/v1/auth/login", gin.H{"login": login, "password": password})
	if env.Code == 0 {
		var out struct {
			Token string `json:"token"`
		}
		require.NoError(c.t, json.Unmarshal(env.Data, &out))
		c.token = out.Token
	}
	return env
}

func TestAdminLogin(t *testing.T) {
	client, db := newBackOffice(t)

	env := client.do(http.MethodGet, "/admin/v1/dashboard", nil)
	require.Equal(t, 401, env.Code)

	env = client.login("admin", "wrong")
	require.Equal(t, 401, env.Code)

	// a customer never gets a back-office token
	customer := domain.User{Username: "jane", Email: "jane@example.com",
		PasswordHash: "x", Role: domain.RoleCustomer}
	require.NoError(t, db.Create(&customer).Error)
	env = client.do(http.MethodPost, "/admin/v1/auth/login", gin.H{"login": "jane", "password": "whatever"})
	require.NotZero(t, env.Code)

	env = client.login("admin", "AdminPetStore123")
	require.Zero(t, env.Code, "admin login: %s", env.Msg)
	require.NotEmpty(t, client.token)
}

func TestAdminDashboard(t *testing.T) {
	client, _ := newBackOffice(t)
	require.Zero(t, client.login("admin", "AdminPetStore123").Code)

	env := client.do(http.MethodGet, "/admin/v1/dashboard", nil)
	require.Zero(t, env.Code)

	var dash service.Dashboard
	require.NoError(t, json.Unmarshal(env.Data, &dash))
	require.Positive(t, dash.TotalProducts)
	require.Positive(t, dash.TotalCategories)
	require.Positive(t, dash.TotalUsers)
	require.NotEmpty(t, dash.RecentProducts)
	require.LessOrEqual(t, len(dash.RecentProducts), 5)
}

func TestAdminProductCRUD(t *testing.T) {
	client, db := newBackOffice(t)
	require.Zero(t, client.login("admin", "AdminPetStore123").Code)

	var cat domain.Category
	require.NoError(t, db.First(&cat).Error)

	env := client.do(http.MethodPost, "/admin/v1/products", gin.H{
		"name": "Ragdoll Kitten", "categoryId": cat.ID, "breed": "Ragdoll",
		"ageInMonths": 3, "price": "320.00", "healthInfo": "vaccinated", "stock": 2,
	})
	require.Zero(t, env.Code, "create: %s", env.Msg)
	var created domain.Product
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotZero(t, created.ID)

	env = client.do(http.MethodPut, fmt.Sprintf("/admin/v1/products/%d", created.ID), gin.H{
		"name": "Ragdoll Kitten", "categoryId": cat.ID, "breed": "Ragdoll",
		"ageInMonths": 4, "price": "299.00", "healthInfo": "vaccinated", "stock": 1,
	})
	require.Zero(t, env.Code, "update: %s", env.Msg)

	env = client.do(http.MethodPost, "/admin/v1/products", gin.H{
		"name": "Free Pet", "categoryId": cat.ID, "breed": "Mixed",
		"price": "0", "healthInfo": "vaccinated",
	})
	require.Equal(t, 400, env.Code)

	env = client.do(http.MethodDelete, fmt.Sprintf("/admin/v1/products/%d", created.ID), nil)
	require.Zero(t, env.Code)
	env = client.do(http.MethodDelete, fmt.Sprintf("/admin/v1/products/%d", created.ID), nil)
	require.Equal(t, 404, env.Code)
}

func TestAdminCategoryDeleteGuard(t *testing.T) {
	client, db := newBackOffice(t)
	require.Zero(t, client.login("admin", "AdminPetStore123").Code)

	// seeded categories still have products behind them
	var cat domain.Category
	require.NoError(t, db.Joins("JOIN products ON products.category_id = categories.id").
		First(&cat).Error)

	env := client.do(http.MethodDelete, fmt.Sprintf("/admin/v1/categories/%d", cat.ID), nil)
	require.Equal(t, 409, env.Code)

	env = client.do(http.MethodPost, "/admin/v1/categories", gin.H{"name": "Reptiles"})
	require.Zero(t, env.Code)
	var created domain.Category
	require.NoError(t, json.Unmarshal(env.Data, &created))

	env = client.do(http.MethodDelete, fmt.Sprintf("/admin/v1/categories/%d", created.ID), nil)
	require.Zero(t, env.Code)
}
