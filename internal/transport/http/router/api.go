package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"petstore/internal/core/session"
	"petstore/internal/service"
	"petstore/internal/transport/http/handler"
	mdw "petstore/internal/transport/http/middleware"
)

// APIDeps carries everything the storefront engine mounts.
type APIDeps struct {
	Log          *zap.Logger
	Sessions     *session.Store
	CookieName   string
	CookieSecure bool

	Catalog  *service.Catalog
	Cart     *service.Cart
	Checkout *service.Checkout
	Accounts *service.Account
}

// NewAPIEngine builds the storefront engine: cookie sessions, no tokens.
func NewAPIEngine(d APIDeps) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		mdw.SimpleRecovery(),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
	)

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = false
	corsCfg.AllowOriginFunc = func(string) bool { return true }
	corsCfg.AllowCredentials = true // the session cookie must survive CORS
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	api.Use(mdw.Session(d.Sessions, d.CookieName, d.CookieSecure))

	Register(handler.NewCatalog(d.Catalog))
	Register(handler.NewAccount(d.Accounts, d.CookieName, d.CookieSecure))
	Register(handler.NewCart(d.Cart))
	Register(handler.NewCheckout(d.Checkout, d.Cart))
	MountAllAPI(api)

	return r
}
