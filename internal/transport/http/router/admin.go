package router

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"petstore/internal/core/auth"
	"petstore/internal/domain"
	"petstore/internal/service"
	mdw "petstore/internal/transport/http/middleware"
)

// AdminDeps carries everything the back-office engine mounts.
type AdminDeps struct {
	Log   *zap.Logger
	DB    *gorm.DB
	JWTer *auth.JWTer

	Admin   *service.Admin
	Catalog *service.Catalog
}

// NewAdminEngine builds the back-office engine. All routes except login and
// health require a bearer token with the Admin role.
func NewAdminEngine(d AdminDeps) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(100, 200),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		ginzap.Ginzap(d.Log, time.RFC3339, true),
		ginzap.RecoveryWithZap(d.Log, true),
		mdw.Metrics(),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	public := r.Group("/admin/v1")
	mountAdminLogin(public, d.DB, d.JWTer)

	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(d.JWTer, domain.RoleAdmin))

	MountAllAdmin(admin)
	MountAdminActions(admin, d)

	return r
}
