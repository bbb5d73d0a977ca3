package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"petstore/internal/core/cache"
	"petstore/internal/core/config"
	"petstore/internal/core/database"
	"petstore/internal/core/logger"
	"petstore/internal/core/server"
	"petstore/internal/core/session"
	"petstore/internal/domain"
	"petstore/internal/repo"
	"petstore/internal/service"
	"petstore/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(
			&domain.User{}, &domain.Category{}, &domain.Product{},
			&domain.Cart{}, &domain.CartItem{},
			&domain.Order{}, &domain.OrderedItem{},
		); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}
	if cfg.DB.Seed {
		if err := database.Seed(db, log); err != nil {
			log.Fatal("seed failed", zap.Error(err))
		}
	}

	rdb := mustOpenRedis(cfg, log)
	sessions := session.NewStore(rdb, time.Duration(cfg.Session.IdleTimeoutMin)*time.Minute)

	users := repo.NewUserRepo(db)
	products := repo.NewProductRepo(db)
	categories := repo.NewCategoryRepo(db)
	carts := repo.NewCartRepo(db)

	r := router.NewAPIEngine(router.APIDeps{
		Log:          log,
		Sessions:     sessions,
		CookieName:   cfg.Session.CookieName,
		CookieSecure: cfg.Session.CookieSecure,
		Catalog:      service.NewCatalog(products, categories, cache.New(rdb)),
		Cart:         service.NewCart(carts, products, sessions, log),
		Checkout:     service.NewCheckout(carts, sessions, log),
		Accounts:     service.NewAccount(users, sessions, log),
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("storefront api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("storefront api start FAILED", zap.Error(err))
		}
	}()
	log.Info("storefront api started SUCCESS")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("storefront api stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}

func mustOpenRedis(cfg *config.Config, l *zap.Logger) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		l.Fatal("redis ping", zap.Error(err))
	}
	return rdb
}
