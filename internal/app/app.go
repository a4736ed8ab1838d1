// Package app wires configuration into storage, services and HTTP routes.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Skotchmaster/gamestore/internal/events"
	"github.com/Skotchmaster/gamestore/internal/httpserver"
	"github.com/Skotchmaster/gamestore/internal/lock"
	"github.com/Skotchmaster/gamestore/internal/payment"
	"github.com/Skotchmaster/gamestore/internal/repo"
	"github.com/Skotchmaster/gamestore/internal/search"
	"github.com/Skotchmaster/gamestore/internal/service"
	"github.com/Skotchmaster/gamestore/pkg/config"
	"github.com/Skotchmaster/gamestore/pkg/db"
	middleware "github.com/Skotchmaster/gamestore/pkg/middleware/auth"
	"github.com/Skotchmaster/gamestore/pkg/tokens"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type App struct {
	Config config.Config
	Store  service.Store
	Tokens *tokens.Service

	Auth    *service.AuthService
	Cart    *service.CartService
	Orders  *service.OrderService
	Catalog *service.CatalogService

	pingers []func(ctx context.Context) error
	closers []func() error
}

// New opens every backend named by cfg. Optional backends (Kafka,
// Elasticsearch, Redis, Stripe) are skipped when not configured.
func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &App{Config: cfg}

	if err := a.openStore(ctx); err != nil {
		a.Close()
		return nil, err
	}

	var locker lock.Locker = lock.NewLocal()
	if cfg.RedisAddr != "" {
		rl := lock.NewRedis(cfg.RedisAddr, cfg.RedisPassword)
		if err := rl.Ping(ctx); err != nil {
			_ = rl.Close()
			a.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		locker = rl
		a.pingers = append(a.pingers, rl.Ping)
		a.closers = append(a.closers, rl.Close)
	}

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		k := events.NewKafka(cfg.KafkaBrokers)
		publisher = k
		a.closers = append(a.closers, k.Close)
	}

	var searcher service.Searcher
	if cfg.ESURL != "" {
		sc, err := search.NewClient(search.Config{
			URL:      cfg.ESURL,
			Username: cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		})
		if err != nil {
			log.Warn("search_disabled", "error", err)
		} else {
			searcher = sc
		}
	}

	var gateway payment.Gateway = payment.Disabled{}
	if cfg.StripeSecretKey != "" {
		gateway = payment.NewStripe(cfg.StripeSecretKey, cfg.Currency)
	} else {
		log.Warn("payments_disabled", "reason", "STRIPE_SECRET_KEY is empty")
	}

	a.Tokens = tokens.NewService(cfg.JWTSecret, cfg.JWTTTL)
	a.Auth = &service.AuthService{Users: a.Store, Tokens: a.Tokens}
	a.Catalog = &service.CatalogService{Products: a.Store, Search: searcher, Events: publisher}
	a.Cart = &service.CartService{
		Carts:    a.Store,
		Products: a.Store,
		Locker:   locker,
		Events:   publisher,
	}
	a.Orders = &service.OrderService{
		Users:     a.Store,
		Orders:    a.Store,
		Cart:      a.Cart,
		Payments:  gateway,
		Events:    publisher,
		PublicURL: cfg.PublicURL,
		CancelURL: cfg.PaymentCancelURL,
	}
	return a, nil
}

func (a *App) openStore(ctx context.Context) error {
	var (
		gdb *gorm.DB
		err error
	)
	switch a.Config.StorageDriver {
	case config.StorageFile:
		a.Store = repo.NewFileRepo(a.Config.DataDir)
		return nil
	case config.StorageSQLite:
		gdb, err = db.OpenSQLite(ctx, a.Config.SQLitePath)
	case config.StoragePostgres:
		gdb, err = db.Open(ctx, a.Config.DatabaseURL)
	default:
		return fmt.Errorf("unknown storage driver %q", a.Config.StorageDriver)
	}
	if err != nil {
		return err
	}
	a.closers = append(a.closers, func() error { return db.Close(gdb) })

	gr := &repo.GormRepo{DB: gdb}
	if err := gr.Migrate(); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	a.Store = gr
	a.pingers = append(a.pingers, func(ctx context.Context) error {
		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})
	return nil
}

// Ready pings the backends the app cannot work without.
func (a *App) Ready(ctx context.Context) error {
	for _, ping := range a.pingers {
		if err := ping(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) Register(e *echo.Echo) {
	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:    &httpserver.AuthHTTP{Svc: a.Auth},
		CatalogHandler: &httpserver.CatalogHTTP{Svc: a.Catalog},
		CartHandler:    &httpserver.CartHTTP{Svc: a.Cart},
		OrderHandler:   &httpserver.OrderHTTP{Svc: a.Orders, SuccessURL: a.Config.PaymentSuccessURL},
		AuthMW:         middleware.NewBearerMiddleware(a.Tokens, a.Store),
		Ready:          a.Ready,
	})
}

// Close releases backends in reverse order of opening.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
