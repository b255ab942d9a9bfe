package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-ppm-dashboard/internal/config"
	"go-ppm-dashboard/internal/fixtures"
	"go-ppm-dashboard/internal/handler"
	"go-ppm-dashboard/internal/kv"
	"go-ppm-dashboard/internal/middleware"
	"go-ppm-dashboard/internal/repository"
	"go-ppm-dashboard/internal/service"
	"go-ppm-dashboard/internal/ws"
	"go-ppm-dashboard/pkg/database"
	"go-ppm-dashboard/pkg/jwt"
	"go-ppm-dashboard/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	// 1. Load Env
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// 2. Setup the key-value backend for product snapshots
	ctx := context.Background()
	store, closeStore := openKV(ctx, cfg, log)
	defer closeStore()

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub(log)
	go wsHub.Run()

	// 4. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(store)
	productStore := service.NewProductStore(ctx, productRepo, log)
	alternatePool := service.NewAlternatePool(fixtures.AltNodes(), log)
	dashService := service.NewDashboardService(productStore, wsHub, log, service.DashboardOptions{
		RefreshDelay:     cfg.Dashboard.RefreshDelay,
		SimulatedLatency: cfg.Dashboard.SimulatedLatency,
	})

	report := productStore.LoadReport()
	log.Info("product store ready",
		"products", len(productStore.Products()),
		"usedDefaults", report.UsedDefaults,
		"rejected", len(report.Rejected))

	auth := middleware.NewAuth(jwt.NewSigner(cfg.Auth.Secret, 24*time.Hour), cfg.Auth.Enabled)
	if !cfg.Auth.Enabled {
		log.Warn("authentication disabled, every request has full privileges")
	}

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "PPM Dashboard v1.0",
	})

	// Middleware
	app.Use(fiberlogger.New()) // Logging request
	app.Use(recover.New())     // Panic recovery
	app.Use(cors.New())        // CORS

	// 6. Routes
	handler.RegisterRoutes(app, auth, handler.Handlers{
		Products:   handler.NewProductHandler(productStore, wsHub, log),
		Alternates: handler.NewAlternateHandler(alternatePool),
		Dashboards: handler.NewDashboardHandler(dashService, log),
		WS:         handler.NewWSHandler(wsHub, dashService),
	})

	// 7. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal("server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	dashService.CloseAll()
	if err := app.Shutdown(); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}
	wsHub.Stop()
	log.Info("server exited")
}

// openKV selects the snapshot backend from KV_BACKEND
func openKV(ctx context.Context, cfg *config.Config, log *logger.Logger) (kv.Store, func()) {
	switch cfg.KV.Backend {
	case config.BackendMemory:
		log.Warn("using in-memory kv store, products will not survive a restart")
		return kv.NewMemoryStore(), func() {}

	case config.BackendRedis:
		store, closeFn, err := kv.NewRedisStore(ctx, cfg.KV.RedisAddr, cfg.KV.RedisPrefix)
		if err != nil {
			log.Fatal("redis unavailable", "addr", cfg.KV.RedisAddr, "error", err)
		}
		log.Info("using redis kv store", "addr", cfg.KV.RedisAddr)
		return store, func() {
			if err := closeFn(); err != nil {
				log.Warn("redis close failed", "error", err)
			}
		}
	}

	dsn := cfg.Database.DSN()
	if cfg.Database.Driver == config.DriverSQLite {
		dsn = cfg.Database.SQLitePath
	}
	db, err := database.ConnectDB(database.Options{
		Driver:  cfg.Database.Driver,
		DSN:     dsn,
		Verbose: !cfg.IsProduction(),
	})
	if err != nil {
		log.Fatal("database unavailable", "driver", cfg.Database.Driver, "error", err)
	}
	if err := kv.Migrate(db); err != nil {
		log.Fatal("kv migration failed", "error", err)
	}
	log.Info("using database kv store", "driver", cfg.Database.Driver)
	return kv.NewGormStore(db), func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
}
