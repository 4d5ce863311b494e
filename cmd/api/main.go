package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/farmacia-lotes/internal/application/inventory"
	"github.com/jhoicas/farmacia-lotes/internal/domain/entity"
	"github.com/jhoicas/farmacia-lotes/internal/domain/repository"
	"github.com/jhoicas/farmacia-lotes/internal/infrastructure/cache"
	"github.com/jhoicas/farmacia-lotes/internal/infrastructure/memory"
	"github.com/jhoicas/farmacia-lotes/internal/infrastructure/metrics"
	"github.com/jhoicas/farmacia-lotes/internal/infrastructure/postgres"
	"github.com/jhoicas/farmacia-lotes/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/farmacia-lotes/internal/interfaces/http"
	"github.com/jhoicas/farmacia-lotes/pkg/config"
	"github.com/jhoicas/farmacia-lotes/pkg/logger"
)

// storage repos y transacciones del backend elegido en DB_DRIVER.
type storage struct {
	tx        inventory.TxRunner
	lots      repository.LotRepository
	movements repository.MovementRepository
	products  repository.ProductRepository
	locations repository.LocationRepository
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer store.close()

	var stockCache inventory.StockCache = inventory.NoopStockCache{}
	if cfg.Redis.Addr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		stockCache = cache.NewRedisStockCache(client, cfg.Redis.TTL)
	}

	m := metrics.New("farmacia")
	reconciler := inventory.NewStockReconciler(store.tx, stockCache, inventory.ReconcileConfig{
		ExpiryWarning: cfg.Inventory.ExpiryWarning(),
		Strict:        cfg.Inventory.StrictReconcile,
	}, log.Named("reconciler"))
	engine := inventory.NewAllocationEngine(
		store.tx, store.lots, store.movements, store.products,
		inventory.NewDefaultLocationResolver(store.locations),
		reconciler,
		inventory.WithMetrics(m),
		inventory.WithLogger(log.Named("allocation")),
	)
	sweeper := inventory.NewExpirySweeper(store.tx, store.lots, reconciler, m, log.Named("expiry"))
	expiryScheduler := scheduler.NewExpiryScheduler(sweeper, log.Named("scheduler"), scheduler.ExpirySchedulerConfig{
		Enabled:    cfg.Inventory.SweepEnabled,
		Interval:   cfg.Inventory.SweepInterval,
		Timeout:    cfg.Inventory.SweepTimeout,
		RunOnStart: true,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Engine:     engine,
		Reconciler: reconciler,
		Locations:  inventory.NewLocationService(store.locations),
		Expiry:     expiryScheduler,
		Metrics:    m,
		Log:        log.Named("http"),
		JWTSecret:  cfg.JWT.Secret,
	})

	if err := expiryScheduler.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("barrido de vencimientos")
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := expiryScheduler.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del barrido de vencimientos")
	}
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.DB.Driver == "memory" {
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
		return openMemory(ctx)
	}

	dsn := cfg.DB.ConnectionString()
	if cfg.DB.AutoMigrate {
		migrator, err := postgres.NewMigrator(dsn, log.Named("migrate"))
		if err != nil {
			return nil, err
		}
		err = migrator.Up()
		_ = migrator.Close()
		if err != nil {
			return nil, err
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &storage{
		tx:        postgres.NewTxRunner(pool),
		lots:      postgres.NewLotRepository(pool),
		movements: postgres.NewMovementRepository(pool),
		products:  postgres.NewProductRepository(pool),
		locations: postgres.NewLocationRepository(pool),
		close:     pool.Close,
	}, nil
}

// openMemory arranca con una ubicación y un producto de demostración.
func openMemory(ctx context.Context) (*storage, error) {
	store := memory.NewStore()
	store.PutProduct(entity.Product{
		ID:        "demo-paracetamol-500",
		SKU:       "PCT-500",
		Name:      "Paracetamol 500mg x 10",
		SalePrice: decimal.RequireFromString("3500"),
		MinStock:  10,
		Status:    entity.StockStatusOutOfStock,
	})
	if _, err := inventory.NewLocationService(store.Locations()).Create(ctx, inventory.CreateLocationInput{
		Shelf: "E01",
		Slot:  "C01",
		Name:  "Mostrador",
	}); err != nil {
		return nil, err
	}
	return &storage{
		tx:        store,
		lots:      store.Lots(),
		movements: store.Movements(),
		products:  store.Products(),
		locations: store.Locations(),
		close:     func() {},
	}, nil
}
