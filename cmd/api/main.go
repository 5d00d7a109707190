package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/invorya/ledger-api/internal/application/analytics"
	"github.com/invorya/ledger-api/internal/application/auth"
	"github.com/invorya/ledger-api/internal/application/batch"
	"github.com/invorya/ledger-api/internal/application/ledger"
	"github.com/invorya/ledger-api/internal/application/usecase"
	"github.com/invorya/ledger-api/internal/infrastructure/cache"
	infrapdf "github.com/invorya/ledger-api/internal/infrastructure/pdf"
	"github.com/invorya/ledger-api/internal/infrastructure/postgres"
	httpRouter "github.com/invorya/ledger-api/internal/interfaces/http"
	"github.com/invorya/ledger-api/pkg/config"
	"github.com/invorya/ledger-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	branchRepo := postgres.NewBranchRepository(pool)
	uomRepo := postgres.NewUOMRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	balanceRepo := postgres.NewStockBalanceRepository(pool)
	transferRepo := postgres.NewStockTransferRepository(pool)
	batchRepo := postgres.NewBatchRepository(pool)
	batchMovRepo := postgres.NewBatchMovementRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Caché de reportes en Redis. Con REDIS_ADDR vacío queda desactivada
	// y los reportes se calculan siempre contra la base de datos.
	var reportCache analytics.ReportCache
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		reportCache = cache.NewRedisReportCache(redisClient)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("caché de reportes habilitada")
	}

	companyUC := usecase.NewCompanyUseCase(companyRepo)
	branchUC := usecase.NewBranchUseCase(branchRepo)
	itemUC := usecase.NewItemUseCase(itemRepo, uomRepo)
	uomUC := usecase.NewUOMUseCase(uomRepo)
	movementUC := ledger.NewMovementUseCase(txRunner, itemRepo, branchRepo, uomRepo, movementRepo, balanceRepo)
	transferUC := ledger.NewTransferUseCase(txRunner, itemRepo, branchRepo, uomRepo, transferRepo, movementRepo)
	batchUC := batch.NewUseCase(txRunner, itemRepo, branchRepo, batchRepo, batchMovRepo)
	pdfGenerator := infrapdf.NewMarotoReportGenerator()
	analyticsUC := analytics.NewUseCase(analyticsRepo, companyRepo, reportCache, pdfGenerator)
	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Invorya Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC:   companyUC,
		BranchUC:    branchUC,
		ItemUC:      itemUC,
		UOMUC:       uomUC,
		MovementUC:  movementUC,
		TransferUC:  transferUC,
		BatchUC:     batchUC,
		AnalyticsUC: analyticsUC,
		AuthUC:      authUC,
		JWTSecret:   cfg.JWT.Secret,
	})

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

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
