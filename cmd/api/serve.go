package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	_ "github.com/jhoicas/Piecework-api/docs" // registra la especificación swag
	"github.com/jhoicas/Piecework-api/internal/application/inventory"
	"github.com/jhoicas/Piecework-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Piecework-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Piecework-api/internal/interfaces/http"
	"github.com/jhoicas/Piecework-api/pkg/telemetry"
)

func runServe(ctx context.Context) error {
	cfg, log, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if cfg.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET es obligatorio")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando aplicación")

	tel, err := telemetry.New(ctx, cfg.Telemetry, version)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("apagado de telemetría")
		}
	}()

	if cfg.DB.AutoMigrate {
		if err := postgres.MigrateUp(cfg.DB.ConnectionString(), log); err != nil {
			return err
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	defer pool.Close()

	batchRepo := postgres.NewPieceworkBatchRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	kitRepo := postgres.NewKitAssemblyRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	pagination := inventory.Pagination{
		DefaultSize: cfg.Pagination.DefaultSize,
		MaxSize:     cfg.Pagination.MaxSize,
	}
	tp := tel.TracerProvider()
	pieceworkUC := inventory.NewPieceworkUseCase(batchRepo, pagination, tp, log.Component("piecework"))
	consumptionUC := inventory.NewConsumptionUseCase(txRunner, kitRepo, tp, log.Component("consumption"))
	manualUC := inventory.NewManualMovementUseCase(txRunner, tp, log.Component("stock"))
	reportingUC := inventory.NewReportingUseCase(movementRepo, pagination, tp)
	countSheetUC := inventory.NewCountSheetUseCase(reportingUC, pdf.NewCountSheetRenderer(cfg.App.Name), tp, log.Component("count_sheet"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Piecework Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "db_unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Piecework:      pieceworkUC,
		Consumption:    consumptionUC,
		ManualMovement: manualUC,
		Reporting:      reportingUC,
		CountSheet:     countSheetUC,
		JWTSecret:      cfg.JWT.Secret,
		JWTIssuer:      cfg.JWT.Issuer,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
	return nil
}
