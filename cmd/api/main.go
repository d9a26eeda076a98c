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

	"github.com/jhoicas/mercado-ledger/internal/application/auth"
	"github.com/jhoicas/mercado-ledger/internal/application/catalog"
	"github.com/jhoicas/mercado-ledger/internal/application/events"
	"github.com/jhoicas/mercado-ledger/internal/application/onboarding"
	"github.com/jhoicas/mercado-ledger/internal/application/orders"
	"github.com/jhoicas/mercado-ledger/internal/application/ports"
	"github.com/jhoicas/mercado-ledger/internal/application/registry"
	"github.com/jhoicas/mercado-ledger/internal/infrastructure/eventbus"
	"github.com/jhoicas/mercado-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/mercado-ledger/internal/interfaces/http"
	"github.com/jhoicas/mercado-ledger/pkg/config"
	"github.com/jhoicas/mercado-ledger/pkg/logger"
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

	accountRepo := postgres.NewAccountRepository(pool)
	applicationRepo := postgres.NewApplicationRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	eventRepo := postgres.NewEventRepository(pool)
	treasuryRepo := postgres.NewTreasuryRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Publicación en RabbitMQ solo si hay broker configurado; el log durable
	// de eventos vive en la base en cualquier caso.
	var publisher ports.EventPublisher
	if cfg.AMQP.URL != "" {
		rmq, err := eventbus.NewRabbitMQPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a RabbitMQ")
		}
		defer rmq.Close()
		publisher = rmq
	}

	authUC := auth.NewUseCase(txRunner, accountRepo, publisher, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	registryUC := registry.NewUseCase(txRunner, accountRepo, publisher)
	onboardingUC := onboarding.NewUseCase(
		txRunner, applicationRepo, treasuryRepo, accountRepo, publisher,
		cfg.Market.RequiredStake, cfg.Market.ModuleKey,
	)
	catalogUC := catalog.NewUseCase(txRunner, productRepo, publisher)
	ordersUC := orders.NewUseCase(txRunner, orderRepo, publisher, cfg.Market.AdjustorKey)
	eventsUC := events.NewUseCase(eventRepo)

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
		Title:    "Mercado Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		RegistryUC:   registryUC,
		OnboardingUC: onboardingUC,
		CatalogUC:    catalogUC,
		OrdersUC:     ordersUC,
		EventsUC:     eventsUC,
		JWTSecret:    cfg.JWT.Secret,
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
