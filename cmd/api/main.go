package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"

	_ "github.com/jhoicas/Cotiza-api/docs"
	"github.com/jhoicas/Cotiza-api/internal/application/auth"
	"github.com/jhoicas/Cotiza-api/internal/bootstrap"
	"github.com/jhoicas/Cotiza-api/internal/infrastructure/amqp"
	httpRouter "github.com/jhoicas/Cotiza-api/internal/interfaces/http"
	"github.com/jhoicas/Cotiza-api/pkg/config"
	"github.com/jhoicas/Cotiza-api/pkg/logger"
)

// devJWTSecret solo fuera de producción (config.Load exige JWT_SECRET en producción).
const devJWTSecret = "cotiza-dev-secret"

// @title                       Cotiza API
// @version                     1.0
// @description                 Cotizaciones, facturación recurrente y rentabilidad para empresas de servicios.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: se usa un secreto de desarrollo")
		cfg.JWT.Secret = devJWTSecret
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storage, err := bootstrap.OpenStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer storage.Close()

	// Eventos de dominio: sin AMQP_URL se descartan.
	events, closeEvents, err := amqp.Connect(cfg.AMQP.URL, cfg.AMQP.Exchange, log.WithComponent("amqp"))
	if err != nil {
		log.Warn().Err(err).Msg("AMQP no disponible, los eventos no se publicarán")
		events, closeEvents = nil, func() error { return nil }
	}
	defer func() { _ = closeEvents() }()

	svc := bootstrap.NewServices(storage, bootstrap.Options{
		BaseCurrency: cfg.Currency.Base,
		JWT: auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		},
		Events: events,
		Log:    log,
	})

	if minutes := cfg.Recurring.SyncIntervalMinutes; minutes > 0 {
		go svc.Recurring.Loop(ctx, time.Duration(minutes)*time.Minute)
		log.Info().Int("interval_minutes", minutes).Msg("sincronizador de recurrentes activo")
	}

	errs := httpRouter.NewErrorResponder(log.WithComponent("http"))
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: errs.FiberErrorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log.WithComponent("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Cotiza API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.NewRouterDeps(svc, errs))

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
